package marktree

import (
	"math"
	"reflect"
	"strconv"
)

// SetBool makes the node a Boolean scalar.
func (n *Node) SetBool(v bool) {
	n.clearPayload()
	n.kind = KindBool
	n.b = v
}

// SetInt makes the node an integral scalar. Values >= 0 are tagged unsigned.
func (n *Node) SetInt(v int64) {
	if v >= 0 {
		n.SetUint(uint64(v))
		return
	}
	n.clearPayload()
	n.kind = KindInt
	n.i = v
}

// SetUint makes the node an integral scalar tagged unsigned.
func (n *Node) SetUint(v uint64) {
	n.clearPayload()
	n.kind = KindUint
	n.u = v
}

// SetFloat makes the node a floating scalar.
func (n *Node) SetFloat(v float64) {
	n.clearPayload()
	n.kind = KindFloat
	n.f = v
}

// SetString makes the node a String scalar.
func (n *Node) SetString(v string) {
	n.clearPayload()
	n.kind = KindString
	n.s = v
}

// SetList makes the node an empty List.
func (n *Node) SetList() {
	n.clearPayload()
	n.kind = KindList
}

// SetMap makes the node an empty Map.
func (n *Node) SetMap() {
	n.clearPayload()
	n.kind = KindMap
}

// Set assigns v, classifying it by its Go kind: booleans, unsigned integers,
// signed integers, floats and strings (named types included). A nil v resets
// the node to Null and a *Node or Node is deep-copied. Any other type fails
// with ErrTypeMismatch and leaves the node unchanged.
func (n *Node) Set(v any) error {
	switch x := v.(type) {
	case nil:
		n.Reset()
		return nil
	case *Node:
		n.Assign(x)
		return nil
	case Node:
		n.Assign(&x)
		return nil
	case bool:
		n.SetBool(x)
		return nil
	case string:
		n.SetString(x)
		return nil
	case int:
		n.SetInt(int64(x))
		return nil
	case int64:
		n.SetInt(x)
		return nil
	case uint64:
		n.SetUint(x)
		return nil
	case float64:
		n.SetFloat(x)
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		n.SetBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n.SetInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n.SetUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		n.SetFloat(rv.Float())
	case reflect.String:
		n.SetString(rv.String())
	default:
		return Errorf(CodeTypeMismatch, "cannot assign value of type %T", v)
	}
	return nil
}

// AsBool returns the value of a Boolean scalar.
func (n *Node) AsBool() (bool, error) {
	if err := n.requireScalar("AsBool"); err != nil {
		return false, err
	}
	if n.kind != KindBool {
		return false, mismatch("AsBool", n.kind, "bool")
	}
	return n.b, nil
}

// AsInt returns an integral scalar as int64. Unsigned values above
// math.MaxInt64 fail with ErrTypeMismatch.
func (n *Node) AsInt() (int64, error) {
	if err := n.requireScalar("AsInt"); err != nil {
		return 0, err
	}
	switch n.kind {
	case KindInt:
		return n.i, nil
	case KindUint:
		if n.u > math.MaxInt64 {
			return 0, Errorf(CodeTypeMismatch, "AsInt: %d overflows int64", n.u)
		}
		return int64(n.u), nil
	default:
		return 0, mismatch("AsInt", n.kind, "integer")
	}
}

// AsUint returns an integral scalar as uint64. Negative values fail with
// ErrTypeMismatch; there is no two's-complement wraparound.
func (n *Node) AsUint() (uint64, error) {
	if err := n.requireScalar("AsUint"); err != nil {
		return 0, err
	}
	switch n.kind {
	case KindUint:
		return n.u, nil
	case KindInt:
		return 0, Errorf(CodeTypeMismatch, "AsUint: negative value %d", n.i)
	default:
		return 0, mismatch("AsUint", n.kind, "integer")
	}
}

// AsFloat returns any numeric scalar widened to float64.
func (n *Node) AsFloat() (float64, error) {
	if err := n.requireScalar("AsFloat"); err != nil {
		return 0, err
	}
	switch n.kind {
	case KindFloat:
		return n.f, nil
	case KindInt:
		return float64(n.i), nil
	case KindUint:
		return float64(n.u), nil
	default:
		return 0, mismatch("AsFloat", n.kind, "number")
	}
}

// AsString renders any scalar as text: strings as is, booleans as
// "true"/"false" and numbers in their shortest decimal form.
func (n *Node) AsString() (string, error) {
	if err := n.requireScalar("AsString"); err != nil {
		return "", err
	}
	switch n.kind {
	case KindBool:
		return strconv.FormatBool(n.b), nil
	case KindInt:
		return strconv.FormatInt(n.i, 10), nil
	case KindUint:
		return strconv.FormatUint(n.u, 10), nil
	case KindFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 64), nil
	default:
		return n.s, nil
	}
}

// Scalar is the set of Go types Extract converts to.
type Scalar interface {
	~bool | ~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Extract converts the node's scalar to T following the As* rules. Narrowing
// that would lose the value fails with ErrTypeMismatch.
func Extract[T Scalar](n *Node) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	switch rv.Kind() {
	case reflect.Bool:
		b, err := n.AsBool()
		if err != nil {
			return out, err
		}
		rv.SetBool(b)
	case reflect.String:
		s, err := n.AsString()
		if err != nil {
			return out, err
		}
		rv.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := n.AsInt()
		if err != nil {
			return out, err
		}
		if rv.OverflowInt(i) {
			return out, Errorf(CodeTypeMismatch, "Extract: %d overflows %s", i, rv.Type())
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := n.AsUint()
		if err != nil {
			return out, err
		}
		if rv.OverflowUint(u) {
			return out, Errorf(CodeTypeMismatch, "Extract: %d overflows %s", u, rv.Type())
		}
		rv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := n.AsFloat()
		if err != nil {
			return out, err
		}
		if rv.Kind() == reflect.Float32 && !math.IsInf(f, 0) && !math.IsNaN(f) && rv.OverflowFloat(f) {
			return out, Errorf(CodeTypeMismatch, "Extract: %g overflows %s", f, rv.Type())
		}
		rv.SetFloat(f)
	}
	return out, nil
}

func (n *Node) requireScalar(op string) error {
	if n.kind.IsScalar() {
		return nil
	}
	return Errorf(CodeNotAValue, "%s: node is %s", op, n.kind)
}

func mismatch(op string, have Kind, want string) error {
	return Errorf(CodeTypeMismatch, "%s: node is %s, want %s", op, have, want)
}

// clearPayload drops the payload and children but keeps the key.
func (n *Node) clearPayload() {
	key := n.key
	*n = Node{key: key}
}
