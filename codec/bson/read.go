package bson

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reoring/marktree"
	eng "github.com/reoring/marktree/internal/engine"
)

type reader struct {
	dups     marktree.DuplicatePolicy
	nulls    marktree.NullPolicy
	maxDepth int
	path     []string
}

func (r *reader) document(raw bson.Raw, out *marktree.Node, depth int) error {
	if r.maxDepth > 0 && depth > r.maxDepth {
		return r.fail(marktree.CodeDepthExceeded, "max depth %d exceeded", r.maxDepth)
	}
	elems, err := raw.Elements()
	if err != nil {
		return r.wrap(err)
	}
	out.SetMap()
	for _, el := range elems {
		key := el.Key()
		if key == "" {
			return r.fail(marktree.CodeInvalidValue, "empty element name")
		}
		if out.Has(key) && r.dups == marktree.DuplicateError {
			return marktree.Errorf(marktree.CodeDuplicateKey, "key '%s' duplicated", key).
				WithPath(eng.IssuePointer(append(r.path, key)))
		}
		child, err := out.Ensure(key)
		if err != nil {
			return err
		}
		child.Reset()
		r.path = append(r.path, key)
		if err := r.value(el.Value(), child, depth); err != nil {
			return err
		}
		r.path = r.path[:len(r.path)-1]
	}
	return nil
}

func (r *reader) array(raw bson.Raw, out *marktree.Node, depth int) error {
	if r.maxDepth > 0 && depth > r.maxDepth {
		return r.fail(marktree.CodeDepthExceeded, "max depth %d exceeded", r.maxDepth)
	}
	vals, err := raw.Values()
	if err != nil {
		return r.wrap(err)
	}
	out.SetList()
	for i, v := range vals {
		elem := marktree.New()
		r.path = append(r.path, strconv.Itoa(i))
		if err := r.value(v, elem, depth); err != nil {
			return err
		}
		r.path = r.path[:len(r.path)-1]
		if err := out.PushBack(elem); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) value(v bson.RawValue, out *marktree.Node, depth int) error {
	switch v.Type {
	case bson.TypeEmbeddedDocument:
		return r.document(v.Document(), out, depth+1)
	case bson.TypeArray:
		return r.array(v.Array(), out, depth+1)
	case bson.TypeDouble:
		out.SetFloat(v.Double())
	case bson.TypeString:
		out.SetString(v.StringValue())
	case bson.TypeBoolean:
		out.SetBool(v.Boolean())
	case bson.TypeInt32:
		out.SetInt(int64(v.Int32()))
	case bson.TypeInt64:
		out.SetInt(v.Int64())
	case bson.TypeNull, bson.TypeUndefined:
		if r.nulls == marktree.NullReject {
			return r.fail(marktree.CodeParseError, "null is not accepted")
		}
		out.Reset()
	case bson.TypeDecimal128:
		setDecimal(out, v.Decimal128())
	case bson.TypeDateTime:
		out.SetString(time.UnixMilli(v.DateTime()).UTC().Format(time.RFC3339Nano))
	case bson.TypeObjectID:
		out.SetString(v.ObjectID().Hex())
	case bson.TypeBinary:
		_, data := v.Binary()
		out.SetString(base64.StdEncoding.EncodeToString(data))
	case bson.TypeTimestamp:
		t, i := v.Timestamp()
		out.SetUint(uint64(t)<<32 | uint64(i))
	case bson.TypeRegex:
		pattern, options := v.Regex()
		out.SetString("/" + pattern + "/" + options)
	case bson.TypeJavaScript:
		out.SetString(v.JavaScript())
	case bson.TypeSymbol:
		out.SetString(v.Symbol())
	default:
		return r.fail(marktree.CodeParseError, "BSON type %s has no node representation", v.Type)
	}
	return nil
}

var (
	bigTen    = big.NewInt(10)
	maxUint64 = new(big.Int).SetUint64(^uint64(0))
)

// setDecimal stores d as Uint when it is a non-negative integer within
// uint64 and as its decimal text otherwise.
func setDecimal(out *marktree.Node, d primitive.Decimal128) {
	if u, ok := decimalUint(d); ok {
		out.SetUint(u)
		return
	}
	out.SetString(d.String())
}

func decimalUint(d primitive.Decimal128) (uint64, bool) {
	bi, exp, err := d.BigInt()
	if err != nil || bi.Sign() < 0 {
		return 0, false
	}
	if bi.Sign() == 0 {
		return 0, true
	}
	switch {
	case exp > 0:
		if exp > 20 {
			return 0, false
		}
		bi.Mul(bi, new(big.Int).Exp(bigTen, big.NewInt(int64(exp)), nil))
	case exp < 0:
		if exp < -34 {
			return 0, false
		}
		q, m := new(big.Int).QuoRem(bi, new(big.Int).Exp(bigTen, big.NewInt(int64(-exp)), nil), new(big.Int))
		if m.Sign() != 0 {
			return 0, false
		}
		bi = q
	}
	if bi.Cmp(maxUint64) > 0 {
		return 0, false
	}
	return bi.Uint64(), true
}

func (r *reader) wrap(err error) error {
	return &marktree.Error{Code: marktree.CodeParseError, Path: eng.IssuePointer(r.path), Message: "malformed BSON", Cause: err}
}

func (r *reader) fail(code, format string, args ...any) error {
	return &marktree.Error{Code: code, Path: eng.IssuePointer(r.path), Message: fmt.Sprintf(format, args...)}
}
