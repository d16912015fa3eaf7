package marktree

import (
	"math"
	"strconv"
	"strings"
)

// Equal reports structural equality: same kind, same key, same scalar value,
// List children pairwise equal in order and Map children matched by key with
// equal subtrees regardless of order. NaN equals NaN.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.key != other.key {
		return false
	}
	return n.equalValue(other)
}

// EqualValue is Equal without comparing the two root keys.
func (n *Node) EqualValue(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.equalValue(other)
}

func (n *Node) equalValue(other *Node) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindNull:
		return true
	case KindBool:
		return n.b == other.b
	case KindInt:
		return n.i == other.i
	case KindUint:
		return n.u == other.u
	case KindFloat:
		return n.f == other.f || (math.IsNaN(n.f) && math.IsNaN(other.f))
	case KindString:
		return n.s == other.s
	case KindList:
		if len(n.children) != len(other.children) {
			return false
		}
		for i, c := range n.children {
			if !c.Equal(other.children[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(n.children) != len(other.children) {
			return false
		}
		for _, c := range n.children {
			i := other.find(c.key)
			if i < 0 || !c.Equal(other.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the node in a compact, JSON-like debug form. Null renders as
// null and floats always show a fraction or exponent.
func (n *Node) String() string {
	b := &strings.Builder{}
	n.writeDebug(b)
	return b.String()
}

func (n *Node) writeDebug(b *strings.Builder) {
	switch n.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(n.b))
	case KindInt:
		b.WriteString(strconv.FormatInt(n.i, 10))
	case KindUint:
		b.WriteString(strconv.FormatUint(n.u, 10))
	case KindFloat:
		b.WriteString(FormatFloat(n.f))
	case KindString:
		b.WriteString(strconv.Quote(n.s))
	case KindList:
		b.WriteByte('[')
		for i, c := range n.children {
			if i > 0 {
				b.WriteByte(',')
			}
			c.writeDebug(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, c := range n.children {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(c.key))
			b.WriteByte(':')
			c.writeDebug(b)
		}
		b.WriteByte('}')
	}
}

// FormatFloat formats f in its shortest round-tripping form, adding ".0" when
// the result would otherwise read back as an integer. NaN and infinities are
// rendered as "NaN", "+Inf" and "-Inf".
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
