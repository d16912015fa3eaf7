package marktree

import (
	"fmt"
)

// Kind is the discriminant of a Node. It encodes the structural category
// (Null, Scalar, List, Map) together with the scalar kind, so the two can never
// disagree.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt  // signed integral; only negative values carry this kind
	KindUint // integral tagged unsigned
	KindFloat
	KindString
	KindList
	KindMap
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindUint:   "uint",
	KindFloat:  "float",
	KindString: "string",
	KindList:   "list",
	KindMap:    "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsScalar reports whether k is one of the scalar kinds.
func (k Kind) IsScalar() bool { return k >= KindBool && k <= KindString }

// IsContainer reports whether k is KindList or KindMap.
func (k Kind) IsContainer() bool { return k == KindList || k == KindMap }

// Node is a format-agnostic tree value. The zero Node is Null and ready to use.
//
// A Node owns its children exclusively: PushBack, Assign, NewList and NewMap
// copy their arguments, and pointers handed out by Ensure, At and Index refer
// to children owned by the receiver. Nodes are not safe for concurrent
// mutation.
type Node struct {
	kind Kind
	key  string

	b bool
	i int64
	u uint64
	f float64
	s string

	children []*Node

	// index maps key to the first child position for large maps. It is only
	// built and maintained on mutating paths and dropped on structural change.
	index map[string]int
}

// KeyValue is one member of a map literal.
type KeyValue struct {
	Key   string
	Value *Node
}

// Field is shorthand for KeyValue{Key: key, Value: v}.
func Field(key string, v *Node) KeyValue { return KeyValue{Key: key, Value: v} }

// New returns a Null node.
func New() *Node { return &Node{} }

func NewBool(v bool) *Node {
	n := &Node{}
	n.SetBool(v)
	return n
}

func NewInt(v int64) *Node {
	n := &Node{}
	n.SetInt(v)
	return n
}

func NewUint(v uint64) *Node {
	n := &Node{}
	n.SetUint(v)
	return n
}

func NewFloat(v float64) *Node {
	n := &Node{}
	n.SetFloat(v)
	return n
}

func NewString(v string) *Node {
	n := &Node{}
	n.SetString(v)
	return n
}

// NewList returns a List holding copies of children. A nil child becomes a
// Null element.
func NewList(children ...*Node) *Node {
	n := &Node{kind: KindList, children: make([]*Node, 0, len(children))}
	for _, c := range children {
		n.appendChild(cloneUnkeyed(c))
	}
	return n
}

// NewMap returns a Map holding copies of the pair values in order. A later
// pair with a key already present replaces the earlier value in place.
// NewMap is meant for literal construction and panics on an empty key.
func NewMap(pairs ...KeyValue) *Node {
	n := &Node{kind: KindMap, children: make([]*Node, 0, len(pairs))}
	for _, p := range pairs {
		if p.Key == "" {
			panic("marktree: NewMap: empty key")
		}
		child, _ := n.Ensure(p.Key)
		child.Assign(p.Value)
	}
	return n
}

// Kind returns the node's discriminant.
func (n *Node) Kind() Kind { return n.kind }

func (n *Node) IsNull() bool    { return n.kind == KindNull }
func (n *Node) IsDefined() bool { return n.kind != KindNull }
func (n *Node) IsScalar() bool  { return n.kind.IsScalar() }
func (n *Node) IsList() bool    { return n.kind == KindList }
func (n *Node) IsMap() bool     { return n.kind == KindMap }
func (n *Node) IsBool() bool    { return n.kind == KindBool }
func (n *Node) IsString() bool  { return n.kind == KindString }
func (n *Node) IsFloat() bool   { return n.kind == KindFloat }

// IsIntegral reports whether the node holds a signed or unsigned integer.
func (n *Node) IsIntegral() bool { return n.kind == KindInt || n.kind == KindUint }

// IsUnsigned reports whether the node is an integer tagged unsigned.
func (n *Node) IsUnsigned() bool { return n.kind == KindUint }

// IsNumeric reports whether the node holds any number.
func (n *Node) IsNumeric() bool { return n.IsIntegral() || n.kind == KindFloat }

// Key returns the key under which the node sits in its parent map, or "".
func (n *Node) Key() string { return n.key }

// HasKey reports whether the node is a keyed map child.
func (n *Node) HasKey() bool { return n.key != "" }

// Len returns the number of children of a List or Map, 0 otherwise.
func (n *Node) Len() int {
	if !n.kind.IsContainer() {
		return 0
	}
	return len(n.children)
}

// Reset returns the node to Null, discarding its payload and all descendants.
// The key is kept.
func (n *Node) Reset() { n.clearPayload() }

// Clone returns a deep copy of n, key included.
func (n *Node) Clone() *Node {
	if n == nil {
		return &Node{}
	}
	c := &Node{
		kind: n.kind,
		key:  n.key,
		b:    n.b,
		i:    n.i,
		u:    n.u,
		f:    n.f,
		s:    n.s,
	}
	if n.children != nil {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			c.children[i] = child.Clone()
		}
	}
	if n.index != nil {
		c.buildIndex()
	}
	return c
}

// Assign replaces the node's payload with a deep copy of other's payload.
// The receiver keeps its own key. Assigning a nil node resets to Null.
func (n *Node) Assign(other *Node) {
	if other == n {
		return
	}
	src := other.Clone()
	key := n.key
	*n = *src
	n.key = key
}

func cloneUnkeyed(n *Node) *Node {
	c := n.Clone()
	c.key = ""
	return c
}
