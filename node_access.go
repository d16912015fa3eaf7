package marktree

import (
	"iter"
	"slices"
	"strconv"
)

// indexThreshold is the map size above which Ensure keeps a key index.
const indexThreshold = 16

// Ensure returns the child stored under key, creating it when absent.
//
// Ensure mutates: a Null receiver becomes a Map, and a missing key is appended
// as a new Null child, even when the caller only meant to look. Use At for a
// read that never changes the tree. A receiver holding a List or a scalar
// fails with ErrTypeMismatch; an empty key fails with ErrInvalidValue. Both
// failures leave the receiver unchanged.
func (n *Node) Ensure(key string) (*Node, error) {
	if key == "" {
		return nil, Errorf(CodeInvalidValue, "Ensure: empty key")
	}
	switch n.kind {
	case KindNull:
		n.kind = KindMap
	case KindMap:
	default:
		return nil, mismatch("Ensure", n.kind, "map")
	}
	if i := n.find(key); i >= 0 {
		return n.children[i], nil
	}
	child := &Node{key: key}
	n.appendChild(child)
	return child, nil
}

// At returns the child stored under key without modifying the tree.
func (n *Node) At(key string) (*Node, error) {
	if n.kind != KindMap {
		return nil, mismatch("At", n.kind, "map")
	}
	i := n.find(key)
	if i < 0 {
		return nil, &Error{Code: CodeKeyNotFound, Message: "At: no child " + strconv.Quote(key)}
	}
	return n.children[i], nil
}

// Has reports whether n is a Map with a child under key.
func (n *Node) Has(key string) bool {
	return n.kind == KindMap && n.find(key) >= 0
}

// Index returns the i-th child of a List or Map.
func (n *Node) Index(i int) (*Node, error) {
	if !n.kind.IsContainer() {
		return nil, mismatch("Index", n.kind, "list or map")
	}
	if i < 0 || i >= len(n.children) {
		return nil, Errorf(CodeIndexOutOfRange, "Index: %d not in [0,%d)", i, len(n.children))
	}
	return n.children[i], nil
}

// PushBack appends a copy of child. A Null receiver becomes a List; a Map or
// scalar receiver fails with ErrTypeMismatch. A nil child appends a Null.
func (n *Node) PushBack(child *Node) error {
	switch n.kind {
	case KindNull:
		n.kind = KindList
	case KindList:
	default:
		return mismatch("PushBack", n.kind, "list")
	}
	n.appendChild(cloneUnkeyed(child))
	return nil
}

// Delete removes the child stored under key from a Map.
func (n *Node) Delete(key string) error {
	if n.kind != KindMap {
		return mismatch("Delete", n.kind, "map")
	}
	i := n.find(key)
	if i < 0 {
		return &Error{Code: CodeKeyNotFound, Message: "Delete: no child " + strconv.Quote(key)}
	}
	n.children = slices.Delete(n.children, i, i+1)
	n.index = nil
	return nil
}

// Trim removes, depth first, every descendant that is still Null. Containers
// emptied this way are kept.
func (n *Node) Trim() {
	if !n.kind.IsContainer() {
		return
	}
	n.children = slices.DeleteFunc(n.children, func(c *Node) bool {
		if c.kind == KindNull {
			return true
		}
		c.Trim()
		return false
	})
	n.index = nil
}

// Children iterates over the immediate children of a List or Map in order.
// Scalar and Null nodes fail with ErrNotAContainer.
func (n *Node) Children() (iter.Seq2[int, *Node], error) {
	if !n.kind.IsContainer() {
		return nil, Errorf(CodeNotAContainer, "Children: node is %s", n.kind)
	}
	children := n.children
	return func(yield func(int, *Node) bool) {
		for i, c := range children {
			if !yield(i, c) {
				return
			}
		}
	}, nil
}

// Keys returns the keys of a Map in order.
func (n *Node) Keys() ([]string, error) {
	switch n.kind {
	case KindMap:
	case KindList:
		return nil, mismatch("Keys", n.kind, "map")
	default:
		return nil, Errorf(CodeNotAContainer, "Keys: node is %s", n.kind)
	}
	keys := make([]string, len(n.children))
	for i, c := range n.children {
		keys[i] = c.key
	}
	return keys, nil
}

func (n *Node) find(key string) int {
	if n.index != nil {
		if i, ok := n.index[key]; ok {
			return i
		}
		return -1
	}
	for i, c := range n.children {
		if c.key == key {
			return i
		}
	}
	return -1
}

func (n *Node) appendChild(c *Node) {
	n.children = append(n.children, c)
	if n.kind != KindMap {
		return
	}
	if n.index != nil {
		if _, ok := n.index[c.key]; !ok {
			n.index[c.key] = len(n.children) - 1
		}
		return
	}
	if len(n.children) > indexThreshold {
		n.buildIndex()
	}
}

func (n *Node) buildIndex() {
	n.index = make(map[string]int, len(n.children))
	for i, c := range n.children {
		if _, ok := n.index[c.key]; !ok {
			n.index[c.key] = i
		}
	}
}
