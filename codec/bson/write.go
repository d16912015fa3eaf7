package bson

import (
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reoring/marktree"
	eng "github.com/reoring/marktree/internal/engine"
)

type writer struct {
	nulls    marktree.NullPolicy
	maxDepth int
	path     []string
}

func (w *writer) document(n *marktree.Node, depth int) (bson.D, error) {
	if w.maxDepth > 0 && depth > w.maxDepth {
		return nil, w.fail(marktree.CodeDepthExceeded, "max depth %d exceeded", w.maxDepth)
	}
	doc := make(bson.D, 0, n.Len())
	children, _ := n.Children()
	for i, c := range children {
		if !c.HasKey() {
			return nil, w.fail(marktree.CodeInvalidValue, "map member %d has no key", i)
		}
		w.path = append(w.path, c.Key())
		v, err := w.value(c, depth)
		if err != nil {
			return nil, err
		}
		w.path = w.path[:len(w.path)-1]
		doc = append(doc, bson.E{Key: c.Key(), Value: v})
	}
	return doc, nil
}

func (w *writer) array(n *marktree.Node, depth int) (bson.A, error) {
	if w.maxDepth > 0 && depth > w.maxDepth {
		return nil, w.fail(marktree.CodeDepthExceeded, "max depth %d exceeded", w.maxDepth)
	}
	arr := make(bson.A, 0, n.Len())
	children, _ := n.Children()
	for i, c := range children {
		w.path = append(w.path, strconv.Itoa(i))
		v, err := w.value(c, depth)
		if err != nil {
			return nil, err
		}
		w.path = w.path[:len(w.path)-1]
		arr = append(arr, v)
	}
	return arr, nil
}

func (w *writer) value(n *marktree.Node, depth int) (any, error) {
	switch n.Kind() {
	case marktree.KindNull:
		if w.nulls == marktree.NullReject {
			return nil, w.fail(marktree.CodeInvalidValue, "null is not accepted")
		}
		return nil, nil
	case marktree.KindBool:
		b, _ := n.AsBool()
		return b, nil
	case marktree.KindInt:
		i, _ := n.AsInt()
		return i, nil
	case marktree.KindUint:
		u, _ := n.AsUint()
		if u <= math.MaxInt64 {
			return int64(u), nil
		}
		d, err := primitive.ParseDecimal128(strconv.FormatUint(u, 10))
		if err != nil {
			return nil, w.fail(marktree.CodeInvalidValue, "%d: %v", u, err)
		}
		return d, nil
	case marktree.KindFloat:
		f, _ := n.AsFloat()
		return f, nil
	case marktree.KindString:
		s, _ := n.AsString()
		return s, nil
	case marktree.KindList:
		return w.array(n, depth+1)
	default:
		return w.document(n, depth+1)
	}
}

func (w *writer) fail(code, format string, args ...any) error {
	return marktree.Errorf(code, format, args...).WithPath(eng.IssuePointer(w.path))
}
