package yaml

import (
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/marktree"
	eng "github.com/reoring/marktree/internal/engine"
)

type writer struct {
	opts     marktree.Options
	maxDepth int
	path     []string
}

func (w *writer) node(n *marktree.Node, depth int) (*yaml.Node, error) {
	switch n.Kind() {
	case marktree.KindNull:
		if w.opts.Nulls == marktree.NullReject {
			return nil, w.fail(marktree.CodeInvalidValue, "null is not accepted")
		}
		return scalar("!!null", "null"), nil
	case marktree.KindBool, marktree.KindInt, marktree.KindUint:
		s, _ := n.AsString()
		tag := "!!int"
		if n.IsBool() {
			tag = "!!bool"
		}
		return scalar(tag, s), nil
	case marktree.KindFloat:
		f, _ := n.AsFloat()
		return scalar("!!float", formatFloat(f)), nil
	case marktree.KindString:
		s, _ := n.AsString()
		return scalar("!!str", s), nil
	}

	if w.maxDepth > 0 && depth+1 > w.maxDepth {
		return nil, w.fail(marktree.CodeDepthExceeded, "max depth %d exceeded", w.maxDepth)
	}
	out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if n.IsMap() {
		out = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	if w.opts.Indent <= 0 {
		out.Style = yaml.FlowStyle
	}
	children, _ := n.Children()
	for i, c := range children {
		token := strconv.Itoa(i)
		if n.IsMap() {
			if !c.HasKey() {
				return nil, w.fail(marktree.CodeInvalidValue, "map member %d has no key", i)
			}
			token = c.Key()
			out.Content = append(out.Content, scalar("!!str", token))
		}
		w.path = append(w.path, token)
		v, err := w.node(c, depth+1)
		if err != nil {
			return nil, err
		}
		w.path = w.path[:len(w.path)-1]
		out.Content = append(out.Content, v)
	}
	return out, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return marktree.FormatFloat(f)
}

func (w *writer) fail(code, format string, args ...any) error {
	return marktree.Errorf(code, format, args...).WithPath(eng.IssuePointer(w.path))
}
