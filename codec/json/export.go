package json

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/marktree"
	eng "github.com/reoring/marktree/internal/engine"
)

type exporter struct {
	buf      bytes.Buffer
	indent   int
	maxDepth int
	nulls    marktree.NullPolicy
	path     []string
	enc      *j.Encoder
}

func newExporter(o marktree.Options) *exporter {
	return &exporter{indent: o.Indent, maxDepth: o.Depth(), nulls: o.Nulls}
}

func (e *exporter) value(n *marktree.Node, depth int) error {
	switch n.Kind() {
	case marktree.KindNull:
		if e.nulls == marktree.NullReject {
			return e.fail(marktree.CodeInvalidValue, "null is not accepted")
		}
		e.buf.WriteString("null")
	case marktree.KindBool:
		b, _ := n.AsBool()
		e.buf.WriteString(strconv.FormatBool(b))
	case marktree.KindInt:
		i, _ := n.AsInt()
		e.buf.WriteString(strconv.FormatInt(i, 10))
	case marktree.KindUint:
		u, _ := n.AsUint()
		e.buf.WriteString(strconv.FormatUint(u, 10))
	case marktree.KindFloat:
		f, _ := n.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return e.fail(marktree.CodeInvalidValue, "%v has no JSON representation", f)
		}
		e.buf.WriteString(marktree.FormatFloat(f))
	case marktree.KindString:
		s, _ := n.AsString()
		return e.str(s)
	case marktree.KindList, marktree.KindMap:
		return e.container(n, depth+1)
	}
	return nil
}

func (e *exporter) container(n *marktree.Node, depth int) error {
	if e.maxDepth > 0 && depth > e.maxDepth {
		return e.fail(marktree.CodeDepthExceeded, "max depth %d exceeded", e.maxDepth)
	}
	isMap := n.IsMap()
	open, closing := byte('['), byte(']')
	if isMap {
		open, closing = '{', '}'
	}
	e.buf.WriteByte(open)
	if n.Len() == 0 {
		e.buf.WriteByte(closing)
		return nil
	}
	children, _ := n.Children()
	for i, c := range children {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth)
		token := strconv.Itoa(i)
		if isMap {
			if !c.HasKey() {
				return e.fail(marktree.CodeInvalidValue, "map member %d has no key", i)
			}
			token = c.Key()
			if err := e.str(token); err != nil {
				return err
			}
			e.buf.WriteByte(':')
			if e.indent > 0 {
				e.buf.WriteByte(' ')
			}
		}
		e.path = append(e.path, token)
		if err := e.value(c, depth); err != nil {
			return err
		}
		e.path = e.path[:len(e.path)-1]
	}
	e.newline(depth - 1)
	e.buf.WriteByte(closing)
	return nil
}

func (e *exporter) newline(depth int) {
	if e.indent <= 0 {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(" ", depth*e.indent))
}

func (e *exporter) str(s string) error {
	if e.enc == nil {
		e.enc = j.NewEncoder(&e.buf)
		e.enc.SetEscapeHTML(false)
	}
	if err := e.enc.Encode(s); err != nil {
		return &marktree.Error{Code: marktree.CodeInvalidValue, Path: e.pointer(), Message: "cannot encode string", Cause: err}
	}
	// Encode terminates every value with a newline.
	e.buf.Truncate(e.buf.Len() - 1)
	return nil
}

func (e *exporter) fail(code, format string, args ...any) error {
	return marktree.Errorf(code, format, args...).WithPath(e.pointer())
}

func (e *exporter) pointer() string { return eng.IssuePointer(e.path) }
