package yaml

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/marktree"
	eng "github.com/reoring/marktree/internal/engine"
)

// DuplicateKeyError reports a key repeated within one YAML mapping with the
// positions of both occurrences. It is the Cause of the duplicate_key error
// returned by Read.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

type reader struct {
	dups     marktree.DuplicatePolicy
	nulls    marktree.NullPolicy
	maxDepth int
	path     []string
	active   map[*yaml.Node]bool // anchors being expanded
}

func (r *reader) node(y *yaml.Node, out *marktree.Node, depth int) error {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			out.Reset()
			return nil
		}
		return r.node(y.Content[0], out, depth)
	case yaml.AliasNode:
		return r.alias(y, out, depth)
	case yaml.MappingNode:
		if err := r.enter(depth, y); err != nil {
			return err
		}
		out.SetMap()
		return r.mapping(y, out, depth+1)
	case yaml.SequenceNode:
		if err := r.enter(depth, y); err != nil {
			return err
		}
		out.SetList()
		for i, c := range y.Content {
			elem := marktree.New()
			r.path = append(r.path, strconv.Itoa(i))
			if err := r.node(c, elem, depth+1); err != nil {
				return err
			}
			r.path = r.path[:len(r.path)-1]
			if err := out.PushBack(elem); err != nil {
				return err
			}
		}
		return nil
	case yaml.ScalarNode:
		return r.scalar(y, out)
	}
	return r.fail(y, marktree.CodeParseError, "unsupported YAML node kind %d", y.Kind)
}

func (r *reader) enter(depth int, y *yaml.Node) error {
	if r.maxDepth > 0 && depth+1 > r.maxDepth {
		return r.fail(y, marktree.CodeDepthExceeded, "max depth %d exceeded", r.maxDepth)
	}
	return nil
}

func (r *reader) alias(y *yaml.Node, out *marktree.Node, depth int) error {
	target := y.Alias
	if target == nil {
		return r.fail(y, marktree.CodeParseError, "unknown anchor %q", y.Value)
	}
	if r.active[target] {
		return r.fail(y, marktree.CodeParseError, "anchor %q refers to itself", y.Value)
	}
	if r.active == nil {
		r.active = make(map[*yaml.Node]bool)
	}
	r.active[target] = true
	defer delete(r.active, target)
	return r.node(target, out, depth)
}

func (r *reader) mapping(y *yaml.Node, out *marktree.Node, depth int) error {
	first := make(map[string][2]int, len(y.Content)/2)
	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.Kind == yaml.AliasNode && k.Alias != nil {
			k = k.Alias
		}
		if k.Kind != yaml.ScalarNode {
			return r.fail(k, marktree.CodeParseError, "mapping keys must be scalars")
		}
		if k.ShortTag() == "!!merge" {
			if err := r.merge(v, out, depth); err != nil {
				return err
			}
			continue
		}
		key := k.Value
		if key == "" {
			return r.fail(k, marktree.CodeInvalidValue, "empty mapping key")
		}
		if pos, dup := first[key]; dup && r.dups == marktree.DuplicateError {
			cause := &DuplicateKeyError{Key: key, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			return &marktree.Error{
				Code:    marktree.CodeDuplicateKey,
				Path:    eng.IssuePointer(append(r.path, key)),
				Message: "key '" + key + "' duplicated",
				Cause:   cause,
			}
		}
		if _, dup := first[key]; !dup {
			first[key] = [2]int{k.Line, k.Column}
		}

		child, err := out.Ensure(key)
		if err != nil {
			return err
		}
		child.Reset()
		r.path = append(r.path, key)
		if err := r.node(v, child, depth); err != nil {
			return err
		}
		r.path = r.path[:len(r.path)-1]
	}
	return nil
}

// merge applies a "<<" value: a mapping or a sequence of mappings whose
// members fill keys not already present. Earlier sources win and explicit
// keys override merged ones wherever they appear.
func (r *reader) merge(v *yaml.Node, out *marktree.Node, depth int) error {
	sources := []*yaml.Node{v}
	if resolve(v).Kind == yaml.SequenceNode {
		sources = resolve(v).Content
	}
	for _, s := range sources {
		if resolve(s).Kind != yaml.MappingNode {
			return r.fail(s, marktree.CodeParseError, "merge value must be a mapping")
		}
		tmp := marktree.New()
		if err := r.node(s, tmp, depth-1); err != nil {
			return err
		}
		children, _ := tmp.Children()
		for _, c := range children {
			if out.Has(c.Key()) {
				continue
			}
			dst, err := out.Ensure(c.Key())
			if err != nil {
				return err
			}
			dst.Assign(c)
		}
	}
	return nil
}

func resolve(y *yaml.Node) *yaml.Node {
	for y.Kind == yaml.AliasNode && y.Alias != nil {
		y = y.Alias
	}
	return y
}

func (r *reader) scalar(y *yaml.Node, out *marktree.Node) error {
	switch y.ShortTag() {
	case "!!null":
		if r.nulls == marktree.NullReject {
			return r.fail(y, marktree.CodeParseError, "null is not accepted")
		}
		out.Reset()
	case "!!bool":
		b, ok := parseBool(y.Value)
		if !ok {
			return r.fail(y, marktree.CodeParseError, "invalid !!bool %q", y.Value)
		}
		out.SetBool(b)
	case "!!int":
		if err := setInt(out, y.Value); err != nil {
			return r.fail(y, marktree.CodeParseError, "invalid !!int %q", y.Value)
		}
	case "!!float":
		f, err := parseFloat(y.Value)
		if err != nil {
			return r.fail(y, marktree.CodeParseError, "invalid !!float %q", y.Value)
		}
		out.SetFloat(f)
	default:
		out.SetString(y.Value)
	}
	return nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "y":
		return true, true
	case "false", "no", "off", "n":
		return false, true
	}
	return false, false
}

// setInt follows the JSON classification: negative literals are signed,
// others unsigned, and decimal literals outside 64 bits widen to float64.
// Base prefixes (0x, 0o, 0b) and digit separators are accepted.
func setInt(out *marktree.Node, s string) error {
	v := strings.ReplaceAll(s, "_", "")
	if strings.HasPrefix(v, "-") {
		i, err := strconv.ParseInt(v, 0, 64)
		if err == nil {
			out.SetInt(i)
			return nil
		}
		if !isRange(err) {
			return err
		}
	} else {
		u, err := strconv.ParseUint(strings.TrimPrefix(v, "+"), 0, 64)
		if err == nil {
			out.SetUint(u)
			return nil
		}
		if !isRange(err) {
			return err
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	out.SetFloat(f)
	return nil
}

func isRange(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func parseFloat(s string) (float64, error) {
	switch strings.ToLower(s) {
	case ".nan":
		return math.NaN(), nil
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
}

func (r *reader) fail(y *yaml.Node, code, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if y.Line > 0 {
		msg = fmt.Sprintf("%s (line %d, column %d)", msg, y.Line, y.Column)
	}
	return &marktree.Error{Code: code, Path: eng.IssuePointer(r.path), Message: msg}
}
