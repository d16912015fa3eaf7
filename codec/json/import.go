package json

import (
	stdjson "encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/reoring/marktree"
	eng "github.com/reoring/marktree/internal/engine"
)

type importer struct {
	src   *eng.Enforcer
	nulls marktree.NullPolicy
}

func (im *importer) root() (*marktree.Node, error) {
	tok, err := im.src.NextToken()
	if err != nil {
		return nil, im.fail(err)
	}
	out := marktree.New()
	if err := im.value(tok, out); err != nil {
		return nil, im.fail(err)
	}
	if err := eng.ExpectEnd(im.src); err != nil {
		return nil, im.fail(err)
	}
	return out, nil
}

func (im *importer) value(tok eng.Token, out *marktree.Node) error {
	switch tok.Kind {
	case eng.KindBeginObject:
		return im.object(out)
	case eng.KindBeginArray:
		return im.array(out)
	case eng.KindString:
		out.SetString(tok.String)
	case eng.KindBool:
		out.SetBool(tok.Bool)
	case eng.KindNumber:
		return setNumber(out, tok.Number)
	case eng.KindNull:
		if im.nulls == marktree.NullReject {
			return marktree.Errorf(marktree.CodeParseError, "null is not accepted")
		}
		out.Reset()
	default:
		return eng.Unexpected(tok, im.src.Path())
	}
	return nil
}

func (im *importer) object(out *marktree.Node) error {
	out.SetMap()
	for {
		tok, err := im.src.NextToken()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case eng.KindEndObject:
			return nil
		case eng.KindKey:
		default:
			return eng.Unexpected(tok, im.src.Path())
		}
		// With DuplicateLastWins the enforcer lets repeated keys through; the
		// later member replaces the earlier one in place.
		child, err := out.Ensure(tok.String)
		if err != nil {
			return err
		}
		child.Reset()
		vt, err := im.src.NextToken()
		if err != nil {
			return err
		}
		if err := im.value(vt, child); err != nil {
			return err
		}
	}
}

func (im *importer) array(out *marktree.Node) error {
	out.SetList()
	for {
		tok, err := im.src.NextToken()
		if err != nil {
			return err
		}
		if tok.Kind == eng.KindEndArray {
			return nil
		}
		elem := marktree.New()
		if err := im.value(tok, elem); err != nil {
			return err
		}
		if err := out.PushBack(elem); err != nil {
			return err
		}
	}
}

// setNumber classifies a JSON number literal. Literals with a fraction or
// exponent are floats; integers with a sign are signed, others unsigned.
// Integers outside the 64-bit ranges fall back to float64.
func setNumber(out *marktree.Node, text string) error {
	if !strings.ContainsAny(text, ".eE") {
		if strings.HasPrefix(text, "-") {
			if i, err := strconv.ParseInt(text, 10, 64); err == nil {
				out.SetInt(i)
				return nil
			} else if !errors.Is(err, strconv.ErrRange) {
				return badNumber(text, err)
			}
		} else {
			if u, err := strconv.ParseUint(text, 10, 64); err == nil {
				out.SetUint(u)
				return nil
			} else if !errors.Is(err, strconv.ErrRange) {
				return badNumber(text, err)
			}
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return badNumber(text, err)
	}
	out.SetFloat(f)
	return nil
}

func badNumber(text string, err error) error {
	return marktree.WrapError(marktree.CodeParseError, err, "invalid number %s", text)
}

// fail maps driver and engine errors onto *marktree.Error and locates them at
// the current JSON Pointer when they carry no path of their own.
func (im *importer) fail(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &marktree.Error{Code: ie.Code, Path: ie.Path, Message: ie.Message, Offset: ie.Offset}
	}
	if me, ok := marktree.AsError(err); ok {
		if me.Path == "" {
			return me.WithPath(im.src.IssuePath())
		}
		return me
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &marktree.Error{Code: marktree.CodeParseError, Path: im.src.IssuePath(), Message: "unexpected end of input", Offset: im.src.Location()}
	}
	off := im.src.Location()
	var syn *stdjson.SyntaxError
	if errors.As(err, &syn) {
		off = syn.Offset
	}
	return &marktree.Error{Code: marktree.CodeParseError, Path: im.src.IssuePath(), Message: "malformed JSON", Offset: off, Cause: err}
}
