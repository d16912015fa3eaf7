package engine_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/reoring/marktree/internal/engine"
	gojsonsrc "github.com/reoring/marktree/source/gojson"
	jsonsrc "github.com/reoring/marktree/source/json"
)

func drain(src eng.TokenSource) error {
	for {
		if _, err := src.NextToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func issue(t *testing.T, err error) eng.SimpleIssue {
	t.Helper()
	var ie eng.IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	return ie.SimpleIssue
}

func TestEnforcer_DuplicateKey(t *testing.T) {
	src := eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`{"a":{"b/c":1,"b/c":2}}`)), eng.EnforceOptions{OnDuplicate: eng.DupError})
	iss := issue(t, drain(src))
	if iss.Code != eng.CodeDuplicateKey || iss.Path != "/a/b~1c" {
		t.Fatalf("got %+v", iss)
	}

	src = eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`{"a":1,"a":2}`)), eng.EnforceOptions{OnDuplicate: eng.DupIgnore})
	if err := drain(src); err != nil {
		t.Fatalf("DupIgnore: %v", err)
	}
}

func TestEnforcer_DuplicateKeysInSiblingObjects(t *testing.T) {
	src := eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`[{"a":1},{"a":2}]`)), eng.EnforceOptions{OnDuplicate: eng.DupError})
	if err := drain(src); err != nil {
		t.Fatalf("sibling objects share no keys: %v", err)
	}
}

func TestEnforcer_MaxDepth(t *testing.T) {
	src := eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`{"a":{"b":[1]}}`)), eng.EnforceOptions{MaxDepth: 2})
	iss := issue(t, drain(src))
	if iss.Code != eng.CodeDepthExceeded || iss.Path != "/a/b" {
		t.Fatalf("got %+v", iss)
	}
}

func TestEnforcer_MaxBytes(t *testing.T) {
	src := eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`["0123456789","0123456789"]`)), eng.EnforceOptions{MaxBytes: 10})
	iss := issue(t, drain(src))
	if iss.Code != eng.CodeTruncated {
		t.Fatalf("got %+v", iss)
	}
}

func TestEnforcer_Path(t *testing.T) {
	src := eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`{"x":[true,{"y":null}]}`)), eng.EnforceOptions{})
	var paths []string
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if tok.Kind == eng.KindBool || tok.Kind == eng.KindNull {
			paths = append(paths, src.Path())
		}
	}
	if len(paths) != 2 || paths[0] != "/x/0" || paths[1] != "/x/1/y" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestExpectEnd(t *testing.T) {
	src := jsonsrc.NewBytes([]byte(`1 2`))
	if _, err := src.NextToken(); err != nil {
		t.Fatal(err)
	}
	iss := issue(t, eng.ExpectEnd(src))
	if iss.Code != eng.CodeParseError {
		t.Fatalf("got %+v", iss)
	}
	if err := eng.ExpectEnd(jsonsrc.NewBytes(nil)); err != nil {
		t.Fatalf("empty source: %v", err)
	}
}

func TestPointers(t *testing.T) {
	if got := eng.JoinPointer("/a", "m~n/o"); got != "/a/m~0n~1o" {
		t.Fatalf("JoinPointer = %q", got)
	}
	if got := eng.IssuePointer(nil); got != "/" {
		t.Fatalf("IssuePointer(nil) = %q", got)
	}
	if got := eng.IssuePointer([]string{"a", "0"}); got != "/a/0" {
		t.Fatalf("IssuePointer = %q", got)
	}
}

func TestTracker(t *testing.T) {
	var tr eng.Tracker
	seq := []eng.Kind{
		tr.Open(true),
		tr.String(),
		tr.String(),
		tr.String(),
		tr.Open(false),
		tr.String(),
		tr.Close(false),
		tr.Close(true),
	}
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey,
		eng.KindString,
		eng.KindKey,
		eng.KindBeginArray,
		eng.KindString,
		eng.KindEndArray,
		eng.KindEndObject,
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("token %d: got %s want %s", i, seq[i], want[i])
		}
	}
}

func TestFromDecoder_DriversAgree(t *testing.T) {
	input := []byte(`{"k":[1,-2,3.5,"s",true,null,{}],"e":""}`)
	collect := func(src eng.TokenSource) []eng.Token {
		var out []eng.Token
		for {
			tok, err := src.NextToken()
			if errors.Is(err, io.EOF) {
				return out
			}
			if err != nil {
				t.Fatal(err)
			}
			tok.Offset = 0
			out = append(out, tok)
		}
	}
	std := collect(jsonsrc.NewBytes(input))
	gj := collect(gojsonsrc.NewBytes(input))
	if diff := cmp.Diff(std, gj); diff != "" {
		t.Fatalf("drivers disagree (-std +go-json):\n%s", diff)
	}
	if std[1].Kind != eng.KindKey || std[3].Number != "1" || std[4].Number != "-2" {
		t.Fatalf("unexpected tokens: %+v", std[:5])
	}
}
