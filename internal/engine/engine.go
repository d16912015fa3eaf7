package engine

import (
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

var kindNames = [...]string{
	KindBeginObject: "'{'",
	KindEndObject:   "'}'",
	KindBeginArray:  "'['",
	KindEndArray:    "']'",
	KindKey:         "key",
	KindString:      "string",
	KindNumber:      "number",
	KindBool:        "bool",
	KindNull:        "null",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string // literal text as it appeared in the input
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData reports input remaining after the root value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// ExpectEnd consumes the next token and succeeds only when the source is
// exhausted.
func ExpectEnd(src TokenSource) error {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	return IssueError{SimpleIssue{Code: CodeParseError, Message: ErrTrailingData.Error() + " (" + tok.Kind.String() + ")", Offset: tok.Offset}}
}

// Unexpected builds the parse issue for a token that cannot appear at its
// position.
func Unexpected(tok Token, path string) IssueError {
	return IssueError{SimpleIssue{
		Code:    CodeParseError,
		Path:    normalizeIssuePath(path),
		Message: "unexpected " + tok.Kind.String(),
		Offset:  tok.Offset,
	}}
}
