package engine

import (
	"strconv"
	"strings"
)

// Issue codes produced by the engine. They match the root package codes.
const (
	CodeParseError    = "parse_error"
	CodeDuplicateKey  = "duplicate_key"
	CodeDepthExceeded = "depth_exceeded"
	CodeTruncated     = "truncated"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int   // 0 disables the check
	MaxBytes    int64 // 0 disables the check; needs a source with offsets
}

// scope is one open object or array.
type scope struct {
	object  bool
	path    string              // pointer of the container itself
	keys    map[string]struct{} // seen member names; nil unless DupError
	key     string              // member awaiting its value
	wantKey bool
	next    int // index of the next array element
}

// Enforcer is a TokenSource that applies the duplicate key policy, the nesting
// cap and the byte cap to the tokens of an inner source while tracking the
// JSON Pointer of the most recent token.
type Enforcer struct {
	inner  TokenSource
	opt    EnforceOptions
	scopes []scope
	path   string
}

// WrapWithEnforcement returns an Enforcer over inner.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) *Enforcer {
	return &Enforcer{inner: inner, opt: opt}
}

// Path returns the JSON Pointer of the last token returned ("" for the root).
func (e *Enforcer) Path() string { return e.path }

// IssuePath is Path as reported in issues, with the root spelled "/".
func (e *Enforcer) IssuePath() string { return normalizeIssuePath(e.path) }

func (e *Enforcer) Location() int64 { return e.inner.Location() }

func (e *Enforcer) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	var issue *SimpleIssue
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		issue = e.open(tok)
	case KindEndObject, KindEndArray:
		e.close()
	case KindKey:
		issue = e.member(tok)
	default:
		e.path = e.position()
		e.valueDone()
	}
	if issue == nil && e.opt.MaxBytes > 0 {
		if off := e.Location(); off > e.opt.MaxBytes {
			issue = &SimpleIssue{Code: CodeTruncated, Message: "max bytes exceeded", Offset: off}
		}
	}
	if issue != nil {
		issue.Path = e.IssuePath()
		return Token{}, IssueError{*issue}
	}
	return tok, nil
}

func (e *Enforcer) open(tok Token) *SimpleIssue {
	e.path = e.position()
	s := scope{path: e.path}
	if tok.Kind == KindBeginObject {
		s.object, s.wantKey = true, true
		if e.opt.OnDuplicate == DupError {
			s.keys = make(map[string]struct{})
		}
	}
	e.scopes = append(e.scopes, s)
	if e.opt.MaxDepth > 0 && len(e.scopes) > e.opt.MaxDepth {
		return &SimpleIssue{
			Code:    CodeDepthExceeded,
			Message: "max depth " + strconv.Itoa(e.opt.MaxDepth) + " exceeded",
			Offset:  tok.Offset,
		}
	}
	return nil
}

func (e *Enforcer) close() {
	n := len(e.scopes)
	if n == 0 {
		return
	}
	e.path = e.scopes[n-1].path
	e.scopes = e.scopes[:n-1]
	e.valueDone()
}

func (e *Enforcer) member(tok Token) *SimpleIssue {
	n := len(e.scopes)
	if n == 0 {
		return nil
	}
	top := &e.scopes[n-1]
	e.path = JoinPointer(top.path, tok.String)
	if !top.object || !top.wantKey {
		return nil
	}
	if top.keys != nil {
		if _, seen := top.keys[tok.String]; seen {
			return &SimpleIssue{Code: CodeDuplicateKey, Message: "key '" + tok.String + "' duplicated", Offset: tok.Offset}
		}
		top.keys[tok.String] = struct{}{}
	}
	top.key, top.wantKey = tok.String, false
	return nil
}

// position returns the pointer of the value starting at the current token and
// advances the enclosing array index.
func (e *Enforcer) position() string {
	n := len(e.scopes)
	if n == 0 {
		return ""
	}
	top := &e.scopes[n-1]
	switch {
	case !top.object:
		i := top.next
		top.next++
		return JoinPointer(top.path, strconv.Itoa(i))
	case !top.wantKey:
		return JoinPointer(top.path, top.key)
	}
	return top.path
}

// valueDone marks the enclosing object as waiting for its next key.
func (e *Enforcer) valueDone() {
	if n := len(e.scopes); n > 0 {
		top := &e.scopes[n-1]
		if top.object {
			top.key, top.wantKey = "", true
		}
	}
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// IssuePointer joins reference tokens into the path reported in issues, with
// the root spelled "/".
func IssuePointer(tokens []string) string {
	var p string
	for _, t := range tokens {
		p = JoinPointer(p, t)
	}
	return normalizeIssuePath(p)
}

// JoinPointer appends token to the JSON Pointer base, escaping it per RFC 6901.
func JoinPointer(base, token string) string {
	return base + "/" + jsonPointerEscaper.Replace(token)
}
