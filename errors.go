package marktree

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch    = "type_mismatch"
	CodeNotAValue       = "not_a_value"
	CodeNotAContainer   = "not_a_container"
	CodeKeyNotFound     = "key_not_found"
	CodeIndexOutOfRange = "index_out_of_range"
	CodeParseError      = "parse_error"
	CodeDuplicateKey    = "duplicate_key"
	CodeInvalidValue    = "invalid_value"
	CodeIOError         = "io_error"
	CodeDepthExceeded   = "depth_exceeded"
	CodeTruncated       = "truncated"
)

// Sentinels for errors.Is. A *Error matches the sentinel carrying its code.
var (
	ErrTypeMismatch    = &Error{Code: CodeTypeMismatch, Message: "type mismatch"}
	ErrNotAValue       = &Error{Code: CodeNotAValue, Message: "node is not a value"}
	ErrNotAContainer   = &Error{Code: CodeNotAContainer, Message: "node is not a container"}
	ErrKeyNotFound     = &Error{Code: CodeKeyNotFound, Message: "key not found"}
	ErrIndexOutOfRange = &Error{Code: CodeIndexOutOfRange, Message: "index out of range"}
	ErrParse           = &Error{Code: CodeParseError, Message: "parse error"}
	ErrDuplicateKey    = &Error{Code: CodeDuplicateKey, Message: "duplicate key"}
	ErrInvalidValue    = &Error{Code: CodeInvalidValue, Message: "invalid value"}
	ErrIO              = &Error{Code: CodeIOError, Message: "i/o error"}
	ErrDepthExceeded   = &Error{Code: CodeDepthExceeded, Message: "max depth exceeded"}
	ErrTruncated       = &Error{Code: CodeTruncated, Message: "max bytes exceeded"}
)

// Error is the single structured failure returned by Node operations and codecs.
type Error struct {
	Code    string // One of the codes listed above.
	Path    string // JSON Pointer (for example: /items/2/price); empty when unknown.
	Message string
	Offset  int64 // Byte offset in the input (-1 or 0 when unknown).
	Cause   error // Optional: underlying error.
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString("marktree: ")
	b.WriteString(e.Code)
	if e.Path != "" {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(b, ": %v", e.Cause)
	}
	return b.String()
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts an *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Errorf builds an *Error with a formatted message.
func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an *Error for code that carries cause.
func WrapError(code string, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithPath returns a copy of e located at path.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
}
