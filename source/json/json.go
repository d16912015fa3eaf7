// Package json exposes an engine.TokenSource backed by encoding/json.
package json

import (
	"bytes"
	"encoding/json"
	"io"

	eng "github.com/reoring/marktree/internal/engine"
)

// NewReader wraps an io.Reader into an engine.TokenSource for JSON. Syntax
// errors surface as *json.SyntaxError with the byte offset of the fault.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return eng.FromDecoder(dec, false)
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }
