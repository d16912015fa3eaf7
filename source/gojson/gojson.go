// Package gojson exposes an engine.TokenSource backed by goccy/go-json.
//
// go-json's token stream does not check separators, so callers that need
// strict syntax should run json.Valid over the input first.
package gojson

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/marktree/internal/engine"
)

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	// go-json may hand out views into its read buffer.
	return eng.FromDecoder(dec, true)
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }
