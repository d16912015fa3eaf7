// Package json implements the marktree text codec for JSON.
//
// Read streams tokens through a selectable driver (goccy/go-json by default,
// encoding/json as an alternative), so member order is preserved and numbers
// are classified from their literal text:
//
//	2.5, 1e3      -> KindFloat
//	-7            -> KindInt
//	7             -> KindUint
//	1e400         -> parse error
//
// Dump writes members in node order, compact by default or indented with
// marktree.WithIndent.
package json

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"

	"github.com/reoring/marktree"
	eng "github.com/reoring/marktree/internal/engine"
)

// Codec is the JSON marktree.TextCodec. The zero Codec is compact, reads with
// the go-json driver and caps nesting at marktree.DefaultMaxDepth.
type Codec struct {
	Options marktree.Options
	Driver  Driver
}

var _ marktree.TextCodec = (*Codec)(nil)

// New returns a Codec configured by opts.
func New(opts ...marktree.Option) *Codec {
	return &Codec{Options: marktree.NewOptions(opts...)}
}

// WithDriver sets the token driver used by Read and returns c.
func (c *Codec) WithDriver(d Driver) *Codec {
	c.Driver = d
	return c
}

// Dump serializes n as JSON.
func (c *Codec) Dump(n *marktree.Node) (string, error) {
	b, err := c.DumpBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DumpBytes is Dump returning bytes.
func (c *Codec) DumpBytes(n *marktree.Node) ([]byte, error) {
	e := newExporter(c.Options)
	if err := e.value(n, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// Read parses a single JSON value. Trailing data after it is an error.
func (c *Codec) Read(s string) (*marktree.Node, error) {
	return c.ReadBytes([]byte(s))
}

// ReadBytes is Read over bytes.
func (c *Codec) ReadBytes(b []byte) (*marktree.Node, error) {
	if err := c.checkSize(int64(len(b))); err != nil {
		return nil, err
	}
	// go-json's token stream skips separators without checking them, so
	// its input is validated up front. Invalid input is re-read with
	// encoding/json, which locates the error.
	if c.Driver == DriverGoJSON && !j.Valid(b) {
		return c.decode(DriverStd, b)
	}
	return c.decode(c.Driver, b)
}

// Decode parses a single JSON value from r. When Options.MaxBytes is set at
// most that many bytes are consumed.
func (c *Codec) Decode(r io.Reader) (*marktree.Node, error) {
	if limit := c.Options.MaxBytes; limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, marktree.WrapError(marktree.CodeIOError, err, "read input")
	}
	return c.ReadBytes(data)
}

// SaveToFile dumps n and writes it to path.
func (c *Codec) SaveToFile(n *marktree.Node, path string) error {
	return marktree.SaveToFile[string](c, n, path)
}

// LoadFromFile reads and parses path. An empty file yields a Null node.
func (c *Codec) LoadFromFile(path string) (*marktree.Node, error) {
	return marktree.LoadFromFile[string](c, path)
}

func (c *Codec) checkSize(n int64) error {
	if limit := c.Options.MaxBytes; limit > 0 && n > limit {
		return marktree.Errorf(marktree.CodeTruncated, "input of %d bytes exceeds max %d", n, limit)
	}
	return nil
}

func (c *Codec) decode(d Driver, b []byte) (*marktree.Node, error) {
	dup := eng.DupError
	if c.Options.Duplicates == marktree.DuplicateLastWins {
		dup = eng.DupIgnore
	}
	src := eng.WrapWithEnforcement(d.newSource(bytes.NewReader(b)), eng.EnforceOptions{
		OnDuplicate: dup,
		MaxDepth:    c.Options.Depth(),
	})
	im := &importer{src: src, nulls: c.Options.Nulls}
	return im.root()
}
