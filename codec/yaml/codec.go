// Package yaml implements the marktree text codec for YAML over gopkg.in/yaml.v3.
//
// Read resolves scalars by their YAML tag: !!null, !!bool, !!int and !!float
// map to the matching node kinds and every other tag (!!str, !!timestamp,
// !!binary, custom tags) reads as a String. Aliases and merge keys are
// expanded. Dump tags every scalar explicitly so a string such as "true"
// survives a round trip as a string.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/marktree"
)

// Codec is the YAML marktree.TextCodec. A Codec built by New writes block
// style indented by marktree.DefaultIndent; with Options.Indent == 0 it writes
// flow style on one line.
type Codec struct {
	Options marktree.Options
}

var _ marktree.TextCodec = (*Codec)(nil)

// New returns a block-style Codec configured by opts.
func New(opts ...marktree.Option) *Codec {
	all := append([]marktree.Option{marktree.WithIndent(marktree.DefaultIndent)}, opts...)
	return &Codec{Options: marktree.NewOptions(all...)}
}

// Dump serializes n as a single YAML document.
func (c *Codec) Dump(n *marktree.Node) (string, error) {
	w := &writer{opts: c.Options, maxDepth: c.Options.Depth()}
	doc, err := w.node(n, 0)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if c.Options.Indent > 0 {
		enc.SetIndent(c.Options.Indent)
	}
	if err := enc.Encode(doc); err != nil {
		return "", marktree.WrapError(marktree.CodeInvalidValue, err, "encode YAML")
	}
	if err := enc.Close(); err != nil {
		return "", marktree.WrapError(marktree.CodeInvalidValue, err, "encode YAML")
	}
	return buf.String(), nil
}

// Read parses a single YAML document. Empty input yields a Null node; a
// stream holding more than one document is an error (see ReadAll).
func (c *Codec) Read(s string) (*marktree.Node, error) {
	if err := c.checkSize(int64(len(s))); err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(strings.NewReader(s))
	out, err := c.next(dec)
	if errors.Is(err, io.EOF) {
		return marktree.New(), nil
	}
	if err != nil {
		return nil, err
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, marktree.WrapError(marktree.CodeParseError, err, "malformed YAML")
		}
		return nil, marktree.Errorf(marktree.CodeParseError, "unexpected second document; use ReadAll")
	}
	return out, nil
}

// ReadAll parses every document of a YAML stream in order.
func (c *Codec) ReadAll(s string) ([]*marktree.Node, error) {
	if err := c.checkSize(int64(len(s))); err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(strings.NewReader(s))
	var out []*marktree.Node
	for {
		n, err := c.next(dec)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, n)
	}
}

// SaveToFile dumps n and writes it to path.
func (c *Codec) SaveToFile(n *marktree.Node, path string) error {
	return marktree.SaveToFile[string](c, n, path)
}

// LoadFromFile reads and parses path. An empty file yields a Null node.
func (c *Codec) LoadFromFile(path string) (*marktree.Node, error) {
	return marktree.LoadFromFile[string](c, path)
}

// next decodes one document. It returns io.EOF when the stream is exhausted.
func (c *Codec) next(dec *yaml.Decoder) (*marktree.Node, error) {
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, marktree.WrapError(marktree.CodeParseError, err, "malformed YAML")
	}
	r := &reader{
		dups:     c.Options.Duplicates,
		nulls:    c.Options.Nulls,
		maxDepth: c.Options.Depth(),
	}
	out := marktree.New()
	if err := r.node(&doc, out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Codec) checkSize(n int64) error {
	if limit := c.Options.MaxBytes; limit > 0 && n > limit {
		return marktree.Errorf(marktree.CodeTruncated, "input of %d bytes exceeds max %d", n, limit)
	}
	return nil
}
