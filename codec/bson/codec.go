// Package bson implements the marktree binary codec over
// go.mongodb.org/mongo-driver/bson.
//
// A BSON document is always a mapping, so Dump requires a Map root. Read keeps
// element order and maps BSON types without a node counterpart onto strings:
//
//	datetime     -> RFC 3339 text in UTC
//	objectId     -> hex text
//	binary       -> standard base64 text
//	regex        -> /pattern/options
//	javascript   -> source text
//	symbol       -> text
//
// Timestamps and integral decimal128 values that fit uint64 read as unsigned
// integers; other decimal128 values read as their decimal text.
package bson

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/reoring/marktree"
)

// Codec is the BSON marktree.BinaryCodec.
type Codec struct {
	Options marktree.Options
}

var _ marktree.BinaryCodec = (*Codec)(nil)

// New returns a Codec configured by opts. Indentation options are ignored.
func New(opts ...marktree.Option) *Codec {
	return &Codec{Options: marktree.NewOptions(opts...)}
}

// Dump serializes a Map node as a BSON document.
func (c *Codec) Dump(n *marktree.Node) ([]byte, error) {
	if !n.IsMap() {
		return nil, marktree.Errorf(marktree.CodeTypeMismatch, "BSON root must be a map, not %s", n.Kind()).WithPath("/")
	}
	w := &writer{nulls: c.Options.Nulls, maxDepth: c.Options.Depth()}
	doc, err := w.document(n, 1)
	if err != nil {
		return nil, err
	}
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, marktree.WrapError(marktree.CodeInvalidValue, err, "encode BSON")
	}
	return b, nil
}

// Read parses one BSON document into a Map node.
func (c *Codec) Read(b []byte) (*marktree.Node, error) {
	if limit := c.Options.MaxBytes; limit > 0 && int64(len(b)) > limit {
		return nil, marktree.Errorf(marktree.CodeTruncated, "input of %d bytes exceeds max %d", len(b), limit)
	}
	raw := bson.Raw(b)
	if err := raw.Validate(); err != nil {
		return nil, marktree.WrapError(marktree.CodeParseError, err, "malformed BSON").WithPath("/")
	}
	r := &reader{
		dups:     c.Options.Duplicates,
		nulls:    c.Options.Nulls,
		maxDepth: c.Options.Depth(),
	}
	out := marktree.New()
	if err := r.document(raw, out, 1); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveToFile dumps n and writes it to path.
func (c *Codec) SaveToFile(n *marktree.Node, path string) error {
	return marktree.SaveToFile[[]byte](c, n, path)
}

// LoadFromFile reads and parses path. An empty file yields a Null node.
func (c *Codec) LoadFromFile(path string) (*marktree.Node, error) {
	return marktree.LoadFromFile[[]byte](c, path)
}
