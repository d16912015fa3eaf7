package marktree

// DuplicatePolicy controls how a codec treats a key repeated within one
// mapping while reading.
type DuplicatePolicy int

const (
	DuplicateError    DuplicatePolicy = iota // Reject the input with CodeDuplicateKey.
	DuplicateLastWins                        // Replace the earlier child in place.
)

// NullPolicy controls how external null values cross the codec boundary.
type NullPolicy int

const (
	NullAsNode NullPolicy = iota // null reads as a Null node; Null nodes write as null.
	NullReject                   // null fails on read; Null nodes fail on write.
)

// DefaultMaxDepth caps nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 512

// DefaultIndent is the indentation width used by indented presentation.
const DefaultIndent = 4

// Options bundles codec settings shared by every format.
type Options struct {
	// Indent selects indented output with the given width; 0 means compact.
	Indent     int
	MaxDepth   int   // 0 selects DefaultMaxDepth; negative disables the cap.
	MaxBytes   int64 // 0 disables the input size cap.
	Duplicates DuplicatePolicy
	Nulls      NullPolicy
}

// Option mutates Options.
type Option func(*Options)

// NewOptions applies opts over the zero Options.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Depth returns the effective nesting cap; 0 means unlimited.
func (o Options) Depth() int {
	switch {
	case o.MaxDepth == 0:
		return DefaultMaxDepth
	case o.MaxDepth < 0:
		return 0
	default:
		return o.MaxDepth
	}
}

// WithIndent selects indented output. A width <= 0 selects DefaultIndent.
func WithIndent(width int) Option {
	return func(o *Options) {
		if width <= 0 {
			width = DefaultIndent
		}
		o.Indent = width
	}
}

// WithCompact selects compact output.
func WithCompact() Option { return func(o *Options) { o.Indent = 0 } }

// WithMaxDepth caps nesting depth on read and write. Negative disables the cap.
func WithMaxDepth(n int) Option { return func(o *Options) { o.MaxDepth = n } }

// WithMaxBytes caps the size of input accepted by Read.
func WithMaxBytes(n int64) Option { return func(o *Options) { o.MaxBytes = n } }

// WithDuplicates sets the duplicate key policy.
func WithDuplicates(p DuplicatePolicy) Option { return func(o *Options) { o.Duplicates = p } }

// WithNulls sets the null policy.
func WithNulls(p NullPolicy) Option { return func(o *Options) { o.Nulls = p } }
