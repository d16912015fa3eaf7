package json

import (
	"io"

	eng "github.com/reoring/marktree/internal/engine"
	gojsonsrc "github.com/reoring/marktree/source/gojson"
	jsonsrc "github.com/reoring/marktree/source/json"
)

// Driver selects the tokenizer behind Read.
type Driver int

const (
	DriverGoJSON Driver = iota // github.com/goccy/go-json
	DriverStd                  // encoding/json; reports byte offsets in errors
)

func (d Driver) String() string {
	switch d {
	case DriverStd:
		return "encoding/json"
	default:
		return "go-json"
	}
}

func (d Driver) newSource(r io.Reader) eng.TokenSource {
	if d == DriverStd {
		return jsonsrc.NewReader(r)
	}
	return gojsonsrc.NewReader(r)
}
