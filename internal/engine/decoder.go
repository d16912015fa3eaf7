package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Decoder is the streaming surface shared by encoding/json and go-json
// decoders. Both must be created with UseNumber so numbers keep their literal
// text.
type Decoder interface {
	Token() (json.Token, error)
	InputOffset() int64
}

type decoderSource struct {
	dec   Decoder
	tr    Tracker
	clone bool
}

// FromDecoder adapts dec to a TokenSource. With clone set, strings are copied
// out of the decoder before they are returned, for decoders that hand out
// views into their read buffer.
func FromDecoder(dec Decoder, clone bool) TokenSource {
	return &decoderSource{dec: dec, clone: clone}
}

func (s *decoderSource) NextToken() (Token, error) {
	raw, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Token{}, io.EOF
		}
		return Token{}, err
	}
	tok := Token{Offset: s.dec.InputOffset()}
	switch v := raw.(type) {
	case json.Delim:
		open, object := v == '{' || v == '[', v == '{' || v == '}'
		if open {
			tok.Kind = s.tr.Open(object)
		} else {
			tok.Kind = s.tr.Close(object)
		}
	case string:
		tok.Kind, tok.String = s.tr.String(), s.text(v)
	case bool:
		s.tr.Scalar()
		tok.Kind, tok.Bool = KindBool, v
	case json.Number:
		s.tr.Scalar()
		tok.Kind, tok.Number = KindNumber, s.text(string(v))
	case float64:
		s.tr.Scalar()
		tok.Kind, tok.Number = KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		s.tr.Scalar()
		tok.Kind = KindNull
	}
	return tok, nil
}

func (s *decoderSource) text(v string) string {
	if s.clone {
		return strings.Clone(v)
	}
	return v
}

func (s *decoderSource) Location() int64 { return s.dec.InputOffset() }
