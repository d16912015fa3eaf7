package engine

// Tracker turns the flat delimiter/string stream of encoding/json style
// decoders into keyed tokens. Decoders report object keys and string values
// the same way; Tracker remembers whether the enclosing object expects a key.
type Tracker struct {
	stack []frame
}

type frame struct {
	object       bool
	expectingKey bool
}

// Open records the start of an object or array and returns its token kind.
func (t *Tracker) Open(object bool) Kind {
	if object {
		t.stack = append(t.stack, frame{object: true, expectingKey: true})
		return KindBeginObject
	}
	t.stack = append(t.stack, frame{})
	return KindBeginArray
}

// Close records the end of the innermost container and returns its token kind.
func (t *Tracker) Close(object bool) Kind {
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
	t.valueDone()
	if object {
		return KindEndObject
	}
	return KindEndArray
}

// String classifies a decoded string as an object key or a string value.
func (t *Tracker) String() Kind {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	t.valueDone()
	return KindString
}

// Scalar records a non-string scalar value.
func (t *Tracker) Scalar() { t.valueDone() }

func (t *Tracker) valueDone() {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
