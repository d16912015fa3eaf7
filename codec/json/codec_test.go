package json_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/marktree"
	"github.com/reoring/marktree/codec/json"
)

var drivers = []json.Driver{json.DriverGoJSON, json.DriverStd}

func TestRead_LiteralScenario(t *testing.T) {
	const in = `{"a":1,"b":[true,2.5,"x"]}`
	for _, d := range drivers {
		t.Run(d.String(), func(t *testing.T) {
			c := json.New().WithDriver(d)
			n, err := c.Read(in)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			want := marktree.NewMap(
				marktree.Field("a", marktree.NewUint(1)),
				marktree.Field("b", marktree.NewList(
					marktree.NewBool(true),
					marktree.NewFloat(2.5),
					marktree.NewString("x"),
				)),
			)
			if !n.Equal(want) {
				t.Fatalf("Read: got %s want %s", n, want)
			}
			a, _ := n.At("a")
			if !a.IsIntegral() {
				t.Fatalf("a should be integral, got %s", a.Kind())
			}
			out, err := c.Dump(n)
			if err != nil {
				t.Fatalf("Dump: %v", err)
			}
			if out != in {
				t.Fatalf("Dump: got %s want %s", out, in)
			}
		})
	}
}

func TestRead_NumberClassification(t *testing.T) {
	cases := []struct {
		in   string
		kind marktree.Kind
		text string
	}{
		{`0`, marktree.KindUint, "0"},
		{`-0`, marktree.KindUint, "0"},
		{`-7`, marktree.KindInt, "-7"},
		{`18446744073709551615`, marktree.KindUint, "18446744073709551615"},
		{`18446744073709551616`, marktree.KindFloat, "1.8446744073709552e+19"},
		{`-9223372036854775808`, marktree.KindInt, "-9223372036854775808"},
		{`-9223372036854775809`, marktree.KindFloat, "-9.223372036854776e+18"},
		{`2.0`, marktree.KindFloat, "2"},
		{`1e3`, marktree.KindFloat, "1000"},
		{`1E-2`, marktree.KindFloat, "0.01"},
	}
	for _, d := range drivers {
		for _, tc := range cases {
			n, err := json.New().WithDriver(d).Read(tc.in)
			if err != nil {
				t.Fatalf("%s Read(%s): %v", d, tc.in, err)
			}
			if n.Kind() != tc.kind {
				t.Fatalf("%s Read(%s) kind = %s, want %s", d, tc.in, n.Kind(), tc.kind)
			}
			if s, _ := n.AsString(); s != tc.text {
				t.Fatalf("%s Read(%s) = %s, want %s", d, tc.in, s, tc.text)
			}
		}
	}
}

func TestRead_NegativeZero(t *testing.T) {
	// -0 parses as the signed integer 0, which SetInt stores as unsigned.
	n, err := json.New().Read(`{"z":-0}`)
	if err != nil {
		t.Fatal(err)
	}
	z, _ := n.At("z")
	if !z.IsUnsigned() {
		t.Fatalf("kind = %s, want uint", z.Kind())
	}
	out, err := json.New().Dump(n)
	if err != nil || out != `{"z":0}` {
		t.Fatalf("Dump = %s, %v", out, err)
	}
}

func TestRead_FloatOverflowIsParseError(t *testing.T) {
	for _, d := range drivers {
		_, err := json.New().WithDriver(d).Read(`[1e400]`)
		if !errors.Is(err, marktree.ErrParse) {
			t.Fatalf("%s: expected parse_error, got %v", d, err)
		}
	}
}

func TestRead_EmptyContainers(t *testing.T) {
	n, err := json.New().Read(`{"m":{},"l":[]}`)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	m, _ := n.At("m")
	l, _ := n.At("l")
	if !m.IsMap() || !l.IsList() {
		t.Fatalf("empty containers lost their kind: %s", n)
	}
}

func TestRead_Malformed(t *testing.T) {
	inputs := []string{
		``,
		`   `,
		`{"a":1,}`,
		`{"a" 1}`,
		`[1 2]`,
		`{"a":1]`,
		`[1,2`,
		`{"a":tru}`,
		`"unterminated`,
	}
	for _, d := range drivers {
		for _, in := range inputs {
			_, err := json.New().WithDriver(d).Read(in)
			if !errors.Is(err, marktree.ErrParse) {
				t.Fatalf("%s Read(%q): expected parse_error, got %v", d, in, err)
			}
		}
	}
}

func TestRead_TrailingData(t *testing.T) {
	for _, d := range drivers {
		_, err := json.New().WithDriver(d).Read(`{"a":1} {"b":2}`)
		if !errors.Is(err, marktree.ErrParse) {
			t.Fatalf("%s: expected parse_error, got %v", d, err)
		}
	}
}

func TestRead_DuplicateKeys(t *testing.T) {
	const in = `{"x":{"a":1,"a":2}}`
	for _, d := range drivers {
		_, err := json.New().WithDriver(d).Read(in)
		if !errors.Is(err, marktree.ErrDuplicateKey) {
			t.Fatalf("%s: expected duplicate_key, got %v", d, err)
		}
		me, _ := marktree.AsError(err)
		if me.Path != "/x/a" {
			t.Fatalf("%s: path = %q, want /x/a", d, me.Path)
		}

		n, err := json.New(marktree.WithDuplicates(marktree.DuplicateLastWins)).WithDriver(d).Read(`{"a":1,"b":2,"a":[3]}`)
		if err != nil {
			t.Fatalf("%s LastWins: %v", d, err)
		}
		if got := n.String(); got != `{"a":[3],"b":2}` {
			t.Fatalf("%s LastWins: got %s", d, got)
		}
	}
}

func TestRead_NullPolicy(t *testing.T) {
	n, err := json.New().Read(`{"a":null,"b":[null]}`)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	a, _ := n.At("a")
	if !a.IsNull() {
		t.Fatalf("a = %s, want null", a)
	}
	if got := n.String(); got != `{"a":null,"b":[null]}` {
		t.Fatalf("got %s", got)
	}

	_, err = json.New(marktree.WithNulls(marktree.NullReject)).Read(`{"a":{"b":null}}`)
	if !errors.Is(err, marktree.ErrParse) {
		t.Fatalf("NullReject: expected parse_error, got %v", err)
	}
	if me, _ := marktree.AsError(err); me.Path != "/a/b" {
		t.Fatalf("NullReject: path = %q, want /a/b", me.Path)
	}
}

func TestRead_EmptyKey(t *testing.T) {
	_, err := json.New().Read(`{"":1}`)
	if !errors.Is(err, marktree.ErrInvalidValue) {
		t.Fatalf("expected invalid_value, got %v", err)
	}
}

func TestRead_MaxDepth(t *testing.T) {
	deep := strings.Repeat("[", 5) + strings.Repeat("]", 5)
	for _, d := range drivers {
		c := json.New(marktree.WithMaxDepth(4)).WithDriver(d)
		_, err := c.Read(deep)
		if !errors.Is(err, marktree.ErrDepthExceeded) {
			t.Fatalf("%s: expected depth_exceeded, got %v", d, err)
		}
		if me, _ := marktree.AsError(err); me.Path != "/0/0/0/0" {
			t.Fatalf("%s: path = %q", d, me.Path)
		}
		if _, err := json.New(marktree.WithMaxDepth(5)).WithDriver(d).Read(deep); err != nil {
			t.Fatalf("%s depth 5: %v", d, err)
		}
	}

	tooDeep := strings.Repeat("[", marktree.DefaultMaxDepth+1) + strings.Repeat("]", marktree.DefaultMaxDepth+1)
	if _, err := json.New().Read(tooDeep); !errors.Is(err, marktree.ErrDepthExceeded) {
		t.Fatalf("default cap: expected depth_exceeded, got %v", err)
	}
	if _, err := json.New(marktree.WithMaxDepth(-1)).Read(tooDeep); err != nil {
		t.Fatalf("unlimited depth: %v", err)
	}
}

func TestRead_MaxBytes(t *testing.T) {
	c := json.New(marktree.WithMaxBytes(8))
	if _, err := c.Read(`{"a":"0123456789"}`); !errors.Is(err, marktree.ErrTruncated) {
		t.Fatalf("Read: expected truncated, got %v", err)
	}
	if _, err := c.Decode(strings.NewReader(`{"a":"0123456789"}`)); !errors.Is(err, marktree.ErrTruncated) {
		t.Fatalf("Decode: expected truncated, got %v", err)
	}
	if _, err := c.Decode(strings.NewReader(`[1,2]`)); err != nil {
		t.Fatalf("Decode within limit: %v", err)
	}
}

func TestRead_StdDriverReportsOffset(t *testing.T) {
	_, err := json.New().WithDriver(json.DriverStd).Read(`{"a":1,"b":x}`)
	me, ok := marktree.AsError(err)
	if !ok || me.Code != marktree.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
	if me.Offset <= 0 {
		t.Fatalf("expected a byte offset, got %d", me.Offset)
	}
}

func TestDump_Indented(t *testing.T) {
	n := marktree.NewMap(
		marktree.Field("a", marktree.NewUint(1)),
		marktree.Field("b", marktree.NewList(marktree.NewBool(true), marktree.NewMap())),
		marktree.Field("c", marktree.NewList()),
	)
	got, err := json.New(marktree.WithIndent(4)).Dump(n)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	want := `{
    "a": 1,
    "b": [
        true,
        {}
    ],
    "c": []
}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("indented dump mismatch (-want +got):\n%s", diff)
	}

	compact, _ := json.New().Dump(n)
	if compact != `{"a":1,"b":[true,{}],"c":[]}` {
		t.Fatalf("compact dump: %s", compact)
	}
}

func TestDump_Scalars(t *testing.T) {
	cases := []struct {
		n    *marktree.Node
		want string
	}{
		{marktree.New(), `null`},
		{marktree.NewFloat(2), `2.0`},
		{marktree.NewFloat(1e21), `1e+21`},
		{marktree.NewInt(-5), `-5`},
		{marktree.NewUint(math.MaxUint64), `18446744073709551615`},
		{marktree.NewString("<a&b> \"q\"\n"), `"<a&b> \"q\"\n"`},
		{marktree.NewString("ünï"), `"ünï"`},
	}
	for _, tc := range cases {
		got, err := json.New().Dump(tc.n)
		if err != nil {
			t.Fatalf("Dump(%s): %v", tc.n, err)
		}
		if got != tc.want {
			t.Fatalf("Dump(%s) = %s, want %s", tc.n, got, tc.want)
		}
	}
}

func TestDump_HTMLCharactersUnescaped(t *testing.T) {
	n := marktree.NewMap(marktree.Field("<k&>", marktree.NewList(marktree.NewString("a<b>&c"))))
	for _, opt := range []marktree.Option{marktree.WithCompact(), marktree.WithIndent(4)} {
		c := json.New(opt)
		out, err := c.Dump(n)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(out, `\u00`) || !strings.Contains(out, `"<k&>"`) || !strings.Contains(out, `"a<b>&c"`) {
			t.Fatalf("Dump = %s", out)
		}
		back, err := c.Read(out)
		if err != nil || !back.Equal(n) {
			t.Fatalf("round trip = %s, %v", back, err)
		}
	}
}

func TestDump_InvalidValues(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		n := marktree.NewMap(marktree.Field("x", marktree.NewList(marktree.NewFloat(f))))
		_, err := json.New().Dump(n)
		if !errors.Is(err, marktree.ErrInvalidValue) {
			t.Fatalf("Dump(%v): expected invalid_value, got %v", f, err)
		}
		if me, _ := marktree.AsError(err); me.Path != "/x/0" {
			t.Fatalf("Dump(%v): path = %q", f, me.Path)
		}
	}
	_, err := json.New(marktree.WithNulls(marktree.NullReject)).Dump(marktree.NewList(marktree.New()))
	if !errors.Is(err, marktree.ErrInvalidValue) {
		t.Fatalf("NullReject dump: expected invalid_value, got %v", err)
	}
}

func TestDump_MaxDepth(t *testing.T) {
	n := marktree.New()
	cur := n
	for range 4 {
		next := marktree.New()
		_ = next.PushBack(nil)
		cur.Assign(next)
		cur, _ = cur.Index(0)
	}
	if _, err := json.New(marktree.WithMaxDepth(3)).Dump(n); !errors.Is(err, marktree.ErrDepthExceeded) {
		t.Fatalf("expected depth_exceeded, got %v", err)
	}
	if _, err := json.New(marktree.WithMaxDepth(4)).Dump(n); err != nil {
		t.Fatalf("depth 4: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	n := marktree.NewMap(
		marktree.Field("bool", marktree.NewBool(false)),
		marktree.Field("neg", marktree.NewInt(math.MinInt64)),
		marktree.Field("max", marktree.NewUint(math.MaxUint64)),
		marktree.Field("float", marktree.NewFloat(3)),
		marktree.Field("tiny", marktree.NewFloat(5e-324)),
		marktree.Field("str", marktree.NewString("a/b~c")),
		marktree.Field("nested", marktree.NewList(
			marktree.NewMap(marktree.Field("k", marktree.NewString(""))),
			marktree.NewList(),
		)),
	)
	for _, layout := range []marktree.Option{marktree.WithCompact(), marktree.WithIndent(4)} {
		for _, d := range drivers {
			c := json.New(layout).WithDriver(d)
			text, err := c.Dump(n)
			if err != nil {
				t.Fatalf("Dump: %v", err)
			}
			back, err := c.Read(text)
			if err != nil {
				t.Fatalf("Read(%s): %v", text, err)
			}
			if !back.Equal(n) {
				t.Fatalf("round trip (%s): got %s want %s\n%s", d, back, n, text)
			}
			f, _ := back.At("float")
			if !f.IsFloat() {
				t.Fatalf("float re-imported as %s", f.Kind())
			}
		}
	}
}
