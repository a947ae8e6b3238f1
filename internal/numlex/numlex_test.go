package numlex

import (
	"math"
	"testing"

	"github.com/biggeezerdevelopment/wordjson/internal/errs"
	"github.com/biggeezerdevelopment/wordjson/internal/word"
)

func TestParseIntegers(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"0", 0},
		{"1", 1},
		{"-1", -1},
		{"42", 42},
		{"-42", -42},
		{"2147483647", math.MaxInt32},
		{"-2147483648", math.MinInt32},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			res, err := Parse([]byte(c.in), 0)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", c.in, err)
			}
			if res.Tag != word.TagInteger {
				t.Fatalf("Parse(%q).Tag = %v, want TagInteger", c.in, res.Tag)
			}
			if res.I32 != c.want {
				t.Errorf("Parse(%q).I32 = %d, want %d", c.in, res.I32, c.want)
			}
			if res.Next != len(c.in) {
				t.Errorf("Parse(%q).Next = %d, want %d", c.in, res.Next, len(c.in))
			}
		})
	}
}

func TestIntegerOverflowPromotesAtExactBoundary(t *testing.T) {
	// MaxInt32 itself must stay an integer...
	res, err := Parse([]byte("2147483647"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Tag != word.TagInteger || res.I32 != math.MaxInt32 {
		t.Fatalf("2147483647 parsed as %v %v, want integer MaxInt32", res.Tag, res.I32)
	}

	// ...but one past it must promote to double.
	res, err = Parse([]byte("2147483648"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Tag != word.TagDouble {
		t.Fatalf("2147483648 parsed as %v, want TagDouble", res.Tag)
	}
	if res.F64 != 2147483648.0 {
		t.Errorf("2147483648 parsed as %v, want 2147483648.0", res.F64)
	}
}

func TestParseDoubles(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0.5", 0.5},
		{"-0.5", -0.5},
		{"1.0", 1.0},
		{"1e10", 1e10},
		{"1E10", 1e10},
		{"1e+10", 1e10},
		{"1e-10", 1e-10},
		{"-1.5e3", -1500},
		{"0.0", 0.0},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			res, err := Parse([]byte(c.in), 0)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", c.in, err)
			}
			if res.Tag != word.TagDouble {
				t.Fatalf("Parse(%q).Tag = %v, want TagDouble", c.in, res.Tag)
			}
			if res.F64 != c.want {
				t.Errorf("Parse(%q).F64 = %v, want %v", c.in, res.F64, c.want)
			}
		})
	}
}

func TestParseLeadingZero(t *testing.T) {
	res, err := Parse([]byte("0"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.I32 != 0 || res.Next != 1 {
		t.Fatalf("Parse(\"0\") = %+v", res)
	}

	// "0" followed by more digits stops at the first zero: the number
	// grammar treats a leading zero as a complete integer part.
	res, err = Parse([]byte("05"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Next != 1 {
		t.Errorf("Parse(\"05\").Next = %d, want 1", res.Next)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in   string
		code errs.Code
	}{
		{"-", errs.UnexpectedEnd},
		{"-a", errs.InvalidNumber},
		{"1.", errs.InvalidNumber},
		{"1e", errs.MissingExponent},
		{"1e+", errs.MissingExponent},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			_, err := Parse([]byte(c.in), 0)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", c.in)
			}
			if err.Code != c.code {
				t.Errorf("Parse(%q) code = %v, want %v", c.in, err.Code, c.code)
			}
		})
	}
}

func TestParseFromOffset(t *testing.T) {
	res, err := Parse([]byte("xx42yy"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.I32 != 42 || res.Next != 4 {
		t.Errorf("Parse from offset = %+v, want I32=42 Next=4", res)
	}
}
