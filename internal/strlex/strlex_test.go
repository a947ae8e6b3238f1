package strlex

import (
	"testing"

	"github.com/biggeezerdevelopment/wordjson/internal/errs"
)

func parseStr(t *testing.T, in string) string {
	t.Helper()
	data := []byte(in)
	start, end, next, err := Parse(data, 0)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", in, err)
	}
	if next != len(data) {
		t.Errorf("Parse(%q).next = %d, want %d", in, next, len(data))
	}
	return string(data[start:end])
}

func TestParsePlain(t *testing.T) {
	cases := map[string]string{
		`""`:            "",
		`"a"`:           "a",
		`"hello world"`: "hello world",
		`"1234567890abcdefgh"`: "1234567890abcdefgh", // exercises the 8-byte batch path
	}
	for in, want := range cases {
		if got := parseStr(t, in); got != want {
			t.Errorf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseEscapes(t *testing.T) {
	cases := map[string]string{
		`"\""`:         `"`,
		`"\\"`:         `\`,
		`"\/"`:         `/`,
		`"\b"`:         "\b",
		`"\f"`:         "\f",
		`"\n"`:         "\n",
		`"\r"`:         "\r",
		`"\t"`:         "\t",
		`"a\nb"`:       "a\nb",
		`"\u0041"`:     "A",
		`"\u00e9"`:     "\u00e9",
		`"\ud83d\ude00"`: "\U0001F600", // surrogate pair -> emoji
	}
	for in, want := range cases {
		if got := parseStr(t, in); got != want {
			t.Errorf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRawUTF8(t *testing.T) {
	in := "\"caf\xc3\xa9\""
	if got := parseStr(t, in); got != "caf\u00e9" {
		t.Errorf("Parse(%q) = %q", in, got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in   string
		code errs.Code
	}{
		{"\"unterminated", errs.UnexpectedEnd},
		{"\"bad\\x\"", errs.UnknownEscape},
		{"\"bad\x01\"", errs.IllegalCodepoint},
		{"\"\\u12\"", errs.InvalidUnicodeEscape},
		{"\"\\ud83d\"", errs.UnexpectedEndOfUTF16},
		{"\"\\ud83d\\X\"", errs.ExpectedU},
		{"\"\\udc00\"", errs.InvalidUTF16TrailSurrogate},
		{"\"\\ud83d\\u0041\"", errs.InvalidUTF16TrailSurrogate},
		{"\"bad\xff\"", errs.InvalidUTF8},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			_, _, _, err := Parse([]byte(c.in), 0)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", c.in)
			}
			if err.Code != c.code {
				t.Errorf("Parse(%q) code = %v, want %v", c.in, err.Code, c.code)
			}
		})
	}
}

func TestParseNulTerminates(t *testing.T) {
	data := []byte(`"ab"cd`)
	start, end, next, err := Parse(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data[end] != 0 {
		t.Errorf("closing quote not NUL-terminated: %q", data[end])
	}
	if next != 4 {
		t.Errorf("next = %d, want 4", next)
	}
	_ = start
}
