// Package numlex implements the JSON number grammar: optional sign,
// integer part, optional fraction, optional exponent, with integer
// accumulation that promotes to double the moment it would overflow
// int32 or the moment a fraction/exponent appears.
package numlex

import (
	"math"

	"github.com/biggeezerdevelopment/wordjson/internal/classify"
	"github.com/biggeezerdevelopment/wordjson/internal/errs"
	"github.com/biggeezerdevelopment/wordjson/internal/word"
)

// pow10 holds 1e-323 .. 1e308, indexed by exponent+323. Built once at
// init from math.Pow rather than hand-transcribed, since Go has no
// portable way to embed a 632-entry literal without transcription
// errors and the values are the values libm would produce anyway.
var pow10 = buildPow10()

func buildPow10() [632]float64 {
	var t [632]float64
	for e := -323; e <= 308; e++ {
		t[e+323] = math.Pow(10, float64(e))
	}
	return t
}

func pow10At(e int64) float64 {
	if e > 308 {
		return math.Inf(1)
	}
	if e < -323 {
		return 0.0
	}
	return pow10[e+323]
}

const maxInt32 = int64(math.MaxInt32)

// Result is the outcome of parsing one number token.
type Result struct {
	Tag  word.Tag // TagInteger or TagDouble
	I32  int32
	F64  float64
	Next int // byte offset just past the consumed token
}

// Parse consumes a number token from data starting at pos (data[pos]
// is guaranteed by the caller to be '-' or a digit) and returns its
// value.
func Parse(data []byte, pos int) (Result, *errs.Error) {
	n := len(data)
	neg := false

	if pos < n && data[pos] == '-' {
		neg = true
		pos++
	}
	if pos >= n {
		return Result{}, mkerr(errs.UnexpectedEnd, pos)
	}
	if !isDigit(data[pos]) {
		return Result{}, mkerr(errs.InvalidNumber, pos)
	}

	var i int64
	var d float64
	useDouble := false

	if data[pos] == '0' {
		pos++
	} else {
		for pos < n && isDigit(data[pos]) {
			digit := int64(data[pos] - '0')
			if useDouble {
				d = d*10 + float64(digit)
				pos++
				continue
			}
			// Exact overflow check: i is well within int64 range for
			// any prefix that hasn't overflowed int32 yet, so
			// i*10+digit never overflows int64 itself. This replaces
			// the C-style pre-multiply guard (i > INT_MAX/10 - 9),
			// which only has a coarse, conservative margin because a
			// 32-bit accumulator can't look ahead safely; Go's int64
			// headroom lets the promotion boundary land exactly on
			// INT_MAX rather than a few digits early.
			candidate := i*10 + digit
			if candidate > maxInt32 {
				useDouble = true
				d = float64(i)*10 + float64(digit)
			} else {
				i = candidate
			}
			pos++
		}
	}

	exponent := int64(0)

	// Fractional part forces the double path.
	if pos < n && data[pos] == '.' {
		if !useDouble {
			useDouble = true
			d = float64(i)
		}
		pos++
		if pos >= n || !isDigit(data[pos]) {
			return Result{}, mkerr(errs.InvalidNumber, pos)
		}
		for pos < n && isDigit(data[pos]) {
			d = d*10 + float64(data[pos]-'0')
			exponent--
			pos++
		}
	}

	// Exponent part forces the double path.
	if pos < n && (data[pos] == 'e' || data[pos] == 'E') {
		if !useDouble {
			useDouble = true
			d = float64(i)
		}
		pos++
		expNeg := false
		if pos < n && (data[pos] == '+' || data[pos] == '-') {
			expNeg = data[pos] == '-'
			pos++
		}
		if pos >= n || !isDigit(data[pos]) {
			return Result{}, mkerr(errs.MissingExponent, pos)
		}
		var e int64
		for pos < n && isDigit(data[pos]) {
			if e <= maxInt32/10 {
				e = e*10 + int64(data[pos]-'0')
			} else {
				e = maxInt32
			}
			pos++
		}
		if expNeg {
			e = -e
		}
		exponent += e
	}

	if !useDouble {
		if neg {
			i = -i
		}
		return Result{Tag: word.TagInteger, I32: int32(i), Next: pos}, nil
	}

	if d != 0 {
		d *= pow10At(exponent)
	}
	if neg {
		d = -d
	}
	return Result{Tag: word.TagDouble, F64: d, Next: pos}, nil
}

func isDigit(b byte) bool { return classify.IsNumberByte(b) && b >= '0' && b <= '9' }

func mkerr(code errs.Code, pos int) *errs.Error {
	return &errs.Error{Code: code, Pos: pos}
}
