package wordjson

import (
	"strconv"

	"github.com/biggeezerdevelopment/wordjson/internal/errs"
)

// ErrorCode identifies the kind of parse failure. The values mirror
// internal/errs.Code; it is re-declared here so callers never need to
// import an internal package to switch on it.
type ErrorCode = errs.Code

const (
	ErrNoError                     = errs.NoError
	ErrOutOfMemory                 = errs.OutOfMemory
	ErrUnexpectedEnd               = errs.UnexpectedEnd
	ErrMissingRootElement          = errs.MissingRootElement
	ErrBadRoot                     = errs.BadRoot
	ErrExpectedComma               = errs.ExpectedComma
	ErrMissingObjectKey             = errs.MissingObjectKey
	ErrExpectedColon               = errs.ExpectedColon
	ErrExpectedEndOfInput          = errs.ExpectedEndOfInput
	ErrUnexpectedComma             = errs.UnexpectedComma
	ErrExpectedValue               = errs.ExpectedValue
	ErrExpectedNull                = errs.ExpectedNull
	ErrExpectedFalse               = errs.ExpectedFalse
	ErrExpectedTrue                = errs.ExpectedTrue
	ErrInvalidNumber               = errs.InvalidNumber
	ErrMissingExponent             = errs.MissingExponent
	ErrIllegalCodepoint             = errs.IllegalCodepoint
	ErrInvalidUnicodeEscape        = errs.InvalidUnicodeEscape
	ErrUnexpectedEndOfUTF16        = errs.UnexpectedEndOfUTF16
	ErrExpectedU                    = errs.ExpectedU
	ErrInvalidUTF16TrailSurrogate  = errs.InvalidUTF16TrailSurrogate
	ErrUnknownEscape                = errs.UnknownEscape
	ErrInvalidUTF8                  = errs.InvalidUTF8
	ErrUninitialized                = errs.Uninitialized
)

// Error is a parse failure resolved to a human-facing location. Line
// and Column are 1-based and computed lazily, once, only when a parse
// actually fails: the engine itself only ever tracks a byte offset.
type Error struct {
	Code    ErrorCode
	Line    int
	Column  int
	Offset  int
	message string
}

func (e *Error) Error() string {
	return e.message + " at line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column)
}

// newError resolves an internal *errs.Error against the original input
// to produce a caller-facing Error, running the one-time O(input) line
// scan the lazy design defers until the error path is actually taken.
func newError(input []byte, e *errs.Error) *Error {
	line, col := resolvePosition(input, e.Pos)
	return &Error{
		Code:    e.Code,
		Line:    line,
		Column:  col,
		Offset:  e.Pos,
		message: e.Error(),
	}
}

// resolvePosition converts a byte offset into a 1-based (line, column)
// pair by scanning input once, counting raw bytes rather than
// codepoints and treating "\n", "\r" and "\r\n" each as a single line
// break.
func resolvePosition(input []byte, offset int) (line, col int) {
	if offset > len(input) {
		offset = len(input)
	}
	line = 1
	col = 1
	for i := 0; i < offset; i++ {
		switch input[i] {
		case '\n':
			line++
			col = 1
		case '\r':
			if i+1 < offset && input[i+1] == '\n' {
				continue
			}
			line++
			col = 1
		default:
			col++
		}
	}
	return line, col
}
