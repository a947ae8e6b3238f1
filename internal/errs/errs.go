// Package errs defines the stable error-code identifiers shared by
// every parsing stage (number lexer, string lexer, structural engine)
// so that a lexer failure can propagate a precise code up to the
// document-level Error without those packages depending on the
// public API package (which would be a cycle).
package errs

import "strconv"

// Code is one of the stable parse-error identifiers. The numeric
// values are not part of any wire format; only the identifier names
// and their associated messages are stable.
type Code uint8

const (
	NoError Code = iota
	OutOfMemory
	UnexpectedEnd
	MissingRootElement
	BadRoot
	ExpectedComma
	MissingObjectKey
	ExpectedColon
	ExpectedEndOfInput
	UnexpectedComma
	ExpectedValue
	ExpectedNull
	ExpectedFalse
	ExpectedTrue
	InvalidNumber
	MissingExponent
	IllegalCodepoint
	InvalidUnicodeEscape
	UnexpectedEndOfUTF16
	ExpectedU
	InvalidUTF16TrailSurrogate
	UnknownEscape
	InvalidUTF8
	Uninitialized
)

// Text returns the fixed message text for c, with no argument
// interpolated. IllegalCodepoint additionally carries a byte argument
// formatted by the caller as "<text>: <byte>".
func (c Code) Text() string {
	switch c {
	case NoError:
		return "no error"
	case OutOfMemory:
		return "out of memory"
	case UnexpectedEnd:
		return "unexpected end of input"
	case MissingRootElement:
		return "missing root element"
	case BadRoot:
		return "document root must be an object or array"
	case ExpectedComma:
		return "expected comma"
	case MissingObjectKey:
		return "missing object key"
	case ExpectedColon:
		return "expected colon"
	case ExpectedEndOfInput:
		return "expected end of input"
	case UnexpectedComma:
		return "unexpected comma"
	case ExpectedValue:
		return "expected value"
	case ExpectedNull:
		return "expected 'null'"
	case ExpectedFalse:
		return "expected 'false'"
	case ExpectedTrue:
		return "expected 'true'"
	case InvalidNumber:
		return "invalid number"
	case MissingExponent:
		return "missing exponent digits"
	case IllegalCodepoint:
		return "illegal codepoint"
	case InvalidUnicodeEscape:
		return "invalid unicode escape"
	case UnexpectedEndOfUTF16:
		return "unexpected end of input in utf-16 escape"
	case ExpectedU:
		return "expected 'u' in unicode escape"
	case InvalidUTF16TrailSurrogate:
		return "invalid utf-16 trail surrogate"
	case UnknownEscape:
		return "unknown escape sequence"
	case InvalidUTF8:
		return "invalid utf-8"
	case Uninitialized:
		return "document not initialized"
	default:
		return "unknown error"
	}
}

// Error pairs a Code with the byte offset it occurred at, plus the
// single optional integer argument IllegalCodepoint carries. The byte
// offset is resolved to a 1-based line/column lazily, at the document
// boundary, since that resolution is a one-time O(input) scan that
// only the (rare) error path needs to pay for.
type Error struct {
	Code   Code
	Pos    int
	HasArg bool
	Arg    int
}

func (e *Error) Error() string {
	if e == nil || e.Code == NoError {
		return ""
	}
	msg := e.Code.Text()
	if e.HasArg {
		msg += ": " + strconv.Itoa(e.Arg)
	}
	return msg
}
