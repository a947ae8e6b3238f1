package wordjson

// This file collects the small, C-ABI-shaped surface a caller
// embedding this parser behind a stable boundary (a cgo export, a
// plugin interface, an FFI layer) would want: plain functions taking
// and returning concrete values rather than idiomatic Go methods and
// multi-value returns, so the shape doesn't change if the calling
// convention around it does.
//
// Document/Value already cover normal Go usage; nothing here does
// anything Document's own methods don't already do.

// DocumentSizeof returns the number of uint64 words a Parse call
// against input of the given length can ever need. It is the sizing
// function a caller pools buffers with.
func DocumentSizeof(inputLen int) int { return inputLen }

// ParseSingleAllocation parses input using exactly one caller-owned
// scratch/AST buffer (scratch []uint64 must have length >=
// DocumentSizeof(len(input))) and returns the resulting document or
// nil plus the parse error.
func ParseSingleAllocation(input []byte, scratch []uint64) (*Document, error) {
	return Parse(input, scratch)
}

// FreeDocument releases doc's references to its backing buffers so
// they can be reused or garbage collected. It does not zero the
// buffers; callers that pooled them are responsible for that.
func FreeDocument(doc *Document) {
	if doc == nil {
		return
	}
	doc.words = nil
	doc.input = nil
}

// HasError reports whether err, as returned from Parse, is non-nil.
func HasError(err error) bool { return err != nil }

// GetErrorLine returns the 1-based line a parse error occurred on, or
// 0 if err is not a *Error.
func GetErrorLine(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Line
	}
	return 0
}

// GetErrorColumn returns the 1-based column a parse error occurred at,
// or 0 if err is not a *Error.
func GetErrorColumn(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Column
	}
	return 0
}

// GetErrorMessage returns err's message, or "" if err is nil.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// GetRootTag returns doc's root value's tag.
func GetRootTag(doc *Document) Tag { return doc.rootTag }

// GetRoot returns doc's root value.
func GetRoot(doc *Document) Value { return doc.Root() }

// GetInput returns the input buffer doc's strings borrow from.
func GetInput(doc *Document) []byte { return doc.Input() }
