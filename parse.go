// Package wordjson is a single-pass JSON parser that builds a compact,
// word-tagged in-memory AST instead of a tree of interface{} values.
// Every value the parser produces lives in one caller-provided []uint64
// buffer; strings borrow slices of the input directly. There is no
// per-node heap allocation: a fully parsed 10 MB document costs one
// buffer allocation, not one allocation per array, object, and string
// the way encoding/json's tree does.
//
// Parse is deliberately narrow: it decodes JSON into a Document you
// navigate with Value/Get/Index, not into your own Go types. For that,
// see the native subpackage's Decode, which walks a Document into a
// struct, map, or slice with encoding/json-compatible field tags.
package wordjson

import (
	"sync"
	"unsafe"

	"github.com/biggeezerdevelopment/wordjson/internal/engine"
	"github.com/biggeezerdevelopment/wordjson/internal/word"
)

// parserPool recycles engine.Parser values across calls to Parse to
// avoid a fresh allocation per parse on hot paths.
var parserPool = sync.Pool{New: func() interface{} { return engine.New() }}

// Parse parses input using buf as scratch space and, on success, as
// the storage for the finished AST. buf is mutated; its final content
// is only meaningful together with the returned Document, and only
// until the caller reuses or discards buf.
//
// A buffer of len(input) words is always sufficient, since no token
// can produce more AST words than the input bytes it consumes; callers
// that reparse repeatedly should keep reusing the same buffer.
//
// Parse also mutates input in place while decoding escaped strings:
// callers that need the original bytes afterward must pass a copy.
func Parse(input []byte, buf []uint64) (*Document, error) {
	words := u64ToWord(buf)

	p := parserPool.Get().(*engine.Parser)
	defer parserPool.Put(p)
	p.Reset(input, words)
	res, err := p.Run()
	if err != nil {
		return nil, newError(input, err)
	}

	return &Document{
		words:    res.Buf.Words(),
		input:    input,
		rootBase: res.RootBase,
		rootTag:  res.RootTag,
	}, nil
}

// ParseBytes is a convenience wrapper over Parse that allocates its own
// scratch buffer sized to input. Prefer Parse with a reused buffer on
// any hot path.
func ParseBytes(input []byte) (*Document, error) {
	buf := make([]uint64, len(input))
	return Parse(input, buf)
}

// Valid reports whether input is well-formed JSON, without retaining
// any of the parsed structure.
func Valid(input []byte) bool {
	cp := make([]byte, len(input))
	copy(cp, input)
	_, err := ParseBytes(cp)
	return err == nil
}

// u64ToWord reinterprets buf as []word.Word without copying: Word is
// defined as uint64, so the two slice types share layout and this is
// exactly the array-decay+cast the C original would do to view the
// same storage under a different element type.
func u64ToWord(buf []uint64) []word.Word {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*word.Word)(unsafe.Pointer(&buf[0])), len(buf))
}
