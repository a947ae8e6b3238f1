package wordjson

import (
	"unsafe"

	"github.com/biggeezerdevelopment/wordjson/internal/word"
)

// Tag identifies the kind of value a Value holds. It is the same
// three-bit discriminator stored in every AST word, exported so
// callers can switch on it without reaching into internal packages.
type Tag = word.Tag

const (
	TagInteger = word.TagInteger
	TagDouble  = word.TagDouble
	TagNull    = word.TagNull
	TagFalse   = word.TagFalse
	TagTrue    = word.TagTrue
	TagString  = word.TagString
	TagArray   = word.TagArray
	TagObject  = word.TagObject
)

// Document is a parsed JSON document: the caller-provided word buffer
// now holds a finished AST, addressed relative to input, which the
// document borrows for its lifetime (string values point directly
// into it and must not be mutated or freed out from under it).
type Document struct {
	words    []word.Word
	input    []byte
	rootBase int
	rootTag  word.Tag
}

// Root returns the document's top-level value.
func (d *Document) Root() Value {
	return Value{doc: d, tag: d.rootTag, idx: d.rootBase}
}

// Input returns the (possibly escape-mutated) input buffer the
// document's string values were decoded from.
func (d *Document) Input() []byte { return d.input }

// Value is a handle onto one AST node. It is a small value type, cheap
// to copy and pass by value the way reflect.Value is.
type Value struct {
	doc *Document
	tag word.Tag
	idx int // absolute word index of this value's data record; unused for null/bool
}

// Tag reports the kind of value v holds.
func (v Value) Tag() word.Tag { return v.tag }

// IsNull reports whether v is the JSON null literal.
func (v Value) IsNull() bool { return v.tag == word.TagNull }

// Bool returns v's boolean value and whether v was in fact a boolean.
func (v Value) Bool() (bool, bool) {
	switch v.tag {
	case word.TagTrue:
		return true, true
	case word.TagFalse:
		return false, true
	default:
		return false, false
	}
}

// Int32 returns v's value as an int32 if v is a JSON integer that was
// never promoted to double. Numbers stored as doubles are not
// truncated here; use Float64 for those.
func (v Value) Int32() (int32, bool) {
	if v.tag != word.TagInteger {
		return 0, false
	}
	return word.LoadI32(v.doc.words, v.idx), true
}

// Float64 returns v's numeric value, promoting a stored integer to
// float64 if necessary.
func (v Value) Float64() (float64, bool) {
	switch v.tag {
	case word.TagDouble:
		return word.LoadF64(v.doc.words, v.idx), true
	case word.TagInteger:
		return float64(word.LoadI32(v.doc.words, v.idx)), true
	default:
		return 0, false
	}
}

// int53Limit is the largest magnitude a double can hold while still
// representing every integer up to that value exactly (2^53).
const int53Limit = int64(1) << 53

// Int53 returns v's numeric value as an int64 if it is an integer, or
// a double that is exactly integral and fits in [-2^53, 2^53]. This is
// the range within which every value survives a round trip through a
// float64 (or a JSON implementation that decodes numbers as doubles),
// which makes it a safer choice than Int32/Float64 for values like
// timestamps or IDs that must not be silently truncated. Every failure
// path returns 0, false, so no failure can leave a stale value visible.
func (v Value) Int53() (int64, bool) {
	switch v.tag {
	case word.TagInteger:
		return int64(word.LoadI32(v.doc.words, v.idx)), true
	case word.TagDouble:
		f := word.LoadF64(v.doc.words, v.idx)
		if f < -float64(int53Limit) || f > float64(int53Limit) {
			return 0, false
		}
		asInt := int64(f)
		if float64(asInt) != f {
			return 0, false
		}
		return asInt, true
	default:
		return 0, false
	}
}

// String returns v's string content as a zero-copy view into the
// document's input buffer, valid only for as long as the document (and
// the buffer backing it) is alive.
func (v Value) String() (string, bool) {
	if v.tag != word.TagString {
		return "", false
	}
	start := int(v.doc.words[v.idx])
	end := int(v.doc.words[v.idx+1])
	return unsafeString(v.doc.input[start:end]), true
}

// Len returns the number of elements in an array or key/value pairs in
// an object; it is 0 for any other tag.
func (v Value) Len() int {
	switch v.tag {
	case word.TagArray, word.TagObject:
		return int(v.doc.words[v.idx])
	default:
		return 0
	}
}

// Index returns the n'th element of an array value. It panics if v is
// not an array or n is out of range, mirroring slice indexing.
func (v Value) Index(n int) Value {
	length := v.Len()
	if v.tag != word.TagArray || n < 0 || n >= length {
		panic("wordjson: array index out of range")
	}
	w := v.doc.words[v.idx+1+n]
	return v.doc.child(w, v.idx)
}

// ForEach calls fn for each element of an array value, in order,
// stopping early if fn returns false. It is a no-op for other tags.
func (v Value) ForEach(fn func(i int, elem Value) bool) {
	if v.tag != word.TagArray {
		return
	}
	length := v.Len()
	for i := 0; i < length; i++ {
		if !fn(i, v.doc.child(v.doc.words[v.idx+1+i], v.idx)) {
			return
		}
	}
}

// sortThreshold mirrors internal/engine's install_object threshold:
// above this key count, entries are sorted and Get binary-searches;
// at or below it, entries keep source order and Get scans linearly.
const sortThreshold = 100

// Get looks up key in an object value. Below the sort threshold this
// is a linear scan in source order; above it, a binary search over the
// (length, bytes) key ordering install_object sorted by.
func (v Value) Get(key string) (Value, bool) {
	if v.tag != word.TagObject {
		return Value{}, false
	}
	length := v.Len()
	base := v.idx

	if length <= sortThreshold {
		for i := 0; i < length; i++ {
			rec := base + 1 + i*3
			if v.doc.keyAt(rec) == key {
				return v.doc.child(v.doc.words[rec+2], base), true
			}
		}
		return Value{}, false
	}

	lo, hi := 0, length
	for lo < hi {
		mid := (lo + hi) / 2
		rec := base + 1 + mid*3
		switch keyCompare(v.doc.keyAt(rec), key) {
		case 0:
			return v.doc.child(v.doc.words[rec+2], base), true
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return Value{}, false
}

// ForEachField calls fn for each key/value pair of an object value, in
// the order the pairs are stored (source order below the sort
// threshold, key order above it). It is a no-op for other tags.
func (v Value) ForEachField(fn func(key string, val Value) bool) {
	if v.tag != word.TagObject {
		return
	}
	length := v.Len()
	base := v.idx
	for i := 0; i < length; i++ {
		rec := base + 1 + i*3
		key := v.doc.keyAt(rec)
		if !fn(key, v.doc.child(v.doc.words[rec+2], base)) {
			return
		}
	}
}

// Field returns the key and value at position i (source order below
// the sort threshold, key order above it) of an object value, mirroring
// array indexing for objects. The second return is false if v is not
// an object or i is out of range, rather than panicking, since a
// caller iterating by index has no natural bound to check up front the
// way Index's callers do against Len.
func (v Value) Field(i int) (string, Value, bool) {
	if v.tag != word.TagObject {
		return "", Value{}, false
	}
	length := v.Len()
	if i < 0 || i >= length {
		return "", Value{}, false
	}
	base := v.idx
	rec := base + 1 + i*3
	return v.doc.keyAt(rec), v.doc.child(v.doc.words[rec+2], base), true
}

// keyAt returns the key string of the 3-word object record at absolute
// heap index rec, as a zero-copy view into input.
func (d *Document) keyAt(rec int) string {
	start := int(d.words[rec])
	end := int(d.words[rec+1])
	return unsafeString(d.input[start:end])
}

// keyCompare orders a against b the same way install_object sorts
// keys: shorter first, then lexicographic byte order.
func keyCompare(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// child decodes a stored element word as a value relative to
// containerBase, matching install_array/install_object's base-relative
// rewrite: the word's payload is an offset from the container's own
// base index, not an absolute index.
func (d *Document) child(w word.Word, containerBase int) Value {
	tag := word.TagOf(w)
	return Value{doc: d, tag: tag, idx: containerBase + int(word.ValueOf(w))}
}

// unsafeString reinterprets b as a string without copying. The caller
// must not mutate b for as long as the string is alive.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}
