// Package wbuf implements the single-buffer allocator: one
// caller-provided word slice serves as both the parse-time stack
// (growing up from index 0) and the finished-AST heap (growing down
// from the end). A live container's pending stack entries must never
// be clobbered while they are still needed, but once a container
// closes, converting its entries into AST words is allowed to reuse
// that same memory — the two regions are expected to overlap there,
// not forbidden from it.
package wbuf

import "github.com/biggeezerdevelopment/wordjson/internal/word"

// Buffer manages one caller-provided []word.Word as a stack growing up
// from the low end and a heap growing down from the high end.
type Buffer struct {
	buf         []word.Word
	end         int // len(buf); the heap's starting boundary
	writeCursor int // heap top; decreases toward stackTop
	stackTop    int // stack top; increases toward writeCursor
}

// New wraps buf for allocator use. buf must have length >= the number
// of words the parse will need (one word per input byte is always
// sufficient, since no token can produce more AST words than the
// bytes it consumes).
func New(buf []word.Word) *Buffer {
	return &Buffer{
		buf:         buf,
		end:         len(buf),
		writeCursor: len(buf),
		stackTop:    0,
	}
}

// Words exposes the backing slice for readers/writers that need direct
// index access (the number and string lexers store payloads this way).
func (b *Buffer) Words() []word.Word { return b.buf }

// Len returns the total capacity of the underlying buffer, in words.
func (b *Buffer) Len() int { return b.end }

// StackTop returns the current stack top index (one past the last
// pushed stack word).
func (b *Buffer) StackTop() int { return b.stackTop }

// SetStackTop truncates (or, in principle, extends — callers never do
// this) the stack to n. Used by the installers to pop a structure's
// contents off the stack once they have been copied to the heap.
func (b *Buffer) SetStackTop(n int) { b.stackTop = n }

// StackAt reads the stack word at absolute index idx.
func (b *Buffer) StackAt(idx int) word.Word { return b.buf[idx] }

// SetStackAt overwrites the stack word at absolute index idx. The
// installers do not call it; they write through Words() directly.
func (b *Buffer) SetStackAt(idx int, w word.Word) { b.buf[idx] = w }

// PushStack appends w to the stack and returns its absolute index.
// ok is false (OUT_OF_MEMORY) if doing so would make the stack cross
// the heap.
func (b *Buffer) PushStack(w word.Word) (idx int, ok bool) {
	if b.stackTop >= b.writeCursor {
		return 0, false
	}
	idx = b.stackTop
	b.buf[idx] = w
	b.stackTop++
	return idx, true
}

// ReserveStack reserves n consecutive stack slots without writing to
// them (used by object_key, which reserves two stack words and fills
// them in as the key string is decoded). ok is false on overlap.
func (b *Buffer) ReserveStack(n int) (base int, ok bool) {
	if b.stackTop+n > b.writeCursor {
		return 0, false
	}
	base = b.stackTop
	b.stackTop += n
	return base, true
}

// Reserve allocates n words from the top of the heap, returning their
// absolute base index (heap grows downward, so the reserved region is
// [base, base+n)). ok is false (OUT_OF_MEMORY) if doing so would dip
// below floor.
//
// floor is not always the live stack top: a caller converting a
// just-closed structure passes that structure's own frame-marker index
// as floor instead, since the n stack words being consumed are about
// to become n AST words occupying some of those same cells — the
// single-buffer design depends on that overlap, not just tolerates it.
// Reserve only carves out the address range; it is up to the caller to
// populate an overlapping region top-down, so a write into it never
// clobbers a source word before that word has been read.
func (b *Buffer) Reserve(n int, floor int) (base int, ok bool) {
	if b.writeCursor-n < floor {
		return 0, false
	}
	b.writeCursor -= n
	return b.writeCursor, true
}

// WriteOffset converts an absolute heap index into an "offset from the
// end of the buffer" — the form installers use to record where an
// emitted element lives, so a later, outer installer can rewrite it
// relative to its own base.
func (b *Buffer) WriteOffset(absIdx int) int { return b.end - absIdx }

// PointerOf is the inverse of WriteOffset: it recovers the absolute
// heap index from an offset-from-end.
func (b *Buffer) PointerOf(offset int) int { return b.end - offset }

// Root returns the absolute index of the final write cursor, i.e. the
// base of the outermost installed structure once parsing completes.
func (b *Buffer) Root() int { return b.writeCursor }
