// Package engine implements the structural JSON state machine and the
// array/object installers. It ties the tagged-word codec, the
// single-buffer allocator, and the number/string lexers together into
// a finished AST.
//
// The state machine is written as a "for { switch state }" dispatcher,
// the Go-shaped equivalent of a labeled-goto automaton: each case
// falls through to the next by assigning `st` and `continue`,
// mirroring goto-to-goto control flow without actual gotos.
package engine

import (
	"bytes"
	"sort"

	"github.com/biggeezerdevelopment/wordjson/internal/classify"
	"github.com/biggeezerdevelopment/wordjson/internal/errs"
	"github.com/biggeezerdevelopment/wordjson/internal/numlex"
	"github.com/biggeezerdevelopment/wordjson/internal/strlex"
	"github.com/biggeezerdevelopment/wordjson/internal/wbuf"
	"github.com/biggeezerdevelopment/wordjson/internal/word"
)

// sortThreshold is the key count above which install_object sorts its
// entries by key for binary-search lookup; at or below it, keys keep
// source order and lookup is linear.
const sortThreshold = 100

type state int

const (
	stateArrayCloseOrElement state = iota
	stateObjectCloseOrElement
	stateStructuralCloseOrComma
	stateObjectKey
	stateNextElement
)

// Result is a completed parse: the AST lives in Buf, rooted at
// RootBase with tag RootTag.
type Result struct {
	Buf      *wbuf.Buffer
	RootBase int
	RootTag  word.Tag
}

// Parser holds the mutable state of a single parse. It is safe to
// reuse across parses via Reset, so callers can pool it instead of
// allocating a fresh Parser per parse.
type Parser struct {
	input       []byte
	buf         *wbuf.Buffer
	pos         int
	currentBase int
	currentTag  word.Tag
	closedFrame word.Word // frame word of the structure being installed, saved before its reserve can overwrite it
}

// New creates a Parser bound to no input; call Reset before Run.
func New() *Parser { return &Parser{} }

// Reset rebinds the parser to a new input and word buffer, discarding
// any state left over from a previous parse.
func (p *Parser) Reset(input []byte, buf []word.Word) {
	p.input = input
	p.buf = wbuf.New(buf)
	p.pos = 0
	p.currentBase = 0
	p.currentTag = 0
}

// Run executes the state machine to completion, returning either a
// finished Result or the first error encountered.
func (p *Parser) Run() (Result, *errs.Error) {
	p.pos = p.skipWS(0)
	if p.pos >= len(p.input) {
		return Result{}, mkerr(errs.MissingRootElement, p.pos)
	}

	c := p.input[p.pos]
	if c != '[' && c != '{' {
		return Result{}, mkerr(errs.BadRoot, p.pos)
	}

	frameIdx, ok := p.buf.PushStack(word.MakeElement(word.TagNull, word.RootMarker))
	if !ok {
		return Result{}, mkerr(errs.OutOfMemory, p.pos)
	}
	p.currentBase = frameIdx

	var st state
	if c == '[' {
		p.currentTag = word.TagArray
		st = stateArrayCloseOrElement
	} else {
		p.currentTag = word.TagObject
		st = stateObjectCloseOrElement
	}
	p.pos++

	for {
		switch st {
		case stateArrayCloseOrElement:
			p.pos = p.skipWS(p.pos)
			if p.pos >= len(p.input) {
				return Result{}, mkerr(errs.UnexpectedEnd, p.pos)
			}
			if p.input[p.pos] == ']' {
				p.pos++
				newBase, ierr := p.installArray()
				if ierr != nil {
					return Result{}, ierr
				}
				res, done, next, perr := p.pop(newBase, word.TagArray)
				if perr != nil {
					return Result{}, perr
				}
				if done {
					return res, nil
				}
				st = next
				continue
			}
			st = stateNextElement

		case stateObjectCloseOrElement:
			p.pos = p.skipWS(p.pos)
			if p.pos >= len(p.input) {
				return Result{}, mkerr(errs.UnexpectedEnd, p.pos)
			}
			if p.input[p.pos] == '}' {
				p.pos++
				newBase, ierr := p.installObject()
				if ierr != nil {
					return Result{}, ierr
				}
				res, done, next, perr := p.pop(newBase, word.TagObject)
				if perr != nil {
					return Result{}, perr
				}
				if done {
					return res, nil
				}
				st = next
				continue
			}
			st = stateObjectKey

		case stateStructuralCloseOrComma:
			p.pos = p.skipWS(p.pos)
			if p.pos >= len(p.input) {
				return Result{}, mkerr(errs.UnexpectedEnd, p.pos)
			}
			b := p.input[p.pos]
			if p.currentTag == word.TagArray {
				switch b {
				case ']':
					p.pos++
					newBase, ierr := p.installArray()
					if ierr != nil {
						return Result{}, ierr
					}
					res, done, next, perr := p.pop(newBase, word.TagArray)
					if perr != nil {
						return Result{}, perr
					}
					if done {
						return res, nil
					}
					st = next
					continue
				case ',':
					p.pos++
					st = stateNextElement
				default:
					return Result{}, mkerr(errs.ExpectedComma, p.pos)
				}
			} else {
				switch b {
				case '}':
					p.pos++
					newBase, ierr := p.installObject()
					if ierr != nil {
						return Result{}, ierr
					}
					res, done, next, perr := p.pop(newBase, word.TagObject)
					if perr != nil {
						return Result{}, perr
					}
					if done {
						return res, nil
					}
					st = next
					continue
				case ',':
					p.pos++
					st = stateObjectKey
				default:
					return Result{}, mkerr(errs.ExpectedComma, p.pos)
				}
			}

		case stateObjectKey:
			p.pos = p.skipWS(p.pos)
			if p.pos >= len(p.input) {
				return Result{}, mkerr(errs.UnexpectedEnd, p.pos)
			}
			if p.input[p.pos] != '"' {
				return Result{}, mkerr(errs.MissingObjectKey, p.pos)
			}
			keyStart, keyEnd, next, serr := strlex.Parse(p.input, p.pos)
			if serr != nil {
				return Result{}, serr
			}
			reserveBase, ok := p.buf.ReserveStack(2)
			if !ok {
				return Result{}, mkerr(errs.OutOfMemory, p.pos)
			}
			words := p.buf.Words()
			words[reserveBase] = word.Word(keyStart)
			words[reserveBase+1] = word.Word(keyEnd)
			p.pos = next
			p.pos = p.skipWS(p.pos)
			if p.pos >= len(p.input) {
				return Result{}, mkerr(errs.UnexpectedEnd, p.pos)
			}
			if p.input[p.pos] != ':' {
				return Result{}, mkerr(errs.ExpectedColon, p.pos)
			}
			p.pos++
			st = stateNextElement

		case stateNextElement:
			p.pos = p.skipWS(p.pos)
			if p.pos >= len(p.input) {
				return Result{}, mkerr(errs.UnexpectedEnd, p.pos)
			}
			b := p.input[p.pos]
			switch {
			case b == 'n':
				if !p.literal("null") {
					return Result{}, mkerr(errs.ExpectedNull, p.pos)
				}
				if err := p.pushValue(word.MakeElement(word.TagNull, 0)); err != nil {
					return Result{}, err
				}
				st = stateStructuralCloseOrComma
			case b == 'f':
				if !p.literal("false") {
					return Result{}, mkerr(errs.ExpectedFalse, p.pos)
				}
				if err := p.pushValue(word.MakeElement(word.TagFalse, 0)); err != nil {
					return Result{}, err
				}
				st = stateStructuralCloseOrComma
			case b == 't':
				if !p.literal("true") {
					return Result{}, mkerr(errs.ExpectedTrue, p.pos)
				}
				if err := p.pushValue(word.MakeElement(word.TagTrue, 0)); err != nil {
					return Result{}, err
				}
				st = stateStructuralCloseOrComma
			case b == '"':
				elem, next, serr := p.parseStringValue()
				if serr != nil {
					return Result{}, serr
				}
				p.pos = next
				if err := p.pushValue(elem); err != nil {
					return Result{}, err
				}
				st = stateStructuralCloseOrComma
			case b == '-' || (b >= '0' && b <= '9'):
				elem, next, nerr := p.parseNumberValue()
				if nerr != nil {
					return Result{}, nerr
				}
				p.pos = next
				if err := p.pushValue(elem); err != nil {
					return Result{}, err
				}
				st = stateStructuralCloseOrComma
			case b == '[':
				if err := p.pushFrame(word.TagArray); err != nil {
					return Result{}, err
				}
				p.pos++
				st = stateArrayCloseOrElement
			case b == '{':
				if err := p.pushFrame(word.TagObject); err != nil {
					return Result{}, err
				}
				p.pos++
				st = stateObjectCloseOrElement
			case b == ',':
				return Result{}, mkerr(errs.UnexpectedComma, p.pos)
			default:
				return Result{}, mkerr(errs.ExpectedValue, p.pos)
			}
		}
	}
}

func (p *Parser) skipWS(pos int) int {
	for pos < len(p.input) && classify.IsWhitespace(p.input[pos]) {
		pos++
	}
	return pos
}

func (p *Parser) literal(s string) bool {
	if p.pos+len(s) > len(p.input) {
		return false
	}
	if string(p.input[p.pos:p.pos+len(s)]) != s {
		return false
	}
	p.pos += len(s)
	return true
}

func (p *Parser) pushValue(elem word.Word) *errs.Error {
	if _, ok := p.buf.PushStack(elem); !ok {
		return mkerr(errs.OutOfMemory, p.pos)
	}
	return nil
}

func (p *Parser) pushFrame(newTag word.Tag) *errs.Error {
	frameIdx, ok := p.buf.PushStack(word.MakeElement(p.currentTag, word.Word(p.currentBase)))
	if !ok {
		// PushStack leaves the stack unchanged on failure; the failure is
		// reported here as OutOfMemory rather than left to a later state.
		return mkerr(errs.OutOfMemory, p.pos)
	}
	p.currentBase = frameIdx
	p.currentTag = newTag
	return nil
}

func (p *Parser) parseNumberValue() (word.Word, int, *errs.Error) {
	res, err := numlex.Parse(p.input, p.pos)
	if err != nil {
		return 0, 0, err
	}
	base, ok := p.buf.Reserve(1, p.buf.StackTop())
	if !ok {
		return 0, 0, mkerr(errs.OutOfMemory, p.pos)
	}
	words := p.buf.Words()
	if res.Tag == word.TagInteger {
		word.StoreI32(words, base, res.I32)
	} else {
		word.StoreF64(words, base, res.F64)
	}
	elem := word.MakeElement(res.Tag, word.Word(p.buf.WriteOffset(base)))
	return elem, res.Next, nil
}

func (p *Parser) parseStringValue() (word.Word, int, *errs.Error) {
	start, end, next, err := strlex.Parse(p.input, p.pos)
	if err != nil {
		return 0, 0, err
	}
	base, ok := p.buf.Reserve(2, p.buf.StackTop())
	if !ok {
		return 0, 0, mkerr(errs.OutOfMemory, p.pos)
	}
	words := p.buf.Words()
	words[base] = word.Word(start)
	words[base+1] = word.Word(end)
	elem := word.MakeElement(word.TagString, word.Word(p.buf.WriteOffset(base)))
	return elem, next, nil
}

// pop closes the current structure: it inspects the frame word that
// was at currentBase (saved by the installer before its reserve could
// overwrite that cell) to decide whether the just-installed structure
// at newBase is the document root or another container's pending value.
func (p *Parser) pop(newBase int, closedTag word.Tag) (Result, bool, state, *errs.Error) {
	frameWord := p.closedFrame
	savedTag := word.TagOf(frameWord)
	savedBase := word.ValueOf(frameWord)

	if savedBase == word.RootMarker {
		end := p.skipWS(p.pos)
		if end != len(p.input) {
			return Result{}, false, 0, mkerr(errs.ExpectedEndOfInput, end)
		}
		return Result{Buf: p.buf, RootBase: newBase, RootTag: closedTag}, true, 0, nil
	}

	p.currentBase = int(savedBase)
	p.currentTag = savedTag

	elem := word.MakeElement(closedTag, word.Word(p.buf.WriteOffset(newBase)))
	if err := p.pushValue(elem); err != nil {
		return Result{}, false, 0, err
	}
	return Result{}, false, stateStructuralCloseOrComma, nil
}

// installArray copies the current array's pending stack entries
// (currentBase+1 .. stack top) into a fresh heap region, rewriting
// each element's value from an absolute buffer index to an offset
// relative to the new region's base.
//
// The reserve is allowed to land anywhere down to currentBase, the
// frame marker this array is about to discard (its word is saved in
// closedFrame first, for pop), which routinely makes
// the new region overlap the very stack entries it is replacing. The
// copy therefore runs from the last element to the first: for element
// i the write address is always at or past the read address for every
// not-yet-processed element j<i (their addresses differ by at least
// (i-j) words, more than the single word either side writes), so a
// write never clobbers a source word before it has been read.
func (p *Parser) installArray() (int, *errs.Error) {
	begin := p.currentBase + 1
	end := p.buf.StackTop()
	length := end - begin

	p.closedFrame = p.buf.StackAt(p.currentBase)
	base, ok := p.buf.Reserve(length+1, p.currentBase)
	if !ok {
		return 0, mkerr(errs.OutOfMemory, p.pos)
	}
	words := p.buf.Words()

	for i := length - 1; i >= 0; i-- {
		elem := words[begin+i]
		words[base+1+i] = p.rebaseChildValue(elem, base)
	}
	words[base] = word.Word(length)

	p.buf.SetStackTop(p.currentBase)
	return base, nil
}

// rebaseChildValue rewrites a pending stack element's payload from an
// absolute buffer index to an offset relative to newBase, the new
// container's own base. null/false/true carry no payload at all —
// their value is unused and stays the zero it was created with,
// rather than being rewritten into a meaningless offset.
func (p *Parser) rebaseChildValue(w word.Word, newBase int) word.Word {
	tag := word.TagOf(w)
	switch tag {
	case word.TagNull, word.TagFalse, word.TagTrue:
		return word.MakeElement(tag, 0)
	default:
		absIdx := p.buf.PointerOf(int(word.ValueOf(w)))
		return word.MakeElement(tag, word.Word(absIdx-newBase))
	}
}

// installObject mirrors installArray for 3-word (key_start, key_end,
// value) records. When the entry count exceeds sortThreshold, the
// records are sorted by key in place on the stack first — swapping
// whole 3-word records there, before any heap region is reserved —
// so the copy below stays a plain positional walk with no separate
// permutation indices to track across the overlap.
func (p *Parser) installObject() (int, *errs.Error) {
	begin := p.currentBase + 1
	end := p.buf.StackTop()
	count := (end - begin) / 3

	if count > sortThreshold {
		sort.Sort(objectRecords{words: p.buf.Words()[begin:end], input: p.input})
	}

	p.closedFrame = p.buf.StackAt(p.currentBase)
	base, ok := p.buf.Reserve(count*3+1, p.currentBase)
	if !ok {
		return 0, mkerr(errs.OutOfMemory, p.pos)
	}
	words := p.buf.Words()

	// Descending for the same reason as installArray: record i's write
	// address and record j's (j<i, not yet read) read address are at
	// least 3*(i-j) words apart, more than the 3 words either side
	// touches, so earlier writes never reach into not-yet-read records.
	for i := count - 1; i >= 0; i-- {
		rec := begin + i*3
		keyStart := words[rec]
		keyEnd := words[rec+1]
		valElem := words[rec+2]

		rewritten := p.rebaseChildValue(valElem, base)

		dst := base + 1 + i*3
		words[dst] = keyStart
		words[dst+1] = keyEnd
		words[dst+2] = rewritten
	}
	words[base] = word.Word(count)

	p.buf.SetStackTop(p.currentBase)
	return base, nil
}

// objectRecords sorts a run of 3-word (key_start, key_end, value)
// stack records in place by key: shorter key first, then
// lexicographic byte order. This ordering (length-primary, then
// memcmp) is the stable wire order find_object_key's binary search
// relies on.
type objectRecords struct {
	words []word.Word
	input []byte
}

func (r objectRecords) Len() int { return len(r.words) / 3 }

func (r objectRecords) Less(i, j int) bool {
	ai, bi := i*3, j*3
	ak := r.input[r.words[ai]:r.words[ai+1]]
	bk := r.input[r.words[bi]:r.words[bi+1]]
	if len(ak) != len(bk) {
		return len(ak) < len(bk)
	}
	return bytes.Compare(ak, bk) < 0
}

func (r objectRecords) Swap(i, j int) {
	ai, bi := i*3, j*3
	for k := 0; k < 3; k++ {
		r.words[ai+k], r.words[bi+k] = r.words[bi+k], r.words[ai+k]
	}
}

func mkerr(code errs.Code, pos int) *errs.Error {
	return &errs.Error{Code: code, Pos: pos}
}
