// Package strlex implements JSON string scanning: a fast path over
// plain ASCII bytes, batched eight-at-a-time with a broadcast-and-mask
// bit trick for structural-byte detection, and a slow path that
// decodes escapes and validates raw UTF-8 in place.
//
// Parse never allocates. It mutates the input buffer in place — the
// decoded (shorter-or-equal) string always fits behind the original
// quoted token, since every escape sequence and multi-byte UTF-8
// sequence for a codepoint requires more or equal source bytes than
// its decoded form — and returns byte offsets into that same buffer,
// leaving the caller to place the resulting {start,end} pair wherever
// its container calls for.
package strlex

import (
	"encoding/binary"
	"unicode/utf8"

	"golang.org/x/sys/cpu"

	"github.com/biggeezerdevelopment/wordjson/internal/classify"
	"github.com/biggeezerdevelopment/wordjson/internal/errs"
)

const (
	loMask = 0x0101010101010101
	hiMask = 0x8080808080808080
)

// batchWords is the number of consecutive 8-byte words the fast path
// tests together before falling back to per-byte scanning. On cores
// with wide SIMD load/compare units, doing two loads and combining
// their stop-condition masks before branching keeps more of the loop
// body in flight than testing one word at a time; on narrower cores
// it isn't worth the extra load. There is no actual vector code here,
// only a batch-size heuristic.
var batchWords = detectBatchWords()

func detectBatchWords() int {
	if cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
		return 2
	}
	return 1
}

func hasZero(x uint64) bool { return (x-loMask)&^x&hiMask != 0 }

func hasByte(w uint64, c byte) bool { return hasZero(w ^ (loMask * uint64(c))) }

// hasLess reports whether any byte of w is < n, for n <= 0x80.
func hasLess(w uint64, n byte) bool { return (w-loMask*uint64(n))&^w&hiMask != 0 }

func hasHighBit(w uint64) bool { return w&hiMask != 0 }

// isPlainWord reports whether every byte of w is a plain string byte:
// no control byte, no quote, no backslash, no high bit set.
func isPlainWord(w uint64) bool {
	return !hasLess(w, 0x20) && !hasByte(w, '"') && !hasByte(w, '\\') && !hasHighBit(w)
}

// Parse scans the quoted string starting at data[pos] (data[pos] must
// be '"'). On success it returns the byte range [start, end) of the
// decoded content within data, and the position just past the closing
// quote. The closing quote's byte is overwritten with NUL as a
// convenience terminator for callers that want a C-style string; it
// plays no role in the returned range.
func Parse(data []byte, pos int) (start, end, next int, err *errs.Error) {
	n := len(data)
	start = pos + 1
	i := start

	stride := batchWords * 8
	for i < n {
		if i+stride <= n {
			ok := true
			for k := 0; k < batchWords; k++ {
				off := i + k*8
				if !isPlainWord(binary.LittleEndian.Uint64(data[off : off+8])) {
					ok = false
					break
				}
			}
			if ok {
				i += stride
				continue
			}
		}
		if i+8 <= n && isPlainWord(binary.LittleEndian.Uint64(data[i:i+8])) {
			i += 8
			continue
		}
		if classify.IsPlainString(data[i]) {
			i++
			continue
		}
		break
	}

	if i >= n {
		return 0, 0, 0, mkerr(errs.UnexpectedEnd, i)
	}

	switch data[i] {
	case '"':
		data[i] = 0
		return start, i, i + 1, nil
	case '\\':
		return slowPath(data, start, i, i)
	default:
		// data[i] < 0x20 (control byte) or >= 0x80 (non-ASCII), and the
		// fast path above already ruled out plain-ASCII, '"', and '\\'.
		if data[i] < 0x20 {
			return 0, 0, 0, mkerrArg(errs.IllegalCodepoint, i, int(data[i]))
		}
		return slowPath(data, start, i, i)
	}
}

// slowPath resumes scanning at src (data[src] is either '\\' or the
// first byte of a raw UTF-8 sequence), compacting the decoded output
// into data starting at dest. contentStart is the byte offset the
// plain-ASCII fast path already scanned up to src without needing to
// touch — the decoded content still begins there, even though the
// write cursor dest only starts moving once the slow path takes over.
// dest never runs ahead of src, since every source form it consumes is
// at least as wide as what it emits.
func slowPath(data []byte, contentStart, dest, src int) (start, end, next int, err *errs.Error) {
	n := len(data)
	start = contentStart

	for {
		if src >= n {
			return 0, 0, 0, mkerr(errs.UnexpectedEnd, src)
		}
		c := data[src]

		switch {
		case c == '"':
			data[dest] = 0
			return start, dest, src + 1, nil

		case c == '\\':
			src++
			if src >= n {
				return 0, 0, 0, mkerr(errs.UnexpectedEnd, src)
			}
			e := data[src]
			switch e {
			case '"', '\\', '/':
				data[dest] = e
				dest++
				src++
			case 'b':
				data[dest] = '\b'
				dest++
				src++
			case 'f':
				data[dest] = '\f'
				dest++
				src++
			case 'n':
				data[dest] = '\n'
				dest++
				src++
			case 'r':
				data[dest] = '\r'
				dest++
				src++
			case 't':
				data[dest] = '\t'
				dest++
				src++
			case 'u':
				src++
				cp, newSrc, uerr := readEscape(data, src)
				if uerr != nil {
					return 0, 0, 0, uerr
				}
				src = newSrc
				dest += utf8.EncodeRune(data[dest:], cp)
			default:
				return 0, 0, 0, mkerr(errs.UnknownEscape, src)
			}

		case c < 0x20:
			return 0, 0, 0, mkerrArg(errs.IllegalCodepoint, src, int(c))

		case c >= 0x80:
			r, size := utf8.DecodeRune(data[src:])
			if r == utf8.RuneError && size <= 1 {
				return 0, 0, 0, mkerr(errs.InvalidUTF8, src)
			}
			copy(data[dest:dest+size], data[src:src+size])
			dest += size
			src += size

		default:
			data[dest] = c
			dest++
			src++
		}
	}
}

// readEscape decodes a \uXXXX escape (the leading "\u" already
// consumed, pos points at the first hex digit) and, if it is a UTF-16
// leading surrogate, consumes the paired \uXXXX trailing surrogate
// too, returning the combined codepoint.
func readEscape(data []byte, pos int) (rune, int, *errs.Error) {
	hi, next, err := readHex4(data, pos)
	if err != nil {
		return 0, 0, err
	}

	if hi < 0xD800 || hi > 0xDFFF {
		return rune(hi), next, nil
	}
	if hi > 0xDBFF {
		// A lone low surrogate has no leading surrogate to pair with.
		return 0, 0, mkerr(errs.InvalidUTF16TrailSurrogate, pos)
	}

	n := len(data)
	if next >= n || data[next] != '\\' {
		return 0, 0, mkerr(errs.UnexpectedEndOfUTF16, next)
	}
	if next+1 >= n || data[next+1] != 'u' {
		return 0, 0, mkerr(errs.ExpectedU, next+1)
	}
	lo, next2, err := readHex4(data, next+2)
	if err != nil {
		return 0, 0, err
	}
	if lo < 0xDC00 || lo > 0xDFFF {
		return 0, 0, mkerr(errs.InvalidUTF16TrailSurrogate, next+2)
	}

	cp := rune(0x10000 + (int32(hi)-0xD800)<<10 + (int32(lo) - 0xDC00))
	return cp, next2, nil
}

func readHex4(data []byte, pos int) (uint32, int, *errs.Error) {
	if pos+4 > len(data) {
		return 0, 0, mkerr(errs.InvalidUnicodeEscape, pos)
	}
	var v uint32
	for k := 0; k < 4; k++ {
		d, ok := hexDigit(data[pos+k])
		if !ok {
			return 0, 0, mkerr(errs.InvalidUnicodeEscape, pos+k)
		}
		v = v<<4 | uint32(d)
	}
	return v, pos + 4, nil
}

func hexDigit(b byte) (uint32, bool) {
	switch {
	case b >= '0' && b <= '9':
		return uint32(b - '0'), true
	case b >= 'a' && b <= 'f':
		return uint32(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return uint32(b-'A') + 10, true
	default:
		return 0, false
	}
}

func mkerr(code errs.Code, pos int) *errs.Error {
	return &errs.Error{Code: code, Pos: pos}
}

func mkerrArg(code errs.Code, pos, arg int) *errs.Error {
	return &errs.Error{Code: code, Pos: pos, HasArg: true, Arg: arg}
}
