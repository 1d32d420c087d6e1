package scanner

import (
	"bytes"
	"iter"
)

const (
	// NotFound is returned when a signature does not occur in the searched region.
	NotFound = -1

	// NoLimit disables the upper bound of All.
	NoLimit = -1
)

// Index returns the offset of the first occurrence of sig at or after start, or NotFound.
func Index(buf, sig []byte, start int) int {
	if start < 0 {
		start = 0
	}
	if len(sig) == 0 || start >= len(buf) {
		return NotFound
	}
	idx := bytes.Index(buf[start:], sig)
	if idx < 0 {
		return NotFound
	}
	return start + idx
}

// Next returns the first occurrence of sig at or after start along with the offset the following search should resume
// from. The resume offset skips the matched bytes so consecutive calls never report overlapping matches.
func Next(buf, sig []byte, start int) (offset int, next int) {
	offset = Index(buf, sig, start)
	if offset == NotFound {
		return NotFound, len(buf)
	}
	return offset, offset + len(sig)
}

// All yields every non-overlapping occurrence of sig in ascending order, starting at start. Matches beyond limit stop the
// sequence unless limit is NoLimit.
func All(buf, sig []byte, start, limit int) iter.Seq[int] {
	return func(yield func(int) bool) {
		cursor := start
		for {
			offset, next := Next(buf, sig, cursor)
			if offset == NotFound || (limit != NoLimit && offset > limit) {
				return
			}
			if !yield(offset) {
				return
			}
			cursor = next
		}
	}
}

// Count returns the number of non-overlapping occurrences of sig.
func Count(buf, sig []byte) int {
	n := 0
	for range All(buf, sig, 0, NoLimit) {
		n++
	}
	return n
}

// Contains reports whether sig occurs anywhere in buf.
func Contains(buf, sig []byte) bool {
	return Index(buf, sig, 0) != NotFound
}

// Last scans forward and returns the last occurrence of sig starting at or before limit, or NotFound.
func Last(buf, sig []byte, limit int) int {
	last := NotFound
	for offset := range All(buf, sig, 0, limit) {
		last = offset
	}
	return last
}

// FirstInRange returns the first occurrence of sig with low <= offset < high, or NotFound.
func FirstInRange(buf, sig []byte, low, high int) int {
	for offset := range All(buf, sig, 0, NoLimit) {
		if offset >= high {
			break
		}
		if offset >= low {
			return offset
		}
	}
	return NotFound
}

// LastOf runs Last for each variant and keeps the largest offset, so the most recent match wins regardless of which
// variant produced it.
func LastOf(buf []byte, limit int, variants ...[]byte) int {
	best := NotFound
	for _, sig := range variants {
		if offset := Last(buf, sig, limit); offset > best {
			best = offset
		}
	}
	return best
}

// NearestOf runs Index from start for each variant and keeps the smallest offset, so the match closest to start wins.
func NearestOf(buf []byte, start int, variants ...[]byte) int {
	best := NotFound
	for _, sig := range variants {
		offset := Index(buf, sig, start)
		if offset != NotFound && (best == NotFound || offset < best) {
			best = offset
		}
	}
	return best
}

// ContainsAny reports whether any of the signatures occurs in buf.
func ContainsAny(buf []byte, sigs ...[]byte) bool {
	for _, sig := range sigs {
		if Contains(buf, sig) {
			return true
		}
	}
	return false
}
