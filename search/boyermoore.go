// Package search implements substring search over rendered chat
// transcripts with a Boyer-Moore scanner, plus highlight markup for the
// matched spans.
package search

import (
	"strings"

	"war-room/errors"
)

// Highlight markers wrapped around every matched span.
const (
	OpenMark  = "<span style='background-color:yellow;'>"
	CloseMark = "</span>"
)

const alphabetSize = 256

// Span is one match, start inclusive, end exclusive.
type Span struct {
	Start int
	End   int
}

// Matcher holds the shift tables precomputed from one pattern. Build it
// once, scan any number of texts.
type Matcher struct {
	pattern string

	// badChar[c][i] is the shift aligning the nearest occurrence of c
	// strictly left of pattern index i with the mismatch position; 0
	// when c is the pattern character at i.
	badChar [alphabetSize][]int

	// goodSuffix[i] is the shift when the mismatch is at pattern index
	// i, i.e. pattern[i+1:] matched the text.
	goodSuffix []int
}

func NewMatcher(pattern string) *Matcher {
	m := &Matcher{pattern: pattern}
	n := len(pattern)

	for c := 0; c < alphabetSize; c++ {
		m.badChar[c] = make([]int, n)
		for i := 0; i < n; i++ {
			if byte(c) == pattern[i] {
				continue
			}
			// -1 when c never occurs left of i, shifting past it.
			last := strings.LastIndexByte(pattern[:i], byte(c))
			m.badChar[c][i] = i - last
		}
	}

	m.goodSuffix = make([]int, n)
	for i := n - 2; i >= 0; i-- {
		m.goodSuffix[i] = suffixShift(pattern, i)
	}
	return m
}

// suffixShift computes the good-suffix shift for a mismatch at index i:
// the distance to the nearest place left of i+1 where pattern[i+1:]
// recurs, else the smallest sub-suffix that is also a pattern prefix,
// else the full pattern length.
func suffixShift(pattern string, i int) int {
	suffix := pattern[i+1:]
	for j := i; j >= 0; j-- {
		if strings.HasPrefix(pattern[j:], suffix) {
			return i + 1 - j
		}
	}
	for k := i + 2; k < len(pattern); k++ {
		if strings.HasPrefix(pattern, pattern[k:]) {
			return k
		}
	}
	return len(pattern)
}

// Find returns the non-overlapping matches of the pattern in text, in
// text order. After a full match the window advances by twice the
// pattern length, so "aa" in "aaaa" matches at 0 and 2 only.
func (m *Matcher) Find(text string) []Span {
	plen := len(m.pattern)
	if plen == 0 || plen > len(text) {
		return nil
	}

	var spans []Span
	it, ip, offset := plen-1, plen-1, 0
	for {
		it += offset
		end := it
		if it >= len(text) {
			break
		}
		// Compare right to left from the aligned window.
		for it >= 0 && ip >= 0 && text[it] == m.pattern[ip] {
			it--
			ip--
		}
		if ip == -1 {
			spans = append(spans, Span{Start: it + 1, End: end + 1})
			ip = plen - 1
			offset = 2 * plen
		} else {
			offset = max(m.badChar[text[it]][ip], m.goodSuffix[ip])
			it += plen - 1 - ip
			ip = plen - 1
		}
	}
	return spans
}

// Find is the one-shot form of Matcher.Find.
func Find(text, pattern string) []Span {
	return NewMatcher(pattern).Find(text)
}

// Highlight wraps every match of pattern in text with the highlight
// markers and returns the rendered text with the match count. The
// pattern must be non-empty; an absent pattern returns the text
// unchanged with count 0.
func Highlight(text, pattern string) (string, int, error) {
	if pattern == "" {
		return "", 0, errors.ErrEmptyPattern
	}
	spans := Find(text, pattern)
	if len(spans) == 0 {
		return text, 0, nil
	}

	// Spans are disjoint and ordered, so the text is rebuilt in one
	// left-to-right pass instead of shifting insertion offsets.
	var sb strings.Builder
	sb.Grow(len(text) + len(spans)*(len(OpenMark)+len(CloseMark)))
	prev := 0
	for _, s := range spans {
		sb.WriteString(text[prev:s.Start])
		sb.WriteString(OpenMark)
		sb.WriteString(text[s.Start:s.End])
		sb.WriteString(CloseMark)
		prev = s.End
	}
	sb.WriteString(text[prev:])
	return sb.String(), len(spans), nil
}
