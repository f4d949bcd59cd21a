// Package chunk partitions finished text into send-ready segments that
// fit a downstream message-length limit, preferring sentence and word
// boundaries over hard cuts.
package chunk

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minMarkedBudget is the smallest budget SplitWithMarkers accepts, so
// a marker plus at least a few characters of content always fits.
const minMarkedBudget = 16

// SplitWithMarkers partitions text like Split and, when more than one
// segment results, suffixes each with an " (i/n)" marker whose width
// is reserved from the same budget, so every returned string still
// fits maxChars. Budgets below minMarkedBudget are raised to it.
func SplitWithMarkers(text string, maxChars int) []string {
	if maxChars < minMarkedBudget {
		maxChars = minMarkedBudget
	}

	first := Split(text, maxChars)
	if len(first) <= 1 {
		return first
	}

	// Re-split against a budget that already accounts for the marker.
	// The second pass can raise the count across a digit boundary, in
	// which case the reservation grows and the pass repeats.
	n := len(first)
	for {
		budget := maxChars - markerWidth(n)
		if budget < 1 {
			budget = 1
		}
		parts := Split(text, budget)
		if digitsOf(len(parts)) > digitsOf(n) {
			n = len(parts)
			continue
		}
		out := make([]string, len(parts))
		for i, part := range parts {
			out[i] = fmt.Sprintf("%s (%d/%d)", part, i+1, len(parts))
		}
		return out
	}
}

// Split partitions text into ordered segments of at most maxChars
// characters using the greedy boundary-preferring pass, with no
// markers appended. Whitespace-only input yields nil.
func Split(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}

	var chunks []string

	rest := text
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return chunks
		}
		if len(rest) <= maxChars {
			chunks = append(chunks, strings.TrimRightFunc(rest, unicode.IsSpace))
			return chunks
		}

		cut := boundaryCut(rest, maxChars)

		piece := strings.TrimRightFunc(rest[:cut], unicode.IsSpace)
		if piece != "" {
			chunks = append(chunks, piece)
		}
		rest = rest[cut:]
	}
}

// boundaryCut picks where to end the current chunk within the first
// maxChars bytes of rest: the last sentence terminator when it lands
// far enough in, else the last whitespace, else a hard cut that never
// splits a rune (a leading rune wider than the budget is emitted
// whole). rest is known to be longer than maxChars.
func boundaryCut(rest string, maxChars int) int {
	window := rest[:maxChars]
	if i := lastSentenceEnd(window); i >= 0 && i >= (maxChars*3)/5 {
		return i + 1
	}
	if i := lastWhitespace(window); i > 0 {
		return i
	}

	cut := maxChars
	for cut > 1 && !utf8.RuneStart(rest[cut]) {
		cut--
	}
	if !utf8.RuneStart(rest[cut]) {
		// Budget smaller than the leading rune: emit it whole rather
		// than splitting its bytes.
		_, size := utf8.DecodeRuneInString(rest)
		cut = size
	}
	return cut
}

func lastSentenceEnd(window string) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '!', '?', ';':
			return i
		}
	}
	return -1
}

func lastWhitespace(window string) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case ' ', '\t', '\n', '\r':
			return i
		}
	}
	return -1
}

// markerWidth is the widest " (i/n)" suffix for a count of n chunks.
func markerWidth(n int) int {
	return 4 + 2*digitsOf(n)
}

func digitsOf(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
