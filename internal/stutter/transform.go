package stutter

import (
	"strings"
	"unicode"
)

// Transform rewrites quoted dialogue in input with stochastic stutter
// prefixes according to raw. Text outside quoted spans is never
// touched, line breaks are preserved byte-for-byte, and any input the
// settings cannot act on comes back unchanged.
func Transform(input string, raw RawSettings) string {
	if input == "" {
		return input
	}
	eff := Resolve(raw)
	if (eff.WordStutterChance <= 0 && !eff.AlwaysStutterFirstWord) || eff.MaxRepeatsPerWord <= 0 {
		return input
	}

	rng := NewGenerator(input, raw)

	var b strings.Builder
	b.Grow(len(input) + len(input)/4)
	rest := input
	for rest != "" {
		line, brk, tail := splitLine(rest)
		b.WriteString(transformLine(line, eff, raw, rng))
		b.WriteString(brk)
		rest = tail
	}
	return b.String()
}

// splitLine peels one line off text, returning the line, its break
// sequence ("\n", "\r\n", or "" at end of input), and the remainder.
func splitLine(text string) (line, brk, rest string) {
	i := strings.IndexByte(text, '\n')
	if i < 0 {
		return text, "", ""
	}
	if i > 0 && text[i-1] == '\r' {
		return text[:i-1], "\r\n", text[i+1:]
	}
	return text[:i], "\n", text[i+1:]
}

// transformLine runs the quote-state tokenizer over one line. Lines
// with no qualifying quote characters, or with an unmatched quote, are
// returned unmodified without consuming any random draws.
func transformLine(line string, eff EffectiveSettings, raw RawSettings, rng Generator) string {
	rs := []rune(line)

	opens, balanced := quoteProfile(rs, raw.StutterSingleQuotes)
	if opens == 0 || !balanced {
		return line
	}

	var out strings.Builder
	out.Grow(len(line) + len(line)/4)

	inQuote := false
	var quoteChar rune
	var st segmentState
	var token []rune

	flush := func() {
		if len(token) == 0 {
			return
		}
		word := string(token)
		token = token[:0]

		suppressed := st.suppressNext
		st.suppressNext = false
		canRepeat := !(eff.Mode == ModeSoft && st.lastStuttered && strings.EqualFold(word, st.lastWord))

		rendered, stuttered := applyStutter(word, eff, rng, &st, suppressed, canRepeat)
		out.WriteString(rendered)

		st.lastWord = word
		st.lastStuttered = stuttered
		st.sepEndsDash = false
	}

	for i, r := range rs {
		quote := isQuoteRune(rs, i, raw.StutterSingleQuotes)

		if !inQuote {
			if quote {
				inQuote = true
				quoteChar = r
				st = newSegmentState()
			}
			out.WriteRune(r)
			continue
		}

		if isWordRune(rs, i) {
			token = append(token, r)
			continue
		}

		hadToken := len(token) > 0
		flush()

		if quote && r == quoteChar {
			inQuote = false
			out.WriteRune(r)
			continue
		}
		if r == '/' && !hadToken {
			// Leading chat-command token such as "/em": the word that
			// follows passes through untouched.
			st.suppressNext = true
		}
		st.sepEndsDash = r == '-'
		out.WriteRune(r)
	}

	return out.String()
}

// quoteProfile walks the line with the tokenizer's own quote rules and
// reports how many spans open and whether every span closes.
func quoteProfile(rs []rune, singleQuotes bool) (opens int, balanced bool) {
	inQuote := false
	var quoteChar rune
	for i, r := range rs {
		if !isQuoteRune(rs, i, singleQuotes) {
			continue
		}
		if !inQuote {
			inQuote = true
			quoteChar = r
			opens++
		} else if r == quoteChar {
			inQuote = false
		}
	}
	return opens, !inQuote
}

// isQuoteRune reports whether the rune at i opens or closes a quoted
// span. A single quote only qualifies when enabled and not acting as
// an in-word apostrophe.
func isQuoteRune(rs []rune, i int, singleQuotes bool) bool {
	switch rs[i] {
	case '"':
		return true
	case '\'':
		return singleQuotes && !flankedByLetters(rs, i)
	default:
		return false
	}
}

// isWordRune reports whether the rune at i belongs to the current word
// token: a letter, or an apostrophe with letters on both sides.
func isWordRune(rs []rune, i int) bool {
	r := rs[i]
	if unicode.IsLetter(r) {
		return true
	}
	return r == '\'' && flankedByLetters(rs, i)
}

func flankedByLetters(rs []rune, i int) bool {
	return i > 0 && i+1 < len(rs) && unicode.IsLetter(rs[i-1]) && unicode.IsLetter(rs[i+1])
}
