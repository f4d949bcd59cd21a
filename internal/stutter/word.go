package stutter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// segmentState carries the per-quoted-segment counters. It resets
// whenever a new quoted span opens; nothing here survives a line.
type segmentState struct {
	stutters      int
	firstEligible bool
	lastWord      string
	lastStuttered bool
	sepEndsDash   bool
	suppressNext  bool
}

func newSegmentState() segmentState {
	return segmentState{firstEligible: true}
}

// applyStutter decides whether one word stutters and renders the
// prefix form when it does. The first matching rule wins.
func applyStutter(word string, eff EffectiveSettings, rng Generator, st *segmentState, suppressed, canRepeat bool) (string, bool) {
	if !eligible(word, eff.MinWordLength) {
		return word, false
	}

	// Eligible words consume first-in-segment status, including
	// suppressed ones: a /command target must not leave the next word
	// looking first-eligible.
	first := st.firstEligible
	st.firstEligible = false

	if suppressed {
		return word, false
	}
	if eff.RespectExistingStutters && carriesStutterPrefix(word, st) {
		return word, false
	}
	if !canRepeat {
		return word, false
	}
	if eff.MaxRepeatsPerWord <= 0 {
		return word, false
	}
	if eff.MaxStuttersPerQuote > 0 && st.stutters >= eff.MaxStuttersPerQuote {
		return word, false
	}

	lead, _ := utf8.DecodeRuneInString(word)
	bias := biasFactor(lead, eff.ConsonantBias)

	chance := clamp01(eff.WordStutterChance * bias)
	if eff.Mode == ModeSoft {
		chance *= 0.9
	}
	if !((eff.AlwaysStutterFirstWord && first) || rng.NextUniform() < chance) {
		return word, false
	}

	count := repeatCount(lead, bias, eff, rng)
	if count <= 0 {
		return word, false
	}
	st.stutters++
	return renderStutter(word, count), true
}

// eligible filters words too short, not letter-led, or URL-like.
func eligible(word string, minLen int) bool {
	if utf8.RuneCountInString(word) < minLen {
		return false
	}
	lead, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsLetter(lead) {
		return false
	}
	lower := strings.ToLower(word)
	if strings.HasPrefix(lower, "http") || strings.HasPrefix(lower, "www") {
		return false
	}
	return true
}

// carriesStutterPrefix reports whether the previous token plus a dash
// separator already reads as a stutter lead-in for this word, e.g. the
// second token of "I-I" or "wh-what".
func carriesStutterPrefix(word string, st *segmentState) bool {
	if !st.sepEndsDash || st.lastWord == "" {
		return false
	}
	if utf8.RuneCountInString(st.lastWord) > 2 {
		return false
	}
	return strings.HasPrefix(strings.ToLower(word), strings.ToLower(st.lastWord))
}

// biasFactor skews the roll toward consonant-led words; a high
// ConsonantBias pushes vowel-led words below the base chance.
func biasFactor(lead rune, consonantBias float64) float64 {
	if isVowel(lead) {
		return 0.5 + 0.5*(1-consonantBias)
	}
	return 0.5 + 0.5*consonantBias
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

// repeatCount draws additional prefix copies against a decaying chance
// until a draw fails or the per-word cap is hit.
func repeatCount(lead rune, bias float64, eff EffectiveSettings, rng Generator) int {
	base := eff.ConsonantRepeatChance
	if isVowel(lead) {
		base = eff.VowelRepeatChance
	}

	chance := clamp01(base * bias)
	decay := 0.5
	if eff.Mode == ModeHard {
		chance *= 1.1
		decay = 0.75
	} else {
		chance *= 0.7
	}

	count := 1
	for count < eff.MaxRepeatsPerWord {
		if rng.NextUniform() >= chance {
			break
		}
		count++
		chance *= decay
	}
	return count
}

// renderStutter prepends count copies of the word's first rune. A
// capitalized word keeps its capital on the leading copy and lowers
// the body, so "Can" becomes "C-can" rather than "C-Can".
func renderStutter(word string, count int) string {
	lead, size := utf8.DecodeRuneInString(word)

	var b strings.Builder
	b.Grow(len(word) + count*(size+1))
	for i := 0; i < count; i++ {
		b.WriteRune(lead)
		b.WriteByte('-')
	}
	if unicode.IsUpper(lead) {
		b.WriteRune(unicode.ToLower(lead))
		b.WriteString(word[size:])
	} else {
		b.WriteString(word)
	}
	return b.String()
}
