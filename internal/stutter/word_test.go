package stutter

import "testing"

// seqGen replays a scripted draw sequence; exhausted draws fail high
// so no accidental stutter slips in.
type seqGen struct {
	draws []float64
	i     int
}

func (g *seqGen) NextUniform() float64 {
	if g.i >= len(g.draws) {
		return 0.999
	}
	v := g.draws[g.i]
	g.i++
	return v
}

func baseEffective() EffectiveSettings {
	return EffectiveSettings{
		Mode:                  ModeSoft,
		WordStutterChance:     1.0,
		ConsonantBias:         0.5,
		VowelRepeatChance:     1.0,
		ConsonantRepeatChance: 1.0,
		MaxRepeatsPerWord:     1,
		MinWordLength:         3,
	}
}

func TestApplyStutterSkipsIneligibleWords(t *testing.T) {
	eff := baseEffective()
	cases := []struct {
		name string
		word string
	}{
		{"too short", "no"},
		{"digit led", "9ball"},
		{"url http", "httpserver"},
		{"url www", "wwwsite"},
		{"url mixed case", "HTTPwhatever"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			st := newSegmentState()
			got, stuttered := applyStutter(tc.word, eff, &seqGen{draws: []float64{0, 0, 0}}, &st, false, true)
			if stuttered || got != tc.word {
				t.Fatalf("applyStutter(%q) = (%q, %v), want unchanged", tc.word, got, stuttered)
			}
		})
	}
}

func TestApplyStutterIneligibleKeepsFirstEligible(t *testing.T) {
	eff := baseEffective()
	st := newSegmentState()
	applyStutter("no", eff, &seqGen{}, &st, false, true)
	if !st.firstEligible {
		t.Fatalf("ineligible word must not consume first-eligible status")
	}
}

func TestApplyStutterSuppressedConsumesFirstEligible(t *testing.T) {
	eff := baseEffective()
	st := newSegmentState()
	got, stuttered := applyStutter("whisper", eff, &seqGen{draws: []float64{0}}, &st, true, true)
	if stuttered || got != "whisper" {
		t.Fatalf("suppressed word = (%q, %v), want unchanged", got, stuttered)
	}
	if st.firstEligible {
		t.Fatalf("suppressed word must consume first-eligible status")
	}
}

func TestApplyStutterRendersPrefix(t *testing.T) {
	eff := baseEffective()
	st := newSegmentState()
	// Consonant bias 0.5 gives factor 0.75; chance 1.0*0.75*0.9 passes a 0 draw.
	got, stuttered := applyStutter("drink", eff, &seqGen{draws: []float64{0}}, &st, false, true)
	if !stuttered || got != "d-drink" {
		t.Fatalf("applyStutter(drink) = (%q, %v), want (%q, true)", got, stuttered, "d-drink")
	}
	if st.stutters != 1 {
		t.Fatalf("segment stutter count = %d, want 1", st.stutters)
	}
}

func TestApplyStutterRepeatDecay(t *testing.T) {
	eff := baseEffective()
	eff.MaxRepeatsPerWord = 3
	st := newSegmentState()
	// Roll passes, one extension passes, second extension fails.
	got, _ := applyStutter("drink", eff, &seqGen{draws: []float64{0, 0, 0.999}}, &st, false, true)
	if got != "d-d-drink" {
		t.Fatalf("applyStutter(drink) = %q, want %q", got, "d-d-drink")
	}
}

func TestApplyStutterRepeatCapped(t *testing.T) {
	eff := baseEffective()
	eff.Mode = ModeHard
	eff.MaxRepeatsPerWord = 2
	st := newSegmentState()
	got, _ := applyStutter("drink", eff, &seqGen{draws: []float64{0, 0, 0, 0, 0}}, &st, false, true)
	if got != "d-d-drink" {
		t.Fatalf("applyStutter(drink) = %q, want capped %q", got, "d-d-drink")
	}
}

func TestApplyStutterCapitalizedKeepsLeadCase(t *testing.T) {
	eff := baseEffective()
	eff.AlwaysStutterFirstWord = true
	st := newSegmentState()
	got, stuttered := applyStutter("Can", eff, &seqGen{}, &st, false, true)
	if !stuttered || got != "C-can" {
		t.Fatalf("applyStutter(Can) = (%q, %v), want (%q, true)", got, stuttered, "C-can")
	}
}

func TestApplyStutterRespectsExistingPrefix(t *testing.T) {
	eff := baseEffective()
	eff.RespectExistingStutters = true
	st := newSegmentState()
	st.lastWord = "wh"
	st.sepEndsDash = true
	got, stuttered := applyStutter("what", eff, &seqGen{draws: []float64{0}}, &st, false, true)
	if stuttered || got != "what" {
		t.Fatalf("prefixed word = (%q, %v), want unchanged", got, stuttered)
	}
}

func TestApplyStutterIgnoresExistingPrefixWhenDisabled(t *testing.T) {
	eff := baseEffective()
	st := newSegmentState()
	st.lastWord = "wh"
	st.sepEndsDash = true
	got, stuttered := applyStutter("what", eff, &seqGen{draws: []float64{0}}, &st, false, true)
	if !stuttered || got != "w-what" {
		t.Fatalf("applyStutter(what) = (%q, %v), want (%q, true)", got, stuttered, "w-what")
	}
}

func TestApplyStutterBlockedByCanRepeat(t *testing.T) {
	eff := baseEffective()
	st := newSegmentState()
	got, stuttered := applyStutter("drink", eff, &seqGen{draws: []float64{0}}, &st, false, false)
	if stuttered || got != "drink" {
		t.Fatalf("canRepeat=false word = (%q, %v), want unchanged", got, stuttered)
	}
}

func TestApplyStutterSegmentCap(t *testing.T) {
	eff := baseEffective()
	eff.MaxStuttersPerQuote = 2
	st := newSegmentState()
	st.stutters = 2
	got, stuttered := applyStutter("drink", eff, &seqGen{draws: []float64{0}}, &st, false, true)
	if stuttered || got != "drink" {
		t.Fatalf("capped segment word = (%q, %v), want unchanged", got, stuttered)
	}
}

func TestApplyStutterAlwaysFirstSkipsRoll(t *testing.T) {
	eff := baseEffective()
	eff.WordStutterChance = 0
	eff.AlwaysStutterFirstWord = true
	st := newSegmentState()
	got, stuttered := applyStutter("drink", eff, &seqGen{}, &st, false, true)
	if !stuttered || got != "d-drink" {
		t.Fatalf("first eligible word = (%q, %v), want stuttered", got, stuttered)
	}

	// Second word in the segment is back on the (zero) chance roll.
	got, stuttered = applyStutter("again", eff, &seqGen{draws: []float64{0.5}}, &st, false, true)
	if stuttered || got != "again" {
		t.Fatalf("second word = (%q, %v), want unchanged", got, stuttered)
	}
}
