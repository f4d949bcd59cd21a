package stutter

import "testing"

func TestStableSeedDeterministic(t *testing.T) {
	raw := RawSettings{Preset: PresetMedium, StableSeed: true, MinWordLength: 3}

	a := stableSeed(`she said "hello"`, raw)
	b := stableSeed(`she said "hello"`, raw)
	if a != b {
		t.Fatalf("stableSeed not deterministic: %d vs %d", a, b)
	}
}

func TestStableSeedSensitiveToInput(t *testing.T) {
	raw := RawSettings{Preset: PresetMedium, StableSeed: true}
	if stableSeed("ab", raw) == stableSeed("ba", raw) {
		t.Fatalf("stableSeed should be order-sensitive over input characters")
	}
	if stableSeed("hello", raw) == stableSeed("hello!", raw) {
		t.Fatalf("stableSeed should change with input content")
	}
}

func TestStableSeedSensitiveToSettings(t *testing.T) {
	base := RawSettings{Preset: PresetMedium, StableSeed: true}
	changed := base
	changed.MinWordLength = 5
	if stableSeed("hello", base) == stableSeed("hello", changed) {
		t.Fatalf("stableSeed should change with settings fields")
	}
}

func TestNewGeneratorStableSequencesMatch(t *testing.T) {
	raw := RawSettings{Preset: PresetHeavy, StableSeed: true}
	g1 := NewGenerator("same input", raw)
	g2 := NewGenerator("same input", raw)

	for i := 0; i < 16; i++ {
		a, b := g1.NextUniform(), g2.NextUniform()
		if a != b {
			t.Fatalf("draw %d differs: %v vs %v", i, a, b)
		}
		if a < 0 || a >= 1 {
			t.Fatalf("draw %d = %v, want [0,1)", i, a)
		}
	}
}
