package stutter

import (
	"math/rand"
	"time"
)

// Generator is the injected uniform-random capability used by the
// engine. Tests substitute a scripted sequence to pin down decisions.
type Generator interface {
	// NextUniform returns a draw in [0, 1).
	NextUniform() float64
}

type randGenerator struct {
	r *rand.Rand
}

func (g *randGenerator) NextUniform() float64 { return g.r.Float64() }

// NewGenerator builds the per-call generator. With StableSeed set,
// identical (input, settings) pairs seed identically and therefore
// produce byte-identical transforms across runs and processes.
func NewGenerator(input string, raw RawSettings) Generator {
	if !raw.StableSeed {
		return &randGenerator{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
	}
	return &randGenerator{r: rand.New(rand.NewSource(int64(stableSeed(input, raw))))}
}

// stableSeed folds the settings and the input into a 32-bit hash using
// h = h*31 + field, starting at 17. Field order is fixed; int32
// arithmetic wraps two's-complement, which is exactly what we want.
func stableSeed(input string, raw RawSettings) int32 {
	h := int32(17)
	mix := func(v int32) { h = h*31 + v }

	mix(presetOrdinal(raw.Preset))
	mix(modeOrdinal(raw.Mode))
	mix(int32(raw.WordStutterChance * 1000))
	mix(int32(raw.ConsonantBias * 1000))
	mix(int32(raw.VowelRepeatChance * 1000))
	mix(int32(raw.ConsonantRepeatChance * 1000))
	mix(int32(raw.MaxRepeatsPerWord))
	mix(int32(raw.MinWordLength))
	mix(boolBit(raw.RespectExistingStutters))
	mix(boolBit(raw.StutterSingleQuotes))
	mix(boolBit(raw.AlwaysStutterFirstWord))
	mix(int32(raw.MaxStuttersPerQuote))

	for _, r := range input {
		mix(int32(r))
	}
	return h
}

func presetOrdinal(p Preset) int32 {
	switch p {
	case PresetOff:
		return 0
	case PresetLight:
		return 1
	case PresetHeavy:
		return 3
	case PresetCustom:
		return 4
	default:
		// Unknown resolves to Medium, so it hashes as Medium too.
		return 2
	}
}

func modeOrdinal(m Mode) int32 {
	if m == ModeHard {
		return 1
	}
	return 0
}

func boolBit(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
