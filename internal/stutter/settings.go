package stutter

// Preset names a bundle of default stutter-intensity parameters.
type Preset string

const (
	PresetOff    Preset = "off"
	PresetLight  Preset = "light"
	PresetMedium Preset = "medium"
	PresetHeavy  Preset = "heavy"
	PresetCustom Preset = "custom"
)

// Mode selects how aggressively repeated words may stutter.
type Mode string

const (
	ModeSoft Mode = "soft"
	ModeHard Mode = "hard"
)

// RawSettings is the caller-owned configuration for one transform.
// The engine only reads it; out-of-range values are clamped, never rejected.
type RawSettings struct {
	Preset Preset `json:"preset"`
	Mode   Mode   `json:"mode"`

	WordStutterChance     float64 `json:"word_stutter_chance"`
	ConsonantBias         float64 `json:"consonant_bias"`
	VowelRepeatChance     float64 `json:"vowel_repeat_chance"`
	ConsonantRepeatChance float64 `json:"consonant_repeat_chance"`
	MaxRepeatsPerWord     int     `json:"max_repeats_per_word"`

	MinWordLength           int  `json:"min_word_length"`
	RespectExistingStutters bool `json:"respect_existing_stutters"`
	AlwaysStutterFirstWord  bool `json:"always_stutter_first_word"`
	MaxStuttersPerQuote     int  `json:"max_stutters_per_quote"`
	StutterSingleQuotes     bool `json:"stutter_single_quotes"`
	StableSeed              bool `json:"stable_seed"`
}

// EffectiveSettings is the fully resolved parameter set for one call.
// All chances are in [0,1]; MaxRepeatsPerWord and MinWordLength are >= 1.
type EffectiveSettings struct {
	Mode                  Mode
	WordStutterChance     float64
	ConsonantBias         float64
	VowelRepeatChance     float64
	ConsonantRepeatChance float64
	MaxRepeatsPerWord     int

	MinWordLength           int
	RespectExistingStutters bool
	AlwaysStutterFirstWord  bool
	MaxStuttersPerQuote     int
}

// PresetValues holds the tunable numbers a preset pins down.
type PresetValues struct {
	Mode                  Mode    `json:"mode"`
	WordStutterChance     float64 `json:"word_stutter_chance"`
	ConsonantBias         float64 `json:"consonant_bias"`
	VowelRepeatChance     float64 `json:"vowel_repeat_chance"`
	ConsonantRepeatChance float64 `json:"consonant_repeat_chance"`
	MaxRepeatsPerWord     int     `json:"max_repeats_per_word"`
}

// PresetTable is the single authoritative mapping from preset to values.
// Both Resolve and the presets API read from here.
var PresetTable = map[Preset]PresetValues{
	PresetOff:    {Mode: ModeSoft, WordStutterChance: 0.00, ConsonantBias: 0.60, VowelRepeatChance: 0.20, ConsonantRepeatChance: 0.25, MaxRepeatsPerWord: 1},
	PresetLight:  {Mode: ModeSoft, WordStutterChance: 0.15, ConsonantBias: 0.65, VowelRepeatChance: 0.25, ConsonantRepeatChance: 0.30, MaxRepeatsPerWord: 1},
	PresetMedium: {Mode: ModeSoft, WordStutterChance: 0.30, ConsonantBias: 0.70, VowelRepeatChance: 0.35, ConsonantRepeatChance: 0.45, MaxRepeatsPerWord: 2},
	PresetHeavy:  {Mode: ModeHard, WordStutterChance: 0.50, ConsonantBias: 0.80, VowelRepeatChance: 0.50, ConsonantRepeatChance: 0.65, MaxRepeatsPerWord: 3},
}

// Resolve maps raw settings to a fully specified effective set.
// Custom passes numeric fields through after clamping; any other preset
// (unknown included) selects from PresetTable, falling back to Medium.
func Resolve(raw RawSettings) EffectiveSettings {
	eff := EffectiveSettings{
		MinWordLength:           maxInt(raw.MinWordLength, 1),
		RespectExistingStutters: raw.RespectExistingStutters,
		AlwaysStutterFirstWord:  raw.AlwaysStutterFirstWord,
		MaxStuttersPerQuote:     maxInt(raw.MaxStuttersPerQuote, 0),
	}

	if raw.Preset == PresetCustom {
		eff.Mode = raw.Mode
		if eff.Mode != ModeHard {
			eff.Mode = ModeSoft
		}
		eff.WordStutterChance = clamp01(raw.WordStutterChance)
		eff.ConsonantBias = clamp01(raw.ConsonantBias)
		eff.VowelRepeatChance = clamp01(raw.VowelRepeatChance)
		eff.ConsonantRepeatChance = clamp01(raw.ConsonantRepeatChance)
		eff.MaxRepeatsPerWord = maxInt(raw.MaxRepeatsPerWord, 1)
		return eff
	}

	values, ok := PresetTable[raw.Preset]
	if !ok {
		values = PresetTable[PresetMedium]
	}
	eff.Mode = values.Mode
	eff.WordStutterChance = values.WordStutterChance
	eff.ConsonantBias = values.ConsonantBias
	eff.VowelRepeatChance = values.VowelRepeatChance
	eff.ConsonantRepeatChance = values.ConsonantRepeatChance
	eff.MaxRepeatsPerWord = values.MaxRepeatsPerWord
	return eff
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
