// stammerpipe reads a message on stdin, runs it through the stutter
// engine, and writes send-ready segments to stdout, one per line.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/stammerchat/stammer/internal/chunk"
	"github.com/stammerchat/stammer/internal/stutter"
)

type options struct {
	preset              string
	mode                string
	maxChars            int
	minWordLength       int
	maxStuttersPerQuote int
	wordChance          float64
	consonantBias       float64
	vowelRepeat         float64
	consonantRepeat     float64
	maxRepeats          int
	respectExisting     bool
	alwaysFirst         bool
	singleQuotes        bool
	stableSeed          bool
	noMarkers           bool
}

func main() {
	var opts options
	flag.StringVar(&opts.preset, "preset", "medium", "strength preset: off|light|medium|heavy|custom")
	flag.StringVar(&opts.mode, "mode", "soft", "custom mode: soft|hard")
	flag.IntVar(&opts.maxChars, "max-chars", 480, "chunk budget in characters")
	flag.IntVar(&opts.minWordLength, "min-word-length", 3, "shortest word that may stutter")
	flag.IntVar(&opts.maxStuttersPerQuote, "max-per-quote", 0, "cap stutters per quoted span (0 = unlimited)")
	flag.Float64Var(&opts.wordChance, "word-chance", 0.30, "custom: per-word stutter chance")
	flag.Float64Var(&opts.consonantBias, "consonant-bias", 0.70, "custom: bias toward consonant-led words")
	flag.Float64Var(&opts.vowelRepeat, "vowel-repeat", 0.35, "custom: vowel repeat chance")
	flag.Float64Var(&opts.consonantRepeat, "consonant-repeat", 0.45, "custom: consonant repeat chance")
	flag.IntVar(&opts.maxRepeats, "max-repeats", 2, "custom: max prefix copies per word")
	flag.BoolVar(&opts.respectExisting, "respect-existing", true, "leave already-stuttered words alone")
	flag.BoolVar(&opts.alwaysFirst, "always-first", false, "always stutter the first eligible word per quote")
	flag.BoolVar(&opts.singleQuotes, "single-quotes", false, "treat single quotes as dialogue")
	flag.BoolVar(&opts.stableSeed, "stable-seed", false, "derive the seed from input and settings")
	flag.BoolVar(&opts.noMarkers, "no-markers", false, "suppress (i/n) markers even for multi-chunk output")
	flag.Parse()

	raw := settingsFromOptions(opts)

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		os.Exit(1)
	}

	output := stutter.Transform(string(input), raw)

	for _, segment := range segmentOutput(output, opts) {
		fmt.Println(segment)
	}
}

// segmentOutput chunks the transformed text against the budget,
// with or without (i/n) markers.
func segmentOutput(output string, opts options) []string {
	if opts.noMarkers {
		return chunk.Split(output, opts.maxChars)
	}
	return chunk.SplitWithMarkers(output, opts.maxChars)
}

func settingsFromOptions(opts options) stutter.RawSettings {
	return stutter.RawSettings{
		Preset:                  stutter.Preset(opts.preset),
		Mode:                    stutter.Mode(opts.mode),
		WordStutterChance:       opts.wordChance,
		ConsonantBias:           opts.consonantBias,
		VowelRepeatChance:       opts.vowelRepeat,
		ConsonantRepeatChance:   opts.consonantRepeat,
		MaxRepeatsPerWord:       opts.maxRepeats,
		MinWordLength:           opts.minWordLength,
		RespectExistingStutters: opts.respectExisting,
		AlwaysStutterFirstWord:  opts.alwaysFirst,
		MaxStuttersPerQuote:     opts.maxStuttersPerQuote,
		StutterSingleQuotes:     opts.singleQuotes,
		StableSeed:              opts.stableSeed,
	}
}
