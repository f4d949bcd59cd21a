package httpapi

import (
	"net/http"

	"github.com/stammerchat/stammer/internal/stutter"
)

type presetEntry struct {
	Name    stutter.Preset       `json:"name"`
	Values  stutter.PresetValues `json:"values"`
	Default bool                 `json:"default"`
}

// handleListPresets exposes the engine's authoritative preset table so
// UI preview logic never duplicates the numbers.
func (s *Server) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	order := []stutter.Preset{stutter.PresetOff, stutter.PresetLight, stutter.PresetMedium, stutter.PresetHeavy}

	entries := make([]presetEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, presetEntry{
			Name:    name,
			Values:  stutter.PresetTable[name],
			Default: name == s.cfg.DefaultPreset,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"presets": entries})
}
