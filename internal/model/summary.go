// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"sort"

	"github.com/pdiddy/lenet-extract/pkg/types"
)

// LayerSummary describes one slot found in a document.
type LayerSummary struct {
	Slot    int
	Key     string
	Enabled bool
	Weights int
	Biases  int
	// Err is set when the slot exists but its record cannot be decoded.
	Err error
}

// Params returns the total number of parameters in the layer.
func (s LayerSummary) Params() int {
	return s.Weights + s.Biases
}

// Summarize lists every slot present in doc, plus any enabled slot that is
// missing, in ascending slot order.
func Summarize(doc *Document, cfg types.ExtractConfig) []LayerSummary {
	present := doc.Slots(cfg.SlotPrefix)
	seen := make(map[int]bool, len(present))
	slots := append([]int(nil), present...)
	for _, s := range present {
		seen[s] = true
	}
	for _, s := range cfg.Slots {
		if !seen[s] {
			slots = append(slots, s)
			seen[s] = true
		}
	}
	sort.Ints(slots)

	summaries := make([]LayerSummary, 0, len(slots))
	for _, slot := range slots {
		key := cfg.SlotKey(slot)
		s := LayerSummary{Slot: slot, Key: key, Enabled: cfg.Enabled(slot)}
		layer, err := doc.Layer(key, cfg.LayerKeys)
		if err != nil {
			s.Err = err
		} else {
			s.Weights = len(layer.Weights)
			s.Biases = len(layer.Biases)
		}
		summaries = append(summaries, s)
	}
	return summaries
}
