package types

import (
	"fmt"
	"strconv"
)

// WriteMode controls how layer output files are opened.
type WriteMode string

const (
	// ModeAppend opens output files for appending. Re-running without
	// cleaning the output directory concatenates results.
	ModeAppend WriteMode = "append"

	// ModeTruncate empties each output file before the run writes it.
	ModeTruncate WriteMode = "truncate"
)

const (
	// DefaultInput is the model file read from the working directory.
	DefaultInput = "LeNet-model"

	// DefaultSlotPrefix names top-level layer fields: value0, value1, ...
	DefaultSlotPrefix = "value"
)

// DefaultSlots lists the layer slots that carry parameters in the LeNet
// export. Slots 1 and 3 are the max-pooling layers and are skipped.
var DefaultSlots = []int{0, 2, 4, 5}

// LayerKeys names the sub-fields of a layer record.
type LayerKeys struct {
	// Weights is the field holding the weight sequence (default "value0").
	Weights string `json:"weights_key" yaml:"weights_key" mapstructure:"weights_key"`

	// Biases is the field holding the bias sequence (default "value1").
	Biases string `json:"biases_key" yaml:"biases_key" mapstructure:"biases_key"`
}

// ExtractConfig holds settings for a layer extraction run.
type ExtractConfig struct {
	LayerKeys `yaml:",inline" mapstructure:",squash"`

	// Input is the path of the JSON model file.
	Input string `json:"input" yaml:"input" mapstructure:"input"`

	// OutputDir is the directory receiving layer<N>.wt and layer<N>.bs.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Slots lists the layer slots to extract, in processing order.
	Slots []int `json:"slots" yaml:"slots" mapstructure:"slots"`

	// SlotPrefix is prepended to the slot index to form the top-level key.
	SlotPrefix string `json:"slot_prefix" yaml:"slot_prefix" mapstructure:"slot_prefix"`

	// WeightsExt and BiasesExt are the output file extensions.
	WeightsExt string `json:"weights_ext" yaml:"weights_ext" mapstructure:"weights_ext"`
	BiasesExt  string `json:"biases_ext" yaml:"biases_ext" mapstructure:"biases_ext"`

	// Mode selects append (default) or truncate.
	Mode WriteMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// Ledger is the path of the run history database. Empty disables it.
	Ledger string `json:"ledger,omitempty" yaml:"ledger,omitempty" mapstructure:"ledger"`
}

// DefaultExtractConfig returns the configuration that reproduces the
// stock behavior: read LeNet-model, extract slots 0, 2, 4, 5 into the
// working directory, append to existing files.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		LayerKeys: LayerKeys{
			Weights: "value0",
			Biases:  "value1",
		},
		Input:      DefaultInput,
		OutputDir:  ".",
		Slots:      append([]int(nil), DefaultSlots...),
		SlotPrefix: DefaultSlotPrefix,
		WeightsExt: ".wt",
		BiasesExt:  ".bs",
		Mode:       ModeAppend,
	}
}

// SlotKey returns the top-level document key for slot (e.g. "value2").
func (c ExtractConfig) SlotKey(slot int) string {
	return c.SlotPrefix + strconv.Itoa(slot)
}

// Enabled reports whether slot is selected for extraction.
func (c ExtractConfig) Enabled(slot int) bool {
	for _, s := range c.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Validate checks that the configuration can drive an extraction run.
func (c ExtractConfig) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input path is empty")
	}
	if len(c.Slots) == 0 {
		return fmt.Errorf("no layer slots selected")
	}
	seen := make(map[int]bool, len(c.Slots))
	for _, s := range c.Slots {
		if s < 0 {
			return fmt.Errorf("invalid layer slot %d", s)
		}
		if seen[s] {
			return fmt.Errorf("layer slot %d listed twice", s)
		}
		seen[s] = true
	}
	if c.Weights == "" || c.Biases == "" {
		return fmt.Errorf("weights and biases keys must be set")
	}
	if c.WeightsExt == c.BiasesExt {
		return fmt.Errorf("weights and biases extensions must differ (both %q)", c.WeightsExt)
	}
	switch c.Mode {
	case ModeAppend, ModeTruncate:
	default:
		return fmt.Errorf("unsupported write mode %q: use append or truncate", c.Mode)
	}
	return nil
}
