package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExtractConfig(t *testing.T) {
	cfg := DefaultExtractConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "LeNet-model", cfg.Input)
	assert.Equal(t, []int{0, 2, 4, 5}, cfg.Slots)
	assert.Equal(t, ModeAppend, cfg.Mode)
	assert.False(t, cfg.Enabled(1))
	assert.False(t, cfg.Enabled(3))
	assert.True(t, cfg.Enabled(5))

	// The default slot list must not alias the package-level slice.
	cfg.Slots[0] = 9
	assert.Equal(t, 0, DefaultSlots[0])
}

func TestSlotKeyAndFileName(t *testing.T) {
	cfg := DefaultExtractConfig()
	assert.Equal(t, "value0", cfg.SlotKey(0))
	assert.Equal(t, "value12", cfg.SlotKey(12))
	assert.Equal(t, "layer0.wt", cfg.FileName(0, KindWeights))
	assert.Equal(t, "layer5.bs", cfg.FileName(5, KindBiases))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ExtractConfig)
		errMsg string
	}{
		{"defaults", func(c *ExtractConfig) {}, ""},
		{"truncate mode", func(c *ExtractConfig) { c.Mode = ModeTruncate }, ""},
		{"empty input", func(c *ExtractConfig) { c.Input = "" }, "input path is empty"},
		{"no slots", func(c *ExtractConfig) { c.Slots = nil }, "no layer slots"},
		{"negative slot", func(c *ExtractConfig) { c.Slots = []int{0, -1} }, "invalid layer slot -1"},
		{"duplicate slot", func(c *ExtractConfig) { c.Slots = []int{2, 4, 2} }, "listed twice"},
		{"empty weights key", func(c *ExtractConfig) { c.Weights = "" }, "keys must be set"},
		{"same extensions", func(c *ExtractConfig) { c.BiasesExt = ".wt" }, "must differ"},
		{"unknown mode", func(c *ExtractConfig) { c.Mode = "overwrite" }, "unsupported write mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExtractConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
