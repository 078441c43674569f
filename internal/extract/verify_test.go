// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lenet-extract/internal/model"
	"github.com/pdiddy/lenet-extract/pkg/types"
)

func checkFor(t *testing.T, checks []Check, name string) Check {
	t.Helper()
	for _, c := range checks {
		if filepath.Base(c.Path) == name {
			return c
		}
	}
	t.Fatalf("no check for %s", name)
	return Check{}
}

func TestVerify(t *testing.T) {
	cfg := testConfig(t)
	doc := buildModel(t, testLayers)

	tests := []struct {
		name       string
		setup      func(t *testing.T)
		file       string
		wantStatus CheckStatus
		wantCopies int
		wantDetail string
	}{
		{
			name:       "fresh extraction",
			setup:      func(t *testing.T) {},
			file:       "layer2.wt",
			wantStatus: StatusOK,
			wantCopies: 1,
		},
		{
			name: "second append run",
			setup: func(t *testing.T) {
				_, err := Run(doc, cfg, &bytes.Buffer{})
				require.NoError(t, err)
			},
			file:       "layer2.wt",
			wantStatus: StatusAppended,
			wantCopies: 2,
			wantDetail: "repeated 2 times",
		},
		{
			name: "missing file",
			setup: func(t *testing.T) {
				require.NoError(t, os.Remove(filepath.Join(cfg.OutputDir, "layer4.bs")))
			},
			file:       "layer4.bs",
			wantStatus: StatusMissing,
		},
		{
			name: "edited value",
			setup: func(t *testing.T) {
				require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "layer5.wt"), []byte("-3.7\n"), 0o644))
			},
			file:       "layer5.wt",
			wantStatus: StatusMismatch,
			wantCopies: 1,
			wantDetail: `line 1: got "-3.7", want "-3.75"`,
		},
		{
			name: "wrong line count",
			setup: func(t *testing.T) {
				require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "layer0.bs"), []byte("0.01\n"), 0o644))
			},
			file:       "layer0.bs",
			wantStatus: StatusMismatch,
			wantDetail: "1 lines, expected 2",
		},
	}

	_, err := Run(doc, cfg, &bytes.Buffer{})
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			checks, err := Verify(doc, cfg)
			require.NoError(t, err)
			require.Len(t, checks, 8)

			c := checkFor(t, checks, tt.file)
			assert.Equal(t, tt.wantStatus, c.Status)
			assert.Equal(t, tt.wantCopies, c.Copies)
			assert.Contains(t, c.Detail, tt.wantDetail)
		})
	}
}

func TestVerifyEmptySequence(t *testing.T) {
	cfg := testConfig(t)
	cfg.Slots = []int{0}
	doc := buildModel(t, map[int]model.Layer{0: {Weights: []any{1.0}, Biases: []any{}}})

	_, err := Run(doc, cfg, &bytes.Buffer{})
	require.NoError(t, err)

	checks, err := Verify(doc, cfg)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, checkFor(t, checks, "layer0.bs").Status)
	assert.Equal(t, types.KindBiases, checkFor(t, checks, "layer0.bs").Kind)
}

func TestVerifyMissingSlot(t *testing.T) {
	cfg := testConfig(t)
	_, err := Verify(buildModel(t, map[int]model.Layer{0: testLayers[0]}), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingSlot)
}
