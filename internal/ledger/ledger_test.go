// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lenet-extract/pkg/types"
)

// --- test helpers ---

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func layerOutputs(slots ...int) []types.OutputFile {
	var outputs []types.OutputFile
	for _, s := range slots {
		cfg := types.DefaultExtractConfig()
		outputs = append(outputs,
			types.OutputFile{Path: cfg.FileName(s, types.KindWeights), Slot: s, Kind: types.KindWeights, Lines: 10, Bytes: 80},
			types.OutputFile{Path: cfg.FileName(s, types.KindBiases), Slot: s, Kind: types.KindBiases, Lines: 2, Bytes: 16},
		)
	}
	return outputs
}

// --- tests ---

func TestRecordAndListRuns(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id1, err := l.RecordRun(ctx, Run{
		StartedAt: started,
		Input:     "LeNet-model",
		Mode:      types.ModeAppend,
		Status:    RunSucceeded,
		Outputs:   layerOutputs(0, 2, 4, 5),
	})
	require.NoError(t, err)

	id2, err := l.RecordRun(ctx, Run{
		StartedAt: started.Add(time.Minute),
		Input:     "LeNet-model",
		Mode:      types.ModeAppend,
		Status:    RunFailed,
		Error:     "selecting layer 2: layer slot not found: value2",
		Outputs:   layerOutputs(0),
	})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	runs, err := l.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, id2, runs[0].ID)
	assert.Equal(t, RunFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "value2")
	assert.Len(t, runs[0].Outputs, 2)

	assert.Equal(t, id1, runs[1].ID)
	assert.True(t, started.Equal(runs[1].StartedAt))
	assert.Equal(t, types.ModeAppend, runs[1].Mode)
	require.Len(t, runs[1].Outputs, 8)
	assert.Equal(t, types.OutputFile{Path: "layer0.wt", Slot: 0, Kind: types.KindWeights, Lines: 10, Bytes: 80}, runs[1].Outputs[0])
	assert.Equal(t, "layer5.bs", runs[1].Outputs[7].Path)

	limited, err := l.Runs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, id2, limited[0].ID)
}

func TestAppends(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	n, err := l.Appends(ctx, "layer0.wt")
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 0; i < 3; i++ {
		_, err := l.RecordRun(ctx, Run{StartedAt: time.Now(), Input: "m", Mode: types.ModeAppend, Status: RunSucceeded, Outputs: layerOutputs(0)})
		require.NoError(t, err)
	}
	_, err = l.RecordRun(ctx, Run{StartedAt: time.Now(), Input: "m", Mode: types.ModeAppend, Status: RunSucceeded, Outputs: layerOutputs(2)})
	require.NoError(t, err)

	n, err = l.Appends(ctx, "layer0.wt")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = l.Appends(ctx, "layer2.bs")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	l, err := Open(path)
	require.NoError(t, err)
	_, err = l.RecordRun(ctx, Run{StartedAt: time.Now(), Input: "m", Mode: types.ModeTruncate, Status: RunSucceeded})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()

	runs, err := l.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, types.ModeTruncate, runs[0].Mode)
	assert.Empty(t, runs[0].Outputs)
}

func TestExport(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()
	_, err := l.RecordRun(ctx, Run{
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Input:     "LeNet-model",
		Mode:      types.ModeAppend,
		Status:    RunSucceeded,
		Outputs:   layerOutputs(4),
	})
	require.NoError(t, err)

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, l.ExportYAML(ctx, &buf, 0))

		var runs []Run
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, "LeNet-model", runs[0].Input)
		require.Len(t, runs[0].Outputs, 2)
		assert.Equal(t, "layer4.bs", runs[0].Outputs[1].Path)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, l.ExportJSON(ctx, &buf, 0))

		var runs []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, "succeeded", runs[0]["status"])
		assert.NotContains(t, runs[0], "error")
	})

	t.Run("json empty history", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, testLedger(t).ExportJSON(ctx, &buf, 0))
		assert.Equal(t, "[]\n", buf.String())
	})
}
