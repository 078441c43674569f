// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdiddy/lenet-extract/internal/model"
	"github.com/pdiddy/lenet-extract/pkg/types"
)

// CheckStatus is the outcome of comparing one output file with the model.
type CheckStatus string

const (
	// StatusOK means the file holds exactly the layer's values.
	StatusOK CheckStatus = "ok"
	// StatusMissing means the file does not exist but values are expected.
	StatusMissing CheckStatus = "missing"
	// StatusAppended means the file holds the values repeated Copies times,
	// the result of re-running in append mode.
	StatusAppended CheckStatus = "appended"
	// StatusMismatch means the file content does not match the model.
	StatusMismatch CheckStatus = "mismatch"
)

// Check reports on one output file.
type Check struct {
	Path   string
	Slot   int
	Kind   types.ParamKind
	Want   int
	Got    int
	Copies int
	Status CheckStatus
	Detail string
}

// Verify compares the output files of every enabled slot with the values in
// doc. A missing slot in doc is an error; file problems are reported as
// check statuses.
func Verify(doc *model.Document, cfg types.ExtractConfig) ([]Check, error) {
	var checks []Check
	for _, slot := range cfg.Slots {
		layer, err := doc.Layer(cfg.SlotKey(slot), cfg.LayerKeys)
		if err != nil {
			return checks, fmt.Errorf("selecting layer %d: %w", slot, err)
		}

		for _, kind := range []types.ParamKind{types.KindWeights, types.KindBiases} {
			values := layer.Weights
			if kind == types.KindBiases {
				values = layer.Biases
			}
			path := filepath.Join(cfg.OutputDir, cfg.FileName(slot, kind))
			c, err := checkFile(path, values)
			if err != nil {
				return checks, err
			}
			c.Slot = slot
			c.Kind = kind
			checks = append(checks, c)
		}
	}
	return checks, nil
}

func checkFile(path string, values []any) (Check, error) {
	c := Check{Path: path, Want: len(values)}

	lines, err := readLines(path)
	if errors.Is(err, fs.ErrNotExist) {
		if len(values) == 0 {
			c.Status = StatusOK
			return c, nil
		}
		c.Status = StatusMissing
		return c, nil
	}
	if err != nil {
		return c, err
	}
	c.Got = len(lines)

	if c.Want == 0 || c.Got%c.Want != 0 || c.Got == 0 {
		c.Status = StatusMismatch
		c.Detail = fmt.Sprintf("%d lines, expected %d", c.Got, c.Want)
		return c, nil
	}

	c.Copies = c.Got / c.Want
	for i, line := range lines {
		want := FormatValue(values[i%c.Want])
		if line != want {
			c.Status = StatusMismatch
			c.Detail = fmt.Sprintf("line %d: got %q, want %q", i+1, line, want)
			return c, nil
		}
	}

	c.Status = StatusOK
	if c.Copies > 1 {
		c.Status = StatusAppended
		c.Detail = fmt.Sprintf("values repeated %d times", c.Copies)
	}
	return c, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}
