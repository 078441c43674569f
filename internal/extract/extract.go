// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract writes the parameter sequences of selected model layers
// into plain-text files, one value per line: layer<N>.wt for weights and
// layer<N>.bs for biases.
//
// Files are opened in append mode by default. Running twice into the same
// directory without Clean concatenates the output; Verify reports that
// case as "appended".
package extract

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/pdiddy/lenet-extract/internal/model"
	"github.com/pdiddy/lenet-extract/pkg/types"
)

// Result holds the outcome of an extraction run.
type Result struct {
	// Files lists the files written, in write order.
	Files []types.OutputFile

	// Layers is the number of slots fully extracted.
	Layers int
}

// Lines returns the total number of values written.
func (r Result) Lines() int {
	n := 0
	for _, f := range r.Files {
		n += f.Lines
	}
	return n
}

// Bytes returns the total number of bytes written.
func (r Result) Bytes() int64 {
	var n int64
	for _, f := range r.Files {
		n += f.Bytes
	}
	return n
}

// Run extracts every slot in cfg.Slots, in order. It stops at the first
// failure; files written for earlier slots stay on disk and are reported
// in the returned Result alongside the error.
func Run(doc *model.Document, cfg types.ExtractConfig, w io.Writer) (Result, error) {
	var result Result

	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	for _, slot := range cfg.Slots {
		layer, err := doc.Layer(cfg.SlotKey(slot), cfg.LayerKeys)
		if err != nil {
			return result, fmt.Errorf("selecting layer %d: %w", slot, err)
		}

		files, err := ExtractLayer(slot, layer, cfg, w)
		result.Files = append(result.Files, files...)
		if err != nil {
			return result, fmt.Errorf("extracting layer %d: %w", slot, err)
		}
		result.Layers++
	}

	fmt.Fprintf(w, "\nExtraction summary: %d layers, %d files, %d values\n",
		result.Layers, len(result.Files), result.Lines())
	return result, nil
}

// ExtractLayer writes the weights of layer to layer<slot>.wt and its
// biases to layer<slot>.bs under cfg.OutputDir. An empty sequence writes
// nothing and leaves its file untouched.
func ExtractLayer(slot int, layer model.Layer, cfg types.ExtractConfig, w io.Writer) ([]types.OutputFile, error) {
	sequences := []struct {
		kind   types.ParamKind
		values []any
	}{
		{types.KindWeights, layer.Weights},
		{types.KindBiases, layer.Biases},
	}

	var files []types.OutputFile
	for _, seq := range sequences {
		path := filepath.Join(cfg.OutputDir, cfg.FileName(slot, seq.kind))
		if len(seq.values) == 0 {
			fmt.Fprintf(w, "skipped: %s (no values)\n", path)
			continue
		}

		n, err := writeValues(path, seq.values, cfg.Mode)
		if err != nil {
			return files, err
		}

		files = append(files, types.OutputFile{
			Path:  path,
			Slot:  slot,
			Kind:  seq.kind,
			Lines: len(seq.values),
			Bytes: n,
		})
		fmt.Fprintf(w, "wrote: %s (%d values)\n", path, len(seq.values))
	}
	return files, nil
}

// writeValues writes one rendered value per line to path and returns the
// number of bytes written.
func writeValues(path string, values []any, mode types.WriteMode) (int64, error) {
	flag := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if mode == types.ModeTruncate {
		flag |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	var written int64
	for _, v := range values {
		n, err := bw.WriteString(FormatValue(v) + "\n")
		written += int64(n)
		if err != nil {
			f.Close()
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return written, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return written, fmt.Errorf("closing %s: %w", path, err)
	}

	klog.V(2).Infof("%s: %d values, %d bytes, mode %s", path, len(values), written, mode)
	return written, nil
}
