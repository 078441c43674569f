// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for lenet-extract: the
// extraction configuration and the records describing files it writes.
package types

import "strconv"

// ParamKind identifies which parameter sequence of a layer a file holds.
type ParamKind string

const (
	KindWeights ParamKind = "weights"
	KindBiases  ParamKind = "biases"
)

// OutputFile describes one layer file written during a run.
type OutputFile struct {
	// Path is the file path, relative to the working directory or absolute.
	Path string `json:"path" yaml:"path"`

	// Slot is the layer slot index the values came from.
	Slot int `json:"slot" yaml:"slot"`

	// Kind is weights or biases.
	Kind ParamKind `json:"kind" yaml:"kind"`

	// Lines is the number of values written (one per line).
	Lines int `json:"lines" yaml:"lines"`

	// Bytes is the number of bytes written, newlines included.
	Bytes int64 `json:"bytes" yaml:"bytes"`
}

// FileName returns the output file name for slot and kind, for example
// "layer0.wt" or "layer5.bs".
func (c ExtractConfig) FileName(slot int, kind ParamKind) string {
	ext := c.WeightsExt
	if kind == KindBiases {
		ext = c.BiasesExt
	}
	return "layer" + strconv.Itoa(slot) + ext
}
