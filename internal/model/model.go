// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model loads a LeNet model exported to JSON and gives access to
// its per-layer parameter sequences. The export is a JSON object whose
// top-level fields are layer slots ("value0", "value1", ...); each slot
// holds a record with a weights array and a biases array.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/pdiddy/lenet-extract/pkg/types"
)

var (
	// ErrMissingSlot is returned when a selected layer slot is absent.
	ErrMissingSlot = errors.New("layer slot not found")

	// ErrMissingField is returned when a layer record lacks its weights
	// or biases field.
	ErrMissingField = errors.New("layer field not found")

	// ErrNotSequence is returned when a weights or biases field is not a
	// JSON array.
	ErrNotSequence = errors.New("layer field is not an array")
)

// Document is a parsed model file. Field values stay undecoded until a
// layer is requested, so slots that are never selected cost nothing.
type Document struct {
	path   string
	fields map[string]json.RawMessage
}

// Layer holds the ordered parameter sequences of one layer slot. Elements
// are opaque JSON values (float64 for numbers).
type Layer struct {
	Weights []any
	Biases  []any
}

// Load reads the model file at path and parses it as a JSON object.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", path, err)
	}
	doc.path = path
	klog.V(1).Infof("loaded model %s: %d bytes, %d top-level fields", path, len(data), len(doc.fields))
	return doc, nil
}

// Parse decodes model data already held in memory.
func Parse(data []byte) (*Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("model document is null")
	}
	return &Document{fields: fields}, nil
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string { return d.path }

// Slots returns the slot indices present in the document for keys of the
// form prefix+N, in ascending order.
func (d *Document) Slots(prefix string) []int {
	var slots []int
	for key := range d.fields {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		suffix := key[len(prefix):]
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 0 || strconv.Itoa(n) != suffix {
			continue
		}
		slots = append(slots, n)
	}
	sort.Ints(slots)
	return slots
}

// Layer decodes the layer record stored under slotKey. Both sequences are
// required; a missing or non-array field is an error.
func (d *Document) Layer(slotKey string, keys types.LayerKeys) (Layer, error) {
	raw, ok := d.fields[slotKey]
	if !ok {
		return Layer{}, fmt.Errorf("%w: %s", ErrMissingSlot, slotKey)
	}

	var record map[string]json.RawMessage
	if err := json.Unmarshal(raw, &record); err != nil || record == nil {
		return Layer{}, fmt.Errorf("%w: %s.%s", ErrMissingField, slotKey, keys.Weights)
	}

	weights, err := sequence(record, slotKey, keys.Weights)
	if err != nil {
		return Layer{}, err
	}
	biases, err := sequence(record, slotKey, keys.Biases)
	if err != nil {
		return Layer{}, err
	}
	return Layer{Weights: weights, Biases: biases}, nil
}

func sequence(record map[string]json.RawMessage, slotKey, field string) ([]any, error) {
	raw, ok := record[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMissingField, slotKey, field)
	}
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotSequence, slotKey, field)
	}
	if values == nil {
		// JSON null decodes to a nil slice without error.
		return nil, fmt.Errorf("%w: %s.%s", ErrNotSequence, slotKey, field)
	}
	return values, nil
}
