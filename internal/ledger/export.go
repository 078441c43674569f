// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the run history to w as a YAML list, newest first.
func (l *Ledger) ExportYAML(ctx context.Context, w io.Writer, limit int) error {
	runs, err := l.Runs(ctx, limit)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the run history to w as an indented JSON array.
func (l *Ledger) ExportJSON(ctx context.Context, w io.Writer, limit int) error {
	runs, err := l.Runs(ctx, limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []Run{}
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
