// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lenet-extract/internal/extract"
	"github.com/pdiddy/lenet-extract/internal/ledger"
	"github.com/pdiddy/lenet-extract/internal/model"
	"github.com/pdiddy/lenet-extract/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write layer weights and biases to layer<N>.wt / layer<N>.bs",
	Long: `Extract loads the model file, then for each selected slot in order writes
the weights to layer<N>.wt and the biases to layer<N>.bs, one value per line.

Processing stops at the first missing slot or write failure. Files written
for earlier slots are kept.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	doc, err := model.Load(cfg.Input)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var led *ledger.Ledger
	if cfg.Ledger != "" {
		led, err = ledger.Open(cfg.Ledger)
		if err != nil {
			return err
		}
		defer led.Close()
		if cfg.Mode == types.ModeAppend {
			warnPriorWrites(ctx, led, cfg, os.Stderr)
		}
	}

	started := time.Now()
	result, runErr := extract.Run(doc, cfg, cmd.OutOrStdout())

	if led != nil {
		run := ledger.Run{
			StartedAt: started,
			Input:     cfg.Input,
			Mode:      cfg.Mode,
			Status:    ledger.RunSucceeded,
			Outputs:   result.Files,
		}
		if runErr != nil {
			run.Status = ledger.RunFailed
			run.Error = runErr.Error()
		}
		if _, err := led.RecordRun(ctx, run); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run in ledger: %v\n", err)
		}
	}

	return runErr
}

// warnPriorWrites reports output files that earlier runs already wrote,
// since appending to them again duplicates their content.
func warnPriorWrites(ctx context.Context, led *ledger.Ledger, cfg types.ExtractConfig, w io.Writer) {
	for _, slot := range cfg.Slots {
		for _, kind := range []types.ParamKind{types.KindWeights, types.KindBiases} {
			path := filepath.Join(cfg.OutputDir, cfg.FileName(slot, kind))
			if _, err := os.Stat(path); err != nil {
				continue
			}
			n, err := led.Appends(ctx, path)
			if err != nil {
				fmt.Fprintf(w, "warning: %v\n", err)
				return
			}
			if n > 0 {
				fmt.Fprintf(w, "warning: %s already written by %d earlier run(s); appending again\n", path, n)
			}
		}
	}
}
