// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lenet-extract/internal/extract"
	"github.com/pdiddy/lenet-extract/internal/model"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check layer output files against the model",
	Long: `Verify compares every selected layer's output files with the values in the
model file. Files that hold the values more than once (the result of
re-running in append mode) are reported as "appended".`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	doc, err := model.Load(cfg.Input)
	if err != nil {
		return err
	}

	checks, err := extract.Verify(doc, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-24s  %-8s  %8s  %8s  %-9s  %s\n", "File", "Kind", "Want", "Got", "Status", "Detail")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	failed := 0
	for _, c := range checks {
		if c.Status != extract.StatusOK {
			failed++
		}
		fmt.Fprintf(out, "%-24s  %-8s  %8d  %8d  %-9s  %s\n", c.Path, c.Kind, c.Want, c.Got, c.Status, c.Detail)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed verification", failed)
	}
	fmt.Fprintf(out, "\n%d files verified\n", len(checks))
	return nil
}
