// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/lenet-extract/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded extraction runs from the ledger",
	Long: `History lists extraction runs recorded in the ledger database (--ledger or
"ledger" in the config file), newest first. Use --format yaml or json to
export the full records including every file written.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("format", "table", "output format: table, yaml, or json")
	historyCmd.Flags().Int("limit", 20, "maximum runs to show (0 = all)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Ledger == "" {
		return fmt.Errorf("no ledger configured: pass --ledger or set ledger in the config file")
	}

	led, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return err
	}
	defer led.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch format {
	case "yaml":
		return led.ExportYAML(ctx, out, limit)
	case "json":
		return led.ExportJSON(ctx, out, limit)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml or json", format)
	}

	runs, err := led.Runs(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	table := newTable([]string{"Run", "Started", "Input", "Mode", "Status", "Files", "Values", "Size"}, 0, 5, 6, 7)
	for _, r := range runs {
		var lines int
		var size int64
		for _, o := range r.Outputs {
			lines += o.Lines
			size += o.Bytes
		}
		table.Row(strconv.FormatInt(r.ID, 10), humanize.Time(r.StartedAt), r.Input, string(r.Mode),
			string(r.Status), strconv.Itoa(len(r.Outputs)), humanize.Comma(int64(lines)),
			humanize.Bytes(uint64(size)))
	}
	fmt.Fprintln(out, table.Render())
	return nil
}
