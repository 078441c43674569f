// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/lenet-extract/internal/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the layer slots in the model and their parameter counts",
	Long: `Inspect loads the model file and prints one row per layer slot found in it
(plus any selected slot that is missing), with weight and bias counts and
whether the slot is selected for extraction. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	doc, err := model.Load(cfg.Input)
	if err != nil {
		return err
	}

	summaries := model.Summarize(doc, cfg)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render("Layers in "+cfg.Input))
	table := newTable([]string{"Slot", "Key", "Selected", "Weights", "Biases", "Params", "Note"}, 0, 3, 4, 5)
	var total, selected int
	for _, s := range summaries {
		sel := "no"
		if s.Enabled {
			sel = "yes"
			selected += s.Params()
		}
		total += s.Params()
		note := ""
		if s.Err != nil {
			note = s.Err.Error()
		}
		table.Row(strconv.Itoa(s.Slot), s.Key, sel,
			humanize.Comma(int64(s.Weights)), humanize.Comma(int64(s.Biases)),
			humanize.Comma(int64(s.Params())), note)
	}
	fmt.Fprintln(out, table.Render())

	if info, err := os.Stat(cfg.Input); err == nil {
		fmt.Fprintf(out, "%s parameters (%s selected), file size %s\n",
			humanize.Comma(int64(total)), humanize.Comma(int64(selected)),
			humanize.Bytes(uint64(info.Size())))
	}
	return nil
}
