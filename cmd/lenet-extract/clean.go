package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lenet-extract/internal/extract"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove layer output files for the selected slots",
	Long: `Clean deletes layer<N>.wt and layer<N>.bs for every selected slot so the
next extraction starts from empty files instead of appending.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		n, err := extract.Clean(cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d file(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
