// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the lenet-extract CLI. Run without
// arguments it reads LeNet-model from the working directory and writes the
// weights and biases of layers 0, 2, 4 and 5 to layer<N>.wt / layer<N>.bs.
package main

import (
	goflag "flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/pdiddy/lenet-extract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the lenet-extract CLI. With no
// subcommand it runs an extraction.
var rootCmd = &cobra.Command{
	Use:   "lenet-extract",
	Short: "Extract LeNet layer weights and biases into per-layer text files",
	Long: `lenet-extract reads a LeNet model exported to JSON (default: LeNet-model in
the working directory), selects the parameter layers (default: slots 0, 2, 4
and 5) and writes each layer's weights to layer<N>.wt and its biases to
layer<N>.bs, one value per line.

Output files are opened in append mode: running twice into the same
directory concatenates the output. Use "clean" or --truncate to start over.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := types.DefaultExtractConfig()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./lenet-extract.yaml or ~/.config/lenet-extract/config.yaml)")
	pf.String("input", defaults.Input, "JSON model file to read")
	pf.String("output-dir", defaults.OutputDir, "directory for layer<N>.wt and layer<N>.bs files")
	pf.IntSlice("slots", defaults.Slots, "layer slots to extract, in order")
	pf.Bool("truncate", false, "truncate output files instead of appending to them")
	pf.String("ledger", "", "SQLite run history database (disabled when empty)")

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	pf.AddGoFlag(klogFlags.Lookup("v"))

	viper.SetDefault("input", defaults.Input)
	viper.SetDefault("output_dir", defaults.OutputDir)
	viper.SetDefault("slots", defaults.Slots)
	viper.SetDefault("slot_prefix", defaults.SlotPrefix)
	viper.SetDefault("weights_key", defaults.Weights)
	viper.SetDefault("biases_key", defaults.Biases)
	viper.SetDefault("weights_ext", defaults.WeightsExt)
	viper.SetDefault("biases_ext", defaults.BiasesExt)
	viper.SetDefault("mode", string(defaults.Mode))
	viper.SetDefault("ledger", "")

	for key, flag := range map[string]string{
		"input":      "input",
		"output_dir": "output-dir",
		"slots":      "slots",
		"ledger":     "ledger",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lenet-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lenet-extract"))
		}
	}

	viper.SetEnvPrefix("LENET_EXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, config file, environment and flags into an
// ExtractConfig and validates it.
func loadConfig(cmd *cobra.Command) (types.ExtractConfig, error) {
	cfg := types.DefaultExtractConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if truncate, _ := cmd.Flags().GetBool("truncate"); truncate {
		cfg.Mode = types.ModeTruncate
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	klog.V(1).Infof("config: input=%s output_dir=%s slots=%v mode=%s", cfg.Input, cfg.OutputDir, cfg.Slots, cfg.Mode)
	return cfg, nil
}

func main() {
	defer klog.Flush()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		klog.Flush()
		os.Exit(1)
	}
}
