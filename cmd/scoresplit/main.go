// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scoresplit CLI.
// See docs/ARCHITECTURE § CLI Surface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the scoresplit CLI.
var rootCmd = &cobra.Command{
	Use:   "scoresplit",
	Short: "Segment sheet-music pages into per-exercise images",
	Long: `scoresplit splits scanned multi-exercise sheet-music documents into one
raster image per exercise, ready for downstream optical music recognition.

Segmentation reads the embedded text layer for exercise labels ("No. 12",
"Exercise 3") and anchors each boundary to detected staff-line regions.
Pages without labels fall back to purely visual staff clustering; pages
without any structure are emitted whole.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scoresplit.yaml or ~/.config/scoresplit/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scoresplit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scoresplit"))
		}
	}

	viper.SetEnvPrefix("SCORESPLIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
