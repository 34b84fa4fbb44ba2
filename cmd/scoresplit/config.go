// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scoresplit/pkg/types"
)

// Settings follow flag > config file > default precedence. Flags are
// registered with zero defaults so Changed distinguishes an explicit
// flag from an omitted one.

func intSetting(cmd *cobra.Command, name string, def int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	if viper.IsSet(name) {
		return viper.GetInt(name)
	}
	return def
}

func floatSetting(cmd *cobra.Command, name string, def float64) float64 {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetFloat64(name)
		return v
	}
	if viper.IsSet(name) {
		return viper.GetFloat64(name)
	}
	return def
}

func stringSetting(cmd *cobra.Command, name, def string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	if viper.IsSet(name) {
		return viper.GetString(name)
	}
	return def
}

// tuningFlags registers the segmentation tuning flags shared by extract
// and inspect.
func tuningFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("scale", 0, "rasterization scale factor (default 2.0)")
	cmd.Flags().Int("min-height", 0, "minimum exercise crop height in pixels (default 200)")
	cmd.Flags().Int("lead-in", 0, "lead-in above the first label in pixels (default 200)")
	cmd.Flags().Int("label-gap", 0, "gap below the next label when no staff region anchors (default 20)")
	cmd.Flags().Int("trail-margin", 0, "margin below the last staff region of an exercise (default 60)")
	cmd.Flags().Float64("peak-height-fraction", 0, "staff peak height as fraction of profile maximum (default 0.30)")
	cmd.Flags().Int("peak-min-distance", 0, "minimum distance between staff peaks in pixels (default 100)")
	cmd.Flags().Int("peak-min-width", 0, "minimum staff peak width in pixels (default 12)")
	cmd.Flags().Float64("smoothing-sigma", 0, "Gaussian sigma for the row-sum profile (default 4.0)")
	cmd.Flags().Int("kernel-width", 0, "horizontal morphology kernel width in pixels (default 45)")
	cmd.Flags().Int("gap-threshold", 0, "peak separation starting a new visual fallback group (default 200)")
}

// buildConfig assembles the extraction configuration from flags, the
// viper config file, and DefaultConfig, in that precedence.
func buildConfig(cmd *cobra.Command) types.Config {
	def := types.DefaultConfig()
	cfg := def

	cfg.Scale = floatSetting(cmd, "scale", def.Scale)

	cfg.Staff.KernelWidth = intSetting(cmd, "kernel-width", def.Staff.KernelWidth)
	cfg.Staff.HeightFraction = floatSetting(cmd, "peak-height-fraction", def.Staff.HeightFraction)
	cfg.Staff.MinDistance = intSetting(cmd, "peak-min-distance", def.Staff.MinDistance)
	cfg.Staff.MinWidth = intSetting(cmd, "peak-min-width", def.Staff.MinWidth)
	cfg.Staff.SmoothingSigma = floatSetting(cmd, "smoothing-sigma", def.Staff.SmoothingSigma)

	cfg.Segment.FirstLeadIn = intSetting(cmd, "lead-in", def.Segment.FirstLeadIn)
	cfg.Segment.LabelGap = intSetting(cmd, "label-gap", def.Segment.LabelGap)
	cfg.Segment.TrailMargin = intSetting(cmd, "trail-margin", def.Segment.TrailMargin)
	cfg.Segment.MinHeight = intSetting(cmd, "min-height", def.Segment.MinHeight)

	cfg.Fallback.GapThreshold = intSetting(cmd, "gap-threshold", def.Fallback.GapThreshold)

	return cfg
}
