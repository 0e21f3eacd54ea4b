package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	outputFile string
	outputDir  string
	viewPlan   string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "grbflow",
	Short: "PyGRB post-processing workflow planner",
	Long:  "grbflow compiles a post-processing configuration into a deterministic workflow DAG for the external planner",
}

func init() {
	defaultConfig := os.Getenv("GRBFLOW_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "postproc.yaml"
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfig, "Configuration file path")

	registerGenerateCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerKindsCommand(rootCmd)
}
