// grbinfo renders the fixed-field GRB summary table: GPS and UTC time,
// sky location, analysis instruments and their antenna factors.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gwburst/grbflow/internal/report"
)

const version = "1.2.0"

var (
	triggerName string
	triggerTime int64
	ra          float64
	dec         float64
	ifos        []string
	outputFile  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:     "grbinfo",
	Short:   "Generate the GRB information summary table",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeSummary()
	},
}

func init() {
	rootCmd.Flags().StringVar(&triggerName, "trigger-name", "", "GRB trigger name (without the GRB prefix)")
	rootCmd.Flags().Int64Var(&triggerTime, "trigger-time", 0, "GPS time of the trigger")
	rootCmd.Flags().Float64Var(&ra, "ra", 0, "Right ascension in degrees")
	rootCmd.Flags().Float64Var(&dec, "dec", 0, "Declination in degrees")
	rootCmd.Flags().StringSliceVar(&ifos, "ifos", nil, "Analysis interferometers (repeatable)")
	rootCmd.Flags().StringVar(&outputFile, "output-file", "", "Output HTML file path")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose output")

	rootCmd.MarkFlagRequired("trigger-time")
	rootCmd.MarkFlagRequired("ra")
	rootCmd.MarkFlagRequired("dec")
	rootCmd.MarkFlagRequired("ifos")
	rootCmd.MarkFlagRequired("output-file")
}

func writeSummary() error {
	summary, err := report.NewSummary(triggerName, triggerTime, ra, dec, ifos)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("□ GRB%s at GPS %d (%s)\n", triggerName, triggerTime, summary.UTC)
		for _, cell := range summary.Antenna {
			fmt.Printf("  %s antenna factor: %.3f\n", cell.Ifo, cell.Factor)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := report.Render(out, summary); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("✓ Saved to: %s\n", outputFile)
	}
	return nil
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
