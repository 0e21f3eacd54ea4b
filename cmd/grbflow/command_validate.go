package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gwburst/grbflow/internal/config"
	"github.com/gwburst/grbflow/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the post-processing configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfig()
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)
}

func validateConfig() error {
	fmt.Println("□ Loading configuration...")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Println("□ Validating against schema...")
	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateConfig(cfg.Raw()); err != nil {
		return err
	}

	fmt.Printf("✓ Configuration is valid (%d sections)\n", len(cfg.SectionNames()))
	return nil
}
