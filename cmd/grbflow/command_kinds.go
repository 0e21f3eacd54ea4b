package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gwburst/grbflow/internal/builder"
)

var longFormat bool

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List job kinds and their recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listKinds()
	},
}

func registerKindsCommand(root *cobra.Command) {
	root.AddCommand(kindsCmd)
	kindsCmd.Flags().BoolVarP(&longFormat, "long", "l", false, "Show detailed recipe information")
}

func listKinds() error {
	fmt.Println("Available job kinds:")
	for _, kind := range builder.Kinds() {
		recipe, ok := builder.RecipeFor(kind)
		if !ok {
			continue
		}
		if !longFormat {
			fmt.Printf("  %s\n", kind)
			continue
		}

		fmt.Printf("\n[%s]\n", kind)
		fmt.Printf("  Executable option: %s\n", recipe.Executable)
		if len(recipe.TagFields) > 0 {
			fmt.Printf("  Tag fields:        %s\n", strings.Join(recipe.TagFields, ", "))
		}
		fmt.Printf("  Outputs:           %d\n", len(recipe.Outputs))
		if recipe.InjectionVariants {
			fmt.Println("  Variants:          with/without injections")
		}
		if recipe.RequiresInjectionSet {
			fmt.Println("  Requires:          injection set")
		}
	}
	if !longFormat {
		fmt.Println("\nRun 'grbflow kinds -l' for recipe details")
	}
	return nil
}
