package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gwburst/grbflow/internal/assemble"
	"github.com/gwburst/grbflow/internal/config"
	"github.com/gwburst/grbflow/internal/model"
	"github.com/gwburst/grbflow/internal/render"
	"github.com/gwburst/grbflow/internal/schema"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Assemble the post-processing workflow and serialize its DAG",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateWorkflow(cmd.Context())
	},
}

func registerGenerateCommand(root *cobra.Command) {
	root.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "workflow.json", "Output plan file path")
	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "output", "Directory for declared artifacts")
	generateCmd.Flags().StringVarP(&viewPlan, "view", "v", "", "View plan (dag/dependencies)")
	generateCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug output")
}

func generateWorkflow(ctx context.Context) error {
	fmt.Println("□ Loading configuration...")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Println("□ Validating configuration document...")
	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateConfig(cfg.Raw()); err != nil {
		return err
	}

	fmt.Println("□ Assembling workflow graph...")
	result, err := assemble.Assemble(ctx, cfg, assemble.Options{OutputDir: outputDir})
	if err != nil {
		return fmt.Errorf("failed to assemble workflow: %w", err)
	}
	wf := result.Workflow

	fmt.Println("□ Verifying DAG...")
	if err := wf.Verify(); err != nil {
		return fmt.Errorf("workflow verification failed: %w", err)
	}

	if debugMode {
		order, err := wf.TopologicalOrder()
		if err != nil {
			return err
		}
		fmt.Printf("  %d nodes in execution order\n", len(order))
	}

	fmt.Println("□ Serializing plan...")
	meta, err := planMetadata(cfg, result)
	if err != nil {
		return err
	}
	renderer := render.NewRenderer()
	plan, err := renderer.Serialize(wf, meta, outputFile)
	if err != nil {
		return fmt.Errorf("failed to serialize plan: %w", err)
	}

	if debugMode {
		fmt.Println(render.NewPlanViewer(plan).DebugDump())
	}

	fmt.Printf("✓ Workflow assembled with %d nodes, %d artifacts\n",
		wf.NodeCount(), result.Context.Registry.Count())
	fmt.Printf("✓ Layout entries: %d across %d buckets\n",
		result.Layout.Len(), len(result.Layout.Buckets()))
	fmt.Printf("✓ Saved to: %s\n", outputFile)

	if viewPlan != "" {
		viewer := render.NewPlanViewer(plan)
		switch viewPlan {
		case "dependencies":
			fmt.Println("\n" + viewer.ViewDependencies())
		default:
			fmt.Println("\n" + viewer.ViewDAG())
		}
	}
	return nil
}

func planMetadata(cfg *config.Store, result *assemble.Result) (model.Metadata, error) {
	name, err := cfg.Get("workflow", "trigger-name")
	if err != nil {
		return model.Metadata{}, err
	}
	return model.Metadata{
		Name:        result.Workflow.Name(),
		Description: "PyGRB post-processing results for GRB" + name,
		Ifos:        result.Context.Ifos,
		Span:        result.Context.Span,
	}, nil
}
