// Package render materializes a composed workflow into the plan
// document consumed by the external planner, and offers human-readable
// views of the DAG.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gwburst/grbflow/internal/composer"
	"github.com/gwburst/grbflow/internal/model"
)

const (
	apiVersion   = "grbflow/v1"
	workflowKind = "Workflow"
)

// Renderer materializes composed workflows into Plan documents.
type Renderer struct{}

// NewRenderer creates a new renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// BuildPlan converts the workflow into its serializable form. Nodes
// appear in assembly order; dependency edges are resolved from the
// artifact flow plus the structural finalization-after-main edge.
func (r *Renderer) BuildPlan(wf *composer.Workflow, meta model.Metadata) *model.Plan {
	graphDeps := wf.GraphDependencies()

	mainGraph := model.PlanSubGraph{
		Name:      "main",
		DependsOn: graphDeps["main"],
		Jobs:      r.convertNodes(wf, wf.Main.Nodes()),
	}
	for _, sub := range wf.SubWorkflows() {
		mainGraph.SubWorkflows = append(mainGraph.SubWorkflows, model.PlanSubWorkflow{
			ID:        sub.ID,
			Name:      sub.Name,
			PlanPath:  sub.PlanPath,
			DependsOn: sub.DependsOn(),
		})
	}

	finalGraph := model.PlanSubGraph{
		Name:      "finalization",
		DependsOn: graphDeps["finalization"],
		Jobs:      r.convertNodes(wf, wf.Finalization.Nodes()),
	}

	return &model.Plan{
		APIVersion: apiVersion,
		Kind:       workflowKind,
		Metadata:   meta,
		SubGraphs:  []model.PlanSubGraph{mainGraph, finalGraph},
	}
}

// BuildSubPlan converts one nested sub-workflow into its own plan
// document.
func (r *Renderer) BuildSubPlan(wf *composer.Workflow, sub *composer.SubWorkflow, meta model.Metadata) *model.Plan {
	meta.Name = sub.Name
	return &model.Plan{
		APIVersion: apiVersion,
		Kind:       workflowKind,
		Metadata:   meta,
		SubGraphs: []model.PlanSubGraph{{
			Name: sub.Name,
			Jobs: r.convertNodes(wf, sub.Graph.Nodes()),
		}},
	}
}

func (r *Renderer) convertNodes(wf *composer.Workflow, nodes []*model.JobNode) []model.PlanJob {
	jobs := make([]model.PlanJob, 0, len(nodes))
	for _, n := range nodes {
		job := model.PlanJob{
			ID:         n.ID,
			Kind:       n.Kind,
			Executable: n.Executable,
			Arguments:  n.CommandLine(),
			DependsOn:  wf.DependenciesOf(n),
		}
		for _, in := range n.Inputs {
			job.Inputs = append(job.Inputs, in.Path())
		}
		for _, out := range n.Outputs {
			job.Outputs = append(job.Outputs, out.Path())
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Serialize is the single terminal step of assembly: it writes the
// parent plan and every nested sub-workflow plan, then seals the
// workflow so no further mutation is possible.
func (r *Renderer) Serialize(wf *composer.Workflow, meta model.Metadata, path string) (*model.Plan, error) {
	if wf.Sealed() {
		return nil, fmt.Errorf("workflow already serialized: %w", composer.ErrSealed)
	}

	plan := r.BuildPlan(wf, meta)
	if err := r.WritePlan(plan, path); err != nil {
		return nil, err
	}
	for _, sub := range wf.SubWorkflows() {
		subPlan := r.BuildSubPlan(wf, sub, meta)
		if err := r.WritePlan(subPlan, sub.PlanPath); err != nil {
			return nil, err
		}
	}

	wf.Seal()
	return plan, nil
}

// RenderJSON renders a plan as indented JSON.
func (r *Renderer) RenderJSON(plan *model.Plan) ([]byte, error) {
	return json.MarshalIndent(plan, "", "  ")
}

// RenderYAML renders a plan as YAML.
func (r *Renderer) RenderYAML(plan *model.Plan) ([]byte, error) {
	return yaml.Marshal(plan)
}

// WritePlan writes a plan to file, JSON or YAML depending on the
// extension.
func (r *Renderer) WritePlan(plan *model.Plan, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var data []byte
	var err error
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(plan)
	default:
		data, err = r.RenderJSON(plan)
	}
	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan to %s: %w", path, err)
	}
	return nil
}
