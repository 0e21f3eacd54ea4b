package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gwburst/grbflow/internal/model"
)

// PlanViewer provides human-readable visualization of a plan DAG.
type PlanViewer struct {
	plan *model.Plan
}

// NewPlanViewer creates a new plan viewer.
func NewPlanViewer(plan *model.Plan) *PlanViewer {
	return &PlanViewer{plan: plan}
}

// ViewDAG returns a tree view of the plan: sub-graphs, their jobs
// grouped by kind, and nested sub-workflows.
func (pv *PlanViewer) ViewDAG() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Workflow: %s\n", pv.plan.Metadata.Name))

	for i, graph := range pv.plan.SubGraphs {
		isLastGraph := i == len(pv.plan.SubGraphs)-1
		graphPrefix := "├─ "
		childIndent := "│  "
		if isLastGraph {
			graphPrefix = "└─ "
			childIndent = "   "
		}

		header := graph.Name
		if len(graph.DependsOn) > 0 {
			header += fmt.Sprintf(" (after %s)", strings.Join(graph.DependsOn, ", "))
		}
		sb.WriteString(graphPrefix + header + "\n")

		// Group jobs by kind for a compact view.
		kindMap := make(map[string][]model.PlanJob)
		for _, job := range graph.Jobs {
			kindMap[job.Kind] = append(kindMap[job.Kind], job)
		}
		kinds := make([]string, 0, len(kindMap))
		for kind := range kindMap {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		for j, kind := range kinds {
			isLast := j == len(kinds)-1 && len(graph.SubWorkflows) == 0
			prefix := childIndent + "├─ "
			if isLast {
				prefix = childIndent + "└─ "
			}
			sb.WriteString(fmt.Sprintf("%s%s (%d jobs)\n", prefix, kind, len(kindMap[kind])))
		}

		for k, sub := range graph.SubWorkflows {
			isLast := k == len(graph.SubWorkflows)-1
			prefix := childIndent + "├─ "
			if isLast {
				prefix = childIndent + "└─ "
			}
			sb.WriteString(fmt.Sprintf("%s[sub-workflow] %s → %s\n", prefix, sub.Name, sub.PlanPath))
		}
	}

	return sb.String()
}

// ViewDependencies lists every job with its resolved dependencies.
func (pv *PlanViewer) ViewDependencies() string {
	var sb strings.Builder

	for _, graph := range pv.plan.SubGraphs {
		sb.WriteString(fmt.Sprintf("[%s]\n", graph.Name))
		for _, job := range graph.Jobs {
			if len(job.DependsOn) == 0 {
				sb.WriteString(fmt.Sprintf("  %s (no dependencies)\n", job.ID))
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s\n", job.ID))
			for _, dep := range job.DependsOn {
				sb.WriteString(fmt.Sprintf("    ← %s\n", dep))
			}
		}
		for _, sub := range graph.SubWorkflows {
			sb.WriteString(fmt.Sprintf("  [sub-workflow] %s (plan: %s)\n", sub.Name, sub.PlanPath))
		}
	}

	return sb.String()
}

// DebugDump outputs summary debug information about the plan.
func (pv *PlanViewer) DebugDump() string {
	total := 0
	for _, graph := range pv.plan.SubGraphs {
		total += len(graph.Jobs)
	}
	output := fmt.Sprintf("Plan: %s\n", pv.plan.Metadata.Name)
	output += fmt.Sprintf("Sub-graphs: %d, Jobs: %d\n", len(pv.plan.SubGraphs), total)
	for _, graph := range pv.plan.SubGraphs {
		output += fmt.Sprintf("  %s: %d jobs, %d sub-workflows\n",
			graph.Name, len(graph.Jobs), len(graph.SubWorkflows))
	}
	return output
}
