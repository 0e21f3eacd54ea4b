package model

// Plan is the serialized workflow DAG handed to the external planner.
type Plan struct {
	APIVersion string         `json:"apiVersion" yaml:"apiVersion"`
	Kind       string         `json:"kind" yaml:"kind"`
	Metadata   Metadata       `json:"metadata" yaml:"metadata"`
	SubGraphs  []PlanSubGraph `json:"subGraphs" yaml:"subGraphs"`
}

// Metadata holds identifying information about the analysis.
type Metadata struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Ifos        []string `json:"ifos" yaml:"ifos"`
	Span        Segment  `json:"span" yaml:"span"`
}

// PlanSubGraph is one named sub-graph of the workflow. DependsOn lists
// sub-graphs that must complete before any of its jobs start.
type PlanSubGraph struct {
	Name         string            `json:"name" yaml:"name"`
	DependsOn    []string          `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Jobs         []PlanJob         `json:"jobs" yaml:"jobs"`
	SubWorkflows []PlanSubWorkflow `json:"subWorkflows,omitempty" yaml:"subWorkflows,omitempty"`
}

// PlanJob is the execution unit in the final plan.
type PlanJob struct {
	ID         string   `json:"id" yaml:"id"`
	Kind       string   `json:"kind" yaml:"kind"`
	Executable string   `json:"executable" yaml:"executable"`
	Arguments  []string `json:"arguments" yaml:"arguments"`
	Inputs     []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs    []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	DependsOn  []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// PlanSubWorkflow is a nested workflow embedded in the parent graph as
// a single opaque node. Its own plan document lives at PlanPath.
type PlanSubWorkflow struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	PlanPath  string   `json:"planPath" yaml:"planPath"`
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}
