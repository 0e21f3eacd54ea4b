// Package composer assembles job nodes into the final workflow DAG:
// a main sub-graph of analysis jobs, a finalization sub-graph gated on
// it, and optional nested sub-workflows embedded as opaque nodes.
package composer

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/gwburst/grbflow/internal/model"
	"github.com/gwburst/grbflow/internal/registry"
)

var (
	// ErrSealed rejects any mutation after serialization.
	ErrSealed = errors.New("workflow is sealed")

	// ErrForwardReference rejects a node consuming an artifact that was
	// never declared earlier in assembly order.
	ErrForwardReference = errors.New("forward artifact reference")
)

// Workflow is the root container graph of one assembly run.
type Workflow struct {
	name string
	reg  *registry.Registry
	log  *slog.Logger

	// Main holds all analysis, plot and table jobs; Finalization holds
	// page assembly and bookkeeping jobs and always runs after Main.
	Main         *Graph
	Finalization *Graph

	subs       []*SubWorkflow
	graphDeps  map[string][]string
	producedBy map[string]string // artifact name -> producing node ID
	seq        int
	sealed     bool
}

// Graph is one named sub-graph accumulating job nodes in append order.
type Graph struct {
	name  string
	wf    *Workflow
	nodes []*model.JobNode
}

// SubWorkflow is a nested workflow planned independently and embedded
// in the parent as a single opaque node. Its identifier is generated;
// its internal jobs keep their own dependency edges.
type SubWorkflow struct {
	ID       string
	Name     string
	Graph    *Graph
	PlanPath string

	// dependsOn names the parent node producing the artifact that
	// describes this sub-workflow, when there is one.
	dependsOn []string
}

// New creates the root workflow with its two top-level sub-graphs and
// the structural finalization-after-main edge.
func New(name string, reg *registry.Registry, log *slog.Logger) *Workflow {
	if log == nil {
		log = slog.Default()
	}
	w := &Workflow{
		name:       name,
		reg:        reg,
		log:        log,
		producedBy: make(map[string]string),
		graphDeps:  map[string][]string{"finalization": {"main"}},
	}
	w.Main = &Graph{name: "main", wf: w}
	w.Finalization = &Graph{name: "finalization", wf: w}
	return w
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Sealed reports whether serialization has already happened.
func (w *Workflow) Sealed() bool { return w.sealed }

// Seal ends the mutable phase. Serialization is terminal: any append
// after this point is an error.
func (w *Workflow) Seal() { w.sealed = true }

// NodeCount returns the number of nodes across all sub-graphs,
// including nested sub-workflows.
func (w *Workflow) NodeCount() int {
	count := len(w.Main.nodes) + len(w.Finalization.nodes)
	for _, sub := range w.subs {
		count += len(sub.Graph.nodes)
	}
	return count
}

// SubWorkflows returns the nested sub-workflows in creation order.
func (w *Workflow) SubWorkflows() []*SubWorkflow {
	return w.subs
}

// GraphDependencies returns the sub-graph dependency edges, keyed by
// the dependent sub-graph name.
func (w *Workflow) GraphDependencies() map[string][]string {
	out := make(map[string][]string, len(w.graphDeps))
	for k, v := range w.graphDeps {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Name returns the sub-graph name.
func (g *Graph) Name() string { return g.name }

// Nodes returns the appended nodes in assembly order.
func (g *Graph) Nodes() []*model.JobNode { return g.nodes }

// AddNode appends a fully built node to the sub-graph. Every input the
// node references must already be known to the registry, either as an
// earlier output or as an externally resolved file.
func (g *Graph) AddNode(n *model.JobNode) error {
	if g.wf.sealed {
		return ErrSealed
	}

	for _, input := range n.Inputs {
		if _, known := g.wf.reg.SequenceOf(input.Name()); !known {
			return fmt.Errorf("%w: job kind %s consumes undeclared artifact %q",
				ErrForwardReference, n.Kind, input.Name())
		}
	}

	g.wf.seq++
	n.Seq = g.wf.seq
	n.ID = fmt.Sprintf("%s/%03d-%s", g.name, n.Seq, n.Kind)

	for _, out := range n.Outputs {
		g.wf.producedBy[out.Name()] = n.ID
	}

	g.nodes = append(g.nodes, n)
	g.wf.log.Debug("node appended", "graph", g.name, "id", n.ID, "kind", n.Kind)
	return nil
}

// AddSubWorkflow creates a nested sub-graph keyed by a generated
// identifier. The anchor is the artifact that names/describes the
// sub-workflow; its producer, if any, becomes the embedding node's
// only dependency.
func (w *Workflow) AddSubWorkflow(name, planPath string, anchor model.ArtifactHandle) (*SubWorkflow, error) {
	if w.sealed {
		return nil, ErrSealed
	}
	sub := &SubWorkflow{
		ID:       uuid.NewString(),
		Name:     name,
		PlanPath: planPath,
	}
	sub.Graph = &Graph{name: name, wf: w}
	if producer, ok := w.producedBy[anchor.Name()]; ok {
		sub.dependsOn = []string{producer}
	}
	w.subs = append(w.subs, sub)
	w.log.Debug("sub-workflow created", "name", name, "id", sub.ID)
	return sub, nil
}

// DependsOn returns the parent node IDs gating this sub-workflow.
func (s *SubWorkflow) DependsOn() []string {
	return append([]string(nil), s.dependsOn...)
}

// DependenciesOf resolves the producing node IDs of a node's inputs,
// sorted and deduplicated. External inputs contribute no edge.
func (w *Workflow) DependenciesOf(n *model.JobNode) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, input := range n.Inputs {
		producer, ok := w.producedBy[input.Name()]
		if !ok || producer == n.ID || seen[producer] {
			continue
		}
		seen[producer] = true
		deps = append(deps, producer)
	}
	sort.Strings(deps)
	return deps
}
