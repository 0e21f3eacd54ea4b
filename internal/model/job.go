package model

// Argument is one command-line option of a job: a flag paired with
// either a literal configuration value or an artifact reference.
type Argument struct {
	Flag  string
	Value string
	File  *ArtifactHandle
}

// Render returns the argument as it appears on the command line.
func (a Argument) Render() []string {
	if a.File != nil {
		if a.Flag == "" {
			return []string{a.File.Path()}
		}
		return []string{a.Flag, a.File.Path()}
	}
	if a.Value == "" {
		return []string{a.Flag}
	}
	return []string{a.Flag, a.Value}
}

// JobNode is one unit of work in the assembled graph. Nodes are built
// by the job builder, appended to the active sub-graph, and never
// mutated afterwards.
type JobNode struct {
	ID         string
	Kind       string
	Executable string
	Arguments  []Argument
	Inputs     []ArtifactHandle
	Outputs    []ArtifactHandle
	Tags       []string

	// Seq is the global assembly order index, assigned on append.
	Seq int
}

// CommandLine renders the full argument vector after the executable.
func (n *JobNode) CommandLine() []string {
	out := make([]string, 0, 2*len(n.Arguments))
	for _, arg := range n.Arguments {
		out = append(out, arg.Render()...)
	}
	return out
}

// PrimaryOutput returns the output declared first by the node's recipe.
// Recipes state explicitly which handle is "the" output when only one
// is needed downstream, and the builder always places it at position
// zero.
func (n *JobNode) PrimaryOutput() (ArtifactHandle, bool) {
	if len(n.Outputs) == 0 {
		return ArtifactHandle{}, false
	}
	return n.Outputs[0], true
}
