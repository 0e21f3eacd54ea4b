package assemble

import (
	"github.com/gwburst/grbflow/internal/builder"
	"github.com/gwburst/grbflow/internal/composer"
	"github.com/gwburst/grbflow/internal/model"
)

// buildFinalization populates the finalization sub-graph: results page
// assembly plus optional versioning and log-flush bookkeeping. The
// composer guarantees these run only after the whole main sub-graph.
func buildFinalization(actx *builder.AssemblyContext, wf *composer.Workflow, opts Options) error {
	jobs := []struct {
		executable string
		extension  string
		label      string
		required   bool
	}{
		{"results_page", "html", "RESULTS_PAGE", true},
		{"version_info", "txt", "VERSION_INFO", false},
		{"flush_logs", "log", "WORKFLOW_LOG", false},
	}

	for _, job := range jobs {
		var exe string
		if job.required {
			var err error
			if exe, err = actx.Config.Get("executables", job.executable); err != nil {
				return err
			}
		} else {
			v := actx.Config.Find("executables", job.executable)
			if !v.Found {
				continue
			}
			exe = v.Raw
		}

		output, err := actx.Registry.DeclareOutput(actx.Ifos, actx.Span,
			opts.OutputDir, job.extension, job.label, actx.BaseTags(), nil)
		if err != nil {
			return err
		}

		node := &model.JobNode{
			Kind:       job.executable,
			Executable: exe,
			Outputs:    []model.ArtifactHandle{output},
			Tags:       append([]string(nil), output.Tags...),
			Arguments: []model.Argument{
				{Flag: "--plots-dir", Value: opts.OutputDir},
				{Flag: "--output-file", File: &output},
			},
		}
		if err := wf.Finalization.AddNode(node); err != nil {
			return err
		}
	}
	return nil
}
