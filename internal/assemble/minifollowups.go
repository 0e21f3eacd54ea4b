package assemble

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gwburst/grbflow/internal/builder"
	"github.com/gwburst/grbflow/internal/composer"
	"github.com/gwburst/grbflow/internal/ctxlog"
	"github.com/gwburst/grbflow/internal/model"
)

// minifollowupSection enables the nested followup workflow.
const minifollowupSection = "workflow-minifollowups"

// SetupMinifollowups creates the nested sub-workflow examining the
// top-ranked triggers in detail. When the enabling section is absent
// the call is a no-op: no sub-graph, no nodes, no output artifacts.
func SetupMinifollowups(ctx context.Context, actx *builder.AssemblyContext, wf *composer.Workflow, anchor model.ArtifactHandle, opts Options) error {
	log := ctxlog.FromContext(ctx)

	if !actx.Config.HasSection(minifollowupSection) {
		log.Info("minifollowups are not configured, skipping",
			"section", minifollowupSection)
		return nil
	}

	numEvents := int64(10)
	if actx.Config.Find(minifollowupSection, "num-events").Found {
		var err error
		if numEvents, err = actx.Config.GetInt(minifollowupSection, "num-events"); err != nil {
			return err
		}
	}

	name := "minifollowups-GRB" + actx.GRBName
	outDir := filepath.Join(opts.OutputDir, "minifollowups")
	planPath := filepath.Join(outDir, name+".json")

	sub, err := wf.AddSubWorkflow(name, planPath, anchor)
	if err != nil {
		return err
	}
	subCtx := actx.WithGraph(sub.Graph)

	var groups [][]model.ArtifactHandle
	for event := int64(1); event <= numEvents; event++ {
		nodes, err := builder.Build(subCtx, builder.Request{
			Kind:   builder.KindSNRTimeseries,
			OutDir: outDir,
			Tags:   []string{"COHERENT", fmt.Sprintf("LOUDEST_EVENT_%d", event), "ZOOM"},
		})
		if err != nil {
			return err
		}
		var group []model.ArtifactHandle
		for _, n := range nodes {
			if out, ok := n.PrimaryOutput(); ok {
				group = append(group, out)
			}
		}
		groups = append(groups, group)
	}
	actx.Layout.Grouped("minifollowups", groups)

	log.Info("minifollowup sub-workflow planned",
		"id", sub.ID, "events", numEvents)
	return nil
}
