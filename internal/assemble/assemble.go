// Package assemble orchestrates workflow construction: it derives job
// requests from the configuration, drives the job builder section by
// section, groups outputs for page layout, and hands back the composed
// workflow ready for verification and serialization.
package assemble

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gwburst/grbflow/internal/builder"
	"github.com/gwburst/grbflow/internal/composer"
	"github.com/gwburst/grbflow/internal/config"
	"github.com/gwburst/grbflow/internal/ctxlog"
	"github.com/gwburst/grbflow/internal/layout"
	"github.com/gwburst/grbflow/internal/model"
	"github.com/gwburst/grbflow/internal/registry"
)

// Options control where assembly output lands.
type Options struct {
	OutputDir string
}

// Result bundles the composed workflow with the layout accumulated for
// downstream page rendering.
type Result struct {
	Workflow *composer.Workflow
	Layout   *layout.Accumulator
	Context  *builder.AssemblyContext
}

// defaultSigmaSys is the Fermi GBM systematic folded into the sky
// patch radius.
const defaultSigmaSys = 6.8359

// SkyGridScale computes the 3-sigma search patch radius from the
// reported sky error and the systematic term. The default systematic
// is the caller's decision: a configured zero means zero.
func SkyGridScale(skyError, sigmaSys float64) float64 {
	return 1.65 * math.Sqrt(skyError*skyError+sigmaSys*sigmaSys)
}

// SetAnalysisBounds stamps the analysis boundaries back into the live
// configuration view in canonical form.
func SetAnalysisBounds(cfg *config.Store, start, end int64) {
	cfg.Set("workflow", "start-time", strconv.FormatInt(start, 10))
	cfg.Set("workflow", "end-time", strconv.FormatInt(end, 10))
}

// Assemble builds the complete post-processing workflow from the
// configuration. Construction is single-threaded and fail-fast: the
// first configuration fault aborts with no partial graph considered
// valid.
func Assemble(ctx context.Context, cfg *config.Store, opts Options) (*Result, error) {
	log := ctxlog.FromContext(ctx)

	grbName, err := cfg.Get("workflow", "trigger-name")
	if err != nil {
		return nil, err
	}
	start, err := cfg.GetInt("workflow", "start-time")
	if err != nil {
		return nil, err
	}
	end, err := cfg.GetInt("workflow", "end-time")
	if err != nil {
		return nil, err
	}
	ifos, err := cfg.GetList("workflow", "ifos")
	if err != nil {
		return nil, err
	}
	SetAnalysisBounds(cfg, start, end)

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	reg := registry.New(cfg)
	wf := composer.New("pygrb-postprocessing-GRB"+grbName, reg, log)
	actx := &builder.AssemblyContext{
		Config:   cfg,
		Registry: reg,
		Graph:    wf.Main,
		Layout:   layout.NewAccumulator(),
		Log:      log,
		GRBName:  grbName,
		Ifos:     ifos,
		Span:     model.Segment{Start: start, End: end},
	}

	triggerInfoPath, err := writeTriggerInfo(cfg, opts.OutputDir)
	if err != nil {
		return nil, err
	}
	triggerInfoHandle := reg.ResolvePath(triggerInfoPath, ifos, actx.Span, actx.BaseTags())

	injectionSets := cfg.FindList("workflow", "injection-sets")

	if err := buildResultTables(actx, opts); err != nil {
		return nil, err
	}
	if err := buildTriggerPlots(actx, opts, injectionSets); err != nil {
		return nil, err
	}
	if err := buildSkyGrid(actx, opts); err != nil {
		return nil, err
	}
	if err := buildInjectionSections(actx, opts, injectionSets); err != nil {
		return nil, err
	}
	if err := SetupMinifollowups(ctx, actx, wf, triggerInfoHandle, opts); err != nil {
		return nil, err
	}
	if err := buildFinalization(actx, wf, opts); err != nil {
		return nil, err
	}

	return &Result{Workflow: wf, Layout: actx.Layout, Context: actx}, nil
}

// buildResultTables emits the loudest-event table jobs, one per
// configured table type.
func buildResultTables(actx *builder.AssemblyContext, opts Options) error {
	tableTypes := actx.Config.FindList("postprocessing", "table-types")
	if tableTypes == nil {
		tableTypes = []string{"ONSOURCE", "OFFSOURCE"}
	}

	var produced []model.ArtifactHandle
	for _, tableType := range tableTypes {
		nodes, err := builder.Build(actx, builder.Request{
			Kind:   builder.KindResultsTable,
			OutDir: filepath.Join(opts.OutputDir, "tables"),
			Tags:   []string{tableType},
		})
		if err != nil {
			return err
		}
		for _, n := range nodes {
			if out, ok := n.PrimaryOutput(); ok {
				produced = append(produced, out)
			}
		}
	}
	actx.Layout.Single("tables", produced)
	return nil
}

// buildTriggerPlots emits the per-trigger diagnostic plot sections:
// chisq vetoes, coherent/single-ifo SNR, null statistics and SNR time
// series. Tag combinations come from the postprocessing section; a
// combination is a comma-joined tag sequence.
func buildTriggerPlots(actx *builder.AssemblyContext, opts Options, injectionSets []string) error {
	primarySet := ""
	if len(injectionSets) > 0 {
		primarySet = injectionSets[0]
	}

	sections := []struct {
		kind     builder.Kind
		option   string
		bucket   string
		defaults []string
	}{
		{builder.KindChisqVeto, "chisq-veto-plots", "chisq_veto", []string{"COHERENT"}},
		{builder.KindNullStats, "null-stats-plots", "null_stats", []string{"NULLSTAT", "OVERWHITENED"}},
		{builder.KindSNRTimeseries, "snr-timeseries-plots", "snr_timeseries", []string{"COHERENT", "COHERENT,ZOOM"}},
	}

	for _, section := range sections {
		configured := actx.Config.FindList("postprocessing", section.option)
		if configured == nil {
			configured = section.defaults
		}
		combos := tagCombos(configured)
		var produced []model.ArtifactHandle
		for _, combo := range combos {
			nodes, err := buildForAllSets(actx, builder.Request{
				Kind:   section.kind,
				OutDir: filepath.Join(opts.OutputDir, section.bucket),
				Tags:   combo,
			}, injectionSets)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				if out, ok := n.PrimaryOutput(); ok {
					produced = append(produced, out)
				}
			}
		}
		actx.Layout.Single(section.bucket, produced)
	}

	// Coherent vs single-ifo SNR: one plot per instrument, shown as
	// two-column rows.
	var rows [][]model.ArtifactHandle
	for _, ifo := range actx.Ifos {
		nodes, err := builder.Build(actx, builder.Request{
			Kind:         builder.KindCohIfoSNR,
			OutDir:       filepath.Join(opts.OutputDir, "coh_ifosnr"),
			IfoFilter:    ifo,
			InjectionSet: primarySet,
		})
		if err != nil {
			return err
		}
		var row []model.ArtifactHandle
		for _, n := range nodes {
			if out, ok := n.PrimaryOutput(); ok {
				row = append(row, out)
			}
		}
		rows = append(rows, row)
	}
	actx.Layout.TwoColumn("coh_ifosnr", rows)
	return nil
}

// buildForAllSets replays an injection-variant request across every
// configured injection set; only the first set carries the
// without-injections node.
func buildForAllSets(actx *builder.AssemblyContext, req builder.Request, injectionSets []string) ([]*model.JobNode, error) {
	if len(injectionSets) == 0 {
		nodes, err := builder.Build(actx, req)
		return nodes, err
	}

	var all []*model.JobNode
	for i, injSet := range injectionSets {
		r := req
		r.InjectionSet = injSet
		r.InjectionOnly = i > 0
		nodes, err := builder.Build(actx, r)
		if err != nil {
			return nil, err
		}
		all = append(all, nodes...)
	}
	return all, nil
}

// buildSkyGrid emits the search-grid plot when configured. The whole
// section is optional: absence is a skip, not an error.
func buildSkyGrid(actx *builder.AssemblyContext, opts Options) error {
	if !actx.Config.HasSection("plot_skygrid") {
		actx.Log.Info("sky grid section not configured, skipping", "section", "plot_skygrid")
		return nil
	}

	if v := actx.Config.Find("plot_skygrid", "sky-error"); v.Found {
		skyError, err := actx.Config.GetFloat("plot_skygrid", "sky-error")
		if err != nil {
			return err
		}
		sigmaSys := defaultSigmaSys
		if actx.Config.Find("plot_skygrid", "sigma-sys").Found {
			if sigmaSys, err = actx.Config.GetFloat("plot_skygrid", "sigma-sys"); err != nil {
				return err
			}
		}
		scaled := SkyGridScale(skyError, sigmaSys)
		actx.Config.Set("plot_skygrid", "scaled-sky-error",
			strconv.FormatFloat(scaled, 'f', 4, 64))
	}

	nodes, err := builder.Build(actx, builder.Request{
		Kind:   builder.KindSkyGrid,
		OutDir: filepath.Join(opts.OutputDir, "skygrid"),
	})
	if err != nil {
		return err
	}
	var produced []model.ArtifactHandle
	for _, n := range nodes {
		if out, ok := n.PrimaryOutput(); ok {
			produced = append(produced, out)
		}
	}
	actx.Layout.Single("skygrid", produced)
	return nil
}

// buildInjectionSections emits, per injection set, the found/missed
// results plots and the efficiency job.
func buildInjectionSections(actx *builder.AssemblyContext, opts Options, injectionSets []string) error {
	configured := actx.Config.FindList("postprocessing", "injection-results-plots")
	if configured == nil {
		configured = []string{"FC_DIST,MCHIRP,FOUND", "FC_DIST,MCHIRP,MISSED"}
	}
	combos := tagCombos(configured)

	for _, injSet := range injectionSets {
		bucket := "injections-" + strings.ToLower(injSet)
		var group []model.ArtifactHandle

		for _, combo := range combos {
			nodes, err := builder.Build(actx, builder.Request{
				Kind:         builder.KindInjResults,
				OutDir:       filepath.Join(opts.OutputDir, bucket),
				InjectionSet: injSet,
				Tags:         combo,
			})
			if err != nil {
				return err
			}
			for _, n := range nodes {
				if out, ok := n.PrimaryOutput(); ok {
					group = append(group, out)
				}
			}
		}

		effNodes, err := builder.Build(actx, builder.Request{
			Kind:         builder.KindEfficiency,
			OutDir:       filepath.Join(opts.OutputDir, bucket),
			InjectionSet: injSet,
		})
		if err != nil {
			return err
		}
		for _, n := range effNodes {
			if out, ok := n.PrimaryOutput(); ok {
				group = append(group, out)
			}
		}

		actx.Layout.Grouped(bucket, [][]model.ArtifactHandle{group})
	}
	return nil
}

// tagCombos parses configured plot combinations: each list element is
// a comma-joined tag sequence. An absent option yields one empty
// combination so the section still produces its default plot set.
func tagCombos(raw []string) [][]string {
	if len(raw) == 0 {
		return [][]string{nil}
	}
	combos := make([][]string, 0, len(raw))
	for _, entry := range raw {
		combos = append(combos, strings.Split(entry, ","))
	}
	return combos
}
