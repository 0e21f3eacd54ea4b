package assemble

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gwburst/grbflow/internal/config"
)

func minimalSections() map[string]map[string]string {
	return map[string]map[string]string{
		"workflow": {
			"trigger-name": "170817",
			"trigger-time": "1187008882",
			"start-time":   "1187008877",
			"end-time":     "1187008887",
			"ifos":         "H1 L1",
		},
		"executables": {
			"page_tables":         "/usr/bin/page_tables",
			"plot_chisq_veto":     "/usr/bin/plot_chisq_veto",
			"plot_null_stats":     "/usr/bin/plot_null_stats",
			"plot_snr_timeseries": "/usr/bin/plot_snr_timeseries",
			"plot_coh_ifosnr":     "/usr/bin/plot_coh_ifosnr",
			"results_page":        "/usr/bin/results_page",
		},
		"input": {
			"trig-file":     "/data/H1L1-TRIGGERS.xml.gz",
			"onsource-file": "/data/H1L1-ONSOURCE.xml.gz",
			"veto-files":    "/data/H1-VETO.xml /data/L1-VETO.xml",
			"seg-files":     "/data/H1-SEGS.xml /data/L1-SEGS.xml",
		},
	}
}

func injectionSections() map[string]map[string]string {
	sections := minimalSections()
	sections["workflow"]["injection-sets"] = "INJ1"
	sections["executables"]["plot_injection_results"] = "/usr/bin/plot_injection_results"
	sections["executables"]["efficiency"] = "/usr/bin/efficiency"
	sections["injections"] = map[string]string{
		"found-file":  "/data/INJ1-FOUND.h5",
		"missed-file": "/data/INJ1-MISSED.h5",
	}
	return sections
}

func TestAssemble_MinimalConfig(t *testing.T) {
	cfg := config.FromSections(minimalSections())
	dir := t.TempDir()

	res, err := Assemble(context.Background(), cfg, Options{OutputDir: dir})
	require.NoError(t, err)
	require.NoError(t, res.Workflow.Verify())

	// Two tables, one chisq veto, two null stats, two SNR time series
	// and one coh/ifo SNR per instrument.
	assert.Len(t, res.Workflow.Main.Nodes(), 9)
	assert.Len(t, res.Workflow.Finalization.Nodes(), 1)
	assert.Empty(t, res.Workflow.SubWorkflows())

	assert.Equal(t, []string{
		"chisq_veto", "coh_ifosnr", "null_stats", "snr_timeseries", "tables",
	}, res.Layout.Buckets())
}

func TestAssemble_WritesTriggerInfo(t *testing.T) {
	cfg := config.FromSections(minimalSections())
	dir := t.TempDir()

	_, err := Assemble(context.Background(), cfg, Options{OutputDir: dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "triggerGRB170817.yaml"))
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, yaml.Unmarshal(data, &info))
	assert.Equal(t, "170817", info["trigger-name"])
	assert.Equal(t, 1187008882, info["trigger-time"])
	assert.Equal(t, "H1 L1", info["ifos"])
}

func TestAssemble_InjectionSections(t *testing.T) {
	cfg := config.FromSections(injectionSections())
	dir := t.TempDir()

	res, err := Assemble(context.Background(), cfg, Options{OutputDir: dir})
	require.NoError(t, err)
	require.NoError(t, res.Workflow.Verify())

	// Each injection-variant plot doubles, and the found/missed
	// results plots plus the efficiency job join in.
	assert.Len(t, res.Workflow.Main.Nodes(), 19)
	assert.Contains(t, res.Layout.Buckets(), "injections-inj1")
}

func TestAssemble_MultipleInjectionSets(t *testing.T) {
	sections := injectionSections()
	sections["workflow"]["injection-sets"] = "INJ1 INJ2"
	sections["injections-inj2"] = map[string]string{
		"found-file":  "/data/INJ2-FOUND.h5",
		"missed-file": "/data/INJ2-MISSED.h5",
	}
	cfg := config.FromSections(sections)

	res, err := Assemble(context.Background(), cfg, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, res.Workflow.Verify())
	assert.Contains(t, res.Layout.Buckets(), "injections-inj1")
	assert.Contains(t, res.Layout.Buckets(), "injections-inj2")
}

func TestAssemble_MinifollowupsAbsentIsNoOp(t *testing.T) {
	without, err := Assemble(context.Background(),
		config.FromSections(minimalSections()), Options{OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, without.Workflow.SubWorkflows())

	sections := minimalSections()
	sections["workflow-minifollowups"] = map[string]string{"num-events": "3"}
	with, err := Assemble(context.Background(),
		config.FromSections(sections), Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	subs := with.Workflow.SubWorkflows()
	require.Len(t, subs, 1)
	assert.Equal(t, "minifollowups-GRB170817", subs[0].Name)
	assert.Len(t, subs[0].Graph.Nodes(), 3)
	assert.Equal(t, without.Workflow.NodeCount()+3, with.Workflow.NodeCount())
	assert.Contains(t, with.Layout.Buckets(), "minifollowups")
}

func TestAssemble_MissingRequiredExecutable(t *testing.T) {
	sections := minimalSections()
	delete(sections["executables"], "results_page")

	_, err := Assemble(context.Background(),
		config.FromSections(sections), Options{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}

func TestAssemble_OptionalFinalizationJobs(t *testing.T) {
	sections := minimalSections()
	sections["executables"]["version_info"] = "/usr/bin/version_info"
	sections["executables"]["flush_logs"] = "/usr/bin/flush_logs"

	res, err := Assemble(context.Background(),
		config.FromSections(sections), Options{OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.Len(t, res.Workflow.Finalization.Nodes(), 3)
}

func TestAssemble_Deterministic(t *testing.T) {
	run := func(dir string) []string {
		res, err := Assemble(context.Background(),
			config.FromSections(injectionSections()), Options{OutputDir: dir})
		require.NoError(t, err)
		var names []string
		for _, n := range res.Workflow.Main.Nodes() {
			names = append(names, n.ID)
			for _, out := range n.Outputs {
				names = append(names, out.Name())
			}
		}
		return names
	}

	assert.Equal(t, run(t.TempDir()), run(t.TempDir()))
}

func TestAssemble_SkyGrid(t *testing.T) {
	sections := skyGridSections()
	sections["plot_skygrid"]["sigma-sys"] = "4"
	cfg := config.FromSections(sections)

	res, err := Assemble(context.Background(), cfg, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.Contains(t, res.Layout.Buckets(), "skygrid")

	scaled, err := cfg.Get("plot_skygrid", "scaled-sky-error")
	require.NoError(t, err)
	assert.Equal(t, "8.2500", scaled)

	// The search-grid job consumes the externally resolved sky points.
	var inputs []string
	for _, n := range res.Workflow.Main.Nodes() {
		if n.Kind != "plot_skygrid" {
			continue
		}
		for _, in := range n.Inputs {
			inputs = append(inputs, in.Path())
		}
	}
	assert.Contains(t, inputs, "/data/SKY_POINTS.txt")
}

func skyGridSections() map[string]map[string]string {
	sections := minimalSections()
	sections["executables"]["plot_skygrid"] = "/usr/bin/plot_skygrid"
	sections["input"]["sky-points-file"] = "/data/SKY_POINTS.txt"
	sections["plot_skygrid"] = map[string]string{
		"sky-error": "3",
	}
	return sections
}

func TestSkyGridScale(t *testing.T) {
	assert.InDelta(t, 8.25, SkyGridScale(3, 4), 1e-12)
	assert.InDelta(t, 1.65*6.8359, SkyGridScale(0, defaultSigmaSys), 1e-9)
	assert.Zero(t, SkyGridScale(0, 0))
}

func TestAssemble_SkyGridSigmaSysZeroIsHonored(t *testing.T) {
	sections := skyGridSections()
	sections["plot_skygrid"]["sigma-sys"] = "0"
	cfg := config.FromSections(sections)

	_, err := Assemble(context.Background(), cfg, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	// 1.65 * sqrt(3^2 + 0^2), not the Fermi GBM default systematic.
	scaled, err := cfg.Get("plot_skygrid", "scaled-sky-error")
	require.NoError(t, err)
	assert.Equal(t, "4.9500", scaled)
}

func TestAssemble_SkyGridDefaultSigmaSys(t *testing.T) {
	cfg := config.FromSections(skyGridSections())

	_, err := Assemble(context.Background(), cfg, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	scaled, err := cfg.Get("plot_skygrid", "scaled-sky-error")
	require.NoError(t, err)
	assert.Equal(t, "12.3176", scaled)
}

func TestSetAnalysisBounds(t *testing.T) {
	cfg := config.FromSections(map[string]map[string]string{})
	SetAnalysisBounds(cfg, 100, 200)

	start, err := cfg.Get("workflow", "start-time")
	require.NoError(t, err)
	assert.Equal(t, "100", start)
	end, err := cfg.Get("workflow", "end-time")
	require.NoError(t, err)
	assert.Equal(t, "200", end)
}
