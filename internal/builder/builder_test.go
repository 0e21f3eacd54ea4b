package builder

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwburst/grbflow/internal/composer"
	"github.com/gwburst/grbflow/internal/config"
	"github.com/gwburst/grbflow/internal/layout"
	"github.com/gwburst/grbflow/internal/model"
	"github.com/gwburst/grbflow/internal/registry"
)

func testSections() map[string]map[string]string {
	return map[string]map[string]string{
		"executables": {
			"plot_chisq_veto":        "/usr/bin/plot_chisq_veto",
			"plot_coh_ifosnr":        "/usr/bin/plot_coh_ifosnr",
			"plot_snr_timeseries":    "/usr/bin/plot_snr_timeseries",
			"plot_injection_results": "/usr/bin/plot_injection_results",
			"efficiency":             "/usr/bin/efficiency",
		},
		"input": {
			"trig-file":     "/data/H1L1-TRIGGERS.xml.gz",
			"onsource-file": "/data/H1L1-ONSOURCE.xml.gz",
			"veto-files":    "/data/H1-VETO.xml /data/L1-VETO.xml",
			"seg-files":     "/data/H1-SEGS.xml /data/L1-SEGS.xml",
		},
		"injections": {
			"found-file":  "/data/INJ1-FOUND.h5",
			"missed-file": "/data/INJ1-MISSED.h5",
		},
		"plot_chisq_veto": {
			"x-lims": "0,50",
			"log-y":  "",
		},
		"plot_snr_timeseries": {},
		"plot_injection_results": {
			"log-x": "",
		},
		"efficiency": {},
		"plot_coh_ifosnr": {
			"y-lims": "0,20",
		},
	}
}

func newTestContext(t *testing.T, sections map[string]map[string]string) (*AssemblyContext, *composer.Workflow) {
	t.Helper()
	cfg := config.FromSections(sections)
	reg := registry.New(cfg)
	wf := composer.New("test", reg, nil)
	return &AssemblyContext{
		Config:   cfg,
		Registry: reg,
		Graph:    wf.Main,
		Layout:   layout.NewAccumulator(),
		GRBName:  "150914",
		Ifos:     []string{"H1", "L1"},
		Span:     model.Segment{Start: 1126259460, End: 1126259466},
	}, wf
}

func TestBuild_ChisqVetoInjectionVariants(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	nodes, err := Build(actx, Request{
		Kind:         KindChisqVeto,
		OutDir:       "out",
		InjectionSet: "INJ1",
		Tags:         []string{"COHERENT"},
	})
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	for _, n := range nodes {
		require.Len(t, n.Outputs, 1)
		out := n.Outputs[0]
		assert.Equal(t, "png", out.Extension)
		assert.Equal(t, "GRB150914", out.Tags[0])
	}

	// The with-injections node carries the set tag twice: after the
	// base tag and again at the end.
	injTags := nodes[1].Outputs[0].Tags
	assert.Equal(t, []string{"GRB150914", "INJ1", "COHERENT", "INJ1"}, injTags)

	plain := nodes[0].Outputs[0].Tags
	assert.Equal(t, []string{"GRB150914", "COHERENT"}, plain)
}

func TestBuild_NoInjectionSetSingleNode(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	nodes, err := Build(actx, Request{
		Kind:   KindChisqVeto,
		OutDir: "out",
		Tags:   []string{"COHERENT"},
	})
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestBuild_InjectionOnlySuppressesPlainVariant(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	nodes, err := Build(actx, Request{
		Kind:          KindChisqVeto,
		OutDir:        "out",
		InjectionSet:  "INJ1",
		InjectionOnly: true,
		Tags:          []string{"COHERENT"},
	})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Contains(t, nodes[0].Outputs[0].Tags, "INJ1")
}

func TestBuild_TagArity(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	// Injection-results plots need three named tags; two must fail
	// with a configuration error, not an index fault.
	_, err := Build(actx, Request{
		Kind:         KindInjResults,
		OutDir:       "out",
		InjectionSet: "INJ1",
		Tags:         []string{"FC_DIST", "MCHIRP"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfiguration))

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "plot_injection_results", cfgErr.JobKind)
	assert.Contains(t, cfgErr.Error(), "direction")
}

func TestBuild_RequiresInjectionSet(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	_, err := Build(actx, Request{
		Kind:   KindEfficiency,
		OutDir: "out",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}

func TestBuild_MissingExecutable(t *testing.T) {
	sections := testSections()
	delete(sections["executables"], "plot_chisq_veto")
	actx, _ := newTestContext(t, sections)

	_, err := Build(actx, Request{Kind: KindChisqVeto, OutDir: "out", Tags: []string{"COHERENT"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}

func TestBuild_ZoomFlag(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	nodes, err := Build(actx, Request{
		Kind:   KindSNRTimeseries,
		OutDir: "out",
		Tags:   []string{"COHERENT", "ZOOM"},
	})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Contains(t, nodes[0].CommandLine(), "--zoom-in")

	noZoom, err := Build(actx, Request{
		Kind:   KindSNRTimeseries,
		OutDir: "out",
		Tags:   []string{"COHERENT"},
	})
	require.NoError(t, err)
	assert.NotContains(t, noZoom[0].CommandLine(), "--zoom-in")
}

func TestBuild_AxisLogFlags(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	nodes, err := Build(actx, Request{
		Kind:         KindInjResults,
		OutDir:       "out",
		InjectionSet: "INJ1",
		Tags:         []string{"FC_DIST", "MCHIRP", "FOUND"},
	})
	require.NoError(t, err)
	cmd := nodes[0].CommandLine()
	assert.Contains(t, cmd, "--log-x")
	assert.NotContains(t, cmd, "--log-y")

	// The raw axis options are consumed as flags, never copied with
	// their (empty) values.
	for i, arg := range cmd {
		if arg == "--log-x" && i+1 < len(cmd) {
			assert.True(t, strings.HasPrefix(cmd[i+1], "--"))
		}
	}
}

func TestBuild_IfoFilter(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	nodes, err := Build(actx, Request{
		Kind:      KindCohIfoSNR,
		OutDir:    "out",
		IfoFilter: "H1",
	})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	n := nodes[0]
	assert.Contains(t, n.CommandLine(), "--ifo")
	assert.Equal(t, []string{"H1"}, n.Outputs[0].Ifos)
	assert.True(t, strings.HasPrefix(n.Outputs[0].Name(), "H1-"))
}

func TestBuild_DeterministicNames(t *testing.T) {
	req := Request{
		Kind:         KindChisqVeto,
		OutDir:       "out",
		InjectionSet: "INJ1",
		Tags:         []string{"COHERENT"},
	}

	first, _ := newTestContext(t, testSections())
	a, err := Build(first, req)
	require.NoError(t, err)

	second, _ := newTestContext(t, testSections())
	b, err := Build(second, req)
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Outputs[0].Name(), b[i].Outputs[0].Name())
		assert.Equal(t, a[i].CommandLine(), b[i].CommandLine())
	}
}

func TestBuild_SharedOptionsSortedAndScoped(t *testing.T) {
	sections := testSections()
	sections["plot_chisq_veto-coherent"] = map[string]string{"x-lims": "0,30"}
	actx, _ := newTestContext(t, sections)

	nodes, err := Build(actx, Request{
		Kind:   KindChisqVeto,
		OutDir: "out",
		Tags:   []string{"COHERENT"},
	})
	require.NoError(t, err)

	cmd := strings.Join(nodes[0].CommandLine(), " ")
	assert.Contains(t, cmd, "--x-lims 0,30")
}

func TestBuild_PlainVariantCarriesNoInjectionTag(t *testing.T) {
	actx, _ := newTestContext(t, testSections())

	nodes, err := Build(actx, Request{
		Kind:         KindChisqVeto,
		OutDir:       "out",
		InjectionSet: "INJ1",
		Tags:         []string{"COHERENT"},
	})
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	plain := strings.Join(nodes[0].CommandLine(), " ")
	assert.NotContains(t, plain, "INJ1")
	assert.NotContains(t, nodes[0].Outputs[0].Tags, "INJ1")
}

func TestBuild_SkyGridResolvesSkyPoints(t *testing.T) {
	sections := testSections()
	sections["executables"]["plot_skygrid"] = "/usr/bin/plot_skygrid"
	sections["input"]["sky-points-file"] = "/data/SKY_POINTS.txt"
	actx, _ := newTestContext(t, sections)

	nodes, err := Build(actx, Request{Kind: KindSkyGrid, OutDir: "out"})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	cmd := strings.Join(nodes[0].CommandLine(), " ")
	assert.Contains(t, cmd, "--sky-points-file /data/SKY_POINTS.txt")

	var paths []string
	for _, in := range nodes[0].Inputs {
		paths = append(paths, in.Path())
	}
	assert.Contains(t, paths, "/data/SKY_POINTS.txt")
}

func TestBuild_SkyGridMissingSkyPoints(t *testing.T) {
	sections := testSections()
	sections["executables"]["plot_skygrid"] = "/usr/bin/plot_skygrid"
	actx, _ := newTestContext(t, sections)

	_, err := Build(actx, Request{Kind: KindSkyGrid, OutDir: "out"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}

func TestRecipes_CoverEveryKind(t *testing.T) {
	for _, kind := range Kinds() {
		recipe, ok := RecipeFor(kind)
		require.True(t, ok, "kind %s has no recipe", kind)
		assert.Equal(t, kind, recipe.Kind)
		assert.NotEmpty(t, recipe.Executable)
		assert.NotEmpty(t, recipe.Outputs, "kind %s declares no outputs", kind)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "plot_chisq_veto", KindChisqVeto.String())
	assert.Equal(t, "page_tables", KindResultsTable.String())
	assert.Contains(t, Kind(99).String(), "unknown")
}
