package builder

// InputKind identifies one of the external result files a job may
// consume.
type InputKind int

const (
	InputTrigger InputKind = iota
	InputVetoFiles
	InputSegmentFiles
	InputOnsource
	InputInjFound
	InputInjMissed
	InputSkyPoints
)

// InputSpec pairs an input kind with the command-line flag it is
// attached under.
type InputSpec struct {
	Kind InputKind
	Flag string
}

// OutputSpec declares one output artifact of a job kind: extension,
// the option name it is passed under, and extra tags appended after
// the request tags. The first spec of a recipe is the primary output.
type OutputSpec struct {
	Extension string
	Flag      string
	ExtraTags []string
}

// Recipe is the fixed, data-driven description of a job kind. The
// builder is one generic interpreter over recipes; no per-kind code.
type Recipe struct {
	Kind Kind

	// Executable is the option under [executables] naming the program.
	Executable string

	// SharedSection is the configuration section whose options are
	// copied verbatim onto the command line, with tag refinements.
	SharedSection string

	// TagFields names the required leading tags, in the exact order
	// the naming convention expects. Requests with fewer tags fail
	// before any positional indexing happens.
	TagFields []string

	Inputs  []InputSpec
	Outputs []OutputSpec

	// InjectionVariants makes the builder emit a with-injections node
	// alongside the without-injections one whenever the request names
	// an injection set.
	InjectionVariants bool

	// RequiresInjectionSet marks kinds that only make sense against an
	// injection set (found/missed inputs are mandatory).
	RequiresInjectionSet bool

	// ZoomTag, when present in the request tags, adds --zoom-in.
	ZoomTag string

	// AxisLogFlags enables --log-x/--log-y when the corresponding
	// option exists for the tag combination in the shared section.
	AxisLogFlags bool
}

var recipes = map[Kind]Recipe{
	KindChisqVeto: {
		Kind:          KindChisqVeto,
		Executable:    "plot_chisq_veto",
		SharedSection: "plot_chisq_veto",
		TagFields:     []string{"veto-quantity"},
		Inputs: []InputSpec{
			{Kind: InputTrigger, Flag: "--trig-file"},
			{Kind: InputVetoFiles, Flag: "--veto-files"},
		},
		Outputs:           []OutputSpec{{Extension: "png", Flag: "--output-file"}},
		InjectionVariants: true,
		AxisLogFlags:      true,
	},
	KindCohIfoSNR: {
		Kind:          KindCohIfoSNR,
		Executable:    "plot_coh_ifosnr",
		SharedSection: "plot_coh_ifosnr",
		Inputs: []InputSpec{
			{Kind: InputTrigger, Flag: "--trig-file"},
			{Kind: InputVetoFiles, Flag: "--veto-files"},
		},
		Outputs:           []OutputSpec{{Extension: "png", Flag: "--output-file"}},
		InjectionVariants: true,
		ZoomTag:           "ZOOM",
	},
	KindNullStats: {
		Kind:          KindNullStats,
		Executable:    "plot_null_stats",
		SharedSection: "plot_null_stats",
		TagFields:     []string{"statistic"},
		Inputs: []InputSpec{
			{Kind: InputTrigger, Flag: "--trig-file"},
			{Kind: InputVetoFiles, Flag: "--veto-files"},
		},
		Outputs:           []OutputSpec{{Extension: "png", Flag: "--output-file"}},
		InjectionVariants: true,
	},
	KindSNRTimeseries: {
		Kind:          KindSNRTimeseries,
		Executable:    "plot_snr_timeseries",
		SharedSection: "plot_snr_timeseries",
		TagFields:     []string{"snr-type"},
		Inputs: []InputSpec{
			{Kind: InputTrigger, Flag: "--trig-file"},
			{Kind: InputVetoFiles, Flag: "--veto-files"},
			{Kind: InputSegmentFiles, Flag: "--seg-files"},
		},
		Outputs:           []OutputSpec{{Extension: "png", Flag: "--output-file"}},
		InjectionVariants: true,
		ZoomTag:           "ZOOM",
	},
	KindSkyGrid: {
		Kind:          KindSkyGrid,
		Executable:    "plot_skygrid",
		SharedSection: "plot_skygrid",
		Inputs: []InputSpec{
			{Kind: InputTrigger, Flag: "--trig-file"},
			{Kind: InputSegmentFiles, Flag: "--seg-files"},
			{Kind: InputSkyPoints, Flag: "--sky-points-file"},
		},
		Outputs: []OutputSpec{{Extension: "png", Flag: "--output-file"}},
	},
	KindInjResults: {
		Kind:          KindInjResults,
		Executable:    "plot_injection_results",
		SharedSection: "plot_injection_results",
		TagFields:     []string{"y-quantity", "x-quantity", "direction"},
		Inputs: []InputSpec{
			{Kind: InputTrigger, Flag: "--trig-file"},
			{Kind: InputInjFound, Flag: "--found-file"},
			{Kind: InputInjMissed, Flag: "--missed-file"},
			{Kind: InputVetoFiles, Flag: "--veto-files"},
		},
		Outputs:              []OutputSpec{{Extension: "png", Flag: "--output-file"}},
		RequiresInjectionSet: true,
		AxisLogFlags:         true,
	},
	KindEfficiency: {
		Kind:          KindEfficiency,
		Executable:    "efficiency",
		SharedSection: "efficiency",
		Inputs: []InputSpec{
			{Kind: InputTrigger, Flag: "--trig-file"},
			{Kind: InputOnsource, Flag: "--onsource-file"},
			{Kind: InputInjFound, Flag: "--found-file"},
			{Kind: InputInjMissed, Flag: "--missed-file"},
			{Kind: InputSegmentFiles, Flag: "--seg-files"},
		},
		Outputs: []OutputSpec{
			{Extension: "png", Flag: "--output-file", ExtraTags: []string{"EFF"}},
			{Extension: "json", Flag: "--results-file", ExtraTags: []string{"EFF", "DATA"}},
		},
		RequiresInjectionSet: true,
	},
	KindResultsTable: {
		Kind:          KindResultsTable,
		Executable:    "page_tables",
		SharedSection: "page_tables",
		TagFields:     []string{"table-type"},
		Inputs: []InputSpec{
			{Kind: InputTrigger, Flag: "--trig-file"},
			{Kind: InputOnsource, Flag: "--onsource-file"},
			{Kind: InputVetoFiles, Flag: "--veto-files"},
			{Kind: InputSegmentFiles, Flag: "--seg-files"},
		},
		Outputs: []OutputSpec{{Extension: "html", Flag: "--output-file"}},
	},
}

// RecipeFor returns the recipe of a job kind.
func RecipeFor(k Kind) (Recipe, bool) {
	r, ok := recipes[k]
	return r, ok
}
