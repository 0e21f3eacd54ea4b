package builder

import "fmt"

// Kind is the closed enumeration of job kinds the builder understands.
// Each kind selects an external executable and a recipe describing how
// its command line, inputs and outputs are put together.
type Kind int

const (
	KindChisqVeto Kind = iota
	KindCohIfoSNR
	KindNullStats
	KindSNRTimeseries
	KindSkyGrid
	KindInjResults
	KindEfficiency
	KindResultsTable
)

var kindNames = map[Kind]string{
	KindChisqVeto:     "plot_chisq_veto",
	KindCohIfoSNR:     "plot_coh_ifosnr",
	KindNullStats:     "plot_null_stats",
	KindSNRTimeseries: "plot_snr_timeseries",
	KindSkyGrid:       "plot_skygrid",
	KindInjResults:    "plot_injection_results",
	KindEfficiency:    "efficiency",
	KindResultsTable:  "page_tables",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// Kinds returns all job kinds in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindChisqVeto,
		KindCohIfoSNR,
		KindNullStats,
		KindSNRTimeseries,
		KindSkyGrid,
		KindInjResults,
		KindEfficiency,
		KindResultsTable,
	}
}
