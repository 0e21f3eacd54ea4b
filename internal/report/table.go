// Package report renders the fixed-field GRB summary table as a
// standalone HTML page.
package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gwburst/grbflow/internal/antenna"
)

// Summary holds the single row of the GRB information table. The
// trigger name is optional; an unnamed trigger still gets its full
// table.
type Summary struct {
	TriggerName string
	TriggerTime int64 `validate:"required,gt=0"`
	RA          float64  `validate:"gte=0,lt=360"`
	Dec         float64  `validate:"gte=-90,lte=90"`
	Ifos        []string `validate:"required,min=1,dive,len=2"`

	UTC     string
	Antenna []AntennaCell
}

// AntennaCell is one per-interferometer antenna-factor column.
type AntennaCell struct {
	Ifo    string
	Factor float64
}

var validate = validator.New()

// Validate checks the summary's field constraints.
func (s *Summary) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid summary request: %w", err)
	}
	return nil
}

// NewSummary derives the full table row from the raw request: UTC date
// from GPS time and one antenna factor per interferometer.
func NewSummary(triggerName string, triggerTime int64, ra, dec float64, ifos []string) (*Summary, error) {
	s := &Summary{
		TriggerName: triggerName,
		TriggerTime: triggerTime,
		RA:          ra,
		Dec:         dec,
		Ifos:        ifos,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	s.UTC = antenna.GPSToUTC(triggerTime).Format(time.RFC1123)

	raRad := ra * degToRad
	decRad := dec * degToRad
	for _, ifo := range ifos {
		factor, err := antenna.Factor(ifo, raRad, decRad, triggerTime)
		if err != nil {
			return nil, err
		}
		s.Antenna = append(s.Antenna, AntennaCell{Ifo: ifo, Factor: factor})
	}
	return s, nil
}

const degToRad = 0.017453292519943295

// IfoList renders the instrument column value.
func (s *Summary) IfoList() string {
	return strings.Join(s.Ifos, ", ")
}

var tableTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head>
<title>GRB{{.TriggerName}} summary</title>
</head>
<body>
<h2>GRB{{.TriggerName}}</h2>
<table id="grb-summary" border="1">
<tr>
<th>GPS Time</th>
<th>Date (UTC)</th>
<th>RA (deg)</th>
<th>Dec (deg)</th>
<th>IFOs</th>
{{- range .Antenna}}
<th>{{.Ifo}} antenna factor</th>
{{- end}}
</tr>
<tr>
<td>{{.TriggerTime}}</td>
<td>{{.UTC}}</td>
<td>{{printf "%.4f" .RA}}</td>
<td>{{printf "%.4f" .Dec}}</td>
<td>{{.IfoList}}</td>
{{- range .Antenna}}
<td>{{printf "%.3f" .Factor}}</td>
{{- end}}
</tr>
</table>
</body>
</html>
`))

// Render writes the summary page.
func Render(w io.Writer, s *Summary) error {
	if err := tableTemplate.Execute(w, s); err != nil {
		return fmt.Errorf("failed to render summary table: %w", err)
	}
	return nil
}
