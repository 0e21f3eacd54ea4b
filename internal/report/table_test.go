package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSummary_DerivesFields(t *testing.T) {
	s, err := NewSummary("170817", 1187008882, 197.4500, -23.3815, []string{"H1", "L1", "V1"})
	require.NoError(t, err)

	assert.Contains(t, s.UTC, "17 Aug 2017")
	require.Len(t, s.Antenna, 3)
	for _, cell := range s.Antenna {
		assert.Greater(t, cell.Factor, 0.0)
		assert.LessOrEqual(t, cell.Factor, 1.0+1e-9)
	}
	assert.Equal(t, "H1, L1, V1", s.IfoList())
}

func TestNewSummary_Rejections(t *testing.T) {
	cases := []struct {
		name string
		call func() (*Summary, error)
	}{
		{"RA out of range", func() (*Summary, error) {
			return NewSummary("1", 100, 400, 0, []string{"H1"})
		}},
		{"Dec out of range", func() (*Summary, error) {
			return NewSummary("1", 100, 0, -95, []string{"H1"})
		}},
		{"no ifos", func() (*Summary, error) {
			return NewSummary("1", 100, 0, 0, nil)
		}},
		{"bad ifo length", func() (*Summary, error) {
			return NewSummary("1", 100, 0, 0, []string{"HANFORD"})
		}},
		{"zero trigger time", func() (*Summary, error) {
			return NewSummary("1", 0, 0, 0, []string{"H1"})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.call()
			assert.Error(t, err)
		})
	}
}

func TestNewSummary_NameIsOptional(t *testing.T) {
	s, err := NewSummary("", 1187008882, 197.45, -23.3815, []string{"H1"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("table#grb-summary").Length())
}

func TestNewSummary_UnknownIfo(t *testing.T) {
	_, err := NewSummary("1", 100, 0, 0, []string{"X9"})
	assert.Error(t, err)
}

func TestRender_TableContents(t *testing.T) {
	s, err := NewSummary("170817", 1187008882, 197.4500, -23.3815, []string{"H1", "L1"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	table := doc.Find("table#grb-summary")
	require.Equal(t, 1, table.Length())

	headers := table.Find("th").Map(func(_ int, sel *goquery.Selection) string {
		return strings.TrimSpace(sel.Text())
	})
	assert.Equal(t, []string{
		"GPS Time", "Date (UTC)", "RA (deg)", "Dec (deg)", "IFOs",
		"H1 antenna factor", "L1 antenna factor",
	}, headers)

	cells := table.Find("td").Map(func(_ int, sel *goquery.Selection) string {
		return strings.TrimSpace(sel.Text())
	})
	require.Len(t, cells, 7)
	assert.Equal(t, "1187008882", cells[0])
	assert.Contains(t, cells[1], "2017")
	assert.Equal(t, "197.4500", cells[2])
	assert.Equal(t, "-23.3815", cells[3])
	assert.Equal(t, "H1, L1", cells[4])
}
