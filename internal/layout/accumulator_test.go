package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwburst/grbflow/internal/model"
)

func handle(tag string) model.ArtifactHandle {
	return model.NewArtifact([]string{"H1"}, model.Segment{Start: 0, End: 1},
		"png", "out", "", []string{tag})
}

func TestSingle(t *testing.T) {
	acc := NewAccumulator()
	acc.Single("tables", []model.ArtifactHandle{handle("A"), handle("B")})

	entries := acc.Entries("tables")
	require.Len(t, entries, 2)
	assert.Equal(t, ArrangeSingle, entries[0].Arrangement)
	assert.Len(t, entries[0].Files, 1)
}

func TestSingle_EmptyContributesNothing(t *testing.T) {
	acc := NewAccumulator()
	acc.Single("skygrid", nil)

	assert.Empty(t, acc.Entries("skygrid"))
	assert.Zero(t, acc.Len())
}

func TestTwoColumn_SkipsEmptyRows(t *testing.T) {
	acc := NewAccumulator()
	acc.TwoColumn("coh_ifosnr", [][]model.ArtifactHandle{
		{handle("H1"), handle("H1-INJ")},
		{},
		{handle("L1")},
	})

	entries := acc.Entries("coh_ifosnr")
	require.Len(t, entries, 2)
	assert.Equal(t, ArrangeTwoColumn, entries[0].Arrangement)
	assert.Len(t, entries[0].Files, 2)
}

func TestGrouped_SkipsEmptyGroups(t *testing.T) {
	acc := NewAccumulator()
	acc.Grouped("injections", [][]model.ArtifactHandle{
		{handle("FOUND"), handle("MISSED")},
		nil,
	})

	entries := acc.Entries("injections")
	require.Len(t, entries, 1)
	assert.Equal(t, ArrangeGrouped, entries[0].Arrangement)
}

func TestBuckets_Sorted(t *testing.T) {
	acc := NewAccumulator()
	acc.Single("tables", []model.ArtifactHandle{handle("A")})
	acc.Single("chisq_veto", []model.ArtifactHandle{handle("B")})
	acc.Single("skygrid", []model.ArtifactHandle{handle("C")})

	assert.Equal(t, []string{"chisq_veto", "skygrid", "tables"}, acc.Buckets())
	assert.Equal(t, 3, acc.Len())
}
