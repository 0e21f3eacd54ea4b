// Package layout groups produced artifacts into page-layout buckets
// for downstream result-page rendering. Buckets carry no dependency or
// scheduling meaning; they only shape presentation.
package layout

import (
	"sort"

	"github.com/gwburst/grbflow/internal/model"
)

// Arrangement selects how a bucket's entries are presented.
type Arrangement string

const (
	ArrangeSingle    Arrangement = "single"
	ArrangeTwoColumn Arrangement = "two-column"
	ArrangeGrouped   Arrangement = "grouped"
)

// Entry is one presentation row: a group of artifacts shown together.
type Entry struct {
	Arrangement Arrangement
	Files       []model.ArtifactHandle
}

// Accumulator collects entries per named output bucket.
type Accumulator struct {
	buckets map[string][]Entry
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{buckets: make(map[string][]Entry)}
}

// Single appends each handle as its own full-width entry. Empty input
// is fine: optional sections may contribute nothing.
func (a *Accumulator) Single(bucket string, handles []model.ArtifactHandle) {
	for _, h := range handles {
		a.append(bucket, Entry{Arrangement: ArrangeSingle, Files: []model.ArtifactHandle{h}})
	}
}

// TwoColumn appends rows of handles rendered side by side.
func (a *Accumulator) TwoColumn(bucket string, rows [][]model.ArtifactHandle) {
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		a.append(bucket, Entry{Arrangement: ArrangeTwoColumn, Files: append([]model.ArtifactHandle(nil), row...)})
	}
}

// Grouped appends whole groups of related handles as one entry each.
func (a *Accumulator) Grouped(bucket string, groups [][]model.ArtifactHandle) {
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		a.append(bucket, Entry{Arrangement: ArrangeGrouped, Files: append([]model.ArtifactHandle(nil), group...)})
	}
}

func (a *Accumulator) append(bucket string, entry Entry) {
	a.buckets[bucket] = append(a.buckets[bucket], entry)
}

// Buckets returns the bucket names in sorted order.
func (a *Accumulator) Buckets() []string {
	names := make([]string, 0, len(a.buckets))
	for name := range a.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the accumulated entries of one bucket in insertion
// order.
func (a *Accumulator) Entries(bucket string) []Entry {
	return a.buckets[bucket]
}

// Len returns the total number of entries across all buckets.
func (a *Accumulator) Len() int {
	total := 0
	for _, entries := range a.buckets {
		total += len(entries)
	}
	return total
}
