package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Segment is a half-open GPS time interval [Start, End).
type Segment struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// Duration returns the span length in seconds.
func (s Segment) Duration() int64 {
	return s.End - s.Start
}

// ArtifactHandle is an immutable description of one file produced or
// consumed by a job. Its name is fully determined by instrument set,
// time span, extension and tag sequence; two handles with identical
// attributes denote the same artifact.
type ArtifactHandle struct {
	Ifos      []string
	Span      Segment
	Extension string

	// Label is the description base, derived from the producing
	// executable. It leads the name's description blob, before the
	// tags, and keeps equally tagged outputs of different job kinds
	// apart.
	Label string

	Tags     []string
	Dir      string
	External bool

	// externalPath preserves the literal location of externally
	// resolved inputs, which do not follow the naming convention.
	externalPath string
}

// NewArtifact builds a handle under dir following the deterministic
// naming convention. Tags are case- and order-sensitive: they are
// positionally meaningful to downstream consumers that parse them back
// out of file names.
func NewArtifact(ifos []string, span Segment, extension, dir, label string, tags []string) ArtifactHandle {
	return ArtifactHandle{
		Ifos:      append([]string(nil), ifos...),
		Span:      span,
		Extension: extension,
		Label:     label,
		Tags:      append([]string(nil), tags...),
		Dir:       dir,
	}
}

// ExternalArtifact wraps a pre-existing path as an input-only handle.
func ExternalArtifact(path string, ifos []string, span Segment, tags []string) ArtifactHandle {
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	return ArtifactHandle{
		Ifos:         append([]string(nil), ifos...),
		Span:         span,
		Extension:    ext,
		Tags:         append([]string(nil), tags...),
		Dir:          filepath.Dir(path),
		External:     true,
		externalPath: path,
	}
}

// InstrumentString joins the ordered instrument set into the compact
// form used in file names, e.g. "H1L1V1".
func (a ArtifactHandle) InstrumentString() string {
	return strings.Join(a.Ifos, "")
}

// Description is the underscore-joined blob embedded in the name: the
// label, when present, followed by the tag sequence.
func (a ArtifactHandle) Description() string {
	if a.Label == "" {
		return strings.Join(a.Tags, "_")
	}
	return a.Label + "_" + strings.Join(a.Tags, "_")
}

// Name renders the wire-format file name:
// {instruments}-{LABEL_TAG1_TAG2_...}-{start}-{duration}.{ext}
// External handles keep their literal base name.
func (a ArtifactHandle) Name() string {
	if a.External {
		return filepath.Base(a.externalPath)
	}
	return fmt.Sprintf("%s-%s-%d-%d.%s",
		a.InstrumentString(), a.Description(), a.Span.Start, a.Span.Duration(), a.Extension)
}

// Path is the storage location of the artifact.
func (a ArtifactHandle) Path() string {
	if a.External {
		return a.externalPath
	}
	return filepath.Join(a.Dir, a.Name())
}
