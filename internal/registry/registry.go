// Package registry tracks every artifact produced or consumed during
// workflow assembly. Output names are deterministic functions of
// instrument set, time span, extension and tag sequence; the registry
// enforces uniqueness of that namespace across the whole assembly run.
package registry

import (
	"github.com/gwburst/grbflow/internal/config"
	"github.com/gwburst/grbflow/internal/model"
)

// Registry is the single-writer artifact ledger of one assembly run.
type Registry struct {
	cfg  *config.Store
	seq  int
	byID map[string]int // artifact name -> declaration sequence
}

// New creates an empty registry backed by the configuration store.
func New(cfg *config.Store) *Registry {
	return &Registry{
		cfg:  cfg,
		byID: make(map[string]int),
	}
}

func (r *Registry) record(name string) int {
	r.seq++
	r.byID[name] = r.seq
	return r.seq
}

// SequenceOf returns the declaration order index of an artifact name,
// and whether the artifact is known at all.
func (r *Registry) SequenceOf(name string) (int, bool) {
	seq, ok := r.byID[name]
	return seq, ok
}

// Count returns the number of registered artifacts.
func (r *Registry) Count() int {
	return len(r.byID)
}

// ResolveExternal looks up a path-valued configuration entry and wraps
// it as an immutable input handle. A missing section/option is a
// ConfigurationError.
func (r *Registry) ResolveExternal(section, option string, ifos []string, span model.Segment, tags []string) (model.ArtifactHandle, error) {
	path, err := r.cfg.Get(section, option)
	if err != nil {
		return model.ArtifactHandle{}, err
	}
	return r.ResolvePath(path, ifos, span, tags), nil
}

// ResolveExternalList resolves a whitespace-separated list of paths
// from one configuration entry, one handle per path.
func (r *Registry) ResolveExternalList(section, option string, ifos []string, span model.Segment, tags []string) ([]model.ArtifactHandle, error) {
	paths, err := r.cfg.GetList(section, option)
	if err != nil {
		return nil, err
	}
	handles := make([]model.ArtifactHandle, 0, len(paths))
	for _, path := range paths {
		handles = append(handles, r.ResolvePath(path, ifos, span, tags))
	}
	return handles, nil
}

// ResolvePath wraps a known path as an external input handle and
// records it so downstream jobs may reference it.
func (r *Registry) ResolvePath(path string, ifos []string, span model.Segment, tags []string) model.ArtifactHandle {
	handle := model.ExternalArtifact(path, ifos, span, tags)
	if _, seen := r.byID[handle.Name()]; !seen {
		r.record(handle.Name())
	}
	return handle
}

// DeclareOutput builds a new output handle from the job's instrument
// set and span, the given extension, the producing job's label, and
// the concatenation of the job's base tags with caller-supplied extra
// tags. Two declarations with identical attributes are a naming
// collision and are rejected.
func (r *Registry) DeclareOutput(ifos []string, span model.Segment, dir, extension, label string, baseTags, extraTags []string) (model.ArtifactHandle, error) {
	tags := make([]string, 0, len(baseTags)+len(extraTags))
	tags = append(tags, baseTags...)
	tags = append(tags, extraTags...)

	handle := model.NewArtifact(ifos, span, extension, dir, label, tags)
	name := handle.Name()
	if _, exists := r.byID[name]; exists {
		return model.ArtifactHandle{}, &NamingCollisionError{Name: name, Tags: tags}
	}
	r.record(name)
	return handle, nil
}
