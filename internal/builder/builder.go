// Package builder translates declarative "make a plot/table of kind K
// with tags T" requests into fully wired job nodes. Behaviour is table
// driven: one generic interpreter over the per-kind recipes.
package builder

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/gwburst/grbflow/internal/composer"
	"github.com/gwburst/grbflow/internal/config"
	"github.com/gwburst/grbflow/internal/layout"
	"github.com/gwburst/grbflow/internal/model"
	"github.com/gwburst/grbflow/internal/registry"
)

// AssemblyContext carries the shared state of one assembly run through
// every builder call. It is threaded explicitly; there is no ambient
// global workflow.
type AssemblyContext struct {
	Config   *config.Store
	Registry *registry.Registry
	Graph    *composer.Graph
	Layout   *layout.Accumulator
	Log      *slog.Logger

	GRBName string
	Ifos    []string
	Span    model.Segment
}

// BaseTags is the tag prefix every artifact of this run carries.
func (a *AssemblyContext) BaseTags() []string {
	return []string{"GRB" + a.GRBName}
}

// WithGraph returns a copy of the context targeting a different active
// sub-graph; used when populating nested sub-workflows.
func (a *AssemblyContext) WithGraph(g *composer.Graph) *AssemblyContext {
	clone := *a
	clone.Graph = g
	return &clone
}

// Request is one declarative job construction order.
type Request struct {
	Kind   Kind
	OutDir string

	// IfoFilter restricts the job (and its output naming) to a single
	// instrument when set.
	IfoFilter string

	// InjectionSet names the simulated-signal set the job runs
	// against. For injection-variant kinds it triggers the second,
	// with-injections node.
	InjectionSet string

	// InjectionOnly suppresses the without-injections variant. Used
	// when the same request is replayed for additional injection sets
	// whose no-injection node already exists.
	InjectionOnly bool

	// Tags fill the recipe's named tag fields in order; extra tags
	// beyond the named fields are carried through to naming.
	Tags []string
}

// Build resolves a request into one or more job nodes, appends them to
// the context's active graph, and returns them. The same request
// against the same configuration always yields the same command shape
// and the same output names.
func Build(actx *AssemblyContext, req Request) ([]*model.JobNode, error) {
	recipe, ok := RecipeFor(req.Kind)
	if !ok {
		return nil, &config.ConfigurationError{JobKind: req.Kind.String(), Detail: "no recipe for job kind"}
	}

	if err := checkTagArity(recipe, req); err != nil {
		return nil, err
	}
	if recipe.RequiresInjectionSet && req.InjectionSet == "" {
		return nil, &config.ConfigurationError{JobKind: recipe.Kind.String(),
			Detail: "an injection set is required"}
	}

	executable, err := actx.Config.Get("executables", recipe.Executable)
	if err != nil {
		return nil, err
	}

	injectionSets := []string{""}
	switch {
	case recipe.RequiresInjectionSet:
		injectionSets = []string{req.InjectionSet}
	case recipe.InjectionVariants && req.InjectionSet != "" && req.InjectionOnly:
		injectionSets = []string{req.InjectionSet}
	case recipe.InjectionVariants && req.InjectionSet != "":
		// Without-injections first, with-injections second.
		injectionSets = []string{"", req.InjectionSet}
	}

	nodes := make([]*model.JobNode, 0, len(injectionSets))
	for _, injSet := range injectionSets {
		node, err := buildOne(actx, recipe, req, executable, injSet)
		if err != nil {
			return nil, err
		}
		if err := actx.Graph.AddNode(node); err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func checkTagArity(recipe Recipe, req Request) error {
	if len(req.Tags) >= len(recipe.TagFields) {
		return nil
	}
	field := recipe.TagFields[len(req.Tags)]
	return config.TagArityError(recipe.Kind.String(), field, len(req.Tags), len(req.Tags))
}

func buildOne(actx *AssemblyContext, recipe Recipe, req Request, executable, injSet string) (*model.JobNode, error) {
	ifos := actx.Ifos
	if req.IfoFilter != "" {
		ifos = []string{req.IfoFilter}
	}

	node := &model.JobNode{
		Kind:       recipe.Kind.String(),
		Executable: executable,
	}

	// Shared tuning options, tag-scoped, in sorted key order so the
	// command shape is reproducible. Axis-log options are handled as
	// conditional flags below, not copied.
	scopeTags := req.Tags
	if injSet != "" {
		scopeTags = append(append([]string(nil), req.Tags...), injSet)
	}
	shared := actx.Config.OptionsTags(recipe.SharedSection, scopeTags)
	keys := make([]string, 0, len(shared))
	for k := range shared {
		if k == "log-x" || k == "log-y" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		node.Arguments = append(node.Arguments, model.Argument{Flag: "--" + k, Value: shared[k]})
	}

	if recipe.ZoomTag != "" && containsTag(req.Tags, recipe.ZoomTag) {
		node.Arguments = append(node.Arguments, model.Argument{Flag: "--zoom-in"})
	}
	if recipe.AxisLogFlags {
		if actx.Config.HasOptionTags(recipe.SharedSection, "log-x", scopeTags) {
			node.Arguments = append(node.Arguments, model.Argument{Flag: "--log-x"})
		}
		if actx.Config.HasOptionTags(recipe.SharedSection, "log-y", scopeTags) {
			node.Arguments = append(node.Arguments, model.Argument{Flag: "--log-y"})
		}
	}
	if req.IfoFilter != "" {
		node.Arguments = append(node.Arguments, model.Argument{Flag: "--ifo", Value: req.IfoFilter})
	}

	for _, spec := range recipe.Inputs {
		if (spec.Kind == InputInjFound || spec.Kind == InputInjMissed) && injSet == "" {
			continue
		}
		handles, arg, err := resolveInput(actx, recipe, spec, injSet)
		if err != nil {
			return nil, err
		}
		node.Inputs = append(node.Inputs, handles...)
		node.Arguments = append(node.Arguments, arg)
	}

	baseTags := actx.BaseTags()
	if injSet != "" {
		baseTags = append(baseTags, injSet)
	}
	label := strings.ToUpper(recipe.Executable)
	// Fixed capacity: argument entries hold pointers into this slice.
	node.Outputs = make([]model.ArtifactHandle, 0, len(recipe.Outputs))
	for i, spec := range recipe.Outputs {
		extraTags := make([]string, 0, len(req.Tags)+len(spec.ExtraTags)+1)
		extraTags = append(extraTags, req.Tags...)
		extraTags = append(extraTags, spec.ExtraTags...)
		if injSet != "" {
			// The injection-set tag appears both after the base tags
			// and at the end of the sequence. Downstream name parsing
			// relies on this doubled form; keep it as is.
			extraTags = append(extraTags, injSet)
		}
		handle, err := actx.Registry.DeclareOutput(ifos, actx.Span, req.OutDir, spec.Extension, label, baseTags, extraTags)
		if err != nil {
			return nil, err
		}
		node.Outputs = append(node.Outputs, handle)
		node.Arguments = append(node.Arguments, model.Argument{Flag: spec.Flag, File: &node.Outputs[i]})
		if i == 0 {
			node.Tags = append([]string(nil), handle.Tags...)
		}
	}

	return node, nil
}

func resolveInput(actx *AssemblyContext, recipe Recipe, spec InputSpec, injSet string) ([]model.ArtifactHandle, model.Argument, error) {
	span := actx.Span
	base := actx.BaseTags()

	switch spec.Kind {
	case InputTrigger:
		h, err := actx.Registry.ResolveExternal("input", "trig-file", actx.Ifos, span, base)
		if err != nil {
			return nil, model.Argument{}, err
		}
		return []model.ArtifactHandle{h}, model.Argument{Flag: spec.Flag, File: &h}, nil

	case InputOnsource:
		h, err := actx.Registry.ResolveExternal("input", "onsource-file", actx.Ifos, span, base)
		if err != nil {
			return nil, model.Argument{}, err
		}
		return []model.ArtifactHandle{h}, model.Argument{Flag: spec.Flag, File: &h}, nil

	case InputSkyPoints:
		// Search-grid points covering the reported error box.
		h, err := actx.Registry.ResolveExternal("input", "sky-points-file", actx.Ifos, span, base)
		if err != nil {
			return nil, model.Argument{}, err
		}
		return []model.ArtifactHandle{h}, model.Argument{Flag: spec.Flag, File: &h}, nil

	case InputVetoFiles:
		return resolveList(actx, spec, "veto-files")

	case InputSegmentFiles:
		return resolveList(actx, spec, "seg-files")

	case InputInjFound, InputInjMissed:
		option := "found-file"
		if spec.Kind == InputInjMissed {
			option = "missed-file"
		}
		path, err := actx.Config.GetTags("injections", option, []string{injSet})
		if err != nil {
			return nil, model.Argument{}, err
		}
		h := actx.Registry.ResolvePath(path, actx.Ifos, span, append(base, injSet))
		return []model.ArtifactHandle{h}, model.Argument{Flag: spec.Flag, File: &h}, nil
	}

	return nil, model.Argument{}, &config.ConfigurationError{JobKind: recipe.Kind.String(),
		Detail: "unknown input kind"}
}

func resolveList(actx *AssemblyContext, spec InputSpec, option string) ([]model.ArtifactHandle, model.Argument, error) {
	handles, err := actx.Registry.ResolveExternalList("input", option, actx.Ifos, actx.Span, actx.BaseTags())
	if err != nil {
		return nil, model.Argument{}, err
	}
	paths := make([]string, 0, len(handles))
	for _, h := range handles {
		paths = append(paths, h.Path())
	}
	return handles, model.Argument{Flag: spec.Flag, Value: strings.Join(paths, " ")}, nil
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
