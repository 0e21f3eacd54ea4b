// Package config provides the read-only section/option store that
// drives workflow assembly. Sections map option names to scalar values;
// tag-scoped refinement sections named section-tag1-tag2... override or
// extend a base section for a specific tag combination.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is the result of an optional lookup: either Found with the raw
// scalar, or absent.
type Value struct {
	Raw   string
	Found bool
}

// Store holds parsed configuration sections.
type Store struct {
	sections map[string]map[string]string
}

// Load reads and parses a configuration YAML file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from raw YAML.
func Parse(data []byte) (*Store, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	sections := make(map[string]map[string]string, len(raw))
	for name, opts := range raw {
		section := make(map[string]string, len(opts))
		for option, value := range opts {
			scalar, err := scalarString(value)
			if err != nil {
				return nil, fmt.Errorf("section [%s] option %q: %w", name, option, err)
			}
			section[option] = scalar
		}
		sections[name] = section
	}
	return &Store{sections: sections}, nil
}

// FromSections builds a Store directly from section maps.
func FromSections(sections map[string]map[string]string) *Store {
	copied := make(map[string]map[string]string, len(sections))
	for name, opts := range sections {
		section := make(map[string]string, len(opts))
		for k, v := range opts {
			section[k] = v
		}
		copied[name] = section
	}
	return &Store{sections: copied}
}

func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("option value must be a scalar, got %T", value)
	}
}

// HasSection reports whether a section is present. Absent optional
// sections are the "skip this feature" signal, not an error.
func (s *Store) HasSection(name string) bool {
	_, ok := s.sections[name]
	return ok
}

// SectionNames returns all section names in sorted order.
func (s *Store) SectionNames() []string {
	names := make([]string, 0, len(s.sections))
	for name := range s.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find performs an optional lookup.
func (s *Store) Find(section, option string) Value {
	opts, ok := s.sections[section]
	if !ok {
		return Value{}
	}
	raw, ok := opts[option]
	if !ok {
		return Value{}
	}
	return Value{Raw: raw, Found: true}
}

// Get performs a required lookup and fails with a ConfigurationError
// when the section or option is absent.
func (s *Store) Get(section, option string) (string, error) {
	v := s.Find(section, option)
	if !v.Found {
		return "", MissingOption(section, option)
	}
	return v.Raw, nil
}

// GetInt parses a required integer option.
func (s *Store) GetInt(section, option string) (int64, error) {
	raw, err := s.Get(section, option)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &ConfigurationError{Section: section, Option: option,
			Detail: fmt.Sprintf("not an integer: %q", raw)}
	}
	return n, nil
}

// GetFloat parses a required float option.
func (s *Store) GetFloat(section, option string) (float64, error) {
	raw, err := s.Get(section, option)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ConfigurationError{Section: section, Option: option,
			Detail: fmt.Sprintf("not a number: %q", raw)}
	}
	return f, nil
}

// GetList splits a required option on whitespace.
func (s *Store) GetList(section, option string) ([]string, error) {
	raw, err := s.Get(section, option)
	if err != nil {
		return nil, err
	}
	return strings.Fields(raw), nil
}

// FindList splits an optional option on whitespace; absent yields nil.
func (s *Store) FindList(section, option string) []string {
	v := s.Find(section, option)
	if !v.Found {
		return nil
	}
	return strings.Fields(v.Raw)
}

// Set updates an option in place. Assembly uses this to stamp derived
// values (analysis boundaries) back into the live view; the store is
// otherwise read-only during graph construction.
func (s *Store) Set(section, option, value string) {
	opts, ok := s.sections[section]
	if !ok {
		opts = make(map[string]string)
		s.sections[section] = opts
	}
	opts[option] = value
}

// tagSection renders the refinement section name for a tag combination:
// the base section joined with each tag, lowercased, by "-".
func tagSection(section string, tags []string) string {
	parts := make([]string, 0, len(tags)+1)
	parts = append(parts, section)
	for _, tag := range tags {
		parts = append(parts, strings.ToLower(tag))
	}
	return strings.Join(parts, "-")
}

// FindTags looks an option up with tag scoping. The most specific
// refinement wins: the section named with the full tag combination,
// then each single-tag refinement in tag order, then the base section.
func (s *Store) FindTags(section, option string, tags []string) Value {
	if len(tags) > 1 {
		if v := s.Find(tagSection(section, tags), option); v.Found {
			return v
		}
	}
	for _, tag := range tags {
		if v := s.Find(tagSection(section, []string{tag}), option); v.Found {
			return v
		}
	}
	return s.Find(section, option)
}

// GetTags performs a required tag-scoped lookup.
func (s *Store) GetTags(section, option string, tags []string) (string, error) {
	v := s.FindTags(section, option, tags)
	if !v.Found {
		return "", MissingOption(tagSection(section, tags), option)
	}
	return v.Raw, nil
}

// HasOptionTags reports whether an option exists for a tag combination.
func (s *Store) HasOptionTags(section, option string, tags []string) bool {
	return s.FindTags(section, option, tags).Found
}

// OptionsTags merges the base section with its tag refinements, most
// specific last, and returns the resulting option map.
func (s *Store) OptionsTags(section string, tags []string) map[string]string {
	merged := make(map[string]string)
	for k, v := range s.sections[section] {
		merged[k] = v
	}
	for _, tag := range tags {
		for k, v := range s.sections[tagSection(section, []string{tag})] {
			merged[k] = v
		}
	}
	if len(tags) > 1 {
		for k, v := range s.sections[tagSection(section, tags)] {
			merged[k] = v
		}
	}
	return merged
}

// Raw returns a deep copy of the section maps, for document validation.
func (s *Store) Raw() map[string]map[string]string {
	return FromSections(s.sections).sections
}
