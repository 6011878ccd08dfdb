package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RulesOverrides carries per-kind acceptance rules loaded from an optional
// YAML file, so limits can be tuned without a rebuild. Kinds absent from
// the file keep their built-in rules.
type RulesOverrides map[Kind]Rules

func LoadRulesFile(path string) (RulesOverrides, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var doc map[string]Rules
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	out := make(RulesOverrides, len(doc))
	for name, rules := range doc {
		kind := Kind(name)
		switch kind {
		case KindTeachers, KindMaterials, KindLectures, KindResults:
		default:
			return nil, fmt.Errorf("rules file names unknown kind %q", name)
		}
		if rules.MaxBytes <= 0 {
			return nil, fmt.Errorf("rules for %q: maxBytes must be positive", name)
		}
		if len(rules.AllowedMimeTypes) == 0 {
			return nil, fmt.Errorf("rules for %q: allowedMimeTypes must not be empty", name)
		}
		out[kind] = rules
	}
	return out, nil
}

// ApplyOverride swaps in file-provided rules for this schema's kind, if any.
func (s *Schema[T]) ApplyOverride(ov RulesOverrides) {
	if ov == nil {
		return
	}
	if rules, ok := ov[s.Kind]; ok {
		s.Rules = rules
	}
}
