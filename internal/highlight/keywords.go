package highlight

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the keyword lists driving the priority score. These are
// configuration data, not logic: swapping the lists changes the ranking
// without touching the scorer.
type Vocabulary struct {
	Breaking   []string `yaml:"breaking"`
	Importance []string `yaml:"importance"`
}

// DefaultVocabulary returns the built-in keyword lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Breaking: []string{
			"breaking", "urgent", "alert", "just in", "developing",
			"live", "exclusive", "major", "significant", "critical",
		},
		Importance: []string{
			"announcement", "decision", "reveals", "unveils", "launches",
			"wins", "victory", "defeats", "championship", "record", "historic",
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Missing lists fall back to the
// defaults so a file may override just one of them.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	if path == "" {
		return v, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read keywords file: %w", err)
	}

	var file Vocabulary
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return v, fmt.Errorf("parse keywords file: %w", err)
	}
	if len(file.Breaking) > 0 {
		v.Breaking = file.Breaking
	}
	if len(file.Importance) > 0 {
		v.Importance = file.Importance
	}
	return v, nil
}
