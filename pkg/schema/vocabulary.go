package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary maps fixed-choice column types to their literal option lists.
// The option sets are domain configuration, not derived data; deployments
// override individual lists via LoadVocabulary without touching code.
type Vocabulary map[ColumnType][]string

// defaultVocabulary holds the built-in option sets. The status list follows
// the case/control convention of the submission database; the remaining
// lists mirror the controlled values the submission server accepts.
var defaultVocabulary = Vocabulary{
	TypeBool:     {"Yes", "No"},
	TypePurpose:  {"Diagnostic", "Research", "Screening", "Quality control"},
	TypeAssay:    {"TapeStation", "Bioanalyzer", "Fragment Analyzer", "FEMTO Pulse", "Agarose gel"},
	TypePatho:    {"Pathological", "Non-pathological", "Unknown"},
	TypeStage:    {"Stage I", "Stage II", "Stage III", "Stage IV", "Not staged"},
	TypeStatus:   {"case", "control", "not applicable"},
	TypeOpt:      {"Yes", "No", "Unknown"},
	TypeEquivoc:  {"Positive", "Negative", "Equivocal"},
	TypeGermline: {"Germline", "Somatic", "Unknown"},
}

// DefaultVocabulary returns the built-in vocabulary. The map is shared;
// callers must treat it as read-only and use Clone before mutating.
func DefaultVocabulary() Vocabulary {
	return defaultVocabulary
}

// Clone returns a deep copy of the vocabulary.
func (v Vocabulary) Clone() Vocabulary {
	out := make(Vocabulary, len(v))
	for typ, options := range v {
		out[typ] = append([]string(nil), options...)
	}
	return out
}

// Options returns a copy of the option list for a type, nil when the type is
// free text or unknown.
func (v Vocabulary) Options(t ColumnType) []string {
	options, ok := v[t]
	if !ok || len(options) == 0 {
		return nil
	}
	return append([]string(nil), options...)
}

// LoadVocabulary parses a YAML document of the shape
//
//	stage: ["Stage I", "Stage II"]
//	status: [case, control]
//
// and returns the default vocabulary with the listed types replaced. Types
// not present in the document keep their built-in lists. Unknown type keys
// are rejected so a typo in a deployment file surfaces early.
func LoadVocabulary(data []byte) (Vocabulary, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schema: parse vocabulary: %w", err)
	}

	out := DefaultVocabulary().Clone()
	for key, options := range raw {
		typ := ParseType(key)
		if typ == TypeText {
			return nil, fmt.Errorf("schema: vocabulary defines unknown column type %q", key)
		}
		cleaned := make([]string, 0, len(options))
		for _, option := range options {
			option = strings.TrimSpace(option)
			if option == "" {
				continue
			}
			cleaned = append(cleaned, option)
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("schema: vocabulary for %q is empty", key)
		}
		out[typ] = cleaned
	}
	return out, nil
}
