package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseType(t *testing.T) {
	cases := []struct {
		raw  string
		want ColumnType
	}{
		{"bool", TypeBool},
		{"BOOL", TypeBool},
		{" germline ", TypeGermline},
		{"status", TypeStatus},
		{"free_text", TypeText},
		{"", TypeText},
		{"no-such-type", TypeText},
	}
	for _, tc := range cases {
		if got := ParseType(tc.raw); got != tc.want {
			t.Errorf("ParseType(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestOptions_FixedChoiceTypes(t *testing.T) {
	if got := TypeBool.Options(); len(got) != 2 || got[0] != "Yes" || got[1] != "No" {
		t.Fatalf("bool options = %#v", got)
	}
	if got := TypeStatus.Options(); len(got) != 3 || got[0] != "case" {
		t.Fatalf("status options = %#v", got)
	}
	if got := TypeText.Options(); got != nil {
		t.Fatalf("free text must have no options, got %#v", got)
	}
	if !TypeEquivoc.FixedChoice() {
		t.Fatal("equivoc must be fixed choice")
	}
	if TypeText.FixedChoice() {
		t.Fatal("free text must not be fixed choice")
	}
}

func TestLoadVocabulary_OverridesOneType(t *testing.T) {
	doc := []byte("stage:\n  - T1\n  - T2\n")

	vocab, err := LoadVocabulary(doc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff([]string{"T1", "T2"}, vocab.Options(TypeStage)); diff != "" {
		t.Fatalf("stage options mismatch (-want +got):\n%s", diff)
	}
	// Untouched types keep their defaults.
	if diff := cmp.Diff(TypeBool.Options(), vocab.Options(TypeBool)); diff != "" {
		t.Fatalf("bool options changed (-want +got):\n%s", diff)
	}
}

func TestLoadVocabulary_RejectsUnknownType(t *testing.T) {
	if _, err := LoadVocabulary([]byte("flavour: [sweet]\n")); err == nil {
		t.Fatal("expected unknown type key to be rejected")
	}
}

func TestLoadVocabulary_RejectsEmptyList(t *testing.T) {
	if _, err := LoadVocabulary([]byte("stage: [\"  \"]\n")); err == nil {
		t.Fatal("expected empty option list to be rejected")
	}
}

func TestLoadVocabulary_MalformedYAML(t *testing.T) {
	if _, err := LoadVocabulary([]byte("stage: [unterminated")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	clone := DefaultVocabulary().Clone()
	clone[TypeBool][0] = "Ja"

	if DefaultVocabulary()[TypeBool][0] != "Yes" {
		t.Fatal("mutating a clone must not touch the default vocabulary")
	}
}
