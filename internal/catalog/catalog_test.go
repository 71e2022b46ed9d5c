package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rodanhr/hrbot/internal/domain"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cat.Statuses) == 0 || len(cat.DefaultVacancies) == 0 {
		t.Fatal("defaults missing")
	}
	if cat.Scripts.Intro == "" {
		t.Fatal("default scripts missing")
	}
}

func TestLoadOverridesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
statuses:
  - label: "Hired"
    emoji: "🎉"
company_reasons:
  - label: "No fit"
candidate_reasons:
  - label: "Too far"
scripts:
  intro: "Hi from {company}!"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cat.Statuses) != 1 || cat.Statuses[0].Label != "Hired" {
		t.Fatalf("statuses = %+v", cat.Statuses)
	}
	if cat.Scripts.Intro != "Hi from {company}!" {
		t.Fatalf("intro = %q", cat.Scripts.Intro)
	}
	// Untouched sections keep their defaults.
	if cat.Scripts.NamePrompt == "" {
		t.Fatal("name prompt default lost")
	}
	if len(cat.DefaultVacancies) == 0 {
		t.Fatal("default vacancies lost")
	}
}

func TestLoadRejectsEmptyLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
statuses: []
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEntryButton(t *testing.T) {
	if got := (Entry{Label: "Phone interview", Emoji: "📝"}).Button(); got != "📝 Phone interview" {
		t.Fatalf("button = %q", got)
	}
	if got := (Entry{Label: "Plain"}).Button(); got != "Plain" {
		t.Fatalf("button = %q", got)
	}
}

func TestReasonsForAndLabels(t *testing.T) {
	cat := Default()
	if len(cat.ReasonsFor(domain.OriginCompany)) != len(cat.CompanyReasons) {
		t.Fatal("company reasons mismatch")
	}
	if len(cat.ReasonsFor(domain.OriginCandidate)) != len(cat.CandidateReasons) {
		t.Fatal("candidate reasons mismatch")
	}
	if cat.OriginLabel(domain.OriginCompany) != "Company" || cat.OriginLabel(domain.OriginCandidate) != "Candidate" {
		t.Fatal("origin labels wrong")
	}
	labels := cat.StatusLabels()
	if len(labels) != len(cat.Statuses) || labels[0] != cat.Statuses[0].Label {
		t.Fatalf("labels = %v", labels)
	}
}

func TestRender(t *testing.T) {
	got := Render("Hello {name}, welcome to {company}!", "Acme", "Jane")
	if got != "Hello Jane, welcome to Acme!" {
		t.Fatalf("render = %q", got)
	}
	if Render("no placeholders", "Acme", "Jane") != "no placeholders" {
		t.Fatal("render must leave plain text alone")
	}
}

func TestRenderStripsUnknownName(t *testing.T) {
	// Empty substitutions are legal; templates must not leak braces.
	got := Render("Hi {name}", "Acme", "")
	if strings.Contains(got, "{") {
		t.Fatalf("render leaked placeholder: %q", got)
	}
}
