// Package catalog loads the reference data the bot is configured with:
// candidate statuses, rejection reason lists, seed vacancies, and the dialog
// script texts. Catalogs are plain values injected into the services that use
// them, never package globals.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rodanhr/hrbot/internal/domain"
)

// Entry is a labelled catalog item with an optional emoji tag for buttons.
type Entry struct {
	Label string `yaml:"label"`
	Emoji string `yaml:"emoji"`
}

// Button returns the label prefixed with its emoji tag, if any.
func (e Entry) Button() string {
	if e.Emoji == "" {
		return e.Label
	}
	return e.Emoji + " " + e.Label
}

// Catalog aggregates all configured reference data.
type Catalog struct {
	Statuses         []Entry          `yaml:"statuses"`
	CompanyReasons   []Entry          `yaml:"company_reasons"`
	CandidateReasons []Entry          `yaml:"candidate_reasons"`
	DefaultVacancies []domain.Vacancy `yaml:"default_vacancies"`
	Scripts          Scripts          `yaml:"scripts"`
}

// ReasonsFor returns the rejection reason list for the given origin.
func (c *Catalog) ReasonsFor(origin domain.Origin) []Entry {
	if origin == domain.OriginCompany {
		return c.CompanyReasons
	}
	return c.CandidateReasons
}

// OriginLabel returns the display name used for a rejection origin.
func (c *Catalog) OriginLabel(origin domain.Origin) string {
	if origin == domain.OriginCompany {
		return "Company"
	}
	return "Candidate"
}

// StatusLabels returns the settable status labels in catalog order.
func (c *Catalog) StatusLabels() []string {
	labels := make([]string, len(c.Statuses))
	for i, s := range c.Statuses {
		labels[i] = s.Label
	}
	return labels
}

// Load reads a catalog from a YAML file and fills gaps with defaults.
func Load(path string) (*Catalog, error) {
	cat := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cat, nil
		}
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if err := validate(cat); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return cat, nil
}

func validate(c *Catalog) error {
	if len(c.Statuses) == 0 {
		return fmt.Errorf("statuses must not be empty")
	}
	if len(c.CompanyReasons) == 0 || len(c.CandidateReasons) == 0 {
		return fmt.Errorf("rejection reason lists must not be empty")
	}
	for i, s := range c.Statuses {
		if strings.TrimSpace(s.Label) == "" {
			return fmt.Errorf("status %d has an empty label", i)
		}
	}
	return nil
}

// Default returns the built-in catalog used when no file is configured.
func Default() *Catalog {
	return &Catalog{
		Statuses: []Entry{
			{Label: "Unavailable", Emoji: "📞"},
			{Label: "Phone interview", Emoji: "📝"},
			{Label: "Deciding after interview", Emoji: "🕒"},
			{Label: "HR interview", Emoji: "✅"},
		},
		CompanyReasons: []Entry{
			{Label: "Insufficient qualifications", Emoji: "📊"},
			{Label: "Does not meet requirements", Emoji: "🏢"},
			{Label: "Weak soft skills", Emoji: "👨‍💼"},
			{Label: "Failed the technical stage", Emoji: "⏱️"},
		},
		CandidateReasons: []Entry{
			{Label: "Low salary", Emoji: "💰"},
			{Label: "Schedule did not fit", Emoji: "🕒"},
			{Label: "Accepted another offer", Emoji: "🏢"},
			{Label: "Not interested in the vacancy", Emoji: "📍"},
		},
		DefaultVacancies: []domain.Vacancy{
			{
				Title:       "Production line operator",
				Description: "Label application control, bottle capping, palletizer operation",
				Salary:      "39000-45000 + bonuses",
			},
			{
				Title:       "Python developer",
				Description: "Development and support of backend services in Python",
				Salary:      "120000-180000",
			},
			{
				Title:       "Frontend developer",
				Description: "Building user interfaces with React.js",
				Salary:      "100000-160000",
			},
		},
		Scripts: defaultScripts(),
	}
}
