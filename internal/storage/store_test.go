package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	coreconfig "github.com/rodanhr/hrbot/core/config"
	"github.com/rodanhr/hrbot/internal/domain"
)

func newTestStore(t *testing.T, defaults []domain.Vacancy) *FileStore {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(coreconfig.StorageConfig{
		CandidatesFile: filepath.Join(dir, "candidates.json"),
		VacanciesFile:  filepath.Join(dir, "vacancies.json"),
		AnalyticsFile:  filepath.Join(dir, "analytics.csv"),
	}, defaults)
}

func TestLoadCandidatesMissingFile(t *testing.T) {
	s := newTestStore(t, nil)
	got, err := s.LoadCandidates(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates from a missing file", len(got))
	}
}

func TestAppendAndMutate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	rec := domain.Candidate{Name: "Jane Doe", Vacancy: "Python developer", Status: domain.StatusInvited, CreatedAt: time.Now()}
	if err := s.AppendCandidate(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendCandidate(ctx, domain.Candidate{Name: "John Smith", Status: domain.StatusUndecided}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.MutateCandidate(ctx, 1, func(c *domain.Candidate) {
		c.Status = "Phone interview"
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	got, err := s.LoadCandidates(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("count = %d", len(got))
	}
	if got[0].Name != "Jane Doe" || got[0].Status != domain.StatusInvited {
		t.Fatalf("record 0 = %+v", got[0])
	}
	if got[1].Status != "Phone interview" {
		t.Fatalf("record 1 status = %q", got[1].Status)
	}
}

func TestMutateOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	if err := s.AppendCandidate(ctx, domain.Candidate{Name: "Jane Doe"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	for _, idx := range []int{-1, 1, 100} {
		err := s.MutateCandidate(ctx, idx, func(c *domain.Candidate) {
			c.Status = "mutated"
		})
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("idx %d: err = %v", idx, err)
		}
	}

	got, _ := s.LoadCandidates(ctx)
	if got[0].Status != "" {
		t.Fatal("collection mutated by out-of-range index")
	}
}

func TestClearCandidates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	_ = s.AppendCandidate(ctx, domain.Candidate{Name: "Jane Doe"})

	if err := s.ClearCandidates(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err := s.LoadCandidates(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("count after clear = %d", len(got))
	}
}

func TestVacancySeeding(t *testing.T) {
	ctx := context.Background()
	defaults := []domain.Vacancy{
		{Title: "Python developer", Description: "Backend", Salary: "100"},
		{Title: "Frontend developer", Description: "React", Salary: "90"},
	}
	s := newTestStore(t, defaults)

	got, err := s.LoadVacancies(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Python developer" {
		t.Fatalf("seeded vacancies = %+v", got)
	}

	// Seeding is idempotent: the file now exists and wins.
	if err := s.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	again, err := s.LoadVacancies(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("vacancies after reseed = %d", len(again))
	}
}

func TestExportAnalyticsCSV(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	created := time.Date(2026, 8, 14, 15, 4, 5, 0, time.UTC)
	candidates := []domain.Candidate{
		{Name: "Jane Doe", Vacancy: "Python developer", Status: domain.StatusInvited, CreatedAt: created},
		{
			Name: "John Smith", Vacancy: "Frontend developer", Status: domain.StatusDeclined, CreatedAt: created,
			Rejection: &domain.RejectionReason{Origin: domain.OriginCandidate, Reason: "Low salary"},
		},
	}
	if err := s.ExportAnalytics(ctx, candidates); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := os.Open(s.analyticsPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][3] != "Rejection reason" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][3] != "-" {
		t.Fatalf("no-rejection cell = %q", rows[1][3])
	}
	if rows[2][3] != "Candidate: Low salary" {
		t.Fatalf("rejection cell = %q", rows[2][3])
	}
	if rows[1][4] != "2026-08-14" {
		t.Fatalf("date cell = %q", rows[1][4])
	}
}
