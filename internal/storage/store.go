// Package storage implements the flat-file record store: candidates and
// vacancies live in JSON files, analytics exports go to CSV. There is no
// transactional isolation; a single in-process mutex serializes every
// read-modify-write cycle so concurrent chats cannot lose updates.
package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	coreconfig "github.com/rodanhr/hrbot/core/config"
	"github.com/rodanhr/hrbot/core/logger"
	"github.com/rodanhr/hrbot/internal/domain"
	"log/slog"
)

// StoreError wraps a persistence failure with the operation and file involved.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Code identifies the error class for handler summary logs.
func (e *StoreError) Code() string { return "STORE_IO" }

// ErrIndexOutOfRange is returned when a candidate index no longer exists.
var ErrIndexOutOfRange = fmt.Errorf("storage: candidate index out of range")

// FileStore is the JSON/CSV-backed record store.
type FileStore struct {
	mu sync.Mutex

	candidatesPath string
	vacanciesPath  string
	analyticsPath  string

	defaults []domain.Vacancy
}

// NewFileStore builds a store over the configured file paths. defaults are
// written to the vacancies file on first read when it is missing or empty.
func NewFileStore(cfg coreconfig.StorageConfig, defaults []domain.Vacancy) *FileStore {
	return &FileStore{
		candidatesPath: cfg.CandidatesFile,
		vacanciesPath:  cfg.VacanciesFile,
		analyticsPath:  cfg.AnalyticsFile,
		defaults:       defaults,
	}
}

// LoadCandidates reads the candidate collection. A missing file is an empty
// collection, not an error.
func (s *FileStore) LoadCandidates(ctx context.Context) ([]domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCandidatesLocked(ctx)
}

func (s *FileStore) loadCandidatesLocked(ctx context.Context) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	if err := readJSON(s.candidatesPath, &candidates); err != nil {
		logger.Error(ctx, "store", "candidates.load.fail",
			slog.String("file", s.candidatesPath),
			slog.String("err", err.Error()),
		)
		return nil, &StoreError{Op: "load", Path: s.candidatesPath, Err: err}
	}
	return candidates, nil
}

// SaveCandidates overwrites the whole candidate collection.
func (s *FileStore) SaveCandidates(ctx context.Context, candidates []domain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCandidatesLocked(ctx, candidates)
}

func (s *FileStore) saveCandidatesLocked(ctx context.Context, candidates []domain.Candidate) error {
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	if err := writeJSON(s.candidatesPath, candidates); err != nil {
		logger.Error(ctx, "store", "candidates.save.fail",
			slog.String("file", s.candidatesPath),
			slog.String("err", err.Error()),
		)
		return &StoreError{Op: "save", Path: s.candidatesPath, Err: err}
	}
	logger.Debug(ctx, "store", "candidates.save",
		slog.String("status", "ok"),
		slog.Int("count", len(candidates)),
	)
	return nil
}

// AppendCandidate adds a new record at the end of the collection.
func (s *FileStore) AppendCandidate(ctx context.Context, c domain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates, err := s.loadCandidatesLocked(ctx)
	if err != nil {
		return err
	}
	return s.saveCandidatesLocked(ctx, append(candidates, c))
}

// MutateCandidate applies fn to the candidate at idx under the store lock.
// The index is re-validated against the freshly loaded collection.
func (s *FileStore) MutateCandidate(ctx context.Context, idx int, fn func(*domain.Candidate)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates, err := s.loadCandidatesLocked(ctx)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(candidates) {
		return ErrIndexOutOfRange
	}
	fn(&candidates[idx])
	return s.saveCandidatesLocked(ctx, candidates)
}

// ClearCandidates removes every candidate record.
func (s *FileStore) ClearCandidates(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.saveCandidatesLocked(ctx, nil)
	if err == nil {
		logger.Info(ctx, "store", "candidates.clear", slog.String("status", "ok"))
	}
	return err
}

// LoadVacancies reads the vacancy catalog, seeding the configured defaults
// when the file is missing or empty.
func (s *FileStore) LoadVacancies(ctx context.Context) ([]domain.Vacancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var vacancies []domain.Vacancy
	if err := readJSON(s.vacanciesPath, &vacancies); err != nil {
		logger.Error(ctx, "store", "vacancies.load.fail",
			slog.String("file", s.vacanciesPath),
			slog.String("err", err.Error()),
		)
		return nil, &StoreError{Op: "load", Path: s.vacanciesPath, Err: err}
	}
	if len(vacancies) > 0 {
		return vacancies, nil
	}

	if len(s.defaults) == 0 {
		return nil, nil
	}
	if err := writeJSON(s.vacanciesPath, s.defaults); err != nil {
		logger.Error(ctx, "store.seed", "vacancies.seed.fail",
			slog.String("file", s.vacanciesPath),
			slog.String("err", err.Error()),
		)
		return nil, &StoreError{Op: "seed", Path: s.vacanciesPath, Err: err}
	}
	logger.Info(ctx, "store.seed", "vacancies.seed",
		slog.String("status", "ok"),
		slog.Int("count", len(s.defaults)),
	)
	return append([]domain.Vacancy(nil), s.defaults...), nil
}

// Seed forces vacancy seeding at startup so the catalog file exists before
// the first candidate ever asks for it.
func (s *FileStore) Seed(ctx context.Context) error {
	_, err := s.LoadVacancies(ctx)
	return err
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportAnalytics writes the candidate collection to the analytics CSV file.
// The rejection column is formatted "<origin>: <reason>" or "-", the date
// column carries the ISO date only.
func (s *FileStore) ExportAnalytics(ctx context.Context, candidates []domain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.analyticsPath)
	if err != nil {
		return &StoreError{Op: "export", Path: s.analyticsPath, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Name", "Vacancy", "Status", "Rejection reason", "Date"}); err != nil {
		return &StoreError{Op: "export", Path: s.analyticsPath, Err: err}
	}
	for _, c := range candidates {
		rejection := "-"
		if c.Rejection != nil {
			rejection = originLabel(c.Rejection.Origin) + ": " + c.Rejection.Reason
		}
		row := []string{
			c.Name,
			c.Vacancy,
			c.Status,
			rejection,
			c.CreatedAt.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return &StoreError{Op: "export", Path: s.analyticsPath, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &StoreError{Op: "export", Path: s.analyticsPath, Err: err}
	}
	logger.Info(ctx, "store", "analytics.export",
		slog.String("status", "ok"),
		slog.String("file", s.analyticsPath),
		slog.Int("count", len(candidates)),
	)
	return nil
}

func originLabel(o domain.Origin) string {
	if o == domain.OriginCompany {
		return "Company"
	}
	return "Candidate"
}
