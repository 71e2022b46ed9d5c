package hrops

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rodanhr/hrbot/internal/callback"
	"github.com/rodanhr/hrbot/internal/catalog"
	"github.com/rodanhr/hrbot/internal/domain"
	"github.com/rodanhr/hrbot/internal/storage"
)

type memStore struct {
	candidates []domain.Candidate
	vacancies  []domain.Vacancy
	exported   [][]domain.Candidate
	exportErr  error
}

func (m *memStore) LoadCandidates(ctx context.Context) ([]domain.Candidate, error) {
	return append([]domain.Candidate(nil), m.candidates...), nil
}

func (m *memStore) MutateCandidate(ctx context.Context, idx int, fn func(*domain.Candidate)) error {
	if idx < 0 || idx >= len(m.candidates) {
		return storage.ErrIndexOutOfRange
	}
	fn(&m.candidates[idx])
	return nil
}

func (m *memStore) ClearCandidates(ctx context.Context) error {
	m.candidates = nil
	return nil
}

func (m *memStore) LoadVacancies(ctx context.Context) ([]domain.Vacancy, error) {
	return m.vacancies, nil
}

func (m *memStore) ExportAnalytics(ctx context.Context, candidates []domain.Candidate) error {
	if m.exportErr != nil {
		return m.exportErr
	}
	m.exported = append(m.exported, candidates)
	return nil
}

func twoCandidates() []domain.Candidate {
	return []domain.Candidate{
		{Name: "Jane Doe", Vacancy: "Python developer", Status: domain.StatusInvited, CreatedAt: time.Now()},
		{Name: "John Smith", Vacancy: "Frontend developer", Status: domain.StatusDeclined, CreatedAt: time.Now()},
	}
}

func newTestService(store *memStore) *Service {
	return NewService(store, catalog.Default())
}

func TestApplyStatusMutatesOnlyTarget(t *testing.T) {
	ctx := context.Background()
	store := &memStore{candidates: twoCandidates()}
	svc := newTestService(store)

	reply, err := svc.ApplyStatus(ctx, 1, 1, 2)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := catalog.Default().Statuses[2].Label
	if store.candidates[1].Status != want {
		t.Fatalf("status = %q, want %q", store.candidates[1].Status, want)
	}
	if store.candidates[0].Status != domain.StatusInvited {
		t.Fatalf("neighbour mutated: %q", store.candidates[0].Status)
	}
	if !strings.Contains(reply.Text, "John Smith") || !strings.Contains(reply.Text, want) {
		t.Fatalf("confirmation text = %q", reply.Text)
	}
}

func TestApplyStatusOutOfRange(t *testing.T) {
	ctx := context.Background()
	store := &memStore{candidates: twoCandidates()}
	svc := newTestService(store)

	_, err := svc.ApplyStatus(ctx, 1, 5, 0)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.Entity != "candidate" {
		t.Fatalf("entity = %q", nf.Entity)
	}
	if store.candidates[0].Status != domain.StatusInvited || store.candidates[1].Status != domain.StatusDeclined {
		t.Fatal("collection mutated on out-of-range apply")
	}

	_, err = svc.ApplyStatus(ctx, 1, 0, 99)
	if !errors.As(err, &nf) || nf.Entity != "status" {
		t.Fatalf("err = %v, want status NotFoundError", err)
	}
}

func TestApplyReasonTwoLevelFlow(t *testing.T) {
	ctx := context.Background()
	store := &memStore{candidates: twoCandidates()}
	svc := newTestService(store)

	reply, err := svc.Select(ctx, 1, 0, callback.ManageReason)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !strings.Contains(reply.Text, "Jane Doe") {
		t.Fatalf("origin picker text = %q", reply.Text)
	}
	if len(reply.Buttons) != 3 {
		t.Fatalf("origin picker rows = %d, want 3", len(reply.Buttons))
	}

	reply, err = svc.PickReasonOrigin(ctx, 0, domain.OriginCandidate)
	if err != nil {
		t.Fatalf("pick origin: %v", err)
	}
	wantRows := len(catalog.Default().CandidateReasons) + 1
	if len(reply.Buttons) != wantRows {
		t.Fatalf("reason rows = %d, want %d", len(reply.Buttons), wantRows)
	}

	if _, err := svc.ApplyReason(ctx, 1, 0, domain.OriginCandidate, 2); err != nil {
		t.Fatalf("apply reason: %v", err)
	}
	rej := store.candidates[0].Rejection
	if rej == nil {
		t.Fatal("rejection not set")
	}
	if rej.Origin != domain.OriginCandidate {
		t.Fatalf("origin = %q", rej.Origin)
	}
	if want := catalog.Default().CandidateReasons[2].Label; rej.Reason != want {
		t.Fatalf("reason = %q, want %q", rej.Reason, want)
	}
}

func TestApplyReasonOutOfRange(t *testing.T) {
	ctx := context.Background()
	store := &memStore{candidates: twoCandidates()}
	svc := newTestService(store)

	var nf *NotFoundError
	if _, err := svc.ApplyReason(ctx, 1, 0, domain.OriginCompany, 42); !errors.As(err, &nf) || nf.Entity != "reason" {
		t.Fatalf("err = %v, want reason NotFoundError", err)
	}
	if store.candidates[0].Rejection != nil {
		t.Fatal("collection mutated on out-of-range reason")
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	store := &memStore{candidates: twoCandidates()}
	svc := newTestService(store)

	reply := svc.ClearRequest()
	if len(store.candidates) != 2 {
		t.Fatal("request alone must not clear")
	}
	var confirmToken string
	for _, row := range reply.Buttons {
		for _, b := range row {
			if strings.Contains(b.Label, "Yes") {
				confirmToken = b.Token
			}
		}
	}
	if confirmToken != (callback.ClearConfirm{}).Token() {
		t.Fatalf("confirm token = %q", confirmToken)
	}

	if _, err := svc.ClearConfirmed(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(store.candidates) != 0 {
		t.Fatalf("candidates left: %d", len(store.candidates))
	}
}

func TestCandidateListVariants(t *testing.T) {
	ctx := context.Background()
	store := &memStore{candidates: twoCandidates()}
	svc := newTestService(store)

	reply, err := svc.CandidateList(ctx, callback.ManageStatus)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Two candidates, the clear button, and the main menu row.
	if len(reply.Buttons) != 4 {
		t.Fatalf("status list rows = %d, want 4", len(reply.Buttons))
	}

	reply, err = svc.CandidateList(ctx, callback.ManageReason)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reply.Buttons) != 3 {
		t.Fatalf("reason list rows = %d, want 3", len(reply.Buttons))
	}

	store.candidates = nil
	reply, err = svc.CandidateList(ctx, callback.ManageStatus)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reply.Buttons) != 0 {
		t.Fatalf("empty list must have no buttons, got %d rows", len(reply.Buttons))
	}
	if !strings.Contains(reply.Text, "No candidate records") {
		t.Fatalf("empty list text = %q", reply.Text)
	}
}

func TestAnalyticsReportAndExport(t *testing.T) {
	ctx := context.Background()
	store := &memStore{candidates: twoCandidates()}
	svc := newTestService(store)

	reply, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if !strings.Contains(reply.Text, "Total candidates: 2") {
		t.Fatalf("report = %q", reply.Text)
	}
	if len(store.exported) != 1 {
		t.Fatalf("exports = %d, want 1", len(store.exported))
	}
	if len(reply.FollowUps) != 1 || !strings.Contains(reply.FollowUps[0], "exported") {
		t.Fatalf("follow-ups = %v", reply.FollowUps)
	}
}

func TestAnalyticsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	svc := newTestService(store)

	reply, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if !strings.Contains(reply.Text, "No analytics data") {
		t.Fatalf("text = %q", reply.Text)
	}
	if len(store.exported) != 0 {
		t.Fatal("empty collection must not export")
	}
}

func TestAnalyticsExportFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store := &memStore{candidates: twoCandidates(), exportErr: errors.New("disk full")}
	svc := newTestService(store)

	reply, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if len(reply.FollowUps) != 1 || !strings.Contains(reply.FollowUps[0], "Failed") {
		t.Fatalf("follow-ups = %v", reply.FollowUps)
	}
}

func TestVacancies(t *testing.T) {
	ctx := context.Background()
	store := &memStore{vacancies: []domain.Vacancy{
		{Title: "Python developer", Description: "Backend", Salary: "100"},
	}}
	svc := newTestService(store)

	reply, err := svc.Vacancies(ctx)
	if err != nil {
		t.Fatalf("vacancies: %v", err)
	}
	if !strings.Contains(reply.Text, "Python developer") || !strings.Contains(reply.Text, "Salary: 100") {
		t.Fatalf("text = %q", reply.Text)
	}

	store.vacancies = nil
	reply, err = svc.Vacancies(ctx)
	if err != nil {
		t.Fatalf("vacancies: %v", err)
	}
	if !strings.Contains(reply.Text, "no open vacancies") {
		t.Fatalf("text = %q", reply.Text)
	}
}
