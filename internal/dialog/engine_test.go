package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rodanhr/hrbot/internal/callback"
	"github.com/rodanhr/hrbot/internal/catalog"
	"github.com/rodanhr/hrbot/internal/domain"
)

type fakeStore struct {
	vacancies []domain.Vacancy
	appended  []domain.Candidate
	appendErr error
}

func (f *fakeStore) LoadVacancies(ctx context.Context) ([]domain.Vacancy, error) {
	return f.vacancies, nil
}

func (f *fakeStore) AppendCandidate(ctx context.Context, c domain.Candidate) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, c)
	return nil
}

func newTestEngine(store *fakeStore) *Engine {
	if store.vacancies == nil {
		store.vacancies = []domain.Vacancy{
			{Title: "Python developer", Description: "Backend services", Salary: "100"},
		}
	}
	return NewEngine(store, catalog.Default(), "Acme")
}

const chat = int64(100500)

func TestFullConversationConfirmed(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	reply := e.Begin(ctx, chat)
	if !strings.Contains(reply.Text, "Acme") {
		t.Fatalf("intro text missing company: %q", reply.Text)
	}
	if got := e.StageOf(chat); got != string(StageIntro) {
		t.Fatalf("stage = %q", got)
	}

	if _, err := e.HandleIntro(ctx, chat, callback.IntroYes); err != nil {
		t.Fatalf("intro: %v", err)
	}
	if got := e.StageOf(chat); got != string(StageResearch) {
		t.Fatalf("stage after intro = %q", got)
	}

	reply, err := e.HandleText(ctx, chat, "Jane Doe")
	if err != nil {
		t.Fatalf("name: %v", err)
	}
	if !strings.Contains(reply.Text, "Jane Doe") {
		t.Fatalf("research text missing name: %q", reply.Text)
	}

	reply, err = e.HandleText(ctx, chat, "growth and stability")
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if !strings.Contains(reply.Text, "Python developer") {
		t.Fatalf("pitch missing vacancy: %q", reply.Text)
	}
	if got := e.StageOf(chat); got != string(StageInvitation) {
		t.Fatalf("stage after preferences = %q", got)
	}

	if _, err := e.HandlePresentation(ctx, chat, true); err != nil {
		t.Fatalf("presentation: %v", err)
	}
	if _, err := e.HandleInvitation(ctx, chat, true); err != nil {
		t.Fatalf("invitation: %v", err)
	}
	if got := e.StageOf(chat); got != string(StageConfirmation) {
		t.Fatalf("stage after invitation = %q", got)
	}

	if _, err := e.HandleConfirmation(ctx, chat, true); err != nil {
		t.Fatalf("confirmation: %v", err)
	}

	if len(store.appended) != 1 {
		t.Fatalf("appended %d records, want 1", len(store.appended))
	}
	rec := store.appended[0]
	if rec.Name != "Jane Doe" {
		t.Fatalf("name = %q", rec.Name)
	}
	if rec.Vacancy != "Python developer" {
		t.Fatalf("vacancy = %q", rec.Vacancy)
	}
	if rec.Status != domain.StatusInvited {
		t.Fatalf("status = %q", rec.Status)
	}
	if rec.Interest != InterestYes || rec.Invitation != InvitationAccepted || rec.Confirmation != ConfirmationConfirmed {
		t.Fatalf("outcome fields = %q/%q/%q", rec.Interest, rec.Invitation, rec.Confirmation)
	}
	if e.Active(chat) {
		t.Fatal("session must be discarded after persisting")
	}
}

func TestIntroDeclinedTwicePersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	e.Begin(ctx, chat)
	reply, err := e.HandleIntro(ctx, chat, callback.IntroNo)
	if err != nil {
		t.Fatalf("intro no: %v", err)
	}
	if len(reply.Buttons) != 2 {
		t.Fatalf("follow-up buttons = %d, want 2", len(reply.Buttons))
	}
	// Still in Intro: the second prompt narrows the same question.
	if got := e.StageOf(chat); got != string(StageIntro) {
		t.Fatalf("stage = %q", got)
	}

	if _, err := e.HandleIntro(ctx, chat, callback.IntroStillNo); err != nil {
		t.Fatalf("intro still no: %v", err)
	}
	if len(store.appended) != 0 {
		t.Fatalf("appended %d records, want 0", len(store.appended))
	}
	if e.Active(chat) {
		t.Fatal("session must be discarded")
	}
}

func TestNotInterestedPersistsDeclined(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	e.Begin(ctx, chat)
	e.HandleIntro(ctx, chat, callback.IntroCalledBack)
	e.HandleText(ctx, chat, "John Smith")
	e.HandleText(ctx, chat, "salary")

	if _, err := e.HandlePresentation(ctx, chat, false); err != nil {
		t.Fatalf("presentation no: %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("appended %d records, want 1", len(store.appended))
	}
	rec := store.appended[0]
	if rec.Status != domain.StatusDeclined {
		t.Fatalf("status = %q", rec.Status)
	}
	if rec.Interest != InterestNo {
		t.Fatalf("interest = %q", rec.Interest)
	}
	if e.Active(chat) {
		t.Fatal("session must be discarded")
	}
}

func TestInvitationDeclinedAcceptsAlternativeTime(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	e.Begin(ctx, chat)
	e.HandleIntro(ctx, chat, callback.IntroYes)
	e.HandleText(ctx, chat, "Jane Doe")
	e.HandleText(ctx, chat, "remote work")
	e.HandlePresentation(ctx, chat, true)

	if _, err := e.HandleInvitation(ctx, chat, false); err != nil {
		t.Fatalf("invitation no: %v", err)
	}
	// No record yet: the candidate may still propose a time.
	if len(store.appended) != 0 {
		t.Fatalf("appended %d records, want 0", len(store.appended))
	}
	if !e.Active(chat) {
		t.Fatal("session must stay alive for a free-text time")
	}

	if _, err := e.HandleText(ctx, chat, "next Tuesday at noon"); err != nil {
		t.Fatalf("alt time: %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("appended %d records, want 1", len(store.appended))
	}
	rec := store.appended[0]
	if rec.Status != domain.StatusInvited {
		t.Fatalf("status = %q", rec.Status)
	}
	if rec.Confirmation != ConfirmationAltTime {
		t.Fatalf("confirmation = %q", rec.Confirmation)
	}
	if rec.PreferredTime != "next Tuesday at noon" {
		t.Fatalf("preferred time = %q", rec.PreferredTime)
	}
	if rec.PreferredAt != nil {
		t.Fatal("free-form text must not produce a parsed time")
	}
}

func TestAlternativeTimeParsedWhenDateLike(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	e.Begin(ctx, chat)
	e.HandleIntro(ctx, chat, callback.IntroYes)
	e.HandleText(ctx, chat, "Jane Doe")
	e.HandleText(ctx, chat, "remote work")
	e.HandlePresentation(ctx, chat, true)
	e.HandleInvitation(ctx, chat, false)

	if _, err := e.HandleText(ctx, chat, "2026-09-01 10:00"); err != nil {
		t.Fatalf("alt time: %v", err)
	}
	rec := store.appended[0]
	if rec.PreferredTime != "2026-09-01 10:00" {
		t.Fatalf("preferred time = %q", rec.PreferredTime)
	}
	if rec.PreferredAt == nil {
		t.Fatal("date-like text must produce a parsed time")
	}
	if rec.PreferredAt.Year() != 2026 || rec.PreferredAt.Hour() != 10 {
		t.Fatalf("parsed time = %v", rec.PreferredAt)
	}
}

func TestConfirmationCancelledPersistsUndecided(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	e.Begin(ctx, chat)
	e.HandleIntro(ctx, chat, callback.IntroYes)
	e.HandleText(ctx, chat, "Jane Doe")
	e.HandleText(ctx, chat, "anything")
	e.HandlePresentation(ctx, chat, true)
	e.HandleInvitation(ctx, chat, true)

	if _, err := e.HandleConfirmation(ctx, chat, false); err != nil {
		t.Fatalf("confirmation no: %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("appended %d records, want 1", len(store.appended))
	}
	rec := store.appended[0]
	if rec.Status != domain.StatusUndecided {
		t.Fatalf("status = %q", rec.Status)
	}
	if rec.Confirmation != ConfirmationCancelled {
		t.Fatalf("confirmation = %q", rec.Confirmation)
	}
}

func TestBackNavigationDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	e.Begin(ctx, chat)
	e.HandleIntro(ctx, chat, callback.IntroYes)
	e.HandleText(ctx, chat, "Jane Doe")

	reply, err := e.HandleBack(ctx, chat, callback.BackIntro)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if !strings.Contains(reply.Text, "Acme") {
		t.Fatalf("expected intro prompt, got %q", reply.Text)
	}
	if got := e.StageOf(chat); got != string(StageIntro) {
		t.Fatalf("stage = %q", got)
	}
	if len(store.appended) != 0 {
		t.Fatalf("back navigation must not persist, got %d records", len(store.appended))
	}
	// Previously entered data survives the back jump.
	e.HandleIntro(ctx, chat, callback.IntroYes)
	reply, _ = e.HandleText(ctx, chat, "Jane Doe")
	if !strings.Contains(reply.Text, "Jane Doe") {
		t.Fatalf("name lost after back: %q", reply.Text)
	}
}

func TestManagementCommandAbandonsSession(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	e.Begin(ctx, chat)
	e.HandleIntro(ctx, chat, callback.IntroYes)
	e.HandleText(ctx, chat, "Jane Doe")

	// Switching to a management command mid-conversation drops the session.
	e.Abandon(ctx, chat)
	if e.Active(chat) {
		t.Fatal("session must be discarded on abandon")
	}
	if len(store.appended) != 0 {
		t.Fatalf("abandon must not persist, got %d records", len(store.appended))
	}

	// Free text after the abandon is no longer swallowed as dialog input.
	reply, err := e.HandleText(ctx, chat, "hello")
	if err != nil {
		t.Fatalf("text after abandon: %v", err)
	}
	if reply.Text != "" {
		t.Fatalf("text after abandon must be ignored, got %q", reply.Text)
	}

	// Idle chats are a no-op.
	e.Abandon(ctx, chat)
	if e.Active(chat) {
		t.Fatal("abandon on an idle chat must not create a session")
	}
}

func TestStaleButtonGetsGenericReply(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	e := newTestEngine(store)

	reply, err := e.HandleConfirmation(ctx, chat, true)
	if err != nil {
		t.Fatalf("stale confirmation: %v", err)
	}
	if !strings.Contains(reply.Text, "went wrong") {
		t.Fatalf("expected generic error, got %q", reply.Text)
	}
	if len(store.appended) != 0 {
		t.Fatalf("stale press must not persist, got %d records", len(store.appended))
	}
}

func TestPersistFailureKeepsNoRecordAndSession(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{appendErr: errors.New("disk full")}
	e := newTestEngine(store)

	e.Begin(ctx, chat)
	e.HandleIntro(ctx, chat, callback.IntroYes)
	e.HandleText(ctx, chat, "Jane Doe")
	e.HandleText(ctx, chat, "anything")
	e.HandlePresentation(ctx, chat, true)
	e.HandleInvitation(ctx, chat, true)

	if _, err := e.HandleConfirmation(ctx, chat, true); err == nil {
		t.Fatal("expected persistence error")
	}
	if len(store.appended) != 0 {
		t.Fatalf("appended %d records, want 0", len(store.appended))
	}

	// The handler boundary aborts on error: nothing is persisted afterwards.
	e.Abort(ctx, chat)
	if e.Active(chat) {
		t.Fatal("session must be gone after abort")
	}
}
