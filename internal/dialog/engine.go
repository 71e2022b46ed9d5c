// Package dialog implements the five-stage screening conversation:
// Intro -> Research -> Presentation -> Invitation -> Confirmation. One
// session per chat; every terminal transition persists a candidate record
// and discards the session.
package dialog

import (
	"context"
	"time"

	"github.com/rodanhr/hrbot/core/logger"
	tghelpers "github.com/rodanhr/hrbot/core/telegram/helpers"
	"github.com/rodanhr/hrbot/core/telegram/state"
	"github.com/rodanhr/hrbot/core/telegram/ui"
	"github.com/rodanhr/hrbot/internal/callback"
	"github.com/rodanhr/hrbot/internal/catalog"
	"github.com/rodanhr/hrbot/internal/domain"
	"log/slog"
)

// Store is the slice of the record store the engine needs.
type Store interface {
	LoadVacancies(ctx context.Context) ([]domain.Vacancy, error)
	AppendCandidate(ctx context.Context, c domain.Candidate) error
}

// Engine drives candidate conversations. Safe for concurrent use across
// chats; each chat owns its session exclusively.
type Engine struct {
	sessions *state.Manager[Session]
	store    Store
	cat      *catalog.Catalog
	company  string

	now func() time.Time
}

// NewEngine constructs a conversation engine over the given store and catalogs.
func NewEngine(store Store, cat *catalog.Catalog, company string) *Engine {
	return &Engine{
		sessions: state.NewManager[Session](),
		store:    store,
		cat:      cat,
		company:  company,
		now:      time.Now,
	}
}

// Active reports whether the chat has a conversation in progress.
func (e *Engine) Active(chatID int64) bool {
	return e.sessions.Active(chatID)
}

// StageOf returns the chat's current stage name, or empty when idle.
// Implements the router's stage-gating interface.
func (e *Engine) StageOf(chatID int64) string {
	s, ok := e.sessions.Get(chatID)
	if !ok {
		return ""
	}
	return string(s.Stage)
}

// Begin starts a fresh conversation, purging any stale session for the chat.
func (e *Engine) Begin(ctx context.Context, chatID int64) ui.Reply {
	e.sessions.Clear(chatID)
	e.sessions.Put(chatID, &Session{
		Stage:     StageIntro,
		VacancyID: 0,
		StartedAt: e.now(),
	})
	logger.Info(ctx, "service.dialog", "dialog.start",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
	)
	return e.introReply()
}

// Abort discards the chat's session without persisting anything. Called by
// the handler boundary after an unexpected failure mid-conversation.
func (e *Engine) Abort(ctx context.Context, chatID int64) {
	if e.sessions.Active(chatID) {
		logger.Warn(ctx, "service.dialog", "dialog.abort",
			slog.Int64("chat_id", chatID),
		)
	}
	e.sessions.Clear(chatID)
}

// Abandon discards the chat's session when the chat switches to a management
// command mid-conversation. Nothing is persisted. Idle chats are a no-op.
func (e *Engine) Abandon(ctx context.Context, chatID int64) {
	if !e.sessions.Active(chatID) {
		return
	}
	logger.Info(ctx, "service.dialog", "dialog.abandoned",
		slog.Int64("chat_id", chatID),
	)
	e.sessions.Clear(chatID)
}

// HandleIntro processes the answer to the opening prompt.
func (e *Engine) HandleIntro(ctx context.Context, chatID int64, choice callback.IntroChoice) (ui.Reply, error) {
	s, ok := e.sessions.Get(chatID)
	if !ok || s.Stage != StageIntro {
		return e.staleReply(), nil
	}

	switch choice {
	case callback.IntroYes, callback.IntroCalledBack:
		s.Stage = StageResearch
		return ui.Reply{Text: e.script().NamePrompt}, nil

	case callback.IntroNo:
		// Stay in Intro, narrow the choice down
		return ui.Reply{
			Text: e.script().ContactLater,
			Buttons: [][]ui.Button{
				{ui.Btn("✅ Yes, I applied", callback.IntroAnswer{Choice: callback.IntroCalledBack}.Token())},
				{ui.Btn("❌ Maybe later", callback.IntroAnswer{Choice: callback.IntroStillNo}.Token())},
			},
		}, nil

	case callback.IntroStillNo:
		// The candidate declined before any data was collected; nothing
		// to persist.
		e.sessions.Clear(chatID)
		logger.Info(ctx, "service.dialog", "dialog.end",
			slog.String("status", "ok"),
			slog.Int64("chat_id", chatID),
			slog.String("outcome", "ok"),
			slog.String("stage", string(StageIntro)),
		)
		return e.withMainMenu(ui.Reply{Text: e.script().Farewell}), nil
	}
	return e.staleReply(), nil
}

// HandleText routes free text into the stage that accepts it. The zero
// Reply means the text was ignored for the current stage.
func (e *Engine) HandleText(ctx context.Context, chatID int64, text string) (ui.Reply, error) {
	s, ok := e.sessions.Get(chatID)
	if !ok {
		return ui.Reply{}, nil
	}

	switch s.Stage {
	case StageResearch:
		s.CandidateName = text
		s.Stage = StagePresentation
		return e.researchReply(s.CandidateName), nil

	case StagePresentation:
		s.Preferences = text
		s.Stage = StageInvitation
		return e.presentationReply(ctx, s)

	case StageConfirmation:
		s.PreferredTime = text
		s.Confirmation = ConfirmationAltTime
		name := displayName(s.CandidateName)
		if err := e.persist(ctx, chatID, s); err != nil {
			return ui.Reply{}, err
		}
		return e.withMainMenu(ui.Reply{
			Text: catalog.Render(e.script().AltTime, e.company, name),
		}), nil
	}

	// Intro and Invitation accept button input only.
	return ui.Reply{}, nil
}

// HandlePresentation processes the interest decision after the vacancy pitch.
func (e *Engine) HandlePresentation(ctx context.Context, chatID int64, yes bool) (ui.Reply, error) {
	s, ok := e.sessions.Get(chatID)
	if !ok || s.Stage != StageInvitation {
		return e.staleReply(), nil
	}

	if yes {
		s.Interest = InterestYes
		return e.invitationReply(s.CandidateName), nil
	}

	s.Interest = InterestNo
	name := displayName(s.CandidateName)
	if err := e.persist(ctx, chatID, s); err != nil {
		return ui.Reply{}, err
	}
	return e.withMainMenu(ui.Reply{
		Text: catalog.Render(e.script().NotInterested, e.company, name),
	}), nil
}

// HandleInvitation processes the reply to the interview invitation.
func (e *Engine) HandleInvitation(ctx context.Context, chatID int64, yes bool) (ui.Reply, error) {
	s, ok := e.sessions.Get(chatID)
	if !ok || s.Stage != StageInvitation {
		return e.staleReply(), nil
	}

	s.Stage = StageConfirmation
	if yes {
		s.Invitation = InvitationAccepted
		return e.confirmationReply(), nil
	}

	// The candidate may still send a preferred time as free text, so the
	// session stays alive in Confirmation.
	s.Invitation = InvitationDeclined
	name := displayName(s.CandidateName)
	return e.withMainMenu(ui.Reply{
		Text: catalog.Render(e.script().ThinkItOver, e.company, name),
	}), nil
}

// HandleConfirmation processes the final yes/no on the interview slot.
func (e *Engine) HandleConfirmation(ctx context.Context, chatID int64, yes bool) (ui.Reply, error) {
	s, ok := e.sessions.Get(chatID)
	if !ok || s.Stage != StageConfirmation {
		return e.staleReply(), nil
	}

	name := displayName(s.CandidateName)
	var text string
	if yes {
		s.Confirmation = ConfirmationConfirmed
		text = catalog.Render(e.script().Confirmed, e.company, name)
	} else {
		s.Confirmation = ConfirmationCancelled
		text = catalog.Render(e.script().Cancelled, e.company, name)
	}
	if err := e.persist(ctx, chatID, s); err != nil {
		return ui.Reply{}, err
	}
	return e.withMainMenu(ui.Reply{Text: text}), nil
}

// HandleBack re-renders a previous prompt from session scratch data. It only
// moves the rendering, never re-runs side effects and never persists.
func (e *Engine) HandleBack(ctx context.Context, chatID int64, target callback.BackTarget) (ui.Reply, error) {
	s, ok := e.sessions.Get(chatID)
	if !ok {
		return e.staleReply(), nil
	}

	switch target {
	case callback.BackIntro:
		s.Stage = StageIntro
		return e.introReply(), nil
	case callback.BackResearch:
		s.Stage = StagePresentation
		return e.researchReply(s.CandidateName), nil
	case callback.BackPresentation:
		s.Stage = StageInvitation
		return e.presentationReply(ctx, s)
	case callback.BackInvitation:
		s.Stage = StageInvitation
		return e.invitationReply(s.CandidateName), nil
	}
	return e.staleReply(), nil
}

// persist derives the candidate's status, appends the record, and discards
// the session. The vacancy title falls back to the first catalog entry when
// the session's index is stale.
func (e *Engine) persist(ctx context.Context, chatID int64, s *Session) error {
	vacancies, err := e.store.LoadVacancies(ctx)
	if err != nil {
		return err
	}
	title := "Unknown vacancy"
	if len(vacancies) > 0 {
		if s.VacancyID >= 0 && s.VacancyID < len(vacancies) {
			title = vacancies[s.VacancyID].Title
		} else {
			title = vacancies[0].Title
		}
	}

	record := domain.Candidate{
		Name:          persistedName(s.CandidateName),
		Vacancy:       title,
		Status:        deriveStatus(s),
		CreatedAt:     s.StartedAt,
		Interest:      s.Interest,
		Invitation:    s.Invitation,
		Confirmation:  s.Confirmation,
		PreferredTime: s.PreferredTime,
	}
	if t, ok := tghelpers.ParseFlexibleDate(s.PreferredTime); ok {
		record.PreferredAt = &t
	}
	if err := e.store.AppendCandidate(ctx, record); err != nil {
		return err
	}

	e.sessions.Clear(chatID)
	logger.Info(ctx, "service.dialog", "candidate.persisted",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
		slog.String("outcome", "ok"),
	)
	return nil
}

func deriveStatus(s *Session) string {
	switch {
	case s.Confirmation == ConfirmationConfirmed || s.Confirmation == ConfirmationAltTime:
		return domain.StatusInvited
	case s.Interest == InterestNo:
		return domain.StatusDeclined
	default:
		return domain.StatusUndecided
	}
}

func (e *Engine) script() catalog.Scripts { return e.cat.Scripts }

func displayName(name string) string {
	if name == "" {
		return "Candidate"
	}
	return name
}

func persistedName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
