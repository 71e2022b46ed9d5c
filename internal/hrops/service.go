// Package hrops implements the HR management operations that live outside
// the candidate conversation: vacancy listing, status and rejection-reason
// setting, list clearing, and analytics.
package hrops

import (
	"context"
	"errors"
	"fmt"

	"github.com/rodanhr/hrbot/core/logger"
	"github.com/rodanhr/hrbot/core/telegram/state"
	"github.com/rodanhr/hrbot/core/telegram/ui"
	"github.com/rodanhr/hrbot/internal/analytics"
	"github.com/rodanhr/hrbot/internal/callback"
	"github.com/rodanhr/hrbot/internal/catalog"
	"github.com/rodanhr/hrbot/internal/domain"
	"github.com/rodanhr/hrbot/internal/storage"
	"log/slog"
)

// Store is the slice of the record store the management service needs.
type Store interface {
	LoadCandidates(ctx context.Context) ([]domain.Candidate, error)
	MutateCandidate(ctx context.Context, idx int, fn func(*domain.Candidate)) error
	ClearCandidates(ctx context.Context) error
	LoadVacancies(ctx context.Context) ([]domain.Vacancy, error)
	ExportAnalytics(ctx context.Context, candidates []domain.Candidate) error
}

// NotFoundError reports an index that no longer exists in its catalog or
// collection. It is recoverable: the user gets a message naming the entity.
type NotFoundError struct {
	Entity string
	Index  int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("hrops: %s %d not found", e.Entity, e.Index)
}

// Code identifies the error class for handler summary logs.
func (e *NotFoundError) Code() string { return "NOT_FOUND" }

// Message is the chat-visible text for the failure.
func (e *NotFoundError) Message() string {
	switch e.Entity {
	case "candidate":
		return fmt.Sprintf("Candidate %d was not found. The list may have changed.", e.Index+1)
	case "status":
		return fmt.Sprintf("Unknown status (index %d).", e.Index)
	case "reason":
		return fmt.Sprintf("Unknown rejection reason (index %d).", e.Index)
	default:
		return "The requested entry was not found."
	}
}

// Selection correlates a multi-step pick-candidate/pick-action/pick-value
// callback sequence for one chat.
type Selection struct {
	CandidateIndex int
}

// Service executes the management operations.
type Service struct {
	store      Store
	cat        *catalog.Catalog
	selections *state.Manager[Selection]
}

// NewService constructs the management service.
func NewService(store Store, cat *catalog.Catalog) *Service {
	return &Service{
		store:      store,
		cat:        cat,
		selections: state.NewManager[Selection](),
	}
}

func mainMenuButton() ui.Button {
	return ui.Btn("🏠 Back to main menu", callback.MainMenu{}.Token())
}

// Vacancies renders the current vacancy listing.
func (s *Service) Vacancies(ctx context.Context) (ui.Reply, error) {
	vacancies, err := s.store.LoadVacancies(ctx)
	if err != nil {
		return ui.Reply{}, err
	}
	if len(vacancies) == 0 {
		return ui.Reply{Text: "There are no open vacancies right now."}, nil
	}
	text := "📋 Open vacancies:\n\n"
	for _, v := range vacancies {
		text += fmt.Sprintf("* %s\n💼 %s\n💰 Salary: %s\n\n", v.Title, v.Description, v.Salary)
	}
	return ui.Reply{Text: text}.WithRow(mainMenuButton()), nil
}

// CandidateList renders the candidate picker for the given management action.
func (s *Service) CandidateList(ctx context.Context, action callback.ManageAction) (ui.Reply, error) {
	candidates, err := s.store.LoadCandidates(ctx)
	if err != nil {
		return ui.Reply{}, err
	}
	if len(candidates) == 0 {
		return ui.Reply{Text: "No candidate records yet."}, nil
	}

	title := "Pick a candidate to set a status:"
	if action == callback.ManageReason {
		title = "Pick a candidate to set a rejection reason:"
	}
	reply := ui.Reply{Text: title}
	for i, c := range candidates {
		token := callback.SelectCandidate{Index: i, Action: action}.Token()
		reply = reply.WithRow(ui.Btn(fmt.Sprintf("👤 %s - %s", c.Name, c.Vacancy), token))
	}
	if action == callback.ManageStatus {
		reply = reply.WithRow(ui.Btn("🗑️ Clear the list", callback.ClearRequest{}.Token()))
	}
	return reply.WithRow(mainMenuButton()), nil
}

// ActionMenu renders the top-level management action picker.
func (s *Service) ActionMenu() ui.Reply {
	return ui.Reply{Text: "Pick an action:"}.
		WithRow(ui.Btn("📋 Set a status", callback.BackToCandidates{Action: callback.ManageStatus}.Token())).
		WithRow(ui.Btn("❌ Set a rejection reason", callback.BackToCandidates{Action: callback.ManageReason}.Token())).
		WithRow(mainMenuButton())
}

// BackToCandidates re-renders the management screen named by action.
func (s *Service) BackToCandidates(ctx context.Context, action callback.ManageAction) (ui.Reply, error) {
	if action == callback.ManageList {
		return s.ActionMenu(), nil
	}
	return s.CandidateList(ctx, action)
}

// Select remembers the picked candidate for the chat and renders the
// follow-up menu: the status list or the rejection-origin picker.
func (s *Service) Select(ctx context.Context, chatID int64, idx int, action callback.ManageAction) (ui.Reply, error) {
	candidates, err := s.store.LoadCandidates(ctx)
	if err != nil {
		return ui.Reply{}, err
	}
	if idx < 0 || idx >= len(candidates) {
		return ui.Reply{}, &NotFoundError{Entity: "candidate", Index: idx}
	}
	s.selections.Put(chatID, &Selection{CandidateIndex: idx})
	name := candidates[idx].Name

	if action == callback.ManageStatus {
		reply := ui.Reply{Text: fmt.Sprintf("Pick a status for %s:", name)}
		for i, entry := range s.cat.Statuses {
			token := callback.SetStatus{Index: idx, StatusIndex: i}.Token()
			reply = reply.WithRow(ui.Btn(entry.Button(), token))
		}
		back := callback.BackToCandidates{Action: callback.ManageStatus}.Token()
		return reply.WithRow(ui.Btn("🔙 Back", back)), nil
	}

	back := callback.BackToCandidates{Action: callback.ManageReason}.Token()
	return ui.Reply{Text: fmt.Sprintf("Who rejected %s?", name)}.
		WithRow(ui.Btn("🏢 Rejected by the company", callback.PickOrigin{Index: idx, Origin: domain.OriginCompany}.Token())).
		WithRow(ui.Btn("👨‍💼 Rejected by the candidate", callback.PickOrigin{Index: idx, Origin: domain.OriginCandidate}.Token())).
		WithRow(ui.Btn("🔙 Back", back)), nil
}

// ApplyStatus sets the chosen status catalog entry on the candidate at idx.
// Out-of-range indices leave the collection untouched.
func (s *Service) ApplyStatus(ctx context.Context, chatID int64, idx, statusIdx int) (ui.Reply, error) {
	if statusIdx < 0 || statusIdx >= len(s.cat.Statuses) {
		return ui.Reply{}, &NotFoundError{Entity: "status", Index: statusIdx}
	}
	status := s.cat.Statuses[statusIdx].Label

	s.checkSelection(ctx, chatID, idx)
	var name string
	err := s.store.MutateCandidate(ctx, idx, func(c *domain.Candidate) {
		c.Status = status
		name = c.Name
	})
	if err != nil {
		return ui.Reply{}, mapIndexErr(err, idx)
	}
	s.selections.Clear(chatID)

	logger.Info(ctx, "service.candidates", "status.set",
		slog.String("status", "ok"),
		slog.Int("candidate_idx", idx),
		slog.Int("status_idx", statusIdx),
	)
	return ui.Reply{Text: fmt.Sprintf("✅ Status for %s set to: %s", name, status)}.
		WithRow(ui.Btn("📋 Back to the candidate list", callback.BackToCandidates{Action: callback.ManageStatus}.Token())).
		WithRow(ui.Btn("🔄 Set another status", callback.SelectCandidate{Index: idx, Action: callback.ManageStatus}.Token())).
		WithRow(mainMenuButton()), nil
}

// PickReasonOrigin renders the rejection reason list of the chosen origin.
func (s *Service) PickReasonOrigin(ctx context.Context, idx int, origin domain.Origin) (ui.Reply, error) {
	candidates, err := s.store.LoadCandidates(ctx)
	if err != nil {
		return ui.Reply{}, err
	}
	if idx < 0 || idx >= len(candidates) {
		return ui.Reply{}, &NotFoundError{Entity: "candidate", Index: idx}
	}

	reply := ui.Reply{Text: fmt.Sprintf("Pick a rejection reason for %s:", candidates[idx].Name)}
	for i, entry := range s.cat.ReasonsFor(origin) {
		token := callback.SetReason{Index: idx, Origin: origin, ReasonIndex: i}.Token()
		reply = reply.WithRow(ui.Btn(entry.Button(), token))
	}
	back := callback.SelectCandidate{Index: idx, Action: callback.ManageReason}.Token()
	return reply.WithRow(ui.Btn("🔙 Back", back)), nil
}

// ApplyReason sets the chosen rejection reason on the candidate at idx.
func (s *Service) ApplyReason(ctx context.Context, chatID int64, idx int, origin domain.Origin, reasonIdx int) (ui.Reply, error) {
	reasons := s.cat.ReasonsFor(origin)
	if reasonIdx < 0 || reasonIdx >= len(reasons) {
		return ui.Reply{}, &NotFoundError{Entity: "reason", Index: reasonIdx}
	}
	reason := reasons[reasonIdx].Label

	s.checkSelection(ctx, chatID, idx)
	var name string
	err := s.store.MutateCandidate(ctx, idx, func(c *domain.Candidate) {
		c.Rejection = &domain.RejectionReason{Origin: origin, Reason: reason}
		name = c.Name
	})
	if err != nil {
		return ui.Reply{}, mapIndexErr(err, idx)
	}
	s.selections.Clear(chatID)

	logger.Info(ctx, "service.candidates", "reason.set",
		slog.String("status", "ok"),
		slog.Int("candidate_idx", idx),
		slog.String("origin", string(origin)),
		slog.Int("reason_idx", reasonIdx),
	)
	return ui.Reply{Text: fmt.Sprintf("✅ Rejection reason for %s set to: %s", name, reason)}.
		WithRow(ui.Btn("📋 Back to the candidate list", callback.BackToCandidates{Action: callback.ManageReason}.Token())).
		WithRow(ui.Btn("🔄 Set another reason", callback.SelectCandidate{Index: idx, Action: callback.ManageReason}.Token())).
		WithRow(mainMenuButton()), nil
}

// ClearRequest renders the mandatory confirmation step. A single tap never
// destroys data.
func (s *Service) ClearRequest() ui.Reply {
	return ui.Reply{Text: "⚠️ Do you really want to clear the whole candidate list? This cannot be undone."}.
		WithRow(ui.Btn("✅ Yes, clear the list", callback.ClearConfirm{}.Token())).
		WithRow(ui.Btn("❌ No, keep it", callback.BackToCandidates{Action: callback.ManageStatus}.Token()))
}

// ClearConfirmed wipes the candidate collection after explicit confirmation.
func (s *Service) ClearConfirmed(ctx context.Context) (ui.Reply, error) {
	if err := s.store.ClearCandidates(ctx); err != nil {
		return ui.Reply{}, err
	}
	return ui.Reply{Text: "✅ The candidate list has been cleared."}.WithRow(mainMenuButton()), nil
}

// Analytics renders the aggregate report and exports the CSV as a side
// effect; an export failure is reported, never silently dropped.
func (s *Service) Analytics(ctx context.Context) (ui.Reply, error) {
	candidates, err := s.store.LoadCandidates(ctx)
	if err != nil {
		return ui.Reply{}, err
	}
	stats := analytics.Compute(candidates, s.cat.StatusLabels())
	if stats == nil {
		return ui.Reply{Text: analytics.NoData}, nil
	}

	reply := ui.Reply{Text: stats.Text()}.WithRow(mainMenuButton())
	if err := s.store.ExportAnalytics(ctx, candidates); err != nil {
		logger.Error(ctx, "service.analytics", "export.fail",
			slog.String("err", err.Error()),
		)
		reply.FollowUps = append(reply.FollowUps, "❌ Failed to export the analytics data.")
	} else {
		reply.FollowUps = append(reply.FollowUps, "📊 Analytics data exported to the CSV file.")
	}
	return reply, nil
}

// checkSelection warns when the applied index differs from the one picked
// earlier in this chat. The token index stays authoritative.
func (s *Service) checkSelection(ctx context.Context, chatID int64, idx int) {
	if sel, ok := s.selections.Get(chatID); ok && sel.CandidateIndex != idx {
		logger.Warn(ctx, "service.candidates", "selection.mismatch",
			slog.Int64("chat_id", chatID),
			slog.Int("candidate_idx", idx),
			slog.Int("selected_idx", sel.CandidateIndex),
		)
	}
}

func mapIndexErr(err error, idx int) error {
	if errors.Is(err, storage.ErrIndexOutOfRange) {
		return &NotFoundError{Entity: "candidate", Index: idx}
	}
	return err
}
