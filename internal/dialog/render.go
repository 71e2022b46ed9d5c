package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rodanhr/hrbot/core/telegram/ui"
	"github.com/rodanhr/hrbot/internal/callback"
	"github.com/rodanhr/hrbot/internal/catalog"
	"github.com/rodanhr/hrbot/internal/domain"
)

func mainMenuButton() ui.Button {
	return ui.Btn("🏠 Back to main menu", callback.MainMenu{}.Token())
}

func backButton(target callback.BackTarget) ui.Button {
	return ui.Btn("🔙 Back", callback.DialogBack{Target: target}.Token())
}

func (e *Engine) withMainMenu(r ui.Reply) ui.Reply {
	return r.WithRow(mainMenuButton())
}

// staleReply answers button presses that no longer match an active session,
// for example taps on buttons of a finished conversation.
func (e *Engine) staleReply() ui.Reply {
	return e.withMainMenu(ui.Reply{Text: e.script().GenericError})
}

func (e *Engine) introReply() ui.Reply {
	return ui.Reply{
		Text: catalog.Render(e.script().Intro, e.company, ""),
		Buttons: [][]ui.Button{
			{ui.Btn("✅ Yes", callback.IntroAnswer{Choice: callback.IntroYes}.Token())},
			{ui.Btn("❌ No", callback.IntroAnswer{Choice: callback.IntroNo}.Token())},
		},
	}
}

func (e *Engine) researchReply(name string) ui.Reply {
	return ui.Reply{
		Text: catalog.Render(e.script().Research, e.company, displayName(name)),
		Buttons: [][]ui.Button{
			{backButton(callback.BackIntro)},
		},
	}
}

// presentationReply renders the vacancy pitch with the interest question.
// The session's vacancy index falls back to the first catalog entry when out
// of range.
func (e *Engine) presentationReply(ctx context.Context, s *Session) (ui.Reply, error) {
	vacancies, err := e.store.LoadVacancies(ctx)
	if err != nil {
		return ui.Reply{}, err
	}

	var b strings.Builder
	b.WriteString(catalog.Render(e.script().Presentation, e.company, displayName(s.CandidateName)))
	if len(vacancies) > 0 {
		v := vacancies[0]
		if s.VacancyID >= 0 && s.VacancyID < len(vacancies) {
			v = vacancies[s.VacancyID]
		}
		b.WriteString("\n\n")
		b.WriteString(formatVacancy(v))
	}
	b.WriteString("\n\nAre you interested in this role?")

	return ui.Reply{
		Text: b.String(),
		Buttons: [][]ui.Button{
			{ui.Btn("✅ Yes", callback.PresentationAnswer{Yes: true}.Token())},
			{ui.Btn("❌ No", callback.PresentationAnswer{Yes: false}.Token())},
			{backButton(callback.BackResearch)},
		},
	}, nil
}

func (e *Engine) invitationReply(name string) ui.Reply {
	return ui.Reply{
		Text: catalog.Render(e.script().Invitation, e.company, displayName(name)),
		Buttons: [][]ui.Button{
			{ui.Btn("✅ Yes", callback.InvitationAnswer{Yes: true}.Token())},
			{ui.Btn("❌ No, it does not work for me", callback.InvitationAnswer{Yes: false}.Token())},
			{backButton(callback.BackPresentation)},
		},
	}
}

func (e *Engine) confirmationReply() ui.Reply {
	return ui.Reply{
		Text: e.script().Confirmation,
		Buttons: [][]ui.Button{
			{ui.Btn("✅ Yes", callback.ConfirmationAnswer{Yes: true}.Token())},
			{ui.Btn("❌ No", callback.ConfirmationAnswer{Yes: false}.Token())},
			{backButton(callback.BackInvitation)},
		},
	}
}

func formatVacancy(v domain.Vacancy) string {
	return fmt.Sprintf("* %s\n💼 %s\n💰 Salary: %s", v.Title, v.Description, v.Salary)
}
