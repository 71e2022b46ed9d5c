// Package callback implements the inline-button token protocol. Every button
// the bot sends carries a compact underscore-delimited token; on press the
// token is decoded back into one of a closed set of action values before any
// handler runs. Tokens are stable across restarts because previously sent
// buttons stay clickable.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rodanhr/hrbot/internal/domain"
)

// ErrMalformedToken marks a token whose leading keyword is known but whose
// segment count or types do not match any shape of that keyword.
var ErrMalformedToken = errors.New("callback: malformed token")

// MalformedTokenError carries the offending raw token.
type MalformedTokenError struct {
	Raw string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("callback: malformed token %q", e.Raw)
}

func (e *MalformedTokenError) Is(target error) bool { return target == ErrMalformedToken }

// Code identifies the error class for handler summary logs.
func (e *MalformedTokenError) Code() string { return "MALFORMED_TOKEN" }

// ManageAction selects which management flow a candidate was picked for.
type ManageAction string

const (
	ManageList   ManageAction = "list"
	ManageStatus ManageAction = "status"
	ManageReason ManageAction = "reason"
)

// IntroChoice is the candidate's answer to the opening prompt.
type IntroChoice string

const (
	IntroYes        IntroChoice = "yes"
	IntroNo         IntroChoice = "no"
	IntroCalledBack IntroChoice = "called_back"
	IntroStillNo    IntroChoice = "still_no"
)

// BackTarget names the dialog prompt a Back button returns to.
type BackTarget string

const (
	BackIntro        BackTarget = "intro"
	BackResearch     BackTarget = "research"
	BackPresentation BackTarget = "presentation"
	BackInvitation   BackTarget = "invitation"
)

// Action discriminants used as dispatch-table keys.
const (
	KindMainMenu         = "start"
	KindClearRequest     = "clear_candidates"
	KindClearConfirm     = "confirm_clear_candidates"
	KindBackToCandidates = "back_to_candidates"
	KindSelectCandidate  = "candidate"
	KindSetStatus        = "set_status"
	KindPickOrigin       = "reason_type"
	KindSetReason        = "set_reason"
	KindIntro            = "intro"
	KindPresentation     = "presentation"
	KindInvitation       = "invitation"
	KindConfirmation     = "confirmation"
	KindDialogBack       = "dialog_back"
	KindUnrecognized     = "unrecognized"
)

// Action is one decoded button press. The set of implementations is closed;
// Token re-encodes the action to the exact wire string it was decoded from.
type Action interface {
	Kind() string
	Token() string
}

// MainMenu returns the user to the main menu.
type MainMenu struct{}

func (MainMenu) Kind() string  { return KindMainMenu }
func (MainMenu) Token() string { return "start" }

// ClearRequest asks for confirmation before wiping the candidate collection.
type ClearRequest struct{}

func (ClearRequest) Kind() string  { return KindClearRequest }
func (ClearRequest) Token() string { return "clear_candidates" }

// ClearConfirm is the explicit second step that actually wipes the collection.
type ClearConfirm struct{}

func (ClearConfirm) Kind() string  { return KindClearConfirm }
func (ClearConfirm) Token() string { return "confirm_clear_candidates" }

// BackToCandidates re-renders a prior management screen.
type BackToCandidates struct {
	Action ManageAction
}

func (BackToCandidates) Kind() string    { return KindBackToCandidates }
func (a BackToCandidates) Token() string { return "back_to_candidates_" + string(a.Action) }

// SelectCandidate picks a candidate by index for a follow-up action.
type SelectCandidate struct {
	Index  int
	Action ManageAction
}

func (SelectCandidate) Kind() string { return KindSelectCandidate }
func (a SelectCandidate) Token() string {
	return fmt.Sprintf("candidate_%d_%s", a.Index, a.Action)
}

// SetStatus applies the chosen status catalog entry to a candidate.
type SetStatus struct {
	Index       int
	StatusIndex int
}

func (SetStatus) Kind() string { return KindSetStatus }
func (a SetStatus) Token() string {
	return fmt.Sprintf("set_status_%d_%d", a.Index, a.StatusIndex)
}

// PickOrigin chooses which rejection-reason catalog to show for a candidate.
type PickOrigin struct {
	Index  int
	Origin domain.Origin
}

func (PickOrigin) Kind() string { return KindPickOrigin }
func (a PickOrigin) Token() string {
	return fmt.Sprintf("reason_type_%d_%s", a.Index, a.Origin)
}

// SetReason applies the chosen rejection reason to a candidate.
type SetReason struct {
	Index       int
	Origin      domain.Origin
	ReasonIndex int
}

func (SetReason) Kind() string { return KindSetReason }
func (a SetReason) Token() string {
	return fmt.Sprintf("set_reason_%d_%s_%d", a.Index, a.Origin, a.ReasonIndex)
}

// IntroAnswer is a button press on the opening prompt.
type IntroAnswer struct {
	Choice IntroChoice
}

func (IntroAnswer) Kind() string    { return KindIntro }
func (a IntroAnswer) Token() string { return "intro_" + string(a.Choice) }

// PresentationAnswer is the interest decision after the vacancy pitch.
type PresentationAnswer struct {
	Yes bool
}

func (PresentationAnswer) Kind() string { return KindPresentation }
func (a PresentationAnswer) Token() string {
	return "presentation_" + yesNo(a.Yes)
}

// InvitationAnswer is the reply to the interview invitation.
type InvitationAnswer struct {
	Yes bool
}

func (InvitationAnswer) Kind() string    { return KindInvitation }
func (a InvitationAnswer) Token() string { return "invitation_" + yesNo(a.Yes) }

// ConfirmationAnswer confirms or cancels the proposed interview slot.
type ConfirmationAnswer struct {
	Yes bool
}

func (ConfirmationAnswer) Kind() string    { return KindConfirmation }
func (a ConfirmationAnswer) Token() string { return "confirmation_" + yesNo(a.Yes) }

// DialogBack re-renders a previous dialog prompt without side effects.
type DialogBack struct {
	Target BackTarget
}

func (DialogBack) Kind() string    { return KindDialogBack }
func (a DialogBack) Token() string { return "back_to_" + string(a.Target) }

// Unrecognized is the sentinel for tokens with an unknown leading keyword.
// The router logs it and replies generically; it is not an error.
type Unrecognized struct {
	Raw string
}

func (Unrecognized) Kind() string    { return KindUnrecognized }
func (a Unrecognized) Token() string { return a.Raw }

func yesNo(yes bool) string {
	if yes {
		return "yes"
	}
	return "no"
}

// Decode parses a wire token into an Action. A known leading keyword with a
// bad shape yields a MalformedTokenError; an unknown leading keyword yields
// the Unrecognized sentinel, never an error.
func Decode(raw string) (Action, error) {
	seg := strings.Split(raw, "_")
	malformed := func() (Action, error) { return nil, &MalformedTokenError{Raw: raw} }

	switch seg[0] {
	case "start":
		if len(seg) != 1 {
			return malformed()
		}
		return MainMenu{}, nil

	case "clear":
		if len(seg) != 2 || seg[1] != "candidates" {
			return malformed()
		}
		return ClearRequest{}, nil

	case "confirm":
		if len(seg) != 3 || seg[1] != "clear" || seg[2] != "candidates" {
			return malformed()
		}
		return ClearConfirm{}, nil

	case "back":
		if len(seg) < 3 || seg[1] != "to" {
			return malformed()
		}
		if seg[2] == "candidates" {
			if len(seg) != 4 {
				return malformed()
			}
			action := ManageAction(seg[3])
			switch action {
			case ManageList, ManageStatus, ManageReason:
				return BackToCandidates{Action: action}, nil
			}
			return malformed()
		}
		if len(seg) != 3 {
			return malformed()
		}
		target := BackTarget(seg[2])
		switch target {
		case BackIntro, BackResearch, BackPresentation, BackInvitation:
			return DialogBack{Target: target}, nil
		}
		return malformed()

	case "candidate":
		if len(seg) != 3 {
			return malformed()
		}
		idx, ok := parseIndex(seg[1])
		if !ok {
			return malformed()
		}
		action := ManageAction(seg[2])
		if action != ManageStatus && action != ManageReason {
			return malformed()
		}
		return SelectCandidate{Index: idx, Action: action}, nil

	case "set":
		if len(seg) < 2 {
			return malformed()
		}
		switch seg[1] {
		case "status":
			if len(seg) != 4 {
				return malformed()
			}
			idx, ok1 := parseIndex(seg[2])
			statusIdx, ok2 := parseIndex(seg[3])
			if !ok1 || !ok2 {
				return malformed()
			}
			return SetStatus{Index: idx, StatusIndex: statusIdx}, nil
		case "reason":
			if len(seg) != 5 {
				return malformed()
			}
			idx, ok1 := parseIndex(seg[2])
			origin := domain.Origin(seg[3])
			reasonIdx, ok2 := parseIndex(seg[4])
			if !ok1 || !ok2 || !origin.Valid() {
				return malformed()
			}
			return SetReason{Index: idx, Origin: origin, ReasonIndex: reasonIdx}, nil
		}
		return malformed()

	case "reason":
		if len(seg) != 4 || seg[1] != "type" {
			return malformed()
		}
		idx, ok := parseIndex(seg[2])
		origin := domain.Origin(seg[3])
		if !ok || !origin.Valid() {
			return malformed()
		}
		return PickOrigin{Index: idx, Origin: origin}, nil

	case "intro":
		choice := IntroChoice(strings.Join(seg[1:], "_"))
		switch choice {
		case IntroYes, IntroNo, IntroCalledBack, IntroStillNo:
			return IntroAnswer{Choice: choice}, nil
		}
		return malformed()

	case "presentation":
		yes, ok := parseYesNo(seg[1:])
		if !ok {
			return malformed()
		}
		return PresentationAnswer{Yes: yes}, nil

	case "invitation":
		yes, ok := parseYesNo(seg[1:])
		if !ok {
			return malformed()
		}
		return InvitationAnswer{Yes: yes}, nil

	case "confirmation":
		yes, ok := parseYesNo(seg[1:])
		if !ok {
			return malformed()
		}
		return ConfirmationAnswer{Yes: yes}, nil
	}

	return Unrecognized{Raw: raw}, nil
}

func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseYesNo(rest []string) (bool, bool) {
	if len(rest) != 1 {
		return false, false
	}
	switch rest[0] {
	case "yes":
		return true, true
	case "no":
		return false, true
	}
	return false, false
}
