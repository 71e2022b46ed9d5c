package dialog

import "time"

// Stage is the current step of a candidate conversation.
//
// The stage value tracks which inputs are accepted next, not the semantic
// step being shown: the interest decision after the vacancy pitch already
// arrives in StageInvitation. This mirrors the historical flow and must not
// be "fixed" — previously sent buttons depend on it.
type Stage string

const (
	StageIntro        Stage = "intro"
	StageResearch     Stage = "research"
	StagePresentation Stage = "presentation"
	StageInvitation   Stage = "invitation"
	StageConfirmation Stage = "confirmation"
	StageEnded        Stage = "ended"
)

// Recorded answer values. They are persisted verbatim on the candidate
// record, so changing them changes the stored data format.
const (
	InterestYes = "interested"
	InterestNo  = "not interested"

	InvitationAccepted = "accepted"
	InvitationDeclined = "declined, alternative offered"

	ConfirmationConfirmed = "confirmed"
	ConfirmationCancelled = "cancelled"
	ConfirmationAltTime   = "alternative time proposed"
)

// Session is the per-chat conversation scratch state. It is created on
// /dialog, mutated by every stage handler, and discarded entirely when the
// conversation ends — no field survives into the next conversation.
type Session struct {
	Stage Stage

	CandidateName string
	Preferences   string
	Interest      string
	Invitation    string
	Confirmation  string
	PreferredTime string

	// VacancyID selects the vacancy presented to the candidate.
	// Defaults to 0, the first catalog entry.
	VacancyID int

	StartedAt time.Time
}
