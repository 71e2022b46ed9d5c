package domain

import "time"

// Origin identifies which side a rejection reason came from.
type Origin string

const (
	OriginCompany   Origin = "company"
	OriginCandidate Origin = "candidate"
)

// Valid reports whether the origin is one of the two known values.
func (o Origin) Valid() bool {
	return o == OriginCompany || o == OriginCandidate
}

// Statuses derived automatically when a conversation ends. HR staff may later
// overwrite them with a value from the configured status catalog.
const (
	StatusInvited   = "Invited to interview"
	StatusDeclined  = "Declined"
	StatusUndecided = "Undecided"
)

// RejectionReason records why a candidate was rejected and by whom.
type RejectionReason struct {
	Origin Origin `json:"origin"`
	Reason string `json:"reason"`
}

// Candidate is one screened candidate. Records are addressed by their position
// in the stored collection; the collection is never reordered or filtered
// between a selection and the action applied to it.
type Candidate struct {
	Name      string           `json:"name"`
	Vacancy   string           `json:"vacancy"`
	Status    string           `json:"status"`
	Rejection *RejectionReason `json:"rejection_reason,omitempty"`
	CreatedAt time.Time        `json:"created_at"`

	// Dialog outcome fields, stored verbatim as collected.
	Interest      string `json:"interest,omitempty"`
	Invitation    string `json:"invitation,omitempty"`
	Confirmation  string `json:"confirmation,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`

	// PreferredAt is set when the free-text preferred time parsed as a date.
	// The verbatim text above stays authoritative.
	PreferredAt *time.Time `json:"preferred_at,omitempty"`
}

// Vacancy is a single job listing shown to candidates.
type Vacancy struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Salary      string `json:"salary" yaml:"salary"`
}
