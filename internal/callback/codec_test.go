package callback

import (
	"errors"
	"testing"

	"github.com/rodanhr/hrbot/internal/domain"
)

func TestDecodeRoundTrip(t *testing.T) {
	actions := []Action{
		MainMenu{},
		ClearRequest{},
		ClearConfirm{},
		BackToCandidates{Action: ManageList},
		BackToCandidates{Action: ManageStatus},
		BackToCandidates{Action: ManageReason},
		SelectCandidate{Index: 0, Action: ManageStatus},
		SelectCandidate{Index: 17, Action: ManageReason},
		SetStatus{Index: 2, StatusIndex: 3},
		PickOrigin{Index: 4, Origin: domain.OriginCompany},
		PickOrigin{Index: 4, Origin: domain.OriginCandidate},
		SetReason{Index: 1, Origin: domain.OriginCompany, ReasonIndex: 0},
		SetReason{Index: 9, Origin: domain.OriginCandidate, ReasonIndex: 3},
		IntroAnswer{Choice: IntroYes},
		IntroAnswer{Choice: IntroNo},
		IntroAnswer{Choice: IntroCalledBack},
		IntroAnswer{Choice: IntroStillNo},
		PresentationAnswer{Yes: true},
		PresentationAnswer{Yes: false},
		InvitationAnswer{Yes: true},
		InvitationAnswer{Yes: false},
		ConfirmationAnswer{Yes: true},
		ConfirmationAnswer{Yes: false},
		DialogBack{Target: BackIntro},
		DialogBack{Target: BackResearch},
		DialogBack{Target: BackPresentation},
		DialogBack{Target: BackInvitation},
	}

	for _, want := range actions {
		token := want.Token()
		got, err := Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q): %v", token, err)
		}
		if got != want {
			t.Fatalf("Decode(%q) = %#v, want %#v", token, got, want)
		}
		if got.Token() != token {
			t.Fatalf("re-encoded token %q != %q", got.Token(), token)
		}
	}
}

func TestDecodeTokenTable(t *testing.T) {
	cases := []struct {
		raw  string
		want Action
	}{
		{"start", MainMenu{}},
		{"clear_candidates", ClearRequest{}},
		{"confirm_clear_candidates", ClearConfirm{}},
		{"back_to_candidates_list", BackToCandidates{Action: ManageList}},
		{"candidate_3_status", SelectCandidate{Index: 3, Action: ManageStatus}},
		{"set_status_3_1", SetStatus{Index: 3, StatusIndex: 1}},
		{"reason_type_2_company", PickOrigin{Index: 2, Origin: domain.OriginCompany}},
		{"set_reason_2_candidate_0", SetReason{Index: 2, Origin: domain.OriginCandidate, ReasonIndex: 0}},
		{"intro_called_back", IntroAnswer{Choice: IntroCalledBack}},
		{"presentation_no", PresentationAnswer{Yes: false}},
		{"invitation_yes", InvitationAnswer{Yes: true}},
		{"confirmation_no", ConfirmationAnswer{Yes: false}},
		{"back_to_presentation", DialogBack{Target: BackPresentation}},
	}
	for _, tc := range cases {
		got, err := Decode(tc.raw)
		if err != nil {
			t.Fatalf("Decode(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("Decode(%q) = %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []string{
		"start_extra",
		"clear_everything",
		"confirm_clear",
		"back_to",
		"back_to_candidates",
		"back_to_candidates_nonsense",
		"back_to_somewhere",
		"candidate_x_status",
		"candidate_-1_status",
		"candidate_2_delete",
		"candidate_2",
		"set_status_1",
		"set_status_a_b",
		"set_reason_1_company",
		"set_reason_1_nobody_2",
		"set_banana",
		"reason_type_1",
		"reason_type_one_company",
		"reason_type_1_nobody",
		"intro_maybe",
		"presentation_perhaps",
		"presentation_yes_no",
		"invitation_",
		"confirmation_2",
	}
	for _, raw := range cases {
		act, err := Decode(raw)
		if err == nil {
			t.Fatalf("Decode(%q) = %#v, want malformed error", raw, act)
		}
		if !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("Decode(%q) error = %v, want ErrMalformedToken", raw, err)
		}
		var mt *MalformedTokenError
		if !errors.As(err, &mt) {
			t.Fatalf("Decode(%q) error type = %T", raw, err)
		}
		if mt.Raw != raw {
			t.Fatalf("malformed raw = %q, want %q", mt.Raw, raw)
		}
		if mt.Code() != "MALFORMED_TOKEN" {
			t.Fatalf("code = %q", mt.Code())
		}
	}
}

func TestDecodeUnrecognized(t *testing.T) {
	cases := []string{
		"vacancy_list",
		"noop",
		"",
		"settings_open",
	}
	for _, raw := range cases {
		act, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%q): unknown keywords must not error, got %v", raw, err)
		}
		u, ok := act.(Unrecognized)
		if !ok {
			t.Fatalf("Decode(%q) = %#v, want Unrecognized", raw, act)
		}
		if u.Raw != raw {
			t.Fatalf("raw = %q, want %q", u.Raw, raw)
		}
		if u.Kind() != KindUnrecognized {
			t.Fatalf("kind = %q", u.Kind())
		}
	}
}
