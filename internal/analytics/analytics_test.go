package analytics

import (
	"strings"
	"testing"

	"github.com/rodanhr/hrbot/internal/domain"
)

var order = []string{"Unavailable", "Phone interview", "HR interview"}

func TestComputeEmpty(t *testing.T) {
	if got := Compute(nil, order); got != nil {
		t.Fatalf("Compute(nil) = %#v, want nil", got)
	}
	if got := Compute([]domain.Candidate{}, order); got != nil {
		t.Fatalf("Compute(empty) = %#v, want nil", got)
	}
	var s *Stats
	if s.Text() != NoData {
		t.Fatalf("nil Text() = %q", s.Text())
	}
}

func TestComputeCountsEveryStatus(t *testing.T) {
	candidates := []domain.Candidate{
		{Status: "Phone interview"},
		{Status: "Phone interview"},
		{Status: "Unavailable"},
		// Derived statuses outside the configured catalog still count.
		{Status: domain.StatusInvited},
	}
	stats := Compute(candidates, order)
	if stats == nil {
		t.Fatal("nil stats")
	}
	if stats.Total != 4 {
		t.Fatalf("total = %d", stats.Total)
	}

	sum := 0
	for _, sc := range stats.Statuses {
		sum += sc.Count
	}
	if sum != stats.Total {
		t.Fatalf("per-status sum = %d, want %d", sum, stats.Total)
	}

	// Catalog order first, then first-seen.
	wantOrder := []string{"Unavailable", "Phone interview", domain.StatusInvited}
	if len(stats.Statuses) != len(wantOrder) {
		t.Fatalf("buckets = %d, want %d", len(stats.Statuses), len(wantOrder))
	}
	for i, want := range wantOrder {
		if stats.Statuses[i].Status != want {
			t.Fatalf("bucket %d = %q, want %q", i, stats.Statuses[i].Status, want)
		}
	}
}

func TestComputeRejectionSplit(t *testing.T) {
	candidates := []domain.Candidate{
		{Status: "Unavailable", Rejection: &domain.RejectionReason{Origin: domain.OriginCompany, Reason: "x"}},
		{Status: "Unavailable", Rejection: &domain.RejectionReason{Origin: domain.OriginCandidate, Reason: "y"}},
		{Status: "Unavailable", Rejection: &domain.RejectionReason{Origin: domain.OriginCandidate, Reason: "z"}},
		{Status: "Unavailable"},
	}
	stats := Compute(candidates, order)
	if len(stats.Rejections) != 2 {
		t.Fatalf("rejection buckets = %d, want 2", len(stats.Rejections))
	}
	if stats.Rejections[0].Label != "Company" || stats.Rejections[0].Count != 1 {
		t.Fatalf("company bucket = %+v", stats.Rejections[0])
	}
	if stats.Rejections[1].Label != "Candidate" || stats.Rejections[1].Count != 2 {
		t.Fatalf("candidate bucket = %+v", stats.Rejections[1])
	}
}

func TestPercentRounding(t *testing.T) {
	cases := []struct {
		count, total int
		want         float64
	}{
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 2, 50},
		{1, 8, 12.5},
		{3, 3, 100},
	}
	for _, tc := range cases {
		if got := percent(tc.count, tc.total); got != tc.want {
			t.Fatalf("percent(%d, %d) = %v, want %v", tc.count, tc.total, got, tc.want)
		}
	}
}

func TestTextReport(t *testing.T) {
	candidates := []domain.Candidate{
		{Status: "Unavailable"},
		{Status: "Phone interview", Rejection: &domain.RejectionReason{Origin: domain.OriginCompany, Reason: "x"}},
	}
	text := Compute(candidates, order).Text()
	for _, want := range []string{
		"Total candidates: 2",
		"Unavailable: 1 (50%)",
		"Phone interview: 1 (50%)",
		"Company: 1 (50%)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
}
