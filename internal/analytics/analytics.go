// Package analytics computes status and rejection distributions over the
// candidate collection.
package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/rodanhr/hrbot/internal/domain"
)

// NoData is the reply shown when the candidate collection is empty.
const NoData = "No analytics data yet."

// StatusCount is one status bucket of the distribution.
type StatusCount struct {
	Status  string
	Count   int
	Percent float64
}

// OriginCount is a rejection bucket split by origin.
type OriginCount struct {
	Label   string
	Count   int
	Percent float64
}

// Stats is the aggregate over the full candidate collection.
type Stats struct {
	Total      int
	Statuses   []StatusCount
	Rejections []OriginCount
}

// Compute aggregates the collection. statusOrder fixes the display order for
// known statuses; statuses not in the list follow in first-seen order, so the
// per-status counts always sum to Total. Returns nil for an empty collection,
// short-circuiting any percentage division.
func Compute(candidates []domain.Candidate, statusOrder []string) *Stats {
	if len(candidates) == 0 {
		return nil
	}
	total := len(candidates)

	counts := make(map[string]int, len(statusOrder))
	order := append([]string(nil), statusOrder...)
	known := make(map[string]struct{}, len(order))
	for _, s := range order {
		known[s] = struct{}{}
	}
	for _, c := range candidates {
		if _, ok := known[c.Status]; !ok {
			known[c.Status] = struct{}{}
			order = append(order, c.Status)
		}
		counts[c.Status]++
	}

	stats := &Stats{Total: total}
	for _, status := range order {
		n := counts[status]
		if n == 0 {
			continue
		}
		stats.Statuses = append(stats.Statuses, StatusCount{
			Status:  status,
			Count:   n,
			Percent: percent(n, total),
		})
	}

	var company, candidate int
	for _, c := range candidates {
		if c.Rejection == nil {
			continue
		}
		if c.Rejection.Origin == domain.OriginCompany {
			company++
		} else {
			candidate++
		}
	}
	if company > 0 {
		stats.Rejections = append(stats.Rejections, OriginCount{
			Label:   "Company",
			Count:   company,
			Percent: percent(company, total),
		})
	}
	if candidate > 0 {
		stats.Rejections = append(stats.Rejections, OriginCount{
			Label:   "Candidate",
			Count:   candidate,
			Percent: percent(candidate, total),
		})
	}
	return stats
}

// Text renders the human-readable report.
func (s *Stats) Text() string {
	if s == nil {
		return NoData
	}
	var b strings.Builder
	b.WriteString("📊 Candidate analytics:\n\n")
	fmt.Fprintf(&b, "Total candidates: %d\n\n", s.Total)

	b.WriteString("Candidate statuses:\n")
	for _, sc := range s.Statuses {
		fmt.Fprintf(&b, "- %s: %d (%s%%)\n", sc.Status, sc.Count, trimPercent(sc.Percent))
	}

	if len(s.Rejections) > 0 {
		b.WriteString("\nRejection reasons:\n")
		for _, rc := range s.Rejections {
			fmt.Fprintf(&b, "- %s: %d (%s%%)\n", rc.Label, rc.Count, trimPercent(rc.Percent))
		}
	}
	return b.String()
}

// percent rounds count/total to one decimal place.
func percent(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*1000) / 10
}

func trimPercent(p float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", p), ".0")
}
