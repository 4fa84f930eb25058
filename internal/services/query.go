package services

import (
	"strings"
	"time"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
)

// FilterSessions applies the browse filter spec to a session list. Filters
// compose as a logical AND; omitted criteria impose no constraint. The
// result is a fresh slice preserving the input's relative order, and the
// input is never mutated.
func FilterSessions(sessions []models.Session, filter models.SessionFilter) []models.Session {
	result := make([]models.Session, 0, len(sessions))
	text := strings.ToLower(strings.TrimSpace(filter.Text))

	for _, s := range sessions {
		if text != "" && !matchesText(&s, text) {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && s.Category != filter.Category {
			continue
		}
		if filter.Date != nil && !sameCalendarDay(s.ScheduledAt, *filter.Date) {
			continue
		}
		result = append(result, s)
	}
	return result
}

func matchesText(s *models.Session, query string) bool {
	return strings.Contains(strings.ToLower(s.Title), query) ||
		strings.Contains(strings.ToLower(s.Description), query) ||
		strings.Contains(strings.ToLower(s.Category), query)
}

// sameCalendarDay compares dates only; time-of-day is ignored.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
