package reward

import "time"

// Streak counts consecutive calendar days of activity ending at asOf.
// The count stops at the first missing day, including asOf itself: no
// activity today means a streak of 0 even if yesterday had activity.
// Dates are compared as UTC calendar days; both instantiations (reading
// sessions and task completions) use the same rule.
func Streak(activityDays []time.Time, asOf time.Time) int {
	if len(activityDays) == 0 {
		return 0
	}

	days := make(map[time.Time]bool, len(activityDays))
	for _, d := range activityDays {
		days[dayOf(d)] = true
	}

	streak := 0
	for day := dayOf(asOf); days[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// dayOf truncates an instant to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
