package storage

import "time"

// CurrentStreak counts consecutive calendar days with at least one entry,
// walking backward from today. A streak whose last active day is yesterday
// still counts (one grace day); if neither today nor yesterday has an entry,
// the streak is 0. Days are grouped in now's location.
func CurrentStreak(createdAts []time.Time, now time.Time) int {
	loc := now.Location()
	days := make(map[string]struct{}, len(createdAts))
	for _, t := range createdAts {
		days[t.In(loc).Format(time.DateOnly)] = struct{}{}
	}

	today := dayStart(now)
	anchor := today
	if _, ok := days[anchor.Format(time.DateOnly)]; !ok {
		anchor = today.AddDate(0, 0, -1)
		if _, ok := days[anchor.Format(time.DateOnly)]; !ok {
			return 0
		}
	}

	streak := 0
	for d := anchor; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[d.Format(time.DateOnly)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// dayStart returns midnight of t's calendar day in t's location.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
