package models

import (
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/timex"
)

// AwardXP records a new XP event at now. The log is prepended, so Logs[0]
// is always the newest entry, which is what the remote store syncs on update.
//
// Streak rules (UTC calendar days): another event on the same day keeps the
// streak; an event the day after the last one extends it; anything else
// restarts it at 1.
func (s *Star) AwardXP(amount int, note string, now time.Time, newID func() string) (XPLog, error) {
	if amount <= 0 {
		return XPLog{}, ErrInvalidAmount
	}

	s.Streak = NextStreak(s.Streak, s.LastActiveDate, now)
	s.LastActiveDate = now.UTC()

	entry := XPLog{ID: newID(), Date: now.UTC(), Amount: amount, Note: note}
	s.Logs = append([]XPLog{entry}, s.Logs...)
	s.XP += amount

	return entry, nil
}

// NextStreak computes the streak after an event at now.
func NextStreak(streak int, lastActive, now time.Time) int {
	if lastActive.IsZero() {
		return 1
	}
	if timex.SameDay(lastActive, now) {
		if streak < 1 {
			return 1
		}
		return streak
	}
	if timex.SameDay(lastActive, now.UTC().AddDate(0, 0, -1)) {
		return streak + 1
	}
	return 1
}

// RemoveLog drops the log with the given id and takes its amount off XP.
// XP never goes below zero. It reports whether a log was removed.
func (s *Star) RemoveLog(logID string) (XPLog, bool) {
	for i, l := range s.Logs {
		if l.ID != logID {
			continue
		}
		s.Logs = append(s.Logs[:i:i], s.Logs[i+1:]...)
		s.XP -= l.Amount
		if s.XP < 0 {
			s.XP = 0
		}
		return l, true
	}
	return XPLog{}, false
}
