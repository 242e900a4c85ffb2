package entities

import "time"

// UserReminder holds the daily training nudge settings of one user.
type UserReminder struct {
	UserID     int64
	Enabled    bool
	HourUTC    int // hour of day (0-23, UTC) to send the nudge
	LastSentAt *time.Time
}

// SentToday reports whether a nudge was already sent on the given UTC day.
func (r *UserReminder) SentToday(now time.Time) bool {
	if r.LastSentAt == nil {
		return false
	}
	y1, m1, d1 := r.LastSentAt.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
