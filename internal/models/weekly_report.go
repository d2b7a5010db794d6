package models

import "time"

// ActionProgress pairs a tracked action with its impact so far.
type ActionProgress struct {
	Action TrackedAction `json:"action"`
	Impact *Impact       `json:"impact,omitempty"`
}

// WeeklyReport is what the scheduled agent mails to the channel owner.
type WeeklyReport struct {
	Date     time.Time           `json:"date"`
	Report   *ChannelReport      `json:"report"`
	Private  *PrivateChannelData `json:"private,omitempty"`
	Actions  []ActionProgress    `json:"actions"`
	Verified int                 `json:"verified"`
	Failed   int                 `json:"failed"`
}

// PeriodViews sums the daily views of the private analytics window.
func (r *WeeklyReport) PeriodViews() float64 {
	if r.Private == nil {
		return 0
	}
	var total float64
	for _, d := range r.Private.DailyMetrics {
		total += d.Views
	}
	return total
}
