package models

import "time"

// WeekdayHistogram holds contribution totals per weekday, Monday first.
type WeekdayHistogram [7]int

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// * DayStats is everything the day card renders
type DayStats struct {
	Counts WeekdayHistogram `json:"counts"`
	Max    int              `json:"max"`
	// Total is the calendar's totalContributions as reported by GitHub.
	Total int    `json:"total"`
	Label string `json:"label"`
}

// Highlighted reports whether bar i is one of the busiest days.
func (d DayStats) Highlighted(i int) bool {
	return d.Max > 0 && d.Counts[i] == d.Max
}
