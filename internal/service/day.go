package service

import (
	"context"
	"fmt"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/github"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/models"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
)

const labelDateLayout = "Jan 2, 2006"

type DayService struct {
	fetcher Fetcher
	now     func() time.Time
}

func NewDayService(fetcher Fetcher) *DayService {
	return &DayService{fetcher: fetcher, now: time.Now}
}

// TrailingYear returns the contribution window ending at now.
func TrailingYear(now time.Time) models.DateRange {
	now = now.UTC()
	return models.DateRange{From: now.AddDate(-1, 0, 0), To: now}
}

// WeekdayStats sums a user's contributions over the trailing year per weekday.
func (s *DayService) WeekdayStats(ctx context.Context, login string) (*models.DayStats, error) {
	window := TrailingYear(s.now())

	calendar, err := s.fetcher.FetchContributionCalendar(ctx, login, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contribution calendar: %w", err)
	}

	stats := BuildDayStats(calendar)
	logger.Info("Aggregated %d contributions for %s", stats.Total, login)
	return stats, nil
}

// BuildDayStats reduces a calendar into a Monday-first weekday histogram.
func BuildDayStats(calendar *github.ContributionCalendar) *models.DayStats {
	// * GitHub numbers weekdays from Sunday = 0
	var sundayFirst [7]int
	for _, week := range calendar.Weeks {
		for _, day := range week.Days {
			if day.Weekday < 0 || day.Weekday > 6 {
				continue
			}
			sundayFirst[day.Weekday] += day.Count
		}
	}

	stats := &models.DayStats{
		Counts: RotateToMonday(sundayFirst),
		Total:  calendar.TotalContributions,
		Label:  FormatDateRange(calendar.StartedAt, calendar.EndedAt),
	}
	for _, count := range stats.Counts {
		stats.Max = max(stats.Max, count)
	}

	return stats
}

// RotateToMonday moves Sunday from the front of the week to the end.
func RotateToMonday(sundayFirst [7]int) models.WeekdayHistogram {
	var mondayFirst models.WeekdayHistogram
	for i := range mondayFirst {
		mondayFirst[i] = sundayFirst[(i+1)%7]
	}
	return mondayFirst
}

func FormatDateRange(from, to time.Time) string {
	return from.UTC().Format(labelDateLayout) + " - " + to.UTC().Format(labelDateLayout)
}
