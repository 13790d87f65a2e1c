// Package render turns aggregated stats into self-contained SVG cards.
// Rendering is pure: the same input always yields the same bytes.
package render

import (
	"bytes"
	"math"
	"strconv"
	"text/template"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/models"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
)

const (
	cardWidth = 400

	dayCardHeight  = 300
	dayChartHeight = 150
	dayBarWidth    = 30
	dayBarGap      = 15
	dayBaselineY   = 200
	dayMinBar      = 4

	repoHeaderHeight = 60
	repoRowHeight    = 40
	repoFooterHeight = 20
	repoAvatarSize   = 28

	staggerMillis = 100
)

var dayLabels = [7]string{"M", "T", "W", "T", "F", "S", "S"}

var funcs = template.FuncMap{
	"num": formatNumber,
}

var (
	errorTemplate = template.Must(template.New("error").Parse(errorSVG))
	dayTemplate   = template.Must(template.New("day").Funcs(funcs).Parse(daySVG))
	repoTemplate  = template.Must(template.New("repos").Funcs(funcs).Parse(repoSVG))
)

// formatNumber prints coordinates with at most two decimals.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func execute(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Error("failed to render %s card: %v", tmpl.Name(), err)
		return ErrorSVG("Failed to render card")
	}
	return buf.String()
}

// ErrorSVG renders message as a small error banner. The message is escaped.
func ErrorSVG(message string) string {
	var buf bytes.Buffer
	// * The template has no failure modes beyond the writer, which cannot fail
	_ = errorTemplate.Execute(&buf, message)
	return buf.String()
}

type dayBar struct {
	X, Y, Height, LabelX float64
	Label                string
	Class                string
	Delay                int
}

type dayView struct {
	Width, Height int
	Baseline      int
	BarWidth      int
	Bars          []dayBar
	Summary       string
	Footer        string
}

// DayCard renders the weekday histogram as a bar chart.
func DayCard(stats models.DayStats) string {
	startX := float64(cardWidth-(dayBarWidth*7+dayBarGap*6)) / 2

	view := dayView{
		Width:    cardWidth,
		Height:   dayCardHeight,
		Baseline: dayBaselineY,
		BarWidth: dayBarWidth,
		Summary:  contributionSummary(stats.Total),
		Footer:   stats.Label,
	}

	for i, count := range stats.Counts {
		percent := 0.0
		if stats.Max > 0 {
			percent = float64(count) / float64(stats.Max)
		}
		height := math.Max(percent*dayChartHeight, dayMinBar)
		x := startX + float64(i*(dayBarWidth+dayBarGap))

		class := "bar-normal"
		if stats.Highlighted(i) {
			class = "bar-active"
		}

		view.Bars = append(view.Bars, dayBar{
			X:      x,
			Y:      dayBaselineY - height,
			Height: height,
			LabelX: x + dayBarWidth/2,
			Label:  dayLabels[i],
			Class:  class,
			Delay:  i * staggerMillis,
		})
	}

	return execute(dayTemplate, view)
}

func contributionSummary(total int) string {
	if total == 1 {
		return "1 contribution"
	}
	return FormatCount(total) + " contributions"
}

type repoRow struct {
	Y          int
	Delay      int
	FullName   string
	Stars      string
	AvatarData string
	Class      string
}

type repoView struct {
	Width, Height int
	Title         string
	Login         string
	AvatarSize    int
	AvatarRadius  int
	Rows          []repoRow
	EmptyY        int
}

// RepoCard renders the repository showcase, one row per repository.
func RepoCard(showcase models.Showcase) string {
	rows := max(len(showcase.Repos), 1)

	view := repoView{
		Width:        cardWidth,
		Height:       repoHeaderHeight + rows*repoRowHeight + repoFooterHeight,
		Title:        showcase.DisplayName,
		Login:        showcase.Login,
		AvatarSize:   repoAvatarSize,
		AvatarRadius: repoAvatarSize / 2,
		EmptyY:       repoHeaderHeight + repoRowHeight/2,
	}

	for i, repo := range showcase.Repos {
		class := "repo-name"
		if repo.MostActive {
			class = "repo-active"
		}
		view.Rows = append(view.Rows, repoRow{
			Y:          repoHeaderHeight + i*repoRowHeight,
			Delay:      i * staggerMillis,
			FullName:   repo.FullName(),
			Stars:      FormatCount(repo.Stars),
			AvatarData: repo.AvatarData,
			Class:      class,
		})
	}

	return execute(repoTemplate, view)
}

// FormatCount abbreviates counts above 999 to thousands with one decimal,
// e.g. 1234 -> "1.2k" and 1000 -> "1k".
func FormatCount(n int) string {
	abs := math.Abs(float64(n))
	if abs <= 999 {
		return strconv.Itoa(n)
	}

	thousands := math.Round(abs/100) / 10
	if n < 0 {
		thousands = -thousands
	}
	return strconv.FormatFloat(thousands, 'f', -1, 64) + "k"
}
