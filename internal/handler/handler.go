package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/github"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/render"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/service"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/errors"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
	"github.com/gorilla/mux"
)

type CardHandler struct {
	days           *service.DayService
	repos          *service.RepoService
	maxSubrequests int
}

func NewCardHandler(days *service.DayService, repos *service.RepoService, maxSubrequests int) *CardHandler {
	return &CardHandler{
		days:           days,
		repos:          repos,
		maxSubrequests: maxSubrequests,
	}
}

func (h *CardHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.getCard).Methods("GET")
	r.HandleFunc("/api", h.getCard).Methods("GET")
	r.HandleFunc("/healthz", h.healthz).Methods("GET")
}

func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", ContentTypeSVG)
	w.Header().Set("Cache-Control", CacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}

func writeError(w http.ResponseWriter, err error) {
	errors.WriteSVGError(w, err, render.ErrorSVG)
}

// usernameParam reads the username query parameter. Malformed logins are
// rejected here so they never reach GitHub.
func usernameParam(r *http.Request, missing string) (string, error) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		return "", errors.MissingParameter(missing)
	}
	if err := github.ValidateLogin(username); err != nil {
		return "", err
	}
	return username, nil
}

// withBudget gives each card request its own outbound call allowance.
func (h *CardHandler) withBudget(ctx context.Context) (context.Context, *github.Budget) {
	budget := github.NewBudget(h.maxSubrequests)
	return github.WithBudget(ctx, budget), budget
}

// getCard godoc
// @Summary Render a stats card
// @Description Renders an SVG card summarizing a GitHub user's activity
// @Tags Cards
// @Produce image/svg+xml
// @Param type query string false "Card type: repos, day or wrapped" default(repos)
// @Param username query string false "GitHub login, required for repos and day"
// @Param limit query int false "Repositories shown on the repos card" default(6)
// @Success 200 {string} string "SVG card, or an error card for bad parameters"
// @Failure 500 {string} string "SVG error card"
// @Router / [get]
func (h *CardHandler) getCard(w http.ResponseWriter, r *http.Request) {
	cardType := CardType(r.URL.Query().Get("type"))
	if cardType == "" {
		cardType = CardRepos
	}

	switch cardType {
	case CardRepos:
		h.getReposCard(w, r)
	case CardDay:
		h.getDayCard(w, r)
	case CardWrapped:
		writeError(w, errors.New(errors.RefComingSoon, "Coming soon", MessageWrapped, nil, errors.LevelInfo))
	default:
		writeError(w, errors.UnknownRoute(MessageInvalidType))
	}
}

func (h *CardHandler) getReposCard(w http.ResponseWriter, r *http.Request) {
	username, err := usernameParam(r, MessageMissingRepos)
	if err != nil {
		writeError(w, err)
		return
	}

	limit := h.repos.ParseLimit(r.URL.Query().Get("limit"))
	ctx, budget := h.withBudget(r.Context())

	showcase, err := h.repos.Showcase(ctx, username, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Rendered repos card for %s with %d subrequests", username, budget.Used())
	writeSVG(w, render.RepoCard(*showcase))
}

func (h *CardHandler) getDayCard(w http.ResponseWriter, r *http.Request) {
	username, err := usernameParam(r, MessageMissingDay)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, budget := h.withBudget(r.Context())

	stats, err := h.days.WeekdayStats(ctx, username)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Rendered day card for %s with %d subrequests", username, budget.Used())
	writeSVG(w, render.DayCard(*stats))
}

// healthz godoc
// @Summary Liveness probe
// @Tags Health
// @Produce plain
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (h *CardHandler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
