package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/github"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/models"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	avatarSize        = 40
	avatarConcurrency = 8
)

type RepoService struct {
	fetcher      Fetcher
	defaultLimit int
	maxLimit     int
}

func NewRepoService(fetcher Fetcher, defaultLimit, maxLimit int) *RepoService {
	return &RepoService{
		fetcher:      fetcher,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// ParseLimit turns the raw limit query value into a usable repository count.
// Missing, malformed or non-positive values use the default; large values are
// clamped to the configured ceiling.
func (s *RepoService) ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit < 1 {
		return s.defaultLimit
	}
	return min(limit, s.maxLimit)
}

// Showcase builds the repos card for login: the repositories they most
// recently opened pull requests against, ranked by stars.
//
// Calls made: profile + search (concurrently), one batched detail query and
// at most one avatar fetch per shown repository, bounded by the budget left
// in ctx.
func (s *RepoService) Showcase(ctx context.Context, login string, limit int) (*models.Showcase, error) {
	if limit < 1 {
		limit = s.defaultLimit
	}
	limit = min(limit, s.maxLimit)

	var profile *github.UserProfile
	var items []github.SearchItem

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		profile, err = s.fetcher.FetchUserProfile(egCtx, login)
		return err
	})
	eg.Go(func() error {
		var err error
		items, err = s.fetcher.SearchPullRequests(egCtx, login, github.MaxSearchItems)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load activity for %s: %w", login, err)
	}

	keys := UniqueRepositories(items)
	if len(keys) > limit {
		keys = keys[:limit]
	}

	details, err := s.fetcher.FetchRepoDetails(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository details: %w", err)
	}

	repos := RankRepositories(keys, details)
	s.embedAvatars(ctx, repos)

	showcase := &models.Showcase{
		Login:       profile.Login,
		DisplayName: profile.DisplayName(),
		Repos:       repos,
	}

	logger.Info("Built showcase of %d repositories for %s", len(repos), login)
	return showcase, nil
}

// UniqueRepositories extracts owner/name pairs from search results in
// first-seen order. Items with an unusable repository URL are skipped.
func UniqueRepositories(items []github.SearchItem) []github.RepoKey {
	seen := make(map[github.RepoKey]struct{}, len(items))
	keys := make([]github.RepoKey, 0, len(items))

	for _, item := range items {
		key, err := github.ParseRepositoryURL(item.RepositoryURL)
		if err != nil {
			logger.Debug("Skipping search item %q: %v", item.Title, err)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}

// RankRepositories orders the repositories that have details by stars,
// keeping search order among equals, and flags those tied for the most stars.
func RankRepositories(keys []github.RepoKey, details map[github.RepoKey]github.RepoDetails) []models.RepoSummary {
	repos := make([]models.RepoSummary, 0, len(keys))
	for _, key := range keys {
		detail, ok := details[key]
		if !ok {
			logger.Debug("No details for %s, dropping it", key)
			continue
		}
		repos = append(repos, models.RepoSummary{
			Owner:     key.Owner,
			Name:      key.Name,
			Stars:     detail.StargazerCount,
			AvatarURL: detail.AvatarURL,
		})
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Stars > repos[j].Stars
	})

	if len(repos) > 0 && repos[0].Stars > 0 {
		for i := range repos {
			repos[i].MostActive = repos[i].Stars == repos[0].Stars
		}
	}

	return repos
}

// AvatarSizeURL asks the avatar host for a thumbnail sized for the card.
func AvatarSizeURL(raw string) string {
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "s=" + strconv.Itoa(avatarSize)
}

// embedAvatars inlines owner avatars as data URIs. Owners shared by several
// repositories are fetched once, and no more fetches are started than the
// request budget still allows. Failures leave AvatarData empty.
func (s *RepoService) embedAvatars(ctx context.Context, repos []models.RepoSummary) {
	var urls []string
	seen := make(map[string]struct{})
	for _, repo := range repos {
		if repo.AvatarURL == "" {
			continue
		}
		if _, ok := seen[repo.AvatarURL]; ok {
			continue
		}
		seen[repo.AvatarURL] = struct{}{}
		urls = append(urls, repo.AvatarURL)
	}

	if budget, ok := github.BudgetFromContext(ctx); ok && len(urls) > budget.Remaining() {
		logger.Warn("Embedding %d of %d avatars to stay within budget", max(budget.Remaining(), 0), len(urls))
		urls = urls[:max(budget.Remaining(), 0)]
	}

	var mu sync.Mutex
	data := make(map[string]string, len(urls))

	var eg errgroup.Group
	eg.SetLimit(avatarConcurrency)
	for _, url := range urls {
		url := url
		eg.Go(func() error {
			body, contentType, err := s.fetcher.FetchImageBytes(ctx, AvatarSizeURL(url))
			if err != nil {
				logger.Warn("Avatar %s unavailable: %v", url, err)
				return nil
			}
			mu.Lock()
			data[url] = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	for i := range repos {
		repos[i].AvatarData = data[repos[i].AvatarURL]
	}
}
