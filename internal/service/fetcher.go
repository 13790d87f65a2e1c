package service

import (
	"context"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/github"
)

// Fetcher is the part of the GitHub client the aggregators depend on.
type Fetcher interface {
	FetchUserProfile(ctx context.Context, login string) (*github.UserProfile, error)
	SearchPullRequests(ctx context.Context, login string, max int) ([]github.SearchItem, error)
	FetchContributionCalendar(ctx context.Context, login string, from, to time.Time) (*github.ContributionCalendar, error)
	FetchRepoDetails(ctx context.Context, keys []github.RepoKey) (map[github.RepoKey]github.RepoDetails, error)
	FetchImageBytes(ctx context.Context, url string) ([]byte, string, error)
}
