package service

import (
	"context"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/github"
	"github.com/stretchr/testify/mock"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchUserProfile(ctx context.Context, login string) (*github.UserProfile, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.UserProfile), args.Error(1)
}

func (m *MockFetcher) SearchPullRequests(ctx context.Context, login string, max int) ([]github.SearchItem, error) {
	args := m.Called(ctx, login, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.SearchItem), args.Error(1)
}

func (m *MockFetcher) FetchContributionCalendar(ctx context.Context, login string, from, to time.Time) (*github.ContributionCalendar, error) {
	args := m.Called(ctx, login, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.ContributionCalendar), args.Error(1)
}

func (m *MockFetcher) FetchRepoDetails(ctx context.Context, keys []github.RepoKey) (map[github.RepoKey]github.RepoDetails, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[github.RepoKey]github.RepoDetails), args.Error(1)
}

func (m *MockFetcher) FetchImageBytes(ctx context.Context, url string) ([]byte, string, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
