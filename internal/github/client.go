package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/errors"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	gh "github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

const (
	UserAgent = "readme-contribution-stats"

	// MaxSearchItems bounds the single search call used to discover repositories.
	MaxSearchItems = 60

	defaultAPIURL     = "https://api.github.com/"
	defaultGraphQLURL = "https://api.github.com/graphql"
	maxImageBytes     = 1 << 20
)

type Options struct {
	Token      string
	APIURL     string
	GraphQLURL string
	// Transport is the innermost round tripper. Tests point it at a fake server.
	Transport        http.RoundTripper
	RateLimitMaxWait time.Duration
	Timeout          time.Duration
}

// Client talks to GitHub's REST and GraphQL APIs. Every call is charged to
// the Budget carried by its context.
type Client struct {
	rest    *gh.Client
	graphql *githubv4.Client
	images  *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if opts.APIURL == "" {
		opts.APIURL = defaultAPIURL
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = defaultGraphQLURL
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	base := userAgentMiddleware(BudgetMiddleware(opts.Transport))

	rl := NewRateLimitObserver()
	waiter, err := github_ratelimit.NewRateLimitWaiter(rl.Middleware(base), github_ratelimit.WithSingleSleepLimit(opts.RateLimitMaxWait, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	apiClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &oauth2.Transport{
			Base:   waiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		},
	}

	rest := gh.NewClient(apiClient)
	rest.UserAgent = UserAgent
	baseURL, err := url.Parse(strings.TrimSuffix(opts.APIURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API url: %w", err)
	}
	rest.BaseURL = baseURL

	return &Client{
		rest:    rest,
		graphql: githubv4.NewEnterpriseClient(opts.GraphQLURL, apiClient),
		images:  &http.Client{Timeout: opts.Timeout, Transport: base},
	}, nil
}

func userAgentMiddleware(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
		return next.RoundTrip(req)
	})
}

func statusDetail(resp *gh.Response, err error) string {
	if resp != nil {
		return fmt.Sprintf("GitHub API Error: %d", resp.StatusCode)
	}
	return fmt.Sprintf("GitHub API Error: %v", err)
}

func (c *Client) FetchUserProfile(ctx context.Context, login string) (*UserProfile, error) {
	if err := ValidateLogin(login); err != nil {
		return nil, err
	}

	user, resp, err := c.rest.Users.Get(ctx, login)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.New(
				errors.RefUserNotFound,
				"User not found on GitHub",
				fmt.Sprintf("GitHub user %s does not exist", login),
				err,
				errors.LevelError,
			)
		}
		return nil, errors.Upstream("Failed to fetch user from GitHub", statusDetail(resp, err), err)
	}

	return &UserProfile{
		Login: user.GetLogin(),
		Name:  user.GetName(),
	}, nil
}

// SearchPullRequests returns the most recently created pull requests
// authored by login, newest first.
func (c *Client) SearchPullRequests(ctx context.Context, login string, max int) ([]SearchItem, error) {
	if err := ValidateLogin(login); err != nil {
		return nil, err
	}
	if max <= 0 || max > MaxSearchItems {
		max = MaxSearchItems
	}

	opts := &gh.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: max},
	}
	result, resp, err := c.rest.Search.Issues(ctx, fmt.Sprintf("is:pr author:%s", login), opts)
	if err != nil {
		return nil, errors.Upstream("Failed to search pull requests on GitHub", statusDetail(resp, err), err)
	}

	items := make([]SearchItem, 0, len(result.Issues))
	for _, issue := range result.Issues {
		if len(items) == max {
			break
		}
		items = append(items, SearchItem{
			Title:         issue.GetTitle(),
			RepositoryURL: issue.GetRepositoryURL(),
		})
	}

	logger.Debug("Search returned %d pull requests for %s", len(items), login)
	return items, nil
}

type contributionsQuery struct {
	User *struct {
		ContributionsCollection struct {
			StartedAt            githubv4.DateTime
			EndedAt              githubv4.DateTime
			ContributionCalendar struct {
				TotalContributions int
				Weeks              []struct {
					ContributionDays []struct {
						ContributionCount int
						Weekday           int
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

func (c *Client) FetchContributionCalendar(ctx context.Context, login string, from, to time.Time) (*ContributionCalendar, error) {
	if err := ValidateLogin(login); err != nil {
		return nil, err
	}

	var q contributionsQuery
	variables := map[string]any{
		"login": githubv4.String(login),
		"from":  githubv4.DateTime{Time: from.UTC()},
		"to":    githubv4.DateTime{Time: to.UTC()},
	}

	if err := c.graphql.Query(ctx, &q, variables); err != nil {
		return nil, errors.Upstream(
			"Failed to fetch contributions from GitHub",
			fmt.Sprintf("GitHub GraphQL Error: %v", err),
			err,
		)
	}
	if q.User == nil {
		return nil, errors.New(
			errors.RefUserNotFound,
			"User not found on GitHub",
			fmt.Sprintf("GitHub user %s does not exist", login),
			nil,
			errors.LevelError,
		)
	}

	collection := q.User.ContributionsCollection
	calendar := &ContributionCalendar{
		StartedAt:          collection.StartedAt.Time,
		EndedAt:            collection.EndedAt.Time,
		TotalContributions: collection.ContributionCalendar.TotalContributions,
		Weeks:              make([]ContributionWeek, 0, len(collection.ContributionCalendar.Weeks)),
	}
	for _, week := range collection.ContributionCalendar.Weeks {
		days := make([]ContributionDay, 0, len(week.ContributionDays))
		for _, day := range week.ContributionDays {
			days = append(days, ContributionDay{Count: day.ContributionCount, Weekday: day.Weekday})
		}
		calendar.Weeks = append(calendar.Weeks, ContributionWeek{Days: days})
	}

	return calendar, nil
}

type repositoryNode struct {
	StargazerCount int
	Owner          struct {
		AvatarURL string `graphql:"avatarUrl"`
	}
}

var repositoryNodeType = reflect.TypeOf((*repositoryNode)(nil))

// repoDetailsQuery builds a query with one aliased repository lookup per key
// (repo0, repo1, ...) so any number of repositories cost a single call.
func repoDetailsQuery(keys []RepoKey) (reflect.Value, map[string]any) {
	fields := make([]reflect.StructField, len(keys))
	variables := make(map[string]any, 2*len(keys))

	for i, key := range keys {
		fields[i] = reflect.StructField{
			Name: fmt.Sprintf("Repo%d", i),
			Type: repositoryNodeType,
			Tag:  reflect.StructTag(fmt.Sprintf(`graphql:"repo%d: repository(owner: $owner%d, name: $name%d)"`, i, i, i)),
		}
		variables[fmt.Sprintf("owner%d", i)] = githubv4.String(key.Owner)
		variables[fmt.Sprintf("name%d", i)] = githubv4.String(key.Name)
	}

	return reflect.New(reflect.StructOf(fields)), variables
}

// FetchRepoDetails looks up star counts and owner avatars for keys in one
// GraphQL call. Repositories GitHub cannot resolve are left out of the result.
func (c *Client) FetchRepoDetails(ctx context.Context, keys []RepoKey) (map[RepoKey]RepoDetails, error) {
	details := make(map[RepoKey]RepoDetails, len(keys))
	if len(keys) == 0 {
		return details, nil
	}

	q, variables := repoDetailsQuery(keys)
	err := c.graphql.Query(ctx, q.Interface(), variables)

	result := q.Elem()
	for i, key := range keys {
		node, _ := result.Field(i).Interface().(*repositoryNode)
		if node == nil {
			continue
		}
		details[key] = RepoDetails{
			StargazerCount: node.StargazerCount,
			AvatarURL:      node.Owner.AvatarURL,
		}
	}

	if err != nil {
		if len(details) == 0 {
			return nil, errors.Upstream(
				"Failed to fetch repositories from GitHub",
				fmt.Sprintf("GitHub GraphQL Error: %v", err),
				err,
			)
		}
		logger.Warn("Partial repository details (%d of %d): %v", len(details), len(keys), err)
	}

	return details, nil
}

// FetchImageBytes downloads an image and returns its bytes and content type.
func (c *Client) FetchImageBytes(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := c.images.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return body, contentType, nil
}
