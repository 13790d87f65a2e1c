package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	apperrors "github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/errors"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	client, err := NewClient(Options{
		Token:      "test-token",
		APIURL:     server.URL,
		GraphQLURL: server.URL + "/graphql",
		Transport:  server.Client().Transport,
	})
	require.NoError(t, err)

	return client, server
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func decodeGraphQL(t *testing.T, r *http.Request) graphQLRequest {
	t.Helper()
	var req graphQLRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Options{Token: "test-token"})

	require.NoError(t, err)
	assert.NotNil(t, client.rest)
	assert.NotNil(t, client.graphql)
	assert.Equal(t, "https://api.github.com/", client.rest.BaseURL.String())
	assert.Equal(t, UserAgent, client.rest.UserAgent)
}

func TestClient_FetchUserProfile(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expected       *UserProfile
		expectedError  string
		errorRef       string
	}{
		{
			name: "successful user fetch",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/testuser", r.URL.Path)
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"login":"testuser","name":"Test User","avatar_url":"https://avatars.example/u/1"}`)
			},
			expected: &UserProfile{Login: "testuser", Name: "Test User"},
		},
		{
			name: "user not found",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
			},
			expectedError: "User not found on GitHub",
			errorRef:      apperrors.RefUserNotFound,
		},
		{
			name: "server error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedError: "GitHub API Error: 500",
			errorRef:      apperrors.RefUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(t, http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			profile, err := client.FetchUserProfile(context.Background(), "testuser")

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.True(t, apperrors.HasReference(err, tt.errorRef))
				assert.Nil(t, profile)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, profile)
		})
	}
}

func TestUserProfile_DisplayName(t *testing.T) {
	assert.Equal(t, "Test User", (&UserProfile{Login: "testuser", Name: "Test User"}).DisplayName())
	assert.Equal(t, "testuser", (&UserProfile{Login: "testuser"}).DisplayName())
}

func TestClient_SearchPullRequests(t *testing.T) {
	t.Run("builds the search query and caps results", func(t *testing.T) {
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/issues", r.URL.Path)
			assert.Equal(t, "is:pr author:testuser", r.URL.Query().Get("q"))
			assert.Equal(t, "created", r.URL.Query().Get("sort"))
			assert.Equal(t, "desc", r.URL.Query().Get("order"))
			assert.Equal(t, "2", r.URL.Query().Get("per_page"))

			fmt.Fprint(w, `{"total_count":3,"items":[
				{"title":"PR 0","repository_url":"https://api.github.com/repos/owner0/repo0","created_at":"2024-05-01T10:00:00Z"},
				{"title":"PR 1","repository_url":"https://api.github.com/repos/owner1/repo1","created_at":"2024-04-01T10:00:00Z"},
				{"title":"PR 2","repository_url":"https://api.github.com/repos/owner2/repo2","created_at":"2024-03-01T10:00:00Z"}
			]}`)
		}))
		defer server.Close()

		items, err := client.SearchPullRequests(context.Background(), "testuser", 2)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "PR 0", items[0].Title)
		assert.Equal(t, "https://api.github.com/repos/owner1/repo1", items[1].RepositoryURL)
	})

	t.Run("out of range max falls back to the search bound", func(t *testing.T) {
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "60", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, `{"total_count":0,"items":[]}`)
		}))
		defer server.Close()

		items, err := client.SearchPullRequests(context.Background(), "testuser", 500)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("server error", func(t *testing.T) {
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"Validation Failed"}`)
		}))
		defer server.Close()

		_, err := client.SearchPullRequests(context.Background(), "testuser", 10)
		require.Error(t, err)
		assert.True(t, apperrors.HasReference(err, apperrors.RefUpstream))
		assert.Contains(t, err.Error(), "GitHub API Error: 422")
	})
}

func TestClient_FetchContributionCalendar(t *testing.T) {
	from := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		response      string
		status        int
		expectedError string
		errorRef      string
		validate      func(t *testing.T, calendar *ContributionCalendar)
	}{
		{
			name:   "successful calendar fetch",
			status: http.StatusOK,
			response: `{"data":{"user":{"contributionsCollection":{
				"startedAt":"2023-06-01T00:00:00Z","endedAt":"2024-06-01T00:00:00Z",
				"contributionCalendar":{"totalContributions":6,"weeks":[
					{"contributionDays":[{"contributionCount":1,"weekday":0},{"contributionCount":2,"weekday":1}]},
					{"contributionDays":[{"contributionCount":3,"weekday":6}]}
				]}}}}}`,
			validate: func(t *testing.T, calendar *ContributionCalendar) {
				assert.Equal(t, from, calendar.StartedAt.UTC())
				assert.Equal(t, to, calendar.EndedAt.UTC())
				assert.Equal(t, 6, calendar.TotalContributions)
				require.Len(t, calendar.Weeks, 2)
				assert.Equal(t, []ContributionDay{{Count: 1, Weekday: 0}, {Count: 2, Weekday: 1}}, calendar.Weeks[0].Days)
				assert.Equal(t, []ContributionDay{{Count: 3, Weekday: 6}}, calendar.Weeks[1].Days)
			},
		},
		{
			name:          "graphql errors are surfaced",
			status:        http.StatusOK,
			response:      `{"data":{"user":null},"errors":[{"message":"Could not resolve to a User with the login of 'testuser'."}]}`,
			expectedError: "GitHub GraphQL Error: Could not resolve to a User",
			errorRef:      apperrors.RefUpstream,
		},
		{
			name:          "null user without errors",
			status:        http.StatusOK,
			response:      `{"data":{"user":null}}`,
			expectedError: "User not found on GitHub",
			errorRef:      apperrors.RefUserNotFound,
		},
		{
			name:          "non success status",
			status:        http.StatusBadGateway,
			response:      `bad gateway`,
			expectedError: "GitHub GraphQL Error",
			errorRef:      apperrors.RefUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/graphql", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				req := decodeGraphQL(t, r)
				assert.Contains(t, req.Query, "contributionsCollection(from: $from, to: $to)")
				assert.Equal(t, "testuser", req.Variables["login"])
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.response)
			}))
			defer server.Close()

			calendar, err := client.FetchContributionCalendar(context.Background(), "testuser", from, to)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.True(t, apperrors.HasReference(err, tt.errorRef))
				return
			}

			require.NoError(t, err)
			tt.validate(t, calendar)
		})
	}
}

func TestClient_FetchRepoDetails(t *testing.T) {
	keys := []RepoKey{{Owner: "owner0", Name: "repo0"}, {Owner: "owner1", Name: "repo1"}}

	t.Run("one aliased query for all repositories", func(t *testing.T) {
		calls := 0
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			req := decodeGraphQL(t, r)
			assert.Contains(t, req.Query, "repo0: repository(owner: $owner0, name: $name0)")
			assert.Contains(t, req.Query, "repo1: repository(owner: $owner1, name: $name1)")
			assert.Equal(t, "owner1", req.Variables["owner1"])
			assert.Equal(t, "repo1", req.Variables["name1"])

			fmt.Fprint(w, `{"data":{
				"repo0":{"stargazerCount":120,"owner":{"avatarUrl":"https://avatars.example/u/0?v=4"}},
				"repo1":{"stargazerCount":7,"owner":{"avatarUrl":"https://avatars.example/u/1?v=4"}}
			}}`)
		}))
		defer server.Close()

		details, err := client.FetchRepoDetails(context.Background(), keys)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, map[RepoKey]RepoDetails{
			keys[0]: {StargazerCount: 120, AvatarURL: "https://avatars.example/u/0?v=4"},
			keys[1]: {StargazerCount: 7, AvatarURL: "https://avatars.example/u/1?v=4"},
		}, details)
	})

	t.Run("unresolved repositories are dropped", func(t *testing.T) {
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":{
				"repo0":{"stargazerCount":5,"owner":{"avatarUrl":"https://avatars.example/u/0"}},
				"repo1":null
			},"errors":[{"message":"Could not resolve to a Repository with the name 'owner1/repo1'."}]}`)
		}))
		defer server.Close()

		details, err := client.FetchRepoDetails(context.Background(), keys)

		require.NoError(t, err)
		assert.Len(t, details, 1)
		assert.Equal(t, 5, details[keys[0]].StargazerCount)
	})

	t.Run("total failure is an upstream error", func(t *testing.T) {
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		details, err := client.FetchRepoDetails(context.Background(), keys)

		require.Error(t, err)
		assert.Nil(t, details)
		assert.True(t, apperrors.HasReference(err, apperrors.RefUpstream))
	})

	t.Run("no keys makes no call", func(t *testing.T) {
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}))
		defer server.Close()

		details, err := client.FetchRepoDetails(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, details)
	})
}

func TestClient_FetchImageBytes(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		if strings.HasSuffix(r.URL.Path, ".png") {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("\x89PNG"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	body, contentType, err := client.FetchImageBytes(context.Background(), server.URL+"/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), body)
	assert.Equal(t, "image/png", contentType)

	_, _, err = client.FetchImageBytes(context.Background(), server.URL+"/missing")
	assert.ErrorContains(t, err, "status 404")
}

func TestClient_BudgetIsCharged(t *testing.T) {
	calls := 0
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"login":"testuser"}`)
	}))
	defer server.Close()

	budget := NewBudget(1)
	ctx := WithBudget(context.Background(), budget)

	_, err := client.FetchUserProfile(ctx, "testuser")
	require.NoError(t, err)

	_, err = client.FetchUserProfile(ctx, "testuser")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBudgetExhausted)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, budget.Remaining())
}

func TestClient_Context_Cancellation(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		fmt.Fprint(w, `{"login":"testuser"}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchUserProfile(ctx, "testuser")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		raw      string
		expected RepoKey
		wantErr  bool
	}{
		{raw: "https://api.github.com/repos/golang/go", expected: RepoKey{Owner: "golang", Name: "go"}},
		{raw: "https://ghe.example.com/api/v3/repos/team/service", expected: RepoKey{Owner: "team", Name: "service"}},
		{raw: "https://api.github.com/users/golang", wantErr: true},
		{raw: "https://api.github.com/repos/golang", wantErr: true},
		{raw: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, err := ParseRepositoryURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
			assert.Equal(t, tt.expected.Owner+"/"+tt.expected.Name, key.String())
		})
	}
}

func TestValidateLogin(t *testing.T) {
	valid := []string{"a", "octocat", "octo-cat", "Octo-Cat-2", "0", strings.Repeat("a", 39)}
	for _, login := range valid {
		assert.NoError(t, ValidateLogin(login), login)
	}

	invalid := []string{"", "-octocat", "octocat-", "octo--cat", "octo_cat", "octo.cat", "a/../rate_limit", "..", "octocat repo:golang/go", "octocat\n", strings.Repeat("a", 40)}
	for _, login := range invalid {
		err := ValidateLogin(login)
		assert.True(t, apperrors.HasReference(err, apperrors.RefInvalidParameter), login)
	}
}

func TestClient_RejectsMalformedLogin(t *testing.T) {
	calls := 0
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"login":"rate_limit"}`)
	}))
	defer server.Close()

	ctx := context.Background()
	login := "a/../../rate_limit"

	_, err := client.FetchUserProfile(ctx, login)
	assert.True(t, apperrors.HasReference(err, apperrors.RefInvalidParameter))

	_, err = client.SearchPullRequests(ctx, login, 10)
	assert.True(t, apperrors.HasReference(err, apperrors.RefInvalidParameter))

	_, err = client.FetchContributionCalendar(ctx, login, time.Now().AddDate(-1, 0, 0), time.Now())
	assert.True(t, apperrors.HasReference(err, apperrors.RefInvalidParameter))

	assert.Zero(t, calls)
}

func TestClient_ReportsLowRateLimit(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer logger.SetOutput(os.Stdout)

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "7")
		w.Header().Set("X-RateLimit-Reset", "1717000000")
		fmt.Fprint(w, `{"login":"testuser"}`)
	}))
	defer server.Close()

	_, err := client.FetchUserProfile(context.Background(), "testuser")

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Low rate limit: 7 remaining")
}
