package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/errors"
)

// * GitHub logins: alphanumerics and single inner hyphens, at most 39 characters
var loginPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)

// ValidateLogin rejects anything that is not a GitHub login, so a username
// can never change the REST path or add search qualifiers.
func ValidateLogin(login string) error {
	if len(login) > 39 || !loginPattern.MatchString(login) {
		return errors.InvalidParameter(fmt.Sprintf("Invalid username: %s", login))
	}
	return nil
}

type UserProfile struct {
	Login string
	Name  string
}

// DisplayName falls back to the login when the profile has no name set.
func (u *UserProfile) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

type SearchItem struct {
	Title         string
	RepositoryURL string
}

type ContributionDay struct {
	Count   int
	Weekday int
}

type ContributionWeek struct {
	Days []ContributionDay
}

type ContributionCalendar struct {
	StartedAt          time.Time
	EndedAt            time.Time
	TotalContributions int
	Weeks              []ContributionWeek
}

// RepoKey identifies a repository as owner/name.
type RepoKey struct {
	Owner string
	Name  string
}

func (k RepoKey) String() string {
	return k.Owner + "/" + k.Name
}

type RepoDetails struct {
	StargazerCount int
	AvatarURL      string
}

// ParseRepositoryURL extracts owner and name from an API repository URL
// such as https://api.github.com/repos/{owner}/{name}.
func ParseRepositoryURL(raw string) (RepoKey, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return RepoKey{}, fmt.Errorf("invalid repository url %q: %w", raw, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] != "repos" {
			continue
		}
		if owner, name := parts[i+1], parts[i+2]; owner != "" && name != "" {
			return RepoKey{Owner: owner, Name: name}, nil
		}
	}
	return RepoKey{}, fmt.Errorf("repository url %q should contain /repos/{owner}/{name}", raw)
}
