package models

// * A repository shown on the repos card
type RepoSummary struct {
	Owner      string `json:"owner"`
	Name       string `json:"name"`
	Stars      int    `json:"stars"`
	AvatarURL  string `json:"avatar_url"`
	AvatarData string `json:"-"`
	MostActive bool   `json:"most_active"`
}

func (r RepoSummary) FullName() string {
	return r.Owner + "/" + r.Name
}

// * Showcase is everything the repos card renders
type Showcase struct {
	Login       string        `json:"login"`
	DisplayName string        `json:"display_name"`
	Repos       []RepoSummary `json:"repos"`
}
