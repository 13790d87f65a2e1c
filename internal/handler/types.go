package handler

type CardType string

const (
	CardRepos   CardType = "repos"
	CardDay     CardType = "day"
	CardWrapped CardType = "wrapped"
)

const (
	ContentTypeSVG = "image/svg+xml"
	CacheControl   = "public, max-age=14400"
)

const (
	MessageMissingRepos = "Missing parameter: ?type=repos&username=yourname&limit=6"
	MessageMissingDay   = "Missing parameter: ?type=day&username=yourname"
	MessageInvalidType  = "Invalid type parameter. Use ?type=repos or ?type=day"
	MessageWrapped      = "Coming Soon: GitHub Wrapped!"
)
