package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/config"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/github"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/render"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/service"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/errors"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	// * stdout carries the SVG
	logger.SetOutput(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "badge",
	Short: "Render README contribution cards from the command line",
	Long: `badge - README Contribution Stats

Renders the same SVG cards the HTTP service serves, without running a server.
Useful for committing a static card from a scheduled CI job.

Examples:
  badge render --type day --username octocat > day.svg
  badge render --type repos --username octocat --limit 8 -o repos.svg`,
	Version: Version,
}

var (
	cardType string
	username string
	limit    int
	output   string
	timeout  time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a single card",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&cardType, "type", "repos", "Card type: repos or day")
	renderCmd.Flags().StringVarP(&username, "username", "u", "", "GitHub login (required)")
	renderCmd.Flags().IntVar(&limit, "limit", 0, "Repositories shown on the repos card (0 uses DEFAULT_REPO_LIMIT)")
	renderCmd.Flags().StringVarP(&output, "output", "o", "", "Write the SVG to this file instead of stdout")
	renderCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall deadline for GitHub calls")

	renderCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfiguration()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svg, err := renderCard(ctx, cfg, nil, cardType, username, limit)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), svg)
		return err
	}

	if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Info("Wrote %s card for %s to %s", cardType, username, output)
	return nil
}

// renderCard builds one card under the same subrequest budget the server uses.
// A nil github.Options.Transport falls back to http.DefaultTransport.
func renderCard(ctx context.Context, cfg *config.Config, opts *github.Options, kind, login string, n int) (string, error) {
	if opts == nil {
		opts = &github.Options{}
	}
	opts.Token = cfg.GitHubToken
	opts.APIURL = cfg.APIURL
	opts.GraphQLURL = cfg.GraphQLURL
	opts.RateLimitMaxWait = cfg.RateLimitMaxWait

	client, err := github.NewClient(*opts)
	if err != nil {
		return "", err
	}

	ctx = github.WithBudget(ctx, github.NewBudget(cfg.MaxSubrequests))

	switch kind {
	case "day":
		stats, err := service.NewDayService(client).WeekdayStats(ctx, login)
		if err != nil {
			return "", err
		}
		return render.DayCard(*stats), nil

	case "repos":
		showcase, err := service.NewRepoService(client, cfg.DefaultRepoLimit, cfg.MaxRepoLimit).Showcase(ctx, login, n)
		if err != nil {
			return "", err
		}
		return render.RepoCard(*showcase), nil

	default:
		return "", errors.UnknownRoute(fmt.Sprintf("unknown card type %q, use repos or day", kind))
	}
}
