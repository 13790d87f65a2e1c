package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
	"github.com/joho/godotenv"
)

const (
	DefaultServerPort       = ":8081"
	DefaultAPIURL           = "https://api.github.com/"
	DefaultGraphQLURL       = "https://api.github.com/graphql"
	DefaultMaxSubrequests   = 50
	DefaultRepoLimit        = 6
	DefaultMaxRepoLimit     = 20
	DefaultRateLimitMaxWait = 5 * time.Second
)

type Config struct {
	GitHubToken      string
	ServerPort       string
	APIURL           string
	GraphQLURL       string
	MaxSubrequests   int
	DefaultRepoLimit int
	MaxRepoLimit     int
	RateLimitMaxWait time.Duration
}

// * LoadConfiguration reads the configuration from the .env file and the
// * environment and returns a pointer to a Config
func LoadConfiguration() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		ServerPort:  os.Getenv("SERVER_PORT"),
		APIURL:      os.Getenv("GITHUB_API_URL"),
		GraphQLURL:  os.Getenv("GITHUB_GRAPHQL_URL"),
	}

	if cfg.GitHubToken == "" {
		return nil, errors.New("GITHUB_TOKEN is required")
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = DefaultServerPort
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = DefaultGraphQLURL
	}

	var err error
	if cfg.MaxSubrequests, err = intEnv("MAX_SUBREQUESTS", DefaultMaxSubrequests); err != nil {
		return nil, err
	}
	if cfg.DefaultRepoLimit, err = intEnv("DEFAULT_REPO_LIMIT", DefaultRepoLimit); err != nil {
		return nil, err
	}
	if cfg.MaxRepoLimit, err = intEnv("MAX_REPO_LIMIT", DefaultMaxRepoLimit); err != nil {
		return nil, err
	}

	cfg.RateLimitMaxWait = DefaultRateLimitMaxWait
	if v := os.Getenv("RATE_LIMIT_MAX_WAIT"); v != "" {
		if cfg.RateLimitMaxWait, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_MAX_WAIT: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("✅ env content loaded successfully 🎉")
	return cfg, nil
}

// Validate checks that the limits are consistent with each other.
func (c *Config) Validate() error {
	if c.MaxSubrequests < 3 {
		return errors.New("MAX_SUBREQUESTS must allow at least 3 calls")
	}
	if c.MaxRepoLimit < 1 {
		return errors.New("MAX_REPO_LIMIT must be positive")
	}
	if c.DefaultRepoLimit < 1 || c.DefaultRepoLimit > c.MaxRepoLimit {
		return fmt.Errorf("DEFAULT_REPO_LIMIT must be between 1 and %d", c.MaxRepoLimit)
	}
	return nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s should be an integer: %w", key, err)
	}
	return n, nil
}
