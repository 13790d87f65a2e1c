package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/KOFI-GYIMAH/readme-contribution-stats/docs"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/config"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/github"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/handler"
	md "github.com/KOFI-GYIMAH/readme-contribution-stats/internal/middleware"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/internal/service"
	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs

// @title README Contribution Stats
// @version 1.0.0
// @description Renders SVG cards of GitHub contribution statistics for profile READMEs.
// @host localhost:8081
// @BasePath /
func main() {
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.LevelDebug)
	}

	// * Load configuration
	cfg, err := config.LoadConfiguration()
	if err != nil {
		logger.Error("‼️ Failed to load config: %v", err)
		os.Exit(1)
	}

	// * Initialize GitHub client
	githubClient, err := github.NewClient(github.Options{
		Token:            cfg.GitHubToken,
		APIURL:           cfg.APIURL,
		GraphQLURL:       cfg.GraphQLURL,
		RateLimitMaxWait: cfg.RateLimitMaxWait,
	})
	if err != nil {
		logger.Error("Failed to initialize GitHub client: %v", err)
		os.Exit(1)
	}

	// * Create services
	dayService := service.NewDayService(githubClient)
	repoService := service.NewRepoService(githubClient, cfg.DefaultRepoLimit, cfg.MaxRepoLimit)

	// * Create API server
	cardHandler := handler.NewCardHandler(dayService, repoService, cfg.MaxSubrequests)
	router := mux.NewRouter()
	router.Use(md.LoggingMiddleware)

	cardHandler.RegisterRoutes(router)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	server := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		logger.Info("Starting API server on %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server error: %v", err)
			os.Exit(1)
		}
	}()

	// * Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
