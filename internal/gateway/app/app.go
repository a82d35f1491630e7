package app

import (
	"context"
	"fmt"

	"repocopilot/internal/gateway/config"
	"repocopilot/internal/gateway/handler"
	"repocopilot/internal/gateway/server"
	"repocopilot/internal/gateway/service/copilot"
	"repocopilot/internal/githubapi"
	"repocopilot/internal/session"
	"repocopilot/internal/snapshot"
)

type App struct {
	server *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	client := githubapi.NewWithBaseURLs(cfg.GitHub.Token, cfg.GitHub.APIBaseURL, cfg.GitHub.RawBaseURL)
	builder := snapshot.NewBuilder(client,
		snapshot.WithMaxFiles(cfg.Snapshot.MaxFiles),
		snapshot.WithMaxFileBytes(cfg.Snapshot.MaxFileBytes),
		snapshot.WithFetchTimeout(cfg.Snapshot.FetchTimeout),
	)
	store, err := session.NewStore(cfg.Sessions.Capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	copilotSvc := copilot.New(store, builder)
	chatHandler := handler.NewChatHandler(copilotSvc)

	// Routing & Server
	mux := server.NewMux(chatHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
