package main

import (
	"context"
	"errors"
	"fmt"
	"gpttransit/internal/config"
	"gpttransit/internal/core"
	"gpttransit/internal/crowd"
	"gpttransit/internal/journey"
	"gpttransit/internal/llm"
	"gpttransit/internal/nodes"
	"gpttransit/internal/parser"
	"gpttransit/internal/services"
	"gpttransit/internal/storage"
	"gpttransit/pkg"
	"gpttransit/src/conversation"
	"gpttransit/src/logger"
	rstorage "gpttransit/src/storage"
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/model"
)

// App holds the wired services behind the CLI commands.
type App struct {
	Config  *config.Config
	Tools   *nodes.Toolset
	Agent   *core.AgentManager
	Store   storage.Store
	closers []func() error
}

// NewToolset loads the datasets and builds the upstream clients.
func NewToolset(cfg *config.Config) (*nodes.Toolset, error) {
	app := cfg.App
	stations, err := services.LoadStationDirectory(app.Data.StationsPath)
	if err != nil {
		return nil, err
	}
	stands, err := services.LoadTaxiStands(app.Data.TaxiStandsPath)
	if err != nil {
		return nil, err
	}
	volumes, err := services.LoadVolumeRecords(app.Data.VolumePath)
	if err != nil {
		return nil, err
	}
	var trips []pkg.ODRecord
	if app.Data.ODPath != "" {
		if trips, err = services.LoadODRecords(app.Data.ODPath); err != nil {
			return nil, err
		}
	}
	logger.Info().
		Int("stations", stations.Len()).
		Int("taxi_stands", len(stands)).
		Int("volume_rows", len(volumes)).
		Int("trip_rows", len(trips)).
		Msg("Datasets loaded")

	hc := &http.Client{Timeout: app.Upstream.Timeout}
	onemap := services.NewOneMapClient(services.OneMapOptions{
		BaseURL: app.Upstream.OneMapBaseURL,
		Token:   cfg.Secrets.OneMapAPIKey,
		Routing: services.RoutingOptions{
			Mode:            app.Routing.Mode,
			MaxWalkDistance: app.Routing.MaxWalkDistance,
			NumItineraries:  app.Routing.NumItineraries,
		},
		CacheSize: app.Upstream.GeocodeCacheSize,
		CacheTTL:  app.Upstream.GeocodeCacheTTL,
		HTTP:      hc,
	})
	now := func() time.Time { return time.Now().In(parser.Singapore) }

	return &nodes.Toolset{
		Planner:    journey.NewPlanner(onemap, stations, now),
		Stations:   stations,
		Geocoder:   onemap,
		LTA:        services.NewLTAClient(app.Upstream.LTABaseURL, cfg.Secrets.LTAAPIKey, hc),
		Weather:    services.NewWeatherClient(app.Upstream.WeatherBaseURL, hc),
		TaxiStands: stands,
		Volumes:    volumes,
		Trips:      trips,
		Passenger:  crowd.Thresholds(app.Crowd.Passenger),
		TripLevels: crowd.Thresholds(app.Crowd.Trip),
		Now:        now,
	}, nil
}

// NewApp wires tools, models, memory and the transcript store.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	tools, err := NewToolset(cfg)
	if err != nil {
		return nil, err
	}
	a.Tools = tools
	toolList, err := tools.GetTools()
	if err != nil {
		return nil, err
	}

	chat, err := llm.NewChatModel(ctx, cfg.App.Agent.Chat)
	if err != nil {
		return nil, err
	}
	var summarizer model.BaseChatModel
	if cfg.App.Agent.Summarize {
		if summarizer, err = llm.NewChatModel(ctx, cfg.App.Agent.Summarizer); err != nil {
			return nil, err
		}
	}

	memory, err := a.openMemory(ctx)
	if err != nil {
		return nil, err
	}
	if a.Store, err = a.openStore(ctx); err != nil {
		return nil, err
	}

	a.Agent, err = core.NewAgentManager(ctx, core.Options{
		ChatModel:  chat,
		Summarizer: summarizer,
		Tools:      toolList,
		Memory:     conversation.NewService(memory),
		Store:      a.Store,
		MaxSteps:   cfg.App.Agent.MaxSteps,
		MaxTurns:   cfg.Conversation.MaxTurns,
	})
	if err != nil {
		return nil, err
	}
	ok = true
	return a, nil
}

func (a *App) openMemory(ctx context.Context) (conversation.Repository, error) {
	conv := a.Config.Conversation
	if conv.RedisURL == "" {
		logger.Warn().Msg("REDIS_URL not set, conversation memory is kept in process")
		return conversation.NewMemoryRepository(conv.TTL), nil
	}
	client, err := rstorage.NewRedisClient(ctx, conv.RedisURL)
	if err != nil {
		return nil, err
	}
	repo := conversation.NewRedisRepository(client, conv.TTL)
	a.closers = append(a.closers, repo.Close)
	return repo, nil
}

func (a *App) openStore(ctx context.Context) (storage.Store, error) {
	dsn := a.Config.Secrets.DatabaseURL
	if dsn == "" {
		return storage.NopStore{}, nil
	}
	pg, err := storage.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pg.Close)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	return pg, nil
}

// Close releases connections opened by NewApp.
func (a *App) Close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		logger.Warn().Err(err).Msg("Shutdown cleanup failed")
	}
}
