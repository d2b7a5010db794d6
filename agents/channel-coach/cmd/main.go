package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	channelcoach "channel-coach/agents/channel-coach"
	"channel-coach/agents/channel-coach/tracker"
	"channel-coach/agents/channel-coach/youtube"
	"channel-coach/shared/ai"
	"channel-coach/shared/cache"
	"channel-coach/shared/config"
	"channel-coach/shared/logging"
	"channel-coach/shared/monitoring"
	"channel-coach/shared/scheduler"
	"channel-coach/shared/storage"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure logging")
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics := monitoring.NewMetrics(cfg.Monitoring.MetricsEnabled)

	kv, closeStore, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer closeStore()

	tr, err := tracker.New(tracker.NewStoreRepository(kv))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load tracked actions")
	}

	client, err := youtube.NewClient(ctx, metrics, option.WithAPIKey(cfg.YouTube.APIKey))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create YouTube client")
	}

	dashboard := channelcoach.NewDashboard(
		client,
		youtube.NewAnalyticsClient(metrics),
		cache.Instrument(cache.New(cfg.Cache), metrics),
		youtube.NewLimiter(cfg.YouTube.AnalyticsRPS, cfg.YouTube.AnalyticsBurst),
		cfg.YouTube.RecentVideos,
	)

	agent := channelcoach.NewCoachAgent(cfg, dashboard, tr, metrics)
	s := scheduler.New(cfg, agent, monitoring.NewMonitor(metrics), metrics)

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		log.Info().Msg("Running once...")
		if err := agent.Initialize(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize agent")
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to run")
		}
		return
	}

	assistant, err := ai.NewAssistant(ctx, cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create assistant")
	}

	server := channelcoach.NewServer(cfg.Server, dashboard, tr, assistant, metrics)
	server.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("API server shutdown")
		}
	}()

	log.Info().Msg("Starting scheduler...")
	if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Scheduler failed")
	}
}
