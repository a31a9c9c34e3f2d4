package cmd

import (
	"context"
	"fmt"
	"time"

	"plottwist/api"
	"plottwist/cache/redis"
	"plottwist/config"
	"plottwist/database"
	"plottwist/domain/interfaces"
	"plottwist/domain/services"
	"plottwist/infrastructure"
	"plottwist/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting plottwist server...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	log.Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	var eventPublisher interfaces.EventPublisher
	if err := natsClient.Connect(ctx); err != nil {
		// The API stays available without the event stream
		log.WithError(err).Warn("NATS unavailable, events will be dropped")
		eventPublisher = infrastructure.NewNoopEventPublisher()
	} else {
		defer natsClient.Close()
		natsPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
		if err := natsPublisher.EnsureDomainEventStream(); err != nil {
			return fmt.Errorf("failed to ensure event stream: %w", err)
		}
		eventPublisher = natsPublisher
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	profileRepo := repository.NewProfileRepository(db)

	var leaderboardCache interfaces.LeaderboardCache
	if cfg.RedisAddr != "" {
		log.Info("Connecting to Redis...")
		redisClient, err := redis.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, leaderboard caching disabled")
		} else {
			defer redisClient.Close()
			leaderboardCache = redis.NewLeaderboardCache(redisClient)
		}
	}
	leaderboard := services.NewLeaderboardService(profileRepo, leaderboardCache)

	handler := api.NewHandler(uowFactory, profileRepo, leaderboard, cfg)
	server := api.NewServer(handler, profileRepo, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.WithField("environment", cfg.Environment).Info("Server is running")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error during server shutdown")
	}

	log.Info("Shutdown completed")
	return nil
}
