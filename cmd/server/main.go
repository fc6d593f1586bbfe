package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rpsarena/internal/app"
	"rpsarena/internal/cache"
	"rpsarena/internal/config"
	"rpsarena/internal/repository"

	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pingTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stores app.Stores

	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		leaderboard, err := cache.NewLeaderboardCache(rdb)
		if err != nil {
			return err
		}
		stores.Leaderboard = leaderboard
		log.Info("Connected to Redis", "addr", cfg.RedisAddress())
	} else {
		log.Warn("REDIS_ADDR not set, leaderboard disabled")
	}

	if cfg.MongoEnabled() {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			defer cancel()
			_ = mongoClient.Disconnect(disconnectCtx)
		}()

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = mongoClient.Ping(pingCtx, nil)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to ping mongo: %w", err)
		}
		matches := repository.NewMatchRepo(mongoClient.Database(cfg.MongoDatabase))
		if err := matches.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create match indexes: %w", err)
		}
		stores.Matches = matches
		log.Info("Connected to MongoDB", "database", cfg.MongoDatabase)
	} else {
		log.Warn("MONGO_URI not set, match history disabled")
	}

	server, err := app.New(cfg, log, nil, stores)
	if err != nil {
		return err
	}

	// Workers outlive the signal so shutdown can still run on the hub
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workersDone := make(chan struct{})
	go func() {
		server.Supervisor().Run(workerCtx)
		close(workersDone)
	}()

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.Router,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Server starting", "addr", cfg.Addr(),
			"round_timeout", cfg.RoundTimeout, "result_pause", cfg.ResultPause)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		stopWorkers()
		<-workersDone
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server forced to shutdown", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to drain connections", "error", err)
	}

	stopWorkers()
	<-workersDone
	log.Info("Server exited", "at", time.Now().UTC())
	return nil
}
