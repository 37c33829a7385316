package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"carline-cleanup/api"
	"carline-cleanup/config"
	"carline-cleanup/services"
	"carline-cleanup/storage"
	"carline-cleanup/utils"
)

func main() {
	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("carline cleanup service starting",
		zap.String("mongo_db", cfg.MongoDatabase),
		zap.String("source", cfg.SourceCollection),
		zap.String("cleaned", cfg.CleanedCollection),
		zap.String("search_index", cfg.ElasticIndex),
		zap.Int("batch_size", cfg.BatchSize))

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		cancel()
		logger.Fatal("mongodb ping failed", zap.Error(err))
	}
	cancel()

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
	})
	if err != nil {
		logger.Fatal("failed to create elasticsearch client", zap.Error(err))
	}

	gcsClient, err := gcs.NewClient(ctx)
	if err != nil {
		logger.Fatal("failed to create gcs client", zap.Error(err))
	}
	defer func() { _ = gcsClient.Close() }()

	store := storage.NewMongoStore(mongoClient, cfg.MongoDatabase, cfg.SourceCollection, cfg.CleanedCollection, logger)
	indexer := storage.NewElasticIndexer(esClient, cfg.ElasticIndex, cfg.IndexConcurrency, logger)
	uploader := storage.NewGCSUploader(gcsClient, cfg.GCSBucket,
		cfg.UploadMaxRetries, time.Duration(cfg.UploadRetryBaseMs)*time.Millisecond, logger)

	service := services.NewCleanupService(cfg, logger, store, store, indexer, uploader)

	server := api.NewServer(cfg.HTTPAddr, service, logger)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	runScheduled(ctx, cfg, logger, service)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("carline cleanup service stopped")
}

// runScheduled runs one pass at startup (when configured), then one per
// interval, until the context is canceled.
func runScheduled(ctx context.Context, cfg *config.Config, logger *zap.Logger, service *services.CleanupService) {
	runOnce := func() {
		result := service.Run(ctx)
		if result.Success {
			logger.Info("scheduled cleanup completed",
				zap.Int64("rows_written", result.RowsWritten),
				zap.Int64("rows_dropped", result.RowsDropped),
				zap.Int64("errors", result.Errors),
				zap.String("blob", result.BlobName),
				zap.Duration("duration", result.Duration))
		} else {
			logger.Warn("scheduled cleanup failed", zap.String("message", result.Message))
		}
	}

	if cfg.RunOnStart {
		runOnce()
	}

	ticker := time.NewTicker(time.Duration(cfg.RunIntervalHours) * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
