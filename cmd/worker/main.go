package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/digitalprobr/supoclip/internal/bridge"
	"github.com/digitalprobr/supoclip/internal/infra/assemblyai"
	"github.com/digitalprobr/supoclip/internal/infra/config"
	"github.com/digitalprobr/supoclip/internal/infra/email"
	"github.com/digitalprobr/supoclip/internal/infra/ffmpeg"
	"github.com/digitalprobr/supoclip/internal/infra/metrics"
	miniostorage "github.com/digitalprobr/supoclip/internal/infra/minio"
	"github.com/digitalprobr/supoclip/internal/infra/openai"
	"github.com/digitalprobr/supoclip/internal/infra/postgres"
	"github.com/digitalprobr/supoclip/internal/infra/rabbitmq"
	redisprogress "github.com/digitalprobr/supoclip/internal/infra/redis"
	"github.com/digitalprobr/supoclip/internal/infra/tracing"
	"github.com/digitalprobr/supoclip/internal/infra/ytdlp"
	"github.com/digitalprobr/supoclip/internal/usecase"
	"github.com/digitalprobr/supoclip/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting supoclip-worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	// Migrations
	err = postgres.RunMigrations(cfg.DatabaseURL, "migrations")
	if err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// Redis (progress store + broadcaster)
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	fatalOnErr(rdb.Ping(ctx).Err(), "connect to redis")
	defer rdb.Close()

	progressStore := redisprogress.NewStore(rdb, log)

	// MinIO
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:   cfg.MinIOEndpoint,
		AccessKey:  cfg.MinIOAccessKey,
		SecretKey:  cfg.MinIOSecretKey,
		UseSSL:     cfg.MinIOUseSSL,
		ClipBucket: cfg.MinIOClipBucket,
	})
	fatalOnErr(err, "create minio storage")
	fatalOnErr(storage.EnsureBucket(ctx), "ensure minio bucket")

	// RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
	fatalOnErr(err, "connect to rabbitmq for publisher")
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, cfg.RabbitMQExchange)
	fatalOnErr(err, "create rabbitmq publisher")

	dlqPub := rabbitmq.NewDLQPublisher(pub, cfg.RabbitMQDLQ)

	// Collaborator adapters
	downloader := ytdlp.NewClient(filepath.Join(cfg.TempDir, "downloads"), log)
	transcriber := assemblyai.NewTranscriber(cfg.AssemblyAIKey, cfg.AssemblyAIBaseURL, log)
	analyzer := openai.NewAnalyzer(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, log)
	renderer := ffmpeg.NewRenderer(cfg.FontsDir, log)
	repo := postgres.NewClipJobRepository(pool)
	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)

	// Execution bridge for blocking collaborator calls
	br := bridge.New(cfg.BridgeMaxConcurrent, log)

	// Use case
	uc := usecase.NewProcessClipsUseCase(
		downloader, transcriber, analyzer, renderer,
		progressStore, repo, storage,
		dlqPub, notifier,
		br, log,
		usecase.ProcessClipsConfig{
			TempDir: cfg.TempDir,
		},
	)

	// Metrics server
	metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	// Consumer (worker pool); registers Execute as the job handler
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         cfg.RabbitMQURL,
		Queue:       cfg.RabbitMQProcessingQueue,
		Exchange:    cfg.RabbitMQExchange,
		RoutingKey:  cfg.RabbitMQRoutingKey,
		DLQ:         cfg.RabbitMQDLQ,
		Prefetch:    cfg.RabbitMQPrefetch,
		WorkerCount: cfg.WorkerCount,
		BaseDelayMs: cfg.RetryBaseDelayMs,
	}, uc.Execute, log)
	fatalOnErr(err, "create consumer")

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("supoclip-worker started, consuming messages")

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	// Shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	consumer.Close()
	log.Info("supoclip-worker stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
