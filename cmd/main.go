package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/KasumiMercury/primind-shake-detection/internal/config"
	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/handler"
	"github.com/KasumiMercury/primind-shake-detection/internal/health"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/repository"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/sensorsource"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/shakerecorder"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/webhook"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/logging"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/metrics"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/middleware"
	"github.com/KasumiMercury/primind-shake-detection/internal/service/detection"
	"github.com/KasumiMercury/primind-shake-detection/internal/service/notify"
)

// Version is set via ldflags at build time
var Version = "dev"

const (
	moduleName        = logging.Module("shake-detection")
	grpcHealthService = "shake.v1.ShakeDetectionService"
	evictionInterval  = time.Minute
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	// Validate configuration
	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	shakeMetrics, err := metrics.NewShakeMetrics()
	if err != nil {
		slog.Error("failed to initialize shake metrics", slog.String("error", err.Error()))
		return 1
	}

	// Initialize shake event recorder (InfluxDB for local, BigQuery for gcloud)
	recorderCfg := shakerecorder.LoadConfig()
	recorder, err := shakerecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize shake event recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := recorder.Flush(flushCtx); err != nil {
			slog.Warn("failed to flush shake event recorder", slog.String("error", err.Error()))
		}
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close shake event recorder", slog.String("error", err.Error()))
		}
	}()

	// Initialize task queue
	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient, err := repository.NewRedisClient(ctx, repository.ClientOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
		slog.Bool("tls", cfg.Redis.TLS),
	)

	shakeRepo := repository.NewShakeEventRepository(redisClient, repository.WithEventTTL(cfg.Redis.EventTTL))

	var listeners []domain.Listener
	if taskQueue != nil {
		listeners = append(listeners, taskqueue.NewListener(taskQueue))
	}
	if cfg.Notify.WebhookURL != "" {
		listeners = append(listeners, webhook.NewClient(cfg.Notify.WebhookURL, cfg.Notify.WebhookTimeout))
	}
	dispatcher := notify.NewDispatcher(shakeRepo, cfg.Notify.DeliveryTTL, shakeMetrics, listeners...)

	slog.Info("shake listeners configured",
		slog.Any("listeners", dispatcher.Listeners()),
	)

	detectionService := detection.NewService(
		detection.Config{
			Thresholds:   cfg.Detection.Thresholds(),
			MaxBatchSize: cfg.Detection.MaxBatchSize,
		},
		shakeRepo,
		recorder,
		dispatcher,
		shakeMetrics,
	)

	go detectionService.RunEviction(ctx, evictionInterval, cfg.Detection.DetectorIdleTTL)

	healthChecker := health.NewChecker(redisClient, Version)

	if cfg.MQTT.Enabled() {
		source := sensorsource.NewMQTTSource(sensorsource.MQTTConfig{
			BrokerURL:        cfg.MQTT.BrokerURL,
			Topic:            cfg.MQTT.Topic,
			ClientID:         cfg.MQTT.ClientID,
			Username:         cfg.MQTT.Username,
			Password:         cfg.MQTT.Password,
			QoS:              cfg.MQTT.QoS,
			KeepAliveSeconds: cfg.MQTT.KeepAliveSeconds,
		}, shakeMetrics)

		if err := source.Start(ctx, detectionService.HandleReading(detection.SourceMQTT)); err != nil {
			slog.Error("failed to start mqtt source",
				slog.String("event", "mqtt.start.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := source.Stop(); err != nil {
				slog.Warn("failed to stop mqtt source", slog.String("error", err.Error()))
			}
		}()

		healthChecker.AddOptionalCheck("mqtt", source.Check)
	}

	sampleHandler := handler.NewSampleHandler(detectionService)
	shakeHandler := handler.NewShakeHandler(shakeRepo, dispatcher)
	streamHandler := handler.NewStreamHandler(detectionService)

	grpcHealthPath, grpcHealthHandler := healthChecker.GRPCHandler(grpcHealthService)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths: []string{
			"/health", "/health/live", "/health/ready",
			grpcHealthPath + "Check", grpcHealthPath + "Watch",
		},
		Module:      moduleName,
		TracerName:  "github.com/KasumiMercury/primind-shake-detection/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())
	r.POST(grpcHealthPath+"*method", gin.WrapH(grpcHealthHandler))

	// API routes
	v1 := r.Group("/api/v1")
	{
		devices := v1.Group("/devices/:device_id")
		devices.POST("/samples", sampleHandler.HandleSamples)
		devices.GET("/window", sampleHandler.HandleGetWindow)
		devices.DELETE("/window", sampleHandler.HandleResetWindow)
		devices.GET("/shakes", shakeHandler.HandleListShakes)
		devices.GET("/stream", streamHandler.HandleStream)

		v1.GET("/shakes/:event_id", shakeHandler.HandleGetShake)
		v1.POST("/shakes/:event_id/redeliver", shakeHandler.HandleRedeliver)
	}

	// Create HTTP server. h2c lets gRPC health clients speak HTTP/2 without TLS.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Float64("magnitude_threshold", cfg.Detection.MagnitudeThreshold),
			slog.Float64("direction_threshold", cfg.Detection.DirectionThreshold),
			slog.Duration("max_window", cfg.Detection.MaxWindow),
			slog.Int("min_queue_size", cfg.Detection.MinQueueSize),
			slog.Bool("mqtt_enabled", cfg.MQTT.Enabled()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
