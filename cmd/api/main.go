package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/faceattr/internal/api"
	"github.com/your-org/faceattr/internal/api/ws"
	"github.com/your-org/faceattr/internal/config"
	"github.com/your-org/faceattr/internal/detect"
	"github.com/your-org/faceattr/internal/models"
	"github.com/your-org/faceattr/internal/observability"
	"github.com/your-org/faceattr/internal/queue"
	"github.com/your-org/faceattr/internal/storage"
	"github.com/your-org/faceattr/internal/vision"
	"github.com/your-org/faceattr/pkg/dto"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting face attribute API service", "port", cfg.Server.Port)

	// Connect to Postgres
	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to MinIO
	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBucket(context.Background()); err != nil {
		slog.Warn("ensure minio bucket", "error", err)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Consume analysis results: persist them and broadcast via WebSocket.
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create result consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeResults(ctx, "api-results", func(ctx context.Context, msg jetstream.Msg) error {
		var result models.AnalysisResult
		if err := json.Unmarshal(msg.Data(), &result); err != nil {
			return err
		}

		analysis := &models.Analysis{
			ID:           result.AnalysisID,
			ImageKey:     result.ImageKey,
			AnnotatedKey: result.AnnotatedKey,
			Width:        result.Width,
			Height:       result.Height,
		}
		if err := db.CreateAnalysis(ctx, analysis, result.Faces); err != nil {
			slog.Error("store analysis", "error", err, "analysis", result.AnalysisID)
		}

		evtType := "analysis_completed"
		if len(result.Faces) == 0 {
			evtType = "no_faces"
		}

		faces := make([]dto.FaceResponse, 0, len(result.Faces))
		for _, f := range result.Faces {
			faces = append(faces, dto.NewFaceResponse(f))
		}

		hub.BroadcastEvent(&dto.WSEvent{
			Type:       evtType,
			AnalysisID: result.AnalysisID,
			Data: dto.AnalysisResponse{
				ID:        result.AnalysisID,
				FaceCount: len(result.Faces),
				Faces:     faces,
				CreatedAt: result.Timestamp.Format(time.RFC3339),
			},
		})

		return nil
	})
	if err != nil {
		slog.Warn("start result consumer", "error", err)
	}

	// Initialize ONNX Runtime and the attribute pipeline. The API serves the
	// synchronous analyze/annotate endpoints itself, so the pipeline is
	// mandatory here.
	ort.SetSharedLibraryPath(getONNXLibPath())
	if err := ort.InitializeEnvironment(); err != nil {
		slog.Error("init onnx runtime", "error", err)
		os.Exit(1)
	}
	defer ort.DestroyEnvironment()

	detector := detect.NewClient(cfg.Detector)

	pipeline, err := vision.NewPipeline(context.Background(), cfg.Vision, minioStore, detector)
	if err != nil {
		slog.Error("init attribute pipeline", "error", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		APIKey:      cfg.Server.APIKey,
		DB:          db,
		MinIO:       minioStore,
		Producer:    producer,
		Hub:         hub,
		Pipeline:    pipeline,
		JPEGQuality: cfg.Vision.JPEGQuality,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}

// getONNXLibPath returns the ONNX Runtime shared library path.
func getONNXLibPath() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "linux":
		return "libonnxruntime.so"
	case "darwin":
		return "libonnxruntime.dylib"
	default:
		return "onnxruntime.dll"
	}
}
