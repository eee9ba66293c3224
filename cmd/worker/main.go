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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/faceattr/internal/config"
	"github.com/your-org/faceattr/internal/detect"
	"github.com/your-org/faceattr/internal/models"
	"github.com/your-org/faceattr/internal/observability"
	"github.com/your-org/faceattr/internal/queue"
	"github.com/your-org/faceattr/internal/storage"
	"github.com/your-org/faceattr/internal/vision"
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

	slog.Info("starting face attribute worker",
		"workers", cfg.Vision.WorkerCount,
		"cpu_cores", runtime.NumCPU(),
	)

	// Initialize ONNX Runtime
	ort.SetSharedLibraryPath(getONNXLibPath())
	if err := ort.InitializeEnvironment(); err != nil {
		slog.Error("init onnx runtime", "error", err)
		os.Exit(1)
	}
	defer ort.DestroyEnvironment()

	// Connect to MinIO
	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	// Initialize the attribute pipeline
	detector := detect.NewClient(cfg.Detector)

	pipeline, err := vision.NewPipeline(context.Background(), cfg.Vision, minioStore, detector)
	if err != nil {
		slog.Error("init attribute pipeline", "error", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	slog.Info("attribute pipeline initialized")

	// Create NATS consumer
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming analyze tasks
	err = consumer.ConsumeTasks(ctx, "attribute-workers", func(ctx context.Context, msg jetstream.Msg) error {
		var task models.AnalyzeTask
		if err := json.Unmarshal(msg.Data(), &task); err != nil {
			slog.Error("unmarshal analyze task", "error", err)
			return nil // Don't retry on unmarshal errors
		}

		if err := processTask(ctx, task, pipeline, minioStore, producer, cfg.Vision.JPEGQuality); err != nil {
			return fmt.Errorf("process analysis %s: %w", task.AnalysisID, err)
		}

		return nil
	}, cfg.Vision.WorkerCount)
	if err != nil {
		slog.Error("start task consumer", "error", err)
		os.Exit(1)
	}

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		slog.Info("worker metrics listening", "addr", ":8082")
		if err := http.ListenAndServe(":8082", mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	// Periodically report queue depth
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				depth, err := producer.QueueDepth(ctx)
				if err == nil {
					observability.QueueDepth.Set(float64(depth))
				}
			}
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	slog.Info("worker stopped")
}

// processTask loads the image, runs the full attribute pipeline, stores the
// annotated copy, and publishes the result event.
func processTask(ctx context.Context, task models.AnalyzeTask, pipeline *vision.Pipeline, minioStore *storage.MinIOStore, producer *queue.Producer, jpegQuality int) error {
	data, err := minioStore.GetObject(ctx, task.ImageRef)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	img, err := vision.DecodeImage(data)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	faces, err := pipeline.Analyze(ctx, img)
	if err != nil {
		observability.ImagesAnalyzed.WithLabelValues("error").Inc()
		return fmt.Errorf("analyze: %w", err)
	}

	annotatedKey := ""
	if len(faces) > 0 {
		boxes := make([]models.BoundingBox, len(faces))
		for i, f := range faces {
			boxes[i] = f.Box
		}
		annotated := vision.Annotate(img, boxes)
		annotatedKey = "annotated/" + task.AnalysisID.String() + ".jpg"
		if err := minioStore.PutObject(ctx, annotatedKey, vision.EncodeJPEG(annotated, jpegQuality), "image/jpeg"); err != nil {
			slog.Warn("store annotated image", "error", err, "analysis", task.AnalysisID)
			annotatedKey = ""
		}
	}

	bounds := img.Bounds()
	result := models.AnalysisResult{
		AnalysisID:   task.AnalysisID,
		ImageKey:     task.ImageRef,
		AnnotatedKey: annotatedKey,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Faces:        faces,
		Timestamp:    time.Now(),
	}
	if err := producer.PublishResult(ctx, task.AnalysisID.String(), result); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}

	outcome := "ok"
	if len(faces) == 0 {
		outcome = "no_faces"
	}
	observability.ImagesAnalyzed.WithLabelValues(outcome).Inc()

	return nil
}

// getONNXLibPath returns the ONNX Runtime shared library path
// based on the operating system.
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
