package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port: %d", cfg.Server.Port)
	}
	if cfg.Detector.Timeout != 15*time.Second {
		t.Fatalf("detector timeout: %v", cfg.Detector.Timeout)
	}
	if cfg.Vision.GenderModel != "models/gender.onnx" {
		t.Fatalf("gender model: %s", cfg.Vision.GenderModel)
	}
	if cfg.Vision.WorkerCount != 4 {
		t.Fatalf("worker count: %d", cfg.Vision.WorkerCount)
	}
	if cfg.Vision.JPEGQuality != 85 {
		t.Fatalf("jpeg quality: %d", cfg.Vision.JPEGQuality)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("logging: %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
detector:
  url: http://detector:8000
  timeout: 5s
vision:
  emotion_model: models/fer2013.onnx
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port: %d", cfg.Server.Port)
	}
	if cfg.Detector.URL != "http://detector:8000" {
		t.Fatalf("detector url: %s", cfg.Detector.URL)
	}
	if cfg.Detector.Timeout != 5*time.Second {
		t.Fatalf("detector timeout: %v", cfg.Detector.Timeout)
	}
	if cfg.Vision.EmotionModel != "models/fer2013.onnx" {
		t.Fatalf("emotion model: %s", cfg.Vision.EmotionModel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FA_SERVER_PORT", "7070")
	t.Setenv("FA_DETECTOR_URL", "http://override:8000")
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("port: %d", cfg.Server.Port)
	}
	if cfg.Detector.URL != "http://override:8000" {
		t.Fatalf("detector url: %s", cfg.Detector.URL)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "faceattr", User: "app", Password: "secret"}
	want := "postgres://app:secret@db:5432/faceattr?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
