package detect

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/your-org/faceattr/internal/config"
	"github.com/your-org/faceattr/internal/models"
)

func newTestClient(url string) *Client {
	return NewClient(config.DetectorConfig{URL: url, Timeout: 2 * time.Second})
}

func TestDetectFaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/detect" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("content type: %s", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"faces":[{"left":10,"top":20,"right":110,"bottom":140}]}`))
	}))
	defer srv.Close()

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	boxes, err := newTestClient(srv.URL).DetectFaces(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(boxes))
	}
	want := models.BoundingBox{Left: 10, Top: 20, Right: 110, Bottom: 140}
	if boxes[0] != want {
		t.Fatalf("got %+v, want %+v", boxes[0], want)
	}
}

func TestDetectFaces_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"faces":[]}`))
	}))
	defer srv.Close()

	boxes, err := newTestClient(srv.URL).DetectFaces(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 0 {
		t.Fatalf("expected 0 boxes, got %d", len(boxes))
	}
}

func TestDetectFaces_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "detector down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).DetectFaces(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10))); err == nil {
		t.Fatal("expected error")
	}
}

func TestDetectFaces_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestClient(srv.URL).DetectFaces(ctx, image.NewRGBA(image.Rect(0, 0, 10, 10))); err == nil {
		t.Fatal("expected error")
	}
}
