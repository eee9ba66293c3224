// Package detect is the boundary adapter to the external face-detection
// service. The pipeline treats the order of returned boxes as the canonical
// face index order.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"github.com/your-org/faceattr/internal/config"
	"github.com/your-org/faceattr/internal/models"
	"github.com/your-org/faceattr/internal/observability"
)

// Client calls a remote detector over HTTP. It implements vision.Detector.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.DetectorConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type detectResponse struct {
	Faces []models.BoundingBox `json:"faces"`
}

// DetectFaces posts the image as JPEG and returns the detector's boxes in
// the order the detector provides. The request is cancellable through ctx;
// callers treat any returned error as "detection unavailable".
func (c *Client) DetectFaces(ctx context.Context, img image.Image) ([]models.BoundingBox, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", &buf)
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.DetectorFailures.Inc()
		return nil, fmt.Errorf("call detector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.DetectorFailures.Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("detector returned %s: %s", resp.Status, body)
	}

	var parsed detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		observability.DetectorFailures.Inc()
		return nil, fmt.Errorf("decode detector response: %w", err)
	}

	observability.InferenceDuration.WithLabelValues("detector_http").Observe(time.Since(start).Seconds())
	return parsed.Faces, nil
}
