package vision

import "errors"

var (
	// ErrModelLoad indicates a model blob could not be loaded into the
	// inference runtime. Fatal at startup.
	ErrModelLoad = errors.New("model load failed")

	// ErrShapeMismatch indicates an input tensor whose flat length does not
	// match what the loaded model expects. This is a programming-contract
	// violation between a codec configuration and a classifier, not a
	// recoverable runtime condition.
	ErrShapeMismatch = errors.New("input tensor shape mismatch")

	// ErrDetectionUnavailable indicates the external face detector failed or
	// timed out. Surfaced to the caller as-is; retries belong to the
	// detector, not this pipeline.
	ErrDetectionUnavailable = errors.New("face detector unavailable")

	// ErrInvalidBox indicates a detector-supplied bounding box lies entirely
	// outside the image.
	ErrInvalidBox = errors.New("bounding box outside image bounds")
)
