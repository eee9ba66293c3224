package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is one stored analyze request over a single image.
type Analysis struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ImageKey     string    `json:"image_key" db:"image_key"`
	AnnotatedKey string    `json:"annotated_key" db:"annotated_key"`
	FaceCount    int       `json:"face_count" db:"face_count"`
	Width        int       `json:"width" db:"width"`
	Height       int       `json:"height" db:"height"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// FaceResult is one persisted per-face attribute row belonging to an analysis.
type FaceResult struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	AnalysisID uuid.UUID   `json:"analysis_id" db:"analysis_id"`
	FaceIndex  int         `json:"face_index" db:"face_index"`
	Box        BoundingBox `json:"box"`
	Gender     Gender      `json:"gender" db:"gender"`
	Age        int         `json:"age" db:"age"`
	AgeBucket  AgeBucket   `json:"age_bucket" db:"age_bucket"`
	Emotion    string      `json:"emotion" db:"emotion"`
	Mood       Mood        `json:"mood" db:"mood"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// AnalyzeTask is the message published to NATS for async worker processing.
type AnalyzeTask struct {
	AnalysisID  uuid.UUID `json:"analysis_id"`
	ImageRef    string    `json:"image_ref"` // MinIO object key of the source image
	RequestedAt time.Time `json:"requested_at"`
}

// AnalysisResult is the event a worker (or the sync API path) publishes
// once all faces of an image have been classified.
type AnalysisResult struct {
	AnalysisID   uuid.UUID        `json:"analysis_id"`
	ImageKey     string           `json:"image_key"`
	AnnotatedKey string           `json:"annotated_key,omitempty"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Faces        []FaceAttributes `json:"faces"`
	Timestamp    time.Time        `json:"timestamp"`
}
