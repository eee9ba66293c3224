package dto

import (
	"github.com/google/uuid"

	"github.com/your-org/faceattr/internal/models"
)

// FaceResponse is one face's attributes as returned by the API. Line is the
// human-readable rendering; the discrete fields remain authoritative.
type FaceResponse struct {
	Index     int                `json:"index"`
	Box       models.BoundingBox `json:"box"`
	Gender    models.Gender      `json:"gender"`
	Age       int                `json:"age"`
	AgeBucket models.AgeBucket   `json:"age_bucket"`
	Emotion   string             `json:"emotion"`
	Mood      models.Mood        `json:"mood"`
	Line      string             `json:"line"`
}

// NewFaceResponse builds a FaceResponse from pipeline output.
func NewFaceResponse(f models.FaceAttributes) FaceResponse {
	return FaceResponse{
		Index:     f.Index,
		Box:       f.Box,
		Gender:    f.Gender,
		Age:       f.Age,
		AgeBucket: f.AgeBucket,
		Emotion:   f.Emotion,
		Mood:      f.Mood,
		Line:      f.Summary(),
	}
}

// AnalysisResponse is the result of one analyze request.
type AnalysisResponse struct {
	ID           uuid.UUID      `json:"id"`
	FaceCount    int            `json:"face_count"`
	Faces        []FaceResponse `json:"faces"`
	ImageURL     string         `json:"image_url,omitempty"`
	AnnotatedURL string         `json:"annotated_url,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

// AnalysisListResponse is a page of stored analyses.
type AnalysisListResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Total    int                `json:"total"`
}

// AsyncAcceptedResponse acknowledges an enqueued analyze task.
type AsyncAcceptedResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// WSEvent is a WebSocket message for real-time result delivery.
type WSEvent struct {
	Type       string           `json:"type"` // analysis_completed, no_faces
	AnalysisID uuid.UUID        `json:"analysis_id"`
	Data       AnalysisResponse `json:"data,omitempty"`
}
