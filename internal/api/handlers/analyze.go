package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/faceattr/internal/models"
	"github.com/your-org/faceattr/internal/observability"
	"github.com/your-org/faceattr/internal/queue"
	"github.com/your-org/faceattr/internal/storage"
	"github.com/your-org/faceattr/internal/vision"
	"github.com/your-org/faceattr/pkg/dto"
)

type AnalyzeHandler struct {
	pipeline    *vision.Pipeline
	minio       *storage.MinIOStore
	producer    *queue.Producer
	jpegQuality int
}

func NewAnalyzeHandler(pipeline *vision.Pipeline, minio *storage.MinIOStore, producer *queue.Producer, jpegQuality int) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline:    pipeline,
		minio:       minio,
		producer:    producer,
		jpegQuality: jpegQuality,
	}
}

// readImage pulls the multipart "image" field and decodes it.
func readImage(c *gin.Context) ([]byte, bool) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
		return nil, false
	}
	return data, true
}

// Analyze runs the attribute pipeline synchronously over one uploaded image.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	data, ok := readImage(c)
	if !ok {
		return
	}

	img, err := vision.DecodeImage(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	faces, err := h.pipeline.Analyze(c.Request.Context(), img)
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}

	id := uuid.New()
	imageKey := "images/" + id.String() + ".jpg"
	if err := h.minio.PutObject(c.Request.Context(), imageKey, data, "image/jpeg"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store image failed"})
		return
	}

	annotatedKey := ""
	if len(faces) > 0 {
		boxes := make([]models.BoundingBox, len(faces))
		for i, f := range faces {
			boxes[i] = f.Box
		}
		annotated := vision.Annotate(img, boxes)
		annotatedKey = "annotated/" + id.String() + ".jpg"
		if err := h.minio.PutObject(c.Request.Context(), annotatedKey, vision.EncodeJPEG(annotated, h.jpegQuality), "image/jpeg"); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store annotated image failed"})
			return
		}
	}

	bounds := img.Bounds()
	result := models.AnalysisResult{
		AnalysisID:   id,
		ImageKey:     imageKey,
		AnnotatedKey: annotatedKey,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Faces:        faces,
		Timestamp:    time.Now(),
	}
	if err := h.producer.PublishResult(c.Request.Context(), id.String(), result); err != nil {
		// The caller still gets the results; the event stream just misses one.
		c.Header("X-Result-Publish", "failed")
	}

	outcome := "ok"
	if len(faces) == 0 {
		outcome = "no_faces"
	}
	observability.ImagesAnalyzed.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, buildAnalysisResponse(id, faces, imageKey, annotatedKey, result.Timestamp))
}

// Annotate returns the annotated JPEG for one uploaded image without running
// the attribute classifiers.
func (h *AnalyzeHandler) Annotate(c *gin.Context) {
	data, ok := readImage(c)
	if !ok {
		return
	}

	img, err := vision.DecodeImage(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	annotated, _, err := h.pipeline.AnnotateImage(c.Request.Context(), img)
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/jpeg", vision.EncodeJPEG(annotated, h.jpegQuality))
}

// AnalyzeAsync stores the image and enqueues an analyze task for a worker.
func (h *AnalyzeHandler) AnalyzeAsync(c *gin.Context) {
	data, ok := readImage(c)
	if !ok {
		return
	}

	// Validate before accepting the task so workers only ever see decodable
	// images.
	if _, err := vision.DecodeImage(data); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	id := uuid.New()
	imageKey := "images/" + id.String() + ".jpg"
	if err := h.minio.PutObject(c.Request.Context(), imageKey, data, "image/jpeg"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store image failed"})
		return
	}

	task := models.AnalyzeTask{
		AnalysisID:  id,
		ImageRef:    imageKey,
		RequestedAt: time.Now(),
	}
	if err := h.producer.PublishTask(c.Request.Context(), id.String(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue task failed"})
		return
	}

	c.JSON(http.StatusAccepted, dto.AsyncAcceptedResponse{ID: id, Status: "queued"})
}

func (h *AnalyzeHandler) respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, vision.ErrDetectionUnavailable):
		observability.ImagesAnalyzed.WithLabelValues("detector_error").Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, vision.ErrInvalidBox):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		observability.ImagesAnalyzed.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func buildAnalysisResponse(id uuid.UUID, faces []models.FaceAttributes, imageKey, annotatedKey string, createdAt time.Time) dto.AnalysisResponse {
	resp := dto.AnalysisResponse{
		ID:        id,
		FaceCount: len(faces),
		Faces:     make([]dto.FaceResponse, 0, len(faces)),
		CreatedAt: createdAt.Format(time.RFC3339),
	}
	for _, f := range faces {
		resp.Faces = append(resp.Faces, dto.NewFaceResponse(f))
	}
	if imageKey != "" {
		resp.ImageURL = "/v1/analyses/" + id.String() + "/image?kind=source"
	}
	if annotatedKey != "" {
		resp.AnnotatedURL = "/v1/analyses/" + id.String() + "/image"
	}
	return resp
}
