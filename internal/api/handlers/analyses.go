package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/faceattr/internal/models"
	"github.com/your-org/faceattr/internal/storage"
	"github.com/your-org/faceattr/pkg/dto"
)

type AnalysisHandler struct {
	db    *storage.PostgresStore
	minio *storage.MinIOStore
}

func NewAnalysisHandler(db *storage.PostgresStore, minio *storage.MinIOStore) *AnalysisHandler {
	return &AnalysisHandler{db: db, minio: minio}
}

// List returns a page of stored analyses.
func (h *AnalysisHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	analyses, total, err := h.db.ListAnalyses(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.AnalysisListResponse{
		Analyses: make([]dto.AnalysisResponse, 0, len(analyses)),
		Total:    total,
	}
	for _, a := range analyses {
		resp.Analyses = append(resp.Analyses, dto.AnalysisResponse{
			ID:        a.ID,
			FaceCount: a.FaceCount,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns one analysis with its per-face results.
func (h *AnalysisHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	a, err := h.db.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	faces, err := h.db.ListFaceResults(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	attrs := make([]models.FaceAttributes, 0, len(faces))
	for _, f := range faces {
		attrs = append(attrs, models.FaceAttributes{
			Index:     f.FaceIndex,
			Box:       f.Box,
			Gender:    f.Gender,
			Age:       f.Age,
			AgeBucket: f.AgeBucket,
			Emotion:   f.Emotion,
			Mood:      f.Mood,
		})
	}

	c.JSON(http.StatusOK, buildAnalysisResponse(a.ID, attrs, a.ImageKey, a.AnnotatedKey, a.CreatedAt))
}

// Image streams the annotated image of an analysis (or the source image with
// ?kind=source).
func (h *AnalysisHandler) Image(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	a, err := h.db.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	key := a.AnnotatedKey
	if c.Query("kind") == "source" || key == "" {
		key = a.ImageKey
	}
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image stored"})
		return
	}

	data, err := h.minio.GetObject(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

// Delete removes an analysis, its face rows and its stored images.
func (h *AnalysisHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	a, err := h.db.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	if err := h.db.DeleteAnalysis(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if a.ImageKey != "" {
		_ = h.minio.DeleteObject(c.Request.Context(), a.ImageKey)
	}
	if a.AnnotatedKey != "" {
		_ = h.minio.DeleteObject(c.Request.Context(), a.AnnotatedKey)
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
