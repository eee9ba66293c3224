package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"time"

	"github.com/your-org/faceattr/internal/config"
	"github.com/your-org/faceattr/internal/models"
	"github.com/your-org/faceattr/internal/observability"
)

// Detector yields face bounding boxes for an image. The external detector is
// the only unbounded suspension point of the pipeline, so it takes a ctx.
// Zero boxes is a valid, non-error outcome.
type Detector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]models.BoundingBox, error)
}

// ModelStore supplies immutable model byte blobs by name at initialization
// time. Storage, caching and versioning of the blobs live behind it.
type ModelStore interface {
	ModelBytes(ctx context.Context, name string) ([]byte, error)
}

// Pipeline holds the three attribute classifiers and the detector boundary.
// Models are loaded once during construction and shared read-only across all
// requests for the process lifetime.
type Pipeline struct {
	gender   *GenderClassifier
	age      *AgeClassifier
	emotion  *EmotionClassifier
	detector Detector
}

// NewPipeline loads all three ONNX models from the store and returns a ready
// pipeline. Construction must complete before any Analyze call.
func NewPipeline(ctx context.Context, cfg config.VisionConfig, store ModelStore, detector Detector) (*Pipeline, error) {
	slog.Info("loading gender model", "name", cfg.GenderModel)
	genderData, err := store.ModelBytes(ctx, cfg.GenderModel)
	if err != nil {
		return nil, fmt.Errorf("fetch gender model: %w", err)
	}
	gender, err := NewGenderClassifier(genderData)
	if err != nil {
		return nil, fmt.Errorf("load gender model: %w", err)
	}

	slog.Info("loading age model", "name", cfg.AgeModel)
	ageData, err := store.ModelBytes(ctx, cfg.AgeModel)
	if err != nil {
		gender.Close()
		return nil, fmt.Errorf("fetch age model: %w", err)
	}
	age, err := NewAgeClassifier(ageData)
	if err != nil {
		gender.Close()
		return nil, fmt.Errorf("load age model: %w", err)
	}

	slog.Info("loading emotion model", "name", cfg.EmotionModel)
	emotionData, err := store.ModelBytes(ctx, cfg.EmotionModel)
	if err != nil {
		gender.Close()
		age.Close()
		return nil, fmt.Errorf("fetch emotion model: %w", err)
	}
	emotion, err := NewEmotionClassifier(emotionData)
	if err != nil {
		gender.Close()
		age.Close()
		return nil, fmt.Errorf("load emotion model: %w", err)
	}

	slog.Info("attribute pipeline ready")

	return &Pipeline{
		gender:   gender,
		age:      age,
		emotion:  emotion,
		detector: detector,
	}, nil
}

// Analyze detects faces and classifies gender, age and mood for each one.
// It returns an empty slice with a nil error when no face is found, and
// ErrDetectionUnavailable when the detector itself fails. Faces are
// processed sequentially in detector order, 1-indexed.
func (p *Pipeline) Analyze(ctx context.Context, img image.Image) ([]models.FaceAttributes, error) {
	start := time.Now()
	boxes, err := p.detector.DetectFaces(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionUnavailable, err)
	}
	observability.InferenceDuration.WithLabelValues("detect").Observe(time.Since(start).Seconds())

	if len(boxes) == 0 {
		return []models.FaceAttributes{}, nil
	}
	observability.FacesDetected.Add(float64(len(boxes)))

	bounds := img.Bounds()
	results := make([]models.FaceAttributes, 0, len(boxes))

	for i, box := range boxes {
		if !box.Intersects(bounds) {
			return nil, fmt.Errorf("%w: face %d %+v", ErrInvalidBox, i+1, box)
		}

		attrs, err := p.classifyFace(img, box)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i+1, err)
		}
		attrs.Index = i + 1
		attrs.Box = box
		results = append(results, attrs)
	}

	return results, nil
}

// AnnotateImage detects faces and draws boxes plus index labels onto a copy
// of img. Independent of Analyze; with zero faces the original image comes
// back unchanged.
func (p *Pipeline) AnnotateImage(ctx context.Context, img image.Image) (image.Image, []models.BoundingBox, error) {
	boxes, err := p.detector.DetectFaces(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDetectionUnavailable, err)
	}
	return Annotate(img, boxes), boxes, nil
}

// classifyFace crops one padded face region and runs the three classifiers
// over their respective tensor views of it.
func (p *Pipeline) classifyFace(img image.Image, box models.BoundingBox) (models.FaceAttributes, error) {
	var attrs models.FaceAttributes

	rect := PaddedRect(img.Bounds(), box, ClassifyPadding)
	face := cropRegion(img, rect)

	start := time.Now()
	rgbInput := EncodeTensor(face, p.gender.Config())
	grayInput := EncodeTensor(face, p.emotion.Config())
	observability.InferenceDuration.WithLabelValues("preprocess").Observe(time.Since(start).Seconds())

	start = time.Now()
	gender, err := p.gender.Predict(rgbInput)
	if err != nil {
		return attrs, err
	}
	observability.InferenceDuration.WithLabelValues("gender").Observe(time.Since(start).Seconds())

	// The age model declares the same tensor layout as the gender model,
	// so the RGB buffer is reused.
	start = time.Now()
	age, bucket, err := p.age.Predict(rgbInput)
	if err != nil {
		return attrs, err
	}
	observability.InferenceDuration.WithLabelValues("age").Observe(time.Since(start).Seconds())

	start = time.Now()
	emotion, mood, err := p.emotion.Predict(grayInput)
	if err != nil {
		return attrs, err
	}
	observability.InferenceDuration.WithLabelValues("emotion").Observe(time.Since(start).Seconds())

	attrs.Gender = gender
	attrs.Age = age
	attrs.AgeBucket = bucket
	attrs.Emotion = emotion
	attrs.Mood = mood
	return attrs, nil
}

// Close releases all ONNX sessions.
func (p *Pipeline) Close() {
	if p.gender != nil {
		p.gender.Close()
	}
	if p.age != nil {
		p.age.Close()
	}
	if p.emotion != nil {
		p.emotion.Close()
	}
}

// DecodeImage decodes JPEG directly, falling back to any registered image
// format.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
	}
	return img, nil
}

// EncodeJPEG encodes an image as JPEG with the given quality.
func EncodeJPEG(img image.Image, quality int) []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	return buf.Bytes()
}
