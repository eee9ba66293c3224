package vision

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/your-org/faceattr/internal/models"
)

type fakeDetector struct {
	boxes []models.BoundingBox
	err   error
}

func (f *fakeDetector) DetectFaces(ctx context.Context, img image.Image) ([]models.BoundingBox, error) {
	return f.boxes, f.err
}

func testPipeline(det Detector, gender, age, emotion []float32) *Pipeline {
	return &Pipeline{
		gender:   &GenderClassifier{runner: &fakeRunner{out: gender}},
		age:      &AgeClassifier{runner: &fakeRunner{out: age}},
		emotion:  &EmotionClassifier{runner: &fakeRunner{out: emotion}},
		detector: det,
	}
}

func ageScores(peak int) []float32 {
	out := make([]float32, ageClasses)
	out[peak] = 1
	return out
}

func TestAnalyze_NoFaces(t *testing.T) {
	p := testPipeline(&fakeDetector{}, nil, nil, nil)
	img := uniformImage(100, 100, color.RGBA{A: 255})

	got, err := p.Analyze(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 faces, got %d", len(got))
	}
}

func TestAnalyze_DetectorFailure(t *testing.T) {
	p := testPipeline(&fakeDetector{err: errors.New("connection refused")}, nil, nil, nil)
	img := uniformImage(100, 100, color.RGBA{A: 255})

	_, err := p.Analyze(context.Background(), img)
	if !errors.Is(err, ErrDetectionUnavailable) {
		t.Fatalf("expected ErrDetectionUnavailable, got %v", err)
	}
}

func TestAnalyze_SingleFace(t *testing.T) {
	box := models.BoundingBox{Left: 20, Top: 20, Right: 80, Bottom: 80}
	p := testPipeline(
		&fakeDetector{boxes: []models.BoundingBox{box}},
		[]float32{0.7, 0.3},
		ageScores(30),
		[]float32{0, 0, 0, 1, 0, 0, 0},
	)
	img := uniformImage(100, 100, color.RGBA{A: 255})

	got, err := p.Analyze(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 face, got %d", len(got))
	}
	f := got[0]
	if f.Index != 1 {
		t.Fatalf("index: got %d", f.Index)
	}
	if f.Box != box {
		t.Fatalf("box: got %+v", f.Box)
	}
	if f.Gender != models.GenderWoman {
		t.Fatalf("gender: got %s", f.Gender)
	}
	if f.Age != 30 || f.AgeBucket != models.AgeBucketYoungAdult {
		t.Fatalf("age: got %d/%s", f.Age, f.AgeBucket)
	}
	if f.Emotion != "Happy" || f.Mood != models.MoodPositive {
		t.Fatalf("emotion: got %s/%s", f.Emotion, f.Mood)
	}
}

func TestAnalyze_MultipleFacesKeepDetectorOrder(t *testing.T) {
	boxes := []models.BoundingBox{
		{Left: 10, Top: 10, Right: 40, Bottom: 40},
		{Left: 50, Top: 50, Right: 90, Bottom: 90},
	}
	p := testPipeline(
		&fakeDetector{boxes: boxes},
		[]float32{0.3, 0.7},
		ageScores(70),
		[]float32{0, 0, 0, 0, 0, 0, 1},
	)
	img := uniformImage(100, 100, color.RGBA{A: 255})

	got, err := p.Analyze(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(got))
	}
	for i, f := range got {
		if f.Index != i+1 {
			t.Fatalf("face %d: index %d", i, f.Index)
		}
		if f.Box != boxes[i] {
			t.Fatalf("face %d: box %+v", i, f.Box)
		}
		if f.AgeBucket != models.AgeBucketElder {
			t.Fatalf("face %d: bucket %s", i, f.AgeBucket)
		}
	}
}

func TestAnalyze_BoxOutsideImage(t *testing.T) {
	box := models.BoundingBox{Left: 500, Top: 500, Right: 600, Bottom: 600}
	p := testPipeline(
		&fakeDetector{boxes: []models.BoundingBox{box}},
		[]float32{0.5, 0.5},
		ageScores(30),
		[]float32{1, 0, 0, 0, 0, 0, 0},
	)
	img := uniformImage(100, 100, color.RGBA{A: 255})

	_, err := p.Analyze(context.Background(), img)
	if !errors.Is(err, ErrInvalidBox) {
		t.Fatalf("expected ErrInvalidBox, got %v", err)
	}
}

func TestAnnotateImage_NoFacesKeepsOriginal(t *testing.T) {
	p := testPipeline(&fakeDetector{}, nil, nil, nil)
	img := uniformImage(100, 100, color.RGBA{A: 255})

	out, boxes, err := p.AnnotateImage(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 0 {
		t.Fatalf("expected 0 boxes, got %d", len(boxes))
	}
	if out != image.Image(img) {
		t.Fatal("expected the original image back")
	}
}

func TestDecodeImage_RoundTrip(t *testing.T) {
	img := uniformImage(40, 30, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	decoded, err := DecodeImage(EncodeJPEG(img, 90))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 40 || decoded.Bounds().Dy() != 30 {
		t.Fatalf("bounds: %v", decoded.Bounds())
	}
}

func TestDecodeImage_Garbage(t *testing.T) {
	if _, err := DecodeImage([]byte("not an image")); err == nil {
		t.Fatal("expected error")
	}
}
