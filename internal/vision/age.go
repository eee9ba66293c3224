package vision

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/faceattr/internal/models"
)

// ageClasses is the number of single-year age bins the age model emits.
const ageClasses = 101

// AgeClassifier predicts a numeric age in years from an RGB face crop.
type AgeClassifier struct {
	runner forwardRunner
}

// NewAgeClassifier loads the age ONNX model from raw bytes. The model takes
// the same 224x224x3 normalized RGB tensor as the gender model and emits 101
// scores for age bins 0..100.
func NewAgeClassifier(modelData []byte) (*AgeClassifier, error) {
	session, err := NewSession(modelData,
		"input_1", "predictions",
		ort.NewShape(1, attrInputSize, attrInputSize, 3),
		ort.NewShape(1, ageClasses),
	)
	if err != nil {
		return nil, fmt.Errorf("age: %w", err)
	}
	return &AgeClassifier{runner: session}, nil
}

// Config returns the tensor layout this classifier requires.
func (c *AgeClassifier) Config() TensorConfig {
	return TensorConfig{Width: attrInputSize, Height: attrInputSize}
}

// Predict runs the model and returns the predicted age in years together
// with its bucket. The predicted age is the arg-max bin index; ties resolve
// to the lowest index.
func (c *AgeClassifier) Predict(input []float32) (int, models.AgeBucket, error) {
	out, err := c.runner.Run(input)
	if err != nil {
		return 0, models.AgeBucketUnknown, fmt.Errorf("age: %w", err)
	}
	if len(out) == 0 {
		return 0, models.AgeBucketUnknown, fmt.Errorf("age: empty output")
	}

	age := argmax(out)
	return age, models.BucketForAge(age), nil
}

func (c *AgeClassifier) Close() {
	c.runner.Close()
}

// argmax returns the index of the maximum score, first occurrence on ties.
func argmax(scores []float32) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
