package vision

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/faceattr/internal/models"
)

// attrInputSize is the input edge length shared by the gender and age
// models.
const attrInputSize = 224

// GenderClassifier predicts a binary gender label from an RGB face crop.
type GenderClassifier struct {
	runner forwardRunner
}

// NewGenderClassifier loads the gender ONNX model from raw bytes.
// The model takes a 224x224x3 normalized RGB tensor and emits two scores.
func NewGenderClassifier(modelData []byte) (*GenderClassifier, error) {
	session, err := NewSession(modelData,
		"input_1", "predictions",
		ort.NewShape(1, attrInputSize, attrInputSize, 3),
		ort.NewShape(1, 2),
	)
	if err != nil {
		return nil, fmt.Errorf("gender: %w", err)
	}
	return &GenderClassifier{runner: session}, nil
}

// Config returns the tensor layout this classifier requires.
func (c *GenderClassifier) Config() TensorConfig {
	return TensorConfig{Width: attrInputSize, Height: attrInputSize}
}

// Predict runs the model and interprets its two-class score vector.
// Index polarity is a property of the reference weights: index 0 means
// Woman. Equal scores resolve to Man.
func (c *GenderClassifier) Predict(input []float32) (models.Gender, error) {
	out, err := c.runner.Run(input)
	if err != nil {
		return "", fmt.Errorf("gender: %w", err)
	}
	if len(out) < 2 {
		return "", fmt.Errorf("gender: unexpected output size %d", len(out))
	}

	if out[0] > out[1] {
		return models.GenderWoman, nil
	}
	return models.GenderMan, nil
}

func (c *GenderClassifier) Close() {
	c.runner.Close()
}
