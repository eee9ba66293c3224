package vision

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/faceattr/internal/models"
)

// emotionInputSize is the input edge length of the emotion model.
const emotionInputSize = 48

// emotionLabels is the fixed 7-class label set in the exact index order the
// reference weights were trained with. The order is a contract with the
// model, not inferable from its architecture.
var emotionLabels = [7]string{"Angry", "Disgust", "Fear", "Happy", "Sad", "Surprise", "Neutral"}

// moodFor collapses a 7-class emotion label into a coarse mood.
func moodFor(emotion string) models.Mood {
	switch emotion {
	case "Happy", "Surprise":
		return models.MoodPositive
	case "Neutral":
		return models.MoodNeutral
	default:
		return models.MoodNegative
	}
}

// EmotionClassifier predicts a mood label from a grayscale face crop.
type EmotionClassifier struct {
	runner forwardRunner
}

// NewEmotionClassifier loads the emotion ONNX model from raw bytes. The
// model takes a 48x48 normalized luma tensor and emits seven scores.
func NewEmotionClassifier(modelData []byte) (*EmotionClassifier, error) {
	session, err := NewSession(modelData,
		"input_1", "predictions",
		ort.NewShape(1, emotionInputSize, emotionInputSize, 1),
		ort.NewShape(1, int64(len(emotionLabels))),
	)
	if err != nil {
		return nil, fmt.Errorf("emotion: %w", err)
	}
	return &EmotionClassifier{runner: session}, nil
}

// Config returns the tensor layout this classifier requires.
func (c *EmotionClassifier) Config() TensorConfig {
	return TensorConfig{Width: emotionInputSize, Height: emotionInputSize, Grayscale: true}
}

// Predict runs the model and returns the arg-max emotion label plus its
// 3-class mood. An empty output vector falls back to Neutral; that cannot
// happen with a valid model and exists only as a guard.
func (c *EmotionClassifier) Predict(input []float32) (string, models.Mood, error) {
	out, err := c.runner.Run(input)
	if err != nil {
		return "", "", fmt.Errorf("emotion: %w", err)
	}
	if len(out) == 0 {
		return "Neutral", models.MoodNeutral, nil
	}
	if len(out) > len(emotionLabels) {
		out = out[:len(emotionLabels)]
	}

	label := emotionLabels[argmax(out)]
	return label, moodFor(label), nil
}

func (c *EmotionClassifier) Close() {
	c.runner.Close()
}
