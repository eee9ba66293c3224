package vision

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// forwardRunner is one loaded model exposed as a single forward-pass
// operation. Classifier tests substitute fakes for it.
type forwardRunner interface {
	Run(input []float32) ([]float32, error)
	Close()
}

// Session owns one ONNX session with preallocated input and output tensors.
// The session and its tensors are created once and shared read-only for the
// process lifetime; Run is serialized with a mutex because the bound tensors
// cannot service two forward passes at once.
type Session struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewSession loads a model from raw ONNX bytes and binds input/output
// tensors of the given shapes.
func NewSession(modelData []byte, inputName, outputName string, inputShape, outputShape ort.Shape) (*Session, error) {
	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("%w: create input tensor: %v", ErrModelLoad, err)
	}

	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("%w: create output tensor: %v", ErrModelLoad, err)
	}

	session, err := ort.NewAdvancedSessionWithONNXData(modelData,
		[]string{inputName},
		[]string{outputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}

	return &Session{session: session, input: input, output: output}, nil
}

// Run copies input into the bound tensor, executes one forward pass, and
// returns a copy of the raw output scores.
func (s *Session) Run(input []float32) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst := s.input.GetData()
	if len(input) != len(dst) {
		return nil, fmt.Errorf("%w: got %d values, model expects %d", ErrShapeMismatch, len(input), len(dst))
	}
	copy(dst, input)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	src := s.output.GetData()
	out := make([]float32, len(src))
	copy(out, src)
	return out, nil
}

func (s *Session) Close() {
	if s.session != nil {
		s.session.Destroy()
	}
	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
}
