package classify

import (
	"sync"

	"github.com/ayusman/mudra/internal/preprocess"
)

// MockPredictor is a test implementation of the Predictor interface.
// It allows tests to control prediction results and observe call counts.
type MockPredictor struct {
	mu     sync.Mutex
	scores Scores
	err    error
	calls  int
}

// NewMockPredictor creates a new MockPredictor instance.
func NewMockPredictor() *MockPredictor {
	return &MockPredictor{}
}

// SetScores sets the scores that will be returned by Predict.
func (m *MockPredictor) SetScores(scores Scores) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = scores
}

// SetError sets the error that will be returned by Predict.
func (m *MockPredictor) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Predict has been invoked.
func (m *MockPredictor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Predict returns the pre-configured scores or error.
func (m *MockPredictor) Predict(t *preprocess.Tensor) (Scores, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

// Close is a no-op for the mock predictor.
func (m *MockPredictor) Close() error {
	return nil
}
