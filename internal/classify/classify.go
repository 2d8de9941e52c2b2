// Package classify resolves binary hand masks into fingerspelled symbols
// using a two-stage classifier cascade.
package classify

import "github.com/ayusman/mudra/internal/preprocess"

// Blank is the no-gesture symbol.
const Blank = "blank"

// Labels lists the 27 symbols in the primary classifier's output order:
// blank followed by the letters A through Z.
var Labels = buildLabels()

func buildLabels() []string {
	labels := make([]string, 0, 27)
	labels = append(labels, Blank)
	for c := 'A'; c <= 'Z'; c++ {
		labels = append(labels, string(c))
	}
	return labels
}

// Scores maps symbol labels to probability-like values. Only the
// label-to-score association and the argmax matter, not the scale.
type Scores map[string]float64

// Top returns the label with the highest score, or the empty string when
// there are no scores.
func (s Scores) Top() string {
	var best string
	bestScore := 0.0
	first := true

	for label, score := range s {
		if first || score > bestScore {
			best = label
			bestScore = score
			first = false
		}
	}

	return best
}

// Predictor is a single loaded classifier.
// Implementations must be safe for concurrent use after construction.
type Predictor interface {
	// Predict scores the mask against the model's label set.
	Predict(t *preprocess.Tensor) (Scores, error)

	// Close releases any resources held by the predictor.
	Close() error
}
