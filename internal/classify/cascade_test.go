package classify

import (
	"errors"
	"testing"

	"github.com/ayusman/mudra/internal/preprocess"
)

func TestLabels(t *testing.T) {
	if len(Labels) != 27 {
		t.Fatalf("len(Labels) = %d, want 27", len(Labels))
	}
	if Labels[0] != Blank {
		t.Errorf("Labels[0] = %q, want %q", Labels[0], Blank)
	}
	if Labels[1] != "A" || Labels[26] != "Z" {
		t.Errorf("Labels[1..26] = %q..%q, want A..Z", Labels[1], Labels[26])
	}
}

func TestScores_Top(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   string
	}{
		{
			name:   "clear winner",
			scores: Scores{"A": 0.1, "B": 0.8, "C": 0.1},
			want:   "B",
		},
		{
			name:   "single entry",
			scores: Scores{Blank: 0.2},
			want:   Blank,
		},
		{
			name:   "zero scores still pick a label",
			scores: Scores{"Q": 0},
			want:   "Q",
		},
		{
			name:   "empty",
			scores: Scores{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scores.Top(); got != tt.want {
				t.Errorf("Top() = %q, want %q", got, tt.want)
			}
		})
	}
}

func testTensor() *preprocess.Tensor {
	return &preprocess.Tensor{
		Pixels: make([]byte, preprocess.MaskSize*preprocess.MaskSize),
		Data:   make([]float32, preprocess.MaskSize*preprocess.MaskSize),
		Width:  preprocess.MaskSize,
		Height: preprocess.MaskSize,
	}
}

// testCascade builds a cascade from mocks and returns the disambiguators
// keyed for assertions.
func testCascade(t *testing.T) (*Cascade, *MockPredictor, *MockPredictor, *MockPredictor, *MockPredictor) {
	t.Helper()

	primary := NewMockPredictor()
	dru := NewMockPredictor()
	tkdi := NewMockPredictor()
	mns := NewMockPredictor()

	c, err := NewCascade(primary, DefaultGroups(dru, tkdi, mns))
	if err != nil {
		t.Fatalf("NewCascade error = %v", err)
	}

	return c, primary, dru, tkdi, mns
}

func TestCascade_NoGroupMatch(t *testing.T) {
	c, primary, dru, tkdi, mns := testCascade(t)
	primary.SetScores(Scores{"A": 0.9, "B": 0.05, Blank: 0.05})

	symbol, err := c.Classify(testTensor())
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}
	if symbol != "A" {
		t.Errorf("symbol = %q, want %q", symbol, "A")
	}

	for name, m := range map[string]*MockPredictor{"dru": dru, "tkdi": tkdi, "mns": mns} {
		if m.Calls() != 0 {
			t.Errorf("%s disambiguator called %d times, want 0", name, m.Calls())
		}
	}
}

func TestCascade_DisambiguatorOverridesCandidate(t *testing.T) {
	c, primary, dru, _, _ := testCascade(t)
	primary.SetScores(Scores{"D": 0.9})
	dru.SetScores(Scores{"D": 0.2, "R": 0.7, "U": 0.1})

	symbol, err := c.Classify(testTensor())
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}
	if symbol != "R" {
		t.Errorf("symbol = %q, want %q", symbol, "R")
	}
}

func TestCascade_DAlwaysRoutesToDRU(t *testing.T) {
	// 'D' is in both the DRU and TKDI groups; the ordered check means the
	// TKDI model must never see it.
	c, primary, dru, tkdi, _ := testCascade(t)
	primary.SetScores(Scores{"D": 0.9})
	dru.SetScores(Scores{"D": 0.8, "R": 0.1, "U": 0.1})
	tkdi.SetScores(Scores{"T": 0.9, "D": 0.1})

	symbol, err := c.Classify(testTensor())
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}
	if symbol != "D" {
		t.Errorf("symbol = %q, want %q", symbol, "D")
	}

	if dru.Calls() != 1 {
		t.Errorf("dru calls = %d, want 1", dru.Calls())
	}
	if tkdi.Calls() != 0 {
		t.Errorf("tkdi calls = %d, want 0", tkdi.Calls())
	}
}

func TestCascade_GroupRouting(t *testing.T) {
	tests := []struct {
		candidate string
		group     string
		scores    Scores
		want      string
	}{
		{candidate: "U", group: "dru", scores: Scores{"D": 0.1, "R": 0.2, "U": 0.7}, want: "U"},
		{candidate: "T", group: "tkdi", scores: Scores{"D": 0.1, "I": 0.1, "K": 0.7, "T": 0.1}, want: "K"},
		{candidate: "I", group: "tkdi", scores: Scores{"D": 0.1, "I": 0.8, "K": 0.05, "T": 0.05}, want: "I"},
		{candidate: "M", group: "mns", scores: Scores{"M": 0.2, "N": 0.7, "S": 0.1}, want: "N"},
		{candidate: "S", group: "mns", scores: Scores{"M": 0.1, "N": 0.1, "S": 0.8}, want: "S"},
	}

	for _, tt := range tests {
		t.Run(tt.candidate+"_to_"+tt.group, func(t *testing.T) {
			c, primary, dru, tkdi, mns := testCascade(t)
			primary.SetScores(Scores{tt.candidate: 0.9})

			groups := map[string]*MockPredictor{"dru": dru, "tkdi": tkdi, "mns": mns}
			groups[tt.group].SetScores(tt.scores)

			symbol, err := c.Classify(testTensor())
			if err != nil {
				t.Fatalf("Classify error = %v", err)
			}
			if symbol != tt.want {
				t.Errorf("symbol = %q, want %q", symbol, tt.want)
			}

			for name, m := range groups {
				wantCalls := 0
				if name == tt.group {
					wantCalls = 1
				}
				if m.Calls() != wantCalls {
					t.Errorf("%s calls = %d, want %d", name, m.Calls(), wantCalls)
				}
			}
		})
	}
}

func TestCascade_PrimaryError(t *testing.T) {
	c, primary, _, _, _ := testCascade(t)
	primary.SetError(errors.New("inference failed"))

	if _, err := c.Classify(testTensor()); err == nil {
		t.Error("expected error when primary model fails")
	}
}

func TestCascade_DisambiguatorError(t *testing.T) {
	c, primary, dru, _, _ := testCascade(t)
	primary.SetScores(Scores{"R": 0.9})
	dru.SetError(errors.New("inference failed"))

	if _, err := c.Classify(testTensor()); err == nil {
		t.Error("expected error when disambiguator fails")
	}
}

func TestNewCascade_MissingModels(t *testing.T) {
	t.Run("nil primary", func(t *testing.T) {
		_, err := NewCascade(nil, nil)
		if !errors.Is(err, ErrMissingModel) {
			t.Errorf("error = %v, want ErrMissingModel", err)
		}
	})

	t.Run("nil group model", func(t *testing.T) {
		_, err := NewCascade(NewMockPredictor(), DefaultGroups(NewMockPredictor(), nil, NewMockPredictor()))
		if !errors.Is(err, ErrMissingModel) {
			t.Errorf("error = %v, want ErrMissingModel", err)
		}
	})
}
