package classify

import (
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/preprocess"
)

// ErrMissingModel is returned when a cascade is constructed without all of
// its models.
var ErrMissingModel = errors.New("missing classifier model")

// Group pairs a set of mutually confusable letters with the specialized
// model that separates them.
type Group struct {
	Labels []string
	Model  Predictor
}

// contains reports whether the label belongs to this group.
func (g Group) contains(label string) bool {
	for _, l := range g.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Cascade classifies a mask with a general 27-way model, then refines the
// result through letter-group disambiguators. Groups are checked in order
// and the first group containing the primary candidate wins; since 'D'
// appears in both the DRU and TKDI groups, it is always routed to DRU.
type Cascade struct {
	primary Predictor
	groups  []Group
}

// DefaultGroups returns the disambiguation groups in their fixed precedence
// order: {D,R,U}, {D,I,K,T}, {M,N,S}.
func DefaultGroups(dru, tkdi, mns Predictor) []Group {
	return []Group{
		{Labels: []string{"D", "R", "U"}, Model: dru},
		{Labels: []string{"D", "I", "K", "T"}, Model: tkdi},
		{Labels: []string{"M", "N", "S"}, Model: mns},
	}
}

// NewCascade creates a Cascade from a primary model and an ordered list of
// disambiguation groups. Every model must be present.
func NewCascade(primary Predictor, groups []Group) (*Cascade, error) {
	if primary == nil {
		return nil, fmt.Errorf("%w: primary", ErrMissingModel)
	}
	for _, g := range groups {
		if g.Model == nil {
			return nil, fmt.Errorf("%w: group %v", ErrMissingModel, g.Labels)
		}
	}

	return &Cascade{primary: primary, groups: groups}, nil
}

// Classify resolves the final symbol for a mask. The primary model's top
// label selects at most one disambiguator, whose own top label overrides
// the candidate.
func (c *Cascade) Classify(t *preprocess.Tensor) (string, error) {
	scores, err := c.primary.Predict(t)
	if err != nil {
		return "", fmt.Errorf("primary model: %w", err)
	}

	candidate := scores.Top()

	for _, g := range c.groups {
		if !g.contains(candidate) {
			continue
		}

		sub, err := g.Model.Predict(t)
		if err != nil {
			return "", fmt.Errorf("disambiguator %v: %w", g.Labels, err)
		}

		// Restrict to the group's own labels in case the model reports more.
		best := candidate
		bestScore := 0.0
		first := true
		for _, label := range g.Labels {
			score, ok := sub[label]
			if !ok {
				continue
			}
			if first || score > bestScore {
				best = label
				bestScore = score
				first = false
			}
		}

		return best, nil
	}

	return candidate, nil
}
