// Package spell provides dictionary-backed spelling suggestions for
// committed fingerspelled words.
package spell

import (
	"sort"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// MaxEditDistance is the largest edit distance at which a dictionary word is
// still offered as a suggestion.
const MaxEditDistance = 2

// Checker suggests corrections for words against the store's dictionary.
// It is an optional capability: callers hold a nil *Checker when no usable
// dictionary is available and must check before use.
type Checker struct {
	dict *store.DictionaryRepository
}

// NewChecker creates a Checker backed by the given store.
func NewChecker(s *store.Store) *Checker {
	return &Checker{dict: s.Dictionary()}
}

// Known reports whether the word is in the dictionary.
func (c *Checker) Known(word string) (bool, error) {
	return c.dict.Contains(word)
}

// Suggestion is one ranked correction candidate.
type Suggestion struct {
	Word     string `json:"word"`
	Distance int    `json:"distance"`
}

// Suggest returns up to max dictionary words within MaxEditDistance of the
// input, closest first; ties are broken alphabetically.
func (c *Checker) Suggest(word string, max int) ([]Suggestion, error) {
	if max <= 0 || word == "" {
		return nil, nil
	}

	words, err := c.dict.Words()
	if err != nil {
		return nil, err
	}

	target := strings.ToUpper(word)

	var suggestions []Suggestion
	for _, w := range words {
		d := editDistance(target, w)
		if d > MaxEditDistance {
			continue
		}
		suggestions = append(suggestions, Suggestion{Word: w, Distance: d})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Distance != suggestions[j].Distance {
			return suggestions[i].Distance < suggestions[j].Distance
		}
		return suggestions[i].Word < suggestions[j].Word
	})

	if len(suggestions) > max {
		suggestions = suggestions[:max]
	}

	return suggestions, nil
}

// editDistance computes the Levenshtein distance between two strings using
// a two-row dynamic programming table.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// min3 returns the minimum of three integers.
func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
