// Package random abstracts the uniform choices the round engine makes
// (selector rotation, phrase card draws) so tests can supply deterministic
// sequences.
package random

import "math/rand/v2"

// Picker picks a uniformly random index in [0, n). n must be positive.
type Picker interface {
	Intn(n int) int
}

type source struct{}

func (source) Intn(n int) int { return rand.IntN(n) }

// NewPicker returns a Picker backed by the shared math/rand source.
func NewPicker() Picker {
	return source{}
}
