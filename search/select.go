// Package search picks launch cells, waves and defender placements by
// scoring small candidate sets with the combat simulator.
package search

// Polarity says whether lower or higher scores win.
type Polarity int

const (
	Minimize Polarity = iota
	Maximize
)

// SelectBest scores every candidate once and returns the first one reaching
// the extremum, with its index. Ties always go to the earliest candidate so
// identical inputs give identical picks. ok is false for an empty set.
func SelectBest[T any](candidates []T, score func(T) float64, p Polarity) (best T, idx int, ok bool) {
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = score(c)
	}
	return SelectBestFunc(candidates, func(i, j int) bool {
		if p == Maximize {
			return scores[i] > scores[j]
		}
		return scores[i] < scores[j]
	})
}

// SelectBestFunc returns the first candidate that no later candidate beats.
// better(i, j) reports whether candidate i is strictly better than j.
func SelectBestFunc[T any](candidates []T, better func(i, j int) bool) (best T, idx int, ok bool) {
	if len(candidates) == 0 {
		return best, -1, false
	}
	idx = 0
	for i := 1; i < len(candidates); i++ {
		if better(i, idx) {
			idx = i
		}
	}
	return candidates[idx], idx, true
}
