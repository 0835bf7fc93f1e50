package search

import (
	"fmt"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/sim"
)

// WaveOption is one candidate wave with its predicted outcome.
type WaveOption struct {
	Wave   sim.Wave
	Result sim.Result
}

// BestWave simulates each candidate wave on path and keeps the one with the
// most survivors, then the most destroyed defenders, then input order.
// Empty waves are skipped.
func BestWave(s *sim.Simulator, path model.Path, board model.Defenders, waves []sim.Wave) (WaveOption, bool, error) {
	var options []WaveOption
	for _, w := range waves {
		if w.Count == 0 {
			continue
		}
		res, err := s.Run(path, w, board)
		if err != nil {
			return WaveOption{}, false, fmt.Errorf("simulate %s wave: %w", w.Kind, err)
		}
		options = append(options, WaveOption{Wave: w, Result: res})
	}
	best, _, ok := SelectBestFunc(options, func(i, j int) bool {
		a, b := options[i].Result, options[j].Result
		if a.Survivors != b.Survivors {
			return a.Survivors > b.Survivors
		}
		return len(a.Destroyed) > len(b.Destroyed)
	})
	return best, ok, nil
}
