package search

import (
	"github.com/domino14/catsearch/board"
	"github.com/domino14/catsearch/enumerator"
)

// computeTiming finds, for every placement of variant, the first generation
// at which the free-running reaction reaches the variant's zone of
// influence. Placements never reached get lastGen+1.
//
// The reaction at generation g touches the variant placed at p exactly when
// p lies in R_g + (-ZOI), so one convolution per generation covers every
// placement at once.
func computeTiming(evolution []board.Board, variant *board.Board, startGen, lastGen int) *enumerator.Timing {
	t := &enumerator.Timing{}
	never := lastGen + 1
	for x := 0; x < board.N; x++ {
		for y := 0; y < board.N; y++ {
			t.Activation[x][y] = never
		}
	}

	zoi := variant.ZOI()
	reach := zoi.Negated()
	var seen board.Board
	for g := 0; g <= lastGen && g < len(evolution); g++ {
		hits := evolution[g].Convolve(&reach)
		hits.AndNot(&seen)
		for _, c := range hits.Cells() {
			t.Activation[c[0]][c[1]] = g
		}
		seen.Join(&hits)
	}

	for x := 0; x < board.N; x++ {
		for y := 0; y < board.N; y++ {
			a := t.Activation[x][y]
			t.SlowEnough[x][y] = a >= startGen && a > 0
			t.QuickEnough[x][y] = a <= lastGen
		}
	}
	return t
}
