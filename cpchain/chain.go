// Package cpchain rebuilds a mask from a single cell by repeated
// shift-and-union steps. Replaying the same steps with intersection instead
// of union finds every translation of the mask inside a board in a handful of
// whole-board operations.
package cpchain

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/catsearch/board"
)

// Step derives a new mask as states[Unmoved] combined with states[Moved]
// shifted by (DX, DY).
type Step struct {
	Unmoved int
	Moved   int
	DX      int
	DY      int
}

// Chain is a sequence of steps followed by a final shift that puts the
// rebuilt mask back where the original sat.
type Chain struct {
	Steps  []Step
	PostDX int
	PostDY int
}

type Mode int

const (
	Union Mode = iota
	Intersection
)

func (m Mode) String() string {
	if m == Union {
		return "union"
	}
	return "intersection"
}

// Compute greedily builds a chain for desired. Each step picks, over every
// pair of masks derived so far and every offset keeping both inside desired,
// the union with the largest area. Ties go to the union that fits inside
// desired at the most translations.
//
// Compute panics if desired is empty, or if maxLen > 0 and the chain needs
// more than maxLen steps.
func Compute(desired *board.Board, maxLen int) Chain {
	if desired.IsEmpty() {
		panic("cpchain: cannot build a chain for an empty mask")
	}
	targetArea := desired.Pop()
	if targetArea == 1 {
		x, y, _ := desired.FirstOn()
		return Chain{PostDX: x, PostDY: y}
	}

	var seed board.Board
	seed.Set(0, 0)
	chained := []board.Board{seed}
	inside := []board.Board{*desired}
	areas := []int{1}

	var chain Chain
	for {
		bestArea, bestFit := 0, 0
		var best board.Board
		var step Step
		done := false
		last := len(chained) - 1

	search:
		for i := last; i >= 0; i-- {
			if areas[i]+areas[last] < bestArea {
				break
			}
			unmovedShifts := inside[i].Negated()
			for j := last; j >= i; j-- {
				if areas[i]+areas[j] < bestArea {
					break
				}
				rel := inside[j].Convolve(&unmovedShifts)
				for _, c := range rel.Cells() {
					moved := chained[j].Moved(c[0], c[1])
					unioned := chained[i].Union(&moved)
					area := unioned.Pop()
					fit := 0
					if area == bestArea {
						fit = fitCount(desired, &unioned)
					}
					if area <= bestArea && fit <= bestFit {
						continue
					}
					bestArea = area
					best = unioned
					step = Step{Unmoved: i, Moved: j, DX: c[0], DY: c[1]}
					if area == targetArea {
						done = true
						break search
					}
					if fit == 0 {
						fit = fitCount(desired, &unioned)
					}
					bestFit = fit
				}
			}
		}

		chain.Steps = append(chain.Steps, step)
		log.Debug().Int("step", len(chain.Steps)).Int("unmoved", step.Unmoved).
			Int("moved", step.Moved).Int("dx", step.DX).Int("dy", step.DY).
			Int("area", bestArea).Int("target-area", targetArea).Msg("cp-chain-step")

		chained = append(chained, best)
		inside = append(inside, desired.MatchLive(&best))
		areas = append(areas, bestArea)

		if maxLen > 0 && len(chain.Steps) > maxLen {
			panic(fmt.Sprintf("cpchain: chain needs at least %d steps, limit is %d",
				len(chain.Steps), maxLen))
		}
		if done {
			chain.PostDX, chain.PostDY, _ = inside[len(inside)-1].FirstOn()
			return chain
		}
	}
}

func fitCount(desired, m *board.Board) int {
	fits := desired.MatchLive(m)
	return fits.Pop()
}

// Apply replays chain starting from in. In Union mode the result is in
// convolved with the chain's mask. In Intersection mode it is the set of
// translations at which the mask lies inside in, the same as
// in.MatchLive(mask) but far cheaper for large masks.
func Apply(in *board.Board, chain *Chain, mode Mode) board.Board {
	states := make([]board.Board, 0, len(chain.Steps)+1)
	states = append(states, *in)
	for _, s := range chain.Steps {
		var next board.Board
		if mode == Union {
			next = states[s.Moved].Moved(s.DX, s.DY)
			next.Join(&states[s.Unmoved])
		} else {
			next = states[s.Moved].Moved(-s.DX, -s.DY)
			next.And(&states[s.Unmoved])
		}
		states = append(states, next)
	}

	out := states[len(states)-1]
	if mode == Union {
		out.Move(chain.PostDX, chain.PostDY)
	} else {
		out.Move(-chain.PostDX, -chain.PostDY)
	}
	return out
}

// String lists the steps as "unmoved moved dx dy" groups, then the final
// shift.
func (c *Chain) String() string {
	var sb strings.Builder
	for i, s := range c.Steps {
		fmt.Fprintf(&sb, "%d %d %d %d; ", s.Unmoved, s.Moved, s.DX, s.DY)
		if (i+1)%5 == 0 {
			sb.WriteString("\n")
		}
	}
	fmt.Fprintf(&sb, "post %d %d", c.PostDX, c.PostDY)
	return sb.String()
}
