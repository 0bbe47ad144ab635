package cpchain

import (
	"github.com/domino14/catsearch/board"
)

// Target matches a pattern together with its empty halo, under any of the
// eight symmetries, using a chain for each.
type Target struct {
	wanted   Chain
	unwanted Chain
	built    bool
}

// NewTarget builds the chains for desired and for the cells bordering it.
func NewTarget(desired *board.Board, maxLen int) Target {
	halo := desired.ZOI()
	halo.AndNot(desired)
	return Target{
		wanted:   Compute(desired, maxLen),
		unwanted: Compute(&halo, maxLen),
		built:    true,
	}
}

func (t *Target) Wanted() *Chain {
	return &t.wanted
}

func (t *Target) Unwanted() *Chain {
	return &t.unwanted
}

// MatchLiveAndDead reports whether the target appears, correctly isolated,
// somewhere in the non-catalyst cells of workspace, in any orientation.
//
// A match is kept only if the cells left over besides the match number fewer
// than maxJunk (maxJunk < 0 accepts any amount). With matchSurvive > 0 the
// match is first run that many generations alongside the catalysts and must
// still be intact; leftover cells are then counted at that generation.
// The zero Target matches anything.
func (t *Target) MatchLiveAndDead(workspace, catalysts *board.Board, maxJunk, matchSurvive int) bool {
	if !t.built {
		return true
	}
	matchIn := workspace.Minus(catalysts)

	for _, s := range board.AllSymmetries {
		pos := matchIn.Transformed(s)
		neg := pos.Inverted()
		cats := catalysts.Transformed(s)

		matches := Apply(&pos, &t.wanted, Intersection)
		dead := Apply(&neg, &t.unwanted, Intersection)
		matches.And(&dead)
		if matches.IsEmpty() {
			continue
		}

		footprint := Apply(&matches, &t.wanted, Union)
		var junk board.Board
		if matchSurvive > 0 {
			footprint.Evolve(matchSurvive)
			pos.Join(&cats)
			pos.Evolve(matchSurvive)
			if !pos.Contains(&footprint) {
				continue
			}
			junk = pos.Minus(&footprint)
			junk.AndNot(&cats)
		} else {
			junk = pos.Minus(&footprint)
		}
		if maxJunk < 0 || junk.Pop() < maxJunk {
			return true
		}
	}
	return false
}

func (t *Target) String() string {
	return t.wanted.String()
}
