// Package enumerator walks every way of placing Count objects, chosen from a
// list of variants, inside a rectangular window, pruning placements that
// would fail timing, bounding box or stability checks.
package enumerator

import (
	"fmt"

	"github.com/domino14/catsearch/board"
	"github.com/domino14/catsearch/target"
)

// Params fixes the shape of a search. The window covers x in [X, X+W) and
// y in [Y, Y+H).
//
// MaxW and MaxH bound how far apart the first and last objects may be. Set
// them to -1 to disable the check: the zero value means every object must
// share one column and one row.
type Params struct {
	Count int
	X, Y  int
	W, H  int
	MaxW  int
	MaxH  int

	Variants []board.Board
}

// Timing holds per-position tables for one variant, indexed by x and y
// modulo the board size.
//
// SlowEnough is false where the object would be hit before the reaction is
// allowed to touch anything. QuickEnough is true where it is hit in time to
// matter. Activation is the generation at which it is first hit.
type Timing struct {
	QuickEnough [board.N][board.N]bool
	SlowEnough  [board.N][board.N]bool
	Activation  [board.N][board.N]int
}

// AlwaysValid returns tables that accept every position with activation 0.
func AlwaysValid() *Timing {
	t := &Timing{}
	for x := 0; x < board.N; x++ {
		for y := 0; y < board.N; y++ {
			t.QuickEnough[x][y] = true
			t.SlowEnough[x][y] = true
		}
	}
	return t
}

type Placement struct {
	X, Y    int
	Variant int
}

func (p Placement) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Variant)
}

// less orders placements by x, then y, then variant.
func (p Placement) less(o Placement) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.Variant < o.Variant
}

// Configuration is a snapshot of an accepted state. It shares nothing with
// the Enumerator it came from.
type Configuration struct {
	Placements    []Placement
	MinActivation int
	// State is the union of every placed object's cells.
	State   board.Board
	Targets []target.Target
}

// Enumerator yields placements with slot i strictly greater than slot i+1,
// so each set of objects comes up exactly once. Slot 0 moves fastest.
//
// For every slot the enumerator keeps a summary of that slot and all deeper
// ones: the union of their cells, their y extent, their earliest activation
// and whether any of them is hit in time. Advancing slot i only rebuilds
// summary i.
type Enumerator struct {
	params  Params
	targets []target.Target
	timing  []*Timing

	done bool
	cur  []Placement

	shifted         []target.Target
	cumulative      []board.Board
	cumulMinY       []int
	cumulMaxY       []int
	cumulActivation []int
	cumulTimely     []bool
}

// New builds an enumerator with AlwaysValid timing for every variant and
// resets it. Leaving MaxW and MaxH at zero keeps multi-object tuples to a
// single cell, which only distinct variants can share.
func New(params Params) *Enumerator {
	n := max(params.Count, 0)
	e := &Enumerator{
		params:          params,
		targets:         make([]target.Target, len(params.Variants)),
		timing:          make([]*Timing, len(params.Variants)),
		cur:             make([]Placement, n),
		shifted:         make([]target.Target, n),
		cumulative:      make([]board.Board, n),
		cumulMinY:       make([]int, n),
		cumulMaxY:       make([]int, n),
		cumulActivation: make([]int, n),
		cumulTimely:     make([]bool, n),
	}
	always := AlwaysValid()
	for i, v := range params.Variants {
		e.targets[i] = target.New(v)
		e.timing[i] = always
	}
	e.Reset()
	return e
}

// SetTiming replaces the tables for one variant. Call Reset afterwards; the
// initial placement of the deeper slots depends on them.
func (e *Enumerator) SetTiming(variant int, t *Timing) {
	if variant < 0 || variant >= len(e.timing) {
		panic(fmt.Sprintf("enumerator: variant %d out of range [0, %d)", variant, len(e.timing)))
	}
	e.timing[variant] = t
}

// Reset rewinds to the start. Every slot but the first is moved to its first
// acceptable placement, so the next call to Next returns the first complete
// accepted tuple.
func (e *Enumerator) Reset() {
	p := e.params
	e.done = false
	for i := range e.cur {
		e.cur[i] = Placement{X: p.X, Y: p.Y, Variant: -1}
		e.cumulMinY[i] = p.Y
		e.cumulMaxY[i] = p.Y
		e.cumulActivation[i] = 0
		e.cumulTimely[i] = true
		e.shifted[i] = target.Target{}
		e.cumulative[i].Clear()
	}

	if p.Count <= 0 || p.W <= 0 || p.H <= 0 || len(p.Variants) == 0 {
		e.done = true
		return
	}
	for i := p.Count - 1; i >= 1; i-- {
		if !e.next(i) {
			e.done = true
			return
		}
	}
}

// Done reports whether the search space is exhausted.
func (e *Enumerator) Done() bool {
	return e.done
}

// Next advances to the next accepted tuple. It returns false, and Done
// becomes true, once every tuple has been tried.
func (e *Enumerator) Next() bool {
	if e.done {
		return false
	}
	if !e.next(0) {
		e.done = true
		return false
	}
	return true
}

// Placement returns slot i's current assignment.
func (e *Enumerator) Placement(i int) Placement {
	return e.cur[i]
}

func (e *Enumerator) Count() int {
	return len(e.cur)
}

func (e *Enumerator) Configuration() Configuration {
	c := Configuration{
		Placements: append([]Placement(nil), e.cur...),
		Targets:    append([]target.Target(nil), e.shifted...),
	}
	if len(e.cur) > 0 {
		c.MinActivation = e.cumulActivation[0]
		c.State = e.cumulative[0]
	}
	return c
}

func wrap(v int) int {
	return v & (board.N - 1)
}

// next moves slot i to its next accepted placement, carrying into deeper
// slots when slot i runs out.
func (e *Enumerator) next(i int) bool {
	last := e.params.Count - 1
	for {
		if !e.naiveNext(i) {
			return false
		}
		if i < last && !e.cur[i+1].less(e.cur[i]) {
			// Jump straight to the deeper slot's placement; the next
			// increment lands just above it.
			e.cur[i] = e.cur[i+1]
			continue
		}
		if e.accept(i) {
			break
		}
	}
	e.update(i)
	return true
}

// naiveNext increments slot i's variant, then y, then x, with no checks.
func (e *Enumerator) naiveNext(i int) bool {
	p := e.params
	if i == p.Count {
		return false
	}
	c := &e.cur[i]

	c.Variant++
	if c.Variant < len(p.Variants) {
		return true
	}
	c.Variant = 0

	c.Y++
	if c.Y < p.Y+p.H {
		return true
	}
	c.Y = p.Y

	c.X++
	if c.X < p.X+p.W {
		return true
	}
	c.X = p.X

	return e.next(i + 1)
}

func (e *Enumerator) accept(i int) bool {
	p := e.params
	c := e.cur[i]
	t := e.timing[c.Variant]
	x, y := wrap(c.X), wrap(c.Y)
	deeper := i < p.Count-1

	if !t.SlowEnough[x][y] {
		return false
	}

	if deeper {
		if p.MaxW >= 0 && c.X-e.cur[p.Count-1].X > p.MaxW {
			return false
		}
		if p.MaxH >= 0 && (c.Y-e.cumulMinY[i+1] > p.MaxH || e.cumulMaxY[i+1]-c.Y > p.MaxH) {
			return false
		}
	}

	timely := t.QuickEnough[x][y] || (deeper && e.cumulTimely[i+1])
	if i == 0 && !timely {
		return false
	}

	// The object must survive one generation next to everything deeper.
	e.shifted[i] = e.targets[c.Variant].Moved(c.X, c.Y)
	trial := e.shifted[i].Wanted
	if deeper {
		trial.Join(&e.cumulative[i+1])
	}
	trial.Step()
	return trial.Contains(&e.shifted[i].Wanted)
}

func (e *Enumerator) update(i int) {
	c := e.cur[i]
	t := e.timing[c.Variant]
	x, y := wrap(c.X), wrap(c.Y)

	if i == e.params.Count-1 {
		e.cumulMinY[i] = c.Y
		e.cumulMaxY[i] = c.Y
		e.cumulActivation[i] = t.Activation[x][y]
		e.cumulTimely[i] = t.QuickEnough[x][y]
		e.cumulative[i] = e.shifted[i].Wanted
		return
	}

	e.cumulMinY[i] = min(e.cumulMinY[i+1], c.Y)
	e.cumulMaxY[i] = max(e.cumulMaxY[i+1], c.Y)
	e.cumulActivation[i] = min(e.cumulActivation[i+1], t.Activation[x][y])
	e.cumulTimely[i] = t.QuickEnough[x][y] || e.cumulTimely[i+1]
	e.cumulative[i] = e.shifted[i].Wanted.Union(&e.cumulative[i+1])
}
