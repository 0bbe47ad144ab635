package search

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/domino14/catsearch/board"
	"github.com/domino14/catsearch/enumerator"
	"github.com/domino14/catsearch/stats"
)

type Result struct {
	Placements []enumerator.Placement
	Variants   []Variant
	// Gen is the generation the result was taken at.
	Gen          int
	Activation   int
	RecoveryTime int
	Catalysts    board.Board
	Debris       board.Board
}

func (r *Result) PlacementString() string {
	parts := lo.Map(r.Placements, func(p enumerator.Placement, i int) string {
		return fmt.Sprintf("%s at (%d, %d)", r.Variants[i], p.X, p.Y)
	})
	return strings.Join(parts, "; ")
}

// Category groups results that leave the same debris, up to translation.
type Category struct {
	Key     uint64
	Example Result
	Count   int
}

type Report struct {
	Iterations int64
	Elapsed    time.Duration
	Results    []Result
	// Categories is ordered by descending count once the run finishes.
	Categories []*Category
	Recovery   stats.Statistic

	categories map[uint64]*Category
}

func newReport() *Report {
	return &Report{categories: make(map[uint64]*Category)}
}

func debrisKey(debris *board.Board) uint64 {
	n := normalize(*debris)
	return n.Hash()
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	r.Recovery.Push(float64(res.RecoveryTime))

	key := debrisKey(&res.Debris)
	if c, ok := r.categories[key]; ok {
		c.Count++
		return
	}
	r.categories[key] = &Category{Key: key, Example: res, Count: 1}
}

func (r *Report) finish() {
	r.Categories = lo.Values(r.categories)
	slices.SortFunc(r.Categories, func(a, b *Category) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
}

// Summary renders the categories as text, one example per category.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d iterations, %d results in %d categories (%v)\n",
		r.Iterations, len(r.Results), len(r.Categories), r.Elapsed.Round(time.Millisecond))
	if r.Recovery.Iterations() > 0 {
		fmt.Fprintf(&sb, "recovery time %.2f ± %.2f gens (stdev %.2f, min %.0f, max %.0f)\n",
			r.Recovery.Mean(), r.Recovery.MarginOfError(95), r.Recovery.Stdev(),
			r.Recovery.Min(), r.Recovery.Max())
	}
	for i, c := range r.Categories {
		fmt.Fprintf(&sb, "#%d x%d gen %d: %s\n  debris %s\n", i+1, c.Count,
			c.Example.Gen, c.Example.PlacementString(), c.Example.Debris.ToRLE())
	}
	return sb.String()
}
