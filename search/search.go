// Package search drives an Enumerator over catalyst placements around a
// reaction and keeps the placements in which every catalyst is disturbed and
// then recovers.
package search

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/domino14/catsearch/board"
	"github.com/domino14/catsearch/config"
	"github.com/domino14/catsearch/cpchain"
	"github.com/domino14/catsearch/enumerator"
	"github.com/domino14/catsearch/target"
)

// Variant is one orientation of one catalyst.
type Variant struct {
	Catalyst int
	Symmetry board.Symmetry
	Cells    board.Board
}

func (v Variant) String() string {
	return fmt.Sprintf("catalyst %d %s", v.Catalyst, v.Symmetry)
}

type Searcher struct {
	params *Params
	cfg    *config.Config

	reaction  board.Board
	evolution []board.Board
	variants  []Variant
	timings   []*enumerator.Timing
	target    *cpchain.Target
	gliders   *target.GliderRemover
	enu       *enumerator.Enumerator
}

// NewSearcher parses every pattern in params and precomputes the timing
// tables the enumerator prunes with.
func NewSearcher(params *Params, cfg *config.Config) (*Searcher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Searcher{params: params, cfg: cfg}

	reaction, err := board.ParseRLEAt(params.Reaction, params.ReactionDX, params.ReactionDY)
	if err != nil {
		return nil, fmt.Errorf("reaction: %w", err)
	}
	s.reaction = reaction

	for i, cp := range params.Catalysts {
		vs, err := catalystVariants(i, cp)
		if err != nil {
			return nil, err
		}
		s.variants = append(s.variants, vs...)
	}
	s.variants = lo.UniqBy(s.variants, func(v Variant) uint64 {
		return v.Cells.Hash()
	})

	s.evolution = make([]board.Board, params.LastGen+1)
	s.evolution[0] = reaction
	for g := 1; g <= params.LastGen; g++ {
		s.evolution[g] = s.evolution[g-1].Evolved(1)
	}

	s.timings = make([]*enumerator.Timing, len(s.variants))
	for i := range s.variants {
		s.timings[i] = computeTiming(s.evolution, &s.variants[i].Cells, params.StartGen, params.LastGen)
	}

	if params.Target != nil {
		tb, err := board.ParseRLEAt(params.Target.RLE, params.Target.DX, params.Target.DY)
		if err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
		if tb.IsEmpty() {
			return nil, fmt.Errorf("%w: target pattern is empty", ErrInvalidParams)
		}
		t := cpchain.NewTarget(&tb, cfg.GetInt(config.ConfigMaxCPChainLength))
		s.target = &t
		log.Debug().Str("chain", t.String()).Msg("target-chain")
	}

	if params.RemoveGliders {
		s.gliders = target.NewGliderRemover()
	}

	s.enu = enumerator.New(enumerator.Params{
		Count:    params.Count,
		X:        params.Window.X,
		Y:        params.Window.Y,
		W:        params.Window.W,
		H:        params.Window.H,
		MaxW:     params.MaxWidth,
		MaxH:     params.MaxHeight,
		Variants: lo.Map(s.variants, func(v Variant, _ int) board.Board { return v.Cells }),
	})
	for i, t := range s.timings {
		s.enu.SetTiming(i, t)
	}
	s.enu.Reset()

	log.Info().Int("variants", len(s.variants)).Int("count", params.Count).
		Float64("search-space", s.SearchSpace()).Msg("searcher-ready")
	return s, nil
}

func catalystVariants(idx int, cp CatalystParams) ([]Variant, error) {
	cells, err := board.ParseRLE(cp.RLE)
	if err != nil {
		return nil, fmt.Errorf("catalyst %d: %w", idx, err)
	}
	if cells.IsEmpty() {
		return nil, fmt.Errorf("%w: catalyst %d is empty", ErrInvalidParams, idx)
	}
	syms := []board.Symmetry{board.Identity}
	if len(cp.Symmetries) > 0 {
		syms = syms[:0]
		for _, name := range cp.Symmetries {
			sym, err := board.ParseSymmetry(name)
			if err != nil {
				return nil, fmt.Errorf("catalyst %d: %w", idx, err)
			}
			syms = append(syms, sym)
		}
	}

	out := make([]Variant, 0, len(syms))
	for _, sym := range syms {
		v := normalize(cells.Transformed(sym))
		v.Move(cp.DX, cp.DY)
		out = append(out, Variant{Catalyst: idx, Symmetry: sym, Cells: v})
	}
	return out, nil
}

// normalize moves b so the top-left corner of its bounding box is the
// origin. Patterns must fit in half the board.
func normalize(b board.Board) board.Board {
	b.Move(board.N/2, board.N/2)
	x0, y0, _, _, ok := b.BoundingBox()
	if !ok {
		return b
	}
	b.Move(-x0, -y0)
	return b
}

// SearchSpace estimates the number of raw tuples before pruning.
func (s *Searcher) SearchSpace() float64 {
	cells := float64(s.params.Window.W * s.params.Window.H * len(s.variants))
	k := float64(s.params.Count)
	if cells < k {
		return 0
	}
	return combin.GeneralizedBinomial(cells, k)
}

func (s *Searcher) Variants() []Variant {
	return s.variants
}

// Timing returns the precomputed tables for variant i.
func (s *Searcher) Timing(i int) *enumerator.Timing {
	return s.timings[i]
}

// Run drives the enumerator until it is exhausted, the configured iteration
// budget or MaxResults is reached, or ctx is cancelled. The report covers
// everything found so far in every case; cancellation also returns
// ctx.Err().
func (s *Searcher) Run(ctx context.Context) (*Report, error) {
	budget := s.cfg.GetInt64(config.ConfigIterationBudget)
	interval := s.cfg.GetInt64(config.ConfigProgressInterval)
	report := newReport()
	started := time.Now()

	s.enu.Reset()
	var err error
	for {
		if err = ctx.Err(); err != nil {
			log.Info().Int64("iterations", report.Iterations).Msg("search-cancelled")
			break
		}
		if budget > 0 && report.Iterations >= budget {
			log.Info().Int64("budget", budget).Msg("iteration-budget-reached")
			break
		}
		if !s.enu.Next() {
			break
		}
		report.Iterations++

		conf := s.enu.Configuration()
		if res, ok := s.evaluate(&conf); ok {
			report.add(res)
			log.Debug().Str("placements", res.PlacementString()).Int("gen", res.Gen).Msg("result")
			if s.params.MaxResults > 0 && len(report.Results) >= s.params.MaxResults {
				break
			}
		}

		if interval > 0 && report.Iterations%interval == 0 {
			log.Info().Int64("iterations", report.Iterations).Int("results", len(report.Results)).
				Int("categories", len(report.categories)).
				Dur("elapsed", time.Since(started)).Msg("search-progress")
		}
	}

	report.Elapsed = time.Since(started)
	report.finish()
	log.Info().Int64("iterations", report.Iterations).Int("results", len(report.Results)).
		Int("categories", len(report.Categories)).
		Float64("mean-recovery", report.Recovery.Mean()).
		Dur("elapsed", report.Elapsed).Msg("search-finished")
	return report, err
}

// evaluate runs the reaction with the catalysts in place. Every catalyst
// has to be disturbed at some point and never stay broken for more than
// RecoveryGens generations in a row. The result is taken once all of them
// have been whole for StableGens generations running and, if a target is
// configured, the target is found.
func (s *Searcher) evaluate(conf *enumerator.Configuration) (Result, bool) {
	p := s.params
	n := len(conf.Targets)

	// Halos may overlap neighbouring catalysts; those cells don't count.
	halos := make([]board.Board, n)
	for i := range conf.Targets {
		halos[i] = conf.Targets[i].Unwanted.Minus(&conf.State)
	}

	world := s.reaction.Union(&conf.State)
	disturbed := make([]bool, n)
	broken := make([]int, n)
	longest := 0

	stable := 0
	horizon := p.LastGen + p.RecoveryGens + p.StableGens
	for g := 1; g <= horizon; g++ {
		world.Step()
		if s.gliders != nil {
			s.gliders.Remove(&world)
		}

		whole := true
		for i := range conf.Targets {
			if world.Contains(&conf.Targets[i].Wanted) && world.Disjoint(&halos[i]) {
				broken[i] = 0
				continue
			}
			whole = false
			disturbed[i] = true
			broken[i]++
			longest = max(longest, broken[i])
			if broken[i] > p.RecoveryGens {
				return Result{}, false
			}
		}
		if !whole {
			stable = 0
			continue
		}
		stable++
		if stable < p.StableGens || slices.Contains(disturbed, false) {
			continue
		}
		if s.target != nil && !s.target.MatchLiveAndDead(&world, &conf.State,
			p.Target.MaxJunk, p.Target.MatchSurvive) {
			continue
		}

		debris := world.Minus(&conf.State)
		return Result{
			Placements: conf.Placements,
			Variants: lo.Map(conf.Placements, func(pl enumerator.Placement, _ int) Variant {
				return s.variants[pl.Variant]
			}),
			Gen:          g,
			Activation:   conf.MinActivation,
			RecoveryTime: longest,
			Debris:       debris,
			Catalysts:    conf.State,
		}, true
	}
	return Result{}, false
}
