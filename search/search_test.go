package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/catsearch/board"
	"github.com/domino14/catsearch/config"
	"github.com/domino14/catsearch/enumerator"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// A glider heading down and right into an eater placed somewhere along a
// diagonal of the window.
const eaterParams = `
reaction: bo$2bo$3o!
reaction-dx: 10
reaction-dy: 10
catalysts:
  - rle: 2o$o$b3o$3bo!
count: 1
window: {x: 13, y: 14, w: 10, h: 10}
start-gen: 1
last-gen: 40
recovery-gens: 10
stable-gens: 5
`

func mustParams(t *testing.T, yaml string) *Params {
	p, err := ParseParams([]byte(yaml))
	require.NoError(t, err)
	return p
}

func TestParseParamsDefaults(t *testing.T) {
	p := mustParams(t, eaterParams)
	assert.Equal(t, -1, p.MaxWidth)
	assert.Equal(t, -1, p.MaxHeight)
	assert.Equal(t, 10, p.ReactionDX)
	assert.Equal(t, Window{X: 13, Y: 14, W: 10, H: 10}, p.Window)
	assert.Nil(t, p.Target)
	assert.Len(t, p.Catalysts, 1)
}

func TestParseParamsRejects(t *testing.T) {
	cases := map[string]string{
		"no catalysts": `
reaction: 3o!
count: 1
window: {w: 4, h: 4}
last-gen: 10
`,
		"bad symmetry": `
reaction: 3o!
catalysts: [{rle: 2o$2o!, symmetries: [sideways]}]
window: {w: 4, h: 4}
last-gen: 10
`,
		"last before start": `
reaction: 3o!
catalysts: [{rle: 2o$2o!}]
window: {w: 4, h: 4}
start-gen: 20
last-gen: 10
`,
		"empty window": `
reaction: 3o!
catalysts: [{rle: 2o$2o!}]
window: {w: 0, h: 4}
last-gen: 10
`,
		"bad target junk": `
reaction: 3o!
catalysts: [{rle: 2o$2o!}]
window: {w: 4, h: 4}
last-gen: 10
target: {rle: 2o$2o!, max-junk: -3}
`,
	}
	for name, y := range cases {
		_, err := ParseParams([]byte(y))
		assert.ErrorIs(t, err, ErrInvalidParams, name)
	}

	_, err := ParseParams([]byte("reaction: [unterminated"))
	assert.Error(t, err)
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eater.yaml")
	require.NoError(t, os.WriteFile(path, []byte(eaterParams), 0o644))
	p, err := LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, 40, p.LastGen)

	_, err = LoadParams(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestVariantsAreDeduplicated(t *testing.T) {
	is := is.New(t)
	all := []string{"identity", "rot90", "rot180", "rot270", "flipx", "flipy", "diag", "antidiag"}

	p := mustParams(t, eaterParams)
	p.Catalysts = []CatalystParams{
		{RLE: "2o$2o!", Symmetries: all},
		{RLE: "2o$o$b3o$3bo!", Symmetries: all},
	}
	s, err := NewSearcher(p, config.DefaultConfig())
	is.NoErr(err)
	// The block looks the same every way round; the eater has no symmetry.
	is.Equal(len(s.Variants()), 9)
	is.Equal(s.Variants()[0].Catalyst, 0)
	for _, v := range s.Variants()[1:] {
		is.Equal(v.Catalyst, 1)
	}
}

func TestTimingTables(t *testing.T) {
	is := is.New(t)
	p := mustParams(t, `
reaction: 2o$2o!
reaction-dx: 30
reaction-dy: 30
catalysts: [{rle: 2o$2o!}]
window: {x: 20, y: 30, w: 10, h: 1}
last-gen: 12
`)
	s, err := NewSearcher(p, config.DefaultConfig())
	is.NoErr(err)
	tm := s.Timing(0)

	// Touching the reaction block from the start.
	is.Equal(tm.Activation[28][30], 0)
	is.True(!tm.SlowEnough[28][30])
	// Never reached by a reaction that never moves.
	is.Equal(tm.Activation[20][30], 13)
	is.True(!tm.QuickEnough[20][30])
	is.True(tm.SlowEnough[20][30])
}

func TestStillReactionFindsNothing(t *testing.T) {
	is := is.New(t)
	p := mustParams(t, `
reaction: 2o$2o!
reaction-dx: 30
reaction-dy: 30
catalysts: [{rle: 2o$2o!}]
count: 2
window: {x: 0, y: 0, w: 12, h: 12}
last-gen: 12
`)
	s, err := NewSearcher(p, config.DefaultConfig())
	is.NoErr(err)
	report, err := s.Run(context.Background())
	is.NoErr(err)
	is.Equal(report.Iterations, int64(0))
	is.Equal(len(report.Results), 0)
	is.Equal(len(report.Categories), 0)
}

func TestEaterEatsGlider(t *testing.T) {
	is := is.New(t)
	s, err := NewSearcher(mustParams(t, eaterParams), config.DefaultConfig())
	is.NoErr(err)

	report, err := s.Run(context.Background())
	is.NoErr(err)
	is.Equal(len(report.Results), 10)

	first := report.Results[0]
	is.Equal(first.Placements, []enumerator.Placement{{X: 13, Y: 14, Variant: 0}})
	is.Equal(first.Gen, 7)
	is.Equal(first.Activation, 2)
	is.True(first.Debris.IsEmpty())
	for i, r := range report.Results {
		is.Equal(r.Placements[0].X-r.Placements[0].Y, -1)
		is.Equal(r.Gen, 7+4*i)
	}

	// Every result leaves nothing behind, so they share one category.
	is.Equal(len(report.Categories), 1)
	is.Equal(report.Categories[0].Count, 10)
	is.Equal(report.Recovery.Iterations(), 10)
	assert.Contains(t, report.Summary(), "10 results in 1 categories")
	assert.Contains(t, report.Summary(), "stdev")
}

func TestTargetMustAppear(t *testing.T) {
	is := is.New(t)

	// The eater leaves no debris, so a block is never found.
	p := mustParams(t, eaterParams+"target: {rle: 2o$2o!, max-junk: 1}\n")
	s, err := NewSearcher(p, config.DefaultConfig())
	is.NoErr(err)
	report, err := s.Run(context.Background())
	is.NoErr(err)
	is.Equal(len(report.Results), 0)

	// With an extra block in the reaction the target is there every time.
	p = mustParams(t, eaterParams+"target: {rle: 2o$2o!, max-junk: 1}\n")
	p.Reaction = "bo$2bo$3o30$30b2o$30b2o!"
	p.ReactionDX, p.ReactionDY = 10, 10
	s, err = NewSearcher(p, config.DefaultConfig())
	is.NoErr(err)
	report, err = s.Run(context.Background())
	is.NoErr(err)
	is.Equal(len(report.Results), 10)
	is.Equal(len(report.Categories), 1)
	is.Equal(report.Results[0].Debris.Pop(), 4)
}

func TestTargetJunkDefaultsToUnlimited(t *testing.T) {
	is := is.New(t)
	p := mustParams(t, eaterParams+"target: {rle: 2o$2o!}\n")
	is.Equal(p.Target.MaxJunk, -1)

	p.Reaction = "bo$2bo$3o30$30b2o$30b2o!"
	s, err := NewSearcher(p, config.DefaultConfig())
	is.NoErr(err)
	report, err := s.Run(context.Background())
	is.NoErr(err)
	is.Equal(len(report.Results), 10)

	p = mustParams(t, eaterParams+"target: {rle: 2o$2o!, max-junk: 0}\n")
	is.Equal(p.Target.MaxJunk, 0)
}

func TestRunStops(t *testing.T) {
	is := is.New(t)

	p := mustParams(t, eaterParams+"max-results: 3\n")
	s, err := NewSearcher(p, config.DefaultConfig())
	is.NoErr(err)
	report, err := s.Run(context.Background())
	is.NoErr(err)
	is.Equal(len(report.Results), 3)

	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigIterationBudget, 2)
	s, err = NewSearcher(mustParams(t, eaterParams), cfg)
	is.NoErr(err)
	report, err = s.Run(context.Background())
	is.NoErr(err)
	is.Equal(report.Iterations, int64(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err = NewSearcher(mustParams(t, eaterParams), config.DefaultConfig())
	is.NoErr(err)
	report, err = s.Run(ctx)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(report.Iterations, int64(0))
}

func TestSearchSpace(t *testing.T) {
	p := mustParams(t, eaterParams)
	p.Count = 2
	s, err := NewSearcher(p, config.DefaultConfig())
	require.NoError(t, err)
	// 100 cells, one variant, choose 2.
	assert.InDelta(t, 4950.0, s.SearchSpace(), 1e-6)
}

func TestNormalize(t *testing.T) {
	is := is.New(t)
	b, err := board.ParseRLEAt("3o!", 50, 9)
	is.NoErr(err)
	n := normalize(b.Transformed(board.Rotate90))
	x0, y0, x1, y1, ok := n.BoundingBox()
	is.True(ok)
	is.Equal([4]int{x0, y0, x1, y1}, [4]int{0, 0, 0, 2})
}

func TestRemoveGliders(t *testing.T) {
	is := is.New(t)
	// A second glider heads for the left edge while the first is eaten.
	p := mustParams(t, eaterParams+"remove-gliders: true\n")
	p.Reaction = "6bo$7bo$5b3o28$2o$obo$o!"
	p.ReactionDX = 5
	s, err := NewSearcher(p, config.DefaultConfig())
	is.NoErr(err)
	report, err := s.Run(context.Background())
	is.NoErr(err)
	is.Equal(len(report.Results), 10)

	// It is removed at generation 16, so only later results are clean.
	for i, r := range report.Results {
		if i < 3 {
			is.Equal(r.Debris.Pop(), 5)
		} else {
			is.True(r.Debris.IsEmpty())
		}
	}
	is.Equal(len(report.Categories), 2)
	is.Equal(report.Categories[0].Count, 7)
}
