package cpchain

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"

	"github.com/domino14/catsearch/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

const eaterRLE = "2o$o$b3o$3bo!"

func randomMask(rng *frand.RNG, w, h int) board.Board {
	for {
		var noise, box board.Board
		noise.RandomFill(rng)
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				box.Set(x, y)
			}
		}
		noise.And(&box)
		if !noise.IsEmpty() {
			return noise
		}
	}
}

func seed() board.Board {
	var b board.Board
	b.Set(0, 0)
	return b
}

func TestUnionReplayRebuildsMask(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	one := seed()

	for i := 0; i < 40; i++ {
		desired := randomMask(rng, 7, 6)
		desired.Move(rng.Intn(board.N), rng.Intn(board.N))

		chain := Compute(&desired, 0)
		rebuilt := Apply(&one, &chain, Union)
		is.True(rebuilt.Equal(&desired))
		is.True(len(chain.Steps) < desired.Pop())
	}
}

func TestIntersectReplayFindsTranslations(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)

	for i := 0; i < 20; i++ {
		desired := randomMask(rng, 5, 5)
		chain := Compute(&desired, 0)

		var world board.Board
		world.RandomFill(rng)
		placed := desired.Moved(rng.Intn(board.N), rng.Intn(board.N))
		world.Join(&placed)

		matches := Apply(&world, &chain, Intersection)
		expected := world.MatchLive(&desired)
		is.True(matches.Equal(&expected))
		is.True(!matches.IsEmpty())
	}
}

func TestSingleCellChain(t *testing.T) {
	is := is.New(t)
	var cell board.Board
	cell.Set(5, 7)
	chain := Compute(&cell, 1)
	is.Equal(len(chain.Steps), 0)
	is.Equal(chain.PostDX, 5)
	is.Equal(chain.PostDY, 7)

	one := seed()
	rebuilt := Apply(&one, &chain, Union)
	is.True(rebuilt.Equal(&cell))
	is.Equal(chain.String(), "post 5 7")
}

func TestRowOfThree(t *testing.T) {
	is := is.New(t)
	row, err := board.ParseRLE("3o!")
	is.NoErr(err)
	chain := Compute(&row, 0)
	is.Equal(len(chain.Steps), 2)
	is.Equal(chain.Steps[0].Unmoved, 0)
	is.Equal(chain.Steps[0].Moved, 0)
}

func TestComputePanics(t *testing.T) {
	var empty board.Board
	assert.Panics(t, func() { Compute(&empty, 0) })

	row, err := board.ParseRLE("3o!")
	assert.NoError(t, err)
	assert.Panics(t, func() { Compute(&row, 1) })
	assert.NotPanics(t, func() { Compute(&row, 2) })
}

func TestMatchLiveAndDead(t *testing.T) {
	is := is.New(t)
	block, err := board.ParseRLE("2o$2o!")
	is.NoErr(err)
	tgt := NewTarget(&block, 0)
	var none board.Board

	ws := block.Moved(20, 20)
	is.True(tgt.MatchLiveAndDead(&ws, &none, 1, 0))
	is.True(tgt.MatchLiveAndDead(&ws, &none, -1, 0))
	// Junk must be strictly below the budget.
	is.True(!tgt.MatchLiveAndDead(&ws, &none, 0, 0))

	ws.Set(40, 40)
	is.True(!tgt.MatchLiveAndDead(&ws, &none, 1, 0))
	is.True(tgt.MatchLiveAndDead(&ws, &none, 2, 0))

	// A cell in the halo means there is no isolated block at all.
	crowded := block.Moved(20, 20)
	crowded.Set(22, 20)
	is.True(!tgt.MatchLiveAndDead(&crowded, &none, -1, 0))

	var zero Target
	is.True(zero.MatchLiveAndDead(&crowded, &none, 0, 0))
}

func TestMatchLiveAndDeadUnderSymmetry(t *testing.T) {
	is := is.New(t)
	eater, err := board.ParseRLE(eaterRLE)
	is.NoErr(err)
	tgt := NewTarget(&eater, 0)
	var none board.Board

	for _, s := range board.AllSymmetries {
		ws := eater.Transformed(s)
		ws.Move(17, 33)
		is.True(tgt.MatchLiveAndDead(&ws, &none, 1, 0))
	}
}

func TestMatchSurviveCountsCatalystChanges(t *testing.T) {
	is := is.New(t)
	block, err := board.ParseRLE("2o$2o!")
	is.NoErr(err)
	tgt := NewTarget(&block, 0)

	blinker, err := board.ParseRLEAt("3o!", 30, 30)
	is.NoErr(err)
	ws := block.Moved(20, 20)
	ws.Join(&blinker)

	// After an even number of generations the blinker is back in its
	// starting phase, so nothing counts as junk.
	is.True(tgt.MatchLiveAndDead(&ws, &blinker, 1, 4))
	// After an odd number the two tips of the other phase are left over.
	is.True(!tgt.MatchLiveAndDead(&ws, &blinker, 2, 5))
	is.True(tgt.MatchLiveAndDead(&ws, &blinker, 3, 5))
}

func TestApplyToEmptyInput(t *testing.T) {
	is := is.New(t)
	eater, err := board.ParseRLE(eaterRLE)
	is.NoErr(err)
	chain := Compute(&eater, 0)
	var empty board.Board
	u := Apply(&empty, &chain, Union)
	is.True(u.IsEmpty())
	x := Apply(&empty, &chain, Intersection)
	is.True(x.IsEmpty())
}

func TestCache(t *testing.T) {
	is := is.New(t)
	hook, err := board.ParseRLE("5o$o3bo$o!")
	is.NoErr(err)

	c := NewCache()
	a := c.Chain(&hook, 0)
	b := c.Chain(&hook, 0)
	is.Equal(c.Len(), 1)
	is.Equal(a, b)
	is.Equal(a, Compute(&hook, 0))

	moved := hook.Moved(10, 3)
	c.Chain(&moved, 0)
	is.Equal(c.Len(), 2)
	c.Chain(&hook, 10)
	is.Equal(c.Len(), 3)
}
