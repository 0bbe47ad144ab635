package stats

import (
	"math"
	"testing"

	"github.com/matryer/is"
)

func fuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
		min    float64
		max    float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638, 10, 23},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891, 10, 124},
		{[]int{1}, 1, 0, 1, 1},
		{[]int{}, 0, 0, 0, 0},
		{[]int{1, 1}, 1, 0, 1, 1},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(fuzzyEqual(s.Mean(), c.mean))
		is.True(fuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Min(), c.min)
		is.Equal(s.Max(), c.max)
		is.Equal(s.Iterations(), len(c.scores))
	}
}

func TestMarginOfError(t *testing.T) {
	is := is.New(t)
	is.True(fuzzyEqual(ZVal(95), 1.959963984540054))

	s := &Statistic{}
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Push(v)
	}
	// stdev 2.13808994, n 8
	is.True(fuzzyEqual(s.MarginOfError(95), 1.959963984540054*2.138089935299395/2.8284271247461903))
}
