package board

import "math/bits"

// Contains reports whether every live cell of mask is alive in b.
func (b *Board) Contains(mask *Board) bool {
	var differences uint64
	for i := 0; i < N; i++ {
		differences |= (b.state[i] & mask.state[i]) ^ mask.state[i]
	}
	return differences == 0
}

// Disjoint reports whether b and mask share no live cell.
func (b *Board) Disjoint(mask *Board) bool {
	var overlap uint64
	for i := 0; i < N; i++ {
		overlap |= b.state[i] & mask.state[i]
	}
	return overlap == 0
}

// ContainsAt is Contains for mask translated by (dx, dy), without building
// the translated copy.
func (b *Board) ContainsAt(mask *Board, dx, dy int) bool {
	dy = wrap(dy)
	for i := mask.minX; i <= mask.maxX; i++ {
		col := rotr(b.state[wrap(i+dx)], dy)
		if col&mask.state[i] != mask.state[i] {
			return false
		}
	}
	return true
}

// DisjointAt is Disjoint for mask translated by (dx, dy).
func (b *Board) DisjointAt(mask *Board, dx, dy int) bool {
	dy = wrap(dy)
	for i := mask.minX; i <= mask.maxX; i++ {
		col := rotr(b.state[wrap(i+dx)], dy)
		if col&mask.state[i] != 0 {
			return false
		}
	}
	return true
}

// ZOI returns the zone of influence: every cell within one king move of a
// live cell, including the live cells themselves.
func (b *Board) ZOI() Board {
	var vertical [N]uint64
	for i := 0; i < N; i++ {
		col := b.state[i]
		vertical[i] = col | rotl(col, 1) | rotr(col, 1)
	}

	var out Board
	for i := 0; i < N; i++ {
		out.state[i] = vertical[(i+N-1)%N] | vertical[i] | vertical[(i+1)%N]
	}
	out.RecalculateMinMax()
	return out
}

// Boundary returns the ZOI minus the live cells.
func (b *Board) Boundary() Board {
	out := b.ZOI()
	for i := 0; i < N; i++ {
		out.state[i] &^= b.state[i]
	}
	out.RecalculateMinMax()
	return out
}

// Convolve returns the Minkowski sum of b and other: every p+q with p live
// in b and q live in other.
func (b *Board) Convolve(other *Board) Board {
	var out Board
	for i := other.minX; i <= other.maxX; i++ {
		col := other.state[i]
		for col != 0 {
			j := bits.TrailingZeros64(col)
			out.JoinShifted(b, i, j)
			col &= col - 1
		}
	}
	out.RecalculateMinMax()
	return out
}

// MatchLive returns every translation p for which pattern+p lies inside b.
// An empty pattern matches everywhere.
func (b *Board) MatchLive(pattern *Board) Board {
	var out Board
	out.Invert()
	for i := pattern.minX; i <= pattern.maxX; i++ {
		col := pattern.state[i]
		for col != 0 {
			j := bits.TrailingZeros64(col)
			moved := b.Moved(-i, -j)
			for k := 0; k < N; k++ {
				out.state[k] &= moved.state[k]
			}
			col &= col - 1
		}
	}
	out.RecalculateMinMax()
	return out
}

// Negated returns b mirrored through the origin, (x, y) -> (-x, -y).
func (b Board) Negated() Board {
	b.ApplySymmetry(Rotate180)
	return b
}
