package board

import (
	"fmt"
	"math/bits"
	"strings"
)

// Move shifts every cell by (dx, dy) around the torus.
func (b *Board) Move(dx, dy int) {
	dx, dy = wrap(dx), wrap(dy)

	var temp [N]uint64
	for i := 0; i < N; i++ {
		temp[i] = rotl(b.state[i], dy)
	}
	copy(b.state[:dx], temp[N-dx:])
	copy(b.state[dx:], temp[:N-dx])

	lo, hi := (b.minX+dx)%N, (b.maxX+dx)%N
	if lo < hi {
		b.minX, b.maxX = lo, hi
	} else {
		b.setFullRange()
	}
}

// Moved returns a shifted copy of b.
func (b Board) Moved(dx, dy int) Board {
	b.Move(dx, dy)
	return b
}

// CopyShifted overwrites b with src shifted by (dx, dy). Only the columns in
// src's range hint are rotated.
func (b *Board) CopyShifted(src *Board, dx, dy int) {
	temp := shiftedColumns(src, dx, dy)
	b.state = temp
	b.setFullRange()
}

// JoinShifted ORs src shifted by (dx, dy) into b.
func (b *Board) JoinShifted(src *Board, dx, dy int) {
	temp := shiftedColumns(src, dx, dy)
	for i := 0; i < N; i++ {
		b.state[i] |= temp[i]
	}
	b.setFullRange()
}

func shiftedColumns(src *Board, dx, dy int) [N]uint64 {
	dx, dy = wrap(dx), wrap(dy)
	var rotated, out [N]uint64
	for i := src.minX; i <= src.maxX; i++ {
		rotated[i] = rotl(src.state[i], dy)
	}
	copy(out[:dx], rotated[N-dx:])
	copy(out[dx:], rotated[:N-dx])
	return out
}

// Transform translates b by (dx, dy) and then resamples every cell through
// the linear map (x, y) -> (a*x + bb*y, c*x + d*y): the new cell (x, y) takes
// the value of the translated cell at the mapped coordinates.
func (b *Board) Transform(dx, dy, a, bb, c, d int) {
	moved := b.Moved(dx, dy)
	var out [N]uint64
	for x := 0; x < N; x++ {
		for y := 0; y < N; y++ {
			if moved.Get(a*x+bb*y, c*x+d*y) {
				out[x] |= 1 << uint(y)
			}
		}
	}
	b.state = out
	b.RecalculateMinMax()
}

func (b *Board) reverseColumns() {
	for l, r := 0, N-1; l < r; l, r = l+1, r-1 {
		b.state[l], b.state[r] = b.state[r], b.state[l]
	}
}

// FlipX mirrors x -> -x. Reversing the word order maps x to 63-x, so a one
// column shift finishes the job.
func (b *Board) FlipX() {
	b.reverseColumns()
	b.setFullRange()
	b.Move(1, 0)
	b.RecalculateMinMax()
}

// FlipY mirrors y -> -y.
func (b *Board) FlipY() {
	for i := 0; i < N; i++ {
		b.state[i] = bits.Reverse64(b.state[i])
	}
	b.Move(0, 1)
}

// Transpose swaps x and y using the recursive block-swap bit matrix
// transpose (Hacker's Delight 7-3).
func (b *Board) Transpose() {
	m := uint64(0x00000000FFFFFFFF)
	for j := 32; j != 0; j, m = j>>1, m^(m<<uint(j>>1)) {
		for k := 0; k < N; k = ((k | j) + 1) &^ j {
			t := ((b.state[k] >> uint(j)) ^ b.state[k|j]) & m
			b.state[k] ^= t << uint(j)
			b.state[k|j] ^= t
		}
	}
	b.RecalculateMinMax()
}

// Symmetry is one of the eight rigid transforms of the square that fix the
// origin.
type Symmetry int

const (
	Identity Symmetry = iota
	Rotate90
	Rotate180
	Rotate270
	ReflectX
	ReflectY
	ReflectDiagonal
	ReflectAntiDiagonal
)

// AllSymmetries is the fixed transform set used for symmetric matching.
var AllSymmetries = [8]Symmetry{
	Identity, Rotate90, Rotate180, Rotate270,
	ReflectX, ReflectY, ReflectDiagonal, ReflectAntiDiagonal,
}

var symmetryNames = map[Symmetry]string{
	Identity:            "identity",
	Rotate90:            "rot90",
	Rotate180:           "rot180",
	Rotate270:           "rot270",
	ReflectX:            "flipx",
	ReflectY:            "flipy",
	ReflectDiagonal:     "diag",
	ReflectAntiDiagonal: "antidiag",
}

func (s Symmetry) String() string {
	if n, ok := symmetryNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Symmetry(%d)", int(s))
}

// ParseSymmetry accepts the names produced by String.
func ParseSymmetry(name string) (Symmetry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range symmetryNames {
		if n == name {
			return s, nil
		}
	}
	return Identity, fmt.Errorf("unknown symmetry %q", name)
}

// Coefficients returns (a, b, c, d) for Transform. ReflectX negates y (a
// reflection across the x axis) and ReflectY negates x.
func (s Symmetry) Coefficients() (int, int, int, int) {
	switch s {
	case Identity:
		return 1, 0, 0, 1
	case Rotate90:
		return 0, -1, 1, 0
	case Rotate180:
		return -1, 0, 0, -1
	case Rotate270:
		return 0, 1, -1, 0
	case ReflectX:
		return 1, 0, 0, -1
	case ReflectY:
		return -1, 0, 0, 1
	case ReflectDiagonal:
		return 0, 1, 1, 0
	case ReflectAntiDiagonal:
		return 0, -1, -1, 0
	}
	panic(fmt.Sprintf("unknown symmetry %d", int(s)))
}

// Inverse returns the transform undoing s.
func (s Symmetry) Inverse() Symmetry {
	switch s {
	case Rotate90:
		return Rotate270
	case Rotate270:
		return Rotate90
	}
	return s
}

func (b *Board) ApplySymmetry(s Symmetry) {
	if s == Identity {
		return
	}
	a, bb, c, d := s.Coefficients()
	b.Transform(0, 0, a, bb, c, d)
}

// Transformed returns a copy of b with s applied.
func (b Board) Transformed(s Symmetry) Board {
	b.ApplySymmetry(s)
	return b
}
