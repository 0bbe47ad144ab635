package board

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/cespare/xxhash"
)

// N is the side of the torus. Each column is packed into one uint64, so the
// word arithmetic throughout this package depends on N being 64.
const N = 64

// CombineOp selects how Combine merges another board into the receiver.
type CombineOp int

const (
	Copy CombineOp = iota
	Or
	And
	Xor
)

func (op CombineOp) String() string {
	switch op {
	case Copy:
		return "copy"
	case Or:
		return "or"
	case And:
		return "and"
	case Xor:
		return "xor"
	}
	return fmt.Sprintf("CombineOp(%d)", int(op))
}

// Board is a 64x64 toroidal Life universe. Word i holds column x=i and bit j
// of that word is the cell (i, j).
//
// minX and maxX form an inclusive column range that is a superset of the
// columns holding live cells. It can be wider than needed, never narrower.
// A Board is a value: assigning it copies every column.
type Board struct {
	state [N]uint64

	minX int
	maxX int
	gen  int
}

func wrap(v int) int {
	return v & (N - 1)
}

func rotl(w uint64, k int) uint64 {
	return bits.RotateLeft64(w, k)
}

func rotr(w uint64, k int) uint64 {
	return bits.RotateLeft64(w, -k)
}

// Set turns on the cell at (x, y), wrapping both coordinates.
func (b *Board) Set(x, y int) {
	x, y = wrap(x), wrap(y)
	b.state[x] |= 1 << uint(y)
	if x < b.minX {
		b.minX = x
	}
	if x > b.maxX {
		b.maxX = x
	}
}

// Erase turns off the cell at (x, y).
func (b *Board) Erase(x, y int) {
	b.state[wrap(x)] &^= 1 << uint(wrap(y))
}

// Get reports whether the cell at (x, y) is alive.
func (b *Board) Get(x, y int) bool {
	return b.state[wrap(x)]&(1<<uint(wrap(y))) != 0
}

func (b *Board) SetCell(x, y int, alive bool) {
	if alive {
		b.Set(x, y)
	} else {
		b.Erase(x, y)
	}
}

// Column returns the raw word for column x.
func (b *Board) Column(x int) uint64 {
	return b.state[wrap(x)]
}

// SetColumn overwrites column x with w, widening the range hint if needed.
func (b *Board) SetColumn(x int, w uint64) {
	x = wrap(x)
	b.state[x] = w
	if w == 0 {
		return
	}
	if x < b.minX {
		b.minX = x
	}
	if x > b.maxX {
		b.maxX = x
	}
}

// Gen is the number of generations this board has been stepped.
func (b *Board) Gen() int {
	return b.gen
}

func (b *Board) SetGen(gen int) {
	b.gen = gen
}

// Bounds returns the column range hint.
func (b *Board) Bounds() (int, int) {
	return b.minX, b.maxX
}

func (b *Board) setFullRange() {
	b.minX = 0
	b.maxX = N - 1
}

// Clear kills every cell and resets the generation counter.
func (b *Board) Clear() {
	*b = Board{}
}

// RecalculateMinMax rescans all columns for the range hint. The result is
// padded by two columns and snaps to the full board when it reaches an edge,
// since a pattern straddling the seam can't be described by one interval.
func (b *Board) RecalculateMinMax() {
	lo, hi := 0, N-1
	for i := 0; i < N; i++ {
		if b.state[i] != 0 {
			lo = i
			break
		}
	}
	for i := N - 1; i >= 0; i-- {
		if b.state[i] != 0 {
			hi = i
			break
		}
	}
	b.minX, b.maxX = expandRange(lo, hi)
}

func expandRange(lo, hi int) (int, int) {
	lo -= 2
	hi += 2
	if lo <= 0 || hi >= N-1 {
		return 0, N - 1
	}
	return lo, hi
}

// Combine merges other into b. Or widens the range hint to cover both
// operands; And and Xor always rescan it.
func (b *Board) Combine(other *Board, op CombineOp) {
	switch op {
	case Copy:
		*b = *other
		return
	case Or:
		for i := 0; i < N; i++ {
			b.state[i] |= other.state[i]
		}
		b.minX = min(b.minX, other.minX)
		b.maxX = max(b.maxX, other.maxX)
		return
	case And:
		for i := 0; i < N; i++ {
			b.state[i] &= other.state[i]
		}
	case Xor:
		for i := 0; i < N; i++ {
			b.state[i] ^= other.state[i]
		}
	default:
		panic(fmt.Sprintf("unknown combine op %v", op))
	}
	b.RecalculateMinMax()
}

// Join ORs other into b.
func (b *Board) Join(other *Board) {
	b.Combine(other, Or)
}

func (b *Board) And(other *Board) {
	b.Combine(other, And)
}

func (b *Board) Xor(other *Board) {
	b.Combine(other, Xor)
}

// AndNot removes every cell of other from b.
func (b *Board) AndNot(other *Board) {
	for i := 0; i < N; i++ {
		b.state[i] &^= other.state[i]
	}
	b.RecalculateMinMax()
}

// Invert complements every cell.
func (b *Board) Invert() {
	for i := 0; i < N; i++ {
		b.state[i] = ^b.state[i]
	}
	b.setFullRange()
}

// Inverted returns the complement of b.
func (b Board) Inverted() Board {
	b.Invert()
	return b
}

// Union returns b | other without touching either operand.
func (b Board) Union(other *Board) Board {
	b.Join(other)
	return b
}

// Intersection returns b & other.
func (b Board) Intersection(other *Board) Board {
	b.And(other)
	return b
}

// Minus returns b &^ other.
func (b Board) Minus(other *Board) Board {
	b.AndNot(other)
	return b
}

// Equal compares cells only; range hints and generation are ignored.
func (b *Board) Equal(other *Board) bool {
	return b.state == other.state
}

// Pop counts live cells in the hinted column range.
func (b *Board) Pop() int {
	pop := 0
	for i := b.minX; i <= b.maxX; i++ {
		pop += bits.OnesCount64(b.state[i])
	}
	return pop
}

func (b *Board) IsEmpty() bool {
	var acc uint64
	for i := 0; i < N; i++ {
		acc |= b.state[i]
	}
	return acc == 0
}

// FirstOn returns the live cell with the lowest x, then lowest y.
func (b *Board) FirstOn() (int, int, bool) {
	for i := 0; i < N; i++ {
		if b.state[i] != 0 {
			return i, bits.TrailingZeros64(b.state[i]), true
		}
	}
	return 0, 0, false
}

// Cells lists the live cells, column by column.
func (b *Board) Cells() [][2]int {
	var cells [][2]int
	for i := 0; i < N; i++ {
		col := b.state[i]
		for col != 0 {
			j := bits.TrailingZeros64(col)
			cells = append(cells, [2]int{i, j})
			col &= col - 1
		}
	}
	return cells
}

// Hash is an xxhash of the cell contents.
func (b *Board) Hash() uint64 {
	var buf [N * 8]byte
	for i := 0; i < N; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], b.state[i])
	}
	return xxhash.Sum64(buf[:])
}

// BoundingBox returns the smallest non-wrapping rectangle holding every live
// cell, as inclusive corners.
func (b *Board) BoundingBox() (x0, y0, x1, y1 int, ok bool) {
	var rows uint64
	x0, x1 = -1, -1
	for i := 0; i < N; i++ {
		if b.state[i] == 0 {
			continue
		}
		if x0 == -1 {
			x0 = i
		}
		x1 = i
		rows |= b.state[i]
	}
	if rows == 0 {
		return 0, 0, 0, 0, false
	}
	y0 = bits.TrailingZeros64(rows)
	y1 = N - 1 - bits.LeadingZeros64(rows)
	return x0, y0, x1, y1, true
}
