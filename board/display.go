package board

import (
	"encoding/binary"
	"strings"

	"lukechampine.com/frand"
)

// ToDisplayText renders the whole torus, one text row per y. Dead cells on
// every tenth row or column are drawn as axis markers.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.Grow(N * (N + 1))
	for y := 0; y < N; y++ {
		for x := 0; x < N; x++ {
			if b.Get(x, y) {
				sb.WriteByte('O')
				continue
			}
			hor := y%10 == 0
			ver := x%10 == 0
			switch {
			case hor && ver:
				sb.WriteByte('+')
			case hor:
				sb.WriteByte('-')
			case ver:
				sb.WriteByte('|')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) String() string {
	return b.ToRLE()
}

// RandomFill replaces every cell with a coin flip from rng.
func (b *Board) RandomFill(rng *frand.RNG) {
	var buf [N * 8]byte
	rng.Read(buf[:])
	for i := 0; i < N; i++ {
		b.state[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	b.RecalculateMinMax()
}
