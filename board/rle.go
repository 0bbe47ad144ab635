package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadRLEToken = errors.New("unrecognized rle token")

// ContinuationRows is the row count that, written as "129$", marks the end of
// one part of a multi-part pattern string rather than a real row advance.
const ContinuationRows = 129

// maxRunLength bounds a single run count. Anything longer wraps the torus
// many times over and is treated as malformed.
const maxRunLength = 1 << 16

// ParseRLE parses a run-length encoded pattern with its top-left corner at
// the origin. Header lines ("#..." comments, "x = ..." size lines) are
// skipped.
func ParseRLE(rle string) (Board, error) {
	b, _, err := ParseRLEFrom(stripRLEHeader(rle), 0)
	return b, err
}

// ParseRLEAt parses rle and moves it by (dx, dy).
func ParseRLEAt(rle string, dx, dy int) (Board, error) {
	b, err := ParseRLE(rle)
	if err != nil {
		return b, err
	}
	b.Move(dx, dy)
	b.RecalculateMinMax()
	return b, nil
}

// ParseRLETransformed parses rle and applies Transform(dx, dy, a, bb, c, d).
func ParseRLETransformed(rle string, dx, dy, a, bb, c, d int) (Board, error) {
	b, err := ParseRLE(rle)
	if err != nil {
		return b, err
	}
	b.Transform(dx, dy, a, bb, c, d)
	return b, nil
}

// ParseRLEFrom parses starting at offset start. It returns the offset just
// past a "129$" continuation marker, or -1 once the pattern is complete
// (terminator or end of input).
func ParseRLEFrom(rle string, start int) (Board, int, error) {
	var b Board
	x, y, cnt := 0, 0, 0

	for i := start; i < len(rle); i++ {
		ch := rle[i]
		switch {
		case ch >= '0' && ch <= '9':
			cnt = cnt*10 + int(ch-'0')
			if cnt > maxRunLength {
				return Board{}, i, fmt.Errorf("%w: run length over %d at offset %d", ErrBadRLEToken, maxRunLength, i)
			}
		case ch == 'o':
			if cnt == 0 {
				cnt = 1
			}
			for j := 0; j < min(cnt, N); j++ {
				b.Set(x+j, y)
			}
			x += cnt
			cnt = 0
		case ch == 'b':
			if cnt == 0 {
				cnt = 1
			}
			x += cnt
			cnt = 0
		case ch == '$':
			if cnt == 0 {
				cnt = 1
			}
			if cnt == ContinuationRows {
				b.RecalculateMinMax()
				return b, i + 1, nil
			}
			y += cnt
			x = 0
			cnt = 0
		case ch == '!':
			b.RecalculateMinMax()
			return b, -1, nil
		case ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t':
		default:
			return Board{}, i, fmt.Errorf("%w %q at offset %d", ErrBadRLEToken, ch, i)
		}
	}
	b.RecalculateMinMax()
	return b, -1, nil
}

func stripRLEHeader(rle string) string {
	if !strings.ContainsAny(rle, "\n#") {
		return rle
	}
	var kept []string
	for _, line := range strings.Split(rle, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "#") || strings.HasPrefix(t, "x ") || strings.HasPrefix(t, "x=") {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, "")
}

func writeRun(sb *strings.Builder, n int, c byte) {
	if n > 1 {
		sb.WriteString(strconv.Itoa(n))
	}
	sb.WriteByte(c)
}

// ToRLE encodes the live cells relative to the top-left corner of their
// bounding box.
func (b *Board) ToRLE() string {
	x0, y0, x1, y1, ok := b.BoundingBox()
	if !ok {
		return "!"
	}

	var sb strings.Builder
	prevY := -1
	for y := y0; y <= y1; y++ {
		last := -1
		for x := x0; x <= x1; x++ {
			if b.Get(x, y) {
				last = x
			}
		}
		if last < 0 {
			continue
		}
		if prevY >= 0 {
			writeRun(&sb, y-prevY, '$')
		}
		prevY = y

		run := 0
		var cur byte
		for x := x0; x <= last; x++ {
			c := byte('b')
			if b.Get(x, y) {
				c = 'o'
			}
			if run > 0 && c != cur {
				writeRun(&sb, run, cur)
				run = 0
			}
			cur = c
			run++
		}
		writeRun(&sb, run, cur)
	}
	sb.WriteByte('!')
	return sb.String()
}
