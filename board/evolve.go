package board

// Neighbour counts are accumulated as bit planes: for every row of a column
// (lo) holds the count's low bit, (hi) the next one, and so on. The helpers
// below are ripple adders over those planes.

// accumulateInit adds val to a one-plane counter, producing a fresh carry
// plane.
func accumulateInit(lo, val uint64) (hi, sum uint64) {
	return lo & val, lo ^ val
}

// accumulate adds val to a two-plane counter whose high plane saturates.
func accumulate(hi, lo, val uint64) (uint64, uint64) {
	return hi | lo&val, lo ^ val
}

// accumulate3 adds val to a three-plane counter whose top plane saturates.
func accumulate3(b2, b1, b0, val uint64) (uint64, uint64, uint64) {
	carry := b0 & val
	return b2 | carry&b1, b1 ^ carry, b0 ^ val
}

// columnSums returns, for every row, the two-bit sum of a column's cell and
// its vertical neighbours.
func columnSums(col uint64) (xor, and uint64) {
	up, down := rotl(col, 1), rotr(col, 1)
	return up ^ down ^ col, (up|down)&col | up&down
}

// evolveColumn computes the next state of one column from the column itself
// and the (xor, and) sums of the columns on each side. The count saturates at
// four, which the rule never needs to tell apart from larger counts.
func evolveColumn(cur, leftXor, leftAnd, rightXor, rightAnd uint64) uint64 {
	sum1, sum0 := accumulateInit(rotl(cur, 1), rotr(cur, 1))

	sum1, sum0 = accumulate(sum1, sum0, leftXor)
	sum2, sum1 := accumulateInit(sum1, leftAnd)
	sum2, sum1, sum0 = accumulate3(sum2, sum1, sum0, rightXor)
	sum2, sum1 = accumulate(sum2, sum1, rightAnd)

	return ^sum2 & sum1 & (cur | sum0)
}

// Step advances the board one generation.
func (b *Board) Step() {
	var xors, ands, next [N]uint64

	for i := 0; i < N; i++ {
		xors[i], ands[i] = columnSums(b.state[i])
	}
	for i := 0; i < N; i++ {
		l := (i + N - 1) % N
		r := (i + 1) % N
		next[i] = evolveColumn(b.state[i], xors[l], ands[l], xors[r], ands[r])
	}

	b.state = next
	b.setFullRange()
	b.gen++
}

// Evolve runs Step gens times.
func (b *Board) Evolve(gens int) {
	for i := 0; i < gens; i++ {
		b.Step()
	}
}

// Evolved returns a copy of b advanced gens generations.
func (b Board) Evolved(gens int) Board {
	b.Evolve(gens)
	return b
}
