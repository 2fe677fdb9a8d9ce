package game

// Deterministic, portable bit generators. The exact algorithms and seeding
// are a compatibility requirement: hashes and stochastic rule streams must be
// reproducible across platforms and match states saved by other runtimes.

const (
	split64S1 = 30
	split64S2 = 27
	split64S3 = 31
	split64C1 = 0x9E3779B97F4A7C15
	split64C2 = 0xBF58476D1CE4E5B9
	split64C3 = 0x94D049BB133111EB
)

// splitmix64 mixes a seed into a well-distributed 64-bit value. Used both to
// seed the xorshift stream and as the per-(position,kind) hash function.
func splitmix64(seed uint64) uint64 {
	result := seed + split64C1
	result = (result ^ (result >> split64S1)) * split64C2
	result = (result ^ (result >> split64S2)) * split64C3
	return result ^ (result >> split64S3)
}

// xorshift64 advances the RNG state word and returns the new value.
func xorshift64(s *uint64) uint64 {
	x := *s
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*s = x
	return x
}

// localHash is the cell fingerprint XOR-ed in and out of the running state
// hash on every mutation. flatSize*kind+offset is unique per (position, kind)
// on a fixed board.
func localHash(flatSize int, kind HiddenCellType, offset int) uint64 {
	return splitmix64(uint64(flatSize*int(kind) + offset))
}
