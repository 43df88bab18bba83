package sandbox

// SeededRng is a mulberry32 generator. Equal seeds yield equal sequences.
// It is not safe for concurrent use.
type SeededRng struct {
	state uint32
}

func NewSeededRng(seed int64) *SeededRng {
	return &SeededRng{state: uint32(seed)}
}

// Next returns a value in [0, 1).
func (r *SeededRng) Next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// NextInt returns an integer in [minInclusive, maxInclusive].
func (r *SeededRng) NextInt(minInclusive, maxInclusive int) int {
	span := maxInclusive - minInclusive + 1
	return int(r.Next()*float64(span)) + minInclusive
}

func (r *SeededRng) Chance(probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return r.Next() < probability
}

// ShuffleDeterministic returns a Fisher-Yates shuffled copy driven by rng.
func ShuffleDeterministic[T any](items []T, rng *SeededRng) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.NextInt(0, i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
