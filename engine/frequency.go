package engine

// Frequency counts how many keys currently resolve to each value. It follows
// the effective state, uncommitted writes included.
type Frequency map[string]int

func (f Frequency) Count(value string) int {
	n := f[value]
	if n < 0 {
		return 0
	}
	return n
}

func (f Frequency) inc(value string) {
	f[value]++
}

func (f Frequency) dec(value string) {
	f.add(value, -1)
}

// add applies a signed delta and drops the entry when it reaches zero.
func (f Frequency) add(value string, delta int) {
	n := f[value] + delta
	if n == 0 {
		delete(f, value)
		return
	}
	f[value] = n
}
