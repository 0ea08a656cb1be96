package engine

// frame is the local state of one open transaction.
type frame struct {
	writes map[string]Value // latest write per key
	delta  map[string]int   // net frequency change caused by this frame
}

func newFrame() *frame {
	return &frame{
		writes: map[string]Value{},
		delta:  map[string]int{},
	}
}

func (f *frame) track(value string, n int) {
	d := f.delta[value] + n
	if d == 0 {
		delete(f.delta, value)
		return
	}
	f.delta[value] = d
}
