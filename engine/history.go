package engine

// History keeps, per key, the values written by the open frames. The top of a
// key's stack is its effective value; there is at most one entry per frame.
type History map[string][]Value

func (h History) top(key string) (Value, bool) {
	states, exists := h[key]
	if !exists || len(states) == 0 {
		return Absent, false
	}
	return states[len(states)-1], true
}

func (h History) push(key string, value Value) {
	h[key] = append(h[key], value)
}

// replace overwrites the top entry, used on repeated writes within one frame.
func (h History) replace(key string, value Value) {
	states := h[key]
	if len(states) == 0 {
		h[key] = []Value{value}
		return
	}
	states[len(states)-1] = value
}

// pop removes the top entry and forgets the key once its stack is empty.
func (h History) pop(key string) {
	states, exists := h[key]
	if !exists {
		return
	}
	states = states[:len(states)-1]
	if len(states) == 0 {
		delete(h, key)
		return
	}
	h[key] = states
}
