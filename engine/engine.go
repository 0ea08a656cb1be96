// Package engine implements an in-memory key/value store with nested
// transactions.
//
// Reads are O(1) regardless of nesting depth: every transactional write is
// recorded in a per-key history stack whose top is the effective value. The
// frequency index follows the effective state, so NUMEQUALTO is also O(1)
// while transactions are open. Rollback undoes only the innermost frame,
// Commit flattens every open frame at once.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"errors"
)

var ErrNoTransaction = errors.New("no transaction")
var ErrEmptyKey = errors.New("key must not be empty")

type Engine struct {
	committed map[string]string
	frequency Frequency
	frames    []*frame
	history   History
}

type Stats struct {
	Keys        int `json:"keys"`
	Depth       int `json:"depth"`
	HistoryKeys int `json:"history_keys"`
	Values      int `json:"values"`
}

func New() *Engine {
	return &Engine{
		committed: map[string]string{},
		frequency: Frequency{},
	}
}

func (e *Engine) InTransaction() bool {
	return len(e.frames) > 0
}

// Depth returns the number of open transactions.
func (e *Engine) Depth() int {
	return len(e.frames)
}

func (e *Engine) effective(key string) Value {
	if e.InTransaction() {
		if value, exists := e.history.top(key); exists {
			return value
		}
	}
	data, exists := e.committed[key]
	if !exists {
		return Absent
	}
	return Some(data)
}

func (e *Engine) Get(key string) (string, bool) {
	value := e.effective(key)
	return value.Data, value.Valid
}

func (e *Engine) Set(key, value string) error {
	return e.write(key, Some(value))
}

func (e *Engine) Unset(key string) error {
	return e.write(key, Absent)
}

func (e *Engine) write(key string, value Value) error {

	if key == "" {
		return ErrEmptyKey
	}

	prev := e.effective(key)

	var top *frame
	var local Value
	var inScope bool
	if e.InTransaction() {
		top = e.frames[len(e.frames)-1]
		local, inScope = top.writes[key]
	} else {
		var data string
		data, inScope = e.committed[key]
		if inScope {
			local = Some(data)
		}
	}

	if inScope && local == value {
		return nil
	}
	if !inScope && !value.Valid && !prev.Valid {
		return nil
	}

	if value.Valid {
		e.frequency.inc(value.Data)
		if top != nil {
			top.track(value.Data, 1)
		}
	}

	old := prev
	if inScope {
		old = local
	}
	if old.Valid {
		e.frequency.dec(old.Data)
		if top != nil {
			top.track(old.Data, -1)
		}
	}

	if top == nil {
		if value.Valid {
			e.committed[key] = value.Data
		} else {
			delete(e.committed, key)
		}
		return nil
	}

	top.writes[key] = value
	if inScope {
		e.history.replace(key, value)
	} else {
		e.history.push(key, value)
	}

	return nil
}

func (e *Engine) NumEqualTo(value string) int {
	return e.frequency.Count(value)
}

func (e *Engine) Begin() {
	if e.history == nil {
		e.history = History{}
	}
	e.frames = append(e.frames, newFrame())
}

// Rollback discards the innermost open transaction.
func (e *Engine) Rollback() error {

	if !e.InTransaction() {
		return ErrNoTransaction
	}

	last := len(e.frames) - 1
	top := e.frames[last]
	e.frames[last] = nil
	e.frames = e.frames[:last]

	for key := range top.writes {
		e.history.pop(key)
	}

	for value, delta := range top.delta {
		e.frequency.add(value, -delta)
	}

	if len(e.frames) == 0 {
		e.frames = nil
		e.history = nil
	}

	return nil
}

// Commit applies every open transaction to the committed store.
func (e *Engine) Commit() error {

	if !e.InTransaction() {
		return ErrNoTransaction
	}

	for key, states := range e.history {
		value := states[len(states)-1]
		if value.Valid {
			e.committed[key] = value.Data
		} else {
			delete(e.committed, key)
		}
	}

	e.frames = nil
	e.history = nil

	return nil
}

// End finalizes the open transactions of a terminating session, either
// committing them or rolling all of them back. It returns how many frames were
// open.
func (e *Engine) End(commit bool) (int, error) {

	n := e.Depth()
	if n == 0 {
		return 0, nil
	}

	if commit {
		return n, e.Commit()
	}

	for e.InTransaction() {
		if err := e.Rollback(); err != nil {
			return n, err
		}
	}

	return n, nil
}

func (e *Engine) Stats() Stats {
	return Stats{
		Keys:        len(e.committed),
		Depth:       len(e.frames),
		HistoryKeys: len(e.history),
		Values:      len(e.frequency),
	}
}
