package engine

import (
	"math/rand"
	"testing"

	"github.com/fulldump/biff"
)

func get(e *Engine, key string) string {
	value, found := e.Get(key)
	if !found {
		return "NULL"
	}
	return value
}

// effectiveCounts recomputes the frequency index from scratch.
func effectiveCounts(e *Engine) map[string]int {
	keys := map[string]bool{}
	for key := range e.committed {
		keys[key] = true
	}
	for key := range e.history {
		keys[key] = true
	}

	counts := map[string]int{}
	for key := range keys {
		if value, found := e.Get(key); found {
			counts[value]++
		}
	}
	return counts
}

func assertConsistent(t *testing.T, e *Engine) {
	t.Helper()

	expected := effectiveCounts(e)
	for value, count := range expected {
		if got := e.NumEqualTo(value); got != count {
			t.Fatalf("NumEqualTo(%q) = %d, expected %d", value, got, count)
		}
	}
	for value, count := range e.frequency {
		if expected[value] != count {
			t.Fatalf("frequency[%q] = %d, expected %d", value, count, expected[value])
		}
	}
	if !e.InTransaction() && e.history != nil {
		t.Fatalf("history must be discarded outside transactions")
	}
}

func TestEngine(t *testing.T) {

	biff.Alternative("New engine", func(a *biff.A) {

		e := New()

		biff.AssertEqual(get(e, "a"), "NULL")
		biff.AssertEqual(e.NumEqualTo("10"), 0)
		biff.AssertFalse(e.InTransaction())

		a.Alternative("Rollback with nothing open", func(a *biff.A) {
			err := e.Rollback()
			biff.AssertEqual(err, ErrNoTransaction)
			biff.AssertEqual(e.Stats(), Stats{})
		})

		a.Alternative("Commit with nothing open", func(a *biff.A) {
			e.Set("a", "1")
			err := e.Commit()
			biff.AssertEqual(err, ErrNoTransaction)
			biff.AssertEqual(get(e, "a"), "1")
		})

		a.Alternative("Empty key", func(a *biff.A) {
			biff.AssertEqual(e.Set("", "1"), ErrEmptyKey)
			biff.AssertEqual(e.Unset(""), ErrEmptyKey)
			biff.AssertEqual(e.NumEqualTo("1"), 0)
		})

		a.Alternative("Unset missing key", func(a *biff.A) {
			biff.AssertNil(e.Unset("a"))
			biff.AssertEqual(get(e, "a"), "NULL")
			biff.AssertEqual(e.Stats().Keys, 0)
		})

		a.Alternative("Set and unset", func(a *biff.A) {
			e.Set("a", "5")
			biff.AssertEqual(e.NumEqualTo("5"), 1)

			e.Unset("a")
			biff.AssertEqual(get(e, "a"), "NULL")
			biff.AssertEqual(e.NumEqualTo("5"), 0)
			biff.AssertEqual(len(e.frequency), 0)
		})

		a.Alternative("Idempotent write", func(a *biff.A) {
			e.Set("a", "1")
			e.Set("a", "1")
			biff.AssertEqual(e.NumEqualTo("1"), 1)
		})

		a.Alternative("Overwrite", func(a *biff.A) {
			e.Set("a", "1")
			e.Set("a", "2")
			biff.AssertEqual(e.NumEqualTo("1"), 0)
			biff.AssertEqual(e.NumEqualTo("2"), 1)
		})

		a.Alternative("Two keys with value 10", func(a *biff.A) {
			e.Set("a", "10")
			e.Set("b", "10")
			biff.AssertEqual(e.NumEqualTo("10"), 2)

			a.Alternative("Begin and overwrite a", func(a *biff.A) {
				e.Begin()
				e.Set("a", "30")
				biff.AssertEqual(e.NumEqualTo("10"), 1)
				biff.AssertEqual(e.NumEqualTo("30"), 1)

				a.Alternative("Rollback", func(a *biff.A) {
					biff.AssertNil(e.Rollback())
					biff.AssertEqual(get(e, "a"), "10")
					biff.AssertEqual(e.NumEqualTo("10"), 2)
					biff.AssertEqual(e.NumEqualTo("30"), 0)
				})

				a.Alternative("Commit", func(a *biff.A) {
					biff.AssertNil(e.Commit())
					biff.AssertEqual(get(e, "a"), "30")
					biff.AssertEqual(e.committed["a"], "30")
					biff.AssertEqual(e.NumEqualTo("10"), 1)
				})
			})

			a.Alternative("Begin and unset b", func(a *biff.A) {
				e.Begin()
				e.Unset("b")
				biff.AssertEqual(get(e, "b"), "NULL")
				biff.AssertEqual(e.NumEqualTo("10"), 1)

				a.Alternative("Unset again is a no-op", func(a *biff.A) {
					e.Unset("b")
					biff.AssertEqual(e.NumEqualTo("10"), 1)
				})

				a.Alternative("Rollback", func(a *biff.A) {
					e.Rollback()
					biff.AssertEqual(get(e, "b"), "10")
					biff.AssertEqual(e.NumEqualTo("10"), 2)
				})

				a.Alternative("Commit", func(a *biff.A) {
					e.Commit()
					_, exists := e.committed["b"]
					biff.AssertFalse(exists)
					biff.AssertEqual(e.NumEqualTo("10"), 1)
				})
			})
		})

		a.Alternative("Nested rollback only affects top frame", func(a *biff.A) {
			e.Set("a", "1")
			e.Begin()
			e.Set("a", "2")
			e.Begin()
			e.Set("a", "3")

			biff.AssertNil(e.Rollback())
			biff.AssertEqual(get(e, "a"), "2")
			biff.AssertEqual(e.Depth(), 1)

			biff.AssertNil(e.Rollback())
			biff.AssertEqual(get(e, "a"), "1")
			biff.AssertEqual(e.NumEqualTo("1"), 1)
			biff.AssertEqual(e.NumEqualTo("2"), 0)
			biff.AssertEqual(e.NumEqualTo("3"), 0)
		})

		a.Alternative("Repeated write within one frame", func(a *biff.A) {
			e.Set("a", "1")
			e.Begin()
			e.Set("a", "2")
			e.Set("a", "3")
			biff.AssertEqual(len(e.history["a"]), 1)

			e.Rollback()
			biff.AssertEqual(get(e, "a"), "1")
			biff.AssertEqual(e.history == nil, true)
			biff.AssertEqual(e.NumEqualTo("1"), 1)
			biff.AssertEqual(e.NumEqualTo("3"), 0)
		})

		a.Alternative("Repeated write within a nested frame", func(a *biff.A) {
			e.Begin()
			e.Set("a", "1")
			e.Begin()
			e.Set("a", "2")
			e.Unset("a")
			e.Set("a", "3")

			e.Rollback()
			biff.AssertEqual(get(e, "a"), "1")
			biff.AssertEqual(len(e.history["a"]), 1)

			e.Rollback()
			biff.AssertEqual(get(e, "a"), "NULL")
		})

		a.Alternative("Commit flattens every frame", func(a *biff.A) {
			e.Begin()
			e.Begin()
			e.Set("k", "v")
			biff.AssertNil(e.Commit())
			biff.AssertEqual(get(e, "k"), "v")
			biff.AssertFalse(e.InTransaction())
			biff.AssertEqual(e.Rollback(), ErrNoTransaction)
		})

		a.Alternative("Commit keeps writes of inner frames", func(a *biff.A) {
			e.Begin()
			e.Set("a", "30")
			e.Begin()
			e.Set("a", "40")
			e.Commit()
			biff.AssertEqual(get(e, "a"), "40")
			biff.AssertEqual(e.NumEqualTo("30"), 0)
			biff.AssertEqual(e.NumEqualTo("40"), 1)
		})

		a.Alternative("End without commit abandons", func(a *biff.A) {
			e.Set("a", "1")
			e.Begin()
			e.Set("a", "2")
			e.Begin()
			e.Set("b", "2")

			n, err := e.End(false)
			biff.AssertNil(err)
			biff.AssertEqual(n, 2)
			biff.AssertEqual(get(e, "a"), "1")
			biff.AssertEqual(get(e, "b"), "NULL")
			biff.AssertEqual(e.NumEqualTo("2"), 0)
		})

		a.Alternative("End with commit", func(a *biff.A) {
			e.Begin()
			e.Set("a", "2")

			n, err := e.End(true)
			biff.AssertNil(err)
			biff.AssertEqual(n, 1)
			biff.AssertEqual(get(e, "a"), "2")
			biff.AssertFalse(e.InTransaction())
		})

		a.Alternative("End with nothing open", func(a *biff.A) {
			n, err := e.End(true)
			biff.AssertNil(err)
			biff.AssertEqual(n, 0)
		})
	})
}

func TestEngine_CommittedStoreUntouchedByTransactions(t *testing.T) {

	e := New()
	e.Set("a", "1")

	e.Begin()
	e.Set("a", "2")
	e.Set("b", "3")
	e.Unset("a")

	if len(e.committed) != 1 || e.committed["a"] != "1" {
		t.Fatalf("committed store modified: %v", e.committed)
	}

	e.Rollback()

	if len(e.committed) != 1 || e.committed["a"] != "1" {
		t.Fatalf("committed store modified by rollback: %v", e.committed)
	}
}

func TestEngine_Stats(t *testing.T) {

	e := New()
	e.Set("a", "1")
	e.Set("b", "1")
	e.Begin()
	e.Set("c", "2")

	got := e.Stats()
	expected := Stats{Keys: 2, Depth: 1, HistoryKeys: 1, Values: 2}
	if got != expected {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestEngine_RandomSequencesKeepFrequencyConsistent(t *testing.T) {

	keys := []string{"a", "b", "c", "d"}
	values := []string{"1", "2", "3"}

	for seed := int64(0); seed < 20; seed++ {
		r := rand.New(rand.NewSource(seed))
		e := New()

		for i := 0; i < 500; i++ {
			switch op := r.Intn(10); {
			case op < 4:
				e.Set(keys[r.Intn(len(keys))], values[r.Intn(len(values))])
			case op < 6:
				e.Unset(keys[r.Intn(len(keys))])
			case op < 8:
				e.Begin()
			case op < 9:
				e.Rollback()
			default:
				e.Commit()
			}
			assertConsistent(t, e)
		}
	}
}

func TestEngine_RollbackRestoresEveryRead(t *testing.T) {

	keys := []string{"a", "b", "c"}
	values := []string{"x", "y"}
	r := rand.New(rand.NewSource(42))

	e := New()
	for _, key := range keys {
		e.Set(key, values[r.Intn(len(values))])
	}

	for round := 0; round < 50; round++ {
		before := map[string]string{}
		for _, key := range keys {
			before[key] = get(e, key)
		}

		e.Begin()
		for i := 0; i < 10; i++ {
			if r.Intn(3) == 0 {
				e.Unset(keys[r.Intn(len(keys))])
			} else {
				e.Set(keys[r.Intn(len(keys))], values[r.Intn(len(values))])
			}
		}
		e.Rollback()

		for _, key := range keys {
			if got := get(e, key); got != before[key] {
				t.Fatalf("round %d: key %q = %q after rollback, expected %q", round, key, got, before[key])
			}
		}
		assertConsistent(t, e)
	}
}
