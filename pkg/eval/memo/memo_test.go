package memo

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.tarn.sh/pkg/eval/vals"
)

type testID struct {
	name string
	hash uint64
}

func (id testID) Hash64() uint64 { return id.hash }

var (
	f = testID{"f", 1}
	g = testID{"g", 2}
	// Same hash as f, to exercise buckets with more than one entry.
	fTwin = testID{"f'", 1}
)

func TestCache(t *testing.T) {
	c := New[testID]()

	if _, ok := c.Get(f, []any{int64(1)}); ok {
		t.Errorf("Get on empty cache -> found")
	}

	c.Put(f, []any{int64(1)}, "f1")
	c.Put(f, []any{int64(2)}, "f2")
	c.Put(g, []any{int64(1)}, "g1")
	c.Put(fTwin, []any{int64(1)}, "f'1")
	c.Put(f, []any{vals.Pair{First: int64(1), Second: "a"}}, "fpair")
	c.Put(f, nil, "f()")

	tests := []struct {
		id   testID
		args []any
		want any
		ok   bool
	}{
		{f, []any{int64(1)}, "f1", true},
		{f, []any{int64(2)}, "f2", true},
		{g, []any{int64(1)}, "g1", true},
		{fTwin, []any{int64(1)}, "f'1", true},
		{f, []any{vals.Pair{First: int64(1), Second: "a"}}, "fpair", true},
		{f, []any{}, "f()", true},
		{f, []any{"1"}, nil, false},
		{f, []any{int64(1), int64(1)}, nil, false},
		{g, []any{int64(2)}, nil, false},
	}
	for _, test := range tests {
		v, ok := c.Get(test.id, test.args)
		if v != test.want || ok != test.ok {
			t.Errorf("Get(%v, %v) -> (%v, %v), want (%v, %v)",
				test.id.name, test.args, v, ok, test.want, test.ok)
		}
	}

	if c.Len() != 6 {
		t.Errorf("Len() -> %d, want 6", c.Len())
	}
	if diff := cmp.Diff(Stats{Hits: 6, Misses: 4, Entries: 6}, c.Stats()); diff != "" {
		t.Errorf("Stats() (-want +got):\n%s", diff)
	}
}

func TestCache_PutReplaces(t *testing.T) {
	c := New[testID]()
	c.Put(f, []any{int64(1)}, "old")
	c.Put(f, []any{int64(1)}, "new")
	if v, _ := c.Get(f, []any{int64(1)}); v != "new" {
		t.Errorf("Get -> %v, want new", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() -> %d, want 1", c.Len())
	}
}

func TestCache_PutCopiesArgs(t *testing.T) {
	c := New[testID]()
	args := []any{int64(1)}
	c.Put(f, args, "f1")
	args[0] = int64(2)
	if _, ok := c.Get(f, []any{int64(1)}); !ok {
		t.Errorf("mutating the args slice after Put affects the cache")
	}
}
