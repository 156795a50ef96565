package weekcache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string
	Value int
}

func newStore() *Store[item] {
	return New(func(i item) string { return i.ID })
}

func TestKeyFor(t *testing.T) {
	employee := uuid.New()

	tests := []struct {
		name string
		at   time.Time
		want Key
	}{
		{
			name: "monday",
			at:   time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			want: Key{EmployeeID: employee, Start: "2025-06-02", End: "2025-06-08"},
		},
		{
			name: "sunday late evening",
			at:   time.Date(2025, 6, 8, 23, 45, 0, 0, time.UTC),
			want: Key{EmployeeID: employee, Start: "2025-06-02", End: "2025-06-08"},
		},
		{
			name: "week across year boundary",
			at:   time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			want: Key{EmployeeID: employee, Start: "2025-12-29", End: "2026-01-04"},
		},
		{
			name: "offset is normalized to utc",
			at:   time.Date(2025, 6, 9, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)),
			want: Key{EmployeeID: employee, Start: "2025-06-02", End: "2025-06-08"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFor(employee, tt.at))
		})
	}
}

func TestStore_PutGet(t *testing.T) {
	s := newStore()
	key := KeyFor(uuid.New(), time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))

	assert.False(t, s.Has(key))
	s.Put(key, []item{{ID: "a", Value: 1}, {ID: "b", Value: 2}, {ID: "a", Value: 3}})

	w, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, w.AllIDs)
	assert.Equal(t, 3, w.ByID["a"].Value)

	// копия не меняет кэш
	w.AllIDs[0] = "zzz"
	again, _ := s.Get(key)
	assert.Equal(t, "a", again.AllIDs[0])
}

func TestStore_Patch(t *testing.T) {
	s := newStore()
	key := KeyFor(uuid.New(), time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	s.Put(key, []item{{ID: "a", Value: 1}, {ID: "b", Value: 2}})

	require.True(t, s.Patch(key, OpAdd, "c", item{ID: "c", Value: 3}))
	w, _ := s.Get(key)
	assert.Equal(t, []string{"a", "b", "c"}, w.AllIDs)

	require.True(t, s.Patch(key, OpReplace, "a", item{ID: "a", Value: 10}))
	w, _ = s.Get(key)
	assert.Equal(t, 10, w.ByID["a"].Value)
	assert.Len(t, w.AllIDs, 3)

	require.True(t, s.Patch(key, OpRemove, "b", item{}))
	w, _ = s.Get(key)
	assert.Equal(t, []string{"a", "c"}, w.AllIDs)
	assert.NotContains(t, w.ByID, "b")

	require.True(t, s.Patch(key, OpRemove, "missing", item{}))
	w, _ = s.Get(key)
	assert.Len(t, w.AllIDs, 2)

	items, ok := s.Items(key)
	require.True(t, ok)
	assert.Equal(t, []item{{ID: "a", Value: 10}, {ID: "c", Value: 3}}, items)
}

func TestStore_PatchUnfetchedWindowIsNoop(t *testing.T) {
	s := newStore()
	key := KeyFor(uuid.New(), time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))

	assert.False(t, s.Patch(key, OpAdd, "a", item{ID: "a"}))
	assert.False(t, s.Has(key))
	assert.Equal(t, 0, s.Len())
}

func TestStore_InvalidateAndReset(t *testing.T) {
	s := newStore()
	employee := uuid.New()
	first := KeyFor(employee, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	second := KeyFor(employee, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	other := KeyFor(uuid.New(), time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	s.Put(first, nil)
	s.Put(second, nil)
	s.Put(other, nil)

	assert.ElementsMatch(t, []Key{first, second}, s.Keys(employee))

	s.Invalidate(first)
	assert.False(t, s.Has(first))
	assert.True(t, s.Has(second))

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "add", OpAdd.String())
	assert.Equal(t, "replace", OpReplace.String())
	assert.Equal(t, "remove", OpRemove.String())
	assert.Equal(t, "unknown", Op(42).String())
}
