package id

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	var ids []string
	for i := 0; i < 1000; i++ {
		s := New()
		require.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
		ids = append(ids, s)
	}

	assert.True(t, sort.StringsAreSorted(ids))
}

func TestTimeOfNew(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	got, ok := Time(New())
	require.True(t, ok)
	assert.True(t, got.After(before))

	_, ok = Time("")
	assert.False(t, ok)
	_, ok = Time("not-an-id")
	assert.False(t, ok)
}

func TestAtEncodesTime(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	got, ok := Time(at(when))
	require.True(t, ok)
	assert.True(t, got.Equal(when))

	_, ok = Time("bogus")
	assert.False(t, ok)
}
