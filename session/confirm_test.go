package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteStateTransitions(t *testing.T) {
	t.Parallel()

	s := Idle()
	assert.True(t, s.IsIdle())
	assert.Equal(t, "Idle", s.String())

	_, next, ok := s.Confirm()
	assert.False(t, ok)
	assert.True(t, next.IsIdle())

	s = s.Request("a")
	id, pending := s.Pending()
	assert.True(t, pending)
	assert.Equal(t, "a", id)
	assert.Equal(t, "PendingDelete(a)", s.String())

	assert.True(t, s.Cancel().IsIdle())

	s = s.Request("b")
	id, _ = s.Pending()
	assert.Equal(t, "b", id)

	id, next, ok = s.Confirm()
	assert.True(t, ok)
	assert.Equal(t, "b", id)
	assert.Equal(t, Idle(), next)
}

func TestDeleteStateZeroValueIsIdle(t *testing.T) {
	t.Parallel()

	var s DeleteState
	assert.Equal(t, Idle(), s)
	assert.Equal(t, PendingDelete("x"), Idle().Request("x"))
}
