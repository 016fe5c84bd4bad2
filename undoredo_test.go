package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUndoRedo(t *testing.T) {
	rt := New(WithSyncScheduler())
	u := NewUndoRedo(rt, "a", 3)

	assert.Equal(t, "a", u.Read())
	assert.False(t, u.CanUndo())
	assert.False(t, u.CanRedo())

	u.Set("b")
	u.Set("c")
	assert.Equal(t, "c", u.Read())
	assert.True(t, u.CanUndo())

	u.Undo()
	assert.Equal(t, "b", u.Read())
	assert.True(t, u.CanRedo())

	u.Redo()
	assert.Equal(t, "c", u.Read())
	assert.False(t, u.CanRedo())

	u.Undo()
	u.Set("d") // writing mid-history drops the redo suffix ("c")
	assert.Equal(t, "d", u.Read())
	assert.False(t, u.CanRedo())

	u.Undo()
	u.Undo()
	assert.Equal(t, "a", u.Read())
	assert.False(t, u.CanUndo())

	// a 4th distinct entry now evicts the oldest ("a") under the limit of 3
	u.Redo()
	u.Redo()
	u.Set("e")
	assert.Equal(t, []string{"b", "d", "e"}, u.history)
}
