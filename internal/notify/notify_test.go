package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_NotifyAssignsID(t *testing.T) {
	c := NewCenter()

	id := c.Notify(Notification{Message: "Saved"})

	require.NotEmpty(t, id)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)
	assert.Equal(t, LevelInfo, active[0].Level)
}

func TestCenter_SameIDUpdatesInPlace(t *testing.T) {
	c := NewCenter()

	id := c.Notify(Notification{Level: LevelWarning, Message: "locked"})
	c.Notify(Notification{Message: "other"})
	again := c.Notify(Notification{ID: id, Level: LevelWarning, Message: "still locked"})

	assert.Equal(t, id, again)
	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "still locked", active[0].Message)
	assert.Equal(t, "other", active[1].Message)
}

func TestCenter_Dismiss(t *testing.T) {
	c := NewCenter()
	id := c.Notify(Notification{Message: "a"})
	c.Notify(Notification{Message: "b"})

	c.Dismiss(id)
	c.Dismiss("missing")

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].Message)
}

func TestCenter_ActiveReturnsCopy(t *testing.T) {
	c := NewCenter()
	c.Notify(Notification{Message: "a"})

	active := c.Active()
	active[0].Message = "mutated"

	assert.Equal(t, "a", c.Active()[0].Message)
}

func TestCenter_Clear(t *testing.T) {
	c := NewCenter()
	c.Notify(Notification{Message: "a"})
	c.Clear()
	assert.Empty(t, c.Active())
}

func TestDiscard(t *testing.T) {
	assert.Equal(t, "x", Discard.Notify(Notification{ID: "x"}))
	assert.NotEmpty(t, Discard.Notify(Notification{}))
}
