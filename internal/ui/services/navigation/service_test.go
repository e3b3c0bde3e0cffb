package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"usergrip/internal/ui/services/events"
)

func TestNavigateWithinRows(t *testing.T) {
	s := NewService(&events.NullBus{})
	s.SetRowCount(3)

	s.Navigate(DirectionUp)
	assert.Equal(t, 0, s.GetCursor())

	s.Navigate(DirectionDown)
	s.Navigate(DirectionDown)
	s.Navigate(DirectionDown)
	assert.Equal(t, 2, s.GetCursor())

	s.Navigate(DirectionHome)
	assert.Equal(t, 0, s.GetCursor())
	s.Navigate(DirectionEnd)
	assert.Equal(t, 2, s.GetCursor())
}

func TestShrinkingRowsClampsCursor(t *testing.T) {
	s := NewService(&events.NullBus{})
	s.SetRowCount(10)
	s.MoveToIndex(8)
	assert.Equal(t, 8, s.GetCursor())

	s.SetRowCount(4)
	assert.Equal(t, 3, s.GetCursor())

	s.SetRowCount(0)
	assert.Equal(t, 0, s.GetCursor())
}

func TestViewportFollowsCursor(t *testing.T) {
	s := NewService(&events.NullBus{})
	s.SetViewportHeight(13) // five rows after the chrome
	s.SetRowCount(50)
	assert.Equal(t, 5, s.GetViewportHeight())

	s.MoveToIndex(12)
	assert.Equal(t, 8, s.GetViewportOffset())

	s.Navigate(DirectionPageUp)
	assert.Equal(t, 8, s.GetCursor())
	assert.Equal(t, 4, s.GetViewportOffset())

	s.Navigate(DirectionPageDown)
	assert.Equal(t, 12, s.GetCursor())
	assert.Equal(t, 8, s.GetViewportOffset())
}
