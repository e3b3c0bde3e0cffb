package ui

import (
	"time"

	"usergrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// clearStatusMsg clears the status bar when its id is still current
type clearStatusMsg struct {
	id int
}

// statusTTL is how long a notification stays in the status bar
const statusTTL = 4 * time.Second

// quitMsg signals that the application should quit
type quitMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
