package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventStateChanged     EventType = "StateChanged"
	EventUsersFetched     EventType = "UsersFetched"
	EventFetchFailed      EventType = "FetchFailed"
	EventPollScheduled    EventType = "PollScheduled"
	EventUserDeleted      EventType = "UserDeleted"
	EventUsersDeleted     EventType = "UsersDeleted"
	EventUserSaved        EventType = "UserSaved"
	EventNotification     EventType = "Notification"
	EventConfirmRequested EventType = "ConfirmRequested"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// StateChangedEvent is emitted after any mutation of the list state
type StateChangedEvent struct{}

func (e StateChangedEvent) Type() EventType { return EventStateChanged }

// UsersFetchedEvent is emitted when a page has been fetched and applied
type UsersFetchedEvent struct {
	Page    int
	Size    int
	Count   int
	Pending int // items marked for deletion
	Muted   bool
}

func (e UsersFetchedEvent) Type() EventType { return EventUsersFetched }

// FetchFailedEvent is emitted when a page fetch fails
type FetchFailedEvent struct {
	Err   error
	Muted bool
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// PollScheduledEvent is emitted when a background refresh is armed
type PollScheduledEvent struct {
	Pending int
}

func (e PollScheduledEvent) Type() EventType { return EventPollScheduled }

// UserDeletedEvent is emitted after a single delete attempt
type UserDeletedEvent struct {
	Name string
	Err  error
}

func (e UserDeletedEvent) Type() EventType { return EventUserDeleted }

// UsersDeletedEvent is emitted after a bulk delete settles
type UsersDeletedEvent struct {
	Names  []string
	Failed map[string]error
}

func (e UsersDeletedEvent) Type() EventType { return EventUsersDeleted }

// UserSavedEvent is emitted after a create, update, password change or role grant
type UserSavedEvent struct {
	Name   string
	Action string
}

func (e UserSavedEvent) Type() EventType { return EventUserSaved }

// NotificationLevel classifies user-facing feedback
type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelSuccess
	LevelError
)

// NotificationEvent is user-facing feedback for an explicit action
type NotificationEvent struct {
	Level   NotificationLevel
	Message string
}

func (e NotificationEvent) Type() EventType { return EventNotification }

// ConfirmRequestedEvent is emitted when a destructive action awaits confirmation
type ConfirmRequestedEvent struct {
	Prompt string
}

func (e ConfirmRequestedEvent) Type() EventType { return EventConfirmRequested }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
