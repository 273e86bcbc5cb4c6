package domain

// EventType change feed event type
type EventType string

const (
	// EventMessageCreated published after a successful append
	EventMessageCreated EventType = "message.created"
	// EventMessageDeleted published after a successful remove
	EventMessageDeleted EventType = "message.deleted"
)

// MessageEvent change feed record
type MessageEvent struct {
	Type       EventType `json:"type"`
	RoomID     string    `json:"room_id"`
	MsgID      string    `json:"msg_id"`
	OccurredAt int64     `json:"occurred_at"`
	Message    *Message  `json:"message,omitempty"`
}

// NewCreatedEvent event for a stored message
func NewCreatedEvent(msg Message, occurredAt int64) MessageEvent {
	return MessageEvent{
		Type:       EventMessageCreated,
		RoomID:     msg.RoomID,
		MsgID:      msg.MsgID,
		OccurredAt: occurredAt,
		Message:    &msg,
	}
}

// NewDeletedEvent event for a removed message
func NewDeletedEvent(roomID, msgID string, occurredAt int64) MessageEvent {
	return MessageEvent{
		Type:       EventMessageDeleted,
		RoomID:     roomID,
		MsgID:      msgID,
		OccurredAt: occurredAt,
	}
}
