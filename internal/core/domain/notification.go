package domain

import "time"

const (
	ReminderEventType = "reminder"
	ReminderMessage   = "Don't forget to complete your habits today!"
)

type ReminderEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReminderEvent(now time.Time) ReminderEvent {
	return ReminderEvent{
		Type:      ReminderEventType,
		Message:   ReminderMessage,
		Timestamp: now.UTC(),
	}
}
