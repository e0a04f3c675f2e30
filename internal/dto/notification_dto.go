package dto

import "time"

// Notification event kinds fanned out to connected members.
const (
	NotificationFormActivated       = "form.activated"
	NotificationAnnouncementCreated = "announcement.created"
)

// NotificationEvent is pushed to subscribed members over SSE.
type NotificationEvent struct {
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	EntityID uint      `json:"entity_id"`
	Target   string    `json:"target,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}
