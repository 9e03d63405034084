package events

import "time"

// UserLifecycleTopic carries user events published by the food-ordering
// service; the consumer mirrors them into employee records.
const UserLifecycleTopic = "food-ordering.user.lifecycle.v1"

type UserLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	OccurredAt time.Time `json:"occurred_at"`
}
