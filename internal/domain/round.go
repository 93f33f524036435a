package domain

import "time"

type Round struct {
	ID               uint      `json:"id"`
	EventID          uint      `json:"event_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	SequenceNumber   int       `json:"sequence_number"`
	Status           Status    `json:"status"`
	TimeLimitSeconds *int      `json:"time_limit_seconds,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
