package domain

import "time"

type Team struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Standing is one leaderboard row. It is always computed from raw
// response rows, never stored.
type Standing struct {
	TeamID      uint   `json:"team_id"`
	TeamName    string `json:"team_name"`
	TotalPoints int    `json:"total_points"`
	Rank        int    `json:"rank"`
}
