package domain

import "time"

type Event struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Schedule  time.Time `json:"schedule"`
	Status    Status    `json:"status"`
	JoinCode  string    `json:"join_code"`
	CreatedBy uint      `json:"created_by"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
