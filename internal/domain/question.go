package domain

import "time"

type Question struct {
	ID               uint      `json:"id"`
	RoundID          uint      `json:"round_id"`
	QuestionText     string    `json:"question_text"`
	CorrectAnswer    string    `json:"correct_answer"`
	Points           int       `json:"points"`
	SequenceNumber   int       `json:"sequence_number"`
	Status           Status    `json:"status"`
	TimeLimitSeconds *int      `json:"time_limit_seconds,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SuggestedQuestion is a question proposal returned by the completion
// service, normalized to one shape at the boundary.
type SuggestedQuestion struct {
	QuestionText  string `json:"question_text"`
	CorrectAnswer string `json:"correct_answer"`
	Points        int    `json:"points"`
}
