package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SubmitResponseRequest struct {
	TeamID              uint   `json:"team_id"`
	SubmittedAnswer     string `json:"submitted_answer"`
	ResponseTimeSeconds *int   `json:"response_time_seconds,omitempty"`
}

func (req *SubmitResponseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TeamID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.SubmittedAnswer, validation.Required, validation.Length(1, 1000)),
		validation.Field(&req.ResponseTimeSeconds, validation.Min(0)),
	)
}

// GradeRequest uses a pointer so that a missing verdict fails
// validation instead of silently grading incorrect.
type GradeRequest struct {
	IsCorrect *bool `json:"is_correct"`
}

func (req *GradeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.IsCorrect, validation.NotNil),
	)
}
