package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateQuestionRequest struct {
	QuestionText     string `json:"question_text"`
	CorrectAnswer    string `json:"correct_answer"`
	Points           int    `json:"points"`
	TimeLimitSeconds *int   `json:"time_limit_seconds,omitempty"`
}

func (req *CreateQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QuestionText, validation.Required, validation.Length(1, 1000)),
		validation.Field(&req.CorrectAnswer, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.Points, validation.Required, validation.Min(1)),
		validation.Field(&req.TimeLimitSeconds, validation.Min(1)),
	)
}

type UpdateQuestionRequest struct {
	QuestionText     *string `json:"question_text,omitempty"`
	CorrectAnswer    *string `json:"correct_answer,omitempty"`
	Points           *int    `json:"points,omitempty"`
	TimeLimitSeconds *int    `json:"time_limit_seconds,omitempty"`
}

func (req *UpdateQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QuestionText, validation.NilOrNotEmpty, validation.Length(1, 1000)),
		validation.Field(&req.CorrectAnswer, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&req.Points, validation.Min(1)),
		validation.Field(&req.TimeLimitSeconds, validation.Min(1)),
	)
}

type SuggestQuestionsRequest struct {
	Topic string `json:"topic"`
}

func (req *SuggestQuestionsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Topic, validation.Required, validation.Length(2, 200)),
	)
}
