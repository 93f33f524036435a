package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateRoundRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	TimeLimitSeconds *int   `json:"time_limit_seconds,omitempty"`
}

func (req *CreateRoundRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.TimeLimitSeconds, validation.Min(1)),
	)
}

type UpdateRoundRequest struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	TimeLimitSeconds *int    `json:"time_limit_seconds,omitempty"`
}

func (req *UpdateRoundRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.TimeLimitSeconds, validation.Min(1)),
	)
}
