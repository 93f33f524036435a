package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name     string `json:"name"`
	Schedule string `json:"schedule" format:"RFC3339"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Schedule, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
	)
}

type UpdateEventRequest struct {
	Name     *string `json:"name,omitempty"`
	Schedule *string `json:"schedule,omitempty" format:"RFC3339"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.Schedule, validation.NilOrNotEmpty, validation.Date("2006-01-02T15:04:05Z07:00")),
	)
}

type JoinEventRequest struct {
	JoinCode string `json:"join_code"`
	TeamName string `json:"team_name"`
}

func (req *JoinEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.JoinCode, validation.Required, validation.Length(6, 6)),
		validation.Field(&req.TeamName, validation.Required, validation.Length(2, 50)),
	)
}
