package response

import "github.com/vietanh2810/trivia-live-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
