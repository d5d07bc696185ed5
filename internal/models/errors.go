package models

import "github.com/pkg/errors"

// ErrUserNotFound is returned by repository point lookups when no row matches.
var ErrUserNotFound = errors.New("user not found")

// ErrUserAlreadyExists is returned on create when the twitch_id is already tracked.
var ErrUserAlreadyExists = errors.New("user already exists")

type GetUserUnauthorized struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type ValidateTokenInvalid struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
