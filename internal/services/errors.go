package services

import "errors"

var (
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountNotConfirmed = errors.New("account is not confirmed")
	ErrNotFound            = errors.New("not found")
	ErrNotification        = errors.New("failed to send notification")
	ErrUnauthorized        = errors.New("not the resource owner")
	ErrInvalidToken        = errors.New("invalid token")
)
