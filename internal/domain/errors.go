package domain

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrSigningFailed = errors.New("signing failed")
	ErrNotFound      = errors.New("not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnauthorized  = errors.New("unauthorized")
)
