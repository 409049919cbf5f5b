package models

import "errors"

var (
	ErrNotFound          = errors.New("requested entity does not exist")
	ErrConflict          = errors.New("entity with the same unique reference already exists")
	ErrInvalidTransition = errors.New("status change is not allowed from the current state")
	ErrValidation        = errors.New("supplied data is malformed or inconsistent")
	ErrCredentials       = errors.New("invalid credentials")
)
