package service

import "errors"

var (
	ErrValidation         = errors.New("validation")        // 400
	ErrNotFound           = errors.New("not found")         // 404
	ErrInvalidState       = errors.New("invalid state")     // 400
	ErrResolution         = errors.New("unresolvable item") // 422
	ErrConflict           = errors.New("conflict")          // 409
	ErrInvalidCredentials = errors.New("invalid credentials")
)
