package model

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidThreshold  = errors.New("threshold must be positive")
	ErrUnknownAction     = errors.New("unknown action")
	ErrInvalidArgument   = errors.New("invalid argument")
)
