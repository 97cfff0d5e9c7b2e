package service

import "errors"

// Sentinel kinds for request validation before a command reaches the store.
var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidTask   = errors.New("task needs a title and at least one answer")
	ErrInvalidTeam   = errors.New("team needs a name")
	ErrInvalidWindow = errors.New("contest end must be after its start")
	ErrNotStarted    = errors.New("service is not started")
)
