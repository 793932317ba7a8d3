package service

import "errors"

// Validation failures the handlers map to 400.
var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)
