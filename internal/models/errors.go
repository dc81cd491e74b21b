package models

import "errors"

var (
	// ErrDataUnavailable is returned when a source is missing or malformed.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientData is returned when there is no defined observation to report on.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidSelector is returned for an unknown horizon or smoothing value.
	ErrInvalidSelector = errors.New("invalid selector")
)
