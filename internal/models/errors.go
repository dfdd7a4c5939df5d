package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrInsufficientData = errors.New("insufficient data")
	ErrUnknownTeam      = errors.New("team not present in model")
	ErrInvalidQuote     = errors.New("invalid market quote")
	ErrNoPredictions    = errors.New("no predictions to evaluate")
	ErrUnknownLeague    = errors.New("league not configured")
)
