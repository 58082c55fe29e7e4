package models

import "errors"

// Custom errors
var (
	ErrFilterNameRequired = errors.New("filter name is required")
	ErrFilterNeedsRules   = errors.New("filter requires at least one rule")
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
	ErrInvalidID          = errors.New("invalid ID format")
)
