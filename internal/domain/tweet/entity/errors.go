package entity

import "errors"

// Domain errors for tweets
var (
	// Validation errors
	ErrEmptyUserID         = errors.New("user ID is required")
	ErrEmptyContent        = errors.New("content is required")
	ErrContentTooLong      = errors.New("content exceeds maximum length of 25000 characters")
	ErrInvalidStatus       = errors.New("invalid tweet status")
	ErrScheduledTimeInPast = errors.New("scheduled time must be in the future")

	// Business logic errors
	ErrTweetNotFound     = errors.New("tweet not found")
	ErrTweetNotEditable  = errors.New("posted tweets cannot be edited")
	ErrExportUnavailable = errors.New("export storage is not configured")
)
