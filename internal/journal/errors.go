package journal

import "errors"

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates no reading matched.
	ErrNotFound = errors.New("journal: reading not found")

	// ErrRecordFailed indicates a reading could not be stored.
	ErrRecordFailed = errors.New("journal: record failed")
)
