package issue

import "errors"

var (
	// ErrIssueIDRequired is returned when an issue id is empty.
	ErrIssueIDRequired = errors.New("issue_id required")

	// ErrInvalidInput is returned when request parameters are out of range.
	ErrInvalidInput = errors.New("invalid input")
)
