package services

import (
	"errors"
	"fmt"

	"botoclock/domain/utils"
)

var (
	// ErrInvalidTimezone is returned when a timezone name is not a known IANA zone
	ErrInvalidTimezone = utils.ErrInvalidTimezone

	// ErrMissingArgument is returned when a required command argument is absent
	ErrMissingArgument = errors.New("missing argument")

	// ErrNotAuthorized is returned when the caller lacks the permission a command needs
	ErrNotAuthorized = errors.New("not authorized")
)

// QuotaError is returned when a guild already has its maximum number of clocks
type QuotaError struct {
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("clock quota of %d reached", e.Limit)
}

// ProvisionError is returned when the channel or message backing a clock could
// not be created. Nothing is written to the registry in that case.
type ProvisionError struct {
	Resource string // "channel" or "message"
	Err      error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("failed to provision %s: %v", e.Resource, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failed registry or personal timezone store operation
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
