package common

import (
	"errors"
	"fmt"

	"botoclock/domain/services"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to the Discord user
	LogMessage  string // Internal message for logging
	System      bool   // Whether the failure is ours rather than the user's
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (bad input, quota, permissions)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError creates an error for system issues (database, Discord API, unexpected state)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "❌ Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		System:      true,
		Err:         err,
	}
}

// FromServiceError maps a domain error onto a BotError. The user message never
// carries ids or the underlying error text.
func FromServiceError(err error) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	var quotaErr *services.QuotaError
	var provisionErr *services.ProvisionError
	var storeErr *services.StoreError

	switch {
	case errors.Is(err, services.ErrInvalidTimezone):
		e := NewUserError("❌ I don't know that timezone. Use a name from the tz database, like `Europe/London` or `America/New_York`.", "invalid timezone")
		e.Err = err
		return e
	case errors.Is(err, services.ErrMissingArgument):
		e := NewUserError("❌ Please provide a timezone. See `help` for usage.", "missing argument")
		e.Err = err
		return e
	case errors.Is(err, services.ErrNotAuthorized):
		return NewUserError("❌ You need the **Manage Server** permission to do that.", "caller lacks Manage Server")
	case errors.As(err, &quotaErr):
		e := NewUserError(
			fmt.Sprintf("❌ This server already has the maximum of %d channel clocks. Delete one before creating another.", quotaErr.Limit),
			"clock quota reached",
		)
		e.Err = err
		return e
	case errors.As(err, &provisionErr):
		e := NewSystemError(err, "failed to provision clock resource")
		e.UserMessage = fmt.Sprintf("❌ I couldn't create the clock %s. Check that I have permission to manage channels here.", provisionErr.Resource)
		return e
	case errors.As(err, &storeErr):
		return NewSystemError(err, fmt.Sprintf("clock store %s failed", storeErr.Op))
	default:
		return NewSystemError(err, "unexpected command failure")
	}
}
