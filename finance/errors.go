/*
errors.go - Error taxonomy for the engine and its record stores

PURPOSE:
  All error types in one place. The engine packages return these and never
  catch or log them; the HTTP layer maps them onto status codes.

ERROR CATEGORIES:
  1. Invalid input   - missing/non-numeric/out-of-range values (400)
  2. Not found       - a record the caller does not own or that is gone (404)
  3. Conflict        - a second unlock of the same achievement type (409)

  Division by zero is not an error: every ratio in the engine resolves to 0
  when its denominator is 0 (see Percent in types.go).

USAGE:
  if errors.Is(err, finance.ErrInvalidInput) {
      // 400
  }

  var inv *finance.InvalidInputError
  if errors.As(err, &inv) {
      log.Println(inv.Field)
  }
*/
package finance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is wrapped by every InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a record does not exist for the user.
	ErrNotFound = errors.New("record not found")

	// ErrAchievementExists is returned by stores asked to unlock a type the
	// user already has.
	ErrAchievementExists = errors.New("achievement already unlocked")

	// ErrUserRequired is returned when an operation has no user identity.
	ErrUserRequired = errors.New("user id required")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InvalidInputError describes one rejected input field.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// Missing builds the error for an absent required field.
func Missing(field string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: "is required"}
}

// NotFoundError names the record kind and id that could not be found.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// DuplicateAchievementError reports an attempted second unlock.
type DuplicateAchievementError struct {
	UserID UserID
	Type   string
}

func (e *DuplicateAchievementError) Error() string {
	return fmt.Sprintf("achievement %s already unlocked for %s", e.Type, e.UserID)
}

func (e *DuplicateAchievementError) Unwrap() error {
	return ErrAchievementExists
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUserRequired)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true for uniqueness violations.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAchievementExists)
}
