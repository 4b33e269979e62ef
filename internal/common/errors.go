package common

import (
	"errors"
	"strings"
)

// Error kinds. Every error produced by the services wraps exactly one of them,
// so callers classify failures with errors.Is.
var (
	ErrorNotFound     = errors.New("not found")
	ErrorConflict     = errors.New("conflict")
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorInternal     = errors.New("internal error")
)

var (
	// Recipe input errors.
	ErrNoIngredients       = Validation("no ingredients")
	ErrDuplicateIngredient = Validation("duplicate ingredient")
	ErrInvalidAmount       = Validation("invalid amount")
	ErrUnknownIngredient   = Validation("unknown ingredient")
	ErrNoImage             = Validation("no image")
	ErrInvalidImage        = Validation("invalid image")
	ErrInvalidCookingTime  = Validation("invalid cooking time")
	ErrEmptyField          = Validation("required field is empty")
	ErrValueTooLong        = Validation("value too long")

	// Mark errors.
	ErrAlreadyAdded = Conflict("already added")
	ErrNotPresent   = Conflict("not present")

	// Subscription errors.
	ErrFollowSelf       = Conflict("cannot follow self")
	ErrAlreadyFollowing = Conflict("already following")
	ErrNotFollowing     = NotFound("subscription not found")

	// User errors.
	ErrEmailTaken       = Conflict("email already registered")
	ErrUsernameTaken    = Conflict("username already taken")
	ErrInvalidPassword  = Validation("invalid current password")
	ErrInvalidLogin     = &kindError{kind: ErrorUnauthorized, msg: "invalid email or password"}
	ErrInvalidToken     = &kindError{kind: ErrorUnauthorized, msg: "invalid token"}
	ErrNotRecipeAuthor  = &kindError{kind: ErrorForbidden, msg: "only the author may change the recipe"}
	ErrRecipeNotFound   = NotFound("recipe not found")
	ErrUserNotFound     = NotFound("user not found")
	ErrIngredientAbsent = NotFound("ingredient not found")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validation returns an error of kind ErrorValidation carrying msg.
func Validation(msg string) error { return &kindError{kind: ErrorValidation, msg: msg} }

// Conflict returns an error of kind ErrorConflict carrying msg.
func Conflict(msg string) error { return &kindError{kind: ErrorConflict, msg: msg} }

// NotFound returns an error of kind ErrorNotFound carrying msg.
func NotFound(msg string) error { return &kindError{kind: ErrorNotFound, msg: msg} }

// Message returns the human-readable part of err: the message of the
// innermost kinded error, or the text of a bare sentinel.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return strings.TrimSpace(err.Error())
}
