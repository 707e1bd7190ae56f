package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTableFound is returned when a set page has no sortable edition table
	ErrNoTableFound = errors.New("no table found")

	// ErrMissingCardNumberHeader is returned when neither "Card Number" nor "Set Number" is a header
	ErrMissingCardNumberHeader = errors.New("missing card number header")

	// ErrEmptyHarvestJob is returned for jobs without any set name
	ErrEmptyHarvestJob = errors.New("harvest job has no card set names")

	// ErrEditionNotFound is returned when no edition exists for a code
	ErrEditionNotFound = errors.New("edition not found")

	// ErrSetNotFound is returned when the card info provider knows no set for a code
	ErrSetNotFound = errors.New("card set not found")

	// ErrRunInProgress is returned when an enrichment run is already active
	ErrRunInProgress = errors.New("enrichment run already in progress")

	// ErrMarketplaceURLNotFound is returned when a marketplace search yields no product page
	ErrMarketplaceURLNotFound = errors.New("marketplace url not found")
)

// ErrorKind classifies a pipeline failure so callers can branch on it
type ErrorKind string

const (
	// ErrorKindTransient is a network-level failure worth retrying
	ErrorKindTransient ErrorKind = "transient"
	// ErrorKindSchema is a structural page failure, fatal for one set
	ErrorKindSchema ErrorKind = "schema"
	// ErrorKindValidation is a single invalid row
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindExternal is a failure of an external resource
	ErrorKindExternal ErrorKind = "external"
	// ErrorKindContract is a programmer or configuration error
	ErrorKindContract ErrorKind = "contract"
)

// Error is a pipeline error tagged with its kind
type Error struct {
	Kind    ErrorKind
	SetName string
	Err     error
}

// NewError wraps err with a kind and the set it happened on
func NewError(kind ErrorKind, setName string, err error) *Error {
	return &Error{Kind: kind, SetName: setName, Err: err}
}

func (e *Error) Error() string {
	if e.SetName != "" {
		return fmt.Sprintf("%s error on set %q: %v", e.Kind, e.SetName, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, defaulting to external for untagged errors
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindExternal
}

// IsTransient reports whether err should be retried
func IsTransient(err error) bool {
	return KindOf(err) == ErrorKindTransient
}
