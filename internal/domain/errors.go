// Package domain defines the typed error kinds shared by the film, user and
// catalog services. Handlers map them mechanically onto HTTP statuses.
package domain

import (
	"errors"
	"fmt"
)

// Storage sentinels. Repositories translate driver errors into these so the
// service layer never inspects pg error codes.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
)

// EntityKind names the aggregate an error refers to.
type EntityKind string

const (
	KindFilm     EntityKind = "film"
	KindUser     EntityKind = "user"
	KindGenre    EntityKind = "genre"
	KindMpa      EntityKind = "mpa"
	KindDirector EntityKind = "director"
	KindLike     EntityKind = "like"
)

// NotFoundError reports that a specifically requested entity has no backing
// row. Listing operations never produce it; an empty list is not an error.
type NotFoundError struct {
	Kind EntityKind
	ID   int64
	// Msg overrides the default rendering for records keyed by more than
	// one id.
	Msg string
}

func (e *NotFoundError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s with id=%d not found", e.Kind, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(kind EntityKind, id int64) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// NoLike builds a NotFoundError for the like pair record, naming both sides
// of the key.
func NoLike(filmID, userID int64) error {
	return &NotFoundError{
		Kind: KindLike,
		ID:   filmID,
		Msg:  fmt.Sprintf("like by user with id=%d on film with id=%d not found", userID, filmID),
	}
}

// IsNotFound reports whether err wraps a NotFoundError of any kind.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError reports a payload that references missing reference data or
// otherwise fails a semantic check.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedSortError reports a sortBy value outside the recognized enum.
type UnsupportedSortError struct {
	SortBy string
}

func (e *UnsupportedSortError) Error() string {
	return fmt.Sprintf("sorting %q is not supported", e.SortBy)
}

// BadParameterError reports a numeric query parameter outside its allowed
// range, e.g. a non-positive id or a negative count.
type BadParameterError struct {
	Name  string
	Value int64
}

func (e *BadParameterError) Error() string {
	return fmt.Sprintf("parameter %s has invalid value %d", e.Name, e.Value)
}

// BadParameter builds a BadParameterError.
func BadParameter(name string, value int64) error {
	return &BadParameterError{Name: name, Value: value}
}
