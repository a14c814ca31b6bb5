package util

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindConflict
	KindInvalidState
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationFailed"
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindConflict:
		return "Conflict"
	case KindInvalidState:
		return "InvalidState"
	}
	return "Internal"
}

// Status is the HTTP status an error of this kind is answered with.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// AppError is an expected failure that is reported to the caller as-is.
type AppError struct {
	Kind    ErrorKind
	Message string
	// Fields carries per-field validation messages.
	Fields map[string]string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFoundf(format string, args ...any) *AppError {
	return newError(KindNotFound, format, args...)
}

func Forbiddenf(format string, args ...any) *AppError {
	return newError(KindForbidden, format, args...)
}

func Unauthenticatedf(format string, args ...any) *AppError {
	return newError(KindUnauthenticated, format, args...)
}

func Conflictf(format string, args ...any) *AppError {
	return newError(KindConflict, format, args...)
}

func InvalidStatef(format string, args ...any) *AppError {
	return newError(KindInvalidState, format, args...)
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	ErrCourseNotFound    = NotFoundf("Course not found")
	ErrLessonNotFound    = NotFoundf("Lesson not found")
	ErrUserNotFound      = NotFoundf("User not found")
	ErrCourseAccess      = Forbiddenf("Access denied. Course is not published and you are not enrolled.")
	ErrInvalidLogin      = Unauthenticatedf("Invalid credentials")
	ErrAccountInactive   = Unauthenticatedf("Account has been deactivated.")
	ErrAlreadyEnrolled   = Conflictf("Already enrolled in this course")
	ErrNotEnrolled       = InvalidStatef("Not enrolled in this course")
	ErrCourseUnpublished = InvalidStatef("Cannot enroll in unpublished course")
	ErrDuplicateLesson   = Conflictf("Lesson with this ID already exists in the course")
	ErrDuplicateTitle    = Conflictf("You already have a course with this title")
	ErrUsernameTaken     = Conflictf("Username is already taken")
	ErrEmailRegistered   = Conflictf("Email is already registered")
	ErrInvalidImage      = Validation("Invalid image file", map[string]string{"file": "must be an image"})
)
