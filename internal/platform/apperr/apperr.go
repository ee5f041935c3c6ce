// Package apperr defines the error kinds shared by services and handlers and
// their mapping to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/frontdesk/frontdesk/pkg/numeric"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error carries a kind, a message safe to show to the caller and an optional
// wrapped cause that is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// NotFound builds the "<resource> not found" error.
func NotFound(resource string) *Error {
	return New(KindNotFound, resource+" not found")
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

func Unauthorized(msg string) *Error {
	return New(KindUnauthorized, msg)
}

func Forbidden(msg string) *Error {
	return New(KindForbidden, msg)
}

func Internal(msg string, err error) *Error {
	return Wrap(KindInternal, msg, err)
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PostgreSQL error codes translated by FromPG.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
	pgNumericOutOfRange   = "22003"
)

// constraintMessages holds caller-facing messages for named constraints.
var constraintMessages = map[string]string{
	"app_user_username_key":          "username already exists",
	"doctor_email_key":               "a doctor with this email already exists",
	"patient_patient_id_key":         "patient identifier already assigned",
	"patient_mr_id_key":              "a patient with this MR ID already exists",
	"patient_age_check":              "age must be between 0 and 150",
	"bill_amount_check":              "amount must not be negative",
	"bill_status_check":              "status must be one of unpaid, paid, partial",
	"doctor_payment_amount_check":    "amount must not be negative",
	"app_user_role_check":            "role must be one of Admin, User1, User2",
	"report_patient_id_fkey":         "patient does not exist",
	"report_template_id_fkey":        "template does not exist or is still used by reports",
	"bill_patient_id_fkey":           "patient does not exist",
	"doctor_payment_doctor_id_fkey":  "doctor does not exist or still has payments",
	"report_template_doctor_id_fkey": "doctor does not exist",
}

// FromPG translates driver errors into kinds. resource names the entity for
// NotFound messages. Errors that are already *Error pass through unchanged and
// nil stays nil.
func FromPG(err error, resource string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Internal(resource+" store failure", err)
	}

	msg, known := constraintMessages[pgErr.ConstraintName]
	switch pgErr.Code {
	case pgUniqueViolation:
		if !known {
			msg = resource + " already exists"
		}
		return Wrap(KindConflict, msg, err)
	case pgForeignKeyViolation:
		if !known {
			msg = "referenced record does not exist"
		}
		return Wrap(KindValidation, msg, err)
	case pgNotNullViolation:
		return Wrap(KindValidation, fmt.Sprintf("%s is required", pgErr.ColumnName), err)
	case pgCheckViolation:
		if !known {
			msg = "invalid " + resource
		}
		return Wrap(KindValidation, msg, err)
	case pgInvalidText:
		return Wrap(KindValidation, "malformed input", err)
	case pgNumericOutOfRange:
		return Wrap(KindValidation, "number out of range", err)
	}
	return Internal(resource+" store failure", err)
}

// Bind maps a request binding failure to Validation. A field that is not a
// number keeps its own message.
func Bind(err error) error {
	var ne *numeric.Error
	if errors.As(err, &ne) {
		return Wrap(KindValidation, ne.Error(), err)
	}
	return Wrap(KindValidation, "invalid request body", err)
}
