package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/starkeeper/internal/common"
	"github.com/dmitrijs2005/starkeeper/internal/models"
)

// Kind is the coarse cause of a failed operation, enough for a caller to
// pick a retry affordance.
type Kind string

const (
	KindNetwork        Kind = "network"
	KindAuth           Kind = "auth"
	KindSchemaMismatch Kind = "schema"
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindUnknown        Kind = "unknown"
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrNetwork        = errors.New("network failure")
	ErrAuth           = errors.New("not authorized")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrValidation     = errors.New("invalid input")
	ErrNotFound       = common.ErrorNotFound
	ErrUnknown        = errors.New("unknown failure")
)

var sentinels = map[Kind]error{
	KindNetwork:        ErrNetwork,
	KindAuth:           ErrAuth,
	KindSchemaMismatch: ErrSchemaMismatch,
	KindValidation:     ErrValidation,
	KindNotFound:       ErrNotFound,
	KindUnknown:        ErrUnknown,
}

// Error is what the façade returns for every failed operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// Classify wraps err in an *Error labelled with op. Errors that already are
// an *Error are returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: kindOf(err), Op: op, Err: err}
}

func kindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, common.ErrorNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation),
		errors.Is(err, common.ErrEmptyName),
		errors.Is(err, common.ErrInvalidXP),
		errors.Is(err, common.ErrEmptyIDList),
		errors.Is(err, models.ErrInvalidAmount):
		return KindValidation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch code := strings.TrimSpace(pgErr.Code); {
		case code == "42703", code == "42P01": // undefined_column, undefined_table
			return KindSchemaMismatch
		case code == "28000", code == "28P01", code == "42501": // invalid authorization, bad password, insufficient_privilege
			return KindAuth
		case strings.HasPrefix(code, "08"): // connection exception class
			return KindNetwork
		case strings.HasPrefix(code, "22"), strings.HasPrefix(code, "23"): // data exception, integrity violation
			return KindValidation
		}
		return KindUnknown
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, io.ErrUnexpectedEOF):
		return KindNetwork
	}

	return KindUnknown
}

// Message renders err as a short sentence for people.
func Message(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(Classify("", err)) {
	case KindNetwork:
		return "Could not reach the cloud. Check your connection and try again."
	case KindAuth:
		return "The cloud rejected your credentials. Sign in again."
	case KindSchemaMismatch:
		return "The cloud database does not match this version. Apply migrations or check the configuration."
	case KindValidation:
		return "Invalid input: " + rootCause(err).Error() + "."
	case KindNotFound:
		return "Nothing found with that id."
	default:
		return "Something went wrong: " + err.Error()
	}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
