package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// tableNames maps lead store tables to user-facing names.
var tableNames = map[string]string{
	"sales_signups": "sales request",
}

// MapDBError maps database errors to AppError instances.
// - pgx.ErrNoRows → NotFound
// - unique violations → Conflict
// - NOT NULL / CHECK / string length violations → Validation
// - connection exceptions → Unavailable
// - context timeouts/cancellations → Timeout/Canceled
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return Wrap(err, ErrCodeUnavailable, "The database is unavailable. Please try again later.")
	}

	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch {
	case pgErr.Code == pgerrcode.UniqueViolation:
		field := uniqueField(pgErr)
		msg := "This " + tableName(pgErr.TableName) + " was already submitted."
		return &AppError{Code: ErrCodeConflict, Message: msg, Field: field, Cause: pgErr}
	case pgErr.Code == pgerrcode.NotNullViolation:
		return validationFor(pgErr, "This field is required.", "Required field is missing. Please check your input.")
	case pgErr.Code == pgerrcode.CheckViolation, pgErr.Code == pgerrcode.StringDataRightTruncationDataException:
		return validationFor(pgErr, "This field has an invalid value.", "Invalid data. Please check your input.")
	case pgerrcode.IsConnectionException(pgErr.Code), pgerrcode.IsInsufficientResources(pgErr.Code):
		return &AppError{Code: ErrCodeUnavailable, Message: "The database is unavailable. Please try again later.", Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: pgErr}
	}
}

func validationFor(pgErr *pgconn.PgError, fieldMsg, genericMsg string) error {
	if pgErr.ColumnName != "" {
		return &AppError{Code: ErrCodeValidation, Message: fieldMsg, Field: pgErr.ColumnName, Cause: pgErr}
	}
	return &AppError{Code: ErrCodeValidation, Message: genericMsg, Cause: pgErr}
}

// uniqueField prefers column metadata, then the Detail text, then the constraint name.
func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return fieldFromConstraint(pgErr.TableName, pgErr.ConstraintName)
}

// fieldFromConstraint strips the table prefix and key suffix: "sales_signups_email_key" → "email".
func fieldFromConstraint(table, constraint string) string {
	if constraint == "" {
		return ""
	}
	name := strings.TrimPrefix(constraint, table+"_")
	for _, suffix := range []string{"_key", "_unique", "_idx"} {
		name = strings.TrimSuffix(name, suffix)
	}
	if name == constraint || name == "" {
		return ""
	}
	return name
}

func tableName(table string) string {
	if name, ok := tableNames[strings.ToLower(strings.TrimSpace(table))]; ok {
		return name
	}
	if table == "" {
		return "record"
	}
	return strings.ReplaceAll(table, "_", " ")
}
