// Package sqlerr normalizes PostgreSQL driver errors into a small set of
// codes the rest of the application can switch on.
package sqlerr

import "fmt"

// Code is a coarse classification of a SQLSTATE.
type Code string

const (
	Other               Code = "other"
	UniqueViolation     Code = "unique_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	NotNullViolation    Code = "not_null_violation"
	CheckViolation      Code = "check_violation"
)

// Severity mirrors the severity Postgres attaches to a reported error.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// SQLSTATE values we classify; everything else is Other.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateNotNullViolation    = "23502"
	sqlStateCheckViolation      = "23514"
)

// MapCode classifies a raw SQLSTATE.
func MapCode(sqlState string) Code {
	switch sqlState {
	case sqlStateUniqueViolation:
		return UniqueViolation
	case sqlStateForeignKeyViolation:
		return ForeignKeyViolation
	case sqlStateNotNullViolation:
		return NotNullViolation
	case sqlStateCheckViolation:
		return CheckViolation
	default:
		return Other
	}
}

// MapSeverity normalizes the severity string sent by the server.
// Unknown values are reported as SeverityError.
func MapSeverity(severity string) Severity {
	switch s := Severity(severity); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a driver error flattened into the fields we care about.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	if e.ConstraintName != "" {
		return fmt.Sprintf("%s (SQLSTATE %s, constraint %s): %s", e.Severity, e.DatabaseCode, e.ConstraintName, e.Message)
	}
	return fmt.Sprintf("%s (SQLSTATE %s): %s", e.Severity, e.DatabaseCode, e.Message)
}

// Unwrap returns the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}
