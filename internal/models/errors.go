package models

import "fmt"

// MalformedTransactionError reports a raw row whose date or amount could not
// be parsed. The offending row is identified by its source statement and row
// index so a caller can choose to skip or surface it; nothing is silently
// coerced to zero.
type MalformedTransactionError struct {
	StatementID string
	Row         int
	Field       string
	Value       string
	Err         error
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("statement %s row %d: malformed %s %q: %v",
		e.StatementID, e.Row, e.Field, e.Value, e.Err)
}

func (e *MalformedTransactionError) Unwrap() error {
	return e.Err
}
