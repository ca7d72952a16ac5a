package record

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPrescriber = errors.New("missing prescriber identity")
	ErrMissingDrugName   = errors.New("missing drug name")
	ErrNonNumericCost    = errors.New("non-numeric cost")
)

// InvalidRecordError reports why a raw order could not become a Record.
type InvalidRecordError struct {
	Reason error
	Field  string
	Value  string
}

func invalid(reason error, field, value string) *InvalidRecordError {
	return &InvalidRecordError{Reason: reason, Field: field, Value: value}
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record: %v (%s=%q)", e.Reason, e.Field, e.Value)
}

func (e *InvalidRecordError) Unwrap() error { return e.Reason }
