package portfolio

import (
	"fmt"
	"strings"
)

// DecodeError reports that no attempted character encoding could decode the
// input bytes. Encodings lists the attempts in order.
type DecodeError struct {
	Encodings []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode input with any of: %s", strings.Join(e.Encodings, ", "))
}

// MalformedTableError reports structurally broken tabular input: empty files,
// missing header rows, or rows whose width differs from the header.
type MalformedTableError struct {
	Reason string
	Err    error
}

func (e *MalformedTableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed table: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed table: %s", e.Reason)
}

func (e *MalformedTableError) Unwrap() error { return e.Err }

// MissingRequiredFieldError reports every required canonical field that was
// absent after column mapping, not just the first offender.
type MissingRequiredFieldError struct {
	Fields []Field
}

func (e *MissingRequiredFieldError) Error() string {
	labels := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		labels[i] = f.Label()
	}
	return fmt.Sprintf("必須カラムが不足しています: %s", strings.Join(labels, ", "))
}

// AggregationError wraps an unexpected failure during summary computation.
// The numeric guards in the completer and aggregator make this rare.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed: %v", e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }
