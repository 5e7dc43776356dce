package models

import "fmt"

// FetchError reports a failed download of the source document.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports that no usable table could be found in the document.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %v", e.Reason, e.Err)
	}
	return "extract: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TypeCoercionError reports a cell that could not be converted to a number.
// Row is the 0-based position of the offending row in its source.
type TypeCoercionError struct {
	Row    int
	Name   string
	Column string
	Value  string
	Err    error
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("row %d (%s): cannot convert %s value %q to a number: %v",
		e.Row, e.Name, e.Column, e.Value, e.Err)
}

func (e *TypeCoercionError) Unwrap() error { return e.Err }

// PersistenceError reports a failure to connect to or write into the store.
type PersistenceError struct {
	Op    string
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("persist %s %q: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// QueryError reports a failed reporting query.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// LogError reports a failed write to the progress log.
type LogError struct {
	Path    string
	Message string
	Err     error
}

func (e *LogError) Error() string {
	return fmt.Sprintf("progress log %s: write %q: %v", e.Path, e.Message, e.Err)
}

func (e *LogError) Unwrap() error { return e.Err }
