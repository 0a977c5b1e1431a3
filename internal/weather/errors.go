package weather

import "fmt"

// DataLoadError reports a dataset document that is missing, unreadable or
// malformed. Nothing is rendered from a source that failed to load.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load dataset %q: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// InvalidFieldError reports a record whose field is missing or out of range.
type InvalidFieldError struct {
	Index  int
	Date   string
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	if e.Date != "" {
		return fmt.Sprintf("record %d (%s): field %s: %s", e.Index, e.Date, e.Field, e.Reason)
	}
	return fmt.Sprintf("record %d: field %s: %s", e.Index, e.Field, e.Reason)
}
