package ingestion

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSources is returned when the registry has no entries.
	ErrNoSources = errors.New("no ticker sources registered")

	// ErrEmptySource marks a source that answered but produced no normalized rows.
	ErrEmptySource = errors.New("source returned no usable tickers")

	// ErrUnexpectedShape is returned when a response holds no ticker array.
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// SourceFetchError reports one failed source.
// Status and Body are set when the transport answered with a non-success status.
type SourceFetchError struct {
	Source string
	Status int
	Body   string
	Err    error
}

func (e *SourceFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("source %s: status %d: %s", e.Source, e.Status, e.Body)
	}
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// AggregateFetchError is returned when every source failed or was empty.
type AggregateFetchError struct {
	Attempts []Attempt
}

func (e *AggregateFetchError) Error() string {
	last := e.Last()
	if last == nil {
		return fmt.Sprintf("all %d ticker sources failed", len(e.Attempts))
	}
	names := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		names = append(names, a.Source)
	}
	return fmt.Sprintf("all %d ticker sources failed (%s); last error: %v",
		len(e.Attempts), strings.Join(names, ", "), last)
}

// Last returns the error of the final attempt.
func (e *AggregateFetchError) Last() error {
	for i := len(e.Attempts) - 1; i >= 0; i-- {
		if e.Attempts[i].Err != nil {
			return e.Attempts[i].Err
		}
	}
	return nil
}

// Unwrap exposes every per-source error to errors.Is and errors.As.
func (e *AggregateFetchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

