// Package catalog loads, validates and queries the Linux distribution catalog.
package catalog

import "fmt"

// LoadError represents an error reading or decoding a catalog file
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %s: %v", e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s: %s", e.File, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a catalog record that decoded but failed schema or struct checks
type ValidationError struct {
	File  string
	ID    string
	Cause error
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid record %q in %s: %v", e.ID, e.File, e.Cause)
	}
	return fmt.Sprintf("invalid record in %s: %v", e.File, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
