package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"compboard/internal/listing"
)

// Load failure kinds. Use errors.Is against a *LoadError.
var (
	ErrMissingFile    = errors.New("data file not found")
	ErrUnreadable     = errors.New("data file unreadable")
	ErrMissingColumns = errors.New("data file missing required columns")
	ErrNoRows         = errors.New("data file has no rated rows")
)

// LoadError is a fatal, load-time failure. Nothing should be rendered from a
// file that produced one.
type LoadError struct {
	Path    string
	Kind    error
	Err     error
	Missing []string
}

func (e *LoadError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: %v: %s", e.Path, e.Kind, strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage explains the failure to the dashboard user: which file was
// expected and what it must look like.
func (e *LoadError) UserMessage() string {
	name := filepath.Base(e.Path)
	format := fmt.Sprintf("an .xlsx workbook (or .csv) whose first sheet has the columns %s",
		strings.Join(listing.RequiredColumns, ", "))
	switch {
	case errors.Is(e.Kind, ErrMissingFile):
		return fmt.Sprintf("Could not find data file %s. Please make sure it is named '%s' and sits in the configured location; it must be %s.",
			e.Path, name, format)
	case errors.Is(e.Kind, ErrMissingColumns):
		return fmt.Sprintf("Data file %s is missing the column(s) %s. It must be %s.",
			e.Path, strings.Join(e.Missing, ", "), format)
	case errors.Is(e.Kind, ErrNoRows):
		return fmt.Sprintf("Data file %s has no row with a usable %s value, so there is nothing to show. It must be %s.",
			e.Path, listing.ColumnRating, format)
	default:
		return fmt.Sprintf("Could not read data file %s (%v). Please make sure '%s' is %s.",
			e.Path, e.Err, name, format)
	}
}
