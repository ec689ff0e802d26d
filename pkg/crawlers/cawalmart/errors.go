package cawalmart

import (
	"errors"
	"fmt"
)

var (
	// ErrStateMarkerNotFound means no script on the product page carried the
	// preloaded state marker, usually a page shape change upstream.
	ErrStateMarkerNotFound = errors.New("preloaded state marker not found")

	// ErrMissingEntity means the active sku has no entry in the page state's
	// entity table.
	ErrMissingEntity = errors.New("sku missing from entity table")

	// ErrMissingCategory means the primary category hierarchy is empty.
	ErrMissingCategory = errors.New("empty category hierarchy")

	// ErrIncompleteAvailability means the availability list matched the
	// target branch but the entry lacks a price or stock field.
	ErrIncompleteAvailability = errors.New("matched branch entry missing price or stock")

	// ErrNoBranchMatch means the target branch id is absent from the
	// availability list.
	ErrNoBranchMatch = errors.New("branch not present in availability list")
)

// ExtractionError wraps a failure to locate or decode the embedded page
// state. The affected product is dropped, the crawl continues.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract page state from %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
