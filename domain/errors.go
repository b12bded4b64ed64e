package domain

import "errors"

var (
	// ErrCatalogUnavailable means the catalog store failed during initial
	// candidate retrieval. Without ids there is nothing to interleave, so this
	// is the one failure that aborts a feed request.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	ErrProductNotFound = errors.New("product not found")
)
