package corpus

import "errors"

var (
	// ErrDependencyUnavailable is returned when the similarity index or
	// embedding provider cannot be reached at construction time.
	ErrDependencyUnavailable = errors.New("corpus dependency unavailable")

	// ErrDuplicateReference is returned when a reference with the same
	// title (and therefore the same ref_id) is already cataloged.
	ErrDuplicateReference = errors.New("reference already exists")

	// ErrAuthorNotFound is returned by library imports when a named author
	// subfolder does not exist.
	ErrAuthorNotFound = errors.New("author folder not found")

	// ErrInconsistent is returned when the similarity index and the catalog
	// could not be brought back in sync after a partial failure. Manual
	// repair (remove and re-add the reference, or clear) is required.
	ErrInconsistent = errors.New("index and catalog are inconsistent")
)
