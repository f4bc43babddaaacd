package hclust

import "errors"

// Sentinel errors. Functions wrap them with context; match with errors.Is.
var (
	// ErrMalformedMatrix is returned when a distance matrix is not square,
	// contains a negative or NaN entry, or cannot be parsed.
	ErrMalformedMatrix = errors.New("hclust: malformed distance matrix")

	// ErrMissingInput is returned when a referenced input file does not exist.
	ErrMissingInput = errors.New("hclust: missing input")

	// ErrMismatchedLoad is returned when the matrix supplied to Load does not
	// match the leaf count stored in the snapshot.
	ErrMismatchedLoad = errors.New("hclust: matrix does not match snapshot")

	// ErrCorruptSnapshot is returned when a snapshot decodes but does not
	// describe a valid merge tree.
	ErrCorruptSnapshot = errors.New("hclust: corrupt snapshot")

	// ErrUnknownLinkage is returned for a linkage id outside the supported set.
	ErrUnknownLinkage = errors.New("hclust: unknown linkage")

	// ErrNameCount is returned when the number of names differs from the
	// matrix size.
	ErrNameCount = errors.New("hclust: name count does not match matrix size")

	// ErrInvalidConfig is returned by Build and Load for an invalid Config.
	ErrInvalidConfig = errors.New("hclust: invalid config")
)
