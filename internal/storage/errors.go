package storage

import "errors"

// MaxBatchWrites is the largest number of writes one batch may carry.
const MaxBatchWrites = 500

var (
	ErrNotFound      = errors.New("document not found")
	ErrConflict      = errors.New("document already exists")
	ErrBatchTooLarge = errors.New("batch exceeds the maximum number of writes")
	ErrNotLoaded     = errors.New("storage not loaded")
)
