package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrMissingColumn = errors.New("dataset is missing a required column")
	ErrReadDataset   = errors.New("failed to read dataset")
	ErrNotLoaded     = errors.New("dataset not loaded")
)
