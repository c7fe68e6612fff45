package model

import "github.com/pkg/errors"

var (
	// ErrInvalidDimensions is returned when a population is built with rows or columns < 1
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrOutOfBounds is returned by queries addressing a cell outside the grid
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrInvalidPattern is returned when pattern text cannot be decoded into a grid
	ErrInvalidPattern = errors.New("invalid pattern")
)
