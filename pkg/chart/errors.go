package chart

import "errors"

// Sentinel errors returned by chart construction and drawing.
var (
	// ErrMount indicates the host could not resolve or attach a drawing surface.
	ErrMount = errors.New("cannot mount chart surface")
	// ErrEmptyDataset indicates a dataset with no entries.
	ErrEmptyDataset = errors.New("dataset must contain at least one entry")
	// ErrDuplicateLabel indicates two entries share a label.
	ErrDuplicateLabel = errors.New("duplicate dataset label")
	// ErrInvalidValue indicates a NaN or infinite value.
	ErrInvalidValue = errors.New("dataset value must be finite")
	// ErrUnknownVariant indicates an unsupported chart type.
	ErrUnknownVariant = errors.New("unknown chart type")
	// ErrInvalidOption indicates an option with the wrong type or an out-of-range value.
	ErrInvalidOption = errors.New("invalid chart option")
)
