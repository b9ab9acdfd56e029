// Package chart lays out and draws labeled point and line charts onto a
// caller-supplied drawing surface.
package chart

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// Entry is a single labeled value of a dataset.
type Entry struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Dataset is an ordered sequence of uniquely labeled values. Entry order
// defines the x-axis position of each label and the order in which line
// graphs connect the points.
type Dataset struct {
	entries []Entry
}

// NewDataset validates entries and returns them as a Dataset.
// The slice is copied; later changes to entries do not affect the dataset.
func NewDataset(entries ...Entry) (Dataset, error) {
	if len(entries) == 0 {
		return Dataset{}, ErrEmptyDataset
	}

	seen := make(map[string]struct{}, len(entries))

	for idx, entry := range entries {
		if math.IsNaN(entry.Value) || math.IsInf(entry.Value, 0) {
			return Dataset{}, fmt.Errorf("%w: %q at position %d", ErrInvalidValue, entry.Label, idx)
		}

		if _, dup := seen[entry.Label]; dup {
			return Dataset{}, fmt.Errorf("%w: %q", ErrDuplicateLabel, entry.Label)
		}

		seen[entry.Label] = struct{}{}
	}

	return Dataset{entries: slices.Clone(entries)}, nil
}

// MustDataset is like NewDataset but panics on invalid input.
func MustDataset(entries ...Entry) Dataset {
	data, err := NewDataset(entries...)
	if err != nil {
		panic(err)
	}

	return data
}

// Len returns the number of entries.
func (d Dataset) Len() int { return len(d.entries) }

// At returns the entry at index.
func (d Dataset) At(index int) Entry { return d.entries[index] }

// Entries returns a copy of the entries in order.
func (d Dataset) Entries() []Entry { return slices.Clone(d.entries) }

// Labels returns the labels in order.
func (d Dataset) Labels() []string {
	labels := make([]string, len(d.entries))
	for idx, entry := range d.entries {
		labels[idx] = entry.Label
	}

	return labels
}

// All iterates over the entries with their 0-based rank.
func (d Dataset) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for idx, entry := range d.entries {
			if !yield(idx, entry) {
				return
			}
		}
	}
}
