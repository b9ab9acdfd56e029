package chart

// Range summarizes the values and label bounds of a dataset.
type Range struct {
	FirstLabel string  `json:"first_label"`
	LastLabel  string  `json:"last_label"`
	MinValue   float64 `json:"min_value"`
	MaxValue   float64 `json:"max_value"`
	Span       float64 `json:"range"`
}

// AnalyzeRange scans data once in order.
func AnalyzeRange(data Dataset) (Range, error) {
	if data.Len() == 0 {
		return Range{}, ErrEmptyDataset
	}

	first := data.At(0)

	rng := Range{
		FirstLabel: first.Label,
		MinValue:   first.Value,
		MaxValue:   first.Value,
	}

	for _, entry := range data.All() {
		rng.MinValue = min(rng.MinValue, entry.Value)
		rng.MaxValue = max(rng.MaxValue, entry.Value)
		rng.LastLabel = entry.Label
	}

	rng.Span = rng.MaxValue - rng.MinValue

	return rng, nil
}

// Flat reports whether every value is equal. Flat ranges are laid out
// vertically centered.
func (r Range) Flat() bool {
	return r.Span == 0
}
