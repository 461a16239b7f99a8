package domain

// PeriodRange is an inclusive year interval in domain space.
type PeriodRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether year lies inside the range, bounds included.
func (r PeriodRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// PixelSpan is a brushed interval in view space.
type PixelSpan struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Normalized returns the span with Start <= End.
func (s PixelSpan) Normalized() PixelSpan {
	if s.Start > s.End {
		return PixelSpan{Start: s.End, End: s.Start}
	}
	return s
}

// FilterState is the user-controlled part of a page.
// Nil pointers and an empty SelectedEntity mean "nothing active".
type FilterState struct {
	PeriodRange    *PeriodRange `json:"periodRange"`
	BrushSpan      *PixelSpan   `json:"brushSpan"`
	SelectedEntity string       `json:"selectedEntity,omitempty"`
}

// EqualPeriodRange compares two optional ranges by value.
func EqualPeriodRange(a, b *PeriodRange) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// EqualPixelSpan compares two optional spans by value.
func EqualPixelSpan(a, b *PixelSpan) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
