package chart

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// LabelFontSize is the pixel size axis labels are rendered at.
const LabelFontSize = 10

const ellipsis = "..."

// MeasureLabel returns the rendered width of s at LabelFontSize. The fixed
// 7x13 face is scaled to the target size, which tracks a proportional sans
// face closely enough for truncation.
func MeasureLabel(s string) float64 {
	w := font.MeasureString(basicfont.Face7x13, s).Ceil()
	return float64(w) * LabelFontSize / float64(basicfont.Face7x13.Height)
}

// TruncateLabel shortens s so that it fits into maxWidth pixels, marking a
// cut with an ellipsis. Labels that already fit are returned unchanged. If
// not even the ellipsis fits, it is returned alone.
func TruncateLabel(s string, maxWidth float64) string {
	if MeasureLabel(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if MeasureLabel(string(runes[:mid])+ellipsis) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + ellipsis
}

// TruncateLabels applies TruncateLabel to every label.
func TruncateLabels(labels []string, maxWidth float64) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = TruncateLabel(l, maxWidth)
	}
	return out
}
