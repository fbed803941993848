package paging

import (
	"fmt"
	"strings"
)

// Viewport describes the scroll position of the content list in rows.
type Viewport struct {
	Offset        int // first visible row
	Height        int // visible rows
	ContentHeight int // total rows of content
}

// Threshold decides whether a scroll position is close enough to the bottom
// to load the next page. Implementations are monotonic in Offset.
type Threshold interface {
	Reached(v Viewport) bool
}

// ViewportMultiple fires once Offset is within Multiple viewport heights of
// the end of the content.
type ViewportMultiple struct {
	Multiple float64
}

func (t ViewportMultiple) Reached(v Viewport) bool {
	line := float64(v.ContentHeight) - t.Multiple*float64(v.Height)
	return float64(v.Offset) >= line
}

// BottomFraction fires once fewer than Fraction viewport heights of content
// remain below the visible area.
type BottomFraction struct {
	Fraction float64
}

func (t BottomFraction) Reached(v Viewport) bool {
	below := v.ContentHeight - (v.Offset + v.Height)
	return float64(below) <= t.Fraction*float64(v.Height)
}

// Threshold policy names accepted by ParseThreshold.
const (
	ThresholdViewport = "viewport"
	ThresholdFraction = "fraction"
)

// DefaultThreshold matches the web client: two viewport heights from the end.
func DefaultThreshold() Threshold {
	return ViewportMultiple{Multiple: 2}
}

// ParseThreshold builds a policy from its configured name and value.
func ParseThreshold(kind string, value float64) (Threshold, error) {
	if value < 0 {
		return nil, fmt.Errorf("threshold value %v must not be negative", value)
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", ThresholdViewport:
		if value == 0 {
			return DefaultThreshold(), nil
		}
		return ViewportMultiple{Multiple: value}, nil
	case ThresholdFraction:
		return BottomFraction{Fraction: value}, nil
	default:
		return nil, fmt.Errorf("unknown threshold policy %q", kind)
	}
}
