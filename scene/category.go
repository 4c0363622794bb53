package scene

import (
	"strings"
)

// Category is the architectural element class a detection label maps to.
// Unknown labels take CategoryDefault rather than silently falling through
// with no policy.
type Category int

// The recognized architectural categories.
const (
	CategoryDefault Category = iota
	CategoryWall
	CategoryCurtainWall
	CategoryDoor
	CategorySlidingDoor
	CategoryWindow
	CategoryColumn
	CategoryRailing
	CategoryStair
)

func (c Category) String() string {
	switch c {
	case CategoryWall:
		return "wall"
	case CategoryCurtainWall:
		return "curtain_wall"
	case CategoryDoor:
		return "door"
	case CategorySlidingDoor:
		return "sliding_door"
	case CategoryWindow:
		return "window"
	case CategoryColumn:
		return "column"
	case CategoryRailing:
		return "railing"
	case CategoryStair:
		return "stair"
	default:
		return "default"
	}
}

// categoryPolicy is the per-category synthesis policy: the element's
// real-world thickness, the minimum volume height enforced when the scaled
// bbox height comes out smaller, and the geometric primitive used.
type categoryPolicy struct {
	thicknessMeters  float64
	defaultMinHeight float64
	cylinder         bool
}

var categoryPolicies = map[Category]categoryPolicy{
	CategoryWall:        {thicknessMeters: 0.15},
	CategoryCurtainWall: {thicknessMeters: 0.12},
	CategoryDoor:        {thicknessMeters: 0.06},
	CategorySlidingDoor: {thicknessMeters: 0.06},
	CategoryWindow:      {thicknessMeters: 0.08},
	CategoryColumn:      {thicknessMeters: 0.30, defaultMinHeight: 2.0, cylinder: true},
	CategoryRailing:     {thicknessMeters: 0.05},
	CategoryStair:       {thicknessMeters: 0.25, defaultMinHeight: 2.0},
	CategoryDefault:     {thicknessMeters: 0.10},
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// CategoryForLabel maps a detector label to its category. Matching is
// case-insensitive and substring tolerant, so "Stair Case" maps to stair and
// "Sliding Door" to sliding door. The compound categories are tested before
// their substrings.
func CategoryForLabel(label string) Category {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "curtain"):
		return CategoryCurtainWall
	case strings.Contains(l, "sliding"):
		return CategorySlidingDoor
	case strings.Contains(l, "wall"):
		return CategoryWall
	case strings.Contains(l, "door"):
		return CategoryDoor
	case strings.Contains(l, "window"):
		return CategoryWindow
	case strings.Contains(l, "column"):
		return CategoryColumn
	case strings.Contains(l, "railing"):
		return CategoryRailing
	case strings.Contains(l, "stair"):
		return CategoryStair
	default:
		return CategoryDefault
	}
}
