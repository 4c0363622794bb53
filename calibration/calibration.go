// Package calibration establishes a pixel-to-metric conversion factor from a
// reference detection of known real-world size, or from a manual override.
package calibration

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/kru2710shna/SpaceFigureAI/detection"
)

// DefaultReferenceRealHeightMeters is the assumed real height of the
// reference element when the caller does not configure one. Interior walls
// run about 3 meters floor to ceiling.
const DefaultReferenceRealHeightMeters = 3.0

// ScaleContext carries the meters-per-pixel conversion factor for one
// detection batch. MetersPerPixel is always positive.
type ScaleContext struct {
	MetersPerPixel float64 `json:"meters_per_pixel"`
}

// Config holds the optional parameters for scale calibration.
type Config struct {
	// ReferenceMatcher selects the reference detection by label. Defaults to
	// a case-insensitive substring match on "wall".
	ReferenceMatcher func(label string) bool
	// ReferenceRealHeightMeters is the known real height of the reference
	// element. Defaults to DefaultReferenceRealHeightMeters.
	ReferenceRealHeightMeters float64
}

// DefaultReferenceMatcher matches any label containing "wall",
// case-insensitively.
func DefaultReferenceMatcher(label string) bool {
	return strings.Contains(strings.ToLower(label), "wall")
}

func (c *Config) fillDefaults() Config {
	filled := Config{
		ReferenceMatcher:          DefaultReferenceMatcher,
		ReferenceRealHeightMeters: DefaultReferenceRealHeightMeters,
	}
	if c == nil {
		return filled
	}
	if c.ReferenceMatcher != nil {
		filled.ReferenceMatcher = c.ReferenceMatcher
	}
	if c.ReferenceRealHeightMeters > 0 {
		filled.ReferenceRealHeightMeters = c.ReferenceRealHeightMeters
	}
	return filled
}

// CalibrateScale derives the meters-per-pixel factor from the first
// detection, in input order, whose label satisfies the reference matcher.
// When multiple candidates exist the first wins; candidates are never
// averaged. Fails with a CalibrationError if no reference is found or the
// reference box has zero pixel height.
func CalibrateScale(dets []detection.Detection, cfg *Config) (ScaleContext, error) {
	conf := cfg.fillDefaults()
	for i := range dets {
		d := &dets[i]
		if !conf.ReferenceMatcher(d.Label) {
			continue
		}
		if !d.HasBBox() {
			return ScaleContext{}, newCalibrationError(
				fmt.Sprintf("reference detection %d (%s) has no usable bounding box", i, d.Label))
		}
		pixelHeight := d.PixelHeight()
		if pixelHeight == 0 {
			return ScaleContext{}, newCalibrationError(
				fmt.Sprintf("reference detection %d (%s) has zero pixel height", i, d.Label))
		}
		return ScaleContext{MetersPerPixel: conf.ReferenceRealHeightMeters / pixelHeight}, nil
	}
	return ScaleContext{}, newCalibrationError("no reference detection found")
}

// NewScaleContext builds a manual scale override from a meters-per-pixel
// factor.
func NewScaleContext(metersPerPixel float64) (ScaleContext, error) {
	if !(metersPerPixel > 0) || math.IsInf(metersPerPixel, 0) {
		return ScaleContext{}, errors.Errorf("meters-per-pixel must be a positive finite number, got %v", metersPerPixel)
	}
	return ScaleContext{MetersPerPixel: metersPerPixel}, nil
}

// NewScaleContextFromPixelsPerMeter builds a manual scale override from the
// inverse factor, pixels-per-meter.
func NewScaleContextFromPixelsPerMeter(pixelsPerMeter float64) (ScaleContext, error) {
	if !(pixelsPerMeter > 0) || math.IsInf(pixelsPerMeter, 0) {
		return ScaleContext{}, errors.Errorf("pixels-per-meter must be a positive finite number, got %v", pixelsPerMeter)
	}
	return ScaleContext{MetersPerPixel: 1.0 / pixelsPerMeter}, nil
}
