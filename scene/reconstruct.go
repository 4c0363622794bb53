// Package scene turns pixel-space detections into a metrically-scaled 3D
// scene description: positioned volumes plus an auto-framed camera. The
// whole pipeline is a pure function of its inputs and holds no state across
// invocations.
package scene

import (
	"encoding/json"

	"go.uber.org/multierr"

	"github.com/kru2710shna/SpaceFigureAI/calibration"
	"github.com/kru2710shna/SpaceFigureAI/detection"
	"github.com/kru2710shna/SpaceFigureAI/elevation"
)

// Result is one complete reconstruction. Objects preserve detection input
// order minus skipped entries; Skipped counts detections dropped for lacking
// a usable bounding box, with the per-detection detail in SkipDetail.
type Result struct {
	Objects        []Object
	Bounds         Bounds
	Skipped        int
	SkipDetail     error
	MetersPerPixel float64
	Elevation      *elevation.Summary
}

// MarshalJSON encodes the result in the lower-camel shape the render layer
// consumes.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Objects        []Object           `json:"objects"`
		Bounds         Bounds             `json:"bounds"`
		Skipped        int                `json:"skipped"`
		MetersPerPixel float64            `json:"metersPerPixel"`
		Elevation      *elevation.Summary `json:"elevation,omitempty"`
	}{
		Objects:        r.Objects,
		Bounds:         r.Bounds,
		Skipped:        r.Skipped,
		MetersPerPixel: r.MetersPerPixel,
		Elevation:      r.Elevation,
	}
	return json.Marshal(out)
}

// Reconstruct runs the full pipeline: calibrate a scale from the detections,
// normalize the elevation grid when one is supplied, synthesize a volume per
// detection, and frame the scene. Calibration failure or an empty scene
// aborts the whole call; no partial result is returned. grid and cfg may be
// nil.
func Reconstruct(dets []detection.Detection, grid *elevation.Grid, cfg *Config) (*Result, error) {
	conf := cfg.fillDefaults()
	scale, err := calibration.CalibrateScale(dets, conf.calibrationConfig())
	if err != nil {
		return nil, err
	}
	return reconstructWithScale(dets, scale, grid, &conf)
}

// ReconstructWithScale runs the pipeline with a manual scale override,
// bypassing reference calibration.
func ReconstructWithScale(
	dets []detection.Detection,
	scale calibration.ScaleContext,
	grid *elevation.Grid,
	cfg *Config,
) (*Result, error) {
	conf := cfg.fillDefaults()
	return reconstructWithScale(dets, scale, grid, &conf)
}

func reconstructWithScale(
	dets []detection.Detection,
	scale calibration.ScaleContext,
	grid *elevation.Grid,
	conf *Config,
) (*Result, error) {
	var normalized *elevation.Grid
	var summary *elevation.Summary
	if grid.HasData() {
		normalized = elevation.Normalize(grid, conf.TargetMaxElevationMeters)
		s := elevation.Summarize(normalized)
		summary = &s
	}

	syn, err := synthesizeAll(dets, scale, normalized, conf)
	if err != nil {
		return nil, err
	}
	bounds, err := Frame(syn.objects, conf)
	if err != nil {
		return nil, err
	}
	return &Result{
		Objects:        syn.objects,
		Bounds:         bounds,
		Skipped:        len(multierr.Errors(syn.skipErr)),
		SkipDetail:     syn.skipErr,
		MetersPerPixel: scale.MetersPerPixel,
		Elevation:      summary,
	}, nil
}
