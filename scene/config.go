package scene

import (
	"github.com/edaniels/golog"
	"github.com/mitchellh/mapstructure"

	"github.com/kru2710shna/SpaceFigureAI/calibration"
)

// Default framing and sizing parameters.
const (
	DefaultImageWidth               = 640
	DefaultImageHeight              = 480
	DefaultTargetMaxElevationMeters = 3.0
	DefaultCameraDistanceMultiplier = 1.8
	// DefaultMinDimensionMeters is the floor for every volume dimension, so
	// degenerate boxes never produce zero or negative sizes.
	DefaultMinDimensionMeters = 0.01
)

// Config holds the optional parameters of a reconstruction. The zero value
// (or nil) means all defaults.
type Config struct {
	// ImageWidth/ImageHeight are the source image dimensions used when the
	// detections themselves do not carry one.
	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`
	// ReferenceLabel selects the calibration reference by case-insensitive
	// substring match. Default "wall".
	ReferenceLabel string `json:"reference_label"`
	// ReferenceRealHeightMeters is the known real height of the calibration
	// reference.
	ReferenceRealHeightMeters float64 `json:"reference_real_height_m"`
	// TargetMaxElevationMeters bounds the normalized elevation grid.
	TargetMaxElevationMeters float64 `json:"target_max_elevation_m"`
	// CameraDistanceMultiplier scales the auto-framed camera's distance from
	// the scene center relative to the scene's largest extent.
	CameraDistanceMultiplier float64 `json:"camera_distance_multiplier"`
	// MinDimensionMeters overrides the minimum volume dimension.
	MinDimensionMeters float64 `json:"min_dimension_m"`
	// ThicknessMeters overrides per-category thickness, keyed by category
	// name ("wall", "door", ...).
	ThicknessMeters map[string]float64 `json:"thickness_m"`
	// DefaultHeightMeters overrides the per-category minimum volume height.
	DefaultHeightMeters map[string]float64 `json:"default_height_m"`

	// Logger, when set, receives debug diagnostics about skipped detections.
	Logger golog.Logger `json:"-"`
}

// ConvertAttributes decodes a loosely-typed attribute map into the config.
func (c *Config) ConvertAttributes(am map[string]interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: c})
	if err != nil {
		return err
	}
	return decoder.Decode(am)
}

func (c *Config) fillDefaults() Config {
	var filled Config
	if c != nil {
		filled = *c
	}
	if filled.ImageWidth <= 0 {
		filled.ImageWidth = DefaultImageWidth
	}
	if filled.ImageHeight <= 0 {
		filled.ImageHeight = DefaultImageHeight
	}
	if filled.TargetMaxElevationMeters <= 0 {
		filled.TargetMaxElevationMeters = DefaultTargetMaxElevationMeters
	}
	if filled.CameraDistanceMultiplier <= 0 {
		filled.CameraDistanceMultiplier = DefaultCameraDistanceMultiplier
	}
	if filled.MinDimensionMeters <= 0 {
		filled.MinDimensionMeters = DefaultMinDimensionMeters
	}
	return filled
}

func (c *Config) calibrationConfig() *calibration.Config {
	conf := &calibration.Config{ReferenceRealHeightMeters: c.ReferenceRealHeightMeters}
	if c.ReferenceLabel != "" {
		label := c.ReferenceLabel
		conf.ReferenceMatcher = func(l string) bool {
			return containsFold(l, label)
		}
	}
	return conf
}

func (c *Config) thicknessFor(cat Category) float64 {
	if v, ok := c.ThicknessMeters[cat.String()]; ok && v > 0 {
		return v
	}
	return categoryPolicies[cat].thicknessMeters
}

func (c *Config) defaultMinHeightFor(cat Category) float64 {
	if v, ok := c.DefaultHeightMeters[cat.String()]; ok && v > 0 {
		return v
	}
	return categoryPolicies[cat].defaultMinHeight
}

// imageSizeFor resolves the image dimensions for one detection, preferring
// the size the detector attached to the record.
func (c *Config) imageSizeFor(w, h int) (int, int) {
	if w > 0 && h > 0 {
		return w, h
	}
	return c.ImageWidth, c.ImageHeight
}
