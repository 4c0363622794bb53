// Package detection holds the pixel-space detection records produced by the
// external object detector, plus decoding and filtering helpers for the JSON
// wire format the detector emits.
package detection

import (
	"encoding/json"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// A Detection is one labeled rectangular region in source-image pixel
// coordinates. BBox holds [x1,y1,x2,y2]; x2>=x1 and y2>=y1 are typical but
// not required, consumers take absolute differences. A nil or short BBox
// means the detector produced no usable box for this record.
type Detection struct {
	Label       string
	BBox        []float64
	Confidence  float64
	ImageWidth  int
	ImageHeight int
}

type detectionJSON struct {
	Label      string    `json:"label"`
	BBox       []float64 `json:"bbox_xyxy,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	ImageSize  []int     `json:"image_size,omitempty"`
}

// UnmarshalJSON decodes the detector agent's wire format, including the
// optional image_size: [w,h] pair.
func (d *Detection) UnmarshalJSON(data []byte) error {
	var dj detectionJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return err
	}
	d.Label = dj.Label
	d.BBox = dj.BBox
	d.Confidence = dj.Confidence
	if len(dj.ImageSize) == 2 {
		d.ImageWidth = dj.ImageSize[0]
		d.ImageHeight = dj.ImageSize[1]
	}
	return nil
}

// MarshalJSON emits the same wire format the detector produces.
func (d Detection) MarshalJSON() ([]byte, error) {
	dj := detectionJSON{Label: d.Label, BBox: d.BBox, Confidence: d.Confidence}
	if d.ImageWidth > 0 && d.ImageHeight > 0 {
		dj.ImageSize = []int{d.ImageWidth, d.ImageHeight}
	}
	return json.Marshal(dj)
}

// HasBBox reports whether the detection carries a usable bounding box:
// exactly four finite coordinates.
func (d *Detection) HasBBox() bool {
	if len(d.BBox) != 4 {
		return false
	}
	for _, v := range d.BBox {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// PixelWidth returns the horizontal extent of the bounding box in pixels.
func (d *Detection) PixelWidth() float64 {
	return math.Abs(d.BBox[2] - d.BBox[0])
}

// PixelHeight returns the vertical extent of the bounding box in pixels.
func (d *Detection) PixelHeight() float64 {
	return math.Abs(d.BBox[3] - d.BBox[1])
}

// PixelCenter returns the center point of the bounding box in pixels.
func (d *Detection) PixelCenter() (float64, float64) {
	return (d.BBox[0] + d.BBox[2]) * 0.5, (d.BBox[1] + d.BBox[3]) * 0.5
}

// DecodeAll reads a JSON array of detections from r.
func DecodeAll(r io.Reader) ([]Detection, error) {
	var dets []Detection
	if err := json.NewDecoder(r).Decode(&dets); err != nil {
		return nil, errors.Wrap(err, "cannot decode detections")
	}
	return dets, nil
}

// Filter filters/modifies an incoming array of Detections.
type Filter func([]Detection) []Detection

// NewLabelFilter returns a function that keeps only detections whose label
// matches one of the given labels, case-insensitively. Input order is
// preserved.
func NewLabelFilter(labels ...string) Filter {
	keep := make(map[string]bool, len(labels))
	for _, l := range labels {
		keep[strings.ToLower(l)] = true
	}
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if keep[strings.ToLower(d.Label)] {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewMinAreaFilter returns a function that filters out detections whose
// bounding box area is below the given pixel area. Detections without a
// usable box are filtered out as well.
func NewMinAreaFilter(areaPx float64) Filter {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for i := range in {
			d := in[i]
			if d.HasBBox() && d.PixelWidth()*d.PixelHeight() >= areaPx {
				out = append(out, d)
			}
		}
		return out
	}
}
