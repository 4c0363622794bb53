package scene

import (
	"runtime"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/kru2710shna/SpaceFigureAI/calibration"
	"github.com/kru2710shna/SpaceFigureAI/detection"
	"github.com/kru2710shna/SpaceFigureAI/elevation"
	"github.com/kru2710shna/SpaceFigureAI/utils"
)

const (
	cylinderMinRadiusMeters = 0.15
	cylinderRadiusShare     = 0.25
	thicknessShortAxisShare = 0.2
)

// parallelThreshold is the batch size at which per-detection synthesis is
// partitioned across workers. Detections have no data dependency on each
// other and results are written back by original index, so the parallel and
// serial paths produce identical output.
var (
	parallelThreshold = 64
	parallelFactor    = runtime.GOMAXPROCS(0)
)

// Synthesize converts each detection into a positioned volume using the
// given scale factor and, when supplied, the normalized elevation grid for
// vertical placement. Detections without a usable bounding box are skipped,
// not fatal; the skip count is returned alongside the objects. Output
// preserves input order minus the skipped entries.
func Synthesize(
	dets []detection.Detection,
	scale calibration.ScaleContext,
	grid *elevation.Grid,
	cfg *Config,
) ([]Object, int, error) {
	conf := cfg.fillDefaults()
	syn, err := synthesizeAll(dets, scale, grid, &conf)
	if err != nil {
		return nil, 0, err
	}
	return syn.objects, len(multierr.Errors(syn.skipErr)), nil
}

// synthesis is the outcome of one synthesis pass: the surviving objects plus
// the aggregated per-detection skip errors (nil when nothing was skipped).
type synthesis struct {
	objects []Object
	skipErr error
}

func synthesizeAll(
	dets []detection.Detection,
	scale calibration.ScaleContext,
	grid *elevation.Grid,
	conf *Config,
) (*synthesis, error) {
	if !(scale.MetersPerPixel > 0) {
		return nil, errors.Errorf("meters-per-pixel must be positive, got %v", scale.MetersPerPixel)
	}

	results := make([]*Object, len(dets))
	work := func(i int) {
		d := &dets[i]
		if !d.HasBBox() {
			return
		}
		obj := synthesizeOne(d, scale.MetersPerPixel, grid, conf)
		results[i] = &obj
	}

	if len(dets) >= parallelThreshold && parallelFactor > 1 {
		groupWorkParallel(len(dets), work)
	} else {
		for i := range dets {
			work(i)
		}
	}

	syn := &synthesis{objects: make([]Object, 0, len(dets))}
	for i := range dets {
		if results[i] == nil {
			syn.skipErr = multierr.Append(syn.skipErr, detection.NewMalformedDetectionError(i, dets[i].Label))
			if conf.Logger != nil {
				conf.Logger.Debugw("skipping detection without usable bbox", "index", i, "label", dets[i].Label)
			}
			continue
		}
		syn.objects = append(syn.objects, *results[i])
	}
	return syn, nil
}

// groupWorkParallel splits [0, total) into contiguous ranges, one per
// worker.
func groupWorkParallel(total int, work func(i int)) {
	numGroups := parallelFactor
	if numGroups > total {
		numGroups = total
	}
	groupSize := total / numGroups
	extra := total % numGroups

	var wait sync.WaitGroup
	wait.Add(numGroups)
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		from := groupNum * groupSize
		to := from + groupSize
		if groupNum == numGroups-1 {
			to += extra
		}
		fromCopy, toCopy := from, to
		goutils.PanicCapturingGo(func() {
			defer wait.Done()
			for i := fromCopy; i < toCopy; i++ {
				work(i)
			}
		})
	}
	wait.Wait()
}

func synthesizeOne(det *detection.Detection, metersPerPixel float64, grid *elevation.Grid, conf *Config) Object {
	widthM := det.PixelWidth() * metersPerPixel
	heightM := det.PixelHeight() * metersPerPixel

	// the image center maps to the world origin on the horizontal plane,
	// with image rows along world Z
	imgW, imgH := conf.imageSizeFor(det.ImageWidth, det.ImageHeight)
	cx, cy := det.PixelCenter()
	offsetX := (cx - float64(imgW)*0.5) * metersPerPixel
	offsetZ := (cy - float64(imgH)*0.5) * metersPerPixel

	cat := CategoryForLabel(det.Label)
	minDim := conf.MinDimensionMeters
	volumeHeight := utils.MaxF(utils.MaxF(heightM, conf.defaultMinHeightFor(cat)), minDim)

	obj := Object{Label: det.Label, Category: cat}
	if categoryPolicies[cat].cylinder {
		radius := utils.MaxF(cylinderMinRadiusMeters, utils.MinF(widthM, heightM)*cylinderRadiusShare)
		obj.Kind = KindCylinder
		obj.Radius = radius
		obj.Size = r3.Vector{X: 2 * radius, Y: volumeHeight, Z: 2 * radius}
	} else {
		length := utils.MaxF(utils.MaxF(widthM, heightM), minDim)
		shortAxisM := utils.MinF(widthM, heightM)
		thickness := utils.MaxF(utils.MaxF(conf.thicknessFor(cat), shortAxisM*thicknessShortAxisShare), minDim)
		obj.Kind = KindBox
		if widthM >= heightM {
			obj.Size = r3.Vector{X: length, Y: volumeHeight, Z: thickness}
		} else {
			obj.Size = r3.Vector{X: thickness, Y: volumeHeight, Z: length}
		}
	}

	// floor baseline: a sampled depth hint when a grid is present, the
	// category rest rule otherwise
	baseline := 0.0
	obj.ElevationSource = ElevationFromDefault
	if grid.HasData() {
		baseline = utils.MaxF(0, elevation.RegionMean(grid, det.BBox, imgW, imgH))
		obj.ElevationSource = ElevationFromDepthHint
	}
	obj.Position = r3.Vector{X: offsetX, Y: baseline + obj.Size.Y*0.5, Z: offsetZ}
	return obj
}
