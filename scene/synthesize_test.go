package scene

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"github.com/kru2710shna/SpaceFigureAI/calibration"
	"github.com/kru2710shna/SpaceFigureAI/detection"
	"github.com/kru2710shna/SpaceFigureAI/elevation"
)

var testScale = calibration.ScaleContext{MetersPerPixel: 0.01}

func TestSynthesizeWall(t *testing.T) {
	dets := []detection.Detection{{Label: "Wall", BBox: []float64{0, 0, 100, 300}}}
	objs, skipped, err := Synthesize(dets, testScale, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, skipped, test.ShouldEqual, 0)
	test.That(t, objs, test.ShouldHaveLength, 1)

	wall := objs[0]
	test.That(t, wall.Kind, test.ShouldEqual, KindBox)
	test.That(t, wall.Category, test.ShouldEqual, CategoryWall)
	// long axis 3 m, thickness max(0.15, 1*0.2) = 0.2, vertical along the bbox
	test.That(t, wall.Size.X, test.ShouldAlmostEqual, 0.2)
	test.That(t, wall.Size.Y, test.ShouldAlmostEqual, 3.0)
	test.That(t, wall.Size.Z, test.ShouldAlmostEqual, 3.0)
	// image center (320, 240) maps to the world origin
	test.That(t, wall.Position.X, test.ShouldAlmostEqual, (50-320)*0.01)
	test.That(t, wall.Position.Z, test.ShouldAlmostEqual, (150-240)*0.01)
	test.That(t, wall.Position.Y, test.ShouldAlmostEqual, 1.5)
	test.That(t, wall.ElevationSource, test.ShouldEqual, ElevationFromDefault)
}

func TestSynthesizeDoorHeight(t *testing.T) {
	dets := []detection.Detection{{Label: "Door", BBox: []float64{10, 50, 40, 250}}}
	objs, _, err := Synthesize(dets, testScale, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, objs, test.ShouldHaveLength, 1)
	// 200 px at 0.01 m/px
	test.That(t, objs[0].Size.Y, test.ShouldAlmostEqual, 2.0)
	test.That(t, objs[0].Size.X, test.ShouldAlmostEqual, 0.06)
	test.That(t, objs[0].Position.Y, test.ShouldAlmostEqual, 1.0)
}

func TestSynthesizeColumn(t *testing.T) {
	dets := []detection.Detection{{Label: "Column", BBox: []float64{0, 0, 40, 40}}}
	objs, _, err := Synthesize(dets, testScale, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	col := objs[0]
	test.That(t, col.Kind, test.ShouldEqual, KindCylinder)
	// radius floor wins over 0.4 * 0.25
	test.That(t, col.Radius, test.ShouldAlmostEqual, 0.15)
	test.That(t, col.Size.X, test.ShouldAlmostEqual, 0.3)
	test.That(t, col.Size.Z, test.ShouldAlmostEqual, 0.3)
	// 0.4 m real height is below the 2 m default minimum
	test.That(t, col.Size.Y, test.ShouldAlmostEqual, 2.0)
	test.That(t, col.Position.Y, test.ShouldAlmostEqual, 1.0)
}

func TestSynthesizeUnknownLabel(t *testing.T) {
	dets := []detection.Detection{{Label: "Mystery Fixture", BBox: []float64{0, 0, 50, 50}}}
	objs, _, err := Synthesize(dets, testScale, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, objs[0].Category, test.ShouldEqual, CategoryDefault)
	test.That(t, objs[0].Kind, test.ShouldEqual, KindBox)
	test.That(t, objs[0].Size.Z, test.ShouldAlmostEqual, 0.1)
}

func TestSynthesizeSkipsMalformed(t *testing.T) {
	dets := []detection.Detection{
		{Label: "Wall", BBox: []float64{0, 0, 100, 300}},
		{Label: "Door"},
		{Label: "Window", BBox: []float64{0, 0, 60, 90}},
	}
	objs, skipped, err := Synthesize(dets, testScale, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, skipped, test.ShouldEqual, 1)
	test.That(t, objs, test.ShouldHaveLength, 2)
	// ordering preserved minus the skipped entry
	test.That(t, objs[0].Label, test.ShouldEqual, "Wall")
	test.That(t, objs[1].Label, test.ShouldEqual, "Window")
}

func TestSynthesizeInvalidScale(t *testing.T) {
	dets := []detection.Detection{{Label: "Wall", BBox: []float64{0, 0, 100, 300}}}
	_, _, err := Synthesize(dets, calibration.ScaleContext{}, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "meters-per-pixel")
}

func TestSynthesizeWithDepthHint(t *testing.T) {
	// bottom half of the image is elevated
	grid, err := elevation.NewGrid([][]float64{{0, 0}, {3, 3}})
	test.That(t, err, test.ShouldBeNil)
	dets := []detection.Detection{{Label: "Wall", BBox: []float64{0, 0, 100, 300}}}
	objs, _, err := Synthesize(dets, testScale, grid, nil)
	test.That(t, err, test.ShouldBeNil)

	wall := objs[0]
	test.That(t, wall.ElevationSource, test.ShouldEqual, ElevationFromDepthHint)
	// footprint covers one low and one high cell, baseline 1.5
	test.That(t, wall.Position.Y, test.ShouldAlmostEqual, 1.5+wall.Size.Y/2)
	test.That(t, wall.Position.Y-wall.Size.Y/2, test.ShouldBeGreaterThanOrEqualTo, 0.)
}

func TestSynthesizePositiveSizesAndFloorResting(t *testing.T) {
	dets := []detection.Detection{
		{Label: "Wall", BBox: []float64{0, 0, 100, 300}},
		{Label: "Door", BBox: []float64{10, 50, 40, 250}},
		{Label: "Window", BBox: []float64{5, 5, 5, 5}}, // degenerate box
		{Label: "Column", BBox: []float64{0, 0, 40, 40}},
		{Label: "Railing", BBox: []float64{0, 200, 300, 210}},
		{Label: "Stair Case", BBox: []float64{100, 100, 160, 190}},
	}
	objs, skipped, err := Synthesize(dets, testScale, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, skipped, test.ShouldEqual, 0)
	test.That(t, objs, test.ShouldHaveLength, len(dets))
	for _, o := range objs {
		test.That(t, o.Size.X, test.ShouldBeGreaterThan, 0.)
		test.That(t, o.Size.Y, test.ShouldBeGreaterThan, 0.)
		test.That(t, o.Size.Z, test.ShouldBeGreaterThan, 0.)
		test.That(t, o.Position.Y-o.Size.Y/2, test.ShouldBeGreaterThanOrEqualTo, -1e-9)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	dets := []detection.Detection{
		{Label: "Wall", BBox: []float64{0, 0, 100, 300}},
		{Label: "Door", BBox: []float64{10, 50, 40, 250}},
		{Label: "Column", BBox: []float64{200, 100, 240, 140}},
	}
	grid, err := elevation.NewGrid([][]float64{{0, 1}, {2, 3}})
	test.That(t, err, test.ShouldBeNil)

	first, _, err := Synthesize(dets, testScale, grid, nil)
	test.That(t, err, test.ShouldBeNil)
	second, _, err := Synthesize(dets, testScale, grid, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmp.Diff(first, second), test.ShouldEqual, "")
}

func TestSynthesizeParallelMatchesSerial(t *testing.T) {
	var dets []detection.Detection
	for i := 0; i < 200; i++ {
		label := []string{"Wall", "Door", "Window", "Column", "Railing"}[i%5]
		x := float64(i % 20 * 30)
		y := float64(i / 20 * 20)
		dets = append(dets, detection.Detection{
			Label: label,
			BBox:  []float64{x, y, x + 25, y + float64(10+i%40)},
		})
		if i%17 == 0 {
			dets = append(dets, detection.Detection{Label: fmt.Sprintf("bad-%d", i)})
		}
	}
	grid, err := elevation.NewGrid([][]float64{{0, 1, 2}, {1, 2, 3}, {2, 3, 4}})
	test.That(t, err, test.ShouldBeNil)

	origThreshold, origFactor := parallelThreshold, parallelFactor
	defer func() { parallelThreshold, parallelFactor = origThreshold, origFactor }()

	parallelThreshold, parallelFactor = 1, 4
	parallel, skippedPar, err := Synthesize(dets, testScale, grid, nil)
	test.That(t, err, test.ShouldBeNil)

	parallelThreshold = len(dets) + 1
	serial, skippedSer, err := Synthesize(dets, testScale, grid, nil)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, skippedPar, test.ShouldEqual, skippedSer)
	test.That(t, cmp.Diff(parallel, serial), test.ShouldEqual, "")
}

func TestCategoryForLabel(t *testing.T) {
	cases := map[string]Category{
		"Wall":         CategoryWall,
		"Curtain Wall": CategoryCurtainWall,
		"Door":         CategoryDoor,
		"Sliding Door": CategorySlidingDoor,
		"Window":       CategoryWindow,
		"Column":       CategoryColumn,
		"Railing":      CategoryRailing,
		"Stair Case":   CategoryStair,
		"stair":        CategoryStair,
		"Dimension":    CategoryDefault,
		"":             CategoryDefault,
	}
	for label, want := range cases {
		test.That(t, CategoryForLabel(label), test.ShouldEqual, want)
	}
}
