package scene

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/kru2710shna/SpaceFigureAI/detection"
)

func TestFrameEmptyScene(t *testing.T) {
	_, err := Frame(nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsEmptySceneError(err), test.ShouldBeTrue)

	_, err = Frame([]Object{}, nil)
	test.That(t, IsEmptySceneError(err), test.ShouldBeTrue)
}

func TestFrameSingleObject(t *testing.T) {
	objs := []Object{{
		Label:    "Wall",
		Position: r3.Vector{X: 1, Y: 1.5, Z: -2},
		Size:     r3.Vector{X: 0.2, Y: 3, Z: 4},
	}}
	bounds, err := Frame(objs, nil)
	test.That(t, err, test.ShouldBeNil)
	// bounds come out of max.Sub(min), compare within float tolerance
	test.That(t, bounds.Center.X, test.ShouldAlmostEqual, 1.)
	test.That(t, bounds.Center.Y, test.ShouldAlmostEqual, 1.5)
	test.That(t, bounds.Center.Z, test.ShouldAlmostEqual, -2.)
	test.That(t, bounds.Size.X, test.ShouldAlmostEqual, 0.2)
	test.That(t, bounds.Size.Y, test.ShouldAlmostEqual, 3.)
	test.That(t, bounds.Size.Z, test.ShouldAlmostEqual, 4.)
	// max extent 4, default multiplier 1.8
	test.That(t, bounds.CameraPosition.X, test.ShouldAlmostEqual, 1+7.2)
	test.That(t, bounds.CameraPosition.Y, test.ShouldAlmostEqual, 1.5+7.2*0.6)
	test.That(t, bounds.CameraPosition.Z, test.ShouldAlmostEqual, -2+7.2)
	test.That(t, bounds.CameraTarget, test.ShouldResemble, bounds.Center)
}

func TestFrameCameraDistanceMultiplier(t *testing.T) {
	objs := []Object{{Position: r3.Vector{}, Size: r3.Vector{X: 2, Y: 1, Z: 1}}}
	bounds, err := Frame(objs, &Config{CameraDistanceMultiplier: 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bounds.CameraPosition.X, test.ShouldAlmostEqual, 6.)
	test.That(t, bounds.CameraPosition.Y, test.ShouldAlmostEqual, 3.6)
}

func TestFrameContainsAllObjects(t *testing.T) {
	dets := []detection.Detection{
		{Label: "Wall", BBox: []float64{0, 0, 100, 300}},
		{Label: "Door", BBox: []float64{500, 50, 540, 250}},
		{Label: "Column", BBox: []float64{300, 400, 340, 440}},
		{Label: "Railing", BBox: []float64{0, 460, 600, 470}},
	}
	objs, _, err := Synthesize(dets, testScale, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	bounds, err := Frame(objs, nil)
	test.That(t, err, test.ShouldBeNil)

	lo := bounds.Center.Sub(bounds.Size.Mul(0.5))
	hi := bounds.Center.Add(bounds.Size.Mul(0.5))
	for _, o := range objs {
		omin, omax := o.AABB()
		test.That(t, omin.X, test.ShouldBeGreaterThanOrEqualTo, lo.X-1e-9)
		test.That(t, omin.Y, test.ShouldBeGreaterThanOrEqualTo, lo.Y-1e-9)
		test.That(t, omin.Z, test.ShouldBeGreaterThanOrEqualTo, lo.Z-1e-9)
		test.That(t, omax.X, test.ShouldBeLessThanOrEqualTo, hi.X+1e-9)
		test.That(t, omax.Y, test.ShouldBeLessThanOrEqualTo, hi.Y+1e-9)
		test.That(t, omax.Z, test.ShouldBeLessThanOrEqualTo, hi.Z+1e-9)
	}
}
