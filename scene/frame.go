package scene

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/kru2710shna/SpaceFigureAI/utils"
)

// Bounds is the axis-aligned bounding volume of a synthesized scene plus the
// camera that frames it.
type Bounds struct {
	Center         r3.Vector
	Size           r3.Vector
	CameraPosition r3.Vector
	CameraTarget   r3.Vector
}

// MarshalJSON encodes the bounds in the lower-camel shape the render layer
// consumes.
func (b Bounds) MarshalJSON() ([]byte, error) {
	out := struct {
		Center         vectorJSON `json:"center"`
		Size           vectorJSON `json:"size"`
		CameraPosition vectorJSON `json:"cameraPosition"`
		CameraTarget   vectorJSON `json:"cameraTarget"`
	}{
		Center:         toVectorJSON(b.Center),
		Size:           toVectorJSON(b.Size),
		CameraPosition: toVectorJSON(b.CameraPosition),
		CameraTarget:   toVectorJSON(b.CameraTarget),
	}
	return json.Marshal(out)
}

type emptySceneError struct{}

func (e *emptySceneError) Error() string {
	return "cannot frame an empty scene: no objects survived synthesis"
}

// NewEmptySceneError returns the error raised when zero objects are
// available to frame.
func NewEmptySceneError() error {
	return &emptySceneError{}
}

// IsEmptySceneError reports whether any error in err's chain marks an empty
// scene.
func IsEmptySceneError(err error) bool {
	var target *emptySceneError
	return errors.As(err, &target)
}

// Frame computes the AABB enclosing every object's full volume and derives a
// camera that frames the whole scene: the camera sits diagonally above the
// scene center at a distance proportional to the largest extent, looking at
// the center.
func Frame(objs []Object, cfg *Config) (Bounds, error) {
	if len(objs) == 0 {
		return Bounds{}, NewEmptySceneError()
	}
	conf := cfg.fillDefaults()

	min, max := objs[0].AABB()
	for i := 1; i < len(objs); i++ {
		lo, hi := objs[i].AABB()
		min = r3.Vector{X: utils.MinF(min.X, lo.X), Y: utils.MinF(min.Y, lo.Y), Z: utils.MinF(min.Z, lo.Z)}
		max = r3.Vector{X: utils.MaxF(max.X, hi.X), Y: utils.MaxF(max.Y, hi.Y), Z: utils.MaxF(max.Z, hi.Z)}
	}

	size := max.Sub(min)
	center := max.Add(min).Mul(0.5)
	maxExtent := utils.MaxF(size.X, utils.MaxF(size.Y, size.Z))
	distance := maxExtent * conf.CameraDistanceMultiplier

	return Bounds{
		Center:         center,
		Size:           size,
		CameraPosition: center.Add(r3.Vector{X: distance, Y: distance * 0.6, Z: distance}),
		CameraTarget:   center,
	}, nil
}
