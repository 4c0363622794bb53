package scene

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r3"
)

// ObjectKind is the geometric primitive an object is rendered as.
type ObjectKind int

// The supported primitives.
const (
	KindBox ObjectKind = iota
	KindCylinder
)

func (k ObjectKind) String() string {
	if k == KindCylinder {
		return "cylinder"
	}
	return "box"
}

// MarshalJSON encodes the kind as its string name.
func (k ObjectKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// ElevationSource records how an object's vertical placement was decided.
type ElevationSource string

// The two placement sources: a sampled depth hint, or the category's
// default rest rule.
const (
	ElevationFromDepthHint ElevationSource = "depth_hint"
	ElevationFromDefault   ElevationSource = "default"
)

// Object is one positioned volumetric primitive in metric 3D space.
// Position is the volume center; Size components are always strictly
// positive. For cylinders, Radius holds the horizontal radius and Size.X and
// Size.Z hold the diameter.
type Object struct {
	Label           string
	Category        Category
	Kind            ObjectKind
	Position        r3.Vector
	Size            r3.Vector
	Radius          float64
	ElevationSource ElevationSource
}

// AABB returns the axis-aligned bounds of the object's full volume.
func (o *Object) AABB() (r3.Vector, r3.Vector) {
	half := o.Size.Mul(0.5)
	return o.Position.Sub(half), o.Position.Add(half)
}

// String returns a human readable description of the object.
func (o *Object) String() string {
	return fmt.Sprintf("Type: %s | Label: %s | Position: X:%.2f, Y:%.2f, Z:%.2f | Size: X:%.2f, Y:%.2f, Z:%.2f",
		o.Kind, o.Label, o.Position.X, o.Position.Y, o.Position.Z, o.Size.X, o.Size.Y, o.Size.Z)
}

type vectorJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func toVectorJSON(v r3.Vector) vectorJSON {
	return vectorJSON{X: v.X, Y: v.Y, Z: v.Z}
}

// MarshalJSON encodes the object in the lower-camel shape the render layer
// consumes.
func (o Object) MarshalJSON() ([]byte, error) {
	out := struct {
		Label           string          `json:"label"`
		Category        string          `json:"category"`
		Kind            ObjectKind      `json:"kind"`
		Position        vectorJSON      `json:"position"`
		Size            vectorJSON      `json:"size"`
		Radius          float64         `json:"radius,omitempty"`
		ElevationSource ElevationSource `json:"elevationSource"`
	}{
		Label:           o.Label,
		Category:        o.Category.String(),
		Kind:            o.Kind,
		Position:        toVectorJSON(o.Position),
		Size:            toVectorJSON(o.Size),
		Radius:          o.Radius,
		ElevationSource: o.ElevationSource,
	}
	return json.Marshal(out)
}
