package scene

import "gioui.org/f32"

// Transform places an entity relative to its parent. World fields are
// derived by UpdateTransforms.
type Transform struct {
	Position f32.Point
	Scale    f32.Point
	Rotation float32 // radians, clockwise in a y-down space

	WorldPosition f32.Point
	WorldScale    f32.Point
	WorldRotation float32

	// Parent mirrors the scene hierarchy; change it with AddEntityChild.
	Parent  Entity
	Visible bool

	// NeedUpdate marks local fields as changed since the last propagation.
	NeedUpdate bool
}

// NewTransform returns a visible identity transform.
func NewTransform() Transform {
	one := f32.Pt(1, 1)
	return Transform{
		Scale:      one,
		WorldScale: one,
		Visible:    true,
		NeedUpdate: true,
	}
}

// WorldFrame maps points from the entity's unscaled local frame into world
// space: rotation about the local origin followed by the world offset.
func (t *Transform) WorldFrame() f32.Affine2D {
	return f32.Affine2D{}.
		Rotate(f32.Point{}, t.WorldRotation).
		Offset(t.WorldPosition)
}

// UpdateTransforms recomputes world position, scale and rotation for every
// entity with a Transform, parents first.
func (s *Scene) UpdateTransforms() {
	for _, e := range s.hierarchyOrder() {
		tr := FindComponent[Transform](s, e)
		if tr == nil {
			continue
		}
		parent := FindComponent[Transform](s, tr.Parent)
		if parent == nil {
			tr.WorldPosition = tr.Position
			tr.WorldScale = tr.Scale
			tr.WorldRotation = tr.Rotation
		} else {
			tr.WorldScale = f32.Pt(parent.WorldScale.X*tr.Scale.X, parent.WorldScale.Y*tr.Scale.Y)
			tr.WorldRotation = parent.WorldRotation + tr.Rotation
			m := f32.Affine2D{}.
				Scale(f32.Point{}, parent.WorldScale).
				Rotate(f32.Point{}, parent.WorldRotation).
				Offset(parent.WorldPosition)
			tr.WorldPosition = m.Transform(tr.Position)
		}
		tr.NeedUpdate = false
	}
}
