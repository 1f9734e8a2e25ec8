package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the view and projection matrices. It is a value: passes
// that need a variant (an eye, a light's view, the overlay camera) copy it.
type Camera struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	// Orthographic cameras cover OrthoSize world units vertically.
	Orthographic bool
	OrthoSize    float32
}

func NewCamera(width, height int) Camera {
	if height <= 0 {
		height = 1
	}
	return Camera{
		Orientation: mgl32.QuatIdent(),
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
	}
}

// NewOrthoCamera returns a square orthographic camera, as used for
// directional light shadow maps.
func NewOrthoCamera(size, near, far float32) Camera {
	return Camera{
		Orientation:  mgl32.QuatIdent(),
		AspectRatio:  1,
		NearPlane:    near,
		FarPlane:     far,
		Orthographic: true,
		OrthoSize:    size,
	}
}

// WithPosition returns a copy of c moved to p.
func (c Camera) WithPosition(p mgl32.Vec3) Camera {
	c.Position = p
	return c
}

// LookAt returns a copy of c oriented towards target.
func (c Camera) LookAt(target, up mgl32.Vec3) Camera {
	view := mgl32.LookAtV(c.Position, target, up)
	c.Orientation = mgl32.Mat4ToQuat(view.Inv()).Normalize()
	return c
}

func (c Camera) Forward() mgl32.Vec3 { return c.Orientation.Rotate(mgl32.Vec3{0, 0, -1}) }
func (c Camera) Right() mgl32.Vec3   { return c.Orientation.Rotate(mgl32.Vec3{1, 0, 0}) }
func (c Camera) Up() mgl32.Vec3      { return c.Orientation.Rotate(mgl32.Vec3{0, 1, 0}) }

func (c Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Orthographic {
		h := c.OrthoSize / 2
		w := h * c.AspectRatio
		return mgl32.Ortho(-w, w, -h, h, c.NearPlane, c.FarPlane)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c Camera) ViewMatrix() mgl32.Mat4 {
	rot := c.Orientation.Conjugate().Mat4()
	return rot.Mul4(mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z()))
}
