package scene

import (
	"modelviewer/internal/graphics"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Light is a directional light. Lights are shared: the manager and any
// number of nodes or passes may hold the same pointer.
type Light struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3

	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4

	CastsShadow bool
}

func NewLight() *Light {
	return &Light{
		Position:    mgl32.Vec3{0, 10, 0},
		Direction:   mgl32.Vec3{0, -1, 0},
		Ambient:     mgl32.Vec4{0, 0, 0, 1},
		Diffuse:     mgl32.Vec4{1, 1, 1, 1},
		Specular:    mgl32.Vec4{1, 1, 1, 1},
		CastsShadow: true,
	}
}

// Camera returns an orthographic camera at the light looking along its
// direction, covering size world units.
func (l *Light) Camera(size, near, far float32) graphics.Camera {
	dir := l.Direction
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()
	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, -1}
	}
	return graphics.NewOrthoCamera(size, near, far).
		WithPosition(l.Position).
		LookAt(l.Position.Add(dir), up)
}

// ShadowMatrix maps world space to shadow map texture space [0, 1].
func (l *Light) ShadowMatrix(size, near, far float32) mgl32.Mat4 {
	cam := l.Camera(size, near, far)
	bias := mgl32.Translate3D(0.5, 0.5, 0.5).Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
	return bias.Mul4(cam.ProjectionMatrix()).Mul4(cam.ViewMatrix())
}
