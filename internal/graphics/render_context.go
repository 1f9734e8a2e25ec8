package graphics

import (
	"modelviewer/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Stereo selects which eye a pass renders for.
type Stereo int

const (
	StereoOff Stereo = iota
	StereoLeft
	StereoRight
)

func (s Stereo) String() string {
	switch s {
	case StereoLeft:
		return "left"
	case StereoRight:
		return "right"
	}
	return "off"
}

// Enabled reports whether s is one of the two eyes.
func (s Stereo) Enabled() bool { return s == StereoLeft || s == StereoRight }

// Node is the transform source of the node being drawn.
type Node interface {
	WorldTransform() mgl32.Mat4
}

// Drawable is anything a scene node can carry.
type Drawable interface {
	Draw(ctx *RenderContext)
}

// RenderContext is built fresh for every (node, pass) pair and discarded
// after the node's drawables have been drawn.
type RenderContext struct {
	Device gpu.Device
	Camera Camera
	Node   Node
	Stereo Stereo
	// EyeSeparation is the interocular distance in world units.
	EyeSeparation float32
	// OverrideMaterial replaces every drawable's own material when set.
	OverrideMaterial *Material
}

// MaterialFor returns the material to draw with: the override when one is
// installed, own otherwise.
func (ctx *RenderContext) MaterialFor(own *Material) *Material {
	if ctx.OverrideMaterial != nil {
		return ctx.OverrideMaterial
	}
	return own
}

func (ctx *RenderContext) ModelMatrix() mgl32.Mat4 {
	if ctx.Node == nil {
		return mgl32.Ident4()
	}
	return ctx.Node.WorldTransform()
}

func (ctx *RenderContext) ViewMatrix() mgl32.Mat4       { return ctx.Camera.ViewMatrix() }
func (ctx *RenderContext) ProjectionMatrix() mgl32.Mat4 { return ctx.Camera.ProjectionMatrix() }

func (ctx *RenderContext) ModelViewMatrix() mgl32.Mat4 {
	return ctx.ViewMatrix().Mul4(ctx.ModelMatrix())
}

// NormalMatrix is the inverse transpose of the model-view rotation.
func (ctx *RenderContext) NormalMatrix() mgl32.Mat3 {
	return normalMatrix(ctx.ModelViewMatrix())
}

func normalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	m3 := m.Mat3()
	if m3.Det() == 0 {
		return mgl32.Ident3()
	}
	return m3.Inv().Transpose()
}

// EyeSign is -1 for the left eye, +1 for the right and 0 without stereo.
func (ctx *RenderContext) EyeSign() float32 {
	switch ctx.Stereo {
	case StereoLeft:
		return -1
	case StereoRight:
		return 1
	}
	return 0
}

// EyeOffset is the signed horizontal eye displacement in view space.
func (ctx *RenderContext) EyeOffset() float32 {
	return ctx.EyeSign() * ctx.EyeSeparation / 2
}

// Transform builds the transform block for geometry with the given local
// matrix under the context's node.
func (ctx *RenderContext) Transform(local mgl32.Mat4) gpu.Transform {
	model := ctx.ModelMatrix().Mul4(local)
	view := ctx.ViewMatrix()
	return gpu.Transform{
		Model:      model,
		View:       view,
		Projection: ctx.ProjectionMatrix(),
		Normal:     normalMatrix(view.Mul4(model)).Mat4(),
	}
}

// AddStereoUniforms registers the eye uniforms shaders use to offset the
// view per eye.
func AddStereoUniforms(g *UniformGroup) {
	g.SetFunc("eye", func(ctx *RenderContext) UniformValue { return Float(ctx.EyeSign()) })
	g.SetFunc("eyeSeparation", func(ctx *RenderContext) UniformValue { return Float(ctx.EyeSeparation) })
}
