package scene

import (
	"testing"

	"modelviewer/internal/graphics"
	"modelviewer/internal/graphics/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type visit struct {
	node     string
	override *graphics.Material
	stereo   graphics.Stereo
	camera   mgl32.Vec3
}

// probe records every context it is drawn with.
type probe struct {
	log  *[]visit
	name string
}

func (p *probe) Draw(ctx *graphics.RenderContext) {
	if p.log == nil {
		return
	}
	*p.log = append(*p.log, visit{
		node:     p.name,
		override: ctx.OverrideMaterial,
		stereo:   ctx.Stereo,
		camera:   ctx.Camera.Position,
	})
}

func buildScene(m *Manager, log *[]visit) {
	attach := func(n *Node) { n.Attach(&probe{log: log, name: n.Name()}) }

	a := m.World().CreateChild("a")
	attach(a)
	a1 := a.CreateChild("a1")
	attach(a1)
	attach(a.CreateChild("a2"))
	attach(a1.CreateChild("a1x"))
	b := m.World().CreateChild("b")
	attach(b)
	attach(m.View().CreateChild("hud"))
}

func names(vs []visit) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.node
	}
	return out
}

func TestRenderOrderIsPreOrderAndStable(t *testing.T) {
	var log []visit
	m := NewManager(gputest.NewRecorder())
	buildScene(m, &log)

	m.Render(graphics.NewCamera(4, 3), false, graphics.StereoOff)
	first := names(log)
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b", "hud"}, first)

	log = nil
	m.Render(graphics.NewCamera(4, 3), false, graphics.StereoOff)
	assert.Equal(t, first, names(log))
}

func TestRenderOverrideOnlyInGeometryPass(t *testing.T) {
	var log []visit
	m := NewManager(gputest.NewRecorder())
	buildScene(m, &log)
	override := graphics.NewMaterial()
	m.SetOverrideMaterial(override)

	m.Render(graphics.NewCamera(1, 1), false, graphics.StereoOff)
	for _, v := range log {
		assert.Nil(t, v.override, "node %s", v.node)
	}

	log = nil
	m.Render(graphics.NewCamera(1, 1), true, graphics.StereoOff)
	require.NotEmpty(t, log)
	for _, v := range log {
		assert.Same(t, override, v.override, "node %s", v.node)
	}
}

func TestRenderViewGraphUsesOriginCamera(t *testing.T) {
	var log []visit
	m := NewManager(gputest.NewRecorder())
	buildScene(m, &log)

	cam := graphics.NewCamera(1, 1).WithPosition(mgl32.Vec3{3, 4, 5})
	m.Render(cam, false, graphics.StereoLeft)

	for _, v := range log {
		assert.Equal(t, graphics.StereoLeft, v.stereo)
		if v.node == "hud" {
			assert.Equal(t, mgl32.Vec3{}, v.camera)
		} else {
			assert.Equal(t, cam.Position, v.camera, "node %s", v.node)
		}
	}
}

func TestRenderWorldSkipsViewGraph(t *testing.T) {
	var log []visit
	m := NewManager(gputest.NewRecorder())
	buildScene(m, &log)
	override := graphics.NewMaterial()
	m.SetOverrideMaterial(override)

	cam := graphics.NewCamera(1, 1).WithPosition(mgl32.Vec3{1, 2, 3})
	m.RenderWorld(cam, true, graphics.StereoOff)

	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, names(log))
	for _, v := range log {
		assert.Same(t, override, v.override, "node %s", v.node)
		assert.Equal(t, cam.Position, v.camera, "node %s", v.node)
	}
}

type worldProbe struct {
	seen mgl32.Mat4
}

func (p *worldProbe) Draw(ctx *graphics.RenderContext) { p.seen = ctx.ModelMatrix() }

func TestRenderUpdatesTransformsFirst(t *testing.T) {
	m := NewManager(gputest.NewRecorder())
	n := m.World().CreateChild("moved")
	p := &worldProbe{}
	n.Attach(p)
	n.SetPosition(mgl32.Vec3{0, 0, -2})

	m.Render(graphics.NewCamera(1, 1), false, graphics.StereoOff)
	assert.Equal(t, mgl32.Translate3D(0, 0, -2), p.seen)
}

func TestLights(t *testing.T) {
	m := NewManager(gputest.NewRecorder())
	a := m.CreateLight()
	a.CastsShadow = false
	b := NewLight()
	m.AddLight(b)

	assert.Equal(t, []*Light{a, b}, m.Lights())
	assert.Same(t, b, m.ShadowLight())
	assert.True(t, m.RemoveLight(a))
	assert.False(t, m.RemoveLight(a))
	assert.Equal(t, []*Light{b}, m.Lights())
}

func TestLightShadowMatrix(t *testing.T) {
	l := NewLight()
	l.Position = mgl32.Vec3{0, 10, 0}
	l.Direction = mgl32.Vec3{0, -1, 0}

	// A point straight below the light lands in the centre of the map.
	p := l.ShadowMatrix(20, 1, 30).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0.5, p.X(), 1e-5)
	assert.InDelta(t, 0.5, p.Y(), 1e-5)
	assert.Greater(t, p.Z(), float32(0))
	assert.Less(t, p.Z(), float32(1))
}

func TestLightCameraVerticalDirections(t *testing.T) {
	for _, dir := range []mgl32.Vec3{{0, -1, 0}, {0, 1, 0}, {0.001, -1, 0}} {
		l := NewLight()
		l.Position = mgl32.Vec3{}
		l.Direction = dir
		m := l.ShadowMatrix(10, 0.1, 20)
		for i, v := range m {
			assert.False(t, v != v, "dir %v: element %d is NaN", dir, i)
		}
		p := m.Mul4x1(dir.Normalize().Mul(5).Vec4(1))
		assert.InDelta(t, 0.5, p.X(), 1e-4, "dir %v", dir)
		assert.InDelta(t, 0.5, p.Y(), 1e-4, "dir %v", dir)
	}
}

func TestClear(t *testing.T) {
	m := NewManager(gputest.NewRecorder())
	m.CreateLight()
	old := m.World()
	old.CreateChild("x")
	m.Clear()
	assert.NotSame(t, old, m.World())
	assert.Empty(t, m.World().Children())
	assert.Len(t, m.Lights(), 1)
}
