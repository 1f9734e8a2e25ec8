package scene

import (
	"slices"

	"modelviewer/internal/graphics"
	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Manager owns the world graph, rendered with the caller's camera, and the
// view graph, rendered with the same camera moved to the origin so its
// content stays fixed relative to the viewer.
type Manager struct {
	dev      gpu.Device
	world    *Node
	view     *Node
	lights   []*Light
	override *graphics.Material

	eyeSeparation float32
}

func NewManager(dev gpu.Device) *Manager {
	return &Manager{
		dev:   dev,
		world: NewNode("world"),
		view:  NewNode("view"),
	}
}

func (m *Manager) World() *Node { return m.world }
func (m *Manager) View() *Node  { return m.view }

// CreateLight registers and returns a new light.
func (m *Manager) CreateLight() *Light {
	l := NewLight()
	m.lights = append(m.lights, l)
	return l
}

// AddLight registers a light created elsewhere.
func (m *Manager) AddLight(l *Light) { m.lights = append(m.lights, l) }

// RemoveLight unregisters l. Other holders keep it alive.
func (m *Manager) RemoveLight(l *Light) bool {
	i := slices.Index(m.lights, l)
	if i < 0 {
		return false
	}
	m.lights = slices.Delete(m.lights, i, i+1)
	return true
}

func (m *Manager) Lights() []*Light { return m.lights }

// ShadowLight returns the first light that casts shadows.
func (m *Manager) ShadowLight() *Light {
	for _, l := range m.lights {
		if l.CastsShadow {
			return l
		}
	}
	return nil
}

// SetOverrideMaterial sets the material substituted for every drawable's
// own during geometry passes.
func (m *Manager) SetOverrideMaterial(mat *graphics.Material) { m.override = mat }
func (m *Manager) OverrideMaterial() *graphics.Material       { return m.override }

// SetEyeSeparation sets the interocular distance passed to stereo passes.
func (m *Manager) SetEyeSeparation(d float32) { m.eyeSeparation = d }

// Render updates both graphs' transforms, then draws the world graph and
// the view graph in pre-order. geometryPass installs the override
// material; stereo is handed to every context unchanged.
func (m *Manager) Render(camera graphics.Camera, geometryPass bool, stereo graphics.Stereo) {
	defer profiling.Track("scene.Render")()

	m.world.UpdateTransform()
	m.view.UpdateTransform()

	m.renderGraph(m.world, camera, geometryPass, stereo)
	m.renderGraph(m.view, camera.WithPosition(mgl32.Vec3{}), geometryPass, stereo)
}

// RenderWorld updates and draws the world graph only. Off-screen passes
// seen from somewhere other than the viewer use it so the view graph
// never lands in their targets.
func (m *Manager) RenderWorld(camera graphics.Camera, geometryPass bool, stereo graphics.Stereo) {
	defer profiling.Track("scene.RenderWorld")()

	m.world.UpdateTransform()
	m.renderGraph(m.world, camera, geometryPass, stereo)
}

func (m *Manager) renderGraph(root *Node, camera graphics.Camera, geometryPass bool, stereo graphics.Stereo) {
	root.Walk(func(n *Node) bool {
		ctx := &graphics.RenderContext{
			Device:        m.dev,
			Camera:        camera,
			Node:          n,
			Stereo:        stereo,
			EyeSeparation: m.eyeSeparation,
		}
		if geometryPass {
			ctx.OverrideMaterial = m.override
		}
		for _, d := range n.drawables {
			d.Draw(ctx)
		}
		return true
	})
}

// Clear destroys both graphs and replaces them with empty roots. Lights
// are kept.
func (m *Manager) Clear() {
	m.world.Destroy()
	m.view.Destroy()
	m.world = NewNode("world")
	m.view = NewNode("view")
}
