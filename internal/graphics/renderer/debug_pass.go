package renderer

import (
	"modelviewer/internal/graphics/gpu"
)

// DebugPass overlays the shadow map's colour and depth textures in the
// top-left corner.
type DebugPass struct {
	dev     gpu.Device
	shadow  *ShadowPass
	enabled func() bool
	size    float32
}

// NewDebugPass draws while enabled returns true.
func NewDebugPass(dev gpu.Device, shadow *ShadowPass, enabled func() bool) *DebugPass {
	return &DebugPass{dev: dev, shadow: shadow, enabled: enabled, size: 200}
}

func (d *DebugPass) Init() error { return nil }

func (d *DebugPass) Render(ctx FrameContext) {
	if d.enabled == nil || !d.enabled() || d.shadow == nil || d.shadow.Target() == nil {
		return
	}
	target := d.shadow.Target()

	d.dev.Disable(gpu.DepthTest)
	d.dev.Disable(gpu.Blend)
	target.Draw(10, 10, d.size, d.size, 0)
	target.DrawDepth(20+d.size, 10, d.size, d.size, 0)
	d.dev.Enable(gpu.DepthTest)
}

func (d *DebugPass) Dispose() {}

func (d *DebugPass) SetViewport(width, height int) {
	// Keep the overlay to roughly a quarter of the shorter side.
	d.size = float32(min(width, height)) / 4
}
