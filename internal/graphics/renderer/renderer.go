package renderer

import (
	"modelviewer/internal/graphics"
	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/profiling"
	"modelviewer/internal/scene"
)

// Renderer runs its passes in order every frame
type Renderer struct {
	dev    gpu.Device
	passes []Pass
	camera graphics.Camera
	width  int
	height int
	stereo bool
}

// NewRenderer configures the device and initializes every pass
func NewRenderer(dev gpu.Device, width, height int, passes ...Pass) (*Renderer, error) {
	dev.Enable(gpu.DepthTest)
	dev.Enable(gpu.CullFace)

	r := &Renderer{
		dev:    dev,
		passes: passes,
		camera: graphics.NewCamera(width, height),
		width:  width,
		height: height,
	}

	for i, p := range passes {
		if err := p.Init(); err != nil {
			// Dispose what was already initialized
			for j := i - 1; j >= 0; j-- {
				passes[j].Dispose()
			}
			return nil, err
		}
		p.SetViewport(width, height)
	}
	return r, nil
}

// Render executes every pass against the scene
func (r *Renderer) Render(sc *scene.Manager, dt float64) {
	defer profiling.Track("renderer.Render")()

	ctx := FrameContext{
		Scene:  sc,
		Camera: r.camera,
		DT:     dt,
		Width:  r.width,
		Height: r.height,
		Stereo: r.stereo,
	}
	for _, p := range r.passes {
		p.Render(ctx)
	}
}

// Dispose cleans up all passes in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.passes) - 1; i >= 0; i-- {
		r.passes[i].Dispose()
	}
}

func (r *Renderer) Camera() graphics.Camera     { return r.camera }
func (r *Renderer) SetCamera(c graphics.Camera) { r.camera = c }

func (r *Renderer) Stereo() bool         { return r.stereo }
func (r *Renderer) SetStereo(on bool)    { r.stereo = on }
func (r *Renderer) Viewport() (int, int) { return r.width, r.height }

// SetViewport updates the camera aspect ratio and every pass
func (r *Renderer) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.camera.AspectRatio = float32(width) / float32(height)
	for _, p := range r.passes {
		p.SetViewport(width, height)
	}
}
