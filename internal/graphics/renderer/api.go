package renderer

import (
	"modelviewer/internal/graphics"
	"modelviewer/internal/scene"
)

// FrameContext provides shared context for all passes of one frame
type FrameContext struct {
	Scene  *scene.Manager
	Camera graphics.Camera
	DT     float64
	Width  int
	Height int
	Stereo bool
}

// Pass interface defines the lifecycle of one render pass
type Pass interface {
	Init() error
	Render(ctx FrameContext)
	Dispose()
	SetViewport(width, height int)
}
