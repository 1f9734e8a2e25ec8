package graphics

import (
	"fmt"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/logger"

	"go.uber.org/zap"
)

// Framebuffer is an off-screen render target with a floating point colour
// texture and a depth texture set up for shadow comparison.
//
// Bind and Unbind are single level: Unbind always returns to the default
// target. Use Scope to nest targets.
type Framebuffer struct {
	dev    gpu.Device
	fbo    uint32
	color  *Texture
	depth  *Texture
	width  int
	height int
	status uint32
}

// NewFramebuffer allocates a width x height target. An incomplete target
// is logged, not returned as an error. The default target is bound on
// return.
func NewFramebuffer(dev gpu.Device, width, height int) *Framebuffer {
	f := &Framebuffer{dev: dev, width: width, height: height}

	f.fbo = dev.CreateFramebuffer()
	dev.BindFramebuffer(f.fbo)

	f.color = NewEmptyTexture(dev, width, height, int32(gpu.RGB16F), gpu.RGB, gpu.Float)
	f.depth = NewShadowMapTexture(dev, width, height)

	dev.FramebufferTexture2D(gpu.ColorAttachment0, gpu.Texture2D, f.color.Handle())
	dev.FramebufferTexture2D(gpu.DepthAttachment, gpu.Texture2D, f.depth.Handle())

	f.status = dev.CheckFramebufferStatus()
	if f.status != gpu.FramebufferComplete {
		logger.Log.Warn("framebuffer incomplete",
			zap.Uint32("fbo", f.fbo),
			zap.String("status", framebufferStatusString(f.status)),
			zap.Int("width", width),
			zap.Int("height", height),
		)
	} else {
		logger.Log.Debug("framebuffer created",
			zap.Uint32("fbo", f.fbo),
			zap.Uint32("color", f.color.Handle()),
			zap.Uint32("depth", f.depth.Handle()),
		)
	}

	dev.BindFramebuffer(0)
	return f
}

func framebufferStatusString(status uint32) string {
	switch status {
	case gpu.FramebufferComplete:
		return "complete"
	case gpu.FramebufferIncompleteAttachment:
		return "incomplete attachment"
	case gpu.FramebufferIncompleteMissingAttachment:
		return "missing attachment"
	case gpu.FramebufferUnsupported:
		return "unsupported"
	}
	return fmt.Sprintf("0x%X", status)
}

// Complete reports whether the target passed the completeness check.
func (f *Framebuffer) Complete() bool { return f.status == gpu.FramebufferComplete }

// Status is the raw completeness status from construction.
func (f *Framebuffer) Status() uint32 { return f.status }

func (f *Framebuffer) Bind()   { f.dev.BindFramebuffer(f.fbo) }
func (f *Framebuffer) Unbind() { f.dev.BindFramebuffer(0) }

// Scope binds f and returns a function that rebinds whatever target was
// bound before.
func (f *Framebuffer) Scope() (restore func()) {
	var prev [1]int32
	f.dev.GetIntegerv(gpu.FramebufferBinding, prev[:])
	f.Bind()
	return func() { f.dev.BindFramebuffer(uint32(prev[0])) }
}

// Draw blits the colour texture onto the rectangle (x, y, w, h) in
// viewport pixels, origin top-left, at NDC depth z.
func (f *Framebuffer) Draw(x, y, w, h, z float32) {
	f.blit(f.color, x, y, w, h, z)
}

// DrawDepth blits the depth texture as grey levels. The comparison mode,
// comparison function and swizzle of the depth texture are restored
// before it returns, as are the active unit, its 2D binding and the
// current program.
func (f *Framebuffer) DrawDepth(x, y, w, h, z float32) {
	restore := f.overrideDepthSampler()
	defer restore()

	f.blit(f.depth, x, y, w, h, z)
}

func (f *Framebuffer) overrideDepthSampler() (restore func()) {
	d := f.dev
	tex := f.depth.Handle()

	var unit, bound, program [1]int32
	d.GetIntegerv(gpu.ActiveTextureUnit, unit[:])
	d.GetIntegerv(gpu.CurrentProgram, program[:])
	d.ActiveTexture(gpu.Texture0)
	d.GetIntegerv(gpu.TextureBinding2D, bound[:])

	var mode, fn [1]int32
	var swizzle [4]int32
	d.BindTexture(gpu.Texture2D, tex)
	d.GetTexParameteriv(gpu.Texture2D, gpu.TextureCompareMode, mode[:])
	d.GetTexParameteriv(gpu.Texture2D, gpu.TextureCompareFunc, fn[:])
	d.GetTexParameteriv(gpu.Texture2D, gpu.TextureSwizzleRGBA, swizzle[:])

	d.TexParameteri(gpu.Texture2D, gpu.TextureCompareMode, int32(gpu.None))
	d.TexParameteri(gpu.Texture2D, gpu.TextureCompareFunc, int32(gpu.LEqual))
	d.TexParameteriv(gpu.Texture2D, gpu.TextureSwizzleRGBA,
		[]int32{int32(gpu.Red), int32(gpu.Red), int32(gpu.Red), int32(gpu.One)})

	return func() {
		d.ActiveTexture(gpu.Texture0)
		d.BindTexture(gpu.Texture2D, tex)
		d.TexParameteri(gpu.Texture2D, gpu.TextureCompareMode, mode[0])
		d.TexParameteri(gpu.Texture2D, gpu.TextureCompareFunc, fn[0])
		d.TexParameteriv(gpu.Texture2D, gpu.TextureSwizzleRGBA, swizzle[:])

		d.BindTexture(gpu.Texture2D, uint32(bound[0]))
		d.UseProgram(uint32(program[0]))
		d.ActiveTexture(uint32(unit[0]))
	}
}

func (f *Framebuffer) blit(tex *Texture, x, y, w, h, z float32) {
	q, err := quadRendererFor(f.dev)
	if err != nil {
		logger.Log.Error("framebuffer blit unavailable", zap.Error(err))
		return
	}
	q.draw(f.dev, tex.Handle(), x, y, w, h, z)
}

func (f *Framebuffer) ColorTexture() *Texture { return f.color }
func (f *Framebuffer) DepthTexture() *Texture { return f.depth }
func (f *Framebuffer) Width() int             { return f.width }
func (f *Framebuffer) Height() int            { return f.height }
func (f *Framebuffer) Handle() uint32         { return f.fbo }

// Release deletes the render target. The textures stay alive; whoever
// holds them releases them.
func (f *Framebuffer) Release() {
	if f.fbo == 0 {
		return
	}
	f.dev.BindFramebuffer(0)
	f.dev.DeleteFramebuffer(f.fbo)
	f.fbo = 0
}
