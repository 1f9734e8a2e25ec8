package graphics

import (
	"sync"

	"modelviewer/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

const quadVertexSource = `#version 410 core
layout(location = 0) in vec2 position;
layout(location = 2) in vec2 texcoord;

uniform mat4 projection;
uniform float depth;

out vec2 uv;

void main() {
	uv = texcoord;
	vec4 p = projection * vec4(position, 0.0, 1.0);
	gl_Position = vec4(p.xy, depth, 1.0);
}
`

const quadFragmentSource = `#version 410 core
in vec2 uv;

uniform sampler2D image;

out vec4 color;

void main() {
	color = vec4(texture(image, uv).rgb, 1.0);
}
`

// quadRenderer draws textured screen-space rectangles. One is built lazily
// per device.
type quadRenderer struct {
	program *Program
	vao     uint32
	vbo     uint32
}

var (
	quadRenderers = make(map[gpu.Device]*quadRenderer)
	quadMutex     sync.Mutex
)

func quadRendererFor(dev gpu.Device) (*quadRenderer, error) {
	quadMutex.Lock()
	defer quadMutex.Unlock()

	if q, ok := quadRenderers[dev]; ok {
		return q, nil
	}

	vs, err := CompileShader(dev, gpu.VertexShader, quadVertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := CompileShader(dev, gpu.FragmentShader, quadFragmentSource)
	if err != nil {
		vs.Release()
		return nil, err
	}
	prog, err := NewProgram(dev, vs, fs)
	if err != nil {
		vs.Release()
		fs.Release()
		return nil, err
	}

	q := &quadRenderer{
		program: prog,
		vao:     dev.CreateVertexArray(),
		vbo:     dev.CreateBuffer(),
	}
	quadRenderers[dev] = q
	return q, nil
}

// ReleaseQuadRenderer frees the blit resources built for dev, if any.
func ReleaseQuadRenderer(dev gpu.Device) {
	quadMutex.Lock()
	defer quadMutex.Unlock()

	q, ok := quadRenderers[dev]
	if !ok {
		return
	}
	q.program.Release()
	dev.DeleteBuffer(q.vbo)
	dev.DeleteVertexArray(q.vao)
	delete(quadRenderers, dev)
}

// draw covers the rectangle (x, y, w, h) with tex. Coordinates are viewport
// pixels with the origin in the top-left corner; z is the NDC depth.
func (q *quadRenderer) draw(dev gpu.Device, tex uint32, x, y, w, h, z float32) {
	var vp [4]int32
	dev.GetIntegerv(gpu.Viewport, vp[:])
	projection := mgl32.Ortho(0, float32(vp[2]), float32(vp[3]), 0, -1, 1)

	q.program.SetUniform("projection", Mat4(projection))
	q.program.SetUniform("depth", Float(z))
	q.program.SetUniform("image", Int(0))

	// Render target textures have v = 0 at the bottom.
	vertices := []float32{
		x, y, 0, 1,
		x + w, y, 1, 1,
		x + w, y + h, 1, 0,
		x, y, 0, 1,
		x + w, y + h, 1, 0,
		x, y + h, 0, 0,
	}

	dev.BindVertexArray(q.vao)
	dev.BindBuffer(gpu.ArrayBuffer, q.vbo)
	dev.BufferData(gpu.ArrayBuffer, len(vertices)*4, vertices, gpu.DynamicDraw)
	dev.VertexAttribPointer(PositionLocation, 2, gpu.Float, false, 16, 0)
	dev.EnableVertexAttribArray(PositionLocation)
	dev.VertexAttribPointer(TexCoordLocation, 2, gpu.Float, false, 16, 8)
	dev.EnableVertexAttribArray(TexCoordLocation)

	dev.ActiveTexture(gpu.Texture0)
	dev.BindTexture(gpu.Texture2D, tex)
	q.program.Use()
	dev.DrawArrays(gpu.Triangles, 0, 6)

	dev.BindVertexArray(0)
}
