// Package gpu describes the graphics context the renderer draws through.
//
// Every component that touches GPU state does so through a Device, which
// is passed along with each draw. The context holds implicit global state
// (enabled capabilities, bound program, active texture unit, bound buffers,
// sampler parameters); whoever issues a call last determines the state
// seen by the next one.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Fixed binding points of the uniform blocks the device owns.
const (
	MaterialBlockBinding  uint32 = 0
	TransformBlockBinding uint32 = 1
)

// Uniform block names programs declare to receive device-owned state.
const (
	MaterialBlockName  = "Material"
	TransformBlockName = "Transform"
)

// MaterialParams is the fixed-function style material state. The core
// profile has no glMaterial, so devices expose it as a std140 uniform
// block bound at MaterialBlockBinding.
type MaterialParams struct {
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular  mgl32.Vec4
	Emission  mgl32.Vec4
	Shininess float32
}

// Transform replaces the fixed-function matrix stack. Devices expose it as
// a std140 uniform block bound at TransformBlockBinding.
type Transform struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Normal     mgl32.Mat4
}

// Device is the single state-owning graphics context. All methods are
// synchronous driver calls and must be issued from the thread that owns
// the context.
type Device interface {
	// Fixed state
	Enable(capability uint32)
	Disable(capability uint32)
	DepthMask(flag bool)
	BlendFunc(src, dst uint32)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	GetIntegerv(pname uint32, out []int32)
	Error() uint32

	// Device-owned uniform blocks
	SetMaterial(params MaterialParams)
	SetTransform(t Transform)

	// Textures and samplers
	CreateTexture() uint32
	DeleteTexture(tex uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, tex uint32)
	TexImage2D(target uint32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte)
	TexParameteri(target, pname uint32, value int32)
	TexParameteriv(target, pname uint32, values []int32)
	GetTexParameteriv(target, pname uint32, out []int32)

	// Render targets
	CreateFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(fbo uint32)
	FramebufferTexture2D(attachment, textarget, tex uint32)
	CheckFramebufferStatus() uint32

	// Shaders and programs
	CreateShader(stage uint32) uint32
	DeleteShader(shader uint32)
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompileStatus(shader uint32) bool
	ShaderInfoLog(shader uint32) string

	CreateProgram() uint32
	DeleteProgram(program uint32)
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ValidateProgram(program uint32)
	ProgramLinkStatus(program uint32) bool
	ProgramValidateStatus(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformBlockBinding(program uint32, block string, binding uint32)

	// By-handle uniform upload; independent of the current program.
	ProgramUniform1f(program uint32, location int32, v float32)
	ProgramUniform2f(program uint32, location int32, x, y float32)
	ProgramUniform3f(program uint32, location int32, x, y, z float32)
	ProgramUniform4f(program uint32, location int32, x, y, z, w float32)
	ProgramUniform1i(program uint32, location int32, v int32)
	ProgramUniform2i(program uint32, location int32, x, y int32)
	ProgramUniform3i(program uint32, location int32, x, y, z int32)
	ProgramUniform4i(program uint32, location int32, x, y, z, w int32)
	ProgramUniformMatrix3fv(program uint32, location int32, m mgl32.Mat3)
	ProgramUniformMatrix4fv(program uint32, location int32, m mgl32.Mat4)

	// Buffers and vertex arrays
	CreateBuffer() uint32
	DeleteBuffer(buf uint32)
	BindBuffer(target, buf uint32)
	// BufferData uploads size bytes from data, which must be a slice or a
	// pointer to the first element. A nil data allocates without upload.
	BufferData(target uint32, size int, data any, usage uint32)
	CreateVertexArray() uint32
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)
	VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset int)

	// Draw calls
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32)
}
