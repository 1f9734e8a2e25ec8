// Package glbackend implements gpu.Device on an OpenGL 4.1 core context.
// It is the only package that links against the GL driver.
package glbackend

import (
	"strings"
	"unsafe"

	"modelviewer/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	materialBlockSize  = 80  // 4 vec4 + float, std140 rounded to vec4
	transformBlockSize = 256 // 4 mat4
)

// Device issues gpu.Device calls against the current GL context.
type Device struct {
	materialUBO  uint32
	transformUBO uint32
}

var _ gpu.Device = (*Device)(nil)

// Init loads the GL function pointers for the current context. A window
// with a current 4.1 core context must exist.
func Init() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	return &Device{}, nil
}

// Version returns the driver version string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Release deletes the device-owned uniform buffers.
func (d *Device) Release() {
	if d.materialUBO != 0 {
		gl.DeleteBuffers(1, &d.materialUBO)
		d.materialUBO = 0
	}
	if d.transformUBO != 0 {
		gl.DeleteBuffers(1, &d.transformUBO)
		d.transformUBO = 0
	}
}

func (d *Device) Enable(capability uint32)  { gl.Enable(capability) }
func (d *Device) Disable(capability uint32) { gl.Disable(capability) }
func (d *Device) DepthMask(flag bool)       { gl.DepthMask(flag) }
func (d *Device) BlendFunc(src, dst uint32) { gl.BlendFunc(src, dst) }

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (d *Device) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (d *Device) Clear(mask uint32)                  { gl.Clear(mask) }

func (d *Device) GetIntegerv(pname uint32, out []int32) {
	if len(out) == 0 {
		return
	}
	gl.GetIntegerv(pname, &out[0])
}

func (d *Device) Error() uint32 { return gl.GetError() }

func (d *Device) SetMaterial(p gpu.MaterialParams) {
	var block [materialBlockSize / 4]float32
	copy(block[0:4], p.Ambient[:])
	copy(block[4:8], p.Diffuse[:])
	copy(block[8:12], p.Specular[:])
	copy(block[12:16], p.Emission[:])
	block[16] = p.Shininess
	d.materialUBO = uploadBlock(d.materialUBO, gpu.MaterialBlockBinding, materialBlockSize, unsafe.Pointer(&block[0]))
}

func (d *Device) SetTransform(t gpu.Transform) {
	var block [transformBlockSize / 4]float32
	copy(block[0:16], t.Model[:])
	copy(block[16:32], t.View[:])
	copy(block[32:48], t.Projection[:])
	copy(block[48:64], t.Normal[:])
	d.transformUBO = uploadBlock(d.transformUBO, gpu.TransformBlockBinding, transformBlockSize, unsafe.Pointer(&block[0]))
}

// uploadBlock writes data into ubo, allocating it on first use, and keeps it
// attached to its binding point.
func uploadBlock(ubo, binding uint32, size int, data unsafe.Pointer) uint32 {
	if ubo == 0 {
		gl.GenBuffers(1, &ubo)
		gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
		gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	} else {
		gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
	}
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, size, data)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, ubo)
	return ubo
}

func (d *Device) CreateTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (d *Device) DeleteTexture(tex uint32)       { gl.DeleteTextures(1, &tex) }
func (d *Device) ActiveTexture(unit uint32)      { gl.ActiveTexture(unit) }
func (d *Device) BindTexture(target, tex uint32) { gl.BindTexture(target, tex) }

func (d *Device) TexImage2D(target uint32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(target, 0, internalFormat, width, height, 0, format, xtype, ptr)
}

func (d *Device) TexParameteri(target, pname uint32, value int32) {
	gl.TexParameteri(target, pname, value)
}

func (d *Device) TexParameteriv(target, pname uint32, values []int32) {
	if len(values) == 0 {
		return
	}
	gl.TexParameteriv(target, pname, &values[0])
}

func (d *Device) GetTexParameteriv(target, pname uint32, out []int32) {
	if len(out) == 0 {
		return
	}
	gl.GetTexParameteriv(target, pname, &out[0])
}

func (d *Device) CreateFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (d *Device) DeleteFramebuffer(fbo uint32) { gl.DeleteFramebuffers(1, &fbo) }
func (d *Device) BindFramebuffer(fbo uint32)   { gl.BindFramebuffer(gl.FRAMEBUFFER, fbo) }

func (d *Device) FramebufferTexture2D(attachment, textarget, tex uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, textarget, tex, 0)
}

func (d *Device) CheckFramebufferStatus() uint32 {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
}

func (d *Device) CreateShader(stage uint32) uint32 { return gl.CreateShader(stage) }
func (d *Device) DeleteShader(shader uint32)       { gl.DeleteShader(shader) }

func (d *Device) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (d *Device) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (d *Device) ShaderCompileStatus(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) CreateProgram() uint32               { return gl.CreateProgram() }
func (d *Device) DeleteProgram(program uint32)        { gl.DeleteProgram(program) }
func (d *Device) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (d *Device) LinkProgram(program uint32)          { gl.LinkProgram(program) }
func (d *Device) ValidateProgram(program uint32)      { gl.ValidateProgram(program) }
func (d *Device) UseProgram(program uint32)           { gl.UseProgram(program) }

func (d *Device) ProgramLinkStatus(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ProgramValidateStatus(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.VALIDATE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) UniformBlockBinding(program uint32, block string, binding uint32) {
	index := gl.GetUniformBlockIndex(program, gl.Str(block+"\x00"))
	if index == gl.INVALID_INDEX {
		return
	}
	gl.UniformBlockBinding(program, index, binding)
}

func (d *Device) ProgramUniform1f(program uint32, location int32, v float32) {
	gl.ProgramUniform1f(program, location, v)
}

func (d *Device) ProgramUniform2f(program uint32, location int32, x, y float32) {
	gl.ProgramUniform2f(program, location, x, y)
}

func (d *Device) ProgramUniform3f(program uint32, location int32, x, y, z float32) {
	gl.ProgramUniform3f(program, location, x, y, z)
}

func (d *Device) ProgramUniform4f(program uint32, location int32, x, y, z, w float32) {
	gl.ProgramUniform4f(program, location, x, y, z, w)
}

func (d *Device) ProgramUniform1i(program uint32, location int32, v int32) {
	gl.ProgramUniform1i(program, location, v)
}

func (d *Device) ProgramUniform2i(program uint32, location int32, x, y int32) {
	gl.ProgramUniform2i(program, location, x, y)
}

func (d *Device) ProgramUniform3i(program uint32, location int32, x, y, z int32) {
	gl.ProgramUniform3i(program, location, x, y, z)
}

func (d *Device) ProgramUniform4i(program uint32, location int32, x, y, z, w int32) {
	gl.ProgramUniform4i(program, location, x, y, z, w)
}

func (d *Device) ProgramUniformMatrix3fv(program uint32, location int32, m mgl32.Mat3) {
	gl.ProgramUniformMatrix3fv(program, location, 1, false, &m[0])
}

func (d *Device) ProgramUniformMatrix4fv(program uint32, location int32, m mgl32.Mat4) {
	gl.ProgramUniformMatrix4fv(program, location, 1, false, &m[0])
}

func (d *Device) CreateBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (d *Device) DeleteBuffer(buf uint32)       { gl.DeleteBuffers(1, &buf) }
func (d *Device) BindBuffer(target, buf uint32) { gl.BindBuffer(target, buf) }

func (d *Device) BufferData(target uint32, size int, data any, usage uint32) {
	var ptr unsafe.Pointer
	if data != nil && size > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(target, size, ptr, usage)
}

func (d *Device) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *Device) DeleteVertexArray(vao uint32)         { gl.DeleteVertexArrays(1, &vao) }
func (d *Device) BindVertexArray(vao uint32)           { gl.BindVertexArray(vao) }
func (d *Device) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (d *Device) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
}

func (d *Device) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset int) {
	gl.VertexAttribIPointer(index, size, xtype, stride, gl.PtrOffset(offset))
}

func (d *Device) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (d *Device) DrawElements(mode uint32, count int32, xtype uint32) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(0))
}
