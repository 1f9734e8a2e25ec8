// Package gputest provides an in-memory gpu.Device that records every call
// and simulates the slice of driver state the renderer queries.
package gputest

import (
	"fmt"
	"strings"

	"modelviewer/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		switch v := a.(type) {
		case uint32:
			parts[i] = fmt.Sprintf("0x%X", v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

type texSlot struct {
	unit   uint32
	target uint32
}

// Recorder implements gpu.Device without a GL context.
type Recorder struct {
	// FramebufferStatus is returned by CheckFramebufferStatus.
	FramebufferStatus uint32
	// FailCompile reports whether a shader source should fail to compile.
	FailCompile func(source string) bool
	// CompileLog is the info log of a failed compile.
	CompileLog string
	// FailLink makes every LinkProgram fail with LinkLog.
	FailLink bool
	LinkLog  string
	// Locations maps uniform names to locations. Unknown names resolve to -1.
	Locations map[string]int32

	calls  []Call
	next   uint32
	errors []uint32

	caps        map[uint32]bool
	depthMask   bool
	blend       [2]uint32
	program     uint32
	activeUnit  uint32
	bound       map[texSlot]uint32
	texParams   map[uint32]map[uint32][]int32
	framebuffer uint32
	viewport    [4]int32
	vertexArray uint32

	shaderSource map[uint32]string
	compiled     map[uint32]bool
	linked       map[uint32]bool

	material  gpu.MaterialParams
	transform gpu.Transform
	live      map[string]map[uint32]bool
}

var _ gpu.Device = (*Recorder)(nil)

// NewRecorder returns a recorder reporting complete framebuffers and
// successful compiles.
func NewRecorder() *Recorder {
	return &Recorder{
		FramebufferStatus: gpu.FramebufferComplete,
		Locations:         make(map[string]int32),
		caps:              make(map[uint32]bool),
		depthMask:         true,
		blend:             [2]uint32{gpu.One, gpu.Zero},
		activeUnit:        gpu.Texture0,
		bound:             make(map[texSlot]uint32),
		texParams:         make(map[uint32]map[uint32][]int32),
		shaderSource:      make(map[uint32]string),
		compiled:          make(map[uint32]bool),
		linked:            make(map[uint32]bool),
		live:              make(map[string]map[uint32]bool),
	}
}

// Declare assigns consecutive locations to the given uniform names.
func (r *Recorder) Declare(names ...string) {
	for _, n := range names {
		if _, ok := r.Locations[n]; !ok {
			r.Locations[n] = int32(len(r.Locations))
		}
	}
}

// Calls returns every recorded call in issue order.
func (r *Recorder) Calls() []Call {
	return append([]Call(nil), r.calls...)
}

// Trace returns the recorded calls formatted as strings.
func (r *Recorder) Trace() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.String()
	}
	return out
}

// Named returns the recorded calls with the given name.
func (r *Recorder) Named(name string) []Call {
	var out []Call
	for _, c := range r.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many calls with the given name were recorded.
func (r *Recorder) Count(name string) int {
	return len(r.Named(name))
}

// Reset clears the call log but keeps the simulated state.
func (r *Recorder) Reset() {
	r.calls = nil
}

// InjectError queues an error code for the next Error call.
func (r *Recorder) InjectError(code uint32) {
	r.errors = append(r.errors, code)
}

// Enabled reports whether capability is currently enabled.
func (r *Recorder) Enabled(capability uint32) bool { return r.caps[capability] }

// DepthMaskState returns the current depth write flag.
func (r *Recorder) DepthMaskState() bool { return r.depthMask }

// BlendState returns the current blend factors.
func (r *Recorder) BlendState() (uint32, uint32) { return r.blend[0], r.blend[1] }

// CurrentProgram returns the program in use.
func (r *Recorder) CurrentProgram() uint32 { return r.program }

// BoundFramebuffer returns the bound render target, 0 for the default one.
func (r *Recorder) BoundFramebuffer() uint32 { return r.framebuffer }

// BoundTexture returns the texture bound to target on the given unit
// (gpu.Texture0 + n).
func (r *Recorder) BoundTexture(unit, target uint32) uint32 {
	return r.bound[texSlot{unit: unit, target: target}]
}

// TexParam returns the stored sampler parameter of tex, or its driver
// default when never set.
func (r *Recorder) TexParam(tex, pname uint32) []int32 {
	if v, ok := r.texParams[tex][pname]; ok {
		return append([]int32(nil), v...)
	}
	return defaultTexParam(pname)
}

// Material returns the last material block upload.
func (r *Recorder) Material() gpu.MaterialParams { return r.material }

// TransformState returns the last transform block upload.
func (r *Recorder) TransformState() gpu.Transform { return r.transform }

// Live returns how many objects of kind ("buffer", "texture", "framebuffer",
// "program", "shader", "vertexarray") are allocated and not deleted.
func (r *Recorder) Live(kind string) int { return len(r.live[kind]) }

// ShaderSourceOf returns the source last given to shader.
func (r *Recorder) ShaderSourceOf(shader uint32) string { return r.shaderSource[shader] }

func defaultTexParam(pname uint32) []int32 {
	switch pname {
	case gpu.TextureCompareMode:
		return []int32{int32(gpu.None)}
	case gpu.TextureCompareFunc:
		return []int32{int32(gpu.LEqual)}
	case gpu.TextureSwizzleRGBA:
		return []int32{int32(gpu.Red), int32(gpu.Green), int32(gpu.Blue), int32(gpu.Alpha)}
	case gpu.TextureSwizzleR:
		return []int32{int32(gpu.Red)}
	case gpu.TextureSwizzleG:
		return []int32{int32(gpu.Green)}
	case gpu.TextureSwizzleB:
		return []int32{int32(gpu.Blue)}
	case gpu.TextureSwizzleA:
		return []int32{int32(gpu.Alpha)}
	}
	return []int32{0}
}

func (r *Recorder) record(name string, args ...any) {
	r.calls = append(r.calls, Call{Name: name, Args: args})
}

func (r *Recorder) alloc(kind string) uint32 {
	r.next++
	if r.live[kind] == nil {
		r.live[kind] = make(map[uint32]bool)
	}
	r.live[kind][r.next] = true
	return r.next
}

func (r *Recorder) free(kind string, id uint32) {
	delete(r.live[kind], id)
}

func (r *Recorder) boundTex(target uint32) uint32 {
	return r.bound[texSlot{unit: r.activeUnit, target: target}]
}

func (r *Recorder) Enable(capability uint32) {
	r.record("Enable", capability)
	r.caps[capability] = true
}

func (r *Recorder) Disable(capability uint32) {
	r.record("Disable", capability)
	r.caps[capability] = false
}

func (r *Recorder) DepthMask(flag bool) {
	r.record("DepthMask", flag)
	r.depthMask = flag
}

func (r *Recorder) BlendFunc(src, dst uint32) {
	r.record("BlendFunc", src, dst)
	r.blend = [2]uint32{src, dst}
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
	r.viewport = [4]int32{x, y, width, height}
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) {
	r.record("ClearColor", cr, cg, cb, ca)
}

func (r *Recorder) Clear(mask uint32) {
	r.record("Clear", mask)
}

func (r *Recorder) GetIntegerv(pname uint32, out []int32) {
	r.record("GetIntegerv", pname)
	switch pname {
	case gpu.Viewport:
		copy(out, r.viewport[:])
	case gpu.FramebufferBinding:
		set(out, r.framebuffer)
	case gpu.ActiveTextureUnit:
		set(out, r.activeUnit)
	case gpu.TextureBinding2D:
		set(out, r.bound[texSlot{unit: r.activeUnit, target: gpu.Texture2D}])
	case gpu.CurrentProgram:
		set(out, r.program)
	}
}

func set(out []int32, v uint32) {
	if len(out) > 0 {
		out[0] = int32(v)
	}
}

func (r *Recorder) Error() uint32 {
	if len(r.errors) == 0 {
		return gpu.NoError
	}
	code := r.errors[0]
	r.errors = r.errors[1:]
	return code
}

func (r *Recorder) SetMaterial(params gpu.MaterialParams) {
	r.record("SetMaterial", params.Ambient, params.Diffuse, params.Specular, params.Emission, params.Shininess)
	r.material = params
}

func (r *Recorder) SetTransform(t gpu.Transform) {
	r.record("SetTransform", t.Model)
	r.transform = t
}

func (r *Recorder) CreateTexture() uint32 {
	id := r.alloc("texture")
	r.record("CreateTexture", id)
	return id
}

func (r *Recorder) DeleteTexture(tex uint32) {
	r.record("DeleteTexture", tex)
	r.free("texture", tex)
	delete(r.texParams, tex)
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.record("ActiveTexture", unit)
	r.activeUnit = unit
}

func (r *Recorder) BindTexture(target, tex uint32) {
	r.record("BindTexture", target, tex)
	r.bound[texSlot{unit: r.activeUnit, target: target}] = tex
}

func (r *Recorder) TexImage2D(target uint32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	r.record("TexImage2D", target, internalFormat, width, height, format, xtype, len(pixels))
}

func (r *Recorder) TexParameteri(target, pname uint32, value int32) {
	r.record("TexParameteri", target, pname, value)
	r.setTexParam(target, pname, []int32{value})
}

func (r *Recorder) TexParameteriv(target, pname uint32, values []int32) {
	r.record("TexParameteriv", target, pname, append([]int32(nil), values...))
	r.setTexParam(target, pname, values)
}

func (r *Recorder) setTexParam(target, pname uint32, values []int32) {
	tex := r.boundTex(target)
	if r.texParams[tex] == nil {
		r.texParams[tex] = make(map[uint32][]int32)
	}
	r.texParams[tex][pname] = append([]int32(nil), values...)
	if pname == gpu.TextureSwizzleRGBA {
		for i, p := range []uint32{gpu.TextureSwizzleR, gpu.TextureSwizzleG, gpu.TextureSwizzleB, gpu.TextureSwizzleA} {
			if i < len(values) {
				r.texParams[tex][p] = []int32{values[i]}
			}
		}
	}
}

func (r *Recorder) GetTexParameteriv(target, pname uint32, out []int32) {
	r.record("GetTexParameteriv", target, pname)
	copy(out, r.TexParam(r.boundTex(target), pname))
}

func (r *Recorder) CreateFramebuffer() uint32 {
	id := r.alloc("framebuffer")
	r.record("CreateFramebuffer", id)
	return id
}

func (r *Recorder) DeleteFramebuffer(fbo uint32) {
	r.record("DeleteFramebuffer", fbo)
	r.free("framebuffer", fbo)
	if r.framebuffer == fbo {
		r.framebuffer = 0
	}
}

func (r *Recorder) BindFramebuffer(fbo uint32) {
	r.record("BindFramebuffer", fbo)
	r.framebuffer = fbo
}

func (r *Recorder) FramebufferTexture2D(attachment, textarget, tex uint32) {
	r.record("FramebufferTexture2D", attachment, textarget, tex)
}

func (r *Recorder) CheckFramebufferStatus() uint32 {
	r.record("CheckFramebufferStatus")
	return r.FramebufferStatus
}

func (r *Recorder) CreateShader(stage uint32) uint32 {
	id := r.alloc("shader")
	r.record("CreateShader", stage)
	return id
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record("DeleteShader", shader)
	r.free("shader", shader)
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.record("ShaderSource", shader)
	r.shaderSource[shader] = source
}

func (r *Recorder) CompileShader(shader uint32) {
	r.record("CompileShader", shader)
	ok := r.FailCompile == nil || !r.FailCompile(r.shaderSource[shader])
	r.compiled[shader] = ok
}

func (r *Recorder) ShaderCompileStatus(shader uint32) bool { return r.compiled[shader] }

func (r *Recorder) ShaderInfoLog(shader uint32) string {
	if r.compiled[shader] {
		return ""
	}
	return r.CompileLog
}

func (r *Recorder) CreateProgram() uint32 {
	id := r.alloc("program")
	r.record("CreateProgram", id)
	return id
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
	r.free("program", program)
	if r.program == program {
		r.program = 0
	}
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader", program, shader)
}

func (r *Recorder) LinkProgram(program uint32) {
	r.record("LinkProgram", program)
	r.linked[program] = !r.FailLink
}

func (r *Recorder) ValidateProgram(program uint32) {
	r.record("ValidateProgram", program)
}

func (r *Recorder) ProgramLinkStatus(program uint32) bool { return r.linked[program] }

func (r *Recorder) ProgramValidateStatus(program uint32) bool { return r.linked[program] }

func (r *Recorder) ProgramInfoLog(program uint32) string {
	if r.linked[program] {
		return ""
	}
	return r.LinkLog
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram", program)
	r.program = program
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	r.record("UniformLocation", program, name)
	if loc, ok := r.Locations[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) UniformBlockBinding(program uint32, block string, binding uint32) {
	r.record("UniformBlockBinding", program, block, binding)
}

func (r *Recorder) ProgramUniform1f(program uint32, location int32, v float32) {
	r.record("ProgramUniform1f", program, location, v)
}

func (r *Recorder) ProgramUniform2f(program uint32, location int32, x, y float32) {
	r.record("ProgramUniform2f", program, location, x, y)
}

func (r *Recorder) ProgramUniform3f(program uint32, location int32, x, y, z float32) {
	r.record("ProgramUniform3f", program, location, x, y, z)
}

func (r *Recorder) ProgramUniform4f(program uint32, location int32, x, y, z, w float32) {
	r.record("ProgramUniform4f", program, location, x, y, z, w)
}

func (r *Recorder) ProgramUniform1i(program uint32, location int32, v int32) {
	r.record("ProgramUniform1i", program, location, v)
}

func (r *Recorder) ProgramUniform2i(program uint32, location int32, x, y int32) {
	r.record("ProgramUniform2i", program, location, x, y)
}

func (r *Recorder) ProgramUniform3i(program uint32, location int32, x, y, z int32) {
	r.record("ProgramUniform3i", program, location, x, y, z)
}

func (r *Recorder) ProgramUniform4i(program uint32, location int32, x, y, z, w int32) {
	r.record("ProgramUniform4i", program, location, x, y, z, w)
}

func (r *Recorder) ProgramUniformMatrix3fv(program uint32, location int32, m mgl32.Mat3) {
	r.record("ProgramUniformMatrix3fv", program, location, m)
}

func (r *Recorder) ProgramUniformMatrix4fv(program uint32, location int32, m mgl32.Mat4) {
	r.record("ProgramUniformMatrix4fv", program, location, m)
}

func (r *Recorder) CreateBuffer() uint32 {
	id := r.alloc("buffer")
	r.record("CreateBuffer", id)
	return id
}

func (r *Recorder) DeleteBuffer(buf uint32) {
	r.record("DeleteBuffer", buf)
	r.free("buffer", buf)
}

func (r *Recorder) BindBuffer(target, buf uint32) {
	r.record("BindBuffer", target, buf)
}

func (r *Recorder) BufferData(target uint32, size int, data any, usage uint32) {
	r.record("BufferData", target, size, usage)
}

func (r *Recorder) CreateVertexArray() uint32 {
	id := r.alloc("vertexarray")
	r.record("CreateVertexArray", id)
	return id
}

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.record("DeleteVertexArray", vao)
	r.free("vertexarray", vao)
}

func (r *Recorder) BindVertexArray(vao uint32) {
	r.record("BindVertexArray", vao)
	r.vertexArray = vao
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	r.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (r *Recorder) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset int) {
	r.record("VertexAttribIPointer", index, size, xtype, stride, offset)
}

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	r.record("DrawArrays", mode, first, count)
}

func (r *Recorder) DrawElements(mode uint32, count int32, xtype uint32) {
	r.record("DrawElements", mode, count, xtype)
}
