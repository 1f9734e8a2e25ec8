package graphics

import (
	"errors"
	"fmt"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	ErrProgramLink   = errors.New("failed to link program")
	ErrProgramStages = errors.New("program needs one to three shader stages")
)

// Program is a linked shader pipeline. Uniforms are uploaded by handle,
// so a Program does not need to be current to receive them.
type Program struct {
	dev       gpu.Device
	id        uint32
	shaders   []*Shader
	linked    bool
	validated bool
	log       string
	locations map[string]int32
}

// NewProgram links one to three compiled stages. The program takes
// ownership of the shaders and releases them with itself.
func NewProgram(dev gpu.Device, shaders ...*Shader) (*Program, error) {
	if len(shaders) == 0 || len(shaders) > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrProgramStages, len(shaders))
	}

	id := dev.CreateProgram()
	for _, s := range shaders {
		dev.AttachShader(id, s.Handle())
	}
	dev.LinkProgram(id)

	p := &Program{
		dev:       dev,
		id:        id,
		shaders:   shaders,
		linked:    dev.ProgramLinkStatus(id),
		log:       dev.ProgramInfoLog(id),
		locations: make(map[string]int32),
	}
	if !p.linked {
		dev.DeleteProgram(id)
		return nil, fmt.Errorf("%w: %s", ErrProgramLink, p.log)
	}

	dev.UniformBlockBinding(id, gpu.MaterialBlockName, gpu.MaterialBlockBinding)
	dev.UniformBlockBinding(id, gpu.TransformBlockName, gpu.TransformBlockBinding)

	logger.Log.Debug("program linked", zap.Uint32("program", id), zap.Int("stages", len(shaders)))
	return p, nil
}

// Handle returns the driver name of the program.
func (p *Program) Handle() uint32 { return p.id }

// Shaders returns the linked stages.
func (p *Program) Shaders() []*Shader { return p.shaders }

func (p *Program) LinkStatus() bool     { return p.linked }
func (p *Program) ValidateStatus() bool { return p.validated }
func (p *Program) InfoLog() string      { return p.log }

// Validate checks the program against the current pipeline state and
// refreshes the info log.
func (p *Program) Validate() bool {
	p.dev.ValidateProgram(p.id)
	p.validated = p.dev.ProgramValidateStatus(p.id)
	p.log = p.dev.ProgramInfoLog(p.id)
	return p.validated
}

// Use makes the program current.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// Location resolves and caches the location of a uniform. Names the
// linker dropped resolve to -1.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// SetUniform uploads v to the named uniform. Unknown names are ignored.
func (p *Program) SetUniform(name string, v UniformValue) {
	loc := p.Location(name)
	if loc < 0 {
		return
	}
	d, id := p.dev, p.id
	switch v := v.(type) {
	case Float:
		d.ProgramUniform1f(id, loc, float32(v))
	case Vec2:
		d.ProgramUniform2f(id, loc, v[0], v[1])
	case Vec3:
		d.ProgramUniform3f(id, loc, v[0], v[1], v[2])
	case Vec4:
		d.ProgramUniform4f(id, loc, v[0], v[1], v[2], v[3])
	case Int:
		d.ProgramUniform1i(id, loc, int32(v))
	case Uint:
		d.ProgramUniform1i(id, loc, int32(v))
	case IVec2:
		d.ProgramUniform2i(id, loc, v[0], v[1])
	case IVec3:
		d.ProgramUniform3i(id, loc, v[0], v[1], v[2])
	case IVec4:
		d.ProgramUniform4i(id, loc, v[0], v[1], v[2], v[3])
	case Mat3:
		d.ProgramUniformMatrix3fv(id, loc, mgl32.Mat3(v))
	case Mat4:
		d.ProgramUniformMatrix4fv(id, loc, mgl32.Mat4(v))
	default:
		panic(fmt.Sprintf("graphics: unsupported uniform type %T", v))
	}
}

// replace moves next's driver objects into p and releases p's old ones.
// Materials holding p pick up the new pipeline without rebinding.
func (p *Program) replace(next *Program) {
	old := *p
	p.id = next.id
	p.shaders = next.shaders
	p.linked = next.linked
	p.validated = false
	p.log = next.log
	p.locations = make(map[string]int32)
	old.Release()
}

// Release deletes the program and its shaders.
func (p *Program) Release() {
	if p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	for _, s := range p.shaders {
		s.Release()
	}
	p.id = 0
	p.shaders = nil
}
