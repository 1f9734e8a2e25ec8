package graphics

import (
	"maps"
	"slices"

	"modelviewer/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Material bundles the fixed-function style colours, capability toggles,
// depth and blend state, texture bindings and an optional program with its
// uniforms. Apply re-asserts all of it every time it is called.
type Material struct {
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular  mgl32.Vec4
	Emission  mgl32.Vec4
	Shininess float32

	caps      map[uint32]bool
	depthMask bool
	blendSrc  uint32
	blendDst  uint32
	textures  map[int]*Texture
	program   *Program
	uniforms  *UniformGroup
}

// NewMaterial returns a material with the classic fixed-function defaults.
func NewMaterial() *Material {
	return &Material{
		Ambient:   mgl32.Vec4{0.2, 0.2, 0.2, 1},
		Diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
		Specular:  mgl32.Vec4{0, 0, 0, 1},
		Emission:  mgl32.Vec4{0, 0, 0, 1},
		caps:      make(map[uint32]bool),
		depthMask: true,
		blendSrc:  gpu.One,
		blendDst:  gpu.Zero,
		textures:  make(map[int]*Texture),
		uniforms:  NewUniformGroup(),
	}
}

// Enable records capability as enabled. The last Enable or Disable for a
// capability wins.
func (m *Material) Enable(capability uint32)  { m.caps[capability] = true }
func (m *Material) Disable(capability uint32) { m.caps[capability] = false }

// Capability reports the recorded state of capability and whether one is
// recorded at all.
func (m *Material) Capability(capability uint32) (enabled, ok bool) {
	enabled, ok = m.caps[capability]
	return enabled, ok
}

func (m *Material) SetDepthMask(flag bool) { m.depthMask = flag }
func (m *Material) DepthMask() bool        { return m.depthMask }

func (m *Material) SetBlendFunc(src, dst uint32) {
	m.blendSrc, m.blendDst = src, dst
}

func (m *Material) BlendFunc() (src, dst uint32) { return m.blendSrc, m.blendDst }

// SetTexture binds tex to the texture unit index. A nil texture clears
// the unit.
func (m *Material) SetTexture(unit int, tex *Texture) {
	if tex == nil {
		delete(m.textures, unit)
		return
	}
	m.textures[unit] = tex
}

func (m *Material) Texture(unit int) *Texture { return m.textures[unit] }

func (m *Material) SetProgram(p *Program) { m.program = p }
func (m *Material) Program() *Program     { return m.program }

// Uniforms returns the group pushed to the program on Apply.
func (m *Material) Uniforms() *UniformGroup { return m.uniforms }

// SetUniforms replaces the uniform group; nil disables uniform upload.
func (m *Material) SetUniforms(g *UniformGroup) { m.uniforms = g }

// Params returns the colour block uploaded by Apply.
func (m *Material) Params() gpu.MaterialParams {
	return gpu.MaterialParams{
		Ambient:   m.Ambient,
		Diffuse:   m.Diffuse,
		Specular:  m.Specular,
		Emission:  m.Emission,
		Shininess: m.Shininess,
	}
}

// Apply sets the full material state on the context's device. Capabilities
// and texture units are visited in ascending order so equal materials
// always produce the same call sequence.
func (m *Material) Apply(ctx *RenderContext) {
	dev := ctx.Device

	dev.SetMaterial(m.Params())

	for _, c := range slices.Sorted(maps.Keys(m.caps)) {
		if m.caps[c] {
			dev.Enable(c)
		} else {
			dev.Disable(c)
		}
	}

	dev.DepthMask(m.depthMask)
	dev.BlendFunc(m.blendSrc, m.blendDst)

	for _, unit := range slices.Sorted(maps.Keys(m.textures)) {
		dev.ActiveTexture(gpu.Texture0 + uint32(unit))
		dev.BindTexture(gpu.Texture2D, m.textures[unit].Handle())
	}

	if m.program != nil {
		dev.UseProgram(m.program.Handle())
		if m.uniforms != nil {
			m.uniforms.Apply(m.program, ctx)
		}
	}
}
