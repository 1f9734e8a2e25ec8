package graphics

import "github.com/go-gl/mathgl/mgl32"

// UniformValue is a value a Program can upload. The set of implementations
// is closed; Program.SetUniform switches over all of them.
type UniformValue interface {
	uniformValue()
}

// Uniform value kinds. Uint is uploaded through the signed integer path.
// Matrices are column-major and uploaded without transpose.
type (
	Float float32
	Vec2  mgl32.Vec2
	Vec3  mgl32.Vec3
	Vec4  mgl32.Vec4
	Int   int32
	Uint  uint32
	IVec2 [2]int32
	IVec3 [3]int32
	IVec4 [4]int32
	Mat3  mgl32.Mat3
	Mat4  mgl32.Mat4
)

func (Float) uniformValue() {}
func (Vec2) uniformValue()  {}
func (Vec3) uniformValue()  {}
func (Vec4) uniformValue()  {}
func (Int) uniformValue()   {}
func (Uint) uniformValue()  {}
func (IVec2) uniformValue() {}
func (IVec3) uniformValue() {}
func (IVec4) uniformValue() {}
func (Mat3) uniformValue()  {}
func (Mat4) uniformValue()  {}

// UniformFunc computes a uniform from the context it is applied in.
type UniformFunc func(ctx *RenderContext) UniformValue

type uniformEntry struct {
	name  string
	value UniformValue
	fn    UniformFunc
}

// UniformGroup is an ordered set of named uniform values. Setting a name
// again replaces its value but keeps its original position.
type UniformGroup struct {
	entries []uniformEntry
	index   map[string]int
}

func NewUniformGroup() *UniformGroup {
	return &UniformGroup{index: make(map[string]int)}
}

// Set stores a constant value.
func (g *UniformGroup) Set(name string, v UniformValue) {
	g.put(uniformEntry{name: name, value: v})
}

// SetFunc stores a value computed at every Apply.
func (g *UniformGroup) SetFunc(name string, fn UniformFunc) {
	g.put(uniformEntry{name: name, fn: fn})
}

func (g *UniformGroup) put(e uniformEntry) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	if i, ok := g.index[e.name]; ok {
		g.entries[i] = e
		return
	}
	g.index[e.name] = len(g.entries)
	g.entries = append(g.entries, e)
}

// Get returns the stored constant for name. Computed entries report false.
func (g *UniformGroup) Get(name string) (UniformValue, bool) {
	i, ok := g.index[name]
	if !ok || g.entries[i].fn != nil {
		return nil, false
	}
	return g.entries[i].value, true
}

// Delete removes name from the group.
func (g *UniformGroup) Delete(name string) {
	i, ok := g.index[name]
	if !ok {
		return
	}
	g.entries = append(g.entries[:i], g.entries[i+1:]...)
	delete(g.index, name)
	for j := i; j < len(g.entries); j++ {
		g.index[g.entries[j].name] = j
	}
}

// Names returns the entry names in insertion order.
func (g *UniformGroup) Names() []string {
	out := make([]string, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.name
	}
	return out
}

func (g *UniformGroup) Len() int { return len(g.entries) }

// Apply uploads every entry to p in insertion order. Names p does not
// declare are skipped by the program.
func (g *UniformGroup) Apply(p *Program, ctx *RenderContext) {
	for _, e := range g.entries {
		v := e.value
		if e.fn != nil {
			v = e.fn(ctx)
		}
		if v == nil {
			continue
		}
		p.SetUniform(e.name, v)
	}
}
