package graphics

// Model pairs a mesh with the material it is drawn with.
type Model struct {
	Mesh     *Mesh
	Material *Material
}

func NewModel(mesh *Mesh, material *Material) *Model {
	return &Model{Mesh: mesh, Material: material}
}

// Draw applies the effective material and draws the mesh.
func (m *Model) Draw(ctx *RenderContext) {
	if mat := ctx.MaterialFor(m.Material); mat != nil {
		mat.Apply(ctx)
	}
	if m.Mesh != nil {
		m.Mesh.Draw(ctx)
	}
}
