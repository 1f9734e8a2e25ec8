package graphics

import (
	"errors"
	"fmt"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Vertex attribute locations shared with every mesh shader.
const (
	PositionLocation    uint32 = 0
	NormalLocation      uint32 = 1
	TexCoordLocation    uint32 = 2
	BoneWeightsLocation uint32 = 3
	BoneIndicesLocation uint32 = 4
	BoneCountsLocation  uint32 = 5
)

// NoBone marks an unused bone slot.
const NoBone int32 = -1

// MaxBones is the number of bone slots per vertex.
const MaxBones = 4

var (
	ErrFaceIndexOutOfRange = errors.New("face index out of range")
	ErrQuadFaceCount       = errors.New("quad face count is not a multiple of 4")
	ErrTexCoordCount       = errors.New("texcoord count does not match vertex count")
	ErrNormalCount         = errors.New("normal count does not match vertex count")
	ErrBoneWeightCount     = errors.New("bone weight count does not match vertex count")
	ErrBoneCountCount      = errors.New("bone count count does not match vertex count")
	ErrBoneIndexCount      = errors.New("bone index count does not match vertex count")
)

// Primitive is the face layout of a mesh's index array.
type Primitive int

const (
	Triangles Primitive = iota
	// Quads are expanded to two triangles each on upload.
	Quads
	Lines
)

func (p Primitive) String() string {
	switch p {
	case Quads:
		return "quads"
	case Lines:
		return "lines"
	}
	return "triangles"
}

// MeshData is the CPU side input of a mesh.
type MeshData struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec3
	Faces     []uint32

	// Optional skinning data. Empty slices mean "no bones".
	BoneWeights []mgl32.Vec4
	BoneIndices [][MaxBones]int32
}

const (
	normalBuffer = iota
	texCoordBuffer
	positionBuffer
	boneWeightBuffer
	boneIndexBuffer
	boneCountBuffer
	faceBuffer
	bufferCount
)

// Mesh owns the GPU buffers of one piece of geometry.
type Mesh struct {
	dev       gpu.Device
	primitive Primitive

	normals     []mgl32.Vec3
	texCoords   []mgl32.Vec3
	positions   []mgl32.Vec3
	faces       []uint32
	boneWeights []mgl32.Vec4
	boneIndices [][MaxBones]int32
	boneCounts  []int32

	// Location offsets the mesh inside its node.
	Location mgl32.Vec3

	vao        uint32
	buffers    [bufferCount]uint32
	indexCount int32
}

// NewMesh takes ownership of data's slices, fills in missing skinning
// data and uploads every attribute to its own buffer.
func NewMesh(dev gpu.Device, primitive Primitive, data MeshData) *Mesh {
	m := &Mesh{
		dev:         dev,
		primitive:   primitive,
		normals:     data.Normals,
		texCoords:   data.TexCoords,
		positions:   data.Positions,
		faces:       data.Faces,
		boneWeights: data.BoneWeights,
		boneIndices: data.BoneIndices,
	}

	n := len(m.positions)
	if len(m.boneIndices) == 0 {
		m.boneIndices = make([][MaxBones]int32, n)
		for i := range m.boneIndices {
			m.boneIndices[i] = [MaxBones]int32{NoBone, NoBone, NoBone, NoBone}
		}
	}
	if len(m.boneWeights) == 0 {
		m.boneWeights = make([]mgl32.Vec4, n)
	}

	m.boneCounts = make([]int32, len(m.boneIndices))
	for i, idx := range m.boneIndices {
		m.boneCounts[i] = boneCount(idx)
	}

	m.upload()
	return m
}

// boneCount is the position of the first unused slot.
func boneCount(idx [MaxBones]int32) int32 {
	for i, b := range idx {
		if b == NoBone {
			return int32(i)
		}
	}
	return MaxBones
}

func (m *Mesh) upload() {
	d := m.dev
	m.vao = d.CreateVertexArray()
	d.BindVertexArray(m.vao)

	m.buffers[normalBuffer] = m.arrayBuffer(len(m.normals)*12, m.normals)
	m.buffers[texCoordBuffer] = m.arrayBuffer(len(m.texCoords)*12, m.texCoords)
	m.buffers[positionBuffer] = m.arrayBuffer(len(m.positions)*12, m.positions)
	m.buffers[boneWeightBuffer] = m.arrayBuffer(len(m.boneWeights)*16, m.boneWeights)
	m.buffers[boneIndexBuffer] = m.arrayBuffer(len(m.boneIndices)*16, m.boneIndices)
	m.buffers[boneCountBuffer] = m.arrayBuffer(len(m.boneCounts)*4, m.boneCounts)

	if m.primitive == Quads && len(m.faces)%4 != 0 {
		logger.Log.Warn("quad mesh has a partial face, trailing indices are not drawn",
			zap.Int("faces", len(m.faces)))
	}
	indices := m.drawIndices()
	m.indexCount = int32(len(indices))
	m.buffers[faceBuffer] = d.CreateBuffer()
	d.BindBuffer(gpu.ElementArrayBuffer, m.buffers[faceBuffer])
	d.BufferData(gpu.ElementArrayBuffer, len(indices)*4, sliceOrNil(indices), gpu.StaticDraw)

	d.BindVertexArray(0)
	d.BindBuffer(gpu.ArrayBuffer, 0)
}

func (m *Mesh) arrayBuffer(size int, data any) uint32 {
	buf := m.dev.CreateBuffer()
	m.dev.BindBuffer(gpu.ArrayBuffer, buf)
	if size == 0 {
		data = nil
	}
	m.dev.BufferData(gpu.ArrayBuffer, size, data, gpu.StaticDraw)
	return buf
}

func sliceOrNil(s []uint32) any {
	if len(s) == 0 {
		return nil
	}
	return s
}

// drawIndices returns the faces as the device draws them. The core
// profile has no quads, so each quad a b c d becomes a b c, a c d.
func (m *Mesh) drawIndices() []uint32 {
	if m.primitive != Quads {
		return m.faces
	}
	out := make([]uint32, 0, len(m.faces)/4*6)
	for i := 0; i+3 < len(m.faces); i += 4 {
		a, b, c, d := m.faces[i], m.faces[i+1], m.faces[i+2], m.faces[i+3]
		out = append(out, a, b, c, a, c, d)
	}
	return out
}

func (m *Mesh) drawMode() uint32 {
	if m.primitive == Lines {
		return gpu.Lines
	}
	return gpu.Triangles
}

// Verify checks the structural invariants of the mesh and returns the
// first one violated.
func (m *Mesh) Verify() error {
	n := len(m.positions)
	logger.Log.Debug("mesh verify",
		zap.Int("texcoords", len(m.texCoords)),
		zap.Int("normals", len(m.normals)),
		zap.Int("vertices", n),
		zap.Int("faces", len(m.faces)),
		zap.Int("boneWeights", len(m.boneWeights)),
		zap.Int("boneIndices", len(m.boneIndices)),
	)

	for i, f := range m.faces {
		if int(f) >= n {
			return fmt.Errorf("%w: face %d references vertex %d of %d", ErrFaceIndexOutOfRange, i, f, n)
		}
	}
	if m.primitive == Quads && len(m.faces)%4 != 0 {
		return fmt.Errorf("%w: %d indices", ErrQuadFaceCount, len(m.faces))
	}
	if len(m.texCoords) != n {
		return fmt.Errorf("%w: %d texcoords, %d vertices", ErrTexCoordCount, len(m.texCoords), n)
	}
	if len(m.normals) != n {
		return fmt.Errorf("%w: %d normals, %d vertices", ErrNormalCount, len(m.normals), n)
	}
	if len(m.boneWeights) != n {
		return fmt.Errorf("%w: %d bone weights, %d vertices", ErrBoneWeightCount, len(m.boneWeights), n)
	}
	if len(m.boneCounts) != n {
		return fmt.Errorf("%w: %d bone counts, %d vertices", ErrBoneCountCount, len(m.boneCounts), n)
	}
	if len(m.boneIndices) != n {
		return fmt.Errorf("%w: %d bone indices, %d vertices", ErrBoneIndexCount, len(m.boneIndices), n)
	}
	return nil
}

// Draw binds every attribute at its fixed location and issues one indexed
// draw for the whole face array.
func (m *Mesh) Draw(ctx *RenderContext) {
	d := ctx.Device
	d.BindVertexArray(m.vao)

	m.bindFloatAttrib(d, normalBuffer, NormalLocation, 3)
	m.bindFloatAttrib(d, texCoordBuffer, TexCoordLocation, 3)
	m.bindFloatAttrib(d, positionBuffer, PositionLocation, 3)
	m.bindFloatAttrib(d, boneWeightBuffer, BoneWeightsLocation, 4)
	m.bindIntAttrib(d, boneIndexBuffer, BoneIndicesLocation, 4)
	m.bindIntAttrib(d, boneCountBuffer, BoneCountsLocation, 1)

	d.BindBuffer(gpu.ElementArrayBuffer, m.buffers[faceBuffer])

	d.SetTransform(ctx.Transform(mgl32.Translate3D(m.Location.X(), m.Location.Y(), m.Location.Z())))
	d.DrawElements(m.drawMode(), m.indexCount, gpu.UnsignedInt)

	d.BindVertexArray(0)
}

func (m *Mesh) bindFloatAttrib(d gpu.Device, buffer int, location uint32, size int32) {
	d.BindBuffer(gpu.ArrayBuffer, m.buffers[buffer])
	d.VertexAttribPointer(location, size, gpu.Float, false, 0, 0)
	d.EnableVertexAttribArray(location)
}

func (m *Mesh) bindIntAttrib(d gpu.Device, buffer int, location uint32, size int32) {
	d.BindBuffer(gpu.ArrayBuffer, m.buffers[buffer])
	d.VertexAttribIPointer(location, size, gpu.Int, 0, 0)
	d.EnableVertexAttribArray(location)
}

func (m *Mesh) Primitive() Primitive { return m.primitive }

func (m *Mesh) Positions() []mgl32.Vec3        { return m.positions }
func (m *Mesh) Normals() []mgl32.Vec3          { return m.normals }
func (m *Mesh) TexCoords() []mgl32.Vec3        { return m.texCoords }
func (m *Mesh) Faces() []uint32                { return m.faces }
func (m *Mesh) BoneWeights() []mgl32.Vec4      { return m.boneWeights }
func (m *Mesh) BoneIndices() [][MaxBones]int32 { return m.boneIndices }
func (m *Mesh) BoneCounts() []int32            { return m.boneCounts }

// IndexCount is the number of indices in the element buffer.
func (m *Mesh) IndexCount() int32 { return m.indexCount }

// Release deletes the vertex array and every buffer.
func (m *Mesh) Release() {
	if m.vao == 0 {
		return
	}
	for i, buf := range m.buffers {
		m.dev.DeleteBuffer(buf)
		m.buffers[i] = 0
	}
	m.dev.DeleteVertexArray(m.vao)
	m.vao = 0
}
