package graphics

import (
	"modelviewer/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// cubeFaces lists each face as its outward normal and four corners,
// counter-clockwise seen from outside, on the unit cube [-1, 1]^3.
var cubeFaces = [6]struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}{
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},      // top
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}}, // bottom
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},      // front
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}}, // back
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}}, // left
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},      // right
}

var cubeTexCoords = [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

// CubeData returns a cube with half-extent size: 24 vertices, four per
// face, so every face has its own normal, and 6 quads.
func CubeData(size float32) MeshData {
	var data MeshData
	for _, f := range cubeFaces {
		base := uint32(len(data.Positions))
		for i, c := range f.corners {
			data.Positions = append(data.Positions, c.Mul(size))
			data.Normals = append(data.Normals, f.normal)
			data.TexCoords = append(data.TexCoords, cubeTexCoords[i])
			data.Faces = append(data.Faces, base+uint32(i))
		}
	}
	return data
}

// NewCube uploads CubeData(size) as a quad mesh.
func NewCube(dev gpu.Device, size float32) *Mesh {
	return NewMesh(dev, Quads, CubeData(size))
}
