package graphics

import (
	"testing"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/graphics/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
)

func TestModelDrawUsesEffectiveMaterial(t *testing.T) {
	rec := gputest.NewRecorder()
	cube := NewCube(rec, 1)
	own := NewMaterial()
	own.Diffuse = mgl32.Vec4{1, 0, 0, 1}
	model := NewModel(cube, own)

	ctx := &RenderContext{Device: rec, Camera: NewCamera(1, 1)}
	model.Draw(ctx)
	if rec.Material().Diffuse != own.Diffuse {
		t.Fatalf("own material not applied")
	}

	override := NewMaterial()
	override.Diffuse = mgl32.Vec4{0, 0, 1, 1}
	ctx.OverrideMaterial = override
	model.Draw(ctx)
	if rec.Material().Diffuse != override.Diffuse {
		t.Fatalf("override material not applied")
	}

	draws := rec.Named("DrawElements")
	if len(draws) != 2 || draws[0].Args[0] != gpu.Triangles || draws[0].Args[1] != int32(36) {
		t.Fatalf("draws = %v", draws)
	}
}

func TestModelWithoutMaterial(t *testing.T) {
	rec := gputest.NewRecorder()
	model := NewModel(NewCube(rec, 1), nil)
	model.Draw(&RenderContext{Device: rec, Camera: NewCamera(1, 1)})

	if rec.Count("SetMaterial") != 0 || rec.Count("DrawElements") != 1 {
		t.Fatalf("trace = %v", rec.Trace())
	}
	if rec.TransformState().Projection == (mgl32.Mat4{}) {
		t.Fatalf("transform not uploaded")
	}
}
