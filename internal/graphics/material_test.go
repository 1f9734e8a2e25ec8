package graphics

import (
	"reflect"
	"testing"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/graphics/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	if m.Ambient != (mgl32.Vec4{0.2, 0.2, 0.2, 1}) || m.Diffuse != (mgl32.Vec4{0.8, 0.8, 0.8, 1}) {
		t.Fatalf("unexpected default colours %v %v", m.Ambient, m.Diffuse)
	}
	if !m.DepthMask() {
		t.Fatalf("depth mask should default to true")
	}
	if src, dst := m.BlendFunc(); src != gpu.One || dst != gpu.Zero {
		t.Fatalf("blend = %x/%x, want ONE/ZERO", src, dst)
	}
	if m.Uniforms() == nil {
		t.Fatalf("uniform group should not be nil")
	}
}

func TestMaterialApplyOrder(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.Declare("tint")
	vs, _ := CompileShader(rec, gpu.VertexShader, "v")
	fs, _ := CompileShader(rec, gpu.FragmentShader, "f")
	prog, err := NewProgram(rec, vs, fs)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	m := NewMaterial()
	m.Enable(gpu.DepthTest)
	m.Disable(gpu.Blend)
	m.SetDepthMask(false)
	m.SetBlendFunc(gpu.SrcAlpha, gpu.OneMinusSrcAlpha)
	m.SetTexture(1, NewEmptyTexture(rec, 2, 2, int32(gpu.RGBA8), gpu.RGBA, gpu.UnsignedByte))
	m.SetProgram(prog)
	m.Uniforms().Set("tint", Vec3{1, 0, 0})
	rec.Reset()

	m.Apply(&RenderContext{Device: rec})

	var names []string
	for _, c := range rec.Calls() {
		names = append(names, c.Name)
	}
	want := []string{
		"SetMaterial",
		"Enable", "Disable", // DepthTest 0x0B71 then Blend 0x0BE2
		"DepthMask", "BlendFunc",
		"ActiveTexture", "BindTexture",
		"UseProgram",
		"UniformLocation", "ProgramUniform3f",
	}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("call sequence\n got %v\nwant %v", names, want)
	}
	if rec.Enabled(gpu.Blend) || !rec.Enabled(gpu.DepthTest) {
		t.Fatalf("capabilities not applied")
	}
	if rec.DepthMaskState() {
		t.Fatalf("depth mask not applied")
	}
	if got := rec.BoundTexture(gpu.Texture0+1, gpu.Texture2D); got != m.Texture(1).Handle() {
		t.Fatalf("unit 1 texture = %d, want %d", got, m.Texture(1).Handle())
	}
}

func TestMaterialApplyIsOrderIndependent(t *testing.T) {
	a := NewMaterial()
	a.Enable(gpu.CullFace)
	a.Disable(gpu.Blend)
	a.Enable(gpu.DepthTest)
	a.Disable(gpu.CullFace)

	b := NewMaterial()
	b.Enable(gpu.DepthTest)
	b.Disable(gpu.CullFace)
	b.Disable(gpu.Blend)

	recA, recB := gputest.NewRecorder(), gputest.NewRecorder()
	for i := 0; i < 5; i++ {
		recA.Reset()
		recB.Reset()
		a.Apply(&RenderContext{Device: recA})
		b.Apply(&RenderContext{Device: recB})
		if !reflect.DeepEqual(recA.Trace(), recB.Trace()) {
			t.Fatalf("equal materials diverged\n a %v\n b %v", recA.Trace(), recB.Trace())
		}
	}
}

func TestMaterialApplyReassertsEveryCall(t *testing.T) {
	rec := gputest.NewRecorder()
	m := NewMaterial()
	m.Enable(gpu.DepthTest)
	ctx := &RenderContext{Device: rec}

	m.Apply(ctx)
	first := rec.Trace()
	rec.Reset()
	m.Apply(ctx)
	if !reflect.DeepEqual(first, rec.Trace()) {
		t.Fatalf("second Apply differs from the first")
	}
}

func TestMaterialOverride(t *testing.T) {
	own, override := NewMaterial(), NewMaterial()
	ctx := &RenderContext{}
	if ctx.MaterialFor(own) != own {
		t.Fatalf("own material should be used without an override")
	}
	ctx.OverrideMaterial = override
	if ctx.MaterialFor(own) != override {
		t.Fatalf("override material should win")
	}
}
