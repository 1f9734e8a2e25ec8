package graphics

import (
	"reflect"
	"testing"

	"modelviewer/internal/graphics/gpu/gputest"
)

func TestUniformGroupLastWriteWinsKeepsOrder(t *testing.T) {
	g := NewUniformGroup()
	g.Set("a", Float(1))
	g.Set("b", Int(2))
	g.Set("a", Float(3))

	if got := g.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Names() = %v", got)
	}
	if v, _ := g.Get("a"); v != Float(3) {
		t.Fatalf("a = %v, want 3", v)
	}

	g.Delete("a")
	g.Set("c", Float(4))
	if got := g.Names(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("Names() after delete = %v", got)
	}
	if v, _ := g.Get("c"); v != Float(4) {
		t.Fatalf("c = %v after reindex", v)
	}
}

func TestUniformGroupApply(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.Declare("eye", "eyeSeparation", "scale")
	p := mustProgram(t, rec)

	g := NewUniformGroup()
	g.Set("scale", Float(2))
	g.Set("missing", Float(9))
	AddStereoUniforms(g)
	if _, ok := g.Get("eye"); ok {
		t.Fatalf("computed entries have no constant value")
	}
	rec.Reset()

	g.Apply(p, &RenderContext{Device: rec, Stereo: StereoRight, EyeSeparation: 0.065})

	calls := rec.Named("ProgramUniform1f")
	if len(calls) != 3 {
		t.Fatalf("uploads = %d, want 3", len(calls))
	}
	if calls[0].Args[2] != float32(2) || calls[1].Args[2] != float32(1) || calls[2].Args[2] != float32(0.065) {
		t.Fatalf("uploaded %v %v %v", calls[0].Args, calls[1].Args, calls[2].Args)
	}
}
