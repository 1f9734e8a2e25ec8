package graphics

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/graphics/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
)

func mustProgram(t *testing.T, rec *gputest.Recorder) *Program {
	t.Helper()
	vs, err := CompileShader(rec, gpu.VertexShader, "void main() {}")
	if err != nil {
		t.Fatalf("vertex shader: %v", err)
	}
	fs, err := CompileShader(rec, gpu.FragmentShader, "void main() {}")
	if err != nil {
		t.Fatalf("fragment shader: %v", err)
	}
	p, err := NewProgram(rec, vs, fs)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	return p
}

func TestCompileFailureCarriesLog(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.FailCompile = func(src string) bool { return strings.Contains(src, "broken") }
	rec.CompileLog = "0:1(1): error: syntax error"

	_, err := CompileShader(rec, gpu.VertexShader, "broken")
	if !errors.Is(err, ErrShaderCompile) {
		t.Fatalf("err = %v, want ErrShaderCompile", err)
	}
	if !strings.Contains(err.Error(), rec.CompileLog) {
		t.Fatalf("error %q does not carry the driver log", err)
	}
	if rec.Live("shader") != 0 {
		t.Fatalf("failed shader was not deleted")
	}
}

func TestLoadShader(t *testing.T) {
	fsys := fstest.MapFS{
		"phong.vert": {Data: []byte("void main() {}")},
		"bad.frag":   {Data: []byte("broken")},
	}
	rec := gputest.NewRecorder()
	rec.FailCompile = func(src string) bool { return src == "broken" }

	s, err := LoadShader(rec, fsys, "phong.vert")
	if err != nil {
		t.Fatalf("LoadShader: %v", err)
	}
	if s.Stage() != gpu.VertexShader || s.Path() != "phong.vert" || !s.CompileStatus() {
		t.Fatalf("unexpected shader %+v", s)
	}

	if _, err := LoadShader(rec, fsys, "missing.vert"); !errors.Is(err, ErrShaderRead) {
		t.Fatalf("missing file err = %v, want ErrShaderRead", err)
	}
	_, err = LoadShader(rec, fsys, "bad.frag")
	if !errors.Is(err, ErrShaderCompile) || !strings.Contains(err.Error(), "bad.frag") {
		t.Fatalf("compile err = %v, want ErrShaderCompile naming the path", err)
	}
	if _, err := LoadShader(rec, fsys, "phong.txt"); !errors.Is(err, ErrShaderStage) {
		t.Fatalf("unknown extension err = %v, want ErrShaderStage", err)
	}
}

func TestNewProgramStageCount(t *testing.T) {
	rec := gputest.NewRecorder()
	if _, err := NewProgram(rec); !errors.Is(err, ErrProgramStages) {
		t.Fatalf("zero stages err = %v", err)
	}
	var four []*Shader
	for i := 0; i < 4; i++ {
		s, _ := CompileShader(rec, gpu.VertexShader, "x")
		four = append(four, s)
	}
	if _, err := NewProgram(rec, four...); !errors.Is(err, ErrProgramStages) {
		t.Fatalf("four stages err = %v", err)
	}
	if _, err := NewProgram(rec, four[0]); err != nil {
		t.Fatalf("single stage: %v", err)
	}
}

func TestLinkFailure(t *testing.T) {
	rec := gputest.NewRecorder()
	vs, _ := CompileShader(rec, gpu.VertexShader, "v")
	rec.FailLink = true
	rec.LinkLog = "error: no main"

	_, err := NewProgram(rec, vs)
	if !errors.Is(err, ErrProgramLink) || !strings.Contains(err.Error(), "no main") {
		t.Fatalf("err = %v, want ErrProgramLink with log", err)
	}
	if rec.Live("program") != 0 {
		t.Fatalf("failed program was not deleted")
	}
}

func TestProgramBindsBlocks(t *testing.T) {
	rec := gputest.NewRecorder()
	p := mustProgram(t, rec)

	blocks := map[string]uint32{}
	for _, c := range rec.Named("UniformBlockBinding") {
		blocks[c.Args[1].(string)] = c.Args[2].(uint32)
	}
	if blocks[gpu.MaterialBlockName] != gpu.MaterialBlockBinding || blocks[gpu.TransformBlockName] != gpu.TransformBlockBinding {
		t.Fatalf("block bindings = %v", blocks)
	}
	if !p.LinkStatus() || !p.Validate() || !p.ValidateStatus() {
		t.Fatalf("program should be linked and valid")
	}
}

func TestSetUniformDispatch(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.Declare("f", "v2", "v3", "v4", "i", "u", "iv2", "iv3", "iv4", "m3", "m4")
	p := mustProgram(t, rec)
	rec.Reset()

	p.SetUniform("f", Float(1.5))
	p.SetUniform("v2", Vec2{1, 2})
	p.SetUniform("v3", Vec3{1, 2, 3})
	p.SetUniform("v4", Vec4{1, 2, 3, 4})
	p.SetUniform("i", Int(-7))
	p.SetUniform("u", Uint(7))
	p.SetUniform("iv2", IVec2{1, 2})
	p.SetUniform("iv3", IVec3{1, 2, 3})
	p.SetUniform("iv4", IVec4{1, 2, 3, 4})
	p.SetUniform("m3", Mat3(mgl32.Ident3()))
	p.SetUniform("m4", Mat4(mgl32.Translate3D(1, 2, 3)))

	var got []string
	for _, c := range rec.Calls() {
		if strings.HasPrefix(c.Name, "ProgramUniform") {
			got = append(got, c.Name)
			if c.Args[0] != p.Handle() {
				t.Fatalf("%s targeted program %v, want %d", c.Name, c.Args[0], p.Handle())
			}
		}
	}
	want := []string{
		"ProgramUniform1f", "ProgramUniform2f", "ProgramUniform3f", "ProgramUniform4f",
		"ProgramUniform1i", "ProgramUniform1i",
		"ProgramUniform2i", "ProgramUniform3i", "ProgramUniform4i",
		"ProgramUniformMatrix3fv", "ProgramUniformMatrix4fv",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("dispatch\n got %v\nwant %v", got, want)
	}
	if rec.Count("UseProgram") != 0 {
		t.Fatalf("uniform upload must not change the current program")
	}

	m4 := rec.Named("ProgramUniformMatrix4fv")[0].Args[2].(mgl32.Mat4)
	if m4[12] != 1 || m4[13] != 2 || m4[14] != 3 {
		t.Fatalf("matrix not uploaded column-major: %v", m4)
	}
	if v := rec.Named("ProgramUniform1i")[1].Args[2].(int32); v != 7 {
		t.Fatalf("uint uploaded as %d, want 7", v)
	}
}

func TestSetUniformUnknownNameIsNoOp(t *testing.T) {
	rec := gputest.NewRecorder()
	p := mustProgram(t, rec)
	rec.Reset()

	p.SetUniform("optimisedAway", Float(1))
	p.SetUniform("optimisedAway", Vec3{1, 2, 3})

	if n := rec.Count("UniformLocation"); n != 1 {
		t.Fatalf("location lookups = %d, want 1 (cached)", n)
	}
	for _, c := range rec.Calls() {
		if strings.HasPrefix(c.Name, "ProgramUniform") {
			t.Fatalf("unexpected upload %v", c)
		}
	}
}

func TestProgramReleaseDeletesShaders(t *testing.T) {
	rec := gputest.NewRecorder()
	p := mustProgram(t, rec)
	p.Release()
	p.Release()
	if rec.Live("program") != 0 || rec.Live("shader") != 0 {
		t.Fatalf("release left %d programs, %d shaders", rec.Live("program"), rec.Live("shader"))
	}
}
