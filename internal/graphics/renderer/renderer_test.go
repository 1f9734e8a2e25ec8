package renderer

import (
	"errors"
	"testing"

	"modelviewer/internal/graphics"
	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/graphics/gpu/gputest"
	"modelviewer/internal/scene"
)

type recordPass struct {
	name    string
	log     *[]string
	initErr error
	w, h    int
}

func (p *recordPass) Init() error             { *p.log = append(*p.log, p.name+".init"); return p.initErr }
func (p *recordPass) Render(ctx FrameContext) { *p.log = append(*p.log, p.name+".render") }
func (p *recordPass) Dispose()                { *p.log = append(*p.log, p.name+".dispose") }
func (p *recordPass) SetViewport(w, h int)    { p.w, p.h = w, h }

type eyeProbe struct {
	eyes     []graphics.Stereo
	override []*graphics.Material
	aspect   []float32
}

func (e *eyeProbe) Draw(ctx *graphics.RenderContext) {
	e.eyes = append(e.eyes, ctx.Stereo)
	e.override = append(e.override, ctx.OverrideMaterial)
	e.aspect = append(e.aspect, ctx.Camera.AspectRatio)
}

func TestRendererLifecycle(t *testing.T) {
	var log []string
	a := &recordPass{name: "a", log: &log}
	b := &recordPass{name: "b", log: &log}
	r, err := NewRenderer(gputest.NewRecorder(), 800, 600, a, b)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	r.Render(scene.NewManager(gputest.NewRecorder()), 0.016)
	r.SetViewport(1024, 768)
	r.Dispose()

	want := []string{"a.init", "b.init", "a.render", "b.render", "b.dispose", "a.dispose"}
	if len(log) != len(want) {
		t.Fatalf("log = %v", log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
	if a.w != 1024 || b.h != 768 {
		t.Fatalf("viewport not forwarded")
	}
	if r.Camera().AspectRatio != float32(1024)/768 {
		t.Fatalf("aspect = %v", r.Camera().AspectRatio)
	}
}

func TestRendererInitFailureDisposes(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	a := &recordPass{name: "a", log: &log}
	b := &recordPass{name: "b", log: &log, initErr: boom}
	if _, err := NewRenderer(gputest.NewRecorder(), 1, 1, a, b); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if log[len(log)-1] != "a.dispose" {
		t.Fatalf("initialized pass not disposed: %v", log)
	}
}

func TestScenePassStereo(t *testing.T) {
	rec := gputest.NewRecorder()
	sc := scene.NewManager(rec)
	probe := &eyeProbe{}
	sc.World().Attach(probe)

	pass := NewScenePass(rec, nil)
	cam := graphics.NewCamera(800, 400)

	pass.Render(FrameContext{Scene: sc, Camera: cam, Width: 800, Height: 400})
	if len(probe.eyes) != 1 || probe.eyes[0] != graphics.StereoOff {
		t.Fatalf("mono eyes = %v", probe.eyes)
	}

	probe.eyes, probe.aspect = nil, nil
	rec.Reset()
	pass.Render(FrameContext{Scene: sc, Camera: cam, Width: 800, Height: 400, Stereo: true})
	if len(probe.eyes) != 2 || probe.eyes[0] != graphics.StereoLeft || probe.eyes[1] != graphics.StereoRight {
		t.Fatalf("stereo eyes = %v", probe.eyes)
	}
	if probe.aspect[0] != 1 {
		t.Fatalf("per-eye aspect = %v, want 1", probe.aspect[0])
	}

	vps := rec.Named("Viewport")
	if len(vps) != 3 {
		t.Fatalf("viewports = %v", vps)
	}
	if vps[0].Args[2] != int32(400) || vps[1].Args[0] != int32(400) || vps[2].Args[2] != int32(800) {
		t.Fatalf("viewports = %v %v %v", vps[0], vps[1], vps[2])
	}
}

func TestShadowPass(t *testing.T) {
	rec := gputest.NewRecorder()
	sc := scene.NewManager(rec)
	probe := &eyeProbe{}
	sc.World().Attach(probe)
	own := graphics.NewMaterial()
	sc.SetOverrideMaterial(own)

	shadow := NewShadowPass(rec, 128, nil)
	if err := shadow.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer shadow.Dispose()

	shadow.Render(FrameContext{Scene: sc, Width: 640, Height: 480})
	if shadow.Active() || len(probe.eyes) != 0 {
		t.Fatalf("no light: pass should not render")
	}

	sc.CreateLight()
	rec.Reset()
	shadow.Render(FrameContext{Scene: sc, Width: 640, Height: 480})
	if !shadow.Active() {
		t.Fatalf("pass should be active with a light")
	}
	if len(probe.override) != 1 || probe.override[0] == nil || probe.override[0] == own {
		t.Fatalf("shadow render must use its own override, got %v", probe.override)
	}
	if sc.OverrideMaterial() != own {
		t.Fatalf("scene override not restored")
	}
	if rec.BoundFramebuffer() != 0 {
		t.Fatalf("previous framebuffer not restored")
	}
	binds := rec.Named("BindFramebuffer")
	if len(binds) != 2 || binds[0].Args[0] != shadow.Target().Handle() {
		t.Fatalf("framebuffer binds = %v", binds)
	}
	last := rec.Named("Viewport")
	if v := last[len(last)-1]; v.Args[2] != int32(640) || v.Args[3] != int32(480) {
		t.Fatalf("viewport not restored: %v", v)
	}
}

func TestShadowPassSkipsViewGraph(t *testing.T) {
	rec := gputest.NewRecorder()
	sc := scene.NewManager(rec)
	world := &eyeProbe{}
	hud := &eyeProbe{}
	sc.World().Attach(world)
	sc.View().CreateChild("compass").Attach(hud)
	sc.CreateLight()

	shadow := NewShadowPass(rec, 64, nil)
	if err := shadow.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer shadow.Dispose()

	shadow.Render(FrameContext{Scene: sc, Width: 320, Height: 240})
	if len(world.eyes) != 1 {
		t.Fatalf("world drawn %d times, want 1", len(world.eyes))
	}
	if len(hud.eyes) != 0 {
		t.Fatalf("view graph must not be drawn into the shadow map")
	}
}

func TestScenePassUploadsShadowUniforms(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.Declare("shadowMatrix", "shadowEnabled", "shadowMap")
	vs, _ := graphics.CompileShader(rec, gpu.VertexShader, "v")
	prog, err := graphics.NewProgram(rec, vs)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	sc := scene.NewManager(rec)
	sc.CreateLight()
	shadow := NewShadowPass(rec, 64, nil)
	_ = shadow.Init()
	pass := NewScenePass(rec, shadow, prog)
	ctx := FrameContext{Scene: sc, Camera: graphics.NewCamera(1, 1), Width: 10, Height: 10}

	shadow.Render(ctx)
	rec.Reset()
	pass.Render(ctx)

	if rec.Count("ProgramUniformMatrix4fv") != 1 {
		t.Fatalf("shadow matrix not uploaded")
	}
	if rec.BoundTexture(gpu.Texture0+ShadowUnit, gpu.Texture2D) != shadow.Target().DepthTexture().Handle() {
		t.Fatalf("shadow map not bound on its unit")
	}
	if rec.Count("UseProgram") != 0 {
		t.Fatalf("frame uniforms must not require binding the program")
	}
}

func TestDebugPass(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.Viewport(0, 0, 800, 600)
	shadow := NewShadowPass(rec, 32, nil)
	_ = shadow.Init()
	on := false
	dbg := NewDebugPass(rec, shadow, func() bool { return on })
	dbg.SetViewport(800, 600)
	t.Cleanup(func() { graphics.ReleaseQuadRenderer(rec) })

	dbg.Render(FrameContext{})
	if rec.Count("DrawArrays") != 0 {
		t.Fatalf("disabled debug pass drew")
	}
	on = true
	dbg.Render(FrameContext{})
	if rec.Count("DrawArrays") != 2 {
		t.Fatalf("debug pass draws = %d, want 2", rec.Count("DrawArrays"))
	}
	if !rec.Enabled(gpu.DepthTest) {
		t.Fatalf("depth test not re-enabled")
	}
}
