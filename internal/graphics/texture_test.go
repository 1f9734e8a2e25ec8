package graphics

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/graphics/gpu/gputest"
)

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(0, 0, color.RGBA{1, 2, 3, 4})
	return img
}

func TestTextureFromImageKeepsSize(t *testing.T) {
	rec := gputest.NewRecorder()
	tex := NewTextureFromImage(rec, solidImage(64, 32), 0)

	if tex.Width() != 64 || tex.Height() != 32 {
		t.Fatalf("size = %dx%d", tex.Width(), tex.Height())
	}
	up := rec.Named("TexImage2D")
	if len(up) != 1 {
		t.Fatalf("uploads = %v", up)
	}
	if up[0].Args[2] != int32(64) || up[0].Args[3] != int32(32) || up[0].Args[6] != 64*32*4 {
		t.Fatalf("upload args = %v", up[0].Args)
	}
	if rec.BoundTexture(gpu.Texture0, gpu.Texture2D) != 0 {
		t.Fatalf("texture left bound")
	}
}

func TestTextureFromImageScalesDown(t *testing.T) {
	rec := gputest.NewRecorder()
	tex := NewTextureFromImage(rec, solidImage(1024, 256), 256)
	if tex.Width() != 256 || tex.Height() != 64 {
		t.Fatalf("scaled size = %dx%d, want 256x64", tex.Width(), tex.Height())
	}

	tall := NewTextureFromImage(rec, solidImage(10, 1000), 100)
	if tall.Width() != 1 || tall.Height() != 100 {
		t.Fatalf("scaled size = %dx%d, want 1x100", tall.Width(), tall.Height())
	}
}

func TestShadowMapTextureCompares(t *testing.T) {
	rec := gputest.NewRecorder()
	tex := NewShadowMapTexture(rec, 128, 128)

	if got := rec.TexParam(tex.Handle(), gpu.TextureCompareMode); got[0] != int32(gpu.CompareRefToTexture) {
		t.Fatalf("compare mode = %v", got)
	}
	if got := rec.TexParam(tex.Handle(), gpu.TextureCompareFunc); got[0] != int32(gpu.LEqual) {
		t.Fatalf("compare func = %v", got)
	}
}

func TestTextureBindAndRelease(t *testing.T) {
	rec := gputest.NewRecorder()
	tex := NewEmptyTexture(rec, 4, 4, int32(gpu.RGBA8), gpu.RGBA, gpu.UnsignedByte)

	tex.Bind(3)
	if rec.BoundTexture(gpu.Texture0+3, gpu.Texture2D) != tex.Handle() {
		t.Fatalf("texture not bound on unit 3")
	}

	tex.Release()
	tex.Release()
	if rec.Count("DeleteTexture") != 1 || rec.Live("texture") != 0 {
		t.Fatalf("release not idempotent")
	}
}

func TestTextureRegistry(t *testing.T) {
	rec := gputest.NewRecorder()
	reg := NewTextureRegistry()

	builds := 0
	build := func() (*Texture, error) {
		builds++
		return NewEmptyTexture(rec, 1, 1, int32(gpu.RGBA8), gpu.RGBA, gpu.UnsignedByte), nil
	}
	a, err := reg.Get("checker", build)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, _ := reg.Get("checker", build)
	if a != b || builds != 1 {
		t.Fatalf("texture not cached: builds = %d", builds)
	}

	boom := errors.New("decode failed")
	if _, err := reg.Get("broken", func() (*Texture, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("failed build cached, len = %d", reg.Len())
	}

	reg.Release()
	if reg.Len() != 0 || rec.Live("texture") != 0 {
		t.Fatalf("registry release left textures alive")
	}
}
