package graphics

import (
	"image"

	"modelviewer/internal/graphics/gpu"

	"golang.org/x/image/draw"
)

// Texture is a 2D texture object.
type Texture struct {
	dev    gpu.Device
	id     uint32
	width  int
	height int
}

// NewEmptyTexture allocates an uninitialised 2D texture, used as a render
// target attachment.
func NewEmptyTexture(dev gpu.Device, width, height int, internalFormat int32, format, xtype uint32) *Texture {
	t := &Texture{dev: dev, id: dev.CreateTexture(), width: width, height: height}
	dev.BindTexture(gpu.Texture2D, t.id)
	dev.TexImage2D(gpu.Texture2D, internalFormat, int32(width), int32(height), format, xtype, nil)
	dev.TexParameteri(gpu.Texture2D, gpu.TextureMinFilter, int32(gpu.Linear))
	dev.TexParameteri(gpu.Texture2D, gpu.TextureMagFilter, int32(gpu.Linear))
	dev.TexParameteri(gpu.Texture2D, gpu.TextureWrapS, int32(gpu.ClampToEdge))
	dev.TexParameteri(gpu.Texture2D, gpu.TextureWrapT, int32(gpu.ClampToEdge))
	dev.BindTexture(gpu.Texture2D, 0)
	return t
}

// NewShadowMapTexture allocates a depth texture set up for comparison
// sampling (sampler2DShadow).
func NewShadowMapTexture(dev gpu.Device, width, height int) *Texture {
	t := NewEmptyTexture(dev, width, height, int32(gpu.DepthComponent24), gpu.DepthComponent, gpu.Float)
	dev.BindTexture(gpu.Texture2D, t.id)
	dev.TexParameteri(gpu.Texture2D, gpu.TextureCompareMode, int32(gpu.CompareRefToTexture))
	dev.TexParameteri(gpu.Texture2D, gpu.TextureCompareFunc, int32(gpu.LEqual))
	dev.BindTexture(gpu.Texture2D, 0)
	return t
}

// NewTextureFromImage uploads img as RGBA8. Images larger than maxSize on
// either side are scaled down first; maxSize <= 0 disables scaling.
func NewTextureFromImage(dev gpu.Device, img image.Image, maxSize int) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}

	t := &Texture{dev: dev, id: dev.CreateTexture(), width: w, height: h}
	dev.BindTexture(gpu.Texture2D, t.id)
	dev.TexParameteri(gpu.Texture2D, gpu.TextureWrapS, int32(gpu.ClampToEdge))
	dev.TexParameteri(gpu.Texture2D, gpu.TextureWrapT, int32(gpu.ClampToEdge))
	dev.TexParameteri(gpu.Texture2D, gpu.TextureMinFilter, int32(gpu.Nearest))
	dev.TexParameteri(gpu.Texture2D, gpu.TextureMagFilter, int32(gpu.Nearest))
	dev.TexImage2D(gpu.Texture2D, int32(gpu.RGBA8), int32(w), int32(h), gpu.RGBA, gpu.UnsignedByte, rgba.Pix)
	dev.BindTexture(gpu.Texture2D, 0)
	return t
}

func (t *Texture) Handle() uint32 { return t.id }
func (t *Texture) Width() int     { return t.width }
func (t *Texture) Height() int    { return t.height }

// Bind makes t the 2D texture of the given unit index.
func (t *Texture) Bind(unit int) {
	t.dev.ActiveTexture(gpu.Texture0 + uint32(unit))
	t.dev.BindTexture(gpu.Texture2D, t.id)
}

// Release deletes the texture object.
func (t *Texture) Release() {
	if t.id == 0 {
		return
	}
	t.dev.DeleteTexture(t.id)
	t.id = 0
}
