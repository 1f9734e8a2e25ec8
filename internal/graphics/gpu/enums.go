package gpu

// OpenGL enum values used by the renderer. They match the values in
// github.com/go-gl/gl so they can be handed straight to the driver, but
// live here so packages that only describe state do not need cgo.

// Capabilities
const (
	Blend                  uint32 = 0x0BE2
	CullFace               uint32 = 0x0B44
	DepthTest              uint32 = 0x0B71
	StencilTest            uint32 = 0x0B90
	ScissorTest            uint32 = 0x0C11
	PolygonOffsetFill      uint32 = 0x8037
	Multisample            uint32 = 0x809D
	FramebufferSRGB        uint32 = 0x8DB9
	TextureCubeMapSeamless uint32 = 0x884F
)

// Blend factors
const (
	Zero             uint32 = 0
	One              uint32 = 1
	SrcColor         uint32 = 0x0300
	OneMinusSrcColor uint32 = 0x0301
	SrcAlpha         uint32 = 0x0302
	OneMinusSrcAlpha uint32 = 0x0303
	DstAlpha         uint32 = 0x0304
	OneMinusDstAlpha uint32 = 0x0305
	DstColor         uint32 = 0x0306
	OneMinusDstColor uint32 = 0x0307
)

// Comparison functions
const (
	Never    uint32 = 0x0200
	Less     uint32 = 0x0201
	Equal    uint32 = 0x0202
	LEqual   uint32 = 0x0203
	Greater  uint32 = 0x0204
	NotEqual uint32 = 0x0205
	GEqual   uint32 = 0x0206
	Always   uint32 = 0x0207
)

// Shader stages
const (
	FragmentShader uint32 = 0x8B30
	VertexShader   uint32 = 0x8B31
	GeometryShader uint32 = 0x8DD9
)

// Buffer targets and usage
const (
	ArrayBuffer        uint32 = 0x8892
	ElementArrayBuffer uint32 = 0x8893
	UniformBuffer      uint32 = 0x8A11

	StaticDraw  uint32 = 0x88E4
	DynamicDraw uint32 = 0x88E8
)

// Data types
const (
	Byte          uint32 = 0x1400
	UnsignedByte  uint32 = 0x1401
	Int           uint32 = 0x1404
	UnsignedInt   uint32 = 0x1405
	Float         uint32 = 0x1406
	HalfFloatType uint32 = 0x140B
)

// Primitive modes
const (
	Points        uint32 = 0x0000
	Lines         uint32 = 0x0001
	LineStrip     uint32 = 0x0003
	Triangles     uint32 = 0x0004
	TriangleStrip uint32 = 0x0005
	TriangleFan   uint32 = 0x0006
)

// Textures
const (
	Texture2D      uint32 = 0x0DE1
	TextureCubeMap uint32 = 0x8513
	Texture0       uint32 = 0x84C0

	TextureMagFilter   uint32 = 0x2800
	TextureMinFilter   uint32 = 0x2801
	TextureWrapS       uint32 = 0x2802
	TextureWrapT       uint32 = 0x2803
	TextureCompareMode uint32 = 0x884C
	TextureCompareFunc uint32 = 0x884D
	TextureSwizzleR    uint32 = 0x8E42
	TextureSwizzleG    uint32 = 0x8E43
	TextureSwizzleB    uint32 = 0x8E44
	TextureSwizzleA    uint32 = 0x8E45
	TextureSwizzleRGBA uint32 = 0x8E46

	Nearest             uint32 = 0x2600
	Linear              uint32 = 0x2601
	ClampToEdge         uint32 = 0x812F
	CompareRefToTexture uint32 = 0x884E
	None                uint32 = 0
)

// Pixel formats
const (
	DepthComponent   uint32 = 0x1902
	Red              uint32 = 0x1903
	Green            uint32 = 0x1904
	Blue             uint32 = 0x1905
	Alpha            uint32 = 0x1906
	RGB              uint32 = 0x1907
	RGBA             uint32 = 0x1908
	R8               uint32 = 0x8229
	RGBA8            uint32 = 0x8058
	RGB16F           uint32 = 0x881B
	DepthComponent24 uint32 = 0x81A6
)

// Framebuffers
const (
	FramebufferComplete                    uint32 = 0x8CD5
	FramebufferIncompleteAttachment        uint32 = 0x8CD6
	FramebufferIncompleteMissingAttachment uint32 = 0x8CD7
	FramebufferUnsupported                 uint32 = 0x8CDD
	ColorAttachment0                       uint32 = 0x8CE0
	DepthAttachment                        uint32 = 0x8D00
)

// Queries and clear bits
const (
	Viewport           uint32 = 0x0BA2
	FramebufferBinding uint32 = 0x8CA6
	ActiveTextureUnit  uint32 = 0x84E0
	TextureBinding2D   uint32 = 0x8069
	CurrentProgram     uint32 = 0x8B8D

	DepthBufferBit uint32 = 0x00000100
	ColorBufferBit uint32 = 0x00004000

	NoError uint32 = 0
)
