package graphics

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/logger"

	"go.uber.org/zap"
)

var (
	ErrShaderRead    = errors.New("could not read shader source")
	ErrShaderCompile = errors.New("failed to compile shader")
	ErrShaderStage   = errors.New("unknown shader stage")
)

// Shader is one compiled program stage.
type Shader struct {
	dev    gpu.Device
	id     uint32
	stage  uint32
	path   string
	status bool
	log    string
}

// StageForPath maps a shader file extension to its stage: .vert, .frag
// and .geom.
func StageForPath(p string) (uint32, error) {
	switch path.Ext(p) {
	case ".vert", ".vs":
		return gpu.VertexShader, nil
	case ".frag", ".fs":
		return gpu.FragmentShader, nil
	case ".geom", ".gs":
		return gpu.GeometryShader, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrShaderStage, p)
}

// CompileShader compiles source as the given stage.
func CompileShader(dev gpu.Device, stage uint32, source string) (*Shader, error) {
	return compileShader(dev, stage, source, "")
}

// LoadShader reads name from fsys and compiles it. The stage is derived
// from the file extension.
func LoadShader(dev gpu.Device, fsys fs.FS, name string) (*Shader, error) {
	stage, err := StageForPath(name)
	if err != nil {
		return nil, err
	}
	source, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrShaderRead, name, err)
	}
	return compileShader(dev, stage, string(source), name)
}

func compileShader(dev gpu.Device, stage uint32, source, name string) (*Shader, error) {
	id := dev.CreateShader(stage)
	dev.ShaderSource(id, source)
	dev.CompileShader(id)

	s := &Shader{
		dev:    dev,
		id:     id,
		stage:  stage,
		path:   name,
		status: dev.ShaderCompileStatus(id),
		log:    dev.ShaderInfoLog(id),
	}
	if !s.status {
		dev.DeleteShader(id)
		if name == "" {
			return nil, fmt.Errorf("%w: %s", ErrShaderCompile, s.log)
		}
		return nil, fmt.Errorf("%w %s: %s", ErrShaderCompile, name, s.log)
	}
	logger.Log.Debug("shader compiled", zap.String("path", name), zap.Uint32("stage", stage))
	return s, nil
}

// Handle returns the driver name of the shader.
func (s *Shader) Handle() uint32 { return s.id }

// Stage returns the pipeline stage.
func (s *Shader) Stage() uint32 { return s.stage }

// Path returns the source path, empty for inline sources.
func (s *Shader) Path() string { return s.path }

// CompileStatus reports whether compilation succeeded.
func (s *Shader) CompileStatus() bool { return s.status }

// InfoLog returns the compiler output.
func (s *Shader) InfoLog() string { return s.log }

// Release deletes the shader object. Programs it was linked into keep
// working.
func (s *Shader) Release() {
	if s.id == 0 {
		return
	}
	s.dev.DeleteShader(s.id)
	s.id = 0
}
