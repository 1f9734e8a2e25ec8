package graphics

import (
	"errors"
	"io/fs"
	"maps"
	"slices"

	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/logger"

	"go.uber.org/zap"
)

// ProgramLibrary builds programs from shader files and keeps them by name
// so they can be rebuilt in place when a source file changes.
type ProgramLibrary struct {
	dev      gpu.Device
	fsys     fs.FS
	programs map[string]*libraryEntry
}

type libraryEntry struct {
	program *Program
	paths   []string
}

func NewProgramLibrary(dev gpu.Device, fsys fs.FS) *ProgramLibrary {
	return &ProgramLibrary{dev: dev, fsys: fsys, programs: make(map[string]*libraryEntry)}
}

// Load returns the program registered under name, building it from paths
// on first use. Stages are derived from the file extensions.
func (l *ProgramLibrary) Load(name string, paths ...string) (*Program, error) {
	if e, ok := l.programs[name]; ok {
		return e.program, nil
	}
	p, err := l.build(paths)
	if err != nil {
		return nil, err
	}
	l.programs[name] = &libraryEntry{program: p, paths: slices.Clone(paths)}
	logger.Log.Info("program loaded", zap.String("name", name), zap.Strings("paths", paths))
	return p, nil
}

func (l *ProgramLibrary) build(paths []string) (*Program, error) {
	shaders := make([]*Shader, 0, len(paths))
	release := func() {
		for _, s := range shaders {
			s.Release()
		}
	}
	for _, path := range paths {
		s, err := LoadShader(l.dev, l.fsys, path)
		if err != nil {
			release()
			return nil, err
		}
		shaders = append(shaders, s)
	}
	p, err := NewProgram(l.dev, shaders...)
	if err != nil {
		release()
		return nil, err
	}
	return p, nil
}

// Get returns the program registered under name.
func (l *ProgramLibrary) Get(name string) (*Program, bool) {
	e, ok := l.programs[name]
	if !ok {
		return nil, false
	}
	return e.program, true
}

// Names returns the registered program names in sorted order.
func (l *ProgramLibrary) Names() []string {
	return slices.Sorted(maps.Keys(l.programs))
}

// Reload rebuilds every program built from path. A program that fails to
// rebuild keeps running its previous version; the failures are logged and
// returned joined.
func (l *ProgramLibrary) Reload(path string) (reloaded int, err error) {
	var errs []error
	for _, name := range l.Names() {
		e := l.programs[name]
		if !slices.Contains(e.paths, path) {
			continue
		}
		next, buildErr := l.build(e.paths)
		if buildErr != nil {
			logger.Log.Error("program reload failed", zap.String("name", name), zap.Error(buildErr))
			errs = append(errs, buildErr)
			continue
		}
		e.program.replace(next)
		reloaded++
		logger.Log.Info("program reloaded", zap.String("name", name), zap.String("path", path))
	}
	return reloaded, errors.Join(errs...)
}

// Release deletes every program.
func (l *ProgramLibrary) Release() {
	for name, e := range l.programs {
		e.program.Release()
		delete(l.programs, name)
	}
}
