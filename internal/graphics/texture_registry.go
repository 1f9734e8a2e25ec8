package graphics

import (
	"sync"
)

// TextureRegistry caches textures by name so models sharing an image
// share one texture object.
type TextureRegistry struct {
	mu       sync.RWMutex
	textures map[string]*Texture
}

func NewTextureRegistry() *TextureRegistry {
	return &TextureRegistry{textures: make(map[string]*Texture)}
}

// Get returns the texture cached under name, calling build to create it on
// first use. A failed build is not cached.
func (r *TextureRegistry) Get(name string, build func() (*Texture, error)) (*Texture, error) {
	r.mu.RLock()
	if tex, ok := r.textures[name]; ok {
		r.mu.RUnlock()
		return tex, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double check locking
	if tex, ok := r.textures[name]; ok {
		return tex, nil
	}

	tex, err := build()
	if err != nil {
		return nil, err
	}
	r.textures[name] = tex
	return tex, nil
}

// Len returns the number of cached textures.
func (r *TextureRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.textures)
}

// Release deletes every cached texture and empties the registry.
func (r *TextureRegistry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, tex := range r.textures {
		tex.Release()
		delete(r.textures, name)
	}
}
