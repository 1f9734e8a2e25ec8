package gpu

// StateCache is a Device that drops calls which would not change the
// driver state it has already observed. Callers keep re-asserting their
// full state; only the deltas reach the wrapped device.
//
// Anything that changes state behind the cache's back (another context
// user, a third-party library) must be followed by Invalidate.
type StateCache struct {
	Device

	caps       map[uint32]bool
	depthMask  *bool
	blend      *[2]uint32
	program    *uint32
	activeUnit *uint32
	textures   map[textureSlot]uint32

	skipped int
}

type textureSlot struct {
	unit   uint32
	target uint32
}

// NewStateCache wraps dev.
func NewStateCache(dev Device) *StateCache {
	c := &StateCache{Device: dev}
	c.Invalidate()
	return c
}

// Invalidate forgets all observed state so the next call of every kind
// reaches the device.
func (c *StateCache) Invalidate() {
	c.caps = make(map[uint32]bool)
	c.depthMask = nil
	c.blend = nil
	c.program = nil
	c.activeUnit = nil
	c.textures = make(map[textureSlot]uint32)
}

// Skipped returns how many calls were absorbed since creation.
func (c *StateCache) Skipped() int {
	return c.skipped
}

func (c *StateCache) Enable(capability uint32) {
	if on, ok := c.caps[capability]; ok && on {
		c.skipped++
		return
	}
	c.caps[capability] = true
	c.Device.Enable(capability)
}

func (c *StateCache) Disable(capability uint32) {
	if on, ok := c.caps[capability]; ok && !on {
		c.skipped++
		return
	}
	c.caps[capability] = false
	c.Device.Disable(capability)
}

func (c *StateCache) DepthMask(flag bool) {
	if c.depthMask != nil && *c.depthMask == flag {
		c.skipped++
		return
	}
	c.depthMask = &flag
	c.Device.DepthMask(flag)
}

func (c *StateCache) BlendFunc(src, dst uint32) {
	f := [2]uint32{src, dst}
	if c.blend != nil && *c.blend == f {
		c.skipped++
		return
	}
	c.blend = &f
	c.Device.BlendFunc(src, dst)
}

func (c *StateCache) UseProgram(program uint32) {
	if c.program != nil && *c.program == program {
		c.skipped++
		return
	}
	c.program = &program
	c.Device.UseProgram(program)
}

func (c *StateCache) DeleteProgram(program uint32) {
	if c.program != nil && *c.program == program {
		c.program = nil
	}
	c.Device.DeleteProgram(program)
}

func (c *StateCache) ActiveTexture(unit uint32) {
	if c.activeUnit != nil && *c.activeUnit == unit {
		c.skipped++
		return
	}
	c.activeUnit = &unit
	c.Device.ActiveTexture(unit)
}

func (c *StateCache) BindTexture(target, tex uint32) {
	if c.activeUnit == nil {
		c.Device.BindTexture(target, tex)
		return
	}
	slot := textureSlot{unit: *c.activeUnit, target: target}
	if bound, ok := c.textures[slot]; ok && bound == tex {
		c.skipped++
		return
	}
	c.textures[slot] = tex
	c.Device.BindTexture(target, tex)
}

func (c *StateCache) DeleteTexture(tex uint32) {
	for slot, bound := range c.textures {
		if bound == tex {
			delete(c.textures, slot)
		}
	}
	c.Device.DeleteTexture(tex)
}
