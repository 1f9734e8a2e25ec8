// Package scene holds the node graphs a Manager renders.
package scene

import (
	"errors"

	"modelviewer/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNodeHasParent = errors.New("node already has a parent")
	ErrNodeCycle     = errors.New("node would become its own ancestor")
)

// Node is one element of a scene graph. It owns its children exclusively
// and references its drawables, which may be shared between nodes.
type Node struct {
	name      string
	parent    *Node
	children  []*Node
	drawables []graphics.Drawable

	position    mgl32.Vec3
	orientation mgl32.Quat
	scale       mgl32.Vec3

	world mgl32.Mat4
}

func NewNode(name string) *Node {
	return &Node{
		name:        name,
		orientation: mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
		world:       mgl32.Ident4(),
	}
}

func (n *Node) Name() string      { return n.name }
func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// CreateChild appends a new empty child.
func (n *Node) CreateChild(name string) *Node {
	child := NewNode(name)
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// AddChild appends child. The child must be detached and must not be an
// ancestor of n.
func (n *Node) AddChild(child *Node) error {
	if child.parent != nil {
		return ErrNodeHasParent
	}
	for a := n; a != nil; a = a.parent {
		if a == child {
			return ErrNodeCycle
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// RemoveChild detaches child and reports whether it was found.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Attach appends a drawable, drawn in attachment order.
func (n *Node) Attach(d graphics.Drawable) {
	n.drawables = append(n.drawables, d)
}

// Detach removes the first occurrence of d.
func (n *Node) Detach(d graphics.Drawable) bool {
	for i, x := range n.drawables {
		if x == d {
			n.drawables = append(n.drawables[:i], n.drawables[i+1:]...)
			return true
		}
	}
	return false
}

func (n *Node) Drawables() []graphics.Drawable { return n.drawables }

func (n *Node) SetPosition(p mgl32.Vec3)    { n.position = p }
func (n *Node) SetOrientation(q mgl32.Quat) { n.orientation = q }
func (n *Node) SetScale(s mgl32.Vec3)       { n.scale = s }

func (n *Node) Position() mgl32.Vec3    { return n.position }
func (n *Node) Orientation() mgl32.Quat { return n.orientation }
func (n *Node) Scale() mgl32.Vec3       { return n.scale }

// LocalTransform is translation * rotation * scale.
func (n *Node) LocalTransform() mgl32.Mat4 {
	t := mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z())
	s := mgl32.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z())
	return t.Mul4(n.orientation.Mat4()).Mul4(s)
}

// UpdateTransform recomputes the cached world transform of n and its
// subtree from n's parent.
func (n *Node) UpdateTransform() {
	parent := mgl32.Ident4()
	if n.parent != nil {
		parent = n.parent.world
	}
	n.updateTransform(parent)
}

func (n *Node) updateTransform(parent mgl32.Mat4) {
	n.world = parent.Mul4(n.LocalTransform())
	for _, c := range n.children {
		c.updateTransform(n.world)
	}
}

// WorldTransform returns the transform cached by the last UpdateTransform.
func (n *Node) WorldTransform() mgl32.Mat4 { return n.world }

// Walk visits n and its subtree in pre-order, children in declaration
// order. Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Destroy detaches n from its parent and drops its whole subtree.
func (n *Node) Destroy() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
	n.destroy()
}

func (n *Node) destroy() {
	for _, c := range n.children {
		c.parent = nil
		c.destroy()
	}
	n.children = nil
	n.drawables = nil
}
