package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChildRejectsSharedAndCycles(t *testing.T) {
	root := NewNode("root")
	a := root.CreateChild("a")
	b := a.CreateChild("b")

	assert.ErrorIs(t, NewNode("other").AddChild(b), ErrNodeHasParent)
	assert.ErrorIs(t, b.AddChild(root), ErrNodeCycle)
	assert.ErrorIs(t, b.AddChild(b), ErrNodeCycle)

	require.True(t, a.RemoveChild(b))
	assert.Nil(t, b.Parent())
	require.NoError(t, root.AddChild(b))
	assert.Equal(t, []*Node{a, b}, root.Children())
}

func TestUpdateTransform(t *testing.T) {
	root := NewNode("root")
	root.SetPosition(mgl32.Vec3{1, 0, 0})
	root.SetScale(mgl32.Vec3{2, 2, 2})
	child := root.CreateChild("child")
	child.SetPosition(mgl32.Vec3{0, 1, 0})
	child.SetOrientation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))

	// Not recomputed until UpdateTransform.
	assert.Equal(t, mgl32.Ident4(), child.WorldTransform())

	root.UpdateTransform()
	origin := child.WorldTransform().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.True(t, origin.ApproxEqual(mgl32.Vec3{1, 2, 0}), "child origin %v", origin)

	x := child.WorldTransform().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.True(t, x.ApproxEqualThreshold(mgl32.Vec3{1, 4, 0}, 1e-5), "rotated +X %v", x)
}

func TestWalkPreOrder(t *testing.T) {
	root := NewNode("r")
	a := root.CreateChild("a")
	a.CreateChild("a1")
	a.CreateChild("a2")
	root.CreateChild("b").CreateChild("b1")

	var got []string
	root.Walk(func(n *Node) bool {
		got = append(got, n.Name())
		return n.Name() != "b"
	})
	assert.Equal(t, []string{"r", "a", "a1", "a2", "b"}, got)
}

func TestDestroyDropsSubtree(t *testing.T) {
	root := NewNode("root")
	a := root.CreateChild("a")
	leaf := a.CreateChild("leaf")
	a.Attach(&probe{})

	a.Destroy()
	assert.Empty(t, root.Children())
	assert.Nil(t, a.Parent())
	assert.Empty(t, a.Children())
	assert.Empty(t, a.Drawables())
	assert.Nil(t, leaf.Parent())
}

func TestDetach(t *testing.T) {
	n := NewNode("n")
	p1, p2 := &probe{}, &probe{}
	n.Attach(p1)
	n.Attach(p2)
	assert.True(t, n.Detach(p1))
	assert.False(t, n.Detach(p1))
	assert.Len(t, n.Drawables(), 1)
}
