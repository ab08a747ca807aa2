package main

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitArea() squareArea {
	return squareArea{corner: mgl64.Vec2{-0.5, -0.5}, side: 1}
}

func TestAreaContains(t *testing.T) {
	a := unitArea()
	assert.True(t, a.contains(mgl64.Vec2{0, 0}), "center")
	assert.True(t, a.contains(mgl64.Vec2{-0.5, -0.5}), "top left corner")
	assert.True(t, a.contains(mgl64.Vec2{0.5, 0.5}), "bottom right corner")
	assert.False(t, a.contains(mgl64.Vec2{0.51, 0}), "right of area")
	assert.False(t, a.contains(mgl64.Vec2{0, -0.51}), "above area")
}

func TestQuadrantSelection(t *testing.T) {
	a := unitArea()
	assert.Equal(t, topLeft, a.quadrant(mgl64.Vec2{-0.25, -0.25}))
	assert.Equal(t, topRight, a.quadrant(mgl64.Vec2{0.25, -0.25}))
	assert.Equal(t, bottomLeft, a.quadrant(mgl64.Vec2{-0.25, 0.25}))
	assert.Equal(t, bottomRight, a.quadrant(mgl64.Vec2{0.25, 0.25}))

	// ties on the center lines break toward right/bottom, consistently
	assert.Equal(t, bottomRight, a.quadrant(mgl64.Vec2{0, 0}), "dead center")
	assert.Equal(t, topRight, a.quadrant(mgl64.Vec2{0, -0.25}), "vertical center line")
	assert.Equal(t, bottomLeft, a.quadrant(mgl64.Vec2{-0.25, 0}), "horizontal center line")
}

func TestChildAreas(t *testing.T) {
	a := squareArea{corner: mgl64.Vec2{-1, -1}, side: 2}

	for quad, corner := range map[quadrant]mgl64.Vec2{
		topLeft:     {-1, -1},
		topRight:    {0, -1},
		bottomLeft:  {-1, 0},
		bottomRight: {0, 0},
	} {
		child := a.child(quad)
		assert.Equal(t, corner, child.corner, "corner of quadrant %d", quad)
		assert.Equal(t, 1.0, child.side, "side is exactly half")
	}
}

func TestInsertFourCorners(t *testing.T) {
	parts := []particle{
		{pos: mgl64.Vec2{-0.4, -0.4}, mass: 1},
		{pos: mgl64.Vec2{0.4, -0.4}, mass: 1},
		{pos: mgl64.Vec2{-0.4, 0.4}, mass: 1},
		{pos: mgl64.Vec2{0.4, 0.4}, mass: 1},
	}
	root := newTree(unitArea())
	for i := range parts {
		root.insert(&parts[i])
	}

	require.Equal(t, 4, root.nParticles, "root count")
	assert.Nil(t, root.particle, "root holds no direct particle")

	for quad, want := range map[quadrant]*particle{
		topLeft:     &parts[0],
		topRight:    &parts[1],
		bottomLeft:  &parts[2],
		bottomRight: &parts[3],
	} {
		child := root.children[quad]
		require.NotNil(t, child, "child %d exists", quad)
		assert.Equal(t, 1, child.nParticles, "child %d count", quad)
		assert.Same(t, want, child.particle, "child %d particle", quad)
		assert.True(t, child.area.contains(want.pos), "child %d containment", quad)
	}
}

func TestInsertOutsideDropped(t *testing.T) {
	root := newTree(unitArea())
	p := particle{pos: mgl64.Vec2{2, 2}, mass: 1}
	root.insert(&p)
	assert.Equal(t, 0, root.nParticles, "outside particle is dropped")
	assert.Nil(t, root.particle)
}

// checkInvariants walks the subtree asserting the node invariant: a node
// is empty, holds exactly one particle, or is subdivided with its count
// equal to the sum of its children's counts.
func checkInvariants(t *testing.T, n *treeNode) {
	t.Helper()

	childCount := 0
	childSum := 0
	for _, child := range n.children {
		if child == nil {
			continue
		}
		childCount++
		childSum += child.nParticles
	}

	switch {
	case n.nParticles == 0:
		assert.Nil(t, n.particle, "empty node holds no particle")
		assert.Zero(t, childCount, "empty node has no children")
	case n.nParticles == 1:
		assert.NotNil(t, n.particle, "leaf holds its particle")
		assert.Zero(t, childCount, "leaf has no children")
	default:
		assert.Nil(t, n.particle, "internal node holds no direct particle")
		assert.NotZero(t, childCount, "internal node has children")
		assert.Equal(t, n.nParticles, childSum, "count equals sum of child counts")
	}

	for _, child := range n.children {
		if child != nil {
			checkInvariants(t, child)
		}
	}
}

// collectLeaves maps each referenced particle to the leaves holding it.
func collectLeaves(n *treeNode, leaves map[*particle][]*treeNode) {
	if n.particle != nil {
		leaves[n.particle] = append(leaves[n.particle], n)
	}
	for _, child := range n.children {
		if child != nil {
			collectLeaves(child, leaves)
		}
	}
}

func TestNodeInvariants(t *testing.T) {
	d := newDistributor(3)
	parts := d.create(scenarioOneCluster, positionUniformDisk, velocityRotating, 300, defaultMaxSpeed, true)

	root := newTree(unitArea())
	for i := range parts {
		root.insert(&parts[i])
	}

	require.Equal(t, len(parts), root.nParticles, "nothing dropped")
	checkInvariants(t, root)
}

func TestContainment(t *testing.T) {
	d := newDistributor(11)
	parts := d.create(scenarioOneCluster, positionUniformSquare, velocityRandom, 250, defaultMaxSpeed, false)

	root := newTree(unitArea())
	for i := range parts {
		root.insert(&parts[i])
	}

	leaves := make(map[*particle][]*treeNode)
	collectLeaves(root, leaves)
	require.Len(t, leaves, len(parts), "every particle referenced")
	for i := range parts {
		held := leaves[&parts[i]]
		require.Len(t, held, 1, "particle in exactly one leaf")
		assert.True(t, held[0].area.contains(parts[i].pos), "leaf area contains its particle")
	}
}

func TestRollupParity(t *testing.T) {
	d := newDistributor(5)
	parts := d.create(scenarioOneCluster, positionUniformDisk, velocityRotating, 10, defaultMaxSpeed, false)
	require.Len(t, parts, 10)

	root := newTree(unitArea())
	for i := range parts {
		root.insert(&parts[i])
	}
	root.calculateCenterOfMass()

	var mean mgl64.Vec2
	for i := range parts {
		mean = mean.Add(parts[i].pos)
	}
	mean = mean.Mul(1.0 / 10)

	assert.Equal(t, 10.0, root.mass, "unit masses sum exactly")
	assert.InDelta(t, mean.X(), root.centerOfMass.X(), 1e-12, "center of mass x")
	assert.InDelta(t, mean.Y(), root.centerOfMass.Y(), 1e-12, "center of mass y")
}

func TestRollupWeighted(t *testing.T) {
	parts := []particle{
		{pos: mgl64.Vec2{-0.4, 0}, mass: 1},
		{pos: mgl64.Vec2{0.4, 0}, mass: 3},
	}
	root := newTree(unitArea())
	for i := range parts {
		root.insert(&parts[i])
	}
	root.calculateCenterOfMass()

	assert.Equal(t, 4.0, root.mass)
	assert.InDelta(t, 0.2, root.centerOfMass.X(), 1e-15, "mass-weighted mean")
	assert.InDelta(t, 0.0, root.centerOfMass.Y(), 1e-15)
}

func TestLeafPushedDown(t *testing.T) {
	// second insertion converts a leaf into an internal node
	parts := []particle{
		{pos: mgl64.Vec2{-0.4, -0.4}, mass: 1},
		{pos: mgl64.Vec2{-0.45, -0.45}, mass: 1},
	}
	root := newTree(unitArea())
	root.insert(&parts[0])
	require.Same(t, &parts[0], root.particle, "first insert stays at the root")

	root.insert(&parts[1])
	assert.Nil(t, root.particle, "resident pushed down on second insert")
	assert.Equal(t, 2, root.nParticles)
	checkInvariants(t, root)
}

func TestTreeDump(t *testing.T) {
	parts := []particle{
		{pos: mgl64.Vec2{-0.4, -0.4}, mass: 1},
		{pos: mgl64.Vec2{0.4, 0.4}, mass: 1},
	}
	root := newTree(unitArea())
	for i := range parts {
		root.insert(&parts[i])
	}
	root.calculateCenterOfMass()

	dump := root.String()
	assert.True(t, strings.HasPrefix(dump, "nParticles: 2"), "root line first")
	assert.Contains(t, dump, "  nParticles: 1", "children indented")
	assert.Contains(t, dump, "mass: 2", "aggregate mass")
}
