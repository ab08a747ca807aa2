package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

/*

spacial tree acceleration structure.
point quad-tree based on Barnes-Hut.
https://en.wikipedia.org/wiki/Barnes%E2%80%93Hut_simulation

*/

type quadrant uint8

// child positions
const (
	topLeft quadrant = iota
	topRight
	bottomLeft
	bottomRight
)

// squareArea is an axis-aligned square region given by its top-left
// corner and side length.
type squareArea struct {
	corner mgl64.Vec2
	side   float64
}

// does this area contain point? boundaries count as inside.
func (a squareArea) contains(point mgl64.Vec2) bool {
	return a.corner.X() <= point.X() && point.X() <= a.corner.X()+a.side &&
		a.corner.Y() <= point.Y() && point.Y() <= a.corner.Y()+a.side
}

// determines which quadrant (relative to the area's center) point
// belongs to. points exactly on the center lines go right/bottom.
func (a squareArea) quadrant(point mgl64.Vec2) quadrant {
	left := point.X() < a.corner.X()+0.5*a.side
	top := point.Y() < a.corner.Y()+0.5*a.side
	switch {
	case left && top:
		return topLeft
	case top:
		return topRight
	case left:
		return bottomLeft
	}
	return bottomRight
}

// generate the area for a quadrant of the parent's area. children have
// exactly half the parent's side and partition it without gap or overlap.
func (a squareArea) child(quad quadrant) squareArea {
	half := a.side * 0.5
	corner := a.corner
	switch quad {
	case topRight:
		corner[0] += half
	case bottomLeft:
		corner[1] += half
	case bottomRight:
		corner[0] += half
		corner[1] += half
	}
	return squareArea{corner: corner, side: half}
}

// treeNode is one node of the quad tree. A node is either empty, holds
// exactly one particle, or has been subdivided into up to four children.
// Leaf particles are referenced, never owned, by the tree.
type treeNode struct {
	area         squareArea
	children     [4]*treeNode
	particle     *particle
	nParticles   int
	level        int
	mass         float64
	centerOfMass mgl64.Vec2
}

// newTree creates a root node covering area.
func newTree(area squareArea) *treeNode {
	return &treeNode{area: area}
}

// insert places a particle in the subtree rooted at this node,
// subdividing as needed so no node holds more than one particle
// directly. A particle outside the node's area is dropped; this happens
// when a body has drifted outside the root area between rebuilds, and
// the driver tolerates the loss for that frame.
func (n *treeNode) insert(p *particle) {
	if !n.area.contains(p.pos) {
		if debugLog {
			log.Printf("dropping particle outside [%v, %v] side %v: pos [%v, %v]",
				n.area.corner.X(), n.area.corner.Y(), n.area.side, p.pos.X(), p.pos.Y())
		}
		return
	}

	if n.nParticles == 0 {
		n.particle = p
		n.nParticles++
		return
	}

	if n.nParticles == 1 {
		// subdivide and relocate the resident particle
		quad := n.area.quadrant(n.particle.pos)
		if n.children[quad] == nil {
			n.children[quad] = n.childNode(quad)
		}
		n.children[quad].insert(n.particle)
		n.particle = nil
	}

	// insert the incoming particle into its quadrant
	quad := n.area.quadrant(p.pos)
	if n.children[quad] == nil {
		n.children[quad] = n.childNode(quad)
	}
	n.children[quad].insert(p)
	n.nParticles++
}

// creates the child node for quad.
func (n *treeNode) childNode(quad quadrant) *treeNode {
	return &treeNode{area: n.area.child(quad), level: n.level + 1}
}

// calculateCenterOfMass fills in the aggregate mass and mass-weighted
// center for every node, bottom up. Call once after all insertions.
func (n *treeNode) calculateCenterOfMass() {
	if n.nParticles == 1 {
		n.mass = n.particle.mass
		n.centerOfMass = n.particle.pos
		return
	}

	for _, child := range n.children {
		if child == nil {
			continue
		}
		child.calculateCenterOfMass()
		n.mass += child.mass
		n.centerOfMass = n.centerOfMass.Add(child.centerOfMass.Mul(child.mass))
	}
	if n.mass > 0 {
		n.centerOfMass = n.centerOfMass.Mul(1 / n.mass)
	}
}

// acceleration walks the particle through the tree and returns the
// gravitational acceleration on it from nearby particles and distant
// aggregate masses, with theta as the accuracy dial. Requires a prior
// calculateCenterOfMass pass.
func (n *treeNode) acceleration(p *particle, theta float64) mgl64.Vec2 {
	if n.nParticles == 0 {
		return mgl64.Vec2{}
	}
	if n.particle == p {
		// prevent a particle interacting with itself
		return mgl64.Vec2{}
	}

	diff := n.centerOfMass.Sub(p.pos)
	d := diff.Len()
	if d < distFloor {
		d = distFloor
	}

	// if the node is far enough away, or already a leaf, treat it as a
	// single point mass ...
	if n.area.side/d < theta || n.particle != nil {
		if diff.LenSqr() == 0 {
			// coincident with the aggregate center; no defined direction
			return mgl64.Vec2{}
		}
		invDistSq := 1 / (d * d)
		if invDistSq > epsHi {
			invDistSq = epsHi
		}
		return diff.Normalize().Mul(gConst * n.mass * invDistSq)
	}

	// ... otherwise, add up the acceleration from the children
	var acc mgl64.Vec2
	for _, child := range n.children {
		if child == nil {
			continue
		}
		acc = acc.Add(child.acceleration(p, theta))
	}
	return acc
}

// String renders the subtree one node per line, indented by depth.
func (n *treeNode) String() string {
	var b strings.Builder
	n.dump(&b)
	return b.String()
}

func (n *treeNode) dump(b *strings.Builder) {
	indent := strings.Repeat("  ", n.level)
	fmt.Fprintf(b, "%snParticles: %d, particle: ", indent, n.nParticles)
	if n.particle == nil {
		b.WriteString("none, ")
	} else {
		fmt.Fprintf(b, "[%v, %v], ", n.particle.pos.X(), n.particle.pos.Y())
	}
	fmt.Fprintf(b, "corner: [%v, %v], side: %v\n", n.area.corner.X(), n.area.corner.Y(), n.area.side)
	fmt.Fprintf(b, "%scenterOfMass: [%v, %v], mass: %v\n", indent, n.centerOfMass.X(), n.centerOfMass.Y(), n.mass)
	for _, child := range n.children {
		if child == nil {
			continue
		}
		child.dump(b)
	}
}
