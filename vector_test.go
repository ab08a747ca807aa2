package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	a := mgl64.Vec2{1, 2}
	b := mgl64.Vec2{4, 6}
	assert.Equal(t, 5.0, distance(a, b), "3-4-5 triangle")
	assert.Equal(t, 25.0, distanceSq(a, b), "squared")
	assert.Equal(t, distance(a, b), distance(b, a), "symmetric")
	assert.Equal(t, 0.0, distance(a, a), "self")
}

func TestPerpendicular(t *testing.T) {
	v := mgl64.Vec2{3, 4}
	p := perpendicular(v)
	assert.Equal(t, mgl64.Vec2{4, -3}, p, "quarter turn")
	assert.Equal(t, 0.0, v.Dot(p), "orthogonal")
	assert.Equal(t, v.Len(), p.Len(), "length preserved")
}
