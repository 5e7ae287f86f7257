package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{X: 1, Y: 2}
	b := Vec2{X: 3, Y: 1}

	assert.Equal(t, Vec2{X: 4, Y: 3}, a.Add(b))
	assert.Equal(t, Vec2{X: -2, Y: 1}, a.Subtract(b))
	assert.Equal(t, Vec2{X: 2, Y: 4}, a.Scale(2))
}

func TestDistance(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 3, Y: 4}
	assert.InDelta(t, 5.0, a.Distance(b), 1e-9)
}

func TestLerp(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 10, Y: 10}
	assert.Equal(t, Vec2{X: 5, Y: 5}, a.Lerp(b, 0.5))
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
}

func TestClamp01(t *testing.T) {
	v := Vec2{X: -0.2, Y: 1.5}
	assert.Equal(t, Vec2{X: 0, Y: 1}, v.Clamp01())
}

func TestClampViewport(t *testing.T) {
	// scale=2 -> half-extent 0.25, center must stay within [0.25,0.75]
	c := ClampViewport(Vec2{X: 0.01, Y: 0.99}, 2)
	assert.InDelta(t, 0.25, c.X, 1e-9)
	assert.InDelta(t, 0.75, c.Y, 1e-9)

	// scale<=1 means full frame, center pinned to 0.5,0.5
	c2 := ClampViewport(Vec2{X: 0.9, Y: 0.1}, 1)
	assert.Equal(t, Vec2{X: 0.5, Y: 0.5}, c2)
}
