package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rectOutline(l, w float64) Outline {
	return Outline{{X: 0, Y: 0}, {X: l, Y: 0}, {X: l, Y: w}, {X: 0, Y: w}}
}

func TestOutline_BoundingBox(t *testing.T) {
	o := Outline{{X: 10, Y: 5}, {X: 30, Y: -5}, {X: 20, Y: 15}}

	min, max := o.BoundingBox()
	assert.Equal(t, Point2D{X: 10, Y: -5}, min)
	assert.Equal(t, Point2D{X: 30, Y: 15}, max)
}

func TestOutline_BoundingBox_Empty(t *testing.T) {
	min, max := Outline(nil).BoundingBox()
	assert.Equal(t, Point2D{}, min)
	assert.Equal(t, Point2D{}, max)
}

func TestOutline_Translate(t *testing.T) {
	o := rectOutline(100, 50)

	moved := o.Translate(10, 20)

	assert.Equal(t, Point2D{X: 10, Y: 20}, moved[0])
	assert.Equal(t, Point2D{X: 110, Y: 70}, moved[2])
	// Original untouched
	assert.Equal(t, Point2D{X: 0, Y: 0}, o[0])
}

func TestOutline_Rotate_QuarterTurn(t *testing.T) {
	o := rectOutline(100, 50)

	rotated := o.Rotate(math.Pi / 2)

	min, max := rotated.BoundingBox()
	assert.InDelta(t, 0, min.X, 1e-9)
	assert.InDelta(t, 0, min.Y, 1e-9)
	assert.InDelta(t, 50, max.X, 1e-9)
	assert.InDelta(t, 100, max.Y, 1e-9)
}

func TestOutline_Area(t *testing.T) {
	assert.InDelta(t, 5000, rectOutline(100, 50).Area(), 1e-9)

	triangle := Outline{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 60}}
	assert.InDelta(t, 3000, triangle.Area(), 1e-9)

	assert.Equal(t, 0.0, Outline{{X: 0, Y: 0}, {X: 1, Y: 1}}.Area())
}
