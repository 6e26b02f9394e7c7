// Package geom provides the integer and floating-point rectangles used for
// native widget geometry and anchor tracking.
package geom

import "math"

// Point represents a position in pixel coordinates.
type Point struct {
	X int
	Y int
}

// Rect represents a rectangle using left, top, right, bottom coordinates,
// in the native window system's integer pixel space.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height int) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Translate returns a new rect offset by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Union returns the smallest rect containing both r and other.
// An empty receiver yields other.
func (r Rect) Union(other Rect) Rect {
	if r == (Rect{}) {
		return other
	}
	return Rect{
		Left:   min(r.Left, other.Left),
		Top:    min(r.Top, other.Top),
		Right:  max(r.Right, other.Right),
		Bottom: max(r.Bottom, other.Bottom),
	}
}

// Float converts r to a floating-point rectangle.
func (r Rect) Float() RectF {
	return RectF{
		Left:   float64(r.Left),
		Top:    float64(r.Top),
		Right:  float64(r.Right),
		Bottom: float64(r.Bottom),
	}
}

// RectF is a floating-point rectangle. Layout accumulates fractional deltas
// here so repeated odd-sized resizes do not drift.
type RectF struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Width returns the width of the rectangle.
func (r RectF) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r RectF) Height() float64 {
	return r.Bottom - r.Top
}

// Center returns the midpoint of the rectangle.
func (r RectF) Center() (x, y float64) {
	return (r.Left + r.Right) * 0.5, (r.Top + r.Bottom) * 0.5
}

// Round converts r to the nearest integer rectangle.
func (r RectF) Round() Rect {
	return Rect{
		Left:   int(math.Round(r.Left)),
		Top:    int(math.Round(r.Top)),
		Right:  int(math.Round(r.Right)),
		Bottom: int(math.Round(r.Bottom)),
	}
}
