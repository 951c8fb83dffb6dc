// Package geom holds the small planar types shared by the layout, partition
// and render packages.
package geom

import (
	"fmt"
	"math"
)

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Midpoint returns the point halfway between p and q
func Midpoint(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Distance returns the euclidean distance between p and q
func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// SquaredDistance avoids the square root for comparisons
func SquaredDistance(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Viewport is the drawing area in layout units
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Valid reports whether both dimensions are positive and finite
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0 && !math.IsInf(v.Width, 0) && !math.IsInf(v.Height, 0)
}

// Center returns the middle of the viewport
func (v Viewport) Center() Point {
	return Point{X: v.Width / 2, Y: v.Height / 2}
}

// Contains reports whether p lies inside the viewport, edges included
func (v Viewport) Contains(p Point) bool {
	return p.X >= 0 && p.X <= v.Width && p.Y >= 0 && p.Y <= v.Height
}

// Rect returns the viewport corners in counter-clockwise order
func (v Viewport) Rect() []Point {
	return []Point{
		{X: 0, Y: 0},
		{X: v.Width, Y: 0},
		{X: v.Width, Y: v.Height},
		{X: 0, Y: v.Height},
	}
}

func (v Viewport) String() string {
	return fmt.Sprintf("%gx%g", v.Width, v.Height)
}
