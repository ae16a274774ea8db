// Copyright 2025 The FraLocator Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Point represents a coordinate pair tagged with the reference system it is
// expressed in. X is the easting (or longitude), Y the northing (or latitude).
type Point struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	CRS CRS     `json:"crs"`
}

// NewPoint builds a Point in the given reference system.
func NewPoint(x, y float64, crs CRS) Point {
	return Point{X: x, Y: y, CRS: crs}
}

// FromOrb wraps an orb.Point, whose order is always x/longitude first.
func FromOrb(p orb.Point, crs CRS) Point {
	return Point{X: p.X(), Y: p.Y(), CRS: crs}
}

// Orb returns the coordinates as an orb.Point, dropping the reference system.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// String returns a WKT-like representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f) %s", p.X, p.Y, p.CRS.AuthID())
}

// Transform reprojects the point into dst.
func (p Point) Transform(dst CRS) (Point, error) {
	return Transform(p, dst)
}
