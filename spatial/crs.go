// Copyright 2025 The FraLocator Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/wroge/wgs84"
)

// ErrUnknownCRS is returned for reference systems missing from the registry.
var ErrUnknownCRS = errors.New("spatial: unknown reference system")

// metersPerDegree is the length of one degree of longitude at the equator.
const metersPerDegree = 111319.49079327357

// CRS identifies a coordinate reference system by its EPSG code.
type CRS struct {
	Code       int
	Name       string
	Geographic bool
}

// Reference systems known to the registry.
var (
	WGS84       = CRS{Code: 4326, Name: "WGS 84", Geographic: true}
	WebMercator = CRS{Code: 3857, Name: "WGS 84 / Pseudo-Mercator"}
	Lambert93   = CRS{Code: 2154, Name: "RGF93 v1 / Lambert-93"}
)

// projection converts between a CRS and WGS84 longitude/latitude.
type projection struct {
	crs       CRS
	toWGS84   orb.Projection
	fromWGS84 orb.Projection
}

func identity(p orb.Point) orb.Point { return p }

// viaWGS84 adapts a wgs84 transformation to an orb.Projection. Heights are
// dropped.
func viaWGS84(f wgs84.Func) orb.Projection {
	return func(p orb.Point) orb.Point {
		x, y, _ := f(p[0], p[1], 0)

		return orb.Point{x, y}
	}
}

var registry = map[int]projection{
	WGS84.Code: {
		crs:       WGS84,
		toWGS84:   identity,
		fromWGS84: identity,
	},
	WebMercator.Code: {
		crs:       WebMercator,
		toWGS84:   project.Mercator.ToWGS84,
		fromWGS84: project.WGS84.ToMercator,
	},
	Lambert93.Code: {
		crs:       Lambert93,
		toWGS84:   viaWGS84(wgs84.RGF93FranceLambert().To(wgs84.LonLat())),
		fromWGS84: viaWGS84(wgs84.LonLat().To(wgs84.RGF93FranceLambert())),
	},
}

// AuthID returns the "EPSG:<code>" identifier.
func (c CRS) AuthID() string {
	return "EPSG:" + strconv.Itoa(c.Code)
}

// IsValid reports whether the CRS is part of the registry.
func (c CRS) IsValid() bool {
	_, ok := registry[c.Code]

	return ok
}

// MetersPerUnit returns the ground length of one map unit, approximated at the
// equator for geographic systems.
func (c CRS) MetersPerUnit() float64 {
	if c.Geographic {
		return metersPerDegree
	}

	return 1
}

// String implements fmt.Stringer.
func (c CRS) String() string {
	return c.AuthID()
}

// MarshalJSON encodes the CRS as its authority identifier.
func (c CRS) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.AuthID())
}

// UnmarshalJSON decodes an authority identifier such as "EPSG:2154".
func (c *CRS) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("spatial: decoding crs: %w", err)
	}

	crs, err := LookupCRS(s)
	if err != nil {
		return err
	}

	*c = crs

	return nil
}

// LookupCRS resolves "EPSG:2154", "epsg:2154" or "2154" to a registered CRS.
func LookupCRS(id string) (CRS, error) {
	s := strings.TrimSpace(id)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		if !strings.EqualFold(s[:i], "EPSG") {
			return CRS{}, fmt.Errorf("%w: %q", ErrUnknownCRS, id)
		}

		s = s[i+1:]
	}

	code, err := strconv.Atoi(s)
	if err != nil {
		return CRS{}, fmt.Errorf("%w: %q", ErrUnknownCRS, id)
	}

	p, ok := registry[code]
	if !ok {
		return CRS{}, fmt.Errorf("%w: %q", ErrUnknownCRS, id)
	}

	return p.crs, nil
}

// Supported lists the registered reference systems ordered by code.
func Supported() []CRS {
	crss := make([]CRS, 0, len(registry))
	for _, p := range registry {
		crss = append(crss, p.crs)
	}

	slices.SortFunc(crss, func(a, b CRS) int { return a.Code - b.Code })

	return crss
}

// Transform reprojects p from its own reference system into dst, going
// through WGS84 longitude/latitude.
func Transform(p Point, dst CRS) (Point, error) {
	src, ok := registry[p.CRS.Code]
	if !ok {
		return Point{}, fmt.Errorf("%w: source %s", ErrUnknownCRS, p.CRS.AuthID())
	}

	to, ok := registry[dst.Code]
	if !ok {
		return Point{}, fmt.Errorf("%w: destination %s", ErrUnknownCRS, dst.AuthID())
	}

	if src.crs.Code == to.crs.Code {
		return Point{X: p.X, Y: p.Y, CRS: to.crs}, nil
	}

	wgs := src.toWGS84(p.Orb())

	return FromOrb(to.fromWGS84(wgs), to.crs), nil
}
