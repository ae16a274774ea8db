// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

// Package canvas provides an in-memory map canvas for headless hosts.
package canvas

import (
	"context"
	"fmt"
	"sync"

	"github.com/fralocator/fralocator/locator"
	"github.com/fralocator/fralocator/spatial"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultDPI is the screen resolution assumed for scale computations.
	DefaultDPI = 96

	// DefaultWidth and DefaultHeight are the canvas size in pixels.
	DefaultWidth  = 800
	DefaultHeight = 600

	// DefaultScale is the initial scale denominator.
	DefaultScale = 25000

	inchesPerMeter = 39.37007874
)

// Options configures a Canvas. Zero values take the defaults.
type Options struct {
	Width  float64
	Height float64
	DPI    float64
	Scale  float64
	CRS    spatial.CRS
	Center *spatial.Point
}

// View is a snapshot of what the canvas shows.
type View struct {
	Center    spatial.Point `json:"center"`
	Scale     float64       `json:"scale"`
	CRS       spatial.CRS   `json:"crs"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Refreshes int           `json:"refreshes"`
}

// Canvas is a map canvas without a screen. It also acts as the project,
// whose CRS is the canvas destination CRS.
type Canvas struct {
	width  float64
	height float64
	dpi    float64
	log    *logrus.Entry

	mu        sync.Mutex
	crs       spatial.CRS
	center    spatial.Point
	scale     float64
	tool      locator.MapTool
	refreshes int
}

var (
	_ locator.MapCanvas = (*Canvas)(nil)
	_ locator.Project   = (*Canvas)(nil)
)

// New returns a canvas. The default view is centered on metropolitan France
// in WGS 84.
func New(options *Options) *Canvas {
	if options == nil {
		options = &Options{}
	}

	c := &Canvas{
		width:  orDefault(options.Width, DefaultWidth),
		height: orDefault(options.Height, DefaultHeight),
		dpi:    orDefault(options.DPI, DefaultDPI),
		scale:  orDefault(options.Scale, DefaultScale),
		crs:    options.CRS,
		log:    logrus.WithField("filter", "MapCanvas"),
	}

	if !c.crs.IsValid() {
		c.crs = spatial.WGS84
	}

	center := spatial.NewPoint(2.2137, 46.2276, spatial.WGS84)
	if options.Center != nil {
		center = *options.Center
	}

	projected, err := center.Transform(c.crs)
	if err != nil {
		c.log.WithError(err).Warnf("Cannot use center %s", center)

		projected = spatial.NewPoint(0, 0, c.crs)
	}

	c.center = projected

	return c
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}

	return v
}

// Center implements locator.MapCanvas.
func (c *Canvas) Center() spatial.Point {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.center
}

// SetCenter implements locator.MapCanvas. Points in another CRS are
// reprojected to the destination CRS.
func (c *Canvas) SetCenter(p spatial.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	projected, err := p.Transform(c.crs)
	if err != nil {
		c.log.WithError(err).Warnf("Ignoring center %s", p)

		return
	}

	c.center = projected
}

// Scale implements locator.MapCanvas.
func (c *Canvas) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.scale
}

// ZoomScale implements locator.MapCanvas.
func (c *Canvas) ZoomScale(scale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if scale <= 0 {
		c.log.Warnf("Ignoring scale %v", scale)

		return
	}

	c.scale = scale
}

// Refresh implements locator.MapCanvas.
func (c *Canvas) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refreshes++
	c.log.Debugf("Refresh #%d center=%s scale=1:%.0f", c.refreshes, c.center, c.scale)
}

// DestinationCRS implements locator.MapCanvas.
func (c *Canvas) DestinationCRS() spatial.CRS {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.crs
}

// CRS implements locator.Project.
func (c *Canvas) CRS() spatial.CRS {
	return c.DestinationCRS()
}

// SetDestinationCRS switches the canvas to crs, keeping the same place in
// the center.
func (c *Canvas) SetDestinationCRS(crs spatial.CRS) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	center, err := c.center.Transform(crs)
	if err != nil {
		return fmt.Errorf("switching canvas to %s: %w", crs, err)
	}

	c.crs = crs
	c.center = center

	return nil
}

// MapUnitsPerPixel is the ground size of a pixel in map units.
func (c *Canvas) MapUnitsPerPixel() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mapUnitsPerPixel()
}

func (c *Canvas) mapUnitsPerPixel() float64 {
	return c.scale / (c.dpi * inchesPerMeter * c.crs.MetersPerUnit())
}

// ToMapCoordinates implements locator.MapCanvas.
func (c *Canvas) ToMapCoordinates(px, py float64) spatial.Point {
	c.mu.Lock()
	defer c.mu.Unlock()

	mupp := c.mapUnitsPerPixel()

	return spatial.NewPoint(
		c.center.X+(px-c.width/2)*mupp,
		c.center.Y+(c.height/2-py)*mupp,
		c.crs,
	)
}

// MapTool implements locator.MapCanvas.
func (c *Canvas) MapTool() locator.MapTool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tool
}

// SetMapTool implements locator.MapCanvas.
func (c *Canvas) SetMapTool(tool locator.MapTool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tool = tool
}

// Release delivers a mouse release at pixel (px, py) to the active tool. It
// reports whether a tool received the event.
func (c *Canvas) Release(ctx context.Context, px, py float64) bool {
	tool := c.MapTool()
	if tool == nil {
		return false
	}

	tool.CanvasReleaseEvent(ctx, px, py)

	return true
}

// View returns a snapshot of the canvas state.
func (c *Canvas) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Center:    c.center,
		Scale:     c.scale,
		CRS:       c.crs,
		Width:     c.width,
		Height:    c.height,
		Refreshes: c.refreshes,
	}
}
