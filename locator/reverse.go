// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/fralocator/fralocator/adresse"
	"github.com/fralocator/fralocator/i18n"
	"github.com/fralocator/fralocator/spatial"
	"github.com/sirupsen/logrus"
)

// Mode says whether a map click triggers a reverse lookup.
type Mode int

const (
	// Idle clicks are ignored.
	Idle Mode = iota
	// Armed every click is reverse geocoded, until disarmed.
	Armed
)

func (m Mode) String() string {
	if m == Armed {
		return "armed"
	}

	return "idle"
}

// Dock is the side panel controller. It owns the click mode and the address
// field, and swaps its CatchTool in and out of the canvas.
type Dock struct {
	canvas MapCanvas
	tool   *CatchTool

	mu       sync.Mutex
	mode     Mode
	address  string
	previous MapTool
}

// NewDock creates an idle dock whose tool reverse geocodes with client.
// Problems are reported to problem.
func NewDock(canvas MapCanvas, client *adresse.Client, problem func(string), tr *i18n.Translator) *Dock {
	if tr == nil {
		tr = i18n.New("")
	}

	d := &Dock{canvas: canvas}
	d.tool = &CatchTool{
		canvas:  canvas,
		dock:    d,
		client:  client,
		problem: problem,
		tr:      tr,
		log:     logrus.WithField("filter", "CatchTool"),
	}

	return d
}

// Tool returns the dock's reverse geocoding tool.
func (d *Dock) Tool() *CatchTool {
	return d.tool
}

// Mode returns the current click mode.
func (d *Dock) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.mode
}

// SetClickMode arms or disarms reverse geocoding. Arming installs the tool on
// the canvas; disarming restores the tool that was active before.
func (d *Dock) SetClickMode(armed bool) {
	d.mu.Lock()

	if armed == (d.mode == Armed) {
		d.mu.Unlock()

		return
	}

	var tool MapTool
	if armed {
		d.previous = d.canvas.MapTool()
		d.mode = Armed
		tool = d.tool
	} else {
		d.mode = Idle
		tool = d.previous
		d.previous = nil
	}

	d.mu.Unlock()

	d.canvas.SetMapTool(tool)
}

// SetAddress fills the address field.
func (d *Dock) SetAddress(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.address = text
}

// Address returns the content of the address field.
func (d *Dock) Address() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.address
}

// CatchTool reverse geocodes the clicked point while its dock is armed.
type CatchTool struct {
	canvas  MapCanvas
	dock    *Dock
	client  *adresse.Client
	problem func(string)
	tr      *i18n.Translator
	log     *logrus.Entry
}

// CanvasReleaseEvent implements MapTool. It runs on the host's UI goroutine
// and blocks for the whole round trip.
func (t *CatchTool) CanvasReleaseEvent(ctx context.Context, px, py float64) {
	_ = t.Reverse(ctx, px, py)
}

// Reverse handles one click at pixel (px, py). Problems are reported to the
// host and also returned, so callers sharing the host can tell which click
// failed. An idle dock or a non-200 answer is not a problem.
func (t *CatchTool) Reverse(ctx context.Context, px, py float64) error {
	if t.dock.Mode() != Armed {
		return nil
	}

	err := t.reverse(ctx, px, py)
	if err != nil {
		t.notify(err.Error())
	}

	return err
}

func (t *CatchTool) reverse(ctx context.Context, px, py float64) error {
	point := t.canvas.ToMapCoordinates(px, py)

	wgs84, err := point.Transform(spatial.WGS84)
	if err != nil {
		t.log.WithError(err).Warn("Cannot reproject clicked point")

		return err
	}

	url := t.client.ReverseURL(wgs84.X, wgs84.Y)
	t.log.Infof("Reverse url %s", url)

	resp, err := t.client.Get(ctx, url)
	if err != nil {
		t.log.WithError(err).Warn("Reverse request failed")

		return err
	}

	if !resp.OK() {
		t.log.Infof("Reverse ignored, status %d", resp.StatusCode)

		return nil
	}

	// Only properties.label of the first feature is read.
	label, err := adresse.NewFeatureReaderBytes(resp.Body).NextLabel()

	switch {
	case errors.Is(err, io.EOF):
		noAddress := t.tr.Tr(i18n.NoAddress)
		t.dock.SetAddress(noAddress)
		t.log.Info(noAddress)
	case err != nil:
		t.log.WithError(err).Warn("Decoding reverse response failed")

		return err
	default:
		t.dock.SetAddress(label)
	}

	return nil
}

func (t *CatchTool) notify(message string) {
	if t.problem != nil {
		t.problem(message)
	}
}
