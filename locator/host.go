// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

// Package locator plugs the French address API into a GIS host: a search
// filter for the host's locator bar, and a map tool that reverse geocodes
// clicked points.
package locator

import (
	"context"

	"github.com/fralocator/fralocator/spatial"
)

// MapTool receives the map interactions while it is the canvas' active tool.
type MapTool interface {
	CanvasReleaseEvent(ctx context.Context, px, py float64)
}

// MapCanvas is the part of the host's map view the locator drives.
type MapCanvas interface {
	Center() spatial.Point
	SetCenter(p spatial.Point)
	Scale() float64
	ZoomScale(scale float64)
	Refresh()

	// DestinationCRS is the reference system the canvas renders in.
	DestinationCRS() spatial.CRS

	// ToMapCoordinates converts device pixels to a point in DestinationCRS.
	ToMapCoordinates(px, py float64) spatial.Point

	MapTool() MapTool
	SetMapTool(tool MapTool)
}

// Project exposes the host's current project settings. Its CRS may change
// at any time and must be read at use.
type Project interface {
	CRS() spatial.CRS
}

// Notifier shows non fatal messages to the user, typically as a banner.
type Notifier interface {
	Warn(title, message string)
}

// Host is the application the locator is plugged into.
type Host interface {
	MapCanvas() MapCanvas
	Project() Project
	MessageBar() Notifier
}
