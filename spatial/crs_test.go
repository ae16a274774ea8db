// Copyright 2025 The FraLocator Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCRS(t *testing.T) {
	tests := []struct {
		in      string
		want    CRS
		wantErr bool
	}{
		{in: "EPSG:4326", want: WGS84},
		{in: "epsg:2154", want: Lambert93},
		{in: " 3857 ", want: WebMercator},
		{in: "EPSG:27572", wantErr: true},
		{in: "IGNF:LAMB93", wantErr: true},
		{in: "lambert", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := LookupCRS(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownCRS))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSupported(t *testing.T) {
	assert.Equal(t, []CRS{Lambert93, WebMercator, WGS84}, Supported())
}

func TestTransformKnownPoints(t *testing.T) {
	tests := []struct {
		name   string
		in     Point
		dst    CRS
		wantX  float64
		wantY  float64
		within float64
	}{
		{
			name:   "origin of lambert-93",
			in:     NewPoint(3, 46.5, WGS84),
			dst:    Lambert93,
			wantX:  700000,
			wantY:  6600000,
			within: 0.01,
		},
		{
			name:   "null island to mercator",
			in:     NewPoint(0, 0, WGS84),
			dst:    WebMercator,
			wantX:  0,
			wantY:  0,
			within: 0.001,
		},
		{
			name:   "paris to mercator",
			in:     NewPoint(2.3488, 48.85341, WGS84),
			dst:    WebMercator,
			wantX:  261467.22,
			wantY:  6250024.64,
			within: 0.1,
		},
		{
			name:   "paris to lambert-93",
			in:     NewPoint(2.3488, 48.85341, WGS84),
			dst:    Lambert93,
			wantX:  652216.64,
			wantY:  6861682.61,
			within: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transform(tt.in, tt.dst)
			require.NoError(t, err)
			assert.Equal(t, tt.dst, got.CRS)
			assert.InDelta(t, tt.wantX, got.X, tt.within)
			assert.InDelta(t, tt.wantY, got.Y, tt.within)
		})
	}
}

func TestTransformRoundTrip(t *testing.T) {
	points := []Point{
		NewPoint(2.3488, 48.85341, WGS84), // Paris
		NewPoint(-4.4861, 48.3904, WGS84), // Brest
		NewPoint(7.2620, 43.7102, WGS84),  // Nice
		NewPoint(9.4500, 42.7000, WGS84),  // Bastia
		NewPoint(-1.5536, 47.2184, WGS84), // Nantes
		NewPoint(5.3698, 43.2965, WGS84),  // Marseille
	}

	for _, dst := range []CRS{Lambert93, WebMercator, WGS84} {
		for _, p := range points {
			projected, err := p.Transform(dst)
			require.NoError(t, err)

			back, err := projected.Transform(WGS84)
			require.NoError(t, err)

			assert.InDelta(t, p.X, back.X, 1e-6, "%s via %s", p, dst)
			assert.InDelta(t, p.Y, back.Y, 1e-6, "%s via %s", p, dst)
		}
	}
}

func TestTransformUnknownCRS(t *testing.T) {
	_, err := Transform(NewPoint(1, 2, CRS{Code: 9999}), WGS84)
	assert.ErrorIs(t, err, ErrUnknownCRS)

	_, err = Transform(NewPoint(1, 2, WGS84), CRS{Code: 9999})
	assert.ErrorIs(t, err, ErrUnknownCRS)
}

func TestCRSJSON(t *testing.T) {
	data, err := json.Marshal(NewPoint(1, 2, Lambert93))
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1,"y":2,"crs":"EPSG:2154"}`, string(data))

	var p Point
	require.NoError(t, json.Unmarshal([]byte(`{"x":3,"y":4,"crs":"EPSG:3857"}`), &p))
	assert.Equal(t, NewPoint(3, 4, WebMercator), p)

	assert.Error(t, json.Unmarshal([]byte(`{"x":3,"y":4,"crs":"EPSG:1"}`), &p))
}

func TestMetersPerUnit(t *testing.T) {
	assert.InDelta(t, 111319.49, WGS84.MetersPerUnit(), 0.01)
	assert.Equal(t, 1.0, Lambert93.MetersPerUnit())
}
