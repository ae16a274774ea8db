// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package adresse

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
  "type": "FeatureCollection",
  "version": "draft",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [2.347, 48.859]},
      "properties": {
        "label": "Paris", "score": 0.96, "id": "75056", "type": "municipality",
        "name": "Paris", "postcode": "75001", "citycode": "75056",
        "x": 652089.7, "y": 6862305.26, "population": 2133111,
        "city": "Paris", "context": "75, Paris, Île-de-France", "importance": 0.67
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [2.333, 48.862]},
      "properties": {
        "label": "Rue de Rivoli 75001 Paris", "type": "street",
        "name": "Rue de Rivoli", "postcode": "75001", "citycode": "75101"
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [2.290084, 49.897443]},
      "properties": {
        "label": "8 Boulevard du Port 80000 Amiens", "type": "housenumber",
        "housenumber": "8", "citycode": "80021"
      }
    }
  ],
  "attribution": "BAN",
  "licence": "ETALAB-2.0",
  "query": "paris",
  "limit": 10
}`

type featureSummary struct {
	Label    string
	Type     string
	CityCode string
	Point    orb.Point
}

func summarize(f Feature) featureSummary {
	return featureSummary{
		Label:    f.Label(),
		Type:     f.Type(),
		CityCode: f.CityCode(),
		Point:    f.Coordinates(),
	}
}

func TestFeatureReader(t *testing.T) {
	r := NewFeatureReaderBytes([]byte(searchResponse))

	var got []featureSummary

	for f, err := range r.All() {
		require.NoError(t, err)
		got = append(got, summarize(f))
	}

	expected := []featureSummary{
		{Label: "Paris", Type: TypeMunicipality, CityCode: "75056", Point: orb.Point{2.347, 48.859}},
		{Label: "Rue de Rivoli 75001 Paris", Type: TypeStreet, CityCode: "75101", Point: orb.Point{2.333, 48.862}},
		{Label: "8 Boulevard du Port 80000 Amiens", Type: TypeHouseNumber, CityCode: "80021", Point: orb.Point{2.290084, 49.897443}},
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}

	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFeatureReaderFeaturesFirst(t *testing.T) {
	body := `{"features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"label":"A","type":"street"}}],"type":"FeatureCollection"}`
	r := NewFeatureReader(strings.NewReader(body))

	f, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "A", f.Label())

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFeatureReaderEmpty(t *testing.T) {
	for _, body := range []string{
		`{"type":"FeatureCollection","features":[]}`,
		`{"type":"FeatureCollection","features":null}`,
		`{"type":"FeatureCollection"}`,
	} {
		r := NewFeatureReaderBytes([]byte(body))
		_, err := r.Next()
		assert.ErrorIs(t, err, io.EOF, body)
	}
}

func TestFeatureReaderIsIncremental(t *testing.T) {
	// The second feature is truncated: the first one must still be returned
	// before the decoding error surfaces.
	body := `{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"label":"A","type":"street"}},` +
		`{"type":"Feature","geometry":{"type":"Po`
	r := NewFeatureReaderBytes([]byte(body))

	f, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "A", f.Label())

	_, err = r.Next()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedFeature))
	assert.False(t, errors.Is(err, io.EOF))

	_, again := r.Next()
	assert.Equal(t, err, again, "errors are sticky")
}

func TestFeatureReaderSkipsMalformed(t *testing.T) {
	body := `{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"LineString","coordinates":[[1,2],[3,4]]},"properties":{"label":"L","type":"street"}},` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"label":"no type"}},` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[5,6]},"properties":{"label":"B","type":"locality"}}` +
		`]}`
	r := NewFeatureReaderBytes([]byte(body))

	var (
		labels    []string
		malformed int
	)

	for f, err := range r.All() {
		if errors.Is(err, ErrMalformedFeature) {
			malformed++

			continue
		}

		require.NoError(t, err)
		labels = append(labels, f.Label())
	}

	assert.Equal(t, 2, malformed)
	assert.Equal(t, []string{"B"}, labels)
}

func TestFeatureReaderNotACollection(t *testing.T) {
	for _, body := range []string{
		`[]`,
		`{"features":{}}`,
		`<html>502 Bad Gateway</html>`,
		``,
	} {
		r := NewFeatureReaderBytes([]byte(body))
		_, err := r.Next()
		require.Error(t, err, body)
		assert.False(t, errors.Is(err, io.EOF), body)
	}
}

func TestFeatureReaderNextLabel(t *testing.T) {
	body := `{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[2.290084,49.897443]},"properties":{"label":"8 Bd du Port 80000 Amiens"}},` +
		`{"type":"Feature","geometry":{"type":"LineString","coordinates":[[1,2],[3,4]]},"properties":{"label":"L"}},` +
		`{"type":"Feature","geometry":null,"properties":{}},` +
		`{"type":"Polygon","coordinates":[]}` +
		`]}`
	r := NewFeatureReaderBytes([]byte(body))

	var labels []string

	for range 3 {
		label, err := r.NextLabel()
		require.NoError(t, err)
		labels = append(labels, label)
	}

	assert.Equal(t, []string{"8 Bd du Port 80000 Amiens", "L", ""}, labels)

	_, err := r.NextLabel()
	assert.ErrorIs(t, err, ErrMalformedFeature)

	_, err = r.NextLabel()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParseFeature(t *testing.T) {
	f, err := ParseFeature([]byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[2.35,48.85]},"properties":{"label":"Paris","type":"municipality","citycode":"75056"}}`))
	require.NoError(t, err)
	assert.Equal(t, summarize(f), featureSummary{Label: "Paris", Type: TypeMunicipality, CityCode: "75056", Point: orb.Point{2.35, 48.85}})

	_, err = ParseFeature([]byte(`{"type":"Feature","geometry":null,"properties":{"type":"street"}}`))
	assert.ErrorIs(t, err, ErrMalformedFeature)

	_, err = ParseFeature([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedFeature)
}

func TestFeatureAccessorsPanicOnMalformed(t *testing.T) {
	f, err := ParseFeature([]byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"type":"street"}}`))
	require.NoError(t, err)

	assert.Equal(t, "", f.Label())
	assert.Equal(t, "", f.CityCode())

	delete(f.Properties, "type")
	assert.Panics(t, func() { f.Type() })

	f.Geometry = orb.LineString{{1, 2}, {3, 4}}
	assert.Panics(t, func() { f.Coordinates() })
}
