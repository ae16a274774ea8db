// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package adresse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature types returned by the API.
const (
	TypeHouseNumber  = "housenumber"
	TypeStreet       = "street"
	TypeLocality     = "locality"
	TypeMunicipality = "municipality"
)

// Feature is one entry of a feature collection returned by the API. The
// geometry is always a WGS84 point.
type Feature struct {
	*geojson.Feature
}

// ParseFeature decodes and validates a single GeoJSON feature.
func ParseFeature(data []byte) (Feature, error) {
	gf, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return Feature{}, fmt.Errorf("%w: %w", ErrMalformedFeature, err)
	}

	f := Feature{Feature: gf}
	if err := f.Validate(); err != nil {
		return Feature{}, err
	}

	return f, nil
}

// MarshalJSON encodes the feature as GeoJSON.
func (f Feature) MarshalJSON() ([]byte, error) {
	if f.Feature == nil {
		return []byte("null"), nil
	}

	return f.Feature.MarshalJSON()
}

// UnmarshalJSON decodes and validates a GeoJSON feature.
func (f *Feature) UnmarshalJSON(data []byte) error {
	parsed, err := ParseFeature(data)
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// Validate checks that the feature has a point geometry and a type.
func (f Feature) Validate() error {
	if f.Feature == nil {
		return fmt.Errorf("%w: empty", ErrMalformedFeature)
	}

	if _, ok := f.Geometry.(orb.Point); !ok {
		return fmt.Errorf("%w: geometry is %T, not a point", ErrMalformedFeature, f.Geometry)
	}

	if _, ok := f.Properties["type"].(string); !ok {
		return fmt.Errorf("%w: missing type", ErrMalformedFeature)
	}

	return nil
}

// Label is the full human readable address.
func (f Feature) Label() string {
	return f.Properties.MustString("label", "")
}

// Type is one of the Type* constants, or another value the API may add.
// It panics when the property is missing.
func (f Feature) Type() string {
	return f.Properties.MustString("type")
}

// CityCode is the INSEE code of the municipality, when present.
func (f Feature) CityCode() string {
	return f.Properties.MustString("citycode", "")
}

// Coordinates returns longitude and latitude, in that order. It panics when
// the geometry is not a point.
func (f Feature) Coordinates() orb.Point {
	return f.Geometry.(orb.Point)
}

// FeatureReader decodes the "features" array of a feature collection one
// feature at a time, without buffering the rest of the array.
type FeatureReader struct {
	dec     *json.Decoder
	inArray bool
	done    bool
	err     error
}

// NewFeatureReader reads a feature collection from r.
func NewFeatureReader(r io.Reader) *FeatureReader {
	return &FeatureReader{dec: json.NewDecoder(r)}
}

// NewFeatureReaderBytes reads a feature collection from a response body.
func NewFeatureReaderBytes(body []byte) *FeatureReader {
	return NewFeatureReader(bytes.NewReader(body))
}

// Next returns the next feature, or io.EOF once the array is exhausted.
// An error wrapping ErrMalformedFeature concerns only that feature and the
// reader can continue; any other error is final.
func (r *FeatureReader) Next() (Feature, error) {
	raw, err := r.next()
	if err != nil {
		return Feature{}, err
	}

	return ParseFeature(raw)
}

// NextLabel returns properties.label of the next feature, or io.EOF once the
// array is exhausted. Unlike Next it does not require a type or a point
// geometry; a feature without a label yields "".
func (r *FeatureReader) NextLabel() (string, error) {
	raw, err := r.next()
	if err != nil {
		return "", err
	}

	gf, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedFeature, err)
	}

	return gf.Properties.MustString("label", ""), nil
}

// next returns the next undecoded feature of the array.
func (r *FeatureReader) next() (json.RawMessage, error) {
	if r.err != nil {
		return nil, r.err
	}

	if !r.inArray {
		if err := r.seekFeatures(); err != nil {
			r.err = err

			return nil, err
		}
	}

	if r.done || !r.dec.More() {
		r.done = true

		return nil, io.EOF
	}

	var raw json.RawMessage
	if err := r.dec.Decode(&raw); err != nil {
		r.err = fmt.Errorf("decoding feature: %w", err)

		return nil, r.err
	}

	return raw, nil
}

// All iterates over the remaining features. Iteration stops after the first
// final error, which is yielded.
func (r *FeatureReader) All() iter.Seq2[Feature, error] {
	return func(yield func(Feature, error) bool) {
		for {
			f, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(f, err) {
				return
			}

			if err != nil && !errors.Is(err, ErrMalformedFeature) {
				return
			}
		}
	}
}

// seekFeatures positions the decoder right after the opening bracket of the
// "features" array, skipping any other member of the collection.
func (r *FeatureReader) seekFeatures() error {
	r.inArray = true

	tok, err := r.dec.Token()
	if errors.Is(err, io.EOF) {
		// An empty body is not an empty collection.
		err = io.ErrUnexpectedEOF
	}

	if err != nil {
		return fmt.Errorf("reading feature collection: %w", err)
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("reading feature collection: expected object, got %v", tok)
	}

	for r.dec.More() {
		tok, err := r.dec.Token()
		if err != nil {
			return fmt.Errorf("reading feature collection: %w", err)
		}

		if key, _ := tok.(string); key != "features" {
			var skip json.RawMessage
			if err := r.dec.Decode(&skip); err != nil {
				return fmt.Errorf("reading feature collection member %v: %w", tok, err)
			}

			continue
		}

		tok, err = r.dec.Token()
		if err != nil {
			return fmt.Errorf("reading features: %w", err)
		}

		switch d := tok.(type) {
		case json.Delim:
			if d != '[' {
				return fmt.Errorf("reading features: expected array, got %v", d)
			}

			return nil
		case nil:
			r.done = true

			return nil
		default:
			return fmt.Errorf("reading features: expected array, got %v", tok)
		}
	}

	r.done = true

	return nil
}
