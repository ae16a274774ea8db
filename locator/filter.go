// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/fralocator/fralocator/adresse"
	"github.com/fralocator/fralocator/spatial"
	"github.com/sirupsen/logrus"
)

const (
	filterName        = "locatorFilter"
	filterDisplayName = "Géocodeur API Adresse FR"
	filterPrefix      = "fra"

	// MinQueryLength is the shortest query sent to the API, in characters.
	MinQueryLength = 2
)

// Zoom scale denominators by feature type. The API returns no extent, so the
// zoom level is inferred from the granularity of the result.
const (
	scaleHouseNumber = 2000
	scaleStreet      = 5000
	scaleLocality    = 5000
	scaleDefault     = 25000
)

// Filter is the capability a locator search provider implements for the host.
type Filter interface {
	// Name identifies the filter internally.
	Name() string

	// DisplayName is shown to the user.
	DisplayName() string

	// Prefix is the token that restricts a locator query to this filter.
	Prefix() string

	// Clone returns an independent instance bound to the same host.
	Clone() Filter

	// FetchResults runs a search and reports its outcome to feedback. It
	// blocks until the search is complete.
	FetchResults(ctx context.Context, search string, feedback Feedback)

	// TriggerResult is called when the user picks a result.
	TriggerResult(result Result)
}

// Result is one search candidate. UserData holds the complete source feature.
type Result struct {
	DisplayString string          `json:"display"`
	UserData      adresse.Feature `json:"feature"`
}

// Feedback receives the events of a single FetchResults call: zero or more
// results, then at most one problem.
type Feedback interface {
	ResultFetched(result Result)
	ResultProblem(message string)
}

// FeedbackFuncs adapts plain functions to Feedback. Nil functions drop the
// event.
type FeedbackFuncs struct {
	OnResult  func(Result)
	OnProblem func(string)
}

// ResultFetched implements Feedback.
func (f FeedbackFuncs) ResultFetched(result Result) {
	if f.OnResult != nil {
		f.OnResult(result)
	}
}

// ResultProblem implements Feedback.
func (f FeedbackFuncs) ResultProblem(message string) {
	if f.OnProblem != nil {
		f.OnProblem(message)
	}
}

// ZoomScale returns the map scale denominator used to show a feature of the
// given type.
func ZoomScale(featureType string) int {
	switch featureType {
	case adresse.TypeHouseNumber:
		return scaleHouseNumber
	case adresse.TypeStreet:
		return scaleStreet
	case adresse.TypeLocality:
		return scaleLocality
	default:
		return scaleDefault
	}
}

// DisplayString renders a feature as "<label> (<type>)", with the city code
// after the label for municipalities.
func DisplayString(f adresse.Feature) string {
	label := f.Label()
	if f.Type() == adresse.TypeMunicipality {
		label += " " + f.CityCode()
	}

	return fmt.Sprintf("%s (%s)", label, f.Type())
}

// FrenchFilter searches the French address API.
type FrenchFilter struct {
	host   Host
	client *adresse.Client
	log    *logrus.Entry
}

// NewFrenchFilter creates a filter driving host's map canvas.
func NewFrenchFilter(host Host, client *adresse.Client) *FrenchFilter {
	return &FrenchFilter{
		host:   host,
		client: client,
		log:    logrus.WithField("filter", filterName),
	}
}

// Name implements Filter.
func (f *FrenchFilter) Name() string { return filterName }

// DisplayName implements Filter.
func (f *FrenchFilter) DisplayName() string { return filterDisplayName }

// Prefix implements Filter.
func (f *FrenchFilter) Prefix() string { return filterPrefix }

// Clone implements Filter. Clones share the stateless API client.
func (f *FrenchFilter) Clone() Filter {
	return NewFrenchFilter(f.host, f.client)
}

// FetchResults implements Filter. Results are reported as each feature of the
// response is decoded. Queries shorter than MinQueryLength and non-200
// answers produce no result and no problem.
func (f *FrenchFilter) FetchResults(ctx context.Context, search string, feedback Feedback) {
	if utf8.RuneCountInString(search) < MinQueryLength {
		return
	}

	url := f.client.SearchURL(search)
	f.log.Infof("Search url %s", url)

	// Blocking is fine: the host runs each fetch on its own goroutine.
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			f.log.Debugf("Search canceled: %v", err)

			return
		}

		f.log.WithError(err).Warn("Search request failed")
		feedback.ResultProblem(err.Error())

		return
	}

	if !resp.OK() {
		f.log.Infof("Search ignored, status %d", resp.StatusCode)

		return
	}

	for feature, err := range adresse.NewFeatureReaderBytes(resp.Body).All() {
		if errors.Is(err, adresse.ErrMalformedFeature) {
			f.log.WithError(err).Warn("Skipping feature")

			continue
		}

		if err != nil {
			f.log.WithError(err).Warn("Decoding search response failed")
			feedback.ResultProblem(err.Error())

			return
		}

		if ctx.Err() != nil {
			return
		}

		feedback.ResultFetched(Result{
			DisplayString: DisplayString(feature),
			UserData:      feature,
		})
	}
}

// TriggerResult implements Filter: it centers the canvas on the feature,
// reprojected to the current project CRS, and zooms according to its type.
// It panics when the result does not hold a point feature with a type.
func (f *FrenchFilter) TriggerResult(result Result) {
	f.log.Infof("UserClick: %s", result.DisplayString)

	doc := result.UserData
	center := spatial.FromOrb(doc.Coordinates(), spatial.WGS84)
	scale := ZoomScale(doc.Type())

	dest := f.host.Project().CRS()

	projected, err := center.Transform(dest)
	if err != nil {
		f.log.WithError(err).Errorf("Cannot show %s in %s", center, dest)

		return
	}

	canvas := f.host.MapCanvas()
	canvas.SetCenter(projected)
	canvas.ZoomScale(float64(scale))
	canvas.Refresh()
}
