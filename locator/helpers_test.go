// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/fralocator/fralocator/adresse"
	"github.com/fralocator/fralocator/spatial"
)

// fakeCanvas is a minimal MapCanvas with a fixed resolution.
type fakeCanvas struct {
	crs       spatial.CRS
	center    spatial.Point
	scale     float64
	mupp      float64
	width     float64
	height    float64
	tool      MapTool
	refreshes int
	toolSets  int
}

func newFakeCanvas(crs spatial.CRS) *fakeCanvas {
	return &fakeCanvas{
		crs:    crs,
		center: spatial.NewPoint(0, 0, crs),
		mupp:   0.001,
		width:  800,
		height: 600,
	}
}

func (c *fakeCanvas) Center() spatial.Point { return c.center }
func (c *fakeCanvas) SetCenter(p spatial.Point) { c.center = p }
func (c *fakeCanvas) Scale() float64 { return c.scale }
func (c *fakeCanvas) ZoomScale(scale float64) { c.scale = scale }
func (c *fakeCanvas) Refresh() { c.refreshes++ }
func (c *fakeCanvas) DestinationCRS() spatial.CRS { return c.crs }
func (c *fakeCanvas) MapTool() MapTool { return c.tool }

func (c *fakeCanvas) SetMapTool(tool MapTool) {
	c.tool = tool
	c.toolSets++
}

func (c *fakeCanvas) CRS() spatial.CRS { return c.crs }

func (c *fakeCanvas) ToMapCoordinates(px, py float64) spatial.Point {
	return spatial.NewPoint(
		c.center.X+(px-c.width/2)*c.mupp,
		c.center.Y+(c.height/2-py)*c.mupp,
		c.crs,
	)
}

// click sends a release event to the active tool, like the host does.
func (c *fakeCanvas) click(px, py float64) {
	if c.tool != nil {
		c.tool.CanvasReleaseEvent(context.Background(), px, py)
	}
}

type warning struct {
	Title   string
	Message string
}

type fakeBar struct {
	mu       sync.Mutex
	warnings []warning
}

func (b *fakeBar) Warn(title, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.warnings = append(b.warnings, warning{Title: title, Message: message})
}

type fakeProject struct {
	crs spatial.CRS
}

func (p *fakeProject) CRS() spatial.CRS { return p.crs }

type fakeHost struct {
	canvas  *fakeCanvas
	project *fakeProject
	bar     *fakeBar
}

func newFakeHost(crs spatial.CRS) *fakeHost {
	return &fakeHost{
		canvas:  newFakeCanvas(crs),
		project: &fakeProject{crs: crs},
		bar:     &fakeBar{},
	}
}

func (h *fakeHost) MapCanvas() MapCanvas { return h.canvas }
func (h *fakeHost) Project() Project { return h.project }
func (h *fakeHost) MessageBar() Notifier { return h.bar }

// apiServer fakes the address API, recording the requests it receives.
type apiServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*url.URL
	agents   []string
}

func newAPIServer(t *testing.T, status int, body string) *apiServer {
	t.Helper()

	s := &apiServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL)
		s.agents = append(s.agents, r.Header.Get("User-Agent"))
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *apiServer) client() *adresse.Client {
	return adresse.NewClient(&adresse.Options{BaseURL: s.URL})
}

func (s *apiServer) hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

func (s *apiServer) lastRequest() *url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return nil
	}

	return s.requests[len(s.requests)-1]
}

// failingTransport simulates a network failure.
type failingTransport struct {
	err error
}

func (f failingTransport) RoundTrip(_ *http.Request) (*http.Response, error) {
	return nil, f.err
}

// collector records the events of a fetch.
type collector struct {
	results  []Result
	problems []string
}

func (c *collector) ResultFetched(result Result) { c.results = append(c.results, result) }
func (c *collector) ResultProblem(message string) { c.problems = append(c.problems, message) }

func (c *collector) displayStrings() []string {
	out := make([]string, 0, len(c.results))
	for _, r := range c.results {
		out = append(out, r.DisplayString)
	}

	return out
}

func feature(t *testing.T, data string) adresse.Feature {
	t.Helper()

	f, err := adresse.ParseFeature([]byte(data))
	if err != nil {
		t.Fatalf("parsing feature: %v", err)
	}

	return f
}
