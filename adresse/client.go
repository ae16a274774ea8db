// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

// Package adresse is a client for the French national address API
// (Base Adresse Nationale, https://adresse.data.gouv.fr/api-doc/adresse).
package adresse

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public endpoint of the address API.
	DefaultBaseURL = "https://api-adresse.data.gouv.fr/"

	// DefaultUserAgent is sent on every request; the API throttles or rejects
	// generic client agents.
	DefaultUserAgent = "Mozilla/5.0 QGIS LocatorFilter"

	// DefaultTimeout bounds a whole request, body included.
	DefaultTimeout = 30 * time.Second

	searchPath  = "search/"
	reversePath = "reverse/"
	searchLimit = 10
)

// Options configures a Client.
type Options struct {
	// BaseURL of the API, with or without trailing slash
	BaseURL string

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Timeout for a complete request
	Timeout time.Duration

	// RateLimit in requests per second, zero for unlimited
	RateLimit float64

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool

	// Transport overrides the base round-tripper
	Transport http.RoundTripper
}

func (o *Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}

	return DefaultTimeout
}

// Client builds the API URLs and issues the requests.
type Client struct {
	requester *Requester
	baseURL   string
	userAgent string
}

// NewClient creates a client; nil options use the public API.
func NewClient(options *Options) *Client {
	if options == nil {
		options = &Options{}
	}

	baseURL := DefaultBaseURL
	if options.BaseURL != "" {
		baseURL = options.BaseURL
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	userAgent := DefaultUserAgent
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	return &Client{
		requester: NewRequester(options),
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// SearchURL returns the forward search URL for query.
func (c *Client) SearchURL(query string) string {
	return c.baseURL + searchPath +
		"?limit=" + strconv.Itoa(searchLimit) +
		"&autocomplete=1" +
		"&q=" + url.QueryEscape(query)
}

// ReverseURL returns the reverse lookup URL for a WGS84 longitude/latitude.
func (c *Client) ReverseURL(lon, lat float64) string {
	return c.baseURL + reversePath +
		"?lon=" + strconv.FormatFloat(lon, 'f', -1, 64) +
		"&lat=" + strconv.FormatFloat(lat, 'f', -1, 64)
}

// Headers returns the headers sent with every API request.
func (c *Client) Headers() map[string]string {
	return map[string]string{"User-Agent": c.userAgent}
}

// Get requests rawURL with the client headers.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	return c.requester.Request(ctx, rawURL, c.Headers())
}
