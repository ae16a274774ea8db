// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package adresse

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fralocator/fralocator/utils/httputils"
	"golang.org/x/time/rate"
)

// Response is the outcome of a request that reached the server, whatever its
// status code.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the server answered 200. Any other status is treated by
// callers as "no results".
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Requester issues blocking GET requests. It holds no per-request state and
// can be shared between goroutines.
type Requester struct {
	client *http.Client
}

// NewRequester builds the transport chain described by options.
func NewRequester(options *Options) *Requester {
	if options == nil {
		options = &Options{}
	}

	transport := options.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       30 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
		}
	}

	var httpLogWriter io.Writer
	if options.EnableHTTPTrace {
		httpLogWriter = os.Stderr
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    httpLogWriter,
		DumpBody:  options.EnableHTTPBodyTrace,
		Transport: transport,
	}

	var limiter *rate.Limiter
	if options.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.RateLimit), 1)
	}

	rateTransport := &httputils.RateLimitRoundTripper{
		Limiter:   limiter,
		Transport: loggingTransport,
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"Accept": "application/json",
		},
		Transport: rateTransport,
	}

	return &Requester{
		client: &http.Client{
			Timeout:   options.timeout(),
			Transport: headerTransport,
		},
	}
}

// Request performs a GET on rawURL with the given headers and waits for the
// whole body. Transport failures are returned as *RequestError; HTTP error
// statuses are returned as a normal Response.
func (r *Requester) Request(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &RequestError{Kind: ErrorKindUnknown, URL: rawURL, Err: err}
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, newRequestError(rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newRequestError(rawURL, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
