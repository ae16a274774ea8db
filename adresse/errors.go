// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package adresse

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// ErrMalformedFeature is returned for features lacking a point geometry or a
// type property.
var ErrMalformedFeature = errors.New("malformed feature")

// RequestError is a transport level failure: the request never produced an
// HTTP status. HTTP error statuses are not RequestErrors.
type RequestError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	// ErrorKindUnknown unclassified failure.
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindTimeout the request or one of its phases timed out.
	ErrorKindTimeout
	// ErrorKindDNS the host name could not be resolved.
	ErrorKindDNS
	// ErrorKindConnection the connection was refused, reset or cut short.
	ErrorKindConnection
	// ErrorKindTLS the TLS handshake or certificate verification failed.
	ErrorKindTLS
	// ErrorKindCanceled the caller's context was canceled.
	ErrorKindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTimeout:
		return "request timed out"
	case ErrorKindDNS:
		return "host not found"
	case ErrorKindConnection:
		return "connection failed"
	case ErrorKindTLS:
		return "secure connection failed"
	case ErrorKindCanceled:
		return "request canceled"
	default:
		return "network error"
	}
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return e.Kind.String()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// newRequestError wraps err, inferring its kind from the error chain.
func newRequestError(rawURL string, err error) *RequestError {
	return &RequestError{
		Kind: classifyTransportError(err),
		URL:  rawURL,
		Err:  err,
	}
}

func classifyTransportError(err error) ErrorKind {
	var (
		dnsErr      *net.DNSError
		netErr      net.Error
		certErr     *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		authorityEr x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		opErr       *net.OpError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return ErrorKindCanceled
	case errors.As(err, &dnsErr):
		return ErrorKindDNS
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return ErrorKindTimeout
	case errors.As(err, &certErr),
		errors.As(err, &recordErr),
		errors.As(err, &authorityEr),
		errors.As(err, &hostnameErr):
		return ErrorKindTLS
	case errors.As(err, &opErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return ErrorKindConnection
	default:
		return ErrorKindUnknown
	}
}

// IsRequestError reports whether err is a transport failure.
func IsRequestError(err error) bool {
	var reqErr *RequestError

	return errors.As(err, &reqErr)
}

// IsTimeoutError reports whether err is a transport timeout.
func IsTimeoutError(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind == ErrorKindTimeout
	}

	return false
}

// IsDNSError reports whether err is a name resolution failure.
func IsDNSError(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind == ErrorKindDNS
	}

	return false
}
