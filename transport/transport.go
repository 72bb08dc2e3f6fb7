package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Request describes one connect attempt.
type Request struct {
	// URL is the stream endpoint.
	URL string
	// WithCredentials enables cookie handling for the connection.
	WithCredentials bool
	// Header contains the headers for this attempt (Accept, Last-Event-ID).
	Header http.Header
}

// Response is the validated-by-the-caller result of a connect attempt.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the cancellable byte stream. The caller owns it and must
	// close it.
	Body io.ReadCloser
	// URL is the final request URL after redirects.
	URL *url.URL
}

// ContentType returns the response Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Origin returns the scheme://host origin of the resolved URL.
func (r *Response) Origin() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Scheme + "://" + r.URL.Host
}

// Transport issues requests on behalf of the client. Implementations must
// honor ctx cancellation both while connecting and while the returned body
// is being read.
type Transport interface {
	Connect(ctx context.Context, req Request) (*Response, error)
}
