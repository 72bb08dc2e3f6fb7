// Package transport issues the long-lived HTTP requests the eventsource
// client streams from. It exposes a small Transport interface (a URL, a
// credentials mode and a header map in; status, headers and a cancellable
// body stream out) plus the net/http implementation used by default.
//
// The HTTP implementation follows redirects, reports the final resolved URL
// so the client can compute the stream origin, attaches a cookie jar when
// the credentials mode asks for one, and enables HTTP/2 read-idle pings so
// silently dead connections are detected instead of hanging forever.
package transport
