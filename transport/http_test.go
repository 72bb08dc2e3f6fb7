package transport_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/eventsource/auth"
	"github.com/kbukum/eventsource/errors"
	"github.com/kbukum/eventsource/transport"
)

func newTransport(t *testing.T, cfg transport.Config) *transport.HTTP {
	t.Helper()
	tr, err := transport.NewHTTP(cfg)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	return tr
}

func TestHTTP_Connect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Cache-Control"); got != "no-store" {
			t.Errorf("Cache-Control = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: hi\n\n")
	}))
	defer srv.Close()

	tr := newTransport(t, transport.Config{})
	resp, err := tr.Connect(context.Background(), transport.Request{
		URL:    srv.URL,
		Header: http.Header{"Accept": []string{"text/event-stream"}},
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.ContentType() != "text/event-stream" {
		t.Errorf("content type = %q", resp.ContentType())
	}
	if resp.Origin() != srv.URL {
		t.Errorf("origin = %q, want %q", resp.Origin(), srv.URL)
	}
}

func TestHTTP_ConnectRefused(t *testing.T) {
	tr := newTransport(t, transport.Config{})
	_, err := tr.Connect(context.Background(), transport.Request{
		URL: "http://127.0.0.1:1/events",
	})
	if err == nil {
		t.Fatal("expected connection error")
	}
	se, ok := errors.AsStreamError(err)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if se.Code != errors.ErrCodeConnectionFailed {
		t.Errorf("code = %s", se.Code)
	}
	if se.Fatal {
		t.Error("connection errors must be non-fatal")
	}
}

func TestHTTP_ContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := newTransport(t, transport.Config{})
	if _, err := tr.Connect(ctx, transport.Request{URL: srv.URL}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestHTTP_RedirectResolvesOrigin(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/stream", http.StatusTemporaryRedirect)
	}))
	defer redirector.Close()

	tr := newTransport(t, transport.Config{})
	resp, err := tr.Connect(context.Background(), transport.Request{URL: redirector.URL})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer resp.Body.Close()

	if resp.Origin() != target.URL {
		t.Errorf("origin = %q, want %q", resp.Origin(), target.URL)
	}
}

func TestHTTP_BearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	tr := newTransport(t, transport.Config{TokenSource: auth.StaticToken("tok-1")})
	resp, err := tr.Connect(context.Background(), transport.Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestHTTP_CookiesOnlyWithCredentials(t *testing.T) {
	var mu = make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu <- r.Header.Get("Cookie")
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s1"})
	}))
	defer srv.Close()

	tr := newTransport(t, transport.Config{})

	// With credentials: the second request carries the cookie back.
	for i := 0; i < 2; i++ {
		resp, err := tr.Connect(context.Background(), transport.Request{URL: srv.URL, WithCredentials: true})
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
		resp.Body.Close()
	}
	<-mu
	if got := <-mu; got == "" {
		t.Error("expected cookie on second credentialed request")
	}

	// Without credentials: no cookie is ever sent.
	resp, err := tr.Connect(context.Background(), transport.Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	resp.Body.Close()
	if got := <-mu; got != "" {
		t.Errorf("unexpected cookie %q on plain request", got)
	}
}

func TestHTTP_DefaultUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	tr := newTransport(t, transport.Config{})
	resp, err := tr.Connect(context.Background(), transport.Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	resp.Body.Close()

	if !strings.HasPrefix(gotUA, "eventsource/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestHTTP_DefaultHeaders(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	tr := newTransport(t, transport.Config{Headers: map[string]string{"User-Agent": "eventsource-test"}})
	resp, err := tr.Connect(context.Background(), transport.Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	resp.Body.Close()

	if gotUA != "eventsource-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}
