package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPublishDigestMisconfigured(t *testing.T) {
	t.Parallel()

	n := NewNotifier("", "")
	if err := n.PublishDigest(context.Background(), "digest"); err == nil {
		t.Fatalf("expected misconfigured error")
	}
}

func TestPublishDigestTruncatesLongMessages(t *testing.T) {
	t.Parallel()

	var sent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		sent = r.FormValue("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier("token", "chat")
	n.client = server.Client()
	// Point the bot API at the test server.
	n.client.Transport = rewriteTransport{base: http.DefaultTransport, target: server.URL}

	digest := strings.Repeat("x", maxMessageLength+500)
	if err := n.PublishDigest(context.Background(), digest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent) != maxMessageLength {
		t.Fatalf("expected truncation to %d, got %d", maxMessageLength, len(sent))
	}
}

func TestPublishDigestSurfacesAPIErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewNotifier("token", "chat")
	n.client = server.Client()
	n.client.Transport = rewriteTransport{base: http.DefaultTransport, target: server.URL}

	if err := n.PublishDigest(context.Background(), "digest"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

// rewriteTransport redirects all requests to the test server.
type rewriteTransport struct {
	base   http.RoundTripper
	target string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method, t.target, req.Body)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	return t.base.RoundTrip(redirected)
}
