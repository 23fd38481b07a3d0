package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL, "llama3")
}

func TestGenerateSuccess(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"hello there"}`))
	})

	got, err := client.Generate(context.Background(), "say hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hello there" {
		t.Errorf("reply = %q", got)
	}
	if gotPath != "/api/generate" {
		t.Errorf("path = %q, want /api/generate", gotPath)
	}
	if gotBody.Model != "llama3" || gotBody.Prompt != "say hi" || gotBody.Stream {
		t.Errorf("request = %+v", gotBody)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("oops"))
	})

	_, err := client.Generate(context.Background(), "p")

	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("want *Error, got %T: %v", err, err)
	}
	if cerr.Kind != KindHTTP || cerr.Status != 500 {
		t.Errorf("kind = %d status = %d", cerr.Kind, cerr.Status)
	}
	if !strings.Contains(cerr.Message, "500") || !strings.Contains(cerr.Message, "oops") {
		t.Errorf("message = %q, want status and body", cerr.Message)
	}
}

func TestGenerateUpstreamErrorWinsOverStatus(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'nope' not found"}`))
	})

	_, err := client.Generate(context.Background(), "p")

	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("want *Error, got %T: %v", err, err)
	}
	if cerr.Kind != KindUpstream {
		t.Errorf("kind = %d, want KindUpstream", cerr.Kind)
	}
	if cerr.Message != "Ollama error: model 'nope' not found" {
		t.Errorf("message = %q", cerr.Message)
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.Generate(context.Background(), "p")

	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("want *Error, got %T: %v", err, err)
	}
	if cerr.Kind != KindInvalidResponse {
		t.Errorf("kind = %d, want KindInvalidResponse", cerr.Kind)
	}
	if !strings.Contains(cerr.Message, "Invalid JSON response") {
		t.Errorf("message = %q", cerr.Message)
	}
}

func TestGenerateMissingResponseField(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"done":true}`))
	})

	_, err := client.Generate(context.Background(), "p")

	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("want *Error, got %T: %v", err, err)
	}
	if cerr.Kind != KindInvalidResponse {
		t.Errorf("kind = %d, want KindInvalidResponse", cerr.Kind)
	}
	if !strings.Contains(cerr.Message, "No 'response' field") {
		t.Errorf("message = %q", cerr.Message)
	}
}

func TestGenerateBadURLFailsBeforeRequest(t *testing.T) {
	for _, raw := range []string{"", "not a url", "127.0.0.1:11434", "http://"} {
		client := New(raw, "llama3")
		client.httpClient = doerFunc(func(*http.Request) (*http.Response, error) {
			t.Fatalf("request must not be sent for URL %q", raw)
			return nil, nil
		})

		_, err := client.Generate(context.Background(), "p")

		var cerr *Error
		if !errors.As(err, &cerr) || cerr.Kind != KindBadURL {
			t.Errorf("Generate(%q) err = %v, want KindBadURL", raw, err)
		}
	}
}

func TestGenerateTrailingSlashNormalized(t *testing.T) {
	var gotPath string
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	})

	client := New(srv.URL+"/", "llama3")
	if _, err := client.Generate(context.Background(), "p"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotPath != "/api/generate" {
		t.Errorf("path = %q, want single /api/generate segment", gotPath)
	}
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestClassifyTransportError(t *testing.T) {
	dnsErr := classifyTransportError(&net.DNSError{Err: "no such host", Name: "nowhere.invalid"})
	if dnsErr.Kind != KindHostUnreachable {
		t.Errorf("dns kind = %d", dnsErr.Kind)
	}
	if !strings.Contains(dnsErr.Message, "ollama serve") {
		t.Errorf("dns message = %q, want serve guidance", dnsErr.Message)
	}

	refused := classifyTransportError(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED})
	if refused.Kind != KindConnectionRefused {
		t.Errorf("refused kind = %d", refused.Kind)
	}
	if !strings.Contains(refused.Message, "11434") {
		t.Errorf("refused message = %q, want default port hint", refused.Message)
	}

	other := classifyTransportError(errors.New("boom"))
	if other.Kind != KindNetwork {
		t.Errorf("other kind = %d", other.Kind)
	}
	if other.Message != "Network error: boom" {
		t.Errorf("other message = %q", other.Message)
	}
}
