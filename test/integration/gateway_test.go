// Package integration exercises the full gateway wiring: HTTP server,
// authentication, provider, engine registry, and storage together.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rhuss/lokal/pkg/api"
	"github.com/rhuss/lokal/pkg/auth"
	_ "github.com/rhuss/lokal/pkg/inference/echo"
	"github.com/rhuss/lokal/pkg/provider/local"
	"github.com/rhuss/lokal/pkg/storage/memory"
	"github.com/rhuss/lokal/pkg/transport"
)

func startGateway(t *testing.T) *httptest.Server {
	t.Helper()

	prov, err := local.New(local.Config{
		Engine: "echo",
		Options: map[string]any{
			"max_tokens": 32,
		},
	})
	if err != nil {
		t.Fatalf("provider setup failed: %v", err)
	}
	t.Cleanup(func() { prov.Close() })

	srv := transport.NewServer(&transport.Handler{
		Provider:     prov,
		Store:        memory.New(100),
		DefaultModel: "facebook/opt-125m",
	}, transport.ServerConfig{
		Addr: ":0",
		Authenticator: auth.NewAPIKeyAuthenticator([]auth.RawKeyEntry{
			{Key: "sk-test-key", Subject: "tester"},
		}),
		MetricsPath: "/metrics",
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doCompletion(t *testing.T, ts *httptest.Server, key string, body map[string]any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/completions", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestGateway_CompletionRoundTrip(t *testing.T) {
	ts := startGateway(t)

	resp := doCompletion(t, ts, "sk-test-key", map[string]any{
		"model":    "facebook/opt-125m",
		"messages": []map[string]string{{"role": "user", "content": "hello out there"}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var mr api.ModelResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mr.Object != "chat.completion" {
		t.Errorf("expected chat.completion object, got %q", mr.Object)
	}
	if mr.Usage.PromptTokens == 0 || mr.Usage.CompletionTokens == 0 {
		t.Errorf("expected usage accounting, got %+v", mr.Usage)
	}

	// Retrieve the stored completion over HTTP with the same key.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/completions/"+mr.ID, nil)
	req.Header.Set("Authorization", "Bearer sk-test-key")
	getResp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("retrieval failed: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on retrieval, got %d", getResp.StatusCode)
	}
}

func TestGateway_AuthRequired(t *testing.T) {
	ts := startGateway(t)

	body := map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	}

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"no credentials", "", http.StatusUnauthorized},
		{"wrong key", "sk-wrong", http.StatusUnauthorized},
		{"valid key", "sk-test-key", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doCompletion(t, ts, tt.key, body)
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
			if tt.want == http.StatusUnauthorized {
				if resp.Header.Get("WWW-Authenticate") == "" {
					t.Error("expected WWW-Authenticate header")
				}
			}
		})
	}
}

func TestGateway_HealthAndMetricsUnauthenticated(t *testing.T) {
	ts := startGateway(t)

	// Health and metrics bypass authentication.
	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from healthz, got %d", resp.StatusCode)
	}

	// Drive one request so request metrics exist.
	c := doCompletion(t, ts, "sk-test-key", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "count me"}},
	})
	c.Body.Close()

	resp, err = ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "lokal_requests_total") {
		t.Error("expected lokal_requests_total in metrics exposition")
	}
}

func TestGateway_BatchRoundTrip(t *testing.T) {
	ts := startGateway(t)

	data, _ := json.Marshal(map[string]any{
		"model": "m",
		"messages": [][]map[string]string{
			{{"role": "user", "content": "first prompt here"}},
			{{"role": "user", "content": "second"}},
			{{"role": "user", "content": "third one"}},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/completions/batch", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer sk-test-key")

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var responses []api.ModelResponse
	if err := json.NewDecoder(resp.Body).Decode(&responses); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	for i, r := range responses {
		if r.ID == "" || len(r.Choices) == 0 {
			t.Errorf("response %d incomplete: %+v", i, r)
		}
	}
}

func TestGateway_StreamRoundTrip(t *testing.T) {
	ts := startGateway(t)

	resp := doCompletion(t, ts, "sk-test-key", map[string]any{
		"model":    "m",
		"messages": []map[string]string{{"role": "user", "content": "stream this"}},
		"stream":   true,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("expected ndjson, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(`"outputs"`)) {
		t.Errorf("expected raw engine outputs in stream, got %s", body)
	}
}
