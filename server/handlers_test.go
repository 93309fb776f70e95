package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/ByLCY/papyrus-doc/config"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{Width: 80, TabWidth: 4, PDFFontSize: 10, MaxBodyBytes: 1 << 16, LogLevel: "info"}
	logger := log.New()
	logger.SetOutput(io.Discard)
	return NewRouter(cfg, logger)
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func intPtr(v int) *int { return &v }

func TestHandleRender(t *testing.T) {
	h := newTestHandler(t)
	rec := postJSON(t, h, "/render", ReqRender{
		Source: `"f(" + params(...args) + ")"`,
		Width:  intPtr(8),
		Data:   map[string]interface{}{"args": []interface{}{"alpha", "beta"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var res ResRender
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Text != "f(alpha,\n  beta)" || res.Width != 8 || res.TabWidth != 4 || res.Lines != 2 {
		t.Fatalf("unexpected response: %+v", res)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("response should carry a request id")
	}
}

func TestHandleRenderDefaultsFromConfig(t *testing.T) {
	h := newTestHandler(t)
	rec := postJSON(t, h, "/render", ReqRender{Source: `indent(nl + "x")`, TabWidth: intPtr(2)})
	var res ResRender
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Text != "\n  x" || res.Width != 80 {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestHandleRenderBadRequests(t *testing.T) {
	h := newTestHandler(t)
	cases := []struct {
		name string
		body interface{}
		want int
	}{
		{"missing source", ReqRender{}, http.StatusBadRequest},
		{"parse error", ReqRender{Source: `params(`}, http.StatusBadRequest},
		{"malformed text", ReqRender{Source: `"a\nb"`}, http.StatusBadRequest},
		{"negative width", ReqRender{Source: `"a"`, Width: intPtr(-1)}, http.StatusBadRequest},
		{"zero tab width", ReqRender{Source: `"a"`, TabWidth: intPtr(0)}, http.StatusBadRequest},
		{"too large", ReqRender{Source: `"` + strings.Repeat("x", 1<<17) + `"`}, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		rec := postJSON(t, h, "/render", tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: status %d, want %d (%s)", tc.name, rec.Code, tc.want, rec.Body.String())
		}
		var res ResError
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || res.Error == "" {
			t.Fatalf("%s: expected JSON error body, got %q", tc.name, rec.Body.String())
		}
	}
}

func TestHandleRenderLimitsChoicePoints(t *testing.T) {
	cfg := &config.Config{Width: 80, TabWidth: 4, PDFFontSize: 10, MaxBodyBytes: 1 << 16, MaxChoices: 4, LogLevel: "info"}
	logger := log.New()
	logger.SetOutput(io.Discard)
	h := NewRouter(cfg, logger)

	groups := strings.TrimSuffix(strings.Repeat(`group("ab" + nl + "cd") + `, 5), " + ")
	rec := postJSON(t, h, "/render", ReqRender{Source: groups, Width: intPtr(0)})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 above the limit, got %d: %s", rec.Code, rec.Body.String())
	}
	var res ResError
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || !strings.Contains(res.Error, "more than 4 choice points") {
		t.Fatalf("unexpected error body %q", rec.Body.String())
	}

	within := strings.TrimSuffix(strings.Repeat(`group("ab" + nl + "cd") + `, 4), " + ")
	if rec := postJSON(t, h, "/render", ReqRender{Source: within, Width: intPtr(0)}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 at the limit, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleRenderRequiresJSONContentType(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{"source":"\"a\""}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestHandleRenderPDF(t *testing.T) {
	h := newTestHandler(t)
	rec := postJSON(t, h, "/render.pdf", ReqRender{Source: `group("hello" + nl + "world")`})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected PDF body")
	}
}

func TestHealthReady(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestIDIsKeptWhenValid(t *testing.T) {
	const id = "7f8c2b8e-3a53-4d43-9a67-3c1b0e2d9f10"
	var seen string
	h := UseRequestID(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, id)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != id {
		t.Fatalf("expected %s, got %s", id, seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "not-a-uuid" || seen == "" {
		t.Fatalf("invalid ids should be replaced, got %q", seen)
	}
	if RequestID(context.Background()) != "" {
		t.Fatalf("empty context should have no request id")
	}
}

func TestServerShutsDownOnCancel(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)
	s := NewServer(&config.Config{Host: "127.0.0.1", Port: 0, MaxBodyBytes: 1024, TabWidth: 4}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
