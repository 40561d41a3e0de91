package core

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"vibefinder/internal/types"
)

func newTestServerForRoutes(t *testing.T, mutate func(s *Server)) *Server {
	t.Helper()
	srv, err := NewServer(testConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if mutate != nil {
		mutate(srv)
	}
	srv.MountRoutes()
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestMountRoutes_HealthEndpoint(t *testing.T) {
	srv := newTestServerForRoutes(t, nil)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing from /health")
	}
}

func TestMountRoutes_UnknownRouteReturnsJSON404(t *testing.T) {
	srv := newTestServerForRoutes(t, nil)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp APIErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Error.Code != string(types.ErrCodeNotFoundRoute) || resp.Error.RequestID == "" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestMountRoutes_V1Registrars(t *testing.T) {
	srv := newTestServerForRoutes(t, func(s *Server) {
		s.V1RouteRegistrars = append(s.V1RouteRegistrars, func(r chi.Router) {
			r.Get("/suggestions", func(w http.ResponseWriter, r *http.Request) {
				Respond(w, r, http.StatusOK, []string{"a"})
			})
		})
	})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"data":["a"]}` {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestMountRoutes_RequestID(t *testing.T) {
	var seen string
	srv := newTestServerForRoutes(t, func(s *Server) {
		s.V1RouteRegistrars = []RouteRegistrar{func(r chi.Router) {
			r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
				seen = types.GetRequestID(r.Context())
			})
		}}
	})

	t.Run("generated", func(t *testing.T) {
		rec := serve(srv, httptest.NewRequest(http.MethodGet, "/v1/echo", nil))
		got := rec.Header().Get("X-Request-Id")
		if len(got) != 36 || got != seen {
			t.Errorf("header %q, context %q", got, seen)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
		req.Header.Set("X-Request-Id", "client-abc")
		rec := serve(srv, req)
		if rec.Header().Get("X-Request-Id") != "client-abc" || seen != "client-abc" {
			t.Errorf("header %q, context %q", rec.Header().Get("X-Request-Id"), seen)
		}
	})

	t.Run("oversized replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
		req.Header.Set("X-Request-Id", strings.Repeat("x", maxRequestIDLength+1))
		serve(srv, req)
		if len(seen) != 36 {
			t.Errorf("expected generated id, got %d chars", len(seen))
		}
	})
}

func TestMountRoutes_ContextDeadline(t *testing.T) {
	var remaining time.Duration
	srv := newTestServerForRoutes(t, func(s *Server) {
		s.Config.Server.RequestTimeout = 3 * time.Second
		s.V1RouteRegistrars = []RouteRegistrar{func(r chi.Router) {
			r.Get("/deadline", func(w http.ResponseWriter, r *http.Request) {
				if dl, ok := r.Context().Deadline(); ok {
					remaining = time.Until(dl)
				}
			})
		}}
	})

	serve(srv, httptest.NewRequest(http.MethodGet, "/v1/deadline", nil))
	if remaining <= 0 || remaining > 3*time.Second {
		t.Errorf("remaining = %v, want (0, 3s]", remaining)
	}
}

func TestContextTimeoutMiddleware_Cancellation(t *testing.T) {
	handler := ContextTimeoutMiddleware(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			w.WriteHeader(http.StatusGatewayTimeout)
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
}

func TestMountRoutes_RateLimitByIP(t *testing.T) {
	srv := newTestServerForRoutes(t, func(s *Server) {
		s.Config.Server.RateLimitPerMinute = 2
	})

	for i := 0; i < 2; i++ {
		if rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var resp APIErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Error.Code != string(types.ErrCodeRateLimit) {
		t.Errorf("code = %q", resp.Error.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/health", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	if rec := serve(srv, other); rec.Code != http.StatusOK {
		t.Errorf("another client should not be limited, got %d", rec.Code)
	}
}

func TestMountRoutes_RateLimitDisabled(t *testing.T) {
	srv := newTestServerForRoutes(t, nil)

	for i := 0; i < 20; i++ {
		if rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestMountRoutes_Compression(t *testing.T) {
	payload := strings.Repeat("River Walk ", 300)
	srv := newTestServerForRoutes(t, func(s *Server) {
		s.V1RouteRegistrars = []RouteRegistrar{func(r chi.Router) {
			r.Get("/big", func(w http.ResponseWriter, r *http.Request) {
				Respond(w, r, http.StatusOK, payload)
			})
		}}
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/big", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := serve(srv, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, headers: %v", rec.Header())
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, _ := io.ReadAll(zr)

	var resp struct{ Data string }
	if err := json.Unmarshal(body, &resp); err != nil || resp.Data != payload {
		t.Errorf("round trip failed: %v", err)
	}

	plain := serve(srv, httptest.NewRequest(http.MethodGet, "/v1/big", nil))
	if plain.Header().Get("Content-Encoding") != "" {
		t.Error("response compressed without Accept-Encoding")
	}
}

func TestMountRoutes_RecovererCatchesHandlerPanics(t *testing.T) {
	srv := newTestServerForRoutes(t, func(s *Server) {
		s.V1RouteRegistrars = []RouteRegistrar{func(r chi.Router) {
			r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
		}}
	})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/v1/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestMountRoutes_MetricsRecorded(t *testing.T) {
	mc := &mockMetricsCollector{}
	srv := newTestServerForRoutes(t, func(s *Server) { s.Metrics = mc })

	serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))

	calls := mc.snapshot()
	if len(calls) != 1 || calls[0].endpoint != "/health" || calls[0].status != "200" {
		t.Errorf("calls = %+v", calls)
	}
}
