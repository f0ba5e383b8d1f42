// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/atelier/internal/cache"
	"github.com/tomtom215/atelier/internal/config"
	"github.com/tomtom215/atelier/internal/models"
	"github.com/tomtom215/atelier/internal/pages"
	"github.com/tomtom215/atelier/internal/session"
	"github.com/tomtom215/atelier/internal/upstream"
	"github.com/tomtom215/atelier/internal/validation"
)

type envelope[T any] struct {
	Status   string           `json:"status"`
	Data     T                `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPIRecommend(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		api      *stubAPI
		wantCode int
		wantErr  string
	}{
		{
			name:     "success",
			body:     `{"prompt": "modern sofa"}`,
			api:      &stubAPI{products: []models.Product{sofa()}},
			wantCode: http.StatusOK,
		},
		{
			name:     "blank prompt",
			body:     `{"prompt": "   "}`,
			api:      &stubAPI{},
			wantCode: http.StatusBadRequest,
			wantErr:  validation.CodeValidation,
		},
		{
			name:     "missing prompt",
			body:     `{}`,
			api:      &stubAPI{},
			wantCode: http.StatusBadRequest,
			wantErr:  validation.CodeValidation,
		},
		{
			name:     "prompt too long",
			body:     fmt.Sprintf(`{"prompt": %q}`, strings.Repeat("a", 501)),
			api:      &stubAPI{},
			wantCode: http.StatusBadRequest,
			wantErr:  validation.CodeValidation,
		},
		{
			name:     "not json",
			body:     `prompt=sofa`,
			api:      &stubAPI{},
			wantCode: http.StatusBadRequest,
			wantErr:  CodeInvalidRequest,
		},
		{
			name:     "unknown field",
			body:     `{"prompt": "sofa", "limit": 5}`,
			api:      &stubAPI{},
			wantCode: http.StatusBadRequest,
			wantErr:  CodeInvalidRequest,
		},
		{
			name:     "upstream status error",
			body:     `{"prompt": "lamp"}`,
			api:      &stubAPI{recommendErr: &upstream.StatusError{Endpoint: "recommend", StatusCode: 500}},
			wantCode: http.StatusBadGateway,
			wantErr:  CodeExternalService,
		},
		{
			name:     "upstream transport error",
			body:     `{"prompt": "lamp"}`,
			api:      &stubAPI{recommendErr: fmt.Errorf("%w: connection refused", upstream.ErrTransport)},
			wantCode: http.StatusBadGateway,
			wantErr:  CodeExternalService,
		},
		{
			name:     "breaker open",
			body:     `{"prompt": "lamp"}`,
			api:      &stubAPI{recommendErr: fmt.Errorf("%w: circuit open", upstream.ErrUnavailable)},
			wantCode: http.StatusServiceUnavailable,
			wantErr:  CodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.api, nil, nil)
			rec := serve(env.router, http.MethodPost, "/api/v1/recommend", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			got := decodeEnvelope[pages.RecommendationPage](t, rec)

			if tt.wantErr != "" {
				if got.Status != "error" || got.Error == nil || got.Error.Code != tt.wantErr {
					t.Errorf("envelope = %+v", got)
				}
				return
			}
			if got.Status != "success" || got.Error != nil {
				t.Fatalf("envelope = %+v", got)
			}
			page := got.Data
			if page.Prompt != "modern sofa" || page.Loading || len(page.Cards) != 1 {
				t.Fatalf("page = %+v", page)
			}
			if page.Cards[0].PriceLabel != "$199.99" || page.Cards[0].Image != "http://x/1.jpg" {
				t.Errorf("card = %+v", page.Cards[0])
			}
		})
	}
}

func TestAPIRecommendBlankDoesNotCallUpstream(t *testing.T) {
	api := &stubAPI{}
	env := newTestEnv(t, api, nil, nil)
	serve(env.router, http.MethodPost, "/api/v1/recommend", `{"prompt": ""}`)
	if len(api.prompts) != 0 {
		t.Errorf("upstream called with %q", api.prompts)
	}
}

func TestAPIRecommendationsEmptySession(t *testing.T) {
	env := newTestEnv(t, &stubAPI{}, nil, nil)
	rec := serve(env.router, http.MethodGet, "/api/v1/recommendations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeEnvelope[pages.RecommendationPage](t, rec)
	if got.Data.Loading || len(got.Data.Cards) != 0 || got.Data.Error != "" {
		t.Errorf("page = %+v", got.Data)
	}
}

func TestAPIRecommendationsFollowSession(t *testing.T) {
	env := newTestEnv(t, &stubAPI{products: []models.Product{sofa()}}, nil, nil)

	rec := serve(env.router, http.MethodPost, "/api/v1/recommend", `{"prompt": "sofa"}`)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	got := decodeEnvelope[pages.RecommendationPage](t, rec)
	if got.Data.Prompt != "sofa" || len(got.Data.Results) != 1 {
		t.Errorf("page = %+v", got.Data)
	}
}

func TestAPIAnalytics(t *testing.T) {
	api := &stubAPI{agg: analyticsAggregate()}
	c := cache.New[*models.AnalyticsAggregate](time.Minute, 0)
	defer c.Stop()
	env := newTestEnv(t, api, nil, pages.NewAnalytics(api, c))

	for i, wantCached := range []bool{false, true} {
		rec := serve(env.router, http.MethodGet, "/api/v1/analytics", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
		got := decodeEnvelope[pages.AnalyticsPage](t, rec)
		if got.Metadata.Cached != wantCached {
			t.Errorf("request %d: cached = %v", i, got.Metadata.Cached)
		}
		s := got.Data.Summary
		if s.TotalDataPoints != 22 || s.Categories != 2 || s.TopCount != 10 {
			t.Errorf("summary = %+v", s)
		}
		if len(got.Data.Brands) != 2 || got.Data.BrandChart.Title != pages.BrandChartTitle {
			t.Errorf("brands = %+v", got.Data.Brands)
		}
	}
	if api.analytics != 1 {
		t.Errorf("upstream analytics calls = %d, want 1", api.analytics)
	}
}

func TestAPIAnalyticsErrors(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantErr  string
	}{
		{fmt.Errorf("%w: missing top_brands", upstream.ErrMalformedResponse), http.StatusBadGateway, CodeExternalService},
		{&upstream.StatusError{Endpoint: "analytics", StatusCode: 404}, http.StatusBadGateway, CodeExternalService},
		{fmt.Errorf("analytics: %w", upstream.ErrUnavailable), http.StatusServiceUnavailable, CodeUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.wantErr, func(t *testing.T) {
			env := newTestEnv(t, &stubAPI{analyticsErr: tt.err}, nil, nil)
			rec := serve(env.router, http.MethodGet, "/api/v1/analytics", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			got := decodeEnvelope[pages.AnalyticsPage](t, rec)
			if got.Error == nil || got.Error.Code != tt.wantErr {
				t.Errorf("error = %+v", got.Error)
			}
			if strings.Contains(rec.Body.String(), tt.err.Error()) {
				t.Error("upstream error detail leaked to the client")
			}
		})
	}
}

func TestAPIRequestIDInMetadata(t *testing.T) {
	env := newTestEnv(t, &stubAPI{}, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	req.Header.Set("X-Request-ID", "req-abc.123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	got := decodeEnvelope[pages.RecommendationPage](t, rec)
	if got.Metadata.RequestID != "req-abc.123" || rec.Header().Get("X-Request-ID") != "req-abc.123" {
		t.Errorf("request id = %q / %q", got.Metadata.RequestID, rec.Header().Get("X-Request-ID"))
	}
	if rec.Header().Get("ETag") == "" || rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("headers = %v", rec.Header())
	}
}

func TestAPIRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{RateLimitReqs: 2, RateLimitWindow: time.Minute}
	env := newTestEnv(t, &stubAPI{}, cfg, nil)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = serve(env.router, http.MethodGet, "/api/v1/recommendations", "")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", last.Code)
	}
	got := decodeEnvelope[pages.RecommendationPage](t, last)
	if got.Error == nil || got.Error.Code != CodeRateLimited {
		t.Errorf("error = %+v", got.Error)
	}

	// Page GETs are not limited.
	for i := 0; i < 3; i++ {
		if rec := serve(env.router, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
			t.Fatalf("GET / status = %d", rec.Code)
		}
	}
}

func TestAPICORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"https://shop.example"}
	env := newTestEnv(t, &stubAPI{}, cfg, nil)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://shop.example", "https://shop.example"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommend", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name        string
		client      func(*stubAPI) upstream.API
		pingErr     error
		wantStatus  string
		wantCircuit string
	}{
		{"plain client", func(s *stubAPI) upstream.API { return s }, nil, "healthy", "disabled"},
		{"behind breaker", func(s *stubAPI) upstream.API {
			return upstream.WrapWithBreaker(s, upstream.DefaultBreakerSettings())
		}, nil, "healthy", "closed"},
		{"upstream down", func(s *stubAPI) upstream.API { return s }, errors.New("refused"), "degraded", "disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAPI{pingErr: tt.pingErr}
			cfg := testConfig()
			store := session.NewMemoryStore(time.Hour)
			defer store.Close()
			h, err := NewHandler(Deps{Config: cfg, Client: tt.client(stub), Sessions: store, Version: "1.2.3"})
			if err != nil {
				t.Fatal(err)
			}
			rec := serve(NewRouter(h, nil).SetupChi(), http.MethodGet, "/health", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			got := decodeEnvelope[models.HealthStatus](t, rec).Data
			if got.Status != tt.wantStatus || got.CircuitState != tt.wantCircuit {
				t.Errorf("health = %+v", got)
			}
			if got.Version != "1.2.3" || got.SessionBackend != "memory" || got.UpstreamConnected != (tt.pingErr == nil) {
				t.Errorf("health = %+v", got)
			}
		})
	}
}

func TestHealthReportsSessionsAndCache(t *testing.T) {
	api := &stubAPI{agg: analyticsAggregate()}
	c := cache.New[*models.AnalyticsAggregate](time.Minute, 0)
	defer c.Stop()
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	analytics := pages.NewAnalytics(api, c)

	h, err := NewHandler(Deps{Config: testConfig(), Client: api, Sessions: store, Analytics: analytics})
	if err != nil {
		t.Fatal(err)
	}
	router := NewRouter(h, nil).SetupChi()

	rec := serve(router, http.MethodGet, "/health", "")
	got := decodeEnvelope[models.HealthStatus](t, rec).Data
	if got.ActiveSessions == nil || *got.ActiveSessions != 0 {
		t.Errorf("active sessions = %v, want 0", got.ActiveSessions)
	}
	if got.CacheHitRate == nil || *got.CacheHitRate != 0 {
		t.Errorf("cache hit rate = %v, want 0", got.CacheHitRate)
	}

	if _, err := store.Update(t.Context(), "a", func(*session.State) error { return nil }); err != nil {
		t.Fatal(err)
	}
	serve(router, http.MethodGet, "/api/v1/analytics", "")
	serve(router, http.MethodGet, "/api/v1/analytics", "")

	rec = serve(router, http.MethodGet, "/health", "")
	got = decodeEnvelope[models.HealthStatus](t, rec).Data
	if got.ActiveSessions == nil || *got.ActiveSessions != 1 {
		t.Errorf("active sessions = %v, want 1", got.ActiveSessions)
	}
	if got.CacheHitRate == nil || *got.CacheHitRate != 50 {
		t.Errorf("cache hit rate = %v, want 50", got.CacheHitRate)
	}
}

func TestHealthOmitsDisabledCache(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	h, err := NewHandler(Deps{Config: testConfig(), Client: &stubAPI{}, Sessions: store})
	if err != nil {
		t.Fatal(err)
	}
	rec := serve(NewRouter(h, nil).SetupChi(), http.MethodGet, "/health", "")
	if strings.Contains(rec.Body.String(), "analytics_cache_hit_rate") {
		t.Errorf("hit rate reported with caching disabled: %s", rec.Body.String())
	}
}
