// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/atelier/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&config.APIConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func TestRecommendDecodesProducts(t *testing.T) {
	var gotBody, gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"name":"Sofa A","brand":"Acme","price":199.99,"generated_description":"Comfy","images":"['http://x/1.jpg']"}]`)
	})

	products, err := c.Recommend(context.Background(), "modern sofa")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/recommend" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody != `{"prompt":"modern sofa"}` {
		t.Errorf("body = %s", gotBody)
	}
	if len(products) != 1 || products[0].Name != "Sofa A" || products[0].Price.Value != 199.99 {
		t.Fatalf("products = %+v", products)
	}
}

func TestRecommendEmptyArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	products, err := c.Recommend(context.Background(), "x")
	if err != nil || products == nil || len(products) != 0 {
		t.Fatalf("products=%v err=%v", products, err)
	}
}

func TestRecommendStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Recommend(context.Background(), "x")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.StatusCode != 500 || se.Body != "boom" || se.IsClientError() {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestRecommendMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"an array"}`)
	})
	_, err := c.Recommend(context.Background(), "x")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestRecommendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(&config.APIConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Recommend(context.Background(), "x")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestRecommendConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(&config.APIConfig{BaseURL: url, Timeout: time.Second})
	if _, err := c.Recommend(context.Background(), "x"); !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestAnalytics(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"complete", `{"top_brands":{"brands":["A","B"],"counts":[5,3]},"top_materials":{"materials":["Oak"],"counts":[4]}}`, nil},
		{"missing materials", `{"top_brands":{"brands":[],"counts":[]}}`, ErrMalformedResponse},
		{"in-band error", `{"error":"db down"}`, ErrMalformedResponse},
		{"not json", `<html>`, ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/analytics" {
					t.Errorf("path = %s", r.URL.Path)
				}
				_, _ = io.WriteString(w, tt.body)
			})
			agg, err := c.Analytics(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if agg.TopBrands.Counts[0] != 5 || agg.TopMaterials.Materials[0] != "Oak" {
				t.Errorf("agg = %+v", agg)
			}
		})
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestReadBodyForErrorTruncates(t *testing.T) {
	big := strings.Repeat("x", maxErrorBodySize+10)
	got := readBodyForError(strings.NewReader(big))
	if !strings.HasSuffix(string(got), "... (truncated)") {
		t.Errorf("expected truncation marker")
	}
}
