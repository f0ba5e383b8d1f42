// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package pages

import (
	"context"
	"time"

	"github.com/tomtom215/atelier/internal/cache"
	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/metrics"
	"github.com/tomtom215/atelier/internal/models"
	"github.com/tomtom215/atelier/internal/upstream"
)

const (
	// AnalyticsError is the banner shown when the dashboard cannot load.
	AnalyticsError = "Failed to fetch analytics data."

	BrandChartTitle    = "Brand Distribution"
	MaterialChartTitle = "Material Distribution"

	analyticsCacheKey = "analytics:aggregate"
)

// Bar is one horizontal bar. Percent is the width relative to the largest
// count in the same chart.
type Bar struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Chart is a titled bar chart.
type Chart struct {
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
}

// Summary backs the three cards above the charts.
type Summary struct {
	TotalDataPoints int `json:"total_data_points"`
	Categories      int `json:"categories"`
	TopCount        int `json:"top_count"`
}

// AnalyticsPage is the dashboard view. When Error is set the charts and
// summary are empty.
type AnalyticsPage struct {
	Error         string              `json:"error,omitempty"`
	Brands        []models.NamedCount `json:"brands"`
	Materials     []models.NamedCount `json:"materials"`
	BrandChart    Chart               `json:"brand_chart"`
	MaterialChart Chart               `json:"material_chart"`
	Summary       Summary             `json:"summary"`
	Cached        bool                `json:"cached"`
}

// Analytics loads the dashboard. Successful aggregates are reused for the
// cache TTL; failures always go back to the upstream on the next load.
type Analytics struct {
	api   upstream.API
	cache *cache.Cache[*models.AnalyticsAggregate]
}

// NewAnalytics creates the controller. c may be nil to disable caching.
func NewAnalytics(api upstream.API, c *cache.Cache[*models.AnalyticsAggregate]) *Analytics {
	return &Analytics{api: api, cache: c}
}

// CacheHitRate is the analytics cache hit percentage. ok is false when
// caching is disabled.
func (a *Analytics) CacheHitRate() (rate float64, ok bool) {
	if a.cache == nil {
		return 0, false
	}
	return a.cache.HitRate(), true
}

// Load fetches the aggregate once and builds the page. It never returns an
// error; failures set AnalyticsPage.Error.
func (a *Analytics) Load(ctx context.Context) AnalyticsPage {
	page, err := a.Fetch(ctx)
	if err != nil {
		return AnalyticsPage{Error: AnalyticsError}
	}
	return page
}

// Fetch is Load for callers that need the cause of a failure.
func (a *Analytics) Fetch(ctx context.Context) (AnalyticsPage, error) {
	agg, cached, err := a.fetch(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Analytics request failed")
		return AnalyticsPage{Error: AnalyticsError}, err
	}
	page := BuildAnalyticsPage(agg)
	page.Cached = cached
	return page, nil
}

func (a *Analytics) fetch(ctx context.Context) (*models.AnalyticsAggregate, bool, error) {
	if a.cache != nil {
		if agg, ok := a.cache.Get(analyticsCacheKey); ok {
			metrics.AnalyticsCacheHits.Inc()
			return agg, true, nil
		}
		metrics.AnalyticsCacheMisses.Inc()
	}

	start := time.Now()
	agg, err := a.api.Analytics(ctx)
	if err != nil {
		return nil, false, err
	}
	logging.Ctx(ctx).Debug().Dur("duration", time.Since(start)).Msg("Analytics aggregate fetched")

	if a.cache != nil {
		a.cache.Set(analyticsCacheKey, agg)
	}
	return agg, false, nil
}

// BuildAnalyticsPage derives the dashboard from a validated aggregate.
func BuildAnalyticsPage(agg *models.AnalyticsAggregate) AnalyticsPage {
	var page AnalyticsPage
	if agg.TopBrands != nil {
		page.Brands = Zip(agg.TopBrands.Brands, agg.TopBrands.Counts)
	}
	if agg.TopMaterials != nil {
		page.Materials = Zip(agg.TopMaterials.Materials, agg.TopMaterials.Counts)
	}
	page.BrandChart = NewChart(BrandChartTitle, page.Brands)
	page.MaterialChart = NewChart(MaterialChartTitle, page.Materials)
	page.Summary = Summarize(page.Brands, page.Materials)
	return page
}

// Zip pairs names with counts by position, truncating to the shorter list.
func Zip(names []string, counts []int) []models.NamedCount {
	n := min(len(names), len(counts))
	out := make([]models.NamedCount, n)
	for i := 0; i < n; i++ {
		out[i] = models.NamedCount{Name: names[i], Count: counts[i]}
	}
	return out
}

// Summarize computes the dashboard summary over both series.
func Summarize(brands, materials []models.NamedCount) Summary {
	s := Summary{Categories: 2}
	for _, series := range [][]models.NamedCount{brands, materials} {
		for _, nc := range series {
			s.TotalDataPoints += nc.Count
			if nc.Count > s.TopCount {
				s.TopCount = nc.Count
			}
		}
	}
	return s
}

// NewChart scales each bar against the chart's largest count. Non-positive
// counts get a zero-width bar.
func NewChart(title string, data []models.NamedCount) Chart {
	top := 0
	for _, nc := range data {
		top = max(top, nc.Count)
	}
	bars := make([]Bar, len(data))
	for i, nc := range data {
		bars[i] = Bar{Name: nc.Name, Count: nc.Count}
		if top > 0 && nc.Count > 0 {
			bars[i].Percent = float64(nc.Count) / float64(top) * 100
		}
	}
	return Chart{Title: title, Bars: bars}
}
