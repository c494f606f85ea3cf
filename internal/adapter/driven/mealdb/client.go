// Package mealdb implements the RecipeCatalog port against TheMealDB JSON API.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gregjones/httpcache"
	"golang.org/x/sync/singleflight"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
	"github.com/ericfisherdev/mycookbook/internal/domain/port/driven"
)

// DefaultBaseURL is the public TheMealDB v1 endpoint with the shared test key.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1/"

const (
	searchEndpoint = "search.php"
	lookupEndpoint = "lookup.php"
)

// Compile-time interface satisfaction check.
var _ driven.RecipeCatalog = (*Client)(nil)

// Client implements the driven.RecipeCatalog port over HTTP.
type Client struct {
	http    *http.Client
	baseURL *url.URL

	// lookups collapses concurrent lookups of the same recipe ID into one request.
	lookups singleflight.Group
}

// NewClient creates a catalog client with the following transport stack:
//  1. httpcache (ETag / Cache-Control aware response caching)
//  2. go-github-ratelimit (pauses requests while the upstream reports a rate limit)
//
// No request timeout is set beyond the http.Client defaults.
func NewClient(baseURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	return NewClientWithHTTPClient(rateLimitClient, baseURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// Tests use it to point the client at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing base URL %q: scheme and host are required", baseURL)
	}

	// Endpoints are resolved relative to the base, which needs a trailing slash.
	if len(u.Path) == 0 || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}

	return &Client{
		http:    httpClient,
		baseURL: u,
	}, nil
}

// SearchRecipes calls search.php?s={query}. A null meals array yields an empty slice.
func (c *Client) SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error) {
	recipes, err := c.fetch(ctx, searchEndpoint, url.Values{"s": {query}})
	if err != nil {
		return nil, fmt.Errorf("searching recipes for %q: %w", query, err)
	}
	return recipes, nil
}

// LookupRecipe calls lookup.php?i={id}. A null meals array yields an empty slice.
// Concurrent lookups of one ID share a request that outlives any single
// caller; each caller still stops waiting when its own ctx is done.
func (c *Client) LookupRecipe(ctx context.Context, id string) ([]model.Recipe, error) {
	flight := context.WithoutCancel(ctx)
	ch := c.lookups.DoChan(id, func() (any, error) {
		return c.fetch(flight, lookupEndpoint, url.Values{"i": {id}})
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("looking up recipe %s: %w", id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("looking up recipe %s: %w", id, res.Err)
		}
		recipes := res.Val.([]model.Recipe)
		if res.Shared {
			recipes = slices.Clone(recipes)
		}
		return recipes, nil
	}
}

// fetch performs a GET against endpoint and decodes the meals envelope.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]model.Recipe, error) {
	start := time.Now()

	u := c.baseURL.ResolveReference(&url.URL{Path: endpoint, RawQuery: params.Encode()})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	var body recipeListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}

	recipes := mapRecipes(body.Meals)

	slog.Debug("mealdb api call",
		"endpoint", endpoint,
		"count", len(recipes),
		"from_cache", resp.Header.Get(httpcache.XFromCache) != "",
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return recipes, nil
}
