package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Register creates an account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/register", req)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activate activates the account the key was issued for.
func (c *SDKClient) Activate(ctx context.Context, key string) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/activate?key="+url.QueryEscape(key), nil, nil)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchListings returns one page of listings matching q.
func (c *SDKClient) SearchListings(ctx context.Context, q ListingQuery) (*ListingPage, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/listings"+q.encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	total, _ := strconv.ParseInt(resp.Header.Get("X-Total-Count"), 10, 64)
	links := parseLinkHeader(resp.Header.Get("Link"))

	var items []ListingResponse
	if err := decodeJSON(resp, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return &ListingPage{Items: items, Total: total, Links: links}, nil
}

// GetListing fetches a single listing.
func (c *SDKClient) GetListing(ctx context.Context, id string) (*ListingResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/listings/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var out ListingResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (q ListingQuery) encode() string {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("q", q.Keyword)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.MinPrice != nil {
		v.Set("minPrice", strconv.FormatInt(*q.MinPrice, 10))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatInt(*q.MaxPrice, 10))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// parseLinkHeader reads `<url>; rel="name"` entries separated by commas.
func parseLinkHeader(h string) map[string]string {
	links := make(map[string]string)
	for _, part := range strings.Split(h, ",") {
		segs := strings.Split(strings.TrimSpace(part), ";")
		if len(segs) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(segs[0]), "<>")
		for _, attr := range segs[1:] {
			attr = strings.TrimSpace(attr)
			if rel, ok := strings.CutPrefix(attr, "rel="); ok {
				links[strings.Trim(rel, `"`)] = target
			}
		}
	}
	return links
}
