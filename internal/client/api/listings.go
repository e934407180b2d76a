package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

// ListListings fetches a page of job listings.
// category and location filter the results when non-empty.
func (c *Client) ListListings(ctx context.Context, page, limit int, category, location string) (*pkgapi.ListingsPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if category != "" {
		params.Set("category", category)
	}
	if location != "" {
		params.Set("location", location)
	}

	var resp pkgapi.ListingsPage
	err := c.doAuthed(ctx, http.MethodGet, "/listings?"+params.Encode(), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list listings request failed: %w", err)
	}
	return &resp, nil
}

// GetListing fetches a single listing by ID.
func (c *Client) GetListing(ctx context.Context, listingID string) (*pkgapi.Listing, error) {
	var listing pkgapi.Listing
	err := c.doAuthed(ctx, http.MethodGet, "/listings/"+listingID, nil, &listing)
	if err != nil {
		return nil, fmt.Errorf("get listing request failed: %w", err)
	}
	return &listing, nil
}

// CreateListing posts a new job listing (client role only, enforced server-side).
func (c *Client) CreateListing(ctx context.Context, req pkgapi.CreateListingRequest) (*pkgapi.Listing, error) {
	var listing pkgapi.Listing
	err := c.doAuthed(ctx, http.MethodPost, "/listings", req, &listing)
	if err != nil {
		return nil, fmt.Errorf("create listing request failed: %w", err)
	}
	return &listing, nil
}
