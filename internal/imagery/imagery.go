// Package imagery wraps the external street-view capability. The game never
// fails a round on imagery problems: callers fall back to Placeholder when
// a panorama cannot be fetched.
package imagery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Request describes one ground-level view of a coordinate.
type Request struct {
	Lat     float64
	Lng     float64
	Heading int // 0..359 degrees
	Pitch   int // -90..90 degrees
	FOV     int // field of view, degrees
}

// Source serves panorama images for coordinates.
type Source interface {
	GroundView(ctx context.Context, req Request) ([]byte, error)
}

// Placeholder is shown when the street-view capability cannot serve a
// panorama for the round's target.
var Placeholder = []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="640" height="480"><rect fill="#334155" width="640" height="480"/><text x="50%" y="50%" font-size="24" fill="#94a3b8" text-anchor="middle" dy=".3em">Street view unavailable</text></svg>`)

// Client fetches panoramas from a street-view proxy endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) GroundView(ctx context.Context, req Request) ([]byte, error) {
	q := url.Values{}
	q.Set("size", "640x480")
	q.Set("location", fmt.Sprintf("%f,%f", req.Lat, req.Lng))
	q.Set("heading", fmt.Sprint(req.Heading))
	q.Set("pitch", fmt.Sprint(req.Pitch))
	q.Set("fov", fmt.Sprint(req.FOV))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building street-view request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetching street view: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("street view returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
