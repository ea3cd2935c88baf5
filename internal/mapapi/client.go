// Package mapapi fetches map metadata, points of interest, and the map image
// from the remote map API.
package mapapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	bgimage "mapscale/internal/image"
	"mapscale/internal/mark"
)

// ErrBadStatus is returned when the API answers with a non-success status.
var ErrBadStatus = errors.New("unexpected status")

// maxImageBytes bounds image downloads.
const maxImageBytes = 64 << 20

// Images holds the map image URLs.
type Images struct {
	Blank string `json:"blank"`
	POIs  string `json:"pois"`
}

// MapInfo is the map payload: image URLs plus the named points of interest.
type MapInfo struct {
	Images Images      `json:"images"`
	POIs   []mark.Mark `json:"pois"`
}

type mapResponse struct {
	Status int     `json:"status"`
	Error  string  `json:"error"`
	Data   MapInfo `json:"data"`
}

// Client handles communication with the map API.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey, language string, timeout time.Duration) *Client {
	if language == "" {
		language = "en"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Map fetches map metadata and points of interest.
func (c *Client) Map(ctx context.Context) (*MapInfo, error) {
	endpoint := c.baseURL + "/v1/map?" + url.Values{"language": {c.language}}.Encode()

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("map request failed: %w", err)
	}
	defer resp.Body.Close()

	var body mapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode map response: %w", err)
	}
	if body.Status != http.StatusOK {
		return nil, fmt.Errorf("map response: %w %d: %s", ErrBadStatus, body.Status, body.Error)
	}
	return &body.Data, nil
}

// Marks fetches the points of interest as a mark store.
func (c *Client) Marks(ctx context.Context) (*mark.Store, error) {
	info, err := c.Map(ctx)
	if err != nil {
		return nil, err
	}
	return mark.NewStore(info.POIs)
}

// Image downloads and decodes the image at imageURL.
func (c *Client) Image(ctx context.Context, imageURL string) (*bgimage.Background, error) {
	resp, err := c.get(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	bg, err := bgimage.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	bg.Path = imageURL
	return bg, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w %d", ErrBadStatus, resp.StatusCode)
	}
	return resp, nil
}
