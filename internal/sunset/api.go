package sunset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public sunrise-sunset.org API.
const DefaultBaseURL = "https://api.sunrise-sunset.org"

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 16
	statusOK       = "OK"
)

// APIClient queries the sunrise-sunset.org JSON API.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient returns a client with the given base URL and timeout.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Results *struct {
		Sunset string `json:"sunset"`
	} `json:"results"`
	Status string `json:"status"`
}

// Fetch requests today's data for lat/lng with formatted=0 (ISO-8601 UTC).
func (c *APIClient) Fetch(ctx context.Context, lat, lng float64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(lat, lng), nil)
	if err != nil {
		return "", fmt.Errorf("build sunset request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: http status %d", ErrTransient, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrTransient, err)
	}
	return decodeSunset(body)
}

func (c *APIClient) requestURL(lat, lng float64) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', 6, 64))
	q.Set("formatted", "0")
	return c.baseURL + "/json?" + q.Encode()
}

func decodeSunset(body []byte) (string, error) {
	var r apiResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if r.Status != "" && r.Status != statusOK {
		return "", fmt.Errorf("%w: api status %q", ErrMalformed, r.Status)
	}
	if r.Results == nil || strings.TrimSpace(r.Results.Sunset) == "" {
		return "", fmt.Errorf("%w: results.sunset missing", ErrMalformed)
	}
	return r.Results.Sunset, nil
}
