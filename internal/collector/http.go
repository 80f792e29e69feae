package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPSource reads the fare calendar from a JSON endpoint.
type HTTPSource struct {
	*LoaderSource
	BaseURL     string
	APIKey      string
	Origin      string
	Destination string
	Client      *http.Client
}

// NewHTTPSource creates a source with optional proxy support.
func NewHTTPSource(baseURL, apiKey, origin, destination, proxyURL string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	s := &HTTPSource{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Origin:      origin,
		Destination: destination,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
	s.LoaderSource = NewLoaderSource("http", s.fetchCalendar)
	return s
}

func (s *HTTPSource) fetchCalendar(ctx context.Context) (*Calendar, error) {
	q := url.Values{}
	if s.Origin != "" {
		q.Set("from", s.Origin)
	}
	if s.Destination != "" {
		q.Set("to", s.Destination)
	}
	endpoint := fmt.Sprintf("%s/api/v1/calendar", s.BaseURL)
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch calendar: status %d, body: %s", resp.StatusCode, string(body))
	}
	var cal Calendar
	if err := json.NewDecoder(resp.Body).Decode(&cal); err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	return &cal, nil
}
