// Package intervals is a small client for the intervals.icu fitness API.
package intervals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/myrjola/ridecoach/internal/calendar"
	"github.com/myrjola/ridecoach/internal/training"
)

// DefaultBaseURL is the public intervals.icu API.
const DefaultBaseURL = "https://intervals.icu"

// ErrUnexpectedStatus is returned for responses outside the 2xx range.
var ErrUnexpectedStatus = errors.New("unexpected response status")

const (
	basicAuthUser   = "API_KEY"
	maxErrorBody    = 512
	powerCurveRange = "42d"
)

// Client talks to the API on behalf of one athlete. Requests are sent once, without retries.
type Client struct {
	baseURL    string
	apiKey     string
	athleteID  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client. An empty baseURL means [DefaultBaseURL] and a nil httpClient means
// [http.DefaultClient].
func NewClient(baseURL, apiKey, athleteID string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		athleteID:  athleteID,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) athletePath(suffix string) string {
	return "/api/v1/athlete/" + url.PathEscape(c.athleteID) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(basicAuthUser, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.logger.LogAttrs(ctx, slog.LevelDebug, "intervals request",
		slog.String("method", method), slog.String("path", path), slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Activities fetches the rides started on or after oldest. Other sports are left out.
func (c *Client) Activities(ctx context.Context, oldest time.Time) ([]Activity, error) {
	var all []Activity
	query := url.Values{"oldest": {calendar.FormatDate(oldest)}}
	if err := c.do(ctx, http.MethodGet, c.athletePath("/activities"), query, nil, &all); err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	rides := make([]Activity, 0, len(all))
	for _, a := range all {
		if a.Type == rideType {
			rides = append(rides, a)
		}
	}
	return rides, nil
}

// Wellness fetches the daily wellness records from oldest onwards.
func (c *Client) Wellness(ctx context.Context, oldest time.Time) ([]Wellness, error) {
	var records []Wellness
	query := url.Values{"oldest": {calendar.FormatDate(oldest)}}
	if err := c.do(ctx, http.MethodGet, c.athletePath("/wellness"), query, nil, &records); err != nil {
		return nil, fmt.Errorf("fetch wellness: %w", err)
	}
	return records, nil
}

// WellnessOn fetches the wellness record of a single day.
func (c *Client) WellnessOn(ctx context.Context, day time.Time) (Wellness, error) {
	var w Wellness
	path := c.athletePath("/wellness/" + calendar.FormatDate(day))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &w); err != nil {
		return Wellness{}, fmt.Errorf("fetch wellness: %w", err)
	}
	return w, nil
}

// UpdateWellness stores the non-zero fields of update for day and returns the resulting record.
func (c *Client) UpdateWellness(ctx context.Context, day time.Time, update WellnessUpdate) (Wellness, error) {
	var w Wellness
	path := c.athletePath("/wellness/" + calendar.FormatDate(day))
	if err := c.do(ctx, http.MethodPut, path, nil, update, &w); err != nil {
		return Wellness{}, fmt.Errorf("update wellness: %w", err)
	}
	return w, nil
}

type powerCurvesResponse struct {
	List []training.PowerCurve `json:"list"`
}

// PowerCurve fetches the athlete's ride power curve of the last 42 days.
func (c *Client) PowerCurve(ctx context.Context) (training.PowerCurve, error) {
	var resp powerCurvesResponse
	query := url.Values{"curves": {powerCurveRange}, "type": {rideType}}
	if err := c.do(ctx, http.MethodGet, c.athletePath("/power-curves"), query, nil, &resp); err != nil {
		return training.PowerCurve{}, fmt.Errorf("fetch power curve: %w", err)
	}
	if len(resp.List) == 0 || len(resp.List[0].Seconds) == 0 {
		return training.PowerCurve{}, fmt.Errorf("fetch power curve: %w", training.ErrEmptyPowerCurve)
	}
	return resp.List[0], nil
}
