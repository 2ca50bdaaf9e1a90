// Package client talks to the ledger REST API and rebuilds the rendered view after every call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"memorizer/internal/core"
)

const (
	pathShifts   = "/api/shifts"
	pathSongs    = "/api/songs"
	pathEarnings = "/api/stats/earnings"
	pathPayout   = "/api/stats/payout"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with its own http.Client bounded by timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// NewShift is the create-shift request body; cost and paid are assigned by the server.
type NewShift struct {
	WorkerName string     `json:"workerName"`
	Date       core.Date  `json:"date"`
	StartTime  core.Clock `json:"startTime"`
	EndTime    core.Clock `json:"endTime"`
}

type NewSong struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	AddedBy string `json:"addedBy"`
}

func (c *Client) ListShifts(ctx context.Context) ([]core.Shift, error) {
	var shifts []core.Shift
	if err := c.do(ctx, http.MethodGet, pathShifts, nil, &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

func (c *Client) CreateShift(ctx context.Context, in NewShift) (core.Shift, error) {
	var created core.Shift
	if err := c.do(ctx, http.MethodPost, pathShifts, in, &created); err != nil {
		return core.Shift{}, err
	}
	return created, nil
}

func (c *Client) DeleteShift(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pathShifts+"/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ListSongs(ctx context.Context) ([]core.Song, error) {
	var songs []core.Song
	if err := c.do(ctx, http.MethodGet, pathSongs, nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

func (c *Client) CreateSong(ctx context.Context, in NewSong) (core.Song, error) {
	var created core.Song
	if err := c.do(ctx, http.MethodPost, pathSongs, in, &created); err != nil {
		return core.Song{}, err
	}
	return created, nil
}

func (c *Client) DeleteSong(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pathSongs+"/"+strconv.FormatInt(id, 10), nil, nil)
}

// earningsPayload also accepts the older {totalEarnings} shape.
type earningsPayload struct {
	LifetimeEarnings *core.Rubles `json:"lifetimeEarnings"`
	CurrentBalance   *core.Rubles `json:"currentBalance"`
	TotalEarnings    *core.Rubles `json:"totalEarnings"`
}

// Earnings returns the stats as sent: the client never derives amounts.
// A bare {totalEarnings} payload fills both values.
func (c *Client) Earnings(ctx context.Context) (core.EarningsStats, error) {
	var p earningsPayload
	if err := c.do(ctx, http.MethodGet, pathEarnings, nil, &p); err != nil {
		return core.EarningsStats{}, err
	}

	var stats core.EarningsStats
	switch {
	case p.LifetimeEarnings != nil:
		stats.LifetimeEarnings = *p.LifetimeEarnings
	case p.TotalEarnings != nil:
		stats.LifetimeEarnings = *p.TotalEarnings
	}
	switch {
	case p.CurrentBalance != nil:
		stats.CurrentBalance = *p.CurrentBalance
	case p.TotalEarnings != nil:
		stats.CurrentBalance = *p.TotalEarnings
	}
	if err := stats.Validate(); err != nil {
		return core.EarningsStats{}, fmt.Errorf("%s %s: %w", http.MethodGet, pathEarnings, err)
	}
	return stats, nil
}

// Payout posts with no body.
func (c *Client) Payout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathPayout, nil, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends one request and decodes a 2xx body into out when out is non-nil.
// Nothing is retried.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	endpoint := method + " " + path

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(endpoint, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}
