// Package ticketing talks to the backend's /api/algo endpoints: ticket
// ownership checks and Algorand node status.
package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrNoAccount = errors.New("please connect your wallet first")

type Status struct {
	Connected bool   `json:"connected"`
	AppID     uint64 `json:"app_id"`
	AssetID   uint64 `json:"asset_id"`
	LastRound uint64 `json:"last_round"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: timeout}}
}

// CheckTicket asks whether address holds the event ticket asset.
func (c *Client) CheckTicket(ctx context.Context, address string) (bool, error) {
	if address == "" {
		return false, ErrNoAccount
	}
	body, err := json.Marshal(map[string]string{"address": address})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/algo/check-ticket", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		HasTicket bool `json:"has_ticket"`
	}
	if err := c.do(req, &out); err != nil {
		return false, fmt.Errorf("check ticket: %w", err)
	}
	return out.HasTicket, nil
}

func (c *Client) Status(ctx context.Context) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/algo/status", nil)
	if err != nil {
		return Status{}, err
	}
	var st Status
	if err := c.do(req, &st); err != nil {
		return Status{}, fmt.Errorf("node status: %w", err)
	}
	return st, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Detail != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, e.Detail)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
