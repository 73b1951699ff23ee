// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maksim Melnik

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmelnik/playsync/models"
)

// HTTPClientConfig configures the pull client.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpPullClient struct {
	client *resty.Client
}

// NewHTTPPullClient builds a PullClient over the server's HTTP API.
func NewHTTPPullClient(cfg HTTPClientConfig) PullClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpPullClient{client: cli}
}

func (h *httpPullClient) PlayerStatus(ctx context.Context) (models.PlayerStatus, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/player/status")
	if err != nil {
		return models.PlayerStatus{}, fmt.Errorf("player status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PlayerStatus{}, err
	}

	var st models.PlayerStatus
	if err = json.Unmarshal(resp.Body(), &st); err != nil {
		return models.PlayerStatus{}, fmt.Errorf("decode player status response: %w", err)
	}

	return st, nil
}

func (h *httpPullClient) Playlist(ctx context.Context, id string) (models.Playlist, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/api/playlists/{id}")
	if err != nil {
		return models.Playlist{}, fmt.Errorf("playlist request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Playlist{}, err
	}

	var p models.Playlist
	if err = json.Unmarshal(resp.Body(), &p); err != nil {
		return models.Playlist{}, fmt.Errorf("decode playlist response: %w", err)
	}
	p.Normalize()

	return p, nil
}

func (h *httpPullClient) Playlists(ctx context.Context) ([]models.Playlist, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/playlists")
	if err != nil {
		return nil, fmt.Errorf("playlists request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var list []models.Playlist
	if err = json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("decode playlists response: %w", err)
	}
	for i := range list {
		list[i].Normalize()
	}

	return list, nil
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	if code == http.StatusNotFound {
		return ErrNotFound
	}
	if code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d", ErrUnavailable, code)
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}
	return fmt.Errorf("http %d: %s", code, body)
}
