// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maksim Melnik

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ClientJSONConfig mirrors [ClientConfig] with JSON tags and string-friendly
// duration fields for the optional config file.
type ClientJSONConfig struct {
	Server struct {
		BaseURL        string   `json:"base_url"`
		SocketURL      string   `json:"socket_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Sync struct {
		PollInterval Duration `json:"poll_interval"`
		StaleAfter   Duration `json:"stale_after"`
		ShieldWindow Duration `json:"shield_window"`
		GapThreshold uint64   `json:"gap_threshold"`
		RetryDelay   Duration `json:"retry_delay"`
	} `json:"sync,omitempty"`

	Cache struct {
		Path string `json:"path"`
	} `json:"cache,omitempty"`
}

func parseJSON(jsonFilePath string) (*ClientConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg ClientJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &ClientConfig{
		Server: Server{
			BaseURL:        jsonCfg.Server.BaseURL,
			SocketURL:      jsonCfg.Server.SocketURL,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Sync: Sync{
			PollInterval: time.Duration(jsonCfg.Sync.PollInterval),
			StaleAfter:   time.Duration(jsonCfg.Sync.StaleAfter),
			ShieldWindow: time.Duration(jsonCfg.Sync.ShieldWindow),
			GapThreshold: jsonCfg.Sync.GapThreshold,
			RetryDelay:   time.Duration(jsonCfg.Sync.RetryDelay),
		},
		Cache: Cache{
			Path: jsonCfg.Cache.Path,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s" as well as bare nanosecond
// numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
}
