// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maksim Melnik

// Package transport carries the push event stream and outbound frames over
// a single websocket. The reconciliation engine consumes it through the
// narrow service.Transport interface; reconnect mechanics live entirely
// here and are invisible to the engine beyond the status callback.
package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/mmelnik/playsync/internal/logger"
)

// ErrNotConnected is returned by Emit while the socket is down. Sends are
// never queued; callers decide whether the frame is worth retrying.
var ErrNotConnected = errors.New("transport not connected")

// Config configures the websocket transport.
type Config struct {
	// URL is the ws:// or wss:// endpoint of the event stream.
	URL string

	// HandshakeTimeout bounds the dial. Defaults to 10s.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds every outbound frame. Defaults to 10s.
	WriteTimeout time.Duration

	// ReconnectBase and ReconnectCap shape the exponential redial backoff.
	// Default to 1s and 30s.
	ReconnectBase time.Duration
	ReconnectCap  time.Duration
}

// MessageHandler receives every raw inbound frame.
type MessageHandler func(data []byte)

// StatusHandler is invoked with true after a successful (re)connect and
// false after the socket drops.
type StatusHandler func(connected bool)

// WSTransport is a reconnecting websocket client. One instance serves one
// session.
type WSTransport struct {
	cfg      Config
	log      *logger.Logger
	handler  MessageHandler
	onStatus StatusHandler

	mu   sync.Mutex
	conn *websocket.Conn
}

func New(cfg Config, log *logger.Logger, handler MessageHandler, onStatus StatusHandler) *WSTransport {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.ReconnectBase <= 0 {
		cfg.ReconnectBase = time.Second
	}
	if cfg.ReconnectCap <= 0 {
		cfg.ReconnectCap = 30 * time.Second
	}

	return &WSTransport{
		cfg:      cfg,
		log:      log,
		handler:  handler,
		onStatus: onStatus,
	}
}

// Run dials the endpoint and pumps inbound frames to the handler until ctx
// is cancelled, redialing with capped exponential backoff after every drop.
// It blocks; run it on its own goroutine.
func (t *WSTransport) Run(ctx context.Context) error {
	for {
		if err := t.connect(ctx); err != nil {
			return err
		}

		t.onStatus(true)
		t.readLoop(ctx)
		t.onStatus(false)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (t *WSTransport) connect(ctx context.Context) error {
	backoff := retry.WithCappedDuration(t.cfg.ReconnectCap, retry.NewExponential(t.cfg.ReconnectBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		dialer := websocket.Dialer{HandshakeTimeout: t.cfg.HandshakeTimeout}
		conn, _, err := dialer.DialContext(ctx, t.cfg.URL, nil)
		if err != nil {
			t.log.Warn().Err(err).Str("url", t.cfg.URL).Msg("dial event stream")
			return retry.RetryableError(err)
		}

		t.mu.Lock()
		t.conn = conn
		t.mu.Unlock()
		return nil
	})
}

func (t *WSTransport) readLoop(ctx context.Context) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return
	}

	// Unblock ReadMessage when the session is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.log.Warn().Err(err).Msg("event stream closed")
			t.dropConn()
			return
		}
		t.handler(data)
	}
}

// Emit marshals v as JSON and writes it as a single frame. Returns
// ErrNotConnected while the socket is down.
func (t *WSTransport) Emit(ctx context.Context, v any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return ErrNotConnected
	}

	deadline := time.Now().Add(t.cfg.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	return t.conn.WriteJSON(v)
}

// Connected reports whether the socket is currently up.
func (t *WSTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// Close tears down the socket; Run's read loop observes the closure and
// exits on ctx cancellation.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func (t *WSTransport) dropConn() {
	t.mu.Lock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.mu.Unlock()
}
