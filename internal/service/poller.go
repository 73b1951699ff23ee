// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maksim Melnik

package service

import (
	"context"
	"sync"
	"time"

	"github.com/mmelnik/playsync/internal/adapter"
	"github.com/mmelnik/playsync/internal/logger"
	"github.com/mmelnik/playsync/models"
)

// Poller is the pull-based fallback for player status. It wakes on a
// ticker while the push session is up and hits the server only when the
// engine judges the pushed status stale. The composition root stops it on
// disconnect and restarts it on reconnect, so no pull is ever issued
// against a server the client cannot reach. The poller is idle until Start
// is called.
type Poller struct {
	engine    statusEngine
	pull      adapter.PullClient
	transport Transport
	interval  time.Duration
	log       *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type statusEngine interface {
	StatusLooksStale() bool
	ApplyPulledStatus(st models.PlayerStatus)
}

func NewPoller(engine statusEngine, pull adapter.PullClient, transport Transport, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		engine:    engine,
		pull:      pull,
		transport: transport,
		interval:  interval,
		log:       log,
	}
}

// Start stops any previously running poller, then launches a background
// goroutine that considers a pull every interval. The goroutine exits when
// ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				p.pollOnce(jobCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until it has
// fully exited. Safe to call when the poller is not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// pollOnce pulls the player status when the push channel is up but the
// status it delivered has gone stale. While the transport is down the tick
// is a no-op: the disconnect guard here backs up the Stop-on-disconnect
// wiring in the composition root.
func (p *Poller) pollOnce(ctx context.Context) {
	if !p.transport.Connected() {
		return
	}
	if !p.engine.StatusLooksStale() {
		return
	}

	st, err := p.pull.PlayerStatus(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("status poll")
		return
	}
	p.engine.ApplyPulledStatus(st)
}
