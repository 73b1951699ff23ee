package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/mmelnik/playsync/internal/logger"
	"github.com/mmelnik/playsync/internal/mock"
	"github.com/mmelnik/playsync/models"
)

// stubStatusEngine avoids dragging the full engine into poller tests.
type stubStatusEngine struct {
	mu      sync.Mutex
	stale   bool
	applied []models.PlayerStatus
}

func (s *stubStatusEngine) StatusLooksStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

func (s *stubStatusEngine) ApplyPulledStatus(st models.PlayerStatus) {
	s.mu.Lock()
	s.applied = append(s.applied, st)
	s.mu.Unlock()
}

func (s *stubStatusEngine) appliedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applied)
}

func TestPoller_SilentWhileDisconnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubStatusEngine{}
	pull := mock.NewMockPullClient(ctrl)
	transport := mock.NewMockTransport(ctrl)

	// No PlayerStatus expectation: any pull against a dead transport fails
	// the controller.
	transport.EXPECT().Connected().Return(false).MinTimes(1)

	p := NewPoller(engine, pull, transport, 5*time.Millisecond, logger.Nop())
	p.Start(context.Background())

	time.Sleep(60 * time.Millisecond)
	p.Stop()

	assert.Zero(t, engine.appliedCount(), "no pull may be issued while disconnected")
}

func TestPoller_SilentWhileDisconnectedEvenIfStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubStatusEngine{stale: true}
	pull := mock.NewMockPullClient(ctrl)
	transport := mock.NewMockTransport(ctrl)

	transport.EXPECT().Connected().Return(false).MinTimes(1)

	p := NewPoller(engine, pull, transport, 5*time.Millisecond, logger.Nop())
	p.Start(context.Background())

	time.Sleep(60 * time.Millisecond)
	p.Stop()

	assert.Zero(t, engine.appliedCount(), "the disconnect guard outranks the staleness predicate")
}

func TestPoller_SkipsWhilePushIsHealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubStatusEngine{stale: false}
	pull := mock.NewMockPullClient(ctrl)
	transport := mock.NewMockTransport(ctrl)

	// Connected and fresh: PlayerStatus must never be called.
	transport.EXPECT().Connected().Return(true).MinTimes(1)

	p := NewPoller(engine, pull, transport, 5*time.Millisecond, logger.Nop())
	p.Start(context.Background())

	time.Sleep(50 * time.Millisecond)
	p.Stop()

	assert.Zero(t, engine.appliedCount())
}

func TestPoller_PullsWhenPushedStatusIsStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubStatusEngine{stale: true}
	pull := mock.NewMockPullClient(ctrl)
	transport := mock.NewMockTransport(ctrl)

	transport.EXPECT().Connected().Return(true).MinTimes(1)
	pull.EXPECT().PlayerStatus(gomock.Any()).Return(models.PlayerStatus{TrackID: 7, Seq: 1}, nil).MinTimes(1)

	p := NewPoller(engine, pull, transport, 5*time.Millisecond, logger.Nop())
	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return engine.appliedCount() > 0 },
		2*time.Second, 5*time.Millisecond)
}

func TestPoller_PullFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubStatusEngine{stale: true}
	pull := mock.NewMockPullClient(ctrl)
	transport := mock.NewMockTransport(ctrl)

	transport.EXPECT().Connected().Return(true).MinTimes(1)
	pull.EXPECT().PlayerStatus(gomock.Any()).Return(models.PlayerStatus{}, errors.New("unreachable")).MinTimes(1)

	p := NewPoller(engine, pull, transport, 5*time.Millisecond, logger.Nop())
	p.Start(context.Background())

	time.Sleep(50 * time.Millisecond)
	p.Stop()

	assert.Zero(t, engine.appliedCount(), "a failed pull must not feed the engine")
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubStatusEngine{}
	pull := mock.NewMockPullClient(ctrl)
	transport := mock.NewMockTransport(ctrl)
	transport.EXPECT().Connected().Return(true).AnyTimes()

	p := NewPoller(engine, pull, transport, time.Millisecond, logger.Nop())

	p.Stop() // never started
	p.Start(context.Background())
	p.Stop()
	p.Stop()
}

func TestPoller_StopAndRestartAcrossReconnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubStatusEngine{stale: true}
	pull := mock.NewMockPullClient(ctrl)
	transport := mock.NewMockTransport(ctrl)

	transport.EXPECT().Connected().Return(true).MinTimes(1)
	pull.EXPECT().PlayerStatus(gomock.Any()).Return(models.PlayerStatus{TrackID: 1, Seq: 1}, nil).MinTimes(1)

	p := NewPoller(engine, pull, transport, 5*time.Millisecond, logger.Nop())

	p.Start(context.Background())
	assert.Eventually(t, func() bool { return engine.appliedCount() > 0 },
		2*time.Second, 5*time.Millisecond)

	// Disconnect: the composition root stops the poller; nothing may be
	// pulled while it is stopped.
	p.Stop()
	before := engine.appliedCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, engine.appliedCount(), "a stopped poller is silent")

	// Reconnect: a fresh Start resumes polling.
	p.Start(context.Background())
	defer p.Stop()
	assert.Eventually(t, func() bool { return engine.appliedCount() > before },
		2*time.Second, 5*time.Millisecond)
}
