package state

import (
	"sync"
	"time"

	"github.com/mmelnik/playsync/models"
)

// StatusObserver receives a copy of the player status after every accepted
// change. Observers run outside the container lock.
type StatusObserver func(st models.PlayerStatus)

// PlayerState is the singleton mirror of current playback. Snapshots
// replace it wholesale; acknowledgment patches merge into it field by
// field. It additionally remembers when the last progress tick was
// accepted, which the fallback poller uses as its staleness signal.
type PlayerState struct {
	mu           sync.RWMutex
	status       models.PlayerStatus
	devices      map[string]models.DeviceState
	lastProgress time.Time
	observers    []StatusObserver

	now func() time.Time
}

func NewPlayerState() *PlayerState {
	return &PlayerState{
		devices: make(map[string]models.DeviceState),
		now:     time.Now,
	}
}

// Observe registers an observer; register everything before the engine
// starts.
func (p *PlayerState) Observe(fn StatusObserver) {
	p.observers = append(p.observers, fn)
}

// Status returns a copy of the current player status.
func (p *PlayerState) Status() models.PlayerStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// LastProgress returns when the last progress tick or status replacement
// was accepted. The zero time means nothing has been accepted yet.
func (p *PlayerState) LastProgress() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastProgress
}

// Replace swaps the whole status singleton. Fields absent from the incoming
// snapshot are whatever their zero value is; that is intentional
// full-replace semantics.
func (p *PlayerState) Replace(st models.PlayerStatus) {
	p.mu.Lock()
	p.status = st
	p.lastProgress = p.now()
	p.mu.Unlock()

	p.notify(st)
}

// Patch merges the present fields of a status patch into the singleton,
// leaving everything else untouched.
func (p *PlayerState) Patch(patch models.StatusPatch) {
	p.mu.Lock()
	patch.Apply(&p.status)
	st := p.status
	p.mu.Unlock()

	p.notify(st)
}

// Progress applies a position tick. Duration is only updated when the tick
// carries one.
func (p *PlayerState) Progress(positionSec, durationSec float64, seq uint64) {
	p.mu.Lock()
	p.status.PositionSec = positionSec
	if durationSec > 0 {
		p.status.DurationSec = durationSec
	}
	p.status.Seq = seq
	p.lastProgress = p.now()
	st := p.status
	p.mu.Unlock()

	p.notify(st)
}

// SetVolume applies a volume-changed event.
func (p *PlayerState) SetVolume(volume int, seq uint64) {
	p.mu.Lock()
	p.status.Volume = volume
	p.status.Seq = seq
	st := p.status
	p.mu.Unlock()

	p.notify(st)
}

// SetDevice records auxiliary device state keyed by device id.
func (p *PlayerState) SetDevice(d models.DeviceState) {
	p.mu.Lock()
	p.devices[d.DeviceID] = d
	p.mu.Unlock()
}

// Devices returns a copy of the known auxiliary device states.
func (p *PlayerState) Devices() map[string]models.DeviceState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]models.DeviceState, len(p.devices))
	for id, d := range p.devices {
		out[id] = d
	}
	return out
}

func (p *PlayerState) notify(st models.PlayerStatus) {
	for _, fn := range p.observers {
		fn(st)
	}
}
