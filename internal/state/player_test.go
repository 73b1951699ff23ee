package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmelnik/playsync/models"
)

func TestPlayerState_ReplaceIsWholesale(t *testing.T) {
	p := NewPlayerState()
	p.Replace(models.PlayerStatus{PlaylistID: "pl-1", TrackID: 7, Volume: 80, IsPlaying: true})

	p.Replace(models.PlayerStatus{IsPlaying: true, Seq: 2})

	st := p.Status()
	assert.True(t, st.IsPlaying)
	assert.Empty(t, st.PlaylistID)
	assert.Zero(t, st.Volume)
}

func TestPlayerState_PatchMergesFieldByField(t *testing.T) {
	p := NewPlayerState()
	p.Replace(models.PlayerStatus{PlaylistID: "pl-1", TrackID: 7, Volume: 80, IsPlaying: true})

	track := int64(9)
	p.Patch(models.StatusPatch{TrackID: &track})

	st := p.Status()
	assert.Equal(t, int64(9), st.TrackID)
	assert.Equal(t, "pl-1", st.PlaylistID)
	assert.Equal(t, 80, st.Volume)
}

func TestPlayerState_ProgressKeepsDurationWithoutTick(t *testing.T) {
	p := NewPlayerState()
	p.Replace(models.PlayerStatus{TrackID: 7, DurationSec: 300})

	p.Progress(42, 0, 2)
	st := p.Status()
	assert.Equal(t, float64(42), st.PositionSec)
	assert.Equal(t, float64(300), st.DurationSec)

	p.Progress(43, 310, 3)
	st = p.Status()
	assert.Equal(t, float64(310), st.DurationSec)
	assert.Equal(t, uint64(3), st.Seq)
}

func TestPlayerState_LastProgressAdvances(t *testing.T) {
	p := NewPlayerState()
	assert.True(t, p.LastProgress().IsZero())

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return current }

	p.Replace(models.PlayerStatus{TrackID: 7})
	assert.Equal(t, current, p.LastProgress())

	current = current.Add(time.Minute)
	p.Progress(10, 0, 2)
	assert.Equal(t, current, p.LastProgress())
}

func TestPlayerState_SetVolume(t *testing.T) {
	p := NewPlayerState()
	p.Replace(models.PlayerStatus{TrackID: 7, Volume: 80, IsPlaying: true})

	p.SetVolume(15, 5)

	st := p.Status()
	assert.Equal(t, 15, st.Volume)
	assert.True(t, st.IsPlaying)
	assert.Equal(t, uint64(5), st.Seq)
}

func TestPlayerState_Devices(t *testing.T) {
	p := NewPlayerState()
	p.SetDevice(models.DeviceState{DeviceID: "d1", Name: "Kitchen", Active: true})
	p.SetDevice(models.DeviceState{DeviceID: "d1", Name: "Kitchen", Active: false})
	p.SetDevice(models.DeviceState{DeviceID: "d2", Name: "Hall"})

	devices := p.Devices()
	require.Len(t, devices, 2)
	assert.False(t, devices["d1"].Active, "latest device state wins")

	// The returned map is a copy.
	delete(devices, "d1")
	assert.Len(t, p.Devices(), 2)
}

func TestPlayerState_ObserversSeeEveryChange(t *testing.T) {
	p := NewPlayerState()

	var seen []models.PlayerStatus
	p.Observe(func(st models.PlayerStatus) { seen = append(seen, st) })

	p.Replace(models.PlayerStatus{TrackID: 1})
	p.Progress(10, 0, 2)
	p.SetVolume(50, 3)

	require.Len(t, seen, 3)
	assert.Equal(t, int64(1), seen[0].TrackID)
	assert.Equal(t, float64(10), seen[1].PositionSec)
	assert.Equal(t, 50, seen[2].Volume)
}
