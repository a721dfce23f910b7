// Package status provides a thread-safe status tracker for the lamp daemon.
// It is read by the HTTP handlers and feeds the Prometheus counters.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/halo-lamp/internal/lamp"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs       int64
	HoldMs       int64
	SyncPeriodMs int64
	RemoteURL    string
	DeviceID     string
	Broker       string
	HTTPAddr     string
	NumColors    int
	NumPixels    int
}

// SyncCounts tracks coordination service round trips since startup.
type SyncCounts struct {
	Sent     int
	Fetched  int
	Failures int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Mode              lamp.Mode
	ColorIndex        int
	BaseBrightness    uint8
	CurrentBrightness uint8
	Code              string // current claimed flicker code, wire form

	Sync          SyncCounts
	LastSync      time.Time
	LastSyncError string

	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Mode:      lamp.ModeIdle,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// UpdateLamp sets the lamp state. Called from the render loop on every tick;
// a mode change also bumps the transition counter.
func (t *Tracker) UpdateLamp(mode lamp.Mode, colorIndex int, base, current uint8, code string) {
	t.mu.Lock()
	if mode != t.snap.Mode {
		modeTransitions.WithLabelValues(string(t.snap.Mode), string(mode)).Inc()
	}
	t.snap.Mode = mode
	t.snap.ColorIndex = colorIndex
	t.snap.BaseBrightness = base
	t.snap.CurrentBrightness = current
	t.snap.Code = code
	t.mu.Unlock()

	colorIndexGauge.Set(float64(colorIndex))
	brightnessGauge.Set(float64(base))
}

// RecordTouch counts a classified touch event. TouchNone is not counted.
func (t *Tracker) RecordTouch(ev lamp.TouchEvent) {
	if ev == lamp.TouchNone {
		return
	}
	touchEvents.WithLabelValues(string(ev)).Inc()
}

// RecordSyncSent counts a successful outbound round trip.
func (t *Tracker) RecordSyncSent(now time.Time) {
	t.recordSync(now, "", func(c *SyncCounts) { c.Sent++ })
	syncRounds.WithLabelValues("sent").Inc()
}

// RecordSyncFetched counts a successful inbound-only round trip.
func (t *Tracker) RecordSyncFetched(now time.Time) {
	t.recordSync(now, "", func(c *SyncCounts) { c.Fetched++ })
	syncRounds.WithLabelValues("fetched").Inc()
}

// RecordSyncFailure counts a failed round trip.
func (t *Tracker) RecordSyncFailure(now time.Time, err error) {
	t.recordSync(now, err.Error(), func(c *SyncCounts) { c.Failures++ })
	syncRounds.WithLabelValues("error").Inc()
}

func (t *Tracker) recordSync(now time.Time, errMsg string, bump func(*SyncCounts)) {
	t.mu.Lock()
	bump(&t.snap.Sync)
	t.snap.LastSync = now
	t.snap.LastSyncError = errMsg
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
