package remote

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/halo-lamp/internal/bridge"
	"github.com/sweeney/halo-lamp/internal/status"
)

// Syncer is the network task: one round trip against the coordination
// service per period. A pending outbound code takes priority over a plain
// fetch; any failure leaves the pending flag and the last known-good inbound
// code untouched and is retried on the next period, indefinitely. The device
// has no other recourse, so there is no backoff and no retry cap.
type Syncer struct {
	client   Client
	slot     *bridge.Slot
	deviceID string
	period   time.Duration
	tracker  *status.Tracker
	log      zerolog.Logger
}

// NewSyncer creates a Syncer. tracker may be nil.
func NewSyncer(client Client, slot *bridge.Slot, deviceID string, period time.Duration, tracker *status.Tracker, log zerolog.Logger) *Syncer {
	return &Syncer{
		client:   client,
		slot:     slot,
		deviceID: deviceID,
		period:   period,
		tracker:  tracker,
		log:      log,
	}
}

// Run loops until the context is cancelled. The render loop never waits on
// it; a stalled service only means remote changes stop arriving.
func (s *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one sync round. Exported so tests and the integration test
// can drive rounds without the ticker.
func (s *Syncer) Tick(ctx context.Context) {
	now := time.Now()

	if s.slot.HasPendingOutbound() {
		code := s.slot.Outbound()
		in, err := s.client.Send(ctx, code)
		if err != nil {
			s.fail(now, err)
			return
		}
		// Only a confirmed round trip consumes the pending flag.
		s.slot.DrainOutbound()
		s.slot.SetInbound(in)
		if s.tracker != nil {
			s.tracker.RecordSyncSent(now)
		}
		s.log.Debug().Stringer("code", code).Msg("outbound code sent")
		return
	}

	in, err := s.client.Fetch(ctx, s.deviceID)
	if err != nil {
		s.fail(now, err)
		return
	}
	s.slot.SetInbound(in)
	if s.tracker != nil {
		s.tracker.RecordSyncFetched(now)
	}
}

func (s *Syncer) fail(now time.Time, err error) {
	if s.tracker != nil {
		s.tracker.RecordSyncFailure(now, err)
	}
	s.log.Warn().Err(err).Msg("sync round failed, will retry next period")
}
