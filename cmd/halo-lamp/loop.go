package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/halo-lamp/internal/anim"
	"github.com/sweeney/halo-lamp/internal/bridge"
	"github.com/sweeney/halo-lamp/internal/lamp"
	"github.com/sweeney/halo-lamp/internal/pixels"
	"github.com/sweeney/halo-lamp/internal/status"
	"github.com/sweeney/halo-lamp/internal/telemetry"
)

// loopDeps carries the render loop's collaborators. Everything is injectable
// so tests can drive the loop with fakes and a scripted clock.
type loopDeps struct {
	classifier *lamp.Classifier
	machine    *lamp.Machine
	engine     *anim.Engine
	strip      pixels.Strip
	slot       *bridge.Slot
	tracker    *status.Tracker
	publisher  telemetry.Publisher
	sample     func() bool
	now        func() time.Time
	log        zerolog.Logger
}

// renderLoop is the lamp's render task: every tick it classifies the pad,
// steps the mode machine, plays any one-shot animation the step asked for,
// otherwise applies a pending inbound code or renders the steady per-mode
// frame. It never blocks on the network; a stalled sync loop only means
// inbound codes stop changing.
func renderLoop(ctx context.Context, d loopDeps, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-tick:
			now := d.now()
			d.step(now)
		}
	}
}

// step runs one render tick.
func (d *loopDeps) step(now time.Time) {
	prevMode := d.machine.Mode()

	ev := d.classifier.Classify(d.sample, now)
	d.tracker.RecordTouch(ev)

	res := d.machine.Step(ev, d.classifier, now)

	if res.Outbound != nil {
		d.slot.SubmitOutbound(*res.Outbound)
		d.log.Info().Stringer("code", *res.Outbound).Msg("color change confirmed, queued for sync")
	}

	if res.Cue != lamp.CueNone {
		d.playCue(res)
	} else if in := d.slot.Inbound(); d.machine.ApplyInbound(in, d.slot.HasPendingOutbound(), now) {
		d.log.Info().Stringer("code", in).Msg("adopted remote color")
		d.renderErr(d.engine.Receipt(d.strip, d.machine.ColorIndex(), d.machine.BaseBrightness()))
	} else {
		frame, b := d.engine.Frame(d.machine.Mode(), now.Sub(d.machine.ModeStart()), d.machine.ColorIndex(), d.machine.BaseBrightness())
		d.machine.ObserveBrightness(b)
		d.renderErr(d.strip.Render(frame))
	}

	mode := d.machine.Mode()
	codeStr := ""
	if c := d.machine.Code(); !c.IsZero() {
		codeStr = c.String()
	}
	d.tracker.UpdateLamp(mode, d.machine.ColorIndex(), d.machine.BaseBrightness(), d.machine.CurrentBrightness(), codeStr)

	if mode != prevMode {
		d.log.Info().Str("from", string(prevMode)).Str("to", string(mode)).Msg("mode change")
		if err := d.publisher.PublishMode(telemetry.ModeEvent{
			Timestamp:  now,
			From:       prevMode,
			To:         mode,
			ColorIndex: d.machine.ColorIndex(),
			Brightness: d.machine.BaseBrightness(),
			Code:       codeStr,
		}); err != nil {
			d.log.Warn().Err(err).Msg("publish mode event failed")
		}
	}
}

// playCue runs the one-shot animation a transition asked for. One-shots own
// the render task for their full duration; that is intentional.
func (d *loopDeps) playCue(res lamp.Result) {
	base := d.machine.BaseBrightness()
	switch res.Cue {
	case lamp.CueFill:
		d.renderErr(d.engine.Fill(d.strip, res.Color, base))
	case lamp.CueWipe:
		d.renderErr(d.engine.Wipe(d.strip, res.PrevColor, res.Color, base))
	case lamp.CueConverge:
		d.renderErr(d.engine.Converge(d.strip, res.Color, base))
	case lamp.CueReceipt:
		d.renderErr(d.engine.Receipt(d.strip, res.Color, base))
	case lamp.CueBlank:
		d.renderErr(d.engine.Blank(d.strip))
	}
}

// renderErr logs strip failures. Rendering is never fatal; the next frame
// retries the device.
func (d *loopDeps) renderErr(err error) {
	if err != nil {
		d.log.Warn().Err(err).Msg("strip render error")
	}
}
