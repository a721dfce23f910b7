package lamp

import (
	"math/rand"
	"testing"
	"time"

	"github.com/sweeney/halo-lamp/internal/flicker"
)

// timing is a scripted TouchTiming for driving the machine without a
// classifier.
type timing struct {
	push, lift time.Time
}

func (t timing) LastPush() time.Time { return t.push }
func (t timing) LastLift() time.Time { return t.lift }

func testParams() Params {
	return Params{
		NumColors:            10,
		HoldThreshold:        600 * time.Millisecond,
		ColorChangeWait:      1500 * time.Millisecond,
		BrightnessChangeWait: 3 * time.Second,
		DefaultBrightness:    160,
		MaxBrightness:        255,
	}
}

func newTestMachine(t *testing.T, now time.Time) *Machine {
	t.Helper()
	return NewMachine(testParams(), "dev-1", rand.New(rand.NewSource(42)), now)
}

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestBootsIdle(t *testing.T) {
	m := newTestMachine(t, t0)
	if m.Mode() != ModeIdle {
		t.Errorf("boot mode: got %s, want %s", m.Mode(), ModeIdle)
	}
	if m.BaseBrightness() != 160 || m.CurrentBrightness() != 160 {
		t.Errorf("boot brightness: got base=%d current=%d", m.BaseBrightness(), m.CurrentBrightness())
	}
}

func TestIdleClickEntersColorSelect(t *testing.T) {
	m := newTestMachine(t, t0)

	res := m.Step(TouchClick, timing{push: t0}, t0)
	if m.Mode() != ModeColorSelect {
		t.Fatalf("mode: got %s, want %s", m.Mode(), ModeColorSelect)
	}
	if m.CurrentBrightness() != m.BaseBrightness() {
		t.Errorf("current brightness: got %d, want base %d", m.CurrentBrightness(), m.BaseBrightness())
	}
	if m.ColorChanged() {
		t.Error("colorChanged must reset on entry")
	}
	if res.Cue != CueNone {
		t.Errorf("cue: got %s, want none", res.Cue)
	}
	if !m.ModeStart().Equal(t0) {
		t.Errorf("modeStart: got %v, want %v", m.ModeStart(), t0)
	}
}

func TestColorSelectClickAdvancesWheel(t *testing.T) {
	m := newTestMachine(t, t0)
	m.Step(TouchClick, timing{push: t0}, t0) // -> ColorSelect

	now := t0.Add(time.Second)
	res := m.Step(TouchClick, timing{push: now}, now)

	if m.Mode() != ModeColorSelect {
		t.Errorf("self-loop left mode: %s", m.Mode())
	}
	if m.ColorIndex() != 1 {
		t.Errorf("colorIndex: got %d, want 1", m.ColorIndex())
	}
	if !m.ColorChanged() {
		t.Error("colorChanged must be set after an in-session click")
	}
	if res.Cue != CueWipe || res.PrevColor != 0 || res.Color != 1 {
		t.Errorf("cue: got %+v, want wipe 0->1", res)
	}
	if !m.ModeStart().Equal(t0) {
		t.Error("self-loop must not reset modeStart")
	}
}

func TestColorWheelWraps(t *testing.T) {
	m := newTestMachine(t, t0)
	m.Step(TouchClick, timing{}, t0)

	for i := 0; i < 10; i++ {
		m.Step(TouchClick, timing{}, t0.Add(time.Duration(i)*time.Second))
	}
	if m.ColorIndex() != 0 {
		t.Errorf("after N clicks: got %d, want 0", m.ColorIndex())
	}
}

func TestHoldPromotionRequiresFreshPush(t *testing.T) {
	entry := t0
	m := newTestMachine(t, t0)
	m.Step(TouchClick, timing{push: entry}, entry) // -> ColorSelect

	// The entering press is still down: lift predates mode entry, so the
	// hold must not promote.
	now := entry.Add(time.Second)
	m.Step(TouchHold, timing{push: entry, lift: entry.Add(-time.Second)}, now)
	if m.Mode() != ModeColorSelect {
		t.Fatalf("stale hold promoted: mode %s", m.Mode())
	}

	// Released and re-pressed after entry: the hold qualifies.
	lift := entry.Add(200 * time.Millisecond)
	push := entry.Add(400 * time.Millisecond)
	now = entry.Add(1100 * time.Millisecond)
	m.Step(TouchHold, timing{push: push, lift: lift}, now)
	if m.Mode() != ModeBrightnessSelect {
		t.Fatalf("fresh hold did not promote: mode %s", m.Mode())
	}
	if m.BaseBrightness() != 255 {
		t.Errorf("base brightness: got %d, want max", m.BaseBrightness())
	}
	if !m.ModeStart().Equal(now) {
		t.Error("promotion must reset modeStart")
	}
}

func TestUnholdBeforeWaitStaysInColorSelect(t *testing.T) {
	m := newTestMachine(t, t0)
	m.Step(TouchClick, timing{push: t0}, t0)

	lift := t0.Add(time.Second)
	now := lift.Add(time.Second) // under the 1.5s wait
	res := m.Step(TouchUnhold, timing{lift: lift}, now)
	if m.Mode() != ModeColorSelect {
		t.Errorf("mode: got %s, want %s", m.Mode(), ModeColorSelect)
	}
	if res.Cue != CueNone {
		t.Errorf("cue: got %s, want none", res.Cue)
	}
}

func TestConfirmedChangeQueuesExactlyOneCode(t *testing.T) {
	m := newTestMachine(t, t0)
	m.Step(TouchClick, timing{push: t0}, t0)                           // -> ColorSelect
	m.Step(TouchClick, timing{push: t0.Add(time.Second)}, t0.Add(time.Second)) // color 0 -> 1

	lift := t0.Add(2 * time.Second)
	now := lift.Add(2 * time.Second) // past the wait
	res := m.Step(TouchUnhold, timing{lift: lift}, now)

	if m.Mode() != ModeIdle {
		t.Fatalf("mode: got %s, want %s", m.Mode(), ModeIdle)
	}
	if res.Cue != CueConverge {
		t.Errorf("cue: got %s, want converge", res.Cue)
	}
	if res.Outbound == nil {
		t.Fatal("expected an outbound code")
	}
	if res.Outbound.Color != 1 {
		t.Errorf("outbound color: got %d, want 1", res.Outbound.Color)
	}
	if res.Outbound.Device != "dev-1" {
		t.Errorf("outbound device: got %q", res.Outbound.Device)
	}
	if m.Code() != *res.Outbound {
		t.Error("machine must claim the code it queued")
	}

	// A second unhold in Idle must not queue anything.
	res = m.Step(TouchUnhold, timing{lift: lift}, now.Add(time.Second))
	if res.Outbound != nil {
		t.Error("idle unhold queued a code")
	}
}

func TestUnchangedSessionSendsNothing(t *testing.T) {
	m := newTestMachine(t, t0)
	m.Step(TouchClick, timing{push: t0}, t0) // enter and leave without clicking

	lift := t0.Add(time.Second)
	now := lift.Add(2 * time.Second)
	res := m.Step(TouchUnhold, timing{lift: lift}, now)

	if m.Mode() != ModeIdle {
		t.Fatalf("mode: got %s, want %s", m.Mode(), ModeIdle)
	}
	if res.Cue != CueFill {
		t.Errorf("cue: got %s, want fill", res.Cue)
	}
	if res.Outbound != nil {
		t.Error("unchanged session queued a code")
	}
	if !m.Code().IsZero() {
		t.Error("machine claimed a code it never queued")
	}
}

func TestBrightnessUnclickCommits(t *testing.T) {
	m := enterBrightnessSelect(t)

	m.ObserveBrightness(77)
	now := m.ModeStart().Add(time.Second)
	m.Step(TouchUnclick, timing{}, now)

	if m.Mode() != ModeIdle {
		t.Fatalf("mode: got %s, want %s", m.Mode(), ModeIdle)
	}
	if m.BaseBrightness() != 77 {
		t.Errorf("committed brightness: got %d, want 77", m.BaseBrightness())
	}
}

func TestBrightnessLongHoldSleeps(t *testing.T) {
	m := enterBrightnessSelect(t)
	entry := m.ModeStart()

	// Under the wait: stays put.
	m.Step(TouchHold, timing{}, entry.Add(2*time.Second))
	if m.Mode() != ModeBrightnessSelect {
		t.Fatalf("early hold moved mode: %s", m.Mode())
	}

	res := m.Step(TouchHold, timing{}, entry.Add(3100*time.Millisecond))
	if m.Mode() != ModeSleep {
		t.Fatalf("mode: got %s, want %s", m.Mode(), ModeSleep)
	}
	if m.BaseBrightness() != 0 || m.CurrentBrightness() != 0 {
		t.Errorf("brightness: got base=%d current=%d, want 0/0", m.BaseBrightness(), m.CurrentBrightness())
	}
	if res.Cue != CueBlank {
		t.Errorf("cue: got %s, want blank", res.Cue)
	}
}

func TestSleepClickWakes(t *testing.T) {
	m := enterBrightnessSelect(t)
	m.Step(TouchHold, timing{}, m.ModeStart().Add(4*time.Second)) // -> Sleep

	now := m.ModeStart().Add(time.Minute)
	res := m.Step(TouchClick, timing{push: now}, now)
	if m.Mode() != ModeIdle {
		t.Fatalf("mode: got %s, want %s", m.Mode(), ModeIdle)
	}
	if m.BaseBrightness() != 160 {
		t.Errorf("restored brightness: got %d, want default", m.BaseBrightness())
	}
	if res.Cue != CueFill {
		t.Errorf("cue: got %s, want fill", res.Cue)
	}
}

// TestNoOpPairs walks every (mode, event) pair outside the transition table
// and verifies nothing changes.
func TestNoOpPairs(t *testing.T) {
	noOps := map[Mode][]TouchEvent{
		ModeSleep:            {TouchNone, TouchUnclick, TouchHold, TouchUnhold},
		ModeIdle:             {TouchNone, TouchUnclick, TouchHold, TouchUnhold},
		ModeColorSelect:      {TouchNone, TouchUnclick},
		ModeBrightnessSelect: {TouchNone, TouchClick, TouchUnhold},
	}

	for mode, events := range noOps {
		for _, ev := range events {
			t.Run(string(mode)+"/"+string(ev), func(t *testing.T) {
				m := machineInMode(t, mode)
				before := *m
				res := m.Step(ev, timing{}, m.ModeStart().Add(10*time.Millisecond))
				if m.Mode() != before.mode {
					t.Errorf("mode changed: %s -> %s", before.mode, m.Mode())
				}
				if m.ColorIndex() != before.colorIndex || m.BaseBrightness() != before.baseBrightness {
					t.Error("state mutated by no-op pair")
				}
				if res.Cue != CueNone || res.Outbound != nil {
					t.Errorf("no-op pair produced result %+v", res)
				}
			})
		}
	}
}

func TestApplyInboundAdoptsInIdle(t *testing.T) {
	m := newTestMachine(t, t0)
	in := flicker.Code{Color: 7, Nonce: 4242, Device: "peer"}

	if !m.ApplyInbound(in, false, t0.Add(time.Minute)) {
		t.Fatal("inbound code not adopted")
	}
	if m.ColorIndex() != 7 {
		t.Errorf("colorIndex: got %d, want 7", m.ColorIndex())
	}
	if m.Code() != in {
		t.Error("machine must claim the adopted code")
	}

	// The same code again is already applied: adopted exactly once.
	if m.ApplyInbound(in, false, t0.Add(2*time.Minute)) {
		t.Error("same code adopted twice")
	}
}

func TestApplyInboundIgnored(t *testing.T) {
	in := flicker.Code{Color: 3, Nonce: 1111, Device: "peer"}

	t.Run("outside idle", func(t *testing.T) {
		m := newTestMachine(t, t0)
		m.Step(TouchClick, timing{push: t0}, t0) // -> ColorSelect
		if m.ApplyInbound(in, false, t0.Add(time.Second)) {
			t.Error("adopted outside Idle")
		}
	})

	t.Run("outbound pending", func(t *testing.T) {
		m := newTestMachine(t, t0)
		if m.ApplyInbound(in, true, t0.Add(time.Second)) {
			t.Error("adopted while a local send is pending")
		}
	})

	t.Run("color off the wheel", func(t *testing.T) {
		m := newTestMachine(t, t0)
		bad := flicker.Code{Color: 10, Nonce: 1111, Device: "peer"}
		if m.ApplyInbound(bad, false, t0.Add(time.Second)) {
			t.Error("adopted an out-of-range color")
		}
	})

	t.Run("zero code", func(t *testing.T) {
		m := newTestMachine(t, t0)
		if m.ApplyInbound(flicker.Code{}, false, t0.Add(time.Second)) {
			t.Error("adopted the zero code")
		}
	})
}

func TestColorChangedResetsPerSession(t *testing.T) {
	m := newTestMachine(t, t0)

	// Session one: click changes the color.
	m.Step(TouchClick, timing{push: t0}, t0)
	m.Step(TouchClick, timing{}, t0.Add(time.Second))
	lift := t0.Add(2 * time.Second)
	m.Step(TouchUnhold, timing{lift: lift}, lift.Add(2*time.Second))
	if m.Mode() != ModeIdle {
		t.Fatal("did not return to Idle")
	}

	// Session two: entry must start clean.
	entry := lift.Add(3 * time.Second)
	m.Step(TouchClick, timing{push: entry}, entry)
	if m.ColorChanged() {
		t.Error("colorChanged leaked across sessions")
	}
}

// TestIdleForTenMinutes drives the machine through ten minutes of untouched
// ticks and verifies it never leaves Idle and never queues a send.
func TestIdleForTenMinutes(t *testing.T) {
	m := newTestMachine(t, t0)
	tick := 50 * time.Millisecond

	for i := 0; i < int(10*time.Minute/tick); i++ {
		res := m.Step(TouchUnhold, timing{}, t0.Add(time.Duration(i)*tick))
		if res.Outbound != nil {
			t.Fatalf("tick %d: queued a send while idle", i)
		}
	}
	if m.Mode() != ModeIdle {
		t.Errorf("mode: got %s, want %s", m.Mode(), ModeIdle)
	}
}

// machineInMode builds a machine sitting in the given mode via real
// transitions.
func machineInMode(t *testing.T, mode Mode) *Machine {
	t.Helper()
	switch mode {
	case ModeIdle:
		return newTestMachine(t, t0)
	case ModeColorSelect:
		m := newTestMachine(t, t0)
		m.Step(TouchClick, timing{push: t0}, t0)
		return m
	case ModeBrightnessSelect:
		return enterBrightnessSelect(t)
	case ModeSleep:
		m := enterBrightnessSelect(t)
		m.Step(TouchHold, timing{}, m.ModeStart().Add(4*time.Second))
		return m
	}
	t.Fatalf("unknown mode %s", mode)
	return nil
}

// enterBrightnessSelect walks a machine Idle -> ColorSelect -> BrightnessSelect.
func enterBrightnessSelect(t *testing.T) *Machine {
	t.Helper()
	m := newTestMachine(t, t0)
	m.Step(TouchClick, timing{push: t0}, t0)
	lift := t0.Add(200 * time.Millisecond)
	push := t0.Add(400 * time.Millisecond)
	m.Step(TouchHold, timing{push: push, lift: lift}, t0.Add(1100*time.Millisecond))
	if m.Mode() != ModeBrightnessSelect {
		t.Fatalf("setup: mode %s", m.Mode())
	}
	return m
}
