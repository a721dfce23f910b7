package lamp

import (
	"testing"
	"time"
)

// seq returns a sampler that yields the scripted values in order, repeating
// the last one when exhausted.
func seq(vals ...bool) func() bool {
	i := 0
	return func() bool {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}

func always(v bool) func() bool {
	return func() bool { return v }
}

const holdThreshold = 600 * time.Millisecond

func TestFirstCallUntouchedIsUnhold(t *testing.T) {
	c := NewClassifier(holdThreshold)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	ev := c.Classify(always(false), now)
	if ev != TouchUnhold {
		t.Errorf("first untouched call: got %s, want %s", ev, TouchUnhold)
	}
	if c.Held() {
		t.Error("pad should not be held")
	}
}

func TestFirstCallTouchedIsClick(t *testing.T) {
	c := NewClassifier(holdThreshold)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	ev := c.Classify(always(true), now)
	if ev != TouchClick {
		t.Errorf("first touched call: got %s, want %s", ev, TouchClick)
	}
	if !c.Held() {
		t.Error("pad should be held after a click")
	}
	if !c.LastPush().Equal(now) {
		t.Errorf("lastPush: got %v, want %v", c.LastPush(), now)
	}
}

func TestClickHoldUnclickUnholdSequence(t *testing.T) {
	c := NewClassifier(holdThreshold)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	steps := []struct {
		at      time.Duration
		touched bool
		want    TouchEvent
	}{
		{0, false, TouchUnhold},
		{50 * time.Millisecond, true, TouchClick},
		{100 * time.Millisecond, true, TouchNone},   // below threshold
		{650 * time.Millisecond, true, TouchHold},   // 600ms past push
		{700 * time.Millisecond, true, TouchHold},   // re-emitted while held
		{750 * time.Millisecond, false, TouchUnclick},
		{800 * time.Millisecond, false, TouchUnhold},
		{850 * time.Millisecond, false, TouchUnhold}, // re-emitted while untouched
	}

	for i, s := range steps {
		ev := c.Classify(always(s.touched), t0.Add(s.at))
		if ev != s.want {
			t.Errorf("step %d (t=%v touched=%v): got %s, want %s", i, s.at, s.touched, ev, s.want)
		}
	}

	if got := c.LastLift(); !got.Equal(t0.Add(750 * time.Millisecond)) {
		t.Errorf("lastLift: got %v", got)
	}
}

func TestHoldRequiresThreshold(t *testing.T) {
	c := NewClassifier(holdThreshold)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c.Classify(always(true), t0)
	ev := c.Classify(always(true), t0.Add(599*time.Millisecond))
	if ev != TouchNone {
		t.Errorf("just under threshold: got %s, want %s", ev, TouchNone)
	}
	ev = c.Classify(always(true), t0.Add(600*time.Millisecond))
	if ev != TouchHold {
		t.Errorf("at threshold: got %s, want %s", ev, TouchHold)
	}
}

// TestDebounceMajority checks the majority-of-up-to-3 vote: one flipped
// sample out of three never changes the outcome, and a stable pair skips the
// third read.
func TestDebounceMajority(t *testing.T) {
	tests := []struct {
		name        string
		samples     []bool
		want        bool
		wantReads   int
	}{
		{"stable touched", []bool{true, true}, true, 2},
		{"stable untouched", []bool{false, false}, false, 2},
		{"spike then touched", []bool{true, false, true}, true, 3},
		{"spike then untouched", []bool{true, false, false}, false, 3},
		{"dip then untouched", []bool{false, true, false}, false, 3},
		{"dip then touched", []bool{false, true, true}, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reads := 0
			inner := seq(tt.samples...)
			sample := func() bool {
				reads++
				return inner()
			}

			if got := debounce(sample); got != tt.want {
				t.Errorf("debounce: got %v, want %v", got, tt.want)
			}
			if reads != tt.wantReads {
				t.Errorf("reads: got %d, want %d", reads, tt.wantReads)
			}
		})
	}
}

func TestHoldAndUnholdDurations(t *testing.T) {
	c := NewClassifier(holdThreshold)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c.Classify(always(false), t0)
	c.Classify(always(true), t0.Add(100*time.Millisecond))  // push
	c.Classify(always(true), t0.Add(400*time.Millisecond))

	if got := c.HoldDur(); got != 300*time.Millisecond {
		t.Errorf("HoldDur while held: got %v, want 300ms", got)
	}
	if got := c.UnholdDur(); got != 0 {
		t.Errorf("UnholdDur while held: got %v, want 0", got)
	}

	c.Classify(always(false), t0.Add(500*time.Millisecond)) // lift
	c.Classify(always(false), t0.Add(900*time.Millisecond))

	if got := c.UnholdDur(); got != 400*time.Millisecond {
		t.Errorf("UnholdDur while unheld: got %v, want 400ms", got)
	}
	if got := c.HoldDur(); got != 0 {
		t.Errorf("HoldDur while unheld: got %v, want 0", got)
	}
}

func TestLastActivity(t *testing.T) {
	c := NewClassifier(holdThreshold)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c.Classify(always(true), t0.Add(100*time.Millisecond))
	if got := c.LastActivity(); !got.Equal(t0.Add(100 * time.Millisecond)) {
		t.Errorf("after push: got %v", got)
	}

	c.Classify(always(false), t0.Add(300*time.Millisecond))
	if got := c.LastActivity(); !got.Equal(t0.Add(300 * time.Millisecond)) {
		t.Errorf("after lift: got %v", got)
	}
}

// TestNoisyStreamNeverGlitches feeds a long touch with a single-sample dropout
// in the middle; the classifier must never report an Unclick.
func TestNoisyStreamNeverGlitches(t *testing.T) {
	c := NewClassifier(holdThreshold)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		samples := []bool{true, true}
		if i == 10 {
			// One flipped sample out of three.
			samples = []bool{false, true, true}
		}
		ev := c.Classify(seq(samples...), t0.Add(time.Duration(i)*50*time.Millisecond))
		if ev == TouchUnclick || ev == TouchUnhold {
			t.Fatalf("tick %d: noise produced %s", i, ev)
		}
	}
}
