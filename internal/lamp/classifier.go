package lamp

import "time"

// Classifier turns raw touch pad samples into debounced TouchEvents. It keeps
// the push/lift/touch/untouch timestamps of the pad; whether the pad is
// currently held is always derived from lastPush vs lastLift, never stored
// separately, so the two can not drift apart.
type Classifier struct {
	holdThreshold time.Duration

	lastPush    time.Time // last untouched->touched flip
	lastLift    time.Time // last touched->untouched flip
	lastTouch   time.Time // last positive sample
	lastUntouch time.Time // last negative sample

	lastHoldDur   time.Duration // length of the most recent hold
	lastUnholdDur time.Duration // length of the most recent unhold
}

// NewClassifier creates a classifier. holdThreshold is how long a continuous
// touch must last before Classify reports Hold.
func NewClassifier(holdThreshold time.Duration) *Classifier {
	return &Classifier{holdThreshold: holdThreshold}
}

// debounce reads up to three samples and returns the majority opinion. When
// the first two agree the third read is skipped, so a stable signal costs two
// samples and adds no latency; a single flipped sample out of three never
// changes the outcome.
func debounce(sample func() bool) bool {
	touched := sample()
	if touched != sample() {
		touched = sample()
	}
	return touched
}

// Classify takes a debounced reading via sample and classifies this call
// against the previous pad history. Called once per render tick.
//
// The zero-valued classifier reports an untouched pad, so a device that boots
// with nobody touching it emits Unhold on the first call, never a spurious
// Click.
func (c *Classifier) Classify(sample func() bool, now time.Time) TouchEvent {
	touched := debounce(sample)
	ev := TouchNone

	if touched {
		if !c.lastTouch.After(c.lastUntouch) {
			// Was untouched, now touched.
			c.lastPush = now
			ev = TouchClick
		} else if now.Sub(c.lastPush) >= c.holdThreshold {
			ev = TouchHold
		}
		c.lastHoldDur = now.Sub(c.lastUntouch)
		c.lastTouch = now
	} else {
		if c.lastTouch.After(c.lastUntouch) {
			// Was touched, now untouched.
			c.lastLift = now
			ev = TouchUnclick
		} else {
			ev = TouchUnhold
		}
		c.lastUnholdDur = now.Sub(c.lastTouch)
		c.lastUntouch = now
	}
	return ev
}

// Held reports whether the pad is currently in a held-down state.
func (c *Classifier) Held() bool {
	return c.lastPush.After(c.lastLift)
}

// LastPush returns when the pad last flipped from untouched to touched.
func (c *Classifier) LastPush() time.Time { return c.lastPush }

// LastLift returns when the pad last flipped from touched to untouched.
func (c *Classifier) LastLift() time.Time { return c.lastLift }

// LastTouch returns when the pad last sampled positive.
func (c *Classifier) LastTouch() time.Time { return c.lastTouch }

// LastUntouch returns when the pad last sampled negative.
func (c *Classifier) LastUntouch() time.Time { return c.lastUntouch }

// HoldDur returns how long the current hold has lasted, or 0 if the pad is
// not held.
func (c *Classifier) HoldDur() time.Duration {
	if !c.Held() {
		return 0
	}
	return c.lastTouch.Sub(c.lastPush)
}

// UnholdDur returns how long the current unhold has lasted, or 0 if the pad
// is held.
func (c *Classifier) UnholdDur() time.Duration {
	if c.Held() {
		return 0
	}
	return c.lastUntouch.Sub(c.lastLift)
}

// LastHoldDur returns the duration recorded for the most recent hold.
func (c *Classifier) LastHoldDur() time.Duration { return c.lastHoldDur }

// LastUnholdDur returns the duration recorded for the most recent unhold.
func (c *Classifier) LastUnholdDur() time.Duration { return c.lastUnholdDur }

// LastActivity returns the last time the pad flipped in either direction.
func (c *Classifier) LastActivity() time.Time {
	if c.lastPush.After(c.lastLift) {
		return c.lastPush
	}
	return c.lastLift
}
