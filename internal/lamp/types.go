// Package lamp contains the pure interaction logic of the lamp: the touch
// classifier and the mode state machine. This package has NO external
// dependencies (no GPIO, LEDs, HTTP, or time.Sleep). Time is always
// injectable via time.Time parameters.
package lamp

import (
	"time"

	"github.com/sweeney/halo-lamp/internal/flicker"
)

// Mode is the lamp's high-level behavior state.
type Mode string

const (
	ModeSleep            Mode = "SLEEP"
	ModeIdle             Mode = "IDLE"
	ModeColorSelect      Mode = "COLOR_SELECT"
	ModeBrightnessSelect Mode = "BRIGHTNESS_SELECT"
)

// TouchEvent classifies one sampling call of the touch pad.
type TouchEvent string

const (
	TouchNone    TouchEvent = "NONE"
	TouchClick   TouchEvent = "CLICK"
	TouchUnclick TouchEvent = "UNCLICK"
	TouchHold    TouchEvent = "HOLD"
	TouchUnhold  TouchEvent = "UNHOLD"
)

// Params holds the tunable constants of the interaction logic.
type Params struct {
	// NumColors is the size of the color wheel.
	NumColors int
	// HoldThreshold is how long a continuous touch counts as a Hold.
	HoldThreshold time.Duration
	// ColorChangeWait is how long the pad must stay untouched before a
	// color-select session is confirmed and the lamp returns to Idle.
	ColorChangeWait time.Duration
	// BrightnessChangeWait is how long a continuous hold in brightness
	// select sends the lamp to Sleep.
	BrightnessChangeWait time.Duration
	// DefaultBrightness is restored when waking from Sleep.
	DefaultBrightness uint8
	// MaxBrightness is applied when entering brightness select.
	MaxBrightness uint8
}

// Cue tells the render loop which one-shot animation, if any, a transition
// asks for. Per-mode steady rendering is not a cue; it happens every tick.
type Cue string

const (
	CueNone Cue = ""
	// CueFill refills the strip with the current color at a steady level.
	CueFill Cue = "FILL"
	// CueWipe sweeps from the previous color to the new one.
	CueWipe Cue = "WIPE"
	// CueConverge ripples the strip toward the confirmed color.
	CueConverge Cue = "CONVERGE"
	// CueReceipt flashes then ripples toward a remotely received color.
	CueReceipt Cue = "RECEIPT"
	// CueBlank turns every pixel off immediately.
	CueBlank Cue = "BLANK"
)

// Result is the outcome of consuming one TouchEvent.
type Result struct {
	Cue       Cue
	PrevColor int // wipe start color, only set for CueWipe
	Color     int // color the cue should render with
	// Outbound, if non-nil, is a freshly minted flicker code that must be
	// handed to the sync channel exactly once.
	Outbound *flicker.Code
}
