package lamp

import (
	"math/rand"
	"time"

	"github.com/sweeney/halo-lamp/internal/flicker"
)

// TouchTiming exposes the pad timestamps the mode machine needs for its
// transition guards. *Classifier satisfies it.
type TouchTiming interface {
	LastPush() time.Time
	LastLift() time.Time
}

// Machine is the lamp's mode state machine. It owns the current color index
// and brightness and decides when a local color change must be propagated to
// the network. It is mutated only by Step, ApplyInbound, and
// ObserveBrightness, all called from the render loop.
type Machine struct {
	params   Params
	deviceID string
	rng      *rand.Rand

	mode              Mode
	modeStart         time.Time
	colorIndex        int
	baseBrightness    uint8
	currentBrightness uint8
	colorChanged      bool

	// code is the flicker code this lamp currently claims: the last one it
	// sent or adopted. Inbound codes equal to it are already applied.
	code flicker.Code
}

// NewMachine creates a machine starting in Idle at the given time. The rng is
// the nonce source for outbound flicker codes; callers seed it from the wall
// clock, tests seed it deterministically.
func NewMachine(params Params, deviceID string, rng *rand.Rand, now time.Time) *Machine {
	return &Machine{
		params:            params,
		deviceID:          deviceID,
		rng:               rng,
		mode:              ModeIdle,
		modeStart:         now,
		baseBrightness:    params.DefaultBrightness,
		currentBrightness: params.DefaultBrightness,
	}
}

// Step consumes one TouchEvent and applies the mode transition table.
// Exactly one event is consumed per render tick. Pairs not listed in the
// table, and TouchNone always, mutate nothing.
func (m *Machine) Step(ev TouchEvent, touch TouchTiming, now time.Time) Result {
	switch m.mode {
	case ModeSleep:
		if ev == TouchClick {
			return m.wake(now)
		}

	case ModeIdle:
		if ev == TouchClick {
			m.mode = ModeColorSelect
			m.modeStart = now
			m.currentBrightness = m.baseBrightness
			m.colorChanged = false
		}

	case ModeColorSelect:
		switch ev {
		case TouchClick:
			// Self-loop: advance the color wheel. modeStart is kept so
			// hold timing since entry is preserved; the click itself
			// refreshes lastPush, which is the hold reference.
			prev := m.colorIndex
			m.colorIndex = (m.colorIndex + 1) % m.params.NumColors
			m.colorChanged = true
			return Result{Cue: CueWipe, PrevColor: prev, Color: m.colorIndex}

		case TouchHold:
			// Only a hold whose push started after the entering press was
			// released qualifies, so the single long press that entered
			// this mode can not immediately promote to brightness select.
			if touch.LastLift().After(m.modeStart) {
				m.mode = ModeBrightnessSelect
				m.modeStart = now
				m.baseBrightness = m.params.MaxBrightness
				m.currentBrightness = m.params.MaxBrightness
			}

		case TouchUnhold:
			if now.Sub(touch.LastLift()) > m.params.ColorChangeWait {
				m.mode = ModeIdle
				m.modeStart = now
				if m.colorChanged {
					code := flicker.Code{
						Color:  m.colorIndex,
						Nonce:  flicker.NewNonce(m.rng),
						Device: m.deviceID,
					}
					m.code = code
					return Result{Cue: CueConverge, Color: m.colorIndex, Outbound: &code}
				}
				// Nothing changed: replay the current hue, no network effect.
				return Result{Cue: CueFill, Color: m.colorIndex}
			}
		}

	case ModeBrightnessSelect:
		switch ev {
		case TouchUnclick:
			// Commit whatever level the breathing animation had reached.
			m.baseBrightness = m.currentBrightness
			m.mode = ModeIdle
			m.modeStart = now

		case TouchHold:
			if now.Sub(m.modeStart) > m.params.BrightnessChangeWait {
				m.mode = ModeSleep
				m.modeStart = now
				m.baseBrightness = 0
				m.currentBrightness = 0
				return Result{Cue: CueBlank}
			}
		}
	}
	return Result{}
}

func (m *Machine) wake(now time.Time) Result {
	m.mode = ModeIdle
	m.modeStart = now
	m.baseBrightness = m.params.DefaultBrightness
	m.currentBrightness = m.params.DefaultBrightness
	return Result{Cue: CueFill, Color: m.colorIndex}
}

// ApplyInbound offers a remotely received flicker code to the machine. The
// code is adopted only while the lamp sits in Idle with no outbound send
// pending; an in-progress local gesture always wins over a network update.
// Codes equal to the currently claimed one, or with a color index outside the
// wheel, are ignored. Returns whether the code was adopted; the caller plays
// the receipt animation on true.
func (m *Machine) ApplyInbound(code flicker.Code, outboundPending bool, now time.Time) bool {
	if m.mode != ModeIdle || outboundPending {
		return false
	}
	if code.IsZero() || code == m.code {
		return false
	}
	if code.Color < 0 || code.Color >= m.params.NumColors {
		return false
	}
	m.colorIndex = code.Color
	m.code = code
	m.modeStart = now
	return true
}

// ObserveBrightness records the brightness level the brightness-select
// breathing animation rendered this tick, so a later Unclick commits it.
// Ignored outside brightness select.
func (m *Machine) ObserveBrightness(b uint8) {
	if m.mode == ModeBrightnessSelect {
		m.currentBrightness = b
	}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// ModeStart returns when the current mode was entered.
func (m *Machine) ModeStart() time.Time { return m.modeStart }

// ColorIndex returns the current position on the color wheel.
func (m *Machine) ColorIndex() int { return m.colorIndex }

// BaseBrightness returns the committed brightness level.
func (m *Machine) BaseBrightness() uint8 { return m.baseBrightness }

// CurrentBrightness returns the brightness level rendered most recently.
func (m *Machine) CurrentBrightness() uint8 { return m.currentBrightness }

// ColorChanged reports whether the color wheel moved in the current
// color-select session.
func (m *Machine) ColorChanged() bool { return m.colorChanged }

// Code returns the flicker code this lamp currently claims.
func (m *Machine) Code() flicker.Code { return m.code }
