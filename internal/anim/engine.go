// Package anim renders lamp state into pixel frames. The per-tick Frame
// function is pure in (mode, elapsed, color, brightness); the one-shot
// sequences in oneshot.go intentionally block the render loop for their fixed
// duration.
package anim

import (
	"math"
	"math/rand"
	"time"

	"github.com/sweeney/halo-lamp/internal/lamp"
	"github.com/sweeney/halo-lamp/internal/pixels"
)

// Config holds the animation timing constants.
type Config struct {
	NumPixels int

	// IdleBreathePeriod is the breathing cycle length in Idle.
	IdleBreathePeriod time.Duration
	// SelectBreathePeriod is the faster cycle driving live brightness
	// feedback in brightness select.
	SelectBreathePeriod time.Duration
	// BreatheFloor is the low point of the breathing curve as a fraction
	// of base brightness.
	BreatheFloor float64
	// CircuitPeriod is how long the select-mode chaser pixel takes for one
	// lap of the strip.
	CircuitPeriod time.Duration

	// WipeFrameDelay is the per-frame delay of the color wipe.
	WipeFrameDelay time.Duration
	// ConvergeFrames and ConvergeFrameDelay size the ripple convergence.
	ConvergeFrames     int
	ConvergeFrameDelay time.Duration
	// FlashFrames is the randomized flash prefix of the receipt sequence.
	FlashFrames int
}

// Engine renders frames for a strip of Config.NumPixels pixels on a color
// wheel of numColors entries.
type Engine struct {
	cfg       Config
	numColors int
	rng       *rand.Rand
	sleep     func(time.Duration)
}

// NewEngine creates an engine. The rng drives the randomized hue flashes;
// sleep paces the one-shot sequences and may be nil for time.Sleep (tests
// pass a no-op).
func NewEngine(cfg Config, numColors int, rng *rand.Rand, sleep func(time.Duration)) *Engine {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Engine{cfg: cfg, numColors: numColors, rng: rng, sleep: sleep}
}

// Frame computes the steady per-mode frame for one render tick. The second
// return value is the brightness actually rendered, which the render loop
// feeds back to the machine in brightness select.
func (e *Engine) Frame(mode lamp.Mode, elapsed time.Duration, colorIndex int, base uint8) (pixels.Frame, uint8) {
	hue := pixels.HueForIndex(colorIndex, e.numColors)

	switch mode {
	case lamp.ModeIdle:
		b := breathe(base, elapsed, e.cfg.IdleBreathePeriod, e.cfg.BreatheFloor)
		return e.fill(hue, b), b

	case lamp.ModeColorSelect:
		f := e.fill(hue, base)
		f[e.circuitPos(elapsed, 0)] = pixels.Pixel{Hue: uint8(e.rng.Intn(256)), Brightness: base}
		return f, base

	case lamp.ModeBrightnessSelect:
		b := breathe(base, elapsed, e.cfg.SelectBreathePeriod, e.cfg.BreatheFloor)
		f := e.fill(hue, b)
		// Half-lap phase shift keeps the chaser visually continuous across
		// the color-select handoff.
		f[e.circuitPos(elapsed, 0.5)] = pixels.Pixel{Hue: uint8(e.rng.Intn(256)), Brightness: b}
		return f, b

	default: // Sleep
		return make(pixels.Frame, e.cfg.NumPixels), 0
	}
}

// fill returns a frame with every pixel at the given hue and brightness.
func (e *Engine) fill(hue, brightness uint8) pixels.Frame {
	f := make(pixels.Frame, e.cfg.NumPixels)
	for i := range f {
		f[i] = pixels.Pixel{Hue: hue, Brightness: brightness}
	}
	return f
}

// circuitPos maps elapsed time onto a chaser position, phase in laps.
func (e *Engine) circuitPos(elapsed time.Duration, phase float64) int {
	if e.cfg.CircuitPeriod <= 0 || e.cfg.NumPixels == 0 {
		return 0
	}
	lap := float64(elapsed)/float64(e.cfg.CircuitPeriod) + phase
	frac := lap - math.Floor(lap)
	pos := int(frac * float64(e.cfg.NumPixels))
	return pos % e.cfg.NumPixels
}

// breathe follows a cosine curve between floor*base and base, phase anchored
// so elapsed zero renders at full base.
func breathe(base uint8, elapsed, period time.Duration, floor float64) uint8 {
	if period <= 0 {
		return base
	}
	phase := 2 * math.Pi * float64(elapsed) / float64(period)
	level := floor + (1-floor)*(0.5+0.5*math.Cos(phase))
	return uint8(level*float64(base) + 0.5)
}
