package anim

import "github.com/sweeney/halo-lamp/internal/pixels"

// Maximum hue perturbation at the start of a convergence ripple.
const ripplePerturb = 64

// Fill presents the whole strip at one color and brightness.
func (e *Engine) Fill(strip pixels.Strip, colorIndex int, brightness uint8) error {
	return strip.Render(e.fill(pixels.HueForIndex(colorIndex, e.numColors), brightness))
}

// Blank turns every pixel off immediately, with no animation.
func (e *Engine) Blank(strip pixels.Strip) error {
	return strip.Render(make(pixels.Frame, e.cfg.NumPixels))
}

// Wipe sweeps the strip from the previous color to the new one, one pixel per
// frame. It blocks the render loop for NumPixels frames; that is intentional,
// frame timing of the steady renderer resumes only when the sweep is done.
func (e *Engine) Wipe(strip pixels.Strip, fromColor, toColor int, brightness uint8) error {
	fromHue := pixels.HueForIndex(fromColor, e.numColors)
	toHue := pixels.HueForIndex(toColor, e.numColors)

	f := e.fill(fromHue, brightness)
	for i := 0; i < e.cfg.NumPixels; i++ {
		f[i] = pixels.Pixel{Hue: toHue, Brightness: brightness}
		if err := strip.Render(f); err != nil {
			return err
		}
		e.sleep(e.cfg.WipeFrameDelay)
	}
	return nil
}

// Converge ripples the strip toward the target color: every pixel starts at a
// random offset from the target hue and the offsets decay linearly to zero
// over ConvergeFrames frames. Blocks for its full duration.
func (e *Engine) Converge(strip pixels.Strip, colorIndex int, brightness uint8) error {
	target := pixels.HueForIndex(colorIndex, e.numColors)
	frames := e.cfg.ConvergeFrames
	if frames < 2 {
		frames = 2
	}

	f := make(pixels.Frame, e.cfg.NumPixels)
	for frame := 0; frame < frames; frame++ {
		decay := 1 - float64(frame)/float64(frames-1)
		for i := range f {
			offset := e.rng.Intn(2*ripplePerturb+1) - ripplePerturb
			hue := target + uint8(int(float64(offset)*decay))
			f[i] = pixels.Pixel{Hue: hue, Brightness: brightness}
		}
		if err := strip.Render(f); err != nil {
			return err
		}
		e.sleep(e.cfg.ConvergeFrameDelay)
	}
	return nil
}

// Receipt announces a remotely received color: a few frames of fully random
// hues, then the same ripple convergence as a local confirmation.
func (e *Engine) Receipt(strip pixels.Strip, colorIndex int, brightness uint8) error {
	f := make(pixels.Frame, e.cfg.NumPixels)
	for frame := 0; frame < e.cfg.FlashFrames; frame++ {
		for i := range f {
			f[i] = pixels.Pixel{Hue: uint8(e.rng.Intn(256)), Brightness: brightness}
		}
		if err := strip.Render(f); err != nil {
			return err
		}
		e.sleep(e.cfg.ConvergeFrameDelay)
	}
	return e.Converge(strip, colorIndex, brightness)
}
