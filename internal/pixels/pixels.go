// Package pixels provides the LED strip abstraction: set a hue array, then
// present. The real implementation drives a serial-attached controller; the
// fake records frames for tests.
package pixels

// Pixel is one LED's target state: a color wheel hue and a brightness level.
// Saturation is always full on this hardware.
type Pixel struct {
	Hue        uint8
	Brightness uint8
}

// Frame is a full strip's worth of pixels, recomputed every render tick.
type Frame []Pixel

// Strip presents frames on an LED strip.
type Strip interface {
	// Render shows the frame. A frame shorter than the strip leaves the
	// remaining pixels dark.
	Render(f Frame) error

	// Close releases the underlying device.
	Close() error
}

// HueForIndex maps a color wheel index in [0, n) onto the 0-255 hue circle.
func HueForIndex(i, n int) uint8 {
	if n <= 0 {
		return 0
	}
	return uint8(i * 256 / n)
}

// RGB converts a pixel to its 8-bit RGB rendition, hue at full saturation
// scaled by brightness.
func (p Pixel) RGB() [3]uint8 {
	v := uint16(p.Brightness)
	if v == 0 {
		return [3]uint8{}
	}

	region := p.Hue / 43
	remainder := uint16(p.Hue-region*43) * 6

	q := uint8(v * (255 - remainder) / 255)
	t := uint8(v * remainder / 255)
	vv := uint8(v)

	switch region {
	case 0:
		return [3]uint8{vv, t, 0}
	case 1:
		return [3]uint8{q, vv, 0}
	case 2:
		return [3]uint8{0, vv, t}
	case 3:
		return [3]uint8{0, q, vv}
	case 4:
		return [3]uint8{t, 0, vv}
	default:
		return [3]uint8{vv, 0, q}
	}
}
