//go:build linux

package touch

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads a digital touch module (TTP223 and friends) through the
// Linux GPIO character device. The module's active-high output is mapped onto
// the raw reading scale the classifier thresholds against.
type RealReader struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealReader requests the touch module's signal line.
func NewRealReader(pin int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request touch pin %d: %w", pin, err)
	}

	return &RealReader{chip: chip, line: line}, nil
}

// Read returns the synthetic raw reading for the line's current level.
func (r *RealReader) Read() (int, error) {
	v, err := r.line.Value()
	if err != nil {
		return 0, fmt.Errorf("read touch pin: %w", err)
	}
	if v != 0 {
		return touchedReading, nil
	}
	return untouchedReading, nil
}

// Close releases the line and chip.
func (r *RealReader) Close() error {
	var errs []error
	if r.line != nil {
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close touch pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
