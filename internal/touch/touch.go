// Package touch provides touch pad sampling with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package touch

// Reader samples the touch pad.
type Reader interface {
	// Read returns the pad's current raw reading. Lower readings mean a
	// firmer touch; a reading below the calibrated threshold counts as
	// touched. Out-of-range values are accepted as-is.
	Read() (int, error)

	// Close releases pad resources.
	Close() error
}

// Default calibration, matching the capacitive pad this firmware shipped with.
const (
	DefaultPin       = 4  // BCM pin of the touch module's signal line
	DefaultThreshold = 35 // readings below this are touched

	// Synthetic raw levels for digital touch modules, which only give a
	// yes/no signal: active maps well below threshold, inactive well above.
	touchedReading   = 0
	untouchedReading = 75
)
