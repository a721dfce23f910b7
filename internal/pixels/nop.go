package pixels

// NopStrip discards frames. Used when no pixel device is configured, so the
// daemon can run headless on a development machine.
type NopStrip struct{}

// Render discards the frame.
func (NopStrip) Render(Frame) error { return nil }

// Close does nothing.
func (NopStrip) Close() error { return nil }
