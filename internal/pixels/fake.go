package pixels

// FakeStrip records rendered frames for test assertions.
type FakeStrip struct {
	// Frames contains every frame passed to Render, in order.
	Frames []Frame

	// RenderError, if set, is returned by Render.
	RenderError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeStrip creates a FakeStrip.
func NewFakeStrip() *FakeStrip {
	return &FakeStrip{}
}

// Render records a copy of the frame.
func (f *FakeStrip) Render(frame Frame) error {
	if f.RenderError != nil {
		return f.RenderError
	}
	cp := make(Frame, len(frame))
	copy(cp, frame)
	f.Frames = append(f.Frames, cp)
	return nil
}

// Close marks the strip as closed.
func (f *FakeStrip) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently rendered frame, or nil if none.
func (f *FakeStrip) Last() Frame {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[len(f.Frames)-1]
}

// Reset clears recorded frames.
func (f *FakeStrip) Reset() {
	f.Frames = nil
	f.Closed = false
	f.RenderError = nil
}
