package remote

import (
	"context"

	"github.com/sweeney/halo-lamp/internal/flicker"
)

// FakeClient is a scripted coordination service for tests.
type FakeClient struct {
	// Code is returned by Send and Fetch when Err is nil.
	Code flicker.Code

	// Err, if set, fails every round trip.
	Err error

	// Sent records every code passed to Send.
	Sent []flicker.Code

	// Fetched records every device ID passed to Fetch.
	Fetched []string
}

// NewFakeClient creates a FakeClient answering with the given code.
func NewFakeClient(code flicker.Code) *FakeClient {
	return &FakeClient{Code: code}
}

// Send records the code and returns the scripted reply.
func (f *FakeClient) Send(_ context.Context, code flicker.Code) (flicker.Code, error) {
	if f.Err != nil {
		return flicker.Code{}, f.Err
	}
	f.Sent = append(f.Sent, code)
	return f.Code, nil
}

// Fetch records the device ID and returns the scripted reply.
func (f *FakeClient) Fetch(_ context.Context, deviceID string) (flicker.Code, error) {
	if f.Err != nil {
		return flicker.Code{}, f.Err
	}
	f.Fetched = append(f.Fetched, deviceID)
	return f.Code, nil
}
