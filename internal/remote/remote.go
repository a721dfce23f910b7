// Package remote talks to the coordination service that fans color changes
// out across the lamp network. The service is a black box: one GET per sync
// period, carrying either the pending outbound flicker code or just the
// device ID, answered with the service's current code for this device.
package remote

import (
	"context"

	"github.com/sweeney/halo-lamp/internal/flicker"
)

// Client performs one round trip against the coordination service.
type Client interface {
	// Send announces a locally confirmed code and returns the service's
	// current code for this device.
	Send(ctx context.Context, code flicker.Code) (flicker.Code, error)

	// Fetch returns the service's current code for this device.
	Fetch(ctx context.Context, deviceID string) (flicker.Code, error)
}

// Query parameter names of the coordination service.
const (
	paramCode   = "fc"
	paramDevice = "id"
)

// response is the service's reply body.
type response struct {
	FC string `json:"fc"`
}
