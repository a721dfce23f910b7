package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event             string     `json:"event,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	Mode              string     `json:"mode"`
	ColorIndex        int        `json:"color_index"`
	BaseBrightness    uint8      `json:"base_brightness"`
	CurrentBrightness uint8      `json:"current_brightness"`
	Code              string     `json:"code,omitempty"`
	UptimeSeconds     int64      `json:"uptime_seconds"`
	StartTime         string     `json:"start_time"`
	Timestamp         string     `json:"timestamp"`
	Sync              SyncJSON   `json:"sync"`
	Config            ConfigJSON `json:"config"`
}

// SyncJSON is the JSON representation of sync round-trip counts.
type SyncJSON struct {
	Sent      int    `json:"sent"`
	Fetched   int    `json:"fetched"`
	Failures  int    `json:"failures"`
	LastSync  string `json:"last_sync,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs       int64  `json:"tick_ms"`
	HoldMs       int64  `json:"hold_ms"`
	SyncPeriodMs int64  `json:"sync_period_ms"`
	RemoteURL    string `json:"remote_url,omitempty"`
	DeviceID     string `json:"device_id"`
	Broker       string `json:"broker,omitempty"`
	HTTPAddr     string `json:"http_addr"`
	NumColors    int    `json:"num_colors"`
	NumPixels    int    `json:"num_pixels"`
}

func buildInner(snap Snapshot) StatusInner {
	mode := string(snap.Mode)
	if mode == "" {
		mode = "UNKNOWN"
	}

	sync := SyncJSON{
		Sent:      snap.Sync.Sent,
		Fetched:   snap.Sync.Fetched,
		Failures:  snap.Sync.Failures,
		LastError: snap.LastSyncError,
	}
	if !snap.LastSync.IsZero() {
		sync.LastSync = snap.LastSync.UTC().Format(time.RFC3339)
	}

	return StatusInner{
		Mode:              mode,
		ColorIndex:        snap.ColorIndex,
		BaseBrightness:    snap.BaseBrightness,
		CurrentBrightness: snap.CurrentBrightness,
		Code:              snap.Code,
		UptimeSeconds:     int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:         snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:         snap.Now.UTC().Format(time.RFC3339),
		Sync:              sync,
		Config: ConfigJSON{
			TickMs:       snap.Config.TickMs,
			HoldMs:       snap.Config.HoldMs,
			SyncPeriodMs: snap.Config.SyncPeriodMs,
			RemoteURL:    snap.Config.RemoteURL,
			DeviceID:     snap.Config.DeviceID,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
			NumColors:    snap.Config.NumColors,
			NumPixels:    snap.Config.NumPixels,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
