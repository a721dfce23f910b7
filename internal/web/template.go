package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/halo-lamp/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"modeOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Halo Lamp</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.idle { color: green; font-weight: bold; }
.sleep { color: #888; }
.select { color: orange; font-weight: bold; }
.err { color: red; }
</style>
</head>
<body>
<h1>Halo Lamp</h1>

<h2>Lamp</h2>
<table>
<tr><th>Mode</th><td class="{{if eq .Mode "IDLE"}}idle{{else if eq .Mode "SLEEP"}}sleep{{else}}select{{end}}">{{modeOrUnknown .Mode}}</td></tr>
<tr><th>Color index</th><td>{{.ColorIndex}} / {{.Config.NumColors}}</td></tr>
<tr><th>Base brightness</th><td>{{.BaseBrightness}}</td></tr>
<tr><th>Current brightness</th><td>{{.CurrentBrightness}}</td></tr>
<tr><th>Flicker code</th><td>{{if .Code}}{{.Code}}{{else}}&mdash;{{end}}</td></tr>
</table>

<h2>Sync</h2>
<table>
<tr><th>Sent</th><td>{{.Sync.Sent}}</td></tr>
<tr><th>Fetched</th><td>{{.Sync.Fetched}}</td></tr>
<tr><th>Failures</th><td>{{.Sync.Failures}}</td></tr>
<tr><th>Last round</th><td>{{.LastSync}}</td></tr>
{{if .LastError}}<tr><th>Last error</th><td class="err">{{.LastError}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime}}</td></tr>
<tr><th>Device ID</th><td>{{.Config.DeviceID}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Sync period</th><td>{{.Config.SyncPeriodMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> &middot; <a href="/metrics">Metrics</a></p>
</body>
</html>`

// templateData flattens a snapshot for the template.
type templateData struct {
	Mode              string
	ColorIndex        int
	BaseBrightness    uint8
	CurrentBrightness uint8
	Code              string
	Sync              status.SyncCounts
	LastSync          string
	LastError         string
	Uptime            time.Duration
	StartTime         string
	Config            status.Config
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := templateData{
		Mode:              string(snap.Mode),
		ColorIndex:        snap.ColorIndex,
		BaseBrightness:    snap.BaseBrightness,
		CurrentBrightness: snap.CurrentBrightness,
		Code:              snap.Code,
		Sync:              snap.Sync,
		LastError:         snap.LastSyncError,
		Uptime:            snap.Uptime(),
		StartTime:         snap.StartTime.UTC().Format(time.RFC3339),
		Config:            snap.Config,
	}
	if snap.LastSync.IsZero() {
		data.LastSync = "never"
	} else {
		data.LastSync = snap.LastSync.UTC().Format(time.RFC3339)
	}
	indexTmpl.Execute(w, data)
}
