package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/grafmar/scope-footswitch-trigger/internal/status"
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
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Scope Footswitch</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; font-weight: bold; }
.connecting { color: orange; }
.disconnected { color: red; }
button { font-family: monospace; margin-right: 8px; }
</style>
</head>
<body>
<h1>Scope Footswitch</h1>

<h2>Instrument</h2>
<table>
<tr><th>Connection</th><td class="{{if eq (printf "%s" .Dispatcher.Connection) "CONNECTED"}}connected{{else if eq (printf "%s" .Dispatcher.Connection) "CONNECTING"}}connecting{{else}}disconnected{{end}}">{{.Dispatcher.Connection}}</td></tr>
<tr><th>Identity</th><td>{{orDash .Dispatcher.IDN}}</td></tr>
<tr><th>Trigger Mode</th><td>{{.Dispatcher.TriggerMode}}</td></tr>
<tr><th>Run State</th><td>{{.Dispatcher.RunState}}</td></tr>
<tr><th>Serial Port</th><td class="{{if .SerialOpen}}connected{{else}}disconnected{{end}}">{{if .SerialOpen}}open{{else}}closed{{end}}</td></tr>
</table>

<form method="post" action="/connect" style="display:inline"><button>Connect</button></form>
<form method="post" action="/disconnect" style="display:inline"><button>Disconnect</button></form>
<form method="post" action="/identify" style="display:inline"><input type="hidden" name="on" value="true"><button>Identify</button></form>

<h2>Dispatched Symbols</h2>
<table>
<tr><th>Pedal 1 short (single)</th><td>{{.Counts.B1S}}</td></tr>
<tr><th>Pedal 1 long (trigger mode)</th><td>{{.Counts.B1L}}</td></tr>
<tr><th>Pedal 2 short (run/stop)</th><td>{{.Counts.B2S}}</td></tr>
<tr><th>Pedal 2 long (capture)</th><td>{{.Counts.B2L}}</td></tr>
<tr><th>Dropped (not connected)</th><td>{{.NoOps}}</td></tr>
<tr><th>Garbage frames</th><td>{{.DroppedFrames}}</td></tr>
</table>

<h2>Last Dispatch</h2>
<table>
<tr><th>Symbol</th><td>{{orDash .LastSymbol}}</td></tr>
<tr><th>Action</th><td>{{orDash .LastAction}}</td></tr>
<tr><th>Result</th><td>{{orDash .LastResult}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Serial</th><td>{{.Config.SerialPort}} @ {{.Config.Baud}}</td></tr>
<tr><th>Scope</th><td>{{orDash .Config.ScopeAddr}}</td></tr>
<tr><th>Captures</th><td>{{.Config.CaptureDir}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">Metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has an Uptime() method but the template needs a field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
