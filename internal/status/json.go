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
	Connection    string     `json:"connection"`
	IDN           string     `json:"idn,omitempty"`
	TriggerMode   string     `json:"trigger_mode"`
	RunState      string     `json:"run_state"`
	SerialOpen    bool       `json:"serial_open"`
	LastSymbol    string     `json:"last_symbol,omitempty"`
	LastAction    string     `json:"last_action,omitempty"`
	LastResult    string     `json:"last_result,omitempty"`
	NoOps         int        `json:"symbols_dropped"`
	DroppedFrames int        `json:"garbage_frames"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Counts        CountsJSON `json:"symbol_counts"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of dispatched symbol counts.
type CountsJSON struct {
	B1S int `json:"b1s"`
	B1L int `json:"b1l"`
	B2S int `json:"b2s"`
	B2L int `json:"b2l"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SerialPort string `json:"serial_port"`
	Baud       int    `json:"baud"`
	ScopeAddr  string `json:"scope_addr"`
	HTTPPort   string `json:"http_port"`
	CaptureDir string `json:"capture_dir"`
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	inner := StatusInner{
		Connection:    string(snap.Dispatcher.Connection),
		IDN:           snap.Dispatcher.IDN,
		TriggerMode:   string(snap.Dispatcher.TriggerMode),
		RunState:      string(snap.Dispatcher.RunState),
		SerialOpen:    snap.SerialOpen,
		LastSymbol:    snap.LastSymbol,
		LastAction:    snap.LastAction,
		LastResult:    snap.LastResult,
		NoOps:         snap.NoOps,
		DroppedFrames: snap.DroppedFrames,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			B1S: snap.Counts.B1S,
			B1L: snap.Counts.B1L,
			B2S: snap.Counts.B2S,
			B2L: snap.Counts.B2L,
		},
		Config: ConfigJSON{
			SerialPort: snap.Config.SerialPort,
			Baud:       snap.Config.Baud,
			ScopeAddr:  snap.Config.ScopeAddr,
			HTTPPort:   snap.Config.HTTPPort,
			CaptureDir: snap.Config.CaptureDir,
		},
	}

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}
