// Package web provides the HTTP control and status surface for the
// scope-host daemon.
package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grafmar/scope-footswitch-trigger/internal/dispatch"
	"github.com/grafmar/scope-footswitch-trigger/internal/status"
)

// Controller is the subset of the dispatcher the HTTP handlers drive.
// *dispatch.Dispatcher satisfies it.
type Controller interface {
	Connect(addr string) (string, error)
	Disconnect()
	Identify(on bool) dispatch.Outcome
	Status() dispatch.State
}

// Server serves the status page and control endpoints over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	ctrl       Controller
}

// New creates a Server reading state from the tracker and driving the
// controller. gatherer may be nil to disable the /metrics endpoint.
func New(addr string, tracker *status.Tracker, ctrl Controller, gatherer prometheus.Gatherer) *Server {
	s := &Server{tracker: tracker, ctrl: ctrl}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/connect", s.handleConnect)
	mux.HandleFunc("/disconnect", s.handleDisconnect)
	mux.HandleFunc("/identify", s.handleIdentify)
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	addr := r.FormValue("addr")
	if addr == "" {
		addr = s.tracker.Snapshot().Config.ScopeAddr
	}
	if addr == "" {
		http.Error(w, "no instrument address configured", http.StatusBadRequest)
		return
	}

	idn, err := s.ctrl.Connect(addr)
	s.tracker.SetDispatcher(s.ctrl.Status())
	if err != nil {
		log.Printf("web: connect %s failed: %v", addr, err)
		http.Error(w, "connect failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(idn + "\n"))
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.ctrl.Disconnect()
	s.tracker.SetDispatcher(s.ctrl.Status())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("disconnected\n"))
}

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	on, err := strconv.ParseBool(r.FormValue("on"))
	if err != nil {
		http.Error(w, "on must be a boolean", http.StatusBadRequest)
		return
	}

	out := s.ctrl.Identify(on)
	s.tracker.SetDispatcher(s.ctrl.Status())
	switch out.Result {
	case dispatch.ResultDone:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(out.Action + "\n"))
	case dispatch.ResultNoOp:
		http.Error(w, out.Reason, http.StatusConflict)
	default:
		http.Error(w, out.Reason, http.StatusBadGateway)
	}
}
