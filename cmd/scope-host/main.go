// Command scope-host reads footswitch symbols from the serial link and drives
// an oscilloscope over SCPI. It serves a status and control page over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/grafmar/scope-footswitch-trigger/internal/dispatch"
	"github.com/grafmar/scope-footswitch-trigger/internal/metrics"
	"github.com/grafmar/scope-footswitch-trigger/internal/scope"
	"github.com/grafmar/scope-footswitch-trigger/internal/serialio"
	"github.com/grafmar/scope-footswitch-trigger/internal/status"
	"github.com/grafmar/scope-footswitch-trigger/internal/web"
	"github.com/grafmar/scope-footswitch-trigger/internal/wire"
)

func main() {
	port := flag.String("port", "", "Serial device of the footswitch link")
	baud := flag.Int("baud", serialio.DefaultBaud, "Serial baud rate")
	listPorts := flag.Bool("list-ports", false, "List serial ports and exit")
	scopeAddr := flag.String("scope", "", "Oscilloscope address (host or host:port)")
	connect := flag.Bool("connect", false, "Connect to the oscilloscope at startup")
	captureDir := flag.String("capture-dir", ".", "Directory for screenshot and setup captures")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	color := flag.Bool("color", true, "Capture screenshots in color")
	inverted := flag.Bool("inverted", false, "Capture screenshots with inverted background")
	loadSetup := flag.String("load-setup", "", "Setup file to upload to the scope after connecting")

	flag.Parse()

	if *listPorts {
		if err := printPorts(); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		return
	}

	if *port == "" {
		log.Fatal("fatal: -port is required (see -list-ports)")
	}

	if err := run(*port, *baud, *scopeAddr, *connect, *captureDir, *httpAddr, *color, *inverted, *loadSetup); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func printPorts() error {
	ports, err := serialio.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

func run(portName string, baud int, scopeAddr string, connect bool, captureDir, httpAddr string, color, inverted bool, loadSetup string) error {
	port, err := serialio.Open(portName, baud)
	if err != nil {
		return err
	}
	defer port.Close()

	dispatcher := dispatch.New(scope.NewRealLink(), dispatch.Config{
		CaptureDir: captureDir,
		Screenshot: scope.ScreenshotOptions{Color: color, Inverted: inverted},
	})

	tracker := status.NewTracker(time.Now(), status.Config{
		SerialPort: portName,
		Baud:       baud,
		ScopeAddr:  scopeAddr,
		HTTPPort:   httpAddr,
		CaptureDir: captureDir,
	})
	tracker.SetSerialOpen(true)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	if connect {
		if scopeAddr == "" {
			return fmt.Errorf("-connect requires -scope")
		}
		idn, err := dispatcher.Connect(scopeAddr)
		if err != nil {
			// Not fatal: the web UI can retry.
			log.Printf("connect %s failed: %v", scopeAddr, err)
		} else {
			log.Printf("connected: %s", idn)
			collector.Connect()
		}
		tracker.SetDispatcher(dispatcher.Status())
	}

	if loadSetup != "" {
		data, err := os.ReadFile(loadSetup)
		if err != nil {
			return fmt.Errorf("read setup file: %w", err)
		}
		out := dispatcher.LoadSetup(data)
		if out.Result != dispatch.ResultDone {
			log.Printf("load setup: %s (%s)", out.Result, out.Reason)
		} else {
			log.Printf("loaded setup from %s (%d bytes)", loadSetup, len(data))
		}
	}

	if httpAddr != "" {
		srv := web.New(httpAddr, tracker, dispatcher, registry)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: port=%s baud=%d scope=%s captures=%s", portName, baud, scopeAddr, captureDir)

	// The decoder owns the serial reader; symbols cross to the dispatch loop
	// on a channel so the decoder's drop counter is read from one goroutine.
	frames := make(chan frame)
	decErr := make(chan error, 1)
	go func() {
		dec := wire.NewDecoder(port)
		for {
			sym, err := dec.Next()
			if err != nil {
				decErr <- err
				return
			}
			frames <- frame{sym: sym, dropped: dec.Dropped()}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(dispatcher, tracker, collector, frames, decErr, sigCh)
}

// frame carries one decoded symbol plus the decoder's running drop count.
type frame struct {
	sym     wire.Symbol
	dropped int
}

func runLoop(dispatcher *dispatch.Dispatcher, tracker *status.Tracker, collector *metrics.Collector, frames <-chan frame, decErr <-chan error, sig <-chan os.Signal) error {
	lastDropped := 0

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			dispatcher.Disconnect()
			tracker.SetDispatcher(dispatcher.Status())
			return nil

		case err := <-decErr:
			tracker.SetSerialOpen(false)
			dispatcher.Disconnect()
			tracker.SetDispatcher(dispatcher.Status())
			return fmt.Errorf("serial link lost: %w", err)

		case f := <-frames:
			if f.dropped != lastDropped {
				collector.DecodeErrors(f.dropped - lastDropped)
				lastDropped = f.dropped
				tracker.SetDroppedFrames(f.dropped)
			}

			wasConnected := dispatcher.Status().Connection == dispatch.Connected
			out := dispatcher.Dispatch(f.sym)
			state := dispatcher.Status()

			tracker.RecordSymbol(f.sym, out)
			tracker.SetDispatcher(state)

			switch out.Result {
			case dispatch.ResultDone:
				collector.SymbolDispatched(f.sym)
				log.Printf("dispatch %s: %s", f.sym.Token(), out.Action)
			case dispatch.ResultNoOp:
				collector.SymbolDropped()
				log.Printf("dispatch %s: dropped (%s)", f.sym.Token(), out.Reason)
			case dispatch.ResultFailed:
				if wasConnected && state.Connection == dispatch.Disconnected {
					collector.LinkFailure()
				}
				log.Printf("dispatch %s: %s failed: %s", f.sym.Token(), out.Action, out.Reason)
			}
		}
	}
}
