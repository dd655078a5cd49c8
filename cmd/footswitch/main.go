// Command footswitch reads the two-pedal GPIO switch, classifies presses and
// writes wire symbols to the serial link. Press events are mirrored to MQTT
// for monitoring; the serial link is the control path.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grafmar/scope-footswitch-trigger/internal/gpio"
	"github.com/grafmar/scope-footswitch-trigger/internal/mqtt"
	"github.com/grafmar/scope-footswitch-trigger/internal/pedal"
	"github.com/grafmar/scope-footswitch-trigger/internal/serialio"
	"github.com/grafmar/scope-footswitch-trigger/internal/wire"
)

func main() {
	poll := flag.Duration("poll", 5*time.Millisecond, "GPIO polling interval")
	debounce := flag.Duration("debounce", 30*time.Millisecond, "Debounce duration")
	long := flag.Duration("long", 800*time.Millisecond, "Long-press threshold")
	port := flag.String("port", "/dev/ttyGS0", "Serial device for the host link")
	baud := flag.Int("baud", serialio.DefaultBaud, "Serial baud rate")
	broker := flag.String("broker", "off", `MQTT broker address ("off" disables telemetry)`)
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Telemetry heartbeat interval (0 to disable)")
	pin1 := flag.Int("pin1", gpio.DefaultPinPedal1, "BCM pin number for pedal 1")
	pin2 := flag.Int("pin2", gpio.DefaultPinPedal2, "BCM pin number for pedal 2")
	printState := flag.Bool("print-state", false, "Print current pedal state and exit")

	flag.Parse()

	if err := run(*poll, *debounce, *long, *port, *baud, *broker, *heartbeat, *pin1, *pin2, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll, debounce, long time.Duration, portName string, baud int, broker string, heartbeat time.Duration, pin1, pin2 int, printState bool) error {
	gpioReader, err := gpio.NewRealReader(pin1, pin2)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioReader.Close()

	if printState {
		p1, p2, err := gpioReader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("pedal1: %s, pedal2: %s\n", contactString(p1), contactString(p2))
		return nil
	}

	port, err := serialio.Open(portName, baud)
	if err != nil {
		return err
	}
	defer port.Close()

	var publisher mqtt.Publisher
	if broker != "" && broker != "off" {
		pub := mqtt.NewRealPublisher(broker)
		defer pub.Close()
		publisher = pub

		startup := mqtt.SystemEvent{
			Timestamp: time.Now(),
			Event:     "STARTUP",
			Retained:  true,
		}
		if err := pub.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	log.Printf("started: poll=%v debounce=%v long=%v port=%s baud=%d heartbeat=%v",
		poll, debounce, long, portName, baud, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(gpioReader, port, publisher, debounce, long, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(gpioReader gpio.Reader, out io.Writer, publisher mqtt.Publisher, debounce, long, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	board := pedal.NewBoard(debounce, long, startTime)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if publisher != nil {
				signalName := "UNKNOWN"
				if s == syscall.SIGINT {
					signalName = "SIGINT"
				} else if s == syscall.SIGTERM {
					signalName = "SIGTERM"
				}
				counts := board.Counts()
				event := mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "SHUTDOWN",
					Reason:    signalName,
					Uptime:    now().Sub(startTime),
					Counts:    &counts,
					Retained:  true,
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			t := now()
			p1, p2, err := gpioReader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			events := board.Process(pedal.Sample{
				Pedal1: p1,
				Pedal2: p2,
				Time:   t,
			})

			for _, event := range events {
				sym := wire.SymbolFor(event)
				log.Printf("event: pedal%d %s -> %s", event.Pedal, event.Kind, sym.Token())

				// The serial link is the control path. A write failure is
				// logged and the event is lost; the host resyncs nothing
				// because presses are fire-and-forget.
				if err := wire.EncodeTo(out, sym); err != nil {
					log.Printf("serial write error: %v", err)
				}

				if publisher != nil {
					if err := publisher.Publish(event); err != nil {
						log.Printf("publish error: %v", err)
					}
				}
			}

			if !board.IsBaselined() {
				continue
			}

			if hb := board.CheckHeartbeat(t, heartbeat); hb != nil && publisher != nil {
				log.Printf("heartbeat: uptime=%v b1_short=%d b1_long=%d b2_short=%d b2_long=%d",
					hb.Uptime, hb.Counts.Short1, hb.Counts.Long1, hb.Counts.Short2, hb.Counts.Long2)

				counts := hb.Counts
				hbEvent := mqtt.SystemEvent{
					Timestamp: hb.Timestamp,
					Event:     "HEARTBEAT",
					Uptime:    hb.Uptime,
					Counts:    &counts,
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func contactString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
