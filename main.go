// ABOUTME: Entry point for the xyscope demo player
// ABOUTME: Draws a calibration picture and plays it to the oscilloscope through an audio backend
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/xyscope/xyscope/internal/config"
	"github.com/xyscope/xyscope/internal/ui"
	"github.com/xyscope/xyscope/internal/version"
	"github.com/xyscope/xyscope/pkg/scope"
	"github.com/xyscope/xyscope/pkg/sink"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	var (
		backend     = flag.String("backend", cfg.Backend, "Audio backend ("+strings.Join(sink.Backends(), ", ")+")")
		rate        = flag.Int("rate", cfg.SampleRate, "Sample rate in Hz")
		period      = flag.Int("frames-per-period", cfg.FramesPerPeriod, "Frames per audio period")
		dwell       = flag.Uint("dwell", 40, "Dwell of the center dot in frames")
		clearOnStop = flag.Bool("clear-on-stop", cfg.ClearOnStop, "Discard the drawing when playback stops")
		trace       = flag.Bool("trace", false, "Log every rasterizer step")
		logFile     = flag.String("log-file", "xyscope.log", "Log file path")
		noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	out, err := sink.New(*backend)
	if err != nil {
		log.Fatalf("Failed to create sink: %v", err)
	}

	session := scope.NewSession(scope.Config{
		Sink:            out,
		FramesPerPeriod: *period,
		MaxSamples:      cfg.MaxSamples,
		ClearOnStop:     *clearOnStop,
		Trace:           *trace,
		Logger:          log.Default(),
	})
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("Error closing session: %v", err)
		}
	}()

	demo := &demo{session: session, rate: *rate, dwell: *dwell}
	if err := demo.Reset(); err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}
	log.Printf("Starting %s on %s: %d frames at %dHz", version.String(), *backend, session.Stats().Frames, *rate)

	if useTUI {
		title := fmt.Sprintf("xyscope %s", version.Version)
		if _, err := ui.New(title, *backend, demo).Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
		return
	}

	if err := demo.Toggle(); err != nil {
		log.Printf("Failed to start playback: %v", err)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Printf("Shutdown signal received")
}

// demo drives the session from the TUI goroutine or main
type demo struct {
	session *scope.Session
	rate    int
	dwell   uint
}

func (d *demo) Stats() scope.Stats {
	return d.session.Stats()
}

func (d *demo) Toggle() error {
	if d.session.State() == scope.StateSealed {
		return d.session.Stop()
	}
	return d.session.Start(d.rate)
}

// Reset redraws the calibration square with a dot in the middle
func (d *demo) Reset() error {
	if err := d.session.Clear(); err != nil {
		return err
	}
	cmds := append(scope.TestPattern(), scope.Point{X: 100, Y: 100, Dwell: d.dwell})
	return d.session.DrawAll(cmds...)
}
