// ABOUTME: Entry point for the xyscope drawing server
// ABOUTME: Parses CLI flags and serves a render session to remote clients
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

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xyscope/xyscope/internal/config"
	"github.com/xyscope/xyscope/internal/server"
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
		port        = flag.Int("port", cfg.Port, "WebSocket server port")
		name        = flag.String("name", "", "Server friendly name (default: hostname-xyscope-server)")
		backend     = flag.String("backend", cfg.Backend, "Audio backend ("+strings.Join(sink.Backends(), ", ")+")")
		rate        = flag.Int("rate", cfg.SampleRate, "Default sample rate in Hz")
		period      = flag.Int("frames-per-period", cfg.FramesPerPeriod, "Frames per audio period")
		clearOnStop = flag.Bool("clear-on-stop", cfg.ClearOnStop, "Discard the drawing when playback stops")
		logFile     = flag.String("log-file", "xyscope-server.log", "Log file path")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		trace       = flag.Bool("trace", false, "Log every rasterizer step")
		noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
		useTUI      = flag.Bool("tui", false, "Show a status TUI instead of streaming logs")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if *useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	serverName := *name
	if serverName == "" {
		serverName = cfg.DisplayName("xyscope-server")
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

	log.Printf("Starting xyscope server: %s on port %d (%s backend)", serverName, *port, *backend)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Logging to: %s", *logFile)

	srvConfig := server.Config{
		Port:       *port,
		Name:       serverName,
		EnableMDNS: !*noMDNS,
		Debug:      *debug,
		SampleRate: *rate,
	}

	var srv *server.Server
	if *useTUI {
		var prog *tea.Program
		srvConfig.OnClients = func(names []string) {
			if prog != nil {
				prog.Send(ui.ClientsMsg(names))
			}
		}
		srv = server.New(srvConfig, session)
		prog = ui.New(fmt.Sprintf("%s (port %d)", serverName, *port), *backend, srv)

		go func() {
			if _, err := prog.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			srv.Stop()
		}()
	} else {
		srv = server.New(srvConfig, session)
		log.Printf("Press Ctrl-C to stop")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
