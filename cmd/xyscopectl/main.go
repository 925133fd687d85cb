// ABOUTME: Command-line control client for an xyscope drawing server
// ABOUTME: Sends draw and playback commands, finding the server via mDNS if needed
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/xyscope/xyscope/internal/client"
	"github.com/xyscope/xyscope/internal/config"
	"github.com/xyscope/xyscope/internal/discovery"
	"github.com/xyscope/xyscope/internal/version"
	"github.com/xyscope/xyscope/pkg/scope"
)

const usage = `usage: xyscopectl [flags] <command> [args]

commands:
  line x1 y1 x2 y2   draw a line (coordinates 0..200)
  point x y dwell    draw a dot held for dwell frames
  pattern            draw the calibration square
  clear              erase the drawing
  start [rate]       start playback (default: server rate)
  stop               stop playback
  stats              print session counters

flags:
`

func main() {
	serverAddr := flag.String("server", "", "Server address host:port (default: discover via mDNS)")
	timeout := flag.Duration("timeout", 5*time.Second, "Discovery and request timeout")
	verbose := flag.Bool("v", false, "Log connection details")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("configuration error: %v", err)
	}

	addr := *serverAddr
	if addr == "" {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		server, err := discovery.Lookup(ctx)
		cancel()
		if err != nil {
			fatalf("%v (use -server)", err)
		}
		addr = server.Addr()
	}

	c := client.NewClient(client.Config{
		ServerAddr: addr,
		Name:       cfg.DisplayName("xyscopectl"),
		Timeout:    *timeout,
	})
	if err := c.Connect(context.Background()); err != nil {
		fatalf("%v", err)
	}
	defer c.Close()

	if err := run(c, flag.Args()); err != nil {
		c.Close()
		fatalf("%v", err)
	}
}

// run executes one command
func run(c *client.Client, args []string) error {
	cmd, args := args[0], args[1:]

	switch cmd {
	case "line":
		v, err := parseUints(args, 4)
		if err != nil {
			return err
		}
		return c.DrawLine(v[0], v[1], v[2], v[3])

	case "point":
		v, err := parseUints(args, 3)
		if err != nil {
			return err
		}
		return c.DrawPoint(v[0], v[1], v[2])

	case "pattern":
		for _, edge := range scope.TestPattern() {
			line := edge.(scope.Line)
			if err := c.DrawLine(line.X1, line.Y1, line.X2, line.Y2); err != nil {
				return err
			}
		}
		return nil

	case "clear":
		return c.Clear()

	case "start":
		rate := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid sample rate %q", args[0])
			}
			rate = n
		}
		return c.Start(rate)

	case "stop":
		return c.Stop()

	case "stats":
		stats, err := c.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("session:  %s\n", stats.SessionID)
		fmt.Printf("state:    %s\n", stats.State)
		fmt.Printf("frames:   %d (capacity %d)\n", stats.Frames, stats.Capacity)
		fmt.Printf("rate:     %d Hz\n", stats.SampleRate)
		fmt.Printf("played:   %d frames, %d loops\n", stats.FramesPlayed, stats.Loops)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseUints(args []string, n int) ([]uint, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	out := make([]uint, n)
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", arg)
		}
		out[i] = uint(v)
	}
	return out, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "xyscopectl: "+format+"\n", args...)
	os.Exit(1)
}
