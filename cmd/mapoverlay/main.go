package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "mapoverlay"
)

const usageText = `Usage:
  mapoverlay [view]              open the terminal map window
  mapoverlay exec <command>...   run map commands against the world scene and exit
  mapoverlay version

The config file mapoverlay.cfg.json is read from $MAPOVERLAY_CONFIG_DIR,
or the working directory when unset.`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	mode := "view"
	if len(args) > 0 {
		mode = strings.ToLower(args[0])
		args = args[1:]
	}

	switch mode {
	case "version":
		fmt.Printf("%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
		return 0
	case "view", "exec":
	default:
		fmt.Fprintln(os.Stderr, usageText)
		return 2
	}

	configDir := os.Getenv("MAPOVERLAY_CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(configDir, mode == "exec")
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return 1
	}
	defer a.shutdown()

	if mode == "exec" {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "No commands provided.")
			return 2
		}
		for _, line := range a.execLines(ctx, args) {
			fmt.Println(line)
		}
		return 0
	}

	if err := a.runView(ctx); err != nil && err != context.Canceled {
		a.log.Error("Map window failed", "error", err)
		return 1
	}
	return 0
}
