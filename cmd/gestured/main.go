// Command gestured recognizes multi-finger touchpad gestures and runs the
// shell command bound to each one, as a single no-subcommand binary.
package main

import (
	"flag"
	"fmt"
	"os"

	"gestured/internal/catalog"
	"gestured/internal/config"
	"gestured/internal/device"
	"gestured/internal/dispatch"
	"gestured/internal/engine"
	"gestured/internal/logging"
	"gestured/internal/window"
)

func main() {
	configFile := flag.String("config-file", "", "Path to the gesture config file (default: $XDG_CONFIG_HOME/gest/config.yaml or $HOME/.config/gest/config.yaml)")
	logFile := flag.String("log-file", "", "Redirect log output to this file instead of stderr")

	var verbosity int
	flag.BoolFunc("verbose", "Increase log verbosity (repeatable: -verbose -verbose)", func(string) error {
		verbosity++
		return nil
	})

	flag.Parse()

	log, err := logging.New(verbosity, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to set up logging:", err)
		os.Exit(1)
	}

	path, err := config.ResolvePath(*configFile)
	if err != nil {
		log.Error().Err(err).Msg("could not resolve config path")
		os.Exit(1)
	}

	cat, err := catalog.Load(path, log)
	if err != nil {
		log.Error().Str("component", "catalog").Err(err).Msg("could not load config")
		os.Exit(1)
	}

	devicePath, err := device.Discover()
	if err != nil {
		log.Error().Str("component", "device").Err(err).Msg("no touchpad found")
		os.Exit(1)
	}

	size, err := device.ReadGeometry(devicePath)
	if err != nil {
		log.Error().Str("component", "device").Err(err).Msg("could not read touchpad geometry")
		os.Exit(1)
	}

	source, err := device.Open(devicePath)
	if err != nil {
		log.Error().Str("component", "device").Err(err).Msg("could not open touchpad")
		os.Exit(1)
	}
	defer source.Close()

	catalogHandle := config.NewHandle(cat)
	watcher, err := config.NewWatcher(path, catalogHandle, log)
	if err != nil {
		log.Warn().Str("component", "config").Err(err).Msg("could not start config watcher, hot-reload disabled")
	} else {
		defer watcher.Close()
		go watcher.Run()
	}

	windowHandle := window.NewHandle()
	monitor, err := window.NewMonitor(windowHandle, log)
	if err != nil {
		log.Warn().Str("component", "window").Err(err).Msg("could not connect to X11, application-scoped gestures disabled")
	} else {
		go monitor.Run()
	}

	executor := dispatch.New(log)
	eng := engine.New(size, catalogHandle, windowHandle, executor, log)

	log.Info().Str("component", "device").Str("path", devicePath).
		Uint16("width", size.Width).Uint16("height", size.Height).
		Msg("listening for gestures")

	if err := source.Run(eng.UpdateState); err != nil {
		log.Error().Str("component", "device").Err(err).Msg("touchpad event source stopped")
		os.Exit(1)
	}
}
