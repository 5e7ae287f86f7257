// Command zoomengine builds and samples auto-zoom timelines from a
// recorded event log, and can capture a live one.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vedantwpatil/autozoom/internal/capture"
	"github.com/vedantwpatil/autozoom/internal/config"
	"github.com/vedantwpatil/autozoom/internal/diagnostics"
	"github.com/vedantwpatil/autozoom/internal/engine"
	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/videometa"
)

var (
	eventsPath string
	configPath string
	outPath    string
	videoPath  string
	duration   float64
	sampleT    float64
	verbose    bool
)

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func loadSettings() (config.Settings, error) {
	settings := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Settings{}, err
		}
		settings = loaded
	}
	if videoPath != "" {
		meta, err := videometa.Probe(videoPath)
		if err != nil {
			return config.Settings{}, fmt.Errorf("zoomengine: probe video: %w", err)
		}
		settings.ReferenceSize = config.ReferenceSize{Width: meta.Width, Height: meta.Height}
		if duration == 0 {
			duration = meta.Duration
		}
	}
	return settings, nil
}

func loadSession() (eventlog.Session, error) {
	f, err := os.Open(eventsPath)
	if err != nil {
		return eventlog.Session{}, fmt.Errorf("zoomengine: open %s: %w", eventsPath, err)
	}
	defer f.Close()
	return eventlog.Read(f, duration)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "zoomengine",
		Short: "auto-zoom timeline builder for recorded screen sessions",
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings YAML file (defaults to built-in defaults)")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "build a zoom timeline from an event log and print its keyframes as JSON",
		RunE:  runBuild,
	}
	buildCmd.Flags().StringVar(&eventsPath, "events", "", "path to a JSON Lines event log")
	buildCmd.Flags().Float64Var(&duration, "duration", 0, "session duration in seconds (overridden by --video's container duration if omitted)")
	buildCmd.Flags().StringVar(&outPath, "out", "", "write output here instead of stdout")
	buildCmd.Flags().StringVar(&videoPath, "video", "", "recorded video file; its resolution becomes the reference size for pixel-denominated settings")
	_ = buildCmd.MarkFlagRequired("events")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "build a timeline and print render parameters at a single timestamp",
		RunE:  runSample,
	}
	sampleCmd.Flags().StringVar(&eventsPath, "events", "", "path to a JSON Lines event log")
	sampleCmd.Flags().Float64Var(&duration, "duration", 0, "session duration in seconds (overridden by --video's container duration if omitted)")
	sampleCmd.Flags().Float64Var(&sampleT, "t", 0, "timestamp in seconds to sample")
	sampleCmd.Flags().StringVar(&videoPath, "video", "", "recorded video file; its resolution becomes the reference size for pixel-denominated settings")
	_ = sampleCmd.MarkFlagRequired("events")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "capture a live mouse/keyboard event log until interrupted",
		RunE:  runRecord,
	}
	recordCmd.Flags().StringVar(&outPath, "out", "session.jsonl", "where to write the captured event log")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "report host capability (CPU, memory)",
		RunE:  runInfo,
	}

	rootCmd.AddCommand(buildCmd, sampleCmd, recordCmd, infoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := newLogger()
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	session, err := loadSession()
	if err != nil {
		return err
	}

	tl, err := engine.BuildTimeline(session, settings, log)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("zoomengine: create %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(tl.Keyframes)
}

func runSample(cmd *cobra.Command, args []string) error {
	log := newLogger()
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	session, err := loadSession()
	if err != nil {
		return err
	}

	e, err := engine.New(session, settings, log)
	if err != nil {
		return err
	}

	params := e.RenderParams(sampleT)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(params)
}

func runRecord(cmd *cobra.Command, args []string) error {
	log := newLogger()
	rec := capture.NewRecorder(log)

	fmt.Fprintln(os.Stderr, "recording... press Ctrl+C to stop")
	rec.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	session := rec.Stop()

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("zoomengine: create %s: %w", outPath, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	if err := eventlog.Write(w, session); err != nil {
		return err
	}

	log.Info().Str("out", outPath).Float64("duration", session.Duration).Msg("zoomengine: session saved")
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	log := newLogger()
	report, err := diagnostics.Collect(context.Background())
	if err != nil {
		return err
	}
	report.Log(log)
	return nil
}
