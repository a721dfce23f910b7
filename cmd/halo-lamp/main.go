// Command halo-lamp runs the firmware of a networked touch lamp: a render
// loop driving the touch classifier, mode machine, and LED animations, and a
// sync loop exchanging flicker codes with the coordination service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/halo-lamp/internal/anim"
	"github.com/sweeney/halo-lamp/internal/bridge"
	"github.com/sweeney/halo-lamp/internal/config"
	"github.com/sweeney/halo-lamp/internal/lamp"
	"github.com/sweeney/halo-lamp/internal/pixels"
	"github.com/sweeney/halo-lamp/internal/remote"
	"github.com/sweeney/halo-lamp/internal/status"
	"github.com/sweeney/halo-lamp/internal/telemetry"
	"github.com/sweeney/halo-lamp/internal/touch"
	"github.com/sweeney/halo-lamp/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file (empty for defaults)")
	printReading := flag.Bool("print-reading", false, "Read the touch pad once, print the raw value, and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	log := setupLogging(cfg.Log)

	if err := run(cfg, *printReading, log); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func setupLogging(cfg config.LogConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !cfg.Colors,
	}).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return log.Level(level)
}

func run(cfg config.Config, printReading bool, log zerolog.Logger) error {
	pad, err := touch.NewRealReader(cfg.Touch.Pin)
	if err != nil {
		return fmt.Errorf("init touch pad: %w", err)
	}
	defer pad.Close()

	if printReading {
		raw, err := pad.Read()
		if err != nil {
			return fmt.Errorf("read touch pad: %w", err)
		}
		touched := raw < cfg.Touch.Threshold
		fmt.Printf("reading: %d (touched: %v, threshold: %d)\n", raw, touched, cfg.Touch.Threshold)
		return nil
	}

	sample := sampleFunc(pad, cfg.Touch.Threshold, log)

	// Pad held at power-on means the owner wants the provisioning portal.
	// It blocks startup entirely; normal operation begins on release.
	if sample() {
		runProvisioning(sample, log)
	}

	var strip pixels.Strip
	if cfg.Pixels.Device != "" {
		strip, err = pixels.OpenSerialStrip(cfg.Pixels.Device, cfg.Pixels.Baud)
		if err != nil {
			return fmt.Errorf("init pixel strip: %w", err)
		}
	} else {
		log.Warn().Msg("no pixel device configured, frames will be discarded")
		strip = pixels.NopStrip{}
	}
	defer strip.Close()

	startTime := time.Now()
	rng := rand.New(rand.NewSource(startTime.UnixNano()))

	classifier := lamp.NewClassifier(cfg.Lamp.HoldThreshold.D())
	machine := lamp.NewMachine(lamp.Params{
		NumColors:            cfg.Lamp.NumColors,
		HoldThreshold:        cfg.Lamp.HoldThreshold.D(),
		ColorChangeWait:      cfg.Lamp.ColorChangeWait.D(),
		BrightnessChangeWait: cfg.Lamp.BrightnessChangeWait.D(),
		DefaultBrightness:    cfg.Lamp.DefaultBrightness,
		MaxBrightness:        cfg.Lamp.MaxBrightness,
	}, cfg.DeviceID, rng, startTime)

	engine := anim.NewEngine(anim.Config{
		NumPixels:           cfg.Pixels.Count,
		IdleBreathePeriod:   cfg.Anim.IdleBreathePeriod.D(),
		SelectBreathePeriod: cfg.Anim.SelectBreathePeriod.D(),
		BreatheFloor:        cfg.Anim.BreatheFloor,
		CircuitPeriod:       cfg.Anim.CircuitPeriod.D(),
		WipeFrameDelay:      cfg.Anim.WipeFrameDelay.D(),
		ConvergeFrames:      cfg.Anim.ConvergeFrames,
		ConvergeFrameDelay:  cfg.Anim.ConvergeFrameDelay.D(),
		FlashFrames:         cfg.Anim.FlashFrames,
	}, cfg.Lamp.NumColors, rng, nil)

	slot := &bridge.Slot{}

	tracker := status.NewTracker(startTime, status.Config{
		TickMs:       cfg.Lamp.Tick.D().Milliseconds(),
		HoldMs:       cfg.Lamp.HoldThreshold.D().Milliseconds(),
		SyncPeriodMs: cfg.Remote.Period.D().Milliseconds(),
		RemoteURL:    cfg.Remote.URL,
		DeviceID:     cfg.DeviceID,
		Broker:       cfg.MQTT.Broker,
		HTTPAddr:     cfg.HTTP.Addr,
		NumColors:    cfg.Lamp.NumColors,
		NumPixels:    cfg.Pixels.Count,
	})

	var publisher telemetry.Publisher = telemetry.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		p, err := telemetry.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, log)
		if err != nil {
			// Telemetry is best-effort; the lamp must light up regardless.
			log.Warn().Err(err).Msg("telemetry disabled: broker unreachable")
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	startup := telemetry.SystemEvent{
		Timestamp:  startTime,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warn().Err(err).Msg("failed to publish startup event")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	ticker := time.NewTicker(cfg.Lamp.Tick.D())
	defer ticker.Stop()
	g.Go(func() error {
		return renderLoop(ctx, loopDeps{
			classifier: classifier,
			machine:    machine,
			engine:     engine,
			strip:      strip,
			slot:       slot,
			tracker:    tracker,
			publisher:  publisher,
			sample:     sample,
			now:        time.Now,
			log:        log,
		}, ticker.C)
	})

	if cfg.Remote.URL != "" {
		client := remote.NewHTTPClient(cfg.Remote.URL, cfg.Remote.Timeout.D())
		syncer := remote.NewSyncer(client, slot, cfg.DeviceID, cfg.Remote.Period.D(), tracker, log)
		g.Go(func() error { return syncer.Run(ctx) })
	} else {
		log.Warn().Msg("no remote url configured, color sync disabled")
	}

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		g.Go(func() error {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http status server listening")
	}

	log.Info().
		Str("device", cfg.DeviceID).
		Dur("tick", cfg.Lamp.Tick.D()).
		Dur("sync_period", cfg.Remote.Period.D()).
		Msg("started")

	err = g.Wait()

	shutdown := telemetry.SystemEvent{
		Timestamp:  time.Now(),
		Event:      "SHUTDOWN",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", ""),
	}
	if perr := publisher.PublishSystem(shutdown); perr != nil {
		log.Warn().Err(perr).Msg("failed to publish shutdown event")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("shut down")
	return nil
}

// sampleFunc adapts the pad reader into the boolean sampler the classifier
// debounces over. Read errors count as untouched; the pad always answers.
func sampleFunc(pad touch.Reader, threshold int, log zerolog.Logger) func() bool {
	return func() bool {
		raw, err := pad.Read()
		if err != nil {
			log.Warn().Err(err).Msg("touch read error")
			return false
		}
		return raw < threshold
	}
}

// runProvisioning blocks until the pad is released. The captive portal this
// hands off to lives outside this daemon; holding the pad through boot is
// just the operator's signal to stay out of normal operation.
func runProvisioning(sample func() bool, log zerolog.Logger) {
	log.Info().Msg("touch held at power-on, entering provisioning mode")
	for sample() {
		time.Sleep(200 * time.Millisecond)
	}
	log.Info().Msg("provisioning mode exited")
}
