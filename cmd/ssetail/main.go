// Command ssetail connects to an SSE endpoint and prints each event as it
// arrives. It is the library's reference consumer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/eventsource/client"
	"github.com/kbukum/eventsource/config"
	"github.com/kbukum/eventsource/logger"
	"github.com/kbukum/eventsource/observability"
	"github.com/kbukum/eventsource/sse"
	"github.com/kbukum/eventsource/transport"
	"github.com/kbukum/eventsource/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ssetail:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		urlFlag     = flag.String("url", "", "stream endpoint (overrides config)")
		configFlag  = flag.String("config", "", "path to config.yml")
		versionFlag = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.UserAgent())
		return nil
	}

	var cfg config.Config
	var loadOpts []config.LoaderOption
	if *configFlag != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(*configFlag))
	}
	if err := config.Load("ssetail", &cfg, loadOpts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if *urlFlag != "" {
		cfg.Stream.URL = *urlFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(&cfg.Logging)
	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metrics *observability.StreamMetrics
	if cfg.Telemetry.Enabled {
		tp, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    "ssetail",
			ServiceVersion: version.Version,
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()

		mp, err := observability.InitMeter(ctx, observability.MeterConfig{
			ServiceName:    "ssetail",
			ServiceVersion: version.Version,
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			Interval:       cfg.Telemetry.Interval,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mp.Shutdown(shutdownCtx)
		}()

		metrics, err = observability.NewStreamMetrics(observability.Meter("ssetail"))
		if err != nil {
			return err
		}
	}

	tr, err := transport.NewHTTP(cfg.Transport)
	if err != nil {
		return err
	}

	es, err := client.New(client.Config{
		URL:             cfg.Stream.URL,
		Headers:         cfg.Stream.Headers,
		WithCredentials: cfg.Stream.WithCredentials,
		Retry:           cfg.Stream.Retry,
		BackoffExponent: cfg.Stream.BackoffExponent,
		Transport:       tr,
		Logger:          log,
		Metrics:         metrics,
	})
	if err != nil {
		return err
	}

	es.OnOpen(func(ev sse.Event) {
		log.Info("stream open", logger.Fields(logger.FieldOrigin, ev.Origin))
	})
	es.OnError(func(ev sse.Event) {
		log.Warn("stream error", logger.Fields("reason", ev.Reason))
	})
	es.OnMessage(printEvent)
	for _, eventType := range flag.Args() {
		es.AddEventListener(eventType, printEvent)
	}

	if err := es.Start(ctx); err != nil {
		return err
	}

	// Wait for an interrupt or a terminal close (204, missing body).
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			es.Close()
			return nil
		case <-ticker.C:
			if es.ReadyState() == client.StateClosed {
				return nil
			}
		}
	}
}

func printEvent(ev sse.Event) {
	if ev.LastEventID != "" {
		fmt.Printf("[%s] (%s) %s\n", ev.Type, ev.LastEventID, ev.Data)
		return
	}
	fmt.Printf("[%s] %s\n", ev.Type, ev.Data)
}
