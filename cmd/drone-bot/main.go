package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	agentlogic "github.com/skovsen/D2D_ScanLogic"
	"github.com/skovsen/D2D_ScanLogic/internal/config"
	"github.com/skovsen/D2D_ScanLogic/internal/logging"
	"github.com/skovsen/D2D_ScanLogic/internal/protocol"
	"github.com/skovsen/D2D_ScanLogic/internal/recorder"
	"github.com/skovsen/D2D_ScanLogic/internal/telemetry"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func main() {
	configDir := pflag.String("config", ".", "directory holding "+config.FileName)
	pflag.String("log-level", "", "override logLevel (debug, info, warn, error)")
	pflag.Parse()

	if err := viper.BindPFlag("logLevel", pflag.Lookup("log-level")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(os.Stderr, cfg.LogLevel)
	if err := run(context.Background(), cfg, os.Stdin, os.Stdout, os.Stderr, log); err != nil {
		log.Error().Err(err).Msg("Match aborted")
		os.Exit(1)
	}
	log.Info().Msg("Match over")
}

// run plays a whole match: catalog first, then one snapshot in, one command per drone out.
// Metrics, when enabled, go to diag.
func run(ctx context.Context, cfg config.Config, in io.Reader, out, diag io.Writer, log zerolog.Logger) error {
	dec := protocol.NewDecoder(in)
	enc := protocol.NewEncoder(out)

	cat, err := dec.ReadCatalog()
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}
	log.Info().Int("creatures", cat.Len()).Msg("Catalog loaded")

	pol, err := agentlogic.NewPolicy(cat, cfg.Policy)
	if err != nil {
		return err
	}
	reg := agentlogic.NewRegistry(pol, log)

	var rec *recorder.Recorder
	if cfg.Recorder.Enabled {
		rec, err = recorder.Start(cfg.Recorder.Driver, cfg.Recorder.DSN, cat.Len(), log)
		if err != nil {
			return err
		}
		defer func(r *recorder.Recorder) {
			if err := r.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close recorder")
			}
		}(rec)
	}

	var meters *telemetry.Meters
	if cfg.Telemetry.Enabled {
		provider, err := telemetry.NewProvider(ctx, diag, cfg.Telemetry.Interval)
		if err != nil {
			return err
		}
		otel.SetMeterProvider(provider)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("Failed to flush metrics")
			}
		}()

		meters, err = telemetry.New(provider)
		if err != nil {
			return err
		}
	}

	for {
		snap, err := dec.ReadTurn()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading turn: %w", err)
		}

		start := time.Now()
		cmds, err := reg.Decide(snap)
		if err != nil {
			return err
		}
		if err := enc.WriteTurn(cmds); err != nil {
			return err
		}
		took := time.Since(start)

		if meters != nil {
			meters.RecordTurn(ctx, cmds, took)
		}
		if rec != nil {
			if err := rec.RecordTurn(snap, cmds, reg); err != nil {
				// the match goes on without the recording
				log.Warn().Err(err).Int("turn", snap.Turn).Msg("Recorder failed, disabling")
				rec = nil
			}
		}
	}
}
