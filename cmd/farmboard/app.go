package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmboard/internal/config"
	"farmboard/internal/core"
	"farmboard/internal/logging"
	"farmboard/internal/seed"
	"farmboard/internal/telemetry"
)

type globalFlags struct {
	configPath      string
	logLevel        string
	logFormat       string
	latency         string
	tracePath       string
	expvar          bool
	otel            bool
	metricsTextfile string
}

// app is the per-invocation session shared by every subcommand.
type app struct {
	out    io.Writer
	errOut io.Writer
	flags  globalFlags

	cfg      *config.Config
	logger   *zap.Logger
	svc      *core.Service
	registry *prometheus.Registry
	ops      *core.OpStatsRecorder
	trace    *os.File
	traces   *core.JSONTracer
	otelStop func(context.Context) error
	seed     io.Closer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "farmboard",
		Short:         "Farm dashboard data core",
		Long:          "farmboard loads a farm dataset into an in-memory session and answers dashboard queries against it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "YAML config file (default $"+config.EnvConfigPath+")")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: json or console")
	pf.StringVar(&a.flags.latency, "latency", "", "fixed per-call latency, e.g. 0s or 250ms (default from config)")
	pf.StringVar(&a.flags.tracePath, "trace", "", "append one JSON line per operation to this file")
	pf.BoolVar(&a.flags.expvar, "op-stats", false, "print per-operation call counts to stderr on exit")
	pf.BoolVar(&a.flags.otel, "otel", false, "print OpenTelemetry spans to stderr on exit")
	pf.StringVar(&a.flags.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		newOverviewCmd(a),
		newMetricsCmd(a),
		newFieldsCmd(a),
		newCropsCmd(a),
		newActivitiesCmd(a),
		newReportCmd(a),
		newSeedCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	path := a.flags.configPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	} else {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.flags.logLevel != "" {
		a.cfg.Logging.Level = a.flags.logLevel
	}
	if a.flags.logFormat != "" {
		a.cfg.Logging.Format = a.flags.logFormat
	}
	if a.flags.latency != "" {
		a.cfg.Latency.Min, a.cfg.Latency.Max = a.flags.latency, a.flags.latency
	}
	if a.flags.tracePath != "" {
		a.cfg.Metrics.TracePath = a.flags.tracePath
	}
	if a.flags.metricsTextfile != "" {
		a.cfg.Metrics.TextfilePath = a.flags.metricsTextfile
	}
	if a.flags.expvar {
		a.cfg.Metrics.Expvar = true
	}
	if a.flags.otel {
		a.cfg.Metrics.OTel = true
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(a.cfg.Logging.Level, a.cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.logger = logger

	lo, hi, err := a.cfg.LatencyBounds()
	if err != nil {
		return err
	}

	src, closer, err := seed.Open(ctx, a.cfg.SeedSource())
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	a.seed = closer
	dataset, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load seed from %s: %w", src.Name(), err)
	}
	logger.Debug("seed loaded", zap.String("source", src.Name()))

	a.registry = prometheus.NewRegistry()
	prom, err := core.NewPrometheusMetricsRecorder(a.registry)
	if err != nil {
		return err
	}
	recorders := core.MultiMetricsRecorder{prom}
	if a.cfg.Metrics.Expvar {
		a.ops = core.NewOpStatsRecorder("")
		recorders = append(recorders, a.ops)
	}

	opts := []core.Option{
		core.WithLatency(core.Latency{Min: lo, Max: hi}),
		core.WithLogger(logger),
		core.WithMetricsRecorder(recorders),
		core.WithAuditRecorder(core.NewZapAuditRecorder(logger)),
	}
	var tracers core.MultiTracer
	if p := a.cfg.Metrics.TracePath; p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		a.trace = f
		a.traces = core.NewJSONTracer(f)
		tracers = append(tracers, a.traces)
	}
	if a.cfg.Metrics.OTel {
		tp, stop, err := telemetry.Init(ctx, telemetry.Config{Writer: a.errOut, Pretty: true})
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		a.otelStop = stop
		tracers = append(tracers, core.NewOTelTracer(tp))
	}
	if len(tracers) > 0 {
		opts = append(opts, core.WithTracer(tracers))
	}

	a.svc = core.NewService(dataset, opts...)
	return a.svc.RegisterRecordGauges(a.registry)
}

// close flushes exporters and releases resources. It is safe to call when
// open never ran.
func (a *app) close() error {
	var errs []error
	if a.registry != nil && a.cfg.Metrics.TextfilePath != "" {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.TextfilePath, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		}
	}
	if a.ops != nil {
		enc := json.NewEncoder(a.errOut)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a.ops.Snapshot()); err != nil {
			errs = append(errs, err)
		}
	}
	if a.otelStop != nil {
		errs = append(errs, a.otelStop(context.Background()))
	}
	if a.traces != nil {
		if err := a.traces.Err(); err != nil {
			errs = append(errs, fmt.Errorf("write trace file: %w", err))
		}
	}
	if a.trace != nil {
		errs = append(errs, a.trace.Close())
	}
	if a.seed != nil {
		errs = append(errs, a.seed.Close())
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) now() time.Time { return time.Now().UTC() }

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// decodePatch reads a JSON object into a patch, rejecting unknown members.
func decodePatch(raw string, dst any) error {
	if raw == "" {
		return errors.New("--set is required")
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode --set: %w", err)
	}
	return nil
}
