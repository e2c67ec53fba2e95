package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/anneal"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/cost"
	cerrors "github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/logging"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/placement"
)

func newRunCmd() *cobra.Command {
	def := DefaultConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Anneal the placement of a netlist file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			applyRunFlags(cmd.Flags(), &cfg)
			if err := ValidateConfig(&cfg); err != nil {
				return cerrors.WrapConfigurationError(err, "validate_config", "invalid configuration")
			}
			if cfg.NetlistPath == "" {
				return cerrors.WrapConfigurationError(ErrMissingNetlist, "validate_config", "no netlist given")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runAnneal(ctx, cmd, &cfg)
		},
	}

	f := cmd.Flags()
	f.String("netlist", "", "netlist file to place")
	f.String("checkpoint", "", "write the final placement to this parquet file")
	f.String("resume", "", "load a placement from this parquet file instead of shuffling")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address")
	f.String("log-format", def.LogFormat, "log format (json or console)")
	f.String("log-level", def.LogLevel, "log level")
	f.String("backend", def.Cost.Backend, "cost backend (scalar, batch or auto)")
	f.Int("batch-width", def.Cost.BatchWidth, "lanes per batch group")
	f.Int("workers", def.Anneal.Workers, "number of annealing workers")
	f.Int("swaps", def.Anneal.SwapsPerTemp, "swaps per worker per temperature step")
	f.Float64("temp", def.Anneal.StartTemp, "start temperature")
	f.Int("steps", def.Anneal.TempSteps, "temperature steps, -1 to run until moves stop paying off")
	f.Uint64("seed", def.Anneal.Seed, "random seed")
	return cmd
}

// applyRunFlags overrides cfg with every flag set on the command line.
// Flag types are fixed at registration, so the getters cannot fail.
func applyRunFlags(f *pflag.FlagSet, cfg *Config) {
	strs := map[string]*string{
		"netlist":      &cfg.NetlistPath,
		"checkpoint":   &cfg.CheckpointPath,
		"resume":       &cfg.ResumePath,
		"metrics-addr": &cfg.MetricsAddr,
		"log-format":   &cfg.LogFormat,
		"log-level":    &cfg.LogLevel,
		"backend":      &cfg.Cost.Backend,
	}
	for name, dst := range strs {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	ints := map[string]*int{
		"batch-width": &cfg.Cost.BatchWidth,
		"workers":     &cfg.Anneal.Workers,
		"swaps":       &cfg.Anneal.SwapsPerTemp,
		"steps":       &cfg.Anneal.TempSteps,
	}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	if f.Changed("temp") {
		cfg.Anneal.StartTemp, _ = f.GetFloat64("temp")
	}
	if f.Changed("seed") {
		cfg.Anneal.Seed, _ = f.GetUint64("seed")
	}
}

func runAnneal(ctx context.Context, cmd *cobra.Command, cfg *Config) error {
	logger, err := logging.NewLogger(logging.Config{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	nl, err := loadNetlist(cfg.NetlistPath)
	if err != nil {
		return err
	}
	logger.Info().
		Str("path", cfg.NetlistPath).
		Int("elements", nl.Len()).
		Int32("max_x", nl.MaxX()).
		Int32("max_y", nl.MaxY()).
		Msg("Netlist loaded")

	if err := nl.PlaceSequential(); err != nil {
		return err
	}
	if cfg.ResumePath != "" {
		n, err := placement.LoadFile(cfg.ResumePath, nl)
		if err != nil {
			return err
		}
		logger.Info().Str("path", cfg.ResumePath).Int("rows", n).Msg("Placement restored")
	} else if err := nl.Shuffle(rand.New(rand.NewPCG(cfg.Anneal.Seed, 0))); err != nil {
		return err
	}

	ev, err := cost.New(cfg.Cost)
	if err != nil {
		return err
	}
	a, err := anneal.New(nl, cost.Instrument(ev), cfg.Anneal, logger)
	if err != nil {
		return err
	}
	stats, err := a.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.CheckpointPath != "" {
		if err := placement.SaveFile(cfg.CheckpointPath, nl); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.CheckpointPath).Msg("Placement saved")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initial routing cost: %d\n", stats.InitialCost)
	fmt.Fprintf(out, "Final routing cost: %d\n", stats.FinalCost)
	return nil
}

func loadNetlist(path string) (*netlist.Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netlist: %w", err)
	}
	defer func() { _ = f.Close() }()
	return netlist.Parse(f)
}

//nolint:gocritic // Logger passed by value for simplicity
func startMetricsServer(addr string, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", addr).Msg("Starting metrics server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return srv
}
