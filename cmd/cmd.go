package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/strompris-no/strompris-api/internal/pkg/area"
	"github.com/strompris-no/strompris-api/internal/pkg/config"
	"github.com/strompris-no/strompris-api/internal/pkg/forbruker"
	"github.com/strompris-no/strompris-api/internal/pkg/grid"
	"github.com/strompris-no/strompris-api/internal/pkg/hvakoster"
	"github.com/strompris-no/strompris-api/internal/pkg/hydropower"
	"github.com/strompris-no/strompris-api/internal/pkg/nve"
	"github.com/strompris-no/strompris-api/internal/pkg/prices"
	"github.com/strompris-no/strompris-api/internal/pkg/reservoir"
	"github.com/strompris-no/strompris-api/internal/pkg/server"
	"github.com/strompris-no/strompris-api/internal/pkg/spot"
	"github.com/strompris-no/strompris-api/internal/pkg/wizard"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// spotBaseOre anchors the simulated landing-page ticker.
const spotBaseOre = 95.0

// ServeCommand is the entry point for the API server command.
func ServeCommand(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if ctx.IsSet("port") {
		cfg.Port = ctx.Int("port")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	return run(ctx.Context, cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	logCfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.Level = level
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	if err := cfg.ValidateDeals(); err != nil {
		logger.Warn("deals feed disabled until credentials are provided", zap.Error(err))
	}

	priceClient := hvakoster.New(cfg.Upstream.HvakosterBaseURL)
	priceAggregator := prices.NewAggregator(priceClient)
	dealsClient := forbruker.New(cfg.Forbruker)
	nveClient := nve.New(cfg.Upstream.NVEBaseURL)
	reservoirAggregator := reservoir.NewAggregator(nveClient)
	gridClient := grid.New(cfg.Upstream.GridBaseURL)
	resolver := area.NewResolver(gridClient)

	srv := server.New(server.Deps{
		Prices:     priceAggregator,
		Hourly:     priceClient,
		Deals:      dealsClient,
		Reservoirs: reservoirAggregator,
		Hydropower: hydropower.NewAggregator(reservoirAggregator),
		Grids:      gridClient,
		Comparer:   wizard.NewComparer(resolver, priceAggregator, cfg.AssumedMonthlyConsumptionKwh),
		Spot:       spot.NewSimulator(spotBaseOre),
		Providers:  forbruker.StaticProviders(),
	})

	httpServer := &http.Server{
		Handler:      srv.Handler(),
		Addr:         fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("context done, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
