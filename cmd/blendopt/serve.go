package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terraplan/blendopt/internal/repository/tables"
	"github.com/terraplan/blendopt/internal/scheduler"
	"github.com/terraplan/blendopt/internal/server/handlers"
	"github.com/terraplan/blendopt/internal/server/router"
	"github.com/terraplan/blendopt/internal/service/blend"
	"github.com/terraplan/blendopt/internal/service/report"
	"github.com/terraplan/blendopt/pkg/logger"
)

var (
	serveFlagsA *scenarioFlags
	serveFlagsB *scenarioFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the solver over HTTP for the dashboard layer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		repo, err := tables.FromConfig(ctx, cfg, "", logger.Named(baseLog, "tables"))
		if err != nil {
			return err
		}

		pipeline := blend.NewPipeline(logger.Named(baseLog, "blend"))

		solveTimeout := func(parent context.Context) (context.Context, context.CancelFunc) {
			if cfg.Solver.Timeout > 0 {
				return context.WithTimeout(parent, cfg.Solver.Timeout)
			}
			return context.WithCancel(parent)
		}

		handler := handlers.NewSolveHandler(repo, pipeline, solveTimeout, logger.Named(baseLog, "handlers.solve"))
		engine := router.New(handler, logger.Named(baseLog, "router"))

		if cfg.Refresh.CronSchedule != "" {
			writer := report.NewWriter(cfg.Data.OutDir, logger.Named(baseLog, "report"))
			refresh := func(refreshCtx context.Context) error {
				scenarios := []struct {
					tag   string
					flags *scenarioFlags
				}{{"A", serveFlagsA}, {"B", serveFlagsB}}

				for _, sc := range scenarios {
					result, err := runScenario(refreshCtx, sc.flags.params(sc.tag), "")
					if err != nil {
						writer.Cleanup(sc.tag)
						return err
					}
					if err := writer.Write(result); err != nil {
						writer.Cleanup(sc.tag)
						return err
					}
				}
				return nil
			}

			sched, err := scheduler.New(cfg.Refresh.CronSchedule, cfg.Refresh.Timezone, refresh, logger.Named(baseLog, "scheduler"))
			if err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
		}

		srv := &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			baseLog.Info("server starting", zap.String("port", cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		baseLog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			baseLog.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveFlagsA = registerScenarioFlags(serveCmd, "a")
	serveFlagsB = registerScenarioFlags(serveCmd, "b")
}
