package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"home_thermostat/internal/handlers"
	"home_thermostat/internal/logger"
	"home_thermostat/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command: the HTTP API plus the optional built-in scheduler.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, if control.interval is set, the control loop",
		Long: `Serve the admin and status API on the configured port.

When control.interval is 0 (the default) the control loop is left to an
external trigger such as cron calling 'thermostat update'. Otherwise every
tick refreshes the rooms and updates the thermostat.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.closeLogged()

	h := handlers.NewHandler(a.services, a.log)
	srv := server.New(a.cfg.Port, h.InitRoutes())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Infow("server_listening", "addr", srv.Addr())
		return srv.Run()
	})
	if interval := a.cfg.Control.Interval; interval > 0 {
		g.Go(func() error {
			a.log.Infow("scheduler_started", "interval", interval.String())
			a.services.Scheduler.Run(gctx, interval)
			return nil
		})
	}
	g.Go(func() error {
		return waitForShutdown(gctx, srv, a.log)
	})
	return g.Wait()
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// lets in-flight requests complete.
func waitForShutdown(ctx context.Context, srv *server.Server, log *logger.Logger) error {
	<-ctx.Done()
	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
