package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/alerts"
	"github.com/Yasserbhb/BeeGuardAI/auth"
	"github.com/Yasserbhb/BeeGuardAI/internal/bus"
	"github.com/Yasserbhb/BeeGuardAI/internal/store"
	"github.com/Yasserbhb/BeeGuardAI/internal/telemetry"
	"github.com/Yasserbhb/BeeGuardAI/server"
	"github.com/Yasserbhb/BeeGuardAI/sessions"
	"github.com/common-nighthawk/go-figure"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

func run(ctx context.Context) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	displayAppname(c.GetAppName())

	db, err := store.Open(ctx, c.GetDBPath())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(ctx, db); err != nil {
		return err
	}
	s := store.New(db)

	shutdownTracing, err := telemetry.InitTracing(ctx, c.GetAppName(), c.GetOTLPEndpoint())
	if err != nil {
		return fmt.Errorf("[run] failed to initialise tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	sessionStore := sessions.NewInMemoryStore(sessions.WithMaxAge(c.GetMaxSessionAge()))
	telemetry.RegisterSessionGauge(sessionStore.Len)
	if interval := c.GetSessionSweepInterval(); interval > 0 {
		go sweepSessions(ctx, sessionStore, interval)
	}

	accounts, err := auth.NewAccountService(auth.Repos{
		Users:    s.Users(),
		Orgs:     s.Orgs(),
		Creator:  s,
		Sessions: sessionStore,
	})
	if err != nil {
		return err
	}

	notifiers := alerts.Notifiers{alerts.LogNotifier{}}
	if url := c.GetNatsURL(); url != "" {
		b, err := bus.New(url, nats.Name(c.GetAppName()))
		if err != nil {
			return fmt.Errorf("[run] failed to connect to NATS at %s: %w", url, err)
		}
		defer b.Close()
		notifiers = append(notifiers, alerts.NewBusNotifier(b, c.GetNatsAlertSubject()))
		log.Info().Str("subject", c.GetNatsAlertSubject()).Msg("publishing hornet alerts to NATS")
	}
	evaluator := alerts.NewEvaluator(s.Settings(), s.Readings(), notifiers)

	handler, err := server.New(c, accounts, sessionStore, server.Repos{
		APIKeys:  s.APIKeys(),
		Hives:    s.Hives(),
		Apiaries: s.Apiaries(),
		Readings: s.Readings(),
		Settings: s.Settings(),
	}, server.WithAlerts(evaluator))
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

// sweepSessions purges expired sessions every interval until ctx ends
func sweepSessions(ctx context.Context, store sessions.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.DeleteExpired(); n > 0 {
				log.Debug().Int("removed", n).Msg("expired sessions purged")
			}
		}
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
