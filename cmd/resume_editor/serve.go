package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/logging"
	"github.com/jonathan/resume-editor/internal/server"
	"github.com/jonathan/resume-editor/internal/sink"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveConfigPath string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor HTTP server",
	Long: `Start an HTTP server that hosts editing sessions.

Committed documents are written to PostgreSQL when DATABASE_URL is set and
published to Redis when REDIS_URL is set. Bearer authentication is enabled
when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to a JSON or YAML config file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	log := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCfg := server.Config{
		Addr:         cfg.Addr(),
		CORSOrigin:   cfg.CORSOrigin,
		HistoryLimit: cfg.HistoryLimit,
		Logger:       log,
	}

	var publishers sink.Multi

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		srvCfg.Resumes = database
		publishers = append(publishers, sink.NewPostgresPublisher(database, cfg.Revisions))
		log.Info().Msg("PostgreSQL sink enabled")
	}

	if cfg.RedisURL != "" {
		redisPub, err := sink.NewRedisPublisher(cfg.RedisURL, cfg.LatestTTL())
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisPub.Close() //nolint:errcheck
		publishers = append(publishers, redisPub)
		log.Info().Msg("Redis sink enabled")
	}

	jwtService, err := loadJWT(log)
	if err != nil {
		return err
	}
	srvCfg.JWT = jwtService

	var dispatcher *sink.Dispatcher
	if len(publishers) > 0 {
		dispatcher = sink.NewDispatcher(publishers, sink.DispatcherConfig{
			Timeout:    cfg.SinkTimeout(),
			MaxPending: cfg.SinkQueue,
			Logger:     log,
		})
		srvCfg.Changes = dispatcher
	}

	srv := server.New(srvCfg)

	var changes runner
	if dispatcher != nil {
		changes = dispatcher
	}
	if err := runServices(ctx, srv, changes); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	if dispatcher != nil {
		delivered, dropped := dispatcher.Stats()
		log.Info().Int("delivered", delivered).Int("dropped", dropped).Msg("Change sink drained")
	}
	return nil
}

// runner is a long-running component stopped by cancelling its context.
type runner interface {
	Run(ctx context.Context) error
}

// runServices runs srv until ctx ends or either component fails. The
// dispatcher is only stopped once srv has returned, so commits made by
// requests still in flight during shutdown are delivered.
func runServices(ctx context.Context, srv, dispatcher runner) error {
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stopDispatch()
		return srv.Run(gCtx)
	})
	if dispatcher != nil {
		g.Go(func() error {
			return dispatcher.Run(dispatchCtx)
		})
	}
	return g.Wait()
}

// loadJWT returns nil when JWT_SECRET is not set, which leaves sessions
// anonymous.
func loadJWT(log zerolog.Logger) (*server.JWTService, error) {
	if os.Getenv("JWT_SECRET") == "" {
		log.Warn().Msg("JWT_SECRET not set, sessions are anonymous")
		return nil, nil
	}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT config: %w", err)
	}
	return server.NewJWTService(jwtCfg), nil
}
