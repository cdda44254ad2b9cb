package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/amonks/remindme/feedback"
	"github.com/amonks/remindme/internal/config"
	"github.com/amonks/remindme/internal/db"
	"github.com/amonks/remindme/server"
	"github.com/amonks/remindme/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Records are kept in Postgres when DATABASE_URL (or server.database-url) is
set, and in memory otherwise.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres tables if they do not exist",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :PORT)")
}

// services holds the domain services and the connection backing them.
type services struct {
	versions *version.Service
	feedback *feedback.Service
	conn     *sql.DB
}

func (s *services) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// openServices connects to Postgres when a database URL is configured and
// falls back to in-memory repositories otherwise.
func openServices(ctx context.Context, cfg config.Server, logger *log.Logger) (*services, error) {
	if cfg.DatabaseURL == "" {
		logger.Printf("no database configured, records are kept in memory")
		return &services{
			versions: version.NewService(version.NewMemoryRepository(), version.ServiceOptions{}),
			feedback: feedback.NewService(feedback.NewMemoryRepository(), feedback.ServiceOptions{}),
		}, nil
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	versionRepo := version.NewPostgresRepository(conn)
	feedbackRepo := feedback.NewPostgresRepository(conn)
	if err := ensureSchema(ctx, versionRepo, feedbackRepo); err != nil {
		conn.Close()
		return nil, err
	}
	return &services{
		versions: version.NewService(versionRepo, version.ServiceOptions{}),
		feedback: feedback.NewService(feedbackRepo, feedback.ServiceOptions{}),
		conn:     conn,
	}, nil
}

type schemaOwner interface {
	EnsureSchema(ctx context.Context) error
}

func ensureSchema(ctx context.Context, owners ...schemaOwner) error {
	for _, owner := range owners {
		if err := owner.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}

// newServer builds the API server from configuration.
func newServer(cfg config.Server, svc *services, logger *log.Logger) (*server.Server, error) {
	interval, err := cfg.KeepAliveInterval()
	if err != nil {
		return nil, err
	}
	return server.NewServer(server.ServerOptions{
		Versions:          svc.versions,
		Feedback:          svc.feedback,
		AdminSecret:       []byte(cfg.AdminSecret),
		CORSOrigins:       cfg.CORSOrigins,
		KeepAliveInterval: interval,
		Logger:            logger,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := openServices(cmd.Context(), cfg.Server, serverLogger)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv, err := newServer(cfg.Server, svc, serverLogger)
	if err != nil {
		return err
	}
	if cfg.Server.AdminSecret == "" {
		serverLogger.Printf("ADMIN_SECRET is not set, admin routes are open")
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr()
	}
	return srv.Serve(addr)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	svc, err := openServices(cmd.Context(), cfg.Server, serverLogger)
	if err != nil {
		return err
	}
	defer svc.Close()
	fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
	return nil
}
