package serve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/chirp-dev/chirp/db"
	"github.com/chirp-dev/chirp/internal/config"
	"github.com/chirp-dev/chirp/internal/router"
)

const shutdownTimeout = 10 * time.Second

const (
	portFlag        = "port"
	autoMigrateFlag = "auto-migrate"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on PORT (default 3000).

The database is taken from DB_* (or TEST_DB_* when APP_ENV=test). With
--auto-migrate or AUTO_MIGRATE=true pending SQL migrations are applied
before the server starts listening.`,
		RunE: run,
	}

	cmd.Flags().String(portFlag, "", "Port to listen on, overrides PORT")
	cmd.Flags().Bool(autoMigrateFlag, false, "Apply pending migrations on startup, overrides AUTO_MIGRATE")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed(portFlag) {
		cfg.Port, _ = cmd.Flags().GetString(portFlag)
	}

	if cmd.Flags().Changed(autoMigrateFlag) {
		cfg.AutoMigrate, _ = cmd.Flags().GetBool(autoMigrateFlag)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	gdb, err := db.ConnectDatabase(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		migrator, err := db.NewMigrator(gdb, db.MigrationsFS())
		if err != nil {
			return err
		}

		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	r, err := router.NewRouter(router.Options{
		DB:             gdb,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Printf("Listening on :%s (%s)", cfg.Port, cfg.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
