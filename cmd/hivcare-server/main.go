package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hivcare/hivcare/internal/config"
	"github.com/hivcare/hivcare/internal/domain/appointment"
	"github.com/hivcare/hivcare/internal/domain/arv"
	"github.com/hivcare/hivcare/internal/domain/consultation"
	"github.com/hivcare/hivcare/internal/domain/identity"
	"github.com/hivcare/hivcare/internal/domain/medicalrecord"
	"github.com/hivcare/hivcare/internal/domain/notification"
	"github.com/hivcare/hivcare/internal/platform/auth"
	"github.com/hivcare/hivcare/internal/platform/db"
	"github.com/hivcare/hivcare/internal/platform/middleware"
	"github.com/hivcare/hivcare/internal/platform/session"
	"github.com/hivcare/hivcare/pkg/metrics"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hivcare-server",
		Short: "HIV care clinic API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			m := db.NewMigrator(pool, cfg.MigrationsDir)
			if err := m.EnsureMigrationsTable(ctx); err != nil {
				return err
			}
			n, err := m.Up(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("applied %d migration(s)\n", n)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			m := db.NewMigrator(pool, cfg.MigrationsDir)
			if err := m.EnsureMigrationsTable(ctx); err != nil {
				return err
			}
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Printf("%03d %-30s %s\n", s.Version, s.Name, state)
			}
			return nil
		},
	}

	cmd.AddCommand(upCmd)
	cmd.AddCommand(statusCmd)
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default facility",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			return db.Seed(ctx, pool, cfg.DefaultFacility)
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	jwtSecret := []byte(cfg.JWTSecret)

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Metrics
	col := metrics.NewCollector("hivcare")

	// Session store: Redis when configured, in-memory otherwise.
	var sessions session.Store
	if cfg.RedisURL != "" {
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		sessions = session.NewRedisStore(client)
		logger.Info().Msg("using redis session store")
	} else {
		sessions = session.NewMemoryStore()
		logger.Warn().Msg("REDIS_URL not set, sessions are in-memory and not shared")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.Metrics(col))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(session.Middleware(sessions))
	e.Use(auth.Middleware(jwtSecret))
	e.Use(middleware.Audit(logger))

	// Domain services
	userRepo := identity.NewUserRepoPG(pool)
	doctorRepo := identity.NewDoctorRepoPG(pool)
	identitySvc := identity.NewService(userRepo, doctorRepo, logger)

	notifRepo := notification.NewRepoPG(pool)
	notifSvc := notification.NewService(notifRepo, col, logger)

	apptRepo := appointment.NewRepoPG(pool)
	facilityRepo := appointment.NewFacilityRepoPG(pool)
	directory := appointment.NewIdentityDirectory(identitySvc)
	apptSvc := appointment.NewService(apptRepo, facilityRepo, directory, notifSvc, col, logger)

	consultSvc := consultation.NewService(apptSvc, col, logger)
	recordSvc := medicalrecord.NewService(apptRepo, cfg.MockMedicalData, logger)

	regimenRepo := arv.NewRegimenRepoPG(pool)
	patientRegimenRepo := arv.NewPatientRegimenRepoPG(pool)
	arvSvc := arv.NewService(regimenRepo, patientRegimenRepo, notifSvc, col, logger)

	// Routes
	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	authGroup := apiV1.Group("/auth")
	authGroup.Use(middleware.RateLimit(middleware.LoginRateLimitConfig()))
	identity.NewHandler(identitySvc, sessions, sessionTTL, jwtSecret, col, logger).RegisterRoutes(authGroup)

	appointment.NewHandler(apptSvc, logger).RegisterRoutes(apiV1.Group("/appointments"))
	consultation.NewHandler(consultSvc, logger).RegisterRoutes(apiV1.Group("/consultations"))
	medicalrecord.NewHandler(recordSvc, logger).RegisterRoutes(apiV1.Group("/medical-records"))
	arv.NewHandler(arvSvc, logger).RegisterRoutes(apiV1.Group("/arv"))
	notification.NewHandler(notifSvc, sessions, sessionTTL, logger).RegisterRoutes(apiV1.Group("/notifications"))

	// One-off maintenance endpoints; the migrate CLI covers the same DDL
	// for normal deployments.
	db.NewMaintenance(pool, logger).RegisterRoutes(apiV1)

	// Health and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Track pool usage for the db connections gauge.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			col.DBConnections.Set(float64(pool.Stat().AcquiredConns()))
		}
	}()

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
