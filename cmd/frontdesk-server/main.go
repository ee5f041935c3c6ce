package main

import (
	"context"
	crypto_rand "crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/frontdesk/frontdesk/internal/config"
	"github.com/frontdesk/frontdesk/internal/domain/account"
	"github.com/frontdesk/frontdesk/internal/domain/billing"
	"github.com/frontdesk/frontdesk/internal/domain/dashboard"
	"github.com/frontdesk/frontdesk/internal/domain/doctor"
	"github.com/frontdesk/frontdesk/internal/domain/documents"
	"github.com/frontdesk/frontdesk/internal/domain/patient"
	"github.com/frontdesk/frontdesk/internal/domain/payment"
	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/auth"
	"github.com/frontdesk/frontdesk/internal/platform/db"
	"github.com/frontdesk/frontdesk/internal/platform/middleware"
	"github.com/frontdesk/frontdesk/internal/platform/printout"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "frontdesk-server",
		Short: "Hospital front-office API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(userCmd())

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
			return withPool(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				migrator := db.NewMigrator(pool, migrationsDir(cmd, cfg))
				count, err := migrator.Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Printf("Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				migrator := db.NewMigrator(pool, migrationsDir(cmd, cfg))
				statuses, err := migrator.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}

				fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				fmt.Println("---------- ---------------------------------------- ---------- --------------------")
				for _, s := range statuses {
					status := "pending"
					appliedAt := ""
					if s.Applied {
						status = "applied"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
				}
				return nil
			})
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func migrationsDir(cmd *cobra.Command, cfg *config.Config) string {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir
	}
	return cfg.MigrationsDir
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or reset the admin, user1 and user2 accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			adminPassword, _ := cmd.Flags().GetString("admin-password")
			userPassword, _ := cmd.Flags().GetString("user-password")
			return withPool(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				svc := account.NewService(account.NewUserRepo(pool))
				users, err := svc.SeedDefaults(ctx, account.DefaultAccounts(adminPassword, userPassword))
				if err != nil {
					return err
				}
				for _, u := range users {
					fmt.Printf("%-10s %s\n", u.Username, u.Role)
				}
				return nil
			})
		},
	}
	seedCmd.Flags().String("admin-password", "admin123", "Password for the admin account")
	seedCmd.Flags().String("user-password", "user123", "Password for user1 and user2")
	cmd.AddCommand(seedCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "passwd <username> <password>",
		Short: "Change an account password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				svc := account.NewService(account.NewUserRepo(pool))
				if err := svc.ChangePassword(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("Password updated for %s.\n", args[0])
				return nil
			})
		},
	})

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			roleName, _ := cmd.Flags().GetString("role")
			role, err := auth.ParseRole(roleName)
			if err != nil {
				return err
			}
			return withPool(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				svc := account.NewService(account.NewUserRepo(pool))
				u, err := svc.CreateUser(ctx, username, password, role)
				if err != nil {
					return err
				}
				fmt.Printf("Created %s (%s).\n", u.Username, u.Role)
				return nil
			})
		},
	}
	createCmd.Flags().String("username", "", "Login name")
	createCmd.Flags().String("password", "", "Password (at least 6 characters)")
	createCmd.Flags().String("role", string(auth.RoleUser1), "Admin, User1 or User2")
	cmd.AddCommand(createCmd)

	return cmd
}

// withPool loads the configuration, opens a pool for the duration of fn and
// closes it afterwards.
func withPool(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, cfg, pool)
}

func newLogger(dev bool) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.IsDev())
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	key, random, err := resolveSessionKey(cfg.SessionKey())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve session key")
	}
	if random {
		logger.Warn().Msg("SESSION_SECRET not set; using a random per-process session key")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Session revocation
	var revoker auth.Revoker
	if cfg.RedisURL != "" {
		client, err := auth.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		revoker = auth.NewRedisRevoker(client)
		logger.Info().Msg("using redis session revocation list")
	} else {
		mem := auth.NewMemoryRevoker(10 * time.Minute)
		defer mem.Close()
		revoker = mem
	}

	e, err := newServer(cfg, pool, key, revoker, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
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

// newServer wires middleware, the session gate and every domain handler.
func newServer(cfg *config.Config, pool *pgxpool.Pool, key []byte, revoker auth.Revoker, logger zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	// Accounts and sessions
	accountSvc := account.NewService(account.NewUserRepo(pool))
	sessions, err := auth.NewManager(auth.ManagerConfig{
		Store:   accountSvc,
		Key:     key,
		TTL:     cfg.SessionTTL,
		Secure:  cfg.IsProduction(),
		Revoker: revoker,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	}
	e.Use(auth.Gate(sessions))
	e.Use(middleware.Audit(logger))

	// Public pages and health
	e.Static("/static", cfg.StaticDir)
	e.File("/login", filepath.Join(cfg.StaticDir, "login.html"))
	e.File("/favicon.ico", filepath.Join(cfg.StaticDir, "favicon.ico"))
	e.File("/logo.jpg", filepath.Join(cfg.StaticDir, "logo.jpg"))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool, logger))

	loginLimit := middleware.RateLimit(middleware.LoginRateLimitConfig(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst))
	auth.NewHandler(sessions, logger).RegisterRoutes(e.Group("/auth"), loginLimit)

	api := e.Group("")
	printer := printout.New(cfg.FacilityName)

	account.NewHandler(accountSvc).RegisterRoutes(api)

	// Patients draw identifiers from the row-locked counter inside the
	// insert transaction.
	ids := patient.NewAllocator(db.NewCounter(pool))
	patientSvc := patient.NewService(patient.NewRepo(pool), ids, pool, logger)
	patient.NewHandler(patientSvc, printer).RegisterRoutes(api)

	doctor.NewHandler(doctor.NewService(doctor.NewRepo(pool))).RegisterRoutes(api)

	billing.NewHandler(billing.NewService(billing.NewRepo(pool)), printer).RegisterRoutes(api)

	docSvc := documents.NewService(
		documents.NewTemplateRepo(pool),
		documents.NewReportRepo(pool),
		documents.NewPatientReader(pool),
	)
	documents.NewHandler(docSvc, printer).RegisterRoutes(api)

	payment.NewHandler(payment.NewService(payment.NewRepo(pool), logger)).RegisterRoutes(api)

	dashboard.NewHandler(dashboard.NewService(dashboard.NewStore(pool))).RegisterRoutes(api)

	return e, nil
}

// resolveSessionKey returns the configured session key or, when none is
// configured, a random 32-byte key. The second return value is true when a
// random key was generated.
func resolveSessionKey(configured []byte) ([]byte, bool, error) {
	if len(configured) > 0 {
		return configured, false, nil
	}
	key := make([]byte, config.MinSessionSecretBytes)
	if _, err := crypto_rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("failed to generate random session key: %w", err)
	}
	return key, true, nil
}
