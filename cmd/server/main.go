package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/liqpay-client/internal/adapters/liqpay"
	"github.com/kevin07696/liqpay-client/internal/adapters/postgres"
	"github.com/kevin07696/liqpay-client/internal/adapters/secrets"
	"github.com/kevin07696/liqpay-client/internal/config"
	callbackHandler "github.com/kevin07696/liqpay-client/internal/handlers/callback"
	httpclient "github.com/kevin07696/liqpay-client/pkg/http"
	"github.com/kevin07696/liqpay-client/pkg/middleware"
	"github.com/kevin07696/liqpay-client/pkg/observability"
	"github.com/kevin07696/liqpay-client/pkg/security"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	logger.Info("Starting callback service",
		zap.String("version", "0.1.0"),
		zap.Int("port", cfg.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection pool
	dbPool, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbPool.Close()

	logger.Info("Database connection established",
		zap.String("database", cfg.Database.Database),
	)

	// Merchant key pair
	creds, err := resolveCredentials(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to resolve merchant credentials", zap.Error(err))
	}
	logger.Info("Merchant credentials resolved",
		zap.Bool("sandbox", creds.Sandbox()),
	)

	portLogger := security.NewZapLogger(logger)
	verifier := liqpay.NewVerifier(creds)
	store := postgres.NewCallbackRepository(dbPool, portLogger)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	handler := callbackHandler.NewHandler(verifier, store, portLogger)

	// Router
	rateLimiter := middleware.NewRateLimiter(10, 20)
	defer rateLimiter.Shutdown()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(rateLimiter.Middleware)
	handler.Register(r)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics and health endpoints on a separate port
	gatewayProbe := httpclient.NewHTTPClient(httpclient.DefaultClientConfig(), 5*time.Second)
	healthChecker := observability.NewHealthChecker(dbPool).
		WithGatewayCheck(cfg.Gateway.BaseURL, gatewayProbe)
	metricsServer := observability.StartMetricsServer(fmt.Sprintf("%d", cfg.Server.MetricsPort), healthChecker)

	go func() {
		logger.Info("HTTP server listening",
			zap.String("address", httpServer.Addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown error", zap.Error(err))
	}

	logger.Info("Servers stopped")
}

// initLogger builds the zap logger from configuration
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// initDatabase creates the pgx connection pool and verifies connectivity
func initDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// resolveCredentials loads the merchant key pair from the configured backend
func resolveCredentials(ctx context.Context, cfg *config.Config, logger *zap.Logger) (liqpay.Credentials, error) {
	switch cfg.Secrets.Backend {
	case "env":
		return liqpay.NewCredentials(cfg.Gateway.PublicKey, cfg.Gateway.PrivateKey)

	case "local":
		sm := secrets.NewLocalSecretManager(cfg.Secrets.LocalPath, logger)
		return secrets.LoadCredentials(ctx, sm, cfg.Secrets.PublicKeyPath, cfg.Secrets.PrivateKeyPath)

	case "aws":
		awsCfg := secrets.DefaultAWSSecretsManagerConfig(cfg.Secrets.AWSRegion)
		awsCfg.Profile = cfg.Secrets.AWSProfile
		awsCfg.Endpoint = cfg.Secrets.AWSEndpoint
		awsCfg.CacheTTL = cfg.Secrets.CacheTTL
		sm, err := secrets.NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)
		if err != nil {
			return liqpay.Credentials{}, err
		}
		return secrets.LoadCredentials(ctx, sm, cfg.Secrets.PublicKeyPath, cfg.Secrets.PrivateKeyPath)

	case "vault":
		vaultCfg := secrets.DefaultVaultConfig(cfg.Secrets.VaultAddress)
		vaultCfg.Token = cfg.Secrets.VaultToken
		vaultCfg.MountPath = cfg.Secrets.VaultMountPath
		vaultCfg.CacheTTL = cfg.Secrets.CacheTTL
		sm, err := secrets.NewVaultAdapter(ctx, vaultCfg, logger)
		if err != nil {
			return liqpay.Credentials{}, err
		}
		return secrets.LoadCredentials(ctx, sm, cfg.Secrets.PublicKeyPath, cfg.Secrets.PrivateKeyPath)

	default:
		return liqpay.Credentials{}, fmt.Errorf("unsupported secrets backend: %s", cfg.Secrets.Backend)
	}
}
