// Command trustctl is a terminal client for the Trustidity admin API. It
// drives the same query layer the web dashboard uses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/trustidity/trustidity-go/internal/config"
	"github.com/trustidity/trustidity-go/internal/observability"
	"github.com/trustidity/trustidity-go/internal/resource"
	"github.com/trustidity/trustidity-go/internal/session"
	"github.com/trustidity/trustidity-go/internal/transport"
)

var (
	configPath string
	baseURL    string
	token      string
	jsonOutput bool

	cfg    *config.Config
	logger *zap.Logger

	institutions  *resource.Institutions
	users         *resource.Users
	verifications *resource.Verifications
	auditLogs     *resource.AuditLogs
	plans         *resource.Plans

	shutdownTracing func(context.Context) error
)

func defaultToken() string {
	return os.Getenv("TRUSTIDITY_TOKEN")
}

var rootCmd = &cobra.Command{
	Use:   "trustctl <command>",
	Short: "CLI client for the Trustidity verification platform",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			if baseURL != "" {
				os.Setenv("TRUSTIDITY_API_BASE_URL", baseURL)
			}
			cfg, err = config.FromEnv()
		}
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.API.BaseURL = baseURL
		}

		logger, err = observability.NewLogger(cfg.Observability)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		shutdownTracing, err = observability.InitTracing(
			cmd.Context(), cfg.Observability.Tracing, "trustctl", version)
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}

		store, err := newSessionStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if token != "" {
			if err := store.Set(cmd.Context(), token); err != nil {
				return fmt.Errorf("storing session token: %w", err)
			}
		}

		client := transport.New(transport.Options{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
			Breaker: cfg.API.CircuitBreaker,
			Session: store,
			Logger:  logger,
		})

		institutions = resource.NewInstitutions(client)
		users = resource.NewUsers(client)
		verifications = resource.NewVerifications(client)
		auditLogs = resource.NewAuditLogs(client)
		plans = resource.NewPlans(client)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if shutdownTracing != nil {
			shutdownTracing(cmd.Context())
		}
		if logger != nil {
			logger.Sync()
		}
	},
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Driver {
	case "redis":
		addr := os.Getenv(cfg.Session.AddrEnv)
		if addr == "" {
			return nil, fmt.Errorf("session driver is redis but %s is not set", cfg.Session.AddrEnv)
		}
		client := redis.NewClient(&redis.Options{Addr: addr, DB: cfg.Session.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
		}
		return session.NewRedisStore(client), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&token, "token", defaultToken(), "bearer token for the session")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(institutionsCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(verificationsCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
