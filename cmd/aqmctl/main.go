// Command aqmctl is the ICPAIR operations CLI.
//
// Usage:
//
//	aqmctl alert send --district Turksib --pm25 130 --pm10 210
//	aqmctl alert evaluate
//	aqmctl subscriptions cleanup
//	aqmctl districts seed
//	aqmctl readings mock --hours 24
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/SULDev2024/ICPAIR/internal/alert"
	"github.com/SULDev2024/ICPAIR/internal/config"
	"github.com/SULDev2024/ICPAIR/internal/db"
	"github.com/SULDev2024/ICPAIR/internal/district"
	"github.com/SULDev2024/ICPAIR/internal/push"
	"github.com/SULDev2024/ICPAIR/internal/reading"
	"github.com/SULDev2024/ICPAIR/internal/subscription"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "aqmctl",
		Short: "ICPAIR operations CLI",
	}

	root.AddCommand(alertCmd())
	root.AddCommand(subscriptionsCmd())
	root.AddCommand(districtsCmd())
	root.AddCommand(readingsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runWith loads config, opens the pool, and invokes fn with both.
func runWith(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

// newGateway picks FCM when credentials are configured, otherwise the
// log-only gateway.
func newGateway(ctx context.Context, cfg *config.Config) (push.Gateway, error) {
	if cfg.FCMCredentialsFile == "" {
		return push.NewLogGateway(logger), nil
	}
	return push.NewFCMGateway(ctx, cfg.FCMCredentialsFile, cfg.FrontendURL, logger)
}

// --------------------------------------------------------------------------
// alert commands
// --------------------------------------------------------------------------

func alertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Send and evaluate air quality alerts",
	}
	cmd.AddCommand(alertSendCmd())
	cmd.AddCommand(alertEvaluateCmd())
	return cmd
}

func alertSendCmd() *cobra.Command {
	var districtName string
	var pm25, pm10 float64
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Push a manual alert to a district's subscribers (bypasses cooldown)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if districtName == "" {
				return fmt.Errorf("--district is required")
			}
			return runWith(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				registry := subscription.NewRegistry(pool.Pool, logger)
				tokens, err := registry.FindByScope(ctx, districtName)
				if err != nil {
					return err
				}
				if len(tokens) == 0 {
					logger.Info("no subscribers", "district", districtName)
					return nil
				}

				gateway, err := newGateway(ctx, cfg)
				if err != nil {
					return err
				}

				sev := alert.ClassifyOverride(pm25, pm10)
				n := alert.BuildNotification(districtName, pm25, pm10, sev)

				sendCtx, cancel := context.WithTimeout(ctx, cfg.SendTimeout)
				defer cancel()
				report, err := gateway.SendBulk(sendCtx, tokens, n.Title, n.Body, n.Data)
				if err != nil {
					return err
				}
				if len(report.InvalidTokens) > 0 {
					if _, err := registry.DeleteMany(ctx, report.InvalidTokens); err != nil {
						logger.Warn("token cleanup failed", "error", err)
					}
				}
				logger.Info("manual alert sent", "district", districtName,
					"sent", report.SuccessCount, "failed", report.FailureCount,
					"cleaned", len(report.InvalidTokens))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&districtName, "district", "", "District name")
	cmd.Flags().Float64Var(&pm25, "pm25", 0, "PM2.5 value (µg/m³)")
	cmd.Flags().Float64Var(&pm10, "pm10", 0, "PM10 value (µg/m³)")
	return cmd
}

func alertEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Run one alert evaluation pass over all districts now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				gateway, err := newGateway(ctx, cfg)
				if err != nil {
					return err
				}
				registry := subscription.NewRegistry(pool.Pool, logger)
				readings := reading.NewStore(pool.Pool)
				ledger := alert.NewPostgresLedger(pool.Pool, cfg.CooldownWindow)

				evaluator := alert.NewEvaluator(readings, registry, ledger, gateway,
					cfg.Districts, cfg.SendTimeout, logger)
				events := evaluator.EvaluateAll(ctx)
				logger.Info("evaluation pass complete", "alerts_sent", len(events))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// subscriptions commands
// --------------------------------------------------------------------------

func subscriptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Manage push subscriptions",
	}

	var olderThan time.Duration
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove long-disabled subscription rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if olderThan == 0 {
					olderThan = cfg.StaleSubscriptionAge
				}
				registry := subscription.NewRegistry(pool.Pool, logger)
				deleted, err := registry.PurgeStaleDisabled(ctx, olderThan)
				if err != nil {
					return err
				}
				logger.Info("cleanup complete", "deleted", deleted)
				return nil
			})
		},
	}
	cleanup.Flags().DurationVar(&olderThan, "older-than", 0, "Age threshold (default: STALE_SUBSCRIPTION_AGE)")
	cmd.AddCommand(cleanup)
	return cmd
}

// --------------------------------------------------------------------------
// districts commands
// --------------------------------------------------------------------------

func districtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "districts",
		Short: "Manage monitored districts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert any missing configured districts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := district.NewStore(pool.Pool).Seed(ctx, cfg.Districts); err != nil {
					return err
				}
				logger.Info("districts seeded", "count", len(cfg.Districts))
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// readings commands
// --------------------------------------------------------------------------

func readingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readings",
		Short: "Manage sensor readings",
	}

	var hours int
	var interval time.Duration
	mock := &cobra.Command{
		Use:   "mock",
		Short: "Generate randomized readings for every district (development)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := reading.NewStore(pool.Pool)
				now := time.Now()
				count := 0
				for _, d := range cfg.Districts {
					for t := now.Add(-time.Duration(hours) * time.Hour); t.Before(now); t = t.Add(interval) {
						pm25 := float64(rand.Intn(150) + 10)
						pm10 := float64(rand.Intn(200) + 20)
						if err := store.Insert(ctx, d, pm25, pm10, t); err != nil {
							return err
						}
						count++
					}
				}
				logger.Info("mock readings generated", "records", count)
				return nil
			})
		},
	}
	mock.Flags().IntVar(&hours, "hours", 24, "Hours of history to generate")
	mock.Flags().DurationVar(&interval, "interval", 10*time.Minute, "Spacing between readings")
	cmd.AddCommand(mock)
	return cmd
}
