// Package main provides the Scoreline engine CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/scoreline/internal/backtest"
	"github.com/yourusername/scoreline/internal/config"
	"github.com/yourusername/scoreline/internal/fixtures"
	"github.com/yourusername/scoreline/internal/ledger"
	"github.com/yourusername/scoreline/internal/llm"
	"github.com/yourusername/scoreline/internal/logger"
	"github.com/yourusername/scoreline/internal/metrics"
	"github.com/yourusername/scoreline/internal/models"
	"github.com/yourusername/scoreline/internal/scheduler"
	"github.com/yourusername/scoreline/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLogger  *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(predictCmd, backtestCmd, historyCmd, accuracyCmd, refresherCmd, versionCmd)

	predictCmd.Flags().String("match-id", "", "Match identifier")
	predictCmd.Flags().String("home", "", "Home team name")
	predictCmd.Flags().String("away", "", "Away team name")
	predictCmd.Flags().String("league", "", "League name")
	predictCmd.Flags().Bool("detailed", false, "Request a detailed forecast")

	backtestCmd.Flags().String("sport", "football", "Sport")
	backtestCmd.Flags().String("league", "", "League name")
	backtestCmd.Flags().String("teams", "", "Comma-separated team names")
	backtestCmd.Flags().Int("count", 0, "Number of matches (0 uses the configured default)")

	historyCmd.Flags().String("remove", "", "Comma-separated entry ids to delete before listing")
}

var rootCmd = &cobra.Command{
	Use:   "scoreline",
	Short: "Sports forecast engine",
	Long:  `Requests match forecasts from a generative model, normalizes them, tracks prediction history and backtests the model against past matches.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return loadConfig()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	return nil
}

func buildStore(ctx context.Context) (ledger.Store, error) {
	switch cfg.Ledger.Backend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.GetDatabaseDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return ledger.NewPostgresStore(ctx, pool, appLogger)
	default:
		return ledger.NewFileStore(cfg.Ledger.Path, appLogger), nil
	}
}

func buildService(ctx context.Context) (*service.PredictionService, error) {
	store, err := buildStore(ctx)
	if err != nil {
		return nil, err
	}

	var model llm.Client = llm.NewAnthropicClient(&cfg.Model, appLogger)
	if cfg.Model.CacheTTLSeconds > 0 {
		model = llm.NewCachedClient(model, time.Duration(cfg.Model.CacheTTLSeconds)*time.Second, appLogger)
	}

	hist := ledger.New(store, cfg.Ledger.Capacity, appLogger)
	lookup := fixtures.NewClient(&cfg.Fixtures, appLogger)
	return service.New(model, hist, lookup, cfg.Model.Temperature, appLogger), nil
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Request and record a forecast for one match",
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, _ := cmd.Flags().GetString("match-id")
		home, _ := cmd.Flags().GetString("home")
		away, _ := cmd.Flags().GetString("away")
		league, _ := cmd.Flags().GetString("league")
		detailed, _ := cmd.Flags().GetBool("detailed")

		if matchID == "" || home == "" || away == "" {
			return fmt.Errorf("--match-id, --home and --away are required")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := buildService(ctx)
		if err != nil {
			return err
		}

		match := models.Match{ID: matchID, HomeTeam: home, AwayTeam: away, League: league}

		if detailed {
			forecast, err := svc.PredictDetailed(ctx, match)
			if err != nil {
				return err
			}
			fmt.Printf("Predicted score: %s (confidence %s)\n", forecast.ExactScore, forecast.Confidence)
			for _, scorer := range forecast.Scorers {
				fmt.Printf("  %s (%s) %s %s\n", scorer.Player, scorer.Team, scorer.Method, scorer.Likelihood)
			}
			return nil
		}

		pred, err := svc.PredictStandard(ctx, match)
		if err != nil {
			return err
		}
		fmt.Printf("%s vs %s: home %.0f%%  draw %.0f%%  away %.0f%%\n",
			home, away, pred.Probabilities.Home*100, pred.Probabilities.Draw*100, pred.Probabilities.Away*100)
		fmt.Println(pred.Summary)
		return nil
	},
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the model against past matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		sport, _ := cmd.Flags().GetString("sport")
		league, _ := cmd.Flags().GetString("league")
		teamsArg, _ := cmd.Flags().GetString("teams")
		count, _ := cmd.Flags().GetInt("count")

		if teamsArg == "" {
			return fmt.Errorf("--teams is required")
		}
		if count <= 0 {
			count = cfg.Backtest.DefaultCount
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		model := llm.NewAnthropicClient(&cfg.Model, appLogger)
		lookup := fixtures.NewClient(&cfg.Fixtures, appLogger)
		sim := backtest.NewSimulator(model, lookup, cfg.Backtest.Temperature, appLogger)

		results, err := sim.Run(ctx, backtest.Request{
			Sport:  sport,
			League: league,
			Teams:  strings.Split(teamsArg, ","),
			Count:  count,
		})
		if err != nil {
			return err
		}

		correct, total := 0, 0
		for item := range results {
			total++
			if item.Correct {
				correct++
			}
			mark := "✗"
			if item.Correct {
				mark = "✓"
			}
			fmt.Printf("%s %s %s %d-%d predicted=%s actual=%s\n",
				mark, item.Candidate.Date.Format("2006-01-02"),
				item.Candidate.HomeTeam+" v "+item.Candidate.AwayTeam,
				item.Candidate.HomeScore, item.Candidate.AwayScore,
				item.Predicted, item.Actual)
		}
		if total > 0 {
			fmt.Printf("Backtest accuracy: %d/%d\n", correct, total)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		removeArg, _ := cmd.Flags().GetString("remove")

		ctx := cmd.Context()
		svc, err := buildService(ctx)
		if err != nil {
			return err
		}

		if removeArg != "" {
			var ids []uuid.UUID
			for _, raw := range strings.Split(removeArg, ",") {
				id, err := uuid.Parse(strings.TrimSpace(raw))
				if err != nil {
					return fmt.Errorf("invalid entry id %q: %w", raw, err)
				}
				ids = append(ids, id)
			}
			svc.Remove(ctx, ids)
		}

		for _, entry := range svc.History(ctx) {
			status := "pending"
			if entry.Finished() {
				status = fmt.Sprintf("%d-%d", entry.Result.HomeScore, entry.Result.AwayScore)
			}
			fmt.Printf("%s  %-8s  %s vs %s  [%s]\n",
				entry.ID, entry.Kind, entry.Match.HomeTeam, entry.Match.AwayTeam, status)
		}
		return nil
	},
}

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Show overall and rolling accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := buildService(ctx)
		if err != nil {
			return err
		}

		if _, err := svc.RefreshResults(ctx); err != nil {
			appLogger.WithError(err).Warn("Result refresh failed, reporting on stored results")
		}

		snapshot := svc.Accuracy(ctx)
		fmt.Printf("Overall accuracy: %d%% over %d finished predictions\n", snapshot.Overall, snapshot.Total)
		for _, point := range snapshot.Trend {
			fmt.Printf("  %s: %d%%\n", point.Label, point.Percent)
		}
		return nil
	},
}

var refresherCmd = &cobra.Command{
	Use:   "refresher",
	Short: "Run the periodic result-refresh daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := buildService(ctx)
		if err != nil {
			return err
		}

		sched := scheduler.NewScheduler(svc, appLogger)
		if err := sched.ScheduleResultRefresh(cfg.Refresh.Schedule); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if cfg.Metrics.Enabled {
			registry := metrics.NewRegistry()
			llm.RegisterMetrics(registry)
			backtest.RegisterMetrics(registry)
			go func() {
				if err := metrics.Serve(registry, cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
					appLogger.WithError(err).Error("Metrics server stopped")
				}
			}()
		}

		appLogger.WithField("schedule", cfg.Refresh.Schedule).Info("Refresher running")
		<-ctx.Done()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scoreline %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
