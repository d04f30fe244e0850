package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/rsheridan/finale/internal/config"
	"github.com/rsheridan/finale/internal/orchestrator"
	"github.com/rsheridan/finale/internal/shutdown"
	"github.com/rsheridan/finale/internal/state"
	"github.com/rsheridan/finale/internal/theme"
	"github.com/rsheridan/finale/internal/timezone"
	"github.com/rsheridan/finale/internal/tui"
)

var version = "dev"

// buildOptions translates file/flag configuration into orchestrator options.
// The target string, when present, must be RFC 3339.
func buildOptions(cfg *config.Config) (orchestrator.Options, error) {
	mode, ok := state.ParseMode(cfg.Countdown.Mode)
	if !ok && cfg.Countdown.Mode != "" {
		slog.Warn("unrecognized countdown mode, using wall-clock", "mode", cfg.Countdown.Mode)
	}

	opts := orchestrator.Options{
		InitialTheme:      cfg.UI.Theme,
		InitialTimezone:   cfg.Countdown.Timezone,
		Mode:              mode,
		CompletionMessage: cfg.Countdown.Message,
		DurationSeconds:   int(cfg.Countdown.Duration.Seconds()),
		TickInterval:      cfg.UI.TickInterval,
		MinSwitchInterval: cfg.UI.MinSwitchInterval,
		CelebrationHold:   cfg.UI.CelebrationHold,
	}

	if cfg.Countdown.Target != "" {
		target, err := time.Parse(time.RFC3339, cfg.Countdown.Target)
		if err != nil {
			return opts, fmt.Errorf("parse target %q: %w", cfg.Countdown.Target, err)
		}
		opts.TargetDate = target
	}

	return opts, nil
}

// runHeadless drives a countdown session without the TUI, printing the
// status line on each tick and the completion message at the end.
func runHeadless(ctx context.Context, orch *orchestrator.Orchestrator, interval time.Duration, out io.Writer) error {
	if err := orch.Start(); err != nil {
		return fmt.Errorf("start countdown: %w", err)
	}

	done := make(chan struct{})
	var once sync.Once
	unsubscribe := orch.Store().Subscribe(func(old, new state.AppState) {
		if !old.IsComplete && new.IsComplete {
			once.Do(func() { close(done) })
		}
	})
	defer unsubscribe()

	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			fmt.Fprintln(out, orch.Store().GetState().CompletionMessage)
			return nil
		case <-ticker.C:
			fmt.Fprintln(out, timezone.FormatStatus(orch.Remaining(), false))
		}
	}
}

func main() {
	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	viper.SetEnvPrefix("FINALE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "finale",
		Short: "A countdown for the final moments",
		Long: `finale renders animated countdowns in the terminal: to the next New Year,
to a fixed date, or for a plain timer. Themes can be switched live, the
countdown can follow any IANA timezone, and completion triggers a short
celebration before the display settles.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .finale/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogFile, "", "Debug log file path (TUI mode)")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("finale %s\n", version)
		},
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, id := range theme.BuiltIn().List() {
				fmt.Println(id)
			}
		},
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a countdown",
		Long: `Start a countdown session.

With a TTY the animated terminal UI runs; otherwise (or with --headless)
the status line is printed once per tick until the countdown completes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetBool(FlagVerbose) {
				logLevel.Set(slog.LevelDebug)
				logger.Debug("verbose logging enabled")
			}

			cfg, err := config.LoadConfig(viper.GetViper())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// Apply CLI flag overrides (only if explicitly set)
			if cmd.Flags().Changed(FlagTheme) {
				cfg.UI.Theme = viper.GetString(FlagTheme)
			}
			if cmd.Flags().Changed(FlagTimezone) {
				cfg.Countdown.Timezone = viper.GetString(FlagTimezone)
			}
			if cmd.Flags().Changed(FlagTarget) {
				cfg.Countdown.Target = viper.GetString(FlagTarget)
			}
			if cmd.Flags().Changed(FlagMode) {
				cfg.Countdown.Mode = viper.GetString(FlagMode)
			}
			if cmd.Flags().Changed(FlagDuration) {
				cfg.Countdown.Duration = viper.GetDuration(FlagDuration)
				if !cmd.Flags().Changed(FlagMode) {
					cfg.Countdown.Mode = string(state.ModeTimer)
				}
			}
			if cmd.Flags().Changed(FlagMessage) {
				cfg.Countdown.Message = viper.GetString(FlagMessage)
			}
			if cmd.Flags().Changed(FlagTickInterval) {
				cfg.UI.TickInterval = viper.GetDuration(FlagTickInterval)
			}
			if cmd.Flags().Changed(FlagZones) {
				cfg.UI.Zones = viper.GetStringSlice(FlagZones)
			}

			// Determine headless mode: explicit flag > auto-detect from TTY
			headless := viper.GetBool(FlagHeadless)
			if !cmd.Flags().Changed(FlagHeadless) {
				headless = !term.IsTerminal(int(os.Stdout.Fd()))
			}

			opts, err := buildOptions(cfg)
			if err != nil {
				return err
			}

			orch := orchestrator.New(opts)

			if headless {
				logger.Info("finale starting",
					"version", version,
					"mode", cfg.Countdown.Mode,
					"theme", cfg.UI.Theme,
					"headless", true,
				)
				return shutdown.Run(
					cmd.Context(),
					logger,
					5*time.Second,
					func(runCtx context.Context) error {
						return runHeadless(runCtx, orch, cfg.UI.TickInterval, os.Stdout)
					},
					func(shutdownCtx context.Context) error {
						orch.Destroy()
						return nil
					},
				)
			}

			// TUI mode: redirect logging to a rotating file so it cannot
			// corrupt the display.
			logDir := config.ProjectConfigDir
			if logPath := viper.GetString(FlagLogFile); logPath != "" {
				logDir = filepath.Dir(logPath)
			}
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return fmt.Errorf("create log directory: %w", err)
			}

			tuiLogResult, err := SetupTUILogger(logDir, logLevel, cfg.LogRotation)
			if err != nil {
				return err
			}
			defer func() { _ = tuiLogResult.Close() }()
			slog.SetDefault(tuiLogResult.Logger)

			tuiLogResult.Logger.Info("finale starting",
				"version", version,
				"mode", cfg.Countdown.Mode,
				"theme", cfg.UI.Theme,
				"log_file", tuiLogResult.FilePath,
			)

			return tui.New(orch, tui.WithZones(cfg.UI.Zones)).Run()
		},
	}

	startCmd.Flags().String(FlagTheme, "", "Initial theme (see 'finale themes')")
	startCmd.Flags().String(FlagTimezone, "", "IANA timezone for the countdown (default: detected)")
	startCmd.Flags().String(FlagTarget, "", "Target date, RFC 3339 (default: next New Year)")
	startCmd.Flags().String(FlagMode, "", "Countdown mode: wall-clock, absolute, or timer")
	startCmd.Flags().Duration(FlagDuration, time.Minute, "Timer length (implies --mode timer)")
	startCmd.Flags().String(FlagMessage, "", "Completion message")
	startCmd.Flags().Duration(FlagTickInterval, time.Second, "Countdown update interval")
	startCmd.Flags().Bool(FlagHeadless, false, "Run without the TUI, printing status lines")
	startCmd.Flags().StringSlice(FlagZones, nil, "Timezone cycle for the 'z' key (comma-separated)")

	startCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(startCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
