package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dosada05/arena-admin/config"
	"github.com/Dosada05/arena-admin/console"
	"github.com/Dosada05/arena-admin/gateway"
	"github.com/Dosada05/arena-admin/session"
)

// app is what every subcommand works with; built once in PersistentPreRunE.
type app struct {
	cfg     *config.ConsoleConfig
	logger  *slog.Logger
	client  *gateway.Client
	session *console.Session
	admin   *console.Admin
}

var (
	current *app

	rootCmd = &cobra.Command{
		Version:       "indev",
		Use:           "arena-admin",
		Short:         "Administers tournaments, matches and wallet requests of the arena backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	p := rootCmd.PersistentFlags()
	baseURL := p.String("api", "", "backend base URL\n(overrides ARENA_API_URL)")
	debug := p.Bool("debug", false, "log requests to stderr")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _args []string) error {
		cfg, err := config.LoadConsole()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if *baseURL != "" {
			cfg.BaseURL = *baseURL
		}
		if *debug {
			cfg.Debug = true
		}

		level := slog.LevelWarn
		if cfg.Debug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		tokens := session.NewFileStore(cfg.TokenFile)
		client := gateway.New(gateway.Options{
			BaseURL:    cfg.BaseURL,
			EventsPath: cfg.EventsPath,
			Timeout:    cfg.Timeout,
		}, tokens, logger)

		current = &app{
			cfg:     cfg,
			logger:  logger,
			client:  client,
			session: console.NewSession(client, tokens, logger),
			admin:   console.NewAdmin(client, logger),
		}
		return nil
	}
}

func main() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd)
	rootCmd.AddCommand(eventsCmd("tournaments", "t"), eventsCmd("matches", "m"))
	rootCmd.AddCommand(dashboardCmd, depositsCmd, withdrawalsCmd, creditCmd, balanceCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
