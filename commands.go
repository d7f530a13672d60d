// commands.go
//
// Cobra commands, logging setup, and the serve/play lifecycles.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/figrac0/quantum-game/assets"
	"github.com/figrac0/quantum-game/internal/challenges"
	"github.com/figrac0/quantum-game/internal/config"
	"github.com/figrac0/quantum-game/internal/game"
	"github.com/figrac0/quantum-game/internal/httpserver"
	"github.com/figrac0/quantum-game/internal/leaderboard"
	"github.com/figrac0/quantum-game/internal/locale"
	"github.com/figrac0/quantum-game/internal/store"
	"github.com/figrac0/quantum-game/internal/tui"
)

type flags struct {
	port       string
	db         string
	challenges string
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "quantum-game",
		Short:         "A timed fill-in-the-blank JavaScript quiz",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.challenges, "challenges", "", "challenge catalog YAML (default: embedded)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), loadConfig(f), cmd.ErrOrStderr())
		},
	}
	serve.Flags().StringVar(&f.port, "port", "", "listen port (overrides PORT)")
	serve.Flags().StringVar(&f.db, "db", "", "SQLite path or :memory: (overrides DB_PATH)")

	play := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(loadConfig(f))
		},
	}

	var validate string
	list := &cobra.Command{
		Use:   "challenges",
		Short: "List the challenge catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChallenges(cmd.OutOrStdout(), f.challenges, validate)
		},
	}
	list.Flags().StringVar(&validate, "validate", "", "validate FILE and exit")

	root.AddCommand(serve, play, list)
	return root
}

func loadConfig(f flags) config.Config {
	cfg := config.Load()
	if f.port != "" {
		cfg.Port = f.port
	}
	if f.db != "" {
		cfg.DBPath = f.db
	}
	if f.challenges != "" {
		cfg.ChallengesFile = f.challenges
	}
	return cfg
}

// setupLogging configures the global zerolog logger. Output goes to w as
// JSON, or as console text when w is a terminal or LOG_FORMAT=console.
func setupLogging(cfg config.Config, w io.Writer) {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	console := cfg.LogFormat == "console"
	if cfg.LogFormat == "" {
		if fd, ok := w.(interface{ Fd() uintptr }); ok {
			console = isatty.IsTerminal(fd.Fd())
		}
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func runServe(ctx context.Context, cfg config.Config, stderr io.Writer) error {
	setupLogging(cfg, stderr)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := challenges.Init(cfg.ChallengesFile); err != nil {
		return fmt.Errorf("load challenges: %w", err)
	}
	src, levels, slots := challenges.Stats()
	log.Info().Str("source", src).Int("levels", levels).Int("slots", slots).Msg("challenges loaded")

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db, assets.Migrations()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	games := store.NewMemoryStore()
	srv := httpserver.New(httpserver.Options{
		Catalog:      challenges.Catalog(),
		Settings:     cfg.Game,
		Store:        games,
		Results:      leaderboard.NewStore(db),
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.TokenTTL,
		ClientOrigin: cfg.ClientOrigin,
		Secure:       cfg.CookieSecure,
		Logger:       &log.Logger,
	})
	defer srv.Close()
	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting quantum-game server")

	// the janitor stops with the server, whichever way it exits
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		store.RunJanitor(ctx, games, cfg.SweepInterval, cfg.SessionTTL)
		return nil
	})
	eg.Go(func() error {
		defer stop()
		return srv.Start(ctx, ":"+cfg.Port)
	})
	return eg.Wait()
}

func runPlay(cfg config.Config) error {
	// the terminal belongs to the UI
	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	setupLogging(cfg, w)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := challenges.Init(cfg.ChallengesFile); err != nil {
		return fmt.Errorf("load challenges: %w", err)
	}
	prefs, err := locale.Load(cfg.LocaleFile)
	if err != nil {
		log.Warn().Err(err).Msg("language preference unreadable; using default")
		prefs, _ = locale.Load("")
	}

	g := game.New(challenges.Catalog(),
		game.WithSettings(cfg.Game),
		game.WithLogger(log.Logger),
	)
	defer g.Close()
	return tui.Run(g, prefs)
}

func runChallenges(out io.Writer, path, validate string) error {
	if validate != "" {
		cat, err := challenges.LoadFile(validate)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d challenges ok\n", validate, cat.Len())
		return nil
	}

	if err := challenges.Init(path); err != nil {
		return err
	}
	for _, ch := range challenges.Catalog().All() {
		fmt.Fprintf(out, "%2d  %-32s %d slot(s), %d element(s)\n",
			ch.Level, ch.Title, len(ch.Slots), len(ch.Elements))
	}
	return nil
}
