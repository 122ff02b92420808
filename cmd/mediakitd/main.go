package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	mediakit "github.com/alnah/go-mediakit"
	"github.com/alnah/go-mediakit/internal/config"
	"github.com/alnah/go-mediakit/internal/httpapi"
	"github.com/alnah/go-mediakit/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Load .env before the config reads the environment (optional file).
	_ = godotenv.Load()

	logger := newLogger(flags.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
		logger.Debug().Msgf(format, a...)
	}))

	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}
	if flags.scratchDir != "" {
		cfg.ScratchDir = flags.scratchDir
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}

	st, err := store.New(cfg.ScratchDir)
	if err != nil {
		return err
	}

	svc := mediakit.New(
		mediakit.WithCaptureTimeout(cfg.Timeouts.Capture),
		mediakit.WithToolTimeout(cfg.Timeouts.Tool),
		mediakit.WithFetchTimeout(cfg.Timeouts.Fetch),
		mediakit.WithSessionLimit(cfg.Workers),
		mediakit.WithCaptureTarget(mediakit.CaptureTarget{
			PageURL: cfg.Capture.PageURL,
			Toggle:  cfg.Capture.Toggle,
			Input:   cfg.Capture.Input,
			Overlay: cfg.Capture.Overlay,
		}),
		mediakit.WithTools(mediakit.Tools{
			Convert: cfg.Tools.Convert,
			FFmpeg:  cfg.Tools.FFmpeg,
		}),
		mediakit.WithCodeStyle(cfg.Carbon.Style),
	)

	app := httpapi.NewApp(logger, cfg, st, svc)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Str("version", Version).
			Int("sessions", svc.Sessions().Size()).Msg("mediakitd listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Janitor.Enabled {
		janitor := store.NewJanitor(st, cfg.Janitor.MaxAge, cfg.Janitor.Interval, logger)
		g.Go(func() error { return janitor.Run(ctx) })
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newLogger builds the process logger: console output on a TTY-style dev
// run, JSON otherwise, debug level only with --verbose.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if os.Getenv("APP_ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
