// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command dizesi is the terminal front end of the Dizesi literary community.
//
// # Startup Sequence
//
//  1. Initialize structured logger (stderr, JSON).
//  2. Load configuration from environment variables.
//  3. Open the session storage (file or Redis).
//  4. Restore the persisted session.
//  5. Wire the gateway and run the requested command.
//
// Toasts are printed to stderr; command output goes to stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/taibuivan/dizesi/internal/platform/config"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
	redisstore "github.com/taibuivan/dizesi/internal/platform/redis"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/internal/users/auth"
)

// app holds everything a command needs once startup has finished.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	session  *auth.Store
	api      *gateway.Client
	notifier toast.Notifier
	out      io.Writer

	redis *goredis.Client
}

func main() {
	application := &app{out: os.Stdout}

	root := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Read, write and discuss literature on Dizesi",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return application.start(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			application.stop()
		},
	}

	root.AddCommand(
		application.loginCommand(),
		application.registerCommand(),
		application.logoutCommand(),
		application.whoamiCommand(),
		application.checkUsernameCommand(),
		application.feedCommand(),
		application.postCommand(),
		application.profileCommand(),
		application.notificationsCommand(),
		application.searchCommand(),
		application.adminCommand(),
		application.navCommand(),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		application.stop()
		os.Exit(1)
	}
}

// start runs the startup sequence. It is idempotent.
func (application *app) start(ctx context.Context) error {
	if application.session != nil {
		return nil
	}

	// 1. Logger
	application.log = newLogger(slog.LevelWarn)

	// 2. Configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	application.cfg = cfg

	if cfg.Debug {
		application.log = newLogger(slog.LevelDebug)
		application.log.Debug("debug_logging_enabled",
			slog.String("api", cfg.APIBaseURL),
			slog.String("session_backend", cfg.SessionBackend),
		)
	}

	startupCtx, cancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer cancel()

	// 3. Session storage
	storage, err := application.openStorage(startupCtx)
	if err != nil {
		return err
	}

	// 4. Session restore
	application.session = auth.NewStore(storage, application.log)
	if err := application.session.Restore(startupCtx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	// 5. Transport
	application.api = gateway.New(cfg.APIBaseURL, application.session,
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithLogger(application.log),
	)
	application.notifier = toast.Logged(application.log, toast.NewWriter(os.Stderr))

	return nil
}

func (application *app) openStorage(ctx context.Context) (auth.Storage, error) {
	if application.cfg.SessionBackend != config.SessionBackendRedis {
		return auth.NewFileStorage(application.cfg.SessionFile), nil
	}

	client, err := redisstore.Connect(ctx, application.cfg.RedisURL, application.log)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	application.redis = client
	return auth.NewRedisStorage(client, application.cfg.SessionPrefix), nil
}

// stop releases the Redis connection, if one was opened.
func (application *app) stop() {
	if application.redis == nil {
		return
	}
	if err := application.redis.Close(); err != nil {
		application.log.Warn("redis_close_failed", slog.Any("error", err))
	}
	application.redis = nil
}

// cardDeps is what every card and page built by a command shares.
func (application *app) cardDeps() post.Deps {
	return post.Deps{
		Client:    post.NewClient(application.api),
		Session:   application.session,
		Notifier:  application.notifier,
		PublicURL: application.cfg.PublicURL,
	}
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)
	return log
}
