// Command sidebets runs the golf side-bet settlement service and its
// maintenance tasks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/MJE43/golf-sidebets-go/internal/api"
	"github.com/MJE43/golf-sidebets-go/internal/config"
	"github.com/MJE43/golf-sidebets-go/internal/session"
	"github.com/MJE43/golf-sidebets-go/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "sidebets",
		Usage: "golf side-bet scorekeeping and settlement service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   ".",
				Usage:   "directory containing sidebets.cfg.json",
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newExportCommand(),
			newImportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging configures the global zerolog level and returns the service
// logger.
func setupLogging() zerolog.Logger {
	var level zerolog.Level
	switch strings.ToUpper(config.GetString("logLevel")) {
	case "TRACE":
		level = zerolog.TraceLevel
	case "DEBUG":
		level = zerolog.DebugLevel
	case "INFO":
		level = zerolog.InfoLevel
	case "WARN":
		level = zerolog.WarnLevel
	case "ERROR":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			if err := config.Load(c.String("config")); err != nil {
				return err
			}
			logger := setupLogging()

			db, err := store.NewSQLiteDB(config.GetDBConfig().Path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			server := api.NewServer(db, logger)
			server.AllowOrigins(config.GetCORSOrigins()...)

			serverCfg := config.GetServerConfig()
			server.SetRequestTimeout(serverCfg.RequestTimeout)

			httpServer := &http.Server{
				Addr:              serverCfg.Addr,
				Handler:           server.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", serverCfg.Addr).Msg("http server listening")
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			// Graceful shutdown
			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-interrupt:
				logger.Info().Str("signal", sig.String()).Msg("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownGrace)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}

			logger.Info().Msg("server stopped")
			return nil
		},
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the database schema",
		Action: func(c *cli.Context) error {
			if err := config.Load(c.String("config")); err != nil {
				return err
			}
			logger := setupLogging()

			path := config.GetDBConfig().Path
			db, err := store.NewSQLiteDB(path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(c.Context); err != nil {
				return err
			}
			logger.Info().Str("path", path).Msg("schema up to date")
			return nil
		},
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write a session and its action logs to a JSON file",
		ArgsUsage: "<session-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file (defaults to <session-id>.json)",
			},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return fmt.Errorf("session id is required")
			}
			if err := config.Load(c.String("config")); err != nil {
				return err
			}
			logger := setupLogging()

			db, err := store.NewSQLiteDB(config.GetDBConfig().Path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			sess, err := loadSession(c.Context, db, id)
			if err != nil {
				return err
			}

			out := c.String("out")
			if out == "" {
				out = id + ".json"
			}
			raw, err := json.MarshalIndent(sess.Export(), "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return err
			}

			logger.Info().Str("session_id", id).Str("file", out).Msg("session exported")
			return nil
		},
	}
}

func newImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "restore a session from an exported JSON file",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			file := c.Args().First()
			if file == "" {
				return fmt.Errorf("input file is required")
			}
			if err := config.Load(c.String("config")); err != nil {
				return err
			}
			logger := setupLogging()

			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var doc session.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			// Replaying through game validation rejects documents the
			// configuration could not have produced.
			sess, err := session.FromDocument(doc)
			if err != nil {
				return fmt.Errorf("import rejected: %w", err)
			}

			db, err := store.NewSQLiteDB(config.GetDBConfig().Path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := db.CreateSession(c.Context, store.SessionRecord{
				ID:        sess.ID,
				Name:      sess.Name,
				Players:   sess.Players,
				Configs:   sess.Configs(),
				CreatedAt: sess.CreatedAt,
			}); err != nil {
				return err
			}

			imported := 0
			for _, gt := range sess.Enabled() {
				log, err := sess.Actions(gt)
				if err != nil {
					continue
				}
				if err := db.AppendActions(c.Context, sess.ID, gt, log); err != nil {
					return err
				}
				imported += len(log)
			}

			logger.Info().Str("session_id", sess.ID).Int("actions", imported).Msg("session imported")
			return nil
		},
	}
}

// loadSession rebuilds a stored session, replaying its logs through game
// validation.
func loadSession(ctx context.Context, db store.DB, id string) (*session.Session, error) {
	rec, err := db.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := db.ListActions(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.FromDocument(session.Document{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Players:   rec.Players,
		Configs:   rec.Configs,
		Actions:   logs,
	})
}
