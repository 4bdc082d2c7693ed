package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inference-sim/rtsim/server"
)

var serveConfig = server.DefaultConfig()

// serveCmd starts the HTTP API and blocks until SIGINT/SIGTERM.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over HTTP (POST /simulate, GET /health)",
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := newLogger(serveConfig.LogLevel, serveConfig.LogFormat)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		useForEngine(logger)

		srv := server.New(serveConfig, logger)
		httpServer := srv.HTTPServer()

		// Graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			logger.WithField("addr", serveConfig.Addr).Info("server starting")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("server failed: %v", err)
			}
		}()

		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Fatalf("shutdown error: %v", err)
		}
		logger.Info("server stopped")
	},
}

// bindServeFlags registers the server configuration flags on fs, defaulting to cfg.
func bindServeFlags(fs *pflag.FlagSet, cfg *server.Config) {
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	fs.Int64Var(&cfg.MaxDuration, "max-duration", cfg.MaxDuration, "Largest accepted duration in ms (0 = unlimited)")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout")
}

// newLogger builds the server logger. Output goes to stderr.
func newLogger(level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.New("invalid log format " + format + "; valid: text, json")
	}
	return logger, nil
}

// useForEngine applies logger's level, formatter and output to the package-level
// logrus logger, which the simulation engine logs through.
func useForEngine(logger *logrus.Logger) {
	logrus.SetLevel(logger.GetLevel())
	logrus.SetFormatter(logger.Formatter)
	logrus.SetOutput(logger.Out)
}

func init() {
	bindServeFlags(serveCmd.Flags(), &serveConfig)
	rootCmd.AddCommand(serveCmd)
}
