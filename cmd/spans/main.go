package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/spanclient/internal/infrastructure/config"
	"github.com/GriffinCanCode/spanclient/internal/infrastructure/logging"
	"github.com/GriffinCanCode/spanclient/internal/table"
	_ "github.com/GriffinCanCode/spanclient/internal/table/arrowtable"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := kingpin.New("spans", "query span records and write them as a table")
	app.Version(version)
	logLevel := app.Flag("log.level", "log level").Default(cfg.Logging.Level).Enum("debug", "info", "warn", "error")
	logDev := app.Flag("log.dev", "human readable console logs").Default(fmt.Sprint(cfg.Logging.Development)).Bool()
	logOutput := app.Flag("log.output", "log destination (stdout, stderr or a file path)").Default(cfg.Logging.Output).String()

	fetch, fetchF := registerFetchApp(app, cfg)
	backends := app.Command("backends", "list the registered table backends")
	parsed := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(logging.Config{
		Level:       *logLevel,
		Development: *logDev,
		OutputPaths: []string{*logOutput},
		Name:        "spans",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, syscall.SIGTERM, syscall.SIGINT)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		s := <-sigC
		logger.Warn("Caught signal, canceling context", zap.String("signal", s.String()))
		cancel()
	}()

	switch parsed {
	case fetch.FullCommand():
		reg := prometheus.NewRegistry()
		if err := fetchF(ctx, logger.Logger, reg); err != nil {
			logger.Error("Fetch failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
	case backends.FullCommand():
		for _, name := range table.Backends() {
			fmt.Println(name)
		}
	}
}
