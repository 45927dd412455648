package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ragai/config"
	"ragai/generator"
	"ragai/mcp"
	"ragai/model"
	"ragai/provider"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ragai", flag.ContinueOnError)
	history := fs.String("history", "", "previous conversation text")
	initConfig := fs.Bool("init", false, "write a default config file and exit")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ragai [-history text] \"question\"\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch {
	case *showVersion:
		fmt.Printf("ragai %s (%s)\n", Version, License)
		return 0
	case *initConfig:
		path := config.ResolveConfigPath()
		if err := config.CreateDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Config written to %s\n", path)
		return 0
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := generator.NewFromConfig(cfg, generator.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var tools []model.ToolSpec
	var executor model.ToolExecutor

	if len(cfg.Servers) > 0 {
		manager := mcp.NewManager(logger)
		if err := manager.StartAll(ctx, cfg.Servers); err != nil {
			logger.Warn("some mcp servers are unavailable", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := manager.Shutdown(shutdownCtx); err != nil {
				logger.Debug("mcp shutdown", zap.Error(err))
			}
		}()

		aggregator := mcp.NewToolAggregator(manager)
		tools = aggregator.Tools()
		executor = aggregator
	}

	answer, err := gen.Generate(ctx, query, *history, tools, executor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", describe(err))
		return 1
	}

	fmt.Println(answer)
	return 0
}

// describe turns a generation error into a message safe to show the user.
func describe(err error) string {
	var apiErr *provider.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, provider.ErrEmptyResponse):
		return provider.ErrEmptyResponse.Error()
	case errors.Is(err, context.Canceled):
		return "interrupted"
	}
	return err.Error()
}
