// CLAUDE:SUMMARY CLI entry point for framewatch — postMessage inspection daemon with single-page, config, HTTP and MCP modes.
// Command framewatch is the postMessage inspection daemon.
//
// Usage:
//
//	framewatch -config framewatch.yaml       # inspect pages from YAML config
//	framewatch -url https://example.com      # quick single-page inspection
//	framewatch -addr :8087 -url <url>        # also serve the HTTP read API
//	framewatch -mcp -url <url>               # serve MCP tools on stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/framewatch/idgen"
	"github.com/hazyhaar/framewatch/inspect"
)

func main() {
	configPath := flag.String("config", "", "path to framewatch.yaml config file")
	singleURL := flag.String("url", "", "inspect a single URL (stdout sink)")
	addr := flag.String("addr", "", "serve the HTTP read API on this address")
	mcpStdio := flag.Bool("mcp", false, "serve MCP tools on stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *singleURL, *addr, *mcpStdio); err != nil {
		logger.Error("framewatch: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, singleURL, addr string, mcpStdio bool) error {
	var cfg *inspect.Config
	switch {
	case configPath != "":
		c, err := inspect.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	case singleURL != "":
		cfg = defaultConfig()
		cfg.Pages = []inspect.PageConfig{{
			ID:    idgen.Prefixed("page_", idgen.NanoID(8))(),
			URL:   singleURL,
			TabID: 1,
		}}
	default:
		fmt.Fprintln(os.Stderr, "usage: framewatch -config <file> | -url <url>")
		os.Exit(1)
	}

	// MCP on stdio owns stdout; keep the default sink off it in that mode.
	sinks := inspect.SinksFromConfig(cfg.Sinks, os.Stdout, logger)
	if len(sinks) == 0 && !mcpStdio {
		sinks = append(sinks, inspect.NewStdoutSink(os.Stdout))
	}

	insp, err := inspect.New(cfg, logger, sinks...)
	if err != nil {
		return err
	}
	defer insp.Stop()

	if err := insp.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if addr != "" {
		r := chi.NewRouter()
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		insp.RegisterHTTP(r)

		srv := &http.Server{Addr: addr, Handler: r}
		go func() {
			logger.Info("framewatch: HTTP API listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("framewatch: http server", "error", err)
			}
		}()
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutCtx)
		}()
	}

	if mcpStdio {
		srv := mcp.NewServer(&mcp.Implementation{Name: "framewatch", Version: "0.1.0"}, nil)
		insp.RegisterMCP(srv)
		logger.Info("framewatch: MCP serving on stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	<-ctx.Done()
	return nil
}

func defaultConfig() *inspect.Config {
	cfg := &inspect.Config{
		Browser: inspect.BrowserConfig{
			Headless:        true,
			RecycleInterval: 4 * time.Hour,
		},
		SnapshotInterval: 30 * time.Second,
	}
	cfg.Defaults()
	return cfg
}
