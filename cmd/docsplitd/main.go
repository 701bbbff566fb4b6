package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roivaz/docsplit/internal/api"
	"github.com/roivaz/docsplit/internal/config"
	"github.com/roivaz/docsplit/internal/logging"
	"github.com/roivaz/docsplit/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:          "docsplitd",
		Short:        "Document splitting HTTP API and MCP server",
		SilenceUsage: true,
		RunE:         run,
	}

	root.PersistentFlags().String("host", "0.0.0.0", "HTTP host")
	root.PersistentFlags().Int("port", 8000, "HTTP port")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("presets-file", "", "YAML file with named splitter presets")
	root.PersistentFlags().Int64("max-content-length", 100<<20, "Largest accepted request body in bytes")
	root.PersistentFlags().Bool("token-estimates", false, "Annotate chunks with model token estimates")

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	base, err := logging.ForLevel(config.LogLevel())
	if err != nil {
		return err
	}
	logger := logging.New(base)

	svc, err := config.Service(logger)
	if err != nil {
		return err
	}

	r := api.New(svc, logger.WithName("api"), config.MaxContentLength()).Router()
	r.Handle(mcp.EndpointPath, mcp.New(mcp.DefaultConfig(svc)).Handler)

	addr := config.ListenAddr()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "mcp", mcp.EndpointPath)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
