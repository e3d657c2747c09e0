package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/gift-finder/internal/config"
	"github.com/jonathan/gift-finder/internal/server"
)

var (
	servePort        int
	serveRequireAuth bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that exposes the recommendation pipeline, a streaming variant and candidate resolution.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().BoolVar(&serveRequireAuth, "require-auth", false, "Require a bearer token on pipeline routes (needs JWT_SECRET)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := appConfig.Port
	if servePort > 0 {
		port = servePort
	}

	var jwtService *server.JWTService
	if serveRequireAuth || appConfig.RequireAuth {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("failed to create JWT config: %w", err)
		}
		jwtService = server.NewJWTService(jwtCfg)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Config{
		Port:       port,
		JWTService: jwtService,
		Logger:     logger,
	}, a.recommender)
	return srv.Start(ctx)
}
