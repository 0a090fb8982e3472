// server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/vinizap/portfolio/server/config"
	"github.com/vinizap/portfolio/server/content"
	"github.com/vinizap/portfolio/server/filesystem"
	httphandlers "github.com/vinizap/portfolio/server/http"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	dataDir string
	port    string
)

func main() {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Serve portfolio content and blog posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "content data directory (overrides PORTFOLIO_DATA_DIR)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
	for _, c := range []*cobra.Command{root, serve} {
		c.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	}

	root.AddCommand(serve, newBlogsCmd(), newPostCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads configuration, the logger and the embedded catalog shared by
// every subcommand.
func setup() (*config.Config, zerolog.Logger, *content.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if port != "" {
		cfg.Port = port
	}

	log, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	catalog, err := content.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	return cfg, log, catalog, nil
}

func newLoader(cfg *config.Config, catalog *content.Catalog) *filesystem.Loader {
	loader := filesystem.NewLoader(cfg.BlogsRoot(), catalog.FallbackPosts())
	loader.Location = cfg.Location
	return loader
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, catalog, err := setup()
	if err != nil {
		return err
	}

	server := httphandlers.NewServer(catalog, newLoader(cfg, catalog), cfg.MaxScans, log)
	app := httphandlers.NewApp(server, httphandlers.AppConfig{
		AllowedOrigin: cfg.AllowedOrigin(),
		DataDir:       cfg.DataDir,
		BlogsDir:      cfg.BlogsRoot(),
		ScriptsDir:    cfg.ScriptsRoot(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Str("root", cfg.BlogsRoot()).Str("env", cfg.Env).Msg("server starting")
		return app.Listen(cfg.Addr())
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	return g.Wait()
}
