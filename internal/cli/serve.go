package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr, baseURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve maps over HTTP as clickable SVG pages",
		Long: `Serve maps from the configured store over HTTP.

Open /maps/<id> in a browser and click a node to append a child to it.
Create maps with POST /maps or the new command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, baseURL)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "URL prefix for click handlers behind a proxy")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, baseURL string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(st, server.Options{
		Addr:            cfg.Server.Addr,
		BaseURL:         strings.TrimSuffix(cfg.Server.BaseURL, "/"),
		Width:           cfg.Layout.Width,
		Height:          cfg.Layout.Height,
		Geometry:        cfg.Geometry(),
		Style:           cfg.Style.Name,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          loggerFromContext(ctx),
	})

	printInfo("Serving %s maps on %s", st.Backend(), StyleLink.Render("http://"+cfg.Server.Addr))
	return srv.ListenAndServe(ctx)
}
