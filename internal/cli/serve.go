package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storyloom/storyloom/internal/server"
	"github.com/storyloom/storyloom/pkg/branch"
	"github.com/storyloom/storyloom/pkg/cache"
	"github.com/storyloom/storyloom/pkg/pipeline"
	"github.com/storyloom/storyloom/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the story graph HTTP API",
		Long: `Run the story graph HTTP API.

Stories are persisted in MongoDB when mongo.uri is configured, otherwise in
memory. Layout results are cached in Redis when redis.addr is configured,
otherwise in a local file cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	layoutCache, err := c.newServeCache(ctx)
	if err != nil {
		return err
	}
	defer layoutCache.Close()

	runner := pipeline.NewRunner(layoutCache, nil, c.Logger, nil)

	cfg := c.Config.Branch
	branches := branch.NewManager(branch.NewMemoryService(cfg.RootID), cfg.RootID, cfg.RootLabel, c.Logger)

	srv := server.New(st, runner, branches, c.Logger)
	return srv.Run(ctx, addr)
}

// newStore selects MongoDB when configured, the memory store otherwise.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if uri := c.Config.Mongo.URI; uri != "" {
		st, err := store.NewMongoStore(ctx, uri, c.Config.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("connect store: %w", err)
		}
		c.Logger.Info("using mongo store", "database", c.Config.Mongo.Database)
		return st, nil
	}
	c.Logger.Warn("no mongo.uri configured, stories will not survive restarts")
	return store.NewMemoryStore(), nil
}

// newServeCache selects Redis when configured, the file cache otherwise.
func (c *CLI) newServeCache(ctx context.Context) (cache.Cache, error) {
	if rc := c.Config.Redis; rc.Addr != "" {
		rcache, err := cache.NewRedisCache(ctx, rc.Addr, rc.Password, rc.DB)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		c.Logger.Info("using redis cache", "addr", rc.Addr)
		return rcache, nil
	}
	return c.newCache(false)
}
