package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ritzau/workflow-canvas/pkg/canvas"
	"github.com/ritzau/workflow-canvas/pkg/config"
	"github.com/ritzau/workflow-canvas/pkg/logging"
	"github.com/ritzau/workflow-canvas/pkg/notify"
	"github.com/ritzau/workflow-canvas/pkg/palette"
	"github.com/ritzau/workflow-canvas/pkg/pubsub"
	"github.com/ritzau/workflow-canvas/pkg/store"
	"github.com/ritzau/workflow-canvas/pkg/watcher"
	"github.com/ritzau/workflow-canvas/pkg/web"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the editor web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	pal, err := palette.Load(cfg.Palette)
	if err != nil {
		return err
	}

	pub := pubsub.NewSSEPublisher(pubsub.DefaultTopics())
	editor := canvas.New(
		canvas.WithNotifier(notify.NewPubSubNotifier(pub)),
		canvas.WithSaver(st),
	)

	server, err := web.NewServer(web.Options{
		Editor:    editor,
		Publisher: pub,
		Store:     st,
		Palette:   pal,
	})
	if err != nil {
		return err
	}
	if err := server.PublishWorkflows(ctx, nil); err != nil {
		logging.Warn("failed to publish initial workflow list", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	var changes <-chan watcher.ChangeEvent
	if cfg.Watch {
		dir, match := watchTarget(cfg)
		fw, err := watcher.NewFileWatcher(dir, match)
		if err != nil {
			return err
		}
		if err := fw.Start(ctx); err != nil {
			return err
		}
		debouncer := watcher.NewDebouncer(fw.Events(), 250*time.Millisecond, 2*time.Second)
		debouncer.Start(ctx)
		changes = debouncer.Output()
	}

	g.Go(func() error {
		return server.Run(ctx, cfg.Port)
	})

	if changes != nil {
		g.Go(func() error {
			for ev := range changes {
				summary := watcher.Summarize(ev)
				if summary.Empty() {
					continue
				}
				logging.Info("workflow store changed", "written", len(summary.Written), "removed", len(summary.Removed))
				if err := server.PublishWorkflows(ctx, summary.All()); err != nil {
					logging.Warn("failed to publish workflow list", "error", err)
				}
			}
			return nil
		})
	}

	if cfg.Open {
		g.Go(func() error {
			select {
			case <-time.After(300 * time.Millisecond):
				openBrowser(fmt.Sprintf("http://localhost:%d", cfg.Port))
			case <-ctx.Done():
			}
			return nil
		})
	}

	return g.Wait()
}

// watchTarget picks the directory and files to watch for the configured store.
func watchTarget(cfg *config.Config) (string, watcher.Matcher) {
	if store.Driver(cfg.Store.Driver) == store.DriverSQLite {
		base := filepath.Base(cfg.Store.Path)
		return filepath.Dir(cfg.Store.Path), watcher.NameMatcher(base, base+"-wal")
	}
	return cfg.Store.Path, watcher.ExtMatcher(store.FileExt)
}
