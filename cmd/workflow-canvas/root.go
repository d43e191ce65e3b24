package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ritzau/workflow-canvas/pkg/codec"
	"github.com/ritzau/workflow-canvas/pkg/config"
	"github.com/ritzau/workflow-canvas/pkg/logging"
	"github.com/ritzau/workflow-canvas/pkg/store"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "workflow-canvas",
		Short:         "Visual editor for workflow graphs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./"+config.DefaultFile+" if present)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		serveCmd(&configPath),
		inspectCmd(&configPath),
	)
	return root
}

// loadConfig reads config for cmd and applies the logging settings.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Configure(os.Stderr, level, cfg.Log.JSON)
	return cfg, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	driver, err := store.ParseDriver(cfg.Store.Driver)
	if err != nil {
		return nil, err
	}
	compression, err := codec.ParseCompression(cfg.Store.Compression)
	if err != nil {
		return nil, err
	}
	c := &codec.Codec{Format: codec.MsgpackFormat{}, Compression: compression}
	return store.Open(driver, cfg.Store.Path, c)
}
