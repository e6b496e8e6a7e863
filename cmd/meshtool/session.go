package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/internal/config"
	"github.com/Faultbox/gltfmesh/internal/logger"
	"github.com/Faultbox/gltfmesh/pkg/mesh"
	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// command parses the flags of one subcommand, loads the config and
// starts logging. extra registers command-specific flags.
func command(name, usage string, nargs int, args []string, extra func(fs *pflag.FlagSet)) (*pflag.FlagSet, *config.Config, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: meshtool %s %s\n\n", name, usage)
		fs.PrintDefaults()
	}
	flags := config.RegisterFlags(fs)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() != nargs {
		fs.Usage()
		return nil, nil, fmt.Errorf("%s takes %d argument(s), got %d", name, nargs, fs.NArg())
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, err
	}
	return fs, cfg, nil
}

// open loads an asset and creates its compiler.
func open(path string, cfg *config.Config) (*scene.Asset, *mesh.Compiler, error) {
	asset, err := scene.Load(path)
	if err != nil {
		return nil, nil, err
	}

	opts := []mesh.Option{mesh.WithLogger(logger.Named("mesh"))}
	if !cfg.Decode.CacheBuffers {
		opts = append(opts, mesh.WithoutCache())
	}

	doc := asset.Document
	logger.Log.Info("asset opened",
		zap.String("path", path),
		zap.Bool("glb", asset.Payload != nil),
		zap.Int("buffers", len(doc.Buffers)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("primitives", doc.PrimitiveCount()),
	)
	return asset, mesh.NewCompiler(asset, opts...), nil
}

// compileAll compiles every primitive, honoring Ctrl-C.
func compileAll(c *mesh.Compiler, cfg *config.Config) ([]*mesh.Drawable, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.CompileAll(ctx, mesh.BatchOptions{
		Workers:    cfg.Decode.Workers,
		BestEffort: cfg.Decode.BestEffort,
	})
}
