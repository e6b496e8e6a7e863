// meshview opens a glTF asset or a baked file and shows its compiled
// primitives in an orbit viewer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/internal/config"
	"github.com/Faultbox/gltfmesh/internal/logger"
)

func main() {
	flags := config.RegisterFlags(pflag.CommandLine)
	flags.RegisterViewerFlags()
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: meshview [options] <file.gltf|file.glb|file.cbor>\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Log.Info("=== meshview ===", zap.String("file", pflag.Arg(0)))
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := newViewer(cfg, pflag.Arg(0))
	if err != nil {
		logger.Log.Error("failed to open viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer v.Close()

	v.Run()
	logger.Log.Info("viewer closed normally")
}
