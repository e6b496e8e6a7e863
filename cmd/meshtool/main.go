// meshtool inspects glTF assets and compiles their mesh primitives into
// GPU-ready vertex and index streams.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/Faultbox/gltfmesh/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "compile", "c":
		err = cmdCompile(args)
	case "export", "x":
		err = cmdExport(args)
	case "verify":
		err = cmdVerify(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - glTF mesh compiler

Usage:
  meshtool <command> [options]

Commands:
  info <file>                 Show buffers, meshes and primitives
  compile <file>              Compile every primitive and print its layout
  export <file> <out.cbor>    Compile and write a baked file
  verify <baked.cbor>         Check a baked file's digests

Common options:
  -c, --config <path>         Config file
      --debug                 Debug logging
  -j, --workers <n>           Primitives compiled in parallel
      --best-effort           Skip primitives that fail

Examples:
  meshtool info scene.gltf
  meshtool compile --best-effort model.glb
  meshtool export model.glb model.cbor
  meshtool verify --against model.glb model.cbor`)
}
