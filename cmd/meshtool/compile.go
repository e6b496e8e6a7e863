package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/internal/bake"
	"github.com/Faultbox/gltfmesh/internal/logger"
	"github.com/Faultbox/gltfmesh/pkg/mesh"
)

func cmdCompile(args []string) error {
	fs, cfg, err := command("compile", "<file>", 1, args, nil)
	if err != nil {
		return err
	}

	_, c, err := open(fs.Arg(0), cfg)
	if err != nil {
		return err
	}

	drawables, err := compileAll(c, cfg)
	if err != nil && !cfg.Decode.BestEffort {
		return err
	}
	reportSkipped(err)

	for _, d := range drawables {
		fmt.Printf("mesh %d primitive %d: %s\n", d.Mesh, d.Primitive, d.Topology)
		fmt.Printf("  vertices %d, stride %d, layout %s\n", d.VertexCount, d.Layout.Stride, formatLayout(d.Layout))
		if d.Indexed() {
			fmt.Printf("  indices %s, count %d\n", d.IndexWidth, d.Count)
		} else {
			fmt.Printf("  not indexed, count %d\n", d.Count)
		}
		if cfg.Export.Digest {
			sum := bake.Digest(d.Vertices, d.Indices)
			fmt.Printf("  blake3 %s\n", hex.EncodeToString(sum[:]))
		}
	}

	hits, misses := c.CacheStats()
	fmt.Printf("\n%d drawables (buffer cache: %d hits, %d misses)\n", len(drawables), hits, misses)
	return nil
}

func cmdExport(args []string) error {
	fs, cfg, err := command("export", "<file> <out.cbor>", 2, args, nil)
	if err != nil {
		return err
	}
	src, dst := fs.Arg(0), fs.Arg(1)

	_, c, err := open(src, cfg)
	if err != nil {
		return err
	}

	drawables, err := compileAll(c, cfg)
	if err != nil && !cfg.Decode.BestEffort {
		return err
	}
	reportSkipped(err)

	if err := bake.WriteFile(dst, bake.FromDrawables(filepath.Base(src), drawables)); err != nil {
		return err
	}

	var size int64
	if st, err := os.Stat(dst); err == nil {
		size = st.Size()
	}
	logger.Log.Info("baked file written",
		zap.String("path", dst),
		zap.Int("drawables", len(drawables)),
		zap.Int64("bytes", size),
	)
	fmt.Printf("Exported %d drawables to %s (%d bytes)\n", len(drawables), dst, size)
	return nil
}

// reportSkipped lists the primitives a best-effort batch left out.
func reportSkipped(err error) {
	for _, e := range multierr.Errors(err) {
		fmt.Fprintf(os.Stderr, "skipped: %v\n", e)
	}
}

func formatLayout(l mesh.VertexLayout) string {
	parts := make([]string, len(l.Attributes))
	for i, a := range l.Attributes {
		parts[i] = fmt.Sprintf("%s@%d/%d", a.Semantic, a.Offset, a.Components)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
