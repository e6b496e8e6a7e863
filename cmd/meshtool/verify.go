package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/Faultbox/gltfmesh/internal/bake"
	"github.com/Faultbox/gltfmesh/pkg/mesh"
)

func cmdVerify(args []string) error {
	var against string
	fs, cfg, err := command("verify", "[--against <file>] <baked.cbor>", 1, args, func(fs *pflag.FlagSet) {
		fs.StringVar(&against, "against", "", "recompile this asset and compare")
	})
	if err != nil {
		return err
	}

	// ReadFile checks every digest.
	f, err := bake.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	restored := make([]*mesh.Drawable, len(f.Drawables))
	for i := range f.Drawables {
		d, err := f.Drawables[i].Restore()
		if err != nil {
			return fmt.Errorf("drawable %d: %w", i, err)
		}
		restored[i] = d
	}
	fmt.Printf("%s: version %d, source %s, %d drawables OK\n", fs.Arg(0), f.Version, f.Source, len(restored))

	if against == "" {
		return nil
	}

	_, c, err := open(against, cfg)
	if err != nil {
		return err
	}
	fresh, err := compileAll(c, cfg)
	if err != nil && !cfg.Decode.BestEffort {
		return err
	}
	reportSkipped(err)

	return compareDrawables(restored, fresh)
}

// compareDrawables reports the first drawable whose streams differ.
func compareDrawables(baked, fresh []*mesh.Drawable) error {
	if len(baked) != len(fresh) {
		return fmt.Errorf("baked file has %d drawables, asset compiles to %d", len(baked), len(fresh))
	}
	for i := range baked {
		b, f := baked[i], fresh[i]
		switch {
		case b.Mesh != f.Mesh || b.Primitive != f.Primitive:
			return fmt.Errorf("drawable %d: baked mesh %d primitive %d, asset mesh %d primitive %d",
				i, b.Mesh, b.Primitive, f.Mesh, f.Primitive)
		case b.Topology != f.Topology || b.Count != f.Count || b.IndexWidth != f.IndexWidth:
			return fmt.Errorf("mesh %d primitive %d: draw parameters differ", b.Mesh, b.Primitive)
		case !bytes.Equal(b.Vertices, f.Vertices):
			return fmt.Errorf("mesh %d primitive %d: vertex stream differs", b.Mesh, b.Primitive)
		case !bytes.Equal(b.Indices, f.Indices):
			return fmt.Errorf("mesh %d primitive %d: index stream differs", b.Mesh, b.Primitive)
		}
	}
	fmt.Printf("%d drawables match the asset\n", len(baked))
	return nil
}
