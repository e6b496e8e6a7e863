package mesh

import (
	"context"
	"runtime"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchOptions controls CompileAll.
type BatchOptions struct {
	// Workers is the number of primitives compiled in parallel.
	// Zero means GOMAXPROCS.
	Workers int

	// BestEffort skips primitives that fail instead of aborting the load.
	BestEffort bool
}

// CompileMesh compiles every primitive of mesh m in order, stopping at the
// first failure.
func (c *Compiler) CompileMesh(m int) ([]*Drawable, error) {
	mesh, err := c.doc.Mesh(m)
	if err != nil {
		return nil, atPrimitive(err, m, -1)
	}

	out := make([]*Drawable, 0, len(mesh.Primitives))
	for p := range mesh.Primitives {
		d, err := c.Compile(m, p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// CompileAll compiles every primitive of the document in parallel. The
// result is ordered by mesh, then primitive.
//
// By default the first failure aborts the batch and no drawables are
// returned. With BestEffort, failing primitives are skipped and the returned
// error combines their failures; the drawables that compiled are returned
// alongside it.
func (c *Compiler) CompileAll(ctx context.Context, opts BatchOptions) ([]*Drawable, error) {
	type ref struct{ mesh, prim int }
	var refs []ref
	for m, mesh := range c.doc.Meshes {
		for p := range mesh.Primitives {
			refs = append(refs, ref{m, p})
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Drawable, len(refs))
	failures := make([]error, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, r := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := c.Compile(r.mesh, r.prim)
			if err != nil {
				if opts.BestEffort {
					c.log.Warn("skipping primitive", zap.Error(err))
					failures[i] = err
					return nil
				}
				return err
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	drawables := make([]*Drawable, 0, len(results))
	for _, d := range results {
		if d != nil {
			drawables = append(drawables, d)
		}
	}

	hits, misses := c.CacheStats()
	c.log.Info("asset compiled",
		zap.Int("primitives", len(refs)),
		zap.Int("drawables", len(drawables)),
		zap.Int("workers", workers),
		zap.Int("cacheHits", hits),
		zap.Int("cacheMisses", misses),
	)
	return drawables, multierr.Combine(failures...)
}
