// Package mesh decodes glTF mesh primitives into GPU-ready streams.
//
// A primitive's accessors are resolved through their buffer views and
// buffers into read plans, index data is widened or kept at its source
// width, and the recognized vertex attributes are interleaved into one
// buffer whose layout is ordered by attribute name:
//
//	asset, err := scene.Load("model.glb")
//	c := mesh.NewCompiler(asset, mesh.WithLogger(log))
//	d, err := c.Compile(0, 0)
//	// d.Vertices, d.Layout.Stride, d.Indices, d.IndexWidth, d.Topology, d.Count
package mesh
