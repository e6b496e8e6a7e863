package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// Compiler turns the primitives of one asset into drawables. It shares a
// buffer cache across compilations of the same asset and is safe for
// concurrent use: compiling one primitive never mutates shared state
// beyond the cache.
type Compiler struct {
	asset   *scene.Asset
	doc     *scene.Document
	buffers BufferResolver
	cache   *BufferCache // nil when caching is disabled
	log     *zap.Logger
}

// Option configures a Compiler.
type Option func(*compilerOptions)

type compilerOptions struct {
	log     *zap.Logger
	noCache bool
	source  BufferResolver
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(o *compilerOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithoutCache makes every accessor resolve its buffer again.
func WithoutCache() Option {
	return func(o *compilerOptions) {
		o.noCache = true
	}
}

// WithBufferResolver replaces the asset's default buffer source.
func WithBufferResolver(r BufferResolver) Option {
	return func(o *compilerOptions) {
		o.source = r
	}
}

// NewCompiler creates a compiler for asset.
func NewCompiler(asset *scene.Asset, opts ...Option) *Compiler {
	o := compilerOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	src := o.source
	if src == nil {
		src = NewSource(asset, o.log)
	}

	c := &Compiler{
		asset:   asset,
		doc:     asset.Document,
		buffers: src,
		log:     o.log,
	}
	if !o.noCache {
		c.cache = NewBufferCache(src)
		c.buffers = c.cache
	}
	return c
}

// Asset returns the asset being compiled.
func (c *Compiler) Asset() *scene.Asset {
	return c.asset
}

// Document returns the document being compiled.
func (c *Compiler) Document() *scene.Document {
	return c.doc
}

// CacheStats returns buffer cache hits and misses; zero when caching is disabled.
func (c *Compiler) CacheStats() (hits, misses int) {
	if c.cache == nil {
		return 0, 0
	}
	return c.cache.Stats()
}

// Compile compiles primitive prim of mesh m.
func (c *Compiler) Compile(m, prim int) (*Drawable, error) {
	p, err := c.doc.Primitive(m, prim)
	if err != nil {
		return nil, atPrimitive(err, m, prim)
	}

	d, err := c.compile(p)
	if err != nil {
		return nil, atPrimitive(err, m, prim)
	}
	d.Mesh, d.Primitive = m, prim

	if d.Layout.Ragged() {
		c.log.Warn("attribute counts differ, short attributes are zero-filled",
			zap.Int("mesh", m),
			zap.Int("primitive", prim),
			zap.Int("vertices", d.VertexCount),
		)
	}
	c.log.Debug("primitive compiled",
		zap.Int("mesh", m),
		zap.Int("primitive", prim),
		zap.Stringer("topology", d.Topology),
		zap.Int("vertices", d.VertexCount),
		zap.Int("stride", d.Layout.Stride),
		zap.Stringer("indexWidth", d.IndexWidth),
		zap.Int("count", d.Count),
	)
	return d, nil
}

// CompilePrimitive compiles a primitive of the compiler's document.
// On error no drawable is returned.
func (c *Compiler) CompilePrimitive(p *scene.Primitive) (*Drawable, error) {
	return c.compile(p)
}

func (c *Compiler) compile(p *scene.Primitive) (*Drawable, error) {
	topology, err := TopologyForMode(p.Mode)
	if err != nil {
		return nil, newError("topology", err)
	}

	d := &Drawable{Topology: topology, Mesh: -1, Primitive: -1}

	if p.Indices != nil {
		values, width, err := c.indices(*p.Indices)
		if err != nil {
			return nil, err
		}
		d.Indices = EncodeIndices(values, width)
		d.IndexWidth = width
	}

	layout, err := BuildLayout(c.doc, p.Attributes)
	if err != nil {
		return nil, err
	}

	plans := make([]ReadPlan, len(layout.Attributes))
	for j, attr := range layout.Attributes {
		plans[j], err = c.plan(attr.Accessor)
		if err != nil {
			return nil, err
		}
	}

	vertices, err := Assemble(layout, plans)
	if err != nil {
		return nil, newError("assemble", err)
	}

	d.Layout = layout
	d.Vertices = vertices
	d.VertexCount = layout.VertexCount()
	d.Count = d.VertexCount
	if d.Indexed() {
		d.Count = len(d.Indices) / d.IndexWidth.Bytes()
	}
	return d, nil
}

// indices decodes index accessor index and picks its destination width.
func (c *Compiler) indices(index int) ([]uint32, IndexWidth, error) {
	acc, err := c.doc.Accessor(index)
	if err != nil {
		return nil, IndexNone, indexError(err, index)
	}
	width, err := IndexWidthFor(acc.ComponentType)
	if err != nil {
		return nil, IndexNone, indexError(err, index)
	}
	if acc.Type != scene.ShapeScalar {
		return nil, IndexNone, indexError(fmt.Errorf("%w: index accessor is %s, want SCALAR", ErrUnsupportedShape, acc.Type), index)
	}

	plan, err := c.plan(index)
	if err != nil {
		return nil, IndexNone, err
	}
	values, err := DecodeIndices(plan, acc.ComponentType)
	if err != nil {
		return nil, IndexNone, indexError(err, index)
	}
	return values, width, nil
}

// plan resolves accessor index through its buffer view and buffer.
func (c *Compiler) plan(index int) (ReadPlan, error) {
	e := newError("plan", nil)
	e.Accessor = index

	acc, err := c.doc.Accessor(index)
	if err != nil {
		e.Err = err
		return ReadPlan{}, e
	}
	if acc.Sparse {
		e.Err = ErrSparseAccessor
		return ReadPlan{}, e
	}
	if acc.BufferView == nil {
		plan, err := zeroPlan(acc)
		if err != nil {
			e.Err = err
			return ReadPlan{}, e
		}
		return plan, nil
	}

	e.BufferView = *acc.BufferView
	view, err := c.doc.BufferView(*acc.BufferView)
	if err != nil {
		e.Err = err
		return ReadPlan{}, e
	}

	e.Buffer = view.Buffer
	buf, err := c.buffers.Resolve(view.Buffer)
	if err != nil {
		e.Err = err
		return ReadPlan{}, e
	}

	plan, err := PlanAccessor(acc, view, buf)
	if err != nil {
		e.Err = err
		return ReadPlan{}, e
	}
	return plan, nil
}

func indexError(err error, accessor int) error {
	e := newError("indices", err)
	e.Accessor = accessor
	return e
}
