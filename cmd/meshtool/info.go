package main

import (
	"fmt"
	"sort"

	"github.com/Faultbox/gltfmesh/pkg/mesh"
	"github.com/Faultbox/gltfmesh/pkg/scene"
)

func cmdInfo(args []string) error {
	fs, cfg, err := command("info", "<file>", 1, args, nil)
	if err != nil {
		return err
	}

	asset, _, err := open(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	doc := asset.Document

	fmt.Printf("File: %s\n", fs.Arg(0))
	fmt.Printf("Version: %s\n", doc.Version)
	if doc.Generator != "" {
		fmt.Printf("Generator: %s\n", doc.Generator)
	}
	if asset.Payload != nil {
		fmt.Printf("Container: GLB (%d byte payload)\n", len(asset.Payload))
	}
	fmt.Printf("Accessors: %d  Buffer views: %d\n", len(doc.Accessors), len(doc.BufferViews))

	fmt.Printf("\nBuffers (%d):\n", len(doc.Buffers))
	for i := range doc.Buffers {
		b := &doc.Buffers[i]
		fmt.Printf("  [%d] %-8s %10d bytes", i, mesh.KindOf(b), b.ByteLength)
		if mesh.KindOf(b) == mesh.SourceFile {
			fmt.Printf("  %s", b.URI)
		}
		fmt.Println()
	}

	fmt.Printf("\nMeshes (%d, %d primitives):\n", len(doc.Meshes), doc.PrimitiveCount())
	for m, me := range doc.Meshes {
		name := me.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("  [%d] %s\n", m, name)
		for p := range me.Primitives {
			printPrimitive(doc, p, &me.Primitives[p])
		}
	}
	return nil
}

func printPrimitive(doc *scene.Document, index int, p *scene.Primitive) {
	topology := "unsupported"
	if t, err := mesh.TopologyForMode(p.Mode); err == nil {
		topology = t.String()
	}
	mode := scene.ModeTriangles
	if p.Mode != nil {
		mode = *p.Mode
	}
	fmt.Printf("    primitive %d: mode %d (%s)", index, mode, topology)
	if p.Indices != nil {
		fmt.Printf(", indices %s", describeAccessor(doc, *p.Indices))
	}
	fmt.Println()

	names := make([]string, 0, len(p.Attributes))
	for name := range p.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		marker := " "
		if mesh.ParseSemantic(name) == mesh.SemanticUnknown {
			marker = "-"
		}
		fmt.Printf("      %s %-12s %s\n", marker, name, describeAccessor(doc, p.Attributes[name]))
	}
}

func describeAccessor(doc *scene.Document, index int) string {
	acc, err := doc.Accessor(index)
	if err != nil {
		return fmt.Sprintf("#%d (missing)", index)
	}
	s := fmt.Sprintf("#%d %s %s x%d", index, acc.Type, acc.ComponentType, acc.Count)
	switch {
	case acc.Sparse:
		s += " sparse"
	case acc.BufferView == nil:
		s += " zero"
	}
	return s
}
