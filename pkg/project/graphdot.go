package project

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

// DependencyDOT renders the target dependency graph in Graphviz DOT
// form: one node per target, one edge per dependency record. The
// result feeds [RenderSVG] and [RenderPNG].
func (p *Project) DependencyDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph targets {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded];\n\n")

	for _, t := range p.Targets() {
		label := t.Name
		if label == "" {
			label = t.ID
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", t.ID, label)
	}

	buf.WriteString("\n")
	for _, t := range targetISAs {
		sec := p.Graph.Section(t.isa)
		if sec == nil {
			continue
		}
		for _, f := range sec.Fields() {
			obj, ok := f.Value.(*openstep.Dict)
			if !ok {
				continue
			}
			deps, ok := obj.GetArray("dependencies")
			if !ok {
				continue
			}
			for _, e := range deps.Elems {
				edgeID, ok := e.Value.(openstep.String)
				if !ok {
					continue
				}
				edge, isa := p.Graph.Object(string(edgeID))
				if isa != pbx.TargetDependency {
					continue
				}
				dep, ok := edge.GetString("target")
				if !ok {
					continue
				}
				fmt.Fprintf(&buf, "  %q -> %q;\n", f.Key, dep)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays a DOT graph out with Graphviz and returns the SVG.
func RenderSVG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.SVG)
}

// RenderPNG lays a DOT graph out with Graphviz and returns the PNG.
func RenderPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG)
}

func renderDOT(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
