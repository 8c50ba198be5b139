package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/goccy/go-graphviz"
)

// DefaultLayout is the Graphviz engine blast-radius itself lays graphs out
// with.
const DefaultLayout = "dot"

// Layouts lists the layout engines accepted by [Options.Layout].
var Layouts = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage"}

// Options controls how [SVG] renders a graph.
type Options struct {
	// Layout is the Graphviz engine name. Empty means DefaultLayout.
	Layout string
	// Fluid drops the fixed width and height from the root element so
	// the drawing scales to its container. The viewBox is kept.
	Fluid bool
}

// ValidateLayout rejects layout engine names Graphviz does not provide.
func ValidateLayout(layout string) error {
	if layout == "" || slices.Contains(Layouts, layout) {
		return nil
	}
	return fmt.Errorf("unknown layout %q (want one of %v)", layout, Layouts)
}

// ValidateDOT reports whether data parses as a Graphviz graph.
func ValidateDOT(ctx context.Context, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("parse DOT: empty graph")
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	return g.Close()
}

// SVG lays out a DOT graph and renders it to SVG. Graphviz output is
// returned as produced unless opts.Fluid is set.
func SVG(ctx context.Context, dot []byte, opts Options) ([]byte, error) {
	if err := ValidateLayout(opts.Layout); err != nil {
		return nil, err
	}
	layout := opts.Layout
	if layout == "" {
		layout = DefaultLayout
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(layout))

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %s layout: %w", layout, err)
	}
	if opts.Fluid {
		return stripRootSize(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var sizeAttrRe = regexp.MustCompile(`\s(?:width|height)="[^"]*"`)

// stripRootSize removes width and height from the root <svg> element only.
// Nested elements such as <image> keep their sizes.
func stripRootSize(svg []byte) []byte {
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		return svg
	}
	end := bytes.IndexByte(svg[start:], '>')
	if end < 0 {
		return svg
	}
	end += start

	out := make([]byte, 0, len(svg))
	out = append(out, svg[:start]...)
	out = append(out, sizeAttrRe.ReplaceAll(svg[start:end], nil)...)
	return append(out, svg[end:]...)
}
