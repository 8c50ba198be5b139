// Package render works with the textual Graphviz graphs captured from the
// visualizer.
//
// blast-radius normally produces both the vector diagram and the DOT
// source. The DOT file is kept for inspection; this package can check that
// it parses and re-render it to SVG in-process with the WebAssembly build of
// Graphviz, without re-running Terraform or blast-radius:
//
//	if err := render.ValidateDOT(ctx, data); err != nil {
//	    logger.Warn("captured graph does not parse", "err", err)
//	}
//	svg, err := render.SVG(ctx, data, render.Options{Fluid: true})
package render
