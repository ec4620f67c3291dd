// Package pkg provides the core libraries for mindmap.
//
// # Overview
//
// A mind map is a tree grown one node at a time: the user selects a node and
// appends a child to it. The libraries are organized as:
//
//  1. [mindmap] - The tree model (arena of nodes, selection, append, styles)
//  2. [layout] - Left-to-right placement with per-subtree vertical bands
//  3. [surface] - A map bound to a drawing area, relaid out on every change
//  4. [render] - SVG, PNG, PDF, JSON and Graphviz outputs
//  5. [pipeline] - Orchestration (layout → render) shared by CLI and server
//  6. [snapshot] - JSON documents and YAML outlines
//  7. [store] - Persistence (memory, file, SQLite, Redis, MongoDB)
//
// # Architecture
//
// The typical data flow:
//
//	snapshot / outline / store
//	         ↓
//	    [mindmap] package (tree + selection)
//	         ↓
//	    [layout] package (boxes, links, bands)
//	         ↓
//	    [render] packages (sinks)
//	         ↓
//	    SVG/PNG/PDF/JSON/DOT output
//
// # Quick Start
//
//	m := mindmap.New()
//	sf := surface.Attach(m, 1280, 800, layout.Options{})
//	sf.Click("1")                       // root gets a "new node" child
//	svg := sink.RenderSVG(sf.Layout())
//
// Supporting packages: [errors] (coded errors), [config] (TOML settings),
// [observability] (hooks), [buildinfo] (version).
package pkg
