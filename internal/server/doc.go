// Package server implements the MCP (Model Context Protocol) server for pixel-art editing.
//
// This package provides a JSON-RPC 2.0 server that exposes the editor through
// the MCP protocol. A client opens one or more documents and then draws, selects,
// transforms and recolors them with tool calls, pulling PNG renders back whenever
// it wants to look at the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Documents:
//   - canvas_new, canvas_open, canvas_import: Create or load a document
//   - canvas_save: Write a snapshot (all layers, palette, mode)
//   - canvas_export: Render the composite as PNG, optionally scaled, fitted or gridded
//   - canvas_info, canvas_list, canvas_close: Inspect and manage documents
//   - canvas_resize, canvas_flip: Whole-canvas geometry
//
// Layers:
//   - layer_add, layer_duplicate, layer_remove, layer_move
//   - layer_set_active, layer_set_visible, layer_set_locked
//   - layer_clear, layer_translate
//
// Drawing:
//   - draw_pixel, draw_stamp, draw_line: Square-brush painting
//   - draw_rect, draw_ellipse: Outlined or filled shapes
//   - draw_fill: Contiguous or global bucket fill
//   - stroke_begin, stroke_end: Group drawing calls into one undo step
//   - sample_color: Eyedropper
//
// Selection and transforms:
//   - select_rect, select_polygon, select_magic_wand, select_all
//   - select_invert, select_clear, select_delete
//   - transform_begin, transform_set, transform_move
//   - transform_commit, transform_cancel
//
// Palette and history:
//   - palette_set_color, palette_add_color, palette_set_transparent
//   - palette_preset, color_mode
//   - history_undo, history_redo
//
// # Colors
//
// RGBA documents take colors as "#RRGGBB" or "#RRGGBBAA". Indexed documents
// take a palette "index" instead. Results always report colors as "#RRGGBBAA".
//
// # Documents
//
// Open documents live in a DocumentStore for the lifetime of the server
// process. Calls on the same document are serialized; calls on different
// documents may run concurrently.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Edits that are valid but change nothing (drawing on a locked layer, undo
// with an empty history) are not errors; their result reports
// "changed": false.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(server.DefaultConfig(), logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
