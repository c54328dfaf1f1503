package server

import (
	"github.com/ironsheep/pixel-tools-mcp/internal/paint"
	"github.com/ironsheep/pixel-tools-mcp/internal/palette"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// schema builds an object input schema. Every tool except canvas_new and
// the import/open tools operates on a document, so document_id is added
// and required unless withDoc is false.
func schema(withDoc bool, props map[string]interface{}, required ...string) map[string]interface{} {
	if props == nil {
		props = map[string]interface{}{}
	}
	if withDoc {
		props["document_id"] = stringProp("Document ID returned by canvas_new, canvas_open or canvas_import")
		required = append([]string{"document_id"}, required...)
	}
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func intProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

func numberProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

func boolProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": desc}
}

func enumProp(desc string, values []string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc, "enum": values}
}

func withDefault(p map[string]interface{}, v interface{}) map[string]interface{} {
	p["default"] = v
	return p
}

// paintProps are the value and brush arguments shared by the drawing tools.
func paintProps(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"color": stringProp("Color as #RRGGBB or #RRGGBBAA (RGBA documents)"),
		"index": intProp("Palette index (indexed documents)"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func brushProps(extra map[string]interface{}) map[string]interface{} {
	props := paintProps(extra)
	props["size"] = withDefault(intProp("Square brush size in pixels"), 1)
	props["pattern"] = enumProp("Dither pattern gating brush writes", paint.PatternNames())
	return props
}

func boxProps() map[string]interface{} {
	return map[string]interface{}{
		"x0":      intProp("First corner X (inclusive)"),
		"y0":      intProp("First corner Y (inclusive)"),
		"x1":      intProp("Opposite corner X (inclusive)"),
		"y1":      intProp("Opposite corner Y (inclusive)"),
		"filled":  withDefault(boolProp("Fill the shape instead of drawing its outline"), false),
		"pattern": enumProp("Dither pattern gating writes", paint.PatternNames()),
	}
}

func pointProps() map[string]interface{} {
	return map[string]interface{}{
		"x": intProp("X coordinate (0-based)"),
		"y": intProp("Y coordinate (0-based)"),
	}
}

func layerProps(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"layer_id": stringProp("Layer ID as listed by canvas_info"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	modes := []string{"rgba", "indexed"}

	return []Tool{
		// Documents
		{
			Name:        "canvas_new",
			Description: "Create a blank document with a single transparent layer. Returns the document ID used by every other tool.",
			InputSchema: schema(false, map[string]interface{}{
				"width":   intProp("Canvas width in pixels (1-2048)"),
				"height":  intProp("Canvas height in pixels (1-2048)"),
				"mode":    withDefault(enumProp("Pixel representation", modes), "rgba"),
				"palette": enumProp("Palette preset for indexed documents (default pico-8)", palette.PresetNames()),
			}, "width", "height"),
		},
		{
			Name:        "canvas_open",
			Description: "Open a document snapshot previously written by canvas_save.",
			InputSchema: schema(false, map[string]interface{}{
				"path": stringProp("Absolute path to the snapshot file"),
			}, "path"),
		},
		{
			Name:        "canvas_import",
			Description: "Import a PNG, JPEG, GIF, BMP or TIFF image as a new single-layer document. Indexed import builds a palette from the image colors.",
			InputSchema: schema(false, map[string]interface{}{
				"path": stringProp("Absolute path to the image file"),
				"mode": withDefault(enumProp("Pixel representation of the new document", modes), "rgba"),
			}, "path"),
		},
		{
			Name:        "canvas_save",
			Description: "Save the document, with all layers, its palette and color mode, as a snapshot file.",
			InputSchema: schema(true, map[string]interface{}{
				"path": stringProp("Absolute path of the snapshot file to write"),
			}, "path"),
		},
		{
			Name:        "canvas_export",
			Description: "Render the composite image as a base64-encoded PNG, optionally cropped, upscaled or fitted to a box, and optionally write it to disk. A floating selection is included in the render.",
			InputSchema: schema(true, map[string]interface{}{
				"path":        stringProp("Optional absolute path; when set the PNG is also written there"),
				"scale":       withDefault(intProp("Integer upscale factor (1-32)"), 1),
				"max_width":   intProp("Fit the render within this width (overrides scale)"),
				"max_height":  intProp("Fit the render within this height (overrides scale)"),
				"crop_x":      intProp("Left edge of an optional crop region, in canvas pixels"),
				"crop_y":      intProp("Top edge of the crop region"),
				"crop_width":  intProp("Crop region width; 0 exports the whole canvas"),
				"crop_height": intProp("Crop region height"),
				"grid":        withDefault(boolProp("Draw pixel boundaries; needs an upscale of at least 2"), false),
				"grid_color":  stringProp("Grid line color as #RRGGBB or #RRGGBBAA (default #80808080)"),
				"grid_labels": intProp("Label canvas coordinates every N pixels; 0 disables labels"),
			}),
		},
		{
			Name:        "canvas_info",
			Description: "Describe a document: size, color mode, layers, palette, selection, floating state and history depth.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "canvas_close",
			Description: "Close a document and discard its history.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "canvas_list",
			Description: "List the IDs of the open documents.",
			InputSchema: schema(false, nil),
		},
		{
			Name:        "canvas_resize",
			Description: "Resize the canvas, keeping the top-left region and padding with transparency. Applies to every layer and clears the selection.",
			InputSchema: schema(true, map[string]interface{}{
				"width":  intProp("New width in pixels"),
				"height": intProp("New height in pixels"),
			}, "width", "height"),
		},
		{
			Name:        "canvas_flip",
			Description: "Mirror every layer horizontally or vertically. Clears the selection.",
			InputSchema: schema(true, map[string]interface{}{
				"direction": enumProp("Flip axis", []string{"horizontal", "vertical"}),
			}, "direction"),
		},

		// Layers
		{
			Name:        "layer_add",
			Description: "Add an empty layer above the active layer and make it active.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "layer_duplicate",
			Description: "Duplicate a layer; the copy is inserted above it and becomes active.",
			InputSchema: schema(true, layerProps(nil), "layer_id"),
		},
		{
			Name:        "layer_remove",
			Description: "Remove a layer. The last remaining layer cannot be removed.",
			InputSchema: schema(true, layerProps(nil), "layer_id"),
		},
		{
			Name:        "layer_move",
			Description: "Move a layer to a new stack position (0 is the bottom).",
			InputSchema: schema(true, layerProps(map[string]interface{}{
				"index": intProp("Target position, 0 = bottom"),
			}), "layer_id", "index"),
		},
		{
			Name:        "layer_set_active",
			Description: "Make a layer the target of drawing, selection and transform operations.",
			InputSchema: schema(true, layerProps(nil), "layer_id"),
		},
		{
			Name:        "layer_set_visible",
			Description: "Show or hide a layer in the composite.",
			InputSchema: schema(true, layerProps(map[string]interface{}{
				"visible": boolProp("Whether the layer is composited"),
			}), "layer_id", "visible"),
		},
		{
			Name:        "layer_set_locked",
			Description: "Lock or unlock a layer. Locked layers ignore drawing and transforms.",
			InputSchema: schema(true, layerProps(map[string]interface{}{
				"locked": boolProp("Whether the layer is locked"),
			}), "layer_id", "locked"),
		},
		{
			Name:        "layer_clear",
			Description: "Clear a layer to transparency.",
			InputSchema: schema(true, layerProps(nil), "layer_id"),
		},
		{
			Name:        "layer_translate",
			Description: "Shift the active layer by whole pixels. Uncovered cells become transparent.",
			InputSchema: schema(true, map[string]interface{}{
				"dx": intProp("Horizontal offset"),
				"dy": intProp("Vertical offset"),
			}, "dx", "dy"),
		},

		// Drawing
		{
			Name:        "draw_pixel",
			Description: "Set one pixel of the active layer.",
			InputSchema: schema(true, paintProps(pointProps()), "x", "y"),
		},
		{
			Name:        "draw_stamp",
			Description: "Stamp a square brush centered on a point.",
			InputSchema: schema(true, brushProps(pointProps()), "x", "y"),
		},
		{
			Name:        "draw_line",
			Description: "Draw a pixel-exact line with a square brush.",
			InputSchema: schema(true, brushProps(map[string]interface{}{
				"x0": intProp("Start X"),
				"y0": intProp("Start Y"),
				"x1": intProp("End X"),
				"y1": intProp("End Y"),
			}), "x0", "y0", "x1", "y1"),
		},
		{
			Name:        "draw_rect",
			Description: "Draw a rectangle outline or a filled rectangle between two corners.",
			InputSchema: schema(true, paintProps(boxProps()), "x0", "y0", "x1", "y1"),
		},
		{
			Name:        "draw_ellipse",
			Description: "Draw the ellipse inscribed in the box between two corners.",
			InputSchema: schema(true, paintProps(boxProps()), "x0", "y0", "x1", "y1"),
		},
		{
			Name:        "draw_fill",
			Description: "Bucket fill starting at a point. Contiguous fill floods the 4-connected region; otherwise every matching pixel of the layer is replaced.",
			InputSchema: schema(true, paintProps(map[string]interface{}{
				"x":          intProp("Seed X"),
				"y":          intProp("Seed Y"),
				"contiguous": withDefault(boolProp("Only fill the connected region"), true),
			}), "x", "y"),
		},
		{
			Name:        "stroke_begin",
			Description: "Start a stroke. Drawing calls until stroke_end are undone as a single step.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "stroke_end",
			Description: "Finish the current stroke and record it in history.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "sample_color",
			Description: "Pick the composited color at a point (eyedropper).",
			InputSchema: schema(true, pointProps(), "x", "y"),
		},

		// Selection
		{
			Name:        "select_rect",
			Description: "Select the rectangle between two inclusive corners.",
			InputSchema: schema(true, map[string]interface{}{
				"x0": intProp("First corner X"),
				"y0": intProp("First corner Y"),
				"x1": intProp("Opposite corner X"),
				"y1": intProp("Opposite corner Y"),
			}, "x0", "y0", "x1", "y1"),
		},
		{
			Name:        "select_polygon",
			Description: "Select the pixels whose centers fall inside a polygon (even-odd rule).",
			InputSchema: schema(true, map[string]interface{}{
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Polygon vertices, at least three",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x": map[string]interface{}{"type": "integer"},
							"y": map[string]interface{}{"type": "integer"},
						},
					},
				},
			}, "points"),
		},
		{
			Name:        "select_magic_wand",
			Description: "Select pixels of the active layer matching the value at a point.",
			InputSchema: schema(true, map[string]interface{}{
				"x":          intProp("Seed X"),
				"y":          intProp("Seed Y"),
				"contiguous": withDefault(boolProp("Only select the connected region"), true),
			}, "x", "y"),
		},
		{
			Name:        "select_all",
			Description: "Select the whole canvas.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "select_invert",
			Description: "Invert the selection.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "select_clear",
			Description: "Drop the selection.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "select_delete",
			Description: "Clear the selected pixels of the active layer to transparency.",
			InputSchema: schema(true, nil),
		},

		// Floating transforms
		{
			Name:        "transform_begin",
			Description: "Lift the selected pixels of the active layer into a floating patch that can be moved, rotated and scaled.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "transform_set",
			Description: "Set the floating patch transform. Omitted fields keep their current value.",
			InputSchema: schema(true, map[string]interface{}{
				"center_x": numberProp("Patch center X in canvas coordinates"),
				"center_y": numberProp("Patch center Y in canvas coordinates"),
				"angle":    numberProp("Rotation in degrees, clockwise on screen"),
				"scale_x":  numberProp("Horizontal scale factor"),
				"scale_y":  numberProp("Vertical scale factor"),
			}),
		},
		{
			Name:        "transform_move",
			Description: "Move the floating patch by an offset.",
			InputSchema: schema(true, map[string]interface{}{
				"dx": numberProp("Horizontal offset"),
				"dy": numberProp("Vertical offset"),
			}, "dx", "dy"),
		},
		{
			Name:        "transform_commit",
			Description: "Stamp the floating patch into its layer. The lift and transform undo as one step.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "transform_cancel",
			Description: "Discard the floating patch and restore the layer.",
			InputSchema: schema(true, nil),
		},

		// Palette
		{
			Name:        "palette_set_color",
			Description: "Change a palette entry. Repeated edits of the same entry undo as one step.",
			InputSchema: schema(true, map[string]interface{}{
				"index": intProp("Palette index"),
				"color": stringProp("Color as #RRGGBB or #RRGGBBAA"),
			}, "index", "color"),
		},
		{
			Name:        "palette_add_color",
			Description: "Append a color to the palette and return its index.",
			InputSchema: schema(true, map[string]interface{}{
				"color": stringProp("Color as #RRGGBB or #RRGGBBAA"),
			}, "color"),
		},
		{
			Name:        "palette_set_transparent",
			Description: "Designate the transparent palette entry.",
			InputSchema: schema(true, map[string]interface{}{
				"index": intProp("Palette index"),
			}, "index"),
		},
		{
			Name:        "palette_preset",
			Description: "Replace the palette of an indexed document with a preset, remapping pixels to the nearest new colors.",
			InputSchema: schema(true, map[string]interface{}{
				"name": enumProp("Preset name", palette.PresetNames()),
			}, "name"),
		},
		{
			Name:        "color_mode",
			Description: "Convert the document between RGBA and indexed color. Converting to indexed builds a palette from the composite image.",
			InputSchema: schema(true, map[string]interface{}{
				"mode": enumProp("Target pixel representation", modes),
			}, "mode"),
		},

		// History
		{
			Name:        "history_undo",
			Description: "Undo the last change.",
			InputSchema: schema(true, nil),
		},
		{
			Name:        "history_redo",
			Description: "Redo the last undone change.",
			InputSchema: schema(true, nil),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
