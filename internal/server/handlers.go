package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-tools-mcp/internal/canvas"
	"github.com/ironsheep/pixel-tools-mcp/internal/editor"
	"github.com/ironsheep/pixel-tools-mcp/internal/paint"
	"github.com/ironsheep/pixel-tools-mcp/internal/palette"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixel"
	"github.com/ironsheep/pixel-tools-mcp/internal/render"
	"github.com/ironsheep/pixel-tools-mcp/internal/snapshot"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "canvas_new", "draw_line").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Debug("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Document tools unmarshal their arguments, look the document up in the
// store and run against its editor while holding the document lock.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Documents
	case "canvas_new":
		return s.handleCanvasNew(args)
	case "canvas_open":
		return s.handleCanvasOpen(args)
	case "canvas_import":
		return s.handleCanvasImport(args)
	case "canvas_save":
		return s.handleCanvasSave(args)
	case "canvas_export":
		return s.handleCanvasExport(args)
	case "canvas_info":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return describe(ed), nil
		})
	case "canvas_close":
		return s.handleCanvasClose(args)
	case "canvas_list":
		return map[string]interface{}{"documents": s.store.IDs()}, nil
	case "canvas_resize":
		return s.handleCanvasResize(args)
	case "canvas_flip":
		return s.handleCanvasFlip(args)

	// Layers
	case "layer_add":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return layerResult(ed, ed.AddLayer())
		})
	case "layer_duplicate":
		return s.withLayer(args, func(ed *editor.Editor, a layerArgs) (interface{}, error) {
			return layerResult(ed, ed.DuplicateLayer(a.LayerID))
		})
	case "layer_remove":
		return s.withLayer(args, func(ed *editor.Editor, a layerArgs) (interface{}, error) {
			return changed(ed, ed.RemoveLayer(a.LayerID)), nil
		})
	case "layer_move":
		return s.withLayer(args, func(ed *editor.Editor, a layerArgs) (interface{}, error) {
			return changed(ed, ed.MoveLayer(a.LayerID, a.Index)), nil
		})
	case "layer_set_active":
		return s.withLayer(args, func(ed *editor.Editor, a layerArgs) (interface{}, error) {
			return changed(ed, ed.SetActiveLayer(a.LayerID)), nil
		})
	case "layer_set_visible":
		return s.withLayer(args, func(ed *editor.Editor, a layerArgs) (interface{}, error) {
			return changed(ed, ed.SetLayerVisible(a.LayerID, a.Visible)), nil
		})
	case "layer_set_locked":
		return s.withLayer(args, func(ed *editor.Editor, a layerArgs) (interface{}, error) {
			return changed(ed, ed.SetLayerLocked(a.LayerID, a.Locked)), nil
		})
	case "layer_clear":
		return s.withLayer(args, func(ed *editor.Editor, a layerArgs) (interface{}, error) {
			return changed(ed, ed.ClearLayer(a.LayerID)), nil
		})
	case "layer_translate":
		return s.handleLayerTranslate(args)

	// Drawing
	case "draw_pixel", "draw_stamp", "draw_line":
		return s.handleBrush(name, args)
	case "draw_rect", "draw_ellipse":
		return s.handleShape(name, args)
	case "draw_fill":
		return s.handleFill(args)
	case "stroke_begin":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.BeginStroke()), nil
		})
	case "stroke_end":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.EndStroke()), nil
		})
	case "sample_color":
		return s.handleSampleColor(args)

	// Selection
	case "select_rect":
		return s.handleSelectRect(args)
	case "select_polygon":
		return s.handleSelectPolygon(args)
	case "select_magic_wand":
		return s.handleSelectMagicWand(args)
	case "select_all":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.SelectAll()), nil
		})
	case "select_invert":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.InvertSelection()), nil
		})
	case "select_clear":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.ClearSelection()), nil
		})
	case "select_delete":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.DeleteSelection()), nil
		})

	// Floating transforms
	case "transform_begin":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.BeginTransform()), nil
		})
	case "transform_set":
		return s.handleTransformSet(args)
	case "transform_move":
		return s.handleTransformMove(args)
	case "transform_commit":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.CommitTransform()), nil
		})
	case "transform_cancel":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.CancelTransform()), nil
		})

	// Palette
	case "palette_set_color":
		return s.handlePaletteSetColor(args)
	case "palette_add_color":
		return s.handlePaletteAddColor(args)
	case "palette_set_transparent":
		return s.handlePaletteSetTransparent(args)
	case "palette_preset":
		return s.handlePalettePreset(args)
	case "color_mode":
		return s.handleColorMode(args)

	// History
	case "history_undo":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.Undo()), nil
		})
	case "history_redo":
		return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
			return changed(ed, ed.Redo()), nil
		})

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// editorOptions returns the options applied to every editor the server
// creates.
func (s *Server) editorOptions(extra ...editor.Option) []editor.Option {
	opts := []editor.Option{
		editor.WithConfig(s.cfg.Editor),
		editor.WithLogger(s.log.Named("editor")),
	}
	return append(opts, extra...)
}

// === Results ===

// LayerInfo describes one layer of a document.
type LayerInfo struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
	Active  bool   `json:"active"`
}

// DocumentInfo describes an open document.
type DocumentInfo struct {
	DocumentID       string           `json:"document_id,omitempty"`
	Width            int              `json:"width"`
	Height           int              `json:"height"`
	Mode             string           `json:"mode"`
	Layers           []LayerInfo      `json:"layers"`
	Palette          []string         `json:"palette,omitempty"`
	TransparentIndex *int             `json:"transparent_index,omitempty"`
	Selection        *image.Rectangle `json:"selection,omitempty"`
	SelectedPixels   int              `json:"selected_pixels,omitempty"`
	Floating         bool             `json:"floating"`
	InStroke         bool             `json:"in_stroke"`
	CanUndo          bool             `json:"can_undo"`
	CanRedo          bool             `json:"can_redo"`
	HistoryDepth     int              `json:"history_depth"`
}

// ChangeResult reports the outcome of a mutating tool.
type ChangeResult struct {
	Changed bool   `json:"changed"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`
	LayerID string `json:"layer_id,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

// ColorSample is the result of sample_color.
type ColorSample struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Hex       string `json:"hex"`
	Composite string `json:"composite_hex"`
	Index     *int   `json:"index,omitempty"`
}

func describe(ed *editor.Editor) DocumentInfo {
	info := DocumentInfo{
		Width:        ed.Width(),
		Height:       ed.Height(),
		Mode:         ed.Mode().String(),
		Floating:     ed.Floating() != nil,
		InStroke:     ed.InStroke(),
		CanUndo:      ed.CanUndo(),
		CanRedo:      ed.CanRedo(),
		HistoryDepth: ed.HistoryLen(),
	}
	active := ed.ActiveLayer().ID
	for _, l := range ed.Layers() {
		info.Layers = append(info.Layers, LayerInfo{
			ID:      l.ID,
			Visible: l.Visible,
			Locked:  l.Locked,
			Active:  l.ID == active,
		})
	}
	if ed.Mode() == pixel.IndexedColor {
		pal := ed.Palette()
		for _, c := range pal.Colors {
			info.Palette = append(info.Palette, pixel.Hex(c))
		}
		ti := int(pal.TransparentIndex)
		info.TransparentIndex = &ti
	}
	if sel := ed.Selection(); sel != nil {
		b := sel.Bounds
		info.Selection = &b
		info.SelectedPixels = sel.Count()
	}
	return info
}

func changed(ed *editor.Editor, ok bool) ChangeResult {
	return ChangeResult{Changed: ok, CanUndo: ed.CanUndo(), CanRedo: ed.CanRedo()}
}

func layerResult(ed *editor.Editor, id string) (interface{}, error) {
	if id == "" {
		return changed(ed, false), nil
	}
	r := changed(ed, true)
	r.LayerID = id
	return r, nil
}

// === Document lookup ===

type documentArgs struct {
	DocumentID string `json:"document_id"`
}

func (s *Server) withDocument(args json.RawMessage, fn func(ed *editor.Editor) (interface{}, error)) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.DocumentID == "" {
		return nil, errors.New("document_id is required")
	}
	return s.store.With(a.DocumentID, fn)
}

// withArgs unmarshals args into a value of type A and runs fn on the
// document they name.
func withArgs[A any](s *Server, args json.RawMessage, fn func(ed *editor.Editor, a A) (interface{}, error)) (interface{}, error) {
	var a A
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.withDocument(args, func(ed *editor.Editor) (interface{}, error) {
		return fn(ed, a)
	})
}

// === Document Handlers ===

type canvasNewArgs struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Mode    string `json:"mode"`
	Palette string `json:"palette"`
}

func (s *Server) handleCanvasNew(args json.RawMessage) (interface{}, error) {
	var a canvasNewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := pixel.ParseColorMode(a.Mode)
	if err != nil {
		return nil, err
	}

	var extra []editor.Option
	if a.Palette != "" {
		if mode != pixel.IndexedColor {
			return nil, fmt.Errorf("palette presets need an indexed document")
		}
		pal, err := palette.Preset(a.Palette, s.cfg.Editor.TransparentSlot)
		if err != nil {
			return nil, err
		}
		extra = append(extra, editor.WithPalette(pal))
	}

	ed, err := editor.New(a.Width, a.Height, mode, s.editorOptions(extra...)...)
	if err != nil {
		return nil, err
	}
	return s.register(ed), nil
}

func (s *Server) register(ed *editor.Editor) DocumentInfo {
	id := s.store.Add(ed)
	info := describe(ed)
	info.DocumentID = id
	s.log.Info("document opened",
		zap.String("document", id),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.String("mode", info.Mode))
	return info
}

type pathArgs struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
}

func (s *Server) handleCanvasOpen(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, err := snapshot.Load(a.Path)
	if err != nil {
		return nil, err
	}
	ed, err := editor.FromDocument(doc, s.editorOptions()...)
	if err != nil {
		return nil, err
	}
	return s.register(ed), nil
}

func (s *Server) handleCanvasImport(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := pixel.ParseColorMode(a.Mode)
	if err != nil {
		return nil, err
	}
	img, err := render.Open(a.Path)
	if err != nil {
		return nil, err
	}
	pix, w, h := render.FromImage(img)
	if !canvas.ValidSize(w, h) {
		return nil, fmt.Errorf("import %s (%dx%d): %w", a.Path, w, h, canvas.ErrInvalidSize)
	}

	doc := canvas.Document{
		Width:         w,
		Height:        h,
		Mode:          pixel.DirectColor,
		Layers:        []canvas.Layer{{ID: "layer-1", Visible: true, Pixels: pixel.Direct(pix)}},
		Palette:       pixel.NewPalette(nil, 0),
		ActiveLayerID: "layer-1",
	}
	if mode == pixel.IndexedColor {
		doc, _ = palette.Convert(doc, pixel.IndexedColor, s.cfg.Editor.TransparentSlot)
	}
	ed, err := editor.FromDocument(doc, s.editorOptions()...)
	if err != nil {
		return nil, err
	}
	return s.register(ed), nil
}

func (s *Server) handleCanvasSave(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a pathArgs) (interface{}, error) {
		if a.Path == "" {
			return nil, errors.New("path is required")
		}
		if err := snapshot.Save(a.Path, ed.Document()); err != nil {
			return nil, err
		}
		return map[string]interface{}{"path": a.Path}, nil
	})
}

type canvasExportArgs struct {
	Path       string `json:"path"`
	Scale      int    `json:"scale"`
	MaxWidth   int    `json:"max_width"`
	MaxHeight  int    `json:"max_height"`
	CropX      int    `json:"crop_x"`
	CropY      int    `json:"crop_y"`
	CropWidth  int    `json:"crop_width"`
	CropHeight int    `json:"crop_height"`
	Grid       bool   `json:"grid"`
	GridColor  string `json:"grid_color"`
	GridLabels int    `json:"grid_labels"`
}

func (s *Server) handleCanvasExport(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a canvasExportArgs) (interface{}, error) {
		if a.Scale == 0 {
			a.Scale = 1
		}
		var img image.Image = render.NRGBA(ed.Composite(), ed.Width(), ed.Height())
		var err error
		srcW := ed.Width()
		if a.CropWidth > 0 || a.CropHeight > 0 {
			r := image.Rect(a.CropX, a.CropY, a.CropX+a.CropWidth, a.CropY+a.CropHeight)
			if img, err = render.Crop(img, r); err != nil {
				return nil, err
			}
			srcW = a.CropWidth
		}
		switch {
		case a.MaxWidth > 0 || a.MaxHeight > 0:
			maxW, maxH := a.MaxWidth, a.MaxHeight
			if maxW == 0 {
				maxW = math.MaxInt32
			}
			if maxH == 0 {
				maxH = math.MaxInt32
			}
			img, err = render.Thumbnail(img, maxW, maxH)
		case a.Scale != 1:
			img, err = render.Scale(img, a.Scale)
		}
		if err != nil {
			return nil, err
		}
		if a.Grid {
			if img, err = exportGrid(img, srcW, a); err != nil {
				return nil, err
			}
		}
		if a.Path != "" {
			if err := render.SavePNG(a.Path, img); err != nil {
				return nil, err
			}
		}
		return render.EncodePNG(img)
	})
}

// exportGrid overlays the pixel grid on a render of a canvas w pixels wide.
func exportGrid(img image.Image, w int, a canvasExportArgs) (image.Image, error) {
	outW := img.Bounds().Dx()
	if outW%w != 0 {
		return nil, fmt.Errorf("grid needs a whole-number upscale, render is %d px for %d canvas px", outW, w)
	}
	opts := render.GridOptions{Cell: outW / w, Color: render.DefaultGridColor, LabelEvery: a.GridLabels}
	if a.GridColor != "" {
		c, err := palette.ParseColor(a.GridColor)
		if err != nil {
			return nil, err
		}
		opts.Color = c
	}
	return render.Grid(img, opts)
}

func (s *Server) handleCanvasClose(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if !s.store.Close(a.DocumentID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, a.DocumentID)
	}
	s.log.Info("document closed", zap.String("document", a.DocumentID))
	return map[string]interface{}{"closed": a.DocumentID}, nil
}

type sizeArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleCanvasResize(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a sizeArgs) (interface{}, error) {
		if !canvas.ValidSize(a.Width, a.Height) {
			return nil, fmt.Errorf("resize to %dx%d: %w", a.Width, a.Height, canvas.ErrInvalidSize)
		}
		return changed(ed, ed.Resize(a.Width, a.Height)), nil
	})
}

type flipArgs struct {
	Direction string `json:"direction"`
}

func (s *Server) handleCanvasFlip(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a flipArgs) (interface{}, error) {
		switch a.Direction {
		case "horizontal":
			return changed(ed, ed.FlipHorizontal()), nil
		case "vertical":
			return changed(ed, ed.FlipVertical()), nil
		default:
			return nil, fmt.Errorf("invalid direction: %q (want horizontal or vertical)", a.Direction)
		}
	})
}

// === Layer Handlers ===

type layerArgs struct {
	LayerID string `json:"layer_id"`
	Index   int    `json:"index"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

func (s *Server) withLayer(args json.RawMessage, fn func(ed *editor.Editor, a layerArgs) (interface{}, error)) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a layerArgs) (interface{}, error) {
		if a.LayerID == "" {
			return nil, errors.New("layer_id is required")
		}
		return fn(ed, a)
	})
}

type offsetArgs struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

func (s *Server) handleLayerTranslate(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a offsetArgs) (interface{}, error) {
		return changed(ed, ed.TranslateLayer(a.DX, a.DY)), nil
	})
}

// === Drawing Handlers ===

// valueArgs carry the paint value: a hex color for RGBA documents, a
// palette index for indexed ones.
type valueArgs struct {
	Color string `json:"color"`
	Index *int   `json:"index"`
}

// value resolves the paint value for the document's color mode.
func (v valueArgs) value(ed *editor.Editor) (uint32, error) {
	if ed.Mode() == pixel.IndexedColor {
		if v.Index == nil {
			return 0, errors.New("indexed documents take a palette index")
		}
		if !ed.Palette().Valid(*v.Index) {
			return 0, fmt.Errorf("palette index %d out of range 0..%d", *v.Index, ed.Palette().Len()-1)
		}
		return uint32(*v.Index), nil
	}
	if v.Color == "" {
		return 0, errors.New("RGBA documents take a color")
	}
	return palette.ParseColor(v.Color)
}

// coordLimit is the largest accepted drawing coordinate magnitude.
const coordLimit = 2 * canvas.MaxSize

// checkCoords rejects coordinates outside ±coordLimit.
func checkCoords(vals ...int) error {
	for _, v := range vals {
		if v < -coordLimit || v > coordLimit {
			return fmt.Errorf("coordinate %d out of range -%d..%d", v, coordLimit, coordLimit)
		}
	}
	return nil
}

type brushArgs struct {
	valueArgs
	X       int    `json:"x"`
	Y       int    `json:"y"`
	X0      int    `json:"x0"`
	Y0      int    `json:"y0"`
	X1      int    `json:"x1"`
	Y1      int    `json:"y1"`
	Size    int    `json:"size"`
	Pattern string `json:"pattern"`
}

func (s *Server) handleBrush(name string, args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a brushArgs) (interface{}, error) {
		v, err := a.value(ed)
		if err != nil {
			return nil, err
		}
		if a.Size == 0 {
			a.Size = 1
		}
		if a.Size < 1 || a.Size > canvas.MaxSize {
			return nil, fmt.Errorf("brush size %d out of range 1..%d", a.Size, canvas.MaxSize)
		}
		if err := checkCoords(a.X, a.Y, a.X0, a.Y0, a.X1, a.Y1); err != nil {
			return nil, err
		}
		pattern, err := paint.PatternPreset(a.Pattern)
		if err != nil {
			return nil, err
		}
		b := paint.Brush{Size: a.Size, Pattern: pattern}

		var ok bool
		switch name {
		case "draw_pixel":
			ok = ed.SetAt(a.X, a.Y, v)
		case "draw_stamp":
			ok = ed.Stamp(a.X, a.Y, b, v)
		case "draw_line":
			ok = ed.Line(a.X0, a.Y0, a.X1, a.Y1, b, v)
		}
		return changed(ed, ok), nil
	})
}

type shapeArgs struct {
	valueArgs
	X0      int    `json:"x0"`
	Y0      int    `json:"y0"`
	X1      int    `json:"x1"`
	Y1      int    `json:"y1"`
	Filled  bool   `json:"filled"`
	Pattern string `json:"pattern"`
}

func (s *Server) handleShape(name string, args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a shapeArgs) (interface{}, error) {
		v, err := a.value(ed)
		if err != nil {
			return nil, err
		}
		if err := checkCoords(a.X0, a.Y0, a.X1, a.Y1); err != nil {
			return nil, err
		}
		pattern, err := paint.PatternPreset(a.Pattern)
		if err != nil {
			return nil, err
		}
		if name == "draw_ellipse" {
			return changed(ed, ed.Ellipse(a.X0, a.Y0, a.X1, a.Y1, a.Filled, pattern, v)), nil
		}
		return changed(ed, ed.Rect(a.X0, a.Y0, a.X1, a.Y1, a.Filled, pattern, v)), nil
	})
}

type seedArgs struct {
	valueArgs
	X          int   `json:"x"`
	Y          int   `json:"y"`
	Contiguous *bool `json:"contiguous"`
}

func (a seedArgs) contiguous() bool {
	return a.Contiguous == nil || *a.Contiguous
}

func (s *Server) handleFill(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a seedArgs) (interface{}, error) {
		v, err := a.value(ed)
		if err != nil {
			return nil, err
		}
		return changed(ed, ed.Fill(a.X, a.Y, v, a.contiguous())), nil
	})
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a seedArgs) (interface{}, error) {
		v, ok := ed.PickColor(a.X, a.Y)
		if !ok {
			return nil, fmt.Errorf("point (%d, %d) outside canvas %dx%d", a.X, a.Y, ed.Width(), ed.Height())
		}
		res := ColorSample{
			X:         a.X,
			Y:         a.Y,
			Composite: pixel.Hex(ed.Composite()[a.Y*ed.Width()+a.X]),
		}
		if ed.Mode() == pixel.IndexedColor {
			i := int(v)
			res.Index = &i
			res.Hex = pixel.Hex(ed.Palette().Color(uint8(v)))
		} else {
			res.Hex = pixel.Hex(v)
		}
		return res, nil
	})
}

// === Selection Handlers ===

type boxArgs struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

func (s *Server) handleSelectRect(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a boxArgs) (interface{}, error) {
		return changed(ed, ed.SelectRect(a.X0, a.Y0, a.X1, a.Y1)), nil
	})
}

type polygonArgs struct {
	Points []struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"points"`
}

func (s *Server) handleSelectPolygon(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a polygonArgs) (interface{}, error) {
		if len(a.Points) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(a.Points))
		}
		pts := make([]image.Point, len(a.Points))
		for i, p := range a.Points {
			pts[i] = image.Pt(p.X, p.Y)
		}
		return changed(ed, ed.SelectPolygon(pts)), nil
	})
}

func (s *Server) handleSelectMagicWand(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a seedArgs) (interface{}, error) {
		return changed(ed, ed.SelectMagicWand(a.X, a.Y, a.contiguous())), nil
	})
}

// === Transform Handlers ===

type transformArgs struct {
	CenterX *float64 `json:"center_x"`
	CenterY *float64 `json:"center_y"`
	Angle   *float64 `json:"angle"`
	ScaleX  *float64 `json:"scale_x"`
	ScaleY  *float64 `json:"scale_y"`
}

func (s *Server) handleTransformSet(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a transformArgs) (interface{}, error) {
		f := ed.Floating()
		if f == nil {
			return nil, errors.New("no floating selection; call transform_begin first")
		}
		t := f.Transform
		if a.CenterX != nil {
			t.CenterX = *a.CenterX
		}
		if a.CenterY != nil {
			t.CenterY = *a.CenterY
		}
		if a.Angle != nil {
			t.Angle = *a.Angle * math.Pi / 180
		}
		if a.ScaleX != nil {
			t.ScaleX = *a.ScaleX
		}
		if a.ScaleY != nil {
			t.ScaleY = *a.ScaleY
		}
		return changed(ed, ed.SetTransform(t)), nil
	})
}

type moveArgs struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) handleTransformMove(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a moveArgs) (interface{}, error) {
		return changed(ed, ed.MoveFloating(a.DX, a.DY)), nil
	})
}

// === Palette Handlers ===

type paletteArgs struct {
	Index int    `json:"index"`
	Color string `json:"color"`
	Name  string `json:"name"`
	Mode  string `json:"mode"`
}

func (s *Server) handlePaletteSetColor(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a paletteArgs) (interface{}, error) {
		c, err := palette.ParseColor(a.Color)
		if err != nil {
			return nil, err
		}
		return changed(ed, ed.SetPaletteColor(a.Index, c)), nil
	})
}

func (s *Server) handlePaletteAddColor(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a paletteArgs) (interface{}, error) {
		c, err := palette.ParseColor(a.Color)
		if err != nil {
			return nil, err
		}
		i := ed.AddPaletteColor(c)
		if i < 0 {
			return changed(ed, false), nil
		}
		r := changed(ed, true)
		r.Index = &i
		return r, nil
	})
}

func (s *Server) handlePaletteSetTransparent(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a paletteArgs) (interface{}, error) {
		return changed(ed, ed.SetTransparentIndex(a.Index)), nil
	})
}

func (s *Server) handlePalettePreset(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a paletteArgs) (interface{}, error) {
		// The editor treats both of these as caller bugs; reject them here.
		if ed.Mode() != pixel.IndexedColor {
			return nil, errors.New("palette presets need an indexed document; convert with color_mode first")
		}
		if _, err := palette.Preset(a.Name, s.cfg.Editor.TransparentSlot); err != nil {
			return nil, err
		}
		return changed(ed, ed.ApplyPalettePreset(a.Name)), nil
	})
}

func (s *Server) handleColorMode(args json.RawMessage) (interface{}, error) {
	return withArgs(s, args, func(ed *editor.Editor, a paletteArgs) (interface{}, error) {
		if a.Mode == "" {
			return nil, errors.New("mode is required")
		}
		mode, err := pixel.ParseColorMode(a.Mode)
		if err != nil {
			return nil, err
		}
		return changed(ed, ed.SetColorMode(mode)), nil
	})
}
