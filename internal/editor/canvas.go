package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// element kinds
const (
	ElementText     = "text"
	ElementRect     = "rect"
	ElementCircle   = "circle"
	ElementTriangle = "triangle"
)

// canvas modes
const (
	ModeTheme     = "theme"
	ModeCustomize = "customize"
)

// background kinds
const (
	BackgroundColor    = "color"
	BackgroundGradient = "gradient"
)

// size floors enforced on every resize, whatever the scale factor
const (
	MinSide     = 20.0
	MinRadius   = 10.0
	MinFontSize = 10.0
)

// canvas dimension bounds
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 450
	minCanvasSide       = 200
	maxCanvasWidth      = 1600
	maxCanvasHeight     = 1000
)

var (
	ErrUnknownTheme   = errors.New("unknown theme")
	ErrUnknownElement = errors.New("element not on canvas")
)

// GradientStops holds the two colors of a linear gradient background
type GradientStops struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Theme bundles a background plus the default fills applied to existing
// elements when the theme is activated.
type Theme struct {
	BackgroundType    string
	BackgroundColor   string
	GradientColors    GradientStops
	GradientAngle     int
	DefaultTextColor  string
	DefaultShapeColor string
}

// Themes are the built-in presets selectable in theme mode
var Themes = map[string]Theme{
	"light": {
		BackgroundType:    BackgroundColor,
		BackgroundColor:   "#f9fafb",
		GradientColors:    GradientStops{Start: "#f9fafb", End: "#e5e7eb"},
		GradientAngle:     0,
		DefaultTextColor:  "#111827",
		DefaultShapeColor: "#3b82f6",
	},
	"dark": {
		BackgroundType:    BackgroundColor,
		BackgroundColor:   "#111827",
		GradientColors:    GradientStops{Start: "#1f2937", End: "#374151"},
		GradientAngle:     0,
		DefaultTextColor:  "#f9fafb",
		DefaultShapeColor: "#6366f1",
	},
	"sunset": {
		BackgroundType:    BackgroundGradient,
		BackgroundColor:   "#fbbf24",
		GradientColors:    GradientStops{Start: "#fbbf24", End: "#f97316"},
		GradientAngle:     45,
		DefaultTextColor:  "#ffffff",
		DefaultShapeColor: "#ef4444",
	},
}

// Element is one shape or text block on the canvas. Width and Height apply
// to rects, Radius to circles and triangles, Text and FontSize to text.
type Element struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Fill     string  `json:"fill"`
}

// Size is the stage's pixel dimensions
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Transform is the raw gesture result handed to Resize: a new position
// plus scale factors relative to the element's current dimensions.
type Transform struct {
	X      float64
	Y      float64
	ScaleX float64
	ScaleY float64
}

// Layout is the serializable snapshot of the whole canvas
type Layout struct {
	Mode            string        `json:"mode"`
	Theme           string        `json:"currentTheme"`
	BackgroundType  string        `json:"backgroundType"`
	BackgroundColor string        `json:"backgroundColor"`
	GradientColors  GradientStops `json:"gradientColors"`
	GradientAngle   int           `json:"gradientAngle"`
	CanvasSize      Size          `json:"canvasSize"`
	Elements        []Element     `json:"elements"`
}

// Canvas is the local-only free-form design surface. Nothing here touches
// the gateway; the caller decides when to persist a Snapshot. Not safe for
// concurrent use, it belongs to a single editing goroutine.
type Canvas struct {
	elements []Element
	selected string

	mode            string
	theme           string
	backgroundType  string
	backgroundColor string
	gradientColors  GradientStops
	gradientAngle   int
	size            Size
}

// NewCanvas starts in theme mode with the light theme and a starter deck
// of a name, a role line and one accent block.
func NewCanvas() *Canvas {
	light := Themes["light"]
	return &Canvas{
		elements: []Element{
			{ID: uuid.NewString(), Type: ElementText, X: 80, Y: 60, Text: "Your Name", FontSize: 28, Fill: "#111827"},
			{ID: uuid.NewString(), Type: ElementText, X: 80, Y: 110, Text: "Software Engineer", FontSize: 18, Fill: "#4b5563"},
			{ID: uuid.NewString(), Type: ElementRect, X: 70, Y: 180, Width: 220, Height: 100, Fill: "#3b82f6"},
		},
		mode:            ModeTheme,
		theme:           "light",
		backgroundType:  light.BackgroundType,
		backgroundColor: light.BackgroundColor,
		gradientColors:  light.GradientColors,
		gradientAngle:   light.GradientAngle,
		size:            Size{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight},
	}
}

// Elements returns a copy of the element list in paint order
func (c *Canvas) Elements() []Element {
	out := make([]Element, len(c.elements))
	copy(out, c.elements)
	return out
}

func (c *Canvas) Mode() string       { return c.mode }
func (c *Canvas) ThemeName() string  { return c.theme }
func (c *Canvas) CanvasSize() Size   { return c.size }
func (c *Canvas) SelectedID() string { return c.selected }

// Selected returns the selected element, or nil when nothing is selected
func (c *Canvas) Selected() *Element {
	if idx := c.indexOf(c.selected); idx >= 0 {
		el := c.elements[idx]
		return &el
	}
	return nil
}

// AddShape appends a shape of the given kind at its spawn position,
// filled with the active theme's shape color, and selects it.
func (c *Canvas) AddShape(kind string) (*Element, error) {
	fill := Themes[c.theme].DefaultShapeColor
	var el Element
	switch kind {
	case ElementRect:
		el = Element{Type: ElementRect, X: 120, Y: 140, Width: 160, Height: 80, Fill: fill}
	case ElementCircle:
		el = Element{Type: ElementCircle, X: 200, Y: 200, Radius: 50, Fill: fill}
	case ElementTriangle:
		el = Element{Type: ElementTriangle, X: 200, Y: 200, Radius: 60, Fill: fill}
	default:
		return nil, fmt.Errorf("unsupported shape type %q", kind)
	}
	el.ID = uuid.NewString()
	c.elements = append(c.elements, el)
	c.selected = el.ID
	return &el, nil
}

// AddText appends a placeholder text block in the active theme's text
// color and selects it.
func (c *Canvas) AddText() *Element {
	el := Element{
		ID:       uuid.NewString(),
		Type:     ElementText,
		X:        140,
		Y:        160,
		Text:     "New text",
		FontSize: 18,
		Fill:     Themes[c.theme].DefaultTextColor,
	}
	c.elements = append(c.elements, el)
	c.selected = el.ID
	return &el
}

// Reposition moves an element after a drag
func (c *Canvas) Reposition(id string, x, y float64) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrUnknownElement
	}
	c.elements[idx].X = x
	c.elements[idx].Y = y
	return nil
}

// Resize applies a transform gesture. Rects scale per axis; circles and
// triangles scale the radius by the horizontal factor; text scales the
// font size by the vertical factor. Each dimension stops at its floor.
func (c *Canvas) Resize(id string, t Transform) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrUnknownElement
	}
	el := &c.elements[idx]
	el.X = t.X
	el.Y = t.Y
	switch el.Type {
	case ElementRect:
		el.Width = floor(el.Width*t.ScaleX, MinSide)
		el.Height = floor(el.Height*t.ScaleY, MinSide)
	case ElementCircle, ElementTriangle:
		el.Radius = floor(el.Radius*t.ScaleX, MinRadius)
	case ElementText:
		el.FontSize = floor(el.FontSize*t.ScaleY, MinFontSize)
	}
	return nil
}

func floor(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

// Select marks an element as the inspector target
func (c *Canvas) Select(id string) error {
	if c.indexOf(id) < 0 {
		return ErrUnknownElement
	}
	c.selected = id
	return nil
}

// Deselect clears the selection, as a click on empty canvas does
func (c *Canvas) Deselect() {
	c.selected = ""
}

// SetText updates the selected text element. A no-op when nothing, or a
// non-text element, is selected.
func (c *Canvas) SetText(text string) {
	if idx := c.indexOf(c.selected); idx >= 0 && c.elements[idx].Type == ElementText {
		c.elements[idx].Text = text
	}
}

// SetFontSize updates the selected text element, holding the floor
func (c *Canvas) SetFontSize(size float64) {
	if idx := c.indexOf(c.selected); idx >= 0 && c.elements[idx].Type == ElementText {
		c.elements[idx].FontSize = floor(size, MinFontSize)
	}
}

// SetFill recolors the selected element. A no-op when nothing is selected.
func (c *Canvas) SetFill(color string) {
	if idx := c.indexOf(c.selected); idx >= 0 {
		c.elements[idx].Fill = color
	}
}

// RemoveSelected deletes the selected element and clears the selection
func (c *Canvas) RemoveSelected() {
	idx := c.indexOf(c.selected)
	if idx < 0 {
		return
	}
	c.elements = append(c.elements[:idx], c.elements[idx+1:]...)
	c.selected = ""
}

// SetMode switches between theme and customize mode. Switching modes
// never mutates the background; it only changes which controls act.
func (c *Canvas) SetMode(mode string) error {
	if mode != ModeTheme && mode != ModeCustomize {
		return fmt.Errorf("unsupported mode %q", mode)
	}
	c.mode = mode
	return nil
}

// ApplyTheme activates a preset: background settings are replaced and
// every element is recolored to the theme's defaults. Themes only act in
// theme mode; in customize mode the call is rejected so manual background
// work cannot be clobbered.
func (c *Canvas) ApplyTheme(name string) error {
	if c.mode != ModeTheme {
		return fmt.Errorf("themes only apply in %s mode", ModeTheme)
	}
	theme, ok := Themes[name]
	if !ok {
		return ErrUnknownTheme
	}

	c.theme = name
	c.backgroundType = theme.BackgroundType
	c.backgroundColor = theme.BackgroundColor
	c.gradientColors = theme.GradientColors
	c.gradientAngle = theme.GradientAngle

	for i := range c.elements {
		if c.elements[i].Type == ElementText {
			c.elements[i].Fill = theme.DefaultTextColor
		} else {
			c.elements[i].Fill = theme.DefaultShapeColor
		}
	}
	return nil
}

// SetBackgroundType picks between a flat color and a gradient
func (c *Canvas) SetBackgroundType(kind string) error {
	if kind != BackgroundColor && kind != BackgroundGradient {
		return fmt.Errorf("unsupported background type %q", kind)
	}
	c.backgroundType = kind
	return nil
}

func (c *Canvas) SetBackgroundColor(color string) {
	c.backgroundColor = color
}

func (c *Canvas) SetGradient(stops GradientStops, angle int) {
	c.gradientColors = stops
	c.gradientAngle = clampInt(angle, 0, 360)
}

// SetCanvasSize resizes the stage within its slider bounds
func (c *Canvas) SetCanvasSize(width, height int) {
	c.size = Size{
		Width:  clampInt(width, minCanvasSide, maxCanvasWidth),
		Height: clampInt(height, minCanvasSide, maxCanvasHeight),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Snapshot captures the full canvas state for persistence or export
func (c *Canvas) Snapshot() Layout {
	return Layout{
		Mode:            c.mode,
		Theme:           c.theme,
		BackgroundType:  c.backgroundType,
		BackgroundColor: c.backgroundColor,
		GradientColors:  c.gradientColors,
		GradientAngle:   c.gradientAngle,
		CanvasSize:      c.size,
		Elements:        c.Elements(),
	}
}

// indexOf returns the position of the element with the given id, or -1
func (c *Canvas) indexOf(id string) int {
	for i := range c.elements {
		if c.elements[i].ID == id {
			return i
		}
	}
	return -1
}
