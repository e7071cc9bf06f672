// Package renderer is an in-process rendering module that keeps the
// viewport state of a vector image: accumulated translation, a clamped
// zoom that pivots about a device point, and frame bookkeeping. It does
// not rasterize.
package renderer

import (
	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/vecview/internal/core/transform"
)

const (
	MinZoom = 0.001
	MaxZoom = 100000.0
)

var (
	_ transform.Renderer = (*Canvas)(nil)
	_ transform.Resizer  = (*Canvas)(nil)
)

// Options describe the module variant a canvas was built for.
type Options struct {
	Variant string
	Workers int
}

// ViewState is a snapshot of the viewport.
type ViewState struct {
	Variant    string  `json:"variant"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Frames     uint64  `json:"frames"`
	ImageHash  uint64  `json:"imageHash"`
	ImageSize  int     `json:"imageSize"`
}

// Canvas is not safe for concurrent use; one viewport drives it.
type Canvas struct {
	opts Options

	width, height  int
	imageW, imageH float64

	tx, ty float64
	scale  float64

	coordinates Matrix
	frame       Matrix

	image     []byte
	imageHash uint64

	frames         uint64
	needsRendering bool
	closed         bool
}

func New(opts Options) *Canvas {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Canvas{
		opts:           opts,
		scale:          1,
		coordinates:    Identity(),
		frame:          Identity(),
		needsRendering: true,
	}
}

func (c *Canvas) Variant() string {
	return c.opts.Variant
}

func (c *Canvas) Workers() int {
	return c.opts.Workers
}

// TranslateCanvas moves the content by (dx, dy) device pixels.
func (c *Canvas) TranslateCanvas(dx, dy float64) {
	if c.closed {
		return
	}
	c.tx += dx
	c.ty += dy
	c.needsRendering = true
}

// ScaleCanvas multiplies the zoom by factor, keeping device point (cx, cy)
// fixed on screen. The zoom is clamped to [MinZoom, MaxZoom].
func (c *Canvas) ScaleCanvas(factor, cx, cy float64) {
	if c.closed {
		return
	}
	zoom := clamp(c.scale*factor, MinZoom, MaxZoom)
	if zoom == c.scale {
		return
	}

	dd := (zoom - c.scale) / c.scale
	px, py := c.coordinates.Inverse().Map(cx, cy)

	c.tx += (c.tx - px) * dd
	c.ty += (c.ty - py) * dd
	c.scale = zoom
	c.needsRendering = true
}

// InstallVectorImage replaces the displayed image and resets the view.
func (c *Canvas) InstallVectorImage(image []byte) error {
	if c.closed {
		return ErrClosed
	}
	if len(image) == 0 {
		return ErrEmptyImage
	}
	c.image = append(c.image[:0], image...)
	c.imageHash = xxhash.Sum64(image)
	c.tx, c.ty = 0, 0
	c.scale = 1
	c.needsRendering = true
	return nil
}

// SetImageBounds tells the canvas the natural size of the installed image
// so that it can be centred.
func (c *Canvas) SetImageBounds(width, height float64) {
	c.imageW, c.imageH = width, height
	c.needsRendering = true
}

// Resize sets the viewport size in device pixels.
func (c *Canvas) Resize(width, height int) {
	c.width, c.height = width, height
	c.needsRendering = true
}

// RenderFrame recomputes the frame matrix unconditionally.
func (c *Canvas) RenderFrame() {
	if c.closed {
		return
	}
	c.coordinates = Translation(
		float64(c.width)/2-c.imageW/2,
		float64(c.height)/2-c.imageH/2)
	c.frame = c.Matrix()
	c.frames++
	c.needsRendering = false
}

// Tick renders only if something changed since the last frame. It reports
// whether a frame was produced.
func (c *Canvas) Tick() bool {
	if !c.needsRendering || c.closed {
		return false
	}
	c.RenderFrame()
	return true
}

// Matrix maps image coordinates to device pixels.
func (c *Canvas) Matrix() Matrix {
	return Scaling(c.scale, c.scale).Then(Translation(c.tx, c.ty)).Then(c.coordinates)
}

// FrameMatrix is the matrix used by the most recent frame.
func (c *Canvas) FrameMatrix() Matrix {
	return c.frame
}

func (c *Canvas) NeedsRendering() bool {
	return c.needsRendering
}

func (c *Canvas) State() ViewState {
	return ViewState{
		Variant:    c.opts.Variant,
		TranslateX: c.tx,
		TranslateY: c.ty,
		Scale:      c.scale,
		Width:      c.width,
		Height:     c.height,
		Frames:     c.frames,
		ImageHash:  c.imageHash,
		ImageSize:  len(c.image),
	}
}

// Close releases the image; later calls are ignored.
func (c *Canvas) Close() {
	c.closed = true
	c.image = nil
}

func (c *Canvas) Closed() bool {
	return c.closed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
