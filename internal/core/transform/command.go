// Package transform defines the viewport commands produced by input
// interpretation and forwards them to a renderer.
package transform

import "fmt"

// Command is one viewport instruction. Every command is a delta, so
// commands from the same input batch may be applied in any order.
type Command interface {
	command()
	String() string
}

// Translate moves the canvas content by (DX, DY) device pixels.
type Translate struct {
	DX, DY float64
}

// Scale multiplies the zoom by Factor about the pivot (CX, CY).
type Scale struct {
	Factor float64
	CX, CY float64
}

// Resize reports a new viewport size in device pixels.
type Resize struct {
	Width, Height int
}

// Render asks for a frame.
type Render struct{}

func (Translate) command() {}
func (Scale) command()     {}
func (Resize) command()    {}
func (Render) command()    {}

func (c Translate) String() string {
	return fmt.Sprintf("translate(%g, %g)", c.DX, c.DY)
}

func (c Scale) String() string {
	return fmt.Sprintf("scale(%g @ %g, %g)", c.Factor, c.CX, c.CY)
}

func (c Resize) String() string {
	return fmt.Sprintf("resize(%dx%d)", c.Width, c.Height)
}

func (Render) String() string {
	return "render"
}
