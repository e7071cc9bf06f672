//go:build !tinygo

// Package desktop runs a viewer in a native window.
package desktop

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zeusync/vecview/internal/config"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/renderer"
	"github.com/zeusync/vecview/internal/host/pointer"
	"github.com/zeusync/vecview/internal/viewer"
)

// PlateSize is the natural size, in image units, of the placeholder plate
// drawn for the installed image.
const PlateSize = 512

var (
	background = color.RGBA{R: 0x20, G: 0x22, B: 0x26, A: 0xff}
	plateColor = color.RGBA{R: 0xf4, G: 0xf1, B: 0xea, A: 0xff}
)

// Game adapts a viewer to ebiten's update/draw loop.
type Game struct {
	viewer  *viewer.Viewer
	canvas  *renderer.Canvas
	tracker *pointer.Tracker
	logger  log.Log

	plate         *ebiten.Image
	width, height int
}

func NewGame(v *viewer.Viewer, canvas *renderer.Canvas, logger log.Log) *Game {
	canvas.SetImageBounds(PlateSize, PlateSize)
	return &Game{
		viewer:  v,
		canvas:  canvas,
		tracker: pointer.NewTracker(pointer.DefaultWheelStep),
		logger:  logger.With(log.String("component", "desktop")),
	}
}

// Run opens the window and blocks until it closes.
func Run(cfg config.DesktopConfig, g *Game) error {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	g.logger.Info("Window opened", log.Int("width", cfg.Width), log.Int("height", cfg.Height))
	defer g.logger.Info("Window closed")
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	for _, ev := range g.tracker.Events(g.poll()) {
		g.viewer.Handle(ev)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	if g.plate == nil {
		g.plate = ebiten.NewImage(PlateSize, PlateSize)
		g.plate.Fill(plateColor)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM(g.canvas.FrameMatrix())
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.plate, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func geoM(m renderer.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.A)
	g.SetElement(0, 1, m.C)
	g.SetElement(0, 2, m.E)
	g.SetElement(1, 0, m.B)
	g.SetElement(1, 1, m.D)
	g.SetElement(1, 2, m.F)
	return g
}
