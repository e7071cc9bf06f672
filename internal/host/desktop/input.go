//go:build !tinygo

package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zeusync/vecview/internal/core/touch"
	"github.com/zeusync/vecview/internal/host/pointer"
)

// poll samples ebiten's input state for the current tick.
func (g *Game) poll() pointer.Snapshot {
	mx, my := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()

	s := pointer.Snapshot{
		CursorX: float64(mx),
		CursorY: float64(my),
		Primary: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		WheelX:  wx,
		WheelY:  wy,
		Ctrl: ebiten.IsKeyPressed(ebiten.KeyControl) ||
			ebiten.IsKeyPressed(ebiten.KeyMeta),
		Width:  g.width,
		Height: g.height,
	}

	for _, id := range ebiten.AppendTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		s.Touches = append(s.Touches, touch.Raw{ID: touch.ID(id), X: float64(tx), Y: float64(ty)})
	}
	return s
}
