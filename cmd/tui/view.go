package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/scene"
)

// viewport maps table coordinates (origin at the table centre) to terminal
// cells. Cells are about twice as tall as they are wide, so the horizontal
// scale is twice the vertical one.
type viewport struct {
	originX, originY int // top-left cell of the playing field
	fieldW, fieldH   int
	scaleX, scaleY   float64 // cells per table unit
}

func newViewport(cols, rows int) viewport {
	// One border cell each side, two status lines below.
	sx := float64(cols-3) / game.TableWidth
	sy := float64(rows-5) / game.TableHeight
	if sx/2 < sy {
		sy = sx / 2
	} else {
		sx = sy * 2
	}
	if sx <= 0 || sy <= 0 {
		return viewport{}
	}
	fieldW := int(game.TableWidth * sx)
	fieldH := int(game.TableHeight * sy)
	return viewport{
		originX: (cols - fieldW - 1) / 2,
		originY: (rows - fieldH - 3) / 2,
		fieldW:  fieldW,
		fieldH:  fieldH,
		scaleX:  sx,
		scaleY:  sy,
	}
}

func (v viewport) valid() bool {
	return v.scaleX > 0 && v.scaleY > 0
}

func (v viewport) toCell(x, y float64) (int, int) {
	col := v.originX + int(math.Round((x+game.TableWidth/2)*v.scaleX))
	row := v.originY + int(math.Round((y+game.TableHeight/2)*v.scaleY))
	return col, row
}

func (v viewport) toTable(col, row int) (float64, float64) {
	x := float64(col-v.originX)/v.scaleX - game.TableWidth/2
	y := float64(row-v.originY)/v.scaleY - game.TableHeight/2
	return x, y
}

func (v viewport) inField(col, row int) bool {
	return col >= v.originX && col <= v.originX+v.fieldW &&
		row >= v.originY && row <= v.originY+v.fieldH
}

var (
	feltStyle   = tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	pocketStyle = feltStyle.Foreground(tcell.ColorBlack)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	barStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	ballColors  = [game.NumBalls]tcell.Color{
		tcell.ColorWhite,
		tcell.ColorYellow,
		tcell.ColorBlue,
		tcell.ColorRed,
		tcell.ColorPurple,
		tcell.ColorOrange,
		tcell.ColorMaroon,
	}
)

// render draws a recorded frame.
func render(screen tcell.Screen, v viewport, f scene.Frame, status string) {
	screen.Clear()
	cols, rows := screen.Size()
	if !v.valid() {
		drawText(screen, 0, 0, statusStyle, "terminal too small")
		screen.Show()
		return
	}

	for row := v.originY; row <= v.originY+v.fieldH; row++ {
		for col := v.originX; col <= v.originX+v.fieldW; col++ {
			screen.SetContent(col, row, ' ', nil, feltStyle)
		}
	}
	left, right := v.originX-1, v.originX+v.fieldW+1
	top, bottom := v.originY-1, v.originY+v.fieldH+1
	for col := left + 1; col < right; col++ {
		screen.SetContent(col, top, '─', nil, borderStyle)
		screen.SetContent(col, bottom, '─', nil, borderStyle)
	}
	for row := top + 1; row < bottom; row++ {
		screen.SetContent(left, row, '│', nil, borderStyle)
		screen.SetContent(right, row, '│', nil, borderStyle)
	}
	screen.SetContent(left, top, '┌', nil, borderStyle)
	screen.SetContent(right, top, '┐', nil, borderStyle)
	screen.SetContent(left, bottom, '└', nil, borderStyle)
	screen.SetContent(right, bottom, '┘', nil, borderStyle)

	ball := 0
	for _, m := range f.Meshes {
		col, row := v.toCell(m.X, m.Y)
		switch m.Kind {
		case scene.KindPocket:
			if v.inField(col, row) {
				screen.SetContent(col, row, 'O', nil, pocketStyle)
			}
		case scene.KindBall:
			if v.inField(col, row) && ball < len(ballColors) {
				screen.SetContent(col, row, '●', nil, feltStyle.Foreground(ballColors[ball]))
			}
			ball++
		}
	}

	drawBar(screen, 0, rows-2, cols, f.Progress)
	drawText(screen, 0, rows-1, statusStyle, status)
	screen.Show()
}

func drawBar(screen tcell.Screen, x, y, width int, progress float64) {
	label := "power "
	drawText(screen, x, y, statusStyle, label)
	n := width - len(label) - 1
	if n <= 0 {
		return
	}
	filled := int(math.Round(progress * float64(n)))
	for i := 0; i < n; i++ {
		r := '·'
		if i < filled {
			r = '█'
		}
		screen.SetContent(x+len(label)+i, y, r, nil, barStyle)
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func statusLine(g *game.Game, shots int) string {
	state := "aim with the mouse, hold to charge, release to shoot"
	if !g.IsFrozen() {
		state = "rolling"
	} else if g.IsChargingShot() {
		state = fmt.Sprintf("charging %3.0f%%", g.ChargeProgress()*100)
	}
	return fmt.Sprintf(" shots: %d | %s | r: rerack  q: quit", shots, state)
}
