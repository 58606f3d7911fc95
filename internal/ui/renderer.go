package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/mkessler/wildmere/internal/entity"
	"github.com/mkessler/wildmere/internal/game"
	"github.com/mkessler/wildmere/internal/gamedata"
	"github.com/mkessler/wildmere/internal/world"
)

const legend = "[1-6] character  [wasd/arrows] move  [shift] run  [space] jump/advance  [r] restart  [q] quit"

// Renderer draws a session snapshot to the screen: the overworld, the
// entities on it, the HUD, and the combat or outcome overlays.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame from a snapshot.
func (r *Renderer) Render(snap game.Snapshot) {
	r.screen.Clear()

	width, height := snap.Grid.Size()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tile := snap.Grid.TileAt(x, y)
			r.screen.SetContent(x, y, tile.Rune(), tileStyle(tile))
		}
	}

	for _, e := range snap.Entities {
		r.screen.SetContent(e.X, e.Y, e.Glyph, entityStyle(e.Kind))
	}

	// Player drawn last so it always sits on top.
	playerGlyph := snap.Player.Glyph
	if snap.Jumping {
		playerGlyph = '!'
	}
	r.screen.SetContent(snap.Player.X, snap.Player.Y, playerGlyph, r.playerStyle(snap))

	r.drawHUD(snap, height)
	if snap.Combat != nil {
		r.drawCombatPanel(snap, height)
	}
	if snap.Outcome.Terminal() {
		r.drawOutcome(snap, width, height)
	}

	r.screen.Show()
}

func (r *Renderer) playerStyle(snap game.Snapshot) tcell.Style {
	color := tcell.ColorYellow
	if c, err := gamedata.ParseHexColor(snap.VariantColor); err == nil {
		color = c
	}
	return tcell.StyleDefault.Foreground(color).Bold(true)
}

func tileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileGrass:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case world.TileWater:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case world.TileRock:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	default:
		return tcell.StyleDefault
	}
}

func entityStyle(kind entity.Kind) tcell.Style {
	switch kind {
	case entity.KindEnemy:
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	case entity.KindPickup:
		return tcell.StyleDefault.Foreground(tcell.ColorPink)
	default:
		return tcell.StyleDefault
	}
}

// drawHUD renders the status line and the log tail below the map.
func (r *Renderer) drawHUD(snap game.Snapshot, mapHeight int) {
	hudStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	status := fmt.Sprintf("%s  HP %d/%d  enemies left %d  seed %d",
		snap.Player.Name, snap.Player.HP, snap.Player.MaxHP, snap.EnemiesLeft, snap.Seed)
	if snap.Sprinting {
		status += "  [running]"
	}
	r.screen.Print(0, mapHeight, status, hudStyle)
	r.screen.Print(0, mapHeight+1, legend, dimStyle)

	for i, line := range snap.Log {
		r.screen.Print(0, mapHeight+2+i, line, dimStyle)
	}
}

// drawCombatPanel renders the encounter box over the top-right corner.
func (r *Renderer) drawCombatPanel(snap game.Snapshot, mapHeight int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorRed)
	panel := fmt.Sprintf("-- COMBAT r%d -- %s %d/%d -- [space/enter] advance",
		snap.Combat.Round, snap.Combat.EnemyName, snap.Combat.EnemyHP, snap.Combat.EnemyMaxHP)
	r.screen.Print(0, mapHeight+2+len(snap.Log), panel, style)
}

// drawOutcome renders the centered victory or game-over banner.
func (r *Renderer) drawOutcome(snap game.Snapshot, width, height int) {
	var text string
	var style tcell.Style
	switch snap.Outcome {
	case game.OutcomeVictory:
		text = "  VICTORY - [r]estart or [q]uit  "
		style = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen).Bold(true)
	case game.OutcomeGameOver:
		text = "  GAME OVER - [r]estart or [q]uit  "
		style = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
	default:
		return
	}
	x := (width - len(text)) / 2
	if x < 0 {
		x = 0
	}
	r.screen.Print(x, height/2, text, style)
}
