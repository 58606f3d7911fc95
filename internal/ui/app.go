package ui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/mkessler/wildmere/internal/game"
)

// App owns the terminal event loop. It translates tcell events into
// tagged game actions and dispatches them into the session; no game
// rule lives here.
type App struct {
	screen   *Screen
	renderer *Renderer
	session  *game.Session
	lastMove time.Time
}

// NewApp creates the app around an initialized session.
func NewApp(session *game.Session) (*App, error) {
	screen, err := NewScreen()
	if err != nil {
		return nil, err
	}
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen),
		session:  session,
	}, nil
}

// Run executes the event loop until the session quits: render, block on
// input, dispatch, repeat.
func (a *App) Run(ctx context.Context) error {
	defer a.screen.Close()

	for !a.session.Done() {
		a.renderer.Render(a.session.Snapshot())

		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventKey:
			a.handleKey(ctx, ev)
		case *tcell.EventResize:
			a.screen.Sync()
		}
	}
	return nil
}

// handleKey maps one key event onto a session action.
func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.session.Apply(ctx, game.Action{Type: game.ActionQuit})

	case tcell.KeyUp:
		a.move(ctx, game.DirUp, ev.Modifiers())
	case tcell.KeyDown:
		a.move(ctx, game.DirDown, ev.Modifiers())
	case tcell.KeyLeft:
		a.move(ctx, game.DirLeft, ev.Modifiers())
	case tcell.KeyRight:
		a.move(ctx, game.DirRight, ev.Modifiers())

	case tcell.KeyEnter:
		a.session.Apply(ctx, game.Action{Type: game.ActionAdvance})

	case tcell.KeyRune:
		a.handleRune(ctx, ev)
	}
}

func (a *App) handleRune(ctx context.Context, ev *tcell.EventKey) {
	switch r := ev.Rune(); r {
	case 'q', 'Q':
		a.session.Apply(ctx, game.Action{Type: game.ActionQuit})
	case 'r', 'R':
		a.session.Apply(ctx, game.Action{Type: game.ActionRestart})
	case 'w', 'W':
		a.move(ctx, game.DirUp, ev.Modifiers())
	case 's', 'S':
		a.move(ctx, game.DirDown, ev.Modifiers())
	case 'a', 'A':
		a.move(ctx, game.DirLeft, ev.Modifiers())
	case 'd', 'D':
		a.move(ctx, game.DirRight, ev.Modifiers())
	case ' ':
		// Space advances combat when engaged, otherwise jumps.
		if a.session.Encounter() != nil {
			a.session.Apply(ctx, game.Action{Type: game.ActionAdvance})
		} else {
			a.session.Apply(ctx, game.Action{Type: game.ActionJump})
		}
	case '1', '2', '3', '4', '5', '6':
		a.session.Apply(ctx, game.SelectAction(int(r-'0')))
	}
}

// move throttles movement to the session's cadence and maps the shift
// modifier onto sprint.
func (a *App) move(ctx context.Context, dir game.Direction, mods tcell.ModMask) {
	a.session.Apply(ctx, game.SprintAction(mods&tcell.ModShift != 0))
	if time.Since(a.lastMove) < a.session.MoveInterval() {
		return
	}
	a.lastMove = time.Now()
	a.session.Apply(ctx, game.MoveAction(dir))
}
