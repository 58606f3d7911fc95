package game

import (
	"time"

	"github.com/mkessler/wildmere/internal/entity"
	"github.com/mkessler/wildmere/internal/world"
)

// EntityView is the render-layer view of one entity.
type EntityView struct {
	Kind  entity.Kind
	Name  string
	Glyph rune
	X, Y  int
	HP    int
	MaxHP int
}

// CombatView is the render-layer view of the active encounter.
type CombatView struct {
	State      string
	Round      int
	EnemyName  string
	EnemyHP    int
	EnemyMaxHP int
}

// Snapshot is everything the render layer needs for one frame. The
// grid reference is safe to share because grids are immutable.
type Snapshot struct {
	Grid *world.Grid
	Seed int64

	Player   EntityView
	Entities []EntityView

	Combat  *CombatView
	Outcome Outcome

	VariantIndex int
	VariantColor string // Hex color of the selected variant
	Sprinting    bool
	Jumping      bool
	MoveInterval time.Duration
	EnemiesLeft  int

	Log []string
}

// Snapshot captures the current session state for rendering.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Grid:         s.grid,
		Seed:         s.seed,
		Outcome:      s.outcome,
		VariantIndex: s.variantIndex,
		Sprinting:    s.sprinting,
		Jumping:      s.jumping,
		MoveInterval: s.MoveInterval(),
		EnemiesLeft:  s.registry.EnemyCount(),
		Log:          append([]string(nil), s.log...),
	}

	if def, err := s.variants.ByIndex(s.variantIndex); err == nil {
		snap.VariantColor = def.Color
	}

	for _, e := range s.registry.All() {
		view := EntityView{
			Kind:  e.Kind,
			Name:  e.Name,
			Glyph: e.Glyph,
			X:     e.X,
			Y:     e.Y,
			HP:    e.HP,
			MaxHP: e.Stats.MaxHP,
		}
		if e.Kind == entity.KindPlayer {
			snap.Player = view
			continue
		}
		snap.Entities = append(snap.Entities, view)
	}

	if s.encounter != nil {
		enemy := s.encounter.Enemy()
		snap.Combat = &CombatView{
			State:      s.encounter.State().String(),
			Round:      s.encounter.Round(),
			EnemyName:  enemy.GetName(),
			EnemyHP:    enemy.GetHP(),
			EnemyMaxHP: enemy.GetMaxHP(),
		}
	}

	return snap
}
