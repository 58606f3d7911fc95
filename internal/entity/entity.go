// Package entity provides the live game entities and their registry.
package entity

import (
	"github.com/google/uuid"

	"github.com/mkessler/wildmere/internal/combat"
	"github.com/mkessler/wildmere/internal/gamedata"
)

// Kind tags what an entity is. The kind decides whether it blocks
// movement and how the session reacts when the player steps onto it.
type Kind int

const (
	// KindPlayer is the single player-controlled entity.
	KindPlayer Kind = iota
	// KindEnemy is a hostile entity; walking into one starts combat.
	KindEnemy
	// KindPickup is a healing pickup, consumed on overlap.
	KindPickup
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindPickup:
		return "pickup"
	default:
		return "unknown"
	}
}

// Blocks returns true if entities of this kind occupy their cell
// exclusively. Pickups share their cell with whoever walks onto it.
func (k Kind) Blocks() bool {
	return k == KindPlayer || k == KindEnemy
}

// Stats is the combat profile of an entity.
type Stats struct {
	MaxHP         int
	Attack        int
	Defense       int
	Speed         float64 // Walk speed in pixels per second
	RunMultiplier float64 // Speed factor while sprinting
	CritChance    float64
	Evasion       float64
}

// PlayerStats builds the player's combat profile from a variant entry.
// Defense, crit and evasion are fixed player-side values; the table
// contributes hit points, attack and movement.
func PlayerStats(def *gamedata.VariantDef) Stats {
	return Stats{
		MaxHP:         def.MaxHP,
		Attack:        def.Damage,
		Defense:       2,
		Speed:         def.Speed,
		RunMultiplier: def.RunMultiplier,
		CritChance:    0.15,
		Evasion:       0.10,
	}
}

// EnemyStats builds an enemy's combat profile from a variant entry.
// Enemies hit points and attack come from the table; they have no
// defense and a weaker crit roll.
func EnemyStats(def *gamedata.VariantDef) Stats {
	return Stats{
		MaxHP:      def.MaxHP,
		Attack:     def.Damage,
		CritChance: 0.10,
		Evasion:    0.10,
	}
}

// Entity is one live thing on the map: the player, an enemy, or a
// pickup. Position is in grid cells.
type Entity struct {
	ID    uuid.UUID
	Kind  Kind
	Name  string
	Glyph rune
	X, Y  int
	HP    int
	Stats Stats
}

// New creates an entity with a fresh ID and full hit points.
func New(kind Kind, name string, glyph rune, x, y int, stats Stats) *Entity {
	return &Entity{
		ID:    uuid.New(),
		Kind:  kind,
		Name:  name,
		Glyph: glyph,
		X:     x,
		Y:     y,
		HP:    stats.MaxHP,
		Stats: stats,
	}
}

// Position returns the entity's current cell coordinates.
func (e *Entity) Position() (int, int) {
	return e.X, e.Y
}

// SetVariant replaces the entity's stats with a new variant profile and
// restores hit points to the new maximum. Swapping mid-combat is the
// documented heal exploit; the reset is intentional.
func (e *Entity) SetVariant(def *gamedata.VariantDef) {
	e.Name = def.Name
	e.Glyph = def.GlyphRune()
	e.Stats = PlayerStats(def)
	e.HP = e.Stats.MaxHP
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the entity's display name.
func (e *Entity) GetName() string { return e.Name }

// IsAlive returns true if the entity has HP remaining.
func (e *Entity) IsAlive() bool { return e.HP > 0 }

// GetHP returns current HP.
func (e *Entity) GetHP() int { return e.HP }

// GetMaxHP returns maximum HP.
func (e *Entity) GetMaxHP() int { return e.Stats.MaxHP }

// GetAttack returns attack power.
func (e *Entity) GetAttack() int { return e.Stats.Attack }

// GetDefense returns defense value.
func (e *Entity) GetDefense() int { return e.Stats.Defense }

// GetCritChance returns the critical hit probability.
func (e *Entity) GetCritChance() float64 { return e.Stats.CritChance }

// GetEvasion returns the evasion probability.
func (e *Entity) GetEvasion() float64 { return e.Stats.Evasion }

// TakeDamage reduces HP and returns actual damage taken. HP never drops
// below zero.
func (e *Entity) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > e.HP {
		actual = e.HP
	}
	e.HP -= actual
	return actual
}

// Heal restores HP and returns actual amount healed. HP never exceeds
// the maximum.
func (e *Entity) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if e.HP+actual > e.Stats.MaxHP {
		actual = e.Stats.MaxHP - e.HP
	}
	e.HP += actual
	return actual
}

// Ensure Entity implements combat.Combatant
var _ combat.Combatant = (*Entity)(nil)
