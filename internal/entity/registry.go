package entity

import (
	"github.com/google/uuid"

	"github.com/mkessler/wildmere/internal/world"
)

// MoveResult reports what happened to a Move call. Blocked moves are
// ordinary values, not errors: in-session logic never fails, it no-ops.
type MoveResult int

const (
	// MoveOK means the entity now occupies the requested cell.
	MoveOK MoveResult = iota
	// BlockedByTerrain means the target tile is not walkable.
	BlockedByTerrain
	// BlockedByEntity means another blocking entity holds the cell.
	BlockedByEntity
	// BlockedOutOfBounds means the target lies outside the grid.
	BlockedOutOfBounds
	// MoveNoEntity means the id is not registered.
	MoveNoEntity
)

// Blocked returns true for any result other than MoveOK.
func (r MoveResult) Blocked() bool {
	return r != MoveOK
}

// String returns the result name.
func (r MoveResult) String() string {
	switch r {
	case MoveOK:
		return "ok"
	case BlockedByTerrain:
		return "blocked_terrain"
	case BlockedByEntity:
		return "blocked_entity"
	case BlockedOutOfBounds:
		return "blocked_bounds"
	case MoveNoEntity:
		return "no_entity"
	default:
		return "unknown"
	}
}

// DamageResult reports a Damage call: how much HP was actually removed
// and whether the target dropped to zero.
type DamageResult struct {
	Applied  int
	Defeated bool
}

// Registry owns every live entity, indexed by id and by cell. The cell
// index is a spatial hash keyed y*width+x so collision lookups are one
// map read instead of a scan.
type Registry struct {
	grid    world.Terrain
	width   int
	byID    map[uuid.UUID]*Entity
	byCell  map[int][]*Entity
	player  *Entity
	enemies int
}

// NewRegistry creates an empty registry bound to generated terrain. The
// grid supplies walkability for Move; spawning is the planner's problem
// and may be lenient, but movement always respects terrain.
func NewRegistry(grid world.Terrain) *Registry {
	w, _ := grid.Size()
	return &Registry{
		grid:   grid,
		width:  w,
		byID:   make(map[uuid.UUID]*Entity),
		byCell: make(map[int][]*Entity),
	}
}

func (r *Registry) cellKey(x, y int) int {
	return y*r.width + x
}

// Add registers an entity at its current position.
func (r *Registry) Add(e *Entity) {
	r.byID[e.ID] = e
	key := r.cellKey(e.X, e.Y)
	r.byCell[key] = append(r.byCell[key], e)
	switch e.Kind {
	case KindPlayer:
		r.player = e
	case KindEnemy:
		r.enemies++
	}
}

// Remove deletes an entity from both indexes. Removing an unknown id is
// a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	e, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	r.removeFromCell(e)
	switch e.Kind {
	case KindPlayer:
		r.player = nil
	case KindEnemy:
		r.enemies--
	}
}

func (r *Registry) removeFromCell(e *Entity) {
	key := r.cellKey(e.X, e.Y)
	cell := r.byCell[key]
	for i, other := range cell {
		if other.ID == e.ID {
			r.byCell[key] = append(cell[:i], cell[i+1:]...)
			break
		}
	}
	if len(r.byCell[key]) == 0 {
		delete(r.byCell, key)
	}
}

// Get returns the entity with the given id, or nil.
func (r *Registry) Get(id uuid.UUID) *Entity {
	return r.byID[id]
}

// At returns every entity occupying the given cell.
func (r *Registry) At(x, y int) []*Entity {
	return r.byCell[r.cellKey(x, y)]
}

// BlockerAt returns the blocking entity on the cell, or nil. At most
// one blocker can hold a cell at a time.
func (r *Registry) BlockerAt(x, y int) *Entity {
	for _, e := range r.At(x, y) {
		if e.Kind.Blocks() {
			return e
		}
	}
	return nil
}

// EnemyAt returns the live enemy on the cell, or nil.
func (r *Registry) EnemyAt(x, y int) *Entity {
	for _, e := range r.At(x, y) {
		if e.Kind == KindEnemy && e.IsAlive() {
			return e
		}
	}
	return nil
}

// PickupAt returns the pickup on the cell, or nil.
func (r *Registry) PickupAt(x, y int) *Entity {
	for _, e := range r.At(x, y) {
		if e.Kind == KindPickup {
			return e
		}
	}
	return nil
}

// Player returns the player entity, or nil before session setup.
func (r *Registry) Player() *Entity {
	return r.player
}

// EnemyCount returns the number of registered enemies.
func (r *Registry) EnemyCount() int {
	return r.enemies
}

// Enemies returns all registered enemies.
func (r *Registry) Enemies() []*Entity {
	out := make([]*Entity, 0, r.enemies)
	for _, e := range r.byID {
		if e.Kind == KindEnemy {
			out = append(out, e)
		}
	}
	return out
}

// Pickups returns all registered pickups.
func (r *Registry) Pickups() []*Entity {
	var out []*Entity
	for _, e := range r.byID {
		if e.Kind == KindPickup {
			out = append(out, e)
		}
	}
	return out
}

// All returns every registered entity.
func (r *Registry) All() []*Entity {
	out := make([]*Entity, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	return out
}

// Move relocates an entity to the requested cell. The move is rejected
// when the cell is out of bounds, not walkable, or held by another
// blocking entity; the entity stays put and the result says why.
func (r *Registry) Move(id uuid.UUID, x, y int) MoveResult {
	e, ok := r.byID[id]
	if !ok {
		return MoveNoEntity
	}
	if !r.grid.InBounds(x, y) {
		return BlockedOutOfBounds
	}
	if !r.grid.IsWalkable(x, y) {
		return BlockedByTerrain
	}
	if blocker := r.BlockerAt(x, y); blocker != nil && blocker.ID != e.ID {
		return BlockedByEntity
	}

	r.removeFromCell(e)
	e.X, e.Y = x, y
	key := r.cellKey(x, y)
	r.byCell[key] = append(r.byCell[key], e)
	return MoveOK
}

// Damage applies damage to an entity, clamping HP at zero. A defeated
// enemy is removed from the registry immediately; a defeated player is
// kept so the session can show the game-over state.
func (r *Registry) Damage(id uuid.UUID, amount int) DamageResult {
	e, ok := r.byID[id]
	if !ok {
		return DamageResult{}
	}
	applied := e.TakeDamage(amount)
	defeated := !e.IsAlive()
	if defeated && e.Kind == KindEnemy {
		r.Remove(id)
	}
	return DamageResult{Applied: applied, Defeated: defeated}
}

// Heal restores HP to an entity, clamped to its maximum, and returns
// the amount actually applied.
func (r *Registry) Heal(id uuid.UUID, amount int) int {
	e, ok := r.byID[id]
	if !ok {
		return 0
	}
	return e.Heal(amount)
}
