// Package spawn selects starting positions for enemies and pickups.
package spawn

import (
	"fmt"
	"math/rand"

	"github.com/mkessler/wildmere/internal/entity"
	"github.com/mkessler/wildmere/internal/world"
)

// DefaultRetryBudget is how many candidate cells strict mode samples
// per entity before giving up.
const DefaultRetryBudget = 100

// SpawnError reports that strict mode exhausted its retry budget
// without finding a walkable cell. Fatal to session startup.
type SpawnError struct {
	Kind     entity.Kind
	Attempts int
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("no walkable spawn for %s after %d attempts", e.Kind, e.Attempts)
}

// Request asks for a number of placements of one entity kind.
type Request struct {
	Kind  entity.Kind
	Count int
}

// Placement is one planned spawn position.
type Placement struct {
	Kind entity.Kind
	X, Y int
}

// Planner samples spawn positions uniformly over the grid.
//
// The default is the legacy lenient behavior: one sample per entity,
// accepted whatever the terrain, so enemies and pickups can land on
// water where the player cannot reach them. That is a known issue kept
// as shipped; StrictWalkable opts into resampling until the cell is
// walkable or the retry budget runs out.
type Planner struct {
	StrictWalkable bool
	RetryBudget    int // Attempts per entity in strict mode; 0 means DefaultRetryBudget
}

// PlanSpawns returns one placement per requested entity. Blocking kinds
// never stack on an already-planned blocking cell, and nothing is ever
// placed on the reserved player start cell; both rules hold in lenient
// mode too.
func (p *Planner) PlanSpawns(grid world.Terrain, rng *rand.Rand, reqs []Request, startX, startY int) ([]Placement, error) {
	budget := p.RetryBudget
	if budget <= 0 {
		budget = DefaultRetryBudget
	}

	w, h := grid.Size()
	taken := map[[2]int]bool{{startX, startY}: true}
	var placements []Placement

	for _, req := range reqs {
		for i := 0; i < req.Count; i++ {
			placed := false
			for attempt := 0; attempt < budget; attempt++ {
				x, y := rng.Intn(w), rng.Intn(h)
				if taken[[2]int{x, y}] {
					continue
				}
				if p.StrictWalkable && !grid.IsWalkable(x, y) {
					continue
				}
				if req.Kind.Blocks() {
					taken[[2]int{x, y}] = true
				}
				placements = append(placements, Placement{Kind: req.Kind, X: x, Y: y})
				placed = true
				break
			}
			if !placed {
				return nil, &SpawnError{Kind: req.Kind, Attempts: budget}
			}
		}
	}

	return placements, nil
}
