// Package world provides procedural overworld generation and map queries.
package world

// Tile represents the terrain classification of a single map cell.
type Tile int

const (
	// TileGrass is open ground the player and enemies can walk on.
	TileGrass Tile = iota
	// TileWater is impassable water.
	TileWater
	// TileRock is an impassable obstacle on otherwise open ground.
	TileRock
)

// Walkable returns true if the tile can be walked on.
func (t Tile) Walkable() bool {
	return t == TileGrass
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	switch t {
	case TileGrass:
		return '.'
	case TileWater:
		return '~'
	case TileRock:
		return '^'
	default:
		return '?'
	}
}

// String returns the tile name for logs and trace attributes.
func (t Tile) String() string {
	switch t {
	case TileGrass:
		return "grass"
	case TileWater:
		return "water"
	case TileRock:
		return "rock"
	default:
		return "unknown"
	}
}
