package world

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Terrain is the read-only view of a map that movement and spawning
// need. *Grid implements it; tests can substitute fixed layouts.
type Terrain interface {
	Size() (width, height int)
	InBounds(x, y int) bool
	IsWalkable(x, y int) bool
}

// Grid is the generated overworld map. It is immutable after generation;
// all mutation of the world happens at the entity layer, never here.
type Grid struct {
	width  int
	height int
	tiles  []Tile // row-major, index y*width+x

	// Largest contiguous walkable region, computed at generation time.
	region     []bool // row-major membership mask
	regionSize int
}

// newGrid wraps a finished tile buffer. Callers hand over ownership of
// the slices; nothing may write to them afterwards.
var _ Terrain = (*Grid)(nil)

func newGrid(width, height int, tiles []Tile, region []bool, regionSize int) *Grid {
	return &Grid{
		width:      width,
		height:     height,
		tiles:      tiles,
		region:     region,
		regionSize: regionSize,
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// InBounds returns true if the coordinates fall inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// TileAt returns the tile at the given position. Out-of-bounds positions
// read as water, the blocking default, so callers never need a bounds
// check before a walkability test.
func (g *Grid) TileAt(x, y int) Tile {
	if !g.InBounds(x, y) {
		return TileWater
	}
	return g.tiles[y*g.width+x]
}

// IsWalkable returns true if the given position can be walked on.
func (g *Grid) IsWalkable(x, y int) bool {
	return g.TileAt(x, y).Walkable()
}

// WalkableCount returns the number of walkable cells in the whole grid.
func (g *Grid) WalkableCount() int {
	count := 0
	for _, t := range g.tiles {
		if t.Walkable() {
			count++
		}
	}
	return count
}

// LargestRegionSize returns the cell count of the largest contiguous
// walkable region found at generation time.
func (g *Grid) LargestRegionSize() int {
	return g.regionSize
}

// InLargestRegion returns true if the position belongs to the largest
// contiguous walkable region.
func (g *Grid) InLargestRegion(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.region[y*g.width+x]
}

// SpawnPoint returns the walkable cell of the largest region closest to
// the grid center. This is where the player starts and where Restart
// returns them to.
func (g *Grid) SpawnPoint() (int, int) {
	cx, cy := g.width/2, g.height/2
	bestX, bestY := -1, -1
	bestDist := -1
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !g.region[y*g.width+x] {
				continue
			}
			dx, dy := x-cx, y-cy
			dist := dx*dx + dy*dy
			if bestDist < 0 || dist < bestDist {
				bestX, bestY = x, y
				bestDist = dist
			}
		}
	}
	return bestX, bestY
}

// Fingerprint returns a 64-bit hash over the grid dimensions and every
// tile. Two grids generated from the same seed hash identically, which
// is how reproducibility is asserted without comparing cell by cell.
func (g *Grid) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(g.width))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(g.height))
	h.Write(buf[:])
	for _, t := range g.tiles {
		h.Write([]byte{byte(t)})
	}
	return h.Sum64()
}
