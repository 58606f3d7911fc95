package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mkessler/wildmere/internal/telemetry"
)

const (
	// Default overworld dimensions
	DefaultWidth  = 80
	DefaultHeight = 24

	// Cellular layout parameters
	defaultWaterFraction    = 0.42 // Initial random water fill
	defaultObstacleFraction = 0.06 // Rock scatter on finished ground
	defaultSmoothPasses     = 4    // Neighbour-majority smoothing rounds
)

// ErrGridTooSmall reports that generation could not find a contiguous
// walkable region large enough to host the player and every enemy.
var ErrGridTooSmall = errors.New("no walkable region large enough")

// GenerationError carries the dimensions and region sizes of a failed
// generation attempt. It unwraps to ErrGridTooSmall.
type GenerationError struct {
	Width, Height int
	RegionSize    int // Largest contiguous walkable region found
	Required      int // Minimum region size requested
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %dx%d: largest walkable region %d below required %d: %v",
		e.Width, e.Height, e.RegionSize, e.Required, ErrGridTooSmall)
}

// Unwrap lets errors.Is match ErrGridTooSmall.
func (e *GenerationError) Unwrap() error {
	return ErrGridTooSmall
}

// GenerateConfig holds tunables for a generation run. The zero value of
// any field falls back to the package default.
type GenerateConfig struct {
	Width, Height int

	// MinRegionSize is the smallest acceptable contiguous walkable
	// region: one cell for the player plus one per enemy.
	MinRegionSize int

	WaterFraction    float64 // Fraction of cells seeded as water
	ObstacleFraction float64 // Fraction of ground cells turned to rock
	SmoothPasses     int     // Smoothing rounds over the water layer
}

func (c GenerateConfig) withDefaults() GenerateConfig {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.MinRegionSize <= 0 {
		c.MinRegionSize = 4 // player + three enemies
	}
	if c.WaterFraction <= 0 || c.WaterFraction >= 1 {
		c.WaterFraction = defaultWaterFraction
	}
	if c.ObstacleFraction < 0 || c.ObstacleFraction >= 1 {
		c.ObstacleFraction = defaultObstacleFraction
	}
	if c.SmoothPasses <= 0 {
		c.SmoothPasses = defaultSmoothPasses
	}
	return c
}

// Generator produces overworld grids using a cellular layout: a seeded
// random water fill, a few neighbour-majority smoothing passes that pull
// the water into contiguous lakes, then a light rock scatter over the
// remaining ground.
type Generator struct {
	cfg GenerateConfig
}

// NewGenerator creates a generator with the given configuration.
func NewGenerator(cfg GenerateConfig) *Generator {
	return &Generator{cfg: cfg.withDefaults()}
}

// Generate runs one generation pass and returns the finished grid.
// Every cell is assigned exactly one tile. Identical rng state yields an
// identical grid. The pass runs in bounded time; if the largest walkable
// region falls short of MinRegionSize it returns a *GenerationError
// rather than retrying internally.
func (g *Generator) Generate(ctx context.Context, rng *rand.Rand) (*Grid, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.generate")
	defer span.End()

	startTime := time.Now()
	w, h := g.cfg.Width, g.cfg.Height

	tiles := make([]Tile, w*h)

	// Seed the water layer. The border is always water so the world
	// reads as an island and nothing walks off the map edge.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || x == w-1 || y == 0 || y == h-1 {
				tiles[y*w+x] = TileWater
				continue
			}
			if rng.Float64() < g.cfg.WaterFraction {
				tiles[y*w+x] = TileWater
			} else {
				tiles[y*w+x] = TileGrass
			}
		}
	}

	// Neighbour-majority smoothing: a cell flips to whatever at least
	// five of its eight neighbours are. Out-of-bounds counts as water,
	// which keeps the border sealed.
	for pass := 0; pass < g.cfg.SmoothPasses; pass++ {
		tiles = smooth(tiles, w, h)
	}

	// Rock scatter over the finished ground.
	for i, t := range tiles {
		if t == TileGrass && rng.Float64() < g.cfg.ObstacleFraction {
			tiles[i] = TileRock
		}
	}

	region, regionSize := largestRegion(tiles, w, h)

	span.SetAttributes(
		attribute.Int("world.width", w),
		attribute.Int("world.height", h),
		attribute.Int("world.largest_region", regionSize),
		attribute.Int("world.min_region", g.cfg.MinRegionSize),
		attribute.Int64("world.generation_ms", time.Since(startTime).Milliseconds()),
	)

	if regionSize < g.cfg.MinRegionSize {
		err := &GenerationError{
			Width:      w,
			Height:     h,
			RegionSize: regionSize,
			Required:   g.cfg.MinRegionSize,
		}
		span.SetAttributes(attribute.String("world.error", err.Error()))
		return nil, err
	}

	grid := newGrid(w, h, tiles, region, regionSize)
	span.SetAttributes(
		attribute.Int("world.walkable_cells", grid.WalkableCount()),
		attribute.Int64("world.fingerprint", int64(grid.Fingerprint())),
	)
	return grid, nil
}

// smooth applies one neighbour-majority pass over a snapshot of the
// tiles, so every cell sees the same generation.
func smooth(tiles []Tile, w, h int) []Tile {
	out := make([]Tile, len(tiles))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || x == w-1 || y == 0 || y == h-1 {
				out[y*w+x] = TileWater
				continue
			}
			water := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h || tiles[ny*w+nx] == TileWater {
						water++
					}
				}
			}
			if water >= 5 {
				out[y*w+x] = TileWater
			} else {
				out[y*w+x] = TileGrass
			}
		}
	}
	return out
}

// largestRegion finds the biggest 4-connected component of walkable
// tiles via BFS and returns its membership mask and size.
func largestRegion(tiles []Tile, w, h int) ([]bool, int) {
	visited := make([]bool, len(tiles))
	best := make([]bool, len(tiles))
	bestSize := 0
	queue := make([]int, 0, len(tiles))

	for start := range tiles {
		if visited[start] || !tiles[start].Walkable() {
			continue
		}

		current := make([]bool, len(tiles))
		size := 0
		queue = append(queue[:0], start)
		visited[start] = true

		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			current[idx] = true
			size++

			x, y := idx%w, idx/w
			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				nx, ny := n[0], n[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				nidx := ny*w + nx
				if !visited[nidx] && tiles[nidx].Walkable() {
					visited[nidx] = true
					queue = append(queue, nidx)
				}
			}
		}

		if size > bestSize {
			best, bestSize = current, size
		}
	}

	return best, bestSize
}
