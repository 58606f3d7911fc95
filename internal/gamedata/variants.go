package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
)

// VariantDef defines one playable character variant loaded from JSON.
// Enemies also draw their hit points and attack from a random variant
// entry, so this table is the game's sole stat source.
type VariantDef struct {
	Index         int     `json:"index"`         // Selection key (1..6)
	ID            string  `json:"id"`            // Unique identifier (e.g., "crimson_count")
	Name          string  `json:"name"`          // Display name (e.g., "Crimson Count")
	Glyph         string  `json:"glyph"`         // Single character for rendering
	Color         string  `json:"color"`         // Hex color code (e.g., "#DC143C")
	MaxHP         int     `json:"maxHp"`         // Maximum hit points
	Damage        int     `json:"damage"`        // Attack power
	Speed         float64 `json:"speed"`         // Walk speed in pixels per second
	RunMultiplier float64 `json:"runMultiplier"` // Speed multiplier while sprinting
}

// GlyphRune returns the glyph as a rune for rendering.
func (v *VariantDef) GlyphRune() rune {
	if len(v.Glyph) == 0 {
		return '?'
	}
	return rune(v.Glyph[0])
}

// VariantsFile represents the structure of variants.json.
type VariantsFile struct {
	Variants []VariantDef `json:"variants"`
}

// LoadVariants loads variant definitions from the embedded variants.json file.
func LoadVariants() ([]VariantDef, error) {
	file, err := Load[VariantsFile]("variants.json")
	if err != nil {
		return nil, err
	}
	return file.Variants, nil
}

// VariantRegistry holds the loaded variant table and provides lookups.
type VariantRegistry struct {
	variants []VariantDef
	byIndex  map[int]*VariantDef
}

// NewVariantRegistry creates a registry from loaded variant definitions.
func NewVariantRegistry(variants []VariantDef) *VariantRegistry {
	registry := &VariantRegistry{
		variants: variants,
		byIndex:  make(map[int]*VariantDef, len(variants)),
	}
	for i := range variants {
		registry.byIndex[variants[i].Index] = &variants[i]
	}
	return registry
}

// LoadVariantRegistry loads and creates a registry from the embedded variants.json.
func LoadVariantRegistry() (*VariantRegistry, error) {
	variants, err := LoadVariants()
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, errors.New("no variants loaded from variants.json")
	}
	return NewVariantRegistry(variants), nil
}

// MustLoadVariantRegistry loads a registry, panicking on error.
func MustLoadVariantRegistry() *VariantRegistry {
	registry, err := LoadVariantRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// ByIndex returns the variant with the given selection index, or an
// error for indexes outside the table.
func (r *VariantRegistry) ByIndex(index int) (*VariantDef, error) {
	v, ok := r.byIndex[index]
	if !ok {
		return nil, fmt.Errorf("no character variant with index %d", index)
	}
	return v, nil
}

// Random returns a uniformly chosen variant entry. Enemy stats are
// rolled from here at spawn time.
func (r *VariantRegistry) Random(rng *rand.Rand) *VariantDef {
	return &r.variants[rng.Intn(len(r.variants))]
}

// All returns all variant definitions in table order.
func (r *VariantRegistry) All() []VariantDef {
	return r.variants
}

// Count returns the number of variants in the registry.
func (r *VariantRegistry) Count() int {
	return len(r.variants)
}
