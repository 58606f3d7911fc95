package entity

import (
	"testing"

	"github.com/mkessler/wildmere/internal/gamedata"
)

// testTerrain is a 5x5 map with a water column at x=2.
type testTerrain struct{}

func (testTerrain) Size() (int, int) { return 5, 5 }

func (testTerrain) InBounds(x, y int) bool {
	return x >= 0 && x < 5 && y >= 0 && y < 5
}

func (t testTerrain) IsWalkable(x, y int) bool {
	return t.InBounds(x, y) && x != 2
}

func testStats(maxHP int) Stats {
	return Stats{MaxHP: maxHP, Attack: 5, Speed: 140, RunMultiplier: 1.5}
}

func TestRegistryMove(t *testing.T) {
	reg := NewRegistry(testTerrain{})
	player := New(KindPlayer, "Hero", '@', 1, 1, testStats(100))
	enemy := New(KindEnemy, "Brute", 'b', 1, 3, testStats(50))
	pickup := New(KindPickup, "Pip", '+', 0, 2, Stats{MaxHP: 1})
	reg.Add(player)
	reg.Add(enemy)
	reg.Add(pickup)

	tests := []struct {
		name string
		x, y int
		want MoveResult
	}{
		{"open cell", 1, 2, MoveOK},
		{"water column", 2, 2, BlockedByTerrain},
		{"occupied by enemy", 1, 3, BlockedByEntity},
		{"out of bounds", -1, 2, BlockedOutOfBounds},
		{"pickup cell is not blocking", 0, 2, MoveOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := [2]int{player.X, player.Y}
			got := reg.Move(player.ID, tt.x, tt.y)
			if got != tt.want {
				t.Fatalf("Move(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
			if got.Blocked() && (player.X != before[0] || player.Y != before[1]) {
				t.Error("Blocked move changed the entity position")
			}
			if !got.Blocked() && (player.X != tt.x || player.Y != tt.y) {
				t.Errorf("Move succeeded but position is (%d,%d)", player.X, player.Y)
			}
		})
	}

	// The cell index must track moves for collision queries
	if reg.BlockerAt(1, 1) != nil {
		t.Error("Old cell still reports a blocker after moving away")
	}
	if reg.BlockerAt(player.X, player.Y) != player {
		t.Error("New cell does not report the player as blocker")
	}
}

func TestRegistryMoveUnknownEntity(t *testing.T) {
	reg := NewRegistry(testTerrain{})
	ghost := New(KindEnemy, "Ghost", 'g', 0, 0, testStats(10))
	if got := reg.Move(ghost.ID, 1, 1); got != MoveNoEntity {
		t.Errorf("Move of unregistered entity = %v, want MoveNoEntity", got)
	}
}

func TestRegistryDamageAndDefeat(t *testing.T) {
	reg := NewRegistry(testTerrain{})
	player := New(KindPlayer, "Hero", '@', 1, 1, testStats(100))
	enemy := New(KindEnemy, "Brute", 'b', 3, 3, testStats(30))
	reg.Add(player)
	reg.Add(enemy)

	res := reg.Damage(enemy.ID, 10)
	if res.Applied != 10 || res.Defeated {
		t.Errorf("Damage(10) = %+v, want applied 10, not defeated", res)
	}
	if enemy.HP != 20 {
		t.Errorf("Enemy HP = %d, want 20", enemy.HP)
	}

	// Overkill clamps at zero and removes the enemy
	res = reg.Damage(enemy.ID, 1000)
	if res.Applied != 20 || !res.Defeated {
		t.Errorf("Overkill = %+v, want applied 20, defeated", res)
	}
	if enemy.HP != 0 {
		t.Errorf("Enemy HP = %d, want 0", enemy.HP)
	}
	if reg.Get(enemy.ID) != nil {
		t.Error("Defeated enemy still registered")
	}
	if reg.EnemyCount() != 0 {
		t.Errorf("EnemyCount = %d, want 0", reg.EnemyCount())
	}

	// A defeated player stays registered for the game-over screen
	res = reg.Damage(player.ID, 1000)
	if !res.Defeated {
		t.Error("Player should be defeated")
	}
	if reg.Player() == nil {
		t.Error("Defeated player should remain in the registry")
	}
}

func TestRegistryHealClamps(t *testing.T) {
	reg := NewRegistry(testTerrain{})
	player := New(KindPlayer, "Hero", '@', 1, 1, testStats(100))
	reg.Add(player)

	reg.Damage(player.ID, 30)
	if got := reg.Heal(player.ID, 10); got != 10 {
		t.Errorf("Heal(10) applied %d, want 10", got)
	}
	if got := reg.Heal(player.ID, 500); got != 20 {
		t.Errorf("Heal(500) applied %d, want clamp to 20", got)
	}
	if player.HP != 100 {
		t.Errorf("Player HP = %d, want 100", player.HP)
	}
}

func TestRegistryQueries(t *testing.T) {
	reg := NewRegistry(testTerrain{})
	enemy := New(KindEnemy, "Brute", 'b', 3, 3, testStats(30))
	pickup := New(KindPickup, "Pip", '+', 3, 3, Stats{MaxHP: 1})
	reg.Add(enemy)
	reg.Add(pickup)

	if reg.EnemyAt(3, 3) != enemy {
		t.Error("EnemyAt missed the enemy")
	}
	if reg.PickupAt(3, 3) != pickup {
		t.Error("PickupAt missed the pickup")
	}
	if reg.EnemyAt(0, 0) != nil || reg.PickupAt(0, 0) != nil {
		t.Error("Queries on empty cell returned entities")
	}
	if got := len(reg.At(3, 3)); got != 2 {
		t.Errorf("At(3,3) returned %d entities, want 2", got)
	}
}

func TestSetVariantResetsHP(t *testing.T) {
	def := &gamedata.VariantDef{
		Index: 3, Name: "Crimson Count", Glyph: "C",
		MaxHP: 120, Damage: 12, Speed: 180, RunMultiplier: 1.5,
	}
	player := New(KindPlayer, "Hero", '@', 1, 1, testStats(100))
	player.TakeDamage(95)

	player.SetVariant(def)

	if player.HP != 120 || player.Stats.MaxHP != 120 {
		t.Errorf("HP after switch = %d/%d, want 120/120", player.HP, player.Stats.MaxHP)
	}
	if player.Stats.Attack != 12 {
		t.Errorf("Attack = %d, want 12", player.Stats.Attack)
	}
	if player.Stats.Speed != 180 {
		t.Errorf("Speed = %v, want 180", player.Stats.Speed)
	}
	if player.Name != "Crimson Count" {
		t.Errorf("Name = %q, want Crimson Count", player.Name)
	}
}

func TestEntityDamageHealClamping(t *testing.T) {
	e := New(KindEnemy, "Brute", 'b', 0, 0, testStats(50))

	if got := e.TakeDamage(-5); got != 0 {
		t.Errorf("Negative damage applied %d, want 0", got)
	}
	if got := e.Heal(-5); got != 0 {
		t.Errorf("Negative heal applied %d, want 0", got)
	}
	if got := e.TakeDamage(200); got != 50 {
		t.Errorf("Overkill applied %d, want 50", got)
	}
	if e.HP != 0 || e.IsAlive() {
		t.Errorf("HP = %d, alive = %v after overkill", e.HP, e.IsAlive())
	}
}
