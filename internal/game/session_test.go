package game

import (
	"context"
	"testing"

	"github.com/mkessler/wildmere/internal/combat"
	"github.com/mkessler/wildmere/internal/entity"
)

func newTestSession(t *testing.T, seed int64) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = Seeded(seed)
	s, err := NewSession(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	return s
}

// clearEnemies removes every procedurally spawned enemy so tests can
// stage their own encounters at known positions.
func clearEnemies(s *Session) {
	for _, e := range s.Registry().Enemies() {
		s.Registry().Remove(e.ID)
	}
}

// freeNeighbor returns a walkable, unoccupied cell next to the player
// and the direction that reaches it.
func freeNeighbor(t *testing.T, s *Session) (int, int, Direction) {
	t.Helper()
	player := s.Registry().Player()
	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		dx, dy := dir.Delta()
		nx, ny := player.X+dx, player.Y+dy
		if s.Grid().IsWalkable(nx, ny) && s.Registry().BlockerAt(nx, ny) == nil {
			return nx, ny, dir
		}
	}
	t.Fatal("Player spawn has no free walkable neighbor")
	return 0, 0, DirUp
}

// stageEnemy plants one enemy with the given stats next to the player
// and returns the direction that walks into it.
func stageEnemy(t *testing.T, s *Session, stats entity.Stats) (*entity.Entity, Direction) {
	t.Helper()
	x, y, dir := freeNeighbor(t, s)
	enemy := entity.New(entity.KindEnemy, "Target", 't', x, y, stats)
	s.Registry().Add(enemy)
	return enemy, dir
}

// driveCombat advances the active encounter until it resolves, with a
// generous bound against miss streaks.
func driveCombat(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 500; i++ {
		if s.Encounter() == nil {
			return
		}
		if s.AdvanceCombat(ctx) == nil {
			t.Fatal("AdvanceCombat returned nil with an active encounter")
		}
	}
	t.Fatal("Combat did not resolve within 500 rounds")
}

func TestNewSessionSeededReproducible(t *testing.T) {
	s1 := newTestSession(t, 12345)
	s2 := newTestSession(t, 12345)

	if s1.Grid().Fingerprint() != s2.Grid().Fingerprint() {
		t.Error("Same seed produced different worlds")
	}
	if s1.Registry().EnemyCount() != 3 {
		t.Errorf("EnemyCount = %d, want 3", s1.Registry().EnemyCount())
	}
	if got := len(s1.Registry().Pickups()); got != 6 {
		t.Errorf("Pickups = %d, want 6", got)
	}

	player := s1.Registry().Player()
	if player == nil {
		t.Fatal("No player registered")
	}
	if !s1.Grid().IsWalkable(player.X, player.Y) {
		t.Errorf("Player spawned on non-walkable cell (%d,%d)", player.X, player.Y)
	}
	if player.HP != player.Stats.MaxHP {
		t.Errorf("Player HP = %d/%d, want full", player.HP, player.Stats.MaxHP)
	}
	if s1.Outcome() != OutcomeNone {
		t.Errorf("Fresh session outcome = %v, want none", s1.Outcome())
	}
}

func TestSelectCharacterSetsTableStats(t *testing.T) {
	s := newTestSession(t, 7)
	player := s.Registry().Player()

	// Beat the player up first: selection must reset HP regardless
	s.Registry().Damage(player.ID, player.HP-1)

	if err := s.SelectCharacter(3); err != nil {
		t.Fatalf("SelectCharacter(3) error: %v", err)
	}

	if player.HP != 120 || player.Stats.MaxHP != 120 {
		t.Errorf("HP = %d/%d, want 120/120", player.HP, player.Stats.MaxHP)
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

	for _, bad := range []int{0, 7, -3} {
		if err := s.SelectCharacter(bad); err == nil {
			t.Errorf("SelectCharacter(%d) should fail", bad)
		}
	}
}

func TestCombatVictoryFlow(t *testing.T) {
	s := newTestSession(t, 21)
	ctx := context.Background()
	clearEnemies(s)
	enemy, dir := stageEnemy(t, s, entity.Stats{MaxHP: 1, Attack: 1, Evasion: 0})

	player := s.Registry().Player()
	px, py := player.X, player.Y

	if got := s.AttemptMove(ctx, dir); got != MoveEngaged {
		t.Fatalf("AttemptMove into enemy = %v, want engaged", got)
	}
	if player.X != px || player.Y != py {
		t.Error("Combat trigger must not move the player")
	}
	if s.Encounter() == nil || s.Encounter().State() != combat.StatePlayerTurn {
		t.Fatal("Encounter should be waiting on the player")
	}

	// Movement is ignored while engaged
	if got := s.AttemptMove(ctx, dir); got != MoveIgnored {
		t.Errorf("Move during combat = %v, want ignored", got)
	}

	driveCombat(t, s)

	if s.Outcome() != OutcomeVictory {
		t.Fatalf("Outcome = %v, want victory", s.Outcome())
	}
	if s.Registry().Get(enemy.ID) != nil {
		t.Error("Defeated enemy still registered")
	}
	if s.Registry().EnemyCount() != 0 {
		t.Errorf("EnemyCount = %d, want 0", s.Registry().EnemyCount())
	}
	if s.Encounter() != nil {
		t.Error("Encounter should be discarded after resolution")
	}
}

func TestCombatDefeatFlow(t *testing.T) {
	s := newTestSession(t, 22)
	ctx := context.Background()
	clearEnemies(s)
	_, dir := stageEnemy(t, s, entity.Stats{MaxHP: 1 << 20, Attack: 1 << 20, Evasion: 0.10})

	if got := s.AttemptMove(ctx, dir); got != MoveEngaged {
		t.Fatalf("AttemptMove into enemy = %v, want engaged", got)
	}

	driveCombat(t, s)

	if s.Outcome() != OutcomeGameOver {
		t.Fatalf("Outcome = %v, want game over", s.Outcome())
	}
	if s.Registry().Player() == nil {
		t.Error("Defeated player should stay registered for the HUD")
	}

	// After a terminal outcome only restart and quit are accepted
	if got := s.AttemptMove(ctx, dir); got != MoveIgnored {
		t.Errorf("Move after game over = %v, want ignored", got)
	}
	if s.AdvanceCombat(ctx) != nil {
		t.Error("AdvanceCombat after game over should be a no-op")
	}
	if err := s.SelectCharacter(2); err == nil {
		t.Error("SelectCharacter after game over should fail")
	}
}

func TestMidCombatCharacterSwitch(t *testing.T) {
	s := newTestSession(t, 23)
	ctx := context.Background()
	clearEnemies(s)
	enemy, dir := stageEnemy(t, s, entity.Stats{MaxHP: 1 << 20, Attack: 1, Evasion: 0.10})

	if got := s.AttemptMove(ctx, dir); got != MoveEngaged {
		t.Fatalf("AttemptMove into enemy = %v, want engaged", got)
	}
	enemyHP := enemy.HP

	// The documented exploit: switching mid-fight refills the player
	// but leaves the enemy and the turn state alone.
	if err := s.SelectCharacter(5); err != nil {
		t.Fatalf("Mid-combat SelectCharacter error: %v", err)
	}

	player := s.Registry().Player()
	if player.HP != 200 || player.Stats.MaxHP != 200 {
		t.Errorf("HP = %d/%d, want 200/200 (Iron Warden)", player.HP, player.Stats.MaxHP)
	}
	if enemy.HP != enemyHP {
		t.Error("Character switch must not touch enemy HP")
	}
	if s.Encounter() == nil || s.Encounter().State() != combat.StatePlayerTurn {
		t.Error("Character switch must not disturb the encounter state")
	}
}

func TestPickupHealsAndIsConsumed(t *testing.T) {
	s := newTestSession(t, 24)
	ctx := context.Background()
	clearEnemies(s)

	player := s.Registry().Player()
	x, y, dir := freeNeighbor(t, s)
	// Stage a pickup on the neighbor cell, clearing any spawned one
	if old := s.Registry().PickupAt(x, y); old != nil {
		s.Registry().Remove(old.ID)
	}
	pickup := entity.New(entity.KindPickup, "Healing Pip", '+', x, y, entity.Stats{MaxHP: 1})
	s.Registry().Add(pickup)

	s.Registry().Damage(player.ID, 50)
	hurt := player.HP

	if got := s.AttemptMove(ctx, dir); got != MoveDone {
		t.Fatalf("Move onto pickup = %v, want done", got)
	}

	wantHeal := player.Stats.MaxHP * 15 / 100
	if wantHeal < 1 {
		wantHeal = 1
	}
	if player.HP != hurt+wantHeal {
		t.Errorf("HP after pickup = %d, want %d", player.HP, hurt+wantHeal)
	}
	if s.Registry().Get(pickup.ID) != nil {
		t.Error("Consumed pickup still registered")
	}
}

func TestRestartResetsEverything(t *testing.T) {
	s := newTestSession(t, 25)
	ctx := context.Background()
	fingerprint := s.Grid().Fingerprint()

	// Win the run
	clearEnemies(s)
	_, dir := stageEnemy(t, s, entity.Stats{MaxHP: 1, Attack: 1, Evasion: 0})
	if got := s.AttemptMove(ctx, dir); got != MoveEngaged {
		t.Fatalf("AttemptMove = %v, want engaged", got)
	}
	driveCombat(t, s)
	if s.Outcome() != OutcomeVictory {
		t.Fatalf("Outcome = %v, want victory", s.Outcome())
	}

	if err := s.Restart(ctx); err != nil {
		t.Fatalf("Restart() error: %v", err)
	}

	if s.Outcome() != OutcomeNone {
		t.Errorf("Outcome after restart = %v, want none", s.Outcome())
	}
	if s.Registry().EnemyCount() != 3 {
		t.Errorf("EnemyCount after restart = %d, want 3", s.Registry().EnemyCount())
	}
	if got := len(s.Registry().Pickups()); got != 6 {
		t.Errorf("Pickups after restart = %d, want 6", got)
	}
	player := s.Registry().Player()
	if player.HP != player.Stats.MaxHP {
		t.Errorf("Player HP after restart = %d/%d, want full", player.HP, player.Stats.MaxHP)
	}
	if s.Grid().Fingerprint() != fingerprint {
		t.Error("Seeded restart should regenerate the identical map")
	}
	if s.Encounter() != nil {
		t.Error("Restart should discard any encounter")
	}
}

func TestRestartKeepsSelectedVariant(t *testing.T) {
	s := newTestSession(t, 26)
	ctx := context.Background()

	if err := s.SelectCharacter(6); err != nil {
		t.Fatalf("SelectCharacter(6) error: %v", err)
	}
	if err := s.Restart(ctx); err != nil {
		t.Fatalf("Restart() error: %v", err)
	}

	player := s.Registry().Player()
	if player.Name != "Dusk Ranger" || player.Stats.MaxHP != 80 {
		t.Errorf("Player after restart = %q %d HP, want Dusk Ranger at 80", player.Name, player.Stats.MaxHP)
	}
	if player.HP != 80 {
		t.Errorf("Player HP = %d, want the selected variant's max", player.HP)
	}
}

func TestVictorySignalledExactlyOnce(t *testing.T) {
	s := newTestSession(t, 27)
	ctx := context.Background()
	clearEnemies(s)

	// Two staged enemies: dropping the first must not flag victory
	_, dir := stageEnemy(t, s, entity.Stats{MaxHP: 1, Attack: 1, Evasion: 0})
	second := entity.New(entity.KindEnemy, "Straggler", 's', 0, 0, entity.Stats{MaxHP: 1, Attack: 1})
	// Park the second enemy on any free walkable cell
	w, h := s.Grid().Size()
	placed := false
	for y := 0; y < h && !placed; y++ {
		for x := 0; x < w && !placed; x++ {
			if s.Grid().IsWalkable(x, y) && s.Registry().BlockerAt(x, y) == nil {
				second.X, second.Y = x, y
				s.Registry().Add(second)
				placed = true
			}
		}
	}
	if !placed {
		t.Fatal("No free cell for the second enemy")
	}

	if got := s.AttemptMove(ctx, dir); got != MoveEngaged {
		t.Fatalf("AttemptMove = %v, want engaged", got)
	}
	driveCombat(t, s)

	if s.Outcome() != OutcomeNone {
		t.Fatalf("Outcome with an enemy left = %v, want none", s.Outcome())
	}
	if s.Registry().EnemyCount() != 1 {
		t.Fatalf("EnemyCount = %d, want 1", s.Registry().EnemyCount())
	}

	// Hunt down the last one by staging it adjacent again
	s.Registry().Remove(second.ID)
	_, dir = stageEnemy(t, s, entity.Stats{MaxHP: 1, Attack: 1, Evasion: 0})
	if got := s.AttemptMove(ctx, dir); got != MoveEngaged {
		t.Fatalf("AttemptMove = %v, want engaged", got)
	}
	driveCombat(t, s)

	if s.Outcome() != OutcomeVictory {
		t.Errorf("Outcome = %v, want victory after the last enemy", s.Outcome())
	}
}

func TestQuitClosesSession(t *testing.T) {
	s := newTestSession(t, 28)
	ctx := context.Background()

	s.Quit()
	if !s.Done() {
		t.Fatal("Done() should report true after Quit")
	}
	if got := s.AttemptMove(ctx, DirUp); got != MoveIgnored {
		t.Errorf("Move after quit = %v, want ignored", got)
	}
	if err := s.Restart(ctx); err == nil {
		t.Error("Restart after quit should fail")
	}
}

func TestMoveIntervalSprint(t *testing.T) {
	s := newTestSession(t, 29)

	walk := s.MoveInterval()
	s.SetSprint(true)
	run := s.MoveInterval()
	s.SetSprint(false)

	if run >= walk {
		t.Errorf("Sprint interval %v should be shorter than walk %v", run, walk)
	}
	if s.MoveInterval() != walk {
		t.Error("Interval should return to walking pace after sprint off")
	}
}

func TestApplyDispatch(t *testing.T) {
	s := newTestSession(t, 30)
	ctx := context.Background()

	s.Apply(ctx, Action{Type: ActionJump})
	if !s.Snapshot().Jumping {
		t.Error("Jump action should raise the jump flag")
	}
	s.Apply(ctx, SprintAction(true))
	snap := s.Snapshot()
	if snap.Jumping {
		t.Error("Any following action should clear the jump flag")
	}
	if !snap.Sprinting {
		t.Error("Sprint action should toggle sprinting")
	}

	s.Apply(ctx, SelectAction(2))
	if s.Snapshot().Player.Name != "Fen Witch" {
		t.Errorf("Player = %q, want Fen Witch after SelectAction(2)", s.Snapshot().Player.Name)
	}

	s.Apply(ctx, Action{Type: ActionQuit})
	if !s.Done() {
		t.Error("Quit action should close the session")
	}
}

func TestSnapshotContents(t *testing.T) {
	s := newTestSession(t, 31)
	snap := s.Snapshot()

	if snap.Grid == nil {
		t.Fatal("Snapshot missing grid")
	}
	if snap.EnemiesLeft != 3 {
		t.Errorf("EnemiesLeft = %d, want 3", snap.EnemiesLeft)
	}
	if snap.Player.Kind != entity.KindPlayer {
		t.Error("Snapshot player view has wrong kind")
	}
	if len(snap.Entities) != 9 { // 3 enemies + 6 pickups
		t.Errorf("Entities = %d, want 9", len(snap.Entities))
	}
	if snap.Combat != nil {
		t.Error("No encounter should be reported outside combat")
	}
	if snap.VariantColor == "" {
		t.Error("Snapshot missing variant color")
	}
	if len(snap.Log) == 0 {
		t.Error("Snapshot missing the session log")
	}
}
