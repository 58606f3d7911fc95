package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
	"unicode"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mkessler/wildmere/internal/combat"
	"github.com/mkessler/wildmere/internal/entity"
	"github.com/mkessler/wildmere/internal/gamedata"
	"github.com/mkessler/wildmere/internal/spawn"
	"github.com/mkessler/wildmere/internal/telemetry"
	"github.com/mkessler/wildmere/internal/world"
)

const (
	// tilePixels is the rendered size of a cell; together with a
	// variant's speed it sets the movement cadence.
	tilePixels = 64

	// worldBuildAttempts bounds the regenerate-on-failure loop in
	// random-seed mode.
	worldBuildAttempts = 5

	// logTail is how many combat log lines the snapshot keeps.
	logTail = 6
)

// Session is the single owner of all game state: the generated world,
// the entity registry, the active encounter if any, and the outcome
// flag. All methods are synchronous; there is exactly one writer.
type Session struct {
	cfg      Config
	variants *gamedata.VariantRegistry

	grid     *world.Grid
	registry *entity.Registry
	rng      *rand.Rand
	seed     int64

	encounter    *combat.Encounter
	engagedEnemy *entity.Entity

	outcome      Outcome
	quit         bool
	variantIndex int
	sprinting    bool
	jumping      bool
	log          []string
}

// NewSession builds a fresh session: materialize the seed, generate the
// world, place the player, and plan the enemy and pickup spawns.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "session.start")
	defer span.End()

	variants, err := gamedata.LoadVariantRegistry()
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:          cfg,
		variants:     variants,
		variantIndex: cfg.StartVariant,
	}
	if err := s.buildWorld(ctx); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("session.seed", s.seed),
		attribute.Int64("world.fingerprint", int64(s.grid.Fingerprint())),
		attribute.Int("session.enemies", s.registry.EnemyCount()),
		attribute.String("session.variant", s.registry.Player().Name),
	)
	return s, nil
}

// buildWorld runs one full world setup. Generation or strict-spawn
// failure is retried with a fresh seed in random mode; in seeded mode
// the same seed would fail identically, so the error is permanent.
func (s *Session) buildWorld(ctx context.Context) error {
	gen := world.NewGenerator(world.GenerateConfig{
		Width:         s.cfg.Width,
		Height:        s.cfg.Height,
		MinRegionSize: 1 + s.cfg.Enemies,
	})
	planner := &spawn.Planner{
		StrictWalkable: s.cfg.StrictSpawn,
		RetryBudget:    s.cfg.SpawnRetryBudget,
	}

	type builtWorld struct {
		grid     *world.Grid
		registry *entity.Registry
		rng      *rand.Rand
		seed     int64
	}

	attempt := func() (builtWorld, error) {
		seed := s.cfg.Seed.Materialize()
		rng := rand.New(rand.NewSource(seed))

		grid, err := gen.Generate(ctx, rng)
		if err != nil {
			if !s.cfg.Seed.Random {
				return builtWorld{}, backoff.Permanent(err)
			}
			return builtWorld{}, err
		}

		startX, startY := grid.SpawnPoint()
		placements, err := planner.PlanSpawns(grid, rng, []spawn.Request{
			{Kind: entity.KindEnemy, Count: s.cfg.Enemies},
			{Kind: entity.KindPickup, Count: s.cfg.Pickups},
		}, startX, startY)
		if err != nil {
			if !s.cfg.Seed.Random {
				return builtWorld{}, backoff.Permanent(err)
			}
			return builtWorld{}, err
		}

		def, err := s.variants.ByIndex(s.variantIndex)
		if err != nil {
			return builtWorld{}, backoff.Permanent(err)
		}

		registry := entity.NewRegistry(grid)
		registry.Add(entity.New(entity.KindPlayer, def.Name, def.GlyphRune(),
			startX, startY, entity.PlayerStats(def)))

		for _, p := range placements {
			switch p.Kind {
			case entity.KindEnemy:
				// Enemies roll their stats from a random variant entry.
				edef := s.variants.Random(rng)
				registry.Add(entity.New(entity.KindEnemy, edef.Name,
					unicode.ToLower(edef.GlyphRune()), p.X, p.Y, entity.EnemyStats(edef)))
			case entity.KindPickup:
				registry.Add(entity.New(entity.KindPickup, "Healing Pip", '+',
					p.X, p.Y, entity.Stats{MaxHP: 1}))
			}
		}

		return builtWorld{grid: grid, registry: registry, rng: rng, seed: seed}, nil
	}

	built, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewConstantBackOff(10*time.Millisecond)),
		backoff.WithMaxTries(worldBuildAttempts),
	)
	if err != nil {
		return err
	}

	s.grid = built.grid
	s.registry = built.registry
	s.rng = built.rng
	s.seed = built.seed
	s.encounter = nil
	s.engagedEnemy = nil
	s.outcome = OutcomeNone
	s.sprinting = false
	s.jumping = false
	s.log = nil
	s.logf("You arrive in Wildmere.")
	return nil
}

// Apply dispatches one tagged input action. Unknown actions and inputs
// that make no sense in the current state are dropped silently; the
// session never fails mid-run.
func (s *Session) Apply(ctx context.Context, a Action) {
	// Jump is a one-frame animation flag; any other action clears it.
	if a.Type != ActionJump {
		s.jumping = false
	}

	switch a.Type {
	case ActionMove:
		s.AttemptMove(ctx, a.Direction)
	case ActionSprint:
		s.SetSprint(a.SprintOn)
	case ActionJump:
		s.Jump()
	case ActionAdvance:
		s.AdvanceCombat(ctx)
	case ActionSelectCharacter:
		_ = s.SelectCharacter(a.Variant) // invalid selection is a no-op
	case ActionRestart:
		_ = s.Restart(ctx) // a failed restart keeps the old world up
	case ActionQuit:
		s.Quit()
	}
}

// AttemptMove moves the player one cell. Walking into a live enemy does
// not move the player; the move becomes the combat trigger instead.
// Moves are ignored while combat is active or the session is over.
func (s *Session) AttemptMove(ctx context.Context, dir Direction) MoveOutcome {
	if s.quit || s.outcome.Terminal() || s.encounter != nil {
		return MoveIgnored
	}
	player := s.registry.Player()
	dx, dy := dir.Delta()
	nx, ny := player.X+dx, player.Y+dy

	if enemy := s.registry.EnemyAt(nx, ny); enemy != nil {
		s.engagedEnemy = enemy
		s.encounter = combat.Begin(player, enemy)
		s.logf("%s blocks your path!", enemy.Name)

		tracer := telemetry.Tracer("combat")
		_, span := tracer.Start(ctx, "combat.encounter")
		span.SetAttributes(
			attribute.String("combat.enemy", enemy.Name),
			attribute.Int("combat.enemy_hp", enemy.HP),
			attribute.Int("combat.player_hp", player.HP),
		)
		span.End()
		return MoveEngaged
	}

	if s.registry.Move(player.ID, nx, ny).Blocked() {
		return MoveBlocked
	}

	if pickup := s.registry.PickupAt(nx, ny); pickup != nil {
		heal := player.Stats.MaxHP * 15 / 100
		if heal < 1 {
			heal = 1
		}
		applied := s.registry.Heal(player.ID, heal)
		s.registry.Remove(pickup.ID)
		s.logf("You feel restored (+%d HP).", applied)
	}
	return MoveDone
}

// AdvanceCombat resolves one combat round: the player's strike and the
// enemy's automatic reply. Returns nil when no encounter is active.
func (s *Session) AdvanceCombat(ctx context.Context) *combat.RoundReport {
	if s.quit || s.outcome.Terminal() || s.encounter == nil {
		return nil
	}

	report := s.encounter.Advance(s.rng)
	if report == nil {
		return nil
	}
	for _, msg := range report.Messages() {
		s.logf("%s", msg)
	}

	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "combat.round")
	span.SetAttributes(
		attribute.Int("combat.round", report.Round),
		attribute.String("combat.state", report.State.String()),
	)
	if report.PlayerSwing != nil {
		span.SetAttributes(attribute.Int("combat.player_damage", report.PlayerSwing.Damage))
	}
	if report.EnemySwing != nil {
		span.SetAttributes(attribute.Int("combat.enemy_damage", report.EnemySwing.Damage))
	}
	span.End()

	switch report.State {
	case combat.StateVictory:
		s.registry.Remove(s.engagedEnemy.ID)
		s.encounter = nil
		s.engagedEnemy = nil
		if s.registry.EnemyCount() == 0 && s.outcome == OutcomeNone {
			s.outcome = OutcomeVictory
			s.logf("The wilds fall quiet. Victory!")
		}
	case combat.StateDefeat:
		s.encounter = nil
		s.engagedEnemy = nil
		if s.outcome == OutcomeNone {
			s.outcome = OutcomeGameOver
		}
	}
	return report
}

// SelectCharacter swaps the player to the given variant (1..6). The
// swap replaces stats and restores hit points to the new maximum, even
// mid-combat: the documented heal exploit, kept exactly as shipped.
// The enemy's hit points and the turn state are untouched.
func (s *Session) SelectCharacter(index int) error {
	if s.quit || s.outcome.Terminal() {
		return errors.New("session over")
	}
	def, err := s.variants.ByIndex(index)
	if err != nil {
		return err
	}
	s.variantIndex = index
	s.registry.Player().SetVariant(def)
	s.logf("You take the form of the %s.", def.Name)
	return nil
}

// SetSprint toggles the sprint speed multiplier.
func (s *Session) SetSprint(on bool) {
	if s.quit || s.outcome.Terminal() {
		return
	}
	s.sprinting = on
}

// Jump raises the one-frame jump flag for the render layer. Jumping has
// no gameplay effect.
func (s *Session) Jump() {
	if s.quit || s.outcome.Terminal() || s.encounter != nil {
		return
	}
	s.jumping = true
}

// Restart throws everything away and rebuilds from the configured seed
// spec: the same map again in seeded mode, a fresh one in random mode.
// Enemy and pickup counts return to the configured values and the
// player comes back at the selected variant's full hit points.
func (s *Session) Restart(ctx context.Context) error {
	if s.quit {
		return errors.New("session closed")
	}

	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "session.restart")
	defer span.End()

	if err := s.buildWorld(ctx); err != nil {
		span.SetAttributes(attribute.String("restart.error", err.Error()))
		return err
	}
	span.SetAttributes(attribute.Int64("session.seed", s.seed))
	return nil
}

// Quit closes the session. The active encounter and world are simply
// abandoned; nothing is persisted.
func (s *Session) Quit() {
	s.quit = true
	s.encounter = nil
	s.engagedEnemy = nil
}

// Done returns true once Quit has been called.
func (s *Session) Done() bool {
	return s.quit
}

// Outcome returns the session result flag.
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// Seed returns the seed the current world was generated from.
func (s *Session) Seed() int64 {
	return s.seed
}

// Grid returns the current world grid.
func (s *Session) Grid() *world.Grid {
	return s.grid
}

// Registry returns the entity registry.
func (s *Session) Registry() *entity.Registry {
	return s.registry
}

// Encounter returns the active encounter, or nil.
func (s *Session) Encounter() *combat.Encounter {
	return s.encounter
}

// MoveInterval returns the time one step takes at the current variant's
// speed, doubled up by the run multiplier while sprinting.
func (s *Session) MoveInterval() time.Duration {
	stats := s.registry.Player().Stats
	speed := stats.Speed
	if s.sprinting && stats.RunMultiplier > 0 {
		speed *= stats.RunMultiplier
	}
	if speed <= 0 {
		speed = 140
	}
	return time.Duration(float64(tilePixels) / speed * float64(time.Second))
}

func (s *Session) logf(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
	if len(s.log) > logTail {
		s.log = s.log[len(s.log)-logTail:]
	}
}
