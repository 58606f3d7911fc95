// Package combat provides the turn-advance encounter state machine.
package combat

import (
	"fmt"
	"math"
	"math/rand"
)

// Combatant is the interface for either side of an encounter. The
// player and enemy entities both implement it; the engine never needs
// to know which is which beyond the strike profile it applies.
type Combatant interface {
	GetName() string
	IsAlive() bool

	GetHP() int
	GetMaxHP() int
	GetAttack() int
	GetDefense() int
	GetCritChance() float64
	GetEvasion() float64

	TakeDamage(amount int) int // Returns actual damage taken
	Heal(amount int) int       // Returns actual amount healed
}

// State is the encounter phase.
type State int

const (
	// StateIdle - no encounter running.
	StateIdle State = iota
	// StateEngaged - collision registered, normalizes to the player's turn.
	StateEngaged
	// StatePlayerTurn - waiting for the player's advance input.
	StatePlayerTurn
	// StateEnemyTurn - enemy reply pending; resolves without input.
	StateEnemyTurn
	// StateVictory - enemy down, encounter over.
	StateVictory
	// StateDefeat - player down, encounter over.
	StateDefeat
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEngaged:
		return "engaged"
	case StatePlayerTurn:
		return "player_turn"
	case StateEnemyTurn:
		return "enemy_turn"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Terminal returns true once the encounter has resolved either way.
func (s State) Terminal() bool {
	return s == StateVictory || s == StateDefeat
}

// strikeProfile holds the asymmetric roll constants. The player swings
// harder and connects more often than the enemy.
type strikeProfile struct {
	hitBase    float64
	multiplier float64
}

var (
	playerProfile = strikeProfile{hitBase: 0.85, multiplier: 2.2}
	enemyProfile  = strikeProfile{hitBase: 0.75, multiplier: 1.8}
)

// StrikeReport describes one swing within a round.
type StrikeReport struct {
	Attacker string
	Defender string
	Hit      bool
	Crit     bool
	Damage   int
}

// Message renders the strike for the combat log.
func (s StrikeReport) Message() string {
	if !s.Hit {
		return fmt.Sprintf("%s misses %s!", s.Attacker, s.Defender)
	}
	if s.Crit {
		return fmt.Sprintf("%s crits %s for %d!", s.Attacker, s.Defender, s.Damage)
	}
	return fmt.Sprintf("%s hits %s for %d.", s.Attacker, s.Defender, s.Damage)
}

// RoundReport describes one full exchange: the player strike and, if
// the enemy survived it, the automatic reply.
type RoundReport struct {
	Round       int
	PlayerSwing *StrikeReport
	EnemySwing  *StrikeReport
	State       State
}

// Messages returns the log lines for the round in order.
func (r *RoundReport) Messages() []string {
	var msgs []string
	if r.PlayerSwing != nil {
		msgs = append(msgs, r.PlayerSwing.Message())
	}
	if r.EnemySwing != nil {
		msgs = append(msgs, r.EnemySwing.Message())
	}
	switch r.State {
	case StateVictory:
		msgs = append(msgs, "Enemy defeated!")
	case StateDefeat:
		msgs = append(msgs, "You have fallen.")
	}
	return msgs
}

// Encounter is one combat between the player and a single enemy. It is
// created on collision and advances one full round per player input;
// the enemy never waits for input.
type Encounter struct {
	player Combatant
	enemy  Combatant
	state  State
	round  int
}

// Begin starts an encounter from a collision. The player always acts
// first, so Engaged normalizes straight to the player's turn.
func Begin(player, enemy Combatant) *Encounter {
	e := &Encounter{player: player, enemy: enemy, state: StateEngaged}
	e.state = StatePlayerTurn
	return e
}

// State returns the current encounter phase.
func (e *Encounter) State() State {
	return e.state
}

// Round returns how many full exchanges have been resolved.
func (e *Encounter) Round() int {
	return e.round
}

// Enemy returns the enemy combatant.
func (e *Encounter) Enemy() Combatant {
	return e.enemy
}

// Player returns the player combatant.
func (e *Encounter) Player() Combatant {
	return e.player
}

// Advance resolves one full round: the player's strike, then the
// enemy's automatic reply if it survived. Calling Advance on a resolved
// encounter is a no-op returning nil.
func (e *Encounter) Advance(rng *rand.Rand) *RoundReport {
	if e.state.Terminal() || e.state == StateIdle {
		return nil
	}

	e.round++
	report := &RoundReport{Round: e.round}

	swing := strike(rng, e.player, e.enemy, playerProfile)
	report.PlayerSwing = &swing

	if !e.enemy.IsAlive() {
		e.state = StateVictory
		report.State = e.state
		return report
	}

	e.state = StateEnemyTurn
	reply := strike(rng, e.enemy, e.player, enemyProfile)
	report.EnemySwing = &reply

	if !e.player.IsAlive() {
		e.state = StateDefeat
	} else {
		e.state = StatePlayerTurn
	}
	report.State = e.state
	return report
}

// strike rolls one swing. Hit chance is the profile base minus the
// defender's evasion, clamped to [0.10, 0.95]; damage is attack minus
// defense (min 1), doubled on crit, scaled by the profile multiplier,
// rounded, min 1.
func strike(rng *rand.Rand, attacker, defender Combatant, profile strikeProfile) StrikeReport {
	report := StrikeReport{
		Attacker: attacker.GetName(),
		Defender: defender.GetName(),
	}

	hitChance := clamp(profile.hitBase-defender.GetEvasion(), 0.10, 0.95)
	if rng.Float64() >= hitChance {
		return report
	}
	report.Hit = true

	base := attacker.GetAttack() - defender.GetDefense()
	if base < 1 {
		base = 1
	}
	if rng.Float64() < attacker.GetCritChance() {
		report.Crit = true
		base *= 2
	}

	damage := int(math.Round(float64(base) * profile.multiplier))
	if damage < 1 {
		damage = 1
	}
	report.Damage = defender.TakeDamage(damage)
	return report
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
