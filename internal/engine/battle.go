package engine

import (
	"math/rand"

	"github.com/arenasim/arena-cards/internal/ability"
	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/game"
)

// Battle drives one fight between two players to completion. The engine is
// fully deterministic for a given rand source and card tables; all
// randomness flows through the injected rng.
type Battle struct {
	players  [2]*game.Player
	registry *ability.Registry
	flags    *ability.Flags
	stats    *Stats
	rng      *rand.Rand

	turn       int
	captureLog bool
	log        []string
}

// NewBattle prepares a battle between two already-constructed players.
func NewBattle(p1, p2 *game.Player, registry *ability.Registry, rng *rand.Rand) *Battle {
	return &Battle{
		players:  [2]*game.Player{p1, p2},
		registry: registry,
		flags:    ability.NewFlags(),
		stats:    NewStats(),
		rng:      rng,
	}
}

// EnableLog turns on structured log-line capture on the result. Off by
// default; the tuner runs thousands of battles and never reads the log.
func (b *Battle) EnableLog() { b.captureLog = true }

// Run plays the battle to completion and returns the result. The loop
// alternates full player turns; a player wins immediately when the opponent
// ends their turn at zero life points. After the turn cap, the higher life
// total wins, with player 1 taking an exact tie.
func (b *Battle) Run() *Result {
	for b.turn = 1; b.turn <= constants.MaxTurns; b.turn++ {
		for side := 0; side < 2; side++ {
			b.playTurn(side)
			if !b.players[1-side].IsAlive() {
				b.logf("%s wins on turn %d", b.players[side].Name, b.turn)
				return b.result(side)
			}
		}
	}

	b.turn = constants.MaxTurns
	winner := 0
	if b.players[1].LifePoints > b.players[0].LifePoints {
		winner = 1
	}
	b.logf("turn cap reached, %s wins on life points (%d vs %d)",
		b.players[winner].Name, b.players[0].LifePoints, b.players[1].LifePoints)
	return b.result(winner)
}

func (b *Battle) result(winner int) *Result {
	return &Result{Winner: winner, Turns: b.turn, Stats: b.stats, Log: b.log}
}

// playTurn runs one side's full turn: draw, energy, play, combat, end.
func (b *Battle) playTurn(side int) {
	active, defender := b.players[side], b.players[1-side]

	active.DrawCards(1)
	active.AddEnergy(1)

	// Play phase: up to two placements, in hand order, skipping cards that
	// fail legality without aborting the phase.
	placements := 0
	hand := make([]*game.Character, len(active.Hand))
	copy(hand, active.Hand)
	for _, ch := range hand {
		if placements >= constants.MaxPlacementsPerTurn {
			break
		}
		if active.PlayCard(ch) {
			placements++
			b.stats.recordPlay(side, ch.Key())
			b.logf("%s plays %s (cost %d)", active.Name, ch.Key(), ch.Card.Cost)
		}
	}

	// Combat phase: field order, skipping characters killed mid-phase.
	field := make([]*game.Character, len(active.Field))
	copy(field, active.Field)
	for _, ch := range field {
		if !ch.IsAlive() {
			continue
		}
		b.combatAction(side, ch)
		defender.RemoveDefeated()
	}
	active.RemoveDefeated()

	// End phase: unconditional full regeneration for both fields.
	for _, p := range b.players {
		for _, ch := range p.LivingField() {
			ch.RegenerateHealth()
		}
	}
}
