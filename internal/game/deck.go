package game

import (
	"errors"
	"math/rand"

	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/logging"
)

// ErrEmptyPool is returned when a deck cannot be built because the pool has
// no usable cards at all. A pool missing individual cost buckets is a
// degraded case handled by relaxed sampling, not an error.
var ErrEmptyPool = errors.New("card pool has no usable cards")

// Deck is an ordered sequence of characters built from a card pool under the
// target cost distribution. Duplication (max 3 copies per card identity) is
// enforced during construction only.
type Deck struct {
	Cards     []*Character
	Graveyard []*Character

	rng *rand.Rand
}

// NewDeck builds a shuffled deck from the pool. Cost buckets with no pool
// coverage are logged as degraded and skipped; the remainder of the deck is
// filled by relaxed sampling across all available costs. The duplicate cap
// itself is relaxed as a last resort so tiny pools still produce a deck.
func NewDeck(pool []Card, rng *rand.Rand) (*Deck, error) {
	byCost := make(map[int][]Card)
	usable := 0
	for _, c := range pool {
		c = c.Normalize()
		if c.Validate() != nil {
			continue
		}
		byCost[c.Cost] = append(byCost[c.Cost], c)
		usable++
	}
	if usable == 0 {
		return nil, ErrEmptyPool
	}

	d := &Deck{rng: rng}
	counts := make(map[string]int)

	add := func(c Card, cap int) bool {
		if counts[c.Key()] >= cap {
			return false
		}
		counts[c.Key()]++
		d.Cards = append(d.Cards, NewCharacter(c))
		return true
	}

	// Fill per-cost buckets toward the target distribution.
	for cost := constants.MinCost; cost <= constants.MaxCost; cost++ {
		target := constants.DefaultCostDistribution[cost]
		candidates := byCost[cost]
		if len(candidates) == 0 {
			if target > 0 {
				logging.Warn("no cards available for cost bucket; deck will be filled by relaxed sampling",
					logging.Fields{constants.LogFieldCost: cost, "target": target})
			}
			continue
		}
		added, attempts := 0, 0
		for added < target && attempts < target*3 {
			if add(candidates[rng.Intn(len(candidates))], constants.MaxCopiesPerCard) {
				added++
			}
			attempts++
		}
	}

	// Relaxed fill: sample from any cost until the deck reaches size. If the
	// duplicate cap exhausts the pool, progressively raise the cap rather
	// than fail; a deck short of cards is worse than extra duplicates.
	costsWithCards := make([]int, 0, len(byCost))
	for cost := constants.MinCost; cost <= constants.MaxCost; cost++ {
		if len(byCost[cost]) > 0 {
			costsWithCards = append(costsWithCards, cost)
		}
	}
	dupCap := constants.MaxCopiesPerCard
	stale := 0
	for len(d.Cards) < constants.DeckSize {
		cost := costsWithCards[rng.Intn(len(costsWithCards))]
		candidates := byCost[cost]
		if add(candidates[rng.Intn(len(candidates))], dupCap) {
			stale = 0
			continue
		}
		stale++
		if stale > usable*constants.MaxCopiesPerCard {
			dupCap++
			stale = 0
			logging.Warn("relaxing duplicate cap to fill deck from a small pool",
				logging.Fields{"cap": dupCap, "deck_size": len(d.Cards)})
		}
	}

	d.Shuffle()
	return d, nil
}

// Draw removes up to n cards from the front of the deck. It returns fewer
// than n (possibly none) when the deck is exhausted; drawing never fails.
func (d *Deck) Draw(n int) []*Character {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	drawn := d.Cards[:n]
	d.Cards = d.Cards[n:]
	return drawn
}

// Shuffle randomizes the remaining card order.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// SendToGraveyard records a destroyed character.
func (d *Deck) SendToGraveyard(ch *Character) {
	d.Graveyard = append(d.Graveyard, ch)
}

// CardsRemaining reports how many cards are left to draw.
func (d *Deck) CardsRemaining() int { return len(d.Cards) }

// CardCount returns how many copies of a card identity remain in the deck.
func (d *Deck) CardCount(name, variant string) int {
	n := 0
	for _, ch := range d.Cards {
		if ch.Name() == name && ch.Variant() == variant {
			n++
		}
	}
	return n
}
