package game

import (
	"math/rand"
	"testing"

	"github.com/arenasim/arena-cards/internal/constants"
)

func TestNewDeckSizeAndDuplicateCap(t *testing.T) {
	pool := newTestPool()
	// Widen the pool so the duplicate cap can hold.
	for _, c := range newTestPool() {
		c.Variant = "Alt"
		pool = append(pool, c)
	}
	for _, c := range newTestPool() {
		c.Variant = "Prime"
		pool = append(pool, c)
	}

	deck, err := NewDeck(pool, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	if deck.CardsRemaining() != constants.DeckSize {
		t.Fatalf("expected deck of %d, got %d", constants.DeckSize, deck.CardsRemaining())
	}
	counts := map[string]int{}
	for _, ch := range deck.Cards {
		counts[ch.Key()]++
		if counts[ch.Key()] > constants.MaxCopiesPerCard {
			t.Fatalf("card %s exceeds %d copies", ch.Key(), constants.MaxCopiesPerCard)
		}
	}
}

func TestNewDeckSingleCardPoolDegradesGracefully(t *testing.T) {
	pool := []Card{{Name: "Lone", Cost: 1, Attack: 100, Defense: 100}}
	deck, err := NewDeck(pool, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("a single-card pool must still build a deck, got %v", err)
	}
	if deck.CardsRemaining() != constants.DeckSize {
		t.Fatalf("expected deck of %d, got %d", constants.DeckSize, deck.CardsRemaining())
	}
}

func TestNewDeckEmptyPoolFails(t *testing.T) {
	if _, err := NewDeck(nil, rand.New(rand.NewSource(1))); err != ErrEmptyPool {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
	// A pool with only invalid cards is as good as empty.
	invalid := []Card{{Name: "", Cost: 1, Attack: 100, Defense: 100}}
	if _, err := NewDeck(invalid, rand.New(rand.NewSource(1))); err != ErrEmptyPool {
		t.Fatalf("expected ErrEmptyPool for unusable pool, got %v", err)
	}
}

func TestDrawNeverFails(t *testing.T) {
	deck, err := NewDeck(newTestPool(), rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	drawn := deck.Draw(constants.DeckSize + 10)
	if len(drawn) != constants.DeckSize {
		t.Fatalf("expected %d drawn, got %d", constants.DeckSize, len(drawn))
	}
	if more := deck.Draw(5); len(more) != 0 {
		t.Fatalf("drawing from an empty deck must return nothing, got %d", len(more))
	}
}

func TestDeckDeterministicForSeed(t *testing.T) {
	// A pool with empty cost buckets forces the relaxed-fill path, which
	// must sample costs in a stable order for the same seed.
	sparse := []Card{
		{Name: "Scout", Cost: 1, Attack: 100, Defense: 100},
		{Name: "Brute", Cost: 4, Attack: 300, Defense: 300},
		{Name: "Ogre", Cost: 5, Attack: 400, Defense: 400},
	}
	pools := [][]Card{newTestPool(), sparse}
	for _, pool := range pools {
		for seed := int64(0); seed < 20; seed++ {
			a, err := NewDeck(pool, rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatalf("NewDeck: %v", err)
			}
			b, err := NewDeck(pool, rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatalf("NewDeck: %v", err)
			}
			if len(a.Cards) != len(b.Cards) {
				t.Fatalf("seed %d: deck sizes diverge: %d vs %d", seed, len(a.Cards), len(b.Cards))
			}
			for i := range a.Cards {
				if a.Cards[i].Key() != b.Cards[i].Key() {
					t.Fatalf("seed %d: decks diverge at %d: %s vs %s",
						seed, i, a.Cards[i].Key(), b.Cards[i].Key())
				}
			}
		}
	}
}
