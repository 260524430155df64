package game

import (
	"math/rand"
	"testing"

	"github.com/arenasim/arena-cards/internal/constants"
)

func newTestPool() []Card {
	return []Card{
		{Name: "Scout", Cost: 1, Attack: 100, Defense: 100},
		{Name: "Grunt", Cost: 2, Attack: 150, Defense: 150},
		{Name: "Knight", Cost: 3, Attack: 200, Defense: 250},
		{Name: "Brute", Cost: 4, Attack: 300, Defense: 300},
		{Name: "Ogre", Cost: 5, Attack: 400, Defense: 400},
		{Name: "Giant", Cost: 6, Attack: 500, Defense: 550},
		{Name: "Titan", Cost: 7, Attack: 700, Defense: 700},
	}
}

func newTestPlayer(t *testing.T, seed int64) *Player {
	t.Helper()
	deck, err := NewDeck(newTestPool(), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	return NewPlayer("p", deck)
}

func TestNewPlayerStartingResources(t *testing.T) {
	p := newTestPlayer(t, 1)
	if p.LifePoints != constants.StartingLifePoints {
		t.Fatalf("expected %d life points, got %d", constants.StartingLifePoints, p.LifePoints)
	}
	if p.Energy != constants.StartingEnergy {
		t.Fatalf("expected starting energy %d, got %d", constants.StartingEnergy, p.Energy)
	}
	if len(p.Hand) != constants.InitialHandSize {
		t.Fatalf("expected initial hand of %d, got %d", constants.InitialHandSize, len(p.Hand))
	}
	if p.Deck.CardsRemaining() != constants.DeckSize-constants.InitialHandSize {
		t.Fatalf("expected %d cards remaining, got %d", constants.DeckSize-constants.InitialHandSize, p.Deck.CardsRemaining())
	}
}

func TestPlayCardLegality(t *testing.T) {
	p := newTestPlayer(t, 1)
	ch := NewCharacter(Card{Name: "Costly", Cost: 5, Attack: 400, Defense: 400})
	p.Hand = append(p.Hand, ch)

	p.Energy = 4
	if p.PlayCard(ch) {
		t.Fatal("play must fail when cost exceeds energy")
	}

	p.Energy = 6
	if !p.PlayCard(ch) {
		t.Fatal("expected legal play to succeed")
	}
	if p.Energy != 1 {
		t.Fatalf("expected energy 1 after debit, got %d", p.Energy)
	}
	if len(p.Field) != 1 || p.Field[0] != ch {
		t.Fatal("character must move to field")
	}
	if p.PlayCard(ch) {
		t.Fatal("a character no longer in hand must not be playable")
	}
}

func TestPlayCardRespectsFieldLimit(t *testing.T) {
	p := newTestPlayer(t, 1)
	p.Energy = 10
	for i := 0; i < constants.MaxFieldSize; i++ {
		p.Field = append(p.Field, NewCharacter(Card{Name: "F", Cost: 1, Attack: 100, Defense: 100}))
	}
	ch := NewCharacter(Card{Name: "Extra", Cost: 1, Attack: 100, Defense: 100})
	p.Hand = append(p.Hand, ch)
	if p.PlayCard(ch) {
		t.Fatal("play must fail on a full field")
	}
}

func TestPlayerTakeDamageClampsAtZero(t *testing.T) {
	p := newTestPlayer(t, 1)
	p.TakeDamage(1500)
	if p.LifePoints != 500 {
		t.Fatalf("expected 500 life points, got %d", p.LifePoints)
	}
	p.TakeDamage(9000)
	if p.LifePoints != 0 {
		t.Fatalf("life points must clamp at 0, got %d", p.LifePoints)
	}
	if p.IsAlive() {
		t.Fatal("player at 0 life points must be defeated")
	}
}

func TestRemoveDefeatedMovesToGraveyard(t *testing.T) {
	p := newTestPlayer(t, 1)
	alive := NewCharacter(Card{Name: "A", Cost: 1, Attack: 100, Defense: 100})
	dead := NewCharacter(Card{Name: "D", Cost: 1, Attack: 100, Defense: 100})
	dead.TakeDamage(100)
	p.Field = []*Character{alive, dead}

	if removed := p.RemoveDefeated(); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if len(p.Field) != 1 || p.Field[0] != alive {
		t.Fatal("living character must stay on the field")
	}
	if len(p.Deck.Graveyard) != 1 {
		t.Fatalf("expected 1 card in graveyard, got %d", len(p.Deck.Graveyard))
	}
}
