package game

import "testing"

func TestTakeDamageClampsAndReturnsActual(t *testing.T) {
	ch := NewCharacter(Card{Name: "Wall", Cost: 3, Attack: 100, Defense: 300})

	if got := ch.TakeDamage(500); got != 300 {
		t.Fatalf("expected actual damage 300, got %d", got)
	}
	if ch.CurrentHealth != 0 {
		t.Fatalf("expected health 0, got %d", ch.CurrentHealth)
	}
	if ch.IsAlive() {
		t.Fatal("character at 0 health must be dead")
	}
	if got := ch.TakeDamage(100); got != 0 {
		t.Fatalf("damage on a dead character must be 0, got %d", got)
	}
}

func TestTakeDamagePartial(t *testing.T) {
	ch := NewCharacter(Card{Name: "Wall", Cost: 3, Attack: 100, Defense: 300})

	if got := ch.TakeDamage(120); got != 120 {
		t.Fatalf("expected actual damage 120, got %d", got)
	}
	if ch.CurrentHealth != 180 {
		t.Fatalf("expected health 180, got %d", ch.CurrentHealth)
	}
	if got := ch.TakeDamage(-50); got != 0 {
		t.Fatalf("negative damage must be a no-op, got %d", got)
	}
}

func TestAddEnergyCapsAtMax(t *testing.T) {
	ch := NewCharacter(Card{Name: "X", Cost: 1, Attack: 100, Defense: 100})
	if ch.Energy != 0 {
		t.Fatalf("characters start with 0 energy, got %d", ch.Energy)
	}
	for i := 0; i < 15; i++ {
		ch.AddEnergy()
	}
	if ch.Energy != 10 {
		t.Fatalf("energy must cap at 10, got %d", ch.Energy)
	}
}

func TestRegenerateHealthOnlyHealsLiving(t *testing.T) {
	ch := NewCharacter(Card{Name: "X", Cost: 1, Attack: 100, Defense: 200})
	ch.TakeDamage(150)
	ch.RegenerateHealth()
	if ch.CurrentHealth != 200 {
		t.Fatalf("expected full regeneration to 200, got %d", ch.CurrentHealth)
	}

	ch.TakeDamage(200)
	ch.RegenerateHealth()
	if ch.CurrentHealth != 0 {
		t.Fatalf("dead characters must not regenerate, got %d", ch.CurrentHealth)
	}
}

func TestResetCombatStats(t *testing.T) {
	ch := NewCharacter(Card{Name: "X", Cost: 1, Attack: 100, Defense: 200})
	ch.CurrentAttack += 150
	ch.CurrentDefense += 50
	ch.ResetCombatStats()
	if ch.CurrentAttack != 100 || ch.CurrentDefense != 200 {
		t.Fatalf("expected base stats 100/200, got %d/%d", ch.CurrentAttack, ch.CurrentDefense)
	}
}
