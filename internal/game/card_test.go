package game

import "testing"

func TestCardValidate(t *testing.T) {
	good := Card{Name: "Gojo", Variant: "Limitless", Cost: 5, Attack: 600, Defense: 400}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []Card{
		{Name: "", Cost: 1, Attack: 100, Defense: 100},
		{Name: "X", Cost: 0, Attack: 100, Defense: 100},
		{Name: "X", Cost: 8, Attack: 100, Defense: 100},
		{Name: "X", Cost: 1, Attack: -1, Defense: 100},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", c)
		}
	}
}

func TestCardNormalizeDefaults(t *testing.T) {
	c := Card{Name: "Yuji", Cost: 2, Attack: 200, Defense: 150, UltimateCost: 9}
	n := c.Normalize()
	if n.Variant != "Standard" {
		t.Fatalf("expected variant Standard, got %q", n.Variant)
	}
	if n.UltimateCost != 1 {
		t.Fatalf("expected ultimate cost 1, got %d", n.UltimateCost)
	}
	if n.Key() != "Yuji (Standard)" {
		t.Fatalf("unexpected key %q", n.Key())
	}
}
