package system

import (
	"testing"

	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/terrain"
)

// engageForTest puts the player and a fresh zombie into combat mode facing
// each other, without the orchestrator.
func engageForTest(t *testing.T, s *Scene, zx float64) ecs.Entity {
	t.Helper()
	z := addZombie(t, s, terrain.Cell{}, zx, component.Left)
	get(t, s, z, component.HumanComponent).Mode = component.Combat
	get(t, s, s.Player, component.HumanComponent).Mode = component.Combat
	get(t, s, s.Player, component.PlayerComponent).Engaged = z
	return z
}

func TestFireSpendsAmmoAndHits(t *testing.T) {
	s := newTestScene(t, nil)
	z := engageForTest(t, s, 3)
	inv := get(t, s, s.Player, component.InventoryComponent)
	ammo := inv.Items[loot.Ammo]

	if !s.Fire() {
		t.Fatalf("Fire refused")
	}
	if inv.Items[loot.Ammo] != ammo-1 {
		t.Fatalf("expected %d ammo, got %d", ammo-1, inv.Items[loot.Ammo])
	}
	stats := get(t, s, z, component.CombatStatsComponent)
	if want := stats.MaxHealth - s.Tuning.Player.FireDamage; stats.Health != want {
		t.Fatalf("zombie health %v, want %v", stats.Health, want)
	}
	if s.Fire() {
		t.Fatalf("cannot fire again while the shot plays")
	}

	run(t, s, NewPlayerSystem(s), 50, 0.01)
	if h := get(t, s, s.Player, component.HumanComponent); h.State != component.StateIdle {
		t.Fatalf("fire should end in idle, got %v", h.State)
	}
}

func TestFireWithoutAmmoRefused(t *testing.T) {
	s := newTestScene(t, nil)
	engageForTest(t, s, 3)
	get(t, s, s.Player, component.InventoryComponent).Items[loot.Ammo] = 0
	if s.Fire() {
		t.Fatalf("fire without ammo must be refused")
	}
	if h := get(t, s, s.Player, component.HumanComponent); h.State != component.StateIdle {
		t.Fatalf("refused fire changed state to %v", h.State)
	}
}

func TestAttackNeedsCombat(t *testing.T) {
	s := newTestScene(t, nil)
	if s.Attack() {
		t.Fatalf("attack outside combat must be refused")
	}
	engageForTest(t, s, 3)
	if !s.Attack() {
		t.Fatalf("Attack refused")
	}
	if h := get(t, s, s.Player, component.HumanComponent); h.State != component.StateMelee {
		t.Fatalf("expected melee, got %v", h.State)
	}
}

func TestMeleeHitsOnce(t *testing.T) {
	s := newTestScene(t, nil)
	z := engageForTest(t, s, 1)
	s.Attack()
	run(t, s, NewPlayerSystem(s), 60, 0.01)

	stats := get(t, s, z, component.CombatStatsComponent)
	if want := stats.MaxHealth - s.Tuning.Player.MeleeDamage; stats.Health != want {
		t.Fatalf("zombie health %v, want %v", stats.Health, want)
	}
}

func TestConsumeHeals(t *testing.T) {
	s := newTestScene(t, nil)
	stats := get(t, s, s.Player, component.CombatStatsComponent)
	inv := get(t, s, s.Player, component.InventoryComponent)
	inv.Items.Add(loot.Item{Kind: loot.Food, Quantity: 1})
	inv.Items.Add(loot.Item{Kind: loot.Wood, Quantity: 1})

	if s.Consume(loot.Food) {
		t.Fatalf("consuming at full health must be refused")
	}
	stats.Health = 50
	if s.Consume(loot.Wood) {
		t.Fatalf("wood does not heal")
	}
	if !s.Consume(loot.Food) {
		t.Fatalf("Consume refused")
	}
	if want := 50 + s.Tuning.Items.Heal(loot.Food); stats.Health != want {
		t.Fatalf("health %v, want %v", stats.Health, want)
	}
	if inv.Items[loot.Food] != 0 {
		t.Fatalf("food not spent")
	}
	if s.Consume(loot.Food) {
		t.Fatalf("no food left")
	}
}
