package world

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/metrics"
	"github.com/milk9111/scavenger/prefabs"
	"github.com/milk9111/scavenger/profile"
	"github.com/milk9111/scavenger/terrain"
	"github.com/prometheus/client_golang/prometheus"
)

// newTestWorld builds a flat, empty world with auto-acknowledged spawns.
func newTestWorld(t *testing.T, opts Options) *World {
	t.Helper()
	if opts.Tuning == nil {
		tuning := prefabs.MustLoadTuning().Clone()
		tuning.World.Population = prefabs.PopulationSpec{}
		opts.Tuning = tuning
	}
	if opts.Generator == nil {
		opts.Generator = terrain.FlatGenerator{RowHeight: opts.Tuning.World.RowHeight}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	opts.AutoAcknowledgeSpawn = true
	w, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func step(t *testing.T, w *World, frames int) {
	t.Helper()
	for i := range frames {
		if err := w.Update(0.01); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
}

// stepUntil runs frames until cond holds, failing after limit frames.
func stepUntil(t *testing.T, w *World, limit int, cond func() bool) {
	t.Helper()
	for range limit {
		if cond() {
			return
		}
		step(t, w, 1)
	}
	if !cond() {
		t.Fatalf("condition not reached after %d frames (mode %v)", limit, w.Mode())
	}
}

func getC[T any](t *testing.T, w *World, e ecs.Entity, h ecs.ComponentHandle[T]) *T {
	t.Helper()
	v, ok := ecs.Get(w.ECS(), e, h.Kind())
	if !ok {
		t.Fatalf("entity %v has no %T", e, *new(T))
	}
	return v
}

func spawnZombie(t *testing.T, w *World, cell terrain.Cell, x float64, dir component.Facing) ecs.Entity {
	t.Helper()
	layer, err := w.Level().LayerAt(cell)
	if err != nil {
		t.Fatalf("LayerAt: %v", err)
	}
	return w.Scene().SpawnZombie(layer, uuid.New(), x, dir)
}

// fight runs the world until the player engages a zombie approaching from
// the right and the versus animation finished.
func fight(t *testing.T, w *World) ecs.Entity {
	t.Helper()
	z := spawnZombie(t, w, terrain.Cell{Col: 1}, 2.5, component.Left)
	stepUntil(t, w, 300, func() bool { return w.Mode() == VersusAnimation })
	if !w.AnimationFinished() || w.Mode() != Combat {
		t.Fatalf("expected combat, got %v", w.Mode())
	}
	return z
}

func TestNewDefaults(t *testing.T) {
	w, err := New(Options{Seed: 7, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.Mode() != Exploring {
		t.Fatalf("expected exploring, got %v", w.Mode())
	}
	if w.Profile().Seed() != 7 {
		t.Fatalf("seed %d", w.Profile().Seed())
	}
	obj := getC(t, w, w.Player(), component.ObjectComponent)
	if obj.Cell != (terrain.Cell{}) || w.Level().Center() != obj.Cell {
		t.Fatalf("player cell %v, center %v", obj.Cell, w.Level().Center())
	}
	if h := getC(t, w, w.Player(), component.HumanComponent); h.State != component.StateSpawn {
		t.Fatalf("player should wait for its spawn animation, got %v", h.State)
	}
	if n := len(w.Level().Layers()); n != 6 {
		t.Fatalf("expected 6 layers in the window, got %d", n)
	}
	if _, ok := w.Engaged(); ok {
		t.Fatalf("no zombie should be engaged")
	}
}

func TestNewResumesLastCell(t *testing.T) {
	prof := profile.NewMemory(3)
	if err := prof.SaveCell(1, 4); err != nil {
		t.Fatalf("SaveCell: %v", err)
	}
	w := newTestWorld(t, Options{Profile: prof})
	obj := getC(t, w, w.Player(), component.ObjectComponent)
	if obj.Cell != (terrain.Cell{Row: 1, Col: 4}) {
		t.Fatalf("expected cell (1,4), got %v", obj.Cell)
	}
	if obj.Position.X != 16 || obj.Position.Y != 1.5 {
		t.Fatalf("expected the player at (16, 1.5), got %v", obj.Position)
	}
}

func TestWalkThroughWorld(t *testing.T) {
	w := newTestWorld(t, Options{})
	step(t, w, 1)
	if !w.Walk(w.Player(), component.Right) {
		t.Fatalf("Walk refused")
	}
	step(t, w, 50)
	obj := getC(t, w, w.Player(), component.ObjectComponent)
	if math.Abs(obj.Position.X-3) > 1e-9 || obj.Cell != (terrain.Cell{Col: 1}) {
		t.Fatalf("expected x=3 in (0,1), got %v in %v", obj.Position.X, obj.Cell)
	}
	if !w.StopMoving(w.Player()) {
		t.Fatalf("StopMoving refused")
	}
}

func TestNegativeDeltaIsClamped(t *testing.T) {
	w := newTestWorld(t, Options{})
	step(t, w, 1)
	w.Walk(w.Player(), component.Right)
	if err := w.Update(-1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if x := getC(t, w, w.Player(), component.ObjectComponent).Position.X; x != 0 {
		t.Fatalf("negative dt moved the player to %v", x)
	}
}

func TestCombatRoundTrip(t *testing.T) {
	w := newTestWorld(t, Options{})
	z := spawnZombie(t, w, terrain.Cell{Col: 1}, 2.5, component.Left)
	stepUntil(t, w, 300, func() bool { return w.Mode() == VersusAnimation })

	p := getC(t, w, w.Player(), component.PlayerComponent)
	if p.Engaged != z {
		t.Fatalf("engaged %v, want %v", p.Engaged, z)
	}
	saved := p.SavedPosition
	pobj := getC(t, w, w.Player(), component.ObjectComponent)
	zobj := getC(t, w, z, component.ObjectComponent)

	// Frozen while the versus animation plays.
	zx := zobj.Position.X
	step(t, w, 10)
	if zobj.Position.X != zx || w.Walk(w.Player(), component.Left) {
		t.Fatalf("simulation must be frozen during the versus animation")
	}

	if !w.AnimationFinished() || w.Mode() != Combat {
		t.Fatalf("expected combat, got %v", w.Mode())
	}
	arena := w.Tuning().World.Arena
	mid := (arena.Left + arena.Right) / 2
	if pobj.Position.X != mid-arena.Gap/2 || zobj.Position.X != mid+arena.Gap/2 {
		t.Fatalf("combatants at %v and %v", pobj.Position.X, zobj.Position.X)
	}
	ph := getC(t, w, w.Player(), component.HumanComponent)
	zh := getC(t, w, z, component.HumanComponent)
	if ph.Direction != component.Right || zh.Direction != component.Left {
		t.Fatalf("combatants should face each other")
	}
	if _, ok := w.TouchUp(zobj.Position.X, 0.5); ok || w.SetTarget(w.Player(), z) {
		t.Fatalf("targets are exploring only")
	}

	zobj.Position.X = pobj.Position.X + 0.8
	zobj.Snap()
	getC(t, w, z, component.CombatStatsComponent).Health = 10
	if !w.Attack() {
		t.Fatalf("Attack refused")
	}
	stepUntil(t, w, 100, func() bool { return w.Mode() == KoAnimation })
	if ph.State != component.StateWin {
		t.Fatalf("winner should celebrate, got %v", ph.State)
	}

	if !w.AnimationFinished() || w.Mode() != Exploring {
		t.Fatalf("expected exploring, got %v", w.Mode())
	}
	if pobj.Position != saved || ph.Mode != component.Exploring || ph.State != component.StateIdle {
		t.Fatalf("player not restored: %v %v %v", pobj.Position, ph.Mode, ph.State)
	}
	if ecs.IsAlive(w.ECS(), z) {
		t.Fatalf("defeated zombie should be removed")
	}
	if _, ok := w.Engaged(); ok {
		t.Fatalf("no zombie should be engaged after the fight")
	}
}

func TestEngageAbortsChop(t *testing.T) {
	w := newTestWorld(t, Options{})
	step(t, w, 1)
	layer, err := w.Level().LayerAt(terrain.Cell{})
	if err != nil {
		t.Fatalf("LayerAt: %v", err)
	}
	tree := w.Scene().SpawnInteractive(layer, component.KindTree, uuid.New(), 0.5)
	step(t, w, 1)
	if !w.SetTarget(w.Player(), tree) {
		t.Fatalf("SetTarget refused")
	}
	ph := getC(t, w, w.Player(), component.HumanComponent)
	stepUntil(t, w, 20, func() bool { return ph.State == component.StateChopTree })

	z := spawnZombie(t, w, terrain.Cell{Col: 1}, 2.5, component.Left)
	w.engage(z)
	if w.Mode() != VersusAnimation {
		t.Fatalf("expected versus animation, got %v", w.Mode())
	}
	if st := getC(t, w, tree, component.InteractiveComponent).State; st != component.InteractiveIdle {
		t.Fatalf("tree should be idle after the chop was cut short, got %v", st)
	}
	if ph.Target != 0 {
		t.Fatalf("player kept target %v", ph.Target)
	}
}

func TestPlayerKnockoutEndsGame(t *testing.T) {
	w := newTestWorld(t, Options{})
	fight(t, w)
	getC(t, w, w.Player(), component.CombatStatsComponent).Health = 0
	step(t, w, 1)
	if w.Mode() != KoAnimation {
		t.Fatalf("expected the knockout animation, got %v", w.Mode())
	}
	if !w.AnimationFinished() || w.Mode() != GameOver {
		t.Fatalf("expected game over, got %v", w.Mode())
	}
	step(t, w, 5)
	if w.Mode() != GameOver || w.Walk(w.Player(), component.Left) || w.AnimationFinished() {
		t.Fatalf("game over is final")
	}
}

func TestChargeHitsPlayerOnce(t *testing.T) {
	w := newTestWorld(t, Options{})
	fight(t, w)
	step(t, w, 350)

	stats := getC(t, w, w.Player(), component.CombatStatsComponent)
	want := stats.MaxHealth - w.Tuning().Zombie.ChargeDamage
	if stats.Health != want {
		t.Fatalf("player health %v, want %v", stats.Health, want)
	}
	if w.Mode() != Combat {
		t.Fatalf("fight should go on, got %v", w.Mode())
	}
}

func TestStompBouncesPlayer(t *testing.T) {
	w := newTestWorld(t, Options{})
	z := fight(t, w)
	pobj := getC(t, w, w.Player(), component.ObjectComponent)
	zobj := getC(t, w, z, component.ObjectComponent)
	zobj.Position.X = pobj.Position.X
	zobj.Snap()
	if !w.Jump() {
		t.Fatalf("Jump refused")
	}

	zstats := getC(t, w, z, component.CombatStatsComponent)
	stepUntil(t, w, 100, func() bool { return zstats.Health < zstats.MaxHealth })
	if want := zstats.MaxHealth - w.Tuning().Player.StompDamage; zstats.Health != want {
		t.Fatalf("zombie health %v, want %v", zstats.Health, want)
	}
	if zh := getC(t, w, z, component.HumanComponent); zh.State != component.StateHitHead {
		t.Fatalf("expected a head hit, got %v", zh.State)
	}
	if v := getC(t, w, w.Player(), component.MobilityComponent).Velocity.Y; v <= 0 {
		t.Fatalf("player should bounce, vy=%v", v)
	}
}

func TestScavengedObjectsStayScavenged(t *testing.T) {
	prof := profile.NewMemory(11)
	logger := log.New(io.Discard)
	w, err := New(Options{Profile: prof, Logger: logger})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var id uuid.UUID
	for _, e := range ecs.Entities(w.ECS()) {
		if _, ok := ecs.Get(w.ECS(), e, component.InteractiveComponent.Kind()); ok {
			id = getC(t, w, e, component.ObjectComponent).ID
			break
		}
	}
	if id == uuid.Nil {
		t.Skip("no interactive object generated for this seed")
	}
	if err := prof.MarkScavenged(id.String()); err != nil {
		t.Fatalf("MarkScavenged: %v", err)
	}

	again, err := New(Options{Profile: prof, Logger: logger})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	found := false
	for _, e := range ecs.Entities(again.ECS()) {
		obj, ok := ecs.Get(again.ECS(), e, component.ObjectComponent.Kind())
		if !ok || obj.ID != id {
			continue
		}
		found = true
		if inter := getC(t, again, e, component.InteractiveComponent); inter.State != component.InteractiveScavenged {
			t.Fatalf("object should come back scavenged, got %v", inter.State)
		}
	}
	if !found {
		t.Fatalf("object %v was not regenerated", id)
	}
}

func TestAnimationFinishedIgnoredWhileExploring(t *testing.T) {
	w := newTestWorld(t, Options{})
	if w.AnimationFinished() {
		t.Fatalf("no animation is pending")
	}
	if w.Attack() || w.Fire() {
		t.Fatalf("combat commands are refused while exploring")
	}
}

func TestSetTuning(t *testing.T) {
	w := newTestWorld(t, Options{})

	geometry := w.Tuning().Clone()
	geometry.World.LayerWidth = 5
	if err := w.SetTuning(geometry); err == nil {
		t.Fatalf("layer geometry changes must be refused")
	}

	invalid := w.Tuning().Clone()
	invalid.Player.MaxHealth = 0
	if err := w.SetTuning(invalid); err == nil {
		t.Fatalf("invalid tuning must be refused")
	}

	faster := w.Tuning().Clone()
	faster.Player.WalkSpeed = 8
	if err := w.SetTuning(faster); err != nil {
		t.Fatalf("SetTuning: %v", err)
	}
	if w.Tuning() != faster {
		t.Fatalf("tuning not swapped")
	}
	if err := w.SetTuning(nil); err == nil {
		t.Fatalf("nil tuning must be refused")
	}
}

func TestMetricsRecordFrames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	w := newTestWorld(t, Options{Metrics: m})
	step(t, w, 5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "scavenger_frames_total" {
			if v := f.GetMetric()[0].GetCounter().GetValue(); v != 5 {
				t.Fatalf("frames %v, want 5", v)
			}
			return
		}
	}
	t.Fatalf("frames counter not registered")
}
