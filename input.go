package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/world"
)

// Input polls keyboard and mouse once per frame and forwards the requests to
// the world. Requests the world refuses are dropped.
type Input struct {
	camera *Camera
	// moveX is -1 for left, 0 for none, +1 for right.
	moveX int
}

func NewInput(camera *Camera) *Input {
	return &Input{camera: camera}
}

// consumables maps number keys to the items they use.
var consumables = map[ebiten.Key]loot.ItemKind{
	ebiten.Key1: loot.Food,
	ebiten.Key2: loot.Water,
	ebiten.Key3: loot.Medkit,
}

func (i *Input) Update(w *world.World) {
	player := w.Player()

	moveX := 0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX++
	}
	switch {
	case moveX == 0 && i.moveX != 0:
		w.StopMoving(player)
	case moveX != 0:
		dir := component.FacingOf(float64(moveX))
		if h, ok := ecs.Get(w.ECS(), player, component.HumanComponent.Kind()); ok && (h.State != component.StateWalk || h.Direction != dir || h.Target != 0) {
			w.Walk(player, dir)
		}
	}
	i.moveX = moveX

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		w.Jump()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) || inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		w.Fall()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyJ) {
		w.Attack()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		w.Fire()
	}
	for key, kind := range consumables {
		if inpututil.IsKeyJustPressed(key) {
			w.Consume(kind)
		}
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := i.camera.ToWorld(ebiten.CursorPosition())
		w.TouchUp(x, y)
	}
}
