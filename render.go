package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/world"
)

// groundSamples is the number of segments drawn per layer.
const groundSamples = 24

var kindColors = map[component.ObjectKind]color.RGBA{
	component.KindPlayer: colornames.Crimson,
	component.KindZombie: colornames.Olivedrab,
	component.KindTree:   colornames.Forestgreen,
	component.KindBox:    colornames.Burlywood,
	component.KindItem:   colornames.Gold,
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	switch g.world.Mode() {
	case world.Combat, world.KoAnimation:
		g.drawArena(screen)
		g.drawCombatants(screen)
	default:
		g.drawLevel(screen)
		g.drawObjects(screen)
	}

	g.drawHUD(screen)
}

func (g *Game) drawLevel(screen *ebiten.Image) {
	level := g.world.Level()
	center := level.Center()
	for _, layer := range level.Layers() {
		c := colornames.Dimgray
		if layer.Cell.Row == center.Row {
			c = colornames.Lightgray
		}
		w := layer.Width()
		prevX, prevY := g.camera.ToScreen(layer.Left.X, layer.GroundHeight(layer.Left.X))
		for i := 1; i <= groundSamples; i++ {
			x := layer.Left.X + w*float64(i)/groundSamples
			sx, sy := g.camera.ToScreen(x, layer.GroundHeight(x))
			vector.StrokeLine(screen, prevX, prevY, sx, sy, 2, c, true)
			prevX, prevY = sx, sy
		}
		if g.debug {
			tx, ty := g.camera.ToScreen(layer.Left.X, layer.GroundHeight(layer.Left.X))
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%v %v", layer.Cell, layer.Shape.Kind), int(tx)+2, int(ty)+2)
		}
	}
}

func (g *Game) drawObjects(screen *ebiten.Image) {
	w := g.world
	pobj, ok := ecs.Get(w.ECS(), w.Player(), component.ObjectComponent.Kind())
	if !ok {
		return
	}
	for _, layer := range w.Level().Row(pobj.Cell.Row) {
		for _, e := range layer.Objects() {
			g.drawObject(screen, e)
		}
	}
	for _, row := range []int{pobj.Cell.Row - 1, pobj.Cell.Row + 1} {
		for _, layer := range w.Level().Row(row) {
			for _, e := range layer.Objects() {
				g.drawFaded(screen, e)
			}
		}
	}
	g.drawObject(screen, w.Player())
}

func (g *Game) drawCombatants(screen *ebiten.Image) {
	g.drawObject(screen, g.world.Player())
	if zombie, ok := g.world.Engaged(); ok {
		g.drawObject(screen, zombie)
	}
}

func (g *Game) drawArena(screen *ebiten.Image) {
	arena := g.world.Arena()
	ax, ay := g.camera.ToScreen(arena.Left, arena.GroundY)
	bx, by := g.camera.ToScreen(arena.Right, arena.GroundY)
	vector.StrokeLine(screen, ax, ay, bx, by, 3, colornames.Lightgray, true)
	vector.StrokeLine(screen, ax, ay, ax, ay-200, 2, colornames.Dimgray, true)
	vector.StrokeLine(screen, bx, by, bx, by-200, 2, colornames.Dimgray, true)
}

func (g *Game) drawObject(screen *ebiten.Image, e ecs.Entity) {
	w := g.world
	obj, ok := ecs.Get(w.ECS(), e, component.ObjectComponent.Kind())
	if !ok {
		return
	}
	c := kindColors[obj.Kind]
	if inter, ok := ecs.Get(w.ECS(), e, component.InteractiveComponent.Kind()); ok {
		switch inter.State {
		case component.InteractiveClicked:
			c = colornames.Yellow
		case component.InteractiveHit:
			c = colornames.Orange
		case component.InteractiveScavenged:
			c = colornames.Saddlebrown
		}
	}
	if h, ok := ecs.Get(w.ECS(), e, component.HumanComponent.Kind()); ok {
		switch {
		case h.State == component.StateDead:
			c = colornames.Gray
		case h.State == component.StateHit || h.State == component.StateHitHead:
			c = colornames.White
		case obj.Kind == component.KindZombie && h.State == component.StateAlerted:
			c = colornames.Red
		}
	}
	g.fillCollider(screen, obj.Collider, c)

	if g.debug {
		g.drawDebug(screen, e, obj)
	}
}

func (g *Game) drawFaded(screen *ebiten.Image, e ecs.Entity) {
	obj, ok := ecs.Get(g.world.ECS(), e, component.ObjectComponent.Kind())
	if !ok {
		return
	}
	c := kindColors[obj.Kind]
	c.A = 0x50
	g.fillCollider(screen, obj.Collider, c)
}

func (g *Game) fillCollider(screen *ebiten.Image, col common.Collider, c color.Color) {
	if col.Kind == common.ColliderLine {
		ax, ay := g.camera.ToScreen(col.A().X, col.A().Y)
		bx, by := g.camera.ToScreen(col.B().X, col.B().Y)
		vector.StrokeLine(screen, ax, ay, bx, by, 2, c, true)
		return
	}
	x, y := g.camera.ToScreen(col.Pos.X, col.Pos.Y+col.Height)
	z := float32(g.camera.Zoom())
	vector.FillRect(screen, x, y, float32(col.Width)*z, float32(col.Height)*z, c, true)
}

func (g *Game) strokeCollider(screen *ebiten.Image, col common.Collider, c color.Color) {
	x, y := g.camera.ToScreen(col.Pos.X, col.Pos.Y+col.Height)
	z := float32(g.camera.Zoom())
	vector.StrokeRect(screen, x, y, float32(col.Width)*z, float32(col.Height)*z, 1, c, true)
}

func (g *Game) drawDebug(screen *ebiten.Image, e ecs.Entity, obj *component.Object) {
	w := g.world
	g.strokeCollider(screen, obj.Collider, colornames.Cyan)
	label := obj.Kind.String()
	if h, ok := ecs.Get(w.ECS(), e, component.HumanComponent.Kind()); ok {
		label = fmt.Sprintf("%s %s", label, h.State)
	}
	if z, ok := ecs.Get(w.ECS(), e, component.ZombieComponent.Kind()); ok {
		g.strokeCollider(screen, z.ArmCollider, colornames.Magenta)
	}
	x, y := g.camera.ToScreen(obj.Collider.Pos.X, obj.Collider.Pos.Y+obj.Collider.Height)
	ebitenutil.DebugPrintAt(screen, label, int(x), int(y)-16)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := g.world
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.0f  Mode: %v", ebiten.ActualFPS(), w.Mode())
	if obj, ok := ecs.Get(w.ECS(), w.Player(), component.ObjectComponent.Kind()); ok {
		fmt.Fprintf(&b, "  Cell: %v", obj.Cell)
	}
	if stats, ok := ecs.Get(w.ECS(), w.Player(), component.CombatStatsComponent.Kind()); ok {
		fmt.Fprintf(&b, "  Health: %.0f/%.0f", stats.Health, stats.MaxHealth)
	}
	if inv, ok := ecs.Get(w.ECS(), w.Player(), component.InventoryComponent.Kind()); ok {
		b.WriteString("\n")
		for k := loot.ItemKind(0); k < loot.ItemKindCount; k++ {
			fmt.Fprintf(&b, "%s:%d ", k, inv.Items[k])
		}
	}
	b.WriteString("\nA/D walk  W jump  S fall  J attack  K fire  1-3 eat  click scavenge")
	ebitenutil.DebugPrint(screen, b.String())

	switch w.Mode() {
	case world.VersusAnimation:
		ebitenutil.DebugPrintAt(screen, "VERSUS", baseWidth/2-20, baseHeight/2)
	case world.KoAnimation:
		ebitenutil.DebugPrintAt(screen, "K.O.", baseWidth/2-12, baseHeight/2)
	case world.GameOver:
		ebitenutil.DebugPrintAt(screen, "GAME OVER", baseWidth/2-28, baseHeight/2)
	}
}
