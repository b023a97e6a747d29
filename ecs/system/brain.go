package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/prefabs"
)

// BrainCommand is what a zombie brain asks for on one frame.
type BrainCommand string

const (
	BrainNone BrainCommand = ""
	BrainWalk BrainCommand = "walk"
	BrainIdle BrainCommand = "idle"
	// BrainTurn reverses direction and walks.
	BrainTurn BrainCommand = "turn"
)

// BrainInput is the view of a patrolling zombie a brain decides on.
type BrainInput struct {
	State     component.HumanState
	StateTime float64
	Alerted   bool
	NearEdge  bool
	Direction component.Facing
}

// Brain decides the patrol behaviour of non-fighting zombies.
type Brain interface {
	Decide(in BrainInput) (BrainCommand, error)
}

// BuiltinBrain idles, turns around after IdleThreshold and stops near layer
// edges after walking at least MinWalk.
type BuiltinBrain struct {
	IdleThreshold float64
	MinWalk       float64
}

func (b BuiltinBrain) Decide(in BrainInput) (BrainCommand, error) {
	switch in.State {
	case component.StateIdle:
		if in.StateTime > b.IdleThreshold {
			return BrainTurn, nil
		}
	case component.StateWalk:
		if !in.Alerted && in.NearEdge && in.StateTime > b.MinWalk {
			return BrainIdle, nil
		}
	}
	return BrainNone, nil
}

// scriptBrain runs a tengo script defining decide(zombie).
type scriptBrain struct {
	name     string
	compiled *tengo.Compiled
}

const brainDispatchScript = `
__result = decide(__zombie)
`

func newScriptBrain(name string) (*scriptBrain, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + brainDispatchScript))
	_ = script.Add("__zombie", map[string]any{})
	_ = script.Add("__result", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("brain %s: %w", name, err)
	}
	return &scriptBrain{name: name, compiled: compiled}, nil
}

func (b *scriptBrain) Decide(in BrainInput) (BrainCommand, error) {
	zombie := map[string]any{
		"state":      in.State.String(),
		"state_time": in.StateTime,
		"alerted":    in.Alerted,
		"near_edge":  in.NearEdge,
		"direction":  in.Direction.String(),
	}
	if err := b.compiled.Set("__zombie", zombie); err != nil {
		return BrainNone, err
	}
	if err := b.compiled.Set("__result", ""); err != nil {
		return BrainNone, err
	}
	if err := b.compiled.Run(); err != nil {
		return BrainNone, fmt.Errorf("brain %s: %w", b.name, err)
	}
	cmd := BrainCommand(strings.TrimSpace(b.compiled.Get("__result").String()))
	switch cmd {
	case BrainNone, BrainWalk, BrainIdle, BrainTurn:
		return cmd, nil
	}
	return BrainNone, fmt.Errorf("brain %s: unknown command %q", b.name, cmd)
}

// brainRegistry compiles each script once and falls back to the builtin
// brain when a script cannot be loaded or fails to run.
type brainRegistry struct {
	builtin BuiltinBrain
	scripts map[string]Brain
	failed  map[string]bool
}

func newBrainRegistry(builtin BuiltinBrain) *brainRegistry {
	return &brainRegistry{
		builtin: builtin,
		scripts: make(map[string]Brain),
		failed:  make(map[string]bool),
	}
}

func (r *brainRegistry) get(s *Scene, name string) Brain {
	if strings.TrimSpace(name) == "" || r.failed[name] {
		return r.builtin
	}
	if b, ok := r.scripts[name]; ok {
		return b
	}
	b, err := newScriptBrain(name)
	if err != nil {
		s.Log.Warn("zombie brain unavailable, using builtin", "script", name, "error", err)
		r.failed[name] = true
		return r.builtin
	}
	r.scripts[name] = b
	return b
}

// fail retires name until the registry is reset.
func (r *brainRegistry) fail(name string) {
	r.failed[name] = true
	delete(r.scripts, name)
}

// ResetBrains drops compiled scripts so edited files are picked up.
func (s *Scene) ResetBrains() {
	zs := s.Tuning.Zombie
	s.brains = newBrainRegistry(BuiltinBrain{IdleThreshold: zs.IdleThreshold, MinWalk: zs.MinWalk})
}

func (s *Scene) brain(name string) Brain {
	if s.brains == nil {
		s.ResetBrains()
	}
	return s.brains.get(s, name)
}
