package ecs

import (
	"errors"
	"testing"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should return false")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestSlotReuseInvalidatesStaleHandles(t *testing.T) {
	w := NewWorld()
	kind := NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot %d to be reused, got %d", old.id(), fresh.id())
	}
	if fresh == old {
		t.Fatalf("reused slot must carry a new generation")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle reported alive")
	}
	if _, ok := Get(w, fresh, kind); ok {
		t.Fatalf("components of the destroyed entity leaked into the reused slot")
	}
	if err := Add(w, old, kind, intPtr(2)); !errors.Is(err, ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()

	h1 := NewComponent[int]()
	h2 := NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
				*v = 11
				again, _ := Get(w, e1, h1.Kind())
				if *again != 11 {
					t.Fatalf("expected Get to return the stored pointer")
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				if Count(w, h2.Kind()) != 2 {
					t.Fatalf("expected count 2, got %d", Count(w, h2.Kind()))
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := Add[int](w, e1, h1.Kind(), nil); !errors.Is(err, ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := Add(w, e1, ComponentKind[int]{}, intPtr(1)); !errors.Is(err, ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	seen := map[Entity]bool{}
	ForEach(w, h.Kind(), func(e Entity, _ *int) {
		seen[e] = true
		// destroying during the walk must not break iteration
		DestroyEntity(w, e3)
	})

	if !seen[e1] {
		t.Fatalf("expected e1 in ForEach result")
	}
	if seen[e2] {
		t.Fatalf("did not expect e2 in ForEach result")
	}
	if len(seen) != 1 {
		t.Fatalf("expected e3 to be skipped after destruction, got %v", seen)
	}
}

func TestForEach2(t *testing.T) {
	w := NewWorld()
	ka := NewComponentKind[int]()
	kb := NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	_ = Add(w, e1, ka, intPtr(1))
	_ = Add(w, e2, ka, intPtr(2))
	_ = Add(w, e2, kb, stringPtr("two"))
	_ = Add(w, e3, kb, stringPtr("three"))

	var res []Entity
	ForEach2(w, ka, kb, func(e Entity, i *int, s *string) {
		if *i != 2 || *s != "two" {
			t.Fatalf("unexpected values %d %q", *i, *s)
		}
		res = append(res, e)
	})
	if len(res) != 1 || res[0] != e2 {
		t.Fatalf("expected only e2, got %v", res)
	}

	if e, ok := First(w, kb); !ok || (e != e2 && e != e3) {
		t.Fatalf("First returned %v ok=%v", e, ok)
	}
	if _, ok := First(w, NewComponentKind[float64]()); ok {
		t.Fatalf("First on an empty store should fail")
	}
}

func TestSchedulerStopsAtFirstError(t *testing.T) {
	w := NewWorld()
	boom := errors.New("boom")
	var ran []string
	s := NewScheduler(
		SystemFunc(func(*World, float64) error { ran = append(ran, "a"); return nil }),
		SystemFunc(func(*World, float64) error { ran = append(ran, "b"); return boom }),
	)
	s.Add(SystemFunc(func(*World, float64) error { ran = append(ran, "c"); return nil }))

	if err := s.Update(w, 0.016); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(ran) != 2 {
		t.Fatalf("expected two systems to run, got %v", ran)
	}
}
