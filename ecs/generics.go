package ecs

// Add attaches or replaces the component of the given kind on e.
func Add[T any](w *World, e Entity, kind ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return ErrInvalidComponentKind
	}
	if value == nil {
		return ErrNilComponent
	}
	if !IsAlive(w, e) {
		return ErrEntityNotAlive
	}
	w.store(kind.ID(), true).set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, kind ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).remove(e)
}

func Has[T any](w *World, e Entity, kind ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).has(e)
}

// Get returns the stored pointer, so mutations are visible without a write
// back.
func Get[T any](w *World, e Entity, kind ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).get(e)
	if !ok {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok
}

// ForEach visits every entity holding kind. The entity list is snapshotted
// first; entities destroyed during the walk are skipped.
func ForEach[T any](w *World, kind ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.store(kind.ID(), false).snapshot() {
		if v, ok := Get(w, e, kind); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities holding both kinds.
func ForEach2[A, B any](w *World, ka ComponentKind[A], kb ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb := w.store(ka.ID(), false), w.store(kb.ID(), false)
	if sb.len() < sa.len() {
		for _, e := range sb.snapshot() {
			a, okA := Get(w, e, ka)
			b, okB := Get(w, e, kb)
			if okA && okB {
				fn(e, a, b)
			}
		}
		return
	}
	for _, e := range sa.snapshot() {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// First returns any entity holding kind.
func First[T any](w *World, kind ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.store(kind.ID(), false)
	if s.len() == 0 {
		return 0, false
	}
	return s.dense[0], true
}

// Count returns the number of entities holding kind.
func Count[T any](w *World, kind ComponentKind[T]) int {
	if w == nil {
		return 0
	}
	return w.store(kind.ID(), false).len()
}
