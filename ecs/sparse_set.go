package ecs

// sparseSet is a cache-friendly storage for one component kind keyed by
// entity slot. Values are stored as `any`; the typed helpers in generics.go
// do the casting.
type sparseSet struct {
	dense  []Entity
	values []any
	sparse []int
}

func (s *sparseSet) has(e Entity) bool {
	id := int(e.id())
	if s == nil || id <= 0 || id-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == e
}

func (s *sparseSet) get(e Entity) (any, bool) {
	if !s.has(e) {
		return nil, false
	}
	return s.values[s.sparse[int(e.id())-1]], true
}

func (s *sparseSet) set(e Entity, v any) {
	id := int(e.id())
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if idx := s.sparse[id-1]; idx >= 0 && idx < len(s.dense) && s.dense[idx].id() == e.id() {
		// slot reused by a newer generation or plain overwrite
		s.dense[idx] = e
		s.values[idx] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *sparseSet) remove(e Entity) bool {
	if !s.has(e) {
		return false
	}
	id := int(e.id())
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[int(moved.id())-1] = idx

	s.dense = s.dense[:last]
	s.values[last] = nil
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

// snapshot copies the dense entity list so callers may mutate the set while
// iterating.
func (s *sparseSet) snapshot() []Entity {
	if s == nil || len(s.dense) == 0 {
		return nil
	}
	out := make([]Entity, len(s.dense))
	copy(out, s.dense)
	return out
}

func (s *sparseSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}
