package vm

import (
	"slices"
)

// Property is a complete own property.
type Property struct {
	Accessor     bool
	Value        Value // data properties
	Writable     bool  // data properties
	Get          Value // accessor properties
	Set          Value // accessor properties
	Enumerable   bool
	Configurable bool
}

// Descriptor returns p as a complete PropertyDescriptor.
func (p *Property) Descriptor() PropertyDescriptor {
	if p.Accessor {
		return AccessorDescriptor(p.Get, p.Set, p.Enumerable, p.Configurable)
	}
	return DataDescriptor(p.Value, p.Writable, p.Enumerable, p.Configurable)
}

// PropertyStorage holds the ordinary own properties of one object in
// insertion order.
type PropertyStorage struct {
	keys  []PropertyKey
	props map[PropertyKey]*Property
}

// Len reports the number of properties.
func (s *PropertyStorage) Len() int { return len(s.keys) }

// Lookup returns the property for key.
func (s *PropertyStorage) Lookup(key PropertyKey) (*Property, bool) {
	if s.props == nil {
		return nil, false
	}
	p, ok := s.props[key]
	return p, ok
}

// Put inserts or replaces a property. New keys go to the end of the order.
func (s *PropertyStorage) Put(key PropertyKey, p Property) *Property {
	if s.props == nil {
		s.props = make(map[PropertyKey]*Property)
	}
	if existing, ok := s.props[key]; ok {
		*existing = p
		return existing
	}
	stored := &p
	s.props[key] = stored
	s.keys = append(s.keys, key)
	return stored
}

// Remove deletes key and reports whether it was present.
func (s *PropertyStorage) Remove(key PropertyKey) bool {
	if _, ok := s.props[key]; !ok {
		return false
	}
	delete(s.props, key)
	s.keys = slices.DeleteFunc(s.keys, func(k PropertyKey) bool { return k == key })
	return true
}

// Keys returns own keys in [[OwnPropertyKeys]] order: array indices
// ascending, then strings and then symbols in insertion order.
func (s *PropertyStorage) Keys() []PropertyKey {
	out := make([]PropertyKey, 0, len(s.keys))
	var indices []PropertyKey
	for _, k := range s.keys {
		if k.Kind == PKIndex {
			indices = append(indices, k)
		}
	}
	slices.SortFunc(indices, func(x, y PropertyKey) int {
		switch {
		case x.Index < y.Index:
			return -1
		case x.Index > y.Index:
			return 1
		default:
			return 0
		}
	})
	out = append(out, indices...)
	for _, k := range s.keys {
		if k.Kind == PKString {
			out = append(out, k)
		}
	}
	for _, k := range s.keys {
		if k.Kind == PKSymbol {
			out = append(out, k)
		}
	}
	return out
}

// MarkValues implements HeapMarkAndSweep.
func (s *PropertyStorage) MarkValues(q *WorkQueues) {
	for _, k := range s.keys {
		k.MarkValues(q)
		p := s.props[k]
		p.Value.MarkValues(q)
		p.Get.MarkValues(q)
		p.Set.MarkValues(q)
	}
}

// SweepValues implements HeapMarkAndSweep. Symbol keys change identity when
// renumbered, so the index map is rebuilt if any of them moved.
func (s *PropertyStorage) SweepValues(c *CompactionLists) {
	props := make([]*Property, len(s.keys))
	rekey := false
	for i, k := range s.keys {
		p := s.props[k]
		props[i] = p
		p.Value.SweepValues(c)
		p.Get.SweepValues(c)
		p.Set.SweepValues(c)
		if k.Kind == PKSymbol {
			s.keys[i].SweepValues(c)
			rekey = rekey || s.keys[i] != k
		}
	}
	if !rekey {
		return
	}
	s.props = make(map[PropertyKey]*Property, len(s.keys))
	for i, k := range s.keys {
		s.props[k] = props[i]
	}
}
