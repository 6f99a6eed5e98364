// Package systems provides the grid, occupancy index, agent registry and
// per-agent behaviour used by the simulation.
package systems

// SpatialIndex maps occupied coordinates to agent IDs. It is the single
// source of truth for "who is where".
//
// The index does not police its own invariant: callers must remove an
// occupant before inserting another at the same coordinate.
type SpatialIndex struct {
	occupants map[Coord]uint32
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{occupants: make(map[Coord]uint32)}
}

// Lookup returns the agent at c, if any.
func (s *SpatialIndex) Lookup(c Coord) (uint32, bool) {
	id, ok := s.occupants[c]
	return id, ok
}

// Occupied reports whether any agent stands at c.
func (s *SpatialIndex) Occupied(c Coord) bool {
	_, ok := s.occupants[c]
	return ok
}

// Insert records id at c.
func (s *SpatialIndex) Insert(c Coord, id uint32) {
	s.occupants[c] = id
}

// Remove clears c.
func (s *SpatialIndex) Remove(c Coord) {
	delete(s.occupants, c)
}

// Move relocates the occupant of from to to.
func (s *SpatialIndex) Move(from, to Coord, id uint32) {
	delete(s.occupants, from)
	s.occupants[to] = id
}

// Len returns the number of occupied cells.
func (s *SpatialIndex) Len() int {
	return len(s.occupants)
}

// Each calls fn for every occupied coordinate in unspecified order.
func (s *SpatialIndex) Each(fn func(c Coord, id uint32)) {
	for c, id := range s.occupants {
		fn(c, id)
	}
}
