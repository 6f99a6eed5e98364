package telemetry

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	BirthTick uint64 `json:"birth_tick"`

	// Lineage is the id of the founding agent this one descends from
	// through its initiating parents. Founders are their own lineage.
	Lineage  uint32 `json:"lineage"`
	ParentID uint32 `json:"parent_id,omitempty"`
	Founder  bool   `json:"founder"`

	Children    int   `json:"children"`
	FightsWon   int   `json:"fights_won"`
	FoodEaten   int   `json:"food_eaten"`
	PoisonEaten int   `json:"poison_eaten"`
	PeakEnergy  int32 `json:"peak_energy"`
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// RegisterFounder starts tracking a seeded agent.
func (lt *LifetimeTracker) RegisterFounder(id uint32, birthTick uint64, energy int32) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		Lineage:    id,
		Founder:    true,
		PeakEnergy: energy,
	}
}

// RegisterChild starts tracking a placed child in the given lineage. The
// parent is credited if it is still tracked.
func (lt *LifetimeTracker) RegisterChild(id, parentID, lineage uint32, birthTick uint64, energy int32) {
	if p := lt.stats[parentID]; p != nil {
		p.Children++
	}
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		Lineage:    lineage,
		ParentID:   parentID,
		PeakEnergy: energy,
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes an agent's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordFightWon increments the fight count of the winner.
func (lt *LifetimeTracker) RecordFightWon(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.FightsWon++
	}
}

// RecordFood increments the food count.
func (lt *LifetimeTracker) RecordFood(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.FoodEaten++
	}
}

// RecordPoison increments the poison count.
func (lt *LifetimeTracker) RecordPoison(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.PoisonEaten++
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint32, energy int32) {
	if s := lt.stats[id]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Reset drops every tracked agent.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveLineageCount returns the number of distinct lineages among
// tracked agents.
func (lt *LifetimeTracker) ActiveLineageCount() int {
	seen := make(map[uint32]struct{})
	for _, s := range lt.stats {
		seen[s.Lineage] = struct{}{}
	}
	return len(seen)
}
