package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
)

// Registry owns agent lifecycle. Agents are ECS entities carrying
// Position, Energy, Organism and Genes; the registry keeps the mapping from
// the sequential agent ID to the entity.
//
// IDs are handed out monotonically and never reused, even after removal.
// Component pointers obtained from the ECS are never retained across calls
// because removals can relocate storage.
type Registry struct {
	world *ecs.World

	mapper *ecs.Map4[
		components.Position,
		components.Energy,
		components.Organism,
		components.Genes,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Energy,
		components.Organism,
		components.Genes,
	]

	posMap    *ecs.Map1[components.Position]
	energyMap *ecs.Map1[components.Energy]
	orgMap    *ecs.Map1[components.Organism]

	entities map[uint32]ecs.Entity
	nextID   uint32
}

// NewRegistry creates an empty registry backed by its own ECS world.
func NewRegistry() *Registry {
	world := ecs.NewWorld()
	return &Registry{
		world: world,
		mapper: ecs.NewMap4[
			components.Position,
			components.Energy,
			components.Organism,
			components.Genes,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Energy,
			components.Organism,
			components.Genes,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		energyMap: ecs.NewMap1[components.Energy](world),
		orgMap:    ecs.NewMap1[components.Organism](world),
		entities:  make(map[uint32]ecs.Entity),
	}
}

// Insert creates an agent at (x, y) with age 0 and returns its new ID.
func (r *Registry) Insert(x, y uint32, energy int32, gender components.Gender, g genome.Genome) uint32 {
	id := r.nextID
	r.nextID++

	pos := components.Position{X: x, Y: y}
	en := components.Energy{Value: energy}
	org := components.Organism{ID: id, Gender: gender}
	genes := components.Genes{Genome: g}

	r.entities[id] = r.mapper.NewEntity(&pos, &en, &org, &genes)
	return id
}

// Get returns an owned copy of the agent.
func (r *Registry) Get(id uint32) (components.Agent, bool) {
	e, ok := r.entities[id]
	if !ok {
		return components.Agent{}, false
	}
	pos, en, org, genes := r.mapper.Get(e)
	return components.Join(pos, en, org, genes), true
}

// Put writes back position, energy and age of an existing agent.
// Identity, gender and genome are immutable and ignored.
func (r *Registry) Put(a components.Agent) bool {
	e, ok := r.entities[a.ID]
	if !ok {
		return false
	}
	pos := r.posMap.Get(e)
	pos.X, pos.Y = a.X, a.Y
	en := r.energyMap.Get(e)
	en.Value = a.Energy
	en.Age = a.Age
	return true
}

// Energy returns the live energy of an agent.
func (r *Registry) Energy(id uint32) (int32, bool) {
	e, ok := r.entities[id]
	if !ok {
		return 0, false
	}
	return r.energyMap.Get(e).Value, true
}

// AddEnergy adjusts the live energy of an agent and returns the new value.
func (r *Registry) AddEnergy(id uint32, delta int32) (int32, bool) {
	e, ok := r.entities[id]
	if !ok {
		return 0, false
	}
	en := r.energyMap.Get(e)
	en.Value += delta
	return en.Value, true
}

// Gender returns the gender of an agent.
func (r *Registry) Gender(id uint32) (components.Gender, bool) {
	e, ok := r.entities[id]
	if !ok {
		return components.Male, false
	}
	return r.orgMap.Get(e).Gender, true
}

// Position returns the grid cell of an agent.
func (r *Registry) Position(id uint32) (Coord, bool) {
	e, ok := r.entities[id]
	if !ok {
		return Coord{}, false
	}
	pos := r.posMap.Get(e)
	return Coord{X: pos.X, Y: pos.Y}, true
}

// Alive reports whether id refers to a live agent.
func (r *Registry) Alive(id uint32) bool {
	_, ok := r.entities[id]
	return ok
}

// Remove destroys an agent and its entity. Returns false if it was
// already gone.
func (r *Registry) Remove(id uint32) bool {
	e, ok := r.entities[id]
	if !ok {
		return false
	}
	r.world.RemoveEntity(e)
	delete(r.entities, id)
	return true
}

// Len returns the number of live agents.
func (r *Registry) Len() int {
	return len(r.entities)
}

// NextID returns the ID the next inserted agent will receive.
func (r *Registry) NextID() uint32 {
	return r.nextID
}

// IDs returns a point-in-time snapshot of live IDs in ascending order.
// Later insertions and removals do not affect the returned slice.
func (r *Registry) IDs() []uint32 {
	ids := make([]uint32, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Each calls fn with a copy of every live agent, in storage order.
// fn must not insert or remove agents.
func (r *Registry) Each(fn func(a components.Agent)) {
	query := r.filter.Query()
	for query.Next() {
		pos, en, org, genes := query.Get()
		fn(components.Join(pos, en, org, genes))
	}
}
