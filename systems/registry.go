package systems

// Tick phase identifiers, shared by the perf collector and the HUD.
const (
	PhaseUpkeep    = "upkeep"
	PhaseDecide    = "decide"
	PhaseResolve   = "resolve"
	PhaseSpawn     = "spawn"
	PhaseReplenish = "replenish"
	PhaseTelemetry = "telemetry"
)

// SystemInfo describes a tick phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "agents", "environment")
}

// SystemRegistry holds metadata about all tick phases.
// This centralizes phase naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all tick phases in execution order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: PhaseUpkeep, Name: "Upkeep", Description: "Turn cost, ageing and starvation", Category: "agents"})
	r.Register(SystemInfo{ID: PhaseDecide, Name: "Decide", Description: "Genome-weighted neighbour scoring", Category: "agents"})
	r.Register(SystemInfo{ID: PhaseResolve, Name: "Resolve", Description: "Movement, feeding, combat and mating", Category: "agents"})
	r.Register(SystemInfo{ID: PhaseSpawn, Name: "Spawn", Description: "Places queued children next to their parent", Category: "agents"})
	r.Register(SystemInfo{ID: PhaseReplenish, Name: "Replenish", Description: "Random food and poison seeding", Category: "environment"})
	r.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Window stats and event log", Category: "internal"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns phases filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
