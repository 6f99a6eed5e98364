// Package telemetry provides window statistics, tick timing, bookmarks,
// CSV output and the compressed per-tick event log.
package telemetry

import "fmt"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
	EventFight
	EventMating
	EventFeed
	EventChildDropped
)

// String returns the event name used in the event log.
func (t EventType) String() string {
	switch t {
	case EventBirth:
		return "birth"
	case EventDeath:
		return "death"
	case EventFight:
		return "fight"
	case EventMating:
		return "mating"
	case EventFeed:
		return "feed"
	case EventChildDropped:
		return "child_dropped"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// MarshalText renders the type by name so JSON lines stay readable.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// DeathCause records why an agent was removed.
type DeathCause uint8

const (
	CauseStarvation DeathCause = iota // turn cost drained the last energy
	CauseCombat                       // lost a same-gender fight
	CausePoison                       // died right after eating poison
	CauseExhaustion                   // move cost drained the last energy
)

// String returns the cause name.
func (c DeathCause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CauseCombat:
		return "combat"
	case CausePoison:
		return "poison"
	case CauseExhaustion:
		return "exhaustion"
	default:
		return fmt.Sprintf("cause(%d)", uint8(c))
	}
}

// MarshalText renders the cause by name.
func (c DeathCause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Event is a single notable thing that happened during a tick.
// AgentID is the actor; OtherID is the partner, opponent or parent.
type Event struct {
	Type    EventType   `json:"type"`
	Tick    uint64      `json:"tick"`
	AgentID uint32      `json:"agent"`
	OtherID uint32      `json:"other,omitempty"`
	X       uint32      `json:"x"`
	Y       uint32      `json:"y"`
	Amount  int32       `json:"amount,omitempty"`
	Cause   *DeathCause `json:"cause,omitempty"`
}

// NewBirthEvent creates a birth event for a placed child.
func NewBirthEvent(tick uint64, childID, parentID, x, y uint32, energy int32) Event {
	return Event{Type: EventBirth, Tick: tick, AgentID: childID, OtherID: parentID, X: x, Y: y, Amount: energy}
}

// NewDeathEvent creates a death event. For combat deaths killerID is the winner.
func NewDeathEvent(tick uint64, id, killerID, x, y uint32, cause DeathCause) Event {
	return Event{Type: EventDeath, Tick: tick, AgentID: id, OtherID: killerID, X: x, Y: y, Cause: &cause}
}

// NewFightEvent records a same-gender collision won by winnerID.
func NewFightEvent(tick uint64, winnerID, loserID, x, y uint32, gained int32) Event {
	return Event{Type: EventFight, Tick: tick, AgentID: winnerID, OtherID: loserID, X: x, Y: y, Amount: gained}
}

// NewMatingEvent records a successful reproduction attempt.
func NewMatingEvent(tick uint64, initiatorID, partnerID, x, y uint32, cost int32) Event {
	return Event{Type: EventMating, Tick: tick, AgentID: initiatorID, OtherID: partnerID, X: x, Y: y, Amount: cost}
}

// NewFeedEvent records a food (positive) or poison (negative) consumption.
func NewFeedEvent(tick uint64, id, x, y uint32, delta int32) Event {
	return Event{Type: EventFeed, Tick: tick, AgentID: id, X: x, Y: y, Amount: delta}
}

// NewChildDroppedEvent records a queued child with no free neighbour.
func NewChildDroppedEvent(tick uint64, parentID, x, y uint32) Event {
	return Event{Type: EventChildDropped, Tick: tick, OtherID: parentID, X: x, Y: y}
}

// Counts tallies the outcomes of one or more ticks.
type Counts struct {
	Births          int `json:"births"`
	Starved         int `json:"starved"`
	Killed          int `json:"killed"`
	Poisoned        int `json:"poisoned"`
	Exhausted       int `json:"exhausted"`
	Fights          int `json:"fights"`
	Matings         int `json:"matings"`
	FoodEaten       int `json:"food_eaten"`
	PoisonEaten     int `json:"poison_eaten"`
	ChildrenDropped int `json:"children_dropped"`
	FoodSeeded      int `json:"food_seeded"`
	PoisonSeeded    int `json:"poison_seeded"`
}

// Deaths returns the total over all causes.
func (c Counts) Deaths() int {
	return c.Starved + c.Killed + c.Poisoned + c.Exhausted
}

// RecordDeath bumps the counter for cause.
func (c *Counts) RecordDeath(cause DeathCause) {
	switch cause {
	case CauseStarvation:
		c.Starved++
	case CauseCombat:
		c.Killed++
	case CausePoison:
		c.Poisoned++
	case CauseExhaustion:
		c.Exhausted++
	}
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Births += other.Births
	c.Starved += other.Starved
	c.Killed += other.Killed
	c.Poisoned += other.Poisoned
	c.Exhausted += other.Exhausted
	c.Fights += other.Fights
	c.Matings += other.Matings
	c.FoodEaten += other.FoodEaten
	c.PoisonEaten += other.PoisonEaten
	c.ChildrenDropped += other.ChildrenDropped
	c.FoodSeeded += other.FoodSeeded
	c.PoisonSeeded += other.PoisonSeeded
}

// TickRecord is the event log entry written once per tick.
type TickRecord struct {
	Tick       uint64  `json:"tick"`
	Population int     `json:"population"`
	Counts     Counts  `json:"counts"`
	Events     []Event `json:"events,omitempty"`
}
