// Package server hosts a World over websocket using the control protocol
// of the browser viewer: INIT/RESTART, START, STOP, SET_SPEED, SET_PARAM
// and INSPECT in; INIT, UPDATE, AGENT and ERROR out.
package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
)

// Incoming message types.
const (
	TypeInit     = "INIT"
	TypeRestart  = "RESTART"
	TypeStart    = "START"
	TypeStop     = "STOP"
	TypeSetSpeed = "SET_SPEED"
	TypeSetParam = "SET_PARAM"
	TypeInspect  = "INSPECT"
)

// Outgoing frame types. INIT is shared with the request.
const (
	TypeUpdate = "UPDATE"
	TypeAgent  = "AGENT"
	TypeError  = "ERROR"
)

// ErrBadMessage wraps every decoding or validation failure.
var ErrBadMessage = errors.New("bad message")

//go:embed control.schema.json
var controlSchemaJSON []byte

const controlSchemaURL = "https://dnagrid.local/schemas/control.schema.json"

var controlSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(controlSchemaURL, bytes.NewReader(controlSchemaJSON)); err != nil {
		return nil, fmt.Errorf("adding control schema: %w", err)
	}
	return c.Compile(controlSchemaURL)
})

// RunConfig is the optional payload of INIT and RESTART.
type RunConfig struct {
	Population *uint32 `json:"population,omitempty"`

	// DNA of exactly genome.Size weights is shared by every seeded agent;
	// any other length seeds random genomes.
	DNA []int `json:"dna,omitempty"`

	// Priority is a ranking such as "food > empty"; it overrides DNA.
	Priority string `json:"priority,omitempty"`
}

// Genome resolves the seeding genome. ok is false for random seeding.
func (rc *RunConfig) Genome() (g genome.Genome, ok bool, err error) {
	if rc == nil {
		return g, false, nil
	}
	if rc.Priority != "" {
		g, err = genome.ParseGenome(rc.Priority)
		return g, err == nil, err
	}
	if len(rc.DNA) != genome.Size {
		return g, false, nil
	}
	for i, v := range rc.DNA {
		g[i] = uint8(v)
	}
	return g, true, nil
}

// Message is a decoded control message.
type Message struct {
	Type   string     `json:"type"`
	Param  string     `json:"param,omitempty"`
	Value  int64      `json:"value,omitempty"`
	X      uint32     `json:"x,omitempty"`
	Y      uint32     `json:"y,omitempty"`
	Config *RunConfig `json:"config,omitempty"`
}

// Decode validates b against the control schema and decodes it.
func Decode(b []byte) (Message, error) {
	schema, err := controlSchema()
	if err != nil {
		return Message{}, err
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if err := schema.Validate(raw); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}

	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	return m, nil
}

// InitFrame announces a fresh world.
type InitFrame struct {
	Type   string `json:"type"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Stats is the per-frame population summary.
type Stats struct {
	Tick       uint64               `json:"tick"`
	Population int                  `json:"population"`
	AvgGenes   [genome.Size]float64 `json:"avgGenes"`
	Food       int                  `json:"food"`
	Poison     int                  `json:"poison"`
}

// UpdateFrame carries the state after one tick. Cells is the row-major
// resource layer (base64 in JSON); Agents holds x, y, gender triples.
type UpdateFrame struct {
	Type   string   `json:"type"`
	Cells  []byte   `json:"cells"`
	Agents []uint32 `json:"agents"`
	Stats  Stats    `json:"stats"`
}

// AgentFrame answers INSPECT. Agent is null for an empty cell.
type AgentFrame struct {
	Type  string            `json:"type"`
	X     uint32            `json:"x"`
	Y     uint32            `json:"y"`
	Agent *components.Agent `json:"agent"`
}

// ErrorFrame reports a rejected message to its sender.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorFrame(err error) []byte {
	b, _ := json.Marshal(ErrorFrame{Type: TypeError, Message: err.Error()})
	return b
}
