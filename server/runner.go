package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/dnagrid/config"
	"github.com/pthm-cable/dnagrid/game"
)

// ErrNoWorld is returned for commands that need a world before INIT.
var ErrNoWorld = errors.New("no world: send INIT first")

// client is one connected viewer. Only the runner goroutine closes out.
type client struct {
	out chan []byte
}

func newClient() *client {
	return &client{out: make(chan []byte, 64)}
}

// send queues a frame, dropping it when the client is not keeping up.
func (c *client) send(b []byte) bool {
	select {
	case c.out <- b:
		return true
	default:
		return false
	}
}

type request struct {
	from *client
	msg  Message
}

// Runner owns a World and drives it from a single goroutine. All commands
// and subscriptions reach it through channels.
type Runner struct {
	cfg  *config.Config
	opts []game.Option

	world   *game.World
	running bool
	delay   time.Duration

	commands chan request
	join     chan *client
	leave    chan *client
	clients  map[*client]struct{}
	done     chan struct{}

	// Published for health checks.
	tick       atomic.Uint64
	population atomic.Int64
	active     atomic.Bool
}

// NewRunner creates a runner that builds worlds from cfg. opts are passed
// to every world it creates.
func NewRunner(cfg *config.Config, opts ...game.Option) *Runner {
	return &Runner{
		cfg:      cfg,
		opts:     opts,
		delay:    time.Duration(cfg.Server.TickDelayMS) * time.Millisecond,
		commands: make(chan request, 16),
		join:     make(chan *client),
		leave:    make(chan *client),
		clients:  make(map[*client]struct{}),
		done:     make(chan struct{}),
	}
}

// Run processes commands and ticks until ctx is done. Connected clients
// have their channels closed on return.
func (r *Runner) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	armed := false

	defer func() {
		for c := range r.clients {
			close(c.out)
			delete(r.clients, c)
		}
		close(r.done)
	}()

	for {
		switch {
		case r.running && !armed:
			timer.Reset(r.delay)
			armed = true
		case !r.running && armed:
			timer.Stop()
			armed = false
		}

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case c := <-r.join:
			r.clients[c] = struct{}{}
			if r.world != nil {
				c.send(r.initFrame())
			}

		case c := <-r.leave:
			if _, ok := r.clients[c]; ok {
				delete(r.clients, c)
				close(c.out)
			}

		case req := <-r.commands:
			if err := r.handle(req.from, req.msg); err != nil {
				slog.Warn("command rejected", "type", req.msg.Type, "error", err)
				if req.from != nil {
					req.from.send(errorFrame(err))
				}
			}

		case <-timer.C:
			armed = false
			if r.running {
				r.step()
			}
		}
	}
}

// Submit queues a command. from receives direct replies; it may be nil.
func (r *Runner) Submit(ctx context.Context, from *client, msg Message) error {
	select {
	case r.commands <- request{from: from, msg: msg}:
		return nil
	case <-r.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// attach registers a client. Returns false once the runner has stopped.
func (r *Runner) attach(c *client) bool {
	select {
	case r.join <- c:
		return true
	case <-r.done:
		return false
	}
}

// detach unregisters a client and closes its channel.
func (r *Runner) detach(c *client) {
	select {
	case r.leave <- c:
	case <-r.done:
	}
}

// Tick returns the current tick of the active world.
func (r *Runner) Tick() uint64 { return r.tick.Load() }

// Population returns the live population of the active world.
func (r *Runner) Population() int { return int(r.population.Load()) }

// Running reports whether the world is advancing.
func (r *Runner) Running() bool { return r.active.Load() }

func (r *Runner) handle(from *client, msg Message) error {
	switch msg.Type {
	case TypeInit, TypeRestart:
		r.setRunning(false)
		w, err := r.build(msg.Config)
		if err != nil {
			return err
		}
		r.world = w
		r.publish()
		r.broadcast(r.initFrame())
		slog.Info("world created", "width", w.Width(), "height", w.Height(), "population", w.Population())

	case TypeStart:
		if r.world == nil {
			return ErrNoWorld
		}
		r.setRunning(true)

	case TypeStop:
		r.setRunning(false)

	case TypeSetSpeed:
		r.delay = time.Duration(max(msg.Value, 0)) * time.Millisecond

	case TypeSetParam:
		if r.world == nil {
			return ErrNoWorld
		}
		if err := r.world.SetParam(msg.Param, msg.Value); err != nil {
			return err
		}
		slog.Info("param set", "param", msg.Param, "value", msg.Value)

	case TypeInspect:
		if r.world == nil {
			return ErrNoWorld
		}
		frame := AgentFrame{Type: TypeAgent, X: msg.X, Y: msg.Y}
		if a, ok := r.world.AgentAt(msg.X, msg.Y); ok {
			frame.Agent = &a
		}
		if from != nil {
			from.send(mustMarshal(frame))
		}

	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadMessage, msg.Type)
	}
	return nil
}

// build creates and seeds a world from the config and an optional
// per-run override.
func (r *Runner) build(rc *RunConfig) (*game.World, error) {
	seeding, err := game.SeedingFromConfig(r.cfg)
	if err != nil {
		return nil, err
	}
	if rc != nil && rc.Population != nil {
		seeding.Population = *rc.Population
	}
	g, ok, err := rc.Genome()
	if err != nil {
		return nil, err
	}
	if ok {
		seeding.Genome = g[:]
	} else if rc != nil && (rc.DNA != nil || rc.Priority != "") {
		seeding.Genome = nil
	}

	opts := append([]game.Option{
		game.WithParams(game.ParamsFromConfig(r.cfg)),
		game.WithStatsWindow(r.cfg.Telemetry.StatsWindow),
		game.WithPerfWindow(r.cfg.Telemetry.PerfWindow),
	}, r.opts...)
	w := game.NewWorld(r.cfg.World.Width, r.cfg.World.Height, opts...)
	w.Seed(seeding)
	return w, nil
}

// step advances one tick and broadcasts the resulting frame.
func (r *Runner) step() {
	r.world.Tick()
	r.publish()
	if r.world.Population() == 0 {
		slog.Info("population extinct", "tick", r.world.CurrentTick())
	}
	if len(r.clients) > 0 {
		r.broadcast(mustMarshal(r.updateFrame()))
	}
}

func (r *Runner) setRunning(on bool) {
	r.running = on
	r.active.Store(on)
}

func (r *Runner) publish() {
	r.tick.Store(r.world.CurrentTick())
	r.population.Store(int64(r.world.Population()))
}

func (r *Runner) broadcast(b []byte) {
	for c := range r.clients {
		c.send(b)
	}
}

func (r *Runner) initFrame() []byte {
	return mustMarshal(InitFrame{Type: TypeInit, Width: r.world.Width(), Height: r.world.Height()})
}

func (r *Runner) updateFrame() UpdateFrame {
	food, poison := r.world.ResourceCounts()
	return UpdateFrame{
		Type:   TypeUpdate,
		Cells:  r.world.CellsBytes(),
		Agents: r.world.RenderData(),
		Stats: Stats{
			Tick:       r.world.CurrentTick(),
			Population: r.world.Population(),
			AvgGenes:   r.world.AverageGenome(),
			Food:       food,
			Poison:     poison,
		},
	}
}

// mustMarshal encodes frames built from plain structs, which cannot fail.
func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("server: encoding %T: %v", v, err))
	}
	return b
}
