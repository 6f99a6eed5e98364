package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/dnagrid/config"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"init without config", `{"type":"INIT"}`, false},
		{"restart with config", `{"type":"RESTART","config":{"population":20,"dna":[1,2,3,4,5]}}`, false},
		{"restart with priority", `{"type":"RESTART","config":{"priority":"food > empty"}}`, false},
		{"short dna is allowed", `{"type":"RESTART","config":{"dna":[1,2]}}`, false},
		{"start", `{"type":"START"}`, false},
		{"set speed", `{"type":"SET_SPEED","value":16}`, false},
		{"set param", `{"type":"SET_PARAM","param":"food_energy_gain","value":-3}`, false},
		{"inspect", `{"type":"INSPECT","x":3,"y":4}`, false},
		{"not json", `{"type":`, true},
		{"missing type", `{}`, true},
		{"unknown type", `{"type":"JUMP"}`, true},
		{"speed without value", `{"type":"SET_SPEED"}`, true},
		{"negative speed", `{"type":"SET_SPEED","value":-1}`, true},
		{"fractional value", `{"type":"SET_PARAM","param":"food_energy_gain","value":1.5}`, true},
		{"param without name", `{"type":"SET_PARAM","value":1}`, true},
		{"inspect without y", `{"type":"INSPECT","x":1}`, true},
		{"dna out of range", `{"type":"INIT","config":{"dna":[0,0,0,0,256]}}`, true},
		{"unknown config field", `{"type":"INIT","config":{"width":5}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrBadMessage) {
				t.Errorf("error %v does not wrap ErrBadMessage", err)
			}
		})
	}
}

func TestRunConfigGenome(t *testing.T) {
	var nilCfg *RunConfig
	if _, ok, err := nilCfg.Genome(); ok || err != nil {
		t.Errorf("nil config: ok=%v err=%v", ok, err)
	}

	g, ok, err := (&RunConfig{DNA: []int{9, 8, 7, 6, 5}}).Genome()
	if !ok || err != nil || g[0] != 9 || g[4] != 5 {
		t.Errorf("dna genome = %v, %v, %v", g, ok, err)
	}

	if _, ok, _ := (&RunConfig{DNA: []int{1, 2, 3}}).Genome(); ok {
		t.Error("wrong-length dna should fall back to random")
	}

	g, ok, err = (&RunConfig{DNA: []int{1, 2, 3, 4, 5}, Priority: "food"}).Genome()
	if !ok || err != nil || g[1] != 255 || g[0] != 0 {
		t.Errorf("priority genome = %v, %v, %v", g, ok, err)
	}

	if _, _, err := (&RunConfig{Priority: "food > food"}).Genome(); err == nil {
		t.Error("duplicate priority should fail")
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.World.Width = 20
	cfg.World.Height = 20
	cfg.Population.Initial = 10
	cfg.Resource.InitialFood = 30
	cfg.Resource.InitialPoison = 5
	cfg.Server.TickDelayMS = 1
	return cfg
}

type frame struct {
	Type string `json:"type"`
	raw  []byte
}

func startServer(t *testing.T) (*websocket.Conn, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(testConfig(t))
	go func() { _ = runner.Run(ctx) }()

	srv := httptest.NewServer(New(runner).Handler())
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, srv
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil returns the first frame of the wanted type, skipping others.
func readUntil(t *testing.T, conn *websocket.Conn, want string) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("bad frame %q: %v", data, err)
		}
		if f.Type == want {
			f.raw = data
			return f
		}
	}
}

func TestWebsocketSession(t *testing.T) {
	conn, _ := startServer(t)

	send(t, conn, `{"type":"START"}`)
	readUntil(t, conn, TypeError)

	send(t, conn, `{"type":"INIT","config":{"population":12,"dna":[0,255,0,0,0]}}`)
	var init InitFrame
	if err := json.Unmarshal(readUntil(t, conn, TypeInit).raw, &init); err != nil {
		t.Fatal(err)
	}
	if init.Width != 20 || init.Height != 20 {
		t.Errorf("init frame = %+v", init)
	}

	send(t, conn, `{"type":"SET_SPEED"}`)
	readUntil(t, conn, TypeError)

	send(t, conn, `{"type":"SET_PARAM","param":"gravity","value":1}`)
	var errFrame ErrorFrame
	if err := json.Unmarshal(readUntil(t, conn, TypeError).raw, &errFrame); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errFrame.Message, "gravity") {
		t.Errorf("error frame = %+v", errFrame)
	}

	send(t, conn, `{"type":"INSPECT","x":19,"y":19}`)
	var agent AgentFrame
	if err := json.Unmarshal(readUntil(t, conn, TypeAgent).raw, &agent); err != nil {
		t.Fatal(err)
	}
	if agent.X != 19 || agent.Y != 19 {
		t.Errorf("agent frame = %+v", agent)
	}
	if agent.Agent != nil && agent.Agent.Genome[1] != 255 {
		t.Errorf("seeded agent genome = %v", agent.Agent.Genome)
	}

	send(t, conn, `{"type":"START"}`)
	var update UpdateFrame
	if err := json.Unmarshal(readUntil(t, conn, TypeUpdate).raw, &update); err != nil {
		t.Fatal(err)
	}
	if len(update.Cells) != 400 {
		t.Errorf("cells = %d, want 400", len(update.Cells))
	}
	if len(update.Agents)%3 != 0 || len(update.Agents)/3 != update.Stats.Population {
		t.Errorf("agents = %d values for population %d", len(update.Agents), update.Stats.Population)
	}
	if update.Stats.Tick == 0 {
		t.Error("update before first tick")
	}

	send(t, conn, `{"type":"STOP"}`)
}

func TestHealthz(t *testing.T) {
	_, srv := startServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Running {
		t.Errorf("health = %+v", h)
	}
}
