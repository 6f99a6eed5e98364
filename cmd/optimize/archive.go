package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Archive stores every evaluation in a SQLite file so runs can be
// queried or resumed for analysis after the optimizer exits.
type Archive struct {
	db *sql.DB
}

// evalRecord is one row of the evals table and of optimize_log.csv.
type evalRecord struct {
	Eval     int     `csv:"eval"`
	Fitness  float64 `csv:"fitness"`
	Survival uint64  `csv:"survival_ticks"`
	Quality  float64 `csv:"quality"`

	TurnCost        int32   `csv:"turn_energy_cost"`
	MoveCost        int32   `csv:"move_energy_cost"`
	FoodGain        int32   `csv:"food_energy_gain"`
	PoisonLoss      int32   `csv:"poison_energy_loss"`
	ReproCost       int32   `csv:"repro_energy_cost"`
	FoodSpawn       uint32  `csv:"food_spawn_amount"`
	PoisonSpawn     uint32  `csv:"poison_spawn_amount"`
	ReplenishChance float64 `csv:"replenish_chance"`
}

// OpenArchive opens or creates the archive at path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS evals (
			eval INTEGER PRIMARY KEY,
			fitness REAL NOT NULL,
			survival_ticks INTEGER NOT NULL,
			quality REAL NOT NULL,
			params_json TEXT NOT NULL
		);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init archive: %w", err)
		}
	}
	return &Archive{db: db}, nil
}

// Record inserts or replaces one evaluation.
func (a *Archive) Record(ctx context.Context, r evalRecord) error {
	params, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO evals (eval, fitness, survival_ticks, quality, params_json) VALUES (?, ?, ?, ?, ?)`,
		r.Eval, r.Fitness, int64(r.Survival), r.Quality, string(params))
	return err
}

// Best returns the lowest-fitness evaluation.
func (a *Archive) Best(ctx context.Context) (evalRecord, error) {
	var raw string
	err := a.db.QueryRowContext(ctx, `SELECT params_json FROM evals ORDER BY fitness ASC, eval ASC LIMIT 1`).Scan(&raw)
	if err != nil {
		return evalRecord{}, err
	}
	var r evalRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return evalRecord{}, err
	}
	return r, nil
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}
