// Package sqlite persists swarm runs and their spawn/despawn events. The
// store is append-only instrumentation: the engine never reads it back
// during a run, so a write failure is logged by the caller and the
// simulation continues.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Open opens (or creates) the event database at path and ensures the
// schema. The schema is a two-table append-only log, created inline; it
// needs no migration machinery.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open event db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS swarm_runs (
			run_id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			inner_radius DOUBLE,
			semi_major_axis DOUBLE,
			semi_minor_axis DOUBLE,
			max_vehicles INTEGER
		);
		CREATE TABLE IF NOT EXISTS swarm_events (
			event_id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			sim_time DOUBLE NOT NULL,
			kind TEXT NOT NULL,
			vehicle_id INTEGER NOT NULL,
			road_id INTEGER NOT NULL,
			lane_id INTEGER NOT NULL,
			s DOUBLE,
			x DOUBLE,
			y DOUBLE,
			reason TEXT,
			FOREIGN KEY(run_id) REFERENCES swarm_runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS idx_swarm_events_run ON swarm_events(run_id, sim_time);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create event schema: %w", err)
	}
	return db, nil
}

// Event kinds stored in swarm_events.kind.
const (
	KindSpawn   = "spawn"
	KindDespawn = "despawn"
)

// Event is one persisted spawn or despawn.
type Event struct {
	EventID   int64
	RunID     string
	SimTime   float64
	Kind      string
	VehicleID int64
	RoadID    int64
	LaneID    int
	S         float64
	X         float64
	Y         float64
	Reason    string
}

// EventStore records one run's spawn/despawn history. It implements the
// engine's EventRecorder contract; write errors are routed to the errf
// callback so the synchronous pipeline never blocks on storage.
type EventStore struct {
	db    *sql.DB
	runID string
	errf  func(format string, v ...interface{})
}

// NewEventStore creates a store over an opened database. errf receives
// write failures; nil mutes them.
func NewEventStore(db *sql.DB, errf func(format string, v ...interface{})) *EventStore {
	if errf == nil {
		errf = func(string, ...interface{}) {}
	}
	return &EventStore{db: db, errf: errf}
}

// BeginRun registers a new run with its ring parameters and returns the
// assigned run id.
func (s *EventStore) BeginRun(innerRadius, semiMajorAxis, semiMinorAxis float64, maxVehicles int) (string, error) {
	runID := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO swarm_runs (run_id, started_at, inner_radius, semi_major_axis, semi_minor_axis, max_vehicles)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UnixNano(), innerRadius, semiMajorAxis, semiMinorAxis, maxVehicles)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	s.runID = runID
	return runID, nil
}

// RunID returns the current run id, empty before BeginRun.
func (s *EventStore) RunID() string { return s.runID }

// RecordSpawn appends a spawn event for the current run.
func (s *EventStore) RecordSpawn(simTime float64, vehicleID int64, roadID int64, laneID int, sPos, x, y float64) {
	_, err := s.db.Exec(`
		INSERT INTO swarm_events (run_id, sim_time, kind, vehicle_id, road_id, lane_id, s, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, simTime, KindSpawn, vehicleID, roadID, laneID, sPos, x, y)
	if err != nil {
		s.errf("sqlite: record spawn: %v", err)
	}
}

// RecordDespawn appends a despawn event for the current run.
func (s *EventStore) RecordDespawn(simTime float64, vehicleID int64, roadID int64, laneID int, reason string) {
	_, err := s.db.Exec(`
		INSERT INTO swarm_events (run_id, sim_time, kind, vehicle_id, road_id, lane_id, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.runID, simTime, KindDespawn, vehicleID, roadID, laneID, reason)
	if err != nil {
		s.errf("sqlite: record despawn: %v", err)
	}
}

// LatestRunID returns the most recently started run id.
func (s *EventStore) LatestRunID() (string, error) {
	var runID string
	err := s.db.QueryRow(`SELECT run_id FROM swarm_runs ORDER BY started_at DESC LIMIT 1`).Scan(&runID)
	if err != nil {
		return "", fmt.Errorf("query latest run: %w", err)
	}
	return runID, nil
}

// ListEvents returns all events of a run ordered by sim time, then by
// insertion.
func (s *EventStore) ListEvents(runID string) ([]Event, error) {
	rows, err := s.db.Query(`
		SELECT event_id, run_id, sim_time, kind, vehicle_id, road_id, lane_id,
		       COALESCE(s, 0), COALESCE(x, 0), COALESCE(y, 0), COALESCE(reason, '')
		FROM swarm_events
		WHERE run_id = ?
		ORDER BY sim_time, event_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.EventID, &e.RunID, &e.SimTime, &e.Kind, &e.VehicleID,
			&e.RoadID, &e.LaneID, &e.S, &e.X, &e.Y, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
