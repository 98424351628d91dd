// Package cache provides a local SQLite cache of fetched event summaries
// so the event list has something to show before the first fetch lands.
// Best effort only: the Data Client never reads it, and detector configs
// are never cached.
package cache

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abelbrown/collidoscope/internal/api"
)

// Cache persists event summaries. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Cache struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Cache backed by the given database path, creating the
// schema if needed. Uses WAL mode for file-based databases.
func Open(dbPath string) (*Cache, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	c := &Cache{db: db}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return c, nil
}

func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		event_id TEXT PRIMARY KEY,
		run_number INTEGER NOT NULL,
		event_number INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		num_particles INTEGER NOT NULL,
		event_type TEXT,
		invariant_mass REAL,
		missing_et REAL,
		scalar_ht REAL,
		num_jets INTEGER,
		num_leptons INTEGER,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_number, event_number DESC);
	CREATE INDEX IF NOT EXISTS idx_events_fetched ON events(fetched_at DESC);
	`

	_, err := c.db.Exec(schema)
	return err
}

// SaveEvents upserts event summaries. Particle arrays are not stored; the
// detail fetch is cheap and the cache only backs the list view.
func (c *Cache) SaveEvents(events []api.EventDetail) error {
	if len(events) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO events (event_id, run_number, event_number, timestamp,
			num_particles, event_type, invariant_mass, missing_et, scalar_ht,
			num_jets, num_leptons, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			invariant_mass = excluded.invariant_mass,
			missing_et = excluded.missing_et,
			scalar_ht = excluded.scalar_ht,
			num_jets = excluded.num_jets,
			num_leptons = excluded.num_leptons,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, d := range events {
		var mass, met, ht *float64
		var jets, leptons *int
		if k := d.Kinematics; k != nil {
			mass, met, ht = k.InvariantMass, k.MissingET, k.ScalarHT
			jets, leptons = k.NumJets, k.NumLeptons
		}

		_, err := stmt.Exec(
			d.Event.EventID, d.Event.RunNumber, d.Event.EventNumber,
			d.Event.Timestamp, d.Event.NumParticles, d.Event.EventType,
			mass, met, ht, jets, leptons, now,
		)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", d.Event.EventID, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit cached events, newest run/event first.
func (c *Cache) Recent(limit int) ([]api.EventDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.Query(`
		SELECT event_id, run_number, event_number, timestamp, num_particles,
			event_type, invariant_mass, missing_et, scalar_ht, num_jets, num_leptons
		FROM events
		ORDER BY run_number DESC, event_number DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []api.EventDetail
	for rows.Next() {
		var d api.EventDetail
		var eventType sql.NullString
		var mass, met, ht sql.NullFloat64
		var jets, leptons sql.NullInt64

		err := rows.Scan(
			&d.Event.EventID, &d.Event.RunNumber, &d.Event.EventNumber,
			&d.Event.Timestamp, &d.Event.NumParticles, &eventType,
			&mass, &met, &ht, &jets, &leptons,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		d.Event.EventType = eventType.String
		if mass.Valid || met.Valid || ht.Valid || jets.Valid || leptons.Valid {
			k := &api.Kinematics{EventID: d.Event.EventID}
			if mass.Valid {
				k.InvariantMass = &mass.Float64
			}
			if met.Valid {
				k.MissingET = &met.Float64
			}
			if ht.Valid {
				k.ScalarHT = &ht.Float64
			}
			if jets.Valid {
				n := int(jets.Int64)
				k.NumJets = &n
			}
			if leptons.Valid {
				n := int(leptons.Int64)
				k.NumLeptons = &n
			}
			d.Kinematics = k
		}

		events = append(events, d)
	}

	return events, rows.Err()
}

// Count returns the number of cached events.
func (c *Cache) Count() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}
