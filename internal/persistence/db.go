// Package persistence provides SQLite-based snapshot storage for the live
// settlement graph. Only the current state is stored, never per-step
// history: a save fully replaces the previous snapshot.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/avelinek/tradewinds/internal/geo"
	"github.com/avelinek/tradewinds/internal/world"
)

// DB wraps a SQLite connection for snapshot persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settlements (
		name TEXT PRIMARY KEY,
		country TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		blocked INTEGER NOT NULL,
		resources_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS links (
		a TEXT NOT NULL,
		b TEXT NOT NULL,
		distance_km REAL NOT NULL,
		capacity REAL NOT NULL,
		PRIMARY KEY (a, b)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasSnapshot reports whether a saved graph exists.
func (db *DB) HasSnapshot() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM settlements"); err != nil {
		return false
	}
	return n > 0
}

// SaveGraph writes the full graph state, replacing any previous snapshot.
func (db *DB) SaveGraph(g *world.Graph, lastStep uint64) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM settlements"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM links"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO settlements
		(name, country, lat, lon, blocked, resources_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range g.Names() {
		s := g.Settlements[name]
		resJSON, _ := json.Marshal(s.Resources)

		blocked := 0
		if s.Blocked {
			blocked = 1
		}

		if _, err := stmt.Exec(s.Name, s.Country, s.Position.Lat, s.Position.Lon, blocked, string(resJSON)); err != nil {
			return fmt.Errorf("insert settlement %q: %w", s.Name, err)
		}
	}

	for _, l := range g.Links {
		_, err := tx.Exec(
			"INSERT INTO links (a, b, distance_km, capacity) VALUES (?, ?, ?, ?)",
			l.A, l.B, l.DistanceKm, l.Capacity,
		)
		if err != nil {
			return fmt.Errorf("insert link %s-%s: %w", l.A, l.B, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('last_step', ?)",
		strconv.FormatUint(lastStep, 10),
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("snapshot saved", "settlements", len(g.Settlements), "links", len(g.Links), "last_step", lastStep)
	return nil
}

// LoadGraph restores the graph and the last completed step from the
// snapshot.
func (db *DB) LoadGraph() (*world.Graph, uint64, error) {
	type settlementRow struct {
		Name          string  `db:"name"`
		Country       string  `db:"country"`
		Lat           float64 `db:"lat"`
		Lon           float64 `db:"lon"`
		Blocked       int     `db:"blocked"`
		ResourcesJSON string  `db:"resources_json"`
	}

	var rows []settlementRow
	if err := db.conn.Select(&rows, "SELECT * FROM settlements ORDER BY name"); err != nil {
		return nil, 0, fmt.Errorf("load settlements: %w", err)
	}

	g := &world.Graph{Settlements: make(map[string]*world.Settlement, len(rows))}
	for _, r := range rows {
		resources := make(map[string]float64)
		if err := json.Unmarshal([]byte(r.ResourcesJSON), &resources); err != nil {
			return nil, 0, fmt.Errorf("settlement %q resources: %w", r.Name, err)
		}
		g.Settlements[r.Name] = &world.Settlement{
			Name:      r.Name,
			Country:   r.Country,
			Position:  geo.Coord{Lat: r.Lat, Lon: r.Lon},
			Blocked:   r.Blocked != 0,
			Resources: resources,
		}
	}

	type linkRow struct {
		A          string  `db:"a"`
		B          string  `db:"b"`
		DistanceKm float64 `db:"distance_km"`
		Capacity   float64 `db:"capacity"`
	}

	var linkRows []linkRow
	if err := db.conn.Select(&linkRows, "SELECT * FROM links ORDER BY a, b"); err != nil {
		return nil, 0, fmt.Errorf("load links: %w", err)
	}
	for _, r := range linkRows {
		g.Links = append(g.Links, &world.TradeLink{
			A:          r.A,
			B:          r.B,
			DistanceKm: r.DistanceKm,
			Capacity:   r.Capacity,
		})
	}

	var lastStep uint64
	if v, err := db.GetMeta("last_step"); err == nil {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			lastStep = n
		}
	}

	return g, lastStep, nil
}

// SetMeta stores a key-value pair.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// RunID returns the stable identity of this simulation run, creating one on
// first call.
func (db *DB) RunID() (string, error) {
	id, err := db.GetMeta("run_id")
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	id = uuid.NewString()
	if err := db.SetMeta("run_id", id); err != nil {
		return "", err
	}
	return id, nil
}
