package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"klaew-klad/internal/database"

	_ "modernc.org/sqlite"
)

const (
	// MemoryPath opens a private in-memory database
	MemoryPath    = ":memory:"
	schemaVersion = 1
)

// Store is a SQLite-based data store implementing database.DataStore
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	shelterRepo   database.ShelterRepository
	floodAreaRepo database.FloodAreaRepository
	situationRepo database.SituationRepository
	alertRepo     database.AlertRepository
}

// New creates a new SQLite store at the specified path
func New(dbPath string) (*Store, error) {
	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	log.Printf("[SQLITE] Opening database: path=%s", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to :memory: would be a separate database
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -16000",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.shelterRepo = &shelterRepository{store: store}
	store.floodAreaRepo = &floodAreaRepository{store: store}
	store.situationRepo = &situationRepository{store: store}
	store.alertRepo = &alertRepository{store: store}

	return store, nil
}

// GetDBPath returns the current database file path
func (s *Store) GetDBPath() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return s.createSchema()
	}

	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT INTO schema_version (version) VALUES (1);

	-- Shelter directory
	CREATE TABLE IF NOT EXISTS shelters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity >= 0),
		current_occupancy INTEGER NOT NULL DEFAULT 0 CHECK (current_occupancy >= 0),
		status TEXT NOT NULL DEFAULT 'open',
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		facilities TEXT NOT NULL DEFAULT '[]',
		contact_phone TEXT NOT NULL DEFAULT ''
	);

	-- Monitored flood areas; polygon is a JSON array of coordinates
	CREATE TABLE IF NOT EXISTS flood_areas (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		water_level REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'normal',
		population INTEGER NOT NULL DEFAULT 0,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		polygon TEXT NOT NULL DEFAULT '[]'
	);

	-- Situation (single row table)
	CREATE TABLE IF NOT EXISTS situation (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		roads_closed INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL DEFAULT 0
	);
	INSERT OR IGNORE INTO situation (id, roads_closed, updated_at) VALUES (1, 0, 0);

	-- Alerts; times are unix milliseconds
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		severity TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER,
		areas TEXT NOT NULL DEFAULT '[]',
		action_required INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_shelters_status ON shelters(status);
	CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_alerts_expires ON alerts(expires_at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[SQLITE] Schema initialized: version=%d", schemaVersion)
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		if s.dbPath != MemoryPath {
			s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		}
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Repository accessors
func (s *Store) Shelters() database.ShelterRepository     { return s.shelterRepo }
func (s *Store) FloodAreas() database.FloodAreaRepository { return s.floodAreaRepo }
func (s *Store) Situation() database.SituationRepository  { return s.situationRepo }
func (s *Store) Alerts() database.AlertRepository         { return s.alertRepo }
