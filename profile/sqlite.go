package profile

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"
)

const (
	keySeed    = "seed"
	keyCellRow = "cell_row"
	keyCellCol = "cell_col"
)

// SQLiteStore persists the profile in a SQLite file. The scavenged set is
// loaded once on open and written through on every change.
type SQLiteStore struct {
	mu        sync.Mutex
	db        *sql.DB
	seed      int64
	scavenged map[string]struct{}
}

// OpenSQLite opens or creates the database at path. A new database records
// seed; an existing one keeps the seed it was created with.
func OpenSQLite(path string, seed int64) (*SQLiteStore, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("profile: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("profile: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("profile: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("profile: cannot connect to database: %w", err)
	}

	s := &SQLiteStore{db: db, scavenged: make(map[string]struct{})}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("profile: migration failed: %w", err)
	}
	if err := s.load(seed); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS scavenged (
			id TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) load(seed int64) error {
	raw, ok, err := s.get(keySeed)
	if err != nil {
		return err
	}
	if ok {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("profile: corrupt seed %q: %w", raw, err)
		}
		s.seed = parsed
	} else {
		if err := s.put(keySeed, strconv.FormatInt(seed, 10)); err != nil {
			return err
		}
		s.seed = seed
	}

	rows, err := s.db.Query(`SELECT id FROM scavenged`)
	if err != nil {
		return fmt.Errorf("profile: load scavenged: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("profile: scan scavenged: %w", err)
		}
		s.scavenged[id] = struct{}{}
	}
	return rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) Seed() int64 {
	return s.seed
}

func (s *SQLiteStore) IsScavenged(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.scavenged[id]
	return ok
}

func (s *SQLiteStore) MarkScavenged(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO scavenged (id) VALUES (?)`, id); err != nil {
		return fmt.Errorf("profile: mark scavenged %s: %w", id, err)
	}
	s.scavenged[id] = struct{}{}
	return nil
}

// Scavenged returns how many objects have been scavenged.
func (s *SQLiteStore) Scavenged() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scavenged)
}

func (s *SQLiteStore) LastCell() (int, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return 0, 0, false
	}
	rawRow, okRow, err := s.get(keyCellRow)
	if err != nil || !okRow {
		return 0, 0, false
	}
	rawCol, okCol, err := s.get(keyCellCol)
	if err != nil || !okCol {
		return 0, 0, false
	}
	row, errRow := strconv.Atoi(rawRow)
	col, errCol := strconv.Atoi(rawCol)
	if errRow != nil || errCol != nil {
		return 0, 0, false
	}
	return row, col, true
}

func (s *SQLiteStore) SaveCell(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("profile: save cell: %w", err)
	}
	defer tx.Rollback()
	for key, v := range map[string]int{keyCellRow: row, keyCellCol: col} {
		if _, err := tx.Exec(`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, strconv.Itoa(v)); err != nil {
			return fmt.Errorf("profile: save cell: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return "", false
	}
	v, ok, err := s.get(key)
	if err != nil {
		return "", false
	}
	return v, ok
}

func (s *SQLiteStore) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}
	return s.put(key, value)
}

func (s *SQLiteStore) get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("profile: get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) put(key, value string) error {
	if _, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
		return fmt.Errorf("profile: put %s: %w", key, err)
	}
	return nil
}
