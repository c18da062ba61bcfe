package watch

import (
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Seen is a set of canonical rows already handled.
type Seen interface {
	Contains(key string) (bool, error)
	// Add records single handled key immediately.
	Add(key string) error
	// Replace makes keys the whole content of the set.
	Replace(keys []string) error
	Len() (int, error)
	Close() error
}

// MemorySeen keeps set for the life of the process.
type MemorySeen struct {
	keys map[string]struct{}
}

func NewMemorySeen() *MemorySeen {
	return &MemorySeen{keys: make(map[string]struct{})}
}

func (m *MemorySeen) Contains(key string) (bool, error) {
	_, ok := m.keys[key]
	return ok, nil
}

func (m *MemorySeen) Add(key string) error {
	m.keys[key] = struct{}{}
	return nil
}

func (m *MemorySeen) Replace(keys []string) error {
	m.keys = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m.keys[k] = struct{}{}
	}
	return nil
}

func (m *MemorySeen) Len() (int, error) { return len(m.keys), nil }

func (m *MemorySeen) Close() error { return nil }

const seenSchema = `CREATE TABLE IF NOT EXISTS seen (key TEXT PRIMARY KEY NOT NULL);`

// SQLiteSeen keeps set in a database file so restarted watcher does not
// print rows it already handled.
type SQLiteSeen struct {
	conn *sqlite.Conn
}

func OpenSQLiteSeen(path string) (*SQLiteSeen, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("unable to open state database '%s': %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, seenSchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare state database '%s': %w", path, err)
	}
	return &SQLiteSeen{conn: conn}, nil
}

func (s *SQLiteSeen) Contains(key string) (bool, error) {
	var found bool
	err := sqlitex.Execute(s.conn, `SELECT 1 FROM seen WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(*sqlite.Stmt) error {
				found = true
				return nil
			},
		})
	if err != nil {
		return false, fmt.Errorf("unable to query state: %w", err)
	}
	return found, nil
}

func (s *SQLiteSeen) Add(key string) error {
	if err := sqlitex.Execute(s.conn, `INSERT OR IGNORE INTO seen (key) VALUES (?)`,
		&sqlitex.ExecOptions{Args: []any{key}}); err != nil {
		return fmt.Errorf("unable to store state: %w", err)
	}
	return nil
}

func (s *SQLiteSeen) Replace(keys []string) (err error) {
	defer sqlitex.Save(s.conn)(&err)

	if err = sqlitex.Execute(s.conn, `DELETE FROM seen`, nil); err != nil {
		return fmt.Errorf("unable to reset state: %w", err)
	}
	for _, k := range keys {
		if err = sqlitex.Execute(s.conn, `INSERT OR IGNORE INTO seen (key) VALUES (?)`,
			&sqlitex.ExecOptions{Args: []any{k}}); err != nil {
			return fmt.Errorf("unable to store state: %w", err)
		}
	}
	return nil
}

func (s *SQLiteSeen) Len() (int, error) {
	var n int
	err := sqlitex.Execute(s.conn, `SELECT count(*) FROM seen`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n = stmt.ColumnInt(0)
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("unable to query state: %w", err)
	}
	return n, nil
}

func (s *SQLiteSeen) Close() error {
	return s.conn.Close()
}
