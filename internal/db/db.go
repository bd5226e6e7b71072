package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tgienger/taskmaster/internal/models"
)

//go:embed schema.sql
var schema string

// Extension is the file suffix of workspace files
const Extension = ".db"

// tables that must exist for a file to be treated as a workspace
var requiredTables = []string{"User", "Group", "Member", "Project", "Task"}

// DB is one open workspace together with the session using it.
// It is not safe for concurrent use.
type DB struct {
	conn    *sql.DB
	path    string
	logger  *slog.Logger
	session models.Session
	closed  bool
}

func newLogger() *slog.Logger {
	return slog.Default().With("component", "store")
}

// uriEscaper escapes the characters SQLite would read as URI syntax in
// the path part of a file: URI
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

func dsn(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=rw&_foreign_keys=on"
}

// Create creates a new workspace file at path with an empty schema.
// An existing file is never touched. If the schema cannot be created the
// partial file is removed.
func Create(path string) error {
	logger := newLogger()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			logger.Warn("workspace already exists", "path", path)
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return fmt.Errorf("creating workspace file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: creating workspace file: %v", ErrIO, err)
	}

	if err := initSchema(path); err != nil {
		logger.Error("creating workspace schema failed, cleaning up", "path", path, "error", err)
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Warn("unable to remove partial workspace, remove it manually", "path", path, "error", rmErr)
		}
		return fmt.Errorf("creating workspace schema: %w", err)
	}

	logger.Info("workspace created", "path", path)
	return nil
}

func initSchema(path string) (err error) {
	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	return tx.Commit()
}

// Open opens an existing workspace file and checks that it carries the
// workspace tables.
func Open(path string) (*DB, error) {
	logger := newLogger()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Error("workspace not found", "path", path)
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("checking workspace file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}

	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening workspace: %w", err)
	}
	// one session, one connection; transactions rely on this
	conn.SetMaxOpenConns(1)

	if err := checkSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("workspace opened", "path", path)
	return &DB{
		conn:   conn,
		path:   path,
		logger: logger,
	}, nil
}

func checkSchema(conn *sql.DB) error {
	rows, err := conn.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer rows.Close()

	found := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var missing []string
	for _, table := range requiredTables {
		if !found[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing tables %s", ErrInvalidFormat, strings.Join(missing, ", "))
	}
	return nil
}

// Delete removes the workspace file at path
func Delete(path string) error {
	logger := newLogger()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Error("workspace not found", "path", path)
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("checking workspace file: %w", err)
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			logger.Warn("unable to remove workspace, remove it manually", "path", path)
			return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return fmt.Errorf("removing workspace: %w", err)
	}

	logger.Info("workspace removed", "path", path)
	return nil
}

// List returns the names of the workspaces in dir, without extension
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("reading workspace directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}

// PathFor returns the file path of the named workspace in dir
func PathFor(dir, name string) string {
	if filepath.Ext(name) != Extension {
		name += Extension
	}
	return filepath.Join(dir, name)
}

// Close releases the connection. Calling Close again is a no-op.
func (db *DB) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true
	db.session = models.Session{}

	if err := db.conn.Close(); err != nil {
		db.logger.Error("error closing workspace", "path", db.path, "error", err)
		return fmt.Errorf("%w: closing workspace: %v", ErrIO, err)
	}
	db.logger.Info("workspace closed", "path", db.path)
	return nil
}

// Path returns the file the workspace was opened from
func (db *DB) Path() string {
	return db.path
}

// Session returns a copy of the current session state
func (db *DB) Session() models.Session {
	return db.session
}

func (db *DB) requireAuth() error {
	if !db.session.Authenticated {
		return ErrNotAuthenticated
	}
	return nil
}

func (db *DB) requireProject() error {
	if err := db.requireAuth(); err != nil {
		return err
	}
	if !db.session.HasProject() {
		return ErrNoProject
	}
	return nil
}

// withTx runs fn in a transaction, committing only if fn succeeds
func (db *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// likePattern builds a LIKE pattern matching s as a literal substring
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
