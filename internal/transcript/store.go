// Package transcript records evaluated source and its outcome in a SQL
// database. Supported drivers are sqlite3, mysql and postgres.
package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pangea/internal/object"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var ErrUnsupportedDriver = errors.New("unsupported transcript driver")

var ddl = map[string]string{
	"sqlite3": `CREATE TABLE IF NOT EXISTS transcript (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session TEXT NOT NULL,
	source TEXT NOT NULL,
	result TEXT,
	result_cbor BLOB,
	error TEXT,
	created_at TIMESTAMP NOT NULL
)`,
	"mysql": `CREATE TABLE IF NOT EXISTS transcript (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	session VARCHAR(64) NOT NULL,
	source TEXT NOT NULL,
	result TEXT,
	result_cbor BLOB,
	error TEXT,
	created_at DATETIME(6) NOT NULL
)`,
	"postgres": `CREATE TABLE IF NOT EXISTS transcript (
	id BIGSERIAL PRIMARY KEY,
	session TEXT NOT NULL,
	source TEXT NOT NULL,
	result TEXT,
	result_cbor BYTEA,
	error TEXT,
	created_at TIMESTAMPTZ NOT NULL
)`,
}

// Entry is one evaluated input.
type Entry struct {
	ID        int64
	Session   string
	Source    string
	Result    string // canonical string form, empty on error
	CBOR      []byte
	Error     string
	CreatedAt time.Time
}

// NewEntry captures the outcome of evaluating source.
func NewEntry(session, source string, result object.Object, evalErr error) (Entry, error) {
	e := Entry{Session: session, Source: source, CreatedAt: time.Now().UTC()}
	if evalErr != nil {
		e.Error = evalErr.Error()
		return e, nil
	}
	e.Result = object.Inspect(result)
	data, err := object.EncodeCBOR(result)
	if err != nil {
		return e, err
	}
	e.CBOR = data
	return e, nil
}

// Value decodes the stored result. Function references are resolved
// through lookup, which may be nil.
func (e Entry) Value(lookup func(name string) *object.FunctionEntry) (object.Object, error) {
	if len(e.CBOR) == 0 {
		return object.NULL, nil
	}
	return object.DecodeCBOR(e.CBOR, lookup)
}

type Store struct {
	db     *sql.DB
	driver string
}

func Open(driver, dsn string) (*Store, error) {
	if _, ok := ddl[driver]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if driver == "sqlite3" {
		// an in-memory database lives only as long as its connection
		db.SetMaxOpenConns(1)
	}
	return &Store{db: db, driver: driver}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, ddl[s.driver]); err != nil {
		return fmt.Errorf("migrate transcript: %w", err)
	}
	return nil
}

func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO transcript (session, source, result, result_cbor, error, created_at)
VALUES (?, ?, ?, ?, ?, ?)`
	args := []any{e.Session, e.Source, nullable(e.Result), e.CBOR, nullable(e.Error), e.CreatedAt}

	if s.driver == "postgres" {
		// lib/pq does not report LastInsertId
		var id int64
		err := s.db.QueryRowContext(ctx, s.rebind(query)+" RETURNING id", args...).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("record transcript: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("record transcript: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to n entries of a session, newest first.
func (s *Store) Recent(ctx context.Context, session string, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	query := s.rebind(`SELECT id, session, source, result, result_cbor, error, created_at
FROM transcript WHERE session = ? ORDER BY id DESC LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, query, session, n)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			result sql.NullString
			errStr sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Session, &e.Source, &result, &e.CBOR, &errStr, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		e.Result = result.String
		e.Error = errStr.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $1, $2, ... for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
