package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"farmboard/pkg/domain"
)

// Dialect selects placeholder style and payload column type.
type Dialect string

// Supported SQL dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const (
	defaultSQLitePath  = "farmboard.db"
	defaultPostgresDSN = "postgres://localhost/farmboard?sslmode=disable"
)

// SQLSource reads and writes the seed table:
//
//	seed(bucket TEXT PRIMARY KEY, payload TEXT|JSONB)
type SQLSource struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// ensures the seed table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLSource, error) {
	if path == "" {
		path = defaultSQLitePath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newSQLSource(ctx, db, DialectSQLite)
}

// OpenPostgres connects through the pgx stdlib driver and ensures the seed
// table exists.
func OpenPostgres(ctx context.Context, dsn string) (*SQLSource, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLSource(ctx, db, DialectPostgres)
}

func newSQLSource(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLSource, error) {
	s := &SQLSource{db: db, dialect: dialect}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLSource) ensureTable(ctx context.Context) error {
	payloadType := "TEXT"
	if s.dialect == DialectPostgres {
		payloadType = "JSONB"
	}
	ddl := `CREATE TABLE IF NOT EXISTS seed (
		bucket TEXT PRIMARY KEY,
		payload ` + payloadType + ` NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure seed table: %w", err)
	}
	return nil
}

// Name implements Source.
func (s *SQLSource) Name() string { return string(s.dialect) }

// Close releases the database handle.
func (s *SQLSource) Close() error { return s.db.Close() }

// Load implements Source. An empty table yields an empty dataset.
func (s *SQLSource) Load(ctx context.Context) (domain.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM seed`)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("select seed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	payloads := make(map[Bucket][]byte, len(Buckets))
	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return domain.Dataset{}, fmt.Errorf("scan seed: %w", err)
		}
		payloads[Bucket(bucket)] = payload
	}
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("iterate seed: %w", err)
	}
	return decode(payloads)
}

// Write implements Writer, upserting every bucket in one transaction.
func (s *SQLSource) Write(ctx context.Context, ds domain.Dataset) (retErr error) {
	payloads, err := encode(ds)
	if err != nil {
		return err
	}
	upsert := `INSERT INTO seed(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`
	if s.dialect == DialectPostgres {
		upsert = `INSERT INTO seed(bucket, payload) VALUES($1, $2::jsonb) ON CONFLICT(bucket) DO UPDATE SET payload = EXCLUDED.payload`
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed write: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, b := range Buckets {
		if _, err := tx.ExecContext(ctx, upsert, string(b), string(payloads[b])); err != nil {
			return fmt.Errorf("upsert %s: %w", b, err)
		}
	}
	return tx.Commit()
}
