package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mesh-intelligence/forge/internal/logging"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// sqliteFileName is the database file created under DataDir when no DSN is set.
const sqliteFileName = "forge.db"

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// recordRow maps a kv_records row for bun.
type recordRow struct {
	bun.BaseModel `bun:"table:kv_records"`
	Key           string    `bun:"record_key,pk"`
	Value         string    `bun:"value,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

// SQL stores records in a single table through bun. It serves the sqlite,
// postgres and mysql backends.
type SQL struct {
	backend string
	db      *bun.DB
	mu      sync.RWMutex
	closed  bool
}

var _ Store = (*SQL)(nil)

// OpenSQL opens the database described by cfg and ensures the records table
// exists. For sqlite an empty DSN means DataDir/forge.db.
func OpenSQL(ctx context.Context, cfg types.Config) (*SQL, error) {
	ddl, ok := schemaDDL[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrBackendUnknown, cfg.Backend)
	}

	dsn := cfg.DSN
	if cfg.Backend == types.BackendSQLite && dsn == "" {
		dir := cfg.DataDir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = filepath.Join(dir, sqliteFileName)
	}

	sqlDB, err := sqlOpenFunc(driverName(cfg.Backend), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Backend, err)
	}
	// An in-memory SQLite database exists per connection; pin the pool to one.
	if cfg.Backend == types.BackendSQLite && dsn == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	if _, err := sqlDB.ExecContext(ctx, ddl); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("create %s: %w", recordsTable, err)
	}

	logging.Debugf("kv: %s store ready", cfg.Backend)
	return &SQL{
		backend: cfg.Backend,
		db:      newBunDB(sqlDB, cfg.Backend),
	}, nil
}

// driverName maps a backend to its database/sql driver. The pgx stdlib
// package registers itself as "pgx".
func driverName(backend string) string {
	switch backend {
	case types.BackendPostgres:
		return "pgx"
	case types.BackendMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// newBunDB wraps sqlDB with the dialect matching backend.
func newBunDB(sqlDB *sql.DB, backend string) *bun.DB {
	switch backend {
	case types.BackendPostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case types.BackendMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// Load implements Store.
func (s *SQL) Load(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, types.ErrStoreClosed
	}

	var row recordRow
	err := s.db.NewSelect().Model(&row).Where("record_key = ?", key).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("loading %s: %w", key, err)
	}
	return row.Value, true, nil
}

// Save implements Store. The row is upserted in one statement.
func (s *SQL) Save(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.ErrStoreClosed
	}

	row := &recordRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	q := s.db.NewInsert().Model(row)
	if s.backend == types.BackendMySQL {
		q = q.On("DUPLICATE KEY UPDATE").
			Set("value = VALUES(value)").
			Set("updated_at = VALUES(updated_at)")
	} else {
		q = q.On("CONFLICT (record_key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at")
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *SQL) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
