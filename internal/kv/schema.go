package kv

import "github.com/mesh-intelligence/forge/pkg/types"

// recordsTable holds one row per record key.
const recordsTable = "kv_records"

// Schema DDL per backend. MySQL cannot index an unbounded TEXT key and
// caps TEXT at 64KB, so it gets VARCHAR and LONGTEXT.
const (
	createRecordsSQLite = `CREATE TABLE IF NOT EXISTS kv_records (
    record_key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

	createRecordsPostgres = `CREATE TABLE IF NOT EXISTS kv_records (
    record_key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);`

	createRecordsMySQL = `CREATE TABLE IF NOT EXISTS kv_records (
    record_key VARCHAR(191) NOT NULL PRIMARY KEY,
    value LONGTEXT NOT NULL,
    updated_at DATETIME(6) NOT NULL
);`
)

// schemaDDL maps a backend name to its CREATE TABLE statement.
var schemaDDL = map[string]string{
	types.BackendSQLite:   createRecordsSQLite,
	types.BackendPostgres: createRecordsPostgres,
	types.BackendMySQL:    createRecordsMySQL,
}
