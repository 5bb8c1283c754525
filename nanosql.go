// Package nanosql is an embeddable, in-memory SQL engine: a lexer, parser,
// expression evaluator, and statement executor covering a substantial
// subset of DDL, DML, and SELECT, with no persistence and no network
// surface of its own.
//
// # Quick start
//
//	db := nanosql.NewDB()
//	if _, err := db.Exec(`CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(64))`); err != nil {
//		log.Fatal(err)
//	}
//	if _, err := db.Exec(`INSERT INTO users (id, name) VALUES (1, 'ada')`); err != nil {
//		log.Fatal(err)
//	}
//	res, err := db.Query(`SELECT name FROM users WHERE id = 1`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Columns, res.Rows)
//
// # Concurrency
//
// A DB does not serialize statements. The catalog's tenant map is guarded
// by a lock for each table lookup, registration and removal, but a
// statement reads and mutates its tables without holding any lock, so
// callers sharing a DB (or its WithTenant handles) across goroutines must
// serialize statements themselves. Multi-row
// INSERT/UPDATE/DELETE are not atomic across rows; a constraint violation
// partway through leaves whatever rows were already written in place.
//
// # Tenancy
//
// A single DB can host more than one isolated namespace of tables. Use
// WithTenant to scope a query to a tenant other than "default".
package nanosql

import (
	"io"

	"github.com/google/uuid"

	"github.com/nanosql/nanosql/internal/config"
	"github.com/nanosql/nanosql/internal/csvimport"
	"github.com/nanosql/nanosql/internal/engine"
	"github.com/nanosql/nanosql/internal/enginelog"
	"github.com/nanosql/nanosql/internal/storage"
)

// ResultSet is the columnar output of a query.
type ResultSet = engine.ResultSet

// SQLError is the one error type every fallible operation in this module
// returns. Offset is a byte offset into the original SQL text, or -1 when
// no specific location applies.
type SQLError = engine.SQLError

// DB is an embeddable SQL database: a catalog of tables plus a compiled
// statement cache, addressed by tenant namespace.
type DB struct {
	storage *storage.Database
	cache   *engine.QueryCache
	tenant  string
	log     *enginelog.Logger
}

// NewDB returns a DB configured with config.Default().
func NewDB() *DB {
	return NewDBWithConfig(config.Default())
}

// NewDBWithConfig returns a DB configured from cfg.
func NewDBWithConfig(cfg config.Config) *DB {
	cache, err := engine.NewQueryCache(cfg.QueryCacheSize)
	if err != nil {
		cache, _ = engine.NewQueryCache(128)
	}
	return &DB{
		storage: storage.NewDatabase(),
		cache:   cache,
		tenant:  cfg.Tenant,
		log:     enginelog.New(cfg.LogLevelValue()),
	}
}

// WithTenant returns a DB handle scoped to a different tenant namespace
// within the same underlying catalog and cache.
func (db *DB) WithTenant(tenant string) *DB {
	return &DB{storage: db.storage, cache: db.cache, tenant: tenant, log: db.log}
}

func (db *DB) env() *engine.ExecEnv {
	return &engine.ExecEnv{DB: db.storage, Tenant: db.tenant}
}

// Exec runs a non-SELECT statement (DDL or DML) and returns the number of
// rows it affected (0 for DDL).
func (db *DB) Exec(sql string) (int, error) {
	reqID := uuid.New()
	cq, err := db.cache.Compile(sql)
	if err != nil {
		db.log.Warnf("request %s: parse error: %v", reqID, err)
		return 0, err
	}
	res, err := engine.Execute(db.env(), cq.Stmt)
	if err != nil {
		db.log.Warnf("request %s: exec error: %v", reqID, err)
		return 0, err
	}
	db.log.Debugf("request %s: ok, %d rows affected", reqID, res.RowsAffected)
	return res.RowsAffected, nil
}

// Query runs a SELECT statement and returns its result set.
func (db *DB) Query(sql string) (*ResultSet, error) {
	reqID := uuid.New()
	cq, err := db.cache.Compile(sql)
	if err != nil {
		db.log.Warnf("request %s: parse error: %v", reqID, err)
		return nil, err
	}
	res, err := engine.Execute(db.env(), cq.Stmt)
	if err != nil {
		db.log.Warnf("request %s: exec error: %v", reqID, err)
		return nil, err
	}
	if res.Rows == nil {
		return nil, &SQLError{Message: "statement did not produce a result set", Offset: -1}
	}
	db.log.Debugf("request %s: ok, %d rows", reqID, len(res.Rows.Rows))
	return res.Rows, nil
}

// ListTables returns the sorted names of every table registered for this
// DB's tenant.
func (db *DB) ListTables() []string {
	return db.storage.ListTables(db.tenant)
}

// ImportCSV bulk-loads CSV data from r into a new table named table,
// registering it under this DB's tenant.
func (db *DB) ImportCSV(table string, r io.Reader) error {
	tbl, err := csvimport.Import(table, r)
	if err != nil {
		return &SQLError{Message: err.Error(), Offset: -1}
	}
	db.storage.Put(db.tenant, tbl)
	return nil
}
