// Package executor runs raw queries and feeds their rows to the serializer.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/satishbabariya/query-serializer/internal/debug"
	"github.com/satishbabariya/query-serializer/query/serializer"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Executor executes queries against one database handle
type Executor struct {
	db        *sql.DB
	q         queryer
	provider  string
	stmtCache map[string]*sql.Stmt
	cacheMu   sync.RWMutex
}

// NewExecutor creates a new query executor
func NewExecutor(db *sql.DB, provider string) *Executor {
	return &Executor{
		db:        db,
		q:         db,
		provider:  NormalizeProvider(provider),
		stmtCache: make(map[string]*sql.Stmt),
	}
}

// NewTxExecutor creates an executor whose queries run inside tx
func NewTxExecutor(tx *sql.Tx, provider string) *Executor {
	return &Executor{
		q:         tx,
		provider:  NormalizeProvider(provider),
		stmtCache: make(map[string]*sql.Stmt),
	}
}

// Provider returns the normalized provider name
func (e *Executor) Provider() string {
	return e.provider
}

// DB returns the database handle, nil for transaction executors
func (e *Executor) DB() *sql.DB {
	return e.db
}

// getCachedStmt gets a cached prepared statement or creates a new one
func (e *Executor) getCachedStmt(ctx context.Context, query string) (*sql.Stmt, error) {
	e.cacheMu.RLock()
	stmt, ok := e.stmtCache[query]
	e.cacheMu.RUnlock()

	if ok && stmt != nil {
		return stmt, nil
	}

	stmt, err := e.q.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	// Another caller may have prepared the same query meanwhile; keep theirs
	if cached, ok := e.stmtCache[query]; ok && cached != nil {
		stmt.Close()
		return cached, nil
	}
	e.stmtCache[query] = stmt

	return stmt, nil
}

// ClearStmtCache closes and forgets all prepared statements
func (e *Executor) ClearStmtCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	for _, stmt := range e.stmtCache {
		stmt.Close()
	}
	e.stmtCache = make(map[string]*sql.Stmt)
}

// Close releases prepared statements and closes the database handle
func (e *Executor) Close() error {
	e.ClearStmtCache()
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Query runs query with params and returns a cursor over its rows. For
// postgres, ? placeholders are rebound to $1..$n.
func (e *Executor) Query(ctx context.Context, query string, params ...interface{}) (*Cursor, error) {
	if e.provider == ProviderPostgres {
		query = Rebind(query)
	}
	debug.Debug("executing query", "provider", e.provider, "params", len(params))

	rows, err := e.q.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return newCursor(rows)
}

// QueryPrepared is Query through the prepared statement cache, for query
// texts that are executed repeatedly
func (e *Executor) QueryPrepared(ctx context.Context, query string, params ...interface{}) (*Cursor, error) {
	if e.provider == ProviderPostgres {
		query = Rebind(query)
	}

	stmt, err := e.getCachedStmt(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, params...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return newCursor(rows)
}

// Serialize runs the query of source and serializes its rows with s
func (e *Executor) Serialize(ctx context.Context, source QuerySource, s *serializer.Serializer) ([]*serializer.Object, error) {
	return e.serialize(ctx, source, s, e.Query)
}

// SerializePrepared is Serialize through the prepared statement cache
func (e *Executor) SerializePrepared(ctx context.Context, source QuerySource, s *serializer.Serializer) ([]*serializer.Object, error) {
	return e.serialize(ctx, source, s, e.QueryPrepared)
}

type queryFunc func(ctx context.Context, query string, params ...interface{}) (*Cursor, error)

func (e *Executor) serialize(ctx context.Context, source QuerySource, s *serializer.Serializer, run queryFunc) ([]*serializer.Object, error) {
	query, params, err := source.QueryAndParams()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	cursor, err := run(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	return s.Serialize(cursor.Columns(), cursor)
}
