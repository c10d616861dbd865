package executor

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCachedStmt_ConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	e, err := Open(ctx, ProviderSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })

	const callers = 16
	stmts := make([]*sql.Stmt, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			stmt, err := e.getCachedStmt(ctx, "SELECT 1")
			assert.NoError(t, err)
			stmts[i] = stmt
		}(i)
	}
	close(start)
	wg.Wait()

	e.cacheMu.RLock()
	cached := e.stmtCache["SELECT 1"]
	size := len(e.stmtCache)
	e.cacheMu.RUnlock()

	assert.Equal(t, 1, size)
	for _, stmt := range stmts {
		assert.Same(t, cached, stmt)
	}

	rows, err := cached.QueryContext(ctx)
	require.NoError(t, err)
	rows.Close()
}
