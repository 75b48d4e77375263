package dbmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM reservations"))
	assert.Equal(t, "insert", operation("  INSERT INTO absences (worker_id) VALUES ($1)"))
	assert.Equal(t, "update", operation("update reservations\nset status = $1"))
	assert.Equal(t, "other", operation("WITH x AS (SELECT 1) SELECT * FROM x"))
}

func TestGetExecutor_PrefersTransaction(t *testing.T) {
	var base DBExecutor = &PlainDB{}
	ctx := context.Background()

	assert.Same(t, base, GetExecutor(ctx, base))
	assert.False(t, IsInTransaction(ctx))

	txExec := &SqlTxWrapper{}
	txCtx := WithTx(ctx, txExec)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, txExec, GetExecutor(txCtx, base))
}
