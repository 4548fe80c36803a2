package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []any
}

type recordingExecer struct {
	calls  []execCall
	failAt int
}

func (e *recordingExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	e.calls = append(e.calls, execCall{query: query, args: args})
	if e.failAt > 0 && len(e.calls) == e.failAt {
		return nil, errors.New("connection reset")
	}
	return driver.RowsAffected(0), nil
}

func rankingModels(n int) []powerRankingTableModel {
	out := make([]powerRankingTableModel, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, powerRankingTableModel{ScopeID: 2, Gameweek: i/4 + 1, TeamID: int64(10 + i%4), Rank: i%4 + 1})
	}
	return out
}

func TestReplaceScopeRows_InsertsInBatches(t *testing.T) {
	db := &recordingExecer{}
	models := rankingModels(2*insertBatchSize + 7)

	require.NoError(t, replaceScopeRows(context.Background(), db, "power_rankings", 2, models))

	require.Len(t, db.calls, 4)
	assert.Equal(t, "DELETE FROM power_rankings WHERE scope_id = $1", db.calls[0].query)

	columns := 7
	wantRows := []int{insertBatchSize, insertBatchSize, 7}
	for i, want := range wantRows {
		call := db.calls[i+1]
		assert.True(t, strings.HasPrefix(call.query, "INSERT INTO power_rankings "), call.query)
		assert.Len(t, call.args, want*columns)
		assert.Less(t, len(call.args), 65535)
	}
	// Placeholders restart in every batch.
	assert.Contains(t, db.calls[3].query, "VALUES ($1, $2,")
}

func TestReplaceScopeRows_EmptyOnlyClears(t *testing.T) {
	db := &recordingExecer{}
	require.NoError(t, replaceScopeRows[powerRankingTableModel](context.Background(), db, "power_rankings", 2, nil))
	require.Len(t, db.calls, 1)
}

func TestReplaceScopeRows_StopsAtFailedBatch(t *testing.T) {
	db := &recordingExecer{failAt: 2}
	err := replaceScopeRows(context.Background(), db, "power_rankings", 2, rankingModels(insertBatchSize+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows=0..499")
	assert.Len(t, db.calls, 2)
}
