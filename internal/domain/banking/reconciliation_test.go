package banking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReconciliation(t *testing.T, lines int) *Reconciliation {
	t.Helper()
	recon, err := NewReconciliation(uuid.New(), uuid.New(), uuid.New(), uuid.New(), lines)
	require.NoError(t, err)
	return recon
}

func TestNewReconciliation(t *testing.T) {
	recon := newTestReconciliation(t, 5)

	assert.Equal(t, ReconciliationInProgress, recon.State)
	assert.Equal(t, 5, recon.TotalCount)
	assert.Equal(t, 0, recon.MatchedCount)
	assert.Equal(t, 5, recon.OutstandingCount)

	_, err := NewReconciliation(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 0)
	assert.Error(t, err, "no lines")
}

func TestReconciliation_RecordMatch(t *testing.T) {
	recon := newTestReconciliation(t, 2)
	entryID := uuid.New()

	require.NoError(t, recon.RecordMatch(entryID))
	assert.Equal(t, 1, recon.MatchedCount)
	assert.Equal(t, 1, recon.OutstandingCount)
	assert.True(t, recon.ClearedEntryIDs.Contains(entryID))

	t.Run("duplicate entry is a no-op", func(t *testing.T) {
		require.NoError(t, recon.RecordMatch(entryID))
		assert.Equal(t, 1, recon.MatchedCount)
	})

	t.Run("counters always sum to total", func(t *testing.T) {
		require.NoError(t, recon.RecordMatch(uuid.New()))
		assert.Equal(t, recon.TotalCount, recon.MatchedCount+recon.OutstandingCount)
	})

	t.Run("rejects beyond total", func(t *testing.T) {
		assert.Error(t, recon.RecordMatch(uuid.New()))
	})
}

func TestReconciliation_RecordUnmatch(t *testing.T) {
	recon := newTestReconciliation(t, 3)
	entryID := uuid.New()
	require.NoError(t, recon.RecordMatch(entryID))

	require.NoError(t, recon.RecordUnmatch(entryID))
	assert.Equal(t, 0, recon.MatchedCount)
	assert.Equal(t, 3, recon.OutstandingCount)
	assert.False(t, recon.ClearedEntryIDs.Contains(entryID))

	assert.Error(t, recon.RecordUnmatch(uuid.New()), "unknown entry")
}

func TestReconciliation_Complete(t *testing.T) {
	recon := newTestReconciliation(t, 2)
	require.NoError(t, recon.RecordMatch(uuid.New()))

	userID := uuid.New()
	require.NoError(t, recon.Complete(userID, "period closed with one outstanding"))

	assert.True(t, recon.IsCompleted())
	assert.Equal(t, 1, recon.OutstandingCount, "outstanding lines are allowed at completion")
	assert.Equal(t, userID, *recon.CompletedBy)
	require.Len(t, recon.GetDomainEvents(), 1)
	assert.Equal(t, "ReconciliationCompleted", recon.GetDomainEvents()[0].EventType())

	t.Run("complete again is a no-op", func(t *testing.T) {
		recon.ClearDomainEvents()
		require.NoError(t, recon.Complete(userID, ""))
		assert.Empty(t, recon.GetDomainEvents())
	})

	t.Run("matching after completion fails", func(t *testing.T) {
		assert.Error(t, recon.RecordMatch(uuid.New()))
	})
}

func TestReconciliation_Rebuild(t *testing.T) {
	statement := newTestStatement(t)
	require.NoError(t, statement.BeginReconciliation())

	recon, err := NewReconciliation(statement.TenantID, statement.ID, statement.AccountID, uuid.New(), len(statement.Lines))
	require.NoError(t, err)

	// Simulate drift: line matched on the statement but never recorded on
	// the reconciliation.
	entryID := uuid.New()
	require.NoError(t, statement.MatchLine(statement.Lines[0].ID, entryID, false))

	require.NoError(t, recon.Rebuild(statement))

	assert.Equal(t, 2, recon.TotalCount)
	assert.Equal(t, 1, recon.MatchedCount)
	assert.Equal(t, 1, recon.OutstandingCount)
	assert.True(t, recon.ClearedEntryIDs.Contains(entryID))

	t.Run("rejects foreign statement", func(t *testing.T) {
		other := newTestStatement(t)
		assert.Error(t, recon.Rebuild(other))
	})
}
