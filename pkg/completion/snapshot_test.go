package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplite/pkg/completion"
)

func TestSnapshotColumnsCaseInsensitive(t *testing.T) {
	snap := testSnapshot()
	require.Equal(t, snap.Columns("Users"), snap.Columns("users"))
	require.Equal(t, snap.Columns("Users"), snap.Columns("USERS"))
	assert.Nil(t, snap.Columns("missing"))
}

func TestSnapshotCopiesInputs(t *testing.T) {
	tables := map[string][]string{"t": {"a", "b"}}
	indexes := []string{"i1"}
	snap := completion.NewSnapshot(tables, nil, indexes, nil, nil)

	tables["t"][0] = "mutated"
	tables["extra"] = []string{"x"}
	indexes[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, snap.Columns("t"))
	assert.Equal(t, []string{"t"}, snap.Tables())
	assert.Equal(t, []string{"i1"}, snap.Indexes())

	// Returned slices are copies too.
	cols := snap.Columns("t")
	cols[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, snap.Columns("t"))
}

func TestSnapshotRelations(t *testing.T) {
	snap := testSnapshot()
	assert.Equal(t, []string{"customers", "order_totals", "orders", "Users"}, snap.Relations())
	assert.Equal(t, []string{"customers", "orders", "Users"}, snap.Tables())
	assert.Equal(t, []string{"order_totals"}, snap.Views())
}

func TestSnapshotEmpty(t *testing.T) {
	assert.True(t, completion.EmptySnapshot().Empty())
	assert.False(t, testSnapshot().Empty())
	assert.Empty(t, completion.EmptySnapshot().Tables())
}
