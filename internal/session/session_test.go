package session

import (
	"testing"
	"time"

	"github.com/technolab03/Technolab-dashboard/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_Transitions(t *testing.T) {
	s := State{} // Listing
	assert.False(t, s.IsDetail())

	s = Apply(s, Select{DeviceNumber: 12, ClientName: "Tecnolab Demo"})
	require.True(t, s.IsDetail())
	assert.Equal(t, 12, s.Selection.DeviceNumber)
	assert.Equal(t, "Tecnolab Demo", s.Selection.ClientName)

	// retarget while in Detail
	s = Apply(s, Select{DeviceNumber: 3, ClientName: "Tierras Nobles"})
	assert.Equal(t, 3, s.Selection.DeviceNumber)

	s = Apply(s, Back{})
	assert.False(t, s.IsDetail())

	// back on Listing stays on Listing
	s = Apply(s, Back{})
	assert.False(t, s.IsDetail())
}

func TestStore_CreateDefaultsToTrailing30Days(t *testing.T) {
	store := NewStore()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	sess := store.Create(now)
	require.NotEmpty(t, sess.ID)

	start, end := sess.Range()
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC), end)

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
}

func TestSetRange_ClampsToDayBoundsInclusive(t *testing.T) {
	sess := NewStore().Create(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	day := time.Date(2024, 1, 5, 14, 22, 0, 0, time.UTC)
	sess.SetRange(day, day) // same calendar day must be inclusive on both ends

	start, end := sess.Range()
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 5, 23, 59, 59, 0, time.UTC), end)
}

func TestDateChangeDoesNotResetSelection(t *testing.T) {
	sess := NewStore().Create(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	sess.ApplyEvent(Select{DeviceNumber: 12, ClientName: "Tecnolab Demo"})
	sess.SetRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)

	require.True(t, sess.State().IsDetail())
	assert.Equal(t, 12, sess.State().Selection.DeviceNumber)
}

func TestBackPreservesClientFilter(t *testing.T) {
	sess := NewStore().Create(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	sess.SetClientFilter("Tecnolab Demo")
	sess.ApplyEvent(Select{DeviceNumber: 12, ClientName: "Tecnolab Demo"})
	sess.ApplyEvent(Back{})

	assert.False(t, sess.State().IsDetail())
	assert.Equal(t, "Tecnolab Demo", sess.ClientFilter())
}

func TestSnapshots(t *testing.T) {
	sess := NewStore().Create(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	_, ok := sess.Snapshot("records")
	assert.False(t, ok)

	table := query.Table{Columns: []string{"id"}, Rows: [][]string{{"1"}}}
	sess.SetSnapshot("records", table)

	got, ok := sess.Snapshot("records")
	require.True(t, ok)
	assert.Equal(t, table, got)
}
