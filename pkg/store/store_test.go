package store_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/pkg/adapters/blob"
	"github.com/plumehq/plume/pkg/store"
)

type testState struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

func defaultState() testState {
	return testState{Items: []string{}}
}

func TestRehydratesSynchronouslyOnConstruction(t *testing.T) {
	storage := blob.NewMemory()
	require.NoError(t, storage.Set("test-state", `{"items":["a","b"],"count":2}`))

	s := store.New(store.Config{Key: "test-state", Storage: storage}, defaultState())

	// No async gap: the snapshot is visible immediately.
	st := s.GetState()
	assert.Equal(t, []string{"a", "b"}, st.Items)
	assert.Equal(t, 2, st.Count)
}

func TestMalformedSnapshotFallsBackToDefault(t *testing.T) {
	storage := blob.NewMemory()
	require.NoError(t, storage.Set("test-state", `{"items": [truncated`))

	s := store.New(store.Config{Key: "test-state", Storage: storage}, defaultState())

	assert.Equal(t, defaultState(), s.GetState())
}

func TestSetStatePersistsFullSnapshot(t *testing.T) {
	storage := blob.NewMemory()
	s := store.New(store.Config{Key: "test-state", Storage: storage}, defaultState())

	s.SetState(func(st testState) testState {
		st.Items = append(st.Items, "x")
		st.Count = 1
		return st
	})

	raw, err := storage.Get("test-state")
	require.NoError(t, err)

	var stored testState
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, s.GetState(), stored, "deserialize(serialize(s)) must equal s")
}

func TestSubscribeFiresOnlyWhenSelectedSliceChanges(t *testing.T) {
	s := store.New(store.Config{Key: "test-state"}, defaultState())

	var countFires, itemFires int
	s.Subscribe(func(st testState) any { return st.Count }, func(any) { countFires++ })
	s.Subscribe(func(st testState) any { return st.Items }, func(any) { itemFires++ })

	s.SetState(func(st testState) testState {
		st.Items = append([]string{}, "a")
		return st
	})
	assert.Equal(t, 0, countFires, "count selector unchanged, must not fire")
	assert.Equal(t, 1, itemFires)

	s.SetState(func(st testState) testState {
		st.Count = 5
		return st
	})
	assert.Equal(t, 1, countFires)
	assert.Equal(t, 1, itemFires, "items unchanged, must not fire")

	// Structural equality, not reference equality: replacing the slice with
	// an equal copy must not notify.
	s.SetState(func(st testState) testState {
		st.Items = append([]string{}, st.Items...)
		return st
	})
	assert.Equal(t, 1, itemFires)
}

func TestSubscriberReceivesSelectedValue(t *testing.T) {
	s := store.New(store.Config{Key: "test-state"}, defaultState())

	var got any
	s.Subscribe(func(st testState) any { return st.Count }, func(v any) { got = v })

	s.SetState(func(st testState) testState {
		st.Count = 7
		return st
	})
	assert.Equal(t, 7, got)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := store.New(store.Config{Key: "test-state"}, defaultState())

	fires := 0
	unsub := s.Subscribe(func(st testState) any { return st.Count }, func(any) { fires++ })

	s.SetState(func(st testState) testState { st.Count = 1; return st })
	unsub()
	s.SetState(func(st testState) testState { st.Count = 2; return st })

	assert.Equal(t, 1, fires)
}

func TestObserveTypedCallback(t *testing.T) {
	s := store.New(store.Config{Key: "test-state"}, defaultState())

	var got int
	store.Observe(s, func(st testState) int { return st.Count }, func(c int) { got = c })

	s.SetState(func(st testState) testState { st.Count = 42; return st })
	assert.Equal(t, 42, got)
}

// failingStorage simulates a quota-exceeded or disabled medium.
type failingStorage struct {
	writes int
}

func (f *failingStorage) Get(string) (string, error)  { return "", errors.New("storage disabled") }
func (f *failingStorage) Set(string, string) error    { f.writes++; return errors.New("quota exceeded") }
func (f *failingStorage) Delete(string) error         { return nil }

func TestPersistenceFailureDegradesToSessionOnly(t *testing.T) {
	storage := &failingStorage{}
	s := store.New(store.Config{Key: "test-state", Storage: storage}, defaultState())

	fires := 0
	s.Subscribe(func(st testState) any { return st.Count }, func(any) { fires++ })

	// Must not panic, must not surface the error: in-memory state wins.
	s.SetState(func(st testState) testState { st.Count = 9; return st })

	assert.Equal(t, 9, s.GetState().Count)
	assert.Equal(t, 1, fires, "subscribers still fire when persistence fails")
	assert.Equal(t, 1, storage.writes, "a write was attempted")
}

func TestRehydrateReplacesStateAndNotifies(t *testing.T) {
	storage := blob.NewMemory()
	s := store.New(store.Config{Key: "test-state", Storage: storage}, defaultState())

	var got any
	s.Subscribe(func(st testState) any { return st.Count }, func(v any) { got = v })

	// Simulate an external writer replacing the snapshot.
	require.NoError(t, storage.Set("test-state", `{"items":[],"count":3}`))
	s.Rehydrate()

	assert.Equal(t, 3, s.GetState().Count)
	assert.Equal(t, 3, got)
}

func TestRehydrateKeepsStateOnMalformedBlob(t *testing.T) {
	storage := blob.NewMemory()
	s := store.New(store.Config{Key: "test-state", Storage: storage}, defaultState())
	s.SetState(func(st testState) testState { st.Count = 4; return st })

	require.NoError(t, storage.Set("test-state", `not json`))
	s.Rehydrate()

	assert.Equal(t, 4, s.GetState().Count)
}
