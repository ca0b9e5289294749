package sessionstore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const week = 168 * time.Hour

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	saved := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return saved }

	state := &State{
		Cookies: []Cookie{
			{Name: "sessionid", Value: "abc", Domain: ".example.com", Path: "/", HTTPOnly: true},
		},
		Storage: map[string]string{"token": "xyz"},
		URL:     "https://example.com/creator",
	}
	require.NoError(t, store.Save("douyin", state, week))

	loaded, err := store.Load("douyin")
	require.NoError(t, err)

	assert.Equal(t, "douyin", loaded.Platform)
	assert.Equal(t, state.Cookies, loaded.Cookies)
	assert.Equal(t, state.Storage, loaded.Storage)
	assert.Equal(t, state.URL, loaded.URL)
	assert.True(t, loaded.SavedAt.Equal(saved))
	assert.True(t, loaded.ExpiresAt.Equal(saved.Add(week)))
}

func TestLoad_Missing(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("douyin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_Overwrites(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("douyin", &State{URL: "first"}, week))
	require.NoError(t, store.Save("douyin", &State{URL: "second"}, week))

	loaded, err := store.Load("douyin")
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.URL)
}

func TestIsValid_AgeBoundary(t *testing.T) {
	saved := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one hour before expiry", saved.Add(167 * time.Hour), true},
		{"exactly at max age", saved.Add(168 * time.Hour), true},
		{"one hour past expiry", saved.Add(169 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(t.TempDir())
			require.NoError(t, err)

			store.now = func() time.Time { return saved }
			require.NoError(t, store.Save("douyin", &State{}, week))

			store.now = func() time.Time { return tt.now }
			assert.Equal(t, tt.want, store.IsValid("douyin", week))
		})
	}
}

func TestIsValid_NoRecord(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	assert.False(t, store.IsValid("douyin", week))
}

func TestClear(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("douyin", &State{}, week))
	require.NoError(t, store.Clear("douyin"))

	_, err = store.Load("douyin")
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing an absent record is a no-op.
	assert.NoError(t, store.Clear("douyin"))
}

func TestPathFor_RejectsSeparators(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("../escape")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = store.Save("", &State{}, week)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	platforms, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, platforms)

	require.NoError(t, store.Save("douyin", &State{}, week))
	require.NoError(t, store.Save("bilibili", &State{}, week))

	platforms, err = store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"douyin", "bilibili"}, platforms)
}

func TestSave_ConcurrentSamePlatform(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save("douyin", &State{URL: "https://example.com"}, week))
		}()
	}
	wg.Wait()

	loaded, err := store.Load("douyin")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", loaded.URL)
}
