package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

func TestPrefsStorage_RoundTrip(t *testing.T) {
	a := test.NewApp()
	s := NewPrefsStorage(a.Preferences())

	blob, err := s.Get(config.StorageKey)
	require.NoError(t, err)
	assert.Nil(t, blob, "unknown keys read as absent")

	require.NoError(t, s.Set(config.StorageKey, []byte(`[{"title":"x"}]`)))

	blob, err = s.Get(config.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"x"}]`, string(blob))
}

func TestPrefsStorage_SurvivesRestart(t *testing.T) {
	a := test.NewApp()
	clock := &MockClock{CurrentTime: testNow}

	first := engine.NewEventStore(NewPrefsStorage(a.Preferences()), clock)
	first.Load()
	_, err := first.Add(engine.Event{Title: "Dentist", Date: "2025-06-10", Time: "08:30"})
	require.NoError(t, err)

	second := engine.NewEventStore(NewPrefsStorage(a.Preferences()), clock)
	events := second.Load()

	assert.Len(t, events, 15)
	require.Equal(t, 1, second.CountOn("2025-06-10"))
	got := second.EventsOn("2025-06-10")[0]
	assert.Equal(t, "Dentist", got.Title)
	assert.Equal(t, "08:30", got.Time)
	assert.NotEmpty(t, got.Color)
}
