package ui

import (
	"fyne.io/fyne/v2"
)

// PrefsStorage keeps event blobs in the fyne application preferences,
// next to the user's settings.
type PrefsStorage struct {
	Preferences fyne.Preferences
}

// NewPrefsStorage wraps the preferences of a fyne app.
func NewPrefsStorage(p fyne.Preferences) *PrefsStorage {
	return &PrefsStorage{Preferences: p}
}

// Get returns nil when the key was never written.
func (s *PrefsStorage) Get(key string) ([]byte, error) {
	v := s.Preferences.String(key)
	if v == "" {
		return nil, nil
	}
	return []byte(v), nil
}

func (s *PrefsStorage) Set(key string, blob []byte) error {
	s.Preferences.SetString(key, string(blob))
	return nil
}
