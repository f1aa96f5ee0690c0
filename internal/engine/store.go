package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-calendar/internal/config"
)

// EventStore owns the event list and its persisted copy.
// The list is append-only; every write replaces the whole blob.
type EventStore struct {
	Storage Storage
	Clock   Clock

	// Defaults is the seed set merged into every load. Nil means DefaultEvents().
	Defaults []Event

	mu     sync.RWMutex
	events []Event
}

// NewEventStore wires a store to its storage backend and clock.
func NewEventStore(storage Storage, clock Clock) *EventStore {
	if clock == nil {
		clock = RealClock{}
	}
	return &EventStore{
		Storage: storage,
		Clock:   clock,
	}
}

func (s *EventStore) defaults() []Event {
	if s.Defaults == nil {
		return DefaultEvents()
	}
	out := make([]Event, len(s.Defaults))
	copy(out, s.Defaults)
	return out
}

// Load reads the persisted events and merges in the seed set.
// Absent, empty or malformed data seeds the storage with the defaults.
// Defaults never overwrite or duplicate a persisted (date, title) pair.
// The merged list is written back only when the merge changed it.
func (s *EventStore) Load() []Event {
	log := slog.With(config.LogKeyComponent, config.CompStore)

	s.mu.Lock()
	defer s.mu.Unlock()

	persisted, ok := s.readLocked(log)
	if !ok || len(persisted) == 0 {
		log.Info(config.MsgStoreSeeded)
		s.events = s.defaults()
		if err := s.writeLocked(); err != nil {
			log.Error(config.ErrStoreWrite, config.LogKeyError, err)
		}
		return s.snapshotLocked()
	}

	changed := false
	for i := range persisted {
		if persisted[i].UID == "" {
			persisted[i].UID = stableUID(persisted[i], i)
			changed = true
		}
	}

	merged := persisted
	added := 0
	for _, d := range s.defaults() {
		if containsIdentity(persisted, d) {
			continue
		}
		merged = append(merged, d)
		added++
	}
	s.events = merged

	log.Info(config.MsgStoreLoaded,
		config.LogKeyCount, len(merged),
		config.LogKeyDefaults, added)

	if changed || added > 0 {
		if err := s.writeLocked(); err != nil {
			log.Error(config.ErrStoreWrite, config.LogKeyError, err)
		}
	}
	return s.snapshotLocked()
}

// readLocked decodes the blob. ok is false when it is missing or unusable.
func (s *EventStore) readLocked(log *slog.Logger) ([]Event, bool) {
	if s.Storage == nil {
		return nil, false
	}
	blob, err := s.Storage.Get(config.StorageKey)
	if err != nil {
		log.Warn(config.ErrStoreRead, config.LogKeyError, err)
		return nil, false
	}
	if len(blob) == 0 {
		return nil, false
	}
	var events []Event
	if err := json.Unmarshal(blob, &events); err != nil {
		log.Warn(config.MsgStoreMalformed,
			config.LogKeyError, err,
			config.LogKeySizeBytes, len(blob))
		return nil, false
	}
	return events, true
}

func (s *EventStore) writeLocked() error {
	if s.Storage == nil {
		return nil
	}
	events := s.events
	if events == nil {
		events = []Event{}
	}
	blob, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return s.Storage.Set(config.StorageKey, blob)
}

func (s *EventStore) snapshotLocked() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// prepareLocked fixes the color and UID of a new event.
// The color is taken from the palette by the list length at creation time.
func (s *EventStore) prepareLocked(e Event) Event {
	if e.Color == "" {
		e.Color = paletteColor(len(s.events))
	}
	if e.UID == "" {
		e.UID = uuid.NewString()
	}
	return e
}

// Add appends one event and persists the full list.
// A blank title is ignored. A persistence error is returned but the event
// stays in the in-memory list.
func (s *EventStore) Add(e Event) ([]Event, error) {
	log := slog.With(config.LogKeyComponent, config.CompStore)

	if strings.TrimSpace(e.Title) == "" {
		log.Debug(config.MsgEventRejected, config.LogKeyDate, e.Date)
		return s.Events(), nil
	}
	if _, err := ParseDate(e.Date, time.Local); err != nil {
		return s.Events(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e = s.prepareLocked(e)
	s.events = append(s.events, e)
	log.Info(config.MsgEventAdded,
		config.LogKeyTitle, e.Title,
		config.LogKeyDate, e.Date,
		config.LogKeyCount, len(s.events))

	if err := s.writeLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	return s.snapshotLocked(), nil
}

// Merge appends every event whose (date, title) pair is not yet stored and
// whose UID, when set, is not already taken. It persists once. It returns the new list and how many events were added.
func (s *EventStore) Merge(events []Event) ([]Event, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, e := range events {
		if strings.TrimSpace(e.Title) == "" || containsIdentity(s.events, e) || containsUID(s.events, e.UID) {
			continue
		}
		s.events = append(s.events, s.prepareLocked(e))
		added++
	}
	if added == 0 {
		return s.snapshotLocked(), 0, nil
	}

	slog.Info(config.MsgEventsMerged,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyAdded, added,
		config.LogKeyCount, len(s.events))

	if err := s.writeLocked(); err != nil {
		return s.snapshotLocked(), added, err
	}
	return s.snapshotLocked(), added, nil
}

// Events returns a copy of the current list.
func (s *EventStore) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// EventsOn returns the events whose date equals date exactly, in insertion order.
func (s *EventStore) EventsOn(date string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// Upcoming returns at most limit events dated today or later, oldest first.
// Events sharing a date keep their list order.
func (s *EventStore) Upcoming(limit int) []Event {
	if limit <= 0 {
		return nil
	}

	today := Today(s.Clock)
	loc := today.Location()

	type dated struct {
		day   time.Time
		event Event
	}

	s.mu.RLock()
	candidates := make([]dated, 0, len(s.events))
	for _, e := range s.events {
		day, ok := e.Day(loc)
		if !ok || day.Before(today) {
			continue
		}
		candidates = append(candidates, dated{day: day, event: e})
	}
	s.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].day.Before(candidates[j].day)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Event, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.event)
	}
	return out
}

// CountOn returns how many events fall on date.
func (s *EventStore) CountOn(date string) int {
	return len(s.EventsOn(date))
}

// containsUID matches imported events across retitling, e.g. after a language change.
func containsUID(events []Event, uid string) bool {
	if uid == "" {
		return false
	}
	for _, existing := range events {
		if existing.UID == uid {
			return true
		}
	}
	return false
}

func containsIdentity(events []Event, e Event) bool {
	for _, existing := range events {
		if existing.sameIdentity(e) {
			return true
		}
	}
	return false
}
