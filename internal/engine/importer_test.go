package engine_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

func webImporter(t *testing.T, now time.Time, vcards string) *engine.Importer {
	t.Helper()
	f := new(MockFetcher)
	f.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(vcards)), nil)
	t.Cleanup(func() { f.AssertExpectations(t) })
	return &engine.Importer{
		Clock:   MockClock{CurrentTime: now},
		Fetcher: f,
	}
}

var webCfg = engine.ImportConfig{Mode: config.SourceModeWeb, WebURL: "http://test.local"}

func dates(events []engine.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Date)
	}
	return out
}

func TestImporterRun_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte("BEGIN:VCARD\nVERSION:4.0\nFN:John Doe\nBDAY:2000-01-01\nEND:VCARD\n"), 0600))

	im := &engine.Importer{Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}}

	events, err := im.Run(context.Background(), engine.ImportConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: path,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2025-01-01"}, dates(events))
	for _, e := range events {
		assert.Equal(t, "Birthday: John Doe", e.Title)
		assert.NotEmpty(t, e.UID)
	}
}

func TestImporterRun_LeapDayInCommonYear(t *testing.T) {
	vcards := "BEGIN:VCARD\nVERSION:3.0\nFN:Leap Baby\nBDAY:2000-02-29\nEND:VCARD"
	im := webImporter(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), vcards)

	events, err := im.Run(context.Background(), webCfg)

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-29", "2025-03-01"}, dates(events))
}

// TestImporterRun_YearRange checks events run from last year to the next occurrence.
func TestImporterRun_YearRange(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		bday string
		want []string
	}{
		{"AlreadyPassed", "1990-01-01", []string{"2024-01-01", "2025-01-01", "2026-01-01"}},
		{"LaterThisYear", "1990-12-31", []string{"2024-12-31", "2025-12-31"}},
		{"Today", "1990-06-01", []string{"2024-06-01", "2025-06-01"}},
		{"BornThisYear", "2025-05-01", []string{"2025-05-01", "2026-05-01"}},
		{"NotBornYet", "2027-01-01", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vcards := "BEGIN:VCARD\nVERSION:3.0\nFN:Range\nBDAY:" + tt.bday + "\nEND:VCARD"
			events, err := webImporter(t, now, vcards).Run(context.Background(), webCfg)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, events)
				return
			}
			assert.Equal(t, tt.want, dates(events))
		})
	}
}

func TestImporterRun_FormatTitle(t *testing.T) {
	vcards := "BEGIN:VCARD\nVERSION:3.0\nFN:Baby\nBDAY:2025-05-01\nEND:VCARD"
	im := webImporter(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), vcards)
	im.FormatTitle = func(name string, age int, yearKnown bool) string {
		if age == 0 {
			return fmt.Sprintf("Birthday: %s (Birth)", name)
		}
		return fmt.Sprintf("Birthday: %s (%d)", name, age)
	}

	events, err := im.Run(context.Background(), webCfg)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Birthday: Baby (Birth)", events[0].Title)
	assert.Equal(t, "Birthday: Baby (1)", events[1].Title)
}

func TestImporterRun_DateFormats(t *testing.T) {
	tests := []struct {
		name      string
		bdayValue string
		expectEvt bool
	}{
		{"ISO8601", "1990-10-25", true},
		{"Basic", "19901025", true},
		{"RFC3339", "1990-10-25T00:00:00Z", true},
		{"TruncatedDash", "--10-25", true},
		{"TruncatedBasic", "--1025", true},
		{"Garbage", "not-a-date", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vcards := "BEGIN:VCARD\nVERSION:3.0\nFN:Test\nBDAY:" + tt.bdayValue + "\nEND:VCARD"
			events, err := webImporter(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), vcards).
				Run(context.Background(), webCfg)

			require.NoError(t, err)
			if tt.expectEvt {
				assert.NotEmpty(t, events)
			} else {
				assert.Empty(t, events)
			}
		})
	}
}

// TestImporterRun_NameFallback prefers FN, then N, then a placeholder.
func TestImporterRun_NameFallback(t *testing.T) {
	vcards := "BEGIN:VCARD\nVERSION:3.0\nN:Curie;Marie;;;\nBDAY:--11-07\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nBDAY:--11-08\nEND:VCARD\n"
	events, err := webImporter(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), vcards).
		Run(context.Background(), webCfg)

	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Contains(t, events[0].Title, "Curie")
	assert.Equal(t, fmt.Sprintf(config.FallbackSummary, config.FallbackName), events[2].Title)
}

func TestImporterRun_Errors(t *testing.T) {
	netErr := errors.New("network unreachable")

	tests := []struct {
		name    string
		cfg     engine.ImportConfig
		fetcher engine.VCardFetcher
		wantErr string
	}{
		{"EmptyLocalPath", engine.ImportConfig{Mode: config.SourceModeLocal}, nil, config.ErrLocalPathEmpty},
		{"EmptyURL", engine.ImportConfig{Mode: config.SourceModeWeb}, nil, config.ErrWebURLEmpty},
		{"NoFetcher", webCfg, nil, config.ErrFetcherMissing},
		{"UnknownMode", engine.ImportConfig{Mode: "ftp"}, nil, config.ErrModeUnsupport},
		{"Network", webCfg, func() engine.VCardFetcher {
			f := new(MockFetcher)
			f.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, netErr)
			return f
		}(), netErr.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := &engine.Importer{Clock: MockClock{CurrentTime: time.Now()}, Fetcher: tt.fetcher}
			events, err := im.Run(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, events)
		})
	}
}

func TestImporterRun_ContextCancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vcf")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := &engine.Importer{Clock: MockClock{CurrentTime: time.Now()}}
	_, err := im.Run(ctx, engine.ImportConfig{Mode: config.SourceModeLocal, LocalPath: path})

	assert.ErrorIs(t, err, context.Canceled)
}

// TestImporterSync_Idempotent verifies a second import adds nothing and keeps UIDs stable.
func TestImporterSync_Idempotent(t *testing.T) {
	vcards := "BEGIN:VCARD\nVERSION:3.0\nFN:Grace Hopper\nBDAY:1906-12-09\nEND:VCARD"
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	store := engine.NewEventStore(engine.NewMemoryStorage(), MockClock{CurrentTime: now})
	store.Load()
	before := len(store.Events())

	added, err := webImporter(t, now, vcards).Sync(context.Background(), webCfg, store)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	first := store.EventsOn("2025-12-09")
	require.Len(t, first, 1)

	added, err = webImporter(t, now, vcards).Sync(context.Background(), webCfg, store)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Len(t, store.Events(), before+2)
	assert.Equal(t, first, store.EventsOn("2025-12-09"))
}

// TestImporterSync_RetitledBirthdaysAreNotDuplicated re-imports after the summary language changed.
func TestImporterSync_RetitledBirthdaysAreNotDuplicated(t *testing.T) {
	vcards := "BEGIN:VCARD\nVERSION:3.0\nFN:Grace Hopper\nBDAY:1906-12-09\nEND:VCARD"
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	store := engine.NewEventStore(engine.NewMemoryStorage(), MockClock{CurrentTime: now})
	store.Load()

	english := webImporter(t, now, vcards)
	english.FormatTitle = func(name string, age int, _ bool) string {
		return fmt.Sprintf("Birthday: %s (%d)", name, age)
	}
	added, err := english.Sync(context.Background(), webCfg, store)
	require.NoError(t, err)
	require.Equal(t, 2, added)

	french := webImporter(t, now, vcards)
	french.FormatTitle = func(name string, age int, _ bool) string {
		return fmt.Sprintf("Anniversaire : %s (%d)", name, age)
	}
	added, err = french.Sync(context.Background(), webCfg, store)
	require.NoError(t, err)
	assert.Zero(t, added)

	events := store.EventsOn("2025-12-09")
	require.Len(t, events, 1)
	assert.Equal(t, "Birthday: Grace Hopper (119)", events[0].Title)
}
