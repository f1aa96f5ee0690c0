package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/tartampluch/go-calendar/internal/config"
)

// ImportConfig describes where birthdays are imported from.
type ImportConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Absolute path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Merger receives imported events. *EventStore implements it.
type Merger interface {
	Merge(events []Event) ([]Event, int, error)
}

// Importer turns a vCard address book into birthday events.
type Importer struct {
	Clock   Clock        // Interface for time mocking.
	Fetcher VCardFetcher // Interface for network abstraction.

	// FormatTitle lets the UI inject localized event titles.
	FormatTitle func(name string, age int, yearKnown bool) string
}

// Sync imports the birthdays and merges them into dst.
// It returns how many events were new.
func (im *Importer) Sync(ctx context.Context, cfg ImportConfig, dst Merger) (int, error) {
	events, err := im.Run(ctx, cfg)
	if err != nil {
		return 0, err
	}
	_, added, err := dst.Merge(events)
	return added, err
}

// Run fetches and parses the address book. Each contact with a birthday yields
// one event per year from last year up to its next occurrence, never before the birth year.
func (im *Importer) Run(ctx context.Context, cfg ImportConfig) ([]Event, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events, err := im.decode(ctx, reader)
	if err == nil {
		log.Debug(config.MsgImportDone, config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return events, err
}

func (im *Importer) acquireStream(ctx context.Context, cfg ImportConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

func (im *Importer) decode(ctx context.Context, r io.Reader) ([]Event, error) {
	clock := im.Clock
	if clock == nil {
		clock = RealClock{}
	}
	now := clock.Now()

	decoder := vcard.NewDecoder(r)
	stats := struct{ processed, withBday int }{}
	var events []Event

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyValue, bday.Value)
			continue
		}
		stats.withBday++

		// FN > N > fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil {
			name = n.Value
		}

		events = append(events, im.birthdayEvents(name, birthDate, yearKnown, now)...)
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompImporter,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyCount, len(events)),
		),
	)
	return events, nil
}

// birthdayEvents builds the events from last year to the next occurrence.
func (im *Importer) birthdayEvents(name string, birthDate time.Time, yearKnown bool, now time.Time) []Event {
	loc := now.Location()
	next, _ := calculateNextOccurrence(now, birthDate, yearKnown)
	uidBase := uuid.NewSHA1(uidNamespace, []byte(name+"|"+birthDate.Format(config.DateFormatISO)))

	var events []Event
	for y := now.Year() - 1; y <= next.Year(); y++ {
		if yearKnown && y < birthDate.Year() {
			continue
		}
		age := 0
		if yearKnown {
			age = y - birthDate.Year()
		}

		title := fmt.Sprintf(config.FallbackSummary, name)
		if im.FormatTitle != nil {
			title = im.FormatTitle(name, age, yearKnown && age >= 0)
		}

		// Feb 29 lands on Mar 1 in common years.
		day := time.Date(y, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
		events = append(events, Event{
			UID:   uuid.NewSHA1(uidBase, []byte(fmt.Sprint(y))).String(),
			Title: title,
			Date:  FormatDate(day),
		})
	}
	return events
}

// calculateNextOccurrence determines the next birthday date relative to 'now'.
func calculateNextOccurrence(now time.Time, birthDate time.Time, yearKnown bool) (time.Time, int) {
	currentYear := now.Year()
	loc := now.Location()

	// time.Date normalizes Feb 29 to March 1st in common years.
	candidate := time.Date(currentYear, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(StartOfDay(now)) {
		candidate = time.Date(currentYear+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}

	ageNext := 0
	if yearKnown {
		ageNext = candidate.Year() - birthDate.Year()
	}

	return candidate, ageNext
}

// parseDate handles various vCard date formats.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated vCard dates carry no year; a leap year keeps --02-29 valid.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
