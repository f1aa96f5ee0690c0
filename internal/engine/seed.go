package engine

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tartampluch/go-calendar/internal/config"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout of a seed file:
//
//	events:
//	  - title: Team Meeting
//	    date: 2025-05-28
//	    time: "10:00"
//	    duration: 1 hour
//	    color: "#1E90FF"
type seedFile struct {
	Events []Event `yaml:"events"`
}

// LoadSeedFile reads a YAML seed set that replaces DefaultEvents.
// Every entry needs a title and a yyyy-MM-dd date. Repeated (date, title)
// pairs keep the first entry. Missing colors are taken from the palette.
func LoadSeedFile(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeedRead, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML seed document. See LoadSeedFile.
func ParseSeed(data []byte) ([]Event, error) {
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeedParse, err)
	}

	events := make([]Event, 0, len(doc.Events))
	for i, e := range doc.Events {
		e.Title = strings.TrimSpace(e.Title)
		e.Date = strings.TrimSpace(e.Date)
		if e.Title == "" {
			return nil, fmt.Errorf("%s: entry %d: %w", config.ErrSeedInvalid, i+1, errors.New(config.ErrTitleEmpty))
		}
		if _, err := ParseDate(e.Date, nil); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", config.ErrSeedInvalid, i+1, err)
		}
		if containsIdentity(events, e) {
			continue
		}
		if e.Color == "" {
			e.Color = paletteColor(len(events))
		}
		if e.UID == "" {
			e.UID = stableUID(e, 0)
		}
		events = append(events, e)
	}
	return events, nil
}
