package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *CalendarApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	app.SupportedLanguages = detectedLangs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
func (app *CalendarApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	lang := app.Preferences.String(config.PrefLanguage)
	if lang == "" {
		lang = config.DefaultLanguage
	}
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang)
}

// GetMsg is a helper to translate a key safely.
func (app *CalendarApp) GetMsg(key string) string {
	return app.GetMsgWith(key, nil, key)
}

// GetMsgWith translates a templated key, returning fallback when the key is unknown.
// A "Count" entry in data also selects the plural form.
func (app *CalendarApp) GetMsgWith(key string, data map[string]interface{}, fallback string) string {
	if app.Localizer == nil {
		return fallback
	}
	lc := &i18n.LocalizeConfig{MessageID: key, TemplateData: data}
	if n, ok := data["Count"].(int); ok {
		lc.PluralCount = n
	}
	msg, err := app.Localizer.Localize(lc)
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}

func (app *CalendarApp) monthName(m time.Month) string {
	return app.GetMsgWith(config.TKeyPrefixMonth+strconv.Itoa(int(m)), nil, m.String())
}

func (app *CalendarApp) weekdayName(d time.Weekday) string {
	return app.GetMsgWith(config.TKeyPrefixWeekday+strconv.Itoa(int(d)), nil, d.String()[:3])
}

// formatLong renders "May 25, 2025" style dates in the active language.
func (app *CalendarApp) formatLong(t time.Time) string {
	month := app.monthName(t.Month())
	return app.GetMsgWith(config.TKeyFormatLong, map[string]interface{}{
		"Day":   t.Day(),
		"Month": month,
		"Year":  t.Year(),
	}, fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year()))
}

// formatShort renders a day and month without the year.
func (app *CalendarApp) formatShort(t time.Time) string {
	month := app.monthName(t.Month())
	return app.GetMsgWith(config.TKeyFormatShort, map[string]interface{}{
		"Day":   t.Day(),
		"Month": month,
	}, fmt.Sprintf("%s %d", month, t.Day()))
}

func (app *CalendarApp) modeLabel(m engine.Mode) string {
	switch m {
	case engine.ModeYear:
		return app.GetMsgWith(config.TKeyViewYear, nil, m.String())
	case engine.ModeWeek:
		return app.GetMsgWith(config.TKeyViewWeek, nil, m.String())
	default:
		return app.GetMsgWith(config.TKeyViewMonth, nil, m.String())
	}
}

// headerTitle is the caption above the grid: the year, the month and year,
// or the start of the displayed week.
func (app *CalendarApp) headerTitle(v engine.ViewState) string {
	ref := v.Reference
	switch v.Mode {
	case engine.ModeYear:
		return strconv.Itoa(ref.Year())
	case engine.ModeWeek:
		date := app.formatLong(engine.StartOfWeek(ref, app.Grid.WeekStart))
		return app.GetMsgWith(config.TKeyLblWeekOf, map[string]interface{}{"Date": date},
			fmt.Sprintf(config.FallbackWeekOf, date))
	default:
		return app.monthName(ref.Month()) + " " + strconv.Itoa(ref.Year())
	}
}
