package ui

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"github.com/tartampluch/go-calendar/internal/server"
	"github.com/zalando/go-keyring"
)

//go:embed Icon.png
var appIconData []byte

// CalendarApp encapsulates the UI state, preferences, and background logic.
type CalendarApp struct {
	App         fyne.App
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Store    *engine.EventStore
	Grid     *engine.Grid
	Server   *server.FeedServer
	Importer *engine.Importer
	Clock    engine.Clock

	// State is only touched on the fyne main goroutine.
	State engine.AppState

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayOpenItem     *fyne.MenuItem
	TrayEventsItem   *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	mainWindow     fyne.Window
	settingsWindow fyne.Window
	eventsWindow   fyne.Window
	eventsTable    *eventsTable
	view           *calendarView
}

// NewCalendarApp constructs the application and wires dependencies.
// The store's clock drives "today" everywhere in the UI.
func NewCalendarApp(a fyne.App, ctx context.Context, store *engine.EventStore, srv *server.FeedServer, fetcher engine.VCardFetcher) *CalendarApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	clock := store.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}

	app := &CalendarApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Store:              store,
		Grid:               engine.NewGrid(clock),
		Server:             srv,
		Clock:              clock,
		State:              engine.NewAppState(engine.Today(clock)),
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
	}
	app.Grid.WeekStart = engine.ParseWeekStart(app.Preferences.StringWithFallback(config.PrefWeekStart, config.DefaultWeekStart))
	app.Importer = &engine.Importer{
		Clock:       clock,
		Fetcher:     fetcher,
		FormatTitle: app.buildSummaryFormatter(),
	}
	return app
}

// Run launches the application services and the main UI loop.
func (app *CalendarApp) Run() {
	app.SetupI18n()
	app.watchPreferences()
	app.publish()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
		app.updateTrayStatus(app.todayCount())
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.ShowMainWindow()

	if err := app.startRollover(); err != nil {
		slog.Error(config.ErrScheduler,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompUI)
	}

	go app.backgroundWorker()
	app.App.Run()
}

// watchPreferences monitors changes to settings to trigger immediate updates.
func (app *CalendarApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *CalendarApp) setupTrayMenu() {
	// The status line doubles as a shortcut to today's date.
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.State = app.State.FocusDate(engine.Today(app.Clock))
		app.ShowMainWindow()
	})

	app.TrayOpenItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuOpen), app.ShowMainWindow)
	app.TrayEventsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuEvents), app.ShowEventsWindow)

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performSync(true)
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayOpenItem,
		app.TrayEventsItem,
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *CalendarApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayOpenItem.Label = app.GetMsg(config.TKeyMenuOpen)
	app.TrayEventsItem.Label = app.GetMsg(config.TKeyMenuEvents)
	app.TrayRefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.updateTrayStatus(app.todayCount())
}

// backgroundWorker runs the periodic birthday import.
// An interval of zero keeps the worker idle until the setting changes.
func (app *CalendarApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performSync(false)

	getInterval := func() time.Duration {
		val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
		if val <= 0 {
			return 0
		}
		return time.Duration(val) * time.Minute
	}

	var ticker *time.Ticker
	var tick <-chan time.Time
	schedule := func(d time.Duration) {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if d <= 0 {
			log.Info(config.MsgWorkerIdle)
			return
		}
		ticker = time.NewTicker(d)
		tick = ticker.C
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	currentDuration := getInterval()
	schedule(currentDuration)
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, currentDuration)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			newDuration := getInterval()
			if newDuration != currentDuration {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, currentDuration, config.LogKeyNew, newDuration)
				currentDuration = newDuration
				schedule(currentDuration)
			}

		case <-tick:
			app.performSync(false)
		}
	}
}

// startRollover refreshes the "today" markers, the tray and the feed at midnight.
func (app *CalendarApp) startRollover() error {
	c := cron.New(cron.WithLocation(time.Local))
	if _, err := c.AddFunc(config.RolloverSchedule, app.rollover); err != nil {
		return fmt.Errorf("%s: %w", config.ErrScheduler, err)
	}
	c.Start()

	go func() {
		<-app.Ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}

func (app *CalendarApp) rollover() {
	slog.Info(config.MsgRollover, config.LogKeyComponent, config.CompUI)
	app.publish()
	count := app.todayCount()
	fyne.Do(func() {
		app.refreshCalendar()
		app.updateTrayStatus(count)
	})
}

// performSync imports birthdays when a source is configured, then republishes the feed.
func (app *CalendarApp) performSync(manual bool) {
	log := slog.With(config.LogKeyComponent, config.CompUI)
	log.Info(config.MsgSyncReq, config.LogKeyManual, manual)

	cfg := app.loadImportConfig()
	if !importConfigured(cfg) {
		log.Debug(config.MsgImportSkipped, config.LogKeyMode, cfg.Mode)
		app.publish()
		count := app.todayCount()
		fyne.Do(func() {
			app.refreshCalendar()
			app.updateTrayStatus(count)
		})
		return
	}

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	added, err := app.Importer.Sync(app.Ctx, cfg, app.Store)
	if err != nil {
		log.Error(config.MsgSyncFailed, config.LogKeyError, err)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.TitleSyncError, app.GetMsg(config.TKeyNotifError)))
		}
		fyne.Do(func() { app.updateTrayStatus(-1) })
		return
	}

	log.Info(config.MsgImportDone, config.LogKeyAdded, added)
	app.publish()
	count := app.todayCount()
	fyne.Do(func() {
		app.refreshCalendar()
		app.updateTrayStatus(count)
	})

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
}

// publish pushes the current event list to the feed server.
func (app *CalendarApp) publish() {
	if app.Server == nil {
		return
	}
	opts := engine.ExportOptions{ReminderTrigger: app.reminderTrigger()}
	if err := app.Server.Publish(app.Store.Events(), app.Clock.Now(), opts); err != nil {
		slog.Error(config.MsgPublishFailed,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompUI)
	}
}

func (app *CalendarApp) todayCount() int {
	return app.Store.CountOn(engine.FormatDate(engine.Today(app.Clock)))
}

// updateTrayStatus shows how many events fall on today. A negative count marks a failed import.
func (app *CalendarApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case count < 0:
		label = config.FallbackTrayError
	case count == 0:
		label = app.GetMsgWith(config.TKeyTrayStatusZero, nil, fmt.Sprintf(config.FallbackTrayDefault, 0))
	default:
		label = app.GetMsgWith(config.TKeyTrayStatus,
			map[string]interface{}{"Count": count},
			fmt.Sprintf(config.FallbackTrayDefault, count))
	}

	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

// loadImportConfig assembles the import source from UI preferences and Keyring.
func (app *CalendarApp) loadImportConfig() engine.ImportConfig {
	cfg := engine.ImportConfig{
		Mode:      app.Preferences.String(config.PrefSourceMode),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefCardDAVURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}
	return cfg
}

func importConfigured(cfg engine.ImportConfig) bool {
	switch cfg.Mode {
	case config.SourceModeLocal:
		return cfg.LocalPath != ""
	case config.SourceModeWeb:
		return cfg.WebURL != ""
	}
	return false
}

// reminderTrigger reads the reminder preferences as an iCalendar TRIGGER value.
func (app *CalendarApp) reminderTrigger() string {
	return engine.ReminderTrigger(
		app.Preferences.Bool(config.PrefReminderEnabled),
		app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue),
		app.Preferences.StringWithFallback(config.PrefReminderUnit, config.UnitDays),
		app.Preferences.StringWithFallback(config.PrefReminderDir, config.DirBefore),
	)
}

// buildSummaryFormatter returns a closure that localizes imported birthday titles.
func (app *CalendarApp) buildSummaryFormatter() func(name string, age int, yearKnown bool) string {
	return func(name string, age int, yearKnown bool) string {
		data := map[string]interface{}{"Name": name, "Age": age}
		switch {
		case !yearKnown:
			return app.GetMsgWith(config.TKeyEvtSummary, data, fmt.Sprintf(config.FallbackSummary, name))
		case age == 0:
			return app.GetMsgWith(config.TKeyEvtSummaryBirth, data, fmt.Sprintf(config.FallbackSummaryBirth, name))
		default:
			return app.GetMsgWith(config.TKeyEvtSummaryAge, data, fmt.Sprintf(config.FallbackSummaryAge, name, age))
		}
	}
}

// submit stores the event typed in the add dialog and refreshes every view of the list.
func (app *CalendarApp) submit(title, description string) error {
	next, events, err := app.State.Submit(app.Store, title, description)
	app.State = next
	if events == nil && err == nil {
		return nil
	}
	if err != nil {
		slog.Error(config.ErrStoreWrite,
			config.LogKeyError, err,
			config.LogKeyTitle, title,
			config.LogKeyComponent, config.CompUI)
	}
	app.publish()
	app.refreshCalendar()
	app.updateTrayStatus(app.todayCount())
	if app.eventsWindow != nil {
		app.refreshEventsWindow()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", app.GetMsgWith(config.TKeyErrSave, nil, config.ErrStoreWrite), err)
	}
	return nil
}

// titleValidator rejects blank titles so the add dialog cannot be confirmed empty.
func (app *CalendarApp) titleValidator() fyne.StringValidator {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(app.GetMsg(config.TKeyErrTitleReq))
		}
		return nil
	}
}

// newTitleEntry is the single-line title input of the add dialog.
func (app *CalendarApp) newTitleEntry() *widget.Entry {
	e := widget.NewEntry()
	e.Validator = app.titleValidator()
	return e
}
