package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"github.com/zalando/go-keyring"
)

// Selector options are stored by index; these slices map an index back to its preference value.
var (
	weekStartValues = []string{config.WeekStartSunday, config.WeekStartMonday}
	sourceValues    = []string{config.SourceModeWeb, config.SourceModeLocal}
	unitValues      = []string{config.UnitDays, config.UnitHours, config.UnitMinutes}
	directionValues = []string{config.DirBefore, config.DirAfter}
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect    *widget.Select
	weekSelect    *widget.Select
	modeSelect    *widget.Select
	urlEntry      *widget.Entry
	userEntry     *widget.Entry
	passEntry     *widget.Entry
	pathEntry     *widget.Entry
	entryInterval *NumericalEntry
	entryPort     *NumericalEntry
	checkReminder *widget.Check
	entryRemValue *NumericalEntry
	selectRemUnit *widget.Select
	selectRemDir  *widget.Select
}

// ShowSettingsWindow opens the preferences window, or focuses it when already open.
func (app *CalendarApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	generalCard := app.buildGeneralCard(sw)
	sourceCard := app.buildSourceCard(w, sw, onLayoutChange)
	notifCard := app.buildNotifCard(sw, onLayoutChange)

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		// The port is the only field that blocks saving.
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	})
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		generalCard,
		notifCard,
		sourceCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	// Hidden sections shrink the window.
	refreshLayout = func() {
		paddedContent.Refresh()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, paddedContent.MinSize().Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })

	refreshLayout()
	w.Show()
}

// newSettingsWidgets creates every input, filled from the current preferences.
func (app *CalendarApp) newSettingsWidgets() *settingsWidgets {
	p := app.Preferences
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(p.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.weekSelect = widget.NewSelect([]string{
		app.weekdayName(time.Sunday),
		app.weekdayName(time.Monday),
	}, nil)
	sw.weekSelect.SetSelectedIndex(indexOf(weekStartValues, p.StringWithFallback(config.PrefWeekStart, config.DefaultWeekStart)))

	sw.entryInterval = NewNumericalEntry()
	sw.entryInterval.SetText(strconv.Itoa(p.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)))

	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(p.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = app.portValidator()

	sw.modeSelect = widget.NewSelect([]string{
		app.GetMsg(config.TKeyModeCardDAV),
		app.GetMsg(config.TKeyModeLocal),
	}, nil)

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetText(p.String(config.PrefCardDAVURL))
	sw.urlEntry.PlaceHolder = config.PlaceholderURL

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(p.String(config.PrefUsername))

	sw.passEntry = widget.NewPasswordEntry()
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}

	sw.pathEntry = widget.NewEntry()
	sw.pathEntry.SetText(p.String(config.PrefLocalPath))

	sw.checkReminder = widget.NewCheck(app.GetMsg(config.TKeyLblEnableRem), nil)
	sw.checkReminder.Checked = p.Bool(config.PrefReminderEnabled)

	sw.entryRemValue = NewNumericalEntry()
	sw.entryRemValue.SetText(strconv.Itoa(p.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)))

	sw.selectRemUnit = widget.NewSelect([]string{
		app.GetMsg(config.TKeyUnitDays),
		app.GetMsg(config.TKeyUnitHours),
		app.GetMsg(config.TKeyUnitMinutes),
	}, nil)
	sw.selectRemUnit.SetSelectedIndex(indexOf(unitValues, p.StringWithFallback(config.PrefReminderUnit, config.UnitDays)))

	sw.selectRemDir = widget.NewSelect([]string{
		app.GetMsg(config.TKeyDirBefore),
		app.GetMsg(config.TKeyDirAfter),
	}, nil)
	sw.selectRemDir.SetSelectedIndex(indexOf(directionValues, p.StringWithFallback(config.PrefReminderDir, config.DirBefore)))

	return sw
}

// portValidator accepts a number in [config.MinPort, config.MaxPort].
func (app *CalendarApp) portValidator() fyne.StringValidator {
	return func(s string) error {
		if s == "" {
			return errors.New(app.GetMsg(config.TKeyErrPortReq))
		}
		port, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(app.GetMsg(config.TKeyErrPortNum))
		}
		if port < config.MinPort || port > config.MaxPort {
			return errors.New(app.GetMsg(config.TKeyErrPortRange))
		}
		return nil
	}
}

func (app *CalendarApp) buildGeneralCard(sw *settingsWidgets) *widget.Card {
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemWeek := widget.NewFormItem(app.GetMsg(config.TKeyLblWeekStart), sw.weekSelect)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	return widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemWeek, itemPort))
}

// buildSourceCard holds the birthday import source and its schedule.
func (app *CalendarApp) buildSourceCard(w fyne.Window, sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)
	webForm := widget.NewForm(
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry),
	)
	localForm := container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	widInterval := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMinutes)), sw.entryInterval)
	itemInterval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), widInterval)
	itemInterval.HintText = app.GetMsg(config.TKeyHelpInterval)

	showSource := func(local bool) {
		if local {
			webForm.Hide()
			localForm.Show()
		} else {
			webForm.Show()
			localForm.Hide()
		}
	}

	sw.modeSelect.SetSelectedIndex(indexOf(sourceValues, app.Preferences.String(config.PrefSourceMode)))
	showSource(sw.modeSelect.SelectedIndex() == 1)
	sw.modeSelect.OnChanged = func(string) {
		showSource(sw.modeSelect.SelectedIndex() == 1)
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "",
		container.NewVBox(sw.modeSelect, webForm, localForm, widget.NewForm(itemInterval)))
}

// buildNotifCard holds the VALARM offset published with every feed event.
func (app *CalendarApp) buildNotifCard(sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	lblStart := widget.NewLabel(app.GetMsg(config.TKeyLblStartDay))

	controls := container.NewHBox(sw.selectRemUnit, sw.selectRemDir, lblStart)
	row := container.NewBorder(nil, nil, nil, controls, sw.entryRemValue)

	setVisible := func(on bool) {
		if on {
			row.Show()
		} else {
			row.Hide()
		}
	}
	setVisible(sw.checkReminder.Checked)
	sw.checkReminder.OnChanged = func(b bool) {
		setVisible(b)
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblNotif), "", container.NewVBox(sw.checkReminder, row))
}

// saveSettings persists the inputs, redraws the open windows and starts an import.
// Empty numeric fields switch their feature off.
func (app *CalendarApp) saveSettings(sw *settingsWidgets) {
	log := slog.With(config.LogKeyComponent, config.CompUISet)
	log.Info("Saving preferences")
	p := app.Preferences

	p.SetString(config.PrefLanguage, sw.langSelect.Selected)
	p.SetString(config.PrefWeekStart, valueAt(weekStartValues, sw.weekSelect.SelectedIndex()))
	p.SetString(config.PrefSourceMode, valueAt(sourceValues, sw.modeSelect.SelectedIndex()))
	p.SetString(config.PrefCardDAVURL, sw.urlEntry.Text)
	p.SetString(config.PrefUsername, sw.userEntry.Text)
	p.SetString(config.PrefLocalPath, sw.pathEntry.Text)

	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			log.Error("Failed to save credentials to keyring", config.LogKeyError, err)
		}
	}

	if i, err := strconv.Atoi(sw.entryInterval.Text); err == nil && i > 0 {
		p.SetInt(config.PrefInterval, i)
	} else {
		p.SetInt(config.PrefInterval, config.DisabledInterval)
		log.Info("Periodic import disabled via settings")
	}

	if sw.entryPort.Text != "" {
		p.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	if v, err := strconv.Atoi(sw.entryRemValue.Text); err == nil {
		p.SetBool(config.PrefReminderEnabled, sw.checkReminder.Checked)
		p.SetInt(config.PrefReminderValue, v)
	} else {
		p.SetBool(config.PrefReminderEnabled, false)
		log.Info("Reminders disabled via settings (value is empty)")
	}
	p.SetString(config.PrefReminderUnit, valueAt(unitValues, sw.selectRemUnit.SelectedIndex()))
	p.SetString(config.PrefReminderDir, valueAt(directionValues, sw.selectRemDir.SelectedIndex()))

	app.Grid.WeekStart = engine.ParseWeekStart(p.StringWithFallback(config.PrefWeekStart, config.DefaultWeekStart))
	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	app.refreshCalendar()
	app.refreshEventsWindow()
	go app.performSync(true)
}

// indexOf returns the position of v in values, or 0 so the first option is the default.
func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return 0
}

// valueAt is the inverse of indexOf; out of range picks the first value.
func valueAt(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return values[0]
	}
	return values[i]
}
