package ui

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// calendarView holds the widgets of the main window that change with the state.
type calendarView struct {
	heading    *widget.Label
	title      *widget.Label
	prev       *widget.Button
	next       *widget.Button
	backToYear *widget.Button
	modeSelect *widget.Select
	weekdays   *fyne.Container
	body       *fyne.Container
	upcomingHd *widget.Label
	upcoming   *fyne.Container

	// Modes in selector order, parallel to modeSelect.Options.
	modes []engine.Mode
}

// ShowMainWindow opens the calendar window, or focuses it when already open.
func (app *CalendarApp) ShowMainWindow() {
	if app.mainWindow != nil {
		app.refreshCalendar()
		app.mainWindow.Show()
		app.mainWindow.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.mainWindow = w
	w.SetContent(app.buildCalendar())
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))

	if app.Tray != nil {
		w.SetCloseIntercept(func() {
			slog.Debug(config.MsgWindowHidden, config.LogKeyComponent, config.CompUI)
			w.Hide()
		})
	} else {
		w.SetOnClosed(func() {
			app.mainWindow = nil
			app.view = nil
		})
	}

	app.refreshCalendar()
	w.Show()
}

// buildCalendar assembles the header, the grid area and the upcoming sidebar.
func (app *CalendarApp) buildCalendar() fyne.CanvasObject {
	v := &calendarView{modes: engine.Modes}
	app.view = v

	v.heading = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.title = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	v.prev = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { app.navigate(-1) })
	v.next = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { app.navigate(1) })
	v.backToYear = widget.NewButtonWithIcon("", theme.MoveUpIcon(), app.backToYear)
	v.backToYear.Hide()

	v.modeSelect = widget.NewSelect(nil, func(string) {
		if i := v.modeSelect.SelectedIndex(); i >= 0 && i < len(v.modes) {
			app.switchView(v.modes[i])
		}
	})

	v.weekdays = container.NewGridWithColumns(config.DaysPerWeek)
	v.body = container.NewStack()

	v.upcomingHd = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.upcoming = container.NewVBox()

	nav := container.NewHBox(v.prev, v.next, v.backToYear)
	header := container.NewBorder(nil, nil, container.NewHBox(v.heading, nav), v.modeSelect, v.title)

	sidebarWidth := canvas.NewRectangle(color.Transparent)
	sidebarWidth.SetMinSize(fyne.NewSize(config.SidebarWidth, 0))
	sidebar := container.NewStack(sidebarWidth,
		container.NewBorder(v.upcomingHd, nil, nil, nil, container.NewVScroll(v.upcoming)))

	grid := container.NewBorder(v.weekdays, nil, nil, nil, container.NewVScroll(v.body))
	return container.NewBorder(header, nil, nil, container.NewPadded(sidebar), container.NewPadded(grid))
}

// navigate moves one period back or forward in the current mode.
func (app *CalendarApp) navigate(delta int) {
	app.State.View = app.State.View.Navigate(delta)
	app.refreshCalendar()
}

func (app *CalendarApp) switchView(mode engine.Mode) {
	if app.State.View.Mode == mode {
		return
	}
	slog.Info(config.MsgViewChanged,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyOld, app.State.View.Mode.String(),
		config.LogKeyNew, mode.String())
	app.State.View = app.State.View.SwitchView(mode)
	app.refreshCalendar()
}

func (app *CalendarApp) drillDown(month time.Time) {
	app.State.View = app.State.View.DrillDown(month)
	app.refreshCalendar()
}

func (app *CalendarApp) backToYear() {
	app.State.View = app.State.View.Back()
	app.refreshCalendar()
}

func (app *CalendarApp) focusDate(d time.Time) {
	app.State = app.State.FocusDate(d)
	app.refreshCalendar()
}

// refreshCalendar redraws the window from app.State. It is a no-op before the window exists.
func (app *CalendarApp) refreshCalendar() {
	v := app.view
	if v == nil {
		return
	}
	state := app.State.View

	if app.mainWindow != nil {
		app.mainWindow.SetTitle(app.GetMsg(config.TKeyWinTitle))
	}
	v.heading.SetText(app.GetMsg(config.TKeyLblCalendar))
	v.title.SetText(app.headerTitle(state))
	v.backToYear.SetText(app.GetMsg(config.TKeyBtnBackYear))
	if state.CanGoBack() {
		v.backToYear.Show()
	} else {
		v.backToYear.Hide()
	}

	options := make([]string, len(v.modes))
	selected := 0
	for i, m := range v.modes {
		options[i] = app.modeLabel(m)
		if m == state.Mode {
			selected = i
		}
	}
	v.modeSelect.Options = options
	if v.modeSelect.SelectedIndex() != selected || v.modeSelect.Selected != options[selected] {
		v.modeSelect.SetSelectedIndex(selected)
	}
	v.modeSelect.Refresh()

	v.weekdays.Objects = nil
	var body fyne.CanvasObject
	switch state.Mode {
	case engine.ModeYear:
		body = app.renderYear(state.Reference)
	case engine.ModeWeek:
		app.fillWeekdays(v.weekdays)
		body = app.renderWeek(state.Reference)
	default:
		app.fillWeekdays(v.weekdays)
		body = app.renderMonth(state.Reference)
	}
	v.weekdays.Refresh()
	v.body.Objects = []fyne.CanvasObject{body}
	v.body.Refresh()

	app.refreshUpcoming()
}

func (app *CalendarApp) fillWeekdays(c *fyne.Container) {
	for _, d := range app.Grid.Weekdays() {
		lbl := canvas.NewText(app.weekdayName(d), theme.Color(theme.ColorNameForeground))
		lbl.Alignment = fyne.TextAlignCenter
		lbl.TextStyle = fyne.TextStyle{Bold: true}
		if d == time.Sunday {
			lbl.Color = hexColor(config.ColorSunday, theme.Color(theme.ColorNameForeground))
		}
		c.Add(lbl)
	}
}

func (app *CalendarApp) renderMonth(ref time.Time) fyne.CanvasObject {
	month := app.Grid.Month(ref, app.Store)
	cells := make([]fyne.CanvasObject, 0, len(month.Rows)*config.DaysPerWeek)
	for _, cell := range month.Cells() {
		cells = append(cells, app.dayCellView(cell, strconv.Itoa(cell.Date.Day()), config.MonthCellHeight, false))
	}
	return container.NewGridWithColumns(config.DaysPerWeek, cells...)
}

func (app *CalendarApp) renderWeek(ref time.Time) fyne.CanvasObject {
	days := app.Grid.Week(ref, app.Store)
	cells := make([]fyne.CanvasObject, 0, len(days))
	for _, cell := range days {
		caption := strconv.Itoa(cell.Date.Day()) + " " + app.weekdayName(cell.Date.Weekday())
		cells = append(cells, app.dayCellView(cell, caption, config.WeekCellHeight, true))
	}
	return container.NewGridWithColumns(config.DaysPerWeek, cells...)
}

// dayCellView draws one grid cell. Tapping the cell opens the add dialog,
// tapping an event or the "+N more" button opens the full list of the day.
// Detailed cells also print each description under its event.
func (app *CalendarApp) dayCellView(cell engine.DayCell, caption string, height float32, detailed bool) fyne.CanvasObject {
	fg := theme.Color(theme.ColorNameForeground)

	bg := canvas.NewRectangle(hexColor(config.ColorOutOfMonth, color.Transparent))
	if cell.InCurrentMonth {
		bg.FillColor = hexColor(config.ColorInMonth, color.Transparent)
	}
	bg.StrokeColor = hexColor(config.ColorCellBorder, color.Transparent)
	bg.StrokeWidth = 1
	if cell.IsToday {
		bg.FillColor = hexColor(config.ColorToday, bg.FillColor)
		bg.StrokeColor = hexColor(config.ColorTodayBorder, bg.StrokeColor)
		bg.StrokeWidth = 2
	}
	bg.SetMinSize(fyne.NewSize(0, height))

	number := canvas.NewText(caption, hexColor(config.ColorFallbackText, fg))
	if cell.IsSunday {
		number.Color = hexColor(config.ColorSunday, fg)
	}
	if !cell.InCurrentMonth {
		number.Color = theme.Color(theme.ColorNameDisabled)
	}
	number.TextStyle = fyne.TextStyle{Bold: cell.IsToday}

	date := cell.Date
	rows := container.NewVBox(number)
	for _, e := range cell.Events {
		rows.Add(newTapArea(eventChip(e), func() { app.openDayEvents(date) }))
		if detailed && e.Description != "" {
			desc := widget.NewLabel(e.Description)
			desc.SizeName = theme.SizeNameCaptionText
			desc.Truncation = fyne.TextTruncateEllipsis
			rows.Add(desc)
		}
	}
	if cell.Hidden > 0 {
		more := widget.NewButton(app.GetMsgWith(config.TKeyLblMore,
			map[string]interface{}{"Count": cell.Hidden},
			fmt.Sprintf(config.FallbackMore, cell.Hidden)), func() { app.openDayEvents(date) })
		more.Importance = widget.LowImportance
		rows.Add(more)
	}

	return newTapArea(container.NewStack(bg, container.NewPadded(rows)), func() {
		app.openAddEvent(date)
	})
}

// renderYear lays out twelve mini months; tapping one opens it in month view.
func (app *CalendarApp) renderYear(ref time.Time) fyne.CanvasObject {
	months := app.Grid.Year(ref)
	tiles := make([]fyne.CanvasObject, 0, len(months))
	for _, m := range months {
		tiles = append(tiles, app.miniMonth(m))
	}
	return container.NewGridWithColumns(config.YearGridColumns, tiles...)
}

func (app *CalendarApp) miniMonth(m engine.MonthGrid) fyne.CanvasObject {
	fg := theme.Color(theme.ColorNameForeground)
	title := widget.NewLabelWithStyle(app.monthName(m.Month.Month()), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	days := container.NewGridWithColumns(config.DaysPerWeek)
	for _, d := range app.Grid.Weekdays() {
		h := canvas.NewText(app.weekdayName(d), theme.Color(theme.ColorNameDisabled))
		h.Alignment = fyne.TextAlignCenter
		h.TextSize = theme.CaptionTextSize()
		days.Add(h)
	}
	for _, cell := range m.Cells() {
		if !cell.InCurrentMonth {
			days.Add(layout.NewSpacer())
			continue
		}
		t := canvas.NewText(strconv.Itoa(cell.Date.Day()), fg)
		t.Alignment = fyne.TextAlignCenter
		t.TextSize = theme.CaptionTextSize()
		if cell.IsSunday {
			t.Color = hexColor(config.ColorSunday, fg)
		}
		if cell.IsToday {
			t.TextStyle = fyne.TextStyle{Bold: true}
			mark := canvas.NewRectangle(hexColor(config.ColorToday, color.Transparent))
			mark.CornerRadius = theme.InputRadiusSize()
			days.Add(container.NewStack(mark, t))
			continue
		}
		days.Add(t)
	}

	month := m.Month
	return newTapArea(widget.NewCard("", "", container.NewBorder(title, nil, nil, nil, days)), func() {
		app.drillDown(month)
	})
}

// refreshUpcoming rebuilds the sidebar list.
func (app *CalendarApp) refreshUpcoming() {
	v := app.view
	v.upcomingHd.SetText(app.GetMsg(config.TKeyLblUpcoming))
	v.upcoming.Objects = nil

	events := app.Store.Upcoming(config.UpcomingLimit)
	if len(events) == 0 {
		v.upcoming.Add(widget.NewLabel(app.GetMsg(config.TKeyLblNoUpcoming)))
	}
	for _, e := range events {
		d, ok := e.Day(nil)
		if !ok {
			continue
		}
		when := widget.NewLabel(app.formatShort(d))
		v.upcoming.Add(newTapArea(container.NewVBox(eventChip(e), when), func() {
			app.focusDate(d)
		}))
	}
	v.upcoming.Refresh()
}

// openAddEvent shows the form for a new event on d.
func (app *CalendarApp) openAddEvent(d time.Time) {
	app.State = app.State.SelectDate(d)
	if app.mainWindow == nil {
		return
	}

	titleEntry := app.newTitleEntry()
	descEntry := widget.NewMultiLineEntry()
	descEntry.SetMinRowsVisible(3)

	items := []*widget.FormItem{
		widget.NewFormItem(app.GetMsg(config.TKeyLblTaskTitle), titleEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblDesc), descEntry),
	}

	caption := app.GetMsgWith(config.TKeyDlgAddTitle,
		map[string]interface{}{"Date": app.formatLong(d)}, app.formatLong(d))

	form := dialog.NewForm(caption, app.GetMsg(config.TKeyBtnAdd), app.GetMsg(config.TKeyBtnCancel), items,
		func(confirmed bool) {
			if !confirmed {
				app.State = app.State.CloseDialog()
				return
			}
			if err := app.submit(titleEntry.Text, descEntry.Text); err != nil {
				dialog.ShowError(err, app.mainWindow)
			}
		}, app.mainWindow)
	form.Resize(fyne.NewSize(config.SettingsWindowWidth, 0))
	form.Show()
	app.mainWindow.Canvas().Focus(titleEntry)
}

// openDayEvents lists every event of d, including those hidden behind "+N more".
func (app *CalendarApp) openDayEvents(d time.Time) {
	app.State = app.State.ExpandOverflow(d)
	if app.mainWindow == nil {
		return
	}

	list := container.NewVBox()
	for _, e := range app.Store.EventsOn(engine.FormatDate(d)) {
		list.Add(eventChip(e))
		details := e.Description
		if details == "" {
			details = app.GetMsg(config.TKeyLblNoDetails)
		}
		if e.Time != "" {
			details = e.Time + "  " + details
		}
		lbl := widget.NewLabel(details)
		lbl.Wrapping = fyne.TextWrapWord
		list.Add(lbl)
	}

	caption := app.GetMsgWith(config.TKeyDlgDayTitle,
		map[string]interface{}{"Date": app.formatLong(d)}, app.formatLong(d))

	dlg := dialog.NewCustom(caption, app.GetMsg(config.TKeyBtnClose), container.NewVScroll(list), app.mainWindow)
	dlg.SetOnClosed(func() {
		app.State = app.State.CloseDialog()
	})
	dlg.Resize(fyne.NewSize(config.SettingsWindowWidth, config.EventsWinHeight))
	dlg.Show()
}

// eventChip is a colored label carrying the event title and start time.
func eventChip(e engine.Event) fyne.CanvasObject {
	text := e.Title
	if e.Time != "" {
		text = e.Time + " " + text
	}
	fill := hexColor(e.Color, theme.Color(theme.ColorNamePrimary))
	bg := canvas.NewRectangle(fill)
	bg.CornerRadius = theme.InputRadiusSize()

	label := canvas.NewText(text, hexColor(config.ColorEventText, color.White))
	label.TextSize = theme.CaptionTextSize()
	return container.NewStack(bg, container.New(layout.NewCustomPaddedLayout(1, 1, 4, 4), label))
}

// tapArea makes any content tappable. Tappable children such as buttons keep their own taps.
type tapArea struct {
	widget.BaseWidget
	content fyne.CanvasObject
	onTap   func()
}

func newTapArea(content fyne.CanvasObject, onTap func()) *tapArea {
	t := &tapArea{content: content, onTap: onTap}
	t.ExtendBaseWidget(t)
	return t
}

func (t *tapArea) Tapped(*fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap()
	}
}

func (t *tapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.content)
}
