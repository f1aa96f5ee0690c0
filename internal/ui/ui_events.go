package ui

import (
	"log/slog"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// eventsTable is the state behind the all-events window.
type eventsTable struct {
	rows    []engine.Event
	sortCol int
	sortAsc bool
	table   *widget.Table
}

// ShowEventsWindow displays every stored event in a sortable table.
// If the window is already open, it requests focus.
func (app *CalendarApp) ShowEventsWindow() {
	if app.eventsWindow != nil {
		app.refreshEventsWindow()
		app.eventsWindow.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinEvents))
	w.Resize(fyne.NewSize(config.EventsWinWidth, config.EventsWinHeight))
	app.eventsWindow = w

	et := &eventsTable{sortCol: config.ColIDDate, sortAsc: true}
	et.rows = app.Store.Events()
	sortEvents(et.rows, et.sortCol, et.sortAsc)

	slog.Info(config.LogMsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(et.rows))

	table := widget.NewTable(
		func() (int, int) {
			return len(et.rows), 3
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(et.rows) {
				return
			}
			e := et.rows[id.Row]

			switch id.Col {
			case config.ColIDTitle:
				label.SetText(e.Title)
			case config.ColIDDate:
				label.SetText(app.displayDate(e))
			case config.ColIDDescription:
				label.SetText(e.Description)
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("Header", func() {})
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)

		var titleKey string
		switch id.Col {
		case config.ColIDTitle:
			titleKey = config.TKeyColTitle
		case config.ColIDDate:
			titleKey = config.TKeyColDate
		case config.ColIDDescription:
			titleKey = config.TKeyColDesc
		}

		text := app.GetMsg(titleKey)
		if id.Col == et.sortCol {
			if et.sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)

		btn.OnTapped = func() {
			if et.sortCol == id.Col {
				et.sortAsc = !et.sortAsc
			} else {
				et.sortCol = id.Col
				et.sortAsc = true
			}
			sortEvents(et.rows, et.sortCol, et.sortAsc)
			slog.Debug(config.LogMsgSorted,
				config.LogKeyComponent, config.CompUI,
				config.LogKeySortCol, et.sortCol,
				config.LogKeySortAsc, et.sortAsc)
			et.table.Refresh()
		}
	}

	table.SetColumnWidth(config.ColIDTitle, config.ColWidthTitle)
	table.SetColumnWidth(config.ColIDDate, config.ColWidthDate)
	table.SetColumnWidth(config.ColIDDescription, config.ColWidthDescription)
	et.table = table

	// Selecting a row moves the calendar to that date.
	table.OnSelected = func(id widget.TableCellID) {
		if id.Row < 0 || id.Row >= len(et.rows) {
			return
		}
		if d, ok := et.rows[id.Row].Day(nil); ok {
			app.focusDate(d)
		}
	}

	app.eventsTable = et
	w.SetContent(container.NewBorder(nil, nil, nil, nil, table))
	w.SetOnClosed(func() {
		app.eventsWindow = nil
		app.eventsTable = nil
	})
	w.Show()
}

// refreshEventsWindow reloads the rows after the list changed, keeping the sort order.
func (app *CalendarApp) refreshEventsWindow() {
	et := app.eventsTable
	if et == nil {
		return
	}
	et.rows = app.Store.Events()
	sortEvents(et.rows, et.sortCol, et.sortAsc)
	et.table.Refresh()
}

// displayDate formats an event date with the localized short pattern.
// Unparseable dates are shown as stored.
func (app *CalendarApp) displayDate(e engine.Event) string {
	d, ok := e.Day(nil)
	if !ok {
		return e.Date
	}
	format := app.GetMsgWith(config.TKeyFormatDate, nil, config.DateFormatDisplay)
	text := d.Format(format)
	if e.Time != "" {
		text += " " + e.Time
	}
	return text
}

// sortEvents orders rows in place by the given column. Ties fall back to date, then title.
func sortEvents(rows []engine.Event, col int, asc bool) {
	byDate := func(a, b engine.Event) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	}
	byText := func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var c int
		switch col {
		case config.ColIDTitle:
			c = byText(a.Title, b.Title)
		case config.ColIDDescription:
			c = byText(a.Description, b.Description)
		}
		if c == 0 {
			c = byDate(a, b)
		}
		if c == 0 {
			c = byText(a.Title, b.Title)
		}
		if !asc {
			return c > 0
		}
		return c < 0
	})
}
