package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Calendar/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Calendar"
	AppID             = "com.github.tartampluch.go-calendar"
	KeyringService    = "com.github.tartampluch.go-calendar"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and the event store file.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1

	// TmpFilePattern is used by os.CreateTemp for atomic writes.
	TmpFilePattern = ".go-calendar-*.tmp"
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagStore        = "store"
	FlagSeed         = "seed"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescStore    = "Persist events as JSON files in this directory instead of the application preferences"
	FlagDescSeed     = "YAML file replacing the built-in default events"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Event Store
// -----------------------------------------------------------------------------

const (
	// StorageKey is the key under which the serialized event list is kept.
	StorageKey = "calendarEvents"

	// UpcomingLimit is the number of entries shown in the "Upcoming Events" sidebar.
	UpcomingLimit = 5

	// Storage backends reported at startup.
	StorageModeFile  = "file"
	StorageModePrefs = "preferences"

	// UIDNamespace seeds the name-based UUIDs given to seed events.
	UIDNamespace = "go-calendar-v1"
)

// EventPalette is cycled (by list length at creation time) to color new events.
var EventPalette = []string{
	"#FF5733",
	"#33C3FF",
	"#33FF57",
	"#FF33A8",
	"#FFC300",
	"#8E44AD",
}

// -----------------------------------------------------------------------------
// Calendar Grid
// -----------------------------------------------------------------------------

const (
	DaysPerWeek   = 7
	MonthsPerYear = 12

	// MonthEventCap is the number of events drawn inside a month cell before "+N more".
	MonthEventCap = 2
	// WeekEventCap of zero means week cells show every event.
	WeekEventCap = 0

	WeekStartSunday  = "sunday"
	WeekStartMonday  = "monday"
	DefaultWeekStart = WeekStartSunday

	ViewYear    = "year"
	ViewMonth   = "month"
	ViewWeek    = "week"
	DefaultView = ViewMonth
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600
	MainWindowWidth     = 1100
	MainWindowHeight    = 760
	SidebarWidth        = 240

	MonthCellHeight = 96
	WeekCellHeight  = 160
	YearGridColumns = 4

	// Preference Keys
	PrefCardDAVURL      = "carddav_url"
	PrefUsername        = "username"
	PrefLanguage        = "language"
	PrefWeekStart       = "week_start"
	PrefInterval        = "refresh_interval_min"
	PrefServerPort      = "server_port"
	PrefSourceMode      = "source_mode"
	PrefLocalPath       = "local_path"
	PrefReminderEnabled = "reminder_enabled"
	PrefReminderValue   = "reminder_value"
	PrefReminderUnit    = "reminder_unit"
	PrefReminderDir     = "reminder_direction"
	PrefLastRun         = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// Cell decoration colors. Event colors come from the events themselves.
const (
	ColorToday        = "#DBEAFE"
	ColorTodayBorder  = "#60A5FA"
	ColorInMonth      = "#FFFFFF"
	ColorOutOfMonth   = "#F3F4F6"
	ColorSunday       = "#DC2626"
	ColorCellBorder   = "#E5E7EB"
	ColorEventText    = "#FFFFFF"
	ColorFallbackText = "#111827"
)

// -----------------------------------------------------------------------------
// UI Events Window Constants
// -----------------------------------------------------------------------------

const (
	// Window Dimensions
	EventsWinWidth  = 640
	EventsWinHeight = 420

	// Table Column IDs
	ColIDTitle       = 0
	ColIDDate        = 1
	ColIDDescription = 2

	// Table Layout
	ColWidthTitle       = 220
	ColWidthDate        = 120
	ColWidthDescription = 280

	// Display Formats & Placeholders
	DateFormatDisplay = "2006-01-02"
	TablePlaceholder  = "Cell Content"
	LogMsgOpenWin     = "Opening events window"
	LogMsgSorted      = "Events sorted"

	// Sorting Indicators
	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle        = "win_title"
	TKeyWinSettings     = "win_settings_title"
	TKeyWinEvents       = "win_events_title"
	TKeyMenuOpen        = "menu_open"
	TKeyMenuEvents      = "menu_events"
	TKeyMenuRefresh     = "menu_refresh"
	TKeyMenuSettings    = "menu_settings"
	TKeyTrayStatus      = "tray_status"      // Requires Count > 0
	TKeyTrayStatusZero  = "tray_status_zero" // Explicit key for 0
	TKeyNotifStart      = "notif_sync_start"
	TKeyNotifSuccess    = "notif_sync_success"
	TKeyNotifError      = "notif_err_sync"
	TKeyModeCardDAV     = "mode_carddav"
	TKeyModeLocal       = "mode_local"
	TKeyLblLanguage     = "lbl_language"
	TKeyHelpLanguage    = "help_language"
	TKeyLblWeekStart    = "lbl_week_start"
	TKeyLblMinutes      = "lbl_minutes_suffix"
	TKeyLblRefresh      = "lbl_refresh_interval"
	TKeyHelpInterval    = "help_interval"
	TKeyLblPort         = "lbl_server_port"
	TKeyHelpPort        = "help_port"
	TKeyLblGeneral      = "lbl_general"
	TKeyLblEnableRem    = "lbl_enable_reminders"
	TKeyUnitDays        = "unit_days"
	TKeyUnitHours       = "unit_hours"
	TKeyUnitMinutes     = "unit_minutes"
	TKeyDirBefore       = "dir_before"
	TKeyDirAfter        = "dir_after"
	TKeyLblNotif        = "lbl_notifications"
	TKeyBtnSave         = "btn_save"
	TKeyBtnCancel       = "btn_cancel"
	TKeyLblFooter       = "lbl_footer"
	TKeyBtnBrowse       = "btn_browse"
	TKeyLblURL          = "lbl_url"
	TKeyHelpURL         = "help_carddav_url"
	TKeyLblUser         = "lbl_user"
	TKeyLblPass         = "lbl_pass"
	TKeyLblSource       = "lbl_source"
	TKeyLblStartDay     = "lbl_start_of_day"
	TKeyEvtSummary      = "event_summary"       // Requires Name
	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (For age 0)

	// Calendar view
	TKeyViewYear      = "view_year"
	TKeyViewMonth     = "view_month"
	TKeyViewWeek      = "view_week"
	TKeyLblCalendar   = "lbl_your_calendar"
	TKeyLblUpcoming   = "lbl_upcoming"
	TKeyLblNoUpcoming = "lbl_no_upcoming"
	TKeyLblWeekOf     = "lbl_week_of" // Requires Date
	TKeyBtnBackYear   = "btn_back_year"
	TKeyBtnAdd        = "btn_add"
	TKeyBtnClose      = "btn_close"
	TKeyDlgAddTitle   = "dlg_add_title" // Requires Date
	TKeyDlgDayTitle   = "dlg_day_title" // Requires Date
	TKeyLblTaskTitle  = "lbl_task_title"
	TKeyLblDesc       = "lbl_description"
	TKeyLblNoDetails  = "lbl_no_details"
	TKeyLblMore       = "lbl_more" // Requires Count
	TKeyErrTitleReq   = "err_title_required"
	TKeyErrSave       = "err_save_failed"
	TKeyFormatLong    = "format_date_long"  // Requires Day, Month, Year
	TKeyFormatShort   = "format_date_month" // Requires Day, Month

	// Month (month_1..month_12) and weekday (weekday_0..weekday_6) name prefixes.
	TKeyPrefixMonth   = "month_"
	TKeyPrefixWeekday = "weekday_"

	// Column Headers & Formats
	TKeyColTitle   = "col_title"
	TKeyColDate    = "col_date"
	TKeyColDesc    = "col_description"
	TKeyFormatDate = "format_date_short" // Date format pattern (e.g., "2006-01-02")

	// Validation Errors (UI)
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18081"
	DefaultRefreshMin    = 0 // Import is opt-in.
	DefaultLanguage      = "en"
	DefaultLeapYear      = 2000 // Leap year fallback for dates like --02-29
	DefaultReminderValue = 1
	DisabledInterval     = 0
	RolloverSchedule     = "@midnight"
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Calendar//Engine//EN"
	ICalCalName   = "Go Calendar"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropDuration    = "DURATION"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropXColor      = "X-GOCALENDAR-COLOR"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 1 * time.Hour
	ICalFloatingFormat = "20060102T150405"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatISO is the persisted event date layout (yyyy-MM-dd).
	DateFormatISO = "2006-01-02"
	// TimeFormatClock is the optional event start time layout (HH:mm).
	TimeFormatClock = "15:04"

	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteICS            = "/calendar.ics"
	RouteJSON           = "/events.json"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrJSONEncode       = "failed to encode event list"
	ErrDateParse        = "unable to parse date"
	ErrStoreWrite       = "failed to persist events"
	ErrStoreRead        = "failed to read persisted events"
	ErrStorePath        = "store path is empty"
	ErrSeedRead         = "failed to read seed file"
	ErrSeedParse        = "failed to parse seed file"
	ErrSeedInvalid      = "seed event is invalid"
	ErrTitleEmpty       = "title is empty"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrScheduler        = "failed to schedule day rollover"
	ErrFetchRequest     = "failed to create request"
	ErrFetchNetwork     = "network error during fetch"
	ErrFetchStatus      = "server returned unexpected status"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary      = "Birthday: %s"
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackTrayError    = "Go Calendar: Sync Error"
	FallbackTrayDefault  = "Go Calendar (%d today)"
	FallbackTrayLabel    = "Go Calendar"
	FallbackName         = "Unknown"
	FallbackMore         = "+%d more"
	FallbackWeekOf       = "Week of %s"

	// StubVCalendar is the minimal valid iCalendar object used when no events exist.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleSyncError    = "Sync Error"

	MsgPortBusy       = "Port %s is busy or unavailable."
	MsgSyncStarted    = "Import started..."
	MsgSyncFailed     = "Import failed. Check logs."
	MsgSyncReq        = "Import requested"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgWorkerIdle     = "Periodic import disabled"
	MsgUpdateSync     = "Updating import interval"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgImportDone     = "Birthday import finished"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Feed cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgStoreSeeded    = "No persisted events, seeding defaults"
	MsgStoreMalformed = "Persisted events are malformed, reseeding defaults"
	MsgStoreLoaded    = "Events loaded"
	MsgEventAdded     = "Event added"
	MsgEventRejected  = "Ignoring event with empty title"
	MsgEventsMerged   = "Events merged"
	MsgRollover       = "Day rollover, refreshing views"
	MsgViewChanged    = "View changed"
	MsgExportDone     = "Calendar export successful"
	MsgFetchStart     = "Initiating vCard download"
	MsgFetchBadStatus = "Server returned error status"
	MsgFetchDownload  = "vCards downloading"
	MsgImportSkipped  = "No import source configured, republishing only"
	MsgPublishFailed  = "Failed to publish calendar feed"
	MsgWindowHidden   = "Main window hidden to tray"
	MsgStorageReady   = "Event storage ready"
	MsgSeedLoaded     = "Seed events loaded"

	PlaceholderURL = "https://..."
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_asc"
	LogKeyCount     = "count"
	LogKeyTitle     = "title"
	LogKeyDate      = "date"
	LogKeyRoute     = "route"
	LogKeyDuration  = "duration_ms"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyAdded     = "added"
	LogKeyDefaults  = "defaults_added"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompUISet    = "ui_settings"
	CompEngine   = "engine"
	CompStore    = "store"
	CompImporter = "importer"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
