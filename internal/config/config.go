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

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Analog Clock"
	AppID             = "com.github.tartampluch.go-analogclock"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "dial.svg"
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
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Log File Rotation (lumberjack)
// -----------------------------------------------------------------------------

const (
	LogMaxSizeMB  = 5
	LogMaxBackups = 3
	LogMaxAgeDays = 14
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagSnapshot     = "snapshot"
	FlagSize         = "size"
	FlagZone         = "zone"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescSnapshot = "Render a single frame to the given PNG file and exit"
	FlagDescSize     = "Snapshot size as WIDTHxHEIGHT (defaults to the dial size)"
	FlagDescZone     = "Timezone identifier (e.g. Europe/Paris); overrides ANALOGCLOCK_ZONE"
	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"
	SizeSeparator    = "x"
)

// -----------------------------------------------------------------------------
// Clock Engine
// -----------------------------------------------------------------------------

const (
	// TickInterval is the fixed delay between two refreshes, measured from the previous fire.
	TickInterval = 1 * time.Second

	// FallbackZone is used whenever a timezone identifier cannot be resolved.
	FallbackZone = "UTC"

	// SystemZone is the identifier time.LoadLocation maps to the host zone.
	SystemZone = "Local"

	// DescriptionFormat renders the 24-hour accessible time (HH:MM).
	DescriptionFormat = "%02d:%02d"

	DegreesPerTurn   = 360.0
	HoursPerTurn     = 12.0
	MinutesPerHour   = 60.0
	SecondsPerMinute = 60.0
)

// Asset names resolved by the asset provider.
const (
	AssetDial       = "dial"
	AssetHourHand   = "hour-hand"
	AssetMinuteHand = "minute-hand"
	AssetSecondHand = "second-hand"

	AssetExtSVG   = ".svg"
	AssetThemeDir = "theme"

	// AssetOversample renders SVG graphics at this multiple of their intrinsic size
	// so that hands stay sharp on HiDPI outputs.
	AssetOversample = 2
)

// -----------------------------------------------------------------------------
// Runtime Settings (environment)
// -----------------------------------------------------------------------------

const (
	EnvPrefix    = "ANALOGCLOCK_"
	EnvDelimiter = "."
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 420

	// Preference Keys
	PrefTimezone      = "timezone"
	PrefLanguage      = "language"
	PrefServerPort    = "server_port"
	PrefServerEnabled = "server_enabled"
	PrefLastRun       = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// CommonZones seeds the timezone selector. Any IANA identifier may still be typed.
var CommonZones = []string{
	"UTC",
	"Europe/London",
	"Europe/Paris",
	"America/New_York",
	"America/Los_Angeles",
	"Asia/Shanghai",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle      = "win_title"
	TKeyWinSettings   = "win_settings_title"
	TKeyMenuShow      = "menu_show"
	TKeyMenuSettings  = "menu_settings"
	TKeyMenuStart     = "menu_start"
	TKeyMenuStop      = "menu_stop"
	TKeyClockDesc     = "clock_description" // Requires Time, Zone
	TKeyLblLanguage   = "lbl_language"
	TKeyHelpLanguage  = "help_language"
	TKeyLblTimezone   = "lbl_timezone"
	TKeyHelpTimezone  = "help_timezone"
	TKeyLblSystemZone = "lbl_system_zone"
	TKeyLblPort       = "lbl_server_port"
	TKeyHelpPort      = "help_port"
	TKeyLblServer     = "lbl_server_enabled"
	TKeyLblGeneral    = "lbl_general"
	TKeyBtnSave       = "btn_save"
	TKeyBtnCancel     = "btn_cancel"
	TKeyLblFooter     = "lbl_footer"

	// Validation Errors (UI)
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
)

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	DefaultPort     = "18081"
	DefaultLanguage = "en"
	DefaultServe    = false
)

// -----------------------------------------------------------------------------
// Limits
// -----------------------------------------------------------------------------

const (
	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "1"
	AllowedMethods     = "GET, HEAD"
	RouteRoot          = "/"
	RouteMetrics       = "/metrics"
	AddrSeparator      = ":"
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
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderClockTime       = "X-Clock-Time"

	MimeImagePNG        = "image/png"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace   = "analogclock"
	MetricTicks        = "ticks_total"
	MetricRedraws      = "redraw_requests_total"
	MetricZoneChanges  = "zone_changes_total"
	MetricFrames       = "frames_rendered_total"
	MetricLayouts      = "layouts_total"
	MetricScale        = "scale"
	MetricLabelOutcome = "outcome"
	OutcomeApplied     = "applied"
	OutcomeFallback    = "fallback"
	MetricHelpTicks    = "Number of refresh ticks fired by the scheduler"
	MetricHelpRedraws  = "Number of redraw requests sent to the host"
	MetricHelpZone     = "Number of timezone change events by outcome"
	MetricHelpFrames   = "Number of frames drawn on a surface"
	MetricHelpLayouts  = "Number of viewport geometry recomputations"
	MetricHelpScale    = "Current shrink factor applied to the clock face"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidZone        = "invalid timezone identifier"
	ErrDegenerateViewport = "degenerate viewport"
	ErrAssetUnavailable   = "graphic asset unavailable"
	ErrAssetDecode        = "failed to decode SVG asset"
	ErrAssetEmpty         = "asset has no intrinsic size"
	ErrAssetNoImage       = "asset does not expose an image"
	ErrSettingsLoad       = "failed to load settings"
	ErrSettingsInvalid    = "invalid settings"
	ErrServerStartup      = "server startup failed"
	ErrServerShutdown     = "server shutdown failed"
	ErrPortRequired       = "server port is required"
	ErrPortNumber         = "server port must be a number"
	ErrPortRange          = "server port must be between 1 and 65535"
	ErrSizeFormat         = "size must be formatted as WIDTHxHEIGHT"
	ErrSnapshotWrite      = "failed to write snapshot"
	ErrPNGEncode          = "failed to encode PNG frame"
	ErrLogFile            = "failed to open log file"
	ErrCacheDir           = "could not determine user cache dir"
	ErrCreateDir          = "could not create app cache dir"
	ErrAppFailed          = "application failed unexpectedly"
	ErrWriteResp          = "failed to write response body"
	ErrLocalesAccess      = "failed to access embedded locales"
	ErrLocaleLoad         = "failed to load locale file"
	ErrTrayNotSupported   = "system tray not supported on this platform/driver"
	ErrLocNotInit         = "localizer not initialized"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Clock face not painted yet, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	FallbackDescription = "%s (%s)" // time, zone
	FallbackTrayLabel   = "Go Analog Clock"

	TitleStartupError = "Startup Error"

	MsgPortBusy        = "Port %s is busy or unavailable."
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Snapshot cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgSchedulerStart  = "Refresh scheduler started"
	MsgSchedulerStop   = "Refresh scheduler stopped"
	MsgZoneChanged     = "Timezone changed"
	MsgZoneFallback    = "Unknown timezone, falling back"
	MsgLayoutComputed  = "Viewport geometry recomputed"
	MsgViewportSkipped = "Skipping frame for degenerate viewport"
	MsgAssetsLoaded    = "Clock assets loaded"
	MsgAssetSkipped    = "Skipping asset without image data"
	MsgSnapshotWritten = "Snapshot written"
	MsgSettingsSaved   = "Saving preferences"
	MsgSettingsLoaded  = "Settings loaded"
	MsgPrefZoneForward = "Forwarding timezone preference to clock"
	MsgSettingsFocus   = "Settings window already open, requesting focus"
	MsgSettingsOpen    = "Opening settings window"
	MsgClockAttached   = "Clock widget attached"
	MsgClockDetached   = "Clock widget detached"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyZone      = "zone"
	LogKeyFallback  = "fallback"
	LogKeyInterval  = "interval"
	LogKeyWidth     = "width"
	LogKeyHeight    = "height"
	LogKeyScale     = "scale"
	LogKeyAsset     = "asset"
	LogKeyServe     = "serve"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyPath      = "path"
	LogKeyTime      = "time"

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
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompEngine    = "engine"
	CompScheduler = "scheduler"
	CompRaster    = "raster"
	CompAssets    = "assets"
	CompServer    = "server"
	CompMain      = "main"
	CompI18n      = "i18n"
	CompConfig    = "config"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
