package ui

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-analogclock/internal/assets"
	"github.com/tartampluch/go-analogclock/internal/config"
	"github.com/tartampluch/go-analogclock/internal/engine"
	"github.com/tartampluch/go-analogclock/internal/metrics"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockTray implements minimal system tray functionality for headless testing.
type MockTray struct {
	Menu *fyne.Menu
}

func (m *MockTray) SetSystemTrayMenu(menu *fyne.Menu) {
	m.Menu = menu
}

func (m *MockTray) SetSystemTrayIcon(icon fyne.Resource) {}
func (m *MockTray) SetSystemTrayWindow(w fyne.Window)    {}
func (m *MockTray) Run()                                 {}
func (m *MockTray) Quit()                                {}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

// fixedTime is 2024-01-15 10:30:00 UTC.
var fixedTime = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

// setupTestApp initializes a headless Fyne app around a clock frozen at fixedTime.
func setupTestApp(t *testing.T) (*ClockApp, *MockTray) {
	t.Helper()
	a := test.NewTempApp(t)

	set, err := engine.LoadAssets(assets.Default())
	require.NoError(t, err)

	settings := config.DefaultSettings()
	settings.Zone = "UTC"

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app, err := NewClockApp(a, ctx, Deps{
		Assets:   set,
		Metrics:  metrics.New(),
		Settings: settings,
		Clock:    clockwork.NewFakeClockAt(fixedTime),
	})
	require.NoError(t, err)
	t.Cleanup(app.Clock.Stop)
	t.Cleanup(app.stopServer)

	mockTray := &MockTray{}
	app.Tray = mockTray

	// Run() is skipped: load translations manually.
	app.SetupI18n()

	return app, mockTray
}

// -----------------------------------------------------------------------------
// Construction
// -----------------------------------------------------------------------------

func TestNewClockApp_MissingAssets(t *testing.T) {
	a := test.NewTempApp(t)
	app, err := NewClockApp(a, context.Background(), Deps{})
	assert.Nil(t, app)
	assert.ErrorIs(t, err, engine.ErrAssetUnavailable)
}

func TestNewClockApp_InitialState(t *testing.T) {
	app, _ := setupTestApp(t)

	assert.False(t, app.Clock.Running(), "clock starts detached")
	assert.Equal(t, "UTC", app.Clock.Zone())
	assert.Equal(t, "10:30", app.Clock.Description())
	assert.Equal(t, fyne.NewSize(76, 86), app.Face.MinSize())
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	app, _ := setupTestApp(t)

	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()
	assert.Equal(t, "Settings...", app.GetMsg(config.TKeyMenuSettings))

	app.Preferences.SetString(config.PrefLanguage, "fr")
	app.UpdateLocalizer()
	assert.Equal(t, "Paramètres...", app.GetMsg(config.TKeyMenuSettings))
}

func TestLocalization_SettingsLanguage(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Settings.Lang = "fr"
	app.UpdateLocalizer()
	assert.Equal(t, "Horloge analogique", app.GetMsg(config.TKeyWinTitle))
}

func TestLocalization_MissingKey(t *testing.T) {
	app, _ := setupTestApp(t)
	assert.Equal(t, "no_such_key", app.GetMsg("no_such_key"))
}

func TestDescribe(t *testing.T) {
	app, _ := setupTestApp(t)

	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()
	assert.Equal(t, "10:30 (UTC)", app.Describe())

	// Without a localizer the fallback format is used.
	app.Localizer = nil
	assert.Equal(t, "10:30 (UTC)", app.Describe())
}

// -----------------------------------------------------------------------------
// Timezone Preference Tests
// -----------------------------------------------------------------------------

func TestPreferredZone_Precedence(t *testing.T) {
	app, _ := setupTestApp(t)

	assert.Equal(t, "UTC", app.preferredZone(), "settings zone")

	app.Settings.Zone = ""
	assert.Equal(t, config.SystemZone, app.preferredZone(), "system zone")

	app.Preferences.SetString(config.PrefTimezone, "Asia/Tokyo")
	assert.Equal(t, "Asia/Tokyo", app.preferredZone(), "preference wins")
}

// TestZonePreference_Forwarded verifies a saved timezone reaches the running clock.
func TestZonePreference_Forwarded(t *testing.T) {
	app, _ := setupTestApp(t)
	app.watchPreferences()
	app.AttachClock()
	require.True(t, app.Clock.Running())

	app.Preferences.SetString(config.PrefTimezone, "Asia/Tokyo")

	assert.Eventually(t, func() bool { return app.Clock.Zone() == "Asia/Tokyo" }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "19:30", app.Clock.Description())
}

// TestZonePreference_InvalidFallsBack verifies an unknown zone shows UTC.
func TestZonePreference_InvalidFallsBack(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Preferences.SetString(config.PrefTimezone, "Europe/Paris")
	app.syncZone()
	require.Equal(t, "Europe/Paris", app.Clock.Zone())

	app.Preferences.SetString(config.PrefTimezone, "Not/AZone")
	app.syncZone()
	assert.Equal(t, "UTC", app.Clock.Zone())
}

// TestAttachClock_AppliesPendingZone covers a zone saved while the clock was detached.
func TestAttachClock_AppliesPendingZone(t *testing.T) {
	app, _ := setupTestApp(t)

	app.Preferences.SetString(config.PrefTimezone, "America/New_York")
	app.AttachClock()

	assert.Equal(t, "America/New_York", app.Clock.Zone())
	assert.Equal(t, "05:30", app.Clock.Description())

	app.DetachClock()
	assert.False(t, app.Clock.Running())
}

// -----------------------------------------------------------------------------
// Tray Tests
// -----------------------------------------------------------------------------

func TestTrayMenu(t *testing.T) {
	app, mockTray := setupTestApp(t)
	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()
	app.setupTrayMenu()

	require.NotNil(t, mockTray.Menu)
	assert.Equal(t, "10:30 (UTC)", app.TrayStatusItem.Label)
	assert.True(t, app.TrayStatusItem.Disabled)
	assert.Equal(t, "Resume ticking", app.TrayToggleItem.Label)

	app.AttachClock()
	assert.Equal(t, "Pause ticking", app.TrayToggleItem.Label)

	app.TrayToggleItem.Action()
	assert.False(t, app.Clock.Running())
	assert.Equal(t, "Resume ticking", app.TrayToggleItem.Label)
}

func TestTrayMenu_Relocalized(t *testing.T) {
	app, _ := setupTestApp(t)
	app.setupTrayMenu()

	app.Preferences.SetString(config.PrefLanguage, "fr")
	app.UpdateLocalizer()
	app.RefreshTrayMenu()

	assert.Equal(t, "Paramètres...", app.TraySettingsItem.Label)
	assert.Equal(t, "Afficher l'horloge", app.TrayShowItem.Label)
}

// -----------------------------------------------------------------------------
// Clock Widget Tests
// -----------------------------------------------------------------------------

// TestClockWidget_Draw paints a HiDPI frame and checks the sink receives it.
func TestClockWidget_Draw(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Face.Resize(fyne.NewSize(76, 86))

	var gotDesc string
	var gotBounds image.Rectangle
	app.Face.SetFrameSink(func(img image.Image, description string) {
		gotDesc = description
		gotBounds = img.Bounds()
	})

	img := app.Face.draw(152, 172)

	assert.Equal(t, image.Rect(0, 0, 152, 172), img.Bounds())
	assert.Equal(t, image.Rect(0, 0, 152, 172), gotBounds)
	assert.Equal(t, "10:30", gotDesc)

	// Engine geometry is in logical units.
	assert.Equal(t, 1.0, app.Clock.Geometry().Scale)
	assert.Equal(t, 38.0, app.Clock.Geometry().CenterX)

	_, _, _, alpha := img.At(76, 86).RGBA()
	assert.NotZero(t, alpha, "face center must be painted")
}

// TestClockWidget_Shrinks paints into a viewport smaller than the dial.
func TestClockWidget_Shrinks(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Face.Resize(fyne.NewSize(38, 43))

	img := app.Face.draw(38, 43)

	assert.Equal(t, image.Rect(0, 0, 38, 43), img.Bounds())
	assert.InDelta(t, 0.5, app.Clock.Geometry().Scale, 1e-9)
}

// TestClockWidget_DegenerateSkipsSink ensures an empty viewport publishes nothing.
func TestClockWidget_DegenerateSkipsSink(t *testing.T) {
	app, _ := setupTestApp(t)

	called := false
	app.Face.SetFrameSink(func(image.Image, string) { called = true })
	app.Face.draw(0, 0)

	assert.False(t, called)
}

// -----------------------------------------------------------------------------
// Snapshot Server Tests
// -----------------------------------------------------------------------------

func TestServerPrefs(t *testing.T) {
	app, _ := setupTestApp(t)

	app.applyServerPrefs()
	assert.False(t, app.ServerRunning(), "disabled by default")

	app.Preferences.SetBool(config.PrefServerEnabled, true)
	app.Preferences.SetString(config.PrefServerPort, "18097")
	app.applyServerPrefs()
	assert.True(t, app.ServerRunning())

	// Frames are published while the server runs.
	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	frame.Set(1, 1, color.Black)
	app.publishFrame(frame, "10:30")

	app.Preferences.SetBool(config.PrefServerEnabled, false)
	app.applyServerPrefs()
	assert.False(t, app.ServerRunning())
}

// -----------------------------------------------------------------------------
// Settings Window Tests
// -----------------------------------------------------------------------------

func TestSettings_Save(t *testing.T) {
	app, _ := setupTestApp(t)
	app.watchPreferences()

	sw := app.newSettingsWidgets()
	assert.True(t, sw.systemZone.Checked, "no saved zone means system zone")
	assert.True(t, sw.zoneEntry.Disabled())

	sw.systemZone.SetChecked(false)
	sw.zoneEntry.SetText(" Europe/Paris ")
	sw.langSelect.SetSelected("fr")
	sw.entryPort.SetText("18096")

	app.saveSettings(sw)

	assert.Equal(t, "Europe/Paris", app.Preferences.String(config.PrefTimezone))
	assert.Equal(t, "fr", app.Preferences.String(config.PrefLanguage))
	assert.Equal(t, "18096", app.Preferences.String(config.PrefServerPort))
	assert.False(t, app.Preferences.Bool(config.PrefServerEnabled))
	assert.Eventually(t, func() bool { return app.Clock.Zone() == "Europe/Paris" }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Horloge analogique", app.GetMsg(config.TKeyWinTitle))
}

func TestSettings_SystemZoneClearsPreference(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Preferences.SetString(config.PrefTimezone, "Asia/Tokyo")

	sw := app.newSettingsWidgets()
	assert.False(t, sw.systemZone.Checked)
	assert.Equal(t, "Asia/Tokyo", sw.zoneEntry.Text)

	sw.systemZone.SetChecked(true)
	app.saveSettings(sw)

	assert.Empty(t, app.Preferences.String(config.PrefTimezone))
}

func TestSettings_Validators(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()
	sw := app.newSettingsWidgets()

	tests := []struct {
		port    string
		wantErr string
	}{
		{"8080", ""},
		{"", "Port is required"},
		{"70000", "Port must be between 1 and 65535"},
		{"0", "Port must be between 1 and 65535"},
	}
	for _, tt := range tests {
		err := sw.entryPort.Validator(tt.port)
		if tt.wantErr == "" {
			assert.NoError(t, err, tt.port)
		} else {
			assert.EqualError(t, err, tt.wantErr, tt.port)
		}
	}

	assert.NoError(t, sw.zoneEntry.Validator("Europe/Paris"))
	assert.NoError(t, sw.zoneEntry.Validator(""))
	assert.ErrorIs(t, sw.zoneEntry.Validator("Mars/Base"), engine.ErrInvalidZone)
}

func TestSettingsWindow_SingleInstance(t *testing.T) {
	app, _ := setupTestApp(t)

	app.ShowSettingsWindow()
	first := app.SettingsWindow
	require.NotNil(t, first)

	app.ShowSettingsWindow()
	assert.Equal(t, first, app.SettingsWindow)

	first.Close()
	assert.Nil(t, app.SettingsWindow)
}
