package ui

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/tartampluch/go-analogclock/internal/config"
	"github.com/tartampluch/go-analogclock/internal/engine"
	"github.com/tartampluch/go-analogclock/internal/metrics"
	"github.com/tartampluch/go-analogclock/internal/server"
)

// Deps groups what the UI needs from main.
type Deps struct {
	Assets   engine.AssetSet
	Icon     []byte
	Metrics  *metrics.Metrics
	Settings config.Settings

	// Clock is the time source. nil means the real clock.
	Clock engine.Clock
}

// ClockApp encapsulates the UI state, preferences, and the clock engine.
type ClockApp struct {
	App            fyne.App
	Window         fyne.Window
	SettingsWindow fyne.Window
	Preferences    fyne.Preferences
	I18nBundle     *i18n.Bundle
	Localizer      *i18n.Localizer
	Ctx            context.Context

	Clock     *engine.AnalogClock
	Face      *ClockWidget
	DescLabel *widget.Label
	Metrics   *metrics.Metrics
	Settings  config.Settings

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayShowItem     *fyne.MenuItem
	TrayToggleItem   *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string

	// server is nil while the snapshot server is disabled.
	server       atomic.Pointer[server.SnapshotServer]
	serverMu     sync.Mutex
	serverCancel context.CancelFunc
	serverDone   chan struct{}

	zoneMu      sync.Mutex
	appliedZone string
	lastStatus  string
}

// NewClockApp constructs the application and wires the engine to the UI.
func NewClockApp(a fyne.App, ctx context.Context, deps Deps) (*ClockApp, error) {
	if len(deps.Icon) > 0 {
		a.SetIcon(fyne.NewStaticResource(config.IconFile, deps.Icon))
	}

	app := &ClockApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Metrics:            deps.Metrics,
		Settings:           deps.Settings,
		SupportedLanguages: config.SupportedLanguages,
	}

	var rec engine.Recorder
	if deps.Metrics != nil {
		rec = deps.Metrics
	}

	zone := app.preferredZone()
	loc, err := engine.LoadZone(zone)
	if err != nil {
		slog.Warn(config.MsgZoneFallback,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyZone, zone,
			config.LogKeyFallback, config.FallbackZone,
		)
	}

	clock, err := engine.New(deps.Assets, engine.Options{
		Clock:    deps.Clock,
		Location: loc,
		Redraw:   app.requestRedraw,
		Recorder: rec,
	})
	if err != nil {
		return nil, err
	}
	app.Clock = clock
	app.appliedZone = zone

	app.Face = NewClockWidget(clock)
	app.Face.SetFrameSink(app.publishFrame)
	app.DescLabel = widget.NewLabel(clock.Description())
	app.DescLabel.Alignment = fyne.TextAlignCenter

	return app, nil
}

// Run launches the application services and the main UI loop.
func (app *ClockApp) Run() {
	app.SetupI18n()
	app.watchPreferences()
	app.applyServerPrefs()

	app.buildWindow()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.ShowClock()
	app.App.Run()

	app.Clock.Stop()
	app.stopServer()
}

// buildWindow creates the clock window. Closing it detaches the clock, which
// stops the refresh timer until the window is shown again.
func (app *ClockApp) buildWindow() {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	w.SetContent(container.NewBorder(nil, app.DescLabel, nil, nil, container.NewPadded(app.Face)))
	w.SetCloseIntercept(func() {
		if app.Tray == nil {
			w.Close()
			return
		}
		w.Hide()
		app.DetachClock()
	})
	app.Window = w
}

// ShowClock shows the clock window and attaches the clock.
func (app *ClockApp) ShowClock() {
	if app.Window == nil {
		app.buildWindow()
	}
	app.Window.Show()
	app.AttachClock()
}

// AttachClock starts the engine and resynchronizes with the current zone preference.
func (app *ClockApp) AttachClock() {
	app.syncZone()
	app.Clock.Start()
	slog.Debug(config.MsgClockAttached, config.LogKeyComponent, config.CompUI)
	app.refreshToggle()
}

// DetachClock stops the engine.
func (app *ClockApp) DetachClock() {
	app.Clock.Stop()
	slog.Debug(config.MsgClockDetached, config.LogKeyComponent, config.CompUI)
	app.refreshToggle()
}

// requestRedraw is the engine redraw hook. It may run off the main goroutine
// and must not block.
func (app *ClockApp) requestRedraw() {
	fyne.Do(func() {
		app.Face.Refresh()
		app.updateStatus()
	})
}

// publishFrame forwards painted frames to the snapshot server when it is running.
func (app *ClockApp) publishFrame(img image.Image, description string) {
	srv := app.server.Load()
	if srv == nil {
		return
	}
	if err := srv.UpdateImage(img, description); err != nil {
		slog.Error(config.ErrPNGEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
	}
}

// watchPreferences forwards timezone preference changes to the clock.
func (app *ClockApp) watchPreferences() {
	app.Preferences.AddChangeListener(app.syncZone)
}

// syncZone applies the zone preference when it differs from the one in use.
func (app *ClockApp) syncZone() {
	zone := app.preferredZone()

	app.zoneMu.Lock()
	if zone == app.appliedZone {
		app.zoneMu.Unlock()
		return
	}
	app.appliedZone = zone
	app.zoneMu.Unlock()

	slog.Info(config.MsgPrefZoneForward,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyZone, zone,
	)
	app.Clock.OnTimezoneChanged(zone)
}

// preferredZone resolves the zone to display: the saved preference first, then the
// runtime settings, then the system zone.
func (app *ClockApp) preferredZone() string {
	if zone := app.Preferences.String(config.PrefTimezone); zone != "" {
		return zone
	}
	if app.Settings.Zone != "" {
		return app.Settings.Zone
	}
	return config.SystemZone
}

// setupTrayMenu constructs the system tray menu.
func (app *ClockApp) setupTrayMenu() {
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, nil)
	app.TrayStatusItem.Disabled = true

	app.TrayShowItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuShow), func() {
		app.ShowClock()
	})

	app.TrayToggleItem = fyne.NewMenuItem(app.toggleLabel(), func() {
		if app.Clock.Running() {
			app.DetachClock()
		} else {
			app.AttachClock()
		}
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayShowItem,
		app.TrayToggleItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
	app.updateStatus()
}

// RefreshTrayMenu updates localized labels in the tray menu and window.
func (app *ClockApp) RefreshTrayMenu() {
	if app.Window != nil {
		app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	}
	app.lastStatus = ""
	app.updateStatus()

	if app.Menu == nil {
		return
	}
	app.TrayShowItem.Label = app.GetMsg(config.TKeyMenuShow)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.TrayToggleItem.Label = app.toggleLabel()
	app.Menu.Refresh()
}

func (app *ClockApp) toggleLabel() string {
	if app.Clock.Running() {
		return app.GetMsg(config.TKeyMenuStop)
	}
	return app.GetMsg(config.TKeyMenuStart)
}

func (app *ClockApp) refreshToggle() {
	if app.Menu == nil || app.TrayToggleItem == nil {
		return
	}
	app.TrayToggleItem.Label = app.toggleLabel()
	app.Menu.Refresh()
}

// updateStatus refreshes the accessible description shown under the face and in the tray.
// It only touches widgets when the text changed, which happens once a minute.
func (app *ClockApp) updateStatus() {
	desc := app.Describe()
	if desc == app.lastStatus {
		return
	}
	app.lastStatus = desc

	if app.DescLabel != nil {
		app.DescLabel.SetText(desc)
	}
	if app.Menu != nil && app.TrayStatusItem != nil {
		app.TrayStatusItem.Label = desc
		app.Menu.Refresh()
	}
}

// Describe returns the localized accessible description of the current time.
func (app *ClockApp) Describe() string {
	hhmm := app.Clock.Description()
	zone := app.Clock.Zone()

	data := map[string]interface{}{"Time": hhmm, "Zone": zone}
	if msg, err := app.localize(config.TKeyClockDesc, data); err == nil {
		return msg
	}
	return fmt.Sprintf(config.FallbackDescription, hhmm, zone)
}

// applyServerPrefs starts, restarts or stops the snapshot server to match preferences.
func (app *ClockApp) applyServerPrefs() {
	enabled := app.Preferences.BoolWithFallback(config.PrefServerEnabled, app.Settings.Serve)
	port := app.Preferences.StringWithFallback(config.PrefServerPort, app.Settings.Port)

	app.serverMu.Lock()
	defer app.serverMu.Unlock()

	if cur := app.server.Load(); cur != nil && enabled && cur.Port == port {
		return
	}
	app.stopServerLocked()
	if !enabled {
		return
	}

	srv := server.NewSnapshotServer(port, app.metricsHandler())
	ctx, cancel := context.WithCancel(app.Ctx)
	done := make(chan struct{})

	app.server.Store(srv)
	app.serverCancel = cancel
	app.serverDone = done

	go func() {
		defer close(done)
		if err := srv.Start(ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, srv.Port)))
		}
	}()
}

// ServerRunning reports whether the snapshot server is enabled.
func (app *ClockApp) ServerRunning() bool {
	return app.server.Load() != nil
}

func (app *ClockApp) stopServer() {
	app.serverMu.Lock()
	defer app.serverMu.Unlock()
	app.stopServerLocked()
}

// stopServerLocked waits for the listener to be released so the port can be reused.
func (app *ClockApp) stopServerLocked() {
	if app.serverCancel == nil {
		return
	}
	app.serverCancel()
	<-app.serverDone
	app.serverCancel = nil
	app.serverDone = nil
	app.server.Store(nil)
}

func (app *ClockApp) metricsHandler() http.Handler {
	if app.Metrics == nil {
		return nil
	}
	return app.Metrics.Handler()
}
