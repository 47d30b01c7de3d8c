package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tartampluch/go-analogclock/internal/config"
	"github.com/tartampluch/go-analogclock/internal/engine"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect  *widget.Select
	zoneEntry   *widget.SelectEntry
	systemZone  *widget.Check
	serverCheck *widget.Check
	entryPort   *NumericalEntry
}

// ShowSettingsWindow displays the configuration dialog.
func (app *ClockApp) ShowSettingsWindow() {
	if app.SettingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.SettingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.SettingsWindow = w

	sw := app.newSettingsWidgets()

	// --- Actions ---
	saveAction := func() {
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewVBox(
		app.buildClockCard(sw),
		app.buildServerCard(sw),
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.SettingsWindow = nil })
	w.Show()
}

// newSettingsWidgets builds the form controls pre-filled from preferences.
func (app *ClockApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.preferredLanguage())

	sw.zoneEntry = widget.NewSelectEntry(config.CommonZones)
	sw.zoneEntry.SetText(app.Preferences.String(config.PrefTimezone))
	sw.zoneEntry.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		_, err := engine.LoadZone(s)
		return err
	}

	sw.systemZone = widget.NewCheck(app.GetMsg(config.TKeyLblSystemZone), func(on bool) {
		if on {
			sw.zoneEntry.Disable()
		} else {
			sw.zoneEntry.Enable()
		}
	})
	sw.systemZone.SetChecked(app.Preferences.String(config.PrefTimezone) == "")

	sw.serverCheck = widget.NewCheck(app.GetMsg(config.TKeyLblServer), nil)
	sw.serverCheck.SetChecked(app.Preferences.BoolWithFallback(config.PrefServerEnabled, app.Settings.Serve))

	// Port: numerical only, with strict validation (range 1-65535).
	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, app.Settings.Port))
	sw.entryPort.Validator = func(s string) error {
		switch err := config.ValidatePort(s); {
		case err == nil:
			return nil
		case err.Error() == config.ErrPortRequired:
			return errors.New(app.GetMsg(config.TKeyErrPortReq))
		case err.Error() == config.ErrPortNumber:
			return errors.New(app.GetMsg(config.TKeyErrPortNum))
		default:
			return errors.New(app.GetMsg(config.TKeyErrPortRange))
		}
	}

	return sw
}

// buildClockCard groups language and timezone.
func (app *ClockApp) buildClockCard(sw *settingsWidgets) *widget.Card {
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemZone := widget.NewFormItem(app.GetMsg(config.TKeyLblTimezone), container.NewVBox(sw.systemZone, sw.zoneEntry))
	itemZone.HintText = app.GetMsg(config.TKeyHelpTimezone)

	return widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemZone))
}

// buildServerCard groups the snapshot server switch and port.
func (app *ClockApp) buildServerCard(sw *settingsWidgets) *widget.Card {
	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	return widget.NewCard("", "", container.NewVBox(sw.serverCheck, widget.NewForm(itemPort)))
}

// saveSettings persists the form. The timezone preference change reaches the clock
// through the preference listener, like a system timezone broadcast.
func (app *ClockApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSettingsSaved, config.LogKeyComponent, config.CompUISet)

	zone := ""
	if !sw.systemZone.Checked {
		zone = strings.TrimSpace(sw.zoneEntry.Text)
	}

	app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	app.Preferences.SetBool(config.PrefServerEnabled, sw.serverCheck.Checked)
	if sw.entryPort.Text != "" {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}
	app.Preferences.SetString(config.PrefTimezone, zone)

	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	app.applyServerPrefs()
}
