package ui

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-analogclock/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeExt    = ".json"
)

// SetupI18n builds the translation bundle from the embedded locales and selects
// the active language.
func (app *ClockApp) SetupI18n() {
	bundle, langs, err := loadLocales(localeFS, localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}
	app.I18nBundle = bundle
	app.SupportedLanguages = langs
	app.UpdateLocalizer()
}

// loadLocales registers every "active.<lang>.json" file of dir. Files that fail to
// parse are logged and left out of the returned language list.
func loadLocales(fsys fs.FS, dir string) (*i18n.Bundle, []string, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return bundle, nil, err
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		code, ok := localeCode(name)
		if !ok {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}
		if _, err := language.Parse(code); err != nil {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(fsys, path.Join(dir, name)); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
		)
		langs = append(langs, code)
	}
	return bundle, langs, nil
}

// localeCode extracts "fr" from "active.fr.json".
func localeCode(name string) (string, bool) {
	if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeExt) {
		return "", false
	}
	code := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeExt)
	return code, code != ""
}

// UpdateLocalizer refreshes the translator from the language preference,
// then the ANALOGCLOCK_LANG setting.
func (app *ClockApp) UpdateLocalizer() {
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, app.preferredLanguage(), config.DefaultLanguage)
}

func (app *ClockApp) preferredLanguage() string {
	if lang := app.Preferences.String(config.PrefLanguage); lang != "" {
		return lang
	}
	if app.Settings.Lang != "" {
		return app.Settings.Lang
	}
	return config.DefaultLanguage
}

// GetMsg translates key, returning the key itself when no translation exists.
func (app *ClockApp) GetMsg(key string) string {
	msg, err := app.localize(key, nil)
	if err != nil {
		return key
	}
	return msg
}

// localize renders key with data. Failures are logged at Debug level.
func (app *ClockApp) localize(key string, data map[string]interface{}) (string, error) {
	var msg string
	err := errors.New(config.ErrLocNotInit)
	if app.Localizer != nil {
		msg, err = app.Localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	}
	if err == nil && msg == "" {
		err = errors.New(config.MsgTransMissing)
	}
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return "", err
	}
	return msg, nil
}
