package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2/app"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tartampluch/go-analogclock/internal/assets"
	"github.com/tartampluch/go-analogclock/internal/config"
	"github.com/tartampluch/go-analogclock/internal/engine"
	"github.com/tartampluch/go-analogclock/internal/metrics"
	"github.com/tartampluch/go-analogclock/internal/raster"
	"github.com/tartampluch/go-analogclock/internal/ui"
)

// options are the parsed command line flags.
type options struct {
	debug    bool
	snapshot string
	size     string
	zone     string
}

// main delegates to runMain so that deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	var opts options
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	flag.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	flag.StringVar(&opts.snapshot, config.FlagSnapshot, "", config.FlagDescSnapshot)
	flag.StringVar(&opts.size, config.FlagSize, "", config.FlagDescSize)
	flag.StringVar(&opts.zone, config.FlagZone, "", config.FlagDescZone)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run loads settings and assets, then either writes a snapshot or starts the UI.
func run(ctx context.Context, opts options) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if opts.zone != "" {
		settings.Zone = opts.zone
	}
	slog.Info(config.MsgSettingsLoaded,
		config.LogKeyComponent, config.CompConfig,
		config.LogKeyZone, settings.Zone,
		config.LogKeyPort, settings.Port,
		config.LogKeyServe, settings.Serve,
		config.LogKeyLang, settings.Lang,
	)

	provider := assets.Default()
	if err := provider.Preload(ctx); err != nil {
		return err
	}
	set, err := engine.LoadAssets(provider)
	if err != nil {
		return err
	}

	if opts.snapshot != "" {
		return writeSnapshot(opts.snapshot, opts.size, settings.Zone, set, nil)
	}
	return runGUI(ctx, opts, settings, provider, set)
}

// runGUI initializes the Fyne application, wires dependencies, and starts the UI loop.
func runGUI(ctx context.Context, opts options, settings config.Settings, provider *assets.Provider, set engine.AssetSet) error {
	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	// An explicit -zone becomes the saved preference.
	if opts.zone != "" {
		a.Preferences().SetString(config.PrefTimezone, opts.zone)
	}

	icon, err := provider.Icon()
	if err != nil {
		slog.Warn(config.ErrAssetUnavailable,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyAsset, config.IconFile,
			config.LogKeyError, err,
		)
	}

	gui, err := ui.NewClockApp(a, ctx, ui.Deps{
		Assets:   set,
		Icon:     icon,
		Metrics:  metrics.New(),
		Settings: settings,
	})
	if err != nil {
		return err
	}

	// Lifecycle Bridge: quit the UI when the context is cancelled.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()
	return nil
}

// writeSnapshot renders a single frame of the clock in zone to a PNG file.
// An empty size renders at the intrinsic dial size. A nil clock reads the wall clock.
func writeSnapshot(path, size, zone string, set engine.AssetSet, clock engine.Clock) error {
	// An empty zone keeps the system zone.
	var loc *time.Location
	if zone != "" {
		var err error
		if loc, err = engine.LoadZone(zone); err != nil {
			slog.Warn(config.MsgZoneFallback,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyZone, zone,
				config.LogKeyFallback, config.FallbackZone,
				config.LogKeyError, err,
			)
		}
	}

	c, err := engine.New(set, engine.Options{Clock: clock, Location: loc})
	if err != nil {
		return err
	}

	w, h := c.IntrinsicSize()
	width, height := int(w), int(h)
	if size != "" {
		if width, height, err = parseSize(size); err != nil {
			return err
		}
	}

	canvas := raster.New(width, height)
	c.OnViewportResized(float64(width), float64(height))
	if !c.Render(canvas) {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, engine.ErrDegenerateViewport)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	if err := png.Encode(f, canvas.Image()); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", config.ErrPNGEncode, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}

	slog.Info(config.MsgSnapshotWritten,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyPath, path,
		config.LogKeyTime, c.Description(),
		config.LogKeyZone, c.Zone(),
	)
	return nil
}

// parseSize reads WIDTHxHEIGHT.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), config.SizeSeparator)
	if !ok {
		return 0, 0, errors.New(config.ErrSizeFormat)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, errors.New(config.ErrSizeFormat)
	}
	return w, h, nil
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger: JSON to stdout, plus a
// size-rotated file in the user cache directory when one is available.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}

	var rotator *lumberjack.Logger
	if logPath, err := getLogFilePath(); err == nil {
		rotator = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    config.LogMaxSizeMB,
			MaxBackups: config.LogMaxBackups,
			MaxAge:     config.LogMaxAgeDays,
		}
		writers = append(writers, rotator)
	} else {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, config.LogFileName, err)
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if rotator == nil {
		return nil
	}
	return rotator
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
