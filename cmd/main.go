package main

import (
	"errors"
	"os"
	"time"

	"tomato/internal/audio"
	"tomato/internal/config"
	"tomato/internal/core/tasks"
	"tomato/internal/core/timekeeper"
	"tomato/internal/logging"
	"tomato/internal/platform"
	"tomato/internal/storage"
	"tomato/internal/ui/preferences"
	"tomato/internal/ui/timerview"
	"tomato/internal/ui/todo"
	"tomato/internal/ui/tray"
	"tomato/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
)

const appName = "Tomato"

func main() {
	cfg, cfgErr := config.NewEnvReader().Read()
	if cfgErr != nil {
		cfg = config.Default()
	}
	logger := logging.New(cfg.Log, os.Stderr)
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("environment config rejected, using defaults")
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info().Err(err).Msg("another instance is running, asked it to show itself")
			return
		}
		logger.Fatal().Err(err).Msg("acquire single instance")
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(cfg.AppID)
	fyneApp.SetIcon(resources.Logo())

	configDir, err := storage.ResolveConfigDir(appName, cfg.ConfigDir)
	if err != nil {
		logger.Warn().Err(err).Msg("resolve config dir, settings will not persist")
	}
	settings := preferences.DefaultSettings()
	if configDir != "" {
		loaded, loadErr := storage.LoadSettings(configDir)
		if loadErr != nil {
			logger.Warn().Err(loadErr).Str("dir", configDir).Msg("load settings, using defaults")
		}
		settings = loaded
	}

	keeper := timekeeper.New(settings.TimeKeeperConfig(), timekeeper.Config{TickInterval: time.Second})
	list := tasks.New(storage.NewPreferencesStore(fyneApp.Preferences()), logger)
	player := audio.NewPlayer(settings.AudioConfig(), logger)

	todoWindow := todo.New(fyneApp, list, logger)
	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		player.UpdateConfig(settings.AudioConfig())
		if configDir == "" {
			return
		}
		if err := storage.SaveSettings(configDir, settings); err != nil {
			logger.Error().Err(err).Msg("save settings")
			return
		}
		logger.Info().Str("dir", configDir).Msg("settings saved")
	})

	var view *timerview.Window
	toggleMusic := func() {
		view.SetMusicActive(player.Toggle())
	}
	view = timerview.New(fyneApp, timerview.Callbacks{
		OnTogglePlay:  keeper.Start,
		OnReset:       keeper.Reset,
		OnSelectPhase: keeper.SwitchMode,
		OnToggleMusic: toggleMusic,
		OnShowTasks:   todoWindow.Show,
		OnPreferences: prefsWindow.Show,
	}, logger)

	quit := func() {
		keeper.Close()
		player.Close()
		fyneApp.Quit()
	}
	view.Window().SetCloseIntercept(quit)

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:        view.Show,
			OnTogglePlay:  keeper.Start,
			OnReset:       keeper.Reset,
			OnSelectPhase: keeper.SwitchMode,
			OnTasks:       todoWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnQuit:        quit,
		})
		desktopApp.SetSystemTrayIcon(resources.TomatoActive())
		trayManager.SetTaskProgress(list.Progress())
		list.OnChange(func([]tasks.Task) {
			done, total := list.Progress()
			trayManager.SetTaskProgress(done, total)
		})
	} else {
		logger.Info().Msg("system tray unsupported on this platform")
	}

	guard.OnActivate(func() {
		fyne.Do(view.Show)
	})

	go forwardEvents(keeper.Subscribe(8), view, trayManager, logger)

	view.Render(keeper.Snapshot())
	if trayManager != nil {
		trayManager.SetSnapshot(keeper.Snapshot())
	}
	view.SetFullscreen(settings.StartFullscreen)
	view.Show()
	fyneApp.Run()
}

// forwardEvents renders timer events on the UI thread until the keeper closes.
func forwardEvents(events <-chan timekeeper.Event, view *timerview.Window, trayManager *tray.Manager, logger zerolog.Logger) {
	for event := range events {
		if event.Type == timekeeper.EventPhaseComplete {
			logger.Info().
				Str("completed", string(event.Completed)).
				Str("next", string(event.Snapshot.Phase)).
				Int("cycles", event.Snapshot.CompletedCycles).
				Msg("phase complete")
		}
		snapshot := event.Snapshot
		fyne.Do(func() {
			view.Render(snapshot)
			if trayManager != nil {
				trayManager.SetSnapshot(snapshot)
			}
		})
	}
}
