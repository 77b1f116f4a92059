package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"polio-eradicator/internal/config"
	"polio-eradicator/internal/controllers"
	"polio-eradicator/internal/logger"
	"polio-eradicator/internal/mapview"
	"polio-eradicator/internal/models"
	"polio-eradicator/internal/services"
	"polio-eradicator/internal/shutdown"
	"polio-eradicator/internal/timing"
	"polio-eradicator/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Polio Eradicator"
	AppID      = "org.polioeradicator.map"
	AppVersion = "1.0.0"

	tileTimeout = 20 * time.Second
)

// newFyneApp is replaced in tests, which must not open a window.
var newFyneApp = func() fyne.App {
	return app.NewWithID(AppID)
}

// Application holds the wired components for one run.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  *logger.ZerologAdapter
	config  config.Config

	controller *controllers.MainController
	view       *views.MainView

	dataset *models.Dataset
	index   *models.YearIndex

	shutdown *shutdown.Manager
	timings  *timing.Tracker
	running  atomic.Bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	appLogger := cfg.NewLogger()

	application, err := NewApplication(cfg, appLogger)
	if err != nil {
		appLogger.Error("startup failed", err, map[string]interface{}{
			"data_path": cfg.DataPath,
		})
		os.Exit(1)
	}

	application.Run()
	appLogger.Info("application terminated", nil)
}

// NewApplication loads the dataset before any window exists, so a data
// fault never shows a half-built UI.
func NewApplication(cfg config.Config, appLogger *logger.ZerologAdapter) (*Application, error) {
	appLogger.Info("application starting", map[string]interface{}{
		"version":     AppVersion,
		"go_version":  runtime.Version(),
		"log_level":   cfg.LogLevel.String(),
		"year_policy": cfg.YearPolicy,
	})

	datasets := services.NewDatasetService(appLogger.With("dataset"), services.IndexOptions{
		MaxMarkerSize: cfg.MaxMarkerSize,
		Policy:        services.YearPolicy(cfg.YearPolicy),
	})
	timings := timing.NewTracker(appLogger.With("timing"))
	stop := timings.Start("dataset_load")
	ds, ix, err := datasets.LoadIndex(cfg.DataPath)
	stop()
	if err != nil {
		return nil, err
	}

	fyneApp := newFyneApp()
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	window.CenterOnScreen()

	mainView := views.NewMainView(window)
	mapWidget := mainView.Map()
	mapWidget.SetTileLayer(mapview.TileLayer{
		URLTemplate: cfg.TileURL,
		Subdomains:  cfg.TileSubdomains,
		NoWrap:      true,
	})
	mapWidget.SetView(models.LatLng{Lat: cfg.CenterLat, Lng: cfg.CenterLng}, cfg.Zoom)
	mapWidget.AddLayerGroup(controllers.IncidentGroup)

	snapshots := services.NewSnapshotService(appLogger.With("snapshot"), cfg.MaxMarkerSize)
	mainController := controllers.NewMainController(snapshots, appLogger.With("controller"))
	mainController.SetMainView(mainView)
	mainController.Install(ds, ix)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		config:     cfg,
		controller: mainController,
		view:       mainView,
		dataset:    ds,
		index:      ix,
		shutdown:   shutdown.NewManager(appLogger.With("shutdown")),
		timings:    timings,
	}

	application.shutdown.Register(timings)
	application.shutdown.Register(mainController)
	application.shutdown.Register(shutdown.ShutdownFunc(func() {
		// A signal arrived while the event loop is still up.
		if application.running.Load() {
			fyne.Do(fyneApp.Quit)
		}
	}))
	application.setupWindowEvents()

	stats := ix.Stats()
	appLogger.Info("application initialized", map[string]interface{}{
		"countries":  ds.Len(),
		"years":      stats.Years,
		"min_year":   stats.MinYear,
		"max_year":   stats.MaxYear,
		"high_value": stats.HighValue,
		"markers":    stats.Markers,
	})

	return application, nil
}

// Run shows the window and blocks until the event loop ends.
func (app *Application) Run() {
	app.shutdown.Listen()
	app.loadTiles()

	app.window.Show()
	app.running.Store(true)
	app.fyneApp.Run()
	app.running.Store(false)

	app.shutdown.Shutdown()
}

func (app *Application) loadTiles() {
	if !app.config.TilesEnabled {
		app.logger.Info("tile download disabled", nil)
		return
	}

	fetcher := mapview.NewTileFetcher(
		mapview.TileLayer{
			URLTemplate: app.config.TileURL,
			Subdomains:  app.config.TileSubdomains,
			NoWrap:      true,
		},
		&http.Client{Timeout: tileTimeout},
		app.logger.With("tiles"),
	)

	stop := app.timings.Start("tile_download")
	app.view.Map().LoadTiles(app.shutdown.Context(), fetcher, func(err error) {
		stop()
		if err != nil {
			app.logger.Warning("base map incomplete", map[string]interface{}{
				"error": err.Error(),
			})
			app.view.UpdateStatus("Base map unavailable, markers only")
			return
		}
		app.logger.Debug("base map loaded", nil)
	})
}

func (app *Application) setupWindowEvents() {
	app.window.SetCloseIntercept(func() {
		app.logger.Info("window close requested", nil)
		app.view.ShowConfirm(
			"Exit Application",
			"Are you sure you want to exit?",
			func(confirmed bool) {
				if confirmed {
					app.window.Close()
				}
			},
		)
	})

	app.window.SetOnClosed(func() {
		app.logger.Info("window closed", nil)
	})
}
