package main

import (
	"flag"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"servihogar/internal/config"
	repository "servihogar/internal/database"
	"servihogar/internal/http-server/api"
	"servihogar/internal/lib/logger"
	"servihogar/internal/lib/sl"
	"servihogar/internal/service/alert"
	"servihogar/internal/service/auth"
	"servihogar/internal/service/blob"
	"servihogar/internal/service/geocode"
	"servihogar/internal/service/jobstore"
	"servihogar/internal/wizard"
	"servihogar/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Forward error-level records to the admin chat if enabled
	if conf.Telegram.Enabled {
		alerts, err := alert.NewAlertService(conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize alert service", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, alerts, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("alert service initialized")
		}
	}

	lg.Info("starting servihogar", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	registry, err := wizard.LoadRegistry()
	if err != nil {
		lg.Error("loading vertical schemas", sl.Err(err))
		return
	}
	lg.With(
		slog.Any("verticals", registry.Verticals()),
	).Info("vertical schemas loaded")

	var slot wizard.Slot
	var blobRepo blob.Repository

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		slot = db
		blobRepo = db
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		dataFs := afero.NewBasePathFs(afero.NewOsFs(), conf.Files.StagingDir)
		slot = repository.NewFileSlot(afero.NewBasePathFs(dataFs, "/slots"))
		blobRepo = repository.NewFileBlob(afero.NewBasePathFs(dataFs, "/blobs"))
		lg.With(
			slog.String("dir", conf.Files.StagingDir),
		).Info("file-backed storage initialized")
	}

	blobService := blob.NewBlobService(blobRepo, conf.Files.SignSecret, lg)
	jobStore := jobstore.NewJobStoreService(conf.JobStore.BaseURL, conf.JobStore.ApiKey, lg)
	geocoder := geocode.NewGeocodeService(conf.Geocode.BaseURL, lg)
	authService := auth.NewAuthService(conf.Auth.JwtSecret, lg)

	hub := ws.NewHub(lg)
	go hub.Run()

	staging := afero.NewBasePathFs(afero.NewOsFs(), conf.Files.StagingDir)
	if err := staging.MkdirAll("/", 0o755); err != nil {
		lg.Error("creating staging dir", sl.Err(err))
	}

	engine := wizard.NewEngine(registry, slot, blobService, jobStore, staging, hub, wizard.Options{
		CountdownSeconds: conf.Wizard.CountdownSeconds,
		EmergencyOffset:  time.Duration(conf.Wizard.EmergencyOffsetH) * time.Hour,
		DefaultOffset:    time.Duration(conf.Wizard.DefaultOffsetH) * time.Hour,
		URLTTL:           time.Duration(conf.Files.TTLHours) * time.Hour,
	}, lg)

	// *** blocking start with http server ***
	err = api.New(conf, lg, engine, blobService, authService, geocoder, hub, staging)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
