package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/seed"
	"github.com/toshikazuyokoi/process-interview-backend/internal/db"
	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/jobs"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
	"github.com/toshikazuyokoi/process-interview-backend/internal/realtime"
	"github.com/toshikazuyokoi/process-interview-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Rooms    *realtime.RoomManager
	reaper   *jobs.Reaper
	cancel   context.CancelFunc
}

// sessionReader defers the room manager's read collaborator until services
// are wired; the manager is constructed before the interview service.
type sessionReader struct {
	interviews services.InterviewService
}

func (r *sessionReader) SessionStatus(ctx context.Context, sessionID string, userID int64) (interview.SessionStatus, error) {
	if r.interviews == nil {
		return "", interview.InternalError("Service unavailable")
	}
	return r.interviews.SessionStatus(ctx, sessionID, userID)
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := pg.DB()

	reader := &sessionReader{}
	rooms := realtime.NewRoomManager(log, reader)

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, rooms)
	if err != nil {
		log.Sync()
		return nil, err
	}
	reader.interviews = serviceset.Interview

	handlerset := wireHandlers(log, serviceset, rooms)
	middleware := wireMiddleware(log, cfg)
	router := wireRouter(handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Rooms:    rooms,
	}, nil
}

func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	loader := seed.NewLoader(a.Log, a.Repos.ProcessType, a.Repos.BestPractice, a.Repos.IndustryTemplate)
	if err := loader.Apply(ctx, a.Cfg.SeedPath); err != nil {
		a.Log.Warn("Knowledge seed failed", "error", err)
	}

	if a.Services.Bus != nil {
		if err := services.StartBusForwarder(ctx, a.Services.Bus, a.Rooms, a.Log); err != nil {
			return fmt.Errorf("start bus forwarder: %w", err)
		}
	}

	a.reaper = jobs.NewReaper(a.Log, a.Services.Interview, a.Cfg.ReaperSchedule, a.Cfg.SessionRetention)
	if err := a.reaper.Start(ctx); err != nil {
		return fmt.Errorf("start session reaper: %w", err)
	}
	return nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.reaper != nil {
		a.reaper.Stop()
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Bus != nil {
		a.Services.Bus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
