package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shagtracker/shagbot/internal/bot"
	"github.com/shagtracker/shagbot/internal/config"
	"github.com/shagtracker/shagbot/internal/db"
	"github.com/shagtracker/shagbot/internal/gateway"
	"github.com/shagtracker/shagbot/internal/repository"
	"github.com/shagtracker/shagbot/internal/service"
	"github.com/shagtracker/shagbot/internal/sweep"
	"github.com/shagtracker/shagbot/internal/wizard"
)

type App struct {
	Cfg     *config.Config
	DB      *sqlx.DB
	Router  *bot.Router
	Sweeper *sweep.Sweeper
	Stats   repository.StatsRepository
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	stepRepository := repository.NewStepRepository(database)
	ideaRepository := repository.NewIdeaRepository(database)
	statsRepository := repository.NewStatsRepository(database)

	// Services
	userService := service.NewUserService(userRepository)
	goalService := service.NewGoalService(goalRepository, stepRepository)
	ideaService := service.NewIdeaService(ideaRepository)

	// Outbound messaging
	tg, err := gateway.NewTelegram(cfg.BotToken, cfg.SendTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot gateway: %v", err)
	}

	engine := wizard.New(goalService)
	router := bot.NewRouter(userService, goalService, ideaService, engine, tg, cfg.WebAppURL, cfg.AdminChatID)
	sweeper := sweep.New(goalRepository, userRepository, tg, cfg.WebAppURL, cfg.SendTimeout, cfg.SweepInterval)

	return &App{
		Cfg:     cfg,
		DB:      database,
		Router:  router,
		Sweeper: sweeper,
		Stats:   statsRepository,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
